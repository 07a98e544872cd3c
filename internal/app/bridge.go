package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/example/folio/internal/core/effects"
	"github.com/example/folio/internal/core/item"
	"github.com/example/folio/internal/core/library"
	"github.com/example/folio/internal/core/zone"
	"github.com/example/folio/internal/ports/primary"
)

// LibraryBridge holds the pending save/delete confirmations and turns
// confirmed ones into optimistic store changes plus background effects.
// It is not safe for concurrent use; the Engine serializes calls.
type LibraryBridge struct {
	store    *Store
	registry *zone.Registry
	executor EffectExecutor
	logger   *log.Logger
	newID    IDGenerator

	pendingSave   *primary.PendingSave
	pendingDelete *primary.PendingDelete

	wg sync.WaitGroup
}

// NewLibraryBridge creates a LibraryBridge.
func NewLibraryBridge(store *Store, registry *zone.Registry, executor EffectExecutor, newID IDGenerator, logger *log.Logger) *LibraryBridge {
	if newID == nil {
		newID = NewUUID
	}
	return &LibraryBridge{
		store:    store,
		registry: registry,
		executor: executor,
		logger:   logger,
		newID:    newID,
	}
}

// RaiseSave records a library drop awaiting a name. A newer drop replaces an older one.
func (b *LibraryBridge) RaiseSave(ps primary.PendingSave) {
	if b.pendingSave != nil {
		b.logger.Debug("pending save replaced", "old", b.pendingSave.Item.ID, "new", ps.Item.ID)
	}
	ps.Item = ps.Item.Clone()
	b.pendingSave = &ps
}

// PendingSave returns the save awaiting a name.
func (b *LibraryBridge) PendingSave() (primary.PendingSave, bool) {
	if b.pendingSave == nil {
		return primary.PendingSave{}, false
	}
	ps := *b.pendingSave
	ps.Item = ps.Item.Clone()
	return ps, true
}

// ConfirmSave inserts the named library copy and starts persisting it.
// An empty name keeps the pending save; any other outcome clears it.
func (b *LibraryBridge) ConfirmSave(ctx context.Context, name string) (string, error) {
	if b.pendingSave == nil {
		return "", ErrNoPendingSave
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	ps := *b.pendingSave
	b.pendingSave = nil

	lib, ok := b.registry.ZoneByID(ps.DestinationZoneID)
	if !ok {
		return "", fmt.Errorf("library zone %s is gone", ps.DestinationZoneID)
	}

	plan, guard := library.PlanSave(library.SaveInput{
		NewID:    b.newID(),
		Name:     name,
		Source:   ps.Item,
		Library:  lib,
		Order:    b.store.Order(lib.ID),
		AnchorID: ps.InsertionAnchorID,
	})
	if !guard.Allowed {
		return "", guard.Error()
	}

	if err := b.store.InsertItem(lib.ID, plan.Index, plan.Item); err != nil {
		return "", fmt.Errorf("failed to insert library item: %w", err)
	}
	b.dispatch(ctx, plan.Effects)
	return plan.Item.ID, nil
}

// CancelSave discards the pending save.
func (b *LibraryBridge) CancelSave() {
	b.pendingSave = nil
}

// RequestDelete records a library item awaiting delete confirmation.
func (b *LibraryBridge) RequestDelete(it item.Item) {
	b.pendingDelete = &primary.PendingDelete{ItemID: it.ID, Item: it.Clone()}
}

// PendingDelete returns the delete awaiting confirmation.
func (b *LibraryBridge) PendingDelete() (primary.PendingDelete, bool) {
	if b.pendingDelete == nil {
		return primary.PendingDelete{}, false
	}
	pd := *b.pendingDelete
	pd.Item = pd.Item.Clone()
	return pd, true
}

// ConfirmDelete removes the pending library item and deletes it remotely when it was synced.
// The remote id is read at confirmation time so a create that finished in the
// meantime is deleted too; one still in flight is cleaned up on completion.
func (b *LibraryBridge) ConfirmDelete(ctx context.Context) error {
	if b.pendingDelete == nil {
		return ErrNoPendingDelete
	}
	pd := *b.pendingDelete
	b.pendingDelete = nil

	removed, ok := b.store.RemoveItem(pd.ItemID)
	if !ok {
		b.logger.Debug("pending delete target already gone", "item", pd.ItemID)
		return nil
	}
	b.dispatch(ctx, library.PlanDelete(removed).Effects)
	return nil
}

// CancelDelete discards the pending delete.
func (b *LibraryBridge) CancelDelete() {
	b.pendingDelete = nil
}

// Forget drops confirmations that refer to itemID.
func (b *LibraryBridge) Forget(itemID string) {
	if b.pendingSave != nil && b.pendingSave.Item.ID == itemID {
		b.pendingSave = nil
	}
	if b.pendingDelete != nil && b.pendingDelete.ItemID == itemID {
		b.pendingDelete = nil
	}
}

// Wait blocks until every dispatched effect run has finished.
func (b *LibraryBridge) Wait() {
	b.wg.Wait()
}

// dispatch runs effects in the background, detached from ctx's cancellation.
func (b *LibraryBridge) dispatch(ctx context.Context, effs []effects.Effect) {
	if len(effs) == 0 {
		return
	}
	detached := context.WithoutCancel(ctx)
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if err := b.executor.Execute(detached, effs); err != nil {
			b.logger.Error("background persistence failed", "err", err)
		}
	}()
}

// Apply folds one completion into the store and returns the notice it produces.
func (b *LibraryBridge) Apply(ctx context.Context, c Completion) (primary.Notice, bool) {
	switch c.Op {
	case OpUpload:
		if c.Err != nil {
			b.store.transformPayload(c.ItemID, func(p item.Payload) item.Payload {
				return item.WithAssetURL(p, "")
			})
			return primary.Notice{
				Level:  primary.NoticeWarning,
				Kind:   primary.NoticeAssetUploadFailed,
				ItemID: c.ItemID,
				Err:    &PersistenceError{Op: string(OpUpload), ItemID: c.ItemID, Err: c.Err},
			}, true
		}
		b.store.transformPayload(c.ItemID, func(p item.Payload) item.Payload {
			return item.WithAssetURL(p, c.URL)
		})
		return primary.Notice{}, false

	case OpCreate:
		if c.Err != nil {
			return primary.Notice{
				Level:  primary.NoticeError,
				Kind:   primary.NoticePersistenceFailure,
				ItemID: c.ItemID,
				Err:    &PersistenceError{Op: string(OpCreate), ItemID: c.ItemID, Err: c.Err},
			}, true
		}
		if !b.store.SetRemoteID(c.ItemID, c.RemoteID) {
			if _, stillThere := b.store.Item(c.ItemID); !stillThere {
				b.logger.Info("saved section deleted before its create finished, cleaning up", "item", c.ItemID, "remote_id", c.RemoteID)
				b.dispatch(ctx, []effects.Effect{effects.DeleteSavedItemEffect{ItemID: c.ItemID, RemoteID: c.RemoteID}})
			}
			return primary.Notice{}, false
		}
		return primary.Notice{Level: primary.NoticeInfo, Kind: primary.NoticeSaved, ItemID: c.ItemID, RemoteID: c.RemoteID}, true

	case OpDelete:
		if c.Err != nil {
			return primary.Notice{
				Level:    primary.NoticeError,
				Kind:     primary.NoticePersistenceFailure,
				ItemID:   c.ItemID,
				RemoteID: c.RemoteID,
				Err:      &PersistenceError{Op: string(OpDelete), ItemID: c.ItemID, Err: c.Err},
			}, true
		}
		return primary.Notice{Level: primary.NoticeInfo, Kind: primary.NoticeDeleted, ItemID: c.ItemID, RemoteID: c.RemoteID}, true
	}
	return primary.Notice{}, false
}
