package app

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/example/folio/internal/core/item"
	"github.com/example/folio/internal/core/placement"
	"github.com/example/folio/internal/core/zone"
	"github.com/example/folio/internal/ports/primary"
	"github.com/example/folio/internal/ports/secondary"
)

// Engine implements the PlacementService interface.
// Every intent runs under one lock, so compound operations (a drag end that
// reverts and then clones, a confirm that inserts and dispatches) are atomic.
type Engine struct {
	mu       sync.Mutex
	registry *zone.Registry
	repo     secondary.SavedItemRepository
	store    *Store
	drag     *DragController
	bridge   *LibraryBridge
	logger   *log.Logger

	noticeMu     sync.Mutex
	noticeSubs   map[int]func(primary.Notice)
	nextNoticeID int
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	logger *log.Logger
	newID  IDGenerator
	assets secondary.AssetStore
}

// WithLogger sets the engine's logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(o *engineOptions) { o.logger = l }
}

// WithIDGenerator overrides how local item ids are minted.
func WithIDGenerator(fn IDGenerator) Option {
	return func(o *engineOptions) { o.newID = fn }
}

// WithAssetStore sets where media assets are uploaded before a save.
func WithAssetStore(a secondary.AssetStore) Option {
	return func(o *engineOptions) { o.assets = a }
}

// NewEngine creates a new Engine over the given zones.
func NewEngine(registry *zone.Registry, repo secondary.SavedItemRepository, opts ...Option) *Engine {
	o := engineOptions{newID: NewUUID}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}

	e := &Engine{
		registry:   registry,
		repo:       repo,
		logger:     o.logger,
		noticeSubs: make(map[int]func(primary.Notice)),
	}
	e.store = NewStore(registry, o.newID)
	executor := NewEffectExecutor(repo, o.assets, o.logger, e.applyCompletion)
	e.bridge = NewLibraryBridge(e.store, registry, executor, o.newID, o.logger)
	e.drag = NewDragController(e.store, registry, o.newID, o.logger, e.bridge.RaiseSave)
	return e
}

// Ensure Engine implements the interface
var _ primary.PlacementService = (*Engine)(nil)

// LoadLibrary hydrates the library zone from persisted saved sections and
// returns how many were placed. Records beyond the library's capacity are skipped.
func (e *Engine) LoadLibrary(ctx context.Context) (int, error) {
	lib, ok := e.registry.Library()
	if !ok {
		return 0, nil
	}
	records, err := e.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list saved sections: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	loaded := 0
	for _, rec := range records {
		payload, err := item.Decode(rec.Payload)
		if err != nil {
			e.logger.Warn("skipping unreadable saved section", "remote_id", rec.ID, "err", err)
			continue
		}
		if _, ok := payload.(item.Library); !ok {
			payload = item.Library{Name: rec.Name, Template: payload}
		}
		it := item.Item{ID: e.store.newID(), Payload: payload, RemoteID: rec.ID}
		if err := e.store.InsertItem(lib.ID, -1, it); err != nil {
			e.logger.Warn("library is full, skipping saved section", "remote_id", rec.ID, "err", err)
			continue
		}
		loaded++
	}
	e.logger.Debug("library loaded", "count", loaded)
	return loaded, nil
}

// Snapshot returns a deep copy of the current placement.
func (e *Engine) Snapshot() primary.Snapshot {
	return e.store.Snapshot()
}

// Subscribe registers a listener called after every placement change.
func (e *Engine) Subscribe(listener func(primary.Snapshot)) func() {
	return e.store.Subscribe(listener)
}

// SubscribeNotices registers a listener for persistence outcomes.
// Notices are delivered outside the engine lock.
func (e *Engine) SubscribeNotices(listener func(primary.Notice)) func() {
	e.noticeMu.Lock()
	defer e.noticeMu.Unlock()
	id := e.nextNoticeID
	e.nextNoticeID++
	e.noticeSubs[id] = listener
	return func() {
		e.noticeMu.Lock()
		defer e.noticeMu.Unlock()
		delete(e.noticeSubs, id)
	}
}

func (e *Engine) publish(n primary.Notice) {
	e.noticeMu.Lock()
	subs := make([]func(primary.Notice), 0, len(e.noticeSubs))
	for i := 0; i < e.nextNoticeID; i++ {
		if s, ok := e.noticeSubs[i]; ok {
			subs = append(subs, s)
		}
	}
	e.noticeMu.Unlock()

	for _, s := range subs {
		s(n)
	}
}

// applyCompletion is the executor's sink. It runs on executor goroutines.
func (e *Engine) applyCompletion(c Completion) {
	e.mu.Lock()
	n, ok := e.bridge.Apply(context.Background(), c)
	e.mu.Unlock()

	if !ok {
		return
	}
	switch n.Level {
	case primary.NoticeError:
		e.logger.Error("saved section persistence failed", "op", c.Op, "item", c.ItemID, "err", c.Err)
	case primary.NoticeWarning:
		e.logger.Warn("saved section degraded", "op", c.Op, "item", c.ItemID, "err", c.Err)
	default:
		e.logger.Debug("saved section settled", "op", c.Op, "item", c.ItemID, "remote_id", c.RemoteID)
	}
	e.publish(n)
}

// DropStatuses returns per-zone feedback for the active drag.
func (e *Engine) DropStatuses() map[string]placement.DropStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drag.Statuses()
}

// StartDrag begins a drag gesture.
func (e *Engine) StartDrag(itemID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.drag.Start(itemID); err != nil {
		return fmt.Errorf("failed to start drag of %s: %w", itemID, err)
	}
	return nil
}

// DragOver moves the dragged item speculatively.
func (e *Engine) DragOver(target placement.Target) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drag.Over(target)
}

// EndDrag resolves the drop.
func (e *Engine) EndDrag(target placement.Target) (primary.DropOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drag.End(target)
}

// CancelDrag abandons the drag.
func (e *Engine) CancelDrag() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.drag.Cancel()
}

// AddItem places a fresh item of kind at the end of a zone.
func (e *Engine) AddItem(zoneID string, kind item.Kind) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	z, ok := e.registry.ZoneByID(zoneID)
	if !ok {
		return "", fmt.Errorf("%w: %s", placement.ErrUnknownZone, zoneID)
	}
	guard := placement.CanAdd(placement.AddContext{
		Zone:      z,
		Kind:      kind,
		Occupancy: len(e.store.Order(zoneID)),
	})
	if !guard.Allowed {
		return "", guard.Error()
	}
	payload, err := item.Empty(kind)
	if err != nil {
		return "", err
	}
	id, err := e.store.PlaceNewItem(zoneID, payload)
	if err != nil {
		return "", err
	}
	e.logger.Debug("item added", "item", id, "zone", zoneID, "kind", kind)
	return id, nil
}

// RemoveItem removes an ordinary item, or raises a pending delete for a library item.
func (e *Engine) RemoveItem(itemID string) (primary.RemoveOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	it, ok := e.store.Item(itemID)
	if !ok {
		return primary.RemoveNone, fmt.Errorf("%w: %s", placement.ErrUnknownItem, itemID)
	}
	zoneID, _, _ := e.store.ZoneOf(itemID)
	z, _ := e.registry.ZoneByID(zoneID)
	if z.IsLibrary {
		e.bridge.RequestDelete(it)
		return primary.RemovePending, nil
	}

	if active, dragging := e.drag.Active(); dragging && active == itemID {
		e.drag.Cancel()
	}
	e.store.RemoveItem(itemID)
	e.bridge.Forget(itemID)
	e.logger.Debug("item removed", "item", itemID, "zone", zoneID)
	return primary.RemoveDone, nil
}

// UpdateItem merges patch into the item's payload.
func (e *Engine) UpdateItem(itemID string, patch item.Patch) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.UpdateItemPayload(itemID, patch)
}

// Reorder moves an item within a zone.
func (e *Engine) Reorder(zoneID string, from, to int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Reorder(zoneID, from, to)
}

// ConfirmSave commits the pending save under name.
func (e *Engine) ConfirmSave(ctx context.Context, name string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bridge.ConfirmSave(ctx, name)
}

// CancelSave discards the pending save.
func (e *Engine) CancelSave() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bridge.CancelSave()
}

// ConfirmDelete removes the pending library item.
func (e *Engine) ConfirmDelete(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if pd, ok := e.bridge.PendingDelete(); ok {
		if active, dragging := e.drag.Active(); dragging && active == pd.ItemID {
			e.drag.Cancel()
		}
	}
	return e.bridge.ConfirmDelete(ctx)
}

// CancelDelete discards the pending delete.
func (e *Engine) CancelDelete() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bridge.CancelDelete()
}

// PendingSave returns the save awaiting a name.
func (e *Engine) PendingSave() (primary.PendingSave, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bridge.PendingSave()
}

// PendingDelete returns the delete awaiting confirmation.
func (e *Engine) PendingDelete() (primary.PendingDelete, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bridge.PendingDelete()
}

// Wait blocks until background persistence has settled.
func (e *Engine) Wait() {
	e.bridge.Wait()
}

// CheckInvariants verifies the placement invariants of the underlying store.
func (e *Engine) CheckInvariants() error {
	return e.store.CheckInvariants()
}
