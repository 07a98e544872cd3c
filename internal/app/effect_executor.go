// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/example/folio/internal/core/effects"
	"github.com/example/folio/internal/core/item"
	"github.com/example/folio/internal/ports/secondary"
)

// errNoAssetStore is reported when a save needs an upload but no asset store is wired.
var errNoAssetStore = errors.New("no asset store configured")

// CompletionOp names the remote operation a Completion reports on.
type CompletionOp string

const (
	OpUpload CompletionOp = "upload"
	OpCreate CompletionOp = "create"
	OpDelete CompletionOp = "delete"
)

// Completion is the result of one remote operation, keyed by the local item id.
// Completions are applied to the store by whoever owns it, never by the executor.
type Completion struct {
	Op       CompletionOp
	ItemID   string
	RemoteID string
	URL      string
	Err      error
}

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place I/O happens.
type EffectExecutor interface {
	Execute(ctx context.Context, effs []effects.Effect) error
}

// DefaultEffectExecutor implements EffectExecutor against the persistence ports.
type DefaultEffectExecutor struct {
	repo   secondary.SavedItemRepository
	assets secondary.AssetStore
	logger *log.Logger
	sink   func(Completion)
}

// NewEffectExecutor creates a new DefaultEffectExecutor.
// sink receives a Completion for every upload, create and delete; it may be nil.
// assets may be nil when no component saves media.
func NewEffectExecutor(repo secondary.SavedItemRepository, assets secondary.AssetStore, logger *log.Logger, sink func(Completion)) *DefaultEffectExecutor {
	if sink == nil {
		sink = func(Completion) {}
	}
	return &DefaultEffectExecutor{repo: repo, assets: assets, logger: logger, sink: sink}
}

// run carries results between the effects of one Execute call.
type run struct {
	uploaded map[string]string // item id -> asset URL ("" when the upload failed)
}

// Execute processes a slice of effects, executing each in sequence.
// A failed upload does not stop the run: the create that follows saves the
// item without its asset. A failed create or delete stops it.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) error {
	return e.execute(ctx, &run{uploaded: make(map[string]string)}, effs)
}

func (e *DefaultEffectExecutor) execute(ctx context.Context, r *run, effs []effects.Effect) error {
	for _, eff := range effs {
		if err := e.executeOne(ctx, r, eff); err != nil {
			return fmt.Errorf("failed to execute %s effect: %w", eff.EffectType(), err)
		}
	}
	return nil
}

func (e *DefaultEffectExecutor) executeOne(ctx context.Context, r *run, eff effects.Effect) error {
	switch typed := eff.(type) {
	case effects.UploadAssetEffect:
		e.executeUpload(ctx, r, typed)
		return nil
	case effects.CreateSavedItemEffect:
		return e.executeCreate(ctx, r, typed)
	case effects.DeleteSavedItemEffect:
		return e.executeDelete(ctx, typed)
	case effects.CompositeEffect:
		return e.execute(ctx, r, typed.Effects)
	case effects.NoEffect:
		return nil
	case effects.LogEffect:
		e.executeLog(typed)
		return nil
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}

func (e *DefaultEffectExecutor) executeUpload(ctx context.Context, r *run, eff effects.UploadAssetEffect) {
	var url string
	err := errNoAssetStore
	if e.assets != nil {
		url, err = e.assets.Upload(ctx, &secondary.AssetUpload{
			Filename:    eff.Asset.Filename,
			ContentType: eff.Asset.ContentType,
			Data:        eff.Asset.Data,
		})
	}
	if err != nil {
		e.logger.Warn("asset upload failed, saving without it", "item", eff.ItemID, "file", eff.Asset.Filename, "err", err)
		r.uploaded[eff.ItemID] = ""
		e.sink(Completion{Op: OpUpload, ItemID: eff.ItemID, Err: err})
		return
	}
	r.uploaded[eff.ItemID] = url
	e.sink(Completion{Op: OpUpload, ItemID: eff.ItemID, URL: url})
}

func (e *DefaultEffectExecutor) executeCreate(ctx context.Context, r *run, eff effects.CreateSavedItemEffect) error {
	payload := eff.Payload
	if url, ok := r.uploaded[eff.ItemID]; ok {
		payload = item.WithAssetURL(payload, url)
	}

	data, err := item.Encode(payload)
	if err != nil {
		e.sink(Completion{Op: OpCreate, ItemID: eff.ItemID, Err: err})
		return fmt.Errorf("failed to encode saved section: %w", err)
	}

	remoteID, err := e.repo.Create(ctx, eff.Name, data)
	if err != nil {
		e.sink(Completion{Op: OpCreate, ItemID: eff.ItemID, Err: err})
		return fmt.Errorf("failed to create saved section: %w", err)
	}
	e.sink(Completion{Op: OpCreate, ItemID: eff.ItemID, RemoteID: remoteID})
	return nil
}

func (e *DefaultEffectExecutor) executeDelete(ctx context.Context, eff effects.DeleteSavedItemEffect) error {
	// Looked up first so the asset URL is known once the record is gone.
	url := ""
	if rec, err := e.repo.GetByID(ctx, eff.RemoteID); err == nil {
		url = e.recordAssetURL(rec)
	}

	if err := e.repo.Delete(ctx, eff.RemoteID); err != nil {
		e.sink(Completion{Op: OpDelete, ItemID: eff.ItemID, RemoteID: eff.RemoteID, Err: err})
		return fmt.Errorf("failed to delete saved section: %w", err)
	}
	e.deleteAsset(ctx, url)
	e.sink(Completion{Op: OpDelete, ItemID: eff.ItemID, RemoteID: eff.RemoteID})
	return nil
}

// deleteAsset erases url unless another saved section still points at it.
// Assets are content-addressed, so two sections can share one.
// Failures only leave an orphaned file behind and are logged.
func (e *DefaultEffectExecutor) deleteAsset(ctx context.Context, url string) {
	if url == "" || e.assets == nil {
		return
	}
	records, err := e.repo.List(ctx)
	if err != nil {
		e.logger.Warn("keeping asset, cannot list saved sections", "url", url, "err", err)
		return
	}
	for _, rec := range records {
		if e.recordAssetURL(rec) == url {
			return
		}
	}
	if err := e.assets.Delete(ctx, url); err != nil {
		e.logger.Warn("asset delete failed", "url", url, "err", err)
	}
}

func (e *DefaultEffectExecutor) recordAssetURL(rec *secondary.SavedItemRecord) string {
	payload, err := item.Decode(rec.Payload)
	if err != nil {
		e.logger.Debug("undecodable saved section", "id", rec.ID, "err", err)
		return ""
	}
	return item.AssetURL(payload)
}

func (e *DefaultEffectExecutor) executeLog(eff effects.LogEffect) {
	kv := make([]any, 0, len(eff.Fields)*2)
	for _, k := range slices.Sorted(maps.Keys(eff.Fields)) {
		kv = append(kv, k, eff.Fields[k])
	}
	level, err := log.ParseLevel(eff.Level)
	if err != nil {
		level = log.InfoLevel
	}
	e.logger.Log(level, eff.Message, kv...)
}
