// Package effects describes library persistence work as plain values.
// Planners in the core return effects; the app layer's executor performs them
// against the secondary ports.
package effects

import "github.com/example/folio/internal/core/item"

// Effect is one unit of persistence work.
type Effect interface {
	EffectType() string
}

// LogEffect asks the executor to log Message at Level ("debug", "info", ...).
type LogEffect struct {
	Level   string
	Message string
	Fields  map[string]any
}

func (e LogEffect) EffectType() string { return "log" }

// UploadAssetEffect uploads the pending asset of a library item.
// Its result (an asset URL) feeds the CreateSavedItemEffect that follows it.
type UploadAssetEffect struct {
	ItemID string
	Asset  item.Asset
}

func (e UploadAssetEffect) EffectType() string { return "upload_asset" }

// CreateSavedItemEffect persists a library item as a saved section.
type CreateSavedItemEffect struct {
	ItemID  string
	Name    string
	Payload item.Payload
}

func (e CreateSavedItemEffect) EffectType() string { return "create_saved_item" }

// DeleteSavedItemEffect removes a saved section.
type DeleteSavedItemEffect struct {
	ItemID   string
	RemoteID string
}

func (e DeleteSavedItemEffect) EffectType() string { return "delete_saved_item" }

// CompositeEffect groups effects that run in order.
type CompositeEffect struct {
	Effects []Effect
}

func (e CompositeEffect) EffectType() string { return "composite" }

// NoEffect is planned when there is nothing to persist, e.g. deleting an unsaved library item.
type NoEffect struct{}

func (e NoEffect) EffectType() string { return "none" }
