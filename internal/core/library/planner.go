// Package library contains the pure business logic for saving items to and
// deleting items from the library zone.
// This file contains pure planner functions that generate effects.
package library

import (
	"github.com/example/folio/internal/core/effects"
	"github.com/example/folio/internal/core/item"
	"github.com/example/folio/internal/core/placement"
	"github.com/example/folio/internal/core/zone"
)

// SaveInput contains the inputs needed to plan a save.
// All values are pre-fetched by the caller - no I/O in the planner.
type SaveInput struct {
	NewID    string
	Name     string
	Source   item.Item
	Library  zone.Zone
	Order    []string // library order at confirmation time
	AnchorID string   // insert in front of this id; "" appends
}

// SavePlan is the optimistic library item plus the remote work it needs.
type SavePlan struct {
	Item    item.Item
	Index   int
	Effects []effects.Effect
}

// PlanSave builds the library copy of a pending item.
// The copy gets a fresh id, a deep copy of the source payload as its template
// and the user-supplied name. An asset upload, if needed, is planned before
// the create so the saved section can reference the uploaded URL.
func PlanSave(in SaveInput) (SavePlan, placement.GuardResult) {
	guard := placement.CanInsert(in.Library, len(in.Order))
	if !guard.Allowed {
		return SavePlan{}, guard
	}

	lib := item.Item{
		ID: in.NewID,
		Payload: item.Library{
			Name:     in.Name,
			Template: in.Source.Payload.Clone(),
		},
	}

	plan := SavePlan{
		Item:  lib,
		Index: placement.AnchorIndex(in.Order, in.AnchorID),
	}

	if asset, ok := item.PendingAsset(lib.Payload); ok {
		plan.Effects = append(plan.Effects, effects.UploadAssetEffect{
			ItemID: lib.ID,
			Asset:  *asset,
		})
	}
	plan.Effects = append(plan.Effects,
		effects.CreateSavedItemEffect{
			ItemID:  lib.ID,
			Name:    in.Name,
			Payload: lib.Payload.Clone(),
		},
		effects.LogEffect{
			Level:   "info",
			Message: "saved section created",
			Fields:  map[string]any{"item": lib.ID, "name": in.Name, "origin": lib.OriginKind()},
		},
	)

	return plan, guard
}

// DeletePlan is the remote work for a confirmed library delete.
type DeletePlan struct {
	ItemID  string
	Effects []effects.Effect
}

// PlanDelete plans the remote side of deleting a library item.
// Items that never reached persistence need no remote call.
func PlanDelete(it item.Item) DeletePlan {
	plan := DeletePlan{ItemID: it.ID}
	if it.RemoteID == "" {
		plan.Effects = []effects.Effect{effects.NoEffect{}}
		return plan
	}
	plan.Effects = []effects.Effect{
		effects.DeleteSavedItemEffect{ItemID: it.ID, RemoteID: it.RemoteID},
		effects.LogEffect{
			Level:   "info",
			Message: "saved section deleted",
			Fields:  map[string]any{"item": it.ID, "remote_id": it.RemoteID},
		},
	}
	return plan
}
