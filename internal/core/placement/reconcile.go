package placement

import (
	"github.com/example/folio/internal/core/item"
	"github.com/example/folio/internal/core/zone"
)

// Action is what a drop resolves to.
type Action string

const (
	ActionRevert      Action = "revert"       // snap back, no mutation
	ActionCommit      Action = "commit"       // keep the speculative cross-zone move
	ActionReorder     Action = "reorder"      // same-zone reorder
	ActionPendingSave Action = "pending_save" // ask the user to name a library copy
	ActionCloneOut    Action = "clone_out"    // copy a library template into an ordinary zone
)

// ReconcileInput describes a finished drag.
// Origin is the zone the item was in when the drag started; Occupancy is the
// destination's item count at that time.
type ReconcileInput struct {
	Item        item.Item
	Origin      zone.Zone
	Destination zone.Zone
	Occupancy   int
}

// Resolution is the outcome of Reconcile.
type Resolution struct {
	Action Action
	Guard  GuardResult
}

// IsLibraryCrossing reports whether a move between the two zones crosses the library boundary.
func IsLibraryCrossing(from, to zone.Zone) bool {
	return from.IsLibrary != to.IsLibrary
}

// Reconcile decides what a drop actually does.
// Into the library: nothing yet, a pending save is raised and the source stays put.
// Out of the library: a clone is placed, the library entry is untouched.
// Otherwise the item is relocated (or reordered within its zone).
func Reconcile(in ReconcileInput) Resolution {
	guard := CanPlace(PlaceContext{
		Item:        in.Item,
		Source:      in.Origin,
		Destination: in.Destination,
		Occupancy:   in.Occupancy,
	})
	if !guard.Allowed {
		return Resolution{Action: ActionRevert, Guard: guard}
	}

	switch {
	case in.Origin.ID == in.Destination.ID:
		return Resolution{Action: ActionReorder, Guard: guard}
	case in.Destination.IsLibrary && in.Origin.IsLibrary:
		return Resolution{Action: ActionReorder, Guard: guard}
	case in.Destination.IsLibrary:
		return Resolution{Action: ActionPendingSave, Guard: guard}
	case in.Origin.IsLibrary:
		return Resolution{Action: ActionCloneOut, Guard: guard}
	}
	return Resolution{Action: ActionCommit, Guard: guard}
}

// CloneOut builds the payload an ordinary zone receives from a library item:
// a deep copy of the template, which carries the origin kind.
func CloneOut(lib item.Item) (item.Payload, bool) {
	l, ok := lib.Payload.(item.Library)
	if !ok || l.Template == nil {
		return nil, false
	}
	return l.Template.Clone(), true
}
