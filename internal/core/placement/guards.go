package placement

import (
	"fmt"

	"github.com/example/folio/internal/core/item"
	"github.com/example/folio/internal/core/zone"
)

// Code identifies why a guard refused a placement.
type Code string

const (
	CodeNone             Code = ""
	CodeKindMismatch     Code = "kind_mismatch"
	CodeCapacityExceeded Code = "capacity_exceeded"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Code    Code
	Reason  string // Human-readable reason (populated when not allowed)
}

// Error returns the guard result as an error if not allowed, nil otherwise.
// The error wraps the sentinel matching Code.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	switch r.Code {
	case CodeKindMismatch:
		return fmt.Errorf("%w: %s", ErrKindMismatch, r.Reason)
	case CodeCapacityExceeded:
		return fmt.Errorf("%w: %s", ErrCapacityExceeded, r.Reason)
	}
	return fmt.Errorf("%s", r.Reason)
}

func allowed() GuardResult {
	return GuardResult{Allowed: true}
}

func kindMismatch(format string, args ...any) GuardResult {
	return GuardResult{Code: CodeKindMismatch, Reason: fmt.Sprintf(format, args...)}
}

func capacityExceeded(z zone.Zone, occupancy int) GuardResult {
	return GuardResult{
		Code:   CodeCapacityExceeded,
		Reason: fmt.Sprintf("zone %s is full (%d/%d)", z.ID, occupancy, z.Capacity),
	}
}

// PlaceContext provides context for the placement guard.
// Occupancy is the destination's item count before the move.
type PlaceContext struct {
	Item        item.Item
	Source      zone.Zone
	Destination zone.Zone
	Occupancy   int
}

// CanPlace evaluates whether an item may be dropped into the destination zone.
// Rules, in order:
//  1. The library accepts anything (it clones).
//  2. Leaving the library, the item's origin kind must be accepted and the destination must have room.
//  3. Between ordinary zones the kind must be accepted and the destination must have room,
//     unless the move is a reorder within the same zone.
func CanPlace(ctx PlaceContext) GuardResult {
	src, dst := ctx.Source, ctx.Destination

	if dst.IsLibrary {
		return allowed()
	}

	if src.IsLibrary {
		origin := ctx.Item.OriginKind()
		if !dst.Accepts(origin) {
			return kindMismatch("zone %s does not accept %s (library item %s)", dst.ID, origin, ctx.Item.ID)
		}
		if !dst.HasRoom(ctx.Occupancy) {
			return capacityExceeded(dst, ctx.Occupancy)
		}
		return allowed()
	}

	if !dst.Accepts(ctx.Item.Kind()) {
		return kindMismatch("zone %s does not accept %s (item %s)", dst.ID, ctx.Item.Kind(), ctx.Item.ID)
	}
	if src.ID != dst.ID && !dst.HasRoom(ctx.Occupancy) {
		return capacityExceeded(dst, ctx.Occupancy)
	}
	return allowed()
}

// AddContext provides context for adding a fresh item to a zone.
type AddContext struct {
	Zone      zone.Zone
	Kind      item.Kind
	Occupancy int
}

// CanAdd evaluates whether a new item of the given kind may be added to a zone.
// Rule: library entries only come from saves, never from direct adds.
func CanAdd(ctx AddContext) GuardResult {
	if ctx.Zone.IsLibrary || ctx.Kind == item.KindLibrary {
		return kindMismatch("library items are created by saving, not by adding to %s", ctx.Zone.ID)
	}
	if !ctx.Zone.Accepts(ctx.Kind) {
		return kindMismatch("zone %s does not accept %s", ctx.Zone.ID, ctx.Kind)
	}
	if !ctx.Zone.HasRoom(ctx.Occupancy) {
		return capacityExceeded(ctx.Zone, ctx.Occupancy)
	}
	return allowed()
}

// CanInsert evaluates whether a zone has room for one more item.
// Used for library inserts, which accept any kind.
func CanInsert(z zone.Zone, occupancy int) GuardResult {
	if !z.HasRoom(occupancy) {
		return capacityExceeded(z, occupancy)
	}
	return allowed()
}
