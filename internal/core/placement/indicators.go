package placement

import (
	"github.com/example/folio/internal/core/item"
	"github.com/example/folio/internal/core/zone"
)

// DropStatus is the per-zone hover feedback during a drag.
type DropStatus string

const (
	StatusNeutral   DropStatus = "neutral"
	StatusAllowed   DropStatus = "allowed"
	StatusForbidden DropStatus = "forbidden"
)

// IndicatorInput is everything needed to colour the zones for one drag.
// Current is the zone the item sits in right now (it may differ from Origin
// after a speculative move). Occupancy is keyed by zone id.
type IndicatorInput struct {
	Item      item.Item
	Origin    zone.Zone
	Current   string
	Zones     []zone.Zone
	Occupancy map[string]int
}

// ComputeDropStatuses projects CanPlace over every zone.
// The zone currently holding the item is neutral.
func ComputeDropStatuses(in IndicatorInput) map[string]DropStatus {
	out := make(map[string]DropStatus, len(in.Zones))
	for _, z := range in.Zones {
		if z.ID == in.Current {
			out[z.ID] = StatusNeutral
			continue
		}
		occ := in.Occupancy[z.ID]
		guard := CanPlace(PlaceContext{Item: in.Item, Source: in.Origin, Destination: z, Occupancy: occ})
		if guard.Allowed {
			out[z.ID] = StatusAllowed
		} else {
			out[z.ID] = StatusForbidden
		}
	}
	return out
}
