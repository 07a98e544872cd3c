// Package zone describes the placement targets of a portfolio template.
// This is part of the Functional Core - zones are immutable configuration
// supplied by the host, no I/O happens here.
package zone

import (
	"fmt"
	"math"
	"sort"

	"github.com/example/folio/internal/core/item"
)

// Unbounded is the capacity of a zone without an item limit.
const Unbounded = math.MaxInt

// Zone is a named placement target.
type Zone struct {
	ID            string
	AcceptedKinds map[item.Kind]bool
	Capacity      int
	IsLibrary     bool // clones across its boundary instead of relocating
}

// New builds a zone accepting the given kinds.
func New(id string, capacity int, kinds ...item.Kind) Zone {
	accepted := make(map[item.Kind]bool, len(kinds))
	for _, k := range kinds {
		accepted[k] = true
	}
	return Zone{ID: id, AcceptedKinds: accepted, Capacity: capacity}
}

// NewLibrary builds the library zone. It accepts every kind by cloning.
func NewLibrary(id string, capacity int) Zone {
	return Zone{ID: id, AcceptedKinds: map[item.Kind]bool{}, Capacity: capacity, IsLibrary: true}
}

// Accepts reports whether items of kind k may be held by the zone.
func (z Zone) Accepts(k item.Kind) bool {
	return z.AcceptedKinds[k]
}

// HasRoom reports whether one more item fits given the current occupancy.
func (z Zone) HasRoom(occupancy int) bool {
	return occupancy < z.Capacity
}

// Kinds returns the accepted kinds in a stable order.
func (z Zone) Kinds() []item.Kind {
	kinds := make([]item.Kind, 0, len(z.AcceptedKinds))
	for k, ok := range z.AcceptedKinds {
		if ok {
			kinds = append(kinds, k)
		}
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Registry is a read-only lookup of zones in template order.
type Registry struct {
	zones []Zone
	byID  map[string]int
}

// NewRegistry validates and indexes zones.
// Zone ids must be unique, capacities non-negative and at most one zone may be the library.
func NewRegistry(zones ...Zone) (*Registry, error) {
	r := &Registry{
		zones: make([]Zone, 0, len(zones)),
		byID:  make(map[string]int, len(zones)),
	}

	libraries := 0
	for _, z := range zones {
		if z.ID == "" {
			return nil, fmt.Errorf("zone id must not be empty")
		}
		if _, dup := r.byID[z.ID]; dup {
			return nil, fmt.Errorf("duplicate zone id %q", z.ID)
		}
		if z.Capacity < 0 {
			return nil, fmt.Errorf("zone %q has negative capacity %d", z.ID, z.Capacity)
		}
		for k := range z.AcceptedKinds {
			if !k.Valid() {
				return nil, fmt.Errorf("zone %q accepts unknown kind %q", z.ID, k)
			}
		}
		if z.IsLibrary {
			libraries++
			if libraries > 1 {
				return nil, fmt.Errorf("zone %q: only one library zone is allowed", z.ID)
			}
		}
		r.byID[z.ID] = len(r.zones)
		r.zones = append(r.zones, z)
	}

	return r, nil
}

// ZoneByID returns the zone with the given id.
func (r *Registry) ZoneByID(id string) (Zone, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Zone{}, false
	}
	return r.zones[i], true
}

// Zones returns all zones in registration order.
func (r *Registry) Zones() []Zone {
	out := make([]Zone, len(r.zones))
	copy(out, r.zones)
	return out
}

// Library returns the library zone, if the registry has one.
func (r *Registry) Library() (Zone, bool) {
	for _, z := range r.zones {
		if z.IsLibrary {
			return z, true
		}
	}
	return Zone{}, false
}
