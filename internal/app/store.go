package app

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/example/folio/internal/core/item"
	"github.com/example/folio/internal/core/placement"
	"github.com/example/folio/internal/core/zone"
	"github.com/example/folio/internal/ports/primary"
)

// IDGenerator mints process-unique item ids.
type IDGenerator func() string

// NewUUID is the default IDGenerator.
func NewUUID() string {
	return uuid.NewString()
}

// Store is the canonical placement: zone id to ordered item ids, and item id to item.
// Every mutation is atomic from the caller's point of view and bumps the revision.
// Listeners run after the store lock is released, in mutation order.
type Store struct {
	mu       sync.RWMutex
	registry *zone.Registry
	newID    IDGenerator
	order    map[string][]string
	items    map[string]item.Item
	rev      uint64

	listenerMu   sync.Mutex
	listeners    map[int]func(primary.Snapshot)
	nextListener int
}

// NewStore creates an empty store with one (empty) list per registered zone.
func NewStore(registry *zone.Registry, newID IDGenerator) *Store {
	if newID == nil {
		newID = NewUUID
	}
	s := &Store{
		registry:  registry,
		newID:     newID,
		order:     make(map[string][]string),
		items:     make(map[string]item.Item),
		listeners: make(map[int]func(primary.Snapshot)),
	}
	for _, z := range registry.Zones() {
		s.order[z.ID] = []string{}
	}
	return s
}

// Snapshot returns a deep copy of the placement.
func (s *Store) Snapshot() primary.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() primary.Snapshot {
	snap := primary.Snapshot{
		ZoneOrder: make(map[string][]string, len(s.order)),
		Items:     make(map[string]item.Item, len(s.items)),
	}
	for z, ids := range s.order {
		snap.ZoneOrder[z] = append([]string{}, ids...)
	}
	for id, it := range s.items {
		snap.Items[id] = it.Clone()
	}
	return snap
}

// Subscribe registers a listener called with a fresh snapshot after every mutation.
func (s *Store) Subscribe(listener func(primary.Snapshot)) func() {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = listener
	return func() {
		s.listenerMu.Lock()
		defer s.listenerMu.Unlock()
		delete(s.listeners, id)
	}
}

// mutate runs fn under the write lock and notifies listeners when fn reports a change.
func (s *Store) mutate(fn func() (bool, error)) error {
	snap, changed, err := s.apply(fn)
	if err != nil || !changed {
		return err
	}

	s.listenerMu.Lock()
	listeners := make([]func(primary.Snapshot), 0, len(s.listeners))
	for i := 0; i < s.nextListener; i++ {
		if l, ok := s.listeners[i]; ok {
			listeners = append(listeners, l)
		}
	}
	s.listenerMu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
	return nil
}

// apply runs fn under the write lock, bumping the revision on change.
func (s *Store) apply(fn func() (bool, error)) (primary.Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed, err := fn()
	if err != nil || !changed {
		return primary.Snapshot{}, false, err
	}
	s.rev++
	return s.snapshotLocked(), true, nil
}

// Revision increases with every mutation.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rev
}

// Item returns a copy of the item with the given id.
func (s *Store) Item(id string) (item.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[id]
	if !ok {
		return item.Item{}, false
	}
	return it.Clone(), true
}

// ZoneOf returns the zone holding id and its index there.
func (s *Store) ZoneOf(id string) (string, int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.zoneOfLocked(id)
}

func (s *Store) zoneOfLocked(id string) (string, int, bool) {
	for z, ids := range s.order {
		for i, v := range ids {
			if v == id {
				return z, i, true
			}
		}
	}
	return "", -1, false
}

// Order returns a copy of a zone's item ids.
func (s *Store) Order(zoneID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.order[zoneID]...)
}

// Occupancy returns the item count of every zone.
func (s *Store) Occupancy() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int, len(s.order))
	for z, ids := range s.order {
		out[z] = len(ids)
	}
	return out
}

func (s *Store) zone(zoneID string) (zone.Zone, error) {
	z, ok := s.registry.ZoneByID(zoneID)
	if !ok {
		return zone.Zone{}, fmt.Errorf("%w: %s", placement.ErrUnknownZone, zoneID)
	}
	return z, nil
}

// PlaceNewItem appends a new item with payload to a zone and returns its id.
func (s *Store) PlaceNewItem(zoneID string, payload item.Payload) (string, error) {
	it := item.Item{ID: s.newID(), Payload: payload}
	if err := s.InsertItem(zoneID, -1, it); err != nil {
		return "", err
	}
	return it.ID, nil
}

// InsertItem inserts an already minted item at index (negative or past the end appends).
func (s *Store) InsertItem(zoneID string, index int, it item.Item) error {
	z, err := s.zone(zoneID)
	if err != nil {
		return err
	}
	return s.mutate(func() (bool, error) {
		if _, exists := s.items[it.ID]; exists {
			return false, fmt.Errorf("item %s already placed", it.ID)
		}
		ids := s.order[zoneID]
		if guard := placement.CanInsert(z, len(ids)); !guard.Allowed {
			return false, guard.Error()
		}
		if index < 0 {
			index = len(ids)
		}
		s.order[zoneID] = placement.Insert(ids, index, it.ID)
		s.items[it.ID] = it.Clone()
		return true, nil
	})
}

// RemoveItem removes an item from its zone and drops its payload.
// Removing an absent id is a no-op.
func (s *Store) RemoveItem(id string) (item.Item, bool) {
	var removed item.Item
	var found bool
	_ = s.mutate(func() (bool, error) {
		removed, found = s.items[id]
		if !found {
			return false, nil
		}
		if z, _, ok := s.zoneOfLocked(id); ok {
			s.order[z], _ = placement.Remove(s.order[z], id)
		}
		delete(s.items, id)
		return true, nil
	})
	return removed, found
}

// UpdateItemPayload merges patch into the item's payload.
func (s *Store) UpdateItemPayload(id string, patch item.Patch) error {
	return s.mutate(func() (bool, error) {
		it, ok := s.items[id]
		if !ok {
			return false, fmt.Errorf("%w: %s", placement.ErrUnknownItem, id)
		}
		merged, err := item.Merge(it.Payload, patch)
		if err != nil {
			return false, fmt.Errorf("%w: %w", placement.ErrKindMismatch, err)
		}
		it.Payload = merged
		s.items[id] = it
		return true, nil
	})
}

// transformPayload replaces an item's payload with fn(payload). Missing items are skipped.
func (s *Store) transformPayload(id string, fn func(item.Payload) item.Payload) bool {
	var applied bool
	_ = s.mutate(func() (bool, error) {
		it, ok := s.items[id]
		if !ok {
			return false, nil
		}
		it.Payload = fn(it.Payload)
		s.items[id] = it
		applied = true
		return true, nil
	})
	return applied
}

// Reorder moves the item at from to to within a zone.
func (s *Store) Reorder(zoneID string, from, to int) error {
	if _, err := s.zone(zoneID); err != nil {
		return err
	}
	return s.mutate(func() (bool, error) {
		ids := s.order[zoneID]
		if from < 0 || from >= len(ids) || to < 0 || to >= len(ids) {
			return false, fmt.Errorf("%w: reorder %d -> %d in zone %s of %d items", placement.ErrIndexOutOfRange, from, to, zoneID, len(ids))
		}
		if from == to {
			return false, nil
		}
		s.order[zoneID] = placement.Move(ids, from, to)
		return true, nil
	})
}

// SetRemoteID records the remote id of an item. It is set at most once;
// it reports false when the item is gone or already has one.
func (s *Store) SetRemoteID(id, remoteID string) bool {
	var applied bool
	_ = s.mutate(func() (bool, error) {
		it, ok := s.items[id]
		if !ok || it.RemoteID != "" {
			return false, nil
		}
		it.RemoteID = remoteID
		s.items[id] = it
		applied = true
		return true, nil
	})
	return applied
}

// moveItem relocates id to index in zoneID. Used for speculative drag moves,
// so only uniqueness is enforced here; guards run before.
func (s *Store) moveItem(id, zoneID string, index int) bool {
	var moved bool
	_ = s.mutate(func() (bool, error) {
		from, _, ok := s.zoneOfLocked(id)
		if !ok {
			return false, nil
		}
		if _, ok := s.order[zoneID]; !ok {
			return false, nil
		}
		s.order[from], _ = placement.Remove(s.order[from], id)
		s.order[zoneID] = placement.Insert(s.order[zoneID], index, id)
		moved = true
		return true, nil
	})
	return moved
}

// restore replaces the whole placement with snap.
func (s *Store) restore(snap primary.Snapshot) {
	_ = s.mutate(func() (bool, error) {
		s.order = make(map[string][]string, len(snap.ZoneOrder))
		for z, ids := range snap.ZoneOrder {
			s.order[z] = append([]string{}, ids...)
		}
		s.items = make(map[string]item.Item, len(snap.Items))
		for id, it := range snap.Items {
			s.items[id] = it.Clone()
		}
		return true, nil
	})
}

// CheckInvariants verifies that every listed id has a payload, appears in at
// most one zone, and that no zone holds more than its capacity.
func (s *Store) CheckInvariants() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]string)
	for z, ids := range s.order {
		zz, ok := s.registry.ZoneByID(z)
		if !ok {
			return fmt.Errorf("%w: %s", placement.ErrUnknownZone, z)
		}
		if len(ids) > zz.Capacity {
			return fmt.Errorf("zone %s holds %d items, capacity %d", z, len(ids), zz.Capacity)
		}
		for _, id := range ids {
			if prev, dup := seen[id]; dup {
				return fmt.Errorf("item %s is in both %s and %s", id, prev, z)
			}
			seen[id] = z
			if _, ok := s.items[id]; !ok {
				return fmt.Errorf("item %s in zone %s has no payload", id, z)
			}
		}
	}
	if len(seen) != len(s.items) {
		return fmt.Errorf("%d payloads but %d placed items", len(s.items), len(seen))
	}
	return nil
}
