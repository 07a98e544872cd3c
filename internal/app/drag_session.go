package app

import (
	"github.com/charmbracelet/log"

	"github.com/example/folio/internal/core/item"
	"github.com/example/folio/internal/core/placement"
	"github.com/example/folio/internal/core/zone"
	"github.com/example/folio/internal/ports/primary"
)

// dragSession is the state of one drag gesture, from start to end or cancel.
type dragSession struct {
	itemID    string
	item      item.Item
	origin    zone.Zone
	originIdx int
	snapshot  primary.Snapshot
	// rev is the store revision after the session's own last mutation.
	// foreign is set, and stays set, once any other mutation is seen; a
	// wholesale restore would then clobber it.
	rev      uint64
	foreign  bool
	statuses map[string]placement.DropStatus
}

// DragController drives speculative moves during a drag and resolves the drop.
// It is not safe for concurrent use; the Engine serializes calls.
type DragController struct {
	store    *Store
	registry *zone.Registry
	logger   *log.Logger
	newID    IDGenerator
	session  *dragSession

	// onPendingSave receives library drops awaiting a name.
	onPendingSave func(primary.PendingSave)
}

// NewDragController creates a DragController over store.
func NewDragController(store *Store, registry *zone.Registry, newID IDGenerator, logger *log.Logger, onPendingSave func(primary.PendingSave)) *DragController {
	if newID == nil {
		newID = NewUUID
	}
	return &DragController{
		store:         store,
		registry:      registry,
		logger:        logger,
		newID:         newID,
		onPendingSave: onPendingSave,
	}
}

// Active reports whether a drag is in progress and which item it carries.
func (c *DragController) Active() (string, bool) {
	if c.session == nil {
		return "", false
	}
	return c.session.itemID, true
}

// Statuses returns a copy of the current per-zone drop feedback, nil when idle.
func (c *DragController) Statuses() map[string]placement.DropStatus {
	if c.session == nil {
		return nil
	}
	out := make(map[string]placement.DropStatus, len(c.session.statuses))
	for k, v := range c.session.statuses {
		out[k] = v
	}
	return out
}

// Start begins a drag for itemID. A drag already in progress is cancelled first.
func (c *DragController) Start(itemID string) error {
	if c.session != nil {
		c.logger.Debug("drag restarted, cancelling previous", "item", c.session.itemID)
		c.Cancel()
	}

	it, ok := c.store.Item(itemID)
	if !ok {
		return placement.ErrUnknownItem
	}
	zoneID, idx, ok := c.store.ZoneOf(itemID)
	if !ok {
		return placement.ErrUnknownItem
	}
	origin, ok := c.registry.ZoneByID(zoneID)
	if !ok {
		return placement.ErrUnknownZone
	}

	c.session = &dragSession{
		itemID:    itemID,
		item:      it,
		origin:    origin,
		originIdx: idx,
		snapshot:  c.store.Snapshot(),
		rev:       c.store.Revision(),
	}
	c.refreshStatuses()
	c.logger.Debug("drag started", "item", itemID, "zone", zoneID, "index", idx)
	return nil
}

// Over handles the pointer moving over target. Moving into another zone that
// passes the guard relocates the item speculatively; library crossings never do.
func (c *DragController) Over(target placement.Target) error {
	if c.session == nil {
		return ErrNoSession
	}
	if _, ok := c.store.Item(c.session.itemID); !ok {
		c.logger.Debug("dragged item vanished, dropping session", "item", c.session.itemID)
		c.session = nil
		return nil
	}
	dest, ok := c.resolveZone(target.ID)
	if !ok {
		return nil
	}
	c.speculate(dest, target)
	c.refreshStatuses()
	return nil
}

// End resolves the drop on target and closes the session.
func (c *DragController) End(target placement.Target) (primary.DropOutcome, error) {
	s := c.session
	if s == nil {
		return primary.DropOutcome{Result: primary.DropNone}, nil
	}
	defer func() { c.session = nil }()

	if _, ok := c.store.Item(s.itemID); !ok {
		return primary.DropOutcome{Result: primary.DropReverted, ItemID: s.itemID}, nil
	}

	dest, ok := c.resolveZone(target.ID)
	if !ok {
		c.revert()
		c.logger.Debug("drop outside any zone, reverted", "item", s.itemID)
		return primary.DropOutcome{Result: primary.DropReverted, ItemID: s.itemID}, nil
	}

	if current, _, _ := c.store.ZoneOf(s.itemID); current != dest.ID {
		c.speculate(dest, target)
	}

	res := placement.Reconcile(placement.ReconcileInput{
		Item:        s.item,
		Origin:      s.origin,
		Destination: dest,
		Occupancy:   c.occupancyWithout(dest.ID, s.itemID),
	})

	switch res.Action {
	case placement.ActionRevert:
		c.revert()
		c.logger.Debug("drop refused", "item", s.itemID, "zone", dest.ID, "reason", res.Guard.Reason)
		return primary.DropOutcome{Result: primary.DropReverted, ItemID: s.itemID, Reason: res.Guard.Reason}, nil

	case placement.ActionCommit:
		if current, _, _ := c.store.ZoneOf(s.itemID); current != dest.ID {
			c.revert()
			return primary.DropOutcome{Result: primary.DropReverted, ItemID: s.itemID}, nil
		}
		c.logger.Debug("drop committed", "item", s.itemID, "from", s.origin.ID, "to", dest.ID)
		return primary.DropOutcome{Result: primary.DropMoved, ItemID: s.itemID}, nil

	case placement.ActionReorder:
		if current, _, _ := c.store.ZoneOf(s.itemID); current != dest.ID {
			c.revert()
			return primary.DropOutcome{Result: primary.DropReverted, ItemID: s.itemID}, nil
		}
		if err := c.reorder(dest, target); err != nil {
			c.revert()
			return primary.DropOutcome{Result: primary.DropReverted, ItemID: s.itemID}, err
		}
		return primary.DropOutcome{Result: primary.DropReordered, ItemID: s.itemID}, nil

	case placement.ActionPendingSave:
		c.revert()
		current, _ := c.store.Item(s.itemID)
		order := c.store.Order(dest.ID)
		idx := placement.InsertionIndex(order, target.ID, target.PastMidpoint())
		ps := primary.PendingSave{
			Item:              current,
			SourceZoneID:      s.origin.ID,
			DestinationZoneID: dest.ID,
			InsertionAnchorID: placement.AnchorAt(order, idx),
		}
		if c.onPendingSave != nil {
			c.onPendingSave(ps)
		}
		c.logger.Debug("library drop awaiting name", "item", s.itemID, "anchor", ps.InsertionAnchorID)
		return primary.DropOutcome{Result: primary.DropPendingSave, ItemID: s.itemID}, nil

	case placement.ActionCloneOut:
		return c.cloneOut(dest, target)
	}

	c.revert()
	return primary.DropOutcome{Result: primary.DropReverted, ItemID: s.itemID}, nil
}

// Cancel abandons the drag and restores the placement it started from.
func (c *DragController) Cancel() {
	if c.session == nil {
		return
	}
	c.revert()
	c.logger.Debug("drag cancelled", "item", c.session.itemID)
	c.session = nil
}

// resolveZone maps a hover target (zone id or item id) to a zone.
func (c *DragController) resolveZone(targetID string) (zone.Zone, bool) {
	if z, ok := c.registry.ZoneByID(targetID); ok {
		return z, true
	}
	zoneID, _, ok := c.store.ZoneOf(targetID)
	if !ok {
		return zone.Zone{}, false
	}
	return c.registry.ZoneByID(zoneID)
}

// speculate moves the dragged item into dest at the tie-break index when the
// guard allows it. Staying in the current zone or crossing the library
// boundary changes nothing.
func (c *DragController) speculate(dest zone.Zone, target placement.Target) {
	s := c.session
	current, _, ok := c.store.ZoneOf(s.itemID)
	if !ok || current == dest.ID {
		return
	}
	if placement.IsLibraryCrossing(s.origin, dest) {
		return
	}
	occupancy := c.occupancyWithout(dest.ID, s.itemID)
	guard := placement.CanPlace(placement.PlaceContext{
		Item:        s.item,
		Source:      s.origin,
		Destination: dest,
		Occupancy:   occupancy,
	})
	// CanPlace skips the capacity check for the origin zone, but the item has
	// left it and the zone may have filled up since.
	if !guard.Allowed || !dest.HasRoom(occupancy) {
		return
	}
	idx := placement.InsertionIndex(c.store.Order(dest.ID), target.ID, target.PastMidpoint())
	c.observe()
	if c.store.moveItem(s.itemID, dest.ID, idx) {
		s.rev = c.store.Revision()
		c.logger.Debug("speculative move", "item", s.itemID, "zone", dest.ID, "index", idx)
	}
}

// reorder finishes a same-zone gesture by moving the item to the hovered item's index.
func (c *DragController) reorder(dest zone.Zone, target placement.Target) error {
	s := c.session
	_, from, _ := c.store.ZoneOf(s.itemID)
	if target.ID == s.itemID {
		return nil
	}
	to := -1
	for i, id := range c.store.Order(dest.ID) {
		if id == target.ID {
			to = i
			break
		}
	}
	if to < 0 || to == from {
		return nil
	}
	if err := c.store.Reorder(dest.ID, from, to); err != nil {
		return err
	}
	c.logger.Debug("drop reordered", "item", s.itemID, "zone", dest.ID, "from", from, "to", to)
	return nil
}

// cloneOut copies a library template into dest.
func (c *DragController) cloneOut(dest zone.Zone, target placement.Target) (primary.DropOutcome, error) {
	s := c.session
	c.revert()

	payload, ok := placement.CloneOut(s.item)
	if !ok {
		return primary.DropOutcome{Result: primary.DropReverted, ItemID: s.itemID}, nil
	}
	clone := item.Item{ID: c.newID(), Payload: payload}
	idx := placement.InsertionIndex(c.store.Order(dest.ID), target.ID, target.PastMidpoint())
	if err := c.store.InsertItem(dest.ID, idx, clone); err != nil {
		c.logger.Debug("clone refused", "item", s.itemID, "zone", dest.ID, "err", err)
		return primary.DropOutcome{Result: primary.DropReverted, ItemID: s.itemID, Reason: err.Error()}, nil
	}
	c.logger.Debug("library item cloned", "source", s.itemID, "clone", clone.ID, "zone", dest.ID, "index", idx)
	return primary.DropOutcome{Result: primary.DropCloned, ItemID: clone.ID}, nil
}

// revert undoes the session's speculative moves. When nothing else touched the
// store since the last speculative move the snapshot is restored wholesale;
// otherwise only the dragged item is put back.
func (c *DragController) revert() {
	s := c.session
	c.observe()
	if !s.foreign {
		if current, idx, ok := c.store.ZoneOf(s.itemID); ok && current == s.origin.ID && idx == s.originIdx {
			return
		}
		c.store.restore(s.snapshot)
		s.rev = c.store.Revision()
		return
	}
	current, idx, ok := c.store.ZoneOf(s.itemID)
	if !ok || (current == s.origin.ID && idx == s.originIdx) {
		return
	}
	if current != s.origin.ID && !s.origin.HasRoom(c.occupancyWithout(s.origin.ID, s.itemID)) {
		c.logger.Warn("origin zone filled during drag, item stays put", "item", s.itemID, "origin", s.origin.ID, "zone", current)
		return
	}
	c.store.moveItem(s.itemID, s.origin.ID, s.originIdx)
	s.rev = c.store.Revision()
}

// observe records whether the store moved past the session's own last mutation.
func (c *DragController) observe() {
	if c.store.Revision() != c.session.rev {
		c.session.foreign = true
	}
}

func (c *DragController) occupancyWithout(zoneID, itemID string) int {
	order := c.store.Order(zoneID)
	for _, id := range order {
		if id == itemID {
			return len(order) - 1
		}
	}
	return len(order)
}

func (c *DragController) refreshStatuses() {
	s := c.session
	current, _, _ := c.store.ZoneOf(s.itemID)
	s.statuses = placement.ComputeDropStatuses(placement.IndicatorInput{
		Item:      s.item,
		Origin:    s.origin,
		Current:   current,
		Zones:     c.registry.Zones(),
		Occupancy: c.store.Occupancy(),
	})
}
