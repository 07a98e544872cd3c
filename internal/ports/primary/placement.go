package primary

import (
	"context"

	"github.com/example/folio/internal/core/item"
	"github.com/example/folio/internal/core/placement"
)

// PlacementService defines the primary port the rendering layer drives.
// Mutations happen only through these intents; reads go through Snapshot.
type PlacementService interface {
	// Snapshot returns a deep copy of the current placement.
	Snapshot() Snapshot

	// Subscribe registers a listener called after every mutation.
	// Listeners must not call mutating intents.
	Subscribe(listener func(Snapshot)) (unsubscribe func())

	// SubscribeNotices registers a listener for persistence outcomes.
	SubscribeNotices(listener func(Notice)) (unsubscribe func())

	// DropStatuses returns per-zone feedback for the active drag, nil when idle.
	DropStatuses() map[string]placement.DropStatus

	// StartDrag begins a drag gesture for itemID.
	StartDrag(itemID string) error

	// DragOver moves the dragged item speculatively toward target.
	DragOver(target placement.Target) error

	// EndDrag finishes the gesture on target.
	EndDrag(target placement.Target) (DropOutcome, error)

	// CancelDrag restores the pre-drag placement.
	CancelDrag()

	// AddItem places a fresh, empty item of kind at the end of zoneID.
	AddItem(zoneID string, kind item.Kind) (string, error)

	// RemoveItem removes an ordinary item at once, or raises a pending delete for a library item.
	RemoveItem(itemID string) (RemoveOutcome, error)

	// UpdateItem merges patch into the item's payload.
	UpdateItem(itemID string, patch item.Patch) error

	// Reorder moves an item within a zone.
	Reorder(zoneID string, from, to int) error

	// ConfirmSave names and commits the pending save; persistence runs in the background.
	ConfirmSave(ctx context.Context, name string) (string, error)

	// CancelSave discards the pending save.
	CancelSave()

	// ConfirmDelete removes the pending library item; persistence runs in the background.
	ConfirmDelete(ctx context.Context) error

	// CancelDelete discards the pending delete.
	CancelDelete()

	// PendingSave returns the save awaiting a name, if any.
	PendingSave() (PendingSave, bool)

	// PendingDelete returns the delete awaiting confirmation, if any.
	PendingDelete() (PendingDelete, bool)

	// Wait blocks until all in-flight persistence work has settled.
	Wait()
}

// Snapshot is the read-only view of the placement.
type Snapshot struct {
	ZoneOrder map[string][]string
	Items     map[string]item.Item
}

// ZoneOf returns the zone holding itemID.
func (s Snapshot) ZoneOf(itemID string) (string, bool) {
	for z, ids := range s.ZoneOrder {
		for _, id := range ids {
			if id == itemID {
				return z, true
			}
		}
	}
	return "", false
}

// DropOutcome reports what EndDrag did.
type DropOutcome struct {
	Result DropResult
	ItemID string // the committed, cloned or pending item
	Reason string // populated for reverted drops refused by a guard
}

// DropResult enumerates drag-end results.
type DropResult string

const (
	DropNone        DropResult = "none"         // no active drag
	DropReverted    DropResult = "reverted"     // snapped back
	DropMoved       DropResult = "moved"        // relocated to another zone
	DropReordered   DropResult = "reordered"    // reordered within its zone
	DropCloned      DropResult = "cloned"       // library template copied out
	DropPendingSave DropResult = "pending_save" // awaiting a name
)

// RemoveOutcome reports what RemoveItem did.
type RemoveOutcome string

const (
	RemoveNone    RemoveOutcome = "none"    // unknown item, nothing happened
	RemoveDone    RemoveOutcome = "removed" // ordinary item removed
	RemovePending RemoveOutcome = "pending" // library item awaiting confirmation
)

// PendingSave is a library drop awaiting a name.
type PendingSave struct {
	Item              item.Item
	SourceZoneID      string
	DestinationZoneID string
	InsertionAnchorID string // "" appends
}

// PendingDelete is a library removal awaiting confirmation.
type PendingDelete struct {
	ItemID string
	Item   item.Item
}

// NoticeLevel grades a notice.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// NoticeKind names what a notice is about.
type NoticeKind string

const (
	NoticeSaved              NoticeKind = "saved"
	NoticeDeleted            NoticeKind = "deleted"
	NoticeAssetUploadFailed  NoticeKind = "asset_upload_failed"
	NoticePersistenceFailure NoticeKind = "persistence_failure"
)

// Notice is a user-facing outcome of background persistence.
type Notice struct {
	Level    NoticeLevel
	Kind     NoticeKind
	ItemID   string
	RemoteID string
	Err      error
}
