// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// SavedItemRepository defines the secondary port for saved-section persistence.
// Payloads are opaque serialized bytes; the repository only has to round-trip them.
type SavedItemRepository interface {
	// Create persists a new saved section and returns its remote ID.
	Create(ctx context.Context, name string, payload []byte) (string, error)

	// Delete removes a saved section from persistence.
	Delete(ctx context.Context, id string) error

	// GetByID retrieves a saved section by its remote ID.
	GetByID(ctx context.Context, id string) (*SavedItemRecord, error)

	// List retrieves all saved sections, oldest first.
	List(ctx context.Context) ([]*SavedItemRecord, error)
}

// SavedItemRecord represents a saved section as stored in persistence.
type SavedItemRecord struct {
	ID        string
	Name      string
	Payload   []byte
	CreatedAt string
}

// AssetStore defines the secondary port for binary asset uploads.
type AssetStore interface {
	// Upload stores the asset and returns the URL it can be served from.
	Upload(ctx context.Context, asset *AssetUpload) (string, error)

	// Delete removes an asset previously returned by Upload.
	// URLs the store did not issue, or no longer holds, are ignored.
	Delete(ctx context.Context, url string) error
}

// AssetUpload is a binary payload waiting for upload.
type AssetUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}
