// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/example/folio/internal/core/library"
	"github.com/example/folio/internal/ports/secondary"
)

// SavedItemRepository implements secondary.SavedItemRepository with SQLite.
type SavedItemRepository struct {
	db *sql.DB
	mu sync.Mutex // serializes id allocation with its insert
}

// NewSavedItemRepository creates a new SQLite saved item repository.
func NewSavedItemRepository(db *sql.DB) *SavedItemRepository {
	return &SavedItemRepository{db: db}
}

// Create persists a new saved section and returns its ID.
func (r *SavedItemRepository) Create(ctx context.Context, name string, payload []byte) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, err := r.GetNextID(ctx)
	if err != nil {
		return "", err
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO saved_items (id, name, payload) VALUES (?, ?, ?)",
		id, name, payload,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create saved section: %w", err)
	}

	return id, nil
}

// GetByID retrieves a saved section by its ID.
func (r *SavedItemRepository) GetByID(ctx context.Context, id string) (*secondary.SavedItemRecord, error) {
	var createdAt time.Time

	record := &secondary.SavedItemRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, payload, created_at FROM saved_items WHERE id = ?",
		id,
	).Scan(&record.ID, &record.Name, &record.Payload, &createdAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("saved section %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get saved section: %w", err)
	}

	record.CreatedAt = createdAt.Format(time.RFC3339)
	return record, nil
}

// List retrieves all saved sections, oldest first.
func (r *SavedItemRepository) List(ctx context.Context) ([]*secondary.SavedItemRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, payload, created_at FROM saved_items ORDER BY created_at ASC, id ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved sections: %w", err)
	}
	defer rows.Close()

	var records []*secondary.SavedItemRecord
	for rows.Next() {
		var createdAt time.Time
		record := &secondary.SavedItemRecord{}
		if err := rows.Scan(&record.ID, &record.Name, &record.Payload, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan saved section: %w", err)
		}
		record.CreatedAt = createdAt.Format(time.RFC3339)
		records = append(records, record)
	}

	return records, rows.Err()
}

// Delete removes a saved section from persistence.
func (r *SavedItemRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM saved_items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete saved section: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("saved section %s not found", id)
	}

	return nil
}

// GetNextID returns the next available saved section ID.
func (r *SavedItemRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 7) AS INTEGER)), 0) FROM saved_items",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next saved section ID: %w", err)
	}

	return library.GenerateSavedID(maxID), nil
}

// Ensure SavedItemRepository implements the interface
var _ secondary.SavedItemRepository = (*SavedItemRepository)(nil)
