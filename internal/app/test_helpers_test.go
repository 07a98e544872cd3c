package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/folio/internal/core/item"
	"github.com/example/folio/internal/core/placement"
	"github.com/example/folio/internal/core/zone"
	"github.com/example/folio/internal/ports/primary"
	"github.com/example/folio/internal/ports/secondary"
)

// Ensure mocks implement the interfaces
var (
	_ secondary.SavedItemRepository = (*mockSavedItemRepository)(nil)
	_ secondary.AssetStore          = (*mockAssetStore)(nil)
)

// mockSavedItemRepository implements secondary.SavedItemRepository for testing.
// It is called from executor goroutines, so every field is guarded.
type mockSavedItemRepository struct {
	mu        sync.Mutex
	records   map[string]*secondary.SavedItemRecord
	order     []string
	deleted   []string
	next      int
	createErr error
	deleteErr error
	listErr   error

	// createGate, when set, blocks Create until it is closed.
	createGate chan struct{}
}

func newMockSavedItemRepository() *mockSavedItemRepository {
	return &mockSavedItemRepository{records: make(map[string]*secondary.SavedItemRecord)}
}

func (m *mockSavedItemRepository) Create(ctx context.Context, name string, payload []byte) (string, error) {
	m.mu.Lock()
	gate := m.createGate
	m.mu.Unlock()
	if gate != nil {
		<-gate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return "", m.createErr
	}
	m.next++
	id := fmt.Sprintf("SAVED-%03d", m.next)
	m.records[id] = &secondary.SavedItemRecord{ID: id, Name: name, Payload: payload}
	m.order = append(m.order, id)
	return id, nil
}

func (m *mockSavedItemRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.records[id]; !ok {
		return errors.New("saved section not found")
	}
	delete(m.records, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockSavedItemRepository) GetByID(ctx context.Context, id string) (*secondary.SavedItemRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec, ok := m.records[id]; ok {
		return rec, nil
	}
	return nil, errors.New("saved section not found")
}

func (m *mockSavedItemRepository) List(ctx context.Context) ([]*secondary.SavedItemRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*secondary.SavedItemRecord
	for _, id := range m.order {
		if rec, ok := m.records[id]; ok {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (m *mockSavedItemRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// mockAssetStore implements secondary.AssetStore for testing.
type mockAssetStore struct {
	mu        sync.Mutex
	uploads   []string
	deleted   []string
	uploadErr error
}

func (m *mockAssetStore) Upload(ctx context.Context, asset *secondary.AssetUpload) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	m.uploads = append(m.uploads, asset.Filename)
	return "asset://" + asset.Filename, nil
}

func (m *mockAssetStore) Delete(ctx context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, url)
	return nil
}

// sequentialIDs returns an IDGenerator yielding id-1, id-2, ...
func sequentialIDs() IDGenerator {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// testZones is the layout most engine tests run against:
//
//	a       text            capacity 2
//	b       text, richText  unbounded
//	c       media           capacity 3
//	library                 unbounded
func testZones(t *testing.T) *zone.Registry {
	t.Helper()
	reg, err := zone.NewRegistry(
		zone.New("a", 2, item.KindText),
		zone.New("b", zone.Unbounded, item.KindText, item.KindRichText),
		zone.New("c", 3, item.KindMedia),
		zone.NewLibrary("library", zone.Unbounded),
	)
	require.NoError(t, err)
	return reg
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *mockSavedItemRepository) {
	t.Helper()
	repo := newMockSavedItemRepository()
	opts = append([]Option{WithIDGenerator(sequentialIDs())}, opts...)
	return NewEngine(testZones(t), repo, opts...), repo
}

// mustAdd adds an item and applies an optional patch to it.
func mustAdd(t *testing.T, e *Engine, zoneID string, kind item.Kind, patch item.Patch) string {
	t.Helper()
	id, err := e.AddItem(zoneID, kind)
	require.NoError(t, err)
	if patch != nil {
		require.NoError(t, e.UpdateItem(id, patch))
	}
	return id
}

// over targets a zone or item with the pointer in its upper half.
func over(id string) placement.Target {
	return placement.Target{ID: id, PointerY: 1, Rect: placement.Rect{Top: 0, Height: 10}}
}

// below targets an item with the pointer past its midpoint.
func below(id string) placement.Target {
	return placement.Target{ID: id, PointerY: 9, Rect: placement.Rect{Top: 0, Height: 10}}
}

// noticeRecorder collects notices from SubscribeNotices.
type noticeRecorder struct {
	mu      sync.Mutex
	notices []primary.Notice
}

func (r *noticeRecorder) record(n primary.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *noticeRecorder) kinds() []primary.NoticeKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []primary.NoticeKind
	for _, n := range r.notices {
		out = append(out, n.Kind)
	}
	return out
}

func (r *noticeRecorder) all() []primary.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]primary.Notice{}, r.notices...)
}
