package script

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/folio/internal/app"
	"github.com/example/folio/internal/core/item"
	"github.com/example/folio/internal/core/zone"
	"github.com/example/folio/internal/ports/secondary"
)

// memoryRepository is an in-memory secondary.SavedItemRepository.
type memoryRepository struct {
	mu      sync.Mutex
	records map[string]*secondary.SavedItemRecord
	next    int
}

func (m *memoryRepository) Create(ctx context.Context, name string, payload []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	id := fmt.Sprintf("SAVED-%03d", m.next)
	m.records[id] = &secondary.SavedItemRecord{ID: id, Name: name, Payload: payload}
	return id, nil
}

func (m *memoryRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

func (m *memoryRepository) GetByID(ctx context.Context, id string) (*secondary.SavedItemRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[id], nil
}

func (m *memoryRepository) List(ctx context.Context) ([]*secondary.SavedItemRecord, error) {
	return nil, nil
}

type memoryAssets struct{}

func (memoryAssets) Upload(ctx context.Context, a *secondary.AssetUpload) (string, error) {
	return "asset://" + a.Filename, nil
}

func (memoryAssets) Delete(ctx context.Context, url string) error {
	return nil
}

func newTestEngine(t *testing.T) (*app.Engine, *memoryRepository) {
	t.Helper()
	reg, err := zone.NewRegistry(
		zone.New("hero", 1, item.KindText, item.KindMedia),
		zone.New("about", 3, item.KindText, item.KindRichText),
		zone.New("contact", zone.Unbounded, item.KindLinks),
		zone.NewLibrary("library", zone.Unbounded),
	)
	require.NoError(t, err)
	repo := &memoryRepository{records: make(map[string]*secondary.SavedItemRecord)}
	return app.NewEngine(reg, repo, app.WithAssetStore(memoryAssets{})), repo
}

func TestParseRejectsAmbiguousSteps(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{name: "empty step", yaml: "steps:\n  - {}\n", want: "no action"},
		{name: "two actions", yaml: "steps:\n  - add: {zone: a, kind: text}\n    cancel_save: true\n", want: "more than one action"},
		{name: "drag without drop", yaml: "steps:\n  - drag: {item: x}\n", want: "needs drop or cancel"},
		{name: "not yaml", yaml: "steps: [", want: "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRunSession(t *testing.T) {
	svc, repo := newTestEngine(t)
	s, err := Parse([]byte(`
name: portfolio
steps:
  - add: {zone: about, kind: text, as: bio}
  - update: {item: bio, heading: "About me", body: "I build things"}
  - add: {zone: hero, kind: text, as: tagline}
  - drag: {item: bio, over: [hero], drop: hero}
  - expect: {result: reverted, zone: hero, items: [tagline]}
  - drag: {item: bio, over: [library], drop: library}
  - expect: {result: pending_save}
  - save: {name: Bio, as: saved-bio}
  - expect: {zone: library, items: [saved-bio]}
  - expect: {zone: about, items: [bio]}
  - drag: {item: saved-bio, drop: bio, below: true, as: bio-copy}
  - expect: {result: cloned, zone: about, items: [bio, bio-copy]}
  - reorder: {zone: about, from: 0, to: 1}
  - expect: {zone: about, items: [bio-copy, bio]}
  - drag: {item: bio, over: [contact], cancel: true}
  - remove: {item: saved-bio}
  - confirm_delete: true
  - expect: {zone: library, count: 0}
`))
	require.NoError(t, err)

	runner := NewRunner(svc, t.TempDir(), log.New(io.Discard))
	results, err := runner.Run(context.Background(), s)
	require.NoError(t, err)
	assert.Len(t, results, len(s.Steps))

	assert.Empty(t, repo.records, "the saved section was deleted again")
	copyItem := svc.Snapshot().Items[runner.Resolve("bio-copy")]
	assert.Equal(t, item.Text{Heading: "About me", Body: "I build things"}, copyItem.Payload)
}

func TestRunUploadsAssetOnSave(t *testing.T) {
	svc, _ := newTestEngine(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "me.png"), []byte("png"), 0644))

	s, err := Parse([]byte(`
steps:
  - add: {zone: hero, kind: media, as: portrait}
  - update: {item: portrait, caption: "Me", asset: me.png}
  - drag: {item: portrait, drop: library}
  - save: {name: Portrait, as: saved}
`))
	require.NoError(t, err)

	runner := NewRunner(svc, dir, log.New(io.Discard))
	_, err = runner.Run(context.Background(), s)
	require.NoError(t, err)

	saved := svc.Snapshot().Items[runner.Resolve("saved")]
	media := saved.Payload.(item.Library).Template.(item.Media)
	assert.Equal(t, "asset://me.png", media.URL)
	assert.Equal(t, "Me", media.Caption)
	assert.Nil(t, media.Asset)
	assert.Equal(t, "SAVED-001", saved.RemoteID)
}

func TestRunStopsAtFailedExpectation(t *testing.T) {
	svc, _ := newTestEngine(t)
	s, err := Parse([]byte(`
steps:
  - add: {zone: about, kind: text}
  - expect: {zone: about, count: 2}
  - add: {zone: about, kind: text}
`))
	require.NoError(t, err)

	results, err := NewRunner(svc, "", log.New(io.Discard)).Run(context.Background(), s)
	assert.ErrorIs(t, err, ErrExpectation)
	assert.Contains(t, err.Error(), "step 2 (expect)")
	assert.Len(t, results, 1)
}

func TestRunSurfacesIntentErrors(t *testing.T) {
	svc, _ := newTestEngine(t)
	s, err := Parse([]byte(`
steps:
  - add: {zone: library, kind: text}
`))
	require.NoError(t, err)

	_, err = NewRunner(svc, "", log.New(io.Discard)).Run(context.Background(), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 1 (add)")
}
