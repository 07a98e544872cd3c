package app

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/folio/internal/core/effects"
	"github.com/example/folio/internal/core/item"
)

type unknownEffect struct{}

func (unknownEffect) EffectType() string { return "unknown" }

func TestEffectExecutor_Execute(t *testing.T) {
	mediaLib := item.Library{Name: "Portrait", Template: item.Media{Asset: &item.Asset{Filename: "me.png", Data: []byte("png")}}}

	tests := []struct {
		name      string
		effs      []effects.Effect
		createErr error
		uploadErr error
		wantOps   []CompletionOp
		wantErr   bool
	}{
		{
			name: "create then log",
			effs: []effects.Effect{
				effects.CreateSavedItemEffect{ItemID: "l1", Name: "Bio", Payload: item.Library{Name: "Bio", Template: item.Text{}}},
				effects.LogEffect{Level: "info", Message: "saved section created"},
			},
			wantOps: []CompletionOp{OpCreate},
		},
		{
			name: "upload feeds create",
			effs: []effects.Effect{
				effects.UploadAssetEffect{ItemID: "l1", Asset: *mediaLib.Template.(item.Media).Asset},
				effects.CreateSavedItemEffect{ItemID: "l1", Name: "Portrait", Payload: mediaLib},
			},
			wantOps: []CompletionOp{OpUpload, OpCreate},
		},
		{
			name: "failed upload still creates",
			effs: []effects.Effect{
				effects.UploadAssetEffect{ItemID: "l1", Asset: *mediaLib.Template.(item.Media).Asset},
				effects.CreateSavedItemEffect{ItemID: "l1", Name: "Portrait", Payload: mediaLib},
			},
			uploadErr: errors.New("quota"),
			wantOps:   []CompletionOp{OpUpload, OpCreate},
		},
		{
			name: "failed create stops the run",
			effs: []effects.Effect{
				effects.CreateSavedItemEffect{ItemID: "l1", Name: "Bio", Payload: item.Library{Template: item.Text{}}},
				effects.DeleteSavedItemEffect{ItemID: "l0", RemoteID: "SAVED-009"},
			},
			createErr: errors.New("boom"),
			wantOps:   []CompletionOp{OpCreate},
			wantErr:   true,
		},
		{
			name:    "composite and none",
			effs:    []effects.Effect{effects.CompositeEffect{Effects: []effects.Effect{effects.NoEffect{}}}},
			wantOps: nil,
		},
		{
			name:    "unknown effect",
			effs:    []effects.Effect{unknownEffect{}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockSavedItemRepository()
			repo.createErr = tt.createErr
			assets := &mockAssetStore{uploadErr: tt.uploadErr}

			var ops []CompletionOp
			exec := NewEffectExecutor(repo, assets, log.New(&bytes.Buffer{}), func(c Completion) {
				ops = append(ops, c.Op)
			})

			err := exec.Execute(context.Background(), tt.effs)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantOps, ops)
		})
	}
}

func TestEffectExecutor_NoAssetStore(t *testing.T) {
	repo := newMockSavedItemRepository()
	var got []Completion
	exec := NewEffectExecutor(repo, nil, log.New(&bytes.Buffer{}), func(c Completion) { got = append(got, c) })

	err := exec.Execute(context.Background(), []effects.Effect{
		effects.UploadAssetEffect{ItemID: "l1", Asset: item.Asset{Filename: "a.png", Data: []byte("x")}},
		effects.CreateSavedItemEffect{ItemID: "l1", Name: "A", Payload: item.Library{Template: item.Media{Asset: &item.Asset{Data: []byte("x")}}}},
	})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.ErrorIs(t, got[0].Err, errNoAssetStore)
	assert.Equal(t, "SAVED-001", got[1].RemoteID)
}

func TestEffectExecutor_DeleteRemovesUnsharedAsset(t *testing.T) {
	ctx := context.Background()
	repo := newMockSavedItemRepository()
	assets := &mockAssetStore{}
	exec := NewEffectExecutor(repo, assets, log.New(&bytes.Buffer{}), nil)

	save := func(name, url string) string {
		data, err := item.Encode(item.Library{Name: name, Template: item.Media{URL: url}})
		require.NoError(t, err)
		id, err := repo.Create(ctx, name, data)
		require.NoError(t, err)
		return id
	}
	first := save("Portrait", "asset://me.png")
	second := save("Portrait copy", "asset://me.png")
	external := save("Banner", "https://example.com/banner.png")
	text, err := item.Encode(item.Library{Name: "Bio", Template: item.Text{Body: "hi"}})
	require.NoError(t, err)
	bio, err := repo.Create(ctx, "Bio", text)
	require.NoError(t, err)

	require.NoError(t, exec.Execute(ctx, []effects.Effect{effects.DeleteSavedItemEffect{ItemID: "l1", RemoteID: first}}))
	assert.Empty(t, assets.deleted, "asset still used by another section")

	require.NoError(t, exec.Execute(ctx, []effects.Effect{effects.DeleteSavedItemEffect{ItemID: "l2", RemoteID: second}}))
	assert.Equal(t, []string{"asset://me.png"}, assets.deleted)

	require.NoError(t, exec.Execute(ctx, []effects.Effect{
		effects.DeleteSavedItemEffect{ItemID: "l3", RemoteID: external},
		effects.DeleteSavedItemEffect{ItemID: "l4", RemoteID: bio},
	}))
	assert.Equal(t, []string{"asset://me.png", "https://example.com/banner.png"}, assets.deleted)
	assert.Equal(t, 0, repo.count())
}

func TestEffectExecutor_FailedDeleteKeepsAsset(t *testing.T) {
	ctx := context.Background()
	repo := newMockSavedItemRepository()
	assets := &mockAssetStore{}
	data, err := item.Encode(item.Library{Name: "Portrait", Template: item.Media{URL: "asset://me.png"}})
	require.NoError(t, err)
	id, err := repo.Create(ctx, "Portrait", data)
	require.NoError(t, err)
	repo.deleteErr = errors.New("locked")

	var got []Completion
	exec := NewEffectExecutor(repo, assets, log.New(&bytes.Buffer{}), func(c Completion) { got = append(got, c) })
	err = exec.Execute(ctx, []effects.Effect{effects.DeleteSavedItemEffect{ItemID: "l1", RemoteID: id}})

	require.Error(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, OpDelete, got[0].Op)
	assert.Error(t, got[0].Err)
	assert.Empty(t, assets.deleted)
}

func TestEffectExecutor_LogEffect(t *testing.T) {
	var buf bytes.Buffer
	exec := NewEffectExecutor(newMockSavedItemRepository(), nil, log.New(&buf), nil)

	err := exec.Execute(context.Background(), []effects.Effect{
		effects.LogEffect{Level: "warn", Message: "saved section deleted", Fields: map[string]any{"item": "l1"}},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "saved section deleted")
	assert.Contains(t, buf.String(), "item=l1")
}
