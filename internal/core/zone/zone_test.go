package zone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/folio/internal/core/item"
)

func TestNewRegistry(t *testing.T) {
	tests := []struct {
		name    string
		zones   []Zone
		wantErr string
	}{
		{
			name:  "valid template",
			zones: []Zone{New("about", 2, item.KindText), NewLibrary("library", Unbounded)},
		},
		{
			name:    "duplicate id",
			zones:   []Zone{New("about", 2, item.KindText), New("about", 1, item.KindMedia)},
			wantErr: `duplicate zone id "about"`,
		},
		{
			name:    "negative capacity",
			zones:   []Zone{New("about", -1, item.KindText)},
			wantErr: `zone "about" has negative capacity -1`,
		},
		{
			name:    "empty id",
			zones:   []Zone{New("", 1)},
			wantErr: "zone id must not be empty",
		},
		{
			name:    "unknown kind",
			zones:   []Zone{New("about", 1, item.Kind("carousel"))},
			wantErr: `zone "about" accepts unknown kind "carousel"`,
		},
		{
			name:    "two libraries",
			zones:   []Zone{NewLibrary("a", 1), NewLibrary("b", 1)},
			wantErr: `zone "b": only one library zone is allowed`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.zones...)
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRegistryLookup(t *testing.T) {
	reg, err := NewRegistry(
		New("hero", 1, item.KindMedia),
		New("about", 2, item.KindText, item.KindRichText),
		NewLibrary("library", Unbounded),
	)
	require.NoError(t, err)

	about, ok := reg.ZoneByID("about")
	require.True(t, ok)
	assert.True(t, about.Accepts(item.KindRichText))
	assert.False(t, about.Accepts(item.KindMedia))
	assert.Equal(t, []item.Kind{item.KindRichText, item.KindText}, about.Kinds())
	assert.True(t, about.HasRoom(1))
	assert.False(t, about.HasRoom(2))

	_, ok = reg.ZoneByID("missing")
	assert.False(t, ok)

	lib, ok := reg.Library()
	require.True(t, ok)
	assert.Equal(t, "library", lib.ID)

	ids := []string{}
	for _, z := range reg.Zones() {
		ids = append(ids, z.ID)
	}
	assert.Equal(t, []string{"hero", "about", "library"}, ids)
}
