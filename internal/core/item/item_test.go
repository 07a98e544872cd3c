package item

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
		patch   Patch
		want    Payload
		wantErr bool
	}{
		{
			name:    "text keeps fields missing from the patch",
			payload: Text{Heading: "About", Body: "old"},
			patch:   TextPatch{Body: Ptr("new")},
			want:    Text{Heading: "About", Body: "new"},
		},
		{
			name:    "rich text replaces markdown",
			payload: RichText{Markdown: "*a*"},
			patch:   RichTextPatch{Markdown: Ptr("**b**")},
			want:    RichText{Markdown: "**b**"},
		},
		{
			name:    "media clears asset",
			payload: Media{Caption: "me", Asset: &Asset{Filename: "me.png", Data: []byte{1}}},
			patch:   MediaPatch{ClearAsset: true, URL: Ptr("https://cdn/me.png")},
			want:    Media{Caption: "me", URL: "https://cdn/me.png"},
		},
		{
			name:    "links replaced when set",
			payload: Links{Links: []Link{{Label: "gh", URL: "https://github.com"}}},
			patch:   LinksPatch{Links: &[]Link{{Label: "mail", URL: "mailto:me@x"}}},
			want:    Links{Links: []Link{{Label: "mail", URL: "mailto:me@x"}}},
		},
		{
			name:    "library rename keeps template",
			payload: Library{Name: "Bio", Template: Text{Heading: "Bio"}},
			patch:   LibraryPatch{Name: Ptr("Short bio")},
			want:    Library{Name: "Short bio", Template: Text{Heading: "Bio"}},
		},
		{
			name:    "kind mismatch",
			payload: Text{},
			patch:   MediaPatch{URL: Ptr("x")},
			wantErr: true,
		},
		{
			name:    "pointer text patch",
			payload: Text{Heading: "h"},
			patch:   &TextPatch{Body: Ptr("b")},
			want:    Text{Heading: "h", Body: "b"},
		},
		{
			name:    "pointer media patch",
			payload: Media{URL: "u"},
			patch:   &MediaPatch{Alt: Ptr("alt")},
			want:    Media{URL: "u", Alt: "alt"},
		},
		{
			name:    "pointer library patch",
			payload: Library{Name: "a", Template: Text{}},
			patch:   &LibraryPatch{Name: Ptr("b")},
			want:    Library{Name: "b", Template: Text{}},
		},
		{
			name:    "nil pointer patch",
			payload: Text{},
			patch:   (*TextPatch)(nil),
			wantErr: true,
		},
		{
			name:    "pointer patch of another kind",
			payload: Links{},
			patch:   &RichTextPatch{Markdown: Ptr("x")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Merge(tt.payload, tt.patch)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrPatchMismatch)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMergeDoesNotAliasInput(t *testing.T) {
	orig := Links{Links: []Link{{Label: "a"}}}
	links := []Link{{Label: "b"}}

	got, err := Merge(orig, LinksPatch{Links: &links})
	require.NoError(t, err)

	links[0].Label = "mutated"
	assert.Equal(t, "a", orig.Links[0].Label)
	assert.Equal(t, "b", got.(Links).Links[0].Label)
}

func TestItemOriginKind(t *testing.T) {
	lib := Item{ID: "1", Payload: Library{Name: "Bio", Template: Text{}}}
	assert.Equal(t, KindLibrary, lib.Kind())
	assert.Equal(t, KindText, lib.OriginKind())
	assert.True(t, lib.IsLibrary())

	plain := Item{ID: "2", Payload: Media{}}
	assert.Equal(t, Kind(""), plain.OriginKind())
	assert.False(t, plain.IsLibrary())
}

func TestCloneIsDeep(t *testing.T) {
	orig := Item{ID: "1", Payload: Library{Name: "Hero", Template: Media{Asset: &Asset{Data: []byte{1, 2}}}}}
	clone := orig.Clone()

	clone.Payload.(Library).Template.(Media).Asset.Data[0] = 9
	assert.Equal(t, byte(1), orig.Payload.(Library).Template.(Media).Asset.Data[0])
}

func TestEmpty(t *testing.T) {
	for _, k := range Kinds() {
		p, err := Empty(k)
		require.NoError(t, err)
		assert.Equal(t, k, p.Kind())
	}

	_, err := Empty(KindLibrary)
	assert.ErrorIs(t, err, ErrNotCreatable)

	_, err = Empty("carousel")
	assert.Error(t, err)
}

func TestPendingAssetAndURL(t *testing.T) {
	lib := Library{Name: "Hero", Template: Media{Caption: "c", Asset: &Asset{Filename: "a.png", Data: []byte("png")}}}

	asset, ok := PendingAsset(lib)
	require.True(t, ok)
	assert.Equal(t, "a.png", asset.Filename)

	resolved := WithAssetURL(lib, "asset://abc")
	_, ok = PendingAsset(resolved)
	assert.False(t, ok)
	assert.Equal(t, "asset://abc", resolved.(Library).Template.(Media).URL)
	assert.Equal(t, "asset://abc", AssetURL(resolved))
	assert.Empty(t, AssetURL(lib))
	assert.Empty(t, AssetURL(Library{Template: Text{Body: "b"}}))

	dropped := WithAssetURL(Media{URL: "old", Asset: &Asset{Data: []byte{1}}}, "")
	assert.Equal(t, Media{URL: "old"}, dropped)
}

func TestCodecRoundTrip(t *testing.T) {
	payloads := []Payload{
		Text{Heading: "Hi", Body: "there"},
		RichText{Markdown: "# Title"},
		Media{URL: "https://x/y.png", Caption: "c", Alt: "a", Asset: &Asset{Filename: "y.png", ContentType: "image/png", Data: []byte{1, 2, 3}}},
		Links{Links: []Link{{Label: "gh", URL: "https://github.com"}}},
		Library{Name: "Bio", Template: Text{Heading: "Bio", Body: "I build things"}},
		Library{Name: "Shots", Template: Media{URL: "https://x"}},
	}

	for _, p := range payloads {
		t.Run(string(p.Kind()), func(t *testing.T) {
			data, err := Encode(p)
			require.NoError(t, err)

			got, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, p, got)
		})
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("not cbor"))
	assert.Error(t, err)
}
