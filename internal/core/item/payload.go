package item

import (
	"errors"
	"fmt"
)

// ErrNotCreatable is returned when an empty payload is requested for a kind
// that can only be produced by cloning.
var ErrNotCreatable = errors.New("kind cannot be created directly")

// Payload is the kind-specific content of an item.
// The set of variants is closed: Text, RichText, Media, Links and Library.
type Payload interface {
	Kind() Kind
	Clone() Payload
	isPayload()
}

// Text is a heading with a plain body.
type Text struct {
	Heading string `cbor:"heading"`
	Body    string `cbor:"body"`
}

// RichText is formatted prose stored as markdown.
type RichText struct {
	Markdown string `cbor:"markdown"`
}

// Media is an image or video reference.
// Asset holds bytes that still need uploading; it is cleared once URL is known.
type Media struct {
	URL     string `cbor:"url"`
	Caption string `cbor:"caption"`
	Alt     string `cbor:"alt"`
	Asset   *Asset `cbor:"asset,omitempty"`
}

// Asset is binary content waiting for upload.
type Asset struct {
	Filename    string `cbor:"filename"`
	ContentType string `cbor:"content_type"`
	Data        []byte `cbor:"data"`
}

// Link is a labelled URL.
type Link struct {
	Label string `cbor:"label"`
	URL   string `cbor:"url"`
}

// Links is an ordered list of links (contact section, social profiles).
type Links struct {
	Links []Link `cbor:"links"`
}

// Library is a named, reusable copy of another payload.
// Template's kind is the origin kind of the library item.
type Library struct {
	Name     string
	Template Payload
}

func (Text) Kind() Kind     { return KindText }
func (RichText) Kind() Kind { return KindRichText }
func (Media) Kind() Kind    { return KindMedia }
func (Links) Kind() Kind    { return KindLinks }
func (Library) Kind() Kind  { return KindLibrary }

func (Text) isPayload()     {}
func (RichText) isPayload() {}
func (Media) isPayload()    {}
func (Links) isPayload()    {}
func (Library) isPayload()  {}

func (p Text) Clone() Payload     { return p }
func (p RichText) Clone() Payload { return p }

func (p Media) Clone() Payload {
	if p.Asset != nil {
		a := *p.Asset
		a.Data = append([]byte(nil), p.Asset.Data...)
		p.Asset = &a
	}
	return p
}

func (p Links) Clone() Payload {
	p.Links = append([]Link(nil), p.Links...)
	return p
}

func (p Library) Clone() Payload {
	if p.Template != nil {
		p.Template = p.Template.Clone()
	}
	return p
}

// NeedsUpload reports whether the media carries bytes without a URL yet.
func (p Media) NeedsUpload() bool {
	return p.Asset != nil && len(p.Asset.Data) > 0
}

// Empty returns the initial payload for a freshly added item of kind k.
func Empty(k Kind) (Payload, error) {
	switch k {
	case KindText:
		return Text{}, nil
	case KindRichText:
		return RichText{}, nil
	case KindMedia:
		return Media{}, nil
	case KindLinks:
		return Links{}, nil
	case KindLibrary:
		return nil, fmt.Errorf("%s: %w", k, ErrNotCreatable)
	}
	return nil, fmt.Errorf("unknown item kind %q", k)
}

// PendingAsset returns the asset a payload still needs uploaded, looking
// through library templates.
func PendingAsset(p Payload) (*Asset, bool) {
	switch v := p.(type) {
	case Media:
		if v.NeedsUpload() {
			return v.Asset, true
		}
	case Library:
		return PendingAsset(v.Template)
	}
	return nil, false
}

// AssetURL returns the media URL a payload points at, looking through library
// templates. It is empty for payloads without media.
func AssetURL(p Payload) string {
	switch v := p.(type) {
	case Media:
		return v.URL
	case Library:
		return AssetURL(v.Template)
	}
	return ""
}

// WithAssetURL resolves a pending asset to url. With an empty url the pending
// bytes are dropped and the media keeps whatever URL it had.
func WithAssetURL(p Payload, url string) Payload {
	switch v := p.(type) {
	case Media:
		if url != "" {
			v.URL = url
		}
		v.Asset = nil
		return v
	case Library:
		v.Template = WithAssetURL(v.Template, url)
		return v
	}
	return p
}
