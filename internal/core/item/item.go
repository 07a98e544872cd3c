// Package item contains the placed-content model of the portfolio editor.
// Items carry a kind-tagged payload; each kind is a distinct Payload variant.
// This is part of the Functional Core - no I/O, only values and pure functions.
package item

import "fmt"

// Kind discriminates payload variants.
type Kind string

const (
	KindText     Kind = "text"
	KindRichText Kind = "richText"
	KindMedia    Kind = "media"
	KindLinks    Kind = "links"
	KindLibrary  Kind = "libraryReference"
)

// Kinds lists every kind an ordinary zone may accept.
func Kinds() []Kind {
	return []Kind{KindText, KindRichText, KindMedia, KindLinks}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindRichText, KindMedia, KindLinks, KindLibrary:
		return true
	}
	return false
}

// ParseKind converts a config or script string into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown item kind %q", s)
	}
	return k, nil
}

// Item is a placed unit of content.
// ID never changes after creation. RemoteID is empty until the saved section
// backing a library item exists in persistence.
type Item struct {
	ID       string
	Payload  Payload
	RemoteID string
}

// Kind returns the discriminant of the item's payload.
func (i Item) Kind() Kind {
	if i.Payload == nil {
		return ""
	}
	return i.Payload.Kind()
}

// OriginKind returns the kind a library item was cloned from.
// It is empty for items outside the library.
func (i Item) OriginKind() Kind {
	if lib, ok := i.Payload.(Library); ok && lib.Template != nil {
		return lib.Template.Kind()
	}
	return ""
}

// IsLibrary reports whether the item is a library entry.
func (i Item) IsLibrary() bool {
	return i.Kind() == KindLibrary
}

// Clone returns a deep copy of the item.
func (i Item) Clone() Item {
	out := i
	if i.Payload != nil {
		out.Payload = i.Payload.Clone()
	}
	return out
}

// Ptr returns a pointer to v. Used to build patches.
func Ptr[T any](v T) *T {
	return &v
}
