package item

import (
	"errors"
	"fmt"
)

// ErrPatchMismatch is returned when a patch targets a different kind than the payload.
var ErrPatchMismatch = errors.New("patch does not match payload kind")

// Patch is a partial update for one payload variant.
// Nil fields are left untouched by Merge.
type Patch interface {
	Kind() Kind
	isPatch()
}

// TextPatch updates a Text payload.
type TextPatch struct {
	Heading *string
	Body    *string
}

// RichTextPatch updates a RichText payload.
type RichTextPatch struct {
	Markdown *string
}

// MediaPatch updates a Media payload.
// Asset replaces the pending upload; ClearAsset drops it.
type MediaPatch struct {
	URL        *string
	Caption    *string
	Alt        *string
	Asset      *Asset
	ClearAsset bool
}

// LinksPatch replaces the link list when Links is non-nil.
type LinksPatch struct {
	Links *[]Link
}

// LibraryPatch renames a library item.
type LibraryPatch struct {
	Name *string
}

func (TextPatch) Kind() Kind     { return KindText }
func (RichTextPatch) Kind() Kind { return KindRichText }
func (MediaPatch) Kind() Kind    { return KindMedia }
func (LinksPatch) Kind() Kind    { return KindLinks }
func (LibraryPatch) Kind() Kind  { return KindLibrary }

func (TextPatch) isPatch()     {}
func (RichTextPatch) isPatch() {}
func (MediaPatch) isPatch()    {}
func (LinksPatch) isPatch()    {}
func (LibraryPatch) isPatch()  {}

// Merge applies patch to p and returns the merged payload.
// Fields absent from the patch keep their current value; p is not modified.
// Pointer patches are accepted; a nil pointer is a mismatch.
func Merge(p Payload, patch Patch) (Payload, error) {
	patch = derefPatch(patch)
	if p == nil || patch == nil || p.Kind() != patch.Kind() {
		return nil, fmt.Errorf("%w: payload %s, patch %s", ErrPatchMismatch, kindOf(p), kindOf(patch))
	}

	switch v := p.Clone().(type) {
	case Text:
		if pt, ok := patch.(TextPatch); ok {
			setIf(&v.Heading, pt.Heading)
			setIf(&v.Body, pt.Body)
			return v, nil
		}
	case RichText:
		if pt, ok := patch.(RichTextPatch); ok {
			setIf(&v.Markdown, pt.Markdown)
			return v, nil
		}
	case Media:
		if pt, ok := patch.(MediaPatch); ok {
			setIf(&v.URL, pt.URL)
			setIf(&v.Caption, pt.Caption)
			setIf(&v.Alt, pt.Alt)
			if pt.ClearAsset {
				v.Asset = nil
			}
			if pt.Asset != nil {
				a := *pt.Asset
				a.Data = append([]byte(nil), pt.Asset.Data...)
				v.Asset = &a
			}
			return v, nil
		}
	case Links:
		if pt, ok := patch.(LinksPatch); ok {
			if pt.Links != nil {
				v.Links = append([]Link(nil), (*pt.Links)...)
			}
			return v, nil
		}
	case Library:
		if pt, ok := patch.(LibraryPatch); ok {
			setIf(&v.Name, pt.Name)
			return v, nil
		}
	default:
		return nil, fmt.Errorf("unsupported payload %T", p)
	}
	return nil, fmt.Errorf("%w: payload %s, patch %T", ErrPatchMismatch, p.Kind(), patch)
}

// derefPatch turns pointer patches into values. A nil pointer becomes nil.
func derefPatch(patch Patch) Patch {
	switch pt := patch.(type) {
	case *TextPatch:
		if pt != nil {
			return *pt
		}
	case *RichTextPatch:
		if pt != nil {
			return *pt
		}
	case *MediaPatch:
		if pt != nil {
			return *pt
		}
	case *LinksPatch:
		if pt != nil {
			return *pt
		}
	case *LibraryPatch:
		if pt != nil {
			return *pt
		}
	default:
		return patch
	}
	return nil
}

func setIf(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func kindOf(k interface{ Kind() Kind }) Kind {
	if k == nil {
		return ""
	}
	return k.Kind()
}
