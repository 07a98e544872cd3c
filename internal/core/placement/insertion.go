package placement

// Rect is the vertical extent of a rendered item.
type Rect struct {
	Top    float64
	Height float64
}

// Target is what the pointer is over during a drag: an item id or a zone id,
// plus the pointer position and the hovered element's bounds.
type Target struct {
	ID       string
	PointerY float64
	Rect     Rect
}

// PastMidpoint reports whether the pointer is below the middle of the hovered element.
func (t Target) PastMidpoint() bool {
	return t.PointerY > t.Rect.Top+t.Rect.Height/2
}

// InsertionIndex returns where a dragged item lands in order.
// Hovering an item inserts before it, or after it when the pointer is past its
// midpoint. Hovering anything not in order (an empty zone) appends.
func InsertionIndex(order []string, hoveredID string, pastMidpoint bool) int {
	for i, id := range order {
		if id == hoveredID {
			if pastMidpoint {
				return i + 1
			}
			return i
		}
	}
	return len(order)
}

// AnchorAt returns the id an insertion at index lands in front of, or "" for the end.
func AnchorAt(order []string, index int) string {
	if index >= 0 && index < len(order) {
		return order[index]
	}
	return ""
}

// AnchorIndex resolves an anchor back to an index; unknown anchors append.
func AnchorIndex(order []string, anchorID string) int {
	if anchorID == "" {
		return len(order)
	}
	for i, id := range order {
		if id == anchorID {
			return i
		}
	}
	return len(order)
}

// Move returns order with the element at from moved to to, shifting the
// entries in between. The input slice is not modified.
func Move(order []string, from, to int) []string {
	out := make([]string, len(order))
	copy(out, order)
	if from == to {
		return out
	}
	v := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = v
	return out
}

// Insert returns order with id inserted at index (clamped to the bounds).
func Insert(order []string, index int, id string) []string {
	if index < 0 {
		index = 0
	}
	if index > len(order) {
		index = len(order)
	}
	out := make([]string, 0, len(order)+1)
	out = append(out, order[:index]...)
	out = append(out, id)
	return append(out, order[index:]...)
}

// Remove returns order without id and the index it was at, or -1.
func Remove(order []string, id string) ([]string, int) {
	for i, v := range order {
		if v == id {
			out := make([]string, 0, len(order)-1)
			out = append(out, order[:i]...)
			return append(out, order[i+1:]...), i
		}
	}
	return order, -1
}
