package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/folio/internal/core/zone"
)

type zoneFixture struct {
	zone      zone.Zone
	occupancy int
}

func TestInsertionIndex(t *testing.T) {
	order := []string{"a", "b", "c"}

	tests := []struct {
		name    string
		hovered string
		past    bool
		want    int
	}{
		{name: "before hovered item", hovered: "b", past: false, want: 1},
		{name: "after hovered item", hovered: "b", past: true, want: 2},
		{name: "after last item", hovered: "c", past: true, want: 3},
		{name: "before first item", hovered: "a", want: 0},
		{name: "hovering the zone appends", hovered: "zone-id", want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InsertionIndex(order, tt.hovered, tt.past))
		})
	}

	assert.Equal(t, 0, InsertionIndex(nil, "empty-zone", false))
}

func TestTargetPastMidpoint(t *testing.T) {
	rect := Rect{Top: 100, Height: 40}
	assert.False(t, Target{PointerY: 110, Rect: rect}.PastMidpoint())
	assert.False(t, Target{PointerY: 120, Rect: rect}.PastMidpoint())
	assert.True(t, Target{PointerY: 121, Rect: rect}.PastMidpoint())
}

func TestMove(t *testing.T) {
	old := []string{"x", "y", "z"}

	assert.Equal(t, []string{"y", "z", "x"}, Move(old, 0, 2))
	assert.Equal(t, []string{"z", "x", "y"}, Move(old, 2, 0))
	assert.Equal(t, []string{"x", "z", "y"}, Move(old, 1, 2))
	assert.Equal(t, old, Move(old, 1, 1))
	assert.Equal(t, []string{"x", "y", "z"}, old, "input must not change")
}

func TestInsertRemoveAnchor(t *testing.T) {
	order := []string{"a", "b"}

	assert.Equal(t, []string{"n", "a", "b"}, Insert(order, -3, "n"))
	assert.Equal(t, []string{"a", "n", "b"}, Insert(order, 1, "n"))
	assert.Equal(t, []string{"a", "b", "n"}, Insert(order, 9, "n"))

	rest, idx := Remove(order, "a")
	assert.Equal(t, []string{"b"}, rest)
	assert.Equal(t, 0, idx)
	_, idx = Remove(order, "zz")
	assert.Equal(t, -1, idx)

	assert.Equal(t, "b", AnchorAt(order, 1))
	assert.Equal(t, "", AnchorAt(order, 2))
	assert.Equal(t, 1, AnchorIndex(order, "b"))
	assert.Equal(t, 2, AnchorIndex(order, ""))
	assert.Equal(t, 2, AnchorIndex(order, "gone"))
}
