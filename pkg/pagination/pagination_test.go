package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, perPage, want int
	}{
		{0, 12, 0},
		{1, 12, 1},
		{12, 12, 1},
		{13, 12, 2},
		{14, 12, 2},
		{24, 12, 2},
		{25, 12, 3},
		{5, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.total, tt.perPage), "total=%d perPage=%d", tt.total, tt.perPage)
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 12))
	assert.Equal(t, 12, Offset(2, 12))
	assert.Equal(t, 36, Offset(4, 12))
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestSlice_Pages(t *testing.T) {
	items := seq(14)

	p1 := Slice(items, 1, 12)
	p2 := Slice(items, 2, 12)

	assert.Len(t, p1, 12)
	assert.Equal(t, []int{12, 13}, p2)
}

func TestSlice_PagesAreDisjointAndExhaustive(t *testing.T) {
	items := seq(50)
	var joined []int
	for page := 1; page <= TotalPages(len(items), 12); page++ {
		joined = append(joined, Slice(items, page, 12)...)
	}
	assert.Equal(t, items, joined)
}

func TestSlice_OutOfRange(t *testing.T) {
	items := seq(5)

	for _, page := range []int{0, -1, 2, 100, math.MaxInt} {
		got := Slice(items, page, 12)
		assert.NotNil(t, got, "page %d", page)
		assert.Empty(t, got, "page %d", page)
	}
}

func TestSlice_DoesNotAlias(t *testing.T) {
	items := seq(3)
	got := Slice(items, 1, 12)
	got[0] = 99
	assert.Equal(t, 0, items[0])
}
