package paging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginateClampsLow(t *testing.T) {
	p := Paginate(20, 0, 8)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 0, p.Offset)

	p = Paginate(20, -5, 8)
	assert.Equal(t, 1, p.Number)
}

func TestPaginateClampsHigh(t *testing.T) {
	p := Paginate(20, 99, 8)
	assert.Equal(t, 3, p.Number)
	assert.Equal(t, 3, p.Total)
	assert.Equal(t, 16, p.Offset)
}

func TestPaginateEmptyListing(t *testing.T) {
	p := Paginate(0, 1, 10)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 1, p.Total)
	assert.Equal(t, 0, p.Offset)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 5))
	assert.Equal(t, 1, TotalPages(5, 5))
	assert.Equal(t, 2, TotalPages(6, 5))
	assert.Equal(t, 3, TotalPages(21, 10))
}

func TestPaginateExactBoundary(t *testing.T) {
	p := Paginate(16, 2, 8)
	assert.Equal(t, 2, p.Number)
	assert.Equal(t, 2, p.Total)
	assert.Equal(t, 8, p.Offset)
	assert.Equal(t, 8, p.Limit)
}

func TestCursorStoreRoundTrip(t *testing.T) {
	s := NewCursorStore()

	_, ok := s.Get(7)
	assert.False(t, ok)
	assert.Equal(t, 1, s.PageOr(7, 1))

	s.Set(7, Cursor{SupplierID: 3, Page: 4, TotalPages: 9})
	cur, ok := s.Get(7)
	assert.True(t, ok)
	assert.Equal(t, int64(3), cur.SupplierID)
	assert.Equal(t, 4, s.PageOr(7, 1))

	s.Delete(7)
	_, ok = s.Get(7)
	assert.False(t, ok)
}
