package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPageOffset(t *testing.T) {
	tests := []struct {
		name           string
		in             Pagination
		offset, limit  int
		page, outLimit int
	}{
		{"defaults", Pagination{}, 0, 10, 1, 10},
		{"second page", Pagination{Page: 2, Limit: 10}, 10, 10, 2, 10},
		{"limit capped", Pagination{Page: 1, Limit: 500}, 0, 100, 1, 100},
		{"negative page", Pagination{Page: -3, Limit: 5}, 0, 5, 1, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			offset, limit := p.GetPageOffset()
			assert.Equal(t, tt.offset, offset)
			assert.Equal(t, tt.limit, limit)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.outLimit, p.Limit)
		})
	}
}

func TestNewPageResult(t *testing.T) {
	r := NewPageResult([]int{1, 2}, 21, 3, 10)
	assert.Equal(t, 3, r.TotalPages)
	assert.Equal(t, int64(21), r.Total)

	empty := NewPageResult([]int{}, 0, 1, 10)
	assert.Equal(t, 0, empty.TotalPages)
}
