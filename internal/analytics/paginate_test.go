package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginateArithmetic(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	page, meta := Paginate(items, 1, 3)
	assert.Equal(t, []int{1, 2, 3}, page)
	assert.Equal(t, Pagination{Page: 1, PageSize: 3, TotalItems: 7, TotalPages: 3}, meta)

	page, _ = Paginate(items, 3, 3)
	assert.Equal(t, []int{7}, page)
}

func TestPaginateOutOfRangePage(t *testing.T) {
	page, meta := Paginate([]int{1, 2}, 5, 10)
	assert.Empty(t, page)
	assert.NotNil(t, page)
	assert.Equal(t, 1, meta.TotalPages)
}

func TestPaginateEmptyInput(t *testing.T) {
	page, meta := Paginate([]string{}, 1, 10)
	assert.Empty(t, page)
	assert.Equal(t, 0, meta.TotalItems)
	assert.Equal(t, 0, meta.TotalPages)
}

func TestPaginateClampsInvalidArgs(t *testing.T) {
	page, meta := Paginate([]int{1, 2, 3}, 0, -1)
	assert.Equal(t, 1, meta.Page)
	assert.Equal(t, 20, meta.PageSize)
	assert.Equal(t, []int{1, 2, 3}, page)
}
