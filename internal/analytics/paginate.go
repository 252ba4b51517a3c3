package analytics

// Pagination describes the page arithmetic for a list response.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// Paginate slices items for the requested page and returns the page
// metadata. Page and size are clamped to sane minimums but an
// out-of-range page yields an empty slice rather than the last page.
// TotalPages is ceil(total/size).
func Paginate[T any](items []T, page, pageSize int) ([]T, Pagination) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	total := len(items)
	meta := Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: (total + pageSize - 1) / pageSize,
	}
	start := (page - 1) * pageSize
	if start >= total {
		return []T{}, meta
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return items[start:end], meta
}
