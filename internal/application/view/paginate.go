package view

// DefaultPageSize is used when a caller passes a page size below 1
const DefaultPageSize = 10

// PageMeta describes one page of a larger result
type PageMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Paginate returns items[(page-1)*pageSize : min(page*pageSize, total)].
// A page past the end yields an empty slice.
func Paginate[T any](items []T, page, pageSize int) ([]T, PageMeta) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	total := len(items)
	meta := PageMeta{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: total / pageSize,
	}
	if total%pageSize != 0 {
		meta.TotalPages++
	}
	// compare page counts first so the offset cannot overflow
	if page-1 >= meta.TotalPages {
		return []T{}, meta
	}
	start := (page - 1) * pageSize
	end := min(start+pageSize, total)
	return items[start:end], meta
}
