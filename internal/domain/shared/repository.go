package shared

// MaxPage is the highest page a list query may ask for
const MaxPage = 100000

// Filter is the list query shared by every repository. Page 0 or PageSize 0
// disables paging.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]any
}

// DefaultFilter is page 1 of 20, newest first
func DefaultFilter() Filter {
	return Filter{Page: 1, PageSize: 20, OrderBy: "created_at", OrderDir: "desc", Filters: map[string]any{}}
}

// WithoutPaging keeps the search and filters but selects every match; exports
// use it
func (f Filter) WithoutPaging() Filter {
	f.Page, f.PageSize = 0, 0
	return f
}
