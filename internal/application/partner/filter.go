package partner

import (
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
)

func (f ListFilter) toDomain(defaultOrder string) shared.Filter {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
	if f.OrderBy == "" {
		f.OrderBy = defaultOrder
	}
	if f.OrderDir == "" {
		f.OrderDir = "asc"
	}
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters:  make(map[string]any),
	}
	if f.IsActive != nil {
		filter.Filters["is_active"] = *f.IsActive
	}
	return filter
}
