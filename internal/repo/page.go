package repo

import "gorm.io/gorm"

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Page is an offset window over a listing. The zero Page is unbounded.
type Page struct {
	Offset int
	Limit  int
}

// NewPage turns a 1-based page number and size into a window. Out of range
// sizes fall back to the default.
func NewPage(page, size int) Page {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > maxPageSize {
		size = defaultPageSize
	}
	return Page{Offset: (page - 1) * size, Limit: size}
}

func (p Page) apply(q *gorm.DB) *gorm.DB {
	if p.Limit <= 0 {
		return q
	}
	return q.Offset(p.Offset).Limit(p.Limit)
}
