package query

import "math"

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// Params is a normalized page request. Build it with NewParams.
type Params struct {
	Page     int
	PageSize int
}

// NewParams coerces page to at least 1 and clamps pageSize into [1, MaxPageSize].
func NewParams(page, pageSize int) Params {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Params{Page: page, PageSize: pageSize}
}

// DefaultParams returns the first page with the default page size.
func DefaultParams() Params {
	return Params{Page: DefaultPage, PageSize: DefaultPageSize}
}

// Offset is the number of filtered rows that precede the requested page.
// It saturates at math.MaxInt instead of overflowing for huge pages.
func (p Params) Offset() int {
	if p.Page <= 1 || p.PageSize <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}

func (p Params) Limit() int {
	return p.PageSize
}

// Result is one page of a filtered, ordered list. TotalCount counts every
// row that matched the filter, not only the ones on this page.
type Result[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	TotalCount int
}

// NewResult builds a Result for params, never returning nil Items.
func NewResult[T any](items []T, p Params, total int) Result[T] {
	if items == nil {
		items = []T{}
	}
	return Result[T]{
		Items:      items,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalCount: total,
	}
}

// MapResult converts every item of r with fn, keeping the page metadata.
func MapResult[T, U any](r Result[T], fn func(*T) U) Result[U] {
	items := make([]U, 0, len(r.Items))
	for i := range r.Items {
		items = append(items, fn(&r.Items[i]))
	}
	return Result[U]{
		Items:      items,
		Page:       r.Page,
		PageSize:   r.PageSize,
		TotalCount: r.TotalCount,
	}
}
