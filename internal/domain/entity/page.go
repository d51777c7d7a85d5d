package entity

// Page is one page of an ordered listing. Page numbers start at 1.
type Page[T any] struct {
	Items    []T
	Page     int
	PageSize int
	Total    int
}

// LastPage returns the number of the last page, at least 1.
func (p Page[T]) LastPage() int {
	if p.PageSize <= 0 || p.Total <= p.PageSize {
		return 1
	}
	last := p.Total / p.PageSize
	if p.Total%p.PageSize != 0 {
		last++
	}
	return last
}

// HasMore reports whether pages follow this one.
func (p Page[T]) HasMore() bool {
	return p.Page < p.LastPage()
}
