package application

import "github.com/oksasatya/sample-social/internal/domain/entity"

const maxPageSize = 100

// pageWindow normalizes a 1-based page request into offset and limit.
func pageWindow(page, size, def int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = def
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size, (page - 1) * size
}

func newPage[T any](items []T, page, size, total int) entity.Page[T] {
	if items == nil {
		items = []T{}
	}
	return entity.Page[T]{Items: items, Page: page, PageSize: size, Total: total}
}
