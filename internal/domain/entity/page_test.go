package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageLastPage(t *testing.T) {
	tests := []struct {
		name string
		page Page[string]
		last int
		more bool
	}{
		{name: "empty", page: Page[string]{Page: 1, PageSize: 20}, last: 1, more: false},
		{name: "exact fit", page: Page[string]{Page: 1, PageSize: 20, Total: 20}, last: 1, more: false},
		{name: "one over", page: Page[string]{Page: 1, PageSize: 20, Total: 21}, last: 2, more: true},
		{name: "on last", page: Page[string]{Page: 3, PageSize: 10, Total: 25}, last: 3, more: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.last, tt.page.LastPage())
			assert.Equal(t, tt.more, tt.page.HasMore())
		})
	}
}

func TestUserIsSame(t *testing.T) {
	a := &User{ID: "a"}
	assert.True(t, a.IsSame(&User{ID: "a"}))
	assert.False(t, a.IsSame(&User{ID: "b"}))
	assert.False(t, a.IsSame(nil))
}
