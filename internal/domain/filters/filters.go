package filters

import (
	"errors"
	"strings"
)

const (
	AscSort  = "ASC"
	DescSort = "DESC"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Filters struct {
	Page         int
	PageSize     int
	Sort         string
	SortSafelist []string
}

// Normalize clamps paging into range, falling back to defaults.
func (f *Filters) Normalize(defaultPageSize, maxPageSize int) {
	if defaultPageSize <= 0 {
		defaultPageSize = DefaultPageSize
	}
	if maxPageSize <= 0 {
		maxPageSize = MaxPageSize
	}
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.PageSize < 1 {
		f.PageSize = defaultPageSize
	}
	if f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}
}

func (f *Filters) IsValidSort() bool {
	if f.Sort == "" {
		return true
	}
	s := strings.TrimPrefix(f.Sort, "-")
	for _, safeValue := range f.SortSafelist {
		if strings.EqualFold(s, safeValue) {
			return true
		}
	}
	return false
}

// SortColumn must only be called after IsValidSort, an unknown column is a programming error.
func (f *Filters) SortColumn(fallback string) string {
	if f.Sort == "" {
		return fallback
	}
	s := strings.TrimPrefix(f.Sort, "-")
	for _, safeValue := range f.SortSafelist {
		if strings.EqualFold(s, safeValue) {
			return safeValue
		}
	}
	panic(errors.New("Unknown sort column: " + f.Sort))
}

func (f *Filters) SortDirection() string {
	if strings.HasPrefix(f.Sort, "-") {
		return DescSort
	}
	return AscSort
}

func (f *Filters) Limit() int {
	return f.PageSize
}

func (f *Filters) Offset() int {
	return (f.Page - 1) * f.PageSize
}

type Page[T any] struct {
	Count    int `json:"count"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Results  []T `json:"results"`
}

func NewPage[T any](items []T, total int, f Filters) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{Count: total, Page: f.Page, PageSize: f.PageSize, Results: items}
}

// TitleFilter narrows title listings. Zero values mean "any".
type TitleFilter struct {
	Name     string `schema:"name"`
	Category string `schema:"category"`
	Genre    string `schema:"genre"`
	Year     int32  `schema:"year"`
	Search   string `schema:"search"`
}
