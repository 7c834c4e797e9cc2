package petsapi

// DefaultPerPage is the page size of search results.
const DefaultPerPage = 10

// Page is one slice of a result list.
type Page[T any] struct {
	Items      []T `json:"items" yaml:"items"`
	Page       int `json:"page" yaml:"page"`
	PerPage    int `json:"per_page" yaml:"per_page"`
	Total      int `json:"total" yaml:"total"`
	TotalPages int `json:"total_pages" yaml:"total_pages"`
}

// Paginate returns the 1-based page of items. Out of range pages are
// clamped, a non-positive perPage selects DefaultPerPage and TotalPages is
// at least 1. Items is never nil.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	total := len(items)
	pages := (total + perPage - 1) / perPage
	if pages < 1 {
		pages = 1
	}
	page = min(max(page, 1), pages)

	start := min((page-1)*perPage, total)
	end := min(start+perPage, total)
	out := make([]T, end-start)
	copy(out, items[start:end])

	return Page[T]{
		Items:      out,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: pages,
	}
}
