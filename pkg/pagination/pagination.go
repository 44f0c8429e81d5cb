// Package pagination holds page arithmetic shared by list endpoints.
package pagination

// TotalPages returns ceil(total/perPage), 0 when there is nothing to page.
func TotalPages(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// Offset returns the index of the first item on a 1-based page.
func Offset(page, perPage int) int {
	return (page - 1) * perPage
}

// Slice returns the items on a 1-based page. Pages are not clamped: a page
// below 1 or past the last page yields an empty, non-nil slice.
func Slice[T any](items []T, page, perPage int) []T {
	if page < 1 || perPage <= 0 || page > TotalPages(len(items), perPage) {
		return []T{}
	}
	start := Offset(page, perPage)
	end := min(start+perPage, len(items))
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}
