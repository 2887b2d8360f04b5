// Package pagination slices ordered collections into fixed-size pages.
package pagination

// Meta describes a page's position within the full collection.
type Meta struct {
	Page        int   `json:"page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// Window is the LIMIT/OFFSET pair for one page of a collection.
type Window struct {
	Limit  int
	Offset int
}

// TotalPages returns ceil(totalItems / pageSize). An empty collection still
// has one (empty) page so that a clamped request always resolves.
func TotalPages(totalItems int64, pageSize int) int {
	if totalItems <= 0 {
		return 1
	}
	pages := int((totalItems + int64(pageSize) - 1) / int64(pageSize))
	return pages
}

// Clamp resolves a requested page number to the valid range [1, totalPages].
// Out-of-range requests land on the nearest valid page rather than erroring.
func Clamp(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// PageWindow computes the window and metadata for the requested page of a
// collection with totalItems entries. The page number is clamped first, so the
// returned meta always describes a real page.
func PageWindow(page, pageSize int, totalItems int64) (Window, Meta) {
	totalPages := TotalPages(totalItems, pageSize)
	page = Clamp(page, totalPages)

	meta := Meta{
		Page:        page,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
	return Window{
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}, meta
}

// Paginate slices items into the requested page. It exists for collections
// already held in memory; database-backed feeds use PageWindow with
// LIMIT/OFFSET instead.
func Paginate[T any](items []T, page, pageSize int) ([]T, Meta) {
	window, meta := PageWindow(page, pageSize, int64(len(items)))

	start := window.Offset
	if start > len(items) {
		start = len(items)
	}
	end := start + window.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], meta
}
