package pagination

import "errors"

// ErrPageOutOfRange is returned when a page number does not address an existing page.
var ErrPageOutOfRange = errors.New("page out of range")

// LastPage is the page number sentinel for "the final page".
const LastPage = -1

// CalculateOffset returns the index of the first item on a 0-based page.
//
// Examples:
//   - Page 0, Size 10 -> Offset 0
//   - Page 2, Size 10 -> Offset 20
func CalculateOffset(page, size int) int {
	return page * size
}

// CalculateTotalPages returns the number of pages needed for total items.
// An empty catalogue has zero pages.
//
// Examples:
//   - Total 0, Size 10 -> 0 pages
//   - Total 10, Size 10 -> 1 page
//   - Total 11, Size 10 -> 2 pages
func CalculateTotalPages(total int64, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// ResolvePage maps a requested page number onto [0, totalPages).
// Any negative page resolves to the last page.
// Returns ErrPageOutOfRange when there are no pages or page >= totalPages.
func ResolvePage(page, totalPages int) (int, error) {
	if totalPages <= 0 {
		return 0, ErrPageOutOfRange
	}
	if page < 0 {
		return totalPages - 1, nil
	}
	if page >= totalPages {
		return 0, ErrPageOutOfRange
	}
	return page, nil
}
