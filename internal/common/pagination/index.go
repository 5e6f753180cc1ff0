package pagination

import (
	"slices"
	"sync"
)

// Index is the shared pagination index: article IDs in catalogue order,
// addressed in pages of a fixed size. It is safe for concurrent use.
type Index struct {
	mu   sync.RWMutex
	size int
	ids  []int64
}

// NewIndex returns an empty index with the given page size.
func NewIndex(pageSize int) *Index {
	if pageSize <= 0 {
		pageSize = DefaultConfig().PageSize
	}
	return &Index{size: pageSize}
}

// Split replaces the indexed IDs. ids is copied.
func (x *Index) Split(ids []int64) {
	cp := slices.Clone(ids)
	x.mu.Lock()
	x.ids = cp
	x.mu.Unlock()
	IndexSize.Set(float64(len(cp)))
}

// PageSize returns the number of IDs per page.
func (x *Index) PageSize() int {
	return x.size
}

// Len returns the number of indexed IDs.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.ids)
}

// TotalPages returns the number of pages currently addressable.
func (x *Index) TotalPages() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return CalculateTotalPages(int64(len(x.ids)), x.size)
}

// Page returns the IDs on page along with the resolved page number and the page count.
// Negative pages resolve to the last page. Returns ErrPageOutOfRange otherwise.
func (x *Index) Page(page int) ([]int64, int, int, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return pageOf(x.ids, x.size, page)
}

// PageOf returns the page holding id, or false when id is not indexed.
func (x *Index) PageOf(id int64) (int, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	i := slices.Index(x.ids, id)
	if i < 0 {
		return 0, false
	}
	return i / x.size, true
}

// PageSlice paginates ids without touching any shared state.
// It is used for filtered listings, which never replace the shared index.
func PageSlice(ids []int64, size, page int) ([]int64, int, int, error) {
	return pageOf(ids, size, page)
}

func pageOf(ids []int64, size, page int) ([]int64, int, int, error) {
	total := CalculateTotalPages(int64(len(ids)), size)
	resolved, err := ResolvePage(page, total)
	if err != nil {
		return nil, 0, total, err
	}
	start := CalculateOffset(resolved, size)
	end := min(start+size, len(ids))
	return slices.Clone(ids[start:end]), resolved, total, nil
}
