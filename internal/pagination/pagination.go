package pagination

import "sync"

const PageSize = 10

type Page[T any] struct {
	Items        []T
	Number       int
	Size         int
	TotalPages   int
	TotalItems   int
	ShowControls bool
}

func TotalPages(count, size int) int {
	if size <= 0 {
		size = PageSize
	}
	return (count + size - 1) / size
}

// Paginate returns the 1-indexed page of items. Pages outside
// [1, TotalPages] are clamped into range; an empty input yields page 1.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = PageSize
	}

	total := TotalPages(len(items), size)
	page = Clamp(page, total)

	start := (page - 1) * size
	end := start + size
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	slice := make([]T, end-start)
	copy(slice, items[start:end])

	return Page[T]{
		Items:        slice,
		Number:       page,
		Size:         size,
		TotalPages:   total,
		TotalItems:   len(items),
		ShowControls: len(items) > size,
	}
}

func Clamp(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Tracker holds the current page of a result view. Any change of the view
// key (active filters and sort) resets the page to 1. The first view a
// tracker sees honours the requested page.
type Tracker struct {
	mu     sync.Mutex
	key    string
	page   int
	viewed bool
}

func NewTracker() *Tracker {
	return &Tracker{page: 1}
}

// Resolve returns the page to show for key. A requested page of 0 keeps the
// current page.
func (t *Tracker) Resolve(key string, requested int) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.viewed && key != t.key {
		t.key = key
		t.page = 1
		return t.page
	}
	t.key = key
	t.viewed = true
	if requested > 0 {
		t.page = requested
	}
	return t.page
}

func (t *Tracker) Set(page int) {
	t.mu.Lock()
	t.page = page
	t.mu.Unlock()
}

func (t *Tracker) Reset() {
	t.mu.Lock()
	t.key = ""
	t.page = 1
	t.viewed = false
	t.mu.Unlock()
}
