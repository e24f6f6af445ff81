package pagination

import (
	"fmt"
	"strconv"
)

// DefaultItemsPerPage is the page size used when none is configured.
const DefaultItemsPerPage = 10

// Config holds pagination configuration
type Config struct {
	// ItemsPerPage is the page size. Must be > 0.
	ItemsPerPage int
}

// DefaultConfig returns the default configuration (10 items per page)
func DefaultConfig() Config {
	return Config{
		ItemsPerPage: DefaultItemsPerPage,
	}
}

// NewConfig returns a validated configuration for the given page size.
func NewConfig(itemsPerPage int) (Config, error) {
	cfg := Config{ItemsPerPage: itemsPerPage}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the page size is a positive integer.
func (c Config) Validate() error {
	if c.ItemsPerPage <= 0 {
		return fmt.Errorf("items_per_page must be > 0 (got %d)", c.ItemsPerPage)
	}
	return nil
}

// TotalPages returns ceil(n/perPage). It is 0 for n == 0 and for a
// non-positive page size.
func TotalPages(n, perPage int) int {
	if n <= 0 || perPage <= 0 {
		return 0
	}
	return (n + perPage - 1) / perPage
}

// Bounds returns the half-open index range [start, end) of page within a
// collection of n items. Pages outside the collection yield an empty range.
func Bounds(page, perPage, n int) (start, end int) {
	if page < 1 || perPage <= 0 || n <= 0 {
		return 0, 0
	}
	start = (page - 1) * perPage
	if start >= n {
		return n, n
	}
	end = start + perPage
	if end > n {
		end = n
	}
	return start, end
}

// Slice returns the items shown on page. The result shares storage with
// items.
func Slice[T any](items []T, page, perPage int) []T {
	start, end := Bounds(page, perPage, len(items))
	return items[start:end]
}

// Clamp moves page into [1, max(1, totalPages)].
func Clamp(page, totalPages int) int {
	upper := max(1, totalPages)
	if page < 1 {
		return 1
	}
	if page > upper {
		return upper
	}
	return page
}

// Control is one navigation control.
type Control struct {
	// Label is the display text ("Prev", "Next" or the page number).
	Label string

	// Page is the page the control leads to. Zero when disabled.
	Page int

	// Enabled reports whether activating the control does anything.
	Enabled bool

	// Active marks the numbered control of the current page.
	Active bool
}

// Nav is the full set of navigation controls for one page.
type Nav struct {
	Prev  Control
	Next  Control
	Pages []Control
}

// Controls builds the navigation for page out of totalPages. Previous is
// enabled iff page > 1, Next iff page < totalPages; there is one numbered
// control per page and the one equal to page is active.
func Controls(page, totalPages int) Nav {
	nav := Nav{
		Prev:  Control{Label: "Prev"},
		Next:  Control{Label: "Next"},
		Pages: make([]Control, 0, max(totalPages, 0)),
	}

	if page > 1 && totalPages > 0 {
		nav.Prev.Enabled = true
		nav.Prev.Page = min(page-1, totalPages)
	}
	if page < totalPages {
		nav.Next.Enabled = true
		nav.Next.Page = max(page+1, 1)
	}

	for n := 1; n <= totalPages; n++ {
		nav.Pages = append(nav.Pages, Control{
			Label:   strconv.Itoa(n),
			Page:    n,
			Enabled: true,
			Active:  n == page,
		})
	}

	return nav
}
