// Package pagination derives client-side page slices and navigation
// controls from an item count and a page size.
//
// Pages are 1-based. With n items and a page size of p there are
// ceil(n/p) pages; zero items means zero pages, no numbered controls and
// both Previous and Next disabled.
//
// Example usage:
//
//	cfg := pagination.DefaultConfig()
//	total := pagination.TotalPages(len(items), cfg.ItemsPerPage)
//	page = pagination.Clamp(page, total)
//	visible := pagination.Slice(items, page, cfg.ItemsPerPage)
//	nav := pagination.Controls(page, total)
package pagination
