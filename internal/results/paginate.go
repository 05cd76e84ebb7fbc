// Package results pages search results and renders per-record and per-field views.
package results

import "github.com/telhawk-systems/flowsearch/internal/model"

// PageSize is the number of events shown per page.
const PageSize = 20

// windowSize is the maximum number of page links shown at once.
const windowSize = 5

// Page is one slice of a result set.
type Page struct {
	Items     []model.EventRecord
	Number    int
	PageCount int
}

// PageCount returns ceil(total / size).
func PageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Paginate returns page number page (1-based) of events. A page outside
// [1, PageCount] yields no items. A non-positive pageSize falls back to PageSize.
func Paginate(events []model.EventRecord, pageSize, page int) Page {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	p := Page{Number: page, PageCount: PageCount(len(events), pageSize)}
	if page < 1 || page > p.PageCount {
		return p
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(events) {
		end = len(events)
	}
	p.Items = events[start:end]
	return p
}

// Window returns the page numbers to show as links: at most five, centered on
// current where possible and never outside [1, pageCount].
func Window(pageCount, current int) []int {
	if pageCount <= 0 {
		return nil
	}
	start := max(1, min(pageCount-(windowSize-1), current-2))

	pages := make([]int, 0, windowSize)
	for n := start; n < start+windowSize && n <= pageCount; n++ {
		pages = append(pages, n)
	}
	return pages
}

// Pager tracks the current page of a result set. Moves outside [1, PageCount]
// are ignored, the equivalent of disabled navigation controls.
type Pager struct {
	Current   int
	PageCount int
}

// NewPager starts at page 1 of a set with total events.
func NewPager(total int) *Pager {
	return &Pager{Current: 1, PageCount: PageCount(total, PageSize)}
}

// CanPrev reports whether First and Prev are enabled.
func (p *Pager) CanPrev() bool { return p.Current > 1 }

// CanNext reports whether Next and Last are enabled.
func (p *Pager) CanNext() bool { return p.Current < p.PageCount }

// Goto moves to page n if it is in range and reports whether it moved.
func (p *Pager) Goto(n int) bool {
	if n < 1 || n > p.PageCount || n == p.Current {
		return false
	}
	p.Current = n
	return true
}

func (p *Pager) First() bool { return p.Goto(1) }
func (p *Pager) Prev() bool  { return p.Goto(p.Current - 1) }
func (p *Pager) Next() bool  { return p.Goto(p.Current + 1) }
func (p *Pager) Last() bool  { return p.Goto(p.PageCount) }

// Window returns the page links around the current page.
func (p *Pager) Window() []int {
	return Window(p.PageCount, p.Current)
}
