package results

import (
	"fmt"

	"github.com/telhawk-systems/flowsearch/internal/model"
)

// EmptyMessage is shown instead of a result list when a search matched nothing.
const EmptyMessage = "No events found. Your search criteria did not match any events in the uploaded files."

// Line is one rendered record of a result page.
type Line struct {
	Index   int // 1-based position on the page
	Summary string
	Source  string
	Event   model.EventRecord
}

// View is everything needed to draw one page of a result set.
type View struct {
	Empty   bool
	Header  string
	Footer  string
	Lines   []Line
	Window  []int
	Current int
	Pages   int
	CanPrev bool
	CanNext bool
}

// Render builds the view of set at the pager's current page. An empty set
// short-circuits to the empty state and skips pagination entirely.
func Render(set *model.SearchResultSet, pager *Pager) View {
	if set.Empty() {
		searchTime := 0.0
		if set != nil {
			searchTime = set.SearchTime
		}
		return View{
			Empty:  true,
			Header: EmptyMessage,
			Footer: fmt.Sprintf("Search completed in %s seconds", formatSeconds(searchTime)),
		}
	}

	page := Paginate(set.Events, PageSize, pager.Current)
	v := View{
		Header:  fmt.Sprintf("Found %d event%s • Search Time: %ss", set.TotalCount, plural(set.TotalCount), formatSeconds(set.SearchTime)),
		Current: pager.Current,
		Pages:   page.PageCount,
		CanPrev: pager.CanPrev(),
		CanNext: pager.CanNext(),
	}
	if page.PageCount > 1 {
		v.Window = pager.Window()
	}
	for i, e := range page.Items {
		v.Lines = append(v.Lines, Line{
			Index:   i + 1,
			Summary: Summary(e),
			Source:  SourceLine(e, set.SearchTime),
			Event:   e,
		})
	}
	return v
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
