package view

import (
	"sort"

	"github.com/pivolan/case_dashboard/domain/models"
)

const (
	DefaultPageSize = 25
	MaxPageButtons  = 5
)

// Pager slices one dataset into pages and tracks selected rows by absolute index.
// A Pager is not safe for concurrent use.
type Pager struct {
	pageSize int
	dataset  *models.Dataset
	page     int
	selected map[int]struct{}
}

func NewPager(ds *models.Dataset, pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	p := &Pager{pageSize: pageSize}
	p.Replace(ds)
	return p
}

func (p *Pager) Dataset() *models.Dataset { return p.dataset }
func (p *Pager) Page() int                 { return p.page }
func (p *Pager) PageSize() int             { return p.pageSize }

func (p *Pager) records() []models.Record {
	if p.dataset == nil {
		return nil
	}
	return p.dataset.Records
}

// Total is the number of records in the dataset.
func (p *Pager) Total() int {
	return len(p.records())
}

func (p *Pager) TotalPages() int {
	return (p.Total() + p.pageSize - 1) / p.pageSize
}

// SetPage switches to page n and clears the selection. Pages outside
// [1, TotalPages] are ignored.
func (p *Pager) SetPage(n int) bool {
	if n < 1 || n > p.TotalPages() {
		return false
	}
	p.page = n
	p.clearSelection()
	return true
}

// Bounds returns the absolute [start, end) range of the current page.
func (p *Pager) Bounds() (int, int) {
	start := (p.page - 1) * p.pageSize
	if start > p.Total() {
		start = p.Total()
	}
	end := start + p.pageSize
	if end > p.Total() {
		end = p.Total()
	}
	return start, end
}

// Rows returns the records of the current page.
func (p *Pager) Rows() []models.Record {
	start, end := p.Bounds()
	return p.records()[start:end]
}

// Toggle flips the selection of the row at absolute index idx.
func (p *Pager) Toggle(idx int) bool {
	if idx < 0 || idx >= p.Total() {
		return false
	}
	if _, ok := p.selected[idx]; ok {
		delete(p.selected, idx)
	} else {
		p.selected[idx] = struct{}{}
	}
	return true
}

// SelectPage selects or deselects every row of the current page. Rows on other
// pages keep their state.
func (p *Pager) SelectPage(on bool) {
	start, end := p.Bounds()
	for i := start; i < end; i++ {
		if on {
			p.selected[i] = struct{}{}
		} else {
			delete(p.selected, i)
		}
	}
}

// IsPageSelected reports whether the current page is non-empty and fully selected.
func (p *Pager) IsPageSelected() bool {
	start, end := p.Bounds()
	if start == end {
		return false
	}
	for i := start; i < end; i++ {
		if _, ok := p.selected[i]; !ok {
			return false
		}
	}
	return true
}

func (p *Pager) IsSelected(idx int) bool {
	_, ok := p.selected[idx]
	return ok
}

// Selected returns the selected absolute indices in ascending order.
func (p *Pager) Selected() []int {
	out := make([]int, 0, len(p.selected))
	for i := range p.selected {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

func (p *Pager) clearSelection() {
	p.selected = make(map[int]struct{})
}

// Replace installs a new dataset, resets to page 1 and clears the selection.
func (p *Pager) Replace(ds *models.Dataset) {
	p.dataset = ds
	p.page = 1
	p.clearSelection()
}

// Sync replaces the dataset when ds is a different load than the current one,
// compared by locator and generation. It reports whether a reset happened.
func (p *Pager) Sync(ds *models.Dataset) bool {
	if p.dataset != nil && ds != nil && p.dataset.Locator == ds.Locator && p.dataset.Generation == ds.Generation {
		p.dataset = ds
		return false
	}
	p.Replace(ds)
	return true
}

// Button is one entry of the pagination bar. Ellipsis entries have no page.
type Button struct {
	Page     int  `json:"page,omitempty"`
	Current  bool `json:"current,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// PageButtons returns a window of at most max pages around the current one,
// with the first and last page and ellipses outside the window.
func (p *Pager) PageButtons(max int) []Button {
	total := p.TotalPages()
	if total == 0 {
		return nil
	}
	if max <= 0 {
		max = MaxPageButtons
	}

	start := p.page - max/2
	if start < 1 {
		start = 1
	}
	end := start + max - 1
	if end > total {
		end = total
	}
	if end-start+1 < max {
		start = end - max + 1
		if start < 1 {
			start = 1
		}
	}

	var buttons []Button
	if start > 1 {
		buttons = append(buttons, Button{Page: 1})
		if start > 2 {
			buttons = append(buttons, Button{Ellipsis: true})
		}
	}
	for i := start; i <= end; i++ {
		buttons = append(buttons, Button{Page: i, Current: i == p.page})
	}
	if end < total {
		if end < total-1 {
			buttons = append(buttons, Button{Ellipsis: true})
		}
		buttons = append(buttons, Button{Page: total})
	}
	return buttons
}
