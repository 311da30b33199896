package view

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/case_dashboard/domain/models"
)

func makeDataset(locator string, n int) *models.Dataset {
	recs := make([]models.Record, n)
	for i := range recs {
		recs[i] = models.Record{"Docket #": fmt.Sprintf("D-%d", i+1), "Court": "Kings"}
	}
	return &models.Dataset{
		ID:      "cases",
		Locator: locator,
		Headers: []string{"Docket #", "Court"},
		Records: recs,
		State:   models.StateReady,
	}
}

func TestPagerPages(t *testing.T) {
	tests := []struct {
		total, size, pages int
	}{
		{563, 25, 23},
		{0, 25, 0},
		{25, 25, 1},
		{26, 25, 2},
		{1, 25, 1},
	}
	for _, tt := range tests {
		p := NewPager(makeDataset("a.csv", tt.total), tt.size)
		assert.Equal(t, tt.pages, p.TotalPages(), "%d/%d", tt.total, tt.size)
	}
}

func TestPagerSetPage(t *testing.T) {
	p := NewPager(makeDataset("a.csv", 563), 25)
	require.True(t, p.SetPage(5))
	p.Toggle(101)

	assert.False(t, p.SetPage(24))
	assert.False(t, p.SetPage(0))
	assert.False(t, p.SetPage(-1))
	assert.Equal(t, 5, p.Page())
	assert.Equal(t, []int{101}, p.Selected(), "ignored page changes keep the selection")

	require.True(t, p.SetPage(23))
	assert.Empty(t, p.Selected())
	start, end := p.Bounds()
	assert.Equal(t, 550, start)
	assert.Equal(t, 563, end)
	assert.Len(t, p.Rows(), 13)
	assert.Equal(t, "D-551", p.Rows()[0]["Docket #"])
}

func TestPagerDefaultPageSize(t *testing.T) {
	p := NewPager(makeDataset("a.csv", 30), 0)
	assert.Equal(t, DefaultPageSize, p.PageSize())
	assert.Len(t, p.Rows(), 25)
}

func TestPagerToggle(t *testing.T) {
	p := NewPager(makeDataset("a.csv", 10), 5)
	assert.True(t, p.Toggle(3))
	assert.True(t, p.Toggle(7))
	assert.True(t, p.IsSelected(7))
	assert.True(t, p.Toggle(3))
	assert.False(t, p.IsSelected(3))
	assert.False(t, p.Toggle(10))
	assert.False(t, p.Toggle(-1))
	assert.Equal(t, []int{7}, p.Selected())
}

func TestPagerSelectPageRoundTrip(t *testing.T) {
	p := NewPager(makeDataset("a.csv", 60), 25)
	require.True(t, p.SetPage(2))
	p.Toggle(0)
	p.Toggle(55)
	before := p.Selected()

	p.SelectPage(true)
	assert.True(t, p.IsPageSelected())
	assert.Len(t, p.Selected(), 27)

	p.SelectPage(false)
	assert.False(t, p.IsPageSelected())
	assert.Equal(t, before, p.Selected())

	// deselecting the page also drops rows of that page selected one by one
	p.Toggle(30)
	p.SelectPage(false)
	assert.Equal(t, []int{0, 55}, p.Selected())
}

func TestPagerEmptyPageIsNotSelected(t *testing.T) {
	p := NewPager(makeDataset("a.csv", 0), 25)
	p.SelectPage(true)
	assert.False(t, p.IsPageSelected())
	assert.Empty(t, p.Selected())
	assert.Nil(t, p.PageButtons(5))
}

func TestPagerDatasetSwap(t *testing.T) {
	p := NewPager(makeDataset("a.csv", 100), 25)

	for i, locator := range []string{"b.csv", "c.csv"} {
		require.True(t, p.SetPage(3))
		p.Toggle(60)
		p.Toggle(61)
		require.NotEmpty(t, p.Selected())

		assert.True(t, p.Sync(makeDataset(locator, 100)), "swap %d", i)
		assert.Equal(t, 1, p.Page())
		assert.Empty(t, p.Selected())
	}

	p.Toggle(2)
	same := *p.Dataset()
	assert.False(t, p.Sync(&same), "same load does not reset")
	assert.Equal(t, []int{2}, p.Selected())

	reloaded := same
	reloaded.Generation++
	assert.True(t, p.Sync(&reloaded))
	assert.Empty(t, p.Selected())

	p.Toggle(2)
	p.Replace(&reloaded)
	assert.Empty(t, p.Selected())
}

func TestPageButtons(t *testing.T) {
	render := func(bs []Button) string {
		parts := make([]string, len(bs))
		for i, b := range bs {
			switch {
			case b.Ellipsis:
				parts[i] = "..."
			case b.Current:
				parts[i] = fmt.Sprintf("[%d]", b.Page)
			default:
				parts[i] = fmt.Sprint(b.Page)
			}
		}
		return strings.Join(parts, " ")
	}

	tests := []struct {
		total, page int
		want        string
	}{
		{3, 1, "[1] 2 3"},
		{23, 1, "[1] 2 3 4 5 ... 23"},
		{23, 4, "1 2 3 [4] 5 6 ... 23"},
		{23, 12, "1 ... 10 11 [12] 13 14 ... 23"},
		{23, 23, "1 ... 19 20 21 22 [23]"},
		{6, 4, "1 2 3 [4] 5 6"},
	}
	for _, tt := range tests {
		p := NewPager(makeDataset("a.csv", tt.total*10), 10)
		require.True(t, p.SetPage(tt.page))
		assert.Equal(t, tt.want, render(p.PageButtons(MaxPageButtons)), "page %d of %d", tt.page, tt.total)
	}
}
