package analytics

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pivolan/case_dashboard/domain/models"
	"github.com/pivolan/case_dashboard/transform"
)

// RenderSummary renders the summary as plain text tables.
func RenderSummary(s *models.CaseSummary) string {
	if s == nil {
		return "No data available for analysis\n"
	}

	buf := &strings.Builder{}

	t := table.NewWriter()
	t.SetTitle("Case Analytics")
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Total cases", s.TotalCases},
		{"Disposed", s.DisposedCases},
		{"Active", s.ActiveCases},
		{"Disposal rate", fmt.Sprintf("%d%%", s.DisposalRate)},
		{"Average duration", fmt.Sprintf("%d days (%s)", s.AvgDuration, transform.FormatDuration(strconv.Itoa(s.AvgDuration)))},
		{"Cases with duration", s.CasesWithDuration},
		{"Unique attorneys", s.UniqueAttorneys},
		{"Unique law firms", s.UniqueLawFirms},
		{"Unique judges", s.UniqueJudges},
	})
	t.SetStyle(table.StyleDefault)
	buf.WriteString(t.Render())
	buf.WriteString("\n\n")

	writeCounts(buf, "Top courts", s.TopCourts)
	writeRanges(buf, s.DurationData)
	writeCounts(buf, "Case types", s.CaseTypeData)
	writeCounts(buf, "Statuses", s.StatusCounts)
	writeCounts(buf, "Top attorneys", s.TopAttorneys)
	writeCounts(buf, "Top law firms", s.TopLawFirms)
	writeCounts(buf, "Top judges", s.TopJudges)

	t = table.NewWriter()
	t.SetTitle("Filings by month")
	t.AppendHeader(table.Row{"Month", "Cases"})
	for _, m := range s.MonthlyTrends {
		t.AppendRow(table.Row{m.Month, m.Count})
	}
	buf.WriteString(t.Render())
	buf.WriteString("\n\n")

	t = table.NewWriter()
	t.SetTitle("Filings by weekday")
	t.AppendHeader(table.Row{"Day", "Cases"})
	for _, d := range s.DayOfWeekData {
		t.AppendRow(table.Row{d.Day, d.Count})
	}
	buf.WriteString(t.Render())
	buf.WriteString("\n\n")

	t = table.NewWriter()
	t.SetTitle("Average duration by court")
	t.AppendHeader(table.Row{"Court", "Avg days", "Cases"})
	for _, g := range s.CourtAvgDurations {
		t.AppendRow(table.Row{g.Group, g.Average, g.Count})
	}
	buf.WriteString(t.Render())
	buf.WriteString("\n")

	return buf.String()
}

func writeCounts(buf *strings.Builder, title string, list []models.ValueCount) {
	if len(list) == 0 {
		return
	}
	t := table.NewWriter()
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Name", "Count"})
	for _, vc := range list {
		t.AppendRow(table.Row{vc.Value, vc.Count})
	}
	buf.WriteString(t.Render())
	buf.WriteString("\n\n")
}

func writeRanges(buf *strings.Builder, list []models.RangeCount) {
	t := table.NewWriter()
	t.SetTitle("Duration distribution")
	t.AppendHeader(table.Row{"Range (days)", "Cases"})
	for _, rc := range list {
		t.AppendRow(table.Row{rc.Range, rc.Count})
	}
	buf.WriteString(t.Render())
	buf.WriteString("\n\n")
}

// RenderProfile renders column profiles as one table, as markdown when markdown is set.
func RenderProfile(profiles []models.ColumnProfile, markdown bool) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Column", "Kind", "Filled", "Empty", "Uniq", "Avg", "Min", "Median", "Max", "Range / top"})
	for _, p := range profiles {
		row := table.Row{p.Name, string(p.Kind), p.Filled, p.Empty, p.Uniq, "", "", "", "", ""}
		switch {
		case p.Numbers != nil:
			row[5] = formatFloat(p.Numbers.Average)
			row[6] = formatFloat(p.Numbers.Min)
			row[7] = formatFloat(p.Numbers.Median)
			row[8] = formatFloat(p.Numbers.Max)
		case p.First != "":
			row[9] = p.First + " .. " + p.Last
		case len(p.Top) > 0:
			row[9] = fmt.Sprintf("%s (%d)", Truncate(p.Top[0].Value, 30), p.Top[0].Count)
		}
		t.AppendRow(row)
	}
	t.SetStyle(table.StyleDefault)
	if markdown {
		return t.RenderMarkdown()
	}
	return t.Render()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
