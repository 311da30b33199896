package plot

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/pivolan/case_dashboard/domain/models"
)

// Dashboard writes an interactive HTML page with the charts of a case summary.
func Dashboard(w io.Writer, title string, s *models.CaseSummary) error {
	if s == nil {
		return ErrNoData
	}

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(
		countsBar("Top courts", s.TopCourts),
		durationBar(s.DurationData),
		monthlyLine(s.MonthlyTrends),
		countsPie("Case types", s.CaseTypeData),
		countsPie("Case status", s.StatusCounts),
		countsBar("Top attorneys", s.TopAttorneys),
		countsBar("Top law firms", s.TopLawFirms),
		countsBar("Top judges", s.TopJudges),
		weekdayBar(s.DayOfWeekData),
		courtDurationBar(s.CourtAvgDurations),
	)
	return page.Render(w)
}

func newBar(title string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1000px", Height: "500px"}),
	)
	return bar
}

func countsBar(title string, list []models.ValueCount) *charts.Bar {
	x := make([]string, len(list))
	items := make([]opts.BarData, len(list))
	for i, vc := range list {
		x[i] = vc.Value
		items[i] = opts.BarData{Name: vc.Value, Value: vc.Count}
	}
	bar := newBar(title)
	bar.SetXAxis(x).AddSeries("Cases", items)
	return bar
}

func durationBar(list []models.RangeCount) *charts.Bar {
	x := make([]string, len(list))
	items := make([]opts.BarData, len(list))
	for i, rc := range list {
		x[i] = rc.Range + " days"
		items[i] = opts.BarData{Value: rc.Count}
	}
	bar := newBar("Case duration distribution")
	bar.SetXAxis(x).AddSeries("Cases", items)
	return bar
}

func weekdayBar(list []models.DayCount) *charts.Bar {
	x := make([]string, len(list))
	items := make([]opts.BarData, len(list))
	for i, d := range list {
		x[i] = d.Day
		items[i] = opts.BarData{Value: d.Count}
	}
	bar := newBar("Filings by day of week")
	bar.SetXAxis(x).AddSeries("Filings", items)
	return bar
}

func courtDurationBar(list []models.GroupAverage) *charts.Bar {
	x := make([]string, len(list))
	avg := make([]opts.BarData, len(list))
	cnt := make([]opts.BarData, len(list))
	for i, g := range list {
		x[i] = g.Group
		avg[i] = opts.BarData{Value: g.Average}
		cnt[i] = opts.BarData{Value: g.Count}
	}
	bar := newBar("Average case duration by court")
	bar.SetXAxis(x).
		AddSeries("Average days", avg).
		AddSeries("Cases", cnt)
	return bar
}

func monthlyLine(list []models.MonthCount) *charts.Line {
	x := make([]string, len(list))
	items := make([]opts.LineData, len(list))
	for i, m := range list {
		x[i] = m.Month
		items[i] = opts.LineData{Value: m.Count}
	}
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Monthly filing trends"}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1000px", Height: "500px"}),
	)
	line.SetXAxis(x).AddSeries("Filings", items)
	return line
}

func countsPie(title string, list []models.ValueCount) *charts.Pie {
	items := make([]opts.PieData, len(list))
	for i, vc := range list {
		items[i] = opts.PieData{Name: vc.Value, Value: vc.Count}
	}
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{Width: "600px", Height: "400px"}),
	)
	pie.AddSeries(title, items)
	return pie
}
