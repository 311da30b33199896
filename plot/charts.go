package plot

import (
	"errors"
	"fmt"
	"sort"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/pivolan/case_dashboard/domain/models"
	"github.com/pivolan/case_dashboard/transform"
)

var ErrUnknownChart = errors.New("unknown chart")

const (
	ChartCourts          = "courts"
	ChartDurations       = "durations"
	ChartDurationDensity = "duration-density"
	ChartMonthly         = "monthly"
	ChartCaseTypes       = "case-types"
	ChartStatuses        = "statuses"
	ChartAttorneys       = "attorneys"
	ChartLawFirms        = "law-firms"
	ChartJudges          = "judges"
	ChartWeekdays        = "weekdays"
	ChartCourtDurations  = "court-durations"
)

// densityBinDays is the bin width of the duration density chart.
const densityBinDays = 30

var toneColors = map[string]drawing.Color{
	transform.ToneGreen:  drawing.ColorFromHex("22c55e"),
	transform.ToneBlue:   drawing.ColorFromHex("3b82f6"),
	transform.ToneOrange: drawing.ColorFromHex("f97316"),
	transform.ToneGray:   drawing.ColorFromHex("9ca3af"),
}

type chartBuilder func(s *models.CaseSummary) dataXStringsForGraph

var builders = map[string]chartBuilder{
	ChartCourts: func(s *models.CaseSummary) dataXStringsForGraph {
		return fromCounts(s.TopCourts, "Cases", "Top courts")
	},
	ChartDurations: func(s *models.CaseSummary) dataXStringsForGraph {
		x := make([]string, len(s.DurationData))
		y := make([]float64, len(s.DurationData))
		for i, rc := range s.DurationData {
			x[i] = rc.Range + " days"
			y[i] = float64(rc.Count)
		}
		return NewDataXStringsForGraph(x, y, "Cases", "Case duration distribution")
	},
	ChartMonthly: func(s *models.CaseSummary) dataXStringsForGraph {
		x := make([]string, len(s.MonthlyTrends))
		y := make([]float64, len(s.MonthlyTrends))
		for i, m := range s.MonthlyTrends {
			x[i] = m.Month
			y[i] = float64(m.Count)
		}
		return NewDataXStringsForGraph(x, y, "Filings", "Monthly filing trends")
	},
	ChartCaseTypes: func(s *models.CaseSummary) dataXStringsForGraph {
		return fromCounts(s.CaseTypeData, "Cases", "Case types")
	},
	ChartStatuses: func(s *models.CaseSummary) dataXStringsForGraph {
		d := fromCounts(s.StatusCounts, "Cases", "Case status")
		colors := make([]drawing.Color, len(s.StatusCounts))
		for i, vc := range s.StatusCounts {
			colors[i] = toneColors[transform.StatusTone(vc.Value)]
		}
		return d.withColors(colors)
	},
	ChartAttorneys: func(s *models.CaseSummary) dataXStringsForGraph {
		return fromCounts(s.TopAttorneys, "Cases", "Top attorneys")
	},
	ChartLawFirms: func(s *models.CaseSummary) dataXStringsForGraph {
		return fromCounts(s.TopLawFirms, "Cases", "Top law firms")
	},
	ChartJudges: func(s *models.CaseSummary) dataXStringsForGraph {
		return fromCounts(s.TopJudges, "Cases", "Top judges")
	},
	ChartWeekdays: func(s *models.CaseSummary) dataXStringsForGraph {
		x := make([]string, len(s.DayOfWeekData))
		y := make([]float64, len(s.DayOfWeekData))
		for i, d := range s.DayOfWeekData {
			x[i] = d.Day
			y[i] = float64(d.Count)
		}
		return NewDataXStringsForGraph(x, y, "Filings", "Filings by day of week")
	},
	ChartCourtDurations: func(s *models.CaseSummary) dataXStringsForGraph {
		x := make([]string, len(s.CourtAvgDurations))
		y := make([]float64, len(s.CourtAvgDurations))
		for i, g := range s.CourtAvgDurations {
			x[i] = g.Group
			y[i] = float64(g.Average)
		}
		return NewDataXStringsForGraph(x, y, "Average days", "Average case duration by court")
	},
}

func fromCounts(list []models.ValueCount, nameY, title string) dataXStringsForGraph {
	x := make([]string, len(list))
	y := make([]float64, len(list))
	for i, vc := range list {
		x[i] = vc.Value
		y[i] = float64(vc.Count)
	}
	return NewDataXStringsForGraph(x, y, nameY, title)
}

// Charts lists the chart names accepted by Render.
func Charts() []string {
	names := make([]string, 0, len(builders)+1)
	for name := range builders {
		names = append(names, name)
	}
	names = append(names, ChartDurationDensity)
	sort.Strings(names)
	return names
}

// Render draws the named chart of a case summary as PNG.
// durations feeds the density chart and may be nil for the others.
func Render(name string, s *models.CaseSummary, durations []float64) ([]byte, error) {
	if s == nil {
		return nil, ErrNoData
	}
	if name == ChartDurationDensity {
		x, y := Bins(durations, densityBinDays)
		return DrawDensityPlot("Case duration density", "Days", x, y)
	}
	build, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownChart, name)
	}
	return DrawPlotBar(build(s))
}
