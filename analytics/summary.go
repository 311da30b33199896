package analytics

import (
	"strings"

	"github.com/pivolan/case_dashboard/domain/models"
	"github.com/pivolan/case_dashboard/transform"
)

const (
	StatusDisposed   = "Disposed"
	DefaultStatus    = "Active"
	DefaultCourt     = "Unknown"
	DefaultCaseType  = "Unknown"
	caseTypePrefix   = "Real Property - Mortgage Foreclosure - "
	topListSize      = 10
	caseTypeListSize = 5
	monthsShown      = 12
	lawFirmLabelSize = 30
	courtLabelSize   = 40
)

// Fields names the raw columns the case summary reads.
type Fields struct {
	Court      string
	CaseType   string
	Status     string
	Duration   string
	FilingDate string
	Attorney   string
	LawFirm    string
	Judge      string
}

// DefaultFields match the columns of the foreclosure case export.
var DefaultFields = Fields{
	Court:      transform.ColCourt,
	CaseType:   transform.ColNatureOfSuit,
	Status:     transform.ColStatus,
	Duration:   transform.ColDuration,
	FilingDate: transform.ColFilingDate,
	Attorney:   transform.ColAttorney,
	LawFirm:    transform.ColLawFirm,
	Judge:      transform.ColJudge,
}

// Summarize builds the case-analytics view of records. It returns nil for no records.
func Summarize(records []models.Record, f Fields) *models.CaseSummary {
	if len(records) == 0 {
		return nil
	}

	courts := CountBy(records, f.Court, DefaultCourt)
	statuses := CountBy(records, f.Status, DefaultStatus)
	attorneys := CountBy(records, f.Attorney, "")
	lawFirms := CountBy(records, f.LawFirm, "")
	judges := CountBy(records, f.Judge, "")

	total := len(records)
	disposed := statuses.Get(StatusDisposed)

	durations := make([]float64, 0, total)
	durationSum := 0
	for _, r := range records {
		if v, ok := positiveInt(r[f.Duration]); ok {
			durationSum += v
			durations = append(durations, float64(v))
		}
	}
	avgDuration := 0
	if len(durations) > 0 {
		avgDuration = transform.RoundHalfUp(float64(durationSum) / float64(len(durations)))
	}

	return &models.CaseSummary{
		TotalCases:        total,
		DisposedCases:     disposed,
		ActiveCases:       total - disposed,
		DisposalRate:      Percent(disposed, total),
		AvgDuration:       avgDuration,
		CasesWithDuration: len(durations),
		TopCourts:         courts.Top(topListSize),
		DurationData:      DurationHistogram(records, f.Duration),
		MonthlyTrends:     MonthlyCounts(records, f.FilingDate, monthsShown),
		CaseTypeData:      caseTypes(records, f.CaseType),
		StatusCounts:      statuses.Sorted(),
		TopAttorneys:      attorneys.Top(topListSize),
		TopLawFirms:       TruncateLabels(lawFirms.Top(topListSize), lawFirmLabelSize),
		TopJudges:         judges.Top(topListSize),
		DayOfWeekData:     DayOfWeek(records, f.FilingDate),
		CourtAvgDurations: GroupAverages(records, f.Court, f.Duration, DefaultCourt, topListSize, courtLabelSize),
		UniqueAttorneys:   attorneys.Len(),
		UniqueLawFirms:    lawFirms.Len(),
		UniqueJudges:      judges.Len(),
		DurationStats:     AnalyzeNumbers(durations),
	}
}

// caseTypes returns the five most common case types without the foreclosure prefix.
func caseTypes(records []models.Record, field string) []models.ValueCount {
	all := CountBy(records, field, DefaultCaseType).Sorted()
	out := make([]models.ValueCount, 0, caseTypeListSize)
	for _, vc := range all {
		if vc.Value == "" || vc.Value == DefaultCaseType {
			continue
		}
		out = append(out, models.ValueCount{
			Value: strings.Replace(vc.Value, caseTypePrefix, "", 1),
			Count: vc.Count,
		})
		if len(out) == caseTypeListSize {
			break
		}
	}
	return out
}
