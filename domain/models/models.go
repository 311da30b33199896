package models

import "time"

// Record is one CSV row keyed by header name. Values are trimmed.
type Record map[string]string

type DatasetState string

const (
	StateLoading DatasetState = "loading"
	StateReady   DatasetState = "ready"
	StateError   DatasetState = "error"
)

// Dataset is one loaded CSV file. Once Ready it is never mutated, only replaced.
// Raw keeps the parsed rows before the legal transformation; it is Records itself
// for datasets that were not transformed.
type Dataset struct {
	ID          string
	Name        string
	Locator     string
	Description string
	Records     []Record
	Raw         []Record
	Headers     []string
	State       DatasetState
	Error       string
	Transformed bool
	LoadedAt    time.Time
	Generation  uint64
}

func (d *Dataset) Ready() bool {
	return d != nil && d.State == StateReady
}

type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type RangeCount struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

type GroupAverage struct {
	Group   string `json:"group"`
	Average int    `json:"avgDuration"`
	Count   int    `json:"caseCount"`
}

type NumberStats struct {
	Average   float64             `json:"average"`
	Median    float64             `json:"median"`
	Min       float64             `json:"min"`
	Max       float64             `json:"max"`
	Count     int                 `json:"count"`
	Quantiles map[float64]float64 `json:"-"`
	IQR       float64             `json:"iqr"`
	Outliers  []float64           `json:"outliers"`
}

// CaseSummary is the full case-analytics view over one dataset.
type CaseSummary struct {
	TotalCases        int            `json:"totalCases"`
	DisposedCases     int            `json:"disposedCases"`
	ActiveCases       int            `json:"activeCases"`
	DisposalRate      int            `json:"disposalRate"`
	AvgDuration       int            `json:"avgDuration"`
	CasesWithDuration int            `json:"casesWithDuration"`
	TopCourts         []ValueCount   `json:"topCourts"`
	DurationData      []RangeCount   `json:"durationData"`
	MonthlyTrends     []MonthCount   `json:"monthlyTrends"`
	CaseTypeData      []ValueCount   `json:"caseTypeData"`
	StatusCounts      []ValueCount   `json:"statusCounts"`
	TopAttorneys      []ValueCount   `json:"topAttorneys"`
	TopLawFirms       []ValueCount   `json:"topLawFirms"`
	TopJudges         []ValueCount   `json:"topJudges"`
	DayOfWeekData     []DayCount     `json:"dayOfWeekData"`
	CourtAvgDurations []GroupAverage `json:"courtAvgDurations"`
	UniqueAttorneys   int            `json:"uniqueAttorneys"`
	UniqueLawFirms    int            `json:"uniqueLawFirms"`
	UniqueJudges      int            `json:"uniqueJudges"`
	DurationStats     *NumberStats   `json:"durationStats,omitempty"`
}

type ColumnKind string

const (
	KindNumber ColumnKind = "number"
	KindDate   ColumnKind = "date"
	KindText   ColumnKind = "text"
	KindEmpty  ColumnKind = "empty"
)

// ColumnProfile describes the values of one column.
type ColumnProfile struct {
	Name    string       `json:"name"`
	Kind    ColumnKind   `json:"kind"`
	Filled  int          `json:"filled"`
	Empty   int          `json:"empty"`
	Uniq    int          `json:"uniq"`
	Numbers *NumberStats `json:"numbers,omitempty"`
	First   string       `json:"first,omitempty"`
	Last    string       `json:"last,omitempty"`
	Top     []ValueCount `json:"top,omitempty"`
}
