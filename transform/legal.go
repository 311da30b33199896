package transform

import (
	"math"
	"strconv"

	"github.com/pivolan/go_utils"

	"github.com/pivolan/case_dashboard/domain/models"
)

// Raw column names of the foreclosure export.
const (
	ColDocket        = "Docket"
	ColTitle         = "Title"
	ColCourt         = "Court"
	ColNatureOfSuit  = "Nature of Suit / Type"
	ColFilingDate    = "Date - Case first started"
	ColDuration      = "Case Duration (Days)"
	ColPartyName     = "Party Name"
	ColPartyType     = "Party Type"
	ColAttorney      = "Attorney Name"
	ColLawFirm       = "Law Firm"
	ColJudge         = "Judge"
	ColStatus        = "Status"
	ColLastUpdated   = "Last Updated - When Court Case Finished"
	ColOriginalLoan  = "Original loan amount"
	ColOutstanding   = "Outstanding debt at filing (principal)"
	ColDebtRatio     = "Debt ratio (Outstanding ÷ Original)"
	ColFirstName     = "First Name"
	ColLastName      = "Last Name"
	ColJobTitle      = "Job Title"
	ColLinkedin      = "Linkedin Url"
	ColDocumentation = "All Relevant Documents associated with Case"
)

// Derived display columns.
const (
	FieldFilingDate      = "Filing Date"
	FieldDuration        = "Duration (Days)"
	FieldStatus          = "Status"
	FieldOriginalLoan    = "Original Loan"
	FieldOutstandingDebt = "Outstanding Debt"
	FieldDebtRatio       = "Debt Ratio"
	FieldOurTimeline     = "Our Timeline"
	FieldEfficiency      = "Efficiency %"
	FieldSavings         = "Savings (Days)"
)

const (
	StatusExtended  = "Extended"
	StatusStandard  = "Standard"
	StatusExpedited = "Expedited"
)

// proposedRatio is the share of the actual duration we propose to take.
const proposedRatio = 0.6

type column struct {
	raw     string
	display string
}

// ColumnMapping maps raw CSV columns to display columns.
var ColumnMapping = []column{
	{ColDocket, "Docket #"},
	{ColTitle, "Case Name"},
	{ColCourt, "Court"},
	{ColNatureOfSuit, "Case Type"},
	{ColFilingDate, FieldFilingDate},
	{ColDuration, FieldDuration},
	{ColPartyName, "Parties"},
	{ColPartyType, "Party Type"},
	{ColAttorney, "Attorney"},
	{ColLawFirm, "Law Firm"},
	{ColJudge, "Judge"},
	{ColStatus, FieldStatus},
	{ColLastUpdated, "Last Updated"},
	{ColOriginalLoan, FieldOriginalLoan},
	{ColOutstanding, FieldOutstandingDebt},
	{ColDebtRatio, FieldDebtRatio},
	{ColFirstName, "Contact First Name"},
	{ColLastName, "Contact Last Name"},
	{ColJobTitle, "Contact Title"},
	{ColLinkedin, "LinkedIn"},
	{ColDocumentation, "Documentation"},
}

var legalHeaders = []string{
	"Docket #",
	"Case Name",
	"Court",
	"Case Type",
	FieldFilingDate,
	"Last Updated",
	FieldDuration,
	FieldOurTimeline,
	FieldEfficiency,
	FieldSavings,
	FieldStatus,
	"Judge",
	"Parties",
	"Party Type",
	"Attorney",
	"Law Firm",
	FieldOriginalLoan,
	FieldOutstandingDebt,
	FieldDebtRatio,
	"Contact First Name",
	"Contact Last Name",
	"Contact Title",
	"LinkedIn",
	"Documentation",
}

var legalMarkers = []string{"doc_number", "time_took", "nature_of_suit", ColDuration}

// Row is a transformed record. Derived duration fields hold ints, the rest strings.
type Row map[string]interface{}

// Headers returns the display column order of transformed legal rows.
func Headers() []string {
	out := make([]string, len(legalHeaders))
	copy(out, legalHeaders)
	return out
}

// IsLegalDataset reports whether headers look like a legal case export.
func IsLegalDataset(headers []string) bool {
	for _, h := range headers {
		if go_utils.InArray(h, legalMarkers) {
			return true
		}
	}
	return false
}

// Transform maps one raw record to a display row. raw is not modified.
func Transform(raw models.Record) Row {
	row := Row{}

	for _, c := range ColumnMapping {
		if v, ok := raw[c.raw]; ok {
			row[c.display] = v
		}
	}

	actual, _ := ParseInt(raw[ColDuration])
	proposed := int(math.Floor(float64(actual) * proposedRatio))

	if actual > 0 && proposed > 0 {
		row[FieldEfficiency] = RoundHalfUp(float64(actual-proposed) / float64(actual) * 100)
		row[FieldSavings] = actual - proposed
		row[FieldOurTimeline] = proposed
	} else {
		row[FieldEfficiency] = 0
		row[FieldSavings] = 0
		row[FieldOurTimeline] = 0
	}

	if s, _ := row[FieldStatus].(string); s == "" {
		row[FieldStatus] = statusFor(actual)
	}

	if v := raw[ColFilingDate]; v != "" {
		row[FieldFilingDate] = FormatDate(v)
	}

	formatInto(row, raw, ColOriginalLoan, FieldOriginalLoan, FormatCurrency)
	formatInto(row, raw, ColOutstanding, FieldOutstandingDebt, FormatCurrency)
	formatInto(row, raw, ColDebtRatio, FieldDebtRatio, FormatRatio)

	return row
}

// TransformAll transforms every record and flattens the values back to strings.
func TransformAll(records []models.Record) []models.Record {
	out := make([]models.Record, len(records))
	for i, r := range records {
		out[i] = Transform(r).Strings()
	}
	return out
}

// Strings converts a row to a plain record. Missing values become "".
func (r Row) Strings() models.Record {
	rec := make(models.Record, len(r))
	for k, v := range r {
		switch val := v.(type) {
		case string:
			rec[k] = val
		case int:
			rec[k] = strconv.Itoa(val)
		case nil:
			rec[k] = ""
		}
	}
	return rec
}

func statusFor(days int) string {
	switch {
	case days > 365:
		return StatusExtended
	case days > 180:
		return StatusStandard
	default:
		return StatusExpedited
	}
}

func formatInto(row Row, raw models.Record, rawKey, display string, format func(string) (string, bool)) {
	v := raw[rawKey]
	if v == "" {
		return
	}
	if s, ok := format(v); ok {
		row[display] = s
		return
	}
	delete(row, display)
}

// RoundHalfUp rounds to the nearest integer, halves away from negative infinity.
func RoundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
