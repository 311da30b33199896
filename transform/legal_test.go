package transform

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pivolan/case_dashboard/domain/models"
)

func TestTransformDuration(t *testing.T) {
	tests := []struct {
		name           string
		duration       string
		wantEfficiency int
		wantSavings    int
		wantTimeline   int
		wantStatus     string
	}{
		{"standard case", "200", 40, 80, 120, StatusStandard},
		{"extended case", "400", 40, 160, 240, StatusExtended},
		{"rounded efficiency", "7", 43, 3, 4, StatusExpedited},
		{"proposed rounds to zero", "1", 0, 0, 0, StatusExpedited},
		{"zero duration", "0", 0, 0, 0, StatusExpedited},
		{"unparsable duration", "pending", 0, 0, 0, StatusExpedited},
		{"leading integer", "366 days", 40, 147, 219, StatusExtended},
		{"boundary 365", "365", 40, 146, 219, StatusStandard},
		{"boundary 180", "180", 40, 72, 108, StatusExpedited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := Transform(models.Record{ColDuration: tt.duration})

			assert.Equal(t, tt.wantEfficiency, row[FieldEfficiency])
			assert.Equal(t, tt.wantSavings, row[FieldSavings])
			assert.Equal(t, tt.wantTimeline, row[FieldOurTimeline])
			assert.Equal(t, tt.wantStatus, row[FieldStatus])
			assert.Equal(t, tt.duration, row["Duration (Days)"])
		})
	}
}

func TestTransformEfficiencyRange(t *testing.T) {
	for days := -5; days <= 2000; days++ {
		row := Transform(models.Record{ColDuration: strconv.Itoa(days)})
		eff := row[FieldEfficiency].(int)

		assert.GreaterOrEqual(t, eff, 0)
		assert.LessOrEqual(t, eff, 100)

		proposed := int(math.Floor(float64(days) * 0.6))
		if days > 0 && proposed > 0 {
			assert.Equal(t, int(math.Floor(100*float64(days-proposed)/float64(days)+0.5)), eff)
		} else {
			assert.Equal(t, 0, eff)
		}
	}
}

func TestTransformKeepsStatus(t *testing.T) {
	row := Transform(models.Record{ColStatus: "Disposed", ColDuration: "500"})
	assert.Equal(t, "Disposed", row[FieldStatus])

	row = Transform(models.Record{ColStatus: "", ColDuration: "500"})
	assert.Equal(t, StatusExtended, row[FieldStatus])
}

func TestTransformRenamesColumns(t *testing.T) {
	raw := models.Record{
		ColDocket:   "850123/2021",
		ColTitle:    "Bank v. Doe",
		ColAttorney: "Jane Roe",
		ColLinkedin: "linkedin.com/in/jane",
		"Unmapped":  "dropped",
	}

	row := Transform(raw)

	assert.Equal(t, "850123/2021", row["Docket #"])
	assert.Equal(t, "Bank v. Doe", row["Case Name"])
	assert.Equal(t, "Jane Roe", row["Attorney"])
	assert.Equal(t, "linkedin.com/in/jane", row["LinkedIn"])
	assert.NotContains(t, row, "Unmapped")
	assert.NotContains(t, row, "Judge")

	assert.Equal(t, models.Record{
		ColDocket:   "850123/2021",
		ColTitle:    "Bank v. Doe",
		ColAttorney: "Jane Roe",
		ColLinkedin: "linkedin.com/in/jane",
		"Unmapped":  "dropped",
	}, raw, "input must not be mutated")
}

func TestTransformFormatting(t *testing.T) {
	row := Transform(models.Record{
		ColFilingDate:   "2024-03-05",
		ColOriginalLoan: "$250,000.00",
		ColOutstanding:  "-1500.5",
		ColDebtRatio:    "0.85",
	})

	assert.Equal(t, "3/5/2024", row[FieldFilingDate])
	assert.Equal(t, "$250,000", row[FieldOriginalLoan])
	assert.Equal(t, "$-1,500.5", row[FieldOutstandingDebt])
	assert.Equal(t, "85.0%", row[FieldDebtRatio])
}

func TestTransformFormattingFailures(t *testing.T) {
	row := Transform(models.Record{
		ColFilingDate:   "sometime in spring",
		ColOriginalLoan: "unknown",
		ColOutstanding:  "",
		ColDebtRatio:    "n/a",
	})

	assert.Equal(t, "sometime in spring", row[FieldFilingDate])
	assert.NotContains(t, row, FieldOriginalLoan)
	assert.NotContains(t, row, FieldDebtRatio)
	assert.Equal(t, "", row[FieldOutstandingDebt])
}

func TestTransformAll(t *testing.T) {
	out := TransformAll([]models.Record{
		{ColDuration: "200", ColCourt: "Kings County"},
		{},
	})

	assert.Len(t, out, 2)
	assert.Equal(t, "40", out[0][FieldEfficiency])
	assert.Equal(t, "120", out[0][FieldOurTimeline])
	assert.Equal(t, "Kings County", out[0]["Court"])
	assert.Equal(t, "0", out[1][FieldSavings])
	assert.Equal(t, StatusExpedited, out[1][FieldStatus])
}

func TestHeaders(t *testing.T) {
	h := Headers()
	assert.Len(t, h, 24)
	assert.Equal(t, "Docket #", h[0])
	assert.Equal(t, "Documentation", h[len(h)-1])

	h[0] = "changed"
	assert.Equal(t, "Docket #", Headers()[0])
}

func TestIsLegalDataset(t *testing.T) {
	assert.True(t, IsLegalDataset([]string{"id", "time_took"}))
	assert.True(t, IsLegalDataset([]string{"Docket", ColDuration}))
	assert.False(t, IsLegalDataset([]string{"Company", "Website"}))
	assert.False(t, IsLegalDataset(nil))
}
