package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/case_dashboard/domain/models"
)

func records(field string, values ...string) []models.Record {
	out := make([]models.Record, len(values))
	for i, v := range values {
		out[i] = models.Record{field: v}
	}
	return out
}

func TestCountBy(t *testing.T) {
	recs := records("Status", "Disposed", "", "Disposed", "Pending", "")
	got := CountBy(recs, "Status", "Active").Sorted()
	assert.Equal(t, []models.ValueCount{
		{Value: "Disposed", Count: 2},
		{Value: "Active", Count: 2},
		{Value: "Pending", Count: 1},
	}, got)

	skipped := CountBy(recs, "Status", "")
	assert.Equal(t, 2, skipped.Len())
	assert.Equal(t, 0, skipped.Get(""))
}

func TestTopNKeepsEncounterOrderOnTies(t *testing.T) {
	recs := records("Judge", "C", "A", "B", "A", "C", "D")
	got := CountBy(recs, "Judge", "").Top(3)
	assert.Equal(t, []models.ValueCount{
		{Value: "C", Count: 2},
		{Value: "A", Count: 2},
		{Value: "B", Count: 1},
	}, got)

	assert.Len(t, TopN(got, 0), 3)
	assert.Len(t, TopN(got, 10), 3)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"Short Firm", 30, "Short Firm"},
		{"Abcdefghijklmnopqrstuvwxyz0123456789", 30, "Abcdefghijklmnopqrstuvwxyz0123..."},
		{"exactly ten", 11, "exactly ten"},
		{"Суд округа Нью-Йорк", 4, "Суд ..."},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.in, tt.limit), tt.in)
	}

	got := TruncateLabels([]models.ValueCount{{Value: "abcdef", Count: 3}}, 3)
	assert.Equal(t, []models.ValueCount{{Value: "abc...", Count: 3}}, got)
}

func TestDurationHistogram(t *testing.T) {
	got := DurationHistogram(records("d", "45", "120", "400", ""), "d")
	assert.Equal(t, []models.RangeCount{
		{Range: "0-90", Count: 1},
		{Range: "91-180", Count: 1},
		{Range: "181-365", Count: 0},
		{Range: "365+", Count: 1},
	}, got)

	edges := DurationHistogram(records("d", "1", "90", "91", "180", "181", "365", "366", "0", "-4", "n/a"), "d")
	assert.Equal(t, []models.RangeCount{
		{Range: "0-90", Count: 2},
		{Range: "91-180", Count: 2},
		{Range: "181-365", Count: 2},
		{Range: "365+", Count: 1},
	}, edges)
}

func TestHistogramSumNeverExceedsTotal(t *testing.T) {
	values := []string{"", "0", "x", "12", "-1", "900", "181", "3 days"}
	recs := records("d", values...)
	sum := 0
	for _, rc := range DurationHistogram(recs, "d") {
		sum += rc.Count
	}
	assert.LessOrEqual(t, sum, len(recs))
	assert.Equal(t, 4, sum)

	all := records("d", "5", "95", "200", "500")
	sum = 0
	for _, rc := range DurationHistogram(all, "d") {
		sum += rc.Count
	}
	assert.Equal(t, len(all), sum)
}

func TestMonthlyCounts(t *testing.T) {
	recs := records("date", "2024-03-05", "3/20/2024", "2023-12-01", "garbage", "", "2024-01-31")
	got := MonthlyCounts(recs, "date", 0)
	assert.Equal(t, []models.MonthCount{
		{Month: "2023-12", Count: 1},
		{Month: "2024-01", Count: 1},
		{Month: "2024-03", Count: 2},
	}, got)

	var many []models.Record
	for m := 1; m <= 12; m++ {
		many = append(many, models.Record{"date": fmt.Sprintf("2023-%02d-10", m)})
	}
	many = append(many, models.Record{"date": "2024-01-10"}, models.Record{"date": "2024-02-10"})
	last := MonthlyCounts(many, "date", 12)
	require.Len(t, last, 12)
	assert.Equal(t, "2023-03", last[0].Month)
	assert.Equal(t, "2024-02", last[11].Month)
}

func TestDayOfWeek(t *testing.T) {
	recs := records("date", "2024-03-04", "2024-03-05", "2024-03-10", "2024-03-17", "bad", "")
	got := DayOfWeek(recs, "date")
	require.Len(t, got, 7)
	assert.Equal(t, models.DayCount{Day: "Monday", Count: 1}, got[0])
	assert.Equal(t, models.DayCount{Day: "Tuesday", Count: 1}, got[1])
	assert.Equal(t, models.DayCount{Day: "Sunday", Count: 2}, got[6])

	sum := 0
	for _, d := range got {
		sum += d.Count
	}
	assert.Equal(t, 4, sum)

	empty := DayOfWeek(nil, "date")
	require.Len(t, empty, 7)
	assert.Equal(t, "Saturday", empty[5].Day)
}

func TestGroupAverages(t *testing.T) {
	recs := []models.Record{
		{"Court": "Kings", "d": "100"},
		{"Court": "Kings", "d": "201"},
		{"Court": "Queens", "d": "300"},
		{"Court": "Bronx", "d": ""},
		{"Court": "", "d": "50"},
		{"Court": "Richmond County Supreme Court Foreclosure Part", "d": "10"},
	}
	got := GroupAverages(recs, "Court", "d", "Unknown", 10, 40)
	assert.Equal(t, []models.GroupAverage{
		{Group: "Queens", Average: 300, Count: 1},
		{Group: "Kings", Average: 151, Count: 2},
		{Group: "Unknown", Average: 50, Count: 1},
		{Group: "Richmond County Supreme Court Foreclosur...", Average: 10, Count: 1},
	}, got)

	assert.Len(t, GroupAverages(recs, "Court", "d", "Unknown", 2, 0), 2)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 50, Percent(1, 2))
	assert.Equal(t, 0, Percent(5, 0))
	assert.Equal(t, 100, Percent(7, 7))
	assert.Equal(t, 13, Percent(1, 8))
}
