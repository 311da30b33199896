package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/case_dashboard/domain/models"
)

func profileRecords() []models.Record {
	return []models.Record{
		{"id": "1", "court": "Kings", "filed": "2023-01-15", "note": ""},
		{"id": "2", "court": "Kings", "filed": "2023-02-01", "note": "x"},
		{"id": "3", "court": "Queens", "filed": "2023-03-10"},
		{"id": "4", "court": "Kings", "filed": "2022-12-31", "note": " "},
	}
}

func TestProfile(t *testing.T) {
	got := Profile([]string{"id", "court", "filed", "note", "blank"}, profileRecords())
	require.Len(t, got, 5)

	id := got[0]
	assert.Equal(t, models.KindNumber, id.Kind)
	assert.Equal(t, 4, id.Filled)
	assert.Equal(t, 4, id.Uniq)
	require.NotNil(t, id.Numbers)
	assert.Equal(t, 2.5, id.Numbers.Average)
	assert.Equal(t, 2.5, id.Numbers.Median)
	assert.Equal(t, 1.0, id.Numbers.Min)
	assert.Equal(t, 4.0, id.Numbers.Max)
	assert.Nil(t, id.Top)

	court := got[1]
	assert.Equal(t, models.KindText, court.Kind)
	assert.Equal(t, 2, court.Uniq)
	assert.Equal(t, []models.ValueCount{{Value: "Kings", Count: 3}, {Value: "Queens", Count: 1}}, court.Top)

	filed := got[2]
	assert.Equal(t, models.KindDate, filed.Kind)
	assert.Equal(t, "2022-12-31", filed.First)
	assert.Equal(t, "2023-03-10", filed.Last)

	note := got[3]
	assert.Equal(t, models.KindText, note.Kind)
	assert.Equal(t, 1, note.Filled)
	assert.Equal(t, 3, note.Empty)
	assert.Nil(t, note.Top, "single value columns are not grouped")

	assert.Equal(t, models.ColumnProfile{Name: "blank", Kind: models.KindEmpty, Empty: 4}, got[4])
}

func TestProfileMixedColumn(t *testing.T) {
	records := []models.Record{
		{"amount": "10"}, {"amount": "12.5"}, {"amount": "n/a"}, {"amount": "7"}, {"amount": "3"},
	}
	p := Profile([]string{"amount"}, records)[0]
	assert.Equal(t, models.KindNumber, p.Kind, "4 of 5 values are numbers")
	assert.Equal(t, 4, p.Numbers.Count)

	records = append(records, models.Record{"amount": "unknown"})
	p = Profile([]string{"amount"}, records)[0]
	assert.Equal(t, models.KindText, p.Kind)
}

func TestRenderProfile(t *testing.T) {
	profiles := Profile([]string{"id", "court", "filed"}, profileRecords())

	out := RenderProfile(profiles, false)
	assert.Contains(t, out, "Kings (3)")
	assert.Contains(t, out, "2022-12-31 .. 2023-03-10")
	assert.Contains(t, out, "2.5")

	md := RenderProfile(profiles, true)
	assert.Contains(t, md, "| court |")
	assert.Contains(t, md, "| number |")
}
