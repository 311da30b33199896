package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/case_dashboard/domain/models"
)

func TestAnalyzeNumbers(t *testing.T) {
	assert.Nil(t, AnalyzeNumbers(nil))

	stats := AnalyzeNumbers([]float64{5, 1, 3, 2, 4})
	require.NotNil(t, stats)
	assert.Equal(t, 5, stats.Count)
	assert.Equal(t, 3.0, stats.Average)
	assert.Equal(t, 3.0, stats.Median)
	assert.Equal(t, 1.0, stats.Min)
	assert.Equal(t, 5.0, stats.Max)
	assert.Equal(t, 2.0, stats.Quantiles[0.25])
	assert.Equal(t, 4.0, stats.Quantiles[0.75])
	assert.Equal(t, 2.0, stats.IQR)
	assert.Empty(t, stats.Outliers)

	even := AnalyzeNumbers([]float64{1, 2, 3, 100})
	assert.Equal(t, 2.5, even.Median)
	assert.Equal(t, []float64{100}, even.Outliers)
}

func TestColumnNumbers(t *testing.T) {
	recs := []models.Record{{"x": "1.5"}, {"x": ""}, {"x": "n/a"}, {"x": "20 days"}, {}}
	assert.Equal(t, []float64{1.5, 20}, ColumnNumbers(recs, "x"))
}
