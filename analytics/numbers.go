package analytics

import (
	"math"
	"sort"

	"github.com/pivolan/case_dashboard/domain/models"
	"github.com/pivolan/case_dashboard/transform"
)

// квантили, которые считаются для каждой числовой колонки
var quantileList = []float64{0.01, 0.025, 0.1, 0.25, 0.75, 0.9, 0.975, 0.99}

// ColumnNumbers collects the parsable numbers of field. Empty cells are skipped.
func ColumnNumbers(records []models.Record, field string) []float64 {
	numbers := make([]float64, 0, len(records))
	for _, r := range records {
		if v, ok := transform.ParseFloat(r[field]); ok {
			numbers = append(numbers, v)
		}
	}
	return numbers
}

// calculateQuantile вычисляет квантиль заданного уровня
func calculateQuantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}

	pos := p * float64(len(sorted)-1)
	floor := math.Floor(pos)
	ceil := math.Ceil(pos)

	if floor == ceil {
		return sorted[int(pos)]
	}

	// Интерполяция между двумя ближайшими значениями
	lower := sorted[int(floor)]
	upper := sorted[int(ceil)]
	return lower + (pos-floor)*(upper-lower)
}

// findOutliers находит выбросы на основе межквартильного размаха
func findOutliers(numbers []float64, q1, q3, iqr float64) []float64 {
	outliers := make([]float64, 0)
	lowerBound := q1 - 1.5*iqr
	upperBound := q3 + 1.5*iqr

	for _, num := range numbers {
		if num < lowerBound || num > upperBound {
			outliers = append(outliers, num)
		}
	}
	return outliers
}

// AnalyzeNumbers returns distribution statistics, or nil for no numbers.
func AnalyzeNumbers(numbers []float64) *models.NumberStats {
	if len(numbers) == 0 {
		return nil
	}

	sorted := make([]float64, len(numbers))
	copy(sorted, numbers)
	sort.Float64s(sorted)

	sum := 0.0
	for _, num := range numbers {
		sum += num
	}
	avg := sum / float64(len(numbers))

	var median float64
	if len(sorted)%2 == 0 {
		median = (sorted[len(sorted)/2-1] + sorted[len(sorted)/2]) / 2
	} else {
		median = sorted[len(sorted)/2]
	}

	quantiles := make(map[float64]float64, len(quantileList))
	for _, p := range quantileList {
		quantiles[p] = roundToTwo(calculateQuantile(sorted, p))
	}
	iqr := quantiles[0.75] - quantiles[0.25]

	return &models.NumberStats{
		Average:   roundToTwo(avg),
		Median:    roundToTwo(median),
		Min:       roundToTwo(sorted[0]),
		Max:       roundToTwo(sorted[len(sorted)-1]),
		Count:     len(numbers),
		Quantiles: quantiles,
		IQR:       roundToTwo(iqr),
		Outliers:  findOutliers(numbers, quantiles[0.25], quantiles[0.75], iqr),
	}
}

// roundToTwo округляет число до двух знаков после запятой
func roundToTwo(num float64) float64 {
	return math.Round(num*100) / 100
}
