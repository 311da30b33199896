package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/pivolan/case_dashboard/domain/models"
	"github.com/pivolan/case_dashboard/transform"
)

const Ellipsis = "..."

// CountBy groups records by field. Empty values are counted as defaultLabel,
// or skipped when defaultLabel is empty.
func CountBy(records []models.Record, field, defaultLabel string) *Counter {
	c := NewCounter()
	for _, r := range records {
		v := r[field]
		if v == "" {
			v = defaultLabel
		}
		if v == "" {
			continue
		}
		c.Add(v)
	}
	return c
}

// TopN truncates a sorted list to n entries. n <= 0 keeps everything.
func TopN(list []models.ValueCount, n int) []models.ValueCount {
	if n <= 0 || n >= len(list) {
		return list
	}
	return list[:n]
}

// Truncate cuts label after limit characters and appends an ellipsis.
func Truncate(label string, limit int) string {
	runes := []rune(label)
	if limit <= 0 || len(runes) <= limit {
		return label
	}
	return string(runes[:limit]) + Ellipsis
}

// TruncateLabels returns a copy of list with every label passed through Truncate.
func TruncateLabels(list []models.ValueCount, limit int) []models.ValueCount {
	out := make([]models.ValueCount, len(list))
	for i, vc := range list {
		out[i] = models.ValueCount{Value: Truncate(vc.Value, limit), Count: vc.Count}
	}
	return out
}

// Bucket is a right-inclusive range [Min, Max]. Max 0 means unbounded.
type Bucket struct {
	Label string
	Min   int
	Max   int
}

var DurationBuckets = []Bucket{
	{Label: "0-90", Min: 1, Max: 90},
	{Label: "91-180", Min: 91, Max: 180},
	{Label: "181-365", Min: 181, Max: 365},
	{Label: "365+", Min: 366},
}

func (b Bucket) contains(v int) bool {
	return v >= b.Min && (b.Max == 0 || v <= b.Max)
}

// Histogram classifies the positive integer values of field into buckets.
// Missing, unparsable and non-positive values are left out.
func Histogram(records []models.Record, field string, buckets []Bucket) []models.RangeCount {
	out := make([]models.RangeCount, len(buckets))
	for i, b := range buckets {
		out[i].Range = b.Label
	}
	for _, r := range records {
		v, ok := positiveInt(r[field])
		if !ok {
			continue
		}
		for i, b := range buckets {
			if b.contains(v) {
				out[i].Count++
				break
			}
		}
	}
	return out
}

func DurationHistogram(records []models.Record, field string) []models.RangeCount {
	return Histogram(records, field, DurationBuckets)
}

// MonthlyCounts counts parsable dates of field per YYYY-MM, ascending.
// lastN > 0 keeps only the most recent months.
func MonthlyCounts(records []models.Record, field string, lastN int) []models.MonthCount {
	c := NewCounter()
	for _, r := range records {
		d, ok := transform.ParseDate(r[field])
		if !ok {
			continue
		}
		c.Add(fmt.Sprintf("%04d-%02d", d.Year(), int(d.Month())))
	}

	keys := c.Keys()
	sort.Strings(keys)
	if lastN > 0 && len(keys) > lastN {
		keys = keys[len(keys)-lastN:]
	}
	out := make([]models.MonthCount, len(keys))
	for i, k := range keys {
		out[i] = models.MonthCount{Month: k, Count: c.Get(k)}
	}
	return out
}

// Weekdays in display order. time.Weekday numbers Sunday as 0.
var Weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

// DayOfWeek returns exactly seven entries, Monday first, zero filled.
func DayOfWeek(records []models.Record, field string) []models.DayCount {
	var counts [7]int
	for _, r := range records {
		d, ok := transform.ParseDate(r[field])
		if !ok {
			continue
		}
		counts[d.Weekday()]++
	}
	out := make([]models.DayCount, len(Weekdays))
	for i, wd := range Weekdays {
		out[i] = models.DayCount{Day: wd.String(), Count: counts[wd]}
	}
	return out
}

// GroupAverages averages the positive integer values of valueField per group.
// The result is sorted by average descending, limited to n and labels cut at labelLimit.
func GroupAverages(records []models.Record, groupField, valueField, defaultGroup string, n, labelLimit int) []models.GroupAverage {
	sums := NewCounter()
	counts := NewCounter()
	for _, r := range records {
		v, ok := positiveInt(r[valueField])
		if !ok {
			continue
		}
		g := r[groupField]
		if g == "" {
			g = defaultGroup
		}
		if g == "" {
			continue
		}
		sums.AddN(g, v)
		counts.Add(g)
	}

	out := make([]models.GroupAverage, 0, counts.Len())
	for _, g := range counts.Keys() {
		cnt := counts.Get(g)
		out = append(out, models.GroupAverage{
			Group:   Truncate(g, labelLimit),
			Average: transform.RoundHalfUp(float64(sums.Get(g)) / float64(cnt)),
			Count:   cnt,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Average > out[j].Average
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Percent returns round(100*subset/total), 0 for an empty total.
func Percent(subset, total int) int {
	if total <= 0 {
		return 0
	}
	return transform.RoundHalfUp(float64(subset) / float64(total) * 100)
}

func positiveInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	v, ok := transform.ParseInt(s)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}
