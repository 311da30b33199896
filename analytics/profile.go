package analytics

import (
	"strconv"
	"strings"
	"time"

	"github.com/pivolan/case_dashboard/domain/models"
	"github.com/pivolan/case_dashboard/transform"
)

const (
	// доля значений, начиная с которой колонка считается числовой или датой
	kindThreshold = 0.8
	// группировки строим только по колонкам с разумным числом уникальных значений
	maxGroupUniq = 1000
	ProfileTop   = 10
)

// Profile describes every column of records in header order.
func Profile(headers []string, records []models.Record) []models.ColumnProfile {
	out := make([]models.ColumnProfile, 0, len(headers))
	for _, h := range headers {
		out = append(out, profileColumn(h, records))
	}
	return out
}

func profileColumn(name string, records []models.Record) models.ColumnProfile {
	p := models.ColumnProfile{Name: name}
	counter := NewCounter()
	var (
		numbers     []float64
		first, last time.Time
		dates       int
	)
	for _, r := range records {
		v := strings.TrimSpace(r[name])
		if v == "" {
			p.Empty++
			continue
		}
		p.Filled++
		counter.Add(v)
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			numbers = append(numbers, f)
			continue
		}
		if d, ok := transform.ParseDate(v); ok {
			if dates == 0 || d.Before(first) {
				first = d
			}
			if dates == 0 || d.After(last) {
				last = d
			}
			dates++
		}
	}
	p.Uniq = counter.Len()

	switch {
	case p.Filled == 0:
		p.Kind = models.KindEmpty
	case isMostly(len(numbers), p.Filled):
		p.Kind = models.KindNumber
		p.Numbers = AnalyzeNumbers(numbers)
	case isMostly(dates, p.Filled):
		p.Kind = models.KindDate
		p.First = first.Format("2006-01-02")
		p.Last = last.Format("2006-01-02")
	default:
		p.Kind = models.KindText
		if p.Uniq > 1 && p.Uniq < maxGroupUniq {
			p.Top = counter.Top(ProfileTop)
		}
	}
	return p
}

func isMostly(n, total int) bool {
	return total > 0 && float64(n)/float64(total) >= kindThreshold
}
