package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pivolan/case_dashboard/domain/models"
)

const SEPARATOR = ','

// ErrEmpty is returned for CSV input without data rows.
var ErrEmpty = errors.New("CSV file is empty or has no data rows.")

// ParseError wraps a failure of the CSV reader.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }

// ParseCSV reads a header row followed by data rows.
// Values are trimmed, missing trailing cells are left out of the record and a first
// data row that repeats the header is skipped.
func ParseCSV(r io.Reader) ([]string, []models.Record, error) {
	reader := csv.NewReader(r)
	reader.Comma = SEPARATOR
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	rawHeaders, err := reader.Read()
	if err == io.EOF {
		return nil, nil, ErrEmpty
	}
	if err != nil {
		return nil, nil, &ParseError{Err: err}
	}
	headers := cleanHeaders(rawHeaders)

	var records []models.Record
	first := true
	for {
		values, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return headers, nil, &ParseError{Err: err}
		}
		if isBlank(values) {
			continue
		}
		if first {
			first = false
			if repeatsHeader(values, rawHeaders) {
				continue
			}
		}
		records = append(records, toRecord(headers, values))
	}

	if len(records) == 0 {
		return headers, nil, ErrEmpty
	}
	return headers, records, nil
}

func toRecord(headers, values []string) models.Record {
	rec := make(models.Record, len(headers))
	for i, h := range headers {
		if i >= len(values) {
			break
		}
		rec[h] = strings.TrimSpace(values[i])
	}
	return rec
}

func isBlank(values []string) bool {
	return len(values) == 1 && strings.TrimSpace(values[0]) == ""
}

func repeatsHeader(values, headers []string) bool {
	if len(values) != len(headers) {
		return false
	}
	for i, v := range values {
		h := headers[i]
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		if strings.TrimSpace(v) != strings.TrimSpace(h) {
			return false
		}
	}
	return true
}

// Describe renders a load failure the way the dashboard shows it.
func Describe(err error) string {
	var perr *ParseError
	switch {
	case errors.Is(err, ErrEmpty):
		return ErrEmpty.Error()
	case errors.As(err, &perr):
		return fmt.Sprintf("Error parsing CSV: %s", perr.Error())
	default:
		return fmt.Sprintf("Failed to load: %s", err.Error())
	}
}
