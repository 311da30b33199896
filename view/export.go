package view

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
)

type Format string

const (
	FormatTSV Format = "tsv"
	FormatCSV Format = "csv"
)

// ParseFormat maps a query value to a Format. The empty string means TSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatTSV:
		return FormatTSV, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

var tsvCleaner = strings.NewReplacer("\n", " ", "\t", " ")

// Export renders the selected rows in ascending index order under a header line.
// numbered adds a leading "#" column holding the 1-based row number. It returns an
// empty string when nothing is selected.
func (p *Pager) Export(format Format, numbered bool) (string, error) {
	selected := p.Selected()
	if len(selected) == 0 || p.dataset == nil {
		return "", nil
	}
	headers := p.dataset.Headers
	records := p.records()

	lines := make([][]string, 0, len(selected)+1)
	header := make([]string, 0, len(headers)+1)
	if numbered {
		header = append(header, "#")
	}
	lines = append(lines, append(header, headers...))

	for _, idx := range selected {
		row := records[idx]
		line := make([]string, 0, len(headers)+1)
		if numbered {
			line = append(line, strconv.Itoa(idx+1))
		}
		for _, h := range headers {
			line = append(line, strings.TrimSpace(row[h]))
		}
		lines = append(lines, line)
	}

	switch format {
	case FormatTSV:
		out := make([]string, len(lines))
		for i, line := range lines {
			for j, v := range line {
				line[j] = tsvCleaner.Replace(v)
			}
			out[i] = strings.Join(line, "\t")
		}
		return strings.Join(out, "\n"), nil
	case FormatCSV:
		buf := &strings.Builder{}
		w := csv.NewWriter(buf)
		if err := w.WriteAll(lines); err != nil {
			return "", err
		}
		return strings.TrimSuffix(buf.String(), "\n"), nil
	}
	return "", fmt.Errorf("unsupported export format %q", format)
}
