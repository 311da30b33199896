package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/pivolan/case_dashboard/analytics"
	"github.com/pivolan/case_dashboard/config"
	"github.com/pivolan/case_dashboard/dataset"
	"github.com/pivolan/case_dashboard/domain/models"
	"github.com/pivolan/case_dashboard/view"
)

var clipboardWriteAll = clipboard.WriteAll

// loadFile reads a CSV outside of the configured tabs, as the CLI commands do.
func loadFile(ctx context.Context, path string) (*models.Dataset, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	reg := dataset.NewRegistry([]config.DatasetConfig{{ID: "file", Name: name, Path: path}}, dataset.NewSource("", nil))
	return reg.Ensure(ctx, "file")
}

func summaryText(ds *models.Dataset) string {
	return analytics.RenderSummary(analytics.Summarize(ds.Raw, analytics.DefaultFields))
}

func profileText(ds *models.Dataset, markdown bool) string {
	return analytics.RenderProfile(analytics.Profile(ds.Headers, ds.Records), markdown)
}

// parseRows turns "1,3,5-7" into 0-based indices.
func parseRows(spec string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		from, to := part, part
		if i := strings.Index(part, "-"); i > 0 {
			from, to = part[:i], part[i+1:]
		}
		a, err := strconv.Atoi(strings.TrimSpace(from))
		if err != nil {
			return nil, fmt.Errorf("bad row %q", part)
		}
		b, err := strconv.Atoi(strings.TrimSpace(to))
		if err != nil {
			return nil, fmt.Errorf("bad row %q", part)
		}
		if a < 1 || b < a {
			return nil, fmt.Errorf("bad row range %q", part)
		}
		for n := a; n <= b; n++ {
			out = append(out, n-1)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no rows in %q", spec)
	}
	return out, nil
}

// selectionText exports the given 1-based rows and reports how many were selected.
func selectionText(ds *models.Dataset, rows, format string, numbered bool) (string, int, error) {
	f, err := view.ParseFormat(format)
	if err != nil {
		return "", 0, err
	}
	indices, err := parseRows(rows)
	if err != nil {
		return "", 0, err
	}
	p := view.NewPager(ds, view.DefaultPageSize)
	for _, idx := range indices {
		if p.IsSelected(idx) {
			continue
		}
		if !p.Toggle(idx) {
			return "", 0, fmt.Errorf("row %d is out of range, the file has %d rows", idx+1, p.Total())
		}
	}
	text, err := p.Export(f, numbered)
	return text, len(p.Selected()), err
}
