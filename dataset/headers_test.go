package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateHeaders(t *testing.T) {
	got := ValidateHeaders([]string{"name", "name", "name", "age"})
	assert.Equal(t, []string{"name", "name_1", "name_2", "age"}, got)
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Foreclosure Cases":         "foreclosure_cases",
		"Case Duration (Days)":      "case_duration_days",
		"Дела о взыскании":          "dela_o_vzyskanii",
		"  __Top Law Firms!__ ":     "top_law_firms",
		"Debt ratio (Outstanding ÷ Original)": "debt_ratio_outstanding_original",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slug(in), in)
	}
}
