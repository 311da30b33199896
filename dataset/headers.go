package dataset

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

const utf8BOM = "\ufeff"

// cleanHeaders trims header names, strips a BOM and names empty columns.
func cleanHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	for i, h := range raw {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		h = strings.TrimSpace(h)
		if h == "" {
			h = generateColumnName(i)
		}
		headers[i] = h
	}
	return ValidateHeaders(headers)
}

// generateColumnName создает имя столбца по индексу
func generateColumnName(index int) string {
	return fmt.Sprintf("column_%d", index+1)
}

// ValidateHeaders проверяет и исправляет дубликаты в заголовках
func ValidateHeaders(headers []string) []string {
	seen := make(map[string]bool)
	result := make([]string, len(headers))

	for i, header := range headers {
		candidate := header
		counter := 1
		for seen[candidate] {
			candidate = fmt.Sprintf("%s_%d", header, counter)
			counter++
		}
		seen[candidate] = true
		result[i] = candidate
	}

	return result
}

var specialSymbols = regexp.MustCompile("[^a-zA-Z0-9]+")

// Slug turns a dataset or column name into a file-name friendly token.
func Slug(name string) string {
	s := unidecode.Unidecode(name)
	s = specialSymbols.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	return strings.ToLower(s)
}
