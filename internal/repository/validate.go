package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// FileReport is the validation result for one corpus file.
type FileReport struct {
	File   string   `json:"file"`
	Type   string   `json:"type"`
	Exists bool     `json:"exists"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

var priceKeyPattern = regexp.MustCompile(`(?i)amount|price|currency`)

// ValidateCorpus checks every registered source file: existence, parseability,
// the shape requirements of its variant, and a deep scan for blank values and
// zero price fields.
func (r *CorpusRepository) ValidateCorpus(ctx context.Context) []FileReport {
	reports := make([]FileReport, 0,
		len(r.reg.USStates())+len(r.reg.SingleLocationCountries())+len(r.reg.MultiLocationCountries()))

	for _, name := range r.reg.USStates() {
		if ctx.Err() != nil {
			return reports
		}
		reports = append(reports, validateFile(r.reg.USStatePath(name), "US State", validateStateShape))
	}
	for _, name := range r.reg.SingleLocationCountries() {
		if ctx.Err() != nil {
			return reports
		}
		reports = append(reports, validateFile(r.reg.SingleLocationPath(name), "Intl Single", validateStateShape))
	}
	for _, name := range r.reg.MultiLocationCountries() {
		if ctx.Err() != nil {
			return reports
		}
		reports = append(reports, validateFile(r.reg.MultiLocationPath(name), "Intl Multi", validateMultiShape))
	}
	return reports
}

func validateFile(path, kind string, shapeCheck func(map[string]any) []string) FileReport {
	report := FileReport{File: path, Type: kind, Errors: []string{}}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			report.Errors = append(report.Errors, "file does not exist")
		} else {
			report.Errors = append(report.Errors, "unreadable: "+err.Error())
			report.Exists = true
		}
		return report
	}
	report.Exists = true

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		report.Errors = append(report.Errors, "invalid JSON: "+err.Error())
		return report
	}

	report.Errors = append(report.Errors, shapeCheck(data)...)
	report.Errors = append(report.Errors, deepCheck(data, nil)...)
	report.Valid = len(report.Errors) == 0
	return report
}

func validateStateShape(data map[string]any) []string {
	var errs []string
	if s, _ := data["state"].(string); s == "" {
		errs = append(errs, "missing state")
	}
	sd, ok := data["state_data"].(map[string]any)
	if !ok {
		return append(errs, "missing state_data")
	}
	cities, ok := sd["cities"].([]any)
	if !ok {
		errs = append(errs, "missing or invalid cities array")
	} else if len(cities) == 0 {
		errs = append(errs, "no cities")
	}
	return errs
}

func validateMultiShape(data map[string]any) []string {
	var errs []string
	if c, _ := data["country"].(string); c == "" {
		errs = append(errs, "missing country")
	}
	regions, ok := data["regions"].([]any)
	if !ok {
		errs = append(errs, "missing or invalid regions array")
	} else if len(regions) == 0 {
		errs = append(errs, "no regions")
	}
	return errs
}

// deepCheck recursively flags empty strings, null values, and zeroes in
// price-related numeric fields.
func deepCheck(value any, path []string) []string {
	var errs []string
	switch v := value.(type) {
	case []any:
		for i, item := range v {
			errs = append(errs, deepCheck(item, append(path, fmt.Sprintf("[%d]", i)))...)
		}
	case map[string]any:
		for key, item := range v {
			current := append(path, key)
			switch iv := item.(type) {
			case nil:
				errs = append(errs, "missing or blank value at "+strings.Join(current, "."))
			case string:
				if iv == "" {
					errs = append(errs, "missing or blank value at "+strings.Join(current, "."))
				}
			case float64:
				if iv == 0 && priceKeyPattern.MatchString(key) {
					errs = append(errs, "missing or blank value at "+strings.Join(current, "."))
				}
			default:
				errs = append(errs, deepCheck(item, current)...)
			}
		}
	}
	return errs
}
