package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"mailbox-directory-api/internal/models"
)

var csvHeader = []string{"country", "city", "address", "premier", "top_rated", "verified"}

// CSVService exports the international corpus as a flat tabular directory,
// one row per location.
type CSVService struct {
	repo CountryRepository
}

// NewCSVService creates a CSV service over the corpus repository.
func NewCSVService(repo CountryRepository) *CSVService {
	return &CSVService{repo: repo}
}

// Generate renders the full international directory as CSV bytes. The city
// column prefers the location title and falls back to the region name.
func (s *CSVService) Generate(ctx context.Context) ([]byte, error) {
	docs, err := s.repo.AllInternational(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: load international corpus: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("service: write csv header: %w", err)
	}

	for _, doc := range docs {
		for _, region := range doc.Regions {
			for _, loc := range region.Locations {
				if err := w.Write(csvRow(doc, region, loc)); err != nil {
					return nil, fmt.Errorf("service: write csv row: %w", err)
				}
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("service: flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func csvRow(doc *models.CountryDocument, region models.Region, loc models.LocationRecord) []string {
	city := loc.Title
	if city == "" {
		city = region.Name
	}

	verified := false
	if loc.LocationInfo != nil && loc.LocationInfo.OperatorInfo != nil {
		verified = loc.LocationInfo.OperatorInfo.Verified
	}

	return []string{
		doc.Name,
		city,
		loc.Address,
		yesNo(loc.IsPremier),
		yesNo(verified),
		yesNo(verified),
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
