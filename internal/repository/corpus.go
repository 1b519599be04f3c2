package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"mailbox-directory-api/internal/models"

	"github.com/rs/zerolog"
)

// CorpusRepository reads the static location corpus from disk and normalizes
// the three on-disk JSON shapes into canonical CountryDocuments. The corpus is
// read-only; concurrent readers are safe.
type CorpusRepository struct {
	reg Registry
	log zerolog.Logger
}

// NewCorpusRepository creates a repository over the given registry.
func NewCorpusRepository(reg Registry, log zerolog.Logger) *CorpusRepository {
	return &CorpusRepository{reg: reg, log: log}
}

// stateSource is the US-state shape. Single-location countries use the same
// shape with the country name in the state field.
type stateSource struct {
	State          string `json:"state"`
	TotalLocations int    `json:"total_locations"`
	ScrapedAt      string `json:"scraped_at"`
	StateData      struct {
		StateURL string       `json:"state_url"`
		Cities   []citySource `json:"cities"`
	} `json:"state_data"`
}

type citySource struct {
	CityName      string                  `json:"city_name"`
	LocationCount int                     `json:"location_count"`
	Locations     []models.LocationRecord `json:"locations"`
}

// normalize maps the state shape to the canonical document, with region names
// taken from the city names.
func (s *stateSource) normalize() *models.CountryDocument {
	doc := &models.CountryDocument{
		Name:      s.State,
		ScrapedAt: s.ScrapedAt,
		Regions:   make([]models.Region, 0, len(s.StateData.Cities)),
	}
	for _, city := range s.StateData.Cities {
		doc.Regions = append(doc.Regions, models.Region{
			Name:      city.CityName,
			Locations: city.Locations,
		})
	}
	doc.Recount()
	return doc
}

// normalizeMulti fixes up an already-canonical multi-location document: the
// counts in the file may be stale or missing, so they are recomputed.
func normalizeMulti(doc *models.CountryDocument) *models.CountryDocument {
	doc.Recount()
	return doc
}

// CountryDocument resolves the source file for the given country or state
// name, parses it and returns the canonical document. When the specific file
// is missing or unreadable it falls back to the combined corpus file with a
// case-insensitive name match; that path is logged at warn level since it can
// mask data-quality regressions in the per-country files.
func (r *CorpusRepository) CountryDocument(ctx context.Context, name string) (*models.CountryDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		path       string
		stateShape bool
	)
	switch {
	case r.reg.IsUSState(name):
		path, stateShape = r.reg.USStatePath(name), true
	case r.reg.IsSingleLocation(name):
		path, stateShape = r.reg.SingleLocationPath(name), true
	case r.reg.IsMultiLocation(name):
		path, stateShape = r.reg.MultiLocationPath(name), false
	}

	if path != "" {
		doc, err := r.loadFile(path, stateShape)
		if err == nil {
			return doc, nil
		}
		r.log.Warn().Err(err).Str("country", name).Str("file", path).
			Msg("specific source file unusable, falling back to combined corpus")
	}

	doc, err := r.findInCombined(name)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, &models.NotFoundError{Name: name}
	}
	return doc, nil
}

// AllInternational loads every registered international country, multi-location
// set first, skipping (with a warning) countries whose files are absent.
func (r *CorpusRepository) AllInternational(ctx context.Context) ([]*models.CountryDocument, error) {
	names := append([]string{}, r.reg.MultiLocationCountries()...)
	names = append(names, r.reg.SingleLocationCountries()...)

	docs := make([]*models.CountryDocument, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := r.CountryDocument(ctx, name)
		if err != nil {
			var nf *models.NotFoundError
			if errors.As(err, &nf) {
				r.log.Warn().Str("country", name).Msg("skipping country with no source data")
				continue
			}
			return nil, fmt.Errorf("repository: load %s: %w", name, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// AllUSStates loads every registered US state, skipping (with a warning)
// states whose files are absent.
func (r *CorpusRepository) AllUSStates(ctx context.Context) ([]*models.CountryDocument, error) {
	docs := make([]*models.CountryDocument, 0, len(r.reg.USStates()))
	for _, name := range r.reg.USStates() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := r.CountryDocument(ctx, name)
		if err != nil {
			var nf *models.NotFoundError
			if errors.As(err, &nf) {
				r.log.Warn().Str("state", name).Msg("skipping state with no source data")
				continue
			}
			return nil, fmt.Errorf("repository: load %s: %w", name, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// loadFile reads and normalizes one source file.
func (r *CorpusRepository) loadFile(path string, stateShape bool) (*models.CountryDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("repository: read %s: %w", path, err)
	}
	return decodeSource(raw, path, stateShape)
}

func decodeSource(raw []byte, path string, stateShape bool) (*models.CountryDocument, error) {
	if stateShape {
		var src stateSource
		if err := json.Unmarshal(raw, &src); err != nil {
			return nil, &models.MalformedSourceError{File: path, Err: err}
		}
		if src.State == "" {
			return nil, &models.MalformedSourceError{File: path, Err: fmt.Errorf("missing state field")}
		}
		return src.normalize(), nil
	}
	var doc models.CountryDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &models.MalformedSourceError{File: path, Err: err}
	}
	if doc.Name == "" {
		return nil, &models.MalformedSourceError{File: path, Err: fmt.Errorf("missing country field")}
	}
	return normalizeMulti(&doc), nil
}

// findInCombined searches the combined fallback file for a country whose name
// matches case-insensitively. Entries may be in either shape. Returns nil, nil
// when the file is readable but holds no match.
func (r *CorpusRepository) findInCombined(name string) (*models.CountryDocument, error) {
	path := r.reg.CombinedPath()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: read combined corpus: %w", err)
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, &models.MalformedSourceError{File: path, Err: err}
	}

	want := strings.ToLower(strings.TrimSpace(name))
	for _, entry := range entries {
		// Try the canonical multi-location shape first, then the state shape.
		var multi models.CountryDocument
		if err := json.Unmarshal(entry, &multi); err == nil && multi.Name != "" {
			if strings.ToLower(multi.Name) == want {
				return normalizeMulti(&multi), nil
			}
			continue
		}
		var single stateSource
		if err := json.Unmarshal(entry, &single); err == nil && single.State != "" {
			if strings.ToLower(single.State) == want {
				return single.normalize(), nil
			}
		}
	}
	return nil, nil
}
