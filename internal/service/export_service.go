package service

import (
	"context"
	"fmt"
	"time"

	"mailbox-directory-api/internal/models"

	"github.com/rs/zerolog"
)

// ExportOptions are the caller-controlled export knobs.
type ExportOptions struct {
	// RichMap selects the remote static-map provider for thumbnails; when
	// false the local GeoJSON raster is used instead (no network I/O).
	RichMap bool
	// PriceIncluded keeps pricing text in the output; when false it is
	// redacted to a placeholder.
	PriceIncluded bool
}

// CountryRepository loads canonical documents from the corpus.
type CountryRepository interface {
	CountryDocument(ctx context.Context, name string) (*models.CountryDocument, error)
	AllInternational(ctx context.Context) ([]*models.CountryDocument, error)
}

// MapEnricher attaches map thumbnails to a document's locations.
type MapEnricher interface {
	Enrich(ctx context.Context, doc *models.CountryDocument, richMap bool)
}

// Renderer produces print-ready HTML from canonical documents.
type Renderer interface {
	Render(doc *models.CountryDocument) (string, error)
	RenderAll(docs []*models.CountryDocument) (string, error)
}

// PDFPrinter converts HTML into PDF bytes.
type PDFPrinter interface {
	PrintHTML(ctx context.Context, html string) ([]byte, error)
}

// ExportService orchestrates the export pipeline: load, enrich, render,
// print. Each export runs under its own deadline; the all-international
// export gets a longer one since it aggregates every country.
type ExportService struct {
	repo     CountryRepository
	enricher MapEnricher
	renderer Renderer
	printer  PDFPrinter

	timeout    time.Duration
	allTimeout time.Duration
	log        zerolog.Logger
}

// NewExportService creates an export service.
func NewExportService(repo CountryRepository, enricher MapEnricher, renderer Renderer,
	printer PDFPrinter, timeout, allTimeout time.Duration, log zerolog.Logger) *ExportService {
	return &ExportService{
		repo:       repo,
		enricher:   enricher,
		renderer:   renderer,
		printer:    printer,
		timeout:    timeout,
		allTimeout: allTimeout,
		log:        log,
	}
}

// ExportCountry generates the PDF directory for one country or US state.
func (s *ExportService) ExportCountry(ctx context.Context, name string, opts ExportOptions) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("service: country or state name cannot be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	s.log.Info().Str("country", name).Bool("rich_map", opts.RichMap).
		Bool("price_included", opts.PriceIncluded).Msg("starting pdf export")

	doc, err := s.repo.CountryDocument(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("service: load %s: %w", name, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("service: document invariants: %w", err)
	}
	doc.PriceIncluded = opts.PriceIncluded

	s.enricher.Enrich(ctx, doc, opts.RichMap)

	html, err := s.renderer.Render(doc)
	if err != nil {
		return nil, fmt.Errorf("service: render %s: %w", name, err)
	}

	pdfBytes, err := s.printer.PrintHTML(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("service: print %s: %w", name, err)
	}

	s.log.Info().Str("country", name).Int("locations", doc.TotalLocations).
		Dur("elapsed", time.Since(started)).Msg("pdf export complete")
	return pdfBytes, nil
}

// ExportAllInternational generates one PDF covering every international
// country in the corpus.
func (s *ExportService) ExportAllInternational(ctx context.Context, opts ExportOptions) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.allTimeout)
	defer cancel()

	started := time.Now()
	s.log.Info().Bool("rich_map", opts.RichMap).Bool("price_included", opts.PriceIncluded).
		Msg("starting all-international pdf export")

	docs, err := s.repo.AllInternational(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: load international corpus: %w", err)
	}

	for _, doc := range docs {
		if err := doc.Validate(); err != nil {
			return nil, fmt.Errorf("service: document invariants: %w", err)
		}
		doc.PriceIncluded = opts.PriceIncluded
		s.enricher.Enrich(ctx, doc, opts.RichMap)
	}

	html, err := s.renderer.RenderAll(docs)
	if err != nil {
		return nil, fmt.Errorf("service: render international directory: %w", err)
	}

	pdfBytes, err := s.printer.PrintHTML(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("service: print international directory: %w", err)
	}

	s.log.Info().Int("countries", len(docs)).Dur("elapsed", time.Since(started)).
		Msg("all-international pdf export complete")
	return pdfBytes, nil
}
