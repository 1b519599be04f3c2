package service

import (
	"context"
	"fmt"
	"time"

	"mailbox-directory-api/internal/mapimage"
	"mailbox-directory-api/internal/models"
	"mailbox-directory-api/internal/pdf"

	"github.com/rs/zerolog"
)

// Poster page geometry: A4 landscape, sized to the artwork. The US pin map
// bleeds to the page edge; the world heatmap keeps a 10mm frame.
const (
	posterPageWidthIn   = 11.69
	posterPageHeightIn  = 8.27
	usPosterMarginIn    = 0
	worldPosterMarginIn = 0.39
)

// PosterCorpus is the corpus access the poster exports need.
type PosterCorpus interface {
	AllUSStates(ctx context.Context) ([]*models.CountryDocument, error)
	AllInternational(ctx context.Context) ([]*models.CountryDocument, error)
}

// PosterMapRenderer draws the overview map images.
type PosterMapRenderer interface {
	USMap(ctx context.Context, points [][2]float64) (string, error)
	WorldHeatmap(ctx context.Context, counts map[string]int) (string, error)
}

// PosterHTMLRenderer wraps a map image in the single-page poster HTML.
type PosterHTMLRenderer interface {
	RenderPoster(title, subtitle, mapImage string, legend []pdf.LegendEntry) (string, error)
}

// SizedPDFPrinter prints to a single page of explicit size.
type SizedPDFPrinter interface {
	PrintHTMLSized(ctx context.Context, html string, widthIn, heightIn, marginIn float64) ([]byte, error)
}

// PosterService generates the two specialized overview exports: the US pin
// map and the world location-density heatmap, printed to pages sized to the
// artwork instead of paginated A4.
type PosterService struct {
	repo     PosterCorpus
	maps     PosterMapRenderer
	renderer PosterHTMLRenderer
	printer  SizedPDFPrinter

	timeout time.Duration
	log     zerolog.Logger
}

// NewPosterService creates a poster service.
func NewPosterService(repo PosterCorpus, maps PosterMapRenderer, renderer PosterHTMLRenderer,
	printer SizedPDFPrinter, timeout time.Duration, log zerolog.Logger) *PosterService {
	return &PosterService{
		repo:     repo,
		maps:     maps,
		renderer: renderer,
		printer:  printer,
		timeout:  timeout,
		log:      log,
	}
}

// USMapPDF renders every mappable US location as a pin over the state
// boundaries and prints it as one full-bleed landscape page.
func (s *PosterService) USMapPDF(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	s.log.Info().Msg("starting us map poster export")

	docs, err := s.repo.AllUSStates(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: load us states: %w", err)
	}

	var points [][2]float64
	for _, doc := range docs {
		for _, region := range doc.Regions {
			for _, loc := range region.Locations {
				if lat, lon, ok := loc.Coordinates(); ok {
					points = append(points, [2]float64{lat, lon})
				}
			}
		}
	}

	img, err := s.maps.USMap(ctx, points)
	if err != nil {
		return nil, fmt.Errorf("service: draw us map: %w", err)
	}

	html, err := s.renderer.RenderPoster("US Locations Map",
		fmt.Sprintf("%d locations", len(points)), img, nil)
	if err != nil {
		return nil, fmt.Errorf("service: render us map poster: %w", err)
	}

	pdfBytes, err := s.printer.PrintHTMLSized(ctx, html, posterPageWidthIn, posterPageHeightIn, usPosterMarginIn)
	if err != nil {
		return nil, fmt.Errorf("service: print us map poster: %w", err)
	}

	s.log.Info().Int("locations", len(points)).Dur("elapsed", time.Since(started)).
		Msg("us map poster export complete")
	return pdfBytes, nil
}

// WorldMapPDF renders the location-density choropleth over the world
// boundaries, with the US total aggregated from the state corpus, and prints
// it as one landscape page.
func (s *PosterService) WorldMapPDF(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	s.log.Info().Msg("starting world heatmap export")

	counts, err := s.countryCounts(ctx)
	if err != nil {
		return nil, err
	}

	img, err := s.maps.WorldHeatmap(ctx, counts)
	if err != nil {
		return nil, fmt.Errorf("service: draw world heatmap: %w", err)
	}

	var legend []pdf.LegendEntry
	for _, bin := range mapimage.HeatLegend() {
		legend = append(legend, pdf.LegendEntry{Color: bin.Color, Label: bin.Label})
	}

	html, err := s.renderer.RenderPoster("World Locations Heatmap",
		fmt.Sprintf("%d countries", len(counts)), img, legend)
	if err != nil {
		return nil, fmt.Errorf("service: render world heatmap poster: %w", err)
	}

	pdfBytes, err := s.printer.PrintHTMLSized(ctx, html, posterPageWidthIn, posterPageHeightIn, worldPosterMarginIn)
	if err != nil {
		return nil, fmt.Errorf("service: print world heatmap poster: %w", err)
	}

	s.log.Info().Int("countries", len(counts)).Dur("elapsed", time.Since(started)).
		Msg("world heatmap export complete")
	return pdfBytes, nil
}

// countryCounts tallies locations per international country plus one United
// States entry aggregated over every state.
func (s *PosterService) countryCounts(ctx context.Context) (map[string]int, error) {
	intl, err := s.repo.AllInternational(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: load international corpus: %w", err)
	}
	states, err := s.repo.AllUSStates(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: load us states: %w", err)
	}

	counts := make(map[string]int, len(intl)+1)
	for _, doc := range intl {
		counts[doc.Name] = doc.TotalLocations
	}
	usTotal := 0
	for _, doc := range states {
		usTotal += doc.TotalLocations
	}
	counts["United States"] = usTotal
	return counts, nil
}
