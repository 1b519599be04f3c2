package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"mailbox-directory-api/internal/models"
	"mailbox-directory-api/internal/pdf"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPosterCorpus struct {
	mock.Mock
}

func (m *MockPosterCorpus) AllUSStates(ctx context.Context) ([]*models.CountryDocument, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CountryDocument), args.Error(1)
}

func (m *MockPosterCorpus) AllInternational(ctx context.Context) ([]*models.CountryDocument, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CountryDocument), args.Error(1)
}

type MockPosterMapRenderer struct {
	mock.Mock
}

func (m *MockPosterMapRenderer) USMap(ctx context.Context, points [][2]float64) (string, error) {
	args := m.Called(ctx, points)
	return args.String(0), args.Error(1)
}

func (m *MockPosterMapRenderer) WorldHeatmap(ctx context.Context, counts map[string]int) (string, error) {
	args := m.Called(ctx, counts)
	return args.String(0), args.Error(1)
}

type MockPosterHTMLRenderer struct {
	mock.Mock
}

func (m *MockPosterHTMLRenderer) RenderPoster(title, subtitle, mapImage string, legend []pdf.LegendEntry) (string, error) {
	args := m.Called(title, subtitle, mapImage, legend)
	return args.String(0), args.Error(1)
}

type MockSizedPDFPrinter struct {
	mock.Mock
}

func (m *MockSizedPDFPrinter) PrintHTMLSized(ctx context.Context, html string, widthIn, heightIn, marginIn float64) ([]byte, error) {
	args := m.Called(ctx, html, widthIn, heightIn, marginIn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func stateDocs() []*models.CountryDocument {
	colorado := &models.CountryDocument{
		Name: "Colorado",
		Regions: []models.Region{
			{Name: "Denver", Locations: []models.LocationRecord{
				{Title: "Denver Central", Latitude: "39.74", Longitude: "-104.99"},
				{Title: "No coords here"},
			}},
		},
	}
	colorado.Recount()
	wyoming := &models.CountryDocument{
		Name: "Wyoming",
		Regions: []models.Region{
			{Name: "Cheyenne", Locations: []models.LocationRecord{
				{Title: "Cheyenne Box", Latitude: "41.14", Longitude: "-104.82"},
			}},
		},
	}
	wyoming.Recount()
	return []*models.CountryDocument{colorado, wyoming}
}

func TestPosterService_USMapPDF(t *testing.T) {
	repo := new(MockPosterCorpus)
	maps := new(MockPosterMapRenderer)
	renderer := new(MockPosterHTMLRenderer)
	printer := new(MockSizedPDFPrinter)

	repo.On("AllUSStates", mock.Anything).Return(stateDocs(), nil)

	wantPoints := [][2]float64{{39.74, -104.99}, {41.14, -104.82}}
	maps.On("USMap", mock.Anything, wantPoints).Return("data:image/png;base64,aW1n", nil)
	renderer.On("RenderPoster", "US Locations Map", "2 locations",
		"data:image/png;base64,aW1n", []pdf.LegendEntry(nil)).Return("<html>us</html>", nil)
	printer.On("PrintHTMLSized", mock.Anything, "<html>us</html>", 11.69, 8.27, 0.0).
		Return([]byte("%PDF-1.4"), nil)

	svc := NewPosterService(repo, maps, renderer, printer, time.Minute, zerolog.Nop())
	pdfBytes, err := svc.USMapPDF(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), pdfBytes)
	repo.AssertExpectations(t)
	maps.AssertExpectations(t)
	renderer.AssertExpectations(t)
	printer.AssertNumberOfCalls(t, "PrintHTMLSized", 1)
}

func TestPosterService_USMapPDF_MapFailure(t *testing.T) {
	repo := new(MockPosterCorpus)
	maps := new(MockPosterMapRenderer)
	printer := new(MockSizedPDFPrinter)

	repo.On("AllUSStates", mock.Anything).Return(stateDocs(), nil)
	maps.On("USMap", mock.Anything, mock.Anything).Return("", errors.New("boundary file missing"))

	svc := NewPosterService(repo, maps, new(MockPosterHTMLRenderer), printer, time.Minute, zerolog.Nop())
	_, err := svc.USMapPDF(context.Background())

	assert.Error(t, err)
	printer.AssertNotCalled(t, "PrintHTMLSized",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPosterService_WorldMapPDF(t *testing.T) {
	repo := new(MockPosterCorpus)
	maps := new(MockPosterMapRenderer)
	renderer := new(MockPosterHTMLRenderer)
	printer := new(MockSizedPDFPrinter)

	mexico := &models.CountryDocument{
		Name: "Mexico",
		Regions: []models.Region{
			{Name: "Cancun", Locations: make([]models.LocationRecord, 36)},
		},
	}
	mexico.Recount()
	repo.On("AllInternational", mock.Anything).Return([]*models.CountryDocument{mexico}, nil)
	repo.On("AllUSStates", mock.Anything).Return(stateDocs(), nil)

	wantCounts := map[string]int{"Mexico": 36, "United States": 3}
	maps.On("WorldHeatmap", mock.Anything, wantCounts).Return("data:image/png;base64,aW1n", nil)
	renderer.On("RenderPoster", "World Locations Heatmap", "2 countries",
		"data:image/png;base64,aW1n", mock.Anything).Return("<html>world</html>", nil)
	printer.On("PrintHTMLSized", mock.Anything, "<html>world</html>", 11.69, 8.27, 0.39).
		Return([]byte("%PDF-1.4"), nil)

	svc := NewPosterService(repo, maps, renderer, printer, time.Minute, zerolog.Nop())
	pdfBytes, err := svc.WorldMapPDF(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), pdfBytes)

	// The legend must carry every density band.
	legend := renderer.Calls[0].Arguments.Get(3).([]pdf.LegendEntry)
	assert.Len(t, legend, 8)
	assert.Equal(t, "No locations", legend[0].Label)
	maps.AssertExpectations(t)
}

func TestPosterService_WorldMapPDF_RepositoryFailure(t *testing.T) {
	repo := new(MockPosterCorpus)
	printer := new(MockSizedPDFPrinter)

	repo.On("AllInternational", mock.Anything).Return(nil, errors.New("disk gone"))

	svc := NewPosterService(repo, new(MockPosterMapRenderer), new(MockPosterHTMLRenderer),
		printer, time.Minute, zerolog.Nop())
	_, err := svc.WorldMapPDF(context.Background())

	assert.Error(t, err)
	printer.AssertNotCalled(t, "PrintHTMLSized",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPosterService_USMapPDF_RunsUnderDeadline(t *testing.T) {
	repo := new(MockPosterCorpus)
	maps := new(MockPosterMapRenderer)
	renderer := new(MockPosterHTMLRenderer)
	printer := new(MockSizedPDFPrinter)

	repo.On("AllUSStates", mock.Anything).Return(stateDocs(), nil)
	maps.On("USMap", mock.Anything, mock.Anything).Return("img", nil)
	renderer.On("RenderPoster", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("<html></html>", nil)

	var hasDeadline bool
	printer.On("PrintHTMLSized", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			_, hasDeadline = ctx.Deadline()
		}).
		Return([]byte("pdf"), nil)

	svc := NewPosterService(repo, maps, renderer, printer, time.Minute, zerolog.Nop())
	_, err := svc.USMapPDF(context.Background())

	require.NoError(t, err)
	assert.True(t, hasDeadline, "poster export must run under a deadline")
}
