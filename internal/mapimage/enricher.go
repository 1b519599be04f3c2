package mapimage

import (
	"context"
	"sync"
	"time"

	"mailbox-directory-api/internal/models"

	"github.com/rs/zerolog"
)

// Strategy produces an embeddable map image (a data URI) for one coordinate
// pair within the named country or state.
type Strategy interface {
	MapImage(ctx context.Context, country string, lat, lon float64) (string, error)
}

// Enricher attaches map thumbnails to every mappable location in a document.
// Locations are processed in small fixed-size batches with a pause in between,
// bounding simultaneous outbound requests. A failed or unmappable location
// keeps an empty MapImage; enrichment never fails an export.
type Enricher struct {
	remote Strategy
	local  Strategy

	batchSize int
	pause     time.Duration
	log       zerolog.Logger
}

// NewEnricher creates an enricher with the two strategies and batching
// parameters.
func NewEnricher(remote, local Strategy, batchSize int, pause time.Duration, log zerolog.Logger) *Enricher {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Enricher{
		remote:    remote,
		local:     local,
		batchSize: batchSize,
		pause:     pause,
		log:       log,
	}
}

// Enrich populates MapImage on every location in doc that has valid
// coordinates. richMap selects the remote static-map provider; otherwise the
// local GeoJSON raster is used. Each location writes only its own record, so
// source ordering is preserved.
func (e *Enricher) Enrich(ctx context.Context, doc *models.CountryDocument, richMap bool) {
	strategy := e.local
	if richMap {
		strategy = e.remote
	}

	var targets []*models.LocationRecord
	for ri := range doc.Regions {
		for li := range doc.Regions[ri].Locations {
			targets = append(targets, &doc.Regions[ri].Locations[li])
		}
	}

	for start := 0; start < len(targets); start += e.batchSize {
		if ctx.Err() != nil {
			return
		}
		end := start + e.batchSize
		if end > len(targets) {
			end = len(targets)
		}

		var wg sync.WaitGroup
		for _, loc := range targets[start:end] {
			wg.Add(1)
			go func(loc *models.LocationRecord) {
				defer wg.Done()
				e.enrichOne(ctx, doc.Name, strategy, loc)
			}(loc)
		}
		wg.Wait()

		if end < len(targets) && e.pause > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(e.pause):
			}
		}
	}
}

func (e *Enricher) enrichOne(ctx context.Context, country string, strategy Strategy, loc *models.LocationRecord) {
	lat, lon, ok := loc.Coordinates()
	if !ok {
		loc.MapImage = ""
		return
	}

	img, err := strategy.MapImage(ctx, country, lat, lon)
	if err != nil {
		e.log.Warn().Err(err).Str("location", loc.Title).Msg("map image enrichment failed")
		loc.MapImage = ""
		return
	}
	loc.MapImage = img
}
