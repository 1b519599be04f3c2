package repository

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findReport(t *testing.T, reports []FileReport, path string) FileReport {
	t.Helper()
	for _, r := range reports {
		if r.File == path {
			return r
		}
	}
	t.Fatalf("no report for %s", path)
	return FileReport{}
}

func TestValidateCorpus_ReportsEveryRegisteredFile(t *testing.T) {
	repo, reg := newTestRepo(t)

	reports := repo.ValidateCorpus(context.Background())

	want := len(reg.USStates()) + len(reg.SingleLocationCountries()) + len(reg.MultiLocationCountries())
	assert.Len(t, reports, want)

	// Nothing on disk: every file reported missing, none valid.
	for _, r := range reports {
		assert.False(t, r.Exists)
		assert.False(t, r.Valid)
		assert.Contains(t, r.Errors, "file does not exist")
	}
}

func TestValidateCorpus_ValidFile(t *testing.T) {
	repo, reg := newTestRepo(t)
	writeCorpusFile(t, reg.USStatePath("new york"), newYorkStateJSON)

	reports := repo.ValidateCorpus(context.Background())
	r := findReport(t, reports, reg.USStatePath("new york"))

	assert.Equal(t, "US State", r.Type)
	assert.True(t, r.Exists)
	assert.True(t, r.Valid)
	assert.Empty(t, r.Errors)
}

func TestValidateCorpus_InvalidJSON(t *testing.T) {
	repo, reg := newTestRepo(t)
	writeCorpusFile(t, reg.MultiLocationPath("mexico"), "{oops")

	reports := repo.ValidateCorpus(context.Background())
	r := findReport(t, reports, reg.MultiLocationPath("mexico"))

	assert.Equal(t, "Intl Multi", r.Type)
	assert.True(t, r.Exists)
	assert.False(t, r.Valid)
	require.Len(t, r.Errors, 1)
	assert.Contains(t, r.Errors[0], "invalid JSON")
}

func TestValidateCorpus_ShapeErrors(t *testing.T) {
	repo, reg := newTestRepo(t)
	writeCorpusFile(t, reg.SingleLocationPath("austria"), `{"state_data": {"cities": []}}`)
	writeCorpusFile(t, reg.MultiLocationPath("mexico"), `{"country": "Mexico"}`)

	reports := repo.ValidateCorpus(context.Background())

	single := findReport(t, reports, reg.SingleLocationPath("austria"))
	assert.False(t, single.Valid)
	assert.Contains(t, single.Errors, "missing state")
	assert.Contains(t, single.Errors, "no cities")

	multi := findReport(t, reports, reg.MultiLocationPath("mexico"))
	assert.False(t, multi.Valid)
	assert.Contains(t, multi.Errors, "missing or invalid regions array")
}

func TestValidateCorpus_DeepCheck(t *testing.T) {
	repo, reg := newTestRepo(t)
	writeCorpusFile(t, reg.MultiLocationPath("mexico"), `{
		"country": "Mexico",
		"regions": [
			{
				"region": "Cancun",
				"locations": [
					{
						"title": "",
						"address": null,
						"price": {"amount": 0, "currency": "USD"},
						"plan_url": "https://example.com/plan"
					}
				]
			}
		]
	}`)

	reports := repo.ValidateCorpus(context.Background())
	r := findReport(t, reports, reg.MultiLocationPath("mexico"))

	assert.False(t, r.Valid)
	assert.Contains(t, r.Errors, "missing or blank value at regions.[0].locations.[0].title")
	assert.Contains(t, r.Errors, "missing or blank value at regions.[0].locations.[0].address")
	assert.Contains(t, r.Errors, "missing or blank value at regions.[0].locations.[0].price.amount")
}

func TestValidateCorpus_ZeroPriceOnlyFlaggedForPriceKeys(t *testing.T) {
	repo, reg := newTestRepo(t)
	writeCorpusFile(t, reg.MultiLocationPath("mexico"), `{
		"country": "Mexico",
		"regions": [
			{
				"region": "Cancun",
				"location_count": 0,
				"locations": [{"title": "Cancun Centro", "address": "Av. Tulum 200"}]
			}
		]
	}`)

	reports := repo.ValidateCorpus(context.Background())
	r := findReport(t, reports, reg.MultiLocationPath("mexico"))

	// location_count of zero is not a price field and must not be flagged.
	assert.True(t, r.Valid, "errors: %v", r.Errors)
}

func TestValidateCorpus_CancelledContextStopsEarly(t *testing.T) {
	reg := DefaultRegistry(t.TempDir())
	repo := NewCorpusRepository(reg, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reports := repo.ValidateCorpus(ctx)
	assert.Empty(t, reports)
}
