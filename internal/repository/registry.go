package repository

import (
	"path/filepath"
	"strings"
)

// Registry is the explicit configuration of the on-disk corpus: which names
// belong to which source-shape set and where their files live. It is passed
// into the repository at construction instead of living as package state.
type Registry struct {
	DataDir string

	USStateDir   string
	SingleDir    string
	MultiDir     string
	CombinedFile string

	// IndexFiles are non-data files inside the corpus directories that every
	// walk must skip.
	IndexFiles map[string]bool

	usStates  map[string]bool
	single    map[string]bool
	multi     map[string]bool
	usOrder   []string
	singleOrd []string
	multiOrd  []string
}

var usStateNames = []string{
	"alabama", "alaska", "arizona", "arkansas", "california", "colorado",
	"connecticut", "delaware", "florida", "georgia", "hawaii", "idaho",
	"illinois", "indiana", "iowa", "kansas", "kentucky", "louisiana", "maine",
	"maryland", "massachusetts", "michigan", "minnesota", "mississippi",
	"missouri", "montana", "nebraska", "nevada", "new hampshire", "new jersey",
	"new mexico", "new york", "north carolina", "north dakota", "ohio",
	"oklahoma", "oregon", "pennsylvania", "rhode island", "south carolina",
	"south dakota", "tennessee", "texas", "utah", "vermont", "virginia",
	"washington", "west virginia", "wisconsin", "wyoming",
}

var singleLocationCountries = []string{
	"austria", "belgium", "colombia", "cyprus", "denmark", "egypt", "hungary",
	"india", "italy", "kenya", "lithuania", "malta", "mauritius", "netherlands",
	"oman", "pakistan", "slovakia", "slovenia", "sweden", "taiwan", "thailand",
	"united arab emirates", "zambia",
}

var multiLocationCountries = []string{
	"australia", "brazil", "bulgaria", "canada", "caribbean", "china",
	"croatia", "czech republic", "france", "greece", "hong kong", "indonesia",
	"ireland", "malaysia", "mexico", "nigeria", "philippines", "portugal",
	"romania", "singapore", "south africa", "spain", "switzerland", "ukraine",
	"united kingdom",
}

// DefaultRegistry returns the registry for the standard corpus layout rooted
// at dataDir.
func DefaultRegistry(dataDir string) Registry {
	r := Registry{
		DataDir:      dataDir,
		USStateDir:   "us_states",
		SingleDir:    "international_single",
		MultiDir:     "international_multi",
		CombinedFile: "international_locations.json",
		IndexFiles:   map[string]bool{"country_s_urls.json": true},
		usStates:     make(map[string]bool, len(usStateNames)),
		single:       make(map[string]bool, len(singleLocationCountries)),
		multi:        make(map[string]bool, len(multiLocationCountries)),
		usOrder:      usStateNames,
		singleOrd:    singleLocationCountries,
		multiOrd:     multiLocationCountries,
	}
	for _, s := range usStateNames {
		r.usStates[s] = true
	}
	for _, c := range singleLocationCountries {
		r.single[c] = true
	}
	for _, c := range multiLocationCountries {
		r.multi[c] = true
	}
	return r
}

// Slug converts a display name to the lowercase underscore form used in the
// corpus filenames.
func Slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// IsUSState reports whether name is a registered US state.
func (r Registry) IsUSState(name string) bool {
	return r.usStates[strings.ToLower(strings.TrimSpace(name))]
}

// IsSingleLocation reports whether name is a registered single-location country.
func (r Registry) IsSingleLocation(name string) bool {
	return r.single[strings.ToLower(strings.TrimSpace(name))]
}

// IsMultiLocation reports whether name is a registered multi-location country.
func (r Registry) IsMultiLocation(name string) bool {
	return r.multi[strings.ToLower(strings.TrimSpace(name))]
}

// USStates returns the registered state names in stable order.
func (r Registry) USStates() []string { return r.usOrder }

// SingleLocationCountries returns the registered single-location countries in
// stable order.
func (r Registry) SingleLocationCountries() []string { return r.singleOrd }

// MultiLocationCountries returns the registered multi-location countries in
// stable order.
func (r Registry) MultiLocationCountries() []string { return r.multiOrd }

// USStatePath returns the on-disk path of a US state file.
func (r Registry) USStatePath(name string) string {
	return filepath.Join(r.DataDir, r.USStateDir, "us_state_"+Slug(name)+".json")
}

// SingleLocationPath returns the on-disk path of a single-location country file.
func (r Registry) SingleLocationPath(name string) string {
	return filepath.Join(r.DataDir, r.SingleDir, Slug(name)+"_single_location.json")
}

// MultiLocationPath returns the on-disk path of a multi-location country file.
func (r Registry) MultiLocationPath(name string) string {
	return filepath.Join(r.DataDir, r.MultiDir, Slug(name)+"_multi_locations.json")
}

// CombinedPath returns the path of the combined fallback corpus file.
func (r Registry) CombinedPath() string {
	return filepath.Join(r.DataDir, r.CombinedFile)
}
