package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Money is an amount in a named currency, as it appears in the scraped data.
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

func (m Money) String() string {
	return fmt.Sprintf("%s %g", m.Currency, m.Amount)
}

// Plan is a pricing/feature tier attached to a location.
type Plan struct {
	Title            string            `json:"title"`
	MonthlyPrice     Money             `json:"monthly_price"`
	YearlyPrice      Money             `json:"yearly_price"`
	Features         map[string]string `json:"features"`
	DetailedFeatures DetailList        `json:"detailed_features"`
	ServicePlanID    string            `json:"service_plan_id"`
}

// DetailPair is one label/value row of a plan's detailed-feature table.
type DetailPair struct {
	Label string
	Value string
}

// DetailList holds a plan's detailed features in the order the source JSON
// object lists them, which is the order they render in.
type DetailList []DetailPair

func (d *DetailList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("detailed_features: expected a JSON object")
	}

	var list DetailList
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("detailed_features: non-string key")
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("detailed_features: value of %q: %w", key, err)
		}
		list = append(list, DetailPair{Label: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*d = list
	return nil
}

func (d DetailList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, pair := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(pair.Label)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(pair.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Feature is a single service offered (or not) at a location.
type Feature struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// OperatorInfo describes the operator running a location.
type OperatorInfo struct {
	Name     string `json:"name"`
	Verified bool   `json:"verified"`
}

// LocationInfo carries operator and service metadata for a location.
type LocationInfo struct {
	AddressTitle     string        `json:"address_title"`
	AddressText      string        `json:"address_text"`
	Features         []Feature     `json:"features"`
	ShippingCarriers []string      `json:"shipping_carriers"`
	OperatorInfo     *OperatorInfo `json:"operator_info"`
}

// LocationRecord is one physical mailbox location. Coordinates are kept as the
// decimal strings found in the source files; an empty pair means the location
// is not mappable.
type LocationRecord struct {
	Title        string        `json:"title"`
	Address      string        `json:"address"`
	Latitude     string        `json:"latitude"`
	Longitude    string        `json:"longitude"`
	Price        *Money        `json:"price,omitempty"`
	PlanURL      string        `json:"plan_url"`
	IsPremier    bool          `json:"is_premier"`
	Plans        []Plan        `json:"plans"`
	LocationInfo *LocationInfo `json:"location_info,omitempty"`

	// MapImage is a data-URI thumbnail produced by the enricher for the
	// current export. It is never persisted back to the corpus.
	MapImage string `json:"-"`
}

// Coordinates parses the latitude/longitude strings. ok is false when either
// value is absent or not a valid decimal.
func (l *LocationRecord) Coordinates() (lat, lon float64, ok bool) {
	if l.Latitude == "" || l.Longitude == "" {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(l.Latitude, 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(l.Longitude, 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

// Region groups locations under a city (US) or sub-area (international).
type Region struct {
	Name          string           `json:"region"`
	LocationCount int              `json:"location_count"`
	Locations     []LocationRecord `json:"locations"`
}

// CountryDocument is the canonical root export unit, produced by the corpus
// repository regardless of which on-disk shape the data came from.
type CountryDocument struct {
	Name           string   `json:"country"`
	TotalLocations int      `json:"total_locations"`
	ScrapedAt      string   `json:"scraped_at"`
	Regions        []Region `json:"regions"`

	// PriceIncluded is an export-time flag set by the orchestrator, not part
	// of the source data. When false the renderer redacts pricing text.
	PriceIncluded bool `json:"-"`
}

// Recount recomputes every region's LocationCount from its locations slice and
// TotalLocations from the sum. Source files sometimes carry stale counts; the
// slices are authoritative.
func (d *CountryDocument) Recount() {
	total := 0
	for i := range d.Regions {
		d.Regions[i].LocationCount = len(d.Regions[i].Locations)
		total += d.Regions[i].LocationCount
	}
	d.TotalLocations = total
}

// Validate checks the count invariants: every region's LocationCount must
// equal len(Locations), and TotalLocations must equal their sum.
func (d *CountryDocument) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("document has no country name")
	}
	total := 0
	for _, r := range d.Regions {
		if r.LocationCount != len(r.Locations) {
			return fmt.Errorf("region %q: location_count %d does not match %d locations",
				r.Name, r.LocationCount, len(r.Locations))
		}
		total += r.LocationCount
	}
	if d.TotalLocations != total {
		return fmt.Errorf("document %q: total_locations %d does not match %d counted",
			d.Name, d.TotalLocations, total)
	}
	return nil
}
