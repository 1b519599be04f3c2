package pdf

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"mailbox-directory-api/internal/models"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// Renderer turns canonical documents into complete print-ready HTML. It is
// pure: no I/O at render time, and the input document is never mutated.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"br": func(s string) template.HTML {
			return template.HTML(strings.ReplaceAll(template.HTMLEscapeString(s), "\n", "<br>"))
		},
	}).ParseFS(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("pdf: parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

type pageView struct {
	Title     string
	AllHeader string
	Documents []docView
}

type docView struct {
	Name           string
	TotalLocations int
	ScrapedAt      string
	Regions        []regionView
}

type regionView struct {
	ID            string
	Name          string
	LocationCount int
	First         bool
	Locations     []locationView
}

type locationView struct {
	ID       string
	Title    string
	Address  string
	MapImage template.URL
	Info     *infoView
	Plans    []planView
}

type infoView struct {
	OperatorName     string
	OperatorVerified bool
	Features         []models.Feature
	ShippingCarriers string
}

type planView struct {
	Title   string
	Details []detailView
}

type detailView struct {
	Label string
	Value string
}

// Render produces the HTML document for one country or state.
func (r *Renderer) Render(doc *models.CountryDocument) (string, error) {
	page := pageView{
		Title:     doc.Name,
		Documents: []docView{buildDocView(doc)},
	}
	return r.execute(page)
}

// RenderAll produces one HTML document covering every given country, each
// under its own page-broken section, with a master header.
func (r *Renderer) RenderAll(docs []*models.CountryDocument) (string, error) {
	page := pageView{
		Title:     "International Locations",
		AllHeader: "International Locations",
	}
	for _, doc := range docs {
		page.Documents = append(page.Documents, buildDocView(doc))
	}
	return r.execute(page)
}

func (r *Renderer) execute(page pageView) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "directory.gohtml", page); err != nil {
		return "", fmt.Errorf("pdf: execute template: %w", err)
	}
	return buf.String(), nil
}

// LegendEntry is one swatch/label row of a poster legend.
type LegendEntry struct {
	Color string
	Label string
}

type posterView struct {
	Title    string
	Subtitle string
	MapImage template.URL
	Legend   []legendView
}

type legendView struct {
	Color template.CSS
	Label string
}

// RenderPoster produces the full-bleed single-page HTML wrapping a pre-drawn
// map image, with optional title and legend overlays.
func (r *Renderer) RenderPoster(title, subtitle, mapImage string, legend []LegendEntry) (string, error) {
	view := posterView{
		Title:    title,
		Subtitle: subtitle,
		MapImage: template.URL(mapImage),
	}
	for _, entry := range legend {
		view.Legend = append(view.Legend, legendView{Color: template.CSS(entry.Color), Label: entry.Label})
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "poster.gohtml", view); err != nil {
		return "", fmt.Errorf("pdf: execute poster template: %w", err)
	}
	return buf.String(), nil
}

func buildDocView(doc *models.CountryDocument) docView {
	view := docView{
		Name:           doc.Name,
		TotalLocations: doc.TotalLocations,
		ScrapedAt:      doc.ScrapedAt,
	}
	for i, region := range doc.Regions {
		rv := regionView{
			ID:            "region-" + anchorSlug(region.Name),
			Name:          region.Name,
			LocationCount: region.LocationCount,
			First:         i == 0,
		}
		for li, loc := range region.Locations {
			rv.Locations = append(rv.Locations, buildLocationView(doc, region.Name, li, loc))
		}
		view.Regions = append(view.Regions, rv)
	}
	return view
}

func buildLocationView(doc *models.CountryDocument, regionName string, index int, loc models.LocationRecord) locationView {
	lv := locationView{
		ID:       fmt.Sprintf("location-%s-%d", anchorSlug(regionName), index),
		Title:    loc.Title,
		Address:  loc.Address,
		MapImage: template.URL(loc.MapImage),
	}

	if info := loc.LocationInfo; info != nil {
		iv := &infoView{
			Features:         info.Features,
			ShippingCarriers: strings.Join(info.ShippingCarriers, ", "),
		}
		if iv.ShippingCarriers == "" {
			iv.ShippingCarriers = "N/A"
		}
		if op := info.OperatorInfo; op != nil {
			iv.OperatorName = op.Name
			iv.OperatorVerified = op.Verified
		}
		lv.Info = iv
	}

	for _, plan := range loc.Plans {
		pv := planView{Title: plan.Title}
		if pv.Title == "" {
			pv.Title = "Plan"
		}
		// Details keep the order the source file lists them in.
		for _, detail := range plan.DetailedFeatures {
			value := detail.Value
			if !doc.PriceIncluded {
				value = redactPricing(value)
			}
			pv.Details = append(pv.Details, detailView{Label: detail.Label, Value: value})
		}
		lv.Plans = append(lv.Plans, pv)
	}
	return lv
}

func anchorSlug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
