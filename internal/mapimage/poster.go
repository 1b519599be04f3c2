package mapimage

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Poster canvas, A4 landscape at ~100 px/in.
const (
	posterWidth  = 1169
	posterHeight = 827
)

// Boundary files the posters draw from, relative to the GeoJSON directory.
const (
	usStatesBoundaryFile       = "us-states.json"
	worldCountriesBoundaryFile = "world-countries.json"
)

// PosterRenderer draws the large single-page overview maps: the US pin map
// and the world location-density choropleth. Unlike the per-location
// thumbnails, a missing boundary file is an error here since the boundary IS
// the artwork.
type PosterRenderer struct {
	geoJSONDir string
}

// NewPosterRenderer creates a poster renderer reading boundary files from dir.
func NewPosterRenderer(dir string) *PosterRenderer {
	return &PosterRenderer{geoJSONDir: dir}
}

// HeatBin is one color band of the world choropleth.
type HeatBin struct {
	Color string
	Label string
	max   int
}

// heatBins in ascending order; max is the band's inclusive upper count, with
// the last band open-ended.
var heatBins = []HeatBin{
	{Color: "#f0f0f0", Label: "No locations", max: 0},
	{Color: "#e3f0ff", Label: "1 location", max: 1},
	{Color: "#b3d8ff", Label: "2–5 locations", max: 5},
	{Color: "#7fc7ff", Label: "6–10 locations", max: 10},
	{Color: "#4fa3e3", Label: "11–25 locations", max: 25},
	{Color: "#2176b6", Label: "26–50 locations", max: 50},
	{Color: "#0d3c61", Label: "51–100 locations", max: 100},
	{Color: "#001933", Label: "101+ locations", max: math.MaxInt},
}

// HeatLegend returns the choropleth color bands for legend rendering.
func HeatLegend() []HeatBin {
	return heatBins
}

func heatBinFor(count int) HeatBin {
	for _, bin := range heatBins {
		if count <= bin.max {
			return bin
		}
	}
	return heatBins[len(heatBins)-1]
}

// namedFeatureCollection keeps the per-feature properties the choropleth
// needs for country matching.
type namedFeatureCollection struct {
	Features []struct {
		Properties map[string]any `json:"properties"`
		Geometry   struct {
			Type        string          `json:"type"`
			Coordinates json.RawMessage `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// USMap renders every given lat/lon point as a green pin over the US state
// boundaries and returns the image as a PNG data URI.
func (r *PosterRenderer) USMap(ctx context.Context, points [][2]float64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fc, err := r.loadBoundary(usStatesBoundaryFile)
	if err != nil {
		return "", err
	}

	var polygons [][][][2]float64
	for _, f := range fc.Features {
		polygons = append(polygons, featurePolygons(f.Geometry.Type, f.Geometry.Coordinates)...)
	}
	if len(polygons) == 0 {
		return "", fmt.Errorf("mapimage: %s holds no polygons", usStatesBoundaryFile)
	}

	proj := projectionForBounds(boundsOf(polygons, points, 2.0))

	img := image.NewRGBA(image.Rect(0, 0, posterWidth, posterHeight))
	fill(img, color.RGBA{255, 255, 255, 255})

	stateFill := color.RGBA{240, 240, 240, 255}
	border := color.RGBA{102, 102, 102, 255}
	for _, poly := range polygons {
		fillPolygon(img, proj, poly, stateFill)
		strokePolygon(img, proj, poly, border)
	}

	pinRing := color.RGBA{27, 94, 32, 255}
	pinFill := color.RGBA{67, 160, 71, 255}
	for _, pt := range points {
		px, py := proj.toPixel(pt[1], pt[0])
		fillCircle(img, px, py, 8, pinRing)
		fillCircle(img, px, py, 6, pinFill)
	}

	return encodePosterPNG(img)
}

// WorldHeatmap renders the world boundaries shaded by each country's location
// count and returns the image as a PNG data URI. Countries absent from counts
// get the empty band.
func (r *PosterRenderer) WorldHeatmap(ctx context.Context, counts map[string]int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fc, err := r.loadBoundary(worldCountriesBoundaryFile)
	if err != nil {
		return "", err
	}
	if len(fc.Features) == 0 {
		return "", fmt.Errorf("mapimage: %s holds no features", worldCountriesBoundaryFile)
	}

	normalized := make(map[string]int, len(counts))
	for name, count := range counts {
		normalized[normalizeCountryName(name)] = count
	}

	var all [][][][2]float64
	for _, f := range fc.Features {
		all = append(all, featurePolygons(f.Geometry.Type, f.Geometry.Coordinates)...)
	}
	proj := projectionForBounds(boundsOf(all, nil, 0))

	img := image.NewRGBA(image.Rect(0, 0, posterWidth, posterHeight))
	fill(img, color.RGBA{233, 236, 239, 255})

	border := color.RGBA{102, 102, 102, 255}
	for _, f := range fc.Features {
		count := normalized[normalizeCountryName(featureName(f.Properties))]
		shade := hexColor(heatBinFor(count).Color)
		for _, poly := range featurePolygons(f.Geometry.Type, f.Geometry.Coordinates) {
			fillPolygon(img, proj, poly, shade)
			strokePolygon(img, proj, poly, border)
		}
	}

	return encodePosterPNG(img)
}

func (r *PosterRenderer) loadBoundary(name string) (*namedFeatureCollection, error) {
	path := filepath.Join(r.geoJSONDir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mapimage: read boundary %s: %w", path, err)
	}
	var fc namedFeatureCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("mapimage: parse boundary %s: %w", path, err)
	}
	return &fc, nil
}

// featurePolygons flattens a Polygon or MultiPolygon geometry into a list of
// polygons, each a list of lon/lat rings (outer first, then holes).
func featurePolygons(geomType string, coords json.RawMessage) [][][][2]float64 {
	switch geomType {
	case "Polygon":
		var poly [][][2]float64
		if err := json.Unmarshal(coords, &poly); err == nil {
			return [][][][2]float64{poly}
		}
	case "MultiPolygon":
		var multi [][][][2]float64
		if err := json.Unmarshal(coords, &multi); err == nil {
			return multi
		}
	}
	return nil
}

// featureName picks the country name out of the feature properties, trying
// the conventions of the common world GeoJSON distributions.
func featureName(props map[string]any) string {
	for _, key := range []string{"ADMIN", "NAME", "name"} {
		if v, ok := props[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

var nonAlnumPattern = regexp.MustCompile(`[^a-z0-9]`)

// normalizeCountryName reduces a country name to a comparable key and maps
// the short corpus names onto the long-form names world boundary files use.
func normalizeCountryName(name string) string {
	n := nonAlnumPattern.ReplaceAllString(strings.ToLower(name), "")
	switch n {
	case "unitedstates":
		return "unitedstatesofamerica"
	case "southkorea":
		return "korea"
	case "northkorea":
		return "koreademocraticpeoplesrepublicof"
	case "russia":
		return "russianfederation"
	case "vietnam":
		return "vietnamsocialistrepublicof"
	case "laos":
		return "laopeoplesdemocraticrepublic"
	case "moldova":
		return "moldovarepublicof"
	case "tanzania":
		return "tanzaniatheunitedrepublicof"
	case "venezuela":
		return "venezuelabolivarianrepublicof"
	case "syria":
		return "syrianarabrepublic"
	case "bolivia":
		return "boliviaplurinationalstateof"
	case "brunei":
		return "bruneidarussalam"
	case "iran":
		return "iranislamicrepublicof"
	case "macedonia":
		return "northmacedonia"
	case "czechrepublic":
		return "czechia"
	case "slovakia":
		return "slovakrepublic"
	}
	return n
}

// boundsOf computes the lon/lat bounding box of the polygons and extra
// points, padded by marginDeg on every side.
func boundsOf(polygons [][][][2]float64, points [][2]float64, marginDeg float64) (minX, minY, maxX, maxY float64, width, height int) {
	minX, minY = math.MaxFloat64, math.MaxFloat64
	maxX, maxY = -math.MaxFloat64, -math.MaxFloat64

	grow := func(lon, lat float64) {
		minX = math.Min(minX, lon)
		maxX = math.Max(maxX, lon)
		minY = math.Min(minY, lat)
		maxY = math.Max(maxY, lat)
	}
	for _, poly := range polygons {
		for _, ring := range poly {
			for _, pt := range ring {
				grow(pt[0], pt[1])
			}
		}
	}
	for _, pt := range points {
		grow(pt[1], pt[0])
	}

	return minX - marginDeg, minY - marginDeg, maxX + marginDeg, maxY + marginDeg, posterWidth, posterHeight
}

// fillPolygon rasterizes the polygon with an even-odd scanline fill across
// all of its rings, so holes stay unfilled.
func fillPolygon(img *image.RGBA, proj projection, poly [][][2]float64, c color.RGBA) {
	type edge struct{ x0, y0, x1, y1 float64 }
	var edges []edge
	minY, maxY := math.MaxFloat64, -math.MaxFloat64

	for _, ring := range poly {
		for i := 1; i < len(ring); i++ {
			x0, y0 := proj.toPixelFloat(ring[i-1][0], ring[i-1][1])
			x1, y1 := proj.toPixelFloat(ring[i][0], ring[i][1])
			if y0 == y1 {
				continue
			}
			edges = append(edges, edge{x0, y0, x1, y1})
			minY = math.Min(minY, math.Min(y0, y1))
			maxY = math.Max(maxY, math.Max(y0, y1))
		}
	}
	if len(edges) == 0 {
		return
	}

	yStart := int(math.Max(0, math.Floor(minY)))
	yEnd := int(math.Min(float64(img.Bounds().Max.Y-1), math.Ceil(maxY)))
	for y := yStart; y <= yEnd; y++ {
		scan := float64(y) + 0.5
		var xs []float64
		for _, e := range edges {
			if (e.y0 <= scan && scan < e.y1) || (e.y1 <= scan && scan < e.y0) {
				xs = append(xs, e.x0+(scan-e.y0)*(e.x1-e.x0)/(e.y1-e.y0))
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := int(math.Ceil(xs[i])); x <= int(math.Floor(xs[i+1])); x++ {
				setClipped(img, x, y, c)
			}
		}
	}
}

func strokePolygon(img *image.RGBA, proj projection, poly [][][2]float64, c color.RGBA) {
	for _, ring := range poly {
		for i := 1; i < len(ring); i++ {
			x0, y0 := proj.toPixel(ring[i-1][0], ring[i-1][1])
			x1, y1 := proj.toPixel(ring[i][0], ring[i][1])
			drawLine(img, x0, y0, x1, y1, c)
		}
	}
}

func encodePosterPNG(img *image.RGBA) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("mapimage: encode png: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func hexColor(s string) color.RGBA {
	var r, g, b uint8
	fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b)
	return color.RGBA{r, g, b, 255}
}
