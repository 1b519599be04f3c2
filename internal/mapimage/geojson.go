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
	"strings"
)

// LocalStrategy rasterizes a vector map from a bundled GeoJSON boundary file:
// boundary polygons in gray plus a red pin at the location. It performs no
// network I/O.
type LocalStrategy struct {
	geoJSONDir string
}

// NewLocalStrategy creates a local strategy reading boundary files from dir.
func NewLocalStrategy(dir string) *LocalStrategy {
	return &LocalStrategy{geoJSONDir: dir}
}

type featureCollection struct {
	Features []struct {
		Geometry struct {
			Type        string          `json:"type"`
			Coordinates json.RawMessage `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// MapImage renders the country/state boundary with a pin at lat/lon and
// returns it as a PNG data URI. A missing boundary file degrades to a
// pin-only canvas rather than failing.
func (s *LocalStrategy) MapImage(ctx context.Context, country string, lat, lon float64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var rings [][][2]float64
	path := filepath.Join(s.geoJSONDir, slug(country)+".geo.json")
	if raw, err := os.ReadFile(path); err == nil {
		var fc featureCollection
		if err := json.Unmarshal(raw, &fc); err != nil {
			return "", fmt.Errorf("mapimage: parse boundary %s: %w", path, err)
		}
		rings = collectRings(fc)
	}

	proj := newProjection(lat, lon, mapWidth, mapHeight)
	img := image.NewRGBA(image.Rect(0, 0, mapWidth, mapHeight))
	fill(img, color.RGBA{255, 255, 255, 255})

	border := color.RGBA{136, 136, 136, 255}
	for _, ring := range rings {
		for i := 1; i < len(ring); i++ {
			x0, y0 := proj.toPixel(ring[i-1][0], ring[i-1][1])
			x1, y1 := proj.toPixel(ring[i][0], ring[i][1])
			drawLine(img, x0, y0, x1, y1, border)
		}
	}

	px, py := proj.toPixel(lon, lat)
	fillCircle(img, px, py, 5, color.RGBA{220, 38, 38, 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("mapimage: encode png: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// collectRings flattens Polygon and MultiPolygon outer/inner rings into
// lon/lat point sequences.
func collectRings(fc featureCollection) [][][2]float64 {
	var rings [][][2]float64
	for _, f := range fc.Features {
		switch f.Geometry.Type {
		case "Polygon":
			var poly [][][2]float64
			if err := json.Unmarshal(f.Geometry.Coordinates, &poly); err == nil {
				rings = append(rings, poly...)
			}
		case "MultiPolygon":
			var multi [][][][2]float64
			if err := json.Unmarshal(f.Geometry.Coordinates, &multi); err == nil {
				for _, poly := range multi {
					rings = append(rings, poly...)
				}
			}
		}
	}
	return rings
}

// projection is a bounding-box-with-margin linear projection, aspect-ratio
// corrected so the boundary isn't distorted.
type projection struct {
	minX, maxX, minY, maxY float64
	width, height          int
}

const bboxMarginDeg = 5.0

func newProjection(lat, lon float64, width, height int) projection {
	return projectionForBounds(lon-bboxMarginDeg, lat-bboxMarginDeg,
		lon+bboxMarginDeg, lat+bboxMarginDeg, width, height)
}

// projectionForBounds builds an aspect-corrected projection covering the given
// lon/lat box, widening one axis so the box isn't distorted on the canvas.
func projectionForBounds(minX, minY, maxX, maxY float64, width, height int) projection {
	bboxAspect := (maxX - minX) / (maxY - minY)
	canvasAspect := float64(width) / float64(height)
	if bboxAspect > canvasAspect {
		extra := ((maxX - minX) / canvasAspect - (maxY - minY)) / 2
		minY -= extra
		maxY += extra
	} else {
		extra := ((maxY - minY) * canvasAspect - (maxX - minX)) / 2
		minX -= extra
		maxX += extra
	}
	return projection{minX: minX, maxX: maxX, minY: minY, maxY: maxY, width: width, height: height}
}

func (p projection) toPixel(lon, lat float64) (int, int) {
	x, y := p.toPixelFloat(lon, lat)
	return int(math.Round(x)), int(math.Round(y))
}

func (p projection) toPixelFloat(lon, lat float64) (float64, float64) {
	x := (lon - p.minX) / (p.maxX - p.minX) * float64(p.width)
	y := float64(p.height) - (lat-p.minY)/(p.maxY-p.minY)*float64(p.height)
	return x, y
}

func fill(img *image.RGBA, c color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// drawLine rasterizes a segment with the integer Bresenham walk. Points
// outside the canvas are clipped by SetRGBA's bounds check.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		setClipped(img, x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func fillCircle(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				setClipped(img, cx+dx, cy+dy, c)
			}
		}
	}
}

func setClipped(img *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
