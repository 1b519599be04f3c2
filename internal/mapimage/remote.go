package mapimage

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	mapWidth  = 800
	mapHeight = 400
	mapZoom   = 15
)

// RemoteStrategy fetches a static-map tile with a marker from an external
// provider and returns it as a base64 data URI.
type RemoteStrategy struct {
	baseURL string
	client  *http.Client
}

// NewRemoteStrategy creates a remote strategy against the given provider URL
// with a bounded per-call timeout.
func NewRemoteStrategy(baseURL string, timeout time.Duration) *RemoteStrategy {
	return &RemoteStrategy{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// MapImage fetches the map centered on the coordinates. Any provider or
// network failure is returned as an error; callers record an empty image
// instead of propagating it.
func (s *RemoteStrategy) MapImage(ctx context.Context, country string, lat, lon float64) (string, error) {
	q := url.Values{}
	q.Set("center", fmt.Sprintf("%f,%f", lat, lon))
	q.Set("zoom", fmt.Sprintf("%d", mapZoom))
	q.Set("size", fmt.Sprintf("%dx%d", mapWidth, mapHeight))
	q.Set("markers", fmt.Sprintf("%f,%f,red-pushpin", lat, lon))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("mapimage: build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("mapimage: fetch map: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("mapimage: provider returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("mapimage: read map body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(body), nil
}
