package mapimage

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteStrategy_MapImage(t *testing.T) {
	fakePNG := []byte{0x89, 'P', 'N', 'G'}

	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "image/png")
		w.Write(fakePNG)
	}))
	defer srv.Close()

	s := NewRemoteStrategy(srv.URL, 5*time.Second)
	img, err := s.MapImage(context.Background(), "Austria", 48.2082, 16.3738)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(img, "data:image/png;base64,"))
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(img, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, fakePNG, decoded)

	assert.Equal(t, "48.208200,16.373800", gotQuery.Get("center"))
	assert.Equal(t, "15", gotQuery.Get("zoom"))
	assert.Equal(t, "800x400", gotQuery.Get("size"))
	assert.Equal(t, "48.208200,16.373800,red-pushpin", gotQuery.Get("markers"))
}

func TestRemoteStrategy_MapImage_DefaultsContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		w.Write([]byte{1, 2, 3})
	}))
	defer srv.Close()

	s := NewRemoteStrategy(srv.URL, 5*time.Second)
	img, err := s.MapImage(context.Background(), "Austria", 48.2, 16.4)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(img, "data:image/png;base64,"))
}

func TestRemoteStrategy_MapImage_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream quota exceeded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewRemoteStrategy(srv.URL, 5*time.Second)
	img, err := s.MapImage(context.Background(), "Austria", 48.2, 16.4)

	assert.Error(t, err)
	assert.Empty(t, img)
	assert.Contains(t, err.Error(), "status 500")
}

func TestRemoteStrategy_MapImage_RespectsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := NewRemoteStrategy(srv.URL, time.Minute)
	_, err := s.MapImage(ctx, "Austria", 48.2, 16.4)
	assert.Error(t, err)
}
