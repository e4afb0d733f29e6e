package imagery

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RandomVariable1470/suryaverify/internal/cost"
)

func pngTile(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func newTestClient(t *testing.T, serverURL string, opts Options) Client {
	t.Helper()
	opts.BaseURL = serverURL
	opts.RatePerSec = 1000
	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Second
	}
	return NewClient("test-token", opts)
}

func TestFetch_DecodesReturnedDimensions(t *testing.T) {
	t.Parallel()

	// The server returns a 64x48 tile regardless of the nominal request
	// size; the client must report the decoded dimensions.
	tile := pngTile(t, 64, 48)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(tile)
	}))
	defer srv.Close()

	img, err := newTestClient(t, srv.URL, Options{Size: 1280, Zoom: 19}).Fetch(context.Background(), 28.6139, 77.2090)
	require.NoError(t, err)

	assert.Equal(t, 64, img.PixelWidth)
	assert.Equal(t, 48, img.PixelHeight)
	assert.Equal(t, 19, img.Zoom)
	assert.Equal(t, "Mapbox Satellite", img.Source)
	assert.Equal(t, tile, img.Data)
}

func TestFetch_RequestURL(t *testing.T) {
	t.Parallel()

	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write(pngTile(t, 8, 8))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, Options{HighDPI: true}).Fetch(context.Background(), 28.6139, 77.2090)
	require.NoError(t, err)

	// Mapbox static URLs order coordinates lon,lat.
	assert.Contains(t, gotPath, "/styles/v1/mapbox/satellite-v9/static/77.209000,28.613900,19,0/1280x1280@2x")
	assert.Contains(t, gotQuery, "access_token=test-token")
}

func TestFetch_MissingToken(t *testing.T) {
	t.Parallel()

	c := NewClient("", Options{RatePerSec: 1000})
	_, err := c.Fetch(context.Background(), 28.6, 77.2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token")
}

func TestFetch_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write(pngTile(t, 8, 8))
	}))
	defer srv.Close()

	img, err := newTestClient(t, srv.URL, Options{MaxRetries: 3}).Fetch(context.Background(), 28.6, 77.2)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 8, img.PixelWidth)
}

func TestFetch_DoesNotRetryClientError(t *testing.T) {
	t.Parallel()

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Not Authorized"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, Options{MaxRetries: 3}).Fetch(context.Background(), 28.6, 77.2)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, err.Error(), "status 401")
}

func TestFetch_ExhaustedRetriesFail(t *testing.T) {
	t.Parallel()

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, Options{MaxRetries: 2}).Fetch(context.Background(), 28.6, 77.2)
	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestFetch_RejectsNonImageBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not a tile</html>"))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, Options{}).Fetch(context.Background(), 28.6, 77.2)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "decode"))
}

func TestFetch_CountsSpend(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(pngTile(t, 8, 8))
	}))
	defer srv.Close()

	tracker := cost.NewTracker()
	c := newTestClient(t, srv.URL, Options{Tracker: tracker})

	_, err := c.Fetch(context.Background(), 28.6, 77.2)
	require.NoError(t, err)
	_, err = c.Fetch(context.Background(), 13.08, 80.27)
	require.NoError(t, err)

	assert.Equal(t, 2, tracker.Snapshot().ImageryRequests)
}
