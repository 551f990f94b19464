package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/brandnamegen/brandcheck/internal/models"
	"github.com/stretchr/testify/require"
)

func newPlayServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	page, err := os.ReadFile("testdata/play_search.html")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != `"BrandName"` || q.Get("c") != "apps" || q.Get("hl") != "en" || q.Get("gl") != "US" {
			http.Error(w, "bad query", http.StatusBadRequest)
			return
		}
		if !strings.HasPrefix(r.Header.Get("User-Agent"), "Mozilla/5.0") {
			http.Error(w, "bot", http.StatusForbidden)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write(page)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPlaySource_Fetch(t *testing.T) {
	srv := newPlayServer(t, http.StatusOK)
	src := NewPlaySource(PlayConfig{BaseURL: srv.URL, Client: srv.Client()})

	res, err := src.Fetch(context.Background(), "BrandName", models.DefaultLocale())
	require.NoError(t, err)
	require.Equal(t, []string{
		"Google Play logo",
		"Search",
		"BrandName",
		"BrandName Pro & Photo Editor",
		"Totally Different",
		"Star rating",
	}, res.Terms())
	require.Equal(t, 3, *res.Hits[2].Position)

	pageURL, err := url.Parse(res.Meta["play_url"])
	require.NoError(t, err)
	require.Equal(t, `"BrandName"`, pageURL.Query().Get("q"))
}

func TestPlaySource_MaxResults(t *testing.T) {
	srv := newPlayServer(t, http.StatusOK)
	src := NewPlaySource(PlayConfig{BaseURL: srv.URL, Client: srv.Client(), MaxResults: 3, RequestsPerSecond: 100})

	res, err := src.Fetch(context.Background(), "BrandName", models.DefaultLocale())
	require.NoError(t, err)
	require.Equal(t, []string{"Google Play logo", "Search", "BrandName"}, res.Terms())
}

func TestPlaySource_HTTPError(t *testing.T) {
	srv := newPlayServer(t, http.StatusServiceUnavailable)
	src := NewPlaySource(PlayConfig{BaseURL: srv.URL, Client: srv.Client()})

	_, err := src.Fetch(context.Background(), "BrandName", models.DefaultLocale())
	var se *StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "play", se.Provider)
}

func TestPlaySource_CanceledContext(t *testing.T) {
	src := NewPlaySource(PlayConfig{BaseURL: "http://127.0.0.1:0", RequestsPerSecond: 0.001})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Fetch(ctx, "BrandName", models.DefaultLocale())
	require.Error(t, err)
}

func TestAriaLabels(t *testing.T) {
	doc := `<div aria-label="a"><span aria-label="b"></span><p aria-label="a"></p><br aria-label="c"/></div>`
	got, err := ariaLabels(strings.NewReader(doc), 10)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, got)

	got, err = ariaLabels(strings.NewReader(""), 10)
	require.NoError(t, err)
	require.Empty(t, got)
}
