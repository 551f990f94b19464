package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brandnamegen/brandcheck/internal/models"
	"github.com/stretchr/testify/require"
)

func newAppFollowServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-AppFollow-API-Token") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("term") != "BrandName" || r.URL.Query().Get("country") != "de" {
			http.Error(w, "bad query", http.StatusBadRequest)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func germany() models.LocaleSpec {
	loc := models.DefaultLocale()
	loc.Country = "DE"
	return loc
}

func TestAppFollowSource_Fetch(t *testing.T) {
	body := `[
		{"term": "brandname", "displayTerm": "BrandName"},
		{"term": "brandname pro"},
		{"displayTerm": "", "term": "brand name app"},
		"not an object",
		{"term": 42},
		{"term": ""}
	]`
	srv := newAppFollowServer(t, http.StatusOK, body)
	src := NewAppFollowSource(AppFollowConfig{BaseURL: srv.URL, APIKey: "secret", Client: srv.Client()})

	res, err := src.Fetch(context.Background(), "BrandName", germany())
	require.NoError(t, err)
	require.Equal(t, []string{"BrandName", "brandname pro", "brand name app"}, res.Terms())
	for i, h := range res.Hits {
		require.NotNil(t, h.Position)
		require.Equal(t, i+1, *h.Position)
	}
	require.Equal(t, "de", res.Meta["country"])
	require.Empty(t, res.CheckURL)
}

func TestAppFollowSource_EmptyResult(t *testing.T) {
	srv := newAppFollowServer(t, http.StatusOK, `[]`)
	src := NewAppFollowSource(AppFollowConfig{BaseURL: srv.URL, APIKey: "secret", Client: srv.Client()})

	res, err := src.Fetch(context.Background(), "BrandName", germany())
	require.NoError(t, err)
	require.Empty(t, res.Hits)
}

func TestAppFollowSource_Errors(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		src := NewAppFollowSource(AppFollowConfig{})
		_, err := src.Fetch(context.Background(), "BrandName", germany())
		require.ErrorIs(t, err, ErrMissingCredentials)
	})

	t.Run("rejected key", func(t *testing.T) {
		srv := newAppFollowServer(t, http.StatusOK, `[]`)
		src := NewAppFollowSource(AppFollowConfig{BaseURL: srv.URL, APIKey: "wrong", Client: srv.Client()})
		_, err := src.Fetch(context.Background(), "BrandName", germany())
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("server error", func(t *testing.T) {
		srv := newAppFollowServer(t, http.StatusBadGateway, `oops`)
		src := NewAppFollowSource(AppFollowConfig{BaseURL: srv.URL, APIKey: "secret", Client: srv.Client()})
		_, err := src.Fetch(context.Background(), "BrandName", germany())
		require.ErrorIs(t, err, ErrTransient)
	})

	for name, body := range map[string]string{
		"not json":  `<html></html>`,
		"not array": `{"error": "quota"}`,
		"truncated": `[{"term": "a"`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := newAppFollowServer(t, http.StatusOK, body)
			src := NewAppFollowSource(AppFollowConfig{BaseURL: srv.URL, APIKey: "secret", Client: srv.Client()})
			_, err := src.Fetch(context.Background(), "BrandName", germany())
			require.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}
