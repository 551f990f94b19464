package providers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/brandnamegen/brandcheck/internal/models"
	"github.com/stretchr/testify/require"
)

func newSERPServer(t *testing.T, status int, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "login" || pass != "pass" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var tasks []map[string]any
		if err := json.Unmarshal(raw, &tasks); err != nil || len(tasks) != 1 {
			http.Error(w, "expected one task", http.StatusBadRequest)
			return
		}
		task := tasks[0]
		if task["keyword"] != "BrandName" || task["location_code"] != float64(2840) ||
			task["language_code"] != "en" || task["depth"] != float64(50) ||
			task["se_domain"] != "google.com" || task["device"] != "desktop" {
			http.Error(w, "unexpected task", http.StatusBadRequest)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestSERP(srv *httptest.Server) *SERPSource {
	return NewSERPSource(SERPConfig{BaseURL: srv.URL, Login: "login", Password: "pass", Client: srv.Client()})
}

func TestSERPSource_Fetch(t *testing.T) {
	body, err := os.ReadFile("testdata/dataforseo_live.json")
	require.NoError(t, err)
	srv := newSERPServer(t, http.StatusOK, body)

	res, err := newTestSERP(srv).Fetch(context.Background(), "BrandName", models.DefaultLocale())
	require.NoError(t, err)

	require.Equal(t, []string{"BrandName: the app", "BrandNames directory"}, res.Terms())
	require.Equal(t, 4, *res.Hits[0].Position)
	require.Nil(t, res.Hits[1].Position)
	require.Equal(t, "https://www.google.com/search?q=BrandName&num=50&hl=en&gl=US", res.CheckURL)
	require.Equal(t, "5", res.Meta["organic_results"])
}

func TestSERPSource_EmptyTasks(t *testing.T) {
	for _, body := range []string{`{"tasks": []}`, `{"tasks": [{"status_code": 20000, "result": []}]}`, `{}`} {
		srv := newSERPServer(t, http.StatusOK, []byte(body))
		res, err := newTestSERP(srv).Fetch(context.Background(), "BrandName", models.DefaultLocale())
		require.NoError(t, err, body)
		require.Empty(t, res.Hits)
		require.Empty(t, res.CheckURL)
	}
}

func TestSERPSource_Errors(t *testing.T) {
	t.Run("missing credentials", func(t *testing.T) {
		_, err := NewSERPSource(SERPConfig{Login: "login"}).Fetch(context.Background(), "BrandName", models.DefaultLocale())
		require.ErrorIs(t, err, ErrMissingCredentials)
	})

	t.Run("wrong credentials", func(t *testing.T) {
		srv := newSERPServer(t, http.StatusOK, []byte(`{}`))
		src := NewSERPSource(SERPConfig{BaseURL: srv.URL, Login: "login", Password: "nope", Client: srv.Client()})
		_, err := src.Fetch(context.Background(), "BrandName", models.DefaultLocale())
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("task failure", func(t *testing.T) {
		srv := newSERPServer(t, http.StatusOK, []byte(`{"tasks":[{"status_code":40501,"status_message":"Invalid Field: 'location_code'."}]}`))
		_, err := newTestSERP(srv).Fetch(context.Background(), "BrandName", models.DefaultLocale())
		require.ErrorContains(t, err, "40501")
	})

	t.Run("malformed", func(t *testing.T) {
		srv := newSERPServer(t, http.StatusOK, []byte(`[1,2,3]`))
		_, err := newTestSERP(srv).Fetch(context.Background(), "BrandName", models.DefaultLocale())
		require.ErrorIs(t, err, ErrMalformedResponse)
	})
}

func TestSERPSource_Matches(t *testing.T) {
	src := NewSERPSource(SERPConfig{})
	rank := func(r int) *int { return &r }

	got := src.matches("Photo Editor", []OrganicItem{
		{Title: "Best Photo Editor 2024", RankAbsolute: rank(7)},
		{Title: "Photo Editer", RankAbsolute: rank(3)},
		{Title: "Video Maker", RankAbsolute: rank(1)},
		{Title: "photo-editor", RankAbsolute: nil},
	})

	var titles []string
	for _, m := range got {
		titles = append(titles, m.Title)
	}
	require.Equal(t, []string{"Photo Editer", "Best Photo Editor 2024", "photo-editor"}, titles)
}
