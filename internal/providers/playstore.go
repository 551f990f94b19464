package providers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/brandnamegen/brandcheck/internal/models"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

// DefaultPlaySearchURL is the Google Play web search page.
const DefaultPlaySearchURL = "https://play.google.com/store/search"

const (
	defaultPlayTimeout    = 30 * time.Second
	defaultPlayMaxResults = 100
)

// PlayConfig configures a PlaySource.
type PlayConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// RequestsPerSecond throttles page loads; <= 0 disables throttling.
	RequestsPerSecond float64
	MaxResults        int
	Client            *http.Client
}

// PlaySource scrapes the storefront search page for an exact-phrase query
// and returns the aria-label of every element, deduplicated in page order.
type PlaySource struct {
	baseURL    string
	userAgent  string
	timeout    time.Duration
	maxResults int
	limiter    *rate.Limiter
	client     httpDoer
}

// NewPlaySource creates a source. Zero config fields take defaults.
func NewPlaySource(cfg PlayConfig) *PlaySource {
	s := &PlaySource{
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		timeout:    timeoutOrDefault(cfg.Timeout, defaultPlayTimeout),
		maxResults: cfg.MaxResults,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		client:     clientOrDefault(cfg.Client),
	}
	if s.baseURL == "" {
		s.baseURL = DefaultPlaySearchURL
	}
	if s.userAgent == "" {
		s.userAgent = DefaultUserAgent
	}
	if s.maxResults <= 0 {
		s.maxResults = defaultPlayMaxResults
	}
	if cfg.RequestsPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return s
}

// SearchURL is the page fetched for title in locale.
func (s *PlaySource) SearchURL(title string, locale models.LocaleSpec) string {
	q := url.Values{}
	q.Set("q", `"`+title+`"`)
	q.Set("c", "apps")
	q.Set("hl", locale.HL)
	q.Set("gl", locale.GL)
	return s.baseURL + "?" + q.Encode()
}

// Fetch implements TermSource. It uses locale.HL and locale.GL.
func (s *PlaySource) Fetch(ctx context.Context, title string, locale models.LocaleSpec) (*TermResult, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("play: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	pageURL := s.SearchURL(title, locale)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)

	code, body, err := fetch(s.client, "play", req)
	if err != nil {
		return nil, err
	}
	if code != http.StatusOK {
		return nil, &StatusError{Provider: "play", StatusCode: code}
	}

	labels, err := ariaLabels(bytes.NewReader(body), s.maxResults)
	if err != nil {
		return nil, fmt.Errorf("play: %w: %w", ErrMalformedResponse, err)
	}
	return &TermResult{
		Hits: hitsFromTerms(labels),
		Meta: map[string]string{"play_url": pageURL},
	}, nil
}

// ariaLabels returns up to limit distinct non-empty aria-label values in
// document order.
func ariaLabels(r io.Reader, limit int) ([]string, error) {
	z := html.NewTokenizer(r)
	seen := map[string]bool{}
	var out []string

	for len(out) < limit {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, err
			}
			return out, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			for _, attr := range z.Token().Attr {
				if attr.Key != "aria-label" || attr.Val == "" || seen[attr.Val] {
					continue
				}
				seen[attr.Val] = true
				out = append(out, attr.Val)
			}
		}
	}
	return out, nil
}
