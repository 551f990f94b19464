package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/brandnamegen/brandcheck/internal/models"
	"github.com/tidwall/gjson"
)

// DefaultAppFollowURL is the AppFollow ASO suggestions endpoint.
const DefaultAppFollowURL = "https://api.appfollow.io/api/v2/aso/suggests"

const defaultAppFollowTimeout = 30 * time.Second

// AppFollowConfig configures an AppFollowSource.
type AppFollowConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Client  *http.Client
}

// AppFollowSource returns ASO search suggestions for a title, ranked 1..n.
type AppFollowSource struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	client  httpDoer
}

// NewAppFollowSource creates a source. A missing key is reported on Fetch.
func NewAppFollowSource(cfg AppFollowConfig) *AppFollowSource {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultAppFollowURL
	}
	return &AppFollowSource{
		baseURL: base,
		apiKey:  cfg.APIKey,
		timeout: timeoutOrDefault(cfg.Timeout, defaultAppFollowTimeout),
		client:  clientOrDefault(cfg.Client),
	}
}

// Fetch implements TermSource. It uses locale.Country.
func (s *AppFollowSource) Fetch(ctx context.Context, title string, locale models.LocaleSpec) (*TermResult, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("appfollow: %w: APPFOLLOW_API_KEY not set", ErrMissingCredentials)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("term", title)
	q.Set("country", strings.ToLower(locale.Country))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-AppFollow-API-Token", s.apiKey)
	req.Header.Set("Accept", "application/json")

	code, body, err := fetch(s.client, "appfollow", req)
	if err != nil {
		return nil, err
	}
	if code < 200 || code >= 300 {
		return nil, &StatusError{Provider: "appfollow", StatusCode: code}
	}

	terms, err := parseSuggestions(body)
	if err != nil {
		return nil, fmt.Errorf("appfollow: %w", err)
	}
	return &TermResult{
		Hits: hitsFromTerms(terms),
		Meta: map[string]string{"country": strings.ToLower(locale.Country)},
	}, nil
}

// parseSuggestions reads displayTerm, or term when displayTerm is empty,
// from each object of a JSON array.
func parseSuggestions(body []byte) ([]string, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: not JSON", ErrMalformedResponse)
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsArray() {
		return nil, fmt.Errorf("%w: expected an array of suggestions", ErrMalformedResponse)
	}

	var terms []string
	doc.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		for _, key := range []string{"displayTerm", "term"} {
			if v := item.Get(key); v.Type == gjson.String && v.Str != "" {
				terms = append(terms, v.Str)
				break
			}
		}
		return true
	})
	return terms, nil
}
