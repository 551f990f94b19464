package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/brandnamegen/brandcheck/internal/matcher"
	"github.com/brandnamegen/brandcheck/internal/models"
	"github.com/tidwall/gjson"
)

// DefaultDataForSEOURL is the live Google organic SERP endpoint.
const DefaultDataForSEOURL = "https://api.dataforseo.com/v3/serp/google/organic/live/advanced"

const (
	defaultSERPTimeout   = 30 * time.Second
	defaultSERPDepth     = 50
	defaultSERPThreshold = 0.9
	// dataForSEOTaskOK is the per-task success code in the response body.
	dataForSEOTaskOK = 20000
)

// SERPConfig configures a SERPSource.
type SERPConfig struct {
	BaseURL  string
	Login    string
	Password string
	Depth    int
	// Threshold is the title similarity in [0, 1] an organic result needs to
	// count as a match when it does not contain the keyword outright.
	Threshold float64
	Timeout   time.Duration
	Client    *http.Client
}

// SERPSource queries organic Google results through DataForSEO and keeps
// the results whose titles match the keyword, ordered by absolute rank.
type SERPSource struct {
	baseURL   string
	login     string
	password  string
	depth     int
	threshold float64
	timeout   time.Duration
	client    httpDoer
}

// NewSERPSource creates a source. Missing credentials are reported on Fetch.
func NewSERPSource(cfg SERPConfig) *SERPSource {
	s := &SERPSource{
		baseURL:   cfg.BaseURL,
		login:     cfg.Login,
		password:  cfg.Password,
		depth:     cfg.Depth,
		threshold: cfg.Threshold,
		timeout:   timeoutOrDefault(cfg.Timeout, defaultSERPTimeout),
		client:    clientOrDefault(cfg.Client),
	}
	if s.baseURL == "" {
		s.baseURL = DefaultDataForSEOURL
	}
	if s.depth <= 0 {
		s.depth = defaultSERPDepth
	}
	if s.threshold <= 0 {
		s.threshold = defaultSERPThreshold
	}
	return s
}

type serpTask struct {
	Keyword      string `json:"keyword"`
	SEDomain     string `json:"se_domain"`
	LocationCode int    `json:"location_code"`
	LanguageCode string `json:"language_code"`
	Device       string `json:"device"`
	OS           string `json:"os"`
	Depth        int    `json:"depth"`
}

// OrganicItem is one organic search result.
type OrganicItem struct {
	Title        string
	URL          string
	RankAbsolute *int
}

// Fetch implements TermSource. It uses locale.LocationCode and
// locale.LanguageCode. Hit positions are absolute ranks.
func (s *SERPSource) Fetch(ctx context.Context, title string, locale models.LocaleSpec) (*TermResult, error) {
	if s.login == "" || s.password == "" {
		return nil, fmt.Errorf("dataforseo: %w: DATAFORSEO_LOGIN/PASSWORD not set", ErrMissingCredentials)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	payload, err := json.Marshal([]serpTask{{
		Keyword:      title,
		SEDomain:     "google.com",
		LocationCode: locale.LocationCode,
		LanguageCode: locale.LanguageCode,
		Device:       "desktop",
		OS:           "macos",
		Depth:        s.depth,
	}})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(s.login, s.password)
	req.Header.Set("Content-Type", "application/json")

	code, body, err := fetch(s.client, "dataforseo", req)
	if err != nil {
		return nil, err
	}
	if code < 200 || code >= 300 {
		return nil, &StatusError{Provider: "dataforseo", StatusCode: code}
	}

	organic, checkURL, err := parseOrganic(body)
	if err != nil {
		return nil, fmt.Errorf("dataforseo: %w", err)
	}

	matches := s.matches(title, organic)
	hits := make([]models.TermHit, 0, len(matches))
	for _, m := range matches {
		hits = append(hits, models.TermHit{Term: m.Title, Position: m.RankAbsolute})
	}
	return &TermResult{
		Hits:     hits,
		CheckURL: checkURL,
		Meta:     map[string]string{"organic_results": fmt.Sprint(len(organic))},
	}, nil
}

// parseOrganic extracts the organic items and check_url of the first task.
func parseOrganic(body []byte) ([]OrganicItem, string, error) {
	if !gjson.ValidBytes(body) {
		return nil, "", fmt.Errorf("%w: not JSON", ErrMalformedResponse)
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil, "", fmt.Errorf("%w: expected an object", ErrMalformedResponse)
	}

	task := doc.Get("tasks.0")
	if !task.Exists() {
		return nil, "", nil
	}
	if sc := task.Get("status_code"); sc.Exists() && sc.Int() != dataForSEOTaskOK {
		return nil, "", fmt.Errorf("task failed with %d: %s", sc.Int(), task.Get("status_message").String())
	}

	result := task.Get("result.0")
	if !result.Exists() {
		return nil, "", nil
	}

	var items []OrganicItem
	result.Get("items").ForEach(func(_, it gjson.Result) bool {
		if it.Get("type").String() != "organic" {
			return true
		}
		item := OrganicItem{}
		if t := it.Get("title"); t.Type == gjson.String {
			item.Title = t.Str
		}
		if u := it.Get("url"); u.Type == gjson.String {
			item.URL = u.Str
		}
		if r := it.Get("rank_absolute"); r.Type == gjson.Number {
			rank := int(r.Int())
			item.RankAbsolute = &rank
		}
		items = append(items, item)
		return true
	})
	return items, result.Get("check_url").String(), nil
}

// matches keeps items whose normalized title contains the normalized
// keyword or is at least s.threshold similar, sorted by rank with unranked
// items last.
func (s *SERPSource) matches(keyword string, organic []OrganicItem) []OrganicItem {
	nk := matcher.Normalize(keyword)
	var out []OrganicItem
	for _, it := range organic {
		if it.Title == "" {
			continue
		}
		if strings.Contains(matcher.Normalize(it.Title), nk) || matcher.Ratio(it.Title, keyword) >= s.threshold {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].RankAbsolute, out[j].RankAbsolute
		switch {
		case ri == nil:
			return false
		case rj == nil:
			return true
		default:
			return *ri < *rj
		}
	})
	return out
}
