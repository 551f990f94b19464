package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/brandnamegen/brandcheck/internal/models"
	"github.com/tidwall/gjson"
)

// DNS-over-HTTPS JSON endpoints.
const (
	DoHGoogleURL     = "https://dns.google/resolve"
	DoHCloudflareURL = "https://cloudflare-dns.com/dns-query"
)

const defaultDoHTimeout = 5 * time.Second

// DoHConfig configures a WWWResolver.
type DoHConfig struct {
	// Resolver is "google" (default) or "cloudflare".
	Resolver string
	BaseURL  string
	Timeout  time.Duration
	Client   *http.Client
}

// WWWResolver checks whether www.<domain> has an A record. It is diagnostic
// only; availability comes from RDAP.
type WWWResolver struct {
	source  models.DomainSource
	baseURL string
	timeout time.Duration
	client  httpDoer
}

// NewWWWResolver creates a www lookup against the configured resolver.
func NewWWWResolver(cfg DoHConfig) (*WWWResolver, error) {
	p := &WWWResolver{
		baseURL: cfg.BaseURL,
		timeout: timeoutOrDefault(cfg.Timeout, defaultDoHTimeout),
		client:  clientOrDefault(cfg.Client),
	}
	switch cfg.Resolver {
	case "", "google":
		p.source = models.DomainSourceDoHGoogle
		if p.baseURL == "" {
			p.baseURL = DoHGoogleURL
		}
	case "cloudflare":
		p.source = models.DomainSourceDoHCloudflare
		if p.baseURL == "" {
			p.baseURL = DoHCloudflareURL
		}
	default:
		return nil, fmt.Errorf("resolver must be 'google' or 'cloudflare', got %q", cfg.Resolver)
	}
	return p, nil
}

// Source names the resolver behind the check.
func (p *WWWResolver) Source() models.DomainSource {
	return p.source
}

// Resolves reports whether www.<domain> answers with at least one A record.
func (p *WWWResolver) Resolves(ctx context.Context, domain string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("name", "www."+domain)
	q.Set("type", "A")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/dns-json")

	code, body, err := fetch(p.client, string(p.source), req)
	if err != nil {
		return false, err
	}
	if code != http.StatusOK {
		return false, &StatusError{Provider: string(p.source), StatusCode: code}
	}
	if !gjson.ValidBytes(body) {
		return false, fmt.Errorf("%s: %w: not JSON", p.source, ErrMalformedResponse)
	}

	doc := gjson.ParseBytes(body)
	status := doc.Get("Status")
	if !status.Exists() || status.Int() != 0 {
		return false, nil
	}
	for _, answer := range doc.Get("Answer.#.data").Array() {
		if answer.String() != "" {
			return true, nil
		}
	}
	return false, nil
}
