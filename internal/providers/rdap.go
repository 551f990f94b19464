package providers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/brandnamegen/brandcheck/internal/models"
	"github.com/cenkalti/backoff/v5"
)

// DefaultRDAPBase is the Verisign RDAP endpoint for .com.
const DefaultRDAPBase = "https://rdap.verisign.com/com/v1/domain/"

const (
	defaultRDAPTimeout = 5 * time.Second
	// rdapMaxTries is the first attempt plus one retry.
	rdapMaxTries = 2
)

// RDAPConfig configures an RDAPChecker.
type RDAPConfig struct {
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
}

// RDAPChecker looks up <label>.com in the registry. A 404 means the domain
// is available, any 2xx means it is registered. Throttling and gateway
// errors are retried once after a 0.5-1s jittered pause and then reported
// as ErrTransient.
type RDAPChecker struct {
	baseURL    string
	timeout    time.Duration
	client     httpDoer
	newBackOff func() backoff.BackOff
}

// NewRDAPChecker creates a checker. Zero config fields take defaults.
func NewRDAPChecker(cfg RDAPConfig) *RDAPChecker {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultRDAPBase
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &RDAPChecker{
		baseURL:    base,
		timeout:    timeoutOrDefault(cfg.Timeout, defaultRDAPTimeout),
		client:     clientOrDefault(cfg.Client),
		newBackOff: jitteredBackOff,
	}
}

// jitteredBackOff waits between 0.5s and 1s before the retry.
func jitteredBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 750 * time.Millisecond
	b.RandomizationFactor = 1.0 / 3
	b.Multiplier = 1
	b.MaxInterval = time.Second
	return b
}

// Check implements DomainChecker.
func (c *RDAPChecker) Check(ctx context.Context, title string) (*models.DomainStatus, error) {
	domain, err := ComDomain(title)
	if err != nil {
		return nil, err
	}

	attempt := func() (*models.DomainStatus, error) {
		return c.lookup(ctx, domain)
	}
	notify := func(err error, wait time.Duration) {
		slog.Debug("Retrying RDAP lookup", "domain", domain, "wait", wait, "error", err)
	}

	status, err := backoff.Retry(ctx, attempt,
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(rdapMaxTries),
		backoff.WithNotify(notify),
	)
	if err != nil {
		return nil, err
	}
	return status, nil
}

func (c *RDAPChecker) lookup(ctx context.Context, domain string) (*models.DomainStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+domain, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/rdap+json")

	code, _, err := fetch(c.client, "rdap", req)
	if err != nil {
		return nil, backoff.Permanent(err)
	}

	status := &models.DomainStatus{
		Domain:        domain,
		StatusCode:    &code,
		Authoritative: true,
		Source:        models.DomainSourceRDAPVerisign,
	}
	switch {
	case code == http.StatusNotFound:
		available := true
		status.Available = &available
	case code >= 200 && code < 300:
		available := false
		status.Available = &available
	case isTransientStatus(code):
		return nil, &StatusError{Provider: "rdap", StatusCode: code}
	default:
		status.Note = "unexpected status"
	}
	return status, nil
}
