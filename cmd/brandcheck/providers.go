package main

import (
	"time"

	"github.com/brandnamegen/brandcheck/internal/projectconfig"
	"github.com/brandnamegen/brandcheck/internal/providers"
)

// newProviderSet builds the live providers. Tests replace it with mocks.
var newProviderSet = buildProviders

// loadCredentials reads provider secrets. Tests replace it to avoid the
// real environment.
var loadCredentials = func() (projectconfig.Credentials, error) {
	return projectconfig.LoadCredentials(projectconfig.DotEnvFile)
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func buildProviders(cfg *projectconfig.ProjectConfig, creds projectconfig.Credentials) providers.Set {
	p := cfg.Providers
	return providers.Set{
		Domain: providers.NewRDAPChecker(providers.RDAPConfig{
			BaseURL: p.Domain.RDAPBase,
			Timeout: seconds(p.Domain.Timeout),
		}),
		AppFollow: providers.NewAppFollowSource(providers.AppFollowConfig{
			BaseURL: p.AppFollow.BaseURL,
			APIKey:  creds.AppFollowAPIKey,
			Timeout: seconds(p.AppFollow.Timeout),
		}),
		Play: providers.NewPlaySource(providers.PlayConfig{
			BaseURL:           p.Play.BaseURL,
			UserAgent:         p.Play.UserAgent,
			Timeout:           seconds(p.Play.Timeout),
			RequestsPerSecond: p.Play.RequestsPerSecond,
			MaxResults:        p.Play.MaxResults,
		}),
		Google: providers.NewSERPSource(providers.SERPConfig{
			BaseURL:   p.DataForSEO.BaseURL,
			Login:     creds.SERPLogin(),
			Password:  creds.SERPPassword(),
			Depth:     p.DataForSEO.Depth,
			Threshold: p.DataForSEO.MatchThreshold,
			Timeout:   seconds(p.DataForSEO.Timeout),
		}),
	}
}

// newWWWResolver builds the DoH resolver check used by "check domain --www". Tests
// replace it to point at a fake resolver.
var newWWWResolver = func(cfg *projectconfig.ProjectConfig) (*providers.WWWResolver, error) {
	return providers.NewWWWResolver(providers.DoHConfig{
		Resolver: cfg.Providers.Domain.DoHResolver,
		Timeout:  seconds(cfg.Providers.Domain.Timeout),
	})
}
