package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DotEnvFile is read from the working directory before credentials are parsed.
const DotEnvFile = ".env"

// dotenvFirstPrefix marks keys whose .env value wins over the process
// environment.
const dotenvFirstPrefix = "DATAFORSEO_"

// Credentials are the provider secrets. They are never read from
// .brandcheck.yaml.
type Credentials struct {
	AppFollowAPIKey string `env:"APPFOLLOW_API_KEY"`

	DataForSEOLogin    string `env:"DATAFORSEO_LOGIN"`
	DataForSEOUsername string `env:"DATAFORSEO_USERNAME"`
	DataForSEOEmail    string `env:"DATAFORSEO_EMAIL"`
	DataForSEOPassword string `env:"DATAFORSEO_PASSWORD"`
	DataForSEOPass     string `env:"DATAFORSEO_PASS"`
}

// SERPLogin returns the first DataForSEO login alias that is set.
func (c Credentials) SERPLogin() string {
	return firstNonEmpty(c.DataForSEOLogin, c.DataForSEOUsername, c.DataForSEOEmail)
}

// SERPPassword returns the first DataForSEO password alias that is set.
func (c Credentials) SERPPassword() string {
	return firstNonEmpty(c.DataForSEOPassword, c.DataForSEOPass)
}

// LoadCredentials parses credentials from the environment overlaid with
// dotenvPath. .env values only fill unset variables, except DATAFORSEO_*
// keys where the file wins. A missing file is not an error.
func LoadCredentials(dotenvPath string) (Credentials, error) {
	environ := env.ToMap(os.Environ())

	if dotenvPath != "" {
		fileVars, err := godotenv.Read(dotenvPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Credentials{}, fmt.Errorf("reading %s: %w", dotenvPath, err)
		}
		for k, v := range fileVars {
			if strings.HasPrefix(k, dotenvFirstPrefix) || environ[k] == "" {
				environ[k] = v
			}
		}
	}

	var creds Credentials
	if err := env.ParseWithOptions(&creds, env.Options{Environment: environ}); err != nil {
		return Credentials{}, fmt.Errorf("parse env: %w", err)
	}
	return creds, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
