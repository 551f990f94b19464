// Package projectconfig provides the ProjectConfig struct and loader for
// .brandcheck.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/brandnamegen/brandcheck/internal/models"
	"github.com/brandnamegen/brandcheck/internal/utils"
	"github.com/brandnamegen/brandcheck/internal/validation"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is looked up from the working directory upwards.
const ConfigFileName = ".brandcheck.yaml"

// ConfigPathEnv names a config file used when none is found by walking up.
const ConfigPathEnv = "BRANDCHECK_CONFIG"

// maxWalkUp bounds the directory walk in findConfigFile.
const maxWalkUp = 10

// Default values for project configuration. These are the single source of
// truth: New() references them and no other code should duplicate them.
const (
	DefaultMatcherEngine     = string(models.EngineAuto)
	DefaultEnhancedAlgorithm = "wratio"
	DefaultParallelLocales   = 4

	DefaultDomainTimeout     = 5
	DefaultAppFollowTimeout  = 30
	DefaultPlayTimeout       = 30
	DefaultDataForSEOTimeout = 30

	DefaultRDAPBase       = "https://rdap.verisign.com/com/v1/domain/"
	DefaultDoHResolver    = "google"
	DefaultAppFollowURL   = "https://api.appfollow.io/api/v2/aso/suggests"
	DefaultPlayURL        = "https://play.google.com/store/search"
	DefaultDataForSEOURL  = "https://api.dataforseo.com/v3/serp/google/organic/live/advanced"
	DefaultPlayRPS        = 2.0
	DefaultPlayMaxResults = 100
	DefaultSERPDepth      = 50
	DefaultSERPThreshold  = 0.9

	DefaultCacheDir      = ".brandcheck-cache"
	DefaultCacheTTLHours = 24
	DefaultHistoryPath   = ".brandcheck/history.db"
)

// ThresholdsConfig holds the grade cutoffs. Pointers let an explicit 0 in a
// file or --set override the default.
type ThresholdsConfig struct {
	Distinct *int `yaml:"distinct,omitempty" mapstructure:"distinct"`
	Likely   *int `yaml:"likely,omitempty" mapstructure:"likely"`
	Border   *int `yaml:"border,omitempty" mapstructure:"border"`
}

// DomainConfig holds registry lookup settings.
type DomainConfig struct {
	Timeout     int    `yaml:"timeout,omitempty" mapstructure:"timeout"`
	RDAPBase    string `yaml:"rdap_base,omitempty" mapstructure:"rdap_base"`
	DoHResolver string `yaml:"doh_resolver,omitempty" mapstructure:"doh_resolver"`
}

// AppFollowConfig holds ASO suggestion settings.
type AppFollowConfig struct {
	Timeout int    `yaml:"timeout,omitempty" mapstructure:"timeout"`
	BaseURL string `yaml:"base_url,omitempty" mapstructure:"base_url"`
}

// PlayConfig holds storefront search settings.
type PlayConfig struct {
	Timeout           int     `yaml:"timeout,omitempty" mapstructure:"timeout"`
	BaseURL           string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	UserAgent         string  `yaml:"user_agent,omitempty" mapstructure:"user_agent"`
	RequestsPerSecond float64 `yaml:"requests_per_second,omitempty" mapstructure:"requests_per_second"`
	MaxResults        int     `yaml:"max_results,omitempty" mapstructure:"max_results"`
}

// DataForSEOConfig holds organic web search settings.
type DataForSEOConfig struct {
	Timeout        int     `yaml:"timeout,omitempty" mapstructure:"timeout"`
	BaseURL        string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Depth          int     `yaml:"depth,omitempty" mapstructure:"depth"`
	MatchThreshold float64 `yaml:"match_threshold,omitempty" mapstructure:"match_threshold"`
}

// ProvidersConfig groups per-provider settings.
type ProvidersConfig struct {
	Domain     DomainConfig     `yaml:"domain,omitempty" mapstructure:"domain"`
	AppFollow  AppFollowConfig  `yaml:"appfollow,omitempty" mapstructure:"appfollow"`
	Play       PlayConfig       `yaml:"play,omitempty" mapstructure:"play"`
	DataForSEO DataForSEOConfig `yaml:"dataforseo,omitempty" mapstructure:"dataforseo"`
}

// CacheConfig holds report cache settings.
type CacheConfig struct {
	Enabled  *bool  `yaml:"enabled,omitempty" mapstructure:"enabled"`
	Dir      string `yaml:"dir,omitempty" mapstructure:"dir"`
	TTLHours int    `yaml:"ttl_hours,omitempty" mapstructure:"ttl_hours"`
}

// HistoryConfig holds evaluation history settings.
type HistoryConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty" mapstructure:"enabled"`
	Path    string `yaml:"path,omitempty" mapstructure:"path"`
}

// ProjectConfig is the top-level configuration loaded from .brandcheck.yaml.
type ProjectConfig struct {
	MatcherEngine     string           `yaml:"matcher_engine,omitempty" mapstructure:"matcher_engine"`
	EnhancedAlgorithm string           `yaml:"enhanced_algorithm,omitempty" mapstructure:"enhanced_algorithm"`
	Weights           map[string]int   `yaml:"weights,omitempty" mapstructure:"weights"`
	Thresholds        ThresholdsConfig `yaml:"thresholds,omitempty" mapstructure:"thresholds"`
	ParallelLocales   int              `yaml:"parallel_locales,omitempty" mapstructure:"parallel_locales"`
	Locales           []string         `yaml:"locales,omitempty" mapstructure:"locales"`
	Providers         ProvidersConfig  `yaml:"providers,omitempty" mapstructure:"providers"`
	Cache             CacheConfig      `yaml:"cache,omitempty" mapstructure:"cache"`
	History           HistoryConfig    `yaml:"history,omitempty" mapstructure:"history"`

	// path is the file the config was loaded from, empty for defaults.
	path string
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		MatcherEngine:     DefaultMatcherEngine,
		EnhancedAlgorithm: DefaultEnhancedAlgorithm,
		Weights: map[string]int{
			string(models.ComponentDomain):    models.DefaultWeightDomain,
			string(models.ComponentAppFollow): models.DefaultWeightAppFollow,
			string(models.ComponentPlay):      models.DefaultWeightPlay,
			string(models.ComponentGoogle):    models.DefaultWeightGoogle,
		},
		Thresholds: ThresholdsConfig{
			Distinct: intPtr(models.DefaultThresholdDistinct),
			Likely:   intPtr(models.DefaultThresholdLikely),
			Border:   intPtr(models.DefaultThresholdBorder),
		},
		ParallelLocales: DefaultParallelLocales,
		Providers: ProvidersConfig{
			Domain: DomainConfig{
				Timeout:     DefaultDomainTimeout,
				RDAPBase:    DefaultRDAPBase,
				DoHResolver: DefaultDoHResolver,
			},
			AppFollow: AppFollowConfig{
				Timeout: DefaultAppFollowTimeout,
				BaseURL: DefaultAppFollowURL,
			},
			Play: PlayConfig{
				Timeout:           DefaultPlayTimeout,
				BaseURL:           DefaultPlayURL,
				RequestsPerSecond: DefaultPlayRPS,
				MaxResults:        DefaultPlayMaxResults,
			},
			DataForSEO: DataForSEOConfig{
				Timeout:        DefaultDataForSEOTimeout,
				BaseURL:        DefaultDataForSEOURL,
				Depth:          DefaultSERPDepth,
				MatchThreshold: DefaultSERPThreshold,
			},
		},
		Cache: CacheConfig{
			Enabled:  boolPtr(false),
			Dir:      DefaultCacheDir,
			TTLHours: DefaultCacheTTLHours,
		},
		History: HistoryConfig{
			Enabled: boolPtr(false),
			Path:    DefaultHistoryPath,
		},
	}
}

// Load finds .brandcheck.yaml by walking up from startDir (max 10 levels),
// falling back to the file named by $BRANDCHECK_CONFIG. The file is
// validated against the schema and merged onto the defaults. If no config
// file is found, returns defaults with a nil error.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	path, err := findConfigFile(startDir)
	if errors.Is(err, os.ErrNotExist) {
		path, err = envConfigFile()
	}
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading %s: %w", ConfigFileName, err)
	}

	if err := LoadFile(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile validates the file at path and merges it onto cfg.
func LoadFile(cfg *ProjectConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %q: %w", path, err)
	}

	if err := validation.ErrorsToError(validation.ValidateConfigBytes(data)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	// Merge file values onto defaults.
	mergeConfig(cfg, &fileCfg)

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	cfg.path = path
	return nil
}

// Path returns the file the config was loaded from, or "" for defaults.
func (c *ProjectConfig) Path() string {
	return c.path
}

// baseDir anchors relative cache and history paths.
func (c *ProjectConfig) baseDir() string {
	if c.path != "" {
		return filepath.Dir(c.path)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return ""
}

// CacheEnabled reports whether report caching is on.
func (c *ProjectConfig) CacheEnabled() bool {
	return c.Cache.Enabled != nil && *c.Cache.Enabled
}

// CacheDir returns the cache directory resolved against the config file.
func (c *ProjectConfig) CacheDir() string {
	return utils.ResolvePath(c.Cache.Dir, c.baseDir())
}

// CacheTTL returns the cache entry lifetime. Zero keeps entries forever.
func (c *ProjectConfig) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLHours) * time.Hour
}

// HistoryEnabled reports whether evaluations are recorded.
func (c *ProjectConfig) HistoryEnabled() bool {
	return c.History.Enabled != nil && *c.History.Enabled
}

// HistoryPath returns the history database path resolved against the config file.
func (c *ProjectConfig) HistoryPath() string {
	return utils.ResolvePath(c.History.Path, c.baseDir())
}

// Uniqueness converts the scoring section into a models.UniquenessConfig.
func (c *ProjectConfig) Uniqueness() (models.UniquenessConfig, error) {
	engine, err := models.ParseMatcherEngine(c.MatcherEngine)
	if err != nil {
		return models.UniquenessConfig{}, err
	}

	out := models.UniquenessConfig{
		MatcherEngine: engine,
		Weights:       make(map[models.ComponentName]int, len(c.Weights)),
		Thresholds: models.Thresholds{
			Border:   intValue(c.Thresholds.Border),
			Likely:   intValue(c.Thresholds.Likely),
			Distinct: intValue(c.Thresholds.Distinct),
		},
	}
	for k, w := range c.Weights {
		name, err := parseComponent(k)
		if err != nil {
			return models.UniquenessConfig{}, err
		}
		out.Weights[name] = w
	}

	if err := out.Validate(); err != nil {
		return models.UniquenessConfig{}, err
	}
	return out, nil
}

// LocaleSpecs parses the configured locales. No locales means the default one.
func (c *ProjectConfig) LocaleSpecs() ([]models.LocaleSpec, error) {
	if len(c.Locales) == 0 {
		return []models.LocaleSpec{models.DefaultLocale()}, nil
	}
	out := make([]models.LocaleSpec, 0, len(c.Locales))
	for _, s := range c.Locales {
		loc, err := models.ParseLocale(s)
		if err != nil {
			return nil, err
		}
		out = append(out, loc)
	}
	return out, nil
}

func parseComponent(s string) (models.ComponentName, error) {
	key := models.ComponentName(strings.ToLower(strings.TrimSpace(s)))
	for _, name := range models.ComponentNames {
		if key == name {
			return name, nil
		}
	}
	return "", fmt.Errorf("unknown component %q in weights", s)
}

// findConfigFile walks up from dir looking for .brandcheck.yaml (max 10
// levels). Returns os.ErrNotExist if no config file is found. Propagates real
// I/O errors (e.g. permission denied) instead of silently swallowing them.
func findConfigFile(dir string) (string, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < maxWalkUp; i++ {
		p := filepath.Join(dir, ConfigFileName)
		info, err := os.Stat(p)
		if err == nil && !info.IsDir() {
			return p, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// envConfigFile returns $BRANDCHECK_CONFIG when it names an existing file.
func envConfigFile() (string, error) {
	p := strings.TrimSpace(os.Getenv(ConfigPathEnv))
	if p == "" {
		return "", os.ErrNotExist
	}
	info, err := os.Stat(p)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s=%q is a directory", ConfigPathEnv, p)
	}
	return p, nil
}

// mergeConfig overlays non-zero values from src onto dst. Weights merge per
// key so a file may set a single weight, including 0.
func mergeConfig(dst, src *ProjectConfig) {
	if src.MatcherEngine != "" {
		dst.MatcherEngine = src.MatcherEngine
	}
	if src.EnhancedAlgorithm != "" {
		dst.EnhancedAlgorithm = src.EnhancedAlgorithm
	}
	if len(src.Weights) > 0 && dst.Weights == nil {
		dst.Weights = make(map[string]int, len(src.Weights))
	}
	for k, v := range src.Weights {
		dst.Weights[k] = v
	}
	if src.ParallelLocales != 0 {
		dst.ParallelLocales = src.ParallelLocales
	}
	if len(src.Locales) > 0 {
		dst.Locales = append([]string(nil), src.Locales...)
	}

	// Thresholds
	mergeIntPtr(&dst.Thresholds.Distinct, src.Thresholds.Distinct)
	mergeIntPtr(&dst.Thresholds.Likely, src.Thresholds.Likely)
	mergeIntPtr(&dst.Thresholds.Border, src.Thresholds.Border)

	// Providers
	mergeInt(&dst.Providers.Domain.Timeout, src.Providers.Domain.Timeout)
	mergeString(&dst.Providers.Domain.RDAPBase, src.Providers.Domain.RDAPBase)
	mergeString(&dst.Providers.Domain.DoHResolver, src.Providers.Domain.DoHResolver)

	mergeInt(&dst.Providers.AppFollow.Timeout, src.Providers.AppFollow.Timeout)
	mergeString(&dst.Providers.AppFollow.BaseURL, src.Providers.AppFollow.BaseURL)

	mergeInt(&dst.Providers.Play.Timeout, src.Providers.Play.Timeout)
	mergeString(&dst.Providers.Play.BaseURL, src.Providers.Play.BaseURL)
	mergeString(&dst.Providers.Play.UserAgent, src.Providers.Play.UserAgent)
	if src.Providers.Play.RequestsPerSecond != 0 {
		dst.Providers.Play.RequestsPerSecond = src.Providers.Play.RequestsPerSecond
	}
	mergeInt(&dst.Providers.Play.MaxResults, src.Providers.Play.MaxResults)

	mergeInt(&dst.Providers.DataForSEO.Timeout, src.Providers.DataForSEO.Timeout)
	mergeString(&dst.Providers.DataForSEO.BaseURL, src.Providers.DataForSEO.BaseURL)
	mergeInt(&dst.Providers.DataForSEO.Depth, src.Providers.DataForSEO.Depth)
	if src.Providers.DataForSEO.MatchThreshold != 0 {
		dst.Providers.DataForSEO.MatchThreshold = src.Providers.DataForSEO.MatchThreshold
	}

	// Cache
	if src.Cache.Enabled != nil {
		dst.Cache.Enabled = src.Cache.Enabled
	}
	mergeString(&dst.Cache.Dir, src.Cache.Dir)
	mergeInt(&dst.Cache.TTLHours, src.Cache.TTLHours)

	// History
	if src.History.Enabled != nil {
		dst.History.Enabled = src.History.Enabled
	}
	mergeString(&dst.History.Path, src.History.Path)
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func mergeInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func mergeIntPtr(dst **int, v *int) {
	if v != nil {
		*dst = intPtr(*v)
	}
}

func intPtr(v int) *int {
	return &v
}

func intValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func boolPtr(b bool) *bool {
	return &b
}
