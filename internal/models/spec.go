package models

import (
	"errors"
	"fmt"
	"strings"
)

// ComponentName identifies one of the four uniqueness signals.
type ComponentName string

const (
	ComponentDomain    ComponentName = "domain"
	ComponentAppFollow ComponentName = "appfollow"
	ComponentPlay      ComponentName = "play"
	ComponentGoogle    ComponentName = "google"
)

// ComponentNames lists every component in report order.
var ComponentNames = []ComponentName{
	ComponentDomain,
	ComponentAppFollow,
	ComponentPlay,
	ComponentGoogle,
}

func (c ComponentName) String() string {
	return string(c)
}

// MatcherEngine selects the similarity engine used by the evaluator.
type MatcherEngine string

const (
	// EngineAuto tries the enhanced engine and falls back to builtin.
	EngineAuto     MatcherEngine = "auto"
	EngineEnhanced MatcherEngine = "enhanced"
	EngineBuiltin  MatcherEngine = "builtin"
)

// ParseMatcherEngine converts a flag or config value to a MatcherEngine.
func ParseMatcherEngine(s string) (MatcherEngine, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return EngineAuto, nil
	case "enhanced", "primary", "rapidfuzz", "fuzzy":
		return EngineEnhanced, nil
	case "builtin", "fallback":
		return EngineBuiltin, nil
	default:
		return EngineAuto, fmt.Errorf("invalid matcher engine %q: must be auto, enhanced, or builtin", s)
	}
}

// Thresholds are the ascending grade cutoffs.
type Thresholds struct {
	Border   int `yaml:"border" json:"border" mapstructure:"border"`
	Likely   int `yaml:"likely" json:"likely" mapstructure:"likely"`
	Distinct int `yaml:"distinct" json:"distinct" mapstructure:"distinct"`
}

// Default scoring values.
const (
	DefaultWeightDomain    = 25
	DefaultWeightAppFollow = 25
	DefaultWeightPlay      = 20
	DefaultWeightGoogle    = 30

	DefaultThresholdBorder   = 40
	DefaultThresholdLikely   = 60
	DefaultThresholdDistinct = 80
)

// UniquenessConfig holds the weights, thresholds and matcher selection
// shared read-only across an evaluation.
type UniquenessConfig struct {
	MatcherEngine MatcherEngine         `yaml:"matcher_engine" json:"matcher_engine" mapstructure:"matcher_engine"`
	Weights       map[ComponentName]int `yaml:"weights" json:"weights" mapstructure:"weights"`
	Thresholds    Thresholds            `yaml:"thresholds" json:"thresholds" mapstructure:"thresholds"`
}

// DefaultUniquenessConfig returns a config with the stock weights and thresholds.
func DefaultUniquenessConfig() UniquenessConfig {
	return UniquenessConfig{
		MatcherEngine: EngineAuto,
		Weights: map[ComponentName]int{
			ComponentDomain:    DefaultWeightDomain,
			ComponentAppFollow: DefaultWeightAppFollow,
			ComponentPlay:      DefaultWeightPlay,
			ComponentGoogle:    DefaultWeightGoogle,
		},
		Thresholds: Thresholds{
			Border:   DefaultThresholdBorder,
			Likely:   DefaultThresholdLikely,
			Distinct: DefaultThresholdDistinct,
		},
	}
}

// Weight returns the configured weight for name. A missing key is 0.
func (c UniquenessConfig) Weight(name ComponentName) int {
	return c.Weights[name]
}

// Clone returns a deep copy so callers can mutate weights safely.
func (c UniquenessConfig) Clone() UniquenessConfig {
	out := c
	out.Weights = make(map[ComponentName]int, len(c.Weights))
	for k, v := range c.Weights {
		out.Weights[k] = v
	}
	return out
}

// Validate reports structural problems. Missing weights are not an error.
func (c UniquenessConfig) Validate() error {
	var errs []error

	if _, err := ParseMatcherEngine(string(c.MatcherEngine)); err != nil {
		errs = append(errs, err)
	}

	for name, w := range c.Weights {
		if w < 0 {
			errs = append(errs, fmt.Errorf("weight for %q must be non-negative, got %d", name, w))
		}
	}

	t := c.Thresholds
	if t.Border > t.Likely || t.Likely > t.Distinct {
		errs = append(errs, fmt.Errorf("thresholds must be ascending (border <= likely <= distinct), got %d/%d/%d",
			t.Border, t.Likely, t.Distinct))
	}

	return errors.Join(errs...)
}
