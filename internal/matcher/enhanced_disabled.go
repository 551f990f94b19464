//go:build brandcheck_nofuzzy

package matcher

// NewEnhanced always fails when the binary is built without the fuzzy engine.
func NewEnhanced(algorithm string) (Matcher, error) {
	return nil, ErrEnhancedUnavailable
}
