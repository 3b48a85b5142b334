package domain

// Default analysis configuration values, used whenever persisted
// configuration is absent or fails validation.
const (
	DefaultLexicalWeight       = 0.7
	DefaultSemanticWeight      = 0.3
	DefaultCopyThreshold       = 0.75
	DefaultSuspiciousThreshold = 0.5
)

// AnalysisConfig holds score fusion weights and classification thresholds.
type AnalysisConfig struct {
	// LexicalWeight is the weight applied to the lexical score.
	LexicalWeight float64

	// SemanticWeight is the weight applied to the semantic score.
	SemanticWeight float64

	// CopyThreshold is the final-score threshold above which a pair
	// is classified as a copy.
	CopyThreshold float64

	// SuspiciousThreshold is the final-score threshold above which a
	// pair is classified as suspicious.
	SuspiciousThreshold float64
}

// DefaultAnalysisConfig returns the documented default configuration.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		LexicalWeight:       DefaultLexicalWeight,
		SemanticWeight:      DefaultSemanticWeight,
		CopyThreshold:       DefaultCopyThreshold,
		SuspiciousThreshold: DefaultSuspiciousThreshold,
	}
}

// IsValid returns true if the weights can produce a meaningful score.
// A non-positive weight sum makes every final score degenerate.
func (c AnalysisConfig) IsValid() bool {
	return c.LexicalWeight+c.SemanticWeight > 0
}
