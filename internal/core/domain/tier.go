package domain

const unknownDescription = "Unknown"

// Tier is the three-way classification outcome for a document pair.
type Tier string

// Available tiers.
const (
	// TierClean indicates no meaningful overlap was found.
	TierClean Tier = "CLEAN"

	// TierSuspicious indicates overlap above the suspicious threshold.
	TierSuspicious Tier = "SUSPICIOUS"

	// TierCopy indicates overlap above the copy threshold.
	TierCopy Tier = "COPY"
)

// IsValid returns true if the tier is recognised.
func (t Tier) IsValid() bool {
	switch t {
	case TierClean, TierSuspicious, TierCopy:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t Tier) String() string {
	return string(t)
}

// Description returns a human-readable description of the tier.
func (t Tier) Description() string {
	switch t {
	case TierClean:
		return "Clean (no significant similarity)"
	case TierSuspicious:
		return "Suspicious (notable similarity)"
	case TierCopy:
		return "Copy (near-duplicate content)"
	default:
		return unknownDescription
	}
}

// Classify maps a fused similarity score to a tier.
// Thresholds are compared in fixed order: copy first, then suspicious.
// The unrounded score must be passed in; rounding is for storage only.
func Classify(final float64, cfg AnalysisConfig) Tier {
	switch {
	case final > cfg.CopyThreshold:
		return TierCopy
	case final > cfg.SuspiciousThreshold:
		return TierSuspicious
	default:
		return TierClean
	}
}
