package scraper

// DefaultImplausibleFactor is applied to the resolver's base confidence when
// the email validator reports an implausible address.
const DefaultImplausibleFactor = 0.5

// ConfidencePolicy folds an email verdict into a resolver base confidence.
type ConfidencePolicy struct {
	ImplausibleFactor float64
}

// NewConfidencePolicy returns a policy with the given implausible factor.
// Values outside (0, 1] fall back to the default.
func NewConfidencePolicy(implausibleFactor float64) ConfidencePolicy {
	if implausibleFactor <= 0 || implausibleFactor > 1 {
		implausibleFactor = DefaultImplausibleFactor
	}
	return ConfidencePolicy{ImplausibleFactor: implausibleFactor}
}

// Score returns the final confidence for a resolver base confidence and an
// email verdict. An invalid email forces the score to zero; the email itself
// is retained on the record for visibility.
func (p ConfidencePolicy) Score(base float64, verdict Verdict) float64 {
	if base < 0 {
		base = 0
	}
	if base > 1 {
		base = 1
	}
	switch verdict {
	case VerdictInvalid:
		return 0
	case VerdictImplausible:
		return base * p.ImplausibleFactor
	default:
		return base
	}
}
