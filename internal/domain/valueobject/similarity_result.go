// Package valueobject contains domain value objects for the reconciliation system.
package valueobject

// Match reasons attached to a SimilarityResult, in the order they are evaluated.
const (
	ReasonNameMatch        = "name match"
	ReasonQuoteReference   = "quote reference"
	ReasonExactValue       = "exact value"
	ReasonSimilarValue     = "similar value"
	ReasonCloseDate        = "close date"
	ReasonCompatiblePeriod = "compatible period"
)

// SimilarityResult is the scored comparison between a bank movement and a candidate.
// All scores are integers in [0, 100].
type SimilarityResult struct {
	TextScore      int
	ValueScore     int
	DateScore      int
	CompositeScore int
	Tier           Confidence
	MatchReasons   []string
}
