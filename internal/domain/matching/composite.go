// Package matching implements the pure scoring functions used to pair bank
// movements with open financial records.
package matching

import (
	"math"
	"strings"

	"github.com/decor-finance/backend/internal/domain/entity"
	"github.com/decor-finance/backend/internal/domain/valueobject"
)

// Tier thresholds.
const (
	HighTierComposite   = 70
	HighTierText        = 60
	HighTierValue       = 70
	MediumTierComposite = 50
	MediumTierText      = 50
	MediumTierValue     = 80
)

// Reason thresholds.
const (
	nameMatchThreshold        = 50
	exactValueThreshold       = 95
	similarValueThreshold     = 80
	closeDateThreshold        = 80
	compatiblePeriodThreshold = 30
)

// Pattern blend weights.
const (
	patternRawWeight        = 0.6
	patternConfidenceWeight = 0.4
)

// Score compares a movement with one candidate using the given profile.
func Score(movement *entity.BankMovement, candidate entity.Candidate, profile valueobject.ScoringProfile) valueobject.SimilarityResult {
	textScore, quoteReference := scoreText(movement.Description, candidate, profile)
	valueScore := ValueSimilarity(movement.AbsAmount(), candidate.Amount.Abs(), profile.ValueTolerance)
	dateScore := DateProximity(movement.MovementDate, candidate.ReferenceDate)

	composite := clampScore(math.Round(
		float64(textScore)*profile.TextWeight +
			float64(valueScore)*profile.ValueWeight +
			float64(dateScore)*profile.DateWeight,
	))

	return valueobject.SimilarityResult{
		TextScore:      textScore,
		ValueScore:     valueScore,
		DateScore:      dateScore,
		CompositeScore: composite,
		Tier:           ClassifyTier(composite, textScore, valueScore),
		MatchReasons:   matchReasons(textScore, valueScore, dateScore, composite, quoteReference),
	}
}

// ClassifyTier maps scores to a confidence tier. High needs strong text and value together.
func ClassifyTier(composite, textScore, valueScore int) valueobject.Confidence {
	if composite >= HighTierComposite && textScore >= HighTierText && valueScore >= HighTierValue {
		return valueobject.ConfidenceHigh
	}
	if composite >= MediumTierComposite && (textScore >= MediumTierText || valueScore >= MediumTierValue) {
		return valueobject.ConfidenceMedium
	}
	return valueobject.ConfidenceLow
}

// BlendPatternConfidence mixes a raw text score with a learned pattern confidence.
func BlendPatternConfidence(raw, confidence int) int {
	return clampScore(math.Round(float64(raw)*patternRawWeight + float64(confidence)*patternConfidenceWeight))
}

// scoreText returns the text score and whether it came from a quote code found in the description.
func scoreText(description string, candidate entity.Candidate, profile valueobject.ScoringProfile) (int, bool) {
	if containsQuoteCode(description, candidate.QuoteCode) {
		return 100, true
	}

	score := TextSimilarity(description, candidate.DisplayName)
	if profile.BestOfTextSources {
		score = max(score, TextSimilarity(description, candidate.Description))
	}
	return score, false
}

func containsQuoteCode(description, code string) bool {
	normalizedCode := Normalize(code)
	if normalizedCode == "" {
		return false
	}
	return strings.Contains(" "+Normalize(description)+" ", " "+normalizedCode+" ")
}

func matchReasons(textScore, valueScore, dateScore, composite int, quoteReference bool) []string {
	reasons := make([]string, 0, 3)

	switch {
	case quoteReference:
		reasons = append(reasons, valueobject.ReasonQuoteReference)
	case textScore >= nameMatchThreshold:
		reasons = append(reasons, valueobject.ReasonNameMatch)
	}

	switch {
	case valueScore >= exactValueThreshold:
		reasons = append(reasons, valueobject.ReasonExactValue)
	case valueScore >= similarValueThreshold:
		reasons = append(reasons, valueobject.ReasonSimilarValue)
	}

	if dateScore >= closeDateThreshold {
		reasons = append(reasons, valueobject.ReasonCloseDate)
	}

	if len(reasons) == 0 && composite >= compatiblePeriodThreshold {
		reasons = append(reasons, valueobject.ReasonCompatiblePeriod)
	}

	return reasons
}
