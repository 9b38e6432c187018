// Package valueobject contains domain value objects for the reconciliation system.
package valueobject

// Confidence represents the confidence tier of a reconciliation suggestion.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)
