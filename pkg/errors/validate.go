package errors

import "unicode"

// ValidateThresholds validates a (top, bottom) trim configuration.
// Both thresholds count descendant genes, so the top cutoff must sit
// strictly above the bottom cutoff for any term to survive between them.
func ValidateThresholds(top, bottom int) error {
	if top < 0 || bottom < 0 {
		return New(ErrCodeInvalidThreshold, "thresholds must be non-negative, got (%d, %d)", top, bottom)
	}
	if top <= bottom {
		return New(ErrCodeInvalidThreshold, "top threshold %d must exceed bottom threshold %d", top, bottom)
	}
	return nil
}

// ValidateNodeID validates an ontology node identifier.
// IDs are opaque strings, but empty or control-character identifiers are
// always a caller defect.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node ID cannot be empty")
	}
	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "node ID too long (max 256 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node ID contains control characters")
		}
	}
	return nil
}
