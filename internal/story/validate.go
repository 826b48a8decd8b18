package story

import "strings"

// ValidRating reports whether r is an allowed rating value.
func ValidRating(r int) bool { return r >= 1 && r <= 5 }

// Validate checks the record against the persistence contract. It is called
// by the store before any write; a non-nil result is always a
// *ValidationError and means storage was not touched.
func (r *VersionRecord) Validate() error {
	if r.Version < 1 {
		return &ValidationError{Field: "version", Reason: "must be a positive integer"}
	}
	for field, value := range map[string]string{
		"theme":   r.Theme,
		"genre":   r.Genre,
		"tone":    r.Tone,
		"prompt":  r.Prompt,
		"content": r.Content,
	} {
		if strings.TrimSpace(value) == "" {
			return &ValidationError{Field: field, Reason: "must not be empty"}
		}
	}
	if len(r.Elements) == 0 {
		return &ValidationError{Field: "elements", Reason: "must contain at least one element"}
	}
	for _, el := range r.Elements {
		if strings.TrimSpace(el) == "" {
			return &ValidationError{Field: "elements", Reason: "elements must not be empty strings"}
		}
	}
	if r.Rating != nil && !ValidRating(*r.Rating) {
		return &ValidationError{Field: "rating", Reason: "must be between 1 and 5"}
	}
	return nil
}
