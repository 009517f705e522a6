package demand

import (
	"fmt"
	"strings"
)

// ValidateCreateInput validates the fields the intake form requires.
func ValidateCreateInput(req CreateRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Stakeholder) == "" {
		return fmt.Errorf("%w: stakeholder is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.ProjectID) == "" {
		return fmt.Errorf("%w: project is required", ErrInvalidInput)
	}
	if !req.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidInput, req.Type)
	}
	if !req.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, req.Priority)
	}
	if req.Status != "" && !req.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}
	return validateHours(req.EstimatedHours)
}

// ValidateDemand checks an edited demand before it replaces the stored one.
func ValidateDemand(d Demand) error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(d.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if strings.TrimSpace(d.Stakeholder) == "" {
		return fmt.Errorf("%w: stakeholder is required", ErrInvalidInput)
	}
	if strings.TrimSpace(d.ProjectID) == "" {
		return fmt.Errorf("%w: project is required", ErrInvalidInput)
	}
	if !d.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidInput, d.Type)
	}
	if !d.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, d.Priority)
	}
	if !d.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, d.Status)
	}
	return validateHours(d.EstimatedHours)
}

func validateHours(h *int) error {
	if h != nil && *h <= 0 {
		return fmt.Errorf("%w: estimated hours must be positive", ErrInvalidInput)
	}
	return nil
}

// NormalizeTags trims tags, drops empties and keeps the first of any duplicate.
// A result with no tags is nil.
func NormalizeTags(tags []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// SplitTags parses the comma-separated tag list used by the edit form.
func SplitTags(list string) []string {
	return NormalizeTags(strings.Split(list, ","))
}
