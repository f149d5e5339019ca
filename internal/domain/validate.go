package domain

import "strings"

// ValidateCompetition checks the cross-field constraints the transport-level
// binding tags cannot express. Returns the first violation as a validation
// error carrying the field name.
func ValidateCompetition(c *Competition) error {
	if strings.TrimSpace(c.Title) == "" {
		return Validation("title", "title is required")
	}
	if !c.Format.Valid() {
		return Validation("format", "must be one of online, offline, hybrid")
	}
	if !c.Scale.Valid() {
		return Validation("scale", "must be one of provincial, regional, national, international")
	}
	if c.Deadline.IsZero() {
		return Validation("deadline", "registration deadline is required")
	}
	if c.AgeMin != nil && *c.AgeMin < 0 {
		return Validation("age_min", "must not be negative")
	}
	if c.AgeMax != nil && *c.AgeMax < 0 {
		return Validation("age_max", "must not be negative")
	}
	if c.AgeMin != nil && c.AgeMax != nil && *c.AgeMin > *c.AgeMax {
		return Validation("age_min", "must not exceed age_max")
	}
	if c.Capacity != nil && *c.Capacity <= 0 {
		return Validation("capacity", "must be positive")
	}
	return nil
}
