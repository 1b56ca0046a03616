package models

import "time"

// Filter defaults
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// CardFilter holds the optional list filters. All text filters are
// case-insensitive substring matches and combine with logical AND.
type CardFilter struct {
	FullName         string     // Substring of the student's full name
	EnrollmentNumber string     // Substring of the enrollment number
	Course           string     // Substring of the course name
	Status           CardStatus // Empty means no status filter
	Page             int        // 1-based page number, defaults to 1
	Limit            int        // Page size, defaults to 10
	Now              time.Time  // Reference time for the status filter
}

// Normalize fills in defaults for missing pagination values, caps the
// page size, and pins the reference time. Returns the normalized copy.
// Every repository implementation normalizes before querying so all
// backing stores answer the same List call with the same page shape.
func (f CardFilter) Normalize() CardFilter {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Now.IsZero() {
		f.Now = time.Now()
	}
	return f
}

// CardPage is the result of a filtered, paginated list operation.
type CardPage struct {
	Items      []*Card `json:"items"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalPages int     `json:"totalPages"`
}
