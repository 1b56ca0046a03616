package helpers

import (
	"math"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1 // Page numbers are 1-based
)

// TotalPages returns ceil(totalItems / limit).
func TotalPages(totalItems int64, limit int) int {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if totalItems <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalItems) / float64(limit)))
}

// CalculateOffsetLimit converts a 1-based page number into a SQL offset.
// Oversized limits are clamped to MaxPageSize, matching the in-memory
// slicing path.
func CalculateOffsetLimit(page, limit int) (offset uint64, effectiveLimit int) {
	switch {
	case limit <= 0:
		effectiveLimit = DefaultPageSize
	case limit > MaxPageSize:
		effectiveLimit = MaxPageSize
	default:
		effectiveLimit = limit
	}

	if page < 1 {
		page = DefaultPage
	}

	offset = uint64((page - 1) * effectiveLimit)
	return offset, effectiveLimit
}

// CalculateSliceIndices calculates the start and end indices for slicing an
// in-memory result set. A page past the end yields start == end == totalItems,
// which slices to an empty page rather than an error.
func CalculateSliceIndices(page, limit, totalItems int) (start, end int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if page < 1 {
		page = DefaultPage
	}

	start = (page - 1) * limit
	end = start + limit

	if start >= totalItems {
		return totalItems, totalItems
	}
	if end > totalItems {
		end = totalItems
	}

	return start, end
}
