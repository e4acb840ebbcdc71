package service

import (
	"math"

	apperrors "github.com/streamline-erp/ticket-service/pkg/util"
)

// pageOffset turns a 1-based page and a positive size into a row offset.
// Pages whose offset would overflow int are rejected.
func pageOffset(page, size int) (int, error) {
	if page <= 0 {
		page = 1
	}
	if page-1 > math.MaxInt/size {
		return 0, apperrors.NewValidationError("page out of range", map[string]any{"page": page})
	}
	return (page - 1) * size, nil
}

// clampPageSize applies the default for unset sizes and the upper bound.
func clampPageSize(size, def, limit int) int {
	if size <= 0 {
		size = def
	}
	if size > limit {
		size = limit
	}
	return size
}
