package validation

import (
	"fmt"

	dErrors "consentry/pkg/domain-errors"
)

// Slice element count limits
const (
	// MaxGroupsPerDecision is the maximum number of group decisions in one save.
	MaxGroupsPerDecision = 200

	// MaxPendingDecisions is the maximum number of query parameters read as pending decisions.
	MaxPendingDecisions = 200
)

// String element length limits
const (
	// MaxSlugLength is the maximum length of a category or group slug.
	MaxSlugLength = 100

	// MaxLocaleLength is the maximum length of a locale code.
	MaxLocaleLength = 16
)

// CheckSliceCount validates that a slice does not exceed the maximum count.
func CheckSliceCount(fieldName string, count, max int) error {
	if count > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("too many %s: max %d allowed", fieldName, max))
	}
	return nil
}

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}
