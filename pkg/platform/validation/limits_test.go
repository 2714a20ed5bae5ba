package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "consentry/pkg/domain-errors"
)

func TestCheckSliceCount(t *testing.T) {
	assert.NoError(t, CheckSliceCount("groups", MaxGroupsPerDecision, MaxGroupsPerDecision))
	err := CheckSliceCount("groups", MaxGroupsPerDecision+1, MaxGroupsPerDecision)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	assert.Contains(t, err.Error(), "too many groups")
}

func TestCheckStringLength(t *testing.T) {
	assert.NoError(t, CheckStringLength("slug", "analytics", MaxSlugLength))
	err := CheckStringLength("slug", strings.Repeat("a", MaxSlugLength+1), MaxSlugLength)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}
