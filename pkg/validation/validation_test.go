package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "consentry/pkg/domain-errors"
)

type decision struct {
	GroupSlug string `validate:"required,slug"`
	Locale    string `validate:"omitempty,min=2,max=5"`
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(decision{GroupSlug: "google-analytics", Locale: "en"}))

	err := Validate(decision{})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	assert.Equal(t, "group_slug is required", err.(*dErrors.Error).Message)

	err = Validate(decision{GroupSlug: "Google Analytics"})
	require.Error(t, err)
	assert.Equal(t, "group_slug must be a lowercase slug", err.(*dErrors.Error).Message)

	err = Validate(decision{GroupSlug: "matomo", Locale: "x"})
	require.Error(t, err)
	assert.Equal(t, "locale must be at least 2", err.(*dErrors.Error).Message)
}

func TestIsSlug(t *testing.T) {
	for _, s := range []string{"analytics", "essential-embed", "matomo_v2", "a1"} {
		assert.True(t, IsSlug(s), s)
	}
	for _, s := range []string{"", "Analytics", "-lead", "trail-", "two  words", "a--b"} {
		assert.False(t, IsSlug(s), s)
	}
}
