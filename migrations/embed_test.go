package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpFilesOrdered(t *testing.T) {
	files, err := upFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"000001_websites.up.sql",
		"000002_consent_registry.up.sql",
		"000003_consent_decision_logs.up.sql",
	}, files)
}
