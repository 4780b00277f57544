package solver

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeOptionsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "options.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOptionsFromJson(t *testing.T) {
	t.Run("full options", func(t *testing.T) {
		path := writeOptionsFile(t, `{
			"timeLimitSeconds": 120,
			"workers": 8,
			"strategy": "fixed",
			"logProgress": true
		}`)

		options, err := OptionsFromJson(path)
		require.NoError(t, err)

		assert.Equal(t, 2*time.Minute, options.TimeLimit)
		assert.Equal(t, 8, options.Workers)
		assert.Equal(t, FixedSearch, options.Strategy)
		assert.True(t, options.LogProgress)
	})

	t.Run("absent fields keep defaults", func(t *testing.T) {
		path := writeOptionsFile(t, `{}`)

		options, err := OptionsFromJson(path)
		require.NoError(t, err)

		assert.Equal(t, DefaultOptions().TimeLimit, options.TimeLimit)
		assert.Equal(t, DefaultOptions().Workers, options.Workers)
		assert.Equal(t, AutomaticSearch, options.Strategy)
		assert.False(t, options.LogProgress)
	})

	t.Run("unknown strategy", func(t *testing.T) {
		path := writeOptionsFile(t, `{"strategy": "montecarlo"}`)

		_, err := OptionsFromJson(path)
		assert.ErrorContains(t, err, "montecarlo")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := OptionsFromJson(filepath.Join(t.TempDir(), "absent.json"))
		assert.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		path := writeOptionsFile(t, `{"workers": `)

		_, err := OptionsFromJson(path)
		assert.Error(t, err)
	})
}
