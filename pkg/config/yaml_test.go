package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hyperseq/pkg/config"
)

func TestConfigClone(t *testing.T) {
	t.Run("nil config returns nil", func(t *testing.T) {
		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("deep copies pointers and slices", func(t *testing.T) {
		original := config.NewConfig()
		original.Ingest.Ignore = []string{"build/**"}
		original.Force = true

		clone := original.Clone()
		require.NotNil(t, clone)
		assert.NotSame(t, original, clone)
		assert.Equal(t, original, clone)

		*clone.Tokenizer.Markdown = false
		clone.Ingest.Ignore[0] = "other/**"

		assert.True(t, *original.Tokenizer.Markdown)
		assert.Equal(t, "build/**", original.Ingest.Ignore[0])
	})
}

func TestYAMLRoundTrip(t *testing.T) {
	t.Parallel()

	original := config.NewConfig()
	original.Ingest.Extensions = []string{".txt"}
	original.Ingest.Jobs = 4
	original.Format = config.FormatJSON

	data, err := original.ToYAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "normalize: nfc")
	assert.NotContains(t, string(data), "format")

	parsed, err := config.FromYAML(data)
	require.NoError(t, err)

	// CLI-only fields are not persisted.
	original.Format = ""
	assert.Equal(t, original, parsed)
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
		check   func(t *testing.T, cfg *config.Config)
	}{
		{
			name:  "empty",
			input: "",
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, &config.Config{}, cfg)
			},
		},
		{
			name:  "nested keys",
			input: "snapshot: idx.snap\ntokenizer:\n  lowercase: true\ningest:\n  unit: file\n  ignore: [\"a/**\"]\n",
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "idx.snap", cfg.Snapshot)
				assert.True(t, config.BoolValue(cfg.Tokenizer.Lowercase))
				assert.Nil(t, cfg.Tokenizer.Markdown, "unset keys stay nil")
				assert.Equal(t, config.UnitFile, cfg.Ingest.Unit)
				assert.Equal(t, []string{"a/**"}, cfg.Ingest.Ignore)
			},
		},
		{
			name:    "unknown key",
			input:   "flavor: gfm\n",
			wantErr: true,
		},
		{
			name:    "malformed",
			input:   "ingest: [\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := config.FromYAML([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestToYAML_Nil(t *testing.T) {
	t.Parallel()

	var c *config.Config
	data, err := c.ToYAML()
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	for _, full := range []bool{false, true} {
		data, err := config.GenerateTemplate(config.TemplateOptions{Full: full, Snapshot: "corpus.snap"})
		require.NoError(t, err)
		assert.Contains(t, string(data), "# hyperseq configuration")
		if full {
			assert.Regexp(t, `default values\.\n\nsnapshot: corpus\.snap\n`, string(data))
		}

		// Every template is itself a valid configuration.
		cfg, err := config.FromYAML(data)
		require.NoError(t, err, "full=%t", full)
		assert.Equal(t, "corpus.snap", cfg.Snapshot)
		if full {
			assert.Equal(t, config.NormalizeNFC, cfg.Tokenizer.Normalize)
			assert.Contains(t, string(data), "# Ingestion\ningest:")
		}
	}
}
