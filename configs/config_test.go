package configs

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig(t *testing.T) *Config {
	t.Helper()

	v := viper.New()
	SetDefaults(v)

	config := &Config{}
	require.NoError(t, v.Unmarshal(config))
	return config
}

func TestDefaultsUnmarshal(t *testing.T) {
	config := defaultConfig(t)

	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, "table", config.OutputFormat)
	assert.Equal(t, 5, config.Analysis.MaxModes)
	assert.Equal(t, 0.5, config.Analysis.MinFreq)
	assert.Equal(t, 50.0, config.Analysis.MaxFreq)
	assert.Equal(t, 0.0, config.Analysis.BandHz)
	assert.Equal(t, 200.0, config.Synthetic.SampleRate)
	assert.Equal(t, int64(42), config.Synthetic.Seed)
}

func TestDefaultsDoNotOverrideExplicitValues(t *testing.T) {
	v := viper.New()
	v.Set("analysis.max_modes", 8)
	SetDefaults(v)

	assert.Equal(t, 8, v.GetInt("analysis.max_modes"))
	assert.Equal(t, 50.0, v.GetFloat64("analysis.max_freq"))
}

func TestValidateConfigDefaults(t *testing.T) {
	assert.NoError(t, ValidateConfig(defaultConfig(t)))
}

func TestValidateConfigRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero max_modes", func(c *Config) { c.Analysis.MaxModes = 0 }},
		{"negative min_freq", func(c *Config) { c.Analysis.MinFreq = -1 }},
		{"inverted band", func(c *Config) { c.Analysis.MaxFreq = c.Analysis.MinFreq }},
		{"negative band_hz", func(c *Config) { c.Analysis.BandHz = -2 }},
		{"zero sample rate", func(c *Config) { c.Synthetic.SampleRate = 0 }},
		{"zero sensors", func(c *Config) { c.Synthetic.Sensors = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := defaultConfig(t)
			tt.mutate(config)
			assert.Error(t, ValidateConfig(config))
		})
	}
}

func TestToAnalysisConfig(t *testing.T) {
	config := defaultConfig(t)
	analysis := config.ToAnalysisConfig()

	assert.Equal(t, config.Analysis.MaxModes, analysis.MaxModes)
	assert.Equal(t, config.Analysis.MinFreq, analysis.MinFreq)
	assert.Equal(t, config.Analysis.MaxFreq, analysis.MaxFreq)
	assert.Equal(t, config.Analysis.BandHz, analysis.BandHz)
}
