package configs

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/strucsense/modal-assessment/pkg/modal"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose" yaml:"verbose"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`

	// Analysis configuration
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`

	// Synthetic-data settings for the developer test commands
	Synthetic SyntheticConfig `mapstructure:"synthetic" yaml:"synthetic"`
}

// AnalysisConfig contains modal extraction settings
type AnalysisConfig struct {
	MaxModes int     `mapstructure:"max_modes" yaml:"max_modes"`
	MinFreq  float64 `mapstructure:"min_freq" yaml:"min_freq"`
	MaxFreq  float64 `mapstructure:"max_freq" yaml:"max_freq"`
	BandHz   float64 `mapstructure:"band_hz" yaml:"band_hz"`
}

// SyntheticConfig contains synthetic recording settings used by the
// extract-test and assess-test commands
type SyntheticConfig struct {
	SampleRate float64 `mapstructure:"sample_rate" yaml:"sample_rate"`
	Duration   float64 `mapstructure:"duration" yaml:"duration"`
	Sensors    int     `mapstructure:"sensors" yaml:"sensors"`
	NoiseLevel float64 `mapstructure:"noise_level" yaml:"noise_level"`
	Seed       int64   `mapstructure:"seed" yaml:"seed"`
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	config := &Config{}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return config, nil
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	if config.Analysis.MaxModes <= 0 {
		return fmt.Errorf("max_modes must be positive")
	}

	if config.Analysis.MinFreq < 0 {
		return fmt.Errorf("min_freq cannot be negative")
	}

	if config.Analysis.MaxFreq <= config.Analysis.MinFreq {
		return fmt.Errorf("max_freq must exceed min_freq")
	}

	if config.Analysis.BandHz < 0 {
		return fmt.Errorf("band_hz cannot be negative")
	}

	if config.Synthetic.SampleRate <= 0 {
		return fmt.Errorf("synthetic sample rate must be positive")
	}

	if config.Synthetic.Sensors <= 0 {
		return fmt.Errorf("synthetic sensor count must be positive")
	}

	return nil
}

// ToAnalysisConfig converts the app-level analysis section into the engine
// configuration record
func (c *Config) ToAnalysisConfig() modal.AnalysisConfig {
	return modal.AnalysisConfig{
		MaxModes: c.Analysis.MaxModes,
		MinFreq:  c.Analysis.MinFreq,
		MaxFreq:  c.Analysis.MaxFreq,
		BandHz:   c.Analysis.BandHz,
	}
}
