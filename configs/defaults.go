package configs

import "github.com/spf13/viper"

// SetDefaults sets default configuration values for all components
func SetDefaults(v *viper.Viper) {
	// Application defaults
	if !v.IsSet("verbose") {
		v.Set("verbose", false)
	}
	if !v.IsSet("log_level") {
		v.Set("log_level", "info")
	}
	if !v.IsSet("output_format") {
		v.Set("output_format", "table")
	}

	// Analysis defaults: low-rise structures, modes below 50 Hz
	if !v.IsSet("analysis.max_modes") {
		v.Set("analysis.max_modes", 5)
	}
	if !v.IsSet("analysis.min_freq") {
		v.Set("analysis.min_freq", 0.5)
	}
	if !v.IsSet("analysis.max_freq") {
		v.Set("analysis.max_freq", 50.0)
	}
	if !v.IsSet("analysis.band_hz") {
		v.Set("analysis.band_hz", 0.0)
	}

	// Synthetic recording defaults for the test commands
	if !v.IsSet("synthetic.sample_rate") {
		v.Set("synthetic.sample_rate", 200.0)
	}
	if !v.IsSet("synthetic.duration") {
		v.Set("synthetic.duration", 10.0)
	}
	if !v.IsSet("synthetic.sensors") {
		v.Set("synthetic.sensors", 4)
	}
	if !v.IsSet("synthetic.noise_level") {
		v.Set("synthetic.noise_level", 0.01)
	}
	if !v.IsSet("synthetic.seed") {
		v.Set("synthetic.seed", 42)
	}
}
