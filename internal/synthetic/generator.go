// Package synthetic generates multi-sensor damped-vibration recordings for
// developer commands and tests. All randomness flows through an explicit
// *rand.Rand so results are reproducible from a seed.
package synthetic

import (
	"math"
	"math/rand"
)

// ModeSpec describes one vibration mode of a synthetic structure
type ModeSpec struct {
	Frequency float64 // Hz
	Damping   float64 // damping ratio
	Amplitude float64
}

// Options controls recording generation
type Options struct {
	SampleRate float64
	Duration   float64 // seconds
	Sensors    int
	NoiseLevel float64 // standard deviation of additive Gaussian noise
}

// DefaultOptions returns a recording setup adequate for the full pipeline:
// 1 Hz resolution, plenty of decay cycles
func DefaultOptions() Options {
	return Options{
		SampleRate: 200,
		Duration:   10,
		Sensors:    4,
		NoiseLevel: 0.01,
	}
}

// Generate produces an [N x S] sample matrix of decaying sinusoids. Each
// mode m has a sine-shaped spatial pattern across sensors so extracted mode
// shapes are distinct and comparable between states.
func Generate(rng *rand.Rand, opts Options, modes []ModeSpec) [][]float64 {
	n := int(opts.Duration * opts.SampleRate)
	data := make([][]float64, n)

	phases := make([]float64, len(modes))
	for m := range phases {
		phases[m] = rng.Float64() * 2 * math.Pi
	}

	for i := 0; i < n; i++ {
		t := float64(i) / opts.SampleRate
		row := make([]float64, opts.Sensors)

		for s := 0; s < opts.Sensors; s++ {
			v := 0.0
			for m, mode := range modes {
				shape := shapeValue(m, s, opts.Sensors)
				decay := math.Exp(-mode.Damping * 2 * math.Pi * mode.Frequency * t)
				v += mode.Amplitude * shape * decay * math.Sin(2*math.Pi*mode.Frequency*t+phases[m])
			}
			if opts.NoiseLevel > 0 {
				v += opts.NoiseLevel * rng.NormFloat64()
			}
			row[s] = v
		}
		data[i] = row
	}

	return data
}

// GenerateNoise produces an [N x S] matrix of pure Gaussian noise, useful
// for exercising the no-detectable-modes path
func GenerateNoise(rng *rand.Rand, opts Options) [][]float64 {
	n := int(opts.Duration * opts.SampleRate)
	data := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, opts.Sensors)
		for s := range row {
			row[s] = rng.NormFloat64()
		}
		data[i] = row
	}
	return data
}

// Scale returns a copy of modes with all frequencies multiplied by factor,
// modelling stiffness change between structural states
func Scale(modes []ModeSpec, factor float64) []ModeSpec {
	scaled := make([]ModeSpec, len(modes))
	for i, m := range modes {
		scaled[i] = m
		scaled[i].Frequency = m.Frequency * factor
	}
	return scaled
}

// shapeValue is the first-bending-family spatial pattern: mode m sampled at
// sensor s of total sensors
func shapeValue(mode, sensor, sensors int) float64 {
	return math.Sin(float64(mode+1) * math.Pi * float64(sensor+1) / float64(sensors+1))
}
