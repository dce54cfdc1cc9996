package modal

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildRecord assembles a row-major recording from per-channel sample
// generators
func buildRecord(n int, fs float64, channels ...func(i int) float64) *TimeSeries {
	data := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, len(channels))
		for s, gen := range channels {
			row[s] = gen(i)
		}
		data[i] = row
	}
	return NewTimeSeries(data, fs)
}

// noisySine returns a generator for a sine riding on a small Gaussian
// noise floor
func noisySine(rng *rand.Rand, fs, freq, amplitude float64) func(i int) float64 {
	return func(i int) float64 {
		t := float64(i) / fs
		return amplitude*math.Sin(2*math.Pi*freq*t) + 0.01*amplitude*rng.NormFloat64()
	}
}

func validationCode(t *testing.T, err error) string {
	t.Helper()
	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr), "expected a ValidationError, got %v", err)
	return valErr.Code
}

func TestValidatePassesCleanRecording(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ts := buildRecord(2000, 200,
		noisySine(rng, 200, 12.3, 1),
		noisySine(rng, 200, 12.3, 0.8),
		noisySine(rng, 200, 12.3, 1.2))

	warnings, err := NewInputValidator().Validate(ts, DefaultAnalysisConfig(), "original")
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestValidateTooFewSamples(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ts := buildRecord(50, 200, noisySine(rng, 200, 12.3, 1))

	_, err := NewInputValidator().Validate(ts, DefaultAnalysisConfig(), "original")
	assert.Equal(t, ErrCodeTooFewSamples, validationCode(t, err))
}

func TestValidateSampleRateTooLow(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ts := buildRecord(200, 50, noisySine(rng, 50, 5.3, 1))

	_, err := NewInputValidator().Validate(ts, DefaultAnalysisConfig(), "original")
	assert.Equal(t, ErrCodeSamplingRate, validationCode(t, err))
}

func TestValidateAliasingBoundary(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ts := buildRecord(2000, 100, noisySine(rng, 100, 12.3, 1))

	// Usable Nyquist at 100 Hz is 49 Hz: a 49 Hz bound passes, 50 Hz fails
	cfg := DefaultAnalysisConfig()
	cfg.MaxFreq = 49
	_, err := NewInputValidator().Validate(ts, cfg, "original")
	assert.NoError(t, err)

	cfg.MaxFreq = 50
	_, err = NewInputValidator().Validate(ts, cfg, "original")
	assert.Equal(t, ErrCodeAliasing, validationCode(t, err))
}

func TestValidateResolutionTooCoarse(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ts := buildRecord(150, 200, noisySine(rng, 200, 12.3, 1))

	_, err := NewInputValidator().Validate(ts, DefaultAnalysisConfig(), "original")
	assert.Equal(t, ErrCodeResolution, validationCode(t, err))
}

func TestValidateTooFewCycles(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	// 1.5 s at 100 Hz: resolution is fine but the record spans fewer than
	// two cycles of the effective lowest frequency
	ts := buildRecord(150, 100, noisySine(rng, 100, 12.3, 1))

	_, err := NewInputValidator().Validate(ts, DefaultAnalysisConfig(), "original")
	assert.Equal(t, ErrCodeCycles, validationCode(t, err))
}

func TestValidateChannelDesync(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ts := buildRecord(2000, 200,
		noisySine(rng, 200, 10.3, 1),
		noisySine(rng, 200, 30.7, 1))

	_, err := NewInputValidator().Validate(ts, DefaultAnalysisConfig(), "original")
	assert.Equal(t, ErrCodeChannelSync, validationCode(t, err))
}

func TestValidateClippedChannel(t *testing.T) {
	clipped := func(i int) float64 {
		v := 1.5 * math.Sin(2*math.Pi*10.3*float64(i)/200)
		return clip(v, -1, 1)
	}
	ts := buildRecord(2000, 200, clipped)

	_, err := NewInputValidator().Validate(ts, DefaultAnalysisConfig(), "original")
	assert.Equal(t, ErrCodeClipping, validationCode(t, err))
}

func TestValidateShortCleanRecording(t *testing.T) {
	// 800 samples at 100 Hz: every gate admits this record, and the single
	// sample sitting at the channel maximum must not read as clipping
	rng := rand.New(rand.NewSource(7))
	ts := buildRecord(800, 100, noisySine(rng, 100, 12.3, 1))

	cfg := DefaultAnalysisConfig()
	cfg.MaxFreq = 45
	warnings, err := NewInputValidator().Validate(ts, cfg, "original")
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestValidateShortClippedRecording(t *testing.T) {
	clipped := func(i int) float64 {
		v := 1.5 * math.Sin(2*math.Pi*10.3*float64(i)/100)
		return clip(v, -1, 1)
	}
	ts := buildRecord(800, 100, clipped)

	cfg := DefaultAnalysisConfig()
	cfg.MaxFreq = 45
	_, err := NewInputValidator().Validate(ts, cfg, "original")
	assert.Equal(t, ErrCodeClipping, validationCode(t, err))
}

func TestValidateWarnings(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	base := noisySine(rng, 200, 12.3, 1)
	offset := noisySine(rng, 200, 12.3, 0.1)

	ts := buildRecord(2000, 200,
		base,
		func(i int) float64 { return 0 },
		func(i int) float64 { return 0.5 + offset(i) })

	warnings, err := NewInputValidator().Validate(ts, DefaultAnalysisConfig(), "original")
	require.NoError(t, err)
	require.Len(t, warnings, 2)

	assert.Equal(t, WarnCodeZeroVariance, warnings[0].Code)
	assert.Equal(t, 1, warnings[0].Channel)
	assert.Equal(t, WarnCodeDCOffset, warnings[1].Code)
	assert.Equal(t, 2, warnings[1].Channel)
}
