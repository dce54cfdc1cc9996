package analyzers

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"

	"github.com/strucsense/modal-assessment/pkg/logging"
)

// SpectralAnalyzer provides core FFT and spectrum estimation for vibration
// signals
type SpectralAnalyzer struct {
	sampleRate float64
	logger     logging.Logger
}

// Spectrum holds a one-sided magnitude spectrum
type Spectrum struct {
	Frequencies []float64 `json:"frequencies"`
	Magnitudes  []float64 `json:"magnitudes"`
	Resolution  float64   `json:"resolution"` // Hz per bin
}

// NewSpectralAnalyzer creates a new spectral analyzer
func NewSpectralAnalyzer(sampleRate float64) *SpectralAnalyzer {
	return &SpectralAnalyzer{
		sampleRate: sampleRate,
		logger: logging.WithFields(logging.Fields{
			"component":   "spectral_analyzer",
			"sample_rate": sampleRate,
		}),
	}
}

// MagnitudeSpectrum computes the one-sided magnitude spectrum of a signal.
// The signal is Hann-windowed over its full length and zero-padded to the
// next power of two before the transform. Magnitudes are raw (unnormalized).
func (sa *SpectralAnalyzer) MagnitudeSpectrum(signal []float64) *Spectrum {
	if len(signal) == 0 {
		return &Spectrum{}
	}

	windowed := make([]float64, len(signal))
	copy(windowed, signal)
	window.Apply(windowed, window.Hann)

	nfft := nextPowerOfTwo(len(windowed))
	padded := make([]float64, nfft)
	copy(padded, windowed)

	fftResult := fft.FFTReal(padded)

	// Positive frequencies only, DC through Nyquist
	freqBins := nfft/2 + 1
	resolution := sa.sampleRate / float64(nfft)

	spectrum := &Spectrum{
		Frequencies: make([]float64, freqBins),
		Magnitudes:  make([]float64, freqBins),
		Resolution:  resolution,
	}
	for i := 0; i < freqBins; i++ {
		spectrum.Frequencies[i] = float64(i) * resolution
		spectrum.Magnitudes[i] = cmplx.Abs(fftResult[i])
	}

	sa.logger.Debug("Magnitude spectrum computed", logging.Fields{
		"signal_length": len(signal),
		"fft_size":      nfft,
		"freq_bins":     freqBins,
		"resolution":    resolution,
	})

	return spectrum
}

// NormalizedSpectrum computes the magnitude spectrum normalized to a unit
// maximum. A silent signal keeps zero magnitudes (unit divisor).
func (sa *SpectralAnalyzer) NormalizedSpectrum(signal []float64) *Spectrum {
	spectrum := sa.MagnitudeSpectrum(signal)
	if len(spectrum.Magnitudes) == 0 {
		return spectrum
	}

	maxMag := 0.0
	for _, m := range spectrum.Magnitudes {
		if m > maxMag {
			maxMag = m
		}
	}
	if maxMag < silenceEpsilon {
		maxMag = 1.0
	}

	for i := range spectrum.Magnitudes {
		spectrum.Magnitudes[i] /= maxMag
	}
	return spectrum
}

// NormalizedAverageSpectrum averages the per-channel magnitude spectra and
// normalizes the result to a unit maximum. Averaging magnitudes instead of
// samples keeps modes visible even when their spatial pattern sums to zero
// across sensors.
func (sa *SpectralAnalyzer) NormalizedAverageSpectrum(channels [][]float64) *Spectrum {
	if len(channels) == 0 {
		return &Spectrum{}
	}

	avg := sa.MagnitudeSpectrum(channels[0])
	for _, channel := range channels[1:] {
		s := sa.MagnitudeSpectrum(channel)
		for i := range avg.Magnitudes {
			avg.Magnitudes[i] += s.Magnitudes[i]
		}
	}

	maxMag := 0.0
	for _, m := range avg.Magnitudes {
		if m > maxMag {
			maxMag = m
		}
	}
	if maxMag < silenceEpsilon {
		maxMag = 1.0
	}
	for i := range avg.Magnitudes {
		avg.Magnitudes[i] /= maxMag
	}
	return avg
}

// NearestBin returns the bin index closest to the given frequency
func (s *Spectrum) NearestBin(freq float64) int {
	if s.Resolution <= 0 || len(s.Frequencies) == 0 {
		return 0
	}
	bin := int(math.Round(freq / s.Resolution))
	if bin < 0 {
		bin = 0
	}
	if bin >= len(s.Frequencies) {
		bin = len(s.Frequencies) - 1
	}
	return bin
}

// silenceEpsilon is the magnitude below which a spectrum counts as silent
const silenceEpsilon = 1e-12

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
