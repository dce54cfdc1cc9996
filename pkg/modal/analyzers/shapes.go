package analyzers

import (
	"math"

	"github.com/strucsense/modal-assessment/pkg/logging"
)

// ModeShapeExtractor derives per-sensor vibration amplitude patterns at the
// identified mode frequencies
type ModeShapeExtractor struct {
	analyzer *SpectralAnalyzer
	logger   logging.Logger
}

// NewModeShapeExtractor creates a shape extractor for the given sample rate
func NewModeShapeExtractor(sampleRate float64) *ModeShapeExtractor {
	return &ModeShapeExtractor{
		analyzer: NewSpectralAnalyzer(sampleRate),
		logger: logging.WithFields(logging.Fields{
			"component": "mode_shape_extractor",
		}),
	}
}

// Extract returns one shape vector per mode frequency, parallel to
// modeFreqs. channels is [S][N]: one sample slice per sensor. Each sensor's
// spectrum is computed independently; shape vectors are normalized to a
// unit maximum magnitude.
func (mse *ModeShapeExtractor) Extract(channels [][]float64, modeFreqs []float64) [][]float64 {
	if len(modeFreqs) == 0 || len(channels) == 0 {
		return nil
	}

	spectra := make([]*Spectrum, len(channels))
	for s, ch := range channels {
		spectra[s] = mse.analyzer.MagnitudeSpectrum(ch)
	}

	shapes := make([][]float64, len(modeFreqs))
	for m, freq := range modeFreqs {
		shape := make([]float64, len(channels))
		for s, spectrum := range spectra {
			bin := spectrum.NearestBin(freq)
			if bin < len(spectrum.Magnitudes) {
				shape[s] = spectrum.Magnitudes[bin]
			}
		}
		normalizeShape(shape)
		shapes[m] = shape
	}

	mse.logger.Debug("Mode shapes extracted", logging.Fields{
		"modes":   len(modeFreqs),
		"sensors": len(channels),
	})

	return shapes
}

// normalizeShape scales a shape vector to a unit maximum magnitude in
// place. A zero vector is left as-is.
func normalizeShape(shape []float64) {
	maxAbs := 0.0
	for _, v := range shape {
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	if maxAbs < silenceEpsilon {
		return
	}
	for i := range shape {
		shape[i] /= maxAbs
	}
}
