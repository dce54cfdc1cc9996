package modal

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"

	"github.com/strucsense/modal-assessment/pkg/logging"
)

// Physical validity thresholds
const (
	minSampleCount       = 100
	minSampleRateHz      = 100.0
	nyquistSafetyFactor  = 0.98
	maxResolutionHz      = 1.0
	minExcitationCycles  = 2.0
	maxPeakBinSpread     = 2
	maxClippedFraction   = 0.001
	clippingTolerance    = 1e-9
	minFlatTopRun        = 3
	zeroVarianceEpsilon  = 1e-12
	dcOffsetStdMultiple  = 0.25
)

// Warning codes for non-fatal oddities
const (
	WarnCodeZeroVariance = "ZERO_VARIANCE_CHANNEL"
	WarnCodeDCOffset     = "LARGE_DC_OFFSET"
)

// ValidationWarning is a non-fatal finding reported alongside a passing
// validation
type ValidationWarning struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Channel int     `json:"channel"`
	Value   float64 `json:"value"`
}

// InputValidator rejects physically invalid recordings before any spectral
// work begins
type InputValidator struct {
	logger logging.Logger
}

// NewInputValidator creates an input validator
func NewInputValidator() *InputValidator {
	return &InputValidator{
		logger: logging.WithFields(logging.Fields{
			"component": "input_validator",
		}),
	}
}

// Validate runs all fatal checks in order and returns the collected
// non-fatal warnings. state labels the recording in error detail.
func (iv *InputValidator) Validate(ts *TimeSeries, cfg AnalysisConfig, state string) ([]ValidationWarning, error) {
	n := ts.NumSamples()
	fs := ts.SampleRate

	if n < minSampleCount {
		return nil, NewValidationError(ErrCodeTooFewSamples, state,
			fmt.Sprintf("recording has %d samples", n),
			float64(n), minSampleCount,
			fmt.Sprintf("capture at least %d samples", minSampleCount))
	}

	if fs < minSampleRateHz {
		return nil, NewValidationError(ErrCodeSamplingRate, state,
			fmt.Sprintf("sample rate %.1f Hz is below the supported minimum", fs),
			fs, minSampleRateHz,
			fmt.Sprintf("sample at %.0f Hz or higher", minSampleRateHz))
	}

	usableNyquist := nyquistSafetyFactor * fs / 2
	if cfg.MaxFreq > usableNyquist {
		return nil, NewValidationError(ErrCodeAliasing, state,
			fmt.Sprintf("max analysis frequency %.1f Hz exceeds usable Nyquist %.1f Hz", cfg.MaxFreq, usableNyquist),
			cfg.MaxFreq, usableNyquist,
			fmt.Sprintf("sample at %.0f Hz or higher, or reduce max_freq to %.1f Hz",
				math.Ceil(cfg.MaxFreq*2/nyquistSafetyFactor), usableNyquist))
	}

	resolution := fs / float64(n)
	if resolution > maxResolutionHz {
		return nil, NewValidationError(ErrCodeResolution, state,
			fmt.Sprintf("frequency resolution %.3f Hz is too coarse", resolution),
			resolution, maxResolutionHz,
			fmt.Sprintf("capture at least %d samples at %.0f Hz", int(math.Ceil(fs/maxResolutionHz)), fs))
	}

	cycles := ts.Duration() * math.Max(cfg.MinFreq, 1.0)
	if cycles < minExcitationCycles {
		return nil, NewValidationError(ErrCodeCycles, state,
			fmt.Sprintf("recording spans only %.2f cycles of the lowest analysis frequency", cycles),
			cycles, minExcitationCycles,
			fmt.Sprintf("record for at least %.1f s", minExcitationCycles/math.Max(cfg.MinFreq, 1.0)))
	}

	if err := iv.checkChannelSync(ts, state); err != nil {
		return nil, err
	}
	if err := iv.checkClipping(ts, state); err != nil {
		return nil, err
	}

	warnings := iv.collectWarnings(ts)
	iv.logger.Debug("Input validation passed", logging.Fields{
		"state":    state,
		"samples":  n,
		"sensors":  ts.NumSensors(),
		"warnings": len(warnings),
	})

	return warnings, nil
}

// checkChannelSync compares each channel's FFT peak bin; a spread beyond
// two bins suggests asynchronous sampling across channels
func (iv *InputValidator) checkChannelSync(ts *TimeSeries, state string) error {
	sensors := ts.NumSensors()
	if sensors < 2 {
		return nil
	}

	minBin, maxBin := math.MaxInt, -1
	for s := 0; s < sensors; s++ {
		bin := peakMagnitudeBin(ts.Channel(s))
		if bin < 0 {
			continue // silent channel, reported as a warning instead
		}
		if bin < minBin {
			minBin = bin
		}
		if bin > maxBin {
			maxBin = bin
		}
	}

	if maxBin < 0 {
		return nil
	}
	spread := maxBin - minBin
	if spread > maxPeakBinSpread {
		return NewValidationError(ErrCodeChannelSync, state,
			fmt.Sprintf("channel peak bins spread across %d bins", spread),
			float64(spread), maxPeakBinSpread,
			"verify that all channels are sampled from a common clock")
	}
	return nil
}

// peakMagnitudeBin returns the dominant positive-frequency bin of a
// channel, or -1 for a silent channel
func peakMagnitudeBin(channel []float64) int {
	spectrum := fft.FFTReal(channel)
	half := len(spectrum) / 2

	best := -1
	bestMag := 0.0
	for i := 1; i <= half && i < len(spectrum); i++ {
		mag := cmplx.Abs(spectrum[i])
		if mag > bestMag {
			bestMag = mag
			best = i
		}
	}
	if bestMag < zeroVarianceEpsilon {
		return -1
	}
	return best
}

// checkClipping flags channels where a meaningful fraction of samples sit
// at the channel's absolute maximum, or where the maximum forms a flat top
func (iv *InputValidator) checkClipping(ts *TimeSeries, state string) error {
	n := ts.NumSamples()

	for s := 0; s < ts.NumSensors(); s++ {
		channel := ts.Channel(s)

		maxAbs := 0.0
		for _, v := range channel {
			if a := math.Abs(v); a > maxAbs {
				maxAbs = a
			}
		}
		if maxAbs < zeroVarianceEpsilon {
			continue
		}

		tol := clippingTolerance * maxAbs
		atMax := 0
		flatRun, longestFlat := 0, 0
		for _, v := range channel {
			if math.Abs(v)+tol >= maxAbs {
				atMax++
				flatRun++
				if flatRun > longestFlat {
					longestFlat = flatRun
				}
			} else {
				flatRun = 0
			}
		}

		// The channel maximum itself always lands within tolerance, so a
		// clean waveform contributes one hit. Only the extra samples at
		// the peak level indicate saturation.
		fraction := float64(atMax-1) / float64(n)
		if fraction > maxClippedFraction || longestFlat >= minFlatTopRun {
			return NewValidationError(ErrCodeClipping, state,
				fmt.Sprintf("channel %d shows clipping (%.2f%% of samples at peak, flat run %d)",
					s, fraction*100, longestFlat),
				fraction, maxClippedFraction,
				"reduce sensor gain or excitation amplitude and re-record")
		}
	}
	return nil
}

// collectWarnings reports non-fatal per-channel oddities
func (iv *InputValidator) collectWarnings(ts *TimeSeries) []ValidationWarning {
	var warnings []ValidationWarning

	for s := 0; s < ts.NumSensors(); s++ {
		channel := ts.Channel(s)
		mean, std := stat.MeanStdDev(channel, nil)

		if std < zeroVarianceEpsilon {
			warnings = append(warnings, ValidationWarning{
				Code:    WarnCodeZeroVariance,
				Message: fmt.Sprintf("channel %d has zero variance", s),
				Channel: s,
				Value:   std,
			})
			continue
		}

		if math.Abs(mean) > dcOffsetStdMultiple*std {
			warnings = append(warnings, ValidationWarning{
				Code:    WarnCodeDCOffset,
				Message: fmt.Sprintf("channel %d carries a large DC offset (mean %.4g)", s, mean),
				Channel: s,
				Value:   mean,
			})
		}
	}

	for _, w := range warnings {
		iv.logger.Warn("Validation warning", logging.Fields{
			"code":    w.Code,
			"channel": w.Channel,
			"value":   w.Value,
		})
	}
	return warnings
}
