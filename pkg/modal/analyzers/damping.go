package analyzers

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/strucsense/modal-assessment/pkg/logging"
)

// Damping fit parameters
const (
	butterworthOrder    = 4
	minBandHalfWidthHz  = 2.0
	bandHalfWidthRatio  = 0.05
	logEnvelopeFloor    = 1e-12
	irlsIterations      = 3
	huberTuningConstant = 1.345
	maxPlausibleDamping = 0.2
	minFitRSquared      = 0.6
	fallbackDamping     = 0.02
	minFitSamples       = 10
)

// DampingResult is the outcome of one mode's decay fit. An unresolved
// result carries the fallback ratio after Estimate patches it.
type DampingResult struct {
	Ratio    float64
	Resolved bool
	RSquared float64
}

// DampingEstimator derives damping ratios from band-isolated envelope decay
type DampingEstimator struct {
	sampleRate float64
	bandHz     float64 // half-width override, 0 = automatic
	logger     logging.Logger
}

// NewDampingEstimator creates a damping estimator. bandHz overrides the
// automatic bandpass half-width when positive.
func NewDampingEstimator(sampleRate, bandHz float64) *DampingEstimator {
	return &DampingEstimator{
		sampleRate: sampleRate,
		bandHz:     bandHz,
		logger: logging.WithFields(logging.Fields{
			"component":   "damping_estimator",
			"sample_rate": sampleRate,
		}),
	}
}

// Estimate fits a damping ratio for every mode frequency. Per-mode fit
// failures are recorded as unresolved, never propagated; unresolved modes
// are patched with the median of the resolved ratios, or a constant
// fallback when nothing resolved.
func (de *DampingEstimator) Estimate(signal []float64, modeFreqs []float64) []DampingResult {
	results := make([]DampingResult, len(modeFreqs))

	for i, freq := range modeFreqs {
		ratio, r2, err := de.estimateMode(signal, freq)
		if err != nil {
			de.logger.Debug("Damping fit unresolved", logging.Fields{
				"mode_freq": freq,
				"reason":    err.Error(),
			})
			results[i] = DampingResult{}
			continue
		}
		results[i] = DampingResult{Ratio: ratio, Resolved: true, RSquared: r2}
	}

	de.applyFallback(results)
	return results
}

// estimateMode band-isolates one mode, extracts its envelope, and fits an
// exponential decay rate with an iteratively-reweighted robust line fit
func (de *DampingEstimator) estimateMode(signal []float64, freq float64) (ratio, rsquared float64, err error) {
	if freq <= 0 {
		return 0, 0, fmt.Errorf("non-positive mode frequency %.3f", freq)
	}

	band := math.Max(minBandHalfWidthHz, bandHalfWidthRatio*freq)
	if de.bandHz > 0 {
		band = de.bandHz
	}

	nyquist := de.sampleRate / 2
	low := math.Max(freq-band, 0.01)
	high := math.Min(freq+band, 0.99*nyquist)
	if high <= low {
		return 0, 0, fmt.Errorf("degenerate passband [%.3f, %.3f] Hz", low, high)
	}

	filter, err := newButterworthBandpass(butterworthOrder, low, high, de.sampleRate)
	if err != nil {
		return 0, 0, err
	}
	filtered := filter.ZeroPhase(signal)

	env := envelope(filtered)

	logEnv := make([]float64, len(env))
	for i, e := range env {
		logEnv[i] = math.Log(math.Max(e, logEnvelopeFloor))
	}

	// Drop the initial filter transient, then fit only the middle 80% of
	// what remains to reduce edge artifacts
	skip := max(2, int(math.Round(2*de.sampleRate/freq)))
	if len(logEnv)-skip < minFitSamples {
		return 0, 0, fmt.Errorf("insufficient samples after transient skip (%d)", len(logEnv)-skip)
	}
	rest := logEnv[skip:]
	start := int(0.1 * float64(len(rest)))
	end := int(0.9 * float64(len(rest)))
	if end-start < minFitSamples {
		return 0, 0, fmt.Errorf("insufficient samples in fit window (%d)", end-start)
	}

	y := rest[start:end]
	x := make([]float64, len(y))
	for i := range x {
		x[i] = float64(skip+start+i) / de.sampleRate
	}

	alpha, beta, weights := irlsLineFit(x, y)

	rsquared = stat.RSquared(x, y, weights, alpha, beta)
	ratio = -beta / (2 * math.Pi * freq)

	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return 0, 0, fmt.Errorf("non-finite damping ratio")
	}
	if ratio <= 0 {
		return 0, 0, fmt.Errorf("non-positive damping ratio %.5f", ratio)
	}
	if ratio > maxPlausibleDamping {
		return 0, 0, fmt.Errorf("implausible damping ratio %.5f", ratio)
	}
	if rsquared < minFitRSquared {
		return 0, 0, fmt.Errorf("poor fit quality (R2=%.3f)", rsquared)
	}

	return ratio, rsquared, nil
}

// irlsLineFit fits y = alpha + beta*x with three rounds of
// iteratively-reweighted least squares using a Huber-like weight on
// residuals scaled by the median absolute residual
func irlsLineFit(x, y []float64) (alpha, beta float64, weights []float64) {
	weights = make([]float64, len(x))
	for i := range weights {
		weights[i] = 1
	}

	residuals := make([]float64, len(x))
	for iter := 0; iter < irlsIterations; iter++ {
		alpha, beta = stat.LinearRegression(x, y, weights, false)

		for i := range x {
			residuals[i] = y[i] - (alpha + beta*x[i])
		}

		scale := medianAbs(residuals)
		if scale < 1e-12 {
			break
		}

		for i, r := range residuals {
			t := r / (huberTuningConstant * scale)
			weights[i] = 1 / (1 + t*t)
		}
	}

	return alpha, beta, weights
}

// applyFallback patches unresolved ratios in place: median of the resolved
// values, or a constant when every mode is unresolved
func (de *DampingEstimator) applyFallback(results []DampingResult) {
	var resolved []float64
	for _, r := range results {
		if r.Resolved {
			resolved = append(resolved, r.Ratio)
		}
	}

	fallback := fallbackDamping
	if len(resolved) > 0 {
		fallback = median(resolved)
	} else if len(results) > 0 {
		de.logger.Warn("All damping fits unresolved, using constant fallback", logging.Fields{
			"modes":    len(results),
			"fallback": fallbackDamping,
		})
	}

	for i := range results {
		if !results[i].Resolved {
			results[i].Ratio = fallback
		}
	}
}

func medianAbs(x []float64) float64 {
	absX := make([]float64, len(x))
	for i, v := range x {
		absX[i] = math.Abs(v)
	}
	return median(absX)
}

func median(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}
