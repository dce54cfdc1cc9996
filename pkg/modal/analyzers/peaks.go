package analyzers

import (
	"math"
	"sort"

	"github.com/strucsense/modal-assessment/pkg/logging"
)

// Peak search constraints
const (
	minPeakHeightRatio     = 0.10 // of windowed max magnitude
	minPeakProminenceRatio = 0.05 // of windowed max magnitude
	minPeakSeparationHz    = 4.0
	peakFloorContrast      = 3.0 // peak height vs band median magnitude
	savgolWindowLen        = 21
	savgolOrder            = 3
)

// NaturalFrequencyFinder extracts dominant spectral peaks within a band
type NaturalFrequencyFinder struct {
	maxModes int
	minFreq  float64
	maxFreq  float64
	logger   logging.Logger
}

// NewNaturalFrequencyFinder creates a peak finder restricted to
// [minFreq, maxFreq], returning at most maxModes frequencies
func NewNaturalFrequencyFinder(maxModes int, minFreq, maxFreq float64) *NaturalFrequencyFinder {
	return &NaturalFrequencyFinder{
		maxModes: maxModes,
		minFreq:  minFreq,
		maxFreq:  maxFreq,
		logger: logging.WithFields(logging.Fields{
			"component": "frequency_finder",
			"min_freq":  minFreq,
			"max_freq":  maxFreq,
		}),
	}
}

// Find returns the detected natural frequencies in ascending order. An
// empty result means no detectable modes, which is a valid outcome.
func (nf *NaturalFrequencyFinder) Find(spectrum *Spectrum) []float64 {
	lo, hi := nf.bandIndices(spectrum)
	if hi-lo < 3 {
		nf.logger.Debug("Too few usable bins for peak search", logging.Fields{
			"usable_bins": hi - lo,
		})
		return nil
	}

	mags := spectrum.Magnitudes[lo:hi]
	if len(mags) >= savgolWindowLen {
		mags = savitzkyGolay(mags, savgolWindowLen, savgolOrder)
	}

	windowedMax := 0.0
	for _, m := range mags {
		if m > windowedMax {
			windowedMax = m
		}
	}
	if windowedMax < silenceEpsilon {
		return nil
	}

	// Broadband noise has a high median relative to its tallest bump, so
	// requiring a peak to clear a multiple of the band median rejects
	// noise-only spectra while leaving resonant peaks untouched.
	minHeight := math.Max(minPeakHeightRatio*windowedMax, peakFloorContrast*median(mags))
	minProminence := minPeakProminenceRatio * windowedMax
	minSepBins := 1
	if spectrum.Resolution > 0 {
		minSepBins = max(1, int(math.Round(minPeakSeparationHz/spectrum.Resolution)))
	}

	candidates := findLocalMaxima(mags, minHeight, minProminence)

	// Rank by descending amplitude, then greedily enforce the minimum
	// bin separation
	sort.Slice(candidates, func(i, j int) bool {
		return mags[candidates[i]] > mags[candidates[j]]
	})

	var selected []int
	for _, c := range candidates {
		if len(selected) >= nf.maxModes {
			break
		}
		tooClose := false
		for _, s := range selected {
			if abs(c-s) < minSepBins {
				tooClose = true
				break
			}
		}
		if !tooClose {
			selected = append(selected, c)
		}
	}

	freqs := make([]float64, 0, len(selected))
	for _, s := range selected {
		freqs = append(freqs, spectrum.Frequencies[lo+s])
	}
	sort.Float64s(freqs)

	nf.logger.Debug("Peak search completed", logging.Fields{
		"candidates": len(candidates),
		"selected":   len(freqs),
	})

	return freqs
}

// bandIndices returns the half-open bin range covering [minFreq, maxFreq]
func (nf *NaturalFrequencyFinder) bandIndices(spectrum *Spectrum) (int, int) {
	lo := 0
	for lo < len(spectrum.Frequencies) && spectrum.Frequencies[lo] < nf.minFreq {
		lo++
	}
	hi := len(spectrum.Frequencies)
	for hi > lo && spectrum.Frequencies[hi-1] > nf.maxFreq {
		hi--
	}
	return lo, hi
}

// findLocalMaxima returns indices of interior local maxima satisfying the
// height and prominence constraints
func findLocalMaxima(mags []float64, minHeight, minProminence float64) []int {
	var peaks []int
	for i := 1; i < len(mags)-1; i++ {
		if mags[i] < minHeight {
			continue
		}
		if mags[i] <= mags[i-1] || mags[i] < mags[i+1] {
			continue
		}
		if prominence(mags, i) < minProminence {
			continue
		}
		peaks = append(peaks, i)
	}
	return peaks
}

// prominence measures how far a peak rises above the higher of the two
// valley floors separating it from taller terrain (or the band edge)
func prominence(mags []float64, peak int) float64 {
	leftBase := mags[peak]
	for i := peak - 1; i >= 0; i-- {
		if mags[i] > mags[peak] {
			break
		}
		if mags[i] < leftBase {
			leftBase = mags[i]
		}
	}

	rightBase := mags[peak]
	for i := peak + 1; i < len(mags); i++ {
		if mags[i] > mags[peak] {
			break
		}
		if mags[i] < rightBase {
			rightBase = mags[i]
		}
	}

	return mags[peak] - math.Max(leftBase, rightBase)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
