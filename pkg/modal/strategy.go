package modal

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Repair-type detection thresholds
const (
	exceedancePercentThreshold = 3.0  // per-mode strengthening boundary
	dominantShareThreshold     = 0.70 // share of modes deciding the regime
	retrofitOvershootCap       = 0.20 // 20% overshoot scores a full 1.0
	freqDenomEpsilon           = 1e-6
)

// scoringStrategy computes the per-mode frequency recovery score for one
// repair regime
type scoringStrategy interface {
	frequencyScore(fO, fD, fR float64) float64
}

// restorationStrategy scores recovery toward the original frequency
type restorationStrategy struct{}

func (restorationStrategy) frequencyScore(fO, fD, fR float64) float64 {
	return clip((fR-fD)/guardedDenom(fO-fD), 0, 1)
}

// retrofittingStrategy scores partial credit for recovery below the
// original frequency and graduated credit for controlled overshoot above it
type retrofittingStrategy struct{}

func (retrofittingStrategy) frequencyScore(fO, fD, fR float64) float64 {
	if fR < fO {
		return 0.5 * clip((fR-fD)/guardedDenom(fO-fD), 0, 1)
	}
	return 0.5 + 0.5*clip((fR-fO)/guardedDenom(retrofitOvershootCap*fO), 0, 1)
}

// strategyFor selects the scoring strategy for one mode. Under the mixed
// regime, modes that exceeded the original frequency use the retrofitting
// formula and the rest use restoration.
func strategyFor(repairType RepairType, exceedPct float64) (scoringStrategy, bool) {
	switch repairType {
	case RepairRetrofitting:
		return retrofittingStrategy{}, true
	case RepairMixed:
		if exceedPct > exceedancePercentThreshold {
			return retrofittingStrategy{}, true
		}
		return restorationStrategy{}, false
	default:
		return restorationStrategy{}, false
	}
}

// detectRepairType classifies the repair regime from per-mode frequency
// exceedance percentages
func detectRepairType(exceedPcts []float64) RepairType {
	if len(exceedPcts) == 0 {
		return RepairRestoration
	}

	exceeded := 0
	within := 0
	for _, pct := range exceedPcts {
		if pct > exceedancePercentThreshold {
			exceeded++
		}
		if math.Abs(pct) <= exceedancePercentThreshold {
			within++
		}
	}

	n := float64(len(exceedPcts))
	switch {
	case float64(exceeded)/n >= dominantShareThreshold:
		return RepairRetrofitting
	case float64(within)/n >= dominantShareThreshold:
		return RepairRestoration
	default:
		return RepairMixed
	}
}

// strengtheningFactor is the geometric mean of the repaired-to-original
// frequency ratios
func strengtheningFactor(originalFreqs, repairedFreqs []float64) float64 {
	if len(originalFreqs) == 0 {
		return 1
	}

	ratios := make([]float64, 0, len(originalFreqs))
	for i := range originalFreqs {
		if originalFreqs[i] > 0 && repairedFreqs[i] > 0 {
			ratios = append(ratios, repairedFreqs[i]/originalFreqs[i])
		}
	}
	if len(ratios) == 0 {
		return 1
	}

	return stat.GeometricMean(ratios, nil)
}

// scoreTier maps an overall score floor to a quality label
type scoreTier struct {
	floor float64
	label string
}

// Interpretation tiers. Retrofitting grades on an easier curve because the
// frequency score deliberately caps partial recovery at 0.5.
var (
	restorationTiers = []scoreTier{
		{0.95, "excellent"},
		{0.85, "very good"},
		{0.70, "good"},
		{0.50, "fair"},
		{math.Inf(-1), "poor"},
	}
	retrofittingTiers = []scoreTier{
		{0.90, "excellent"},
		{0.75, "very good"},
		{0.60, "good"},
		{0.50, "fair"},
		{math.Inf(-1), "poor"},
	}
)

// interpret produces the quality label and a textual interpretation for
// the detected repair regime
func interpret(repairType RepairType, overall, strengthening float64) string {
	tiers := restorationTiers
	if repairType == RepairRetrofitting {
		tiers = retrofittingTiers
	}

	label := tiers[len(tiers)-1].label
	for _, t := range tiers {
		if overall >= t.floor {
			label = t.label
			break
		}
	}

	switch repairType {
	case RepairRetrofitting:
		return fmt.Sprintf(
			"%s retrofitting: structure strengthened to %.1f%% of original stiffness-related response",
			label, strengthening*100)
	case RepairMixed:
		return fmt.Sprintf(
			"%s mixed repair: some modes strengthened beyond original, others restored", label)
	default:
		return fmt.Sprintf(
			"%s restoration: modal parameters recovered toward original condition", label)
	}
}

// guardedDenom keeps a denominator away from zero while preserving sign
func guardedDenom(d float64) float64 {
	if math.Abs(d) < freqDenomEpsilon {
		if d < 0 {
			return -freqDenomEpsilon
		}
		return freqDenomEpsilon
	}
	return d
}
