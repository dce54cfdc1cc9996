package modal

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/strucsense/modal-assessment/pkg/logging"
)

// Aggregate score weights and damping-change thresholds
const (
	frequencyWeight = 0.5
	shapeWeight     = 0.3
	dampingWeight   = 0.2

	dampingRelChangeThreshold = 0.10  // of the original ratio
	dampingAbsChangeThreshold = 0.005 // absolute ratio change
	dampingSimilarityDenom    = 0.02  // scoring scale when damping barely changed
)

// QualityScorer computes per-mode and aggregate recovery scores across the
// original, damaged, and repaired states
type QualityScorer struct {
	matcher *ModeMatcher
	logger  logging.Logger
}

// NewQualityScorer creates a quality scorer
func NewQualityScorer() *QualityScorer {
	return &QualityScorer{
		matcher: NewModeMatcher(),
		logger: logging.WithFields(logging.Fields{
			"component": "quality_scorer",
		}),
	}
}

// matchedTriple indexes one mode present in all three states
type matchedTriple struct {
	ref, damaged, repaired int
}

// Assess matches the damaged and repaired states to the original and
// produces the quality assessment. userRepairType, when non-nil, forces the
// scoring regime instead of detecting it.
func (qs *QualityScorer) Assess(original, damaged, repaired *ModalParameters, userRepairType *RepairType) (*QualityAssessment, error) {
	corrDamaged := qs.matcher.Match(original, damaged)
	corrRepaired := qs.matcher.Match(original, repaired)

	var triples []matchedTriple
	for i := range original.Frequencies {
		jD, okD := corrDamaged.Match(i)
		jR, okR := corrRepaired.Match(i)
		if okD && okR {
			triples = append(triples, matchedTriple{ref: i, damaged: jD, repaired: jR})
		}
	}

	if len(triples) == 0 {
		return nil, NewUnmatchableModeSetError(original.NumModes(), damaged.NumModes(), repaired.NumModes())
	}

	exceedPcts := make([]float64, len(triples))
	fO := make([]float64, len(triples))
	fR := make([]float64, len(triples))
	for k, t := range triples {
		fO[k] = original.Frequencies[t.ref]
		fR[k] = repaired.Frequencies[t.repaired]
		if fO[k] > 0 {
			exceedPcts[k] = (fR[k] - fO[k]) / fO[k] * 100
		}
	}

	repairType := detectRepairType(exceedPcts)
	if userRepairType != nil {
		repairType = *userRepairType
	}
	strengthening := strengtheningFactor(fO, fR)

	details := make([]ModeDetail, len(triples))
	freqScores := make([]float64, len(triples))
	shapeScores := make([]float64, len(triples))
	dampScores := make([]float64, len(triples))

	for k, t := range triples {
		strategy, asRetrofit := strategyFor(repairType, exceedPcts[k])

		freqScores[k] = strategy.frequencyScore(
			original.Frequencies[t.ref],
			damaged.Frequencies[t.damaged],
			repaired.Frequencies[t.repaired])

		shapeScores[k] = qs.shapeScore(original, repaired, t)
		dampScores[k] = dampingScoreFor(original, damaged, repaired, t)

		details[k] = ModeDetail{
			ReferenceIndex:    t.ref,
			OriginalFreq:      original.Frequencies[t.ref],
			DamagedFreq:       damaged.Frequencies[t.damaged],
			RepairedFreq:      repaired.Frequencies[t.repaired],
			ExceedancePercent: exceedPcts[k],
			FrequencyScore:    freqScores[k],
			ShapeScore:        shapeScores[k],
			DampingScore:      dampScores[k],
			DampingResolved:   t.repaired < len(repaired.Damping) && repaired.Damping[t.repaired].Resolved,
			ScoredAsRetrofit:  asRetrofit,
		}
	}

	freqMean := stat.Mean(freqScores, nil)
	shapeMean := stat.Mean(shapeScores, nil)
	dampMean := stat.Mean(dampScores, nil)
	overall := frequencyWeight*freqMean + shapeWeight*shapeMean + dampingWeight*dampMean

	assessment := &QualityAssessment{
		OverallScore:        overall,
		FrequencyScore:      freqMean,
		ShapeScore:          shapeMean,
		DampingScore:        dampMean,
		RepairType:          repairType,
		RepairTypeName:      repairType.String(),
		StrengtheningFactor: strengthening,
		MatchedModes:        len(triples),
		ModeDetails:         details,
		Interpretation:      interpret(repairType, overall, strengthening),
		Confidence:          confidenceLevel(len(triples)),
	}

	qs.logger.Debug("Repair quality assessed", logging.Fields{
		"matched_modes":        len(triples),
		"repair_type":          repairType.String(),
		"overall_score":        overall,
		"strengthening_factor": strengthening,
	})

	return assessment, nil
}

// shapeScore is the MAC between the original and repaired shapes of one
// matched mode, 0 when shapes are missing or of mismatched sensor count
func (qs *QualityScorer) shapeScore(original, repaired *ModalParameters, t matchedTriple) float64 {
	if t.ref >= len(original.ModeShapes) || t.repaired >= len(repaired.ModeShapes) {
		return 0
	}
	return MAC(original.ModeShapes[t.ref], repaired.ModeShapes[t.repaired])
}

// dampingScoreFor scores 0 for a matched mode whose damping entry is
// missing, mirroring the shape guard for caller-built parameter sets
func dampingScoreFor(original, damaged, repaired *ModalParameters, t matchedTriple) float64 {
	if t.ref >= len(original.Damping) || t.damaged >= len(damaged.Damping) || t.repaired >= len(repaired.Damping) {
		return 0
	}
	return dampingScore(
		original.Damping[t.ref].Ratio,
		damaged.Damping[t.damaged].Ratio,
		repaired.Damping[t.repaired].Ratio)
}

// dampingScore scores damping recovery when damage changed the ratio
// significantly, or similarity to the original when it barely changed
func dampingScore(zO, zD, zR float64) float64 {
	denomZ := math.Abs(zD - zO)
	significant := denomZ > dampingRelChangeThreshold*math.Abs(zO) || denomZ > dampingAbsChangeThreshold

	if significant {
		return clip(1-math.Abs(zR-zO)/math.Max(denomZ, 1e-12), 0, 1)
	}
	return clip(1-math.Abs(zR-zO)/dampingSimilarityDenom, 0, 1)
}

func confidenceLevel(matchedModes int) ConfidenceLevel {
	switch {
	case matchedModes >= 3:
		return ConfidenceHigh
	case matchedModes == 2:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
