package modal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stateParams builds a three-sensor modal model with identical shapes and a
// uniform damping ratio for every mode
func stateParams(freqs []float64, zeta float64) *ModalParameters {
	shapes := make([][]float64, len(freqs))
	damping := make([]DampingEstimate, len(freqs))
	for i := range freqs {
		shapes[i] = []float64{1, 0.8, 0.5}
		damping[i] = DampingEstimate{Ratio: zeta, Resolved: true, RSquared: 0.9}
	}
	return &ModalParameters{
		Frequencies: freqs,
		ModeShapes:  shapes,
		Damping:     damping,
		NumSensors:  3,
	}
}

func TestAssessFullRestoration(t *testing.T) {
	original := stateParams([]float64{10, 20, 30}, 0.02)
	damaged := stateParams([]float64{8, 16, 24}, 0.02)
	repaired := stateParams([]float64{10, 20, 30}, 0.02)

	result, err := NewQualityScorer().Assess(original, damaged, repaired, nil)
	require.NoError(t, err)

	assert.Equal(t, RepairRestoration, result.RepairType)
	assert.Equal(t, 3, result.MatchedModes)
	assert.Equal(t, ConfidenceHigh, result.Confidence)
	assert.InDelta(t, 1.0, result.FrequencyScore, 1e-9)
	assert.InDelta(t, 1.0, result.ShapeScore, 1e-9)
	assert.InDelta(t, 1.0, result.DampingScore, 1e-9)
	assert.InDelta(t, 1.0, result.OverallScore, 1e-9)
	assert.InDelta(t, 1.0, result.StrengtheningFactor, 1e-9)
	assert.Contains(t, result.Interpretation, "excellent restoration")

	require.Len(t, result.ModeDetails, 3)
	for _, d := range result.ModeDetails {
		assert.False(t, d.ScoredAsRetrofit)
		assert.InDelta(t, 1.0, d.FrequencyScore, 1e-9)
	}
}

func TestAssessFailedRestorationScoresZeroFrequency(t *testing.T) {
	original := stateParams([]float64{10, 20, 30}, 0.02)
	damaged := stateParams([]float64{8, 16, 24}, 0.02)
	repaired := stateParams([]float64{8, 16, 24}, 0.02)

	result, err := NewQualityScorer().Assess(original, damaged, repaired, nil)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, result.FrequencyScore, 1e-9)
	// Shapes and damping still match the original, so the aggregate lands
	// on their combined weight
	assert.InDelta(t, 0.5, result.OverallScore, 1e-9)
	assert.Contains(t, result.Interpretation, "fair")
}

func TestAssessMissingDampingDegradesInsteadOfPanicking(t *testing.T) {
	original := stateParams([]float64{10, 20, 30}, 0.02)
	damaged := stateParams([]float64{8, 16, 24}, 0.02)
	repaired := stateParams([]float64{10, 20, 30}, 0.02)
	repaired.Damping = repaired.Damping[:1]

	result, err := NewQualityScorer().Assess(original, damaged, repaired, nil)
	require.NoError(t, err)

	require.Len(t, result.ModeDetails, 3)
	assert.InDelta(t, 1.0, result.ModeDetails[0].DampingScore, 1e-9)
	assert.True(t, result.ModeDetails[0].DampingResolved)
	for _, d := range result.ModeDetails[1:] {
		assert.Zero(t, d.DampingScore)
		assert.False(t, d.DampingResolved)
	}
	assert.InDelta(t, 1.0/3, result.DampingScore, 1e-9)
}

func TestAssessRetrofittingDetection(t *testing.T) {
	original := stateParams([]float64{100, 200, 300}, 0.02)
	damaged := stateParams([]float64{80, 160, 240}, 0.02)
	repaired := stateParams([]float64{130, 260, 390}, 0.02)

	result, err := NewQualityScorer().Assess(original, damaged, repaired, nil)
	require.NoError(t, err)

	assert.Equal(t, RepairRetrofitting, result.RepairType)
	assert.Equal(t, "retrofitting", result.RepairTypeName)
	assert.InDelta(t, 1.3, result.StrengtheningFactor, 1e-9)
	// A 30% gain clears the 20% overshoot cap, so every mode scores full
	assert.InDelta(t, 1.0, result.FrequencyScore, 1e-9)
	assert.Contains(t, result.Interpretation, "retrofitting")

	for _, d := range result.ModeDetails {
		assert.True(t, d.ScoredAsRetrofit)
		assert.InDelta(t, 30.0, d.ExceedancePercent, 1e-9)
	}
}

func TestAssessUserForcedRepairType(t *testing.T) {
	original := stateParams([]float64{10, 20, 30}, 0.02)
	damaged := stateParams([]float64{8, 16, 24}, 0.02)
	repaired := stateParams([]float64{10, 20, 30}, 0.02)

	forced := RepairRetrofitting
	result, err := NewQualityScorer().Assess(original, damaged, repaired, &forced)
	require.NoError(t, err)

	assert.Equal(t, RepairRetrofitting, result.RepairType)
	// Under the retrofitting formula, landing exactly on the original
	// frequency earns the 0.5 base with no overshoot credit
	assert.InDelta(t, 0.5, result.FrequencyScore, 1e-9)
	for _, d := range result.ModeDetails {
		assert.True(t, d.ScoredAsRetrofit)
	}
}

func TestAssessUnmatchableModes(t *testing.T) {
	original := stateParams([]float64{10}, 0.02)
	damaged := stateParams([]float64{80}, 0.02)
	repaired := stateParams([]float64{10}, 0.02)

	result, err := NewQualityScorer().Assess(original, damaged, repaired, nil)
	assert.Nil(t, result)

	var assessErr *AssessmentError
	require.True(t, errors.As(err, &assessErr))
	assert.Equal(t, ErrCodeUnmatchableModes, assessErr.Code)
}

func TestAssessConfidenceLevels(t *testing.T) {
	result, err := NewQualityScorer().Assess(
		stateParams([]float64{10, 20}, 0.02),
		stateParams([]float64{9, 18}, 0.02),
		stateParams([]float64{10, 20}, 0.02), nil)
	require.NoError(t, err)
	assert.Equal(t, ConfidenceMedium, result.Confidence)

	result, err = NewQualityScorer().Assess(
		stateParams([]float64{10}, 0.02),
		stateParams([]float64{9}, 0.02),
		stateParams([]float64{10}, 0.02), nil)
	require.NoError(t, err)
	assert.Equal(t, ConfidenceLow, result.Confidence)
}

func TestDampingScoreBranches(t *testing.T) {
	// Damage changed the ratio: score recovery toward the original
	assert.InDelta(t, 1.0, dampingScore(0.02, 0.04, 0.02), 1e-12)
	assert.InDelta(t, 0.0, dampingScore(0.02, 0.04, 0.04), 1e-12)
	assert.InDelta(t, 0.5, dampingScore(0.02, 0.04, 0.03), 1e-12)

	// Damage barely changed the ratio: score similarity to the original
	assert.InDelta(t, 0.5, dampingScore(0.02, 0.0201, 0.03), 1e-9)
	assert.InDelta(t, 1.0, dampingScore(0.02, 0.0201, 0.02), 1e-9)
}

func TestDetectRepairType(t *testing.T) {
	assert.Equal(t, RepairRestoration, detectRepairType(nil))
	assert.Equal(t, RepairRestoration, detectRepairType([]float64{0, 1, -2}))
	assert.Equal(t, RepairRetrofitting, detectRepairType([]float64{10, 25, 8}))
	assert.Equal(t, RepairMixed, detectRepairType([]float64{10, 12, 0}))
}

func TestStrategyForMixedRegime(t *testing.T) {
	strategy, asRetrofit := strategyFor(RepairMixed, 10)
	assert.True(t, asRetrofit)
	assert.IsType(t, retrofittingStrategy{}, strategy)

	strategy, asRetrofit = strategyFor(RepairMixed, 1)
	assert.False(t, asRetrofit)
	assert.IsType(t, restorationStrategy{}, strategy)
}

func TestRetrofittingPartialRecovery(t *testing.T) {
	// Repaired below original: half credit scaled by restoration progress
	score := retrofittingStrategy{}.frequencyScore(100, 80, 90)
	assert.InDelta(t, 0.25, score, 1e-12)

	// Controlled overshoot: graduated credit up to the 20% cap
	score = retrofittingStrategy{}.frequencyScore(100, 80, 110)
	assert.InDelta(t, 0.75, score, 1e-12)
}

func TestStrengtheningFactor(t *testing.T) {
	assert.InDelta(t, 1.3, strengtheningFactor([]float64{100, 200}, []float64{130, 260}), 1e-9)
	assert.Equal(t, 1.0, strengtheningFactor(nil, nil))
	assert.Equal(t, 1.0, strengtheningFactor([]float64{0}, []float64{5}))
}
