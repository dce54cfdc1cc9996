package modal

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/strucsense/modal-assessment/pkg/logging"
)

// Cost weights and bounds for mode correspondence
const (
	freqCostWeight  = 0.6
	shapeCostWeight = 0.4
	// acceptThreshold gates the combined cost. The frequency cost is
	// normalized so that 1.0 sits exactly at the frequency tolerance
	// max(15 Hz, 15% of f). The gate sits at 2.0 in the same
	// dimensionless unit: structural damage and retrofitting move
	// frequencies well past the tolerance (a +30% retrofit shift costs
	// 2.0 x 0.6 = 1.2), so the gate only rejects pairings several times
	// beyond it, with a poor shape match tightening acceptance further.
	acceptThreshold  = 2.0
	freqToleranceHz  = 15.0
	freqTolerancePct = 0.15
	padSentinelCost  = 1e6
)

// MAC computes the Modal Assurance Criterion between two shape vectors,
// clipped to [0, 1]. Returns 0 when either vector has zero norm or the
// lengths differ.
func MAC(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	dot := floats.Dot(a, b)
	aa := floats.Dot(a, a)
	bb := floats.Dot(b, b)
	if aa < 1e-300 || bb < 1e-300 {
		return 0
	}

	return clip(dot*dot/(aa*bb), 0, 1)
}

// ModeMatcher aligns the modes of one structural state to a reference state
// using a combined frequency/shape cost and an optimal assignment
type ModeMatcher struct {
	logger logging.Logger
}

// NewModeMatcher creates a mode matcher
func NewModeMatcher() *ModeMatcher {
	return &ModeMatcher{
		logger: logging.WithFields(logging.Fields{
			"component": "mode_matcher",
		}),
	}
}

// Match returns, indexed by reference-mode position, the matched mode index
// in other or Unmatched
func (m *ModeMatcher) Match(reference, other *ModalParameters) ModeCorrespondence {
	rows := reference.NumModes()
	cols := other.NumModes()

	correspondence := make(ModeCorrespondence, rows)
	for i := range correspondence {
		correspondence[i] = Unmatched
	}
	if rows == 0 || cols == 0 {
		return correspondence
	}

	useShapes := shapesComparable(reference, other)

	combined := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			fc := frequencyCost(reference.Frequencies[i], other.Frequencies[j])
			sc := 0.0
			if useShapes {
				sc = 1 - MAC(reference.ModeShapes[i], other.ModeShapes[j])
			}
			combined.Set(i, j, freqCostWeight*fc+shapeCostWeight*sc)
		}
	}

	// Pad to square with a large sentinel so the assignment is perfect
	n := max(rows, cols)
	padded := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i < rows && j < cols {
				padded.Set(i, j, combined.At(i, j))
			} else {
				padded.Set(i, j, padSentinelCost)
			}
		}
	}

	assignment := solveAssignment(padded)

	matched := 0
	for r, c := range assignment {
		if r >= rows || c >= cols {
			continue
		}
		if combined.At(r, c) <= acceptThreshold {
			correspondence[r] = c
			matched++
		}
	}

	m.logger.Debug("Mode matching completed", logging.Fields{
		"reference_modes": rows,
		"other_modes":     cols,
		"matched":         matched,
		"shapes_used":     useShapes,
	})

	return correspondence
}

// frequencyCost normalizes the frequency deviation by the per-mode
// tolerance max(15 Hz, 15% of the reference frequency)
func frequencyCost(fRef, fOther float64) float64 {
	tolerance := math.Max(freqToleranceHz, freqTolerancePct*math.Max(fRef, 1))
	return math.Abs(fRef-fOther) / tolerance
}

// shapesComparable reports whether both states carry shape vectors with a
// matching sensor count
func shapesComparable(a, b *ModalParameters) bool {
	if len(a.ModeShapes) != a.NumModes() || len(b.ModeShapes) != b.NumModes() {
		return false
	}
	if a.NumModes() == 0 || b.NumModes() == 0 {
		return false
	}
	return len(a.ModeShapes[0]) == len(b.ModeShapes[0]) && len(a.ModeShapes[0]) > 0
}
