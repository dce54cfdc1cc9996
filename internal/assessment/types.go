package assessment

import (
	"time"

	"github.com/strucsense/modal-assessment/pkg/modal"
)

// State labels used by the three-state pipeline
const (
	StateOriginal = "original"
	StateDamaged  = "damaged"
	StateRepaired = "repaired"
)

// StateRecording is one structural state's raw recording: an [N x S]
// sample matrix plus its sample rate
type StateRecording struct {
	Label      string
	Samples    [][]float64
	SampleRate float64
}

// Result bundles the assessment with the per-state modal parameters and
// pipeline timing
type Result struct {
	Assessment     *modal.QualityAssessment          `json:"assessment"`
	States         map[string]*modal.ModalParameters `json:"states"`
	ExtractionTime time.Duration                     `json:"extraction_time"`
	TotalTime      time.Duration                     `json:"total_time"`
}
