package assessment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/strucsense/modal-assessment/pkg/logging"
	"github.com/strucsense/modal-assessment/pkg/modal"
)

// Orchestrator coordinates the three-state assessment pipeline: three
// independent extractions run in parallel, followed by matching and scoring
// which depend on all three completing
type Orchestrator struct {
	extractor      *modal.Extractor
	userRepairType *modal.RepairType
	logger         logging.Logger
}

// Config contains configuration for the orchestrator
type Config struct {
	Analysis       modal.AnalysisConfig
	UserRepairType *modal.RepairType
	Logger         logging.Logger
}

// NewOrchestrator creates an assessment orchestrator
func NewOrchestrator(cfg *Config) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	return &Orchestrator{
		extractor:      modal.NewExtractor(cfg.Analysis, logger),
		userRepairType: cfg.UserRepairType,
		logger:         logger,
	}
}

// Run extracts modal parameters for the three states concurrently, then
// matches and scores. Validation failures from any state abort the run.
func (o *Orchestrator) Run(ctx context.Context, original, damaged, repaired StateRecording) (*Result, error) {
	totalStart := time.Now()

	recordings := []StateRecording{original, damaged, repaired}
	labels := []string{StateOriginal, StateDamaged, StateRepaired}
	for i := range recordings {
		if recordings[i].Label == "" {
			recordings[i].Label = labels[i]
		}
	}

	// Labels key the states map, so a shared label would silently score one
	// extraction as two different states
	seen := make(map[string]int, len(recordings))
	for i, rec := range recordings {
		if prev, ok := seen[rec.Label]; ok {
			return nil, fmt.Errorf("recordings %d and %d share the label %q", prev, i, rec.Label)
		}
		seen[rec.Label] = i
	}

	o.logger.Debug("Starting three-state assessment", logging.Fields{
		"original_samples": len(original.Samples),
		"damaged_samples":  len(damaged.Samples),
		"repaired_samples": len(repaired.Samples),
	})

	extractionStart := time.Now()
	states := make(map[string]*modal.ModalParameters, len(recordings))
	var mu sync.Mutex

	var g errgroup.Group
	for _, rec := range recordings {
		rec := rec
		g.Go(func() error {
			params, err := o.extractor.Extract(rec.Samples, rec.SampleRate, rec.Label)
			if err != nil {
				return fmt.Errorf("extracting %s state: %w", rec.Label, err)
			}

			mu.Lock()
			states[rec.Label] = params
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	extractionTime := time.Since(extractionStart)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	assessmentResult, err := modal.AssessRepairQuality(
		states[recordings[0].Label],
		states[recordings[1].Label],
		states[recordings[2].Label],
		o.userRepairType)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Assessment:     assessmentResult,
		States:         states,
		ExtractionTime: extractionTime,
		TotalTime:      time.Since(totalStart),
	}

	o.logger.Debug("Assessment completed", logging.Fields{
		"extraction_ms": extractionTime.Milliseconds(),
		"total_ms":      result.TotalTime.Milliseconds(),
		"matched_modes": assessmentResult.MatchedModes,
		"overall_score": assessmentResult.OverallScore,
		"repair_type":   assessmentResult.RepairTypeName,
	})

	return result, nil
}
