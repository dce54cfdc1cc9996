// Package modal turns raw multi-sensor acceleration recordings into modal
// parameters (natural frequencies, damping ratios, mode shapes), matches
// modes across structural states, and scores repair quality, distinguishing
// restoration from retrofitting.
//
// The whole package is a pure, synchronous computation over immutable
// inputs: every entry point is safe to call concurrently.
package modal

// ExtractModalParameters runs the full single-state pipeline on an [N x S]
// sample matrix at the given sample rate
func ExtractModalParameters(samples [][]float64, sampleRate float64, cfg AnalysisConfig) (*ModalParameters, error) {
	return NewExtractor(cfg, nil).Extract(samples, sampleRate, "")
}

// MatchModes aligns the modes of other to the reference state
func MatchModes(reference, other *ModalParameters) ModeCorrespondence {
	return NewModeMatcher().Match(reference, other)
}

// AssessRepairQuality compares the repaired state against the original and
// damaged states and scores the repair. userRepairType forces the scoring
// regime when non-nil; otherwise the regime is detected from the matched
// frequencies.
func AssessRepairQuality(original, damaged, repaired *ModalParameters, userRepairType *RepairType) (*QualityAssessment, error) {
	return NewQualityScorer().Assess(original, damaged, repaired, userRepairType)
}
