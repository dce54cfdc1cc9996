package modal

import "math"

// TimeSeries holds a multi-sensor acceleration recording sampled at a fixed
// rate. Data is row-major: Data[n][s] is sample n of sensor s.
type TimeSeries struct {
	Data       [][]float64 `json:"-"`
	SampleRate float64     `json:"sample_rate"`
}

// NewTimeSeries wraps an [N x S] sample matrix. It does not copy the data.
func NewTimeSeries(data [][]float64, sampleRate float64) *TimeSeries {
	return &TimeSeries{Data: data, SampleRate: sampleRate}
}

// NumSamples returns N, the number of samples per sensor
func (ts *TimeSeries) NumSamples() int {
	return len(ts.Data)
}

// NumSensors returns S, the number of sensor channels
func (ts *TimeSeries) NumSensors() int {
	if len(ts.Data) == 0 {
		return 0
	}
	return len(ts.Data[0])
}

// Duration returns the recording length in seconds
func (ts *TimeSeries) Duration() float64 {
	if ts.SampleRate <= 0 {
		return 0
	}
	return float64(ts.NumSamples()) / ts.SampleRate
}

// Channel extracts one sensor's samples as a contiguous slice
func (ts *TimeSeries) Channel(s int) []float64 {
	out := make([]float64, len(ts.Data))
	for n, row := range ts.Data {
		out[n] = row[s]
	}
	return out
}

// Averaged returns the sensor-averaged signal, one value per sample
func (ts *TimeSeries) Averaged() []float64 {
	n := ts.NumSamples()
	s := ts.NumSensors()
	out := make([]float64, n)
	if s == 0 {
		return out
	}

	for i, row := range ts.Data {
		sum := 0.0
		for _, v := range row {
			sum += v
		}
		out[i] = sum / float64(s)
	}
	return out
}

// FrequencySpectrum is a one-sided magnitude spectrum with magnitudes
// normalized to a unit maximum. Frequencies ascend from 0 to Nyquist.
type FrequencySpectrum struct {
	Frequencies []float64 `json:"frequencies"`
	Magnitudes  []float64 `json:"magnitudes"`
	Resolution  float64   `json:"resolution"` // Hz per bin
}

// DampingEstimate is a per-mode damping ratio with an explicit resolution
// flag. Unresolved estimates are patched by the median fallback before the
// ModalParameters is constructed, so Resolved records the fit outcome, not
// whether Ratio is usable.
type DampingEstimate struct {
	Ratio    float64 `json:"ratio"`
	Resolved bool    `json:"resolved"`
	RSquared float64 `json:"r_squared"`
}

// ModalParameters holds the extracted modal model of one structural state.
// Frequencies ascend; ModeShapes and Damping run parallel to Frequencies.
type ModalParameters struct {
	StateLabel  string             `json:"state_label,omitempty"`
	Frequencies []float64          `json:"frequencies"`
	ModeShapes  [][]float64        `json:"mode_shapes"`
	Damping     []DampingEstimate  `json:"damping"`
	Spectrum    *FrequencySpectrum `json:"spectrum,omitempty"`
	SampleRate  float64            `json:"sample_rate"`
	NumSensors  int                `json:"num_sensors"`
}

// NumModes returns the number of identified modes
func (mp *ModalParameters) NumModes() int {
	return len(mp.Frequencies)
}

// ModeCorrespondence maps reference-mode index to the matched mode index in
// another state, or Unmatched. Built per comparison, not persisted.
type ModeCorrespondence []int

// Unmatched marks a reference mode with no acceptable counterpart
const Unmatched = -1

// Match returns the matched index for reference mode i, if any
func (mc ModeCorrespondence) Match(i int) (int, bool) {
	if i < 0 || i >= len(mc) || mc[i] == Unmatched {
		return 0, false
	}
	return mc[i], true
}

// MatchedCount returns the number of reference modes with a counterpart
func (mc ModeCorrespondence) MatchedCount() int {
	count := 0
	for _, j := range mc {
		if j != Unmatched {
			count++
		}
	}
	return count
}

// RepairType classifies the detected (or caller-forced) repair strategy
type RepairType int

const (
	// RepairRestoration means the repair aims to return the structure to
	// its original condition
	RepairRestoration RepairType = iota
	// RepairRetrofitting means the repair intentionally strengthens the
	// structure beyond its original condition
	RepairRetrofitting
	// RepairMixed means some modes were strengthened and some restored
	RepairMixed
)

func (rt RepairType) String() string {
	switch rt {
	case RepairRestoration:
		return "restoration"
	case RepairRetrofitting:
		return "retrofitting"
	case RepairMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// ConfidenceLevel reflects how many matched modes backed an assessment
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// ModeDetail is the per-mode breakdown of a quality assessment
type ModeDetail struct {
	ReferenceIndex    int     `json:"reference_index"`
	OriginalFreq      float64 `json:"original_freq"`
	DamagedFreq       float64 `json:"damaged_freq"`
	RepairedFreq      float64 `json:"repaired_freq"`
	ExceedancePercent float64 `json:"exceedance_percent"`
	FrequencyScore    float64 `json:"frequency_score"`
	ShapeScore        float64 `json:"shape_score"`
	DampingScore      float64 `json:"damping_score"`
	DampingResolved   bool    `json:"damping_resolved"`
	ScoredAsRetrofit  bool    `json:"scored_as_retrofit"`
}

// QualityAssessment is the final repair-quality artifact
type QualityAssessment struct {
	OverallScore        float64         `json:"overall_score"`
	FrequencyScore      float64         `json:"frequency_score"`
	ShapeScore          float64         `json:"shape_score"`
	DampingScore        float64         `json:"damping_score"`
	RepairType          RepairType      `json:"-"`
	RepairTypeName      string          `json:"repair_type"`
	StrengtheningFactor float64         `json:"strengthening_factor"`
	MatchedModes        int             `json:"matched_modes"`
	ModeDetails         []ModeDetail    `json:"mode_details"`
	Interpretation      string          `json:"interpretation"`
	Confidence          ConfidenceLevel `json:"confidence"`
}

// AnalysisConfig is the analysis configuration record consumed by the
// extraction pipeline
type AnalysisConfig struct {
	MaxModes int     `json:"max_modes"`
	MinFreq  float64 `json:"min_freq"`
	MaxFreq  float64 `json:"max_freq"`
	BandHz   float64 `json:"band_hz"` // bandpass half-width override, 0 = automatic
}

// DefaultAnalysisConfig returns the standard low-rise test configuration
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		MaxModes: 5,
		MinFreq:  0.5,
		MaxFreq:  50.0,
		BandHz:   0,
	}
}

func clip(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
