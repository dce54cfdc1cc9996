package analyzers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractShapesFollowSensorAmplitudes(t *testing.T) {
	const (
		fs   = 200.0
		freq = 12.5
		n    = 2000
	)

	base := sineSignal(freq, fs, n)
	half := make([]float64, n)
	quarter := make([]float64, n)
	for i, v := range base {
		half[i] = 0.5 * v
		quarter[i] = 0.25 * v
	}

	extractor := NewModeShapeExtractor(fs)
	shapes := extractor.Extract([][]float64{base, half, quarter}, []float64{freq})

	require.Len(t, shapes, 1)
	require.Len(t, shapes[0], 3)
	assert.InDelta(t, 1.0, shapes[0][0], 1e-9)
	assert.InDelta(t, 0.5, shapes[0][1], 0.02)
	assert.InDelta(t, 0.25, shapes[0][2], 0.02)
}

func TestExtractShapesZeroChannelStaysZero(t *testing.T) {
	const (
		fs   = 200.0
		freq = 12.5
		n    = 2000
	)

	extractor := NewModeShapeExtractor(fs)
	shapes := extractor.Extract([][]float64{sineSignal(freq, fs, n), make([]float64, n)}, []float64{freq})

	require.Len(t, shapes, 1)
	assert.InDelta(t, 1.0, shapes[0][0], 1e-9)
	assert.InDelta(t, 0.0, shapes[0][1], 1e-6)
}

func TestExtractShapesEmptyInputs(t *testing.T) {
	extractor := NewModeShapeExtractor(200)
	assert.Nil(t, extractor.Extract(nil, []float64{10}))
	assert.Nil(t, extractor.Extract([][]float64{{1, 2, 3}}, nil))
}

func TestNormalizeShapeZeroVector(t *testing.T) {
	shape := []float64{0, 0, 0}
	normalizeShape(shape)
	assert.Equal(t, []float64{0, 0, 0}, shape)
}
