package analyzers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestButterworthBandpassResponse(t *testing.T) {
	f, err := newButterworthBandpass(4, 8, 12, 200)
	require.NoError(t, err)

	toW := func(hz float64) float64 { return 2 * math.Pi * hz / 200 }

	assert.InDelta(t, 1.0, f.response(toW(10)), 0.05)
	assert.Less(t, f.response(toW(2)), 1e-3)
	assert.Less(t, f.response(toW(40)), 1e-3)
}

func TestButterworthBandpassInvalidDesigns(t *testing.T) {
	_, err := newButterworthBandpass(0, 8, 12, 200)
	assert.Error(t, err)

	_, err = newButterworthBandpass(4, 12, 8, 200)
	assert.Error(t, err)

	_, err = newButterworthBandpass(4, 8, 120, 200)
	assert.Error(t, err)

	_, err = newButterworthBandpass(4, -1, 12, 200)
	assert.Error(t, err)
}

func TestZeroPhasePreservesPassbandSine(t *testing.T) {
	const (
		sampleRate = 200.0
		freq       = 10.0
		n          = 2000
	)
	signal := make([]float64, n)
	for i := 0; i < n; i++ {
		signal[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}

	f, err := newButterworthBandpass(4, 8, 12, sampleRate)
	require.NoError(t, err)

	filtered := f.ZeroPhase(signal)
	require.Len(t, filtered, n)

	// Away from the edge transients the output should track the input
	// with no phase shift
	for i := n / 3; i < 2*n/3; i++ {
		assert.InDelta(t, signal[i], filtered[i], 0.05)
	}
}

func TestZeroPhaseRejectsStopbandSine(t *testing.T) {
	const (
		sampleRate = 200.0
		n          = 2000
	)
	signal := make([]float64, n)
	for i := 0; i < n; i++ {
		signal[i] = math.Sin(2 * math.Pi * 45 * float64(i) / sampleRate)
	}

	f, err := newButterworthBandpass(4, 8, 12, sampleRate)
	require.NoError(t, err)

	filtered := f.ZeroPhase(signal)
	for i := n / 3; i < 2*n/3; i++ {
		assert.Less(t, math.Abs(filtered[i]), 1e-3)
	}
}

func TestHilbertEnvelopeOfModulatedSine(t *testing.T) {
	const (
		sampleRate = 200.0
		n          = 1000
	)
	signal := make([]float64, n)
	for i := 0; i < n; i++ {
		t0 := float64(i) / sampleRate
		signal[i] = math.Exp(-0.5*t0) * math.Sin(2*math.Pi*20*t0)
	}

	env := envelope(signal)
	require.Len(t, env, n)

	// The analytic envelope should follow the exponential decay away
	// from the record edges
	for i := 100; i < n-100; i++ {
		want := math.Exp(-0.5 * float64(i) / sampleRate)
		assert.InDelta(t, want, env[i], 0.05*want+0.01)
	}
}
