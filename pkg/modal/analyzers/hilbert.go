package analyzers

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// envelope returns the magnitude of the analytic signal (Hilbert transform)
// of x. The analytic signal is formed in the frequency domain by doubling
// positive-frequency content and zeroing negative frequencies.
func envelope(x []float64) []float64 {
	n := len(x)
	if n == 0 {
		return nil
	}

	spectrum := fft.FFTReal(x)

	// DC (and Nyquist for even n) keep unit weight
	half := n / 2
	for i := 1; i < half; i++ {
		spectrum[i] *= 2
	}
	if n%2 != 0 && half >= 1 {
		spectrum[half] *= 2
	}
	for i := half + 1; i < n; i++ {
		spectrum[i] = 0
	}

	analytic := fft.IFFT(spectrum)

	env := make([]float64, n)
	for i, c := range analytic {
		env[i] = cmplx.Abs(c)
	}
	return env
}
