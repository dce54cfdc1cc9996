package analyzers

import "gonum.org/v1/gonum/mat"

// savitzkyGolay smooths y with a Savitzky-Golay filter of the given odd
// window length and polynomial order. Edge samples that do not admit a full
// window are passed through unchanged. Returns y itself when the input is
// shorter than the window or the parameters are invalid.
func savitzkyGolay(y []float64, windowLen, order int) []float64 {
	if windowLen%2 == 0 || windowLen < 3 || order >= windowLen || len(y) < windowLen {
		return y
	}

	coeffs, err := savgolCoefficients(windowLen, order)
	if err != nil {
		return y
	}

	half := windowLen / 2
	out := make([]float64, len(y))
	copy(out, y)

	for i := half; i < len(y)-half; i++ {
		acc := 0.0
		for j := 0; j < windowLen; j++ {
			acc += coeffs[j] * y[i-half+j]
		}
		out[i] = acc
	}
	return out
}

// savgolCoefficients computes the central smoothing coefficients: row zero
// of the pseudo-inverse (A'A)^-1 A' of the polynomial design matrix over
// window offsets -half..half.
func savgolCoefficients(windowLen, order int) ([]float64, error) {
	half := windowLen / 2

	a := mat.NewDense(windowLen, order+1, nil)
	for i := 0; i < windowLen; i++ {
		x := float64(i - half)
		p := 1.0
		for j := 0; j <= order; j++ {
			a.Set(i, j, p)
			p *= x
		}
	}

	var ata mat.Dense
	ata.Mul(a.T(), a)

	var inv mat.Dense
	if err := inv.Inverse(&ata); err != nil {
		return nil, err
	}

	var pinv mat.Dense
	pinv.Mul(&inv, a.T())

	return mat.Row(nil, 0, &pinv), nil
}
