package analyzers

import (
	"fmt"
	"math"
	"math/cmplx"
)

// biquad is one direct-form-II-transposed second-order section
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// bandpassFilter is a cascade of second-order sections with a single
// output gain
type bandpassFilter struct {
	sections []biquad
	gain     float64
	centerW  float64 // digital center frequency, rad/sample
}

// newButterworthBandpass designs a digital Butterworth bandpass filter of
// the given prototype order via the lowpass-to-bandpass transform and the
// bilinear transform. The passband is [lowHz, highHz] at sample rate fs.
func newButterworthBandpass(order int, lowHz, highHz, fs float64) (*bandpassFilter, error) {
	nyquist := fs / 2
	if order < 1 {
		return nil, fmt.Errorf("filter order must be >= 1, got %d", order)
	}
	if lowHz <= 0 || highHz <= lowHz || highHz >= nyquist {
		return nil, fmt.Errorf("invalid passband [%.3f, %.3f] Hz for fs=%.1f Hz", lowHz, highHz, fs)
	}

	// Prewarped analog band edges
	w1 := 2 * fs * math.Tan(math.Pi*lowHz/fs)
	w2 := 2 * fs * math.Tan(math.Pi*highHz/fs)
	bw := w2 - w1
	w0 := math.Sqrt(w1 * w2)

	// Analog lowpass prototype poles on the left-half unit circle
	prototype := make([]complex128, order)
	for k := 0; k < order; k++ {
		theta := math.Pi/2 + math.Pi*float64(2*k+1)/float64(2*order)
		prototype[k] = cmplx.Exp(complex(0, theta))
	}

	// Lowpass-to-bandpass: each prototype pole p yields the two roots of
	// s^2 - p*bw*s + w0^2 = 0
	analogPoles := make([]complex128, 0, 2*order)
	for _, p := range prototype {
		pb := p * complex(bw, 0)
		disc := cmplx.Sqrt(pb*pb - complex(4*w0*w0, 0))
		analogPoles = append(analogPoles, (pb+disc)/2, (pb-disc)/2)
	}

	// Bilinear transform to the z-plane
	k2 := complex(2*fs, 0)
	digitalPoles := make([]complex128, len(analogPoles))
	for i, s := range analogPoles {
		digitalPoles[i] = (k2 + s) / (k2 - s)
	}
	for _, p := range digitalPoles {
		if cmplx.Abs(p) >= 1 {
			return nil, fmt.Errorf("unstable filter design for passband [%.3f, %.3f] Hz", lowHz, highHz)
		}
	}

	// Pair conjugate poles into sections. The bandpass zeros (order at
	// z=+1, order at z=-1) distribute as (z-1)(z+1) per section.
	dens, err := sectionDenominators(digitalPoles)
	if err != nil {
		return nil, err
	}

	sections := make([]biquad, len(dens))
	for i, d := range dens {
		sections[i] = biquad{b0: 1, b1: 0, b2: -1, a1: d[0], a2: d[1]}
	}

	f := &bandpassFilter{
		sections: sections,
		gain:     1,
		centerW:  2 * math.Atan(w0/(2*fs)),
	}

	// Normalize to unit magnitude response at the center frequency
	resp := f.response(f.centerW)
	if resp < 1e-300 {
		return nil, fmt.Errorf("degenerate filter response for passband [%.3f, %.3f] Hz", lowHz, highHz)
	}
	f.gain = 1 / resp

	return f, nil
}

// sectionDenominators groups poles into conjugate (or real) pairs and
// returns the [a1, a2] denominator coefficients of each pair's quadratic
// (z - p)(z - q) = z^2 + a1*z + a2
func sectionDenominators(poles []complex128) ([][2]float64, error) {
	const tol = 1e-9

	var dens [][2]float64
	var reals []float64
	used := make([]bool, len(poles))

	for i, p := range poles {
		if used[i] {
			continue
		}
		if math.Abs(imag(p)) < tol {
			used[i] = true
			reals = append(reals, real(p))
			continue
		}

		found := false
		for j := i + 1; j < len(poles); j++ {
			if used[j] {
				continue
			}
			if cmplx.Abs(poles[j]-cmplx.Conj(p)) < tol*(1+cmplx.Abs(p)) {
				used[i], used[j] = true, true
				dens = append(dens, [2]float64{-2 * real(p), real(p)*real(p) + imag(p)*imag(p)})
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unpaired complex pole %v", p)
		}
	}

	// Real poles pair among themselves
	for len(reals) >= 2 {
		r1, r2 := reals[0], reals[1]
		reals = reals[2:]
		dens = append(dens, [2]float64{-(r1 + r2), r1 * r2})
	}
	if len(reals) == 1 {
		return nil, fmt.Errorf("odd number of real poles")
	}

	return dens, nil
}

// response evaluates the cascade magnitude response at digital frequency w
func (f *bandpassFilter) response(w float64) float64 {
	z := cmplx.Exp(complex(0, w))
	zi := 1 / z
	h := complex(f.gain, 0)
	for _, s := range f.sections {
		num := complex(s.b0, 0) + complex(s.b1, 0)*zi + complex(s.b2, 0)*zi*zi
		den := 1 + complex(s.a1, 0)*zi + complex(s.a2, 0)*zi*zi
		h *= num / den
	}
	return cmplx.Abs(h)
}

// apply runs the cascade forward over x
func (f *bandpassFilter) apply(x []float64) []float64 {
	y := make([]float64, len(x))
	copy(y, x)

	for _, s := range f.sections {
		var s1, s2 float64
		for i, v := range y {
			out := s.b0*v + s1
			s1 = s.b1*v - s.a1*out + s2
			s2 = s.b2*v - s.a2*out
			y[i] = out
		}
	}

	for i := range y {
		y[i] *= f.gain
	}
	return y
}

// ZeroPhase applies the filter forward and backward, cancelling phase
// distortion (doubling the effective order)
func (f *bandpassFilter) ZeroPhase(x []float64) []float64 {
	y := f.apply(x)
	reverse(y)
	y = f.apply(y)
	reverse(y)
	return y
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
