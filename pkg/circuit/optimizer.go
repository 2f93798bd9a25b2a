package circuit

import (
	"math"

	"github.com/edp1096/phasorsolve/pkg/autodiff"
)

// Optimizer updates a fixed set of autodiff leaf parameters (node potentials
// and voltage-source branch currents) in the direction that reduces the
// residual KCL loss.
type Optimizer interface {
	// Step applies one parameter update given the current scalar loss.
	Step(loss float64)
	// ZeroGrad clears the accumulated gradient on every parameter, to be
	// called before each loss.Backward().
	ZeroGrad()
}

type baseOptimizer struct {
	params []*autodiff.Scalar
}

func (o *baseOptimizer) ZeroGrad() {
	for _, p := range o.params {
		p.ZeroGrad()
	}
}

// NewtonOptimizer picks a learning rate from the current loss and gradient
// norm on every step. It converges fast on well-conditioned circuits but is
// unstable near-singular ones (Newton in name only: each step is a scaled
// gradient step, not a second-order update).
type NewtonOptimizer struct {
	baseOptimizer
}

// NewNewtonOptimizer builds a NewtonOptimizer over the given parameters.
func NewNewtonOptimizer(params []*autodiff.Scalar) *NewtonOptimizer {
	return &NewtonOptimizer{baseOptimizer{params: params}}
}

func (o *NewtonOptimizer) Step(loss float64) {
	var gradNormSq float64
	for _, p := range o.params {
		gradNormSq += absSq(p.Grad)
	}
	if gradNormSq == 0 {
		return
	}
	lr := 0.01 * loss / gradNormSq
	for _, p := range o.params {
		p.Data -= complex(lr, 0) * conj(p.Grad)
	}
}

// AdamOptimizer implements a variant of the Adam optimizer with an
// exponential-backoff learning rate: the rate is cut by 10x whenever the
// loss regresses, and grown by 1.2x whenever it improves.
type AdamOptimizer struct {
	baseOptimizer
	m          []complex128
	v          []float64
	betaM      float64
	betaV      float64
	betaMPow   float64
	betaVPow   float64
	lr         float64
	prevLoss   float64
}

// NewAdamOptimizer builds an AdamOptimizer over the given parameters.
func NewAdamOptimizer(params []*autodiff.Scalar) *AdamOptimizer {
	o := &AdamOptimizer{
		baseOptimizer: baseOptimizer{params: params},
		m:             make([]complex128, len(params)),
		v:             make([]float64, len(params)),
		betaM:         0.75,
		betaV:         0.9,
		betaMPow:      1,
		betaVPow:      1,
		lr:            1,
		prevLoss:      math.Inf(1),
	}
	return o
}

func (o *AdamOptimizer) Step(loss float64) {
	o.betaMPow *= o.betaM
	o.betaVPow *= o.betaV
	if loss > o.prevLoss {
		o.lr /= 10
	} else {
		o.lr *= 1.2
	}
	for i, p := range o.params {
		o.m[i] = (complex(o.betaM, 0)*o.m[i] + complex(1-o.betaM, 0)*conj(p.Grad)) / complex(1-o.betaMPow, 0)
		o.v[i] = o.betaV*o.v[i] + (1-o.betaV)*absSq(p.Grad)
		p.Data -= complex(o.lr, 0) * o.m[i] / complex(math.Sqrt(o.v[i])+1e-30, 0)
	}
	o.prevLoss = loss
}

func absSq(z complex128) float64 {
	return real(z)*real(z) + imag(z)*imag(z)
}

func conj(z complex128) complex128 {
	return complex(real(z), -imag(z))
}
