// Package autodiff implements a small reverse-mode automatic differentiation
// engine over complex scalars. It exists to let circuit.Solver compute the
// gradient of a real-valued residual loss with respect to a vector of
// complex unknowns (node potentials and voltage-source branch currents)
// without hand-deriving the Kirchhoff-law Jacobian.
//
// The gradient convention follows Wirtinger calculus: for a real loss L of a
// complex variable z = x + iy, grad stores ∂L/∂x − i·∂L/∂y. Parameter
// updates (see circuit.Optimizer) subtract a step proportional to the
// conjugate of grad, which is the direction of steepest descent for a
// holomorphic-in-the-Wirtinger-sense real loss.
package autodiff

import "math"

// Scalar is a single node in the reverse-mode computation graph.
//
// A leaf has no parents and an empty op; only leaves may be treated as
// optimizer parameters. Interior nodes are produced by the operations below
// and are expected to live only for the duration of one loss evaluation —
// callers discard them once Backward has run and a fresh graph is built for
// the next iteration.
type Scalar struct {
	Data complex128
	Grad complex128

	op       string
	parents  []*Scalar
	backward func()
}

// NewLeaf creates a parameter-eligible scalar with no parents.
func NewLeaf(data complex128) *Scalar {
	return &Scalar{Data: data}
}

// IsLeaf reports whether s has no parents, i.e. is eligible to be an
// optimizer parameter.
func (s *Scalar) IsLeaf() bool {
	return s.op == ""
}

// ZeroGrad resets the accumulated gradient to zero. Called by
// circuit.Optimizer.ZeroGrad before each backward pass.
func (s *Scalar) ZeroGrad() {
	s.Grad = 0
}

func node(op string, data complex128, parents ...*Scalar) *Scalar {
	return &Scalar{Data: data, op: op, parents: parents}
}

// Add returns a+b, and during Backward adds out.Grad to both operands.
func Add(a, b *Scalar) *Scalar {
	out := node("+", a.Data+b.Data, a, b)
	out.backward = func() {
		a.Grad += out.Grad
		b.Grad += out.Grad
	}
	return out
}

// AddConst returns a+k for a real/complex constant k.
func AddConst(a *Scalar, k complex128) *Scalar {
	out := node("+k", a.Data+k, a)
	out.backward = func() {
		a.Grad += out.Grad
	}
	return out
}

// Neg returns -a.
func Neg(a *Scalar) *Scalar {
	return MulConst(a, -1)
}

// Sub returns a-b.
func Sub(a, b *Scalar) *Scalar {
	return Add(a, Neg(b))
}

// SubConst returns a-k.
func SubConst(a *Scalar, k complex128) *Scalar {
	return AddConst(a, -k)
}

// Mul returns a*b, propagating ∂L/∂a += b.Data·out.Grad and symmetrically
// for b — the product rule.
func Mul(a, b *Scalar) *Scalar {
	out := node("*", a.Data*b.Data, a, b)
	out.backward = func() {
		a.Grad += b.Data * out.Grad
		b.Grad += a.Data * out.Grad
	}
	return out
}

// MulConst returns k*a.
func MulConst(a *Scalar, k complex128) *Scalar {
	out := node("*k", k*a.Data, a)
	out.backward = func() {
		a.Grad += k * out.Grad
	}
	return out
}

// DivConst returns a/k for a nonzero constant k. Division by a non-constant
// scalar is intentionally unsupported: the loss in circuit.Solver never
// needs it, and its Wirtinger derivative would require a full complex
// chain-rule term that the rest of this engine does not carry.
func DivConst(a *Scalar, k complex128) *Scalar {
	out := node("/k", a.Data/k, a)
	out.backward = func() {
		a.Grad += out.Grad / k
	}
	return out
}

// AbsSquared returns |a|^2 as a real-valued (zero-imaginary) scalar. Its
// gradient is 2·conj(a)·Re(out.Grad): the loss built from AbsSquared is
// real-valued, so only the real part of the upstream gradient is physically
// meaningful here.
func AbsSquared(a *Scalar) *Scalar {
	d := a.Data
	out := node(".abs2", complex(real(d)*real(d)+imag(d)*imag(d), 0), a)
	out.backward = func() {
		a.Grad += 2 * complexConj(d) * complex(real(out.Grad), 0)
	}
	return out
}

// Real returns Re(a) as a real-valued scalar.
func Real(a *Scalar) *Scalar {
	out := node(".real", complex(real(a.Data), 0), a)
	out.backward = func() {
		a.Grad += complex(real(out.Grad), 0)
	}
	return out
}

// Imag returns i·Im(a) as a scalar (purely imaginary in Data).
func Imag(a *Scalar) *Scalar {
	out := node(".imag", complex(0, imag(a.Data)), a)
	out.backward = func() {
		a.Grad += complex(0, -1) * complex(real(out.Grad), 0)
	}
	return out
}

// Arg returns arg(a) (the principal phase angle) as a real-valued scalar.
func Arg(a *Scalar) *Scalar {
	d := a.Data
	out := node(".arg", complex(phase(d), 0), a)
	out.backward = func() {
		denom := real(d)*real(d) + imag(d)*imag(d)
		a.Grad += -complex(real(out.Grad), 0) * complex(imag(d), real(d)) / complex(denom, 0)
	}
	return out
}

// Backward runs reverse-mode differentiation rooted at s: it topologically
// sorts the unique ancestors via a DFS, seeds s.Grad = 1, then invokes each
// node's backward closure in reverse topological order so that every
// parent's grad has fully accumulated before it is itself propagated.
func (s *Scalar) Backward() {
	var topo []*Scalar
	visited := make(map[*Scalar]bool)

	var visit func(v *Scalar)
	visit = func(v *Scalar) {
		if visited[v] {
			return
		}
		visited[v] = true
		for _, p := range v.parents {
			visit(p)
		}
		topo = append(topo, v)
	}
	visit(s)

	s.Grad = 1
	for i := len(topo) - 1; i >= 0; i-- {
		if topo[i].backward != nil {
			topo[i].backward()
		}
	}
}

func complexConj(z complex128) complex128 {
	return complex(real(z), -imag(z))
}

// phase computes the principal argument of z, matching cmath.phase.
func phase(z complex128) float64 {
	return math.Atan2(imag(z), real(z))
}
