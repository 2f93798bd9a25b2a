// Package ivchar implements the linear current-voltage characteristic
// algebra that underlies every two-terminal component: a relation of the
// form a·V + b·I = c, represented as the discriminated pair (A, B, C) with
// A distinguishing a fixed-current form from a general impedance/EMF form.
package ivchar

import (
	"github.com/edp1096/phasorsolve/internal/circuiterr"
	"github.com/edp1096/phasorsolve/pkg/autodiff"
)

// IVChar is a linear current-voltage relation:
//
//	A == false: I = C             (fixed current; B is irrelevant, canonically 1)
//	A == true, B == 0: V = C      (fixed voltage)
//	A == true, B != 0: V + B·I = C, equivalent impedance Z = -B
type IVChar struct {
	A bool
	B complex128
	C complex128
}

// New builds an IVChar directly from its discriminated triple.
func New(a bool, b, c complex128) IVChar {
	return IVChar{A: a, B: b, C: c}
}

// HasFixedCurrent reports whether this characteristic has the form I = C.
func (x IVChar) HasFixedCurrent() bool {
	return !x.A
}

// HasFixedVoltage reports whether this characteristic has the form V = C.
func (x IVChar) HasFixedVoltage() bool {
	return x.A && x.B == 0
}

// ImpedanceCoefficient returns the equivalent impedance -B. Only meaningful
// when neither HasFixedCurrent nor HasFixedVoltage holds.
func (x IVChar) ImpedanceCoefficient() complex128 {
	return -x.B
}

// FreeCoefficient returns C.
func (x IVChar) FreeCoefficient() complex128 {
	return x.C
}

// OpenCircuit is the characteristic of an open circuit: I = 0.
func OpenCircuit() IVChar {
	return IVChar{A: false, B: 1, C: 0}
}

// ShortCircuit is the characteristic of a short circuit: V = 0.
func ShortCircuit() IVChar {
	return IVChar{A: true, B: 0, C: 0}
}

// Invert returns the characteristic seen from the opposite terminal
// ordering: only C flips sign.
func (x IVChar) Invert() IVChar {
	return IVChar{A: x.A, B: x.B, C: -x.C}
}

// SeriesCombine combines two characteristics as if wired terminal-to-terminal.
func SeriesCombine(x, y IVChar) (IVChar, error) {
	if x.HasFixedCurrent() && y.HasFixedCurrent() {
		return IVChar{}, circuiterr.NewConfigurationError("", "cannot connect two constant-current components in series")
	}
	if x.HasFixedCurrent() {
		return x, nil
	}
	if y.HasFixedCurrent() {
		return y, nil
	}
	return IVChar{A: true, B: x.B + y.B, C: x.C + y.C}, nil
}

// ParallelCombine combines two characteristics as if wired across the same
// pair of terminals.
func ParallelCombine(x, y IVChar) (IVChar, error) {
	if x.HasFixedVoltage() && y.HasFixedVoltage() {
		return IVChar{}, circuiterr.NewConfigurationError("", "cannot connect two constant-voltage components in parallel")
	}
	switch {
	case x.HasFixedCurrent() && y.HasFixedCurrent():
		return IVChar{A: false, B: 1, C: x.C + y.C}, nil
	case x.HasFixedCurrent():
		return IVChar{A: true, B: y.B, C: y.C + y.B*x.C}, nil
	case y.HasFixedCurrent():
		return IVChar{A: true, B: x.B, C: x.C + x.B*y.C}, nil
	default:
		denom := x.B + y.B
		return IVChar{
			A: true,
			B: (x.B * y.B) / denom,
			C: (x.C*y.B + y.C*x.B) / denom,
		}, nil
	}
}

// CurrentAtVoltage returns the current I flowing through a component with
// this characteristic when a complex voltage is imposed across it. Invalid
// for a fixed-voltage characteristic.
func CurrentAtVoltage(x IVChar, voltage complex128) (complex128, error) {
	if x.HasFixedVoltage() {
		return 0, circuiterr.NewConfigurationError("", "cannot apply voltage to a constant-voltage component")
	}
	if x.HasFixedCurrent() {
		return x.C, nil
	}
	return (voltage - x.C) / (-x.B), nil
}

// VoltageAtCurrent returns the voltage V across a component with this
// characteristic when a complex current is imposed through it. Invalid for
// a fixed-current characteristic.
func VoltageAtCurrent(x IVChar, current complex128) (complex128, error) {
	if x.HasFixedCurrent() {
		return 0, circuiterr.NewConfigurationError("", "cannot apply current to a constant-current component")
	}
	if x.HasFixedVoltage() {
		return x.C, nil
	}
	return -x.B*current + x.C, nil
}

// CurrentAtVoltageScalar is the autodiff-graph counterpart of
// CurrentAtVoltage, used mid-solve when voltage is a *autodiff.Scalar rather
// than a plain complex number.
func CurrentAtVoltageScalar(x IVChar, voltage *autodiff.Scalar) (*autodiff.Scalar, error) {
	if x.HasFixedVoltage() {
		return nil, circuiterr.NewConfigurationError("", "cannot apply voltage to a constant-voltage component")
	}
	if x.HasFixedCurrent() {
		return autodiff.NewLeaf(x.C), nil
	}
	// (voltage - C) / (-B)
	return autodiff.DivConst(autodiff.SubConst(voltage, x.C), -x.B), nil
}

// VoltageAtCurrentScalar is the autodiff-graph counterpart of
// VoltageAtCurrent.
func VoltageAtCurrentScalar(x IVChar, current *autodiff.Scalar) (*autodiff.Scalar, error) {
	if x.HasFixedCurrent() {
		return nil, circuiterr.NewConfigurationError("", "cannot apply current to a constant-current component")
	}
	if x.HasFixedVoltage() {
		return autodiff.NewLeaf(x.C), nil
	}
	// -B*current + C
	return autodiff.AddConst(autodiff.MulConst(current, -x.B), x.C), nil
}
