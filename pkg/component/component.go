// Package component implements the two-terminal component algebra: building,
// combining and evaluating elementary and composite linear circuit elements,
// and propagating imposed current/voltage through a composite tree.
//
// A component's electrical state (current, voltage) is always carried as an
// *autodiff.Scalar. Outside of a solve this is simply a leaf wrapping a
// constant complex128 — see autodiff.NewLeaf — so callers that only care
// about the finalized numeric result read State().Current.Data /
// State().Voltage.Data without needing to know whether a solve ever ran
// symbolically.
package component

import (
	"iter"

	"github.com/edp1096/phasorsolve/pkg/autodiff"
	"github.com/edp1096/phasorsolve/pkg/ivchar"
)

// Kind discriminates the concrete variant of a Component, mirroring the
// ComponentType sum type of the reference design.
type Kind int

const (
	KindVSource Kind = iota
	KindISource
	KindResistor
	KindCapacitor
	KindInductor
	KindImpedance
	KindSeries
	KindParallel
)

func (k Kind) String() string {
	switch k {
	case KindVSource:
		return "IDEAL_V_SOURCE"
	case KindISource:
		return "IDEAL_I_SOURCE"
	case KindResistor:
		return "RESISTOR"
	case KindCapacitor:
		return "CAPACITOR"
	case KindInductor:
		return "INDUCTOR"
	case KindImpedance:
		return "IMPEDANCE"
	case KindSeries:
		return "SERIES"
	case KindParallel:
		return "PARALLEL"
	default:
		return "UNKNOWN"
	}
}

// State is the electrical state of a component: the current flowing through
// it and the voltage across its terminals.
type State struct {
	Current *autodiff.Scalar
	Voltage *autodiff.Scalar
}

// Component is satisfied by every elementary and composite two-terminal
// circuit element.
type Component interface {
	// Label returns the component's opaque identifier.
	Label() string

	// Kind reports the concrete variant.
	Kind() Kind

	// Orientation returns +1 or -1.
	Orientation() int

	// FlipInPlace negates the component's orientation and returns it, so
	// that ~c mutates and returns the same identity (components are never
	// copied when flipped).
	FlipInPlace() Component

	// Characteristic returns the component's current-voltage
	// characteristic at ω, inverted for orientation == -1 when
	// withOrientation is true. Results are cached per ω.
	Characteristic(omega float64, withOrientation bool) (ivchar.IVChar, error)

	// ApplyCurrent imposes a current through the component, updating its
	// electrical state. When recursive is true and the component is a
	// composite, the current is also propagated to its children.
	ApplyCurrent(current *autodiff.Scalar, omega float64, recursive bool) error

	// ApplyVoltage imposes a voltage across the component, symmetric to
	// ApplyCurrent.
	ApplyVoltage(voltage *autodiff.Scalar, omega float64, recursive bool) error

	// State returns the component's current electrical state, or a zero
	// State if ApplyCurrent/ApplyVoltage has never been called.
	State() State

	// All yields the component itself (for an elementary component) or
	// every elementary descendant, including singular slots (for a
	// composite), in the teacher corpus's range-over-func iterator idiom.
	All() iter.Seq[Component]
}

// baseComponent holds the state shared by every Component implementation:
// label, orientation, the (ω, characteristic) cache, and electrical state.
type baseComponent struct {
	label       string
	orientation int

	haveCache   bool
	cachedOmega float64
	cachedChar  ivchar.IVChar

	current *autodiff.Scalar
	voltage *autodiff.Scalar
}

func newBase(label string) baseComponent {
	return baseComponent{label: label, orientation: 1}
}

func (b *baseComponent) Label() string    { return b.label }
func (b *baseComponent) Orientation() int { return b.orientation }
func (b *baseComponent) State() State     { return State{Current: b.current, Voltage: b.voltage} }

// characteristic applies the shared caching policy: recompute raw(omega)
// only when the cache is empty or was computed for a different ω, then
// apply orientation lazily on every call.
func (b *baseComponent) characteristic(omega float64, withOrientation bool, raw func(float64) (ivchar.IVChar, error)) (ivchar.IVChar, error) {
	if !b.haveCache || b.cachedOmega != omega {
		c, err := raw(omega)
		if err != nil {
			return ivchar.IVChar{}, err
		}
		b.cachedChar = c
		b.cachedOmega = omega
		b.haveCache = true
	}
	if withOrientation && b.orientation == -1 {
		return b.cachedChar.Invert(), nil
	}
	return b.cachedChar, nil
}

// applyCurrent sets own state from an imposed current using the component's
// own (non-oriented) characteristic; callers pass a current already scaled
// by this component's orientation.
func (b *baseComponent) applyCurrent(current *autodiff.Scalar, omega float64, raw func(float64) (ivchar.IVChar, error)) error {
	ch, err := b.characteristic(omega, false, raw)
	if err != nil {
		return err
	}
	voltage, err := ivchar.VoltageAtCurrentScalar(ch, current)
	if err != nil {
		return err
	}
	b.current = current
	b.voltage = voltage
	return nil
}

func (b *baseComponent) applyVoltage(voltage *autodiff.Scalar, omega float64, raw func(float64) (ivchar.IVChar, error)) error {
	ch, err := b.characteristic(omega, false, raw)
	if err != nil {
		return err
	}
	current, err := ivchar.CurrentAtVoltageScalar(ch, voltage)
	if err != nil {
		return err
	}
	b.current = current
	b.voltage = voltage
	return nil
}

// InSeries combines two components in series. Whichever operand is already
// a *Series absorbs the other in place; if both are, a absorbs b; if
// neither, a new Series wraps both in order (mirrors the reference's
// in_series_with dispatch, which always lets the Series-typed side win).
func InSeries(a, b Component) (Component, error) {
	if s, ok := a.(*Series); ok {
		return s.absorb(b)
	}
	if s, ok := b.(*Series); ok {
		return s.absorb(a)
	}
	s := NewSeries("")
	if _, err := s.Add(a); err != nil {
		return nil, err
	}
	if _, err := s.Add(b); err != nil {
		return nil, err
	}
	return s, nil
}

// InParallel combines two components in parallel, symmetric to InSeries.
func InParallel(a, b Component) (Component, error) {
	if p, ok := a.(*Parallel); ok {
		return p.absorb(b)
	}
	if p, ok := b.(*Parallel); ok {
		return p.absorb(a)
	}
	p := NewParallel("")
	if _, err := p.Add(a); err != nil {
		return nil, err
	}
	if _, err := p.Add(b); err != nil {
		return nil, err
	}
	return p, nil
}

// Flip negates c's orientation in place and returns it, the Go-function
// counterpart of the reference's unary ~ operator.
func Flip(c Component) Component {
	return c.FlipInPlace()
}
