package component

import (
	"iter"

	"github.com/edp1096/phasorsolve/internal/circuiterr"
	"github.com/edp1096/phasorsolve/pkg/autodiff"
	"github.com/edp1096/phasorsolve/pkg/ivchar"
)

// Series represents a multitude of components connected in series. It may
// own at most one singular child: an ideal current source, which would
// otherwise make the combined characteristic degenerate (two fixed-current
// components cannot be reconciled in series).
type Series struct {
	baseComponent
	children []Component
	singular *ISource
}

// NewSeries creates an empty series composite.
func NewSeries(label string) *Series {
	return &Series{baseComponent: newBase(label)}
}

func (s *Series) Kind() Kind { return KindSeries }

// Add appends a component to the series, routing ideal current sources to
// the singular slot. Adding a second ideal current source is a
// ConfigurationError.
func (s *Series) Add(c Component) (*Series, error) {
	if c.Kind() == KindISource {
		if s.singular != nil {
			return nil, circuiterr.NewConfigurationError(s.label, "two ideal current sources cannot be connected in series")
		}
		src, ok := c.(*ISource)
		if !ok {
			return nil, circuiterr.NewTypeError("non-ISource value reporting KindISource")
		}
		s.singular = src
		return s, nil
	}
	s.children = append(s.children, c)
	return s, nil
}

// absorb implements the "other is already Series" merge used by InSeries.
func (s *Series) absorb(other Component) (*Series, error) {
	if otherSeries, ok := other.(*Series); ok {
		for _, ch := range otherSeries.children {
			if _, err := s.Add(ch); err != nil {
				return nil, err
			}
		}
		if otherSeries.singular != nil {
			if _, err := s.Add(otherSeries.singular); err != nil {
				return nil, err
			}
		}
		return s, nil
	}
	return s.Add(other)
}

func (s *Series) rawCharacteristic(omega float64) (ivchar.IVChar, error) {
	if s.singular != nil {
		return s.singular.Characteristic(omega, true)
	}
	acc := ivchar.ShortCircuit()
	for _, ch := range s.children {
		chChar, err := ch.Characteristic(omega, true)
		if err != nil {
			return ivchar.IVChar{}, err
		}
		acc, err = ivchar.SeriesCombine(acc, chChar)
		if err != nil {
			return ivchar.IVChar{}, err
		}
	}
	return acc, nil
}

func (s *Series) Characteristic(omega float64, withOrientation bool) (ivchar.IVChar, error) {
	return s.characteristic(omega, withOrientation, s.rawCharacteristic)
}

// ApplyCurrent sets the series's own state, then (if recursive) propagates
// I·orientation to every regular child. A series clamped by a singular
// current source cannot itself have a current imposed on it.
func (s *Series) ApplyCurrent(current *autodiff.Scalar, omega float64, recursive bool) error {
	if s.singular != nil {
		return circuiterr.NewConfigurationError(s.label, "cannot apply current to a constant-current component")
	}
	if err := s.applyCurrent(current, omega, s.rawCharacteristic); err != nil {
		return err
	}
	if !recursive {
		return nil
	}
	for _, ch := range s.children {
		scaled := autodiff.MulConst(current, complex(float64(ch.Orientation()), 0))
		if err := ch.ApplyCurrent(scaled, omega, recursive); err != nil {
			return err
		}
	}
	return nil
}

// ApplyVoltage sets the series's own state from the imposed voltage, then
// (if recursive) pushes the same series current (scaled by each child's
// orientation) through every regular child, and finally imposes whatever
// voltage remains unaccounted for on the singular current source.
func (s *Series) ApplyVoltage(voltage *autodiff.Scalar, omega float64, recursive bool) error {
	if err := s.applyVoltage(voltage, omega, s.rawCharacteristic); err != nil {
		return err
	}
	if !recursive {
		return nil
	}
	residual := voltage
	for _, ch := range s.children {
		childCurrent := autodiff.MulConst(s.current, complex(float64(ch.Orientation()), 0))
		if err := ch.ApplyCurrent(childCurrent, omega, recursive); err != nil {
			return err
		}
		residual = autodiff.Sub(residual, autodiff.MulConst(ch.State().Voltage, complex(float64(ch.Orientation()), 0)))
	}
	if s.singular != nil {
		scaled := autodiff.MulConst(residual, complex(float64(s.singular.Orientation()), 0))
		if err := s.singular.ApplyVoltage(scaled, omega, recursive); err != nil {
			return err
		}
	}
	return nil
}

func (s *Series) FlipInPlace() Component {
	s.orientation = -s.orientation
	return s
}

func (s *Series) All() iter.Seq[Component] {
	return func(yield func(Component) bool) {
		if s.singular != nil {
			if !yieldAll(s.singular, yield) {
				return
			}
		}
		for _, ch := range s.children {
			if !yieldAll(ch, yield) {
				return
			}
		}
	}
}

// Parallel represents a multitude of components connected across the same
// pair of terminals. It may own at most one singular child: an ideal
// voltage source.
type Parallel struct {
	baseComponent
	children []Component
	singular *VSource
}

// NewParallel creates an empty parallel composite.
func NewParallel(label string) *Parallel {
	return &Parallel{baseComponent: newBase(label)}
}

func (p *Parallel) Kind() Kind { return KindParallel }

// Add appends a component to the parallel group, routing ideal voltage
// sources to the singular slot. Adding a second ideal voltage source is a
// ConfigurationError.
func (p *Parallel) Add(c Component) (*Parallel, error) {
	if c.Kind() == KindVSource {
		if p.singular != nil {
			return nil, circuiterr.NewConfigurationError(p.label, "two ideal voltage sources cannot be connected in parallel")
		}
		src, ok := c.(*VSource)
		if !ok {
			return nil, circuiterr.NewTypeError("non-VSource value reporting KindVSource")
		}
		p.singular = src
		return p, nil
	}
	p.children = append(p.children, c)
	return p, nil
}

func (p *Parallel) absorb(other Component) (*Parallel, error) {
	if otherParallel, ok := other.(*Parallel); ok {
		for _, ch := range otherParallel.children {
			if _, err := p.Add(ch); err != nil {
				return nil, err
			}
		}
		if otherParallel.singular != nil {
			if _, err := p.Add(otherParallel.singular); err != nil {
				return nil, err
			}
		}
		return p, nil
	}
	return p.Add(other)
}

func (p *Parallel) rawCharacteristic(omega float64) (ivchar.IVChar, error) {
	if p.singular != nil {
		return p.singular.Characteristic(omega, true)
	}
	acc := ivchar.OpenCircuit()
	for _, ch := range p.children {
		chChar, err := ch.Characteristic(omega, true)
		if err != nil {
			return ivchar.IVChar{}, err
		}
		acc, err = ivchar.ParallelCombine(acc, chChar)
		if err != nil {
			return ivchar.IVChar{}, err
		}
	}
	return acc, nil
}

func (p *Parallel) Characteristic(omega float64, withOrientation bool) (ivchar.IVChar, error) {
	return p.characteristic(omega, withOrientation, p.rawCharacteristic)
}

// ApplyCurrent sets the parallel group's own state, then (if recursive)
// pushes the same terminal voltage to every regular child and imposes
// whatever current remains unaccounted for on the singular voltage source.
func (p *Parallel) ApplyCurrent(current *autodiff.Scalar, omega float64, recursive bool) error {
	if err := p.applyCurrent(current, omega, p.rawCharacteristic); err != nil {
		return err
	}
	if !recursive {
		return nil
	}
	residual := current
	for _, ch := range p.children {
		childVoltage := autodiff.MulConst(p.voltage, complex(float64(ch.Orientation()), 0))
		if err := ch.ApplyVoltage(childVoltage, omega, recursive); err != nil {
			return err
		}
		residual = autodiff.Sub(residual, autodiff.MulConst(ch.State().Current, complex(float64(ch.Orientation()), 0)))
	}
	if p.singular != nil {
		scaled := autodiff.MulConst(residual, complex(float64(p.singular.Orientation()), 0))
		if err := p.singular.ApplyCurrent(scaled, omega, recursive); err != nil {
			return err
		}
	}
	return nil
}

// ApplyVoltage sets the parallel group's own state, then (if recursive)
// propagates V·orientation to every regular child. A parallel group clamped
// by a singular voltage source cannot itself have a voltage imposed on it.
func (p *Parallel) ApplyVoltage(voltage *autodiff.Scalar, omega float64, recursive bool) error {
	if p.singular != nil {
		return circuiterr.NewConfigurationError(p.label, "cannot apply voltage to a constant-voltage component")
	}
	if err := p.applyVoltage(voltage, omega, p.rawCharacteristic); err != nil {
		return err
	}
	if !recursive {
		return nil
	}
	for _, ch := range p.children {
		scaled := autodiff.MulConst(voltage, complex(float64(ch.Orientation()), 0))
		if err := ch.ApplyVoltage(scaled, omega, recursive); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parallel) FlipInPlace() Component {
	p.orientation = -p.orientation
	return p
}

func (p *Parallel) All() iter.Seq[Component] {
	return func(yield func(Component) bool) {
		if p.singular != nil {
			if !yieldAll(p.singular, yield) {
				return
			}
		}
		for _, ch := range p.children {
			if !yieldAll(ch, yield) {
				return
			}
		}
	}
}

// yieldAll drains c.All() into yield, stopping early (and reporting false)
// the moment yield itself returns false.
func yieldAll(c Component, yield func(Component) bool) bool {
	cont := true
	for x := range c.All() {
		if !yield(x) {
			cont = false
			break
		}
	}
	return cont
}
