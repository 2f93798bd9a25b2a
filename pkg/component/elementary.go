package component

import (
	"iter"

	"github.com/edp1096/phasorsolve/internal/circuiterr"
	"github.com/edp1096/phasorsolve/pkg/autodiff"
	"github.com/edp1096/phasorsolve/pkg/ivchar"
	"github.com/edp1096/phasorsolve/pkg/units"
)

// VSource is an ideal voltage source, characterized by its electromotive
// force (amplitude and, in AC mode, phase).
type VSource struct {
	baseComponent
	EMF complex128
}

// NewVSource builds an ideal voltage source of the given EMF, scaled by an
// SI prefix (units.Nil for a bare value).
func NewVSource(label string, emf complex128, prefix units.Prefix) *VSource {
	return &VSource{baseComponent: newBase(label), EMF: complex(units.Scale(real(emf), prefix), units.Scale(imag(emf), prefix))}
}

func (v *VSource) Kind() Kind { return KindVSource }

func (v *VSource) rawCharacteristic(float64) (ivchar.IVChar, error) {
	return ivchar.New(true, 0, v.EMF), nil
}

func (v *VSource) Characteristic(omega float64, withOrientation bool) (ivchar.IVChar, error) {
	return v.characteristic(omega, withOrientation, v.rawCharacteristic)
}

func (v *VSource) ApplyCurrent(current *autodiff.Scalar, omega float64, recursive bool) error {
	return v.applyCurrent(current, omega, v.rawCharacteristic)
}

func (v *VSource) ApplyVoltage(voltage *autodiff.Scalar, omega float64, recursive bool) error {
	return v.applyVoltage(voltage, omega, v.rawCharacteristic)
}

func (v *VSource) FlipInPlace() Component {
	v.orientation = -v.orientation
	return v
}

func (v *VSource) All() iter.Seq[Component] {
	return func(yield func(Component) bool) { yield(v) }
}

// ISource is an ideal current source, characterized by its amperage.
type ISource struct {
	baseComponent
	Amperage complex128
}

// NewISource builds an ideal current source of the given amperage, scaled
// by an SI prefix.
func NewISource(label string, amperage complex128, prefix units.Prefix) *ISource {
	return &ISource{baseComponent: newBase(label), Amperage: complex(units.Scale(real(amperage), prefix), units.Scale(imag(amperage), prefix))}
}

func (i *ISource) Kind() Kind { return KindISource }

func (i *ISource) rawCharacteristic(float64) (ivchar.IVChar, error) {
	return ivchar.New(false, 1, i.Amperage), nil
}

func (i *ISource) Characteristic(omega float64, withOrientation bool) (ivchar.IVChar, error) {
	return i.characteristic(omega, withOrientation, i.rawCharacteristic)
}

func (i *ISource) ApplyCurrent(current *autodiff.Scalar, omega float64, recursive bool) error {
	return i.applyCurrent(current, omega, i.rawCharacteristic)
}

func (i *ISource) ApplyVoltage(voltage *autodiff.Scalar, omega float64, recursive bool) error {
	return i.applyVoltage(voltage, omega, i.rawCharacteristic)
}

func (i *ISource) FlipInPlace() Component {
	i.orientation = -i.orientation
	return i
}

func (i *ISource) All() iter.Seq[Component] {
	return func(yield func(Component) bool) { yield(i) }
}

// Resistor is characterized by its resistance R: B = -R, so V = R·I, i.e. Z = R.
type Resistor struct {
	baseComponent
	Resistance float64
}

// NewResistor builds a resistor of the given resistance, scaled by an SI prefix.
func NewResistor(label string, resistance float64, prefix units.Prefix) *Resistor {
	return &Resistor{baseComponent: newBase(label), Resistance: units.Scale(resistance, prefix)}
}

func (r *Resistor) Kind() Kind { return KindResistor }

func (r *Resistor) rawCharacteristic(float64) (ivchar.IVChar, error) {
	return ivchar.New(true, complex(-r.Resistance, 0), 0), nil
}

func (r *Resistor) Characteristic(omega float64, withOrientation bool) (ivchar.IVChar, error) {
	return r.characteristic(omega, withOrientation, r.rawCharacteristic)
}

func (r *Resistor) ApplyCurrent(current *autodiff.Scalar, omega float64, recursive bool) error {
	return r.applyCurrent(current, omega, r.rawCharacteristic)
}

func (r *Resistor) ApplyVoltage(voltage *autodiff.Scalar, omega float64, recursive bool) error {
	return r.applyVoltage(voltage, omega, r.rawCharacteristic)
}

func (r *Resistor) FlipInPlace() Component {
	r.orientation = -r.orientation
	return r
}

func (r *Resistor) All() iter.Seq[Component] {
	return func(yield func(Component) bool) { yield(r) }
}

// Capacitor is characterized by its capacitance C. At ω=0 it behaves as an
// open circuit; C must be nonzero at any ω, including 0.
type Capacitor struct {
	baseComponent
	Capacitance float64
}

// NewCapacitor builds a capacitor of the given capacitance, scaled by an SI prefix.
func NewCapacitor(label string, capacitance float64, prefix units.Prefix) *Capacitor {
	return &Capacitor{baseComponent: newBase(label), Capacitance: units.Scale(capacitance, prefix)}
}

func (c *Capacitor) Kind() Kind { return KindCapacitor }

func (c *Capacitor) rawCharacteristic(omega float64) (ivchar.IVChar, error) {
	if c.Capacitance == 0 {
		return ivchar.IVChar{}, circuiterr.NewDomainError(c.label, omega, "capacitance must be nonzero")
	}
	if omega == 0 {
		return ivchar.OpenCircuit(), nil
	}
	return ivchar.New(true, complex(0, 1/(omega*c.Capacitance)), 0), nil
}

func (c *Capacitor) Characteristic(omega float64, withOrientation bool) (ivchar.IVChar, error) {
	return c.characteristic(omega, withOrientation, c.rawCharacteristic)
}

func (c *Capacitor) ApplyCurrent(current *autodiff.Scalar, omega float64, recursive bool) error {
	return c.applyCurrent(current, omega, c.rawCharacteristic)
}

func (c *Capacitor) ApplyVoltage(voltage *autodiff.Scalar, omega float64, recursive bool) error {
	return c.applyVoltage(voltage, omega, c.rawCharacteristic)
}

func (c *Capacitor) FlipInPlace() Component {
	c.orientation = -c.orientation
	return c
}

func (c *Capacitor) All() iter.Seq[Component] {
	return func(yield func(Component) bool) { yield(c) }
}

// Inductor is characterized by its inductance L. At ω=0 it behaves as a
// short circuit.
type Inductor struct {
	baseComponent
	Inductance float64
}

// NewInductor builds an inductor of the given inductance, scaled by an SI prefix.
func NewInductor(label string, inductance float64, prefix units.Prefix) *Inductor {
	return &Inductor{baseComponent: newBase(label), Inductance: units.Scale(inductance, prefix)}
}

func (l *Inductor) Kind() Kind { return KindInductor }

func (l *Inductor) rawCharacteristic(omega float64) (ivchar.IVChar, error) {
	if omega == 0 {
		return ivchar.ShortCircuit(), nil
	}
	return ivchar.New(true, complex(0, -omega*l.Inductance), 0), nil
}

func (l *Inductor) Characteristic(omega float64, withOrientation bool) (ivchar.IVChar, error) {
	return l.characteristic(omega, withOrientation, l.rawCharacteristic)
}

func (l *Inductor) ApplyCurrent(current *autodiff.Scalar, omega float64, recursive bool) error {
	return l.applyCurrent(current, omega, l.rawCharacteristic)
}

func (l *Inductor) ApplyVoltage(voltage *autodiff.Scalar, omega float64, recursive bool) error {
	return l.applyVoltage(voltage, omega, l.rawCharacteristic)
}

func (l *Inductor) FlipInPlace() Component {
	l.orientation = -l.orientation
	return l
}

func (l *Inductor) All() iter.Seq[Component] {
	return func(yield func(Component) bool) { yield(l) }
}

// Impedance is a general passive element characterized by an arbitrary
// complex impedance Z, independent of ω.
type Impedance struct {
	baseComponent
	Z complex128
}

// NewImpedance builds a general impedance, scaled by an SI prefix.
func NewImpedance(label string, z complex128, prefix units.Prefix) *Impedance {
	return &Impedance{baseComponent: newBase(label), Z: complex(units.Scale(real(z), prefix), units.Scale(imag(z), prefix))}
}

func (z *Impedance) Kind() Kind { return KindImpedance }

func (z *Impedance) rawCharacteristic(float64) (ivchar.IVChar, error) {
	return ivchar.New(true, -z.Z, 0), nil
}

func (z *Impedance) Characteristic(omega float64, withOrientation bool) (ivchar.IVChar, error) {
	return z.characteristic(omega, withOrientation, z.rawCharacteristic)
}

func (z *Impedance) ApplyCurrent(current *autodiff.Scalar, omega float64, recursive bool) error {
	return z.applyCurrent(current, omega, z.rawCharacteristic)
}

func (z *Impedance) ApplyVoltage(voltage *autodiff.Scalar, omega float64, recursive bool) error {
	return z.applyVoltage(voltage, omega, z.rawCharacteristic)
}

func (z *Impedance) FlipInPlace() Component {
	z.orientation = -z.orientation
	return z
}

func (z *Impedance) All() iter.Seq[Component] {
	return func(yield func(Component) bool) { yield(z) }
}
