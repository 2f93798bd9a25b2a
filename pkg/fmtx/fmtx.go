// Package fmtx renders phasor quantities (complex voltages, currents,
// impedances) as human-readable engineering notation, the way a bench
// multimeter or a SPICE deck's .print output would.
package fmtx

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Engineering formats a real value in engineering notation with an SI
// suffix and the given unit, e.g. Engineering(0.0047, "F") -> "4.700 mF".
func Engineering(value float64, unit string) string {
	absValue := math.Abs(value)
	switch {
	case absValue == 0:
		return fmt.Sprintf("%.3f %s", 0.0, unit)
	case absValue >= 1e6:
		return fmt.Sprintf("%.3f M%s", value/1e6, unit)
	case absValue >= 1e3:
		return fmt.Sprintf("%.3f k%s", value/1e3, unit)
	case absValue >= 1:
		return fmt.Sprintf("%.3f %s", value, unit)
	case absValue >= 1e-3:
		return fmt.Sprintf("%.3f m%s", value*1e3, unit)
	case absValue >= 1e-6:
		return fmt.Sprintf("%.3f u%s", value*1e6, unit)
	case absValue >= 1e-9:
		return fmt.Sprintf("%.3f n%s", value*1e9, unit)
	case absValue >= 1e-12:
		return fmt.Sprintf("%.3f p%s", value*1e12, unit)
	default:
		return fmt.Sprintf("%.3e %s", value, unit)
	}
}

// Frequency formats an angular frequency (rad/s) as a plain Hz/kHz/MHz
// frequency, f = omega/2pi.
func Frequency(omega float64) string {
	freq := omega / (2 * math.Pi)
	switch {
	case freq >= 1e6:
		return fmt.Sprintf("%7.3f MHz", freq/1e6)
	case freq >= 1e3:
		return fmt.Sprintf("%7.3f kHz", freq/1e3)
	default:
		return fmt.Sprintf("%7.3f Hz ", freq)
	}
}

// MagnitudePhase formats a magnitude and a phase in degrees, e.g.
// MagnitudePhase(12, 90) -> "      12<  90.0deg".
func MagnitudePhase(magnitude, phaseDegrees float64) string {
	var magStr string
	switch {
	case magnitude >= 1000:
		magStr = fmt.Sprintf("%8.2e", magnitude)
	case magnitude != 0 && magnitude < 0.001:
		magStr = fmt.Sprintf("%8.2e", magnitude)
	default:
		magStr = fmt.Sprintf("%8.3g", magnitude)
	}
	return fmt.Sprintf("%s<%6.1fdeg", magStr, phaseDegrees)
}

// Phasor formats a complex value labeled like a SPICE .print entry:
// name=<magnitude><phase>deg.
func Phasor(name string, value complex128) string {
	magnitude := cmplx.Abs(value)
	phaseDegrees := cmplx.Phase(value) * 180 / math.Pi
	return fmt.Sprintf("%s=%s", name, MagnitudePhase(magnitude, phaseDegrees))
}

// Rectangular formats a complex value as a+jb, omitting the imaginary term
// when it is exactly zero.
func Rectangular(value complex128) string {
	re, im := real(value), imag(value)
	if im == 0 {
		return fmt.Sprintf("%g", re)
	}
	if im > 0 {
		return fmt.Sprintf("%g+j%g", re, im)
	}
	return fmt.Sprintf("%g-j%g", re, -im)
}
