// Package units provides the fixed table of SI prefix multipliers used when
// constructing circuit components from human-entered values (e.g. "4.7 k"
// ohm, "100 n" farad).
package units

// Prefix identifies an SI magnitude prefix, from yotta (10^24) down to
// yocto (10^-24).
type Prefix int

const (
	Yotta Prefix = iota
	Zetta
	Exa
	Peta
	Tera
	Giga
	Mega
	Kilo
	Nil // no prefix, multiplier 1
	Milli
	Micro
	Nano
	Pico
	Femto
	Atto
	Zepto
	Yocto
)

var values = map[Prefix]float64{
	Yotta: 1e24,
	Zetta: 1e21,
	Exa:   1e18,
	Peta:  1e15,
	Tera:  1e12,
	Giga:  1e9,
	Mega:  1e6,
	Kilo:  1e3,
	Nil:   1,
	Milli: 1e-3,
	Micro: 1e-6,
	Nano:  1e-9,
	Pico:  1e-12,
	Femto: 1e-15,
	Atto:  1e-18,
	Zepto: 1e-21,
	Yocto: 1e-24,
}

var fromSymbol = map[string]Prefix{
	"Y": Yotta, "Z": Zetta, "E": Exa, "P": Peta, "T": Tera, "G": Giga,
	"meg": Mega, "M": Mega, "K": Kilo, "k": Kilo, "": Nil,
	"m": Milli, "u": Micro, "µ": Micro, "n": Nano, "p": Pico,
	"f": Femto, "a": Atto, "z": Zepto, "y": Yocto,
}

// Value returns the scalar multiplier for a prefix.
func Value(p Prefix) float64 {
	return values[p]
}

// FromSymbol resolves a netlist-style suffix ("k", "meg", "u", ...) to its
// Prefix. The empty string resolves to Nil. The second return value is false
// for an unrecognized suffix.
func FromSymbol(symbol string) (Prefix, bool) {
	p, ok := fromSymbol[symbol]
	return p, ok
}

// Scale applies a prefix to a bare numeric value, e.g. Scale(4.7, Kilo) == 4700.
func Scale(value float64, p Prefix) float64 {
	return value * Value(p)
}
