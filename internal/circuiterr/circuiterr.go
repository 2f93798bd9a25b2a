// Package circuiterr defines the error taxonomy shared by the component,
// ivchar and circuit packages: a set of package-level sentinels plus typed
// wrappers that attach the failing label/node context. Every exported
// sentinel is prefixed with "circuiterr: " for consistent grepping across
// logs, mirroring the convention used elsewhere in this codebase's lineage
// (see lvlath/matrix's errors.go for the pattern this follows).
//
// Callers should match kinds with errors.Is against the sentinels below, not
// by type-asserting the wrapper structs, since the wrappers may gain fields
// over time.
package circuiterr

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks an inconsistent or illegal circuit topology:
	// contradictory voltage-source loops, two singular sources in one
	// composite, or an operation applied to the wrong polarity of
	// fixed-current/fixed-voltage composite.
	ErrConfiguration = errors.New("circuiterr: invalid circuit configuration")

	// ErrDomain marks an operation evaluated outside the domain where the
	// underlying characteristic is defined, e.g. a zero-valued capacitor.
	ErrDomain = errors.New("circuiterr: value outside operation domain")

	// ErrType marks a composition operand that is not a two-terminal
	// component.
	ErrType = errors.New("circuiterr: operand is not a two-terminal component")

	// ErrNotConverged marks the soft condition where the solver's epoch
	// budget was exhausted before the residual reached tolerance. It is
	// returned as a plain value alongside a usable (approximate) result,
	// never as a fatal error from Solve itself.
	ErrNotConverged = errors.New("circuiterr: solver did not converge within the epoch budget")
)

// ConfigurationError reports a topology that is self-contradictory or
// violates a singular-slot rule.
type ConfigurationError struct {
	Label  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("circuiterr: configuration: %s", e.Reason)
	}
	return fmt.Sprintf("circuiterr: configuration: %s: %s", e.Label, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// NewConfigurationError builds a ConfigurationError for the named component.
func NewConfigurationError(label, reason string) error {
	return &ConfigurationError{Label: label, Reason: reason}
}

// DomainError reports a characteristic evaluated outside its domain, e.g. an
// ideal capacitor of zero capacitance at any ω.
type DomainError struct {
	Label  string
	Omega  float64
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("circuiterr: domain: %s at omega=%g: %s", e.Label, e.Omega, e.Reason)
}

func (e *DomainError) Unwrap() error { return ErrDomain }

// NewDomainError builds a DomainError for the named component at a given ω.
func NewDomainError(label string, omega float64, reason string) error {
	return &DomainError{Label: label, Omega: omega, Reason: reason}
}

// TypeErrorDetail reports a composition with a malformed operand, surfaced
// chiefly by the netlist reader and generic combinators rather than the
// statically-typed component constructors.
type TypeErrorDetail struct {
	Got string
}

func (e *TypeErrorDetail) Error() string {
	return fmt.Sprintf("circuiterr: type: expected a two-terminal component, got %s", e.Got)
}

func (e *TypeErrorDetail) Unwrap() error { return ErrType }

// NewTypeError builds a TypeErrorDetail describing the offending value's type.
func NewTypeError(got string) error {
	return &TypeErrorDetail{Got: got}
}

// NotConvergedWarning reports that the solver's epoch budget was exhausted.
// It is not returned as the error result of Solve; instead Solve returns it
// as an optional second warning value alongside a usable result, so callers
// who only care about a hard failure never need to special-case it.
type NotConvergedWarning struct {
	Epochs    int
	FinalLoss float64
}

func (w *NotConvergedWarning) Error() string {
	return fmt.Sprintf("circuiterr: solver: no convergence after %d epochs, final loss %g", w.Epochs, w.FinalLoss)
}

func (w *NotConvergedWarning) Unwrap() error { return ErrNotConverged }

// NewNotConvergedWarning builds a NotConvergedWarning for the given epoch
// count and residual loss.
func NewNotConvergedWarning(epochs int, finalLoss float64) *NotConvergedWarning {
	return &NotConvergedWarning{Epochs: epochs, FinalLoss: finalLoss}
}
