// Package circuit assembles two-terminal components into a network of
// branches between numbered nodes, reduces that network by folding
// series/parallel structure, and solves the resulting Kirchhoff system
// either by gradient-descent residual minimization or by direct nodal
// linear solve.
package circuit

import (
	"github.com/edp1096/phasorsolve/internal/circuiterr"
	"github.com/edp1096/phasorsolve/pkg/component"
)

// Branch wires a chain of components between two numbered nodes. A
// multi-component chain is combined in series; the branch's terminals are
// then canonicalized so Source <= Sink, flipping the combined component if
// the caller's (source, sink) order needed swapping.
type Branch struct {
	Source     int
	Sink       int
	Components component.Component
}

// NewBranch builds a Branch from an ordered chain of components.
func NewBranch(source, sink int, components []component.Component) (*Branch, error) {
	if len(components) == 0 {
		return nil, circuiterr.NewConfigurationError("", "a branch must contain at least one component")
	}

	var combined component.Component
	if len(components) == 1 {
		combined = components[0]
	} else {
		acc := component.Component(component.NewSeries(""))
		var err error
		for _, c := range components {
			acc, err = component.InSeries(acc, c)
			if err != nil {
				return nil, err
			}
		}
		combined = acc
	}

	b := &Branch{Source: source, Sink: sink, Components: combined}
	if b.Source > b.Sink {
		b.Source, b.Sink = b.Sink, b.Source
		b.Components = component.Flip(b.Components)
	}
	return b, nil
}
