package circuit

import (
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/edp1096/phasorsolve/internal/circuiterr"
	"github.com/edp1096/phasorsolve/pkg/autodiff"
	"github.com/edp1096/phasorsolve/pkg/component"
)

// OptimizerFactory builds an Optimizer over a solver's learnable parameters.
// SolverConfig.NewOptimizer defaults to Adam, matching the reference solver.
type OptimizerFactory func(params []*autodiff.Scalar) Optimizer

// SolverConfig tunes the convergence loop. DefaultSolverConfig mirrors the
// constants hardcoded in the reference implementation.
type SolverConfig struct {
	// MaxEpochs bounds the number of gradient-descent iterations.
	MaxEpochs int
	// ZeroLossAbsTol is the absolute tolerance for treating the residual
	// loss as converged to zero.
	ZeroLossAbsTol float64
	// StallRelTol is the relative tolerance for detecting that the loss has
	// stopped decreasing between consecutive epochs.
	StallRelTol float64
	// NewOptimizer builds the optimizer used for the descent. Defaults to
	// Adam.
	NewOptimizer OptimizerFactory
	// Logger receives per-run diagnostics. A nil Logger disables logging.
	Logger *log.Logger
}

// DefaultSolverConfig returns the reference solver's tuning.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		MaxEpochs:      10000,
		ZeroLossAbsTol: 1e-30,
		StallRelTol:    1e-15,
		NewOptimizer: func(params []*autodiff.Scalar) Optimizer {
			return NewAdamOptimizer(params)
		},
	}
}

type nodePotential struct {
	scalar    *autodiff.Scalar
	dependent bool
	dependsOn int
	delta     complex128
}

// Solver holds a reduced branch network and drives it to a Kirchhoff-law
// consistent state: every node's net outgoing current converges to zero.
type Solver struct {
	branches         []*Branch
	components       map[string]component.Component
	nodePotentials   map[int]*nodePotential
	referenceNode    int
	hasReferenceNode bool
	branchCurrents   map[int]*autodiff.Scalar
	optimizer        Optimizer
	config           SolverConfig
}

// NewSolver reduces branches and prepares them for Solve.
func NewSolver(branches []*Branch, config SolverConfig) (*Solver, error) {
	reduced, err := Reduce(branches)
	if err != nil {
		return nil, err
	}
	s := &Solver{
		branches:       reduced,
		components:     map[string]component.Component{},
		nodePotentials: map[int]*nodePotential{},
		branchCurrents: map[int]*autodiff.Scalar{},
		config:         config,
	}
	s.initComponents()
	if err := s.initNodes(); err != nil {
		return nil, err
	}
	s.initOptimizer()
	return s, nil
}

func (s *Solver) initComponents() {
	for _, b := range s.branches {
		for c := range b.Components.All() {
			s.components[c.Label()] = c
		}
	}
}

func (s *Solver) setLeaf(node int, value complex128) {
	s.nodePotentials[node] = &nodePotential{scalar: autodiff.NewLeaf(value)}
}

func (s *Solver) setDependent(node, dependsOn int, delta complex128) {
	base := s.nodePotentials[dependsOn].scalar.Data
	s.nodePotentials[node] = &nodePotential{
		scalar:    autodiff.NewLeaf(base + delta),
		dependent: true,
		dependsOn: dependsOn,
		delta:     delta,
	}
}

// initNodes assigns an initial potential to every node: first by walking
// every pure ideal-voltage-source branch (which ties two node potentials
// together exactly, independent of the optimizer) and then by defaulting
// every still-unseen node to zero.
func (s *Solver) initNodes() error {
	for i, branch := range s.branches {
		vsrc, ok := branch.Components.(*component.VSource)
		if !ok {
			continue
		}
		voltageDelta := complex(float64(vsrc.Orientation()), 0) * vsrc.EMF

		switch {
		case !s.hasReferenceNode:
			s.hasReferenceNode = true
			s.referenceNode = branch.Source
			s.setLeaf(branch.Source, 0)
			s.setDependent(branch.Sink, branch.Source, -voltageDelta)
		case !s.haveNode(branch.Source):
			if !s.haveNode(branch.Sink) {
				s.setLeaf(branch.Source, 0)
				s.setDependent(branch.Sink, branch.Source, -voltageDelta)
			} else {
				s.setDependent(branch.Source, branch.Sink, voltageDelta)
			}
		default:
			if !s.haveNode(branch.Sink) {
				s.setDependent(branch.Sink, branch.Source, -voltageDelta)
			} else {
				sourceVal := s.nodePotentials[branch.Source].scalar.Data
				sinkVal := s.nodePotentials[branch.Sink].scalar.Data
				if !closeComplex(sourceVal-sinkVal, voltageDelta, 1e-9, 0) {
					return circuiterr.NewConfigurationError(branch.Components.Label(),
						fmt.Sprintf("inconsistent ideal-voltage-source constraint between nodes %d and %d", branch.Source, branch.Sink))
				}
			}
		}
		s.branchCurrents[i] = autodiff.NewLeaf(0)
	}

	for _, branch := range s.branches {
		if !s.hasReferenceNode {
			s.hasReferenceNode = true
			s.referenceNode = branch.Source
			s.setLeaf(branch.Source, 0)
		}
		if !s.haveNode(branch.Source) {
			s.setLeaf(branch.Source, 0)
		}
		if !s.haveNode(branch.Sink) {
			s.setLeaf(branch.Sink, 0)
		}
	}
	return nil
}

func (s *Solver) haveNode(node int) bool {
	_, ok := s.nodePotentials[node]
	return ok
}

func (s *Solver) sortedNodeIDs() []int {
	ids := make([]int, 0, len(s.nodePotentials))
	for id := range s.nodePotentials {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (s *Solver) initOptimizer() {
	var params []*autodiff.Scalar
	for _, node := range s.sortedNodeIDs() {
		np := s.nodePotentials[node]
		if node == s.referenceNode || np.dependent {
			continue
		}
		params = append(params, np.scalar)
	}
	branchIdx := make([]int, 0, len(s.branchCurrents))
	for idx := range s.branchCurrents {
		branchIdx = append(branchIdx, idx)
	}
	sort.Ints(branchIdx)
	for _, idx := range branchIdx {
		params = append(params, s.branchCurrents[idx])
	}
	s.optimizer = s.config.NewOptimizer(params)
}

func (s *Solver) updateDependentNodes() {
	for _, np := range s.nodePotentials {
		if np.dependent {
			np.scalar.Data = s.potentialNode(np.dependsOn).Data + np.delta
		}
	}
}

// potentialNode returns the autodiff scalar for a node's potential as it
// should appear in this epoch's loss graph: the node's own parameter leaf if
// it is independent, or a fresh AddConst subtree over the node it depends on
// if dependent. Building the dependency as a real graph edge (rather than
// referencing a standalone leaf whose Data is copied in after the fact)
// means Backward propagates the chain-rule term for every branch touching a
// dependent node back onto the independent potential it derives from.
func (s *Solver) potentialNode(node int) *autodiff.Scalar {
	np := s.nodePotentials[node]
	if !np.dependent {
		return np.scalar
	}
	return autodiff.AddConst(s.potentialNode(np.dependsOn), np.delta)
}

// loss evaluates the mean squared net outgoing current across every node,
// given the current node potentials and voltage-source branch currents.
func (s *Solver) loss(omega float64) (*autodiff.Scalar, error) {
	nodeCurrents := map[int]*autodiff.Scalar{}
	for node := range s.nodePotentials {
		nodeCurrents[node] = autodiff.NewLeaf(0)
	}

	for j, branch := range s.branches {
		if vsrc, ok := branch.Components.(*component.VSource); ok {
			scaled := autodiff.MulConst(s.branchCurrents[j], complex(float64(vsrc.Orientation()), 0))
			if err := branch.Components.ApplyCurrent(scaled, omega, false); err != nil {
				return nil, err
			}
		} else {
			diff := autodiff.Sub(s.potentialNode(branch.Source), s.potentialNode(branch.Sink))
			scaled := autodiff.MulConst(diff, complex(float64(branch.Components.Orientation()), 0))
			if err := branch.Components.ApplyVoltage(scaled, omega, false); err != nil {
				return nil, err
			}
		}
		st := branch.Components.State()
		signed := autodiff.MulConst(st.Current, complex(float64(branch.Components.Orientation()), 0))
		nodeCurrents[branch.Source] = autodiff.Add(nodeCurrents[branch.Source], signed)
		nodeCurrents[branch.Sink] = autodiff.Sub(nodeCurrents[branch.Sink], signed)
	}

	var total *autodiff.Scalar
	for _, node := range s.sortedNodeIDs() {
		mag := autodiff.AbsSquared(nodeCurrents[node])
		if total == nil {
			total = mag
		} else {
			total = autodiff.Add(total, mag)
		}
	}
	return autodiff.DivConst(total, complex(float64(len(nodeCurrents)), 0)), nil
}

// applyNodeVoltages fills every component's final State() from the
// converged node potentials and branch currents.
func (s *Solver) applyNodeVoltages(omega float64) error {
	for _, branch := range s.branches {
		if _, ok := branch.Components.(*component.VSource); ok {
			continue
		}
		diff := s.nodePotentials[branch.Source].scalar.Data - s.nodePotentials[branch.Sink].scalar.Data
		scaled := autodiff.NewLeaf(diff * complex(float64(branch.Components.Orientation()), 0))
		if err := branch.Components.ApplyVoltage(scaled, omega, true); err != nil {
			return err
		}
	}
	for _, idx := range sortedBranchKeys(s.branchCurrents) {
		branch := s.branches[idx]
		scaled := autodiff.NewLeaf(s.branchCurrents[idx].Data * complex(float64(branch.Components.Orientation()), 0))
		if err := branch.Components.ApplyCurrent(scaled, omega, true); err != nil {
			return err
		}
	}
	return nil
}

func sortedBranchKeys(m map[int]*autodiff.Scalar) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Solve drives node potentials and branch currents to a Kirchhoff-law
// consistent state at angular frequency omega, by minimizing the residual
// loss with the configured Optimizer. It returns the loss history (for
// diagnostics), the converged node potentials, and — if MaxEpochs was
// reached without satisfying either convergence test — a non-fatal
// NotConvergedWarning carrying the loss of the last epoch.
//
// The potentials cover only the nodes that remain after NewSolver's Reduce
// pass; nodes folded away by series reduction are not in the map.
func (s *Solver) Solve(omega float64) ([]float64, map[int]complex128, *circuiterr.NotConvergedWarning, error) {
	if len(s.branches) == 1 {
		comp := s.branches[0].Components
		var err error
		if comp.Kind() == component.KindVSource || comp.Kind() == component.KindParallel {
			err = comp.ApplyCurrent(autodiff.NewLeaf(0), omega, true)
		} else {
			err = comp.ApplyVoltage(autodiff.NewLeaf(0), omega, true)
		}
		if err != nil {
			return nil, nil, nil, err
		}
		return nil, s.roundedPotentials(), nil, nil
	}

	var history []float64
	converged := false
	for i := 0; i < s.config.MaxEpochs; i++ {
		lossScalar, err := s.loss(omega)
		if err != nil {
			return nil, nil, nil, err
		}
		lossVal := real(lossScalar.Data)
		history = append(history, lossVal)

		if closeFloat(lossVal, 0, 1e-9, s.config.ZeroLossAbsTol) ||
			(i > 0 && closeFloat(history[len(history)-2], lossVal, s.config.StallRelTol, 0)) {
			converged = true
			break
		}

		s.optimizer.ZeroGrad()
		lossScalar.Backward()
		s.optimizer.Step(lossVal)
		s.updateDependentNodes()
	}

	var warning *circuiterr.NotConvergedWarning
	if !converged {
		warning = circuiterr.NewNotConvergedWarning(len(history), history[len(history)-1])
		if s.config.Logger != nil {
			s.config.Logger.Printf("circuit: did not converge after %d epochs, final loss %g", len(history), history[len(history)-1])
		}
	}

	if err := s.applyNodeVoltages(omega); err != nil {
		return nil, nil, nil, err
	}
	return history, s.roundedPotentials(), warning, nil
}

// SolveDirect solves this solver's (already reduced) branch network by
// direct nodal linear solve rather than gradient descent. See the
// package-level SolveDirect for the stamping strategy.
func (s *Solver) SolveDirect(omega float64) (map[int]complex128, error) {
	return SolveDirect(s.branches, omega)
}

func (s *Solver) roundedPotentials() map[int]complex128 {
	out := make(map[int]complex128, len(s.nodePotentials))
	for node, np := range s.nodePotentials {
		out[node] = roundComplex(np.scalar.Data, 5)
	}
	return out
}

// StateAt queries the electrical state of a component by label, as found
// anywhere in the (possibly nested) branch network. ok is false if no
// component with that label was ever registered or it was never given a
// state by Solve.
func (s *Solver) StateAt(label string) (current, voltage complex128, ok bool) {
	c, found := s.components[label]
	if !found {
		return 0, 0, false
	}
	st := c.State()
	if st.Current == nil || st.Voltage == nil {
		return 0, 0, false
	}
	return roundComplex(st.Current.Data, 5), roundComplex(st.Voltage.Data, 5), true
}

func closeFloat(a, b, relTol, absTol float64) bool {
	diff := math.Abs(a - b)
	m := math.Max(math.Abs(a), math.Abs(b))
	return diff <= math.Max(relTol*m, absTol)
}

func closeComplex(a, b complex128, relTol, absTol float64) bool {
	return closeFloat(real(a), real(b), relTol, absTol) && closeFloat(imag(a), imag(b), relTol, absTol)
}

func roundTo(x float64, ndigits int) float64 {
	pow := math.Pow(10, float64(ndigits))
	return math.Round(x*pow) / pow
}

func roundComplex(z complex128, ndigits int) complex128 {
	return complex(roundTo(real(z), ndigits), roundTo(imag(z), ndigits))
}
