package circuit

import (
	"sort"

	"github.com/edp1096/phasorsolve/internal/circuiterr"
	"github.com/edp1096/phasorsolve/pkg/ivchar"
	"github.com/edp1096/phasorsolve/pkg/matrix"
)

// SolveDirect builds the reduced nodal admittance system for the branch
// network at angular frequency omega and solves it by sparse LU
// factorization instead of gradient descent. It is an alternative to
// Solve/NewSolver for circuits where the reference-style iterative
// minimization is unnecessary overhead: every branch characteristic is
// affine in (V, I), so the whole network reduces to one linear system.
//
// Ideal-voltage-source branches are handled the modified-nodal way: each
// contributes an extra unknown (its own branch current) and an extra
// equation V_source - V_sink = C, exactly as a SPICE-style voltage-source
// stamp would.
//
// The lowest-numbered node is ground. The returned potentials cover only the
// nodes that remain after Reduce, and no component state is written.
func SolveDirect(branches []*Branch, omega float64) (map[int]complex128, error) {
	reduced, err := Reduce(branches)
	if err != nil {
		return nil, err
	}

	nodeSet := map[int]bool{}
	for _, b := range reduced {
		nodeSet[b.Source] = true
		nodeSet[b.Sink] = true
	}
	if len(nodeSet) == 0 {
		return map[int]complex128{}, nil
	}

	allNodes := make([]int, 0, len(nodeSet))
	for n := range nodeSet {
		allNodes = append(allNodes, n)
	}
	sort.Ints(allNodes)
	ground := allNodes[0]

	nodeIndex := map[int]int{}
	idx := 1
	for _, n := range allNodes {
		if n == ground {
			continue
		}
		nodeIndex[n] = idx
		idx++
	}
	numNodes := idx - 1

	type branchChar struct {
		branch *Branch
		ch     ivchar.IVChar
	}
	chars := make([]branchChar, len(reduced))
	extraIndex := make([]int, len(reduced))
	numExtra := 0
	for i, b := range reduced {
		ch, err := b.Components.Characteristic(omega, true)
		if err != nil {
			return nil, err
		}
		chars[i] = branchChar{branch: b, ch: ch}
		if ch.HasFixedVoltage() {
			numExtra++
			extraIndex[i] = numNodes + numExtra
		} else {
			extraIndex[i] = 0
		}
	}

	size := numNodes + numExtra
	if size == 0 {
		potentials := map[int]complex128{ground: 0}
		return potentials, nil
	}

	mat := matrix.NewMatrix(size)
	if mat == nil {
		return nil, circuiterr.NewConfigurationError("", "failed to allocate nodal matrix")
	}
	defer mat.Destroy()

	colOf := func(node int) int {
		if node == ground {
			return 0
		}
		return nodeIndex[node]
	}

	for i, bc := range chars {
		srcCol := colOf(bc.branch.Source)
		sinkCol := colOf(bc.branch.Sink)

		switch {
		case bc.ch.HasFixedCurrent():
			// Fixed current branch: I = C, source->sink.
			c := bc.ch.FreeCoefficient()
			if srcCol != 0 {
				mat.AddRHS(srcCol, -c)
			}
			if sinkCol != 0 {
				mat.AddRHS(sinkCol, c)
			}
		case bc.ch.HasFixedVoltage():
			// Fixed voltage branch: V_source - V_sink = C, with an extra
			// branch-current unknown stamped the modified-nodal way.
			row := extraIndex[i]
			c := bc.ch.FreeCoefficient()
			if srcCol != 0 {
				mat.AddElement(row, srcCol, 1)
				mat.AddElement(srcCol, row, 1)
			}
			if sinkCol != 0 {
				mat.AddElement(row, sinkCol, -1)
				mat.AddElement(sinkCol, row, -1)
			}
			mat.AddRHS(row, c)
		default:
			// General impedance branch: V = C - B*I, i.e. I = Y*(V - C)
			// with Y = 1/(-B).
			y := 1 / bc.ch.ImpedanceCoefficient()
			c := bc.ch.FreeCoefficient()
			if srcCol != 0 {
				mat.AddElement(srcCol, srcCol, y)
				mat.AddRHS(srcCol, y*c)
			}
			if sinkCol != 0 {
				mat.AddElement(sinkCol, sinkCol, y)
				mat.AddRHS(sinkCol, -y*c)
			}
			if srcCol != 0 && sinkCol != 0 {
				mat.AddElement(srcCol, sinkCol, -y)
				mat.AddElement(sinkCol, srcCol, -y)
			}
		}
	}

	if err := mat.Solve(); err != nil {
		return nil, circuiterr.NewConfigurationError("", "direct nodal solve failed: "+err.Error())
	}

	potentials := map[int]complex128{ground: 0}
	for node, col := range nodeIndex {
		potentials[node] = roundComplex(mat.GetSolution(col), 5)
	}
	return potentials, nil
}
