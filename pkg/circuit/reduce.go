package circuit

import (
	"sort"

	"github.com/edp1096/phasorsolve/pkg/component"
)

// Reduce collapses a branch list by alternating series and parallel folds
// until the branch count stops shrinking. The result is electrically
// equivalent to the input but typically has far fewer branches, which
// keeps the number of learnable node potentials in Solver small.
func Reduce(branches []*Branch) ([]*Branch, error) {
	reduced, err := reduceSeries(branches)
	if err != nil {
		return nil, err
	}
	reduced, err = reduceParallel(reduced)
	if err != nil {
		return nil, err
	}

	seriesNext := true
	count := len(reduced)
	for {
		if seriesNext {
			reduced, err = reduceSeries(reduced)
		} else {
			reduced, err = reduceParallel(reduced)
		}
		if err != nil {
			return nil, err
		}
		seriesNext = !seriesNext
		if len(reduced) == count {
			break
		}
		count = len(reduced)
	}
	return reduced, nil
}

// reduceSeries merges every node that is the shared terminal of exactly two
// branches into a single branch spanning the two other terminals.
func reduceSeries(initial []*Branch) ([]*Branch, error) {
	nodeToBranches := map[int][]*Branch{}
	addNode := func(node int, b *Branch) {
		nodeToBranches[node] = append(nodeToBranches[node], b)
	}
	for _, b := range initial {
		addNode(b.Source, b)
		if b.Sink != b.Source {
			addNode(b.Sink, b)
		}
	}

	otherTerminal := func(b *Branch, node int) int {
		if b.Source == node {
			return b.Sink
		}
		return b.Source
	}
	removeBranch := func(node int, target *Branch) {
		list := nodeToBranches[node]
		for i, b := range list {
			if b == target {
				nodeToBranches[node] = append(list[:i], list[i+1:]...)
				return
			}
		}
	}

	nodes := make([]int, 0, len(nodeToBranches))
	for node := range nodeToBranches {
		nodes = append(nodes, node)
	}
	sort.Ints(nodes)

	for _, node := range nodes {
		branches := nodeToBranches[node]
		if len(branches) != 2 {
			continue
		}
		a, b := branches[0], branches[1]
		if otherTerminal(a, node) > otherTerminal(b, node) {
			a, b = b, a
		}

		var err error
		acc := component.Component(component.NewSeries(""))
		for i, br := range []*Branch{a, b} {
			c := br.Components
			// Mirrors the reference's invert = (node == source) XOR (i == 1):
			// a (i == 0) must run newSource->node and b (i == 1) must run
			// node->newSink, so each branch is flipped exactly when its own
			// direction disagrees with that path.
			invert := (node == br.Source) != (i == 1)
			if invert {
				c = component.Flip(c)
			}
			acc, err = component.InSeries(acc, c)
			if err != nil {
				return nil, err
			}
		}

		newSource := otherTerminal(a, node)
		newSink := otherTerminal(b, node)
		newBranch, err := NewBranch(newSource, newSink, []component.Component{acc})
		if err != nil {
			return nil, err
		}

		removeBranch(newSource, a)
		removeBranch(newSink, b)
		addNode(newSource, newBranch)
		if newSource != newSink {
			addNode(newSink, newBranch)
		}
		nodeToBranches[node] = nil
	}

	var result []*Branch
	for _, node := range nodes {
		for _, b := range nodeToBranches[node] {
			if b.Source == node {
				result = append(result, b)
			}
		}
	}
	return result, nil
}

type terminalPair struct{ source, sink int }

// reduceParallel merges every group of branches sharing the same pair of
// terminals into a single branch.
func reduceParallel(initial []*Branch) ([]*Branch, error) {
	groups := map[terminalPair][]*Branch{}
	var order []terminalPair
	for _, b := range initial {
		key := terminalPair{b.Source, b.Sink}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], b)
	}

	var result []*Branch
	for _, key := range order {
		branches := groups[key]
		if len(branches) == 1 {
			result = append(result, branches[0])
			continue
		}
		acc := component.Component(component.NewParallel(""))
		var err error
		for _, b := range branches {
			acc, err = component.InParallel(acc, b.Components)
			if err != nil {
				return nil, err
			}
		}
		merged, err := NewBranch(key.source, key.sink, []component.Component{acc})
		if err != nil {
			return nil, err
		}
		result = append(result, merged)
	}
	return result, nil
}
