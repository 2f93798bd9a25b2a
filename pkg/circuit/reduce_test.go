package circuit_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/edp1096/phasorsolve/pkg/circuit"
	"github.com/edp1096/phasorsolve/pkg/component"
	"github.com/edp1096/phasorsolve/pkg/units"
)

type ReduceSuite struct {
	suite.Suite
}

func (s *ReduceSuite) TestReduceMergesSeriesChain() {
	r1 := component.NewResistor("R1", 100, units.Nil)
	r2 := component.NewResistor("R2", 200, units.Nil)

	b1, _ := circuit.NewBranch(1, 2, []component.Component{r1})
	b2, _ := circuit.NewBranch(2, 3, []component.Component{r2})

	reduced, err := circuit.Reduce([]*circuit.Branch{b1, b2})
	require.NoError(s.T(), err)
	require.Len(s.T(), reduced, 1)
	require.Equal(s.T(), 1, reduced[0].Source)
	require.Equal(s.T(), 3, reduced[0].Sink)
}

func (s *ReduceSuite) TestReduceMergesParallelPair() {
	r1 := component.NewResistor("R1", 100, units.Nil)
	r2 := component.NewResistor("R2", 100, units.Nil)

	b1, _ := circuit.NewBranch(1, 2, []component.Component{r1})
	b2, _ := circuit.NewBranch(1, 2, []component.Component{r2})

	reduced, err := circuit.Reduce([]*circuit.Branch{b1, b2})
	require.NoError(s.T(), err)
	require.Len(s.T(), reduced, 1)
}

func (s *ReduceSuite) TestReduceLeavesThreeTerminalStarAlone() {
	// A star with a shared center node of degree 3 cannot be series-reduced
	// away, so three distinct branches must survive.
	r1 := component.NewResistor("R1", 10, units.Nil)
	r2 := component.NewResistor("R2", 10, units.Nil)
	r3 := component.NewResistor("R3", 10, units.Nil)

	b1, _ := circuit.NewBranch(1, 4, []component.Component{r1})
	b2, _ := circuit.NewBranch(2, 4, []component.Component{r2})
	b3, _ := circuit.NewBranch(3, 4, []component.Component{r3})

	reduced, err := circuit.Reduce([]*circuit.Branch{b1, b2, b3})
	require.NoError(s.T(), err)
	require.Len(s.T(), reduced, 3)
}

func TestReduceSuite(t *testing.T) {
	suite.Run(t, new(ReduceSuite))
}
