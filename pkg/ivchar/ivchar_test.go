package ivchar_test

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/edp1096/phasorsolve/pkg/ivchar"
)

// IVCharSuite checks the characteristic-algebra laws named in the solver
// design: double-invert is identity, series with a short circuit is a
// no-op, parallel with an open circuit is a no-op, and the singular-case
// rejections hold.
type IVCharSuite struct {
	suite.Suite
}

func (s *IVCharSuite) TestInvertInvertIsIdentity() {
	x := ivchar.New(true, complex(2, -1), complex(3, 4))
	require.Equal(s.T(), x, x.Invert().Invert())
}

func (s *IVCharSuite) TestSeriesWithShortCircuitIsIdentity() {
	x := ivchar.New(true, complex(-100, 0), complex(5, 0))
	combined, err := ivchar.SeriesCombine(x, ivchar.ShortCircuit())
	require.NoError(s.T(), err)
	require.InDelta(s.T(), 0, cmplx.Abs(combined.B-x.B), 1e-12)
	require.InDelta(s.T(), 0, cmplx.Abs(combined.C-x.C), 1e-12)
}

func (s *IVCharSuite) TestParallelWithOpenCircuitIsIdentity() {
	x := ivchar.New(true, complex(-100, 0), complex(5, 0))
	combined, err := ivchar.ParallelCombine(x, ivchar.OpenCircuit())
	require.NoError(s.T(), err)
	require.InDelta(s.T(), 0, cmplx.Abs(combined.ImpedanceCoefficient()-x.ImpedanceCoefficient()), 1e-9)
	require.InDelta(s.T(), 0, cmplx.Abs(combined.FreeCoefficient()-x.FreeCoefficient()), 1e-9)
}

func (s *IVCharSuite) TestSeriesCombineAssociative() {
	x := ivchar.New(true, complex(-10, 0), complex(1, 0))
	y := ivchar.New(true, complex(-20, 0), complex(2, 0))
	z := ivchar.New(true, complex(-30, 0), complex(3, 0))

	xy, err := ivchar.SeriesCombine(x, y)
	require.NoError(s.T(), err)
	left, err := ivchar.SeriesCombine(xy, z)
	require.NoError(s.T(), err)

	yz, err := ivchar.SeriesCombine(y, z)
	require.NoError(s.T(), err)
	right, err := ivchar.SeriesCombine(x, yz)
	require.NoError(s.T(), err)

	require.InDelta(s.T(), 0, cmplx.Abs(left.B-right.B), 1e-9)
	require.InDelta(s.T(), 0, cmplx.Abs(left.C-right.C), 1e-9)
}

func (s *IVCharSuite) TestTwoFixedCurrentsInSeriesIsConfigurationError() {
	a := ivchar.New(false, 1, complex(1, 0))
	b := ivchar.New(false, 1, complex(2, 0))
	_, err := ivchar.SeriesCombine(a, b)
	require.Error(s.T(), err)
}

func (s *IVCharSuite) TestTwoFixedVoltagesInParallelIsConfigurationError() {
	a := ivchar.New(true, 0, complex(1, 0))
	b := ivchar.New(true, 0, complex(2, 0))
	_, err := ivchar.ParallelCombine(a, b)
	require.Error(s.T(), err)
}

func (s *IVCharSuite) TestVoltageAtCurrentMatchesResistorLaw() {
	// V = -B*I + C, a resistor of R=100 is B=-100, C=0.
	x := ivchar.New(true, complex(-100, 0), 0)
	v, err := ivchar.VoltageAtCurrent(x, complex(0.5, 0))
	require.NoError(s.T(), err)
	require.InDelta(s.T(), 50, real(v), 1e-9)
}

func (s *IVCharSuite) TestCurrentAtVoltageMatchesResistorLaw() {
	x := ivchar.New(true, complex(-100, 0), 0)
	i, err := ivchar.CurrentAtVoltage(x, complex(50, 0))
	require.NoError(s.T(), err)
	require.InDelta(s.T(), 0.5, real(i), 1e-9)
}

func TestIVCharSuite(t *testing.T) {
	suite.Run(t, new(IVCharSuite))
}
