package fmtx_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/edp1096/phasorsolve/pkg/fmtx"
)

type FmtxSuite struct {
	suite.Suite
}

func (s *FmtxSuite) TestEngineeringPicksKiloPrefix() {
	require.Equal(s.T(), "4.700 kOhm", fmtx.Engineering(4700, "Ohm"))
}

func (s *FmtxSuite) TestEngineeringPicksMilliPrefix() {
	require.Equal(s.T(), "4.700 mF", fmtx.Engineering(0.0047, "F"))
}

func (s *FmtxSuite) TestEngineeringZero() {
	require.Equal(s.T(), "0.000 V", fmtx.Engineering(0, "V"))
}

func (s *FmtxSuite) TestFrequencyConvertsFromAngular() {
	got := fmtx.Frequency(2 * math.Pi * 1000)
	require.Contains(s.T(), got, "kHz")
}

func (s *FmtxSuite) TestPhasorIncludesLabelAndMagnitude() {
	got := fmtx.Phasor("V(1)", complex(3, 4))
	require.True(s.T(), strings.HasPrefix(got, "V(1)="))
	require.Contains(s.T(), got, "5")
}

func (s *FmtxSuite) TestRectangularOmitsZeroImaginary() {
	require.Equal(s.T(), "5", fmtx.Rectangular(complex(5, 0)))
}

func (s *FmtxSuite) TestRectangularSignsImaginaryPart() {
	require.Equal(s.T(), "1+j2", fmtx.Rectangular(complex(1, 2)))
	require.Equal(s.T(), "1-j2", fmtx.Rectangular(complex(1, -2)))
}

func TestFmtxSuite(t *testing.T) {
	suite.Run(t, new(FmtxSuite))
}
