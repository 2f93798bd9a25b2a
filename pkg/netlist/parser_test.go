package netlist_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/edp1096/phasorsolve/pkg/netlist"
)

type NetlistSuite struct {
	suite.Suite
}

func (s *NetlistSuite) TestParseValueSIPrefixes() {
	cases := map[string]float64{
		"4.7k": 4700, "100n": 1e-7, "1meg": 1e6, "10m": 0.01, "2.2u": 2.2e-6,
	}
	for input, want := range cases {
		got, err := netlist.ParseValue(input)
		require.NoError(s.T(), err, input)
		require.InDelta(s.T(), want, got, math.Abs(want)*1e-9+1e-15, input)
	}
}

func (s *NetlistSuite) TestParseSimpleSeriesDeck() {
	deck := "* simple series\n" +
		"V1 1 2 12\n" +
		"R1 2 0 100\n"
	ckt, err := netlist.Parse(deck)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "simple series", ckt.Title)
	require.Len(s.T(), ckt.Elements, 2)
	require.Len(s.T(), ckt.Branches, 2)
}

func (s *NetlistSuite) TestParseACDirectiveSetsOmega() {
	deck := "AC test\n.AC 1000\nR1 1 0 100\n"
	ckt, err := netlist.Parse(deck)
	require.NoError(s.T(), err)
	require.InDelta(s.T(), 2*math.Pi*1000, ckt.Omega, 1e-6)
}

func (s *NetlistSuite) TestParseGroundNodeIsZero() {
	deck := "* ground test\nR1 1 0 100\n"
	ckt, err := netlist.Parse(deck)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 0, ckt.Branches[0].Source)
}

func (s *NetlistSuite) TestParseImpedanceElement() {
	deck := "* impedance test\nZ1 1 2 3 4\n"
	ckt, err := netlist.Parse(deck)
	require.NoError(s.T(), err)
	require.Equal(s.T(), complex(3, 4), ckt.Elements[0].Value)
}

func (s *NetlistSuite) TestParseRejectsMalformedLine() {
	_, err := netlist.Parse("* malformed\nR1 1 2\n")
	require.Error(s.T(), err)
}

func TestNetlistSuite(t *testing.T) {
	suite.Run(t, new(NetlistSuite))
}
