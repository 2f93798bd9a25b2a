// Package netlist parses a small SPICE-like textual circuit description
// into a list of circuit.Branch values, the way the teacher's
// pkg/netlist/parser.go turns a deck into device elements.
package netlist

import (
	"bufio"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/edp1096/phasorsolve/internal/circuiterr"
	"github.com/edp1096/phasorsolve/pkg/circuit"
	"github.com/edp1096/phasorsolve/pkg/component"
	"github.com/edp1096/phasorsolve/pkg/units"
)

// Element is one parsed netlist line, before it has been turned into a
// component and folded into a Branch.
type Element struct {
	Type  string   // R, C, L, V, J (current source), Z (impedance)
	Name  string   // full designator, e.g. "R1"
	Nodes []string // exactly two node names
	Value complex128
}

// Circuit is the result of a full netlist parse: the branch list ready for
// circuit.NewSolver/circuit.SolveDirect, plus the declared analysis
// frequency.
type Circuit struct {
	Title    string
	Elements []Element
	Branches []*circuit.Branch
	Omega    float64 // 0 for DC (the default absent a .AC line)
}

var valuePattern = regexp.MustCompile(`^([-+]?\d*\.?\d+)(meg|[TGMKkmunpfµ])?$`)

// ParseValue parses a bare or SI-suffixed numeric literal, e.g. "4.7k" ->
// 4700, "100n" -> 1e-7.
func ParseValue(val string) (float64, error) {
	matches := valuePattern.FindStringSubmatch(strings.TrimSpace(val))
	if matches == nil {
		return 0, fmt.Errorf("netlist: invalid value format: %q", val)
	}

	num, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, err
	}

	if matches[2] != "" {
		prefix, ok := units.FromSymbol(matches[2])
		if !ok {
			return 0, fmt.Errorf("netlist: unknown SI suffix %q", matches[2])
		}
		num = units.Scale(num, prefix)
	}

	return num, nil
}

// Parse reads a netlist deck and returns its title, the raw elements
// (useful for diagnostics) and the equivalent branch list.
func Parse(input string) (*Circuit, error) {
	scanner := bufio.NewScanner(strings.NewReader(input))
	ckt := &Circuit{}

	if scanner.Scan() {
		ckt.Title = strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "*"))
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "*") {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if err := parseDirective(ckt, line); err != nil {
				return nil, err
			}
			continue
		}

		elem, err := parseElement(line)
		if err != nil {
			return nil, err
		}
		ckt.Elements = append(ckt.Elements, *elem)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	branches, err := elementsToBranches(ckt.Elements)
	if err != nil {
		return nil, err
	}
	ckt.Branches = branches

	return ckt, nil
}

func parseDirective(ckt *Circuit, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return fmt.Errorf("netlist: empty directive")
	}
	switch strings.ToLower(fields[0]) {
	case ".ac":
		if len(fields) < 2 {
			return fmt.Errorf("netlist: .ac requires a frequency")
		}
		freq, err := ParseValue(fields[1])
		if err != nil {
			return fmt.Errorf("netlist: invalid .ac frequency: %w", err)
		}
		ckt.Omega = 2 * math.Pi * freq
	case ".dc", ".op":
		ckt.Omega = 0
	default:
		return fmt.Errorf("netlist: unsupported directive: %s", fields[0])
	}
	return nil
}

// parseElement parses one element line: "Name n1 n2 value" for R/C/L/V/J,
// and "Name n1 n2 real imag" for the general impedance Z.
func parseElement(line string) (*Element, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return nil, fmt.Errorf("netlist: invalid element line: %q", line)
	}

	name := fields[0]
	kind := strings.ToUpper(name[:1])
	nodes := fields[1:3]

	elem := &Element{Type: kind, Name: name, Nodes: nodes}

	switch kind {
	case "Z":
		if len(fields) < 5 {
			return nil, fmt.Errorf("netlist: Z element needs real and imaginary parts: %q", line)
		}
		re, err := ParseValue(fields[3])
		if err != nil {
			return nil, fmt.Errorf("netlist: invalid Z real part: %w", err)
		}
		im, err := ParseValue(fields[4])
		if err != nil {
			return nil, fmt.Errorf("netlist: invalid Z imaginary part: %w", err)
		}
		elem.Value = complex(re, im)
	case "R", "C", "L", "V", "J":
		v, err := ParseValue(fields[3])
		if err != nil {
			return nil, fmt.Errorf("netlist: invalid value for %s: %w", name, err)
		}
		elem.Value = complex(v, 0)
	default:
		return nil, fmt.Errorf("netlist: unsupported element type: %s", kind)
	}

	return elem, nil
}

func nodeIndex(name string, nodeIDs map[string]int, next *int) int {
	if name == "0" {
		return 0
	}
	if id, ok := nodeIDs[name]; ok {
		return id
	}
	*next++
	nodeIDs[name] = *next
	return *next
}

func elementToComponent(elem Element) (component.Component, error) {
	switch elem.Type {
	case "R":
		return component.NewResistor(elem.Name, real(elem.Value), units.Nil), nil
	case "C":
		return component.NewCapacitor(elem.Name, real(elem.Value), units.Nil), nil
	case "L":
		return component.NewInductor(elem.Name, real(elem.Value), units.Nil), nil
	case "V":
		return component.NewVSource(elem.Name, elem.Value, units.Nil), nil
	case "J":
		return component.NewISource(elem.Name, elem.Value, units.Nil), nil
	case "Z":
		return component.NewImpedance(elem.Name, elem.Value, units.Nil), nil
	default:
		return nil, circuiterr.NewTypeError(elem.Type)
	}
}

func elementsToBranches(elements []Element) ([]*circuit.Branch, error) {
	nodeIDs := map[string]int{"0": 0}
	next := 0

	branches := make([]*circuit.Branch, 0, len(elements))
	for _, elem := range elements {
		if len(elem.Nodes) != 2 {
			return nil, fmt.Errorf("netlist: %s must name exactly two nodes", elem.Name)
		}
		comp, err := elementToComponent(elem)
		if err != nil {
			return nil, err
		}

		source := nodeIndex(elem.Nodes[0], nodeIDs, &next)
		sink := nodeIndex(elem.Nodes[1], nodeIDs, &next)

		branch, err := circuit.NewBranch(source, sink, []component.Component{comp})
		if err != nil {
			return nil, err
		}
		branches = append(branches, branch)
	}

	return branches, nil
}
