// Command phasorsolve reads a netlist file, solves it for DC or a single
// AC frequency, and prints the node voltages. Branch currents are not
// printed.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/edp1096/phasorsolve/pkg/circuit"
	"github.com/edp1096/phasorsolve/pkg/fmtx"
	"github.com/edp1096/phasorsolve/pkg/netlist"
)

func main() {
	direct := flag.Bool("direct", false, "solve by direct nodal linear solve instead of gradient descent")
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal("Usage: phasorsolve [-direct] <netlist_file>")
	}

	fmt.Printf("\n[1] Reading netlist file: %s\n", flag.Arg(0))
	content, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("Error reading netlist file: %v", err)
	}

	fmt.Println("\n[2] Parsing netlist")
	ckt, err := netlist.Parse(string(content))
	if err != nil {
		log.Fatalf("Error parsing netlist: %v", err)
	}
	if ckt.Title != "" {
		fmt.Printf("Title: %s\n", ckt.Title)
	}
	fmt.Printf("Frequency: %s\n", fmtx.Frequency(ckt.Omega))
	fmt.Printf("Elements: %d\n", len(ckt.Elements))

	var potentials map[int]complex128
	if *direct {
		fmt.Println("\n[3] Solving by direct nodal linear solve")
		potentials, err = circuit.SolveDirect(ckt.Branches, ckt.Omega)
		if err != nil {
			log.Fatalf("Direct solve failed: %v", err)
		}
	} else {
		fmt.Println("\n[3] Solving by gradient descent")
		solver, err := circuit.NewSolver(ckt.Branches, circuit.DefaultSolverConfig())
		if err != nil {
			log.Fatalf("Error building solver: %v", err)
		}
		_, result, warning, err := solver.Solve(ckt.Omega)
		if err != nil {
			log.Fatalf("Solve failed: %v", err)
		}
		if warning != nil {
			log.Printf("warning: %v", warning)
		}
		potentials = result
	}

	printResults(potentials)
}

func printResults(potentials map[int]complex128) {
	fmt.Println("\n[4] Node voltages:")
	nodes := make([]int, 0, len(potentials))
	for n := range potentials {
		nodes = append(nodes, n)
	}
	sort.Ints(nodes)
	for _, n := range nodes {
		fmt.Printf("  %s\n", fmtx.Phasor(fmt.Sprintf("V(%d)", n), potentials[n]))
	}
}
