package matrix

import (
	"fmt"

	"github.com/edp1096/sparse"
)

// CircuitMatrix wraps a sparse complex linear system: a nodal admittance
// matrix plus an interleaved real/imaginary right-hand side, sized for the
// modified-nodal-analysis systems SolveDirect assembles (one row/column per
// non-reference node, plus one per ideal-voltage-source branch current).
type CircuitMatrix struct {
	Size     int
	matrix   *sparse.Matrix
	rhs      []float64
	rhsImag  []float64
	solution []float64
	config   *sparse.Configuration
}

// NewMatrix allocates a size x size complex sparse matrix with a 1-based
// interleaved real/imaginary right-hand side. Returns nil if the underlying
// sparse matrix cannot be created.
func NewMatrix(size int) *CircuitMatrix {
	config := &sparse.Configuration{
		Real:           true,
		Complex:        true,
		Expandable:     true,
		ModifiedNodal:  true,
		TiesMultiplier: 5,
		PrinterWidth:   140,
	}

	mat, err := sparse.Create(int64(size), config)
	if err != nil {
		fmt.Printf("Error creating sparse matrix: %v\n", err)
		return nil
	}

	vectorSize := 2 * (size + 1) // interleaved real/imag, 1-based indexing

	return &CircuitMatrix{
		Size:     size,
		matrix:   mat,
		rhs:      make([]float64, vectorSize),
		rhsImag:  make([]float64, 1), // unused when rhs is interleaved; kept for the SolveComplex signature
		solution: make([]float64, vectorSize),
		config:   config,
	}
}

// AddElement accumulates value into the matrix entry at (i, j), 1-based.
func (m *CircuitMatrix) AddElement(i, j int, value complex128) {
	if i <= 0 || j <= 0 || i > m.Size || j > m.Size {
		fmt.Printf("Warning: Matrix index out of bounds (i=%d, j=%d, size=%d)\n", i, j, m.Size)
		return
	}

	element := m.matrix.GetElement(int64(i), int64(j))
	element.Real += real(value)
	element.Imag += imag(value)
}

// AddRHS accumulates value into the right-hand side at row i, 1-based.
func (m *CircuitMatrix) AddRHS(i int, value complex128) {
	if i <= 0 || i > m.Size {
		fmt.Printf("Warning: RHS index out of bounds (i=%d, size=%d)\n", i, m.Size)
		return
	}
	m.rhs[2*i] += real(value)
	m.rhs[2*i+1] += imag(value)
}

// Solve factors the matrix and solves for the accumulated right-hand side.
func (m *CircuitMatrix) Solve() error {
	var err error

	if err = m.matrix.Factor(); err != nil {
		return fmt.Errorf("matrix factorization failed: %v", err)
	}

	m.solution, _, err = m.matrix.SolveComplex(m.rhs, m.rhsImag)
	if err != nil {
		return fmt.Errorf("matrix solve failed: %v", err)
	}

	return nil
}

// GetSolution returns the solved value at row i, 1-based.
func (m *CircuitMatrix) GetSolution(i int) complex128 {
	if i <= 0 || i > m.Size {
		return 0
	}
	return complex(m.solution[i], m.solution[i+m.Size])
}

// Destroy releases the underlying sparse matrix.
func (m *CircuitMatrix) Destroy() {
	if m.matrix != nil {
		m.matrix.Destroy()
	}
}
