package matrix

import (
	"fmt"

	"github.com/edp1096/sparse"
	"go.uber.org/zap"
)

type SystemMatrix struct {
	Size     int
	matrix   *sparse.Matrix
	rhs      []float64
	solution []float64
	config   *sparse.Configuration
	logger   *zap.Logger
}

func NewMatrix(size int, logger *zap.Logger) (*SystemMatrix, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	config := &sparse.Configuration{
		Real:                    true,
		Complex:                 false,
		SeparatedComplexVectors: false,
		Expandable:              true,
		Translate:               true,
		ModifiedNodal:           false,
		TiesMultiplier:          5,
		PrinterWidth:            140,
		Annotate:                0,
	}

	mat, err := sparse.Create(int64(size), config)
	if err != nil {
		return nil, fmt.Errorf("creating sparse matrix: %w", err)
	}

	return &SystemMatrix{
		Size:     size,
		matrix:   mat,
		rhs:      make([]float64, size+1), // 1-based indexing
		solution: make([]float64, size+1),
		config:   config,
		logger:   logger,
	}, nil
}

// SetupTridiagonal allocates the band a 1D finite-volume stencil touches, so
// the sparsity pattern is fixed before the first factorization.
func (m *SystemMatrix) SetupTridiagonal() {
	for i := 1; i <= m.Size; i++ {
		for j := max(1, i-1); j <= min(m.Size, i+1); j++ {
			m.matrix.GetElement(int64(i), int64(j))
		}
	}
}

func (m *SystemMatrix) AddElement(i, j int, value float64) {
	if i <= 0 || j <= 0 || i > m.Size || j > m.Size {
		m.logger.Warn("matrix index out of bounds",
			zap.Int("i", i), zap.Int("j", j), zap.Int("size", m.Size))
		return
	}
	m.matrix.GetElement(int64(i), int64(j)).Real += value
}

func (m *SystemMatrix) AddRHS(i int, value float64) {
	if i <= 0 || i > m.Size {
		m.logger.Warn("rhs index out of bounds", zap.Int("i", i), zap.Int("size", m.Size))
		return
	}
	m.rhs[i] += value
}

func (m *SystemMatrix) Clear() {
	m.matrix.Clear()
	for i := range m.rhs {
		m.rhs[i] = 0
	}
}

func (m *SystemMatrix) Solve() error {
	if err := m.matrix.Factor(); err != nil {
		return fmt.Errorf("matrix factorization failed: %w", err)
	}

	solution, err := m.matrix.Solve(m.rhs)
	if err != nil {
		return fmt.Errorf("matrix solve failed: %w", err)
	}
	m.solution = solution
	return nil
}

func (m *SystemMatrix) RHS() []float64 {
	return m.rhs
}

// Solution is 1-based like the rhs; index 0 is unused.
func (m *SystemMatrix) Solution() []float64 {
	return m.solution
}

func (m *SystemMatrix) Element(i, j int) float64 {
	if i <= 0 || j <= 0 || i > m.Size || j > m.Size {
		return 0
	}
	return m.matrix.GetElement(int64(i), int64(j)).Real
}

func (m *SystemMatrix) Destroy() {
	if m.matrix != nil {
		m.matrix.Destroy()
		m.matrix = nil
	}
}
