package solver

import "math"

// Mesh splits a sphere of radius R into N shells of equal thickness.
// Shell i (1-based) spans [r(i-1), r(i)].
type Mesh struct {
	N      int
	Radius float64
	Dr     float64
	volume []float64 // 1-based
	area   []float64 // outer face of shell i, 1-based
}

func NewMesh(n int, radius float64) *Mesh {
	m := &Mesh{
		N:      n,
		Radius: radius,
		Dr:     radius / float64(n),
		volume: make([]float64, n+1),
		area:   make([]float64, n+1),
	}

	for i := 1; i <= n; i++ {
		ro := float64(i) * m.Dr
		ri := float64(i-1) * m.Dr
		m.volume[i] = 4.0 / 3.0 * math.Pi * (ro*ro*ro - ri*ri*ri)
		m.area[i] = 4.0 * math.Pi * ro * ro
	}
	return m
}

func (m *Mesh) Volume(i int) float64 { return m.volume[i] }

func (m *Mesh) Area(i int) float64 { return m.area[i] }

func (m *Mesh) TotalVolume() float64 {
	return 4.0 / 3.0 * math.Pi * m.Radius * m.Radius * m.Radius
}

// Moles integrates a 1-based concentration vector over the particle.
func (m *Mesh) Moles(c []float64) float64 {
	total := 0.0
	for i := 1; i <= m.N; i++ {
		total += m.volume[i] * c[i]
	}
	return total
}
