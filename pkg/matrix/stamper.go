package matrix

// Stamper receives Jacobian and residual contributions.
type Stamper interface {
	AddElement(i, j int, value float64) // 1-based indexing
	AddRHS(i int, value float64)
}
