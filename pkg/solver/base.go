package solver

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrStoichiometryBounds = errors.New("stoichiometry left (0, 1)")
	ErrNoConvergence       = errors.New("newton iteration did not converge")
	ErrStepTooSmall        = errors.New("time step below minimum")
	ErrInvalidConfig       = errors.New("invalid solver configuration")
)

// StepError carries the time at which integration stopped.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d at t=%g: %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}

type BaseSolver struct {
	results     map[string][]float64 // key: variable name, value: series over TIME
	convergence struct {
		maxIter int
		abstol  float64
		reltol  float64
	}
}

func NewBaseSolver() *BaseSolver {
	bs := &BaseSolver{results: make(map[string][]float64)}

	bs.convergence.maxIter = 50
	bs.convergence.abstol = 1e-9
	bs.convergence.reltol = 1e-9

	return bs
}

// CheckConvergence compares two 1-based solution vectors.
func (b *BaseSolver) CheckConvergence(oldSol, newSol []float64) bool {
	if len(oldSol) != len(newSol) {
		return false
	}

	for i := 1; i < len(newSol); i++ {
		diff := math.Abs(newSol[i] - oldSol[i])
		tol := b.convergence.reltol*math.Max(math.Abs(newSol[i]), math.Abs(oldSol[i])) + b.convergence.abstol
		if diff > tol {
			return false
		}
	}
	return true
}

func (b *BaseSolver) StoreTimeResult(time float64, values map[string]float64) {
	if n := len(b.results["TIME"]); n > 0 && b.results["TIME"][n-1] == time {
		return
	}

	b.results["TIME"] = append(b.results["TIME"], time)
	for name, value := range values {
		b.results[name] = append(b.results[name], value)
	}
}

func (b *BaseSolver) Results() map[string][]float64 {
	return b.results
}
