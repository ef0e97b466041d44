package parameters

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNonPositiveTemperature = errors.New("temperature must be positive")
	ErrShapeMismatch          = errors.New("operand lengths do not broadcast")
)

// Arrhenius returns exp(-E/(Rg*T)) * exp(E/(Rg*Tref)).
// The factor is 1 at T == Tref or E == 0.
func Arrhenius(E, Rg, T, Tref float64) float64 {
	return math.Exp(-E/(Rg*T)) * math.Exp(E/(Rg*Tref))
}

func CheckTemperature(T float64) error {
	if !(T > 0) {
		return fmt.Errorf("%w: T=%g", ErrNonPositiveTemperature, T)
	}
	return nil
}

// broadcast2 evaluates fn over a and b elementwise. A length-1 operand is
// repeated against the other one.
func broadcast2(a, b []float64, fn func(x, y float64) float64) ([]float64, error) {
	n := len(a)
	switch {
	case len(a) == len(b):
	case len(a) == 1:
		n = len(b)
	case len(b) == 1:
	default:
		return nil, fmt.Errorf("%w: %d vs %d", ErrShapeMismatch, len(a), len(b))
	}

	out := make([]float64, n)
	for i := range out {
		x, y := a[0], b[0]
		if len(a) > 1 {
			x = a[i]
		}
		if len(b) > 1 {
			y = b[i]
		}
		out[i] = fn(x, y)
	}
	return out, nil
}

func checkTemperatures(T []float64) error {
	for _, t := range T {
		if err := CheckTemperature(t); err != nil {
			return err
		}
	}
	return nil
}
