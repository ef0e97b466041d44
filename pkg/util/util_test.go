package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBDFCoeffs(t *testing.T) {
	dt := 0.5
	assert.InDeltaSlice(t, []float64{2, -2}, BDFCoeffs(1, dt), 1e-12)
	assert.InDeltaSlice(t, []float64{3, -4, 1}, BDFCoeffs(2, dt), 1e-12)
	assert.InDeltaSlice(t, []float64{2, -2}, BDFCoeffs(0, dt), 1e-12)
	assert.InDeltaSlice(t, []float64{2, -2}, BDFCoeffs(MaxBDFOrder+1, dt), 1e-12)

	// every formula differentiates a constant to zero
	for order := 1; order <= MaxBDFOrder; order++ {
		sum := 0.0
		for _, c := range BDFCoeffs(order, dt) {
			sum += c
		}
		assert.InDelta(t, 0, sum, 1e-10, "order %d", order)
	}
}

func TestFormatValueFactor(t *testing.T) {
	tests := []struct {
		value float64
		unit  string
		want  string
	}{
		{1.5, "V", "1.500 V"},
		{0.0025, "A", "2.500 mA"},
		{5.0128e-6, "A.m-2", "5.013 uA.m-2"},
		{3e-9, "s", "3.000 ns"},
		{4e-12, "F", "4.000 pF"},
		{3e-14, "m2.s-1", "3.000e-14 m2.s-1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValueFactor(tt.value, tt.unit))
	}
}

func TestFormatTemperature(t *testing.T) {
	assert.Equal(t, " 296.00 K ( 22.85 C)", FormatTemperature(296))
}
