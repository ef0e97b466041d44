package parameters

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrheniusUnityAtReference(t *testing.T) {
	assert.Equal(t, 1.0, Arrhenius(0, 8.314, 350, 296))
	assert.InDelta(t, 1.0, Arrhenius(4e4, 8.314, 296, 296), 1e-12)
	assert.Greater(t, Arrhenius(4e4, 8.314, 320, 296), 1.0)
	assert.Less(t, Arrhenius(4e4, 8.314, 270, 296), 1.0)
}

func TestNcoDiffusivityAtPeak(t *testing.T) {
	got := NcoDiffusivityEcker2015(0.62, 296, 296, 0, 8.314)
	assert.InDelta(t, 3.0e-14, got, 1e-27)
}

func TestNcoDiffusivityMonotoneAwayFromPeak(t *testing.T) {
	prev := NcoDiffusivityEcker2015(0.62, 296, 296, 0, 8.314)
	for _, d := range []float64{0.05, 0.1, 0.2, 0.3, 0.38} {
		for _, sto := range []float64{0.62 - d, 0.62 + d} {
			if sto < 0 || sto > 1 {
				continue
			}
			got := NcoDiffusivityEcker2015(sto, 296, 296, 0, 8.314)
			assert.Greater(t, got, prev, "sto=%g", sto)
		}
		prev = NcoDiffusivityEcker2015(0.62+d, 296, 296, 0, 8.314)
	}
}

func TestNcoDiffusivitySymmetricAboutPeak(t *testing.T) {
	a := NcoDiffusivityEcker2015(0.42, 296, 296, 0, 8.314)
	b := NcoDiffusivityEcker2015(0.82, 296, 296, 0, 8.314)
	assert.InDelta(t, a, b, 1e-26)
}

func TestNcoReactionRateAtReference(t *testing.T) {
	got := NcoElectrolyteReactionRateEcker2015(296, 296, 0, 8.314)
	assert.InDelta(t, 96487*5.196e-11, got, 1e-18)
	assert.InDelta(t, 5.0128e-6, got, 1e-9)
}

func TestNcoReactionRateIgnoresTinf(t *testing.T) {
	a := NcoElectrolyteReactionRateEcker2015(310, 296, 4.36e4, 8.314)
	b := NcoElectrolyteReactionRateEcker2015(310, 250, 4.36e4, 8.314)
	assert.Equal(t, a, b)
}

func TestParameterFunctionsArePure(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t,
			NcoDiffusivityEcker2015(0.3, 310, 296, 8.06e4, 8.314),
			NcoDiffusivityEcker2015(0.3, 310, 296, 8.06e4, 8.314))
		assert.Equal(t,
			NcoElectrolyteReactionRateEcker2015(280, 296, 4.36e4, 8.314),
			NcoElectrolyteReactionRateEcker2015(280, 296, 4.36e4, 8.314))
	}
}

func TestNcoDiffusivityVec(t *testing.T) {
	tests := []struct {
		name    string
		sto     []float64
		T       []float64
		wantLen int
		wantErr error
	}{
		{"elementwise", []float64{0.1, 0.62, 0.9}, []float64{296, 296, 296}, 3, nil},
		{"broadcast temperature", []float64{0.1, 0.62, 0.9, 0.5}, []float64{296}, 4, nil},
		{"broadcast stoichiometry", []float64{0.62}, []float64{280, 296}, 2, nil},
		{"empty", []float64{}, []float64{}, 0, nil},
		{"mismatch", []float64{0.1, 0.2}, []float64{296, 297, 298}, 0, ErrShapeMismatch},
		{"zero temperature", []float64{0.1}, []float64{0}, 0, ErrNonPositiveTemperature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NcoDiffusivityEcker2015Vec(tt.sto, tt.T, 296, 8.06e4, 8.314)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, tt.wantLen)
			for i, v := range got {
				sto, T := tt.sto[0], tt.T[0]
				if len(tt.sto) > 1 {
					sto = tt.sto[i]
				}
				if len(tt.T) > 1 {
					T = tt.T[i]
				}
				assert.Equal(t, NcoDiffusivityEcker2015(sto, T, 296, 8.06e4, 8.314), v)
			}
		})
	}
}

func TestNcoReactionRateVec(t *testing.T) {
	got, err := NcoElectrolyteReactionRateEcker2015Vec([]float64{270, 296, 320}, 296, 0, 8.314)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, v := range got {
		assert.InDelta(t, 5.0128e-6, v, 1e-9)
	}

	_, err = NcoElectrolyteReactionRateEcker2015Vec([]float64{296, math.NaN()}, 296, 0, 8.314)
	assert.ErrorIs(t, err, ErrNonPositiveTemperature)
}
