package solver

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/toy-cell/pkg/parameters"
)

func newTestDiffusion(t *testing.T, p Particle) *Diffusion {
	t.Helper()
	d, err := NewDiffusion(parameters.Ecker2015(), p)
	require.NoError(t, err)
	t.Cleanup(d.Destroy)
	return d
}

func TestMeshVolumes(t *testing.T) {
	m := NewMesh(10, 5e-6)
	total := 0.0
	for i := 1; i <= m.N; i++ {
		total += m.Volume(i)
	}
	assert.InEpsilon(t, m.TotalVolume(), total, 1e-12)
	assert.InEpsilon(t, 4*math.Pi*25e-12, m.Area(m.N), 1e-12)
}

func TestZeroFluxKeepsUniformState(t *testing.T) {
	d := newTestDiffusion(t, Particle{Shells: 8, Temperature: 296, TStop: 10, TStep: 1})
	require.NoError(t, d.Run(context.Background()))

	res := d.Results()
	require.Len(t, res["TIME"], 11)
	assert.Equal(t, 10.0, res["TIME"][10])
	for i := range res["TIME"] {
		assert.InDelta(t, 0.6, res["STO_SURF"][i], 1e-12)
		assert.InDelta(t, 0.6, res["STO_AVG"][i], 1e-12)
		assert.InDelta(t, 0, res["ETA"][i], 1e-15)
	}

	cmax := 48580.0
	cs := 0.6 * cmax
	wantJ0 := 96487 * 5.196e-11 * math.Sqrt(1000*cs*(cmax-cs))
	assert.InEpsilon(t, wantJ0, res["J0"][0], 1e-12)
}

func TestConstantFluxConservesLithium(t *testing.T) {
	p := Particle{Shells: 10, Flux: 1e-6, Temperature: 296, TStop: 100, TStep: 1}
	d := newTestDiffusion(t, p)
	require.NoError(t, d.Run(context.Background()))

	res := d.Results()
	n := res["N_LI"]
	lost := n[0] - n[len(n)-1]
	want := p.Flux * d.Mesh().Area(p.Shells) * p.TStop
	assert.InEpsilon(t, want, lost, 1e-5)

	// lithium leaves through the surface, so the surface is depleted first
	last := len(n) - 1
	assert.Less(t, res["STO_SURF"][last], res["STO_AVG"][last])
	assert.Less(t, res["STO_AVG"][last], 0.6)
	assert.Greater(t, res["ETA"][last], 0.0)

	c := d.Concentration()
	for i := 2; i <= p.Shells; i++ {
		assert.LessOrEqual(t, c[i], c[i-1])
	}
}

func TestHigherOrderMatchesBackwardEuler(t *testing.T) {
	base := Particle{Shells: 6, Flux: 5e-6, Temperature: 296, TStop: 50, TStep: 0.5}

	be := base
	be.MaxOrder = 1
	d1 := newTestDiffusion(t, be)
	require.NoError(t, d1.Run(context.Background()))

	d2 := newTestDiffusion(t, base)
	require.NoError(t, d2.Run(context.Background()))

	s1 := d1.Results()["STO_SURF"]
	s2 := d2.Results()["STO_SURF"]
	require.Equal(t, len(s1), len(s2))
	assert.InDelta(t, s1[len(s1)-1], s2[len(s2)-1], 1e-3)
}

func TestTemperatureRaisesDiffusivity(t *testing.T) {
	cold := newTestDiffusion(t, Particle{Shells: 4, Temperature: 296, TStop: 1, TStep: 1})
	hot := newTestDiffusion(t, Particle{Shells: 4, Temperature: 320, TStop: 1, TStep: 1})
	require.NoError(t, cold.Run(context.Background()))
	require.NoError(t, hot.Run(context.Background()))

	assert.Greater(t, hot.Results()["D_SURF"][0], cold.Results()["D_SURF"][0])
	assert.Greater(t, hot.Results()["J0"][0], cold.Results()["J0"][0])
}

func TestDepletionStopsAtBounds(t *testing.T) {
	d := newTestDiffusion(t, Particle{Shells: 10, Flux: 1e-4, Temperature: 296, TStop: 2000, TStep: 5})
	err := d.Run(context.Background())
	require.ErrorIs(t, err, ErrStoichiometryBounds)

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Greater(t, stepErr.Time, 0.0)
	assert.Less(t, stepErr.Time, 2000.0)
	assert.NotEmpty(t, d.Results()["TIME"])
}

func TestRunHonoursContext(t *testing.T) {
	d := newTestDiffusion(t, Particle{Shells: 4, Temperature: 296, TStop: 10, TStep: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewDiffusionValidation(t *testing.T) {
	set := parameters.Ecker2015()

	_, err := NewDiffusion(set, Particle{Shells: 0, Temperature: 296, TStop: 1, TStep: 1})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewDiffusion(set, Particle{Shells: 4, Temperature: 296, TStop: 1})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewDiffusion(set, Particle{Shells: 4, Temperature: 0, TStop: 1, TStep: 1})
	assert.ErrorIs(t, err, parameters.ErrNonPositiveTemperature)

	bad := parameters.Ecker2015()
	bad.Values[parameters.PositiveInitialStoichiometry] = 1.2
	_, err = NewDiffusion(bad, Particle{Shells: 4, Temperature: 296, TStop: 1, TStep: 1})
	assert.ErrorIs(t, err, ErrStoichiometryBounds)

	missing := parameters.Ecker2015()
	delete(missing.Values, parameters.PositiveParticleRadius)
	_, err = NewDiffusion(missing, Particle{Shells: 4, Temperature: 296, TStop: 1, TStep: 1})
	assert.ErrorIs(t, err, parameters.ErrUnknownParameter)
}

func TestCheckConvergence(t *testing.T) {
	b := NewBaseSolver()
	assert.True(t, b.CheckConvergence([]float64{0, 1, 2}, []float64{0, 1, 2}))
	assert.False(t, b.CheckConvergence([]float64{0, 1, 2}, []float64{0, 1, 2.1}))
	assert.False(t, b.CheckConvergence([]float64{0, 1}, []float64{0, 1, 2}))
}

func TestStoreTimeResultSkipsDuplicateTime(t *testing.T) {
	b := NewBaseSolver()
	b.StoreTimeResult(0, map[string]float64{"X": 1})
	b.StoreTimeResult(0, map[string]float64{"X": 2})
	b.StoreTimeResult(1, map[string]float64{"X": 3})
	assert.Equal(t, []float64{0, 1}, b.Results()["TIME"])
	assert.Equal(t, []float64{1, 3}, b.Results()["X"])
}

func TestRunRepeatedNewtonIterations(t *testing.T) {
	d := newTestDiffusion(t, Particle{Shells: 4, Flux: 1e-6, Temperature: 296, TStop: 2, TStep: 1})
	require.NotPanics(t, func() {
		require.NoError(t, d.Run(context.Background()))
	})
	assert.Equal(t, []float64{0, 1, 2}, d.Results()["TIME"])
}
