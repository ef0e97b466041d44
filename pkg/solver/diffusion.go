// Package solver integrates lithium diffusion in a spherical electrode particle
// in pure Go. It is the solver path used when the idaklu extension is not
// available.
package solver

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/edp1096/toy-cell/internal/consts"
	"github.com/edp1096/toy-cell/pkg/matrix"
	"github.com/edp1096/toy-cell/pkg/parameters"
	"github.com/edp1096/toy-cell/pkg/util"
)

// Particle describes one constant-flux run.
type Particle struct {
	Shells      int     // finite-volume shells
	Flux        float64 // molar flux leaving the surface (mol.m-2.s-1)
	Temperature float64 // K
	TStop       float64 // s
	TStep       float64 // s
	MinStep     float64 // s, defaults to TStep/1024
	MaxOrder    int     // BDF order cap, defaults to 2
}

type Diffusion struct {
	BaseSolver
	set    *parameters.Set
	p      Particle
	mesh   *Mesh
	mat    *matrix.SystemMatrix
	logger *zap.Logger

	cmax         float64
	ce           float64
	rg           float64
	reactionRate float64

	time     float64
	lastStep float64
	history  [][]float64 // history[0] is the latest accepted state, 1-based
}

type Option func(*Diffusion)

func WithLogger(l *zap.Logger) Option {
	return func(d *Diffusion) { d.logger = l }
}

func NewDiffusion(set *parameters.Set, p Particle, opts ...Option) (*Diffusion, error) {
	if p.Shells < 1 {
		return nil, fmt.Errorf("%w: shells=%d", ErrInvalidConfig, p.Shells)
	}
	if !(p.TStop > 0) || !(p.TStep > 0) {
		return nil, fmt.Errorf("%w: tstop=%g tstep=%g", ErrInvalidConfig, p.TStop, p.TStep)
	}
	if err := parameters.CheckTemperature(p.Temperature); err != nil {
		return nil, err
	}
	if p.MaxOrder <= 0 {
		p.MaxOrder = 2
	}
	if p.MaxOrder > util.MaxBDFOrder {
		p.MaxOrder = util.MaxBDFOrder
	}
	if p.MinStep <= 0 {
		p.MinStep = p.TStep / 1024
	}

	d := &Diffusion{
		BaseSolver: *NewBaseSolver(),
		set:        set,
		p:          p,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}

	var err error
	values := make(map[string]float64)
	for _, name := range []string{
		parameters.PositiveParticleRadius,
		parameters.PositiveMaxConcentration,
		parameters.PositiveInitialStoichiometry,
		parameters.ElectrolyteConcentration,
		parameters.GasConstant,
	} {
		if values[name], err = set.Value(name); err != nil {
			return nil, err
		}
	}
	d.cmax = values[parameters.PositiveMaxConcentration]
	d.ce = values[parameters.ElectrolyteConcentration]
	d.rg = values[parameters.GasConstant]

	d.reactionRate, err = set.Evaluate(parameters.PositiveReactionRate, parameters.Inputs{T: p.Temperature})
	if err != nil {
		return nil, err
	}

	sto0 := values[parameters.PositiveInitialStoichiometry]
	if !(sto0 > 0 && sto0 < 1) {
		return nil, fmt.Errorf("%w: initial sto=%g", ErrStoichiometryBounds, sto0)
	}

	d.mesh = NewMesh(p.Shells, values[parameters.PositiveParticleRadius])
	d.mat, err = matrix.NewMatrix(p.Shells, d.logger)
	if err != nil {
		return nil, err
	}
	d.mat.SetupTridiagonal()

	c0 := make([]float64, p.Shells+1)
	for i := 1; i <= p.Shells; i++ {
		c0[i] = sto0 * d.cmax
	}
	d.history = [][]float64{c0}

	return d, nil
}

func (d *Diffusion) Mesh() *Mesh { return d.mesh }

// Concentration returns the latest accepted shell concentrations (1-based).
func (d *Diffusion) Concentration() []float64 {
	return append([]float64(nil), d.history[0]...)
}

func (d *Diffusion) Time() float64 { return d.time }

func (d *Diffusion) Destroy() {
	d.mat.Destroy()
}

func (d *Diffusion) Run(ctx context.Context) error {
	if err := d.store(d.history[0]); err != nil {
		return &StepError{Step: 0, Time: d.time, Wrapped: err}
	}

	dt := d.p.TStep
	order := 1
	step := 0

	for d.time < d.p.TStop {
		if err := ctx.Err(); err != nil {
			return &StepError{Step: step, Time: d.time, Wrapped: err}
		}

		h := dt
		remaining := d.p.TStop - d.time
		last := h >= remaining-1e-9*d.p.TStep
		if last {
			h = remaining
		}

		// the coefficient table assumes a uniform step
		if h != d.lastStep {
			d.history = d.history[:1]
			order = 1
		}

		c, err := d.doNRiter(h, min(order, len(d.history)))
		if err != nil {
			if dt/2 < d.p.MinStep {
				return &StepError{Step: step, Time: d.time, Wrapped: fmt.Errorf("%w: %v", ErrStepTooSmall, err)}
			}
			dt /= 2
			d.logger.Debug("step rejected", zap.Float64("t", d.time), zap.Float64("dt", dt), zap.Error(err))
			continue
		}
		if err := d.checkBounds(c); err != nil {
			return &StepError{Step: step + 1, Time: d.time + h, Wrapped: err}
		}

		step++
		if last {
			d.time = d.p.TStop
		} else {
			d.time += h
		}
		d.lastStep = h
		d.history = append([][]float64{c}, d.history...)
		if len(d.history) > d.p.MaxOrder {
			d.history = d.history[:d.p.MaxOrder]
		}
		order = min(order+1, d.p.MaxOrder)

		if err := d.store(c); err != nil {
			return &StepError{Step: step, Time: d.time, Wrapped: err}
		}

		if dt < d.p.TStep {
			dt = min(dt*2, d.p.TStep)
		}
	}

	d.logger.Debug("diffusion finished", zap.Int("steps", step), zap.Float64("t", d.time))
	return nil
}

func (d *Diffusion) doNRiter(dt float64, order int) ([]float64, error) {
	alpha := util.BDFCoeffs(order, dt)
	c := append([]float64(nil), d.history[0]...)

	for iter := 0; iter < d.convergence.maxIter; iter++ {
		d.mat.Clear()
		if err := d.stamp(d.mat, c, alpha); err != nil {
			return nil, fmt.Errorf("stamping error: %w", err)
		}
		if err := d.mat.Solve(); err != nil {
			return nil, fmt.Errorf("matrix solve error: %w", err)
		}

		delta := d.mat.Solution()
		next := make([]float64, len(c))
		for i := 1; i < len(c); i++ {
			next[i] = c[i] + delta[i]
		}

		converged := d.CheckConvergence(c, next)
		c = next
		if converged {
			return c, nil
		}
	}

	return nil, fmt.Errorf("%w in %d iterations", ErrNoConvergence, d.convergence.maxIter)
}

// stamp loads the Newton system J*delta = -G for the residual
// G_i = dc_i/dt + (F_i - F_(i-1)) / V_i, F_i being the outward flow through
// the outer face of shell i.
func (d *Diffusion) stamp(m matrix.Stamper, c, alpha []float64) error {
	n := d.mesh.N

	for i := 1; i <= n; i++ {
		g := alpha[0] * c[i]
		for k := 1; k < len(alpha); k++ {
			g += alpha[k] * d.history[k-1][i]
		}
		m.AddElement(i, i, alpha[0])
		m.AddRHS(i, -g)
	}

	for i := 1; i < n; i++ {
		D, dD, err := d.diffusivity(0.5 * (c[i] + c[i+1]))
		if err != nil {
			return err
		}
		geo := d.mesh.Area(i) / d.mesh.Dr
		grad := c[i+1] - c[i]

		flow := -D * geo * grad
		dFi := D*geo - 0.5*dD*geo*grad
		dFj := -D*geo - 0.5*dD*geo*grad

		vi, vj := d.mesh.Volume(i), d.mesh.Volume(i+1)
		m.AddElement(i, i, dFi/vi)
		m.AddElement(i, i+1, dFj/vi)
		m.AddElement(i+1, i, -dFi/vj)
		m.AddElement(i+1, i+1, -dFj/vj)
		m.AddRHS(i, -flow/vi)
		m.AddRHS(i+1, flow/vj)
	}

	m.AddRHS(n, -d.p.Flux*d.mesh.Area(n)/d.mesh.Volume(n))
	return nil
}

// diffusivity returns D and dD/dc at concentration c.
func (d *Diffusion) diffusivity(c float64) (float64, float64, error) {
	const h = 1e-6

	sto := c / d.cmax
	eval := func(s float64) (float64, error) {
		return d.set.Evaluate(parameters.PositiveDiffusivity, parameters.Inputs{Sto: s, T: d.p.Temperature})
	}

	D, err := eval(sto)
	if err != nil {
		return 0, 0, err
	}
	dp, err := eval(sto + h)
	if err != nil {
		return 0, 0, err
	}
	dm, err := eval(sto - h)
	if err != nil {
		return 0, 0, err
	}
	return D, (dp - dm) / (2 * h) / d.cmax, nil
}

func (d *Diffusion) surfaceConcentration(c []float64) (float64, error) {
	n := d.mesh.N
	D, _, err := d.diffusivity(c[n])
	if err != nil {
		return 0, err
	}
	// half a shell of the surface gradient -D dc/dr = flux
	return c[n] - d.p.Flux*0.5*d.mesh.Dr/D, nil
}

func (d *Diffusion) checkBounds(c []float64) error {
	for i := 1; i <= d.mesh.N; i++ {
		if sto := c[i] / d.cmax; !(sto > 0 && sto < 1) {
			return fmt.Errorf("%w: shell %d sto=%g", ErrStoichiometryBounds, i, sto)
		}
	}
	cs, err := d.surfaceConcentration(c)
	if err != nil {
		return err
	}
	if sto := cs / d.cmax; !(sto > 0 && sto < 1) {
		return fmt.Errorf("%w: surface sto=%g", ErrStoichiometryBounds, sto)
	}
	return nil
}

func (d *Diffusion) store(c []float64) error {
	cs, err := d.surfaceConcentration(c)
	if err != nil {
		return err
	}
	stoSurf := cs / d.cmax
	if !(stoSurf > 0 && stoSurf < 1) {
		return fmt.Errorf("%w: surface sto=%g", ErrStoichiometryBounds, stoSurf)
	}

	dSurf, err := d.set.Evaluate(parameters.PositiveDiffusivity, parameters.Inputs{Sto: stoSurf, T: d.p.Temperature})
	if err != nil {
		return err
	}

	moles := d.mesh.Moles(c)
	j0 := d.reactionRate * math.Sqrt(d.ce*cs*(d.cmax-cs))
	current := consts.FARADAY * d.p.Flux
	eta := 2 * d.rg * d.p.Temperature / consts.FARADAY * math.Asinh(current/(2*j0))

	d.StoreTimeResult(d.time, map[string]float64{
		"STO_SURF": stoSurf,
		"STO_AVG":  moles / (d.mesh.TotalVolume() * d.cmax),
		"D_SURF":   dSurf,
		"J0":       j0,
		"ETA":      eta,
		"N_LI":     moles,
	})
	return nil
}
