package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/edp1096/toy-cell/internal/consts"
	"github.com/edp1096/toy-cell/pkg/solver"
	"github.com/edp1096/toy-cell/pkg/util"
)

var (
	simTemps    []float64
	simFlux     float64
	simCurrent  float64
	simTStop    float64
	simTStep    float64
	simShells   int
	simMaxOrder int
	simEvery    int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Constant-flux diffusion in a positive electrode particle",
	Long: `Integrates Fickian diffusion in a spherical NCO particle with the
stoichiometry and temperature dependent diffusivity of the parameter set.
Each --temp value is simulated concurrently.`,
	RunE: runSimulate,
}

func init() {
	f := simulateCmd.Flags()
	f.Float64SliceVar(&simTemps, "temp", []float64{296}, "temperatures (K)")
	f.Float64Var(&simFlux, "flux", 1e-6, "molar flux leaving the particle surface (mol.m-2.s-1)")
	f.Float64Var(&simCurrent, "current", 0, "surface current density (A.m-2); overrides --flux when non-zero")
	f.Float64Var(&simTStop, "tstop", 600, "end time (s)")
	f.Float64Var(&simTStep, "tstep", 1, "time step (s)")
	f.IntVar(&simShells, "shells", 20, "radial shells")
	f.IntVar(&simMaxOrder, "max-order", 2, "maximum BDF order")
	f.IntVar(&simEvery, "every", 60, "print every n-th stored point")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	set, err := loadParameterSet()
	if err != nil {
		return err
	}

	flux := simFlux
	if simCurrent != 0 {
		flux = simCurrent / consts.FARADAY
	}

	runs := make([]*solver.Diffusion, len(simTemps))
	for i, T := range simTemps {
		d, err := solver.NewDiffusion(set, solver.Particle{
			Shells:      simShells,
			Flux:        flux,
			Temperature: T,
			TStop:       simTStop,
			TStep:       simTStep,
			MaxOrder:    simMaxOrder,
		}, solver.WithLogger(logger.With(zap.Float64("temperature", T))))
		if err != nil {
			return err
		}
		defer d.Destroy()
		runs[i] = d
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	for _, d := range runs {
		g.Go(func() error {
			return d.Run(ctx)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	for i, d := range runs {
		printResults(cmd.OutOrStdout(), simTemps[i], d.Results(), simEvery)
	}
	return nil
}

func printResults(out io.Writer, T float64, results map[string][]float64, every int) {
	if every < 1 {
		every = 1
	}
	times := results["TIME"]

	fmt.Fprintf(out, "\nParticle diffusion at %s (%d time points):\n", util.FormatTemperature(T), len(times))
	fmt.Fprintln(out, "Time         Sto(surf)  Sto(avg)   D(surf)                J0                     Eta")
	fmt.Fprintln(out, "------------------------------------------------------------------------------------------------")

	for i, t := range times {
		if i%every != 0 && i != len(times)-1 {
			continue
		}
		fmt.Fprintf(out, "%-11s  %-9.5f  %-9.5f  %s  %s  %s\n",
			util.FormatValueFactor(t, "s"),
			results["STO_SURF"][i],
			results["STO_AVG"][i],
			util.FormatScientific(results["D_SURF"][i], "m2.s-1"),
			util.FormatScientific(results["J0"][i], "A.m-2"),
			util.FormatValueFactor(results["ETA"][i], "V"))
	}
}
