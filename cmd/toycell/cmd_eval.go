package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edp1096/toy-cell/pkg/parameters"
	"github.com/edp1096/toy-cell/pkg/util"
)

var (
	evalSto  []float64
	evalTemp []float64
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Tabulate positive electrode diffusivity and reaction rate",
	RunE:  runEval,
}

func init() {
	evalCmd.Flags().Float64SliceVar(&evalSto, "sto", []float64{0, 0.25, 0.5, 0.62, 0.75, 1}, "stoichiometries")
	evalCmd.Flags().Float64SliceVar(&evalTemp, "temp", []float64{296}, "temperatures (K)")
}

func runEval(cmd *cobra.Command, args []string) error {
	set, err := loadParameterSet()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Parameter set: %s\n", set.Name)
	for _, T := range evalTemp {
		m, err := set.Evaluate(parameters.PositiveReactionRate, parameters.Inputs{T: T})
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "\nT = %s  reaction rate = %s\n", util.FormatTemperature(T), util.FormatScientific(m, "A.m-2.(m3.mol-1)1.5"))
		fmt.Fprintln(out, "Sto      Diffusivity")
		fmt.Fprintln(out, "----------------------------")
		for _, sto := range evalSto {
			D, err := set.Evaluate(parameters.PositiveDiffusivity, parameters.Inputs{Sto: sto, T: T})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%-7.4f  %s\n", sto, util.FormatScientific(D, "m2.s-1"))
		}
	}
	return nil
}
