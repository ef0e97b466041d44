package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/edp1096/toy-cell/pkg/parameters"
)

var (
	verbose    bool
	paramsPath string

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "toycell",
	Short: "Electrode parameter evaluation, particle diffusion and idaklu extension builds",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&paramsPath, "params", "", "YAML parameter set merged over Ecker2015")

	rootCmd.AddCommand(evalCmd, simulateCmd, buildExtCmd)
}

// loadParameterSet returns Ecker2015 updated with the --params file, if any.
func loadParameterSet() (*parameters.Set, error) {
	set := parameters.Ecker2015()
	if paramsPath == "" {
		return set, nil
	}

	loaded, err := parameters.LoadFile(paramsPath)
	if err != nil {
		return nil, err
	}
	set.Update(loaded)
	logger.Debug("parameter set loaded", zap.String("path", paramsPath), zap.String("name", set.Name))
	return set, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
