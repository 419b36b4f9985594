// Package cli provides the command-line interface for typecomment-gen.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Execute creates and runs the root command.
func Execute() error {
	rootCmd := &cobra.Command{
		Use:   "typecomment-gen",
		Short: "Generate PEP 484 type comments from docstrings",
	}

	rootCmd.AddCommand(newConvertCommand())
	rootCmd.AddCommand(newInspectCommand())

	return rootCmd.Execute()
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}
