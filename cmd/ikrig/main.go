// Command ikrig loads armature rigs, solves them toward their pins, and
// renders the result.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/config"
	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/logging"
)

var (
	configFile string
	debug      bool
	flags      config.Flags

	cfg    config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "ikrig",
	Short: "Solve and render inverse-kinematics rigs",
	Long: `ikrig reads YAML armature rigs, runs the iterative IK solver toward
each rig's pin targets, and writes the solved pose and an optional
preview image.

Settings come from --config, EWBIK_* environment variables and flags,
with flags taking precedence.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if logger, err = logging.New(debug); err != nil {
			return err
		}
		if cfg, err = config.Load(configFile); err != nil {
			return err
		}
		cfg.Resolve(flags)
		return cfg.Validate()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "path to a YAML or JSON config file")
	pf.BoolVar(&debug, "debug", false, "enable debug logging")
	pf.StringVar(&flags.Solver, "solver", "", "solver variant: ambitious, tranquil, orientation or mixed")
	pf.IntVar(&flags.Iterations, "iterations", 0, "solver iterations per solve")
	pf.Float64Var(&flags.DampingDegrees, "damping", 0, "max rotation per bone per iteration, in degrees")
	pf.StringVar(&flags.OutputDir, "out-dir", "", "directory for solved rigs and images")
	pf.StringVar(&flags.Format, "format", "", "image format: webp or bmp")
	pf.IntVar(&flags.RenderSize, "size", 0, "image size in pixels")
	pf.IntVar(&flags.Workers, "workers", 0, "batch worker count (default: NumCPU)")

	rootCmd.AddCommand(solveCmd, renderCmd, batchCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
