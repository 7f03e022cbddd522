package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/armature"
	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/rig"
)

// Below this share of settling iterations a solve is reported as unstable.
const stableThreshold = 0.5

var solveOut string

var solveCmd = &cobra.Command{
	Use:   "solve <rig.yaml>",
	Short: "Solve a rig toward its pins and write the solved pose",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arm, report, err := solveRig(args[0])
		if err != nil {
			return err
		}
		printReport(args[0], report)

		doc := rig.FromArmature(arm)
		if solveOut == "-" {
			data, err := doc.Encode()
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		}
		out := solveOut
		if out == "" {
			out = filepath.Join(cfg.OutputDir, rigName(args[0])+".yaml")
		}
		if err := doc.SaveFile(out); err != nil {
			return err
		}
		fmt.Printf("Solved pose: %s\n", out)
		return nil
	},
}

func init() {
	solveCmd.Flags().StringVarP(&solveOut, "out", "o", "", "output rig path, or - for stdout (default: <out-dir>/<name>.yaml)")
}

// solveRig loads and builds the rig at path and runs one default solve
// from its root with the resolved settings.
func solveRig(path string) (*armature.Armature, armature.SolveReport, error) {
	opts, err := cfg.SolverOptions()
	if err != nil {
		return nil, armature.SolveReport{}, err
	}
	doc, err := rig.LoadFile(path)
	if err != nil {
		return nil, armature.SolveReport{}, err
	}
	arm, err := doc.Build(
		armature.WithLogger(logger.With(zap.String("rig", rigName(path)))),
		armature.WithSolverConfig(opts),
	)
	if err != nil {
		return nil, armature.SolveReport{}, err
	}
	report, err := arm.SolveDefault(nil)
	if err != nil {
		return nil, armature.SolveReport{}, err
	}
	return arm, report, nil
}

func printReport(path string, r armature.SolveReport) {
	verdict := color.GreenString("stable")
	if r.Stability() < stableThreshold {
		verdict = color.YellowString("unstable")
	}
	fmt.Printf("%s: %s solver, %d iterations, stability %.2f (%s), max delta %.4f rad\n",
		rigName(path), r.Variant, r.Iterations, r.Stability(), verdict, r.MaxDelta)
}

func rigName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
