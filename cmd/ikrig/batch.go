package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/batch"
)

var batchFlags struct {
	noRender bool
	manifest string
}

var batchCmd = &cobra.Command{
	Use:   "batch <rig.yaml|dir>...",
	Short: "Solve many rigs concurrently and write a manifest",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := expandRigs(args)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			fmt.Println("No rigs to solve.")
			return nil
		}
		opts, err := cfg.SolverOptions()
		if err != nil {
			return err
		}

		fmt.Printf("Rigs: %d, Workers: %d, Solver: %s\n", len(paths), cfg.Workers, opts.Variant)
		fmt.Printf("Output: %s\n", cfg.OutputDir)
		fmt.Println("------------------------------------------------------------")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		start := time.Now()
		results, runErr := batch.Run(ctx, batch.Config{
			OutputDir:   cfg.OutputDir,
			Solver:      opts,
			Render:      !batchFlags.noRender,
			Format:      cfg.Format,
			RenderSize:  cfg.RenderSize,
			Supersample: cfg.Supersample,
			Workers:     cfg.Workers,
			Progress:    2 * time.Second,
			Logger:      logger,
		}, paths)

		fmt.Println("------------------------------------------------------------")
		fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())

		manifest := batchFlags.manifest
		if manifest == "" {
			manifest = filepath.Join(cfg.OutputDir, "manifest.json")
		}
		if err := batch.WriteManifest(manifest, results); err != nil {
			return err
		}
		printSummary(results)
		fmt.Printf("Manifest: %s\n", manifest)
		return runErr
	},
}

func init() {
	batchCmd.Flags().BoolVar(&batchFlags.noRender, "no-render", false, "skip preview images")
	batchCmd.Flags().StringVar(&batchFlags.manifest, "manifest", "", "manifest path (default: <out-dir>/manifest.json)")
}

// expandRigs replaces each directory argument with the YAML rigs inside it.
func expandRigs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("ikrig: %w", err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("ikrig: read %s: %w", arg, err)
		}
		var found []string
		for _, e := range entries {
			ext := strings.ToLower(filepath.Ext(e.Name()))
			if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
				found = append(found, filepath.Join(arg, e.Name()))
			}
		}
		sort.Strings(found)
		paths = append(paths, found...)
	}
	return paths, nil
}

func printSummary(results []batch.Result) {
	m := batch.NewManifest(results)
	fmt.Printf("Solved: %d/%d\n", m.Succeeded, m.Total)

	var unstable int
	for _, r := range results {
		if r.Success && r.Stability < stableThreshold {
			unstable++
		}
	}
	if unstable > 0 {
		color.Yellow("Unstable: %d", unstable)
	}

	if m.Failed == 0 {
		return
	}
	color.Red("\nFailed (%d):", m.Failed)
	limit := 20
	shown := 0
	for _, r := range results {
		if r.Success {
			continue
		}
		if shown == limit {
			fmt.Printf("  ... and %d more\n", m.Failed-limit)
			break
		}
		fmt.Printf("  %s: %s\n", r.Name, r.Error)
		shown++
	}
}
