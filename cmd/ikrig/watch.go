package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/rig"
	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/watch"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <rig.yaml>",
	Short: "Re-solve and re-render a rig every time it is saved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		name := rigName(path)
		solved := filepath.Join(cfg.OutputDir, name+".solved.yaml")
		image := filepath.Join(cfg.OutputDir, fmt.Sprintf("%s.%s", name, strings.ToLower(cfg.Format)))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		fmt.Printf("Watching %s (Ctrl-C to stop)\n", path)
		return watch.Run(ctx, path, watchDebounce, logger, func() error {
			arm, report, err := solveRig(path)
			if err != nil {
				return err
			}
			printReport(path, report)
			if err := rig.FromArmature(arm).SaveFile(solved); err != nil {
				return err
			}
			return renderTo(arm, image, "", nil, nil)
		})
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "quiet period before re-solving")
}
