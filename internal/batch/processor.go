package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/armature"
	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/render"
	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/rig"
)

// Config holds all shared settings for a batch run.
type Config struct {
	OutputDir   string
	Solver      armature.SolverConfig
	Render      bool
	Format      string
	RenderSize  int
	Supersample int
	Workers     int
	// Progress is how often a progress line is logged. Zero disables it.
	Progress time.Duration
	Logger   *zap.Logger
}

// Result holds the outcome of solving one rig file.
type Result struct {
	Rig        string  `json:"rig"`
	Name       string  `json:"name"`
	Success    bool    `json:"success"`
	Error      string  `json:"error,omitempty"`
	Iterations int     `json:"iterations"`
	Stability  float64 `json:"stability"`
	MaxDelta   float64 `json:"max_delta"`
	Solved     string  `json:"solved,omitempty"`
	Image      string  `json:"image,omitempty"`
}

// Run solves every rig in paths with at most cfg.Workers in flight. Each
// rig gets its own armature, so no armature is touched by two goroutines.
// Per-rig failures are reported in the results; the returned error is
// non-nil only when ctx ends the run early.
func Run(ctx context.Context, cfg Config, paths []string) ([]Result, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("batch: mkdir %s: %w", cfg.OutputDir, err)
	}
	total := len(paths)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		if cfg.Progress <= 0 {
			<-done
			return
		}
		ticker := time.NewTicker(cfg.Progress)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if p := processed.Load(); p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					log.Info("batch progress",
						zap.Int64("done", p),
						zap.Int("total", total),
						zap.Float64("rigs_per_sec", rate))
				}
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = failed(path, err)
				return err
			}
			results[i] = processRig(cfg, log, path)
			processed.Add(1)
			return nil
		})
	}
	err := g.Wait()
	close(done)
	<-stopped

	log.Debug("batch finished",
		zap.Int("rigs", total),
		zap.Int64("processed", processed.Load()),
		zap.Duration("elapsed", time.Since(start)))
	return results, err
}

func rigName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func failed(path string, err error) Result {
	return Result{Rig: path, Name: rigName(path), Error: err.Error()}
}

func processRig(cfg Config, log *zap.Logger, path string) Result {
	name := rigName(path)

	doc, err := rig.LoadFile(path)
	if err != nil {
		return failed(path, err)
	}
	arm, err := doc.Build(
		armature.WithLogger(log.With(zap.String("rig", name))),
		armature.WithSolverConfig(cfg.Solver),
	)
	if err != nil {
		return failed(path, err)
	}

	report, err := arm.SolveDefault(nil)
	if err != nil {
		return failed(path, err)
	}
	res := Result{
		Rig:        path,
		Name:       name,
		Iterations: report.Iterations,
		Stability:  report.Stability(),
		MaxDelta:   report.MaxDelta,
	}

	res.Solved = filepath.Join(cfg.OutputDir, name+".yaml")
	if err := rig.FromArmature(arm).SaveFile(res.Solved); err != nil {
		return failed(path, err)
	}

	if cfg.Render {
		res.Image = filepath.Join(cfg.OutputDir, fmt.Sprintf("%s.%s", name, strings.ToLower(cfg.Format)))
		img := render.Render(arm, render.Options{Size: cfg.RenderSize, Supersample: cfg.Supersample})
		if err := render.SaveFile(res.Image, img); err != nil {
			return failed(path, err)
		}
	}

	res.Success = true
	return res
}
