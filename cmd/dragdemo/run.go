package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/phanxgames/dragbind"
	"github.com/phanxgames/dragbind/dragmetrics"
	"github.com/phanxgames/dragbind/scenario"
	"github.com/phanxgames/dragbind/stage"
	"github.com/phanxgames/dragbind/trace"
)

//go:embed demo.yaml
var demoScenario []byte

// runOptions are the flags of the run command.
type runOptions struct {
	scenario    string
	headless    bool
	maxFrames   int
	tracePath   string
	metricsAddr string
	hold        time.Duration
	debug       bool
	showFPS     bool
}

func runCmd(logLevel *string) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Play a scenario",
		Long: `Play a scenario in a window, or headless with --headless.

Without --scenario the built-in demo is played. In a window the
script runs first and the boxes stay draggable with the mouse
afterwards; F3 toggles per-frame debug logging. Close the window to
exit.

Examples:
  dragdemo run
  dragdemo run --scenario drag.yaml --headless
  dragdemo run --headless --trace drag.cbor
  dragdemo run --metrics-addr :9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(cmd.ErrOrStderr(), *logLevel)
			if err != nil {
				return err
			}
			return runScenario(cmd.Context(), cmd.OutOrStdout(), log, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.scenario, "scenario", "f", "", "Scenario file (default: built-in demo)")
	cmd.Flags().BoolVar(&opts.headless, "headless", false, "Run without a window")
	cmd.Flags().IntVar(&opts.maxFrames, "max-frames", 10000, "Headless frame limit (0 for none)")
	cmd.Flags().StringVar(&opts.tracePath, "trace", "", "Write lifecycle events to a CBOR journal")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	cmd.Flags().DurationVar(&opts.hold, "hold", 0, "Keep serving metrics this long after a headless run")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Log per-frame stage statistics")
	cmd.Flags().BoolVar(&opts.showFPS, "fps", false, "Draw an FPS counter")

	return cmd
}

func loadScenario(path string) (*scenario.File, error) {
	if path == "" {
		return scenario.Load(demoScenario)
	}
	return scenario.LoadFile(path)
}

func runScenario(ctx context.Context, out io.Writer, log *slog.Logger, opts runOptions) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	f, err := loadScenario(opts.scenario)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	observers := []dragbind.Observer{dragmetrics.New(dragmetrics.WithRegistry(reg))}

	if opts.tracePath != "" {
		rec, cerr := trace.Create(opts.tracePath, trace.WithNamer(stageNamer))
		if cerr != nil {
			return fmt.Errorf("create trace: %w", cerr)
		}
		defer func() {
			err = errors.Join(err, rec.Err(), rec.Close())
		}()
		observers = append(observers, rec)
	}

	if opts.metricsAddr != "" {
		srv, serr := startMetricsServer(opts.metricsAddr, metricsRouter(reg), log)
		if serr != nil {
			return fmt.Errorf("metrics server: %w", serr)
		}
		defer func() {
			err = errors.Join(err, srv.Close())
		}()
	}

	sc, err := scenario.Build(f, scenario.Options{Logger: log, Observers: observers, Debug: opts.debug})
	if err != nil {
		return err
	}
	runner := scenario.NewRunner(sc, log)
	log.Info("scenario loaded", "name", f.Name, "bindings", sc.Registry.Len(), "steps", len(f.Steps))

	var runErr error
	if opts.headless {
		var frames int
		frames, runErr = runner.RunHeadless(opts.maxFrames)
		fmt.Fprintf(out, "scenario %s: %d frames\n", f.Name, frames)
	} else {
		debug := opts.debug
		runErr = stage.Run(sc.Stage, stage.RunConfig{
			Title: "dragdemo: " + f.Name,
			OnUpdate: func() error {
				if ctx.Err() != nil {
					return stage.ErrQuit
				}
				if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
					debug = !debug
					sc.Stage.SetDebugMode(debug)
				}
				runner.Tick()
				return nil
			},
			ShowFPS: opts.showFPS,
		})
		if runErr == nil {
			runErr = runner.Err()
		}
	}

	printPositions(out, sc)
	for _, fl := range runner.Failures() {
		fmt.Fprintf(out, "FAIL %s\n", fl)
	}

	if opts.headless && opts.metricsAddr != "" && opts.hold > 0 {
		log.Info("holding metrics endpoint", "for", opts.hold)
		select {
		case <-ctx.Done():
		case <-time.After(opts.hold):
		}
	}
	return runErr
}

func printPositions(out io.Writer, sc *scenario.Scenario) {
	for _, p := range sc.Positions() {
		fmt.Fprintf(out, "  %-12s left=%g top=%g\n", p.Name, p.Left, p.Top)
	}
}
