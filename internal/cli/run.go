package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/wellplan"
	"github.com/aretw0/wellplan/internal/presentation/tui"
	httpadapter "github.com/aretw0/wellplan/pkg/adapters/http"
	"github.com/aretw0/wellplan/pkg/config"
	"github.com/aretw0/wellplan/pkg/domain"
	"github.com/aretw0/wellplan/pkg/observability"
	"github.com/aretw0/wellplan/pkg/runner"
	"github.com/prometheus/client_golang/prometheus"
)

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	ProtocolPath string
	Overrides    []string
	Simulate     bool
	JSON         bool
	RunID        string
	Resume       bool
	Store        StoreOptions
	MetricsAddr  string
	DriversPath  string
	StrictDriver bool
	LogLevel     string
	Debug        bool
}

// Execute runs a protocol file, or resumes a stored run of it.
func Execute(ctx context.Context, opts RunOptions, in io.Reader, out io.Writer) error {
	logger, err := createLogger(opts.LogLevel, opts.Debug)
	if err != nil {
		return err
	}

	protocol, err := config.Load(opts.ProtocolPath, opts.Overrides...)
	if err != nil {
		return err
	}
	warnings, err := config.Validate(protocol)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warn("protocol warning", "protocol", protocol.Name, "warning", w)
	}

	persistence, err := OpenStore(opts.Store)
	if err != nil {
		return err
	}
	defer persistence.Close()

	hooks := domain.LifecycleHooks{}
	if opts.Debug {
		hooks = createDebugHooks(logger)
	}

	runnerOpts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithStore(persistence.Store),
		runner.WithLocker(persistence.Locker),
		runner.WithSimulate(opts.Simulate),
	}

	if opts.Resume {
		if opts.RunID == "" {
			return fmt.Errorf("--resume requires --run-id")
		}
		state, err := persistence.Store.Load(ctx, opts.RunID)
		if err != nil {
			return fmt.Errorf("failed to load run %s: %w", opts.RunID, err)
		}
		runnerOpts = append(runnerOpts, runner.WithInitialState(state))
	} else if opts.RunID != "" {
		runnerOpts = append(runnerOpts, runner.WithRunID(opts.RunID))
	}

	var handler runner.Handler
	if opts.JSON {
		handler = runner.NewJSONHandler(in, out)
	} else {
		profile := colorProfile(out)
		if IsInteractive(out) {
			tui.PrintBanner(out, profile)
		}
		handler = runner.NewTextHandler(in, out, runner.WithTextHandlerProfile(profile))
	}
	runnerOpts = append(runnerOpts, runner.WithHandler(handler))

	if opts.DriversPath != "" {
		drivers, err := newDriverDispatcher(opts.DriversPath, opts.StrictDriver, protocol.Simulate || opts.Simulate)
		if err != nil {
			return err
		}
		if drivers != nil {
			runnerOpts = append(runnerOpts, runner.WithDispatcher(chainDispatchers(handler, drivers)))
		}
	}

	if opts.MetricsAddr != "" {
		metrics := observability.NewMetrics(prometheus.NewRegistry())
		hooks = hooks.Merge(metrics.Hooks())

		srv := &http.Server{
			Addr:    opts.MetricsAddr,
			Handler: httpadapter.NewHandler(persistence.Store,
				httpadapter.WithMetrics(metrics.Handler()),
				httpadapter.WithLogger(logger),
				httpadapter.WithVersion(strings.TrimSpace(wellplan.Version)),
			),
		}
		go func() {
			logger.Info("metrics server listening", "addr", opts.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "err", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}
	runnerOpts = append(runnerOpts, runner.WithLifecycleHooks(hooks))

	signals := runner.NewSignalManager(ctx)
	defer signals.Stop()

	state, runErr := runner.NewRunner(protocol, runnerOpts...).Run(signals.Context())
	if !opts.JSON {
		logCompletion(out, state, runErr, signals.Interrupted())
	}
	return handleExecutionError(runErr)
}
