package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/wellplan/internal/logging"
	"github.com/aretw0/wellplan/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// createLogger configures the application logger.
// --debug wins over --log-level. Logs go to stderr to keep stdout for commands and NDJSON.
func createLogger(level string, debug bool) (*slog.Logger, error) {
	if debug {
		return logging.New(slog.LevelDebug), nil
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.New(lvl), nil
}

// IsInteractive reports whether v is a terminal.
func IsInteractive(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// colorProfile disables styling when w is not a terminal.
func colorProfile(w io.Writer) termenv.Profile {
	if IsInteractive(w) {
		return termenv.ColorProfile()
	}
	return termenv.Ascii
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRollover: func(ctx context.Context, e *domain.ReservoirEvent) {
			logger.Debug("Well Rollover", "well", e.Well.String(), "depleted", e.Depleted)
		},
		OnExhausted: func(ctx context.Context, e *domain.PoolEvent) {
			logger.Debug("Pool Exhausted", "pool", e.Pool, "capacity", e.Capacity)
		},
		OnReset: func(ctx context.Context, e *domain.PoolEvent) {
			logger.Debug("Pool Reset", "pool", e.Pool)
		},
	}
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}

// handleExecutionError turns an interrupted run into a clean exit: the run was saved as paused.
func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil
	}
	return err
}

func logCompletion(w io.Writer, state *domain.RunState, err error, interrupted bool) {
	if state == nil {
		return
	}
	switch {
	case err == nil:
		printSystemMessage(w, "Run '%s' completed (%d steps).", state.RunID, state.Step)
	case interrupted || isInterrupted(err):
		fmt.Fprintln(w, "[CTRL+C]")
		printSystemMessage(w, "Run '%s' interrupted at step %d. Resume with --resume --run-id %s.", state.RunID, state.Step, state.RunID)
	case state.Status == domain.RunPaused:
		printSystemMessage(w, "Run '%s' paused at step %d. Resume with --resume --run-id %s.", state.RunID, state.Step, state.RunID)
	default:
		printSystemMessage(w, "Run '%s' %s at step %d.", state.RunID, state.Status, state.Step)
	}
}
