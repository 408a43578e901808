package cli

import (
	"context"
	"path/filepath"

	"github.com/aretw0/wellplan/pkg/adapters/process"
	"github.com/aretw0/wellplan/pkg/domain"
	"github.com/aretw0/wellplan/pkg/ports"
)

// newDriverDispatcher loads the driver file. Drivers never run in simulation, so it returns nil
// there after checking that the file parses.
func newDriverDispatcher(path string, strict, simulate bool) (ports.Dispatcher, error) {
	drivers, err := process.LoadDrivers(path)
	if err != nil {
		return nil, err
	}
	if simulate {
		return nil, nil
	}
	return process.NewDispatcher(
		process.WithDrivers(drivers),
		process.WithBaseDir(filepath.Dir(path)),
		process.WithStrict(strict),
	), nil
}

// chainDispatchers hands each command to every dispatcher in order and stops at the first error.
func chainDispatchers(ds ...ports.Dispatcher) ports.Dispatcher {
	return ports.DispatcherFunc(func(ctx context.Context, cmd domain.Command) error {
		for _, d := range ds {
			if err := d.Dispatch(ctx, cmd); err != nil {
				return err
			}
		}
		return nil
	})
}
