package ports

import (
	"context"

	"github.com/aretw0/wellplan/pkg/domain"
)

// Dispatcher hands planned hardware commands to the host.
// The planner emits commands with every parameter filled in; the host moves the robot.
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd domain.Command) error
}

// DispatcherFunc adapts a plain function to Dispatcher.
type DispatcherFunc func(ctx context.Context, cmd domain.Command) error

func (f DispatcherFunc) Dispatch(ctx context.Context, cmd domain.Command) error {
	return f(ctx, cmd)
}
