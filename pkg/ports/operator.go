package ports

import (
	"context"

	"github.com/aretw0/wellplan/pkg/domain"
)

// Operator is the human at the robot.
type Operator interface {
	// ConfirmReplenish blocks until the operator reloaded the pool (true) or declined (false).
	ConfirmReplenish(ctx context.Context, pool domain.TipPool) (bool, error)

	// Acknowledge blocks on a protocol checkpoint until the operator resumes the run.
	Acknowledge(ctx context.Context, message string) error
}
