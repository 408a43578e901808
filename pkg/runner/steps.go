package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/wellplan"
	"github.com/aretw0/wellplan/pkg/config"
	"github.com/aretw0/wellplan/pkg/domain"
)

// ErrOperatorDeclined is returned when the operator refuses to resume a checkpoint.
var ErrOperatorDeclined = errors.New("operator declined")

// execute runs one repetition of a step.
func (r *Runner) execute(ctx context.Context, cur *run, index int, step config.Step, simulate bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch step.Action {
	case config.ActionPickTip:
		return r.pickTip(ctx, cur, index, step, simulate)

	case config.ActionReturnTip:
		if err := cur.planner.ReleaseTips(ctx, step.Pool, 1); err != nil {
			return err
		}
		return r.dispatch(ctx, cur, domain.Command{Type: domain.CommandReturnTip, Step: index, Pool: step.Pool})

	case config.ActionDropTip:
		return r.dispatch(ctx, cur, domain.Command{Type: domain.CommandDropTip, Step: index, Pool: step.Pool})

	case config.ActionAspirate:
		return r.aspirate(ctx, cur, index, step)

	case config.ActionDispense:
		return r.dispatch(ctx, cur, domain.Command{
			Type: domain.CommandDispense, Step: index, Target: step.Target, Volume: step.Volume,
		})

	case config.ActionMix:
		return r.dispatch(ctx, cur, domain.Command{
			Type: domain.CommandMix, Step: index, Target: step.Target, Volume: step.Volume, Cycles: step.Cycles,
		})

	case config.ActionComment:
		return r.dispatch(ctx, cur, domain.Command{Type: domain.CommandComment, Step: index, Message: step.Message})

	case config.ActionDelay:
		if err := r.dispatch(ctx, cur, domain.Command{Type: domain.CommandDelay, Step: index, Seconds: step.Seconds}); err != nil {
			return err
		}
		if simulate {
			cur.logger.Info("delay skipped (simulate)", "seconds", step.Seconds)
			return nil
		}
		return r.sleep(ctx, time.Duration(step.Seconds*float64(time.Second)))

	case config.ActionPause:
		return r.pause(ctx, cur, index, step, simulate)
	}

	return &domain.InvalidRequestError{Op: "execute", Subject: string(step.Action), Reason: "unknown action"}
}

// pickTip takes a tip, stopping for the operator when the rack is empty.
func (r *Runner) pickTip(ctx context.Context, cur *run, index int, step config.Step, simulate bool) error {
	res, err := cur.planner.AcquireTip(ctx, step.Pool)
	if err != nil {
		return err
	}

	if res == domain.AcquireNeedsReplenishment {
		pool, err := cur.planner.Pool(step.Pool)
		if err != nil {
			return err
		}
		if err := r.holdForOperator(ctx, cur); err != nil {
			return err
		}

		confirmed := true
		if simulate {
			cur.logger.Info("replenish auto-confirmed (simulate)", "pool", pool.Name, "capacity", pool.Capacity)
		} else {
			confirmed, err = r.Operator.ConfirmReplenish(ctx, pool)
			if err != nil {
				return err
			}
		}
		if !confirmed {
			return &domain.ResourceExhaustedError{Pool: pool.Name, Capacity: pool.Capacity}
		}

		if err := cur.planner.Replenish(ctx, step.Pool); err != nil {
			return err
		}
		cur.state.Status = domain.RunActive

		if res, err = cur.planner.AcquireTip(ctx, step.Pool); err != nil {
			return err
		}
		if res != domain.AcquireOK {
			return fmt.Errorf("pool %s still exhausted after replenish", step.Pool)
		}
	}

	return r.dispatch(ctx, cur, domain.Command{Type: domain.CommandPickUpTip, Step: index, Pool: step.Pool})
}

// aspirate plans the draw, primes a fresh rinse well, then asks for the aspiration itself.
func (r *Runner) aspirate(ctx context.Context, cur *run, index int, step config.Step) error {
	var opts []wellplan.DrawOption
	if step.MinHeight != nil {
		opts = append(opts, wellplan.WithMinHeight(*step.MinHeight))
	}
	if step.ReserveBuffer != nil {
		opts = append(opts, wellplan.WithReserveBuffer(*step.ReserveBuffer))
	}

	pickup, err := cur.planner.Aspirate(ctx, step.Reagent, step.Volume, opts...)
	if err != nil {
		return err
	}

	prime, err := cur.planner.NeedsPriming(ctx, step.Reagent)
	if err != nil {
		return err
	}
	if prime {
		well := pickup.Well
		cur.logger.Info("priming well", "reservoir", step.Reagent, "well", well.String(), "cycles", r.Protocol.Defaults.PrimeCycles)
		err := r.dispatch(ctx, cur, domain.Command{
			Type:   domain.CommandMix,
			Step:   index,
			Well:   &well,
			Volume: step.Volume,
			Height: pickup.Height,
			Cycles: r.Protocol.Defaults.PrimeCycles,
		})
		if err != nil {
			return err
		}
	}

	well := pickup.Well
	return r.dispatch(ctx, cur, domain.Command{
		Type:   domain.CommandAspirate,
		Step:   index,
		Well:   &well,
		Volume: pickup.Volume,
		Height: pickup.Height,
	})
}

// pause blocks on a protocol checkpoint until the operator resumes the run.
func (r *Runner) pause(ctx context.Context, cur *run, index int, step config.Step, simulate bool) error {
	if err := r.dispatch(ctx, cur, domain.Command{Type: domain.CommandPause, Step: index, Message: step.Message}); err != nil {
		return err
	}
	if simulate {
		cur.logger.Info("pause auto-acknowledged (simulate)", "message", step.Message)
		return nil
	}
	if err := r.holdForOperator(ctx, cur); err != nil {
		return err
	}
	if err := r.Operator.Acknowledge(ctx, step.Message); err != nil {
		return err
	}
	cur.state.Status = domain.RunActive
	return nil
}

// holdForOperator persists the run as paused before blocking on the operator, so an observer of
// the store sees why the robot stands still. It saves the records from the start of the step:
// a resume replays the whole step, and must not count its earlier repetitions twice.
func (r *Runner) holdForOperator(ctx context.Context, cur *run) error {
	cur.state.Status = domain.RunPaused

	held := cur.checkpoint.Clone()
	held.Status = domain.RunPaused
	held.UpdatedAt = time.Now().UTC()
	return r.save(ctx, held)
}
