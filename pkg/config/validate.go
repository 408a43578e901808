package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/aretw0/wellplan/pkg/domain"
)

// Validate checks the protocol before any hardware moves.
//
// Errors make the protocol unrunnable and come back as an *AggregateError. Warnings flag
// configurations that run but deserve a second look, such as a cone height that the default
// height policy ignores, or a tip demand that will need a rack reload.
func Validate(p *Protocol) (warnings []string, err error) {
	var errs []error
	fail := func(key, reason string, value any) {
		errs = append(errs, &ValidationError{Key: key, Reason: reason, Value: value})
	}

	if p.Name == "" {
		fail("name", "is required", nil)
	}

	reagents := map[string]domain.ReservoirSpec{}
	for i, r := range p.Reagents {
		key := fmt.Sprintf("reagents[%d]", i)
		if err := r.Validate(); err != nil {
			var invalid *domain.InvalidRequestError
			if errors.As(err, &invalid) {
				fail(key, invalid.Reason, nil)
			} else {
				fail(key, err.Error(), nil)
			}
			continue
		}
		if _, dup := reagents[r.Name]; dup {
			fail(key+".name", "duplicate reagent", r.Name)
			continue
		}
		reagents[r.Name] = r

		if r.Geometry.ConeHeight > 0 && r.HeightPolicy == "" {
			warnings = append(warnings, fmt.Sprintf(
				"reagent %s: cone_height %g is ignored by the default %s policy; set height_policy to silence this",
				r.Name, r.Geometry.ConeHeight, domain.PolicyVolumeOnly))
		}
	}

	pools := map[string]domain.PoolSpec{}
	for i, s := range p.Pools {
		key := fmt.Sprintf("pools[%d]", i)
		if err := s.Validate(); err != nil {
			var invalid *domain.InvalidRequestError
			if errors.As(err, &invalid) {
				fail(key, invalid.Reason, nil)
			} else {
				fail(key, err.Error(), nil)
			}
			continue
		}
		if _, dup := pools[s.Name]; dup {
			fail(key+".name", "duplicate pool", s.Name)
			continue
		}
		pools[s.Name] = s
	}

	demand := map[string]float64{}
	picks := map[string]int{}
	for i, s := range p.Steps {
		key := fmt.Sprintf("steps[%d]", i)
		if s.Repeat < 0 {
			fail(key+".repeat", "must not be negative", s.Repeat)
		}

		switch s.Action {
		case ActionPickTip, ActionReturnTip, ActionDropTip:
			if s.Pool == "" {
				fail(key+".pool", "is required (or set defaults.pool)", nil)
			} else if _, ok := pools[s.Pool]; !ok {
				fail(key+".pool", "unknown pool", s.Pool)
			}
			if s.Action == ActionPickTip {
				picks[s.Pool] += s.Times()
			}

		case ActionAspirate:
			r, ok := reagents[s.Reagent]
			if !ok {
				fail(key+".reagent", "unknown reagent", s.Reagent)
				break
			}
			if !positive(s.Volume) {
				fail(key+".volume", "must be a finite value > 0", s.Volume)
				break
			}
			if perWell := r.TotalVolume / float64(r.WellCount); s.Volume > perWell {
				fail(key+".volume", fmt.Sprintf("exceeds the %g held by one %s well", perWell, r.Name), s.Volume)
			}
			if s.MinHeight != nil && !nonNegative(*s.MinHeight) {
				fail(key+".min_height", "must be finite and not negative", *s.MinHeight)
			}
			if s.ReserveBuffer != nil && !nonNegative(*s.ReserveBuffer) {
				fail(key+".reserve_buffer", "must be finite and not negative", *s.ReserveBuffer)
			}
			demand[s.Reagent] += s.Volume * float64(s.Times())

		case ActionDispense:
			if !positive(s.Volume) {
				fail(key+".volume", "must be a finite value > 0", s.Volume)
			}

		case ActionMix:
			if !positive(s.Volume) {
				fail(key+".volume", "must be a finite value > 0", s.Volume)
			}
			if s.Cycles < 1 {
				fail(key+".cycles", "must be >= 1", s.Cycles)
			}

		case ActionDelay:
			if !positive(s.Seconds) {
				fail(key+".seconds", "must be a finite value > 0", s.Seconds)
			}

		case ActionPause, ActionComment:

		default:
			fail(key+".action", "unknown action", string(s.Action))
		}
	}

	for _, r := range p.Reagents {
		need, ok := demand[r.Name]
		if !ok {
			continue
		}
		delete(demand, r.Name)
		if need > reagents[r.Name].TotalVolume {
			fail("reagents."+r.Name, fmt.Sprintf("protocol draws %g but only %g is loaded", need, reagents[r.Name].TotalVolume), nil)
		}
	}
	for _, s := range p.Pools {
		if n := picks[s.Name]; n > s.EffectiveCapacity() {
			warnings = append(warnings, fmt.Sprintf(
				"pool %s: protocol picks %d tips from %d loaded; the operator will be asked to reload",
				s.Name, n, s.EffectiveCapacity()))
		}
	}

	if len(errs) > 0 {
		return warnings, &AggregateError{Errors: errs}
	}
	return warnings, nil
}

// positive and nonNegative reject NaN and infinities, which YAML decodes from .nan and .inf.
func positive(v float64) bool { return v > 0 && !math.IsInf(v, 0) }

func nonNegative(v float64) bool { return v >= 0 && !math.IsInf(v, 0) }
