package runtime

import (
	"fmt"
	"math"

	"github.com/aretw0/wellplan/pkg/domain"
)

// Request is one aspiration against a reservoir, with every default already resolved.
type Request struct {
	Volume        float64
	MinHeight     float64
	ReserveBuffer float64
}

func (r Request) validate(reservoir string) error {
	switch {
	case !(r.Volume > 0) || math.IsInf(r.Volume, 0):
		return &domain.InvalidRequestError{Op: "aspirate", Subject: reservoir, Reason: fmt.Sprintf("volume must be > 0, got %g", r.Volume)}
	case !(r.MinHeight >= 0) || math.IsInf(r.MinHeight, 0):
		return &domain.InvalidRequestError{Op: "aspirate", Subject: reservoir, Reason: fmt.Sprintf("min_height must be >= 0, got %g", r.MinHeight)}
	case !(r.ReserveBuffer >= 0) || math.IsInf(r.ReserveBuffer, 0):
		return &domain.InvalidRequestError{Op: "aspirate", Subject: reservoir, Reason: fmt.Sprintf("reserve_buffer must be >= 0, got %g", r.ReserveBuffer)}
	}
	return nil
}

// PickupHeight turns the volume left in a well after a draw into a height above the well bottom.
// The result is never below minHeight.
func PickupHeight(g domain.Geometry, volumeAfter float64, policy domain.HeightPolicy, minHeight float64) float64 {
	raw := (volumeAfter - g.ConeVolume) / g.CrossSectionArea
	if policy == domain.PolicySubtractConeHeight {
		raw -= g.ConeHeight
	}
	return math.Max(raw, minHeight)
}

// Plan spends req.Volume from r and returns where to draw it from.
//
// When the open well cannot cover the volume plus the reserve buffer, its leftover is logged, the
// next well is opened at nominal volume and the pickup is flagged as a rollover. Advancing past the
// last well fails with a SupplyExhaustedError and leaves r untouched, as does any invalid request.
func Plan(r *domain.Reservoir, req Request) (domain.Pickup, error) {
	if err := req.validate(r.Name); err != nil {
		return domain.Pickup{}, err
	}

	nominal := r.VolumePerWell()
	if req.Volume > nominal {
		return domain.Pickup{}, &domain.InvalidRequestError{
			Op:      "aspirate",
			Subject: r.Name,
			Reason:  fmt.Sprintf("volume %g exceeds the %g held by one well", req.Volume, nominal),
		}
	}

	rollover := false
	if r.CurrentVolume < req.Volume+req.ReserveBuffer {
		if r.LastWell() {
			return domain.Pickup{}, &domain.SupplyExhaustedError{
				Reservoir: r.Name,
				Well:      r.CurrentWellIndex,
				WellCount: r.WellCount,
				Remaining: r.CurrentVolume,
				Requested: req.Volume + req.ReserveBuffer,
			}
		}
		r.DepletedWellLog = append(r.DepletedWellLog, r.CurrentVolume)
		r.CurrentWellIndex++
		r.CurrentVolume = r.VolumePerWell()
		rollover = true
	}

	r.CurrentVolume -= req.Volume
	r.Aspirated += req.Volume
	r.Aspirations++
	r.RolledOver = rollover

	return domain.Pickup{
		Well:      r.Well(),
		Volume:    req.Volume,
		Height:    PickupHeight(r.Geometry, r.CurrentVolume, r.Policy(), req.MinHeight),
		Rollover:  rollover,
		Remaining: r.CurrentVolume,
	}, nil
}
