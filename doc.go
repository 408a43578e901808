/*
Package wellplan plans reagent pickups and tracks consumables for liquid-handling robot protocols.

A protocol script asks the Planner for parameters between hardware commands: how high above the well
bottom to aspirate from, which well of a multi-well reservoir to use, whether a rinse reagent needs a
priming mix, and whether a tip can be picked up or the operator must reload a rack. The Planner never
moves hardware; it only computes parameters and keeps the books.

# Concept

Every reagent lives in a Reservoir made of one or more identical wells. Each draw is subtracted from the
open well and the remaining volume is turned into a pickup height through the well geometry. When the
open well cannot cover a draw plus its reserve buffer, its leftover is logged and the next well is
opened. Running past the last well is a fatal SupplyExhaustedError.

Tips come from a TipPool of fixed capacity. Acquiring past capacity returns AcquireNeedsReplenishment,
a result value rather than a blocking call: the host pauses for the operator and calls Replenish.

# Usage

	planner, err := wellplan.New(
		[]domain.ReservoirSpec{{
			Name:        "Beads",
			TotalVolume: 1500,
			WellCount:   4,
			Geometry:    domain.Geometry{CrossSectionArea: 63.61, ConeVolume: 50},
			MinHeight:   0.5,
		}},
		[]domain.PoolSpec{{Name: "tips300", Racks: 2, TipsPerRack: 96}},
	)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	if res, _ := planner.AcquireTip(ctx, "tips300"); res == domain.AcquireNeedsReplenishment {
		// Pause for the operator, then:
		_ = planner.Replenish(ctx, "tips300")
	}

	pickup, err := planner.Aspirate(ctx, "Beads", 300)
	if err != nil {
		log.Fatal(err)
	}
	robot.Aspirate(300, pickup.Well, pickup.Height)

The pkg/runner package drives a Planner from a protocol file, and pkg/adapters provides stores to
persist run snapshots for review and resume.
*/
package wellplan
