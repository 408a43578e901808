package wellplan_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/wellplan"
	"github.com/aretw0/wellplan/pkg/domain"
)

// ExampleNew shows a bead reservoir running into its second well.
func ExampleNew() {
	planner, err := wellplan.New(
		[]domain.ReservoirSpec{{
			Name:        "Beads",
			TotalVolume: 1500,
			WellCount:   4,
			Geometry:    domain.Geometry{CrossSectionArea: 63.61, ConeVolume: 50},
			MinHeight:   0.5,
		}},
		nil,
	)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		pickup, err := planner.Aspirate(ctx, "Beads", 300)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s height=%.2f rollover=%t left=%g\n", pickup.Well, pickup.Height, pickup.Rollover, pickup.Remaining)
	}

	r, _ := planner.Reservoir("Beads")
	fmt.Println("depleted:", r.DepletedWellLog)

	// Output:
	// Beads[0] height=0.50 rollover=false left=75
	// Beads[1] height=0.50 rollover=true left=75
	// depleted: [75]
}

// ExamplePlanner_AcquireTip walks a small rack through exhaustion and an operator reload.
func ExamplePlanner_AcquireTip() {
	planner, err := wellplan.New(nil, []domain.PoolSpec{{Name: "tips20", Capacity: 2}})
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		res, _ := planner.AcquireTip(ctx, "tips20")
		fmt.Println(res)
	}

	_ = planner.Replenish(ctx, "tips20")
	res, _ := planner.AcquireTip(ctx, "tips20")
	fmt.Println(res)

	// Output:
	// ok
	// ok
	// needs_replenishment
	// ok
}
