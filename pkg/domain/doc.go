/*
Package domain contains the core domain models of the wellplan planner.

It defines the reagent and consumable records that a liquid-handling protocol mutates during a
run, the planned pickups and hardware commands handed back to the host, and the error taxonomy.
This package is kept pure and free of external dependencies like I/O or persistence.

# Key Entities

  - Reservoir: volume and well state of one reagent supply (Ethanol, Beads, Master Mix).
  - TipPool: consumption of a countable consumable (pipette tips, recycling slots).
  - Pickup: the planned draw for one aspiration (well, height, rollover flag).
  - RunState: a snapshot of every reservoir and pool, used for reporting and resume.
  - Command: a structural representation of what the host should execute.
*/
package domain
