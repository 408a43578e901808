/*
Package runner executes protocol files against a wellplan.Planner.

A protocol is a list of steps (pick_tip, aspirate, dispense, mix, delay, pause...). The runner
plans every aspiration, inserts a priming mix when a rinse reagent opens a fresh well, and hands
the resulting commands to a ports.Dispatcher. It never moves hardware itself.

When a tip pool runs dry or the protocol reaches a pause, the runner saves the run as paused and
waits for a ports.Operator. Simulated runs auto-confirm and skip delays.

# Key Components

  - Runner: the step loop, with checkpointing to a ports.RunStore after every step.
  - TextHandler: terminal front end with colored command lines and y/N prompts.
  - JSONHandler: NDJSON front end for a host process.
  - SignalManager: maps Ctrl+C to a paused, resumable run.

# Usage

	p, err := config.Load("extraction.yaml")
	if err != nil {
		return err
	}

	r := runner.NewRunner(p,
		runner.WithHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
		runner.WithStore(file.New("")),
	)

	state, err := r.Run(ctx)
*/
package runner
