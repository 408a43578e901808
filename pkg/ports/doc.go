/*
Package ports defines the driven ports (interfaces) of the wellplan runner.

These interfaces decouple the planner and its step runner from the outside world, so the same
protocol can drive a real robot, a simulator or a test double.

# Key Interfaces

  - RunStore: persists RunState snapshots for review and resume.
  - Dispatcher: receives the hardware commands planned for each step.
  - Operator: confirms rack reloads and protocol checkpoints.
  - RunLocker: prevents two runners from driving the same run.
*/
package ports
