// Package viz is the interactive terminal dashboard for a pacing session.
//
// The dashboard is a Bubble Tea program over a single [sim.Simulator]. A
// tea.Tick at the configured interval drives the simulator while it is
// running; every other key maps onto one simulator command.
//
// # Key Bindings
//
//	Space - Start/stop the run
//	N     - Advance a single period
//	R     - Reset to the configured initial values
//	M     - Toggle between pid and multiplicative pacing
//	Tab   - Cycle kp, ki, kd and target
//	Up/K  - Increase the selected field by 10%
//	Down/J- Decrease the selected field by 10%
//	Enter - Type an exact value
//	T     - Cycle color themes
//	?     - Show help overlay
//
// Gains and mode can only change before the first period; target and mode
// only while stopped. Rejected edits are shown under the charts.
package viz
