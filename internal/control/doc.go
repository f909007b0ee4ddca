// Package control provides the pacing feedback controller and the policies
// that turn its output into a pacing factor.
//
//   - [PID]: Proportional-Integral-Derivative controller over spend per period
//   - [Policy]: maps controller output to a pacing factor in [0, 1]
//
// # Usage
//
//	pid := control.DefaultPID()          // Kp=1, Ki=0, Kd=0, setpoint 6000
//	pid = pid.Compute(measured)          // returns the updated controller
//	factor = control.DefaultPolicy().Next(factor, pid.Output(), control.ModePID)
//
// PID is a value type: Compute and WithSetpoint return a new controller and
// never modify the receiver.
package control
