package control

import (
	"math"
	"testing"
)

func TestDefaultPID(t *testing.T) {
	p := DefaultPID()

	if p.Kp != 1 || p.Ki != 0 || p.Kd != 0 {
		t.Errorf("expected gains (1,0,0), got (%v,%v,%v)", p.Kp, p.Ki, p.Kd)
	}
	if p.Setpoint() != 6000 {
		t.Errorf("expected setpoint 6000, got %v", p.Setpoint())
	}
	if p.SumError() != 0 || p.LastError() != 0 || p.Output() != 0 {
		t.Error("expected zeroed error state")
	}
}

func TestPIDCompute(t *testing.T) {
	tests := []struct {
		name       string
		kp, ki, kd float64
		inputs     []float64
		wantOutput float64
		wantSum    float64
		wantLast   float64
	}{
		{"proportional only", 1, 0, 0, []float64{1000}, 5000, 5000, 5000},
		{"integral accumulates", 0, 1, 0, []float64{1000, 2000}, 9000, 9000, 4000},
		{"derivative of error", 0, 0, 1, []float64{1000, 2000}, -1000, 9000, 4000},
		{"mixed gains", 0.5, 0.1, 0.2, []float64{7000}, -500 - 100 - 200, -1000, -1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPID(tt.kp, tt.ki, tt.kd, 6000)
			for _, in := range tt.inputs {
				p = p.Compute(in)
			}
			if math.Abs(p.Output()-tt.wantOutput) > 1e-9 {
				t.Errorf("Output() = %v, want %v", p.Output(), tt.wantOutput)
			}
			if math.Abs(p.SumError()-tt.wantSum) > 1e-9 {
				t.Errorf("SumError() = %v, want %v", p.SumError(), tt.wantSum)
			}
			if math.Abs(p.LastError()-tt.wantLast) > 1e-9 {
				t.Errorf("LastError() = %v, want %v", p.LastError(), tt.wantLast)
			}
		})
	}
}

func TestComputeKeepsSetpointAndGains(t *testing.T) {
	inputs := []float64{0, 1, -250, 6000, 1e9, -1e9}
	p := NewPID(2, 0.3, 0.7, 1234)

	for _, in := range inputs {
		next := p.Compute(in)
		if next.Setpoint() != p.Setpoint() {
			t.Errorf("input %v: setpoint changed from %v to %v", in, p.Setpoint(), next.Setpoint())
		}
		if next.Kp != p.Kp || next.Ki != p.Ki || next.Kd != p.Kd {
			t.Errorf("input %v: gains changed", in)
		}
		p = next
	}
}

func TestComputeDoesNotMutateReceiver(t *testing.T) {
	p := DefaultPID()
	_ = p.Compute(100)

	if p != DefaultPID() {
		t.Error("Compute modified its receiver")
	}
}

func TestWithSetpoint(t *testing.T) {
	computed := DefaultPID().Compute(4200)
	updated := computed.WithSetpoint(9000)

	if updated.Setpoint() != 9000 {
		t.Errorf("expected setpoint 9000, got %v", updated.Setpoint())
	}
	if updated.WithSetpoint(computed.Setpoint()) != computed {
		t.Error("WithSetpoint changed fields other than the setpoint")
	}
}

func TestSetParam(t *testing.T) {
	p := DefaultPID()
	p.SetParam("Ki", 0.25)
	p.SetParam("bogus", 99)

	params := p.Params()
	if params["Ki"] != 0.25 {
		t.Errorf("expected Ki 0.25, got %v", params["Ki"])
	}
	if params["Kp"] != 1 {
		t.Errorf("expected Kp unchanged, got %v", params["Kp"])
	}
}
