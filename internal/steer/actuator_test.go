package steer

import (
	"errors"
	"math"
	"testing"
)

func newTestActuator(t *testing.T) (*Actuator, *MockOutput) {
	t.Helper()
	out := NewMockOutput()
	a, err := NewActuator(out, DefaultConfig())
	if err != nil {
		t.Fatalf("NewActuator: %v", err)
	}
	return a, out
}

func TestNewActuatorCenters(t *testing.T) {
	_, out := newTestActuator(t)
	if len(out.Pulses) != 1 || out.Pulses[0] != 1500.0 {
		t.Fatalf("expected one center pulse of 1500µs, got %v", out.Pulses)
	}
}

func TestNewActuatorFailsWhenOutputFails(t *testing.T) {
	out := NewMockOutput()
	out.FailWith = errors.New("channel busy")
	if _, err := NewActuator(out, DefaultConfig()); err == nil {
		t.Fatalf("expected construction fault")
	}
}

func TestHeadingErrorSignConvention(t *testing.T) {
	// Heading too far right of target: positive error, rudder right.
	if err := HeadingError(90.0, 100.0); err != 10.0 {
		t.Fatalf("error = %g, want 10", err)
	}
	// Heading too far left: negative error, rudder left.
	if err := HeadingError(90.0, 80.0); err != -10.0 {
		t.Fatalf("error = %g, want -10", err)
	}
}

func TestHeadingErrorWraparound(t *testing.T) {
	// 355 to target 5 is 10° to the left across north, not +350.
	if err := HeadingError(5.0, 355.0); err != -10.0 {
		t.Fatalf("error = %g, want -10", err)
	}
	if err := HeadingError(355.0, 5.0); err != 10.0 {
		t.Fatalf("error = %g, want 10", err)
	}
	if err := HeadingError(5.0, 5.0); err != 0.0 {
		t.Fatalf("error = %g, want 0", err)
	}
	// Exactly opposite headings resolve into (-180, 180].
	if err := HeadingError(0.0, 180.0); err != 180.0 {
		t.Fatalf("error = %g, want 180", err)
	}
}

func TestCorrectDeadband(t *testing.T) {
	a, _ := newTestActuator(t)
	if c := a.Correct(90.0, 89.0, 0.1); c != 0.0 {
		t.Fatalf("correction = %g inside deadband, want 0", c)
	}
	if c := a.Correct(90.0, 80.0, 0.1); c == 0.0 {
		t.Fatalf("expected non-zero correction outside deadband")
	}
}

func TestDeadbandLeavesControllerStateAlone(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ki = 0.5
	out := NewMockOutput()
	a, err := NewActuator(out, cfg)
	if err != nil {
		t.Fatalf("NewActuator: %v", err)
	}

	// Cycles inside the deadband must not accumulate integral.
	for i := 0; i < 100; i++ {
		a.Correct(90.0, 89.5, 0.1)
	}
	if a.integral != 0.0 {
		t.Fatalf("integral wound up to %g inside deadband", a.integral)
	}
	if a.lastError != 0.0 {
		t.Fatalf("lastError updated to %g inside deadband", a.lastError)
	}
}

func TestCorrectProportional(t *testing.T) {
	a, _ := newTestActuator(t)
	// Kp=1, error = 80-90 = -10.
	if c := a.Correct(90.0, 80.0, 0.1); c != -10.0 {
		t.Fatalf("correction = %g, want -10", c)
	}
}

func TestCorrectIntegralAndDerivative(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Kp = 0
	cfg.Ki = 1.0
	cfg.Kd = 0
	out := NewMockOutput()
	a, _ := NewActuator(out, cfg)

	// Two cycles of error -10 at dt=0.1 accumulate integral -2.
	a.Correct(90.0, 80.0, 0.1)
	c := a.Correct(90.0, 80.0, 0.1)
	if math.Abs(c-(-2.0)) > 1e-9 {
		t.Fatalf("integral correction = %g, want -2", c)
	}

	cfg = DefaultConfig()
	cfg.Kp = 0
	cfg.Kd = 1.0
	a, _ = NewActuator(NewMockOutput(), cfg)

	// First cycle: derivative from lastError 0 to -10 over 0.1s.
	c = a.Correct(90.0, 80.0, 0.1)
	if math.Abs(c-(-90.0)) > 1e-9 { // clamped from -100
		t.Fatalf("derivative correction = %g, want clamp at -90", c)
	}
	// Steady error: derivative term is zero.
	c = a.Correct(90.0, 80.0, 0.1)
	if c != 0.0 {
		t.Fatalf("steady-state derivative correction = %g, want 0", c)
	}
}

func TestCorrectClampsToMaxAngle(t *testing.T) {
	a, _ := newTestActuator(t)
	if c := a.Correct(0.0, 150.0, 0.1); c != 90.0 {
		t.Fatalf("correction = %g, want clamp at 90", c)
	}
}

func TestCorrectZeroDtIsNoOp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ki = 1.0
	a, _ := NewActuator(NewMockOutput(), cfg)
	if c := a.Correct(90.0, 0.0, 0.0); c != 0.0 {
		t.Fatalf("correction = %g for dt=0, want 0", c)
	}
	if a.integral != 0.0 {
		t.Fatalf("integral touched on dt=0 cycle")
	}
}

func TestAutoSteerRateLimiting(t *testing.T) {
	a, _ := newTestActuator(t)

	// Heading 0, target 90: error -90, raw correction -90. With 40°/s
	// and dt=0.1 the first step is exactly -4°.
	applied, err := a.AutoSteer(90.0, 0.0, 0.1)
	if err != nil {
		t.Fatalf("AutoSteer: %v", err)
	}
	if math.Abs(applied-(-4.0)) > 1e-9 {
		t.Fatalf("first step = %g, want -4", applied)
	}
	if a.CurrentAngle() != applied {
		t.Fatalf("current angle %g != applied %g", a.CurrentAngle(), applied)
	}

	// Second cycle slews another 4°.
	applied, _ = a.AutoSteer(90.0, 0.0, 0.1)
	if math.Abs(applied-(-8.0)) > 1e-9 {
		t.Fatalf("second step = %g, want -8", applied)
	}
}

func TestAutoSteerSmallChangeAppliesDirectly(t *testing.T) {
	a, _ := newTestActuator(t)
	// Error -3 (outside 2° deadband), desired -3, within the 4° step.
	applied, err := a.AutoSteer(90.0, 87.0, 0.1)
	if err != nil {
		t.Fatalf("AutoSteer: %v", err)
	}
	if math.Abs(applied-(-3.0)) > 1e-9 {
		t.Fatalf("applied = %g, want -3", applied)
	}
}

func TestAutoSteerFailedWriteKeepsAngle(t *testing.T) {
	a, out := newTestActuator(t)
	out.FailWith = errors.New("pwm write failed")
	applied, err := a.AutoSteer(90.0, 0.0, 0.1)
	if err == nil {
		t.Fatalf("expected write error")
	}
	if applied != 0.0 || a.CurrentAngle() != 0.0 {
		t.Fatalf("angle moved despite failed write: %g", a.CurrentAngle())
	}

	// Fault clears: next cycle retries from the old angle.
	out.FailWith = nil
	applied, err = a.AutoSteer(90.0, 0.0, 0.1)
	if err != nil || math.Abs(applied-(-4.0)) > 1e-9 {
		t.Fatalf("retry applied = %g, err %v; want -4, nil", applied, err)
	}
}

func TestAutoSteerZeroDt(t *testing.T) {
	a, out := newTestActuator(t)
	before := len(out.Pulses)
	applied, err := a.AutoSteer(90.0, 0.0, 0.0)
	if err != nil || applied != 0.0 {
		t.Fatalf("dt=0: applied %g, err %v", applied, err)
	}
	if len(out.Pulses) != before {
		t.Fatalf("dt=0 cycle wrote to hardware")
	}
}

func TestPulseForAngle(t *testing.T) {
	a, _ := newTestActuator(t)
	cases := []struct{ angle, want float64 }{
		{0, 1500},
		{90, 2000},
		{-90, 1000},
		{45, 1750},
		{-45, 1250},
		{120, 2000},  // defensive clamp
		{-120, 1000}, // defensive clamp
	}
	for _, c := range cases {
		if got := a.PulseForAngle(c.angle); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("PulseForAngle(%g) = %g, want %g", c.angle, got, c.want)
		}
	}
}

func TestSetAngleClamps(t *testing.T) {
	a, out := newTestActuator(t)
	if err := a.SetAngle(150.0); err != nil {
		t.Fatalf("SetAngle: %v", err)
	}
	if a.CurrentAngle() != 90.0 {
		t.Fatalf("angle = %g, want clamp at 90", a.CurrentAngle())
	}
	if out.LastPulse() != 2000.0 {
		t.Fatalf("pulse = %g, want 2000", out.LastPulse())
	}
}

func TestCloseCentersAndDisables(t *testing.T) {
	a, out := newTestActuator(t)
	a.SetAngle(30.0)
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !out.Disabled {
		t.Fatalf("output not disabled")
	}
	if out.LastPulse() != 1500.0 {
		t.Fatalf("last pulse = %g, want center before disable", out.LastPulse())
	}
}
