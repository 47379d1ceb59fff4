package sequence

import "testing"

func TestThrottleCheckThenAccumulate(t *testing.T) {
	var th throttle

	if th.step(0.25, 1) {
		t.Fatal("first step must not fire: the accumulator starts at zero")
	}
	if !th.step(0.01, 1) {
		t.Fatal("second step should fire once the accumulator exceeds the interval")
	}
	if th.elapsed != 0.01 {
		t.Errorf("elapsed = %v after firing, want 0.01 (reset to zero, not remainder)", th.elapsed)
	}
}

func TestThrottleExactIntervalDoesNotFire(t *testing.T) {
	th := throttle{elapsed: TickInterval}
	if th.step(0, 1) {
		t.Error("elapsed equal to the interval must not fire")
	}
}

func TestThrottleSpeedScaling(t *testing.T) {
	tests := []struct {
		name      string
		speed     float32
		dt        float32
		steps     int
		wantFires int
	}{
		{name: "unit speed", speed: 1, dt: 0.06, steps: 10, wantFires: 4},
		{name: "double speed", speed: 2, dt: 0.06, steps: 10, wantFires: 9},
		{name: "sub threshold", speed: 1, dt: 0.01, steps: 10, wantFires: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var th throttle
			fires := 0
			for i := 0; i < tt.steps; i++ {
				if th.step(tt.dt, tt.speed) {
					fires++
				}
			}
			if fires != tt.wantFires {
				t.Errorf("fires = %d, want %d", fires, tt.wantFires)
			}
		})
	}
}
