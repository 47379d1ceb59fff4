package sequence

// TickInterval is the accumulated, speed-scaled time that must be exceeded before a sequence advances.
const TickInterval float32 = 0.1

// throttle gates animation steps on accumulated time.
// The check happens before the new delta is added, and a firing step resets the
// accumulator to zero rather than carrying the remainder.
type throttle struct {
	elapsed float32
}

// step reports whether the sequence should advance on this tick, then accumulates dt*speed.
func (t *throttle) step(dt, speed float32) bool {
	fire := t.elapsed > TickInterval
	if fire {
		t.elapsed = 0
	}
	t.elapsed += dt * speed
	return fire
}
