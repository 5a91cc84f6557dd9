package chip8

// TimerFrequency is the rate in Hz at which the timers count down on real
// hardware.
const TimerFrequency = 60

// Timers holds the delay and sound countdown timers.
type Timers struct {
	Delay byte
	Sound byte
}

// Tick decrements both timers by one, a timer at zero stays at zero.
func (t *Timers) Tick() {
	if t.Delay > 0 {
		t.Delay--
	}
	if t.Sound > 0 {
		t.Sound--
	}
}
