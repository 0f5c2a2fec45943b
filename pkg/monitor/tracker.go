package monitor

import "time"

// Phase is the tracker's view of the agent.
type Phase int

const (
	// PhaseIdle means no recent animation markers: the agent is
	// waiting for input.
	PhaseIdle Phase = iota
	// PhaseBusy means an animation marker was seen within the
	// debounce window.
	PhaseBusy
)

func (p Phase) String() string {
	if p == PhaseBusy {
		return "busy"
	}
	return "idle"
}

// Signal is one input to the tracker's step function. The read
// timeout is a first-class variant rather than an absence of input:
// silence is what eventually drives the Busy->Idle transition.
type Signal int

const (
	// SignalActivity - the chunk contained an animation marker.
	SignalActivity Signal = iota
	// SignalNoActivity - a chunk arrived without a marker.
	SignalNoActivity
	// SignalTimeCheck - the bounded read timed out with no data.
	SignalTimeCheck
)

// Tracker is the debounced two-state machine deciding when the agent
// has gone from working to waiting. It owns all of its state and is
// driven purely by (signal, timestamp) pairs, so transitions can be
// exercised with synthetic clocks.
type Tracker struct {
	debounce       time.Duration
	phase          Phase
	lastActivityAt time.Time // zero unless phase == PhaseBusy
}

// NewTracker returns a tracker in the Idle phase. debounce is the
// minimum silence after the last activity before Idle is declared.
func NewTracker(debounce time.Duration) *Tracker {
	return &Tracker{debounce: debounce}
}

// Phase returns the current phase.
func (t *Tracker) Phase() Phase {
	return t.phase
}

// Step advances the machine with one timestamped signal and reports
// whether a Busy->Idle transition occurred. It returns true exactly
// once per debounce expiry; the Idle->Busy edge never emits.
//
// An activity signal always refreshes the activity timestamp, even
// when the previous one has aged past the debounce window: fresh
// activity proves the agent is still busy, so it can never be the
// input that declares it idle.
func (t *Tracker) Step(sig Signal, now time.Time) bool {
	if sig == SignalActivity {
		t.phase = PhaseBusy
		t.lastActivityAt = now
		return false
	}

	if t.phase == PhaseBusy && now.Sub(t.lastActivityAt) >= t.debounce {
		t.phase = PhaseIdle
		t.lastActivityAt = time.Time{}
		return true
	}
	return false
}
