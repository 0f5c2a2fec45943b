package monitor

import (
	"testing"
	"time"
)

var trackerEpoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return trackerEpoch.Add(time.Duration(ms) * time.Millisecond)
}

func TestTrackerStartsIdle(t *testing.T) {
	tr := NewTracker(500 * time.Millisecond)
	if tr.Phase() != PhaseIdle {
		t.Errorf("expected initial phase idle, got %v", tr.Phase())
	}
}

func TestTrackerIdleNeverEmits(t *testing.T) {
	tr := NewTracker(500 * time.Millisecond)

	// Hours of silence and quiet chunks while Idle must not emit
	for i := 0; i < 100; i++ {
		if tr.Step(SignalTimeCheck, at(i*1000)) {
			t.Fatalf("emitted on TimeCheck %d while idle", i)
		}
		if tr.Step(SignalNoActivity, at(i*1000+500)) {
			t.Fatalf("emitted on NoActivity %d while idle", i)
		}
	}
	if tr.Phase() != PhaseIdle {
		t.Errorf("expected phase idle, got %v", tr.Phase())
	}
}

func TestTrackerEntersBusyWithoutEmitting(t *testing.T) {
	tr := NewTracker(500 * time.Millisecond)

	if tr.Step(SignalActivity, at(0)) {
		t.Error("Idle->Busy edge must not emit")
	}
	if tr.Phase() != PhaseBusy {
		t.Errorf("expected phase busy, got %v", tr.Phase())
	}
}

func TestTrackerSustainedActivityNeverEmits(t *testing.T) {
	tr := NewTracker(500 * time.Millisecond)

	// Activity every 400ms, indefinitely: always inside the window
	for i := 0; i < 1000; i++ {
		if tr.Step(SignalActivity, at(i*400)) {
			t.Fatalf("emitted at activity %d while continuously busy", i)
		}
		if tr.Phase() != PhaseBusy {
			t.Fatalf("expected busy at activity %d, got %v", i, tr.Phase())
		}
	}
}

func TestTrackerEmitsOnceAtDebounceExpiry(t *testing.T) {
	tr := NewTracker(500 * time.Millisecond)

	tr.Step(SignalActivity, at(0))

	// Ticks before the window elapses: no emission
	if tr.Step(SignalTimeCheck, at(200)) {
		t.Error("emitted before debounce window elapsed")
	}
	if tr.Step(SignalTimeCheck, at(499)) {
		t.Error("emitted 1ms before debounce window elapsed")
	}

	// First tick at or past lastActivityAt+debounce emits
	if !tr.Step(SignalTimeCheck, at(500)) {
		t.Error("expected emission at debounce expiry")
	}
	if tr.Phase() != PhaseIdle {
		t.Errorf("expected idle after emission, got %v", tr.Phase())
	}

	// Continued silence stays quiet
	for i := 1; i <= 10; i++ {
		if tr.Step(SignalTimeCheck, at(500+i*1000)) {
			t.Fatalf("second emission on tick %d after expiry", i)
		}
	}
}

func TestTrackerQuietChunkCanTriggerExpiry(t *testing.T) {
	tr := NewTracker(500 * time.Millisecond)

	tr.Step(SignalActivity, at(0))

	// A chunk without a marker counts as an input that checks time
	if tr.Step(SignalNoActivity, at(300)) {
		t.Error("emitted before window elapsed")
	}
	if !tr.Step(SignalNoActivity, at(900)) {
		t.Error("expected quiet chunk past the window to emit")
	}
}

func TestTrackerQuietChunksDoNotExtendWindow(t *testing.T) {
	tr := NewTracker(500 * time.Millisecond)

	tr.Step(SignalActivity, at(0))
	tr.Step(SignalNoActivity, at(100))
	tr.Step(SignalNoActivity, at(300))

	// Window is measured from the last activity, not the last input
	if !tr.Step(SignalTimeCheck, at(500)) {
		t.Error("expected emission 500ms after last activity")
	}
}

func TestTrackerActivityRefreshesWindow(t *testing.T) {
	tr := NewTracker(500 * time.Millisecond)

	tr.Step(SignalActivity, at(0))
	tr.Step(SignalActivity, at(400))

	if tr.Step(SignalTimeCheck, at(600)) {
		t.Error("emitted 200ms after refreshed activity")
	}
	if !tr.Step(SignalTimeCheck, at(900)) {
		t.Error("expected emission 500ms after refreshed activity")
	}
}

func TestTrackerLateActivityKeepsBusy(t *testing.T) {
	tr := NewTracker(500 * time.Millisecond)

	tr.Step(SignalActivity, at(0))

	// Activity arriving after the window would have expired still
	// proves the agent is busy; it must not emit.
	if tr.Step(SignalActivity, at(600)) {
		t.Error("late activity must not emit")
	}
	if tr.Phase() != PhaseBusy {
		t.Errorf("expected busy after late activity, got %v", tr.Phase())
	}
	if !tr.Step(SignalTimeCheck, at(1100)) {
		t.Error("expected emission 500ms after the late activity")
	}
}

func TestTrackerRepeatedCycles(t *testing.T) {
	tr := NewTracker(500 * time.Millisecond)

	emissions := 0
	step := func(sig Signal, ms int) {
		if tr.Step(sig, at(ms)) {
			emissions++
		}
	}

	// First cycle
	step(SignalActivity, 0)
	step(SignalTimeCheck, 600)
	if emissions != 1 {
		t.Fatalf("expected 1 emission after first cycle, got %d", emissions)
	}

	// Second, independent cycle: no suppression across cycles
	step(SignalActivity, 1000)
	step(SignalTimeCheck, 1200)
	step(SignalTimeCheck, 1600)
	if emissions != 2 {
		t.Fatalf("expected 2 emissions after second cycle, got %d", emissions)
	}
}
