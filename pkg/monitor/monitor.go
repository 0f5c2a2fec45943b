package monitor

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nakkulla/cursor-agent-notify/pkg/config"
	"github.com/nakkulla/cursor-agent-notify/pkg/notification"
)

// Monitor consumes the PTY relay's output events - raw chunks and
// read timeouts - and drives the debounce tracker. On each Busy->Idle
// transition it sends exactly one notification. It also watches raw
// chunks for vim-mode changes.
//
// The relay delivers events strictly one at a time, so the tracker
// itself needs no locking; the mutex only guards the callback fields
// against being swapped mid-event during wiring.
type Monitor struct {
	cfg    *config.Store
	logger *zap.Logger

	mu       sync.Mutex
	notifier notification.Notifier
	tracker  *Tracker
	vim      *VimModeDetector

	onPhaseChange   func(Phase)
	onVimModeChange func(VimMode)

	now func() time.Time // swapped for a fake clock in tests
}

// NewMonitor creates a monitor using the store's current debounce
// window. The notifier may be swapped later with SetNotifier.
func NewMonitor(cfg *config.Store, notifier notification.Notifier, logger *zap.Logger) *Monitor {
	return &Monitor{
		cfg:      cfg,
		logger:   logger,
		notifier: notifier,
		tracker:  NewTracker(cfg.Snapshot().DebounceWindow.Std()),
		vim:      NewVimModeDetector(),
		now:      time.Now,
	}
}

// SetNotifier sets the notifier
func (m *Monitor) SetNotifier(notifier notification.Notifier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifier = notifier
}

// SetOnPhaseChange registers a callback fired whenever the tracker
// changes phase (both edges; the notification still fires only on
// Busy->Idle).
func (m *Monitor) SetOnPhaseChange(fn func(Phase)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onPhaseChange = fn
}

// SetOnVimModeChange registers a callback fired when the agent's
// vim mode changes.
func (m *Monitor) SetOnVimModeChange(fn func(VimMode)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onVimModeChange = fn
}

// VimMode returns the last detected vim mode.
func (m *Monitor) VimMode() VimMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vim.Mode()
}

// HandleChunk processes one raw PTY output chunk.
func (m *Monitor) HandleChunk(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if mode, changed := m.vim.Scan(data); changed {
		m.logger.Debug("vim mode changed", zap.String("mode", mode.String()))
		if m.onVimModeChange != nil {
			m.onVimModeChange(mode)
		}
	}

	sig := SignalNoActivity
	if ContainsActivity(string(StripEscapes(data))) {
		sig = SignalActivity
	}
	m.step(sig, m.now())
}

// HandleTimeout advances the tracker when the bounded read produced
// no data. Without this, an agent that goes quiet after finishing
// would never be declared idle.
func (m *Monitor) HandleTimeout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.step(SignalTimeCheck, m.now())
}

func (m *Monitor) step(sig Signal, now time.Time) {
	before := m.tracker.Phase()
	emitted := m.tracker.Step(sig, now)

	if after := m.tracker.Phase(); after != before {
		m.logger.Debug("phase changed",
			zap.String("from", before.String()),
			zap.String("to", after.String()))
		if m.onPhaseChange != nil {
			m.onPhaseChange(after)
		}
	}

	if emitted {
		m.notify(now)
	}
}

// notify sends the done notification. Failures are logged and
// swallowed: a broken notify-send must not disturb the relay.
func (m *Monitor) notify(now time.Time) {
	cfg := m.cfg.Snapshot()
	if cfg.Quiet {
		return
	}

	n := notification.Notification{
		Title:   cfg.NotificationTitle,
		Message: cfg.NotificationBody,
		Time:    now,
	}
	if err := m.notifier.Send(n); err != nil {
		m.logger.Warn("notification failed", zap.Error(err))
		return
	}
	m.logger.Info("notification sent", zap.String("title", n.Title))
}
