package process

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"go.uber.org/zap"
)

// endlessReader always returns a full buffer, like a PTY whose child
// never stops talking.
type endlessReader struct{}

func (endlessReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 'x'
	}
	return len(p), nil
}

// failingWriter models the real terminal going away mid-relay.
type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("tty gone")
}

func TestRelayOutputReaderExitsOnWriteError(t *testing.T) {
	pm := NewPTYManager(zap.NewNop())
	before := runtime.NumGoroutine()

	err := pm.relayOutput(endlessReader{}, failingWriter{}, RelayOptions{ReadTimeout: time.Second})
	if err == nil {
		t.Fatal("expected a write error")
	}

	// The reader goroutine must wind down once the relay has returned
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if runtime.NumGoroutine() <= before {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("reader goroutine still running: %d goroutines, started with %d",
		runtime.NumGoroutine(), before)
}
