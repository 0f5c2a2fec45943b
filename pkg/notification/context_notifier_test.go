package notification

import (
	"os"
	"strings"
	"testing"
	"time"
)

// captureNotifier records what it was asked to send
type captureNotifier struct {
	sent []Notification
}

func (c *captureNotifier) Send(n Notification) error {
	c.sent = append(c.sent, n)
	return nil
}

func TestContextNotifierPlainTextPassthrough(t *testing.T) {
	capture := &captureNotifier{}
	cn := NewContextNotifier(capture)

	err := cn.Send(Notification{Title: "Cursor Agent", Message: "Done", Time: time.Now()})
	if err != nil {
		t.Fatalf("Send(): %v", err)
	}

	if len(capture.sent) != 1 {
		t.Fatalf("expected 1 forwarded notification, got %d", len(capture.sent))
	}
	if capture.sent[0].Title != "Cursor Agent" || capture.sent[0].Message != "Done" {
		t.Errorf("plain text altered: %+v", capture.sent[0])
	}
}

func TestContextNotifierResolvesCwd(t *testing.T) {
	capture := &captureNotifier{}
	cn := NewContextNotifier(capture)

	if err := cn.Send(Notification{Title: "Agent in {cwd}", Message: "Done"}); err != nil {
		t.Fatalf("Send(): %v", err)
	}

	cwd, _ := os.Getwd()
	want := "Agent in " + cwd
	if capture.sent[0].Title != want {
		t.Errorf("title = %q, want %q", capture.sent[0].Title, want)
	}
}

func TestResolvePlaceholders(t *testing.T) {
	t.Run("no placeholders", func(t *testing.T) {
		if got := ResolvePlaceholders("plain text"); got != "plain text" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("cwd", func(t *testing.T) {
		cwd, _ := os.Getwd()
		if got := ResolvePlaceholders("{cwd}"); got != cwd {
			t.Errorf("got %q, want %q", got, cwd)
		}
	})

	t.Run("unresolvable placeholders become empty", func(t *testing.T) {
		// Point git at a directory that is not a repository
		dir := t.TempDir()
		oldWd, _ := os.Getwd()
		if err := os.Chdir(dir); err != nil {
			t.Fatal(err)
		}
		defer func() { _ = os.Chdir(oldWd) }()

		got := ResolvePlaceholders("repo={git_repo} branch={git_branch}")
		if strings.Contains(got, "{") {
			t.Errorf("placeholders left unresolved: %q", got)
		}
	})
}
