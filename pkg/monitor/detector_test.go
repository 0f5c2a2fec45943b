package monitor

import "testing"

func TestContainsActivity(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		// Animation markers
		{"single dot", "Generating.", true},
		{"two dots", "Thinking..", true},
		{"three dots", "Reading...", true},
		{"marker mid-line", "  ⬢ Generating...  1m 2s", true},
		{"marker with trailing text", "Thinking..  202 tokens", true},
		{"single capital letter", "A.", true},
		{"mixed case word", "ReTrying..", true},

		// Not markers
		{"four dots", "Loading....", false},
		{"parenthesized word", "(Thinking)", false},
		{"lowercase word", "hello.", false},
		{"lowercase with three dots", "loading...", false},
		{"no dots", "Generating", false},
		{"preceded by a dot", "end.Generating.", false},
		{"dot before capital no dots after", "v1.Beta", false},
		{"empty string", "", false},
		{"dots only", "...", false},
		{"sentence without capital-dot run", "all lowercase words here", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsActivity(tt.text); got != tt.expected {
				t.Errorf("ContainsActivity(%q) = %v, want %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestContainsActivityMultiline(t *testing.T) {
	text := "some response text\nmore text\n  ⬡ Thinking..\n"
	if !ContainsActivity(text) {
		t.Error("expected marker to be found inside multi-line text")
	}

	text = "first line.\nsecond line....\n"
	if ContainsActivity(text) {
		t.Error("expected no marker in lowercase/ellipsis text")
	}
}
