package monitor

import "regexp"

// activityPattern matches the generic "working" animation marker the
// agent renders while busy: a capitalized word followed by a run of
// one to three dots ("Generating.", "Thinking..", "Reading...").
// The marker must not sit inside a longer dot run: a fourth dot
// (an ellipsis in prose, or "....") disqualifies the match, as does a
// dot immediately before the word. Matching on the animation shape
// instead of a fixed list of state names keeps new agent states
// working without code changes.
var activityPattern = regexp.MustCompile(`(?:^|[^.])[A-Z][A-Za-z]*\.{1,3}(?:[^.]|$)`)

// ContainsActivity reports whether the escape-stripped text contains
// at least one animation marker. Pure and total: any input yields a
// definite answer.
func ContainsActivity(text string) bool {
	return activityPattern.MatchString(text)
}
