package monitor

import "regexp"

// VimMode is the mode of the agent's vim-style input box.
type VimMode int

const (
	VimModeInsert VimMode = iota
	VimModeNormal
)

func (m VimMode) String() string {
	if m == VimModeNormal {
		return "NORMAL"
	}
	return "INSERT"
}

// The agent styles the input-box cursor differently per mode, and the
// styling sequences are the only reliable signal of the active mode.
var (
	// NORMAL: block cursor drawn with ESC[100m <char> ESC[49m
	normalModeSeq = regexp.MustCompile(`\x1b\[100m.\x1b\[49m`)
	// INSERT: reverse-video cursor drawn with ESC[7m <char> ESC[27m
	insertModeSeq = regexp.MustCompile(`\x1b\[7m.\x1b\[27m`)
)

// VimModeDetector watches raw (unstripped) output chunks for cursor
// styling and reports mode changes. A small carry buffer joins
// sequences split across chunk boundaries.
type VimModeDetector struct {
	mode  VimMode
	carry []byte
}

// NewVimModeDetector starts in INSERT, the agent's initial mode.
func NewVimModeDetector() *VimModeDetector {
	return &VimModeDetector{mode: VimModeInsert}
}

// Mode returns the last detected mode.
func (d *VimModeDetector) Mode() VimMode {
	return d.mode
}

// Scan inspects a raw chunk and returns (mode, true) when the mode
// changed, or (_, false) otherwise. Later sequences in the chunk win.
func (d *VimModeDetector) Scan(raw []byte) (VimMode, bool) {
	buf := append(d.carry, raw...)

	newMode := d.mode
	seen := false
	normalIdx := lastIndexOf(normalModeSeq, buf)
	insertIdx := lastIndexOf(insertModeSeq, buf)
	if normalIdx >= 0 || insertIdx >= 0 {
		seen = true
		if normalIdx > insertIdx {
			newMode = VimModeNormal
		} else {
			newMode = VimModeInsert
		}
	}

	// Keep a tail long enough to complete a styling sequence that was
	// cut mid-chunk; the longest is 12 bytes.
	const carryMax = 16
	if len(buf) > carryMax {
		buf = buf[len(buf)-carryMax:]
	}
	d.carry = append(d.carry[:0], buf...)

	if seen && newMode != d.mode {
		d.mode = newMode
		return newMode, true
	}
	return d.mode, false
}

func lastIndexOf(re *regexp.Regexp, b []byte) int {
	locs := re.FindAllIndex(b, -1)
	if len(locs) == 0 {
		return -1
	}
	return locs[len(locs)-1][0]
}
