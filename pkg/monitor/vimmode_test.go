package monitor

import "testing"

func TestVimModeDetector(t *testing.T) {
	normal := []byte("\x1b[100mx\x1b[49m")
	insert := []byte("\x1b[7mx\x1b[27m")

	t.Run("starts in insert", func(t *testing.T) {
		d := NewVimModeDetector()
		if d.Mode() != VimModeInsert {
			t.Errorf("expected initial INSERT, got %v", d.Mode())
		}
	})

	t.Run("detects normal mode", func(t *testing.T) {
		d := NewVimModeDetector()
		mode, changed := d.Scan(normal)
		if !changed || mode != VimModeNormal {
			t.Errorf("expected change to NORMAL, got %v changed=%v", mode, changed)
		}
	})

	t.Run("no change reported twice", func(t *testing.T) {
		d := NewVimModeDetector()
		d.Scan(normal)
		if _, changed := d.Scan(normal); changed {
			t.Error("re-seeing the same mode must not report a change")
		}
	})

	t.Run("round trip", func(t *testing.T) {
		d := NewVimModeDetector()
		d.Scan(normal)
		mode, changed := d.Scan(insert)
		if !changed || mode != VimModeInsert {
			t.Errorf("expected change back to INSERT, got %v changed=%v", mode, changed)
		}
	})

	t.Run("latest sequence in chunk wins", func(t *testing.T) {
		d := NewVimModeDetector()
		chunk := append(append([]byte{}, normal...), insert...)
		mode, changed := d.Scan(chunk)
		if changed || mode != VimModeInsert {
			t.Errorf("expected INSERT to win (no net change), got %v changed=%v", mode, changed)
		}
	})

	t.Run("sequence split across chunks", func(t *testing.T) {
		d := NewVimModeDetector()
		if _, changed := d.Scan(normal[:4]); changed {
			t.Fatal("half a sequence must not change the mode")
		}
		mode, changed := d.Scan(normal[4:])
		if !changed || mode != VimModeNormal {
			t.Errorf("expected NORMAL after joined chunks, got %v changed=%v", mode, changed)
		}
	})

	t.Run("plain output ignored", func(t *testing.T) {
		d := NewVimModeDetector()
		if _, changed := d.Scan([]byte("regular text, no styling")); changed {
			t.Error("plain text must not change the mode")
		}
	})
}
