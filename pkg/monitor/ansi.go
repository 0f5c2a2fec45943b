package monitor

// StripEscapes removes terminal control sequences from a raw output
// chunk, returning the remaining bytes in order. It understands CSI
// (ESC[ ... final byte), OSC (ESC] ... BEL or ESC\), charset
// designators (ESC( / ESC)), other two-byte ESC sequences, and the
// 8-bit CSI introducer 0x9B.
//
// The function is stateless per chunk. A sequence truncated at the end
// of the chunk is dropped; the tail of a sequence that started in a
// previous chunk is not recognizable here and passes through as plain
// residue, which the activity pattern tolerates. Stripping
// already-stripped text returns it unchanged.
func StripEscapes(data []byte) []byte {
	out := make([]byte, 0, len(data))
	i := 0
	for i < len(data) {
		b := data[i]

		if b == 0x1B { // ESC
			i++
			if i >= len(data) {
				break // truncated at chunk boundary
			}
			switch data[i] {
			case '[': // CSI: parameters then a final byte in 0x40-0x7E
				i++
				for i < len(data) {
					c := data[i]
					i++
					if c >= 0x40 && c <= 0x7E {
						break
					}
				}
			case ']': // OSC: terminated by BEL or ST (ESC \)
				i++
				for i < len(data) {
					c := data[i]
					i++
					if c == 0x07 {
						break
					}
					if c == 0x1B && i < len(data) && data[i] == '\\' {
						i++
						break
					}
				}
			case '(', ')': // charset designation, one byte follows
				i++
				if i < len(data) {
					i++
				}
			default: // two-byte sequence (ESC c, ESC M, ESC 7, ...)
				i++
			}
			continue
		}

		if b == 0x9B { // 8-bit CSI
			i++
			for i < len(data) {
				c := data[i]
				i++
				if c >= 0x40 && c <= 0x7E {
					break
				}
			}
			continue
		}

		out = append(out, b)
		i++
	}
	return out
}
