package entropy

// segMarkBits is the segmentation symbol 1010 coded after a cleanup
// pass (ISO/IEC 15444-1 D.5).
var segMarkBits = [4]int{1, 0, 1, 0}

// setBits moves C to the point of [C, C+A) with the most trailing ones
// (C.2.9 SETBITS).
func (e *MQEncoder) setBits() {
	top := e.C + e.A
	e.C |= 0xFFFF
	if e.C >= top {
		e.C -= 0x8000
	}
}

// Flush terminates the codeword (C.2.9 FLUSH).
//
// A zero byte is left under the cursor unless the last byte is 0xFF, in
// which case the 0xFF stays under the cursor. Either way NumBytes
// reports the codeword length without it.
func (e *MQEncoder) Flush() {
	e.setBits()
	e.C <<= e.CT
	e.byteOut()
	e.C <<= e.CT
	e.byteOut()

	if e.buf[e.bp] != 0xFF {
		e.put(0)
	}
}

// Restart drains the pending bits at a restart boundary and returns the
// length correction for the pass rate. The byte left under the cursor
// is scratch and is overwritten after RestartInit.
func (e *MQEncoder) Restart() int {
	const correction = 1

	n := 12 - int32(e.CT)
	e.C <<= e.CT
	for n > 0 {
		e.byteOut()
		n -= int32(e.CT)
		e.C <<= e.CT
	}
	e.byteOut()

	return correction
}

// RestartInit re-initializes the registers so a new codeword starts at
// the cursor. The cursor backs up by one so the next byte replaces the
// scratch byte left by the termination. If the byte before the new
// codeword is 0xFF the first output byte is stuffed.
func (e *MQEncoder) RestartInit() {
	e.cur = 0
	e.A = 0x8000
	e.C = 0
	e.CT = 12
	if e.bp >= e.start {
		e.bp--
	}
	if e.bp >= e.start && e.buf[e.bp] == 0xFF {
		e.CT = 13
	}
}

// ErTerm performs predictable (error resilient) termination.
//
// Every pending bit down to the interval precision is emitted, so a
// decoder can detect corruption by checking where decoding ends. As with
// Flush, the byte under the cursor is not part of the codeword.
func (e *MQEncoder) ErTerm() {
	k := 11 - int32(e.CT) + 1

	for k > 0 {
		e.C <<= e.CT
		e.CT = 0
		e.byteOut()
		k -= int32(e.CT)
	}

	if e.bp < e.start || e.buf[e.bp] != 0xFF {
		e.byteOut()
	}
}

// SegMark codes the segmentation symbol in the uniform context.
func (e *MQEncoder) SegMark() {
	for _, d := range segMarkBits {
		e.Encode(CtxUni, d)
	}
}

// ResetContexts restores the code-block initial context states.
func (e *MQEncoder) ResetContexts() {
	e.contexts.Reset()
}

// Mark is the coder position at the end of a pass that is not
// terminated.
type Mark struct {
	// pos is the codeword offset of the byte under the cursor, -1 before
	// the first byte.
	pos int
	// ct is the number of shifts left before the next byte leaves C.
	ct int
}

// Mark returns the current position.
func (e *MQEncoder) Mark() Mark {
	return Mark{pos: e.bp - e.start, ct: int(e.CT)}
}

// MaxLen returns an upper bound of TruncLen that holds whatever bytes
// follow.
func (m Mark) MaxLen() int {
	n := m.pos + 2
	if low := 20 - m.ct; low > 0 {
		n += (low + 6) / 7
	}
	return n
}

// TruncLen returns a prefix length of the final codeword data that
// decodes every decision coded before m.
//
// The prefix ends with the byte that receives bit 0 of C as it was at
// m. The decoder reads ones past the end of data, which keeps the code
// value inside the interval that was current at m. A byte after 0xFF
// carries only 7 bits.
func (m Mark) TruncLen(data []byte) int {
	n := m.pos + 1
	// low is the lowest bit of C at m that goes into byte n.
	low := 19 - m.ct
	for n < len(data) {
		if n > 0 && data[n-1] == 0xFF {
			low++
		}
		n++
		if low <= 0 {
			return n
		}
		low -= 8
	}
	return len(data)
}
