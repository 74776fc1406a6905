package entropy

// MQEncoder implements the MQ arithmetic encoder.
//
// Output is appended to a caller supplied buffer. bp is the index of the
// byte under the cursor; that byte may still receive a carry, so only the
// bytes before it are final. bp < start means nothing has been written
// yet and there is no previous byte to inspect.
type MQEncoder struct {
	// Interval size (A register)
	A uint32
	// Code register (C register)
	C uint32
	// Bit counter
	CT uint32

	buf   []byte
	start int
	bp    int

	// cur is the context of the last decision.
	cur int
	// Context states - each context holds an index into mqStates
	contexts Contexts
}

// NewMQEncoder creates a new MQ encoder with the code-block initial
// context states.
func NewMQEncoder() *MQEncoder {
	e := &MQEncoder{}
	e.contexts.Reset()
	e.InitEnc(make([]byte, 0, 8192)) // Pre-allocate 8KB for output
	return e
}

// InitEnc initializes the registers to encode a new codeword appended
// to buf. Context states are left as they are.
func (e *MQEncoder) InitEnc(buf []byte) {
	e.cur = 0
	e.A = 0x8000
	e.C = 0
	e.CT = 12
	e.buf = buf
	e.start = len(buf)
	e.bp = e.start - 1
}

// Reset resets the registers and the contexts, reusing the buffer.
func (e *MQEncoder) Reset() {
	e.contexts.Reset()
	e.InitEnc(e.buf[:0])
}

// Contexts returns the encoder's context bank.
func (e *MQEncoder) Contexts() *Contexts {
	return &e.contexts
}

// NumBytes returns the number of bytes before the cursor.
func (e *MQEncoder) NumBytes() int {
	if e.bp < e.start {
		return 0
	}
	return e.bp - e.start
}

// Bytes returns the bytes before the cursor. After a termination this
// is the complete codeword.
func (e *MQEncoder) Bytes() []byte {
	return e.buf[e.start : e.start+e.NumBytes()]
}

// Buffer returns the whole output buffer, including bytes that precede
// the codeword and the byte under the cursor.
func (e *MQEncoder) Buffer() []byte {
	return e.buf
}

// Encode codes decision d in context ctx (C.2.4 ENCODE).
func (e *MQEncoder) Encode(ctx int, d int) {
	e.cur = ctx
	s := e.contexts[ctx]
	qe := mqQe[s]

	e.A -= qe
	switch {
	case uint8(d) != mqMPS[s]:
		e.codeLPS(ctx, s, qe)
	case e.A&0x8000 == 0:
		e.codeMPS(ctx, s, qe)
	default:
		e.C += qe
	}
}

// codeLPS keeps the Qe sub-interval for the LPS. When the remaining MPS
// part has become smaller than Qe the two are exchanged.
func (e *MQEncoder) codeLPS(ctx int, s uint8, qe uint32) {
	if e.A >= qe {
		e.A = qe
	} else {
		e.C += qe
	}
	e.contexts[ctx] = mqNLPS[s]
	e.renormEnc()
}

// codeMPS codes an MPS that leaves A below 0x8000.
func (e *MQEncoder) codeMPS(ctx int, s uint8, qe uint32) {
	if e.A >= qe {
		e.C += qe
	} else {
		e.A = qe
	}
	e.contexts[ctx] = mqNMPS[s]
	e.renormEnc()
}

// renormEnc doubles A and C until A is back in [0x8000, 0x10000). A byte
// leaves C every time CT runs out.
func (e *MQEncoder) renormEnc() {
	for e.A < 0x8000 {
		e.A <<= 1
		e.C <<= 1
		e.CT--
		if e.CT == 0 {
			e.byteOut()
		}
	}
}

// put advances the cursor and stores b under it.
func (e *MQEncoder) put(b byte) {
	e.bp++
	if e.bp < len(e.buf) {
		e.buf[e.bp] = b
	} else {
		e.buf = append(e.buf, b)
	}
}

// out8 emits bits 19-26 of C.
func (e *MQEncoder) out8() {
	e.put(byte(e.C >> 19))
	e.C &= 0x7FFFF
	e.CT = 8
}

// out7 emits bits 20-26 of C after a 0xFF byte, leaving the top bit of
// the new byte free for a carry.
func (e *MQEncoder) out7() {
	e.put(byte(e.C >> 20))
	e.C &= 0xFFFFF
	e.CT = 7
}

// byteOut outputs a byte with bit stuffing.
// After a 0xFF byte the next byte is always smaller than 0x90.
func (e *MQEncoder) byteOut() {
	if e.bp < e.start {
		e.out8()
		return
	}
	if e.buf[e.bp] == 0xFF {
		e.out7()
		return
	}
	if (e.C & 0x8000000) == 0 {
		e.out8()
		return
	}
	// Carry into the previous byte. It cannot be 0xFF here, so the
	// carry never travels further back.
	e.buf[e.bp]++
	if e.buf[e.bp] == 0xFF {
		e.C &= 0x7FFFFFF
		e.out7()
		return
	}
	e.out8()
}
