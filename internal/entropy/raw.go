package entropy

// BypassInit switches the encoder to raw mode. One byte is output to
// flush what is left of the arithmetic coder state.
func (e *MQEncoder) BypassInit() {
	e.byteOut()
	e.C = 0
	e.CT = 8
}

// RawRestartInit starts a raw codeword at the cursor left by a
// termination. Like RestartInit it backs up over the byte under the
// cursor. Flush, ErTerm and BypassFlush never end a codeword with 0xFF,
// so the first raw byte carries 8 bits.
func (e *MQEncoder) RawRestartInit() {
	if e.bp >= e.start {
		e.bp--
	}
	e.C = 0
	e.CT = 8
}

// BypassEncode packs one bit without probability estimation.
func (e *MQEncoder) BypassEncode(d int) {
	e.CT--
	e.C += uint32(d&1) << e.CT
	if e.CT == 0 {
		e.put(byte(e.C))
		e.CT = 8
		if e.buf[e.bp] == 0xFF {
			e.CT = 7
		}
		e.C = 0
	}
}

// BypassFlush terminates a raw codeword. The free bits of the last byte
// are padded with 0, 1, 0, ... so the byte can not form a marker with
// what follows, and a zero byte is left under the cursor.
func (e *MQEncoder) BypassFlush() {
	if e.CT == 0 {
		return
	}
	var pad uint32
	for e.CT > 0 {
		e.CT--
		e.C += pad << e.CT
		pad ^= 1
	}
	e.put(byte(e.C))
	e.put(0)
	e.CT = 8
	e.C = 0
}

// RawDecoder implements raw (bypass) mode decoding.
type RawDecoder struct {
	data []byte
	pos  int
	c    byte
	ct   int
}

// NewRawDecoder creates a new raw decoder.
func NewRawDecoder(data []byte) *RawDecoder {
	r := &RawDecoder{}
	r.Init(data)
	return r
}

// Init starts decoding a new raw codeword.
func (r *RawDecoder) Init(data []byte) {
	r.data = data
	r.pos = 0
	r.c = 0
	r.ct = 0
}

// Decode decodes a single bit in raw mode.
func (r *RawDecoder) Decode() int {
	if r.ct == 0 {
		r.fill()
	}
	r.ct--
	return int(r.c>>r.ct) & 1
}

// fill loads the next byte. Only 7 bits of a byte after 0xFF are data.
// At a marker or past the end it loads ones.
func (r *RawDecoder) fill() {
	if r.pos >= len(r.data) || (r.c == 0xFF && r.data[r.pos] > 0x8F) {
		r.c, r.ct = 0xFF, 8
		return
	}
	r.ct = 8
	if r.c == 0xFF {
		r.ct = 7
	}
	r.c = r.data[r.pos]
	r.pos++
}
