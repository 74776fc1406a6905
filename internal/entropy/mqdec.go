package entropy

// MQDecoder implements the MQ arithmetic decoder.
type MQDecoder struct {
	// Code register
	C uint32
	// Interval size
	A uint32
	// Bit counter
	CT uint32
	// Input buffer position
	bp int
	// Input data
	data []byte
	// Context states - each context holds an index into mqStates
	contexts Contexts
	// Number of times the refill stopped at a marker or the end of data
	endCounter int
}

// NewMQDecoder creates a new MQ decoder with the code-block initial
// context states.
func NewMQDecoder(data []byte) *MQDecoder {
	d := &MQDecoder{}
	d.contexts.Reset()
	d.InitDec(data)
	return d
}

// InitDec initializes the registers to decode the codeword in data
// (C.3.5 INITDEC). Context states are left as they are.
//
// An empty codeword decodes as if it held a single 0xFF byte.
func (d *MQDecoder) InitDec(data []byte) {
	d.data = data
	d.bp = 0
	d.endCounter = 0
	d.C = uint32(d.at(0)) << 16
	d.byteIn()
	d.C <<= 7
	d.CT -= 7
	d.A = 0x8000
}

// at returns the byte at i, or 0xFF past the end of the codeword.
func (d *MQDecoder) at(i int) byte {
	if i < len(d.data) {
		return d.data[i]
	}
	return 0xFF
}

// feedOnes adds a byte of ones without advancing.
func (d *MQDecoder) feedOnes() {
	d.C += 0xFF00
	d.CT = 8
	d.endCounter++
}

// byteIn reads the byte after bp into C (C.3.4 BYTEIN).
//
// A byte following 0xFF carries 7 bits. If it is above 0x8F the pair
// is a marker and the decoder stays in front of it.
func (d *MQDecoder) byteIn() {
	switch {
	case d.bp >= len(d.data):
		d.feedOnes()
	case d.data[d.bp] != 0xFF:
		d.bp++
		d.C += uint32(d.at(d.bp)) << 8
		d.CT = 8
	case d.at(d.bp+1) > 0x8F:
		d.feedOnes()
	default:
		d.bp++
		d.C += uint32(d.data[d.bp]) << 9
		d.CT = 7
	}
}

// Decode decodes a binary decision for the given context.
func (d *MQDecoder) Decode(ctx int) int {
	s := d.contexts[ctx]
	qe := mqQe[s]

	d.A -= qe
	if d.C>>16 < qe {
		bit := d.lpsExchange(ctx, s, qe)
		d.renormDec()
		return bit
	}
	d.C -= qe << 16
	if d.A&0x8000 == 0 {
		bit := d.mpsExchange(ctx, s, qe)
		d.renormDec()
		return bit
	}
	return int(mqMPS[s])
}

// lpsExchange decides a symbol in the upper sub-interval. It is the LPS
// unless the lower sub-interval became the smaller one.
func (d *MQDecoder) lpsExchange(ctx int, s uint8, qe uint32) int {
	exchanged := d.A < qe
	d.A = qe
	if exchanged {
		d.contexts[ctx] = mqNMPS[s]
		return int(mqMPS[s])
	}
	d.contexts[ctx] = mqNLPS[s]
	return 1 - int(mqMPS[s])
}

// mpsExchange decides a symbol in the lower sub-interval once it has
// dropped below half.
func (d *MQDecoder) mpsExchange(ctx int, s uint8, qe uint32) int {
	if d.A < qe {
		d.contexts[ctx] = mqNLPS[s]
		return 1 - int(mqMPS[s])
	}
	d.contexts[ctx] = mqNMPS[s]
	return int(mqMPS[s])
}

// renormDec doubles A until its top bit is set, refilling C every
// eight shifts.
func (d *MQDecoder) renormDec() {
	for {
		if d.CT == 0 {
			d.byteIn()
		}
		d.A <<= 1
		d.C <<= 1
		d.CT--
		if d.A&0x8000 != 0 {
			return
		}
	}
}

// DecodeSegMark decodes the segmentation symbol and reports whether it
// matched.
func (d *MQDecoder) DecodeSegMark() bool {
	ok := true
	for _, want := range segMarkBits {
		if d.Decode(CtxUni) != want {
			ok = false
		}
	}
	return ok
}

// Contexts returns the decoder's context bank.
func (d *MQDecoder) Contexts() *Contexts {
	return &d.contexts
}

// ResetContexts restores the code-block initial context states.
func (d *MQDecoder) ResetContexts() {
	d.contexts.Reset()
}

// MarkerCount returns how many times the refill fed ones because it
// reached a marker or the end of the codeword.
func (d *MQDecoder) MarkerCount() int {
	return d.endCounter
}
