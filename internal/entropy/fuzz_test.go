package entropy

import (
	"testing"
)

// FuzzMQDecode tests the MQ decoder directly.
// Run with: go test -fuzz=FuzzMQDecode -fuzztime=60s
func FuzzMQDecode(f *testing.F) {
	f.Add([]byte{0x00, 0x00, 0x00, 0x00})
	f.Add([]byte{0xFF, 0xFF})
	f.Add([]byte{0xFF, 0x90, 0x12})
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		dec := NewMQDecoder(data)
		// Decode some symbols - should never panic
		for i := 0; i < 100+len(data)*8; i++ {
			if d := dec.Decode(i % NumContexts); d != 0 && d != 1 {
				t.Fatalf("decoded %d", d)
			}
			if dec.A < 0x8000 {
				t.Fatalf("A = 0x%X after renormalization", dec.A)
			}
		}
	})
}

// FuzzMQRoundtrip interprets the input as context/bit pairs and checks
// that every termination decodes back to them.
func FuzzMQRoundtrip(f *testing.F) {
	f.Add([]byte{0x00, 0x01, 0x12, 0x13})
	f.Add([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		ctxs := make([]int, len(data))
		bits := make([]int, len(data))
		for i, b := range data {
			ctxs[i] = int(b>>1) % NumContexts
			bits[i] = int(b & 1)
		}

		for _, term := range []string{"flush", "erterm"} {
			enc := NewMQEncoder()
			for i, bit := range bits {
				enc.Encode(ctxs[i], bit)
			}
			if term == "flush" {
				enc.Flush()
			} else {
				enc.ErTerm()
			}
			encoded := enc.Bytes()
			checkStuffing(t, encoded)
			checkDecode(t, encoded, ctxs, bits)
		}
	})
}

// FuzzRawRoundtrip checks raw mode on arbitrary bit strings.
func FuzzRawRoundtrip(f *testing.F) {
	f.Add([]byte{0xFF, 0xFF, 0x00})
	f.Add([]byte{0xAA})
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		enc := NewMQEncoder()
		enc.RawRestartInit()
		for _, b := range data {
			for i := 7; i >= 0; i-- {
				enc.BypassEncode(int(b>>i) & 1)
			}
		}
		enc.BypassFlush()

		encoded := enc.Bytes()
		checkStuffing(t, encoded)
		dec := NewRawDecoder(encoded)
		for n, b := range data {
			for i := 7; i >= 0; i-- {
				if got, want := dec.Decode(), int(b>>i)&1; got != want {
					t.Fatalf("byte %d bit %d: got %d, want %d", n, 7-i, got, want)
				}
			}
		}
	})
}
