package mqc

import (
	"testing"
)

// FuzzDecoder tests the decoder with arbitrary codewords.
// Run with: go test -fuzz=FuzzDecoder -fuzztime=60s
func FuzzDecoder(f *testing.F) {
	f.Add(uint8(0), uint8(3), []byte{0x00, 0x00, 0x00, 0x00})
	f.Add(uint8(StyleBypass|StyleTermAll), uint8(6), []byte{0xFF, 0x90, 0xFF, 0x7F})
	f.Add(uint8(StyleSegMark|StyleReset), uint8(1), []byte{})

	f.Fuzz(func(t *testing.T, style, planes uint8, data []byte) {
		s := Style(style & 0x3F)
		n := 3*(int(planes)%MaxPlanes+1) - 2

		// Spread the segment ends evenly over data.
		passes := make([]Pass, n)
		for i := range passes {
			passes[i] = newPass(i, s)
			passes[i].Rate = len(data) * (i + 1) / n
		}
		passes[n-1].Terminated = true

		dec, err := NewDecoder(data, passes, &Options{Style: s})
		if err != nil {
			t.Fatalf("NewDecoder error %v", err)
		}
		// The decoder should never panic
		for i := 0; i < n; i++ {
			for j := 0; j < 20; j++ {
				if bit, err := dec.Decode((i + j) % NumContexts); err != nil || bit > 1 {
					t.Fatalf("pass %d: Decode = %d, %v", i, bit, err)
				}
			}
			dec.EndPass()
		}
	})
}

// FuzzRoundtrip encodes decisions taken from the input and decodes
// them again, from the whole codeword and from its cut at every pass
// rate.
func FuzzRoundtrip(f *testing.F) {
	f.Add(uint8(0), []byte{0x01, 0x02, 0x03, 0x04, 0x05})
	f.Add(uint8(StyleBypass), []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	f.Add(uint8(StyleTermAll|StylePredictableTerm), []byte{0x00})

	f.Fuzz(func(t *testing.T, style uint8, data []byte) {
		o := &Options{Style: Style(style & 0x3F)}

		// Each byte is a decision; 0x00 ends the pass.
		var blk codeBlock
		var cur []symbol
		for _, b := range data {
			if b == 0 {
				blk = append(blk, cur)
				cur = nil
				continue
			}
			cur = append(cur, symbol{ctx: int(b>>1) % NumContexts, bit: int(b & 1)})
		}
		blk = append(blk, cur)
		if len(blk) > maxPasses {
			blk = blk[:maxPasses]
		}

		encoded, passes := encodeBlock(t, blk, o)
		if err := CheckStuffing(encoded); err != nil {
			t.Fatal(err)
		}
		decodeBlock(t, encoded, passes, blk, o)
		for k := 1; k < len(passes); k++ {
			decodeBlock(t, encoded[:passes[k-1].Rate], passes[:k], blk[:k], o)
		}
	})
}
