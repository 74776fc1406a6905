package mqc

import (
	"github.com/pkg/errors"

	"github.com/mrjoshuak/go-mqc/internal/codestream"
)

// CheckStuffing verifies that data contains no marker code, that is no
// 0xFF followed by a byte of 0x90 or above. It returns an error wrapping
// ErrStuffing with the offset of the first one found.
func CheckStuffing(data []byte) error {
	for i := 0; i+1 < len(data); i++ {
		if codestream.IsMarker(data[i], data[i+1]) {
			m := codestream.Marker(uint16(data[i])<<8 | uint16(data[i+1]))
			return errors.Wrapf(ErrStuffing, "%s (0x%04X) at offset %d", m, uint16(m), i)
		}
	}
	return nil
}
