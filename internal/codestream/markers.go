// Package codestream holds the JPEG 2000 codestream values that reach
// the tier-1 coder: the markers a codeword must never imitate and the
// code-block style byte of the COD/COC marker segments.
package codestream

// Marker represents a JPEG 2000 marker code.
type Marker uint16

// Markers that may follow entropy coded data inside a tile-part
// (ISO/IEC 15444-1 Annex A). All of them have a second byte above 0x8F,
// which is why a coder never emits 0xFF followed by such a byte.
const (
	SOT Marker = 0xFF90 // Start of tile-part
	SOP Marker = 0xFF91 // Start of packet
	EPH Marker = 0xFF92 // End of packet header
	SOD Marker = 0xFF93 // Start of data
	EOC Marker = 0xFFD9 // End of codestream
)

// MinBitstreamMarker is the lowest code a decoder treats as a marker
// when it follows 0xFF inside a codeword.
const MinBitstreamMarker = SOT

var markerNames = map[Marker]string{
	SOT: "SOT",
	SOP: "SOP",
	EPH: "EPH",
	SOD: "SOD",
	EOC: "EOC",
}

// String returns the marker name, "MARKER" for other codes a decoder
// stops at and "UNKNOWN" for the rest.
func (m Marker) String() string {
	if n, ok := markerNames[m]; ok {
		return n
	}
	if IsMarker(byte(m>>8), byte(m)) {
		return "MARKER"
	}
	return "UNKNOWN"
}

// IsMarker reports whether the byte pair b0 b1 reads as a marker inside
// a codeword.
func IsMarker(b0, b1 byte) bool {
	return b0 == 0xFF && Marker(0xFF00|uint16(b1)) >= MinBitstreamMarker
}

// Code-block style bits (SPcod/SPcoc, ISO/IEC 15444-1 Table A.19).
const (
	CodeBlockBypass                 uint8 = 1 << iota // selective arithmetic coding bypass
	CodeBlockReset                                    // context reset after each pass
	CodeBlockTermination                              // termination after each pass
	CodeBlockVerticalCausal                           // vertically causal context formation
	CodeBlockPredictableTermination                   // predictable termination
	CodeBlockSegmentationSymbols                      // segmentation symbols after cleanup passes
)
