// Package mqc provides the JPEG 2000 MQ arithmetic coder as used by
// tier-1 code-block coding.
//
// The Encoder and Decoder types drive the coder through the coding
// passes of one code-block. They apply the termination, restart, bypass
// and context reset rules selected by the code-block style byte of the
// COD/COC marker segments, and record per pass where its data ends.
//
// Basic usage for encoding:
//
//	enc := mqc.NewEncoder(&mqc.Options{Style: mqc.StyleTermAll})
//	for _, s := range cleanup {
//	    if err := enc.Encode(s.Ctx, s.Bit); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//	enc.EndPass()
//	data, passes, err := enc.Finish()
//
// Basic usage for decoding:
//
//	dec, err := mqc.NewDecoder(data, passes, &mqc.Options{Style: mqc.StyleTermAll})
//	bit, err := dec.Decode(mqc.CtxUni)
package mqc

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/mrjoshuak/go-mqc/internal/codestream"
	"github.com/mrjoshuak/go-mqc/internal/entropy"
	"github.com/mrjoshuak/go-mqc/internal/xlog"
)

// Context indices accepted by Encode and Decode.
const (
	CtxZC0  = entropy.CtxZC0  // first of 9 zero coding contexts
	CtxSC0  = entropy.CtxSC0  // first of 5 sign coding contexts
	CtxMag0 = entropy.CtxMag0 // first of 3 magnitude refinement contexts
	CtxAgg  = entropy.CtxAgg  // run-length aggregation
	CtxUni  = entropy.CtxUni  // uniform

	NumContexts = entropy.NumContexts
)

// MaxPlanes is the largest number of magnitude bit planes of a
// code-block.
const MaxPlanes = 32

// maxPasses is the number of coding passes for MaxPlanes planes: one
// cleanup pass for the first plane and three passes for every other.
const maxPasses = 3*MaxPlanes - 2

// Style is the code-block style byte (SPcod/SPcoc).
type Style uint8

// Code-block style flags.
const (
	// StyleBypass codes significance and refinement passes below the
	// fourth plane without the arithmetic coder.
	StyleBypass = Style(codestream.CodeBlockBypass)
	// StyleReset resets the contexts after every pass.
	StyleReset = Style(codestream.CodeBlockReset)
	// StyleTermAll terminates every pass.
	StyleTermAll = Style(codestream.CodeBlockTermination)
	// StyleVerticalCausal changes context formation only; the coder
	// ignores it.
	StyleVerticalCausal = Style(codestream.CodeBlockVerticalCausal)
	// StylePredictableTerm uses predictable termination.
	StylePredictableTerm = Style(codestream.CodeBlockPredictableTermination)
	// StyleSegMark codes a segmentation symbol after every cleanup pass.
	StyleSegMark = Style(codestream.CodeBlockSegmentationSymbols)
)

// String returns the set flags separated by '|'.
func (s Style) String() string {
	if s == 0 {
		return "none"
	}
	names := []struct {
		f Style
		n string
	}{
		{StyleBypass, "bypass"},
		{StyleReset, "reset"},
		{StyleTermAll, "termall"},
		{StyleVerticalCausal, "vcausal"},
		{StylePredictableTerm, "pterm"},
		{StyleSegMark, "segmark"},
	}
	var str string
	for _, n := range names {
		if s&n.f == 0 {
			continue
		}
		if str != "" {
			str += "|"
		}
		str += n.n
	}
	if rest := s &^ 0x3F; rest != 0 {
		if str != "" {
			str += "|"
		}
		str += fmt.Sprintf("0x%02X", uint8(rest))
	}
	return str
}

// raw reports whether a pass is coded in bypass mode.
func (s Style) raw(kind PassKind, plane int) bool {
	return s&StyleBypass != 0 && kind != PassCleanup && plane >= 4
}

// terminated reports whether the codeword is terminated after a pass.
// The last pass of a code-block is always terminated on top of this.
func (s Style) terminated(kind PassKind, plane int) bool {
	if s&StyleTermAll != 0 {
		return true
	}
	if s&StyleBypass == 0 {
		return false
	}
	switch {
	case plane >= 4:
		return kind != PassSignificance
	case plane == 3:
		return kind == PassCleanup
	}
	return false
}

// PassKind identifies the coding pass type.
type PassKind int

const (
	// PassSignificance is the significance propagation pass.
	PassSignificance PassKind = iota
	// PassRefinement is the magnitude refinement pass.
	PassRefinement
	// PassCleanup is the cleanup pass.
	PassCleanup
)

// String returns the string representation of the pass kind.
func (k PassKind) String() string {
	switch k {
	case PassSignificance:
		return "SPP"
	case PassRefinement:
		return "MRP"
	case PassCleanup:
		return "CUP"
	default:
		return "Unknown"
	}
}

// Pass describes one coding pass of a code-block.
type Pass struct {
	// Index is the position of the pass in the code-block.
	Index int
	// Kind is the pass type.
	Kind PassKind
	// Plane is the bit plane, 0 being the most significant one.
	Plane int
	// Raw is set for passes coded in bypass mode.
	Raw bool
	// Terminated is set when the codeword is terminated after the pass.
	Terminated bool
	// Rate is a codeword length that decodes every pass up to and
	// including this one: a Decoder given data[:Rate] and the passes up
	// to this one returns the same decisions as with the whole codeword.
	// It is the segment end for terminated passes. For other passes the
	// value returned by Encoder.EndPass is an upper bound that Finish
	// lowers once the following bytes are known.
	Rate int
}

func newPass(index int, s Style) Pass {
	p := Pass{Index: index, Kind: PassCleanup}
	if index > 0 {
		p.Kind = PassKind((index - 1) % 3)
	}
	p.Plane = (index + 2) / 3
	p.Raw = s.raw(p.Kind, p.Plane)
	p.Terminated = s.terminated(p.Kind, p.Plane)
	return p
}

func (p Pass) String() string {
	mode := "mq"
	if p.Raw {
		mode = "raw"
	}
	term := ""
	if p.Terminated {
		term = " term"
	}
	return fmt.Sprintf("pass %d %s plane %d %s%s rate %d",
		p.Index, p.Kind, p.Plane, mode, term, p.Rate)
}

// Logger receives trace output of the coders. *log.Logger satisfies it.
type Logger = xlog.Logger

// Options holds the coder options.
type Options struct {
	// Style is the code-block style.
	Style Style

	// Logger receives a line per pass and per code-block.
	// If nil, nothing is logged.
	Logger Logger

	// InitialCapacity is the size hint for the encoder output buffer.
	InitialCapacity int
}

// DefaultOptions returns the default options.
func DefaultOptions() *Options {
	return &Options{
		InitialCapacity: 8192,
	}
}

// Errors returned by the coders. Returned errors wrap them; use
// errors.Cause to compare.
var (
	ErrContext  = errors.New("mqc: context index out of range")
	ErrBit      = errors.New("mqc: decision is not 0 or 1")
	ErrFinished = errors.New("mqc: code-block finished")
	ErrSegMark  = errors.New("mqc: segmentation symbol mismatch")
	ErrPasses   = errors.New("mqc: inconsistent pass list")
	ErrPlanes   = errors.New("mqc: too many bit planes")
	ErrStuffing = errors.New("mqc: marker inside codeword")
)

func checkSymbol(ctx, bit int) error {
	if ctx < 0 || ctx >= NumContexts {
		return errors.Wrapf(ErrContext, "context %d", ctx)
	}
	if bit != 0 && bit != 1 {
		return errors.Wrapf(ErrBit, "decision %d", bit)
	}
	return nil
}
