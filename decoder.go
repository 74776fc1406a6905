package mqc

import (
	"github.com/pkg/errors"

	"github.com/mrjoshuak/go-mqc/internal/entropy"
	"github.com/mrjoshuak/go-mqc/internal/xlog"
)

// Decoder decodes the passes of one code-block.
//
// The pass list tells the decoder where codeword segments end and which
// passes are raw. It may be a prefix of the list returned by
// Encoder.Finish, with data cut at the rate of its last pass.
type Decoder struct {
	style  Style
	logger Logger

	data   []byte
	passes []Pass

	mq  *entropy.MQDecoder
	raw entropy.RawDecoder

	// idx is the index of the current pass.
	idx int
	// start is the offset of the current segment in data.
	start int
	// pending is set when the current pass starts a new segment that
	// has not been initialized yet.
	pending bool
}

// NewDecoder creates a decoder for the codeword data. If o is nil the
// default options are used. The style must be the one used to encode.
func NewDecoder(data []byte, passes []Pass, o *Options) (*Decoder, error) {
	if o == nil {
		o = DefaultOptions()
	}
	if err := checkPasses(passes, len(data), o.Style); err != nil {
		return nil, err
	}
	d := &Decoder{
		style:   o.Style,
		logger:  o.Logger,
		data:    data,
		passes:  passes,
		mq:      entropy.NewMQDecoder(nil),
		pending: true,
	}
	return d, nil
}

// checkPasses verifies that passes is what an encoder with style s
// produces for a codeword of n bytes.
func checkPasses(passes []Pass, n int, s Style) error {
	if len(passes) > maxPasses {
		return errors.Wrapf(ErrPlanes, "%d passes", len(passes))
	}
	prev := 0
	for i, p := range passes {
		want := newPass(i, s)
		if p.Index != i || p.Kind != want.Kind || p.Plane != want.Plane || p.Raw != want.Raw {
			return errors.Wrapf(ErrPasses, "%s, want %s", p, want)
		}
		if want.Terminated && !p.Terminated {
			return errors.Wrapf(ErrPasses, "pass %d must be terminated", i)
		}
		if p.Terminated && !want.Terminated && i != len(passes)-1 {
			return errors.Wrapf(ErrPasses, "pass %d must not be terminated", i)
		}
		if p.Rate < prev || p.Rate > n {
			return errors.Wrapf(ErrPasses, "pass %d: rate %d outside [%d, %d]", i, p.Rate, prev, n)
		}
		if i > 0 && p.Raw != passes[i-1].Raw && !passes[i-1].Terminated {
			return errors.Wrapf(ErrPasses, "pass %d switches mode inside a segment", i)
		}
		prev = p.Rate
	}
	return nil
}

// segmentEnd returns the end of the segment holding pass i.
func (d *Decoder) segmentEnd(i int) int {
	for ; i < len(d.passes); i++ {
		if d.passes[i].Terminated {
			return d.passes[i].Rate
		}
	}
	return d.passes[len(d.passes)-1].Rate
}

func (d *Decoder) begin() {
	if !d.pending {
		return
	}
	d.pending = false
	seg := d.data[d.start:d.segmentEnd(d.idx)]
	if d.passes[d.idx].Raw {
		d.raw.Init(seg)
	} else {
		d.mq.InitDec(seg)
	}
}

func (d *Decoder) check() error {
	if d.idx >= len(d.passes) {
		return errors.Wrapf(ErrFinished, "pass %d", d.idx)
	}
	return nil
}

// Pass returns the pass the next decision is decoded from.
func (d *Decoder) Pass() Pass {
	if d.idx >= len(d.passes) {
		return Pass{Index: d.idx}
	}
	return d.passes[d.idx]
}

// Decode decodes the next decision of the current pass in context ctx.
// In raw passes the context is checked but not used.
func (d *Decoder) Decode(ctx int) (int, error) {
	if err := d.check(); err != nil {
		return 0, err
	}
	if ctx < 0 || ctx >= NumContexts {
		return 0, errors.Wrapf(ErrContext, "context %d", ctx)
	}
	d.begin()
	if d.passes[d.idx].Raw {
		return d.raw.Decode(), nil
	}
	return d.mq.Decode(ctx), nil
}

// EndPass closes the current pass. Under StyleSegMark it decodes the
// segmentation symbol after a cleanup pass and returns an error wrapping
// ErrSegMark if it does not match; the decoder still moves on to the
// next pass.
func (d *Decoder) EndPass() error {
	if err := d.check(); err != nil {
		return err
	}
	d.begin()

	var err error
	p := d.passes[d.idx]
	if d.style&StyleSegMark != 0 && p.Kind == PassCleanup {
		if !d.mq.DecodeSegMark() {
			err = errors.Wrapf(ErrSegMark, "pass %d", p.Index)
		}
	}
	if d.style&StyleReset != 0 {
		d.mq.ResetContexts()
	}
	if p.Terminated {
		if !p.Raw {
			xlog.Printf(d.logger, "mqc: segment [%d, %d) read %d markers",
				d.start, p.Rate, d.mq.MarkerCount())
		}
		d.start = p.Rate
		d.pending = true
	}
	d.idx++
	return err
}
