package mqc

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/mrjoshuak/go-mqc/internal/entropy"
	"github.com/mrjoshuak/go-mqc/internal/xlog"
)

// Encoder codes the passes of one code-block into a single codeword.
//
// Decisions given to Encode belong to the current pass until EndPass is
// called. Finish terminates the codeword. The returned data and pass
// list alias the encoder's buffers and stay valid until the encoder is
// reset or returned to the pool.
type Encoder struct {
	style  Style
	logger Logger

	mq     *entropy.MQEncoder
	passes []Pass
	cur    Pass

	// marks holds the coder position at the end of each pass.
	marks []entropy.Mark

	// open is set once the current pass has received a decision.
	open bool
	// restart is set after a terminated pass; the next pass starts a
	// new codeword segment.
	restart  bool
	finished bool
}

// encoderPool provides pooled encoders to reduce allocations.
var encoderPool = sync.Pool{
	New: func() interface{} {
		return &Encoder{
			mq:     new(entropy.MQEncoder),
			passes: make([]Pass, 0, maxPasses),
			marks:  make([]entropy.Mark, 0, maxPasses),
		}
	},
}

// GetEncoder gets an encoder from the pool, set up for o.
func GetEncoder(o *Options) *Encoder {
	e := encoderPool.Get().(*Encoder)
	e.init(o)
	return e
}

// PutEncoder returns an encoder to the pool.
func PutEncoder(e *Encoder) {
	encoderPool.Put(e)
}

// NewEncoder creates an encoder for a new code-block. If o is nil the
// default options are used.
func NewEncoder(o *Options) *Encoder {
	e := &Encoder{mq: new(entropy.MQEncoder)}
	e.init(o)
	return e
}

func (e *Encoder) init(o *Options) {
	if o == nil {
		o = DefaultOptions()
	}
	e.style = o.Style
	e.logger = o.Logger

	buf := e.mq.Buffer()[:0]
	if cap(buf) < o.InitialCapacity {
		buf = make([]byte, 0, o.InitialCapacity)
	}
	e.mq.ResetContexts()
	e.mq.InitEnc(buf)

	e.passes = e.passes[:0]
	e.marks = e.marks[:0]
	e.cur = newPass(0, e.style)
	e.open = false
	e.restart = false
	e.finished = false
}

// Reset prepares the encoder for a new code-block with the same
// options, reusing its buffers.
func (e *Encoder) Reset() {
	e.init(&Options{
		Style:           e.style,
		Logger:          e.logger,
		InitialCapacity: cap(e.mq.Buffer()),
	})
}

// Style returns the code-block style the encoder applies.
func (e *Encoder) Style() Style {
	return e.style
}

// Pass returns the pass that receives the next decision.
func (e *Encoder) Pass() Pass {
	return e.cur
}

func (e *Encoder) check() error {
	if e.finished {
		return errors.Wrapf(ErrFinished, "pass %d", e.cur.Index)
	}
	if e.cur.Index >= maxPasses {
		return errors.Wrapf(ErrPlanes, "pass %d", e.cur.Index)
	}
	return nil
}

// begin starts a new codeword segment if the previous pass was
// terminated.
func (e *Encoder) begin() {
	if !e.restart {
		return
	}
	e.restart = false
	if e.cur.Raw {
		e.mq.RawRestartInit()
	} else {
		e.mq.RestartInit()
	}
}

// Encode codes decision bit in context ctx. In raw passes the context
// is checked but not used.
func (e *Encoder) Encode(ctx, bit int) error {
	if err := e.check(); err != nil {
		return err
	}
	if err := checkSymbol(ctx, bit); err != nil {
		return err
	}
	e.begin()
	e.open = true
	if e.cur.Raw {
		e.mq.BypassEncode(bit)
	} else {
		e.mq.Encode(ctx, bit)
	}
	return nil
}

// EndPass closes the current pass and returns its description.
func (e *Encoder) EndPass() (Pass, error) {
	if err := e.check(); err != nil {
		return Pass{}, err
	}
	e.begin()

	p := e.cur
	if e.style&StyleSegMark != 0 && p.Kind == PassCleanup {
		e.mq.SegMark()
	}
	m := e.mq.Mark()
	switch {
	case p.Terminated:
		e.terminate(p.Raw)
		p.Rate = e.mq.NumBytes()
		e.restart = true
	case p.Raw:
		// The last written byte and the partial one.
		p.Rate = e.mq.NumBytes() + 2
	default:
		// Finish narrows it down once the following bytes are known.
		p.Rate = m.MaxLen()
	}
	if e.style&StyleReset != 0 {
		e.mq.ResetContexts()
	}

	e.passes = append(e.passes, p)
	e.marks = append(e.marks, m)
	e.cur = newPass(p.Index+1, e.style)
	e.open = false
	xlog.Printf(e.logger, "mqc: %s", p)
	return p, nil
}

func (e *Encoder) terminate(raw bool) {
	switch {
	case raw:
		e.mq.BypassFlush()
	case e.style&StylePredictableTerm != 0:
		e.mq.ErTerm()
	default:
		e.mq.Flush()
	}
}

// Finish terminates the codeword and returns it with the list of
// passes. A pass that received decisions but was not ended is ended
// first.
func (e *Encoder) Finish() (data []byte, passes []Pass, err error) {
	if e.finished {
		return nil, nil, errors.Wrap(ErrFinished, "finish")
	}
	if e.open {
		if _, err = e.EndPass(); err != nil {
			return nil, nil, err
		}
	}
	e.finished = true

	n := len(e.passes)
	if n == 0 {
		return nil, nil, nil
	}
	last := &e.passes[n-1]
	if !last.Terminated {
		e.terminate(last.Raw)
		last.Terminated = true
	}

	data = e.mq.Bytes()
	total := len(data)
	last.Rate = total
	for i := range e.passes[:n-1] {
		p := &e.passes[i]
		if !p.Terminated && !p.Raw {
			p.Rate = e.marks[i].TruncLen(data)
		}
		if p.Rate > total {
			p.Rate = total
		}
		// Do not end a truncation point on 0xFF. The decoder reads
		// ones past the end, so dropping it loses nothing.
		if p.Rate > 1 && data[p.Rate-1] == 0xFF {
			p.Rate--
		}
	}
	for i := n - 2; i >= 0; i-- {
		if e.passes[i].Rate > e.passes[i+1].Rate {
			e.passes[i].Rate = e.passes[i+1].Rate
		}
	}

	xlog.Printf(e.logger, "mqc: %d passes, %d bytes, style %s", n, total, e.style)
	return data, e.passes, nil
}
