package entropy

// Context indices for EBCOT coding passes.
const (
	// Zero coding contexts (9 contexts based on neighbors)
	CtxZC0 = iota
	CtxZC1
	CtxZC2
	CtxZC3
	CtxZC4
	CtxZC5
	CtxZC6
	CtxZC7
	CtxZC8

	// Sign coding contexts (5 contexts)
	CtxSC0
	CtxSC1
	CtxSC2
	CtxSC3
	CtxSC4

	// Magnitude refinement contexts (3 contexts)
	CtxMag0
	CtxMag1
	CtxMag2

	// Aggregation (run-length) context
	CtxAgg

	// Uniform context
	CtxUni

	NumContexts // Total number of contexts
)

// Initial probability indices for the contexts that do not start at
// node 0 after a reset (ITU-T T.800 Table D.7).
const (
	initProbUni = 46
	initProbAgg = 3
	initProbZC  = 4
)

// Contexts is the context bank. Each entry is the index of the
// context's current node in the state table.
type Contexts [NumContexts]uint8

// ResetAll points every context at node 0.
func (cx *Contexts) ResetAll() {
	for i := range cx {
		cx[i] = 0
	}
}

// SetState points context ctx at the node for the given MPS and
// probability index.
func (cx *Contexts) SetState(ctx int, mps uint8, prob int) {
	cx[ctx] = mps + uint8(prob<<1)
}

// State returns the current node of context ctx.
func (cx *Contexts) State(ctx int) uint8 {
	return cx[ctx]
}

// Reset restores the initial states used at the start of every
// code-block: all contexts at node 0 except the uniform, aggregation
// and first zero coding contexts.
func (cx *Contexts) Reset() {
	cx.ResetAll()
	cx.SetState(CtxUni, 0, initProbUni)
	cx.SetState(CtxAgg, 0, initProbAgg)
	cx.SetState(CtxZC0, 0, initProbZC)
}
