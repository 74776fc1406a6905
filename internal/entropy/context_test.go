package entropy

import "testing"

func TestStateTable_Mirrored(t *testing.T) {
	for s := 0; s < NumStates; s++ {
		m := s ^ 1
		if mqQe[s] != mqQe[m] {
			t.Errorf("node %d: Qe 0x%04X, mirror 0x%04X", s, mqQe[s], mqQe[m])
		}
		if int(mqMPS[s]) != s&1 {
			t.Errorf("node %d: MPS %d", s, mqMPS[s])
		}
		if mqNMPS[s]^1 != mqNMPS[m] || mqNLPS[s]^1 != mqNLPS[m] {
			t.Errorf("node %d: transitions are not mirrored", s)
		}
		if mqQe[s] == 0 || mqQe[s] >= 0x8000 {
			t.Errorf("node %d: Qe 0x%04X out of range", s, mqQe[s])
		}
	}
}

func TestStateTable_Switch(t *testing.T) {
	// Only states 0, 6 and 14 flip the MPS on an LPS.
	switches := map[int]bool{0: true, 6: true, 14: true}
	for s := 0; s < NumStates; s++ {
		flips := int(mqNLPS[s])&1 != s&1
		if flips != switches[s>>1] {
			t.Errorf("node %d (state %d): NLPS %d flips=%v", s, s>>1, mqNLPS[s], flips)
		}
		if int(mqNMPS[s])&1 != s&1 {
			t.Errorf("node %d: NMPS %d changes polarity", s, mqNMPS[s])
		}
	}
}

func TestStateTable_Uniform(t *testing.T) {
	for _, s := range []uint8{92, 93} {
		if mqNMPS[s] != s || mqNLPS[s] != s {
			t.Errorf("node %d is not absorbing: NMPS %d NLPS %d", s, mqNMPS[s], mqNLPS[s])
		}
		if mqQe[s] != 0x5601 {
			t.Errorf("node %d: Qe 0x%04X", s, mqQe[s])
		}
	}
}

func TestContexts_Reset(t *testing.T) {
	var cx Contexts
	for i := range cx {
		cx[i] = 17
	}
	cx.Reset()

	for ctx := 0; ctx < NumContexts; ctx++ {
		var want uint8
		switch ctx {
		case CtxUni:
			want = 92
		case CtxAgg:
			want = 6
		case CtxZC0:
			want = 8
		}
		if got := cx.State(ctx); got != want {
			t.Errorf("context %d at node %d, want %d", ctx, got, want)
		}
		if mqMPS[cx.State(ctx)] != 0 {
			t.Errorf("context %d has MPS 1 after reset", ctx)
		}
	}
}

func TestContexts_SetState(t *testing.T) {
	tests := []struct {
		mps  uint8
		prob int
		want uint8
	}{
		{0, 0, 0},
		{1, 0, 1},
		{0, 46, 92},
		{1, 46, 93},
		{1, 3, 7},
	}
	for _, tt := range tests {
		var cx Contexts
		cx.SetState(CtxMag1, tt.mps, tt.prob)
		if got := cx.State(CtxMag1); got != tt.want {
			t.Errorf("SetState(%d, %d): node %d, want %d", tt.mps, tt.prob, got, tt.want)
		}
	}
}

func TestContexts_ResetAll(t *testing.T) {
	var cx Contexts
	cx.Reset()
	cx.ResetAll()
	if cx != (Contexts{}) {
		t.Errorf("contexts %v after ResetAll", cx)
	}
}
