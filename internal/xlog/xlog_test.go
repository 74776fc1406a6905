package xlog

import (
	"bytes"
	"log"
	"testing"
)

type countingLogger struct{ n int }

func (c *countingLogger) Output(calldepth int, s string) error {
	c.n++
	return nil
}

func TestNilLogger(t *testing.T) {
	Printf(nil, "%d", 1)
}

func TestOutput(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&buf, "mqc: ", 0)

	Printf(l, "pass %d", 3)
	Printf(l, "rate %d", 17)

	want := "mqc: pass 3\nmqc: rate 17\n"
	if got := buf.String(); got != want {
		t.Errorf("output %q, want %q", got, want)
	}
}

func TestCustomLogger(t *testing.T) {
	c := &countingLogger{}
	for i := 0; i < 5; i++ {
		Printf(c, "line %d", i)
	}
	if c.n != 5 {
		t.Errorf("%d lines, want 5", c.n)
	}
}
