// Package xlog provides the Logger interface used for trace output of
// the code-block coders.
//
// Any *log.Logger satisfies Logger. Printf accepts a nil Logger and does
// nothing in that case, before any formatting happens, so trace calls
// cost a nil check when logging is off.
package xlog

import "fmt"

// Logger is the interface a log sink must support.
type Logger interface {
	Output(calldepth int, s string) error
}

// Printf formats its arguments like fmt.Sprintf and writes them to l.
func Printf(l Logger, format string, v ...interface{}) {
	if l != nil {
		l.Output(2, fmt.Sprintf(format, v...))
	}
}
