package parser

import "fmt"

// MalformedLineError reports a line that does not carry the fields a parser needs.
// It is recoverable: callers skip the line and continue.
type MalformedLineError struct {
	Source string
	Number int
	Tokens int // tokens found; 0 when the parser is pattern based
	Reason string
	Raw    string
}

func (e *MalformedLineError) Error() string {
	loc := e.Source
	if loc == "" {
		loc = "<input>"
	}
	return fmt.Sprintf("malformed line %s:%d: %s", loc, e.Number, e.Reason)
}
