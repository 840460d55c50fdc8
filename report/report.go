// Package report collects the diagnostics produced while scanning,
// parsing, resolving and running a program.
package report

import (
	"fmt"
	"io"

	"github.com/chidiwilliams/loxi/ast"
)

// Reporter receives static (lexical, syntax, resolution) and runtime
// errors. Both kinds set a sticky flag that stays on until Reset.
type Reporter interface {
	StaticError(line int, where string, message string)
	RuntimeError(token ast.Token, message string)
	HadStaticError() bool
	HadRuntimeError() bool
	Reset()
}

// Stream is a Reporter that writes human-readable diagnostics to a writer.
type Stream struct {
	w               io.Writer
	hadError        bool
	hadRuntimeError bool
}

// NewStream returns a Reporter writing to w
func NewStream(w io.Writer) *Stream {
	return &Stream{w: w}
}

func (s *Stream) StaticError(line int, where string, message string) {
	_, _ = fmt.Fprintf(s.w, "[line %d] Error%s: %s\n", line, where, message)
	s.hadError = true
}

func (s *Stream) RuntimeError(token ast.Token, message string) {
	_, _ = fmt.Fprintf(s.w, "%s\n[line %d]\n", message, token.Line)
	s.hadRuntimeError = true
}

func (s *Stream) HadStaticError() bool {
	return s.hadError
}

func (s *Stream) HadRuntimeError() bool {
	return s.hadRuntimeError
}

// Reset clears both error flags, e.g. before the next REPL line.
func (s *Stream) Reset() {
	s.hadError = false
	s.hadRuntimeError = false
}

// TokenError reports a static error located at token.
func TokenError(r Reporter, token ast.Token, message string) {
	if token.TokenType == ast.TokenEof {
		r.StaticError(token.Line, " at end", message)
	} else {
		r.StaticError(token.Line, " at '"+token.Lexeme+"'", message)
	}
}
