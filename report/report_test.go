package report

import (
	"bytes"
	"testing"

	"github.com/chidiwilliams/loxi/ast"
)

func TestStream(t *testing.T) {
	tests := []struct {
		name    string
		report  func(r Reporter)
		want    string
		static  bool
		runtime bool
	}{
		{
			"line error",
			func(r Reporter) { r.StaticError(3, "", "Unexpected character.") },
			"[line 3] Error: Unexpected character.\n", true, false,
		},
		{
			"token error",
			func(r Reporter) {
				TokenError(r, ast.Token{TokenType: ast.TokenIdentifier, Lexeme: "foo", Line: 2}, "Expect ';' after value.")
			},
			"[line 2] Error at 'foo': Expect ';' after value.\n", true, false,
		},
		{
			"token error at end",
			func(r Reporter) { TokenError(r, ast.Token{TokenType: ast.TokenEof, Line: 7}, "Expect expression.") },
			"[line 7] Error at end: Expect expression.\n", true, false,
		},
		{
			"runtime error",
			func(r Reporter) { r.RuntimeError(ast.Token{Lexeme: "-", Line: 4}, "Operand must be a number.") },
			"Operand must be a number.\n[line 4]\n", false, true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			s := NewStream(&buf)
			tt.report(s)

			if buf.String() != tt.want {
				t.Errorf("output: got %q, expected %q", buf.String(), tt.want)
			}
			if s.HadStaticError() != tt.static {
				t.Errorf("HadStaticError: got %v, expected %v", s.HadStaticError(), tt.static)
			}
			if s.HadRuntimeError() != tt.runtime {
				t.Errorf("HadRuntimeError: got %v, expected %v", s.HadRuntimeError(), tt.runtime)
			}

			s.Reset()
			if s.HadStaticError() || s.HadRuntimeError() {
				t.Errorf("flags still set after Reset")
			}
		})
	}
}
