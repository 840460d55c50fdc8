package lox

import (
	"bytes"
	"errors"
	"testing"

	"github.com/chidiwilliams/loxi/interpret"
	"github.com/chidiwilliams/loxi/report"
)

func newTestSession() (*Session, *bytes.Buffer, *bytes.Buffer) {
	var stdOut, stdErr bytes.Buffer
	return NewSession(&stdOut, report.NewStream(&stdErr), nil), &stdOut, &stdErr
}

func TestSession_Run(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		stdOut  string
		stdErr  string
		static  bool
		runtime bool
	}{
		{"program", "var a = 1;\nprint a + 1;", "2\n", "", false, false},
		{"syntax error runs nothing", "print 1;\nprint ;", "", "[line 2] Error at ';': Expect expression.\n", true, false},
		{"resolve error runs nothing", "print 1;\nprint this;",
			"", "[line 2] Error at 'this': Can't use 'this' outside of a class.\n", true, false},
		{"lexical error", "print 1;\n@", "", "[line 2] Error: Unexpected character.\n", true, false},
		{"runtime error stops the program", "print 1;\nprint a;\nprint 2;",
			"1\n", "Undefined variable 'a'.\n[line 2]\n", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, stdOut, stdErr := newTestSession()
			err := session.Run(tt.source)

			if stdOut.String() != tt.stdOut {
				t.Errorf("stdOut: got %q, expected %q", stdOut, tt.stdOut)
			}
			if stdErr.String() != tt.stdErr {
				t.Errorf("stdErr: got %q, expected %q", stdErr, tt.stdErr)
			}
			if got := session.Reporter().HadStaticError(); got != tt.static {
				t.Errorf("HadStaticError: got %v, expected %v", got, tt.static)
			}
			if got := session.Reporter().HadRuntimeError(); got != tt.runtime {
				t.Errorf("HadRuntimeError: got %v, expected %v", got, tt.runtime)
			}
			if tt.static && !errors.Is(err, ErrStatic) {
				t.Errorf("expected ErrStatic, got %v", err)
			}
			var runtimeErr *interpret.RuntimeError
			if tt.runtime != errors.As(err, &runtimeErr) {
				t.Errorf("unexpected error %v", err)
			}
		})
	}
}

func TestSession_RunLine(t *testing.T) {
	session, stdOut, stdErr := newTestSession()

	lines := []struct {
		line   string
		value  string
		ok     bool
		stdOut string
		stdErr string
	}{
		{"var a = 1;", "", false, "", ""},
		{"a + 1", "2", true, "", ""},
		{"print b;", "", false, "", "Undefined variable 'b'.\n[line 1]\n"},
		{"fun add(x) { return x + a; }", "", false, "", ""},
		{"add(2)", "3", true, "", ""},
		{"print ;", "", false, "", "[line 1] Error at ';': Expect expression.\n"},
		{"a = 5", "5", true, "", ""},
		{"print a;", "", false, "5\n", ""},
		{"1 +", "", false, "", "[line 1] Error at end: Expect expression.\n"},
		{"", "", false, "", ""},
		{"class Bagel {} Bagel()", "", false, "", "[line 1] Error at 'class': Expect expression.\n"},
		{"class Bagel {}", "", false, "", ""},
		{"Bagel()", "<instance Bagel>", true, "", ""},
	}

	for _, tt := range lines {
		stdOut.Reset()
		stdErr.Reset()

		value, ok := session.RunLine(tt.line)
		if ok != tt.ok {
			t.Fatalf("%q: ok got %v, expected %v (stderr %q)", tt.line, ok, tt.ok, stdErr)
		}
		if ok && value.String() != tt.value {
			t.Errorf("%q: value got %s, expected %s", tt.line, value, tt.value)
		}
		if stdOut.String() != tt.stdOut {
			t.Errorf("%q: stdOut got %q, expected %q", tt.line, stdOut, tt.stdOut)
		}
		if stdErr.String() != tt.stdErr {
			t.Errorf("%q: stdErr got %q, expected %q", tt.line, stdErr, tt.stdErr)
		}
	}
}

func TestSession_PrintAST(t *testing.T) {
	session, stdOut, _ := newTestSession()
	var tree bytes.Buffer
	session.PrintAST(&tree)

	if err := session.Run("print 1 + 2;"); err != nil {
		t.Fatal(err)
	}
	if tree.String() != "(print (+ 1 2))\n" {
		t.Errorf("got %q", tree.String())
	}
	if stdOut.String() != "3\n" {
		t.Errorf("got %q", stdOut.String())
	}
}
