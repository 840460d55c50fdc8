package parse

import (
	"bytes"
	"strings"
	"testing"

	"github.com/chidiwilliams/loxi/ast"
	"github.com/chidiwilliams/loxi/report"
	"github.com/chidiwilliams/loxi/scan"
)

func parseSource(t *testing.T, source string) ([]ast.Stmt, bool, string) {
	t.Helper()
	var stdErr bytes.Buffer
	reporter := report.NewStream(&stdErr)
	tokens := scan.NewScanner(source, reporter).ScanTokens()
	statements, hadError := NewParser(tokens, reporter).Parse()
	return statements, hadError, stdErr.String()
}

func printAll(statements []ast.Stmt) string {
	printed := make([]string, len(statements))
	for i, stmt := range statements {
		printed[i] = ast.Print(stmt)
	}
	return strings.Join(printed, " ")
}

func TestParser_Parse(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"precedence", "print 1 + 2 * 3 - 4 / -5;", "(print (- (+ 1 (* 2 3)) (/ 4 (- 5))))"},
		{"grouping", "print (1 + 2) * 3;", "(print (* (group (+ 1 2)) 3))"},
		{"logical", "print a or b and !c;", "(print (or a (and b (! c))))"},
		{"comparison and equality", "print 1 < 2 == 3 >= 4;", "(print (== (< 1 2) (>= 3 4)))"},
		{"right-associative assignment", "a = b = 1;", "(; (= a (= b 1)))"},
		{"property set", "a.b.c = 3;", "(; (set c (. b a) 3))"},
		{"calls chain", "f(1)(2).g();", "(; (call (. g (call (call f 1) 2))))"},
		{"var without initializer", "var a;", "(var a)"},
		{"function declaration", "fun add(a, b) { return a + b; }", "(var add (fun add (a b) (block (return (+ a b)))))"},
		{"function literal", "var f = fun (x) { print x; };", "(var f (fun (x) (block (print x))))"},
		{"if else binds to nearest if", "if (a) if (b) print 1; else print 2;",
			"(if a (block (if b (block (print 1)) (block (print 2)))))"},
		{"while", "while (a) { a = a - 1; }", "(while a (block (; (= a (- a 1)))))"},
		{"for with all clauses", "for (var i = 0; i < 3; i = i + 1) print i;",
			"(for (var i 0) (< i 3) (= i (+ i 1)) (block (print i)))"},
		{"for with no clauses", "for (;;) break;", "(for () true () (block (break)))"},
		{"continue in loop", "while (true) { continue; }", "(while true (block (continue)))"},
		{"class", "class B < A { init(x) { this.x = x; } class make() { return B(1); } area { return super.area; } }",
			"(class B < A (method init (x) (block (; (set x this x)))) (class make () (block (return (call B 1)))) (getter area () (block (return (super area)))))"},
		{"nil literal and strings", "print nil == \"nil\";", "(print (== nil \"nil\"))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statements, hadError, stdErr := parseSource(t, tt.source)
			if hadError {
				t.Fatalf("unexpected parse error: %s", stdErr)
			}
			if got := printAll(statements); got != tt.want {
				t.Errorf("got %s, expected %s", got, tt.want)
			}
		})
	}
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		stdErr string
		// statements that survive error recovery
		want string
	}{
		{
			"missing semicolon",
			"print 1\nprint 2;",
			"[line 2] Error at 'print': Expect ';' after value.\n",
			"",
		},
		{
			"multiple errors in one pass",
			"var = 1;\nprint 2;\nprint (3;",
			"[line 1] Error at '=': Expect variable name.\n[line 3] Error at ';': Expect ')' after expression.\n",
			"(print 2)",
		},
		{
			"invalid assignment target",
			"1 + a = 3;",
			"[line 1] Error at '=': Invalid assignment target.\n",
			"(; (+ 1 a))",
		},
		{
			"break outside loop",
			"break;",
			"[line 1] Error at 'break': Can't use 'break' outside of a loop.\n",
			"(break)",
		},
		{
			"continue inside function inside loop",
			"while (true) { fun f() { continue; } }",
			"[line 1] Error at 'continue': Can't use 'continue' outside of a loop.\n",
			"(while true (block (var f (fun f () (block (continue))))))",
		},
		{
			"return at top level",
			"return 1;",
			"[line 1] Error at 'return': Can't return from top-level code.\n",
			"(return 1)",
		},
		{
			"declaration as unbraced body",
			"if (true) var a = 1;",
			"[line 1] Error at 'var': Can't declare a name in the body of 'if' without braces.\n",
			"(if true (block (var a 1)))",
		},
		{
			"unterminated block",
			"{ print 1;",
			"[line 1] Error at end: Expect '}' after block.\n",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statements, hadError, stdErr := parseSource(t, tt.source)
			if !hadError {
				t.Fatalf("expected a parse error")
			}
			if stdErr != tt.stdErr {
				t.Errorf("stdErr: got %q, expected %q", stdErr, tt.stdErr)
			}
			if got := printAll(statements); got != tt.want {
				t.Errorf("statements: got %s, expected %s", got, tt.want)
			}
		})
	}
}

func TestParser_TooManyArguments(t *testing.T) {
	args := make([]string, 256)
	for i := range args {
		args[i] = "1"
	}
	_, hadError, stdErr := parseSource(t, "f("+strings.Join(args, ", ")+");")
	if !hadError {
		t.Fatalf("expected a parse error")
	}
	if stdErr != "[line 1] Error at '1': Can't have more than 255 arguments.\n" {
		t.Errorf("got %q", stdErr)
	}
}

func TestParser_ParseExpression(t *testing.T) {
	var stdErr bytes.Buffer
	reporter := report.NewStream(&stdErr)

	tokens := scan.NewScanner("1 + 2 * x", reporter).ScanTokens()
	expr, hadError := NewParser(tokens, reporter).ParseExpression()
	if hadError {
		t.Fatalf("unexpected error: %s", stdErr.String())
	}
	if got := ast.Print(expr); got != "(+ 1 (* 2 x))" {
		t.Errorf("got %s", got)
	}

	tokens = scan.NewScanner("1 + 2;", reporter).ScanTokens()
	if _, hadError = NewParser(tokens, reporter).ParseExpression(); !hadError {
		t.Errorf("expected an error for trailing tokens")
	}
}
