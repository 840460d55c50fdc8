// Package lox ties the scanner, parser, resolver and interpreter
// together into a session that runs whole programs or REPL lines.
package lox

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/chidiwilliams/loxi/ast"
	"github.com/chidiwilliams/loxi/interpret"
	"github.com/chidiwilliams/loxi/parse"
	"github.com/chidiwilliams/loxi/report"
	"github.com/chidiwilliams/loxi/resolve"
	"github.com/chidiwilliams/loxi/scan"
)

// ErrStatic is returned when code is not run because of a static error.
// The error itself has already been reported.
var ErrStatic = errors.New("lox: static error")

// Session runs code against one interpreter, so definitions
// persist from one call to the next
type Session struct {
	interpreter *interpret.Interpreter
	reporter    report.Reporter
	logger      *slog.Logger
	astOut      io.Writer
}

// NewSession returns a session printing program output to stdOut
// and diagnostics to reporter. logger may be nil.
func NewSession(stdOut io.Writer, reporter report.Reporter, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{
		interpreter: interpret.NewInterpreter(stdOut),
		reporter:    reporter,
		logger:      logger,
	}
}

// PrintAST makes the session write the syntax tree of every
// parsed statement or expression to w before running it
func (s *Session) PrintAST(w io.Writer) {
	s.astOut = w
}

// Reporter returns the session's diagnostic sink
func (s *Session) Reporter() report.Reporter {
	return s.reporter
}

// ResolveAndInterpret resolves program and, if that succeeds, executes it.
// A runtime error is reported and returned.
func (s *Session) ResolveAndInterpret(program []ast.Stmt) error {
	start := time.Now()
	if hadError := resolve.NewResolver(s.interpreter, s.reporter).ResolveStmts(program); hadError {
		return ErrStatic
	}
	s.logger.Debug("resolved", slog.Int("statements", len(program)), slog.Duration("elapsed", time.Since(start)))

	start = time.Now()
	err := s.interpreter.Interpret(program)
	s.logger.Debug("interpreted", slog.Duration("elapsed", time.Since(start)), slog.Bool("failed", err != nil))
	return s.reportRuntime(err)
}

// EvaluateExpression resolves and evaluates a single expression
func (s *Session) EvaluateExpression(expr ast.Expr) (interpret.Value, error) {
	if hadError := resolve.NewResolver(s.interpreter, s.reporter).ResolveExpr(expr); hadError {
		return nil, ErrStatic
	}
	value, err := s.interpreter.Evaluate(expr)
	if err != nil {
		return nil, s.reportRuntime(err)
	}
	return value, nil
}

// Run scans, parses, resolves and executes a whole program
func (s *Session) Run(source string) error {
	start := time.Now()
	tokens := scan.NewScanner(source, s.reporter).ScanTokens()
	s.logger.Debug("scanned", slog.Int("tokens", len(tokens)), slog.Duration("elapsed", time.Since(start)))

	start = time.Now()
	statements, _ := parse.NewParser(tokens, s.reporter).Parse()
	s.logger.Debug("parsed", slog.Int("statements", len(statements)), slog.Duration("elapsed", time.Since(start)))
	if s.reporter.HadStaticError() {
		return ErrStatic
	}

	s.printStmts(statements)
	return s.ResolveAndInterpret(statements)
}

// RunLine runs one line of REPL input. Errors from earlier lines are
// forgotten first. A line that doesn't end with ';' or '}' is read as an
// expression, and its value is returned with ok set to true.
func (s *Session) RunLine(line string) (value interpret.Value, ok bool) {
	s.reporter.Reset()

	tokens := scan.NewScanner(line, s.reporter).ScanTokens()
	if s.reporter.HadStaticError() || len(tokens) < 2 {
		return nil, false
	}

	parser := parse.NewParser(tokens, s.reporter)
	if last := tokens[len(tokens)-2].TokenType; last != ast.TokenSemicolon && last != ast.TokenRightBrace {
		expr, hadError := parser.ParseExpression()
		if hadError {
			return nil, false
		}
		s.print(expr)
		value, err := s.EvaluateExpression(expr)
		return value, err == nil
	}

	statements, hadError := parser.Parse()
	if hadError {
		return nil, false
	}
	s.printStmts(statements)
	_ = s.ResolveAndInterpret(statements)
	return nil, false
}

func (s *Session) reportRuntime(err error) error {
	var runtimeErr *interpret.RuntimeError
	if errors.As(err, &runtimeErr) {
		s.reporter.RuntimeError(runtimeErr.Token, runtimeErr.Message)
	}
	return err
}

func (s *Session) printStmts(statements []ast.Stmt) {
	for _, statement := range statements {
		s.print(statement)
	}
}

func (s *Session) print(node interface{}) {
	if s.astOut != nil {
		_, _ = fmt.Fprintln(s.astOut, ast.Print(node))
	}
}
