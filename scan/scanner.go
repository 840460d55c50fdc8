package scan

import (
	"strconv"

	"github.com/chidiwilliams/loxi/ast"
	"github.com/chidiwilliams/loxi/report"
)

// Scanner converts a source text
// into a slice of ast.Token-s
type Scanner struct {
	start    int
	current  int
	line     int
	source   string
	tokens   []ast.Token
	reporter report.Reporter
}

// NewScanner returns a new Scanner. Lexical errors are
// sent to reporter and do not stop the scan.
func NewScanner(source string, reporter report.Reporter) *Scanner {
	return &Scanner{source: source, line: 1, reporter: reporter}
}

// ScanTokens returns a slice of tokens representing the source text
func (s *Scanner) ScanTokens() []ast.Token {
	for !s.isAtEnd() {
		// we're at the beginning of the next lexeme
		s.start = s.current
		s.scanToken()
	}

	s.tokens = append(s.tokens, ast.Token{TokenType: ast.TokenEof, Line: s.line})
	return s.tokens
}

func (s *Scanner) scanToken() {
	char := s.advance()
	switch char {
	case '(':
		s.addToken(ast.TokenLeftParen)
	case ')':
		s.addToken(ast.TokenRightParen)
	case '{':
		s.addToken(ast.TokenLeftBrace)
	case '}':
		s.addToken(ast.TokenRightBrace)
	case ',':
		s.addToken(ast.TokenComma)
	case '.':
		s.addToken(ast.TokenDot)
	case '-':
		s.addToken(ast.TokenMinus)
	case '+':
		s.addToken(ast.TokenPlus)
	case ';':
		s.addToken(ast.TokenSemicolon)
	case '*':
		s.addToken(ast.TokenStar)

	// with look-ahead
	case '!':
		s.addToken(s.either('=', ast.TokenBangEqual, ast.TokenBang))
	case '=':
		s.addToken(s.either('=', ast.TokenEqualEqual, ast.TokenEqual))
	case '<':
		s.addToken(s.either('=', ast.TokenLessEqual, ast.TokenLess))
	case '>':
		s.addToken(s.either('=', ast.TokenGreaterEqual, ast.TokenGreater))
	case '/':
		if s.match('/') {
			for s.peek() != '\n' && !s.isAtEnd() {
				s.advance()
			}
		} else {
			s.addToken(ast.TokenSlash)
		}

	// whitespace
	case ' ', '\r', '\t':
	case '\n':
		s.line++

	case '"':
		s.string()

	default:
		if isDigit(char) {
			s.number()
		} else if isAlpha(char) {
			s.identifier()
		} else {
			s.reporter.StaticError(s.line, "", "Unexpected character.")
		}
	}
}

// either consumes expected and returns matched if the next
// character is expected. Otherwise, it returns otherwise.
func (s *Scanner) either(expected byte, matched, otherwise ast.TokenType) ast.TokenType {
	if s.match(expected) {
		return matched
	}
	return otherwise
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

func (s *Scanner) advance() byte {
	curr := s.source[s.current]
	s.current++
	return curr
}

func (s *Scanner) addToken(tokenType ast.TokenType) {
	s.addTokenWithLiteral(tokenType, nil)
}

func (s *Scanner) addTokenWithLiteral(tokenType ast.TokenType, literal interface{}) {
	text := s.source[s.start:s.current]
	token := ast.Token{TokenType: tokenType, Lexeme: text, Literal: literal, Line: s.line}
	s.tokens = append(s.tokens, token)
}

func (s *Scanner) match(expected byte) bool {
	if s.isAtEnd() {
		return false
	}

	if s.source[s.current] != expected {
		return false
	}

	s.current++
	return true
}

// string scans a string literal. Strings may span lines; an
// unterminated string is reported at the line where it started.
func (s *Scanner) string() {
	startLine := s.line
	for s.peek() != '"' && !s.isAtEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}

	if s.isAtEnd() {
		s.reporter.StaticError(startLine, "", "Unterminated string.")
		return
	}

	s.advance() // the closing "

	value := s.source[s.start+1 : s.current-1]
	token := ast.Token{TokenType: ast.TokenString, Lexeme: s.source[s.start:s.current], Literal: value, Line: startLine}
	s.tokens = append(s.tokens, token)
}

func (s *Scanner) number() {
	for isDigit(s.peek()) {
		s.advance()
	}

	// look for a fractional part
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}

	val, _ := strconv.ParseFloat(s.source[s.start:s.current], 64)
	s.addTokenWithLiteral(ast.TokenNumber, val)
}

func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return '\000'
	}
	return s.source[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.source) {
		return '\000'
	}
	return s.source[s.current+1]
}

var keywords = map[string]ast.TokenType{
	"and":      ast.TokenAnd,
	"class":    ast.TokenClass,
	"else":     ast.TokenElse,
	"false":    ast.TokenFalse,
	"for":      ast.TokenFor,
	"fun":      ast.TokenFun,
	"if":       ast.TokenIf,
	"nil":      ast.TokenNil,
	"or":       ast.TokenOr,
	"print":    ast.TokenPrint,
	"return":   ast.TokenReturn,
	"super":    ast.TokenSuper,
	"this":     ast.TokenThis,
	"true":     ast.TokenTrue,
	"var":      ast.TokenVar,
	"while":    ast.TokenWhile,
	"break":    ast.TokenBreak,
	"continue": ast.TokenContinue,
}

func (s *Scanner) identifier() {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}

	text := s.source[s.start:s.current]
	tokenType, found := keywords[text]
	if !found {
		tokenType = ast.TokenIdentifier
	}
	s.addToken(tokenType)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
