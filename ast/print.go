package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Print returns a parenthesized representation of an expression or
// statement node. It is meant for debugging the parser.
func Print(node interface{}) string {
	var p printer
	switch n := node.(type) {
	case Expr:
		p.expr(n)
	case Stmt:
		p.stmt(n)
	default:
		return fmt.Sprintf("<unknown node %T>", node)
	}
	return p.String()
}

type printer struct {
	strings.Builder
}

func (p *printer) expr(expr Expr) {
	switch e := expr.(type) {
	case *AssignExpr:
		p.parenthesize("= "+e.Name.Lexeme, e.Value)
	case *BinaryExpr:
		p.parenthesize(e.Operator.Lexeme, e.Left, e.Right)
	case *CallExpr:
		p.parenthesize("call", append([]Expr{e.Callee}, e.Arguments...)...)
	case *FunctionExpr:
		p.function("fun", e)
	case *GetExpr:
		p.parenthesize(". "+e.Name.Lexeme, e.Object)
	case *GroupingExpr:
		p.parenthesize("group", e.Expression)
	case *LiteralExpr:
		p.literal(e.Value)
	case *LogicalExpr:
		p.parenthesize(e.Operator.Lexeme, e.Left, e.Right)
	case *SetExpr:
		p.parenthesize("set "+e.Name.Lexeme, e.Object, e.Value)
	case *SuperExpr:
		p.WriteString("(super " + e.Method.Lexeme + ")")
	case *ThisExpr:
		p.WriteString(e.Keyword.Lexeme)
	case *UnaryExpr:
		p.parenthesize(e.Operator.Lexeme, e.Right)
	case *VariableExpr:
		p.WriteString(e.Name.Lexeme)
	case nil:
		p.WriteString("<nil>")
	}
}

func (p *printer) stmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *BlockStmt:
		p.WriteString("(block")
		for _, inner := range s.Statements {
			p.WriteByte(' ')
			p.stmt(inner)
		}
		p.WriteByte(')')
	case *BreakStmt:
		p.WriteString("(break)")
	case *ClassStmt:
		p.WriteString("(class " + s.Name.Lexeme)
		if s.Superclass != nil {
			p.WriteString(" < " + s.Superclass.Name.Lexeme)
		}
		for _, method := range s.Methods {
			p.WriteByte(' ')
			p.function(method.Kind.String(), method.Function)
		}
		p.WriteByte(')')
	case *ContinueStmt:
		p.WriteString("(continue)")
	case *ExpressionStmt:
		p.parenthesize(";", s.Expr)
	case *ForStmt:
		p.WriteString("(for ")
		if s.Initializer != nil {
			p.stmt(s.Initializer)
		} else {
			p.WriteString("()")
		}
		p.WriteByte(' ')
		p.expr(s.Condition)
		p.WriteByte(' ')
		if s.Increment != nil {
			p.expr(s.Increment)
		} else {
			p.WriteString("()")
		}
		p.WriteByte(' ')
		p.stmt(s.Body)
		p.WriteByte(')')
	case *IfStmt:
		p.WriteString("(if ")
		p.expr(s.Condition)
		p.WriteByte(' ')
		p.stmt(s.ThenBranch)
		if s.ElseBranch != nil {
			p.WriteByte(' ')
			p.stmt(s.ElseBranch)
		}
		p.WriteByte(')')
	case *PrintStmt:
		p.parenthesize("print", s.Expr)
	case *ReturnStmt:
		if s.Value == nil {
			p.WriteString("(return)")
		} else {
			p.parenthesize("return", s.Value)
		}
	case *VarStmt:
		if s.Initializer == nil {
			p.WriteString("(var " + s.Name.Lexeme + ")")
		} else {
			p.parenthesize("var "+s.Name.Lexeme, s.Initializer)
		}
	case *WhileStmt:
		p.WriteString("(while ")
		p.expr(s.Condition)
		p.WriteByte(' ')
		p.stmt(s.Body)
		p.WriteByte(')')
	}
}

func (p *printer) function(kind string, fn *FunctionExpr) {
	p.WriteString("(" + kind)
	if fn.Name != nil {
		p.WriteString(" " + fn.Name.Lexeme)
	}
	p.WriteString(" (")
	for i, param := range fn.Params {
		if i > 0 {
			p.WriteByte(' ')
		}
		p.WriteString(param.Lexeme)
	}
	p.WriteString(") ")
	p.stmt(fn.Body)
	p.WriteByte(')')
}

func (p *printer) literal(value interface{}) {
	switch v := value.(type) {
	case nil:
		p.WriteString("nil")
	case string:
		p.WriteString(strconv.Quote(v))
	case float64:
		p.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	default:
		p.WriteString(fmt.Sprint(v))
	}
}

func (p *printer) parenthesize(name string, exprs ...Expr) {
	p.WriteString("(" + name)
	for _, expr := range exprs {
		p.WriteByte(' ')
		p.expr(expr)
	}
	p.WriteByte(')')
}
