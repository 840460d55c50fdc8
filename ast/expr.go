package ast

// Expr is an expression node. The set of expressions is closed: only the
// types in this file implement it. Nodes are always handled by pointer so
// that a node's identity can key the interpreter's resolution table.
type Expr interface {
	exprNode()
}

type AssignExpr struct {
	Name  Token
	Value Expr
}

type BinaryExpr struct {
	Left     Expr
	Operator Token
	Right    Expr
}

type CallExpr struct {
	Callee    Expr
	Paren     Token
	Arguments []Expr
}

// FunctionExpr is a function literal. Name is set when the literal comes
// from a function declaration or a method and is only used for display.
type FunctionExpr struct {
	Name   *Token
	Params []Token
	Body   *BlockStmt
}

type GetExpr struct {
	Object Expr
	Name   Token
}

type GroupingExpr struct {
	Expression Expr
}

// LiteralExpr holds nil, a bool, a float64 or a string.
type LiteralExpr struct {
	Value interface{}
}

type LogicalExpr struct {
	Left     Expr
	Operator Token
	Right    Expr
}

type SetExpr struct {
	Object Expr
	Name   Token
	Value  Expr
}

type SuperExpr struct {
	Keyword Token
	Method  Token
}

type ThisExpr struct {
	Keyword Token
}

type UnaryExpr struct {
	Operator Token
	Right    Expr
}

type VariableExpr struct {
	Name Token
}

func (*AssignExpr) exprNode()   {}
func (*BinaryExpr) exprNode()   {}
func (*CallExpr) exprNode()     {}
func (*FunctionExpr) exprNode() {}
func (*GetExpr) exprNode()      {}
func (*GroupingExpr) exprNode() {}
func (*LiteralExpr) exprNode()  {}
func (*LogicalExpr) exprNode()  {}
func (*SetExpr) exprNode()      {}
func (*SuperExpr) exprNode()    {}
func (*ThisExpr) exprNode()     {}
func (*UnaryExpr) exprNode()    {}
func (*VariableExpr) exprNode() {}
