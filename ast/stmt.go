package ast

// Stmt is a statement node. Like Expr, the set is closed and nodes are
// handled by pointer.
type Stmt interface {
	stmtNode()
}

type BlockStmt struct {
	Statements []Stmt
	hasDecl    bool
}

// NewBlock returns a block of statements, noting whether any of them
// declares a name directly in the block.
func NewBlock(statements []Stmt) *BlockStmt {
	b := &BlockStmt{Statements: statements}
	for _, stmt := range statements {
		switch stmt.(type) {
		case *VarStmt, *ClassStmt:
			b.hasDecl = true
		}
		if b.hasDecl {
			break
		}
	}
	return b
}

// HasDeclarations reports whether the block directly contains a variable,
// function or class declaration.
func (b *BlockStmt) HasDeclarations() bool {
	return b.hasDecl
}

type BreakStmt struct {
	Keyword Token
}

// MethodKind is the category of a method declared in a class body.
type MethodKind uint8

const (
	MethodInstance MethodKind = iota
	MethodClass
	MethodGetter
)

func (k MethodKind) String() string {
	switch k {
	case MethodClass:
		return "class"
	case MethodGetter:
		return "getter"
	default:
		return "method"
	}
}

type Method struct {
	Name     Token
	Function *FunctionExpr
	Kind     MethodKind
}

type ClassStmt struct {
	Name       Token
	Superclass *VariableExpr
	Methods    []Method
}

type ContinueStmt struct {
	Keyword Token
}

type ExpressionStmt struct {
	Expr Expr
}

// ForStmt is a C-style for loop. Initializer and Increment may be nil;
// the parser fills in a true literal for a missing Condition.
type ForStmt struct {
	Initializer Stmt
	Condition   Expr
	Increment   Expr
	Body        *BlockStmt
}

type IfStmt struct {
	Condition  Expr
	ThenBranch Stmt
	ElseBranch Stmt
}

type PrintStmt struct {
	Expr Expr
}

type ReturnStmt struct {
	Keyword Token
	Value   Expr
}

// VarStmt declares a variable. Function declarations are parsed into a
// VarStmt whose Initializer is a *FunctionExpr.
type VarStmt struct {
	Name        Token
	Initializer Expr
}

type WhileStmt struct {
	Condition Expr
	Body      *BlockStmt
}

func (*BlockStmt) stmtNode()      {}
func (*BreakStmt) stmtNode()      {}
func (*ClassStmt) stmtNode()      {}
func (*ContinueStmt) stmtNode()   {}
func (*ExpressionStmt) stmtNode() {}
func (*ForStmt) stmtNode()        {}
func (*IfStmt) stmtNode()         {}
func (*PrintStmt) stmtNode()      {}
func (*ReturnStmt) stmtNode()     {}
func (*VarStmt) stmtNode()        {}
func (*WhileStmt) stmtNode()      {}
