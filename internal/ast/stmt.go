package ast

// Stmt represents a top-level statement.
type Stmt interface {
	Accept(visitor StmtVisitor) interface{}
	Position() Pos
}

// PrintStmt wraps an expression to print.
type PrintStmt struct {
	Pos
	Expr Expr
}

func (p *PrintStmt) Accept(visitor StmtVisitor) interface{} { return visitor.VisitPrintStmt(p) }
func (p *PrintStmt) Position() Pos                          { return p.Pos }

// LetStmt: let x = expr
type LetStmt struct {
	Pos
	Name string
	Expr Expr
}

func (l *LetStmt) Accept(visitor StmtVisitor) interface{} { return visitor.VisitLetStmt(l) }
func (l *LetStmt) Position() Pos                          { return l.Pos }

// AssignmentStmt: x = expr
type AssignmentStmt struct {
	Pos
	Name  string
	Value Expr
}

func (a *AssignmentStmt) Accept(visitor StmtVisitor) interface{} {
	return visitor.VisitAssignmentStmt(a)
}
func (a *AssignmentStmt) Position() Pos { return a.Pos }

// IndexAssignmentStmt: array[index] = expr
type IndexAssignmentStmt struct {
	Pos
	Object Expr
	Index  Expr
	Value  Expr
}

func (i *IndexAssignmentStmt) Accept(visitor StmtVisitor) interface{} {
	return visitor.VisitIndexAssignmentStmt(i)
}
func (i *IndexAssignmentStmt) Position() Pos { return i.Pos }

// PropertyAssignmentStmt: object.property = expr
type PropertyAssignmentStmt struct {
	Pos
	Object   Expr
	Property string
	Value    Expr
}

func (p *PropertyAssignmentStmt) Accept(visitor StmtVisitor) interface{} {
	return visitor.VisitPropertyAssignmentStmt(p)
}
func (p *PropertyAssignmentStmt) Position() Pos { return p.Pos }

// ExpressionStmt wraps a raw expression as a statement.
type ExpressionStmt struct {
	Pos
	Expr Expr
}

func (e *ExpressionStmt) Accept(visitor StmtVisitor) interface{} {
	return visitor.VisitExpressionStmt(e)
}
func (e *ExpressionStmt) Position() Pos { return e.Pos }

// FunctionStmt represents a function declaration.
type FunctionStmt struct {
	Pos
	Name   string
	Params []string
	Body   []Stmt
}

func (f *FunctionStmt) Accept(visitor StmtVisitor) interface{} { return visitor.VisitFunctionStmt(f) }
func (f *FunctionStmt) Position() Pos                          { return f.Pos }

// ReturnStmt represents a return statement.
type ReturnStmt struct {
	Pos
	Value Expr
}

func (r *ReturnStmt) Accept(visitor StmtVisitor) interface{} { return visitor.VisitReturnStmt(r) }
func (r *ReturnStmt) Position() Pos                          { return r.Pos }

// IfStmt represents an if statement.
type IfStmt struct {
	Pos
	Condition Expr
	Then      []Stmt
	Else      []Stmt
}

func (i *IfStmt) Accept(visitor StmtVisitor) interface{} { return visitor.VisitIfStmt(i) }
func (i *IfStmt) Position() Pos                          { return i.Pos }

// WhileStmt represents a while loop.
type WhileStmt struct {
	Pos
	Condition Expr
	Body      []Stmt
}

func (w *WhileStmt) Accept(visitor StmtVisitor) interface{} { return visitor.VisitWhileStmt(w) }
func (w *WhileStmt) Position() Pos                          { return w.Pos }

// ForStmt represents a C-style for loop.
type ForStmt struct {
	Pos
	Init      Stmt // optional
	Condition Expr // optional
	Update    Expr // optional
	Body      []Stmt
}

func (f *ForStmt) Accept(visitor StmtVisitor) interface{} { return visitor.VisitForStmt(f) }
func (f *ForStmt) Position() Pos                          { return f.Pos }

// ForInStmt iterates a collection via the iterator protocol (spec §4.5).
type ForInStmt struct {
	Pos
	Variable   string
	Collection Expr
	Body       []Stmt
}

func (f *ForInStmt) Accept(visitor StmtVisitor) interface{} { return visitor.VisitForInStmt(f) }
func (f *ForInStmt) Position() Pos                          { return f.Pos }

// BreakStmt represents a break statement.
type BreakStmt struct{ Pos }

func (b *BreakStmt) Accept(visitor StmtVisitor) interface{} { return visitor.VisitBreakStmt(b) }
func (b *BreakStmt) Position() Pos                          { return b.Pos }

// ContinueStmt represents a continue statement.
type ContinueStmt struct{ Pos }

func (c *ContinueStmt) Accept(visitor StmtVisitor) interface{} { return visitor.VisitContinueStmt(c) }
func (c *ContinueStmt) Position() Pos                          { return c.Pos }

// ImportStmt is retained as a node kind (a complete AST can represent a
// superset of what the compiler lowers) but is not lowered by the
// compiler: no module system is part of this implementation.
type ImportStmt struct {
	Pos
	Path  string
	Alias string
}

func (i *ImportStmt) Accept(visitor StmtVisitor) interface{} { return visitor.VisitImportStmt(i) }
func (i *ImportStmt) Position() Pos                          { return i.Pos }

// ExportStmt, likewise retained but not lowered.
type ExportStmt struct {
	Pos
	Name string
	Stmt Stmt
}

func (e *ExportStmt) Accept(visitor StmtVisitor) interface{} { return visitor.VisitExportStmt(e) }
func (e *ExportStmt) Position() Pos                          { return e.Pos }

// ClassStmt represents a class declaration: name, optional superclass,
// methods, and declared instance fields (spec §3.4's prototype model).
type ClassStmt struct {
	Pos
	Name       string
	Superclass string
	Methods    []*FunctionStmt
	Fields     []string
}

func (c *ClassStmt) Accept(visitor StmtVisitor) interface{} { return visitor.VisitClassStmt(c) }
func (c *ClassStmt) Position() Pos                          { return c.Pos }

// TryStmt is retained as a node kind but the compiler raises a
// CompileError on it: catch/throw is a non-goal.
type TryStmt struct {
	Pos
	TryBlock     []Stmt
	CatchVar     string
	CatchBlock   []Stmt
	FinallyBlock []Stmt
}

func (t *TryStmt) Accept(visitor StmtVisitor) interface{} { return visitor.VisitTryStmt(t) }
func (t *TryStmt) Position() Pos                          { return t.Pos }

// ThrowStmt is retained as a node kind but not lowered, for the same
// reason as TryStmt.
type ThrowStmt struct {
	Pos
	Value Expr
}

func (t *ThrowStmt) Accept(visitor StmtVisitor) interface{} { return visitor.VisitThrowStmt(t) }
func (t *ThrowStmt) Position() Pos                          { return t.Pos }

// MatchStmt is retained as a node kind but not lowered: pattern matching
// was never part of the opcode set.
type MatchStmt struct {
	Pos
	Value Expr
	Cases []MatchCase
}

type MatchCase struct {
	Pattern Expr
	Body    []Stmt
}

func (m *MatchStmt) Accept(visitor StmtVisitor) interface{} { return visitor.VisitMatchStmt(m) }
func (m *MatchStmt) Position() Pos                          { return m.Pos }

// StmtVisitor handles all statement types.
type StmtVisitor interface {
	VisitPrintStmt(stmt *PrintStmt) interface{}
	VisitLetStmt(stmt *LetStmt) interface{}
	VisitAssignmentStmt(stmt *AssignmentStmt) interface{}
	VisitIndexAssignmentStmt(stmt *IndexAssignmentStmt) interface{}
	VisitPropertyAssignmentStmt(stmt *PropertyAssignmentStmt) interface{}
	VisitExpressionStmt(stmt *ExpressionStmt) interface{}
	VisitFunctionStmt(stmt *FunctionStmt) interface{}
	VisitReturnStmt(stmt *ReturnStmt) interface{}
	VisitIfStmt(stmt *IfStmt) interface{}
	VisitWhileStmt(stmt *WhileStmt) interface{}
	VisitForStmt(stmt *ForStmt) interface{}
	VisitForInStmt(stmt *ForInStmt) interface{}
	VisitBreakStmt(stmt *BreakStmt) interface{}
	VisitContinueStmt(stmt *ContinueStmt) interface{}
	VisitImportStmt(stmt *ImportStmt) interface{}
	VisitExportStmt(stmt *ExportStmt) interface{}
	VisitClassStmt(stmt *ClassStmt) interface{}
	VisitTryStmt(stmt *TryStmt) interface{}
	VisitThrowStmt(stmt *ThrowStmt) interface{}
	VisitMatchStmt(stmt *MatchStmt) interface{}
}
