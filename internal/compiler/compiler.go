// Package compiler lowers an internal/ast tree to internal/bytecode
// instructions plus a internal/value.Function constant pool, per spec
// §4.4. It generalizes the teacher's split Compiler (expression-only)/
// StmtCompiler (statement-only, with most visitors stubbed to nil) into
// one Compiler type that implements both ast.ExprVisitor and
// ast.StmtVisitor, the way a single-pass tree-walking lowering pass
// naturally wants to be structured.
package compiler

import (
	"math/big"

	"slate/internal/ast"
	"slate/internal/bytecode"
	"slate/internal/container"
	"slate/internal/errors"
	"slate/internal/value"
)

type local struct {
	name  string
	depth int
}

// loopContext tracks the forward JUMP instructions break/continue emit
// inside the loop currently being compiled; both are patched once the
// enclosing loop knows where its exit and its back-edge land; continue
// can't LOOP directly because a C-style for's update clause (and the
// has_next recheck in a for-in) still need to run first. localsBase is
// the locals count at loop entry: break/continue pop every local declared
// past it before jumping, since the jump bypasses the scope-exit pops the
// loop body emits on its normal path.
type loopContext struct {
	breakPatches    []int
	continuePatches []int
	localsBase      int
}

// Compiler compiles one function scope. Nested function literals get
// their own Compiler linked via parent, used to resolve upvalues
// lexically at compile time (spec §4.4's "upvalues are resolved
// lexically at compile time").
type Compiler struct {
	parent *Compiler
	b      *bytecode.Builder

	name   string
	params []string

	locals     []local
	scopeDepth int

	upvalues []value.UpvalueDesc
	nested   []*value.Function

	loops []*loopContext

	file string
	err  error
}

// upvalueFlag marks a GET_LOCAL/SET_LOCAL operand as indexing the active
// closure's upvalue vector rather than the stack-relative local window.
// Spec §4.4's pruned opcode set has no dedicated GET_UPVALUE/SET_UPVALUE
// instruction, unlike the teacher's OpGetUpvalue/OpSetUpvalue pair; this
// resolves that gap by reusing GET_LOCAL/SET_LOCAL's 16-bit operand,
// high bit as a discriminator (local indices never need bit 15: the
// value-stack maximum is 8,192 slots per spec §4.5).
const upvalueFlag = uint16(1) << 15

// Compile lowers a top-level statement list into a Function named
// "<script>", matching the teacher's NewStmtCompiler default.
func Compile(file string, stmts []ast.Stmt) (*value.Function, error) {
	c := newCompiler(nil, file, "<script>", nil)
	// Slot 0 is reserved for the callee/receiver per spec §4.4, even at
	// top level, so local slot numbering matches function frames exactly.
	c.locals = append(c.locals, local{name: "", depth: 0})
	for _, s := range stmts {
		if err := c.compileStmt(s); err != nil {
			return nil, err
		}
	}
	c.b.Emit(bytecode.OpHalt)
	return c.b.Finish(c.name, c.params, uint16(len(c.locals)), c.nested, c.upvalues), nil
}

func newCompiler(parent *Compiler, file, name string, params []string) *Compiler {
	return &Compiler{
		parent: parent,
		b:      bytecode.NewBuilder(),
		name:   name,
		params: params,
		file:   file,
	}
}

func (c *Compiler) errf(pos ast.Pos, kind errors.Kind, format string, args ...interface{}) error {
	return errors.New(kind, errors.Location{File: c.file, Line: pos.Line, Column: pos.Col}, format, args...)
}

func (c *Compiler) setLine(pos ast.Pos) { c.b.SetLine(pos.Line) }

// --- scope / local management ---

func (c *Compiler) beginScope() { c.scopeDepth++ }

// endScope pops locals declared at the scope being closed, releasing
// their stack slots; each pop emits a POP so the VM stack mirrors it
// (spec §4.5's value-stack discipline).
func (c *Compiler) endScope() {
	c.scopeDepth--
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		c.b.Emit(bytecode.OpPop)
		c.locals = c.locals[:len(c.locals)-1]
	}
}

func (c *Compiler) declareLocal(name string) uint16 {
	c.locals = append(c.locals, local{name: name, depth: c.scopeDepth})
	return uint16(len(c.locals) - 1)
}

func (c *Compiler) resolveLocal(name string) (uint16, bool) {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			return uint16(i), true
		}
	}
	return 0, false
}

// resolveUpvalue walks the parent-compiler chain per spec §4.4; a hit in
// an ancestor's locals or upvalues adds (or reuses) an UpvalueDesc on
// every compiler between here and there.
func (c *Compiler) resolveUpvalue(name string) (uint16, bool) {
	if c.parent == nil {
		return 0, false
	}
	if slot, ok := c.parent.resolveLocal(name); ok {
		return c.addUpvalue(slot, true), true
	}
	if slot, ok := c.parent.resolveUpvalue(name); ok {
		return c.addUpvalue(slot, false), true
	}
	return 0, false
}

func (c *Compiler) addUpvalue(index uint16, isLocal bool) uint16 {
	for i, uv := range c.upvalues {
		if uv.Index == index && uv.IsLocal == isLocal {
			return uint16(i)
		}
	}
	c.upvalues = append(c.upvalues, value.UpvalueDesc{Index: index, IsLocal: isLocal})
	return uint16(len(c.upvalues) - 1)
}

// isGlobalScope reports whether a declaration here binds a global: only
// the root (script) compiler outside any block. A function body starts at
// scope depth 0 too, but its declarations are frame locals.
func (c *Compiler) isGlobalScope() bool { return c.parent == nil && c.scopeDepth == 0 }

// --- constants ---

func (c *Compiler) internedConst(name string) uint16 {
	return c.b.AddConstant(value.Str(container.NewString(name)))
}

func literalToValue(v interface{}) (value.Value, error) {
	switch t := v.(type) {
	case nil:
		return value.Null(), nil
	case bool:
		return value.Bool(t), nil
	case int32:
		return value.Int32(t), nil
	case int:
		return value.Int32(int32(t)), nil
	case float32:
		return value.Float32(t), nil
	case float64:
		return value.Float64(t), nil
	case string:
		return value.Str(container.NewString(t)), nil
	case *big.Int:
		return value.Bignum(container.NewBignum(t)), nil
	default:
		return value.Value{}, errors.New(errors.CompileError, errors.Location{}, "unsupported literal payload %T", v)
	}
}
