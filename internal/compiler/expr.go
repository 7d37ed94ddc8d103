package compiler

import (
	"slate/internal/ast"
	"slate/internal/bytecode"
	"slate/internal/errors"
	"slate/internal/value"
)

// compileExpr threads errors through the ast.Expr.Accept double-dispatch
// (whose signature returns a bare interface{}) via c.err: every Visit*
// method checks c.err after each recursive compile and bails out early,
// and compileExpr hands back whatever got set.
func (c *Compiler) compileExpr(e ast.Expr) error {
	c.err = nil
	e.Accept(c)
	return c.err
}

func (c *Compiler) fail(err error) interface{} {
	if c.err == nil {
		c.err = err
	}
	return nil
}

func (c *Compiler) sub(e ast.Expr) bool {
	if c.err != nil {
		return false
	}
	e.Accept(c)
	return c.err == nil
}

func (c *Compiler) VisitBinaryExpr(expr *ast.Binary) interface{} {
	c.setLine(expr.Pos)
	if !c.sub(expr.Left) || !c.sub(expr.Right) {
		return nil
	}
	switch expr.Operator {
	case "+":
		c.b.Emit(bytecode.OpAdd)
	case "-":
		c.b.Emit(bytecode.OpSub)
	case "*":
		c.b.Emit(bytecode.OpMul)
	case "/":
		c.b.Emit(bytecode.OpDiv)
	case "%":
		c.b.Emit(bytecode.OpMod)
	case "**":
		c.b.Emit(bytecode.OpPow)
	case "//":
		c.b.Emit(bytecode.OpFloorDiv)
	case "==":
		c.b.Emit(bytecode.OpEq)
	case "!=":
		c.b.Emit(bytecode.OpNeq)
	case "<":
		c.b.Emit(bytecode.OpLt)
	case "<=":
		c.b.Emit(bytecode.OpLe)
	case ">":
		c.b.Emit(bytecode.OpGt)
	case ">=":
		c.b.Emit(bytecode.OpGe)
	default:
		return c.fail(c.errf(expr.Pos, errors.CompileError, "unknown binary operator %q", expr.Operator))
	}
	return nil
}

func (c *Compiler) VisitLiteralExpr(expr *ast.Literal) interface{} {
	c.setLine(expr.Pos)
	v, err := literalToValue(expr.Value)
	if err != nil {
		return c.fail(c.errf(expr.Pos, errors.CompileError, "%s", err))
	}
	switch {
	case v.Is(value.KindNull):
		c.b.Emit(bytecode.OpPushNull)
	case v.Is(value.KindBool) && v.AsBool():
		c.b.Emit(bytecode.OpPushTrue)
	case v.Is(value.KindBool) && !v.AsBool():
		c.b.Emit(bytecode.OpPushFalse)
	default:
		c.b.EmitOperand(bytecode.OpPushConstant, c.b.AddConstant(v))
	}
	return nil
}

func (c *Compiler) VisitVariableExpr(expr *ast.Variable) interface{} {
	c.setLine(expr.Pos)
	if slot, ok := c.resolveLocal(expr.Name); ok {
		c.b.EmitOperand(bytecode.OpGetLocal, slot)
		return nil
	}
	if slot, ok := c.resolveUpvalue(expr.Name); ok {
		c.b.EmitOperand(bytecode.OpGetLocal, slot|upvalueFlag)
		return nil
	}
	c.b.EmitOperand(bytecode.OpGetGlobal, c.internedConst(expr.Name))
	return nil
}

func (c *Compiler) VisitAssignExpr(expr *ast.Assign) interface{} {
	c.setLine(expr.Pos)
	if !c.sub(expr.Value) {
		return nil
	}
	c.b.Emit(bytecode.OpDup)
	c.emitStore(expr.Name, expr.Pos)
	return nil
}

// emitStore resolves name to a local, upvalue, or global slot and emits
// the matching SET instruction.
func (c *Compiler) emitStore(name string, pos ast.Pos) {
	if slot, ok := c.resolveLocal(name); ok {
		c.b.EmitOperand(bytecode.OpSetLocal, slot)
		return
	}
	if slot, ok := c.resolveUpvalue(name); ok {
		c.b.EmitOperand(bytecode.OpSetLocal, slot|upvalueFlag)
		return
	}
	c.b.EmitOperand(bytecode.OpSetGlobal, c.internedConst(name))
}

func (c *Compiler) VisitCallExpr(expr *ast.CallExpr) interface{} {
	c.setLine(expr.Pos)
	if !c.sub(expr.Callee) {
		return nil
	}
	for _, a := range expr.Args {
		if !c.sub(a) {
			return nil
		}
	}
	c.b.EmitOperand(bytecode.OpCall, uint16(len(expr.Args)))
	return nil
}

// VisitMethodCallExpr lowers r.m(a, b) to push-r, GET_PROPERTY "m",
// push-args, CALL argc (spec §4.4).
func (c *Compiler) VisitMethodCallExpr(expr *ast.MethodCallExpr) interface{} {
	c.setLine(expr.Pos)
	if !c.sub(expr.Receiver) {
		return nil
	}
	c.b.EmitOperand(bytecode.OpGetProperty, c.internedConst(expr.Name))
	for _, a := range expr.Args {
		if !c.sub(a) {
			return nil
		}
	}
	c.b.EmitOperand(bytecode.OpCall, uint16(len(expr.Args)))
	return nil
}

func (c *Compiler) VisitIfExpr(expr *ast.IfExpr) interface{} {
	c.setLine(expr.Pos)
	if !c.sub(expr.Cond) {
		return nil
	}
	elseJump := c.b.EmitOperand(bytecode.OpJumpIfFalse, 0)
	if !c.sub(expr.ThenBranch) {
		return nil
	}
	endJump := c.b.EmitOperand(bytecode.OpJump, 0)
	c.b.PatchJumpHere(elseJump)
	if expr.ElseBranch != nil {
		if !c.sub(expr.ElseBranch) {
			return nil
		}
	} else {
		c.b.Emit(bytecode.OpPushNull)
	}
	c.b.PatchJumpHere(endJump)
	return nil
}

func (c *Compiler) VisitBlockExpr(expr *ast.BlockExpr) interface{} {
	c.setLine(expr.Pos)
	c.beginScope()
	defer c.endScope()
	for _, s := range expr.Stmts {
		if err := c.compileStmt(s); err != nil {
			return c.fail(err)
		}
	}
	return nil
}

func (c *Compiler) VisitArrayExpr(expr *ast.ArrayExpr) interface{} {
	c.setLine(expr.Pos)
	for _, e := range expr.Elements {
		if !c.sub(e) {
			return nil
		}
	}
	c.b.EmitOperand(bytecode.OpBuildArray, uint16(len(expr.Elements)))
	return nil
}

func (c *Compiler) VisitMapExpr(expr *ast.MapExpr) interface{} {
	c.setLine(expr.Pos)
	for i := range expr.Keys {
		if !c.sub(expr.Keys[i]) || !c.sub(expr.Values[i]) {
			return nil
		}
	}
	c.b.EmitOperand(bytecode.OpBuildObject, uint16(len(expr.Keys)))
	return nil
}

// VisitRangeExpr lowers a range literal to a call to the "__make_range"
// global native, which allocates a value.Range from start/end/step (spec §4.4:
// "Range expressions lower to a call that allocates a range value").
func (c *Compiler) VisitRangeExpr(expr *ast.RangeExpr) interface{} {
	c.setLine(expr.Pos)
	// CALL argc expects the callee argc slots below the top, so the
	// __make_range native is pushed before its four arguments.
	c.b.EmitOperand(bytecode.OpGetGlobal, c.internedConst("__make_range"))
	if !c.sub(expr.Start) || !c.sub(expr.End) {
		return nil
	}
	if expr.Step != nil {
		if !c.sub(expr.Step) {
			return nil
		}
	} else {
		c.b.EmitOperand(bytecode.OpPushConstant, c.b.AddConstant(value.Int32(1)))
	}
	if expr.Exclusive {
		c.b.Emit(bytecode.OpPushTrue)
	} else {
		c.b.Emit(bytecode.OpPushFalse)
	}
	c.b.EmitOperand(bytecode.OpCall, 4)
	return nil
}

func (c *Compiler) VisitIndexExpr(expr *ast.IndexExpr) interface{} {
	c.setLine(expr.Pos)
	if !c.sub(expr.Object) || !c.sub(expr.Index) {
		return nil
	}
	c.b.Emit(bytecode.OpGetIndex)
	return nil
}

func (c *Compiler) VisitSetIndexExpr(expr *ast.SetIndexExpr) interface{} {
	c.setLine(expr.Pos)
	if !c.sub(expr.Object) || !c.sub(expr.Index) || !c.sub(expr.Value) {
		return nil
	}
	c.b.Emit(bytecode.OpSetIndex)
	return nil
}

func (c *Compiler) VisitUnaryExpr(expr *ast.UnaryExpr) interface{} {
	c.setLine(expr.Pos)
	if !c.sub(expr.Operand) {
		return nil
	}
	switch expr.Operator {
	case "!":
		c.b.Emit(bytecode.OpNot)
	case "-":
		c.b.Emit(bytecode.OpNeg)
	default:
		return c.fail(c.errf(expr.Pos, errors.CompileError, "unknown unary operator %q", expr.Operator))
	}
	return nil
}

// VisitLogicalExpr lowers short-circuit &&/|| to dup+conditional-jump,
// never dedicated opcodes (spec §4.4/§9).
func (c *Compiler) VisitLogicalExpr(expr *ast.LogicalExpr) interface{} {
	c.setLine(expr.Pos)
	if !c.sub(expr.Left) {
		return nil
	}
	switch expr.Operator {
	case "&&":
		c.b.Emit(bytecode.OpDup)
		endJump := c.b.EmitOperand(bytecode.OpJumpIfFalse, 0)
		c.b.Emit(bytecode.OpPop)
		if !c.sub(expr.Right) {
			return nil
		}
		c.b.PatchJumpHere(endJump)
	case "||":
		c.b.Emit(bytecode.OpDup)
		endJump := c.b.EmitOperand(bytecode.OpJumpIfTrue, 0)
		c.b.Emit(bytecode.OpPop)
		if !c.sub(expr.Right) {
			return nil
		}
		c.b.PatchJumpHere(endJump)
	default:
		return c.fail(c.errf(expr.Pos, errors.CompileError, "unknown logical operator %q", expr.Operator))
	}
	return nil
}

func (c *Compiler) VisitInterpolationExpr(expr *ast.InterpolationExpr) interface{} {
	c.setLine(expr.Pos)
	if len(expr.Parts) == 0 {
		v, _ := literalToValue("")
		c.b.EmitOperand(bytecode.OpPushConstant, c.b.AddConstant(v))
		return nil
	}
	if !c.sub(expr.Parts[0]) {
		return nil
	}
	// Each subsequent part is folded in with ADD, the same opcode string
	// concatenation already needs for `"a" + "b"` — no separate CONCAT
	// opcode exists in the pruned set, so interpolation reuses it rather
	// than inventing one.
	for _, part := range expr.Parts[1:] {
		if !c.sub(part) {
			return nil
		}
		c.b.Emit(bytecode.OpAdd)
	}
	return nil
}

// VisitLambdaExpr compiles fn(params) => body as a nested function
// scope, matching the CLOSURE f scheme: the child function is recorded
// on the enclosing function's nested table and a CLOSURE instruction
// referencing it is emitted here.
func (c *Compiler) VisitLambdaExpr(expr *ast.LambdaExpr) interface{} {
	c.setLine(expr.Pos)
	child := newCompiler(c, c.file, "<lambda>", expr.Params)
	child.locals = append(child.locals, local{name: "", depth: 0})
	for _, p := range expr.Params {
		child.declareLocal(p)
	}
	if err := child.compileExpr(expr.Body); err != nil {
		return c.fail(err)
	}
	child.b.Emit(bytecode.OpReturn)
	fn := child.b.Finish(child.name, child.params, uint16(len(child.locals)), child.nested, child.upvalues)
	idx := uint16(len(c.nested))
	c.nested = append(c.nested, fn)
	c.b.EmitOperand(bytecode.OpClosure, idx)
	return nil
}

func (c *Compiler) VisitPropertyExpr(expr *ast.PropertyExpr) interface{} {
	c.setLine(expr.Pos)
	if !c.sub(expr.Object) {
		return nil
	}
	c.b.EmitOperand(bytecode.OpGetProperty, c.internedConst(expr.Property))
	return nil
}
