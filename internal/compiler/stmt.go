package compiler

import (
	"slate/internal/ast"
	"slate/internal/bytecode"
	"slate/internal/errors"
	"slate/internal/value"
)

// compileStmt mirrors compileExpr: reset c.err, dispatch through
// Accept's double-dispatch, hand back whatever got set.
func (c *Compiler) compileStmt(s ast.Stmt) error {
	c.err = nil
	s.Accept(c)
	return c.err
}

func (c *Compiler) VisitPrintStmt(stmt *ast.PrintStmt) interface{} {
	c.setLine(stmt.Pos)
	c.b.EmitOperand(bytecode.OpGetGlobal, c.internedConst("print"))
	if !c.sub(stmt.Expr) {
		return nil
	}
	c.b.EmitOperand(bytecode.OpCall, 1)
	c.b.Emit(bytecode.OpPop)
	return nil
}

// VisitLetStmt: at global scope the value is bound through DEFINE_GLOBAL;
// inside a function or block, locals live directly on the value stack, so
// declaring one is just recording the slot the just-pushed value already
// occupies — no store instruction needed.
func (c *Compiler) VisitLetStmt(stmt *ast.LetStmt) interface{} {
	c.setLine(stmt.Pos)
	if stmt.Expr == nil {
		// An uninitialized var slot holds undefined, not null; the pruned
		// opcode set has no PUSH_UNDEFINED, so it rides the constant pool.
		c.b.EmitOperand(bytecode.OpPushConstant, c.b.AddConstant(value.Undefined()))
	} else if !c.sub(stmt.Expr) {
		return nil
	}
	if c.isGlobalScope() {
		c.b.EmitOperand(bytecode.OpDefineGlobal, c.internedConst(stmt.Name))
		return nil
	}
	c.declareLocal(stmt.Name)
	return nil
}

func (c *Compiler) VisitAssignmentStmt(stmt *ast.AssignmentStmt) interface{} {
	c.setLine(stmt.Pos)
	if !c.sub(stmt.Value) {
		return nil
	}
	c.emitStore(stmt.Name, stmt.Pos)
	return nil
}

func (c *Compiler) VisitIndexAssignmentStmt(stmt *ast.IndexAssignmentStmt) interface{} {
	c.setLine(stmt.Pos)
	if !c.sub(stmt.Object) || !c.sub(stmt.Index) || !c.sub(stmt.Value) {
		return nil
	}
	c.b.Emit(bytecode.OpSetIndex)
	c.b.Emit(bytecode.OpPop)
	return nil
}

func (c *Compiler) VisitPropertyAssignmentStmt(stmt *ast.PropertyAssignmentStmt) interface{} {
	c.setLine(stmt.Pos)
	if !c.sub(stmt.Object) || !c.sub(stmt.Value) {
		return nil
	}
	c.b.EmitOperand(bytecode.OpSetProperty, c.internedConst(stmt.Property))
	c.b.Emit(bytecode.OpPop)
	return nil
}

func (c *Compiler) VisitExpressionStmt(stmt *ast.ExpressionStmt) interface{} {
	c.setLine(stmt.Pos)
	if !c.sub(stmt.Expr) {
		return nil
	}
	c.b.Emit(bytecode.OpPop)
	return nil
}

// compileFunctionBody lowers params+body into a finished *value.Function,
// shared by VisitFunctionStmt and VisitClassStmt's methods.
func (c *Compiler) compileFunctionBody(name string, params []string, body []ast.Stmt) (*Compiler, bool) {
	child := newCompiler(c, c.file, name, params)
	child.locals = append(child.locals, local{name: "", depth: 0})
	for _, p := range params {
		child.declareLocal(p)
	}
	for _, s := range body {
		if err := child.compileStmt(s); err != nil {
			c.fail(err)
			return nil, false
		}
	}
	child.b.Emit(bytecode.OpPushNull)
	child.b.Emit(bytecode.OpReturn)
	return child, true
}

// VisitFunctionStmt compiles a named function declaration the same way a
// lambda compiles, then binds the resulting closure to a name (global or
// local depending on where the declaration sits).
func (c *Compiler) VisitFunctionStmt(stmt *ast.FunctionStmt) interface{} {
	c.setLine(stmt.Pos)
	child, ok := c.compileFunctionBody(stmt.Name, stmt.Params, stmt.Body)
	if !ok {
		return nil
	}
	fn := child.b.Finish(child.name, child.params, uint16(len(child.locals)), child.nested, child.upvalues)
	idx := uint16(len(c.nested))
	c.nested = append(c.nested, fn)
	c.b.EmitOperand(bytecode.OpClosure, idx)
	if c.isGlobalScope() {
		c.b.EmitOperand(bytecode.OpDefineGlobal, c.internedConst(stmt.Name))
	} else {
		c.declareLocal(stmt.Name)
	}
	return nil
}

func (c *Compiler) VisitReturnStmt(stmt *ast.ReturnStmt) interface{} {
	c.setLine(stmt.Pos)
	if stmt.Value != nil {
		if !c.sub(stmt.Value) {
			return nil
		}
	} else {
		c.b.Emit(bytecode.OpPushNull)
	}
	c.b.Emit(bytecode.OpReturn)
	return nil
}

func (c *Compiler) VisitIfStmt(stmt *ast.IfStmt) interface{} {
	c.setLine(stmt.Pos)
	if !c.sub(stmt.Condition) {
		return nil
	}
	elseJump := c.b.EmitOperand(bytecode.OpJumpIfFalse, 0)
	c.beginScope()
	for _, s := range stmt.Then {
		if err := c.compileStmt(s); err != nil {
			c.endScope()
			return c.fail(err)
		}
	}
	c.endScope()
	endJump := c.b.EmitOperand(bytecode.OpJump, 0)
	c.b.PatchJumpHere(elseJump)
	if stmt.Else != nil {
		c.beginScope()
		for _, s := range stmt.Else {
			if err := c.compileStmt(s); err != nil {
				c.endScope()
				return c.fail(err)
			}
		}
		c.endScope()
	}
	c.b.PatchJumpHere(endJump)
	return nil
}

// VisitWhileStmt compiles condition/JUMP_IF_FALSE/body/LOOP per §4.4,
// patching break to the loop's exit and continue back to the condition
// recheck.
func (c *Compiler) VisitWhileStmt(stmt *ast.WhileStmt) interface{} {
	c.setLine(stmt.Pos)
	loopStart := c.b.Offset()
	lc := &loopContext{localsBase: len(c.locals)}
	c.loops = append(c.loops, lc)

	if !c.sub(stmt.Condition) {
		c.loops = c.loops[:len(c.loops)-1]
		return nil
	}
	exitJump := c.b.EmitOperand(bytecode.OpJumpIfFalse, 0)

	c.beginScope()
	for _, s := range stmt.Body {
		if err := c.compileStmt(s); err != nil {
			c.endScope()
			c.loops = c.loops[:len(c.loops)-1]
			return c.fail(err)
		}
	}
	c.endScope()

	for _, p := range lc.continuePatches {
		c.b.PatchJumpHere(p)
	}
	c.b.EmitLoop(loopStart)
	c.b.PatchJumpHere(exitJump)
	for _, p := range lc.breakPatches {
		c.b.PatchJumpHere(p)
	}
	c.loops = c.loops[:len(c.loops)-1]
	return nil
}

// VisitForStmt compiles init/condition/JUMP_IF_FALSE/body/update/LOOP.
// continue targets the update clause, not the condition, so the update
// still runs before the next condition check.
func (c *Compiler) VisitForStmt(stmt *ast.ForStmt) interface{} {
	c.setLine(stmt.Pos)
	c.beginScope()
	if stmt.Init != nil {
		if err := c.compileStmt(stmt.Init); err != nil {
			c.endScope()
			return c.fail(err)
		}
	}

	condStart := c.b.Offset()
	lc := &loopContext{localsBase: len(c.locals)}
	c.loops = append(c.loops, lc)

	var exitJump int
	hasCond := stmt.Condition != nil
	if hasCond {
		if !c.sub(stmt.Condition) {
			c.loops = c.loops[:len(c.loops)-1]
			c.endScope()
			return nil
		}
		exitJump = c.b.EmitOperand(bytecode.OpJumpIfFalse, 0)
	}

	c.beginScope()
	for _, s := range stmt.Body {
		if err := c.compileStmt(s); err != nil {
			c.endScope()
			c.loops = c.loops[:len(c.loops)-1]
			c.endScope()
			return c.fail(err)
		}
	}
	c.endScope()

	for _, p := range lc.continuePatches {
		c.b.PatchJumpHere(p)
	}
	if stmt.Update != nil {
		if !c.sub(stmt.Update) {
			c.loops = c.loops[:len(c.loops)-1]
			c.endScope()
			return nil
		}
		c.b.Emit(bytecode.OpPop)
	}
	c.b.EmitLoop(condStart)
	if hasCond {
		c.b.PatchJumpHere(exitJump)
	}
	for _, p := range lc.breakPatches {
		c.b.PatchJumpHere(p)
	}
	c.loops = c.loops[:len(c.loops)-1]
	c.endScope()
	return nil
}

// VisitForInStmt lowers the iteration protocol (spec §4.5): iterator(x)
// allocates an Iterator, then has_next/next are resolved as ordinary
// method calls (GET_PROPERTY + CALL 0) against it, matching
// VisitMethodCallExpr's lowering exactly.
func (c *Compiler) VisitForInStmt(stmt *ast.ForInStmt) interface{} {
	c.setLine(stmt.Pos)
	c.beginScope()
	c.b.EmitOperand(bytecode.OpGetGlobal, c.internedConst("iterator"))
	if !c.sub(stmt.Collection) {
		c.endScope()
		return nil
	}
	c.b.EmitOperand(bytecode.OpCall, 1)
	iterSlot := c.declareLocal("@iter")

	loopStart := c.b.Offset()
	lc := &loopContext{localsBase: len(c.locals)}
	c.loops = append(c.loops, lc)

	c.b.EmitOperand(bytecode.OpGetLocal, iterSlot)
	c.b.EmitOperand(bytecode.OpGetProperty, c.internedConst("has_next"))
	c.b.EmitOperand(bytecode.OpCall, 0)
	exitJump := c.b.EmitOperand(bytecode.OpJumpIfFalse, 0)

	c.beginScope()
	c.b.EmitOperand(bytecode.OpGetLocal, iterSlot)
	c.b.EmitOperand(bytecode.OpGetProperty, c.internedConst("next"))
	c.b.EmitOperand(bytecode.OpCall, 0)
	c.declareLocal(stmt.Variable)
	for _, s := range stmt.Body {
		if err := c.compileStmt(s); err != nil {
			c.endScope()
			c.loops = c.loops[:len(c.loops)-1]
			c.endScope()
			return c.fail(err)
		}
	}
	c.endScope()

	for _, p := range lc.continuePatches {
		c.b.PatchJumpHere(p)
	}
	c.b.EmitLoop(loopStart)
	c.b.PatchJumpHere(exitJump)
	for _, p := range lc.breakPatches {
		c.b.PatchJumpHere(p)
	}
	c.loops = c.loops[:len(c.loops)-1]
	c.endScope()
	return nil
}

func (c *Compiler) VisitBreakStmt(stmt *ast.BreakStmt) interface{} {
	c.setLine(stmt.Pos)
	if len(c.loops) == 0 {
		return c.fail(c.errf(stmt.Pos, errors.CompileError, "break outside of a loop"))
	}
	lc := c.loops[len(c.loops)-1]
	for i := len(c.locals); i > lc.localsBase; i-- {
		c.b.Emit(bytecode.OpPop)
	}
	jump := c.b.EmitOperand(bytecode.OpJump, 0)
	lc.breakPatches = append(lc.breakPatches, jump)
	return nil
}

func (c *Compiler) VisitContinueStmt(stmt *ast.ContinueStmt) interface{} {
	c.setLine(stmt.Pos)
	if len(c.loops) == 0 {
		return c.fail(c.errf(stmt.Pos, errors.CompileError, "continue outside of a loop"))
	}
	lc := c.loops[len(c.loops)-1]
	for i := len(c.locals); i > lc.localsBase; i-- {
		c.b.Emit(bytecode.OpPop)
	}
	jump := c.b.EmitOperand(bytecode.OpJump, 0)
	lc.continuePatches = append(lc.continuePatches, jump)
	return nil
}

func (c *Compiler) VisitImportStmt(stmt *ast.ImportStmt) interface{} {
	return c.fail(c.errf(stmt.Pos, errors.CompileError, "import is not supported"))
}

func (c *Compiler) VisitExportStmt(stmt *ast.ExportStmt) interface{} {
	return c.fail(c.errf(stmt.Pos, errors.CompileError, "export is not supported"))
}

// VisitClassStmt has no dedicated opcode to allocate a Class value, the
// same gap VisitRangeExpr hits, so it's lowered the same way: push the
// pieces (name, superclass, instance-method object, field-name array)
// and call a runtime native that assembles the value.Class.
func (c *Compiler) VisitClassStmt(stmt *ast.ClassStmt) interface{} {
	c.setLine(stmt.Pos)
	c.b.EmitOperand(bytecode.OpGetGlobal, c.internedConst("__make_class"))

	nameV, _ := literalToValue(stmt.Name)
	c.b.EmitOperand(bytecode.OpPushConstant, c.b.AddConstant(nameV))

	if stmt.Superclass != "" {
		c.b.EmitOperand(bytecode.OpGetGlobal, c.internedConst(stmt.Superclass))
	} else {
		c.b.Emit(bytecode.OpPushNull)
	}

	for _, m := range stmt.Methods {
		methodNameV, _ := literalToValue(m.Name)
		c.b.EmitOperand(bytecode.OpPushConstant, c.b.AddConstant(methodNameV))
		child, ok := c.compileFunctionBody(m.Name, m.Params, m.Body)
		if !ok {
			return nil
		}
		fn := child.b.Finish(child.name, child.params, uint16(len(child.locals)), child.nested, child.upvalues)
		idx := uint16(len(c.nested))
		c.nested = append(c.nested, fn)
		c.b.EmitOperand(bytecode.OpClosure, idx)
	}
	c.b.EmitOperand(bytecode.OpBuildObject, uint16(len(stmt.Methods)))

	for _, f := range stmt.Fields {
		fieldV, _ := literalToValue(f)
		c.b.EmitOperand(bytecode.OpPushConstant, c.b.AddConstant(fieldV))
	}
	c.b.EmitOperand(bytecode.OpBuildArray, uint16(len(stmt.Fields)))

	c.b.EmitOperand(bytecode.OpCall, 4)
	c.b.EmitOperand(bytecode.OpDefineGlobal, c.internedConst(stmt.Name))
	return nil
}

func (c *Compiler) VisitTryStmt(stmt *ast.TryStmt) interface{} {
	return c.fail(c.errf(stmt.Pos, errors.CompileError, "try/catch is not supported"))
}

func (c *Compiler) VisitThrowStmt(stmt *ast.ThrowStmt) interface{} {
	return c.fail(c.errf(stmt.Pos, errors.CompileError, "throw is not supported"))
}

func (c *Compiler) VisitMatchStmt(stmt *ast.MatchStmt) interface{} {
	return c.fail(c.errf(stmt.Pos, errors.CompileError, "match is not supported"))
}
