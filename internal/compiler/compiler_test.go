package compiler

import (
	"encoding/binary"
	"testing"

	"slate/internal/ast"
	"slate/internal/bytecode"
	"slate/internal/errors"
)

func pos() ast.Pos { return ast.Pos{Line: 1, Col: 1} }

func lit(v interface{}) *ast.Literal { return &ast.Literal{Pos: pos(), Value: v} }

func TestCompileSimpleArithmeticEmitsExpectedOpcodes(t *testing.T) {
	stmts := []ast.Stmt{
		&ast.ExpressionStmt{Pos: pos(), Expr: &ast.Binary{
			Pos: pos(), Left: lit(int32(1)), Operator: "+", Right: lit(int32(2)),
		}},
	}
	fn, err := Compile("test.sl", stmts)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	// PUSH_CONSTANT 0, PUSH_CONSTANT 1, ADD, POP, HALT
	wantOps := []bytecode.OpCode{bytecode.OpPushConstant, bytecode.OpPushConstant, bytecode.OpAdd, bytecode.OpPop, bytecode.OpHalt}
	gotLen := 0
	ip := 0
	for _, want := range wantOps {
		if ip >= len(fn.Code) {
			t.Fatalf("ran out of bytecode at op %d (%s)", gotLen, want)
		}
		op := bytecode.OpCode(fn.Code[ip])
		if op != want {
			t.Fatalf("op %d: expected %s, got %s", gotLen, want, op)
		}
		ip++
		if op.HasOperand() {
			ip += 2
		}
		gotLen++
	}
}

func TestCompileBreakOutsideLoopIsCompileError(t *testing.T) {
	stmts := []ast.Stmt{&ast.BreakStmt{Pos: pos()}}
	_, err := Compile("test.sl", stmts)
	if err == nil {
		t.Fatal("expected compile error for break outside a loop")
	}
	se, ok := err.(*errors.SlateError)
	if !ok || se.Kind != errors.CompileError {
		t.Fatalf("expected CompileError, got %v", err)
	}
}

func TestCompileImportIsRejected(t *testing.T) {
	stmts := []ast.Stmt{&ast.ImportStmt{Pos: pos(), Path: "foo"}}
	_, err := Compile("test.sl", stmts)
	if err == nil {
		t.Fatal("expected compile error for import (out of scope)")
	}
}

func TestCompileWhileLoopPatchesJumpsToEnd(t *testing.T) {
	// while (true) { break }
	stmts := []ast.Stmt{
		&ast.WhileStmt{
			Pos:       pos(),
			Condition: lit(true),
			Body:      []ast.Stmt{&ast.BreakStmt{Pos: pos()}},
		},
	}
	fn, err := Compile("test.sl", stmts)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	if fn.Code[len(fn.Code)-1] != byte(bytecode.OpHalt) {
		t.Fatalf("expected bytecode to end in HALT")
	}
	// Both forward jumps (the loop's exit JUMP_IF_FALSE and break's JUMP)
	// must be patched to land on that trailing HALT.
	halt := len(fn.Code) - 1
	forward := 0
	for ip := 0; ip < len(fn.Code); {
		op := bytecode.OpCode(fn.Code[ip])
		ip++
		if !op.HasOperand() {
			continue
		}
		if op == bytecode.OpJumpIfFalse || op == bytecode.OpJump {
			target := ip + 2 + int(int16(binary.LittleEndian.Uint16(fn.Code[ip:])))
			if target != halt {
				t.Fatalf("%s lands at %d, expected HALT at %d", op, target, halt)
			}
			forward++
		}
		ip += 2
	}
	if forward != 2 {
		t.Fatalf("expected 2 patched forward jumps, found %d", forward)
	}
}

func TestCompileClosureCapturesOuterLocal(t *testing.T) {
	// function makeCounter() { var n = 0; return fn() => n = n + 1; }
	inner := &ast.LambdaExpr{
		Pos:    pos(),
		Params: nil,
		Body: &ast.Assign{
			Pos: pos(), Name: "n", Value: &ast.Binary{
				Pos: pos(), Left: &ast.Variable{Pos: pos(), Name: "n"}, Operator: "+", Right: lit(int32(1)),
			},
		},
	}
	outer := &ast.FunctionStmt{
		Pos:    pos(),
		Name:   "makeCounter",
		Params: nil,
		Body: []ast.Stmt{
			&ast.LetStmt{Pos: pos(), Name: "n", Expr: lit(int32(0))},
			&ast.ReturnStmt{Pos: pos(), Value: inner},
		},
	}
	fn, err := Compile("test.sl", []ast.Stmt{outer})
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	// makeCounter's n sits in local slot 1 (slot 0 is the callee), so the
	// lambda must capture it as a single upvalue taken from the enclosing
	// frame's locals.
	lambda := fn.Nested[0].Nested[0]
	if len(lambda.Upvalues) != 1 || lambda.Upvalues[0].Index != 1 || !lambda.Upvalues[0].IsLocal {
		t.Fatalf("expected one local upvalue capturing slot 1, got %+v", lambda.Upvalues)
	}
}

func TestLiteralToValueRejectsUnsupportedPayload(t *testing.T) {
	_, err := literalToValue(struct{}{})
	if err == nil {
		t.Fatal("expected an error for an unsupported literal payload type")
	}
}
