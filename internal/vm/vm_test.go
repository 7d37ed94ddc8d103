package vm

import (
	"testing"

	"slate/internal/ast"
	"slate/internal/compiler"
	"slate/internal/errors"
	"slate/internal/value"
)

func p() ast.Pos { return ast.Pos{Line: 1, Col: 1} }

func lit(v interface{}) *ast.Literal { return &ast.Literal{Pos: p(), Value: v} }

func run(t *testing.T, stmts []ast.Stmt) value.Value {
	t.Helper()
	fn, err := compiler.Compile("test.sl", stmts)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	got, err := New().Interpret("test.sl", fn)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	return got
}

func runErr(t *testing.T, stmts []ast.Stmt) error {
	t.Helper()
	fn, err := compiler.Compile("test.sl", stmts)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	_, err = New().Interpret("test.sl", fn)
	if err == nil {
		t.Fatal("expected a runtime error")
	}
	return err
}

// TestScenarioS1ArithmeticPromotesAcrossTheLattice mirrors the two-billion
// addition walkthrough: int32 + int32 overflows to bignum, and a bignum
// times an int32 stays a bignum.
func TestScenarioS1ArithmeticPromotesAcrossTheLattice(t *testing.T) {
	stmts := []ast.Stmt{
		&ast.LetStmt{Pos: p(), Name: "x", Expr: &ast.Binary{
			Pos: p(), Left: lit(int32(2000000000)), Operator: "+", Right: lit(int32(2000000000)),
		}},
		&ast.ExpressionStmt{Pos: p(), Expr: &ast.Binary{
			Pos: p(), Left: &ast.Variable{Pos: p(), Name: "x"}, Operator: "*", Right: lit(int32(2)),
		}},
	}
	got := run(t, stmts)
	if got.Kind != value.KindBigint {
		t.Fatalf("expected a bignum result, got kind %v", got.Kind)
	}
	if got.AsBignum().Int().Int64() != 8000000000 {
		t.Fatalf("expected 8000000000, got %s", got.AsBignum().String())
	}
	value.Release(got)
}

// TestScenarioS2StringMethodChain mirrors "Hello, World".toUpper() then
// substring(7, 5), which should read back "WORLD".
func TestScenarioS2StringMethodChain(t *testing.T) {
	stmts := []ast.Stmt{
		&ast.LetStmt{Pos: p(), Name: "s", Expr: lit("Hello, World")},
		&ast.ExpressionStmt{Pos: p(), Expr: &ast.MethodCallExpr{
			Pos: p(),
			Receiver: &ast.MethodCallExpr{
				Pos:      p(),
				Receiver: &ast.Variable{Pos: p(), Name: "s"},
				Name:     "toUpper",
			},
			Name: "substring",
			Args: []ast.Expr{lit(int32(7)), lit(int32(5))},
		}},
	}
	got := run(t, stmts)
	if got.Kind != value.KindString {
		t.Fatalf("expected a string result, got kind %v", got.Kind)
	}
	if got.AsString().Value() != "WORLD" {
		t.Fatalf("expected WORLD, got %q", got.AsString().Value())
	}
	value.Release(got)
}

// TestScenarioS3ClosureCapturesAndMutatesUpvalue mirrors makeCounter():
// each call to the returned closure increments and returns the same
// captured local.
func TestScenarioS3ClosureCapturesAndMutatesUpvalue(t *testing.T) {
	counter := &ast.LambdaExpr{
		Pos: p(),
		Body: &ast.Assign{
			Pos: p(), Name: "n", Value: &ast.Binary{
				Pos: p(), Left: &ast.Variable{Pos: p(), Name: "n"}, Operator: "+", Right: lit(int32(1)),
			},
		},
	}
	makeCounter := &ast.FunctionStmt{
		Pos:  p(),
		Name: "makeCounter",
		Body: []ast.Stmt{
			&ast.LetStmt{Pos: p(), Name: "n", Expr: lit(int32(0))},
			&ast.ReturnStmt{Pos: p(), Value: counter},
		},
	}
	stmts := []ast.Stmt{
		makeCounter,
		&ast.LetStmt{Pos: p(), Name: "c", Expr: &ast.CallExpr{
			Pos: p(), Callee: &ast.Variable{Pos: p(), Name: "makeCounter"},
		}},
		&ast.ExpressionStmt{Pos: p(), Expr: &ast.CallExpr{Pos: p(), Callee: &ast.Variable{Pos: p(), Name: "c"}}},
		&ast.ExpressionStmt{Pos: p(), Expr: &ast.CallExpr{Pos: p(), Callee: &ast.Variable{Pos: p(), Name: "c"}}},
		&ast.ExpressionStmt{Pos: p(), Expr: &ast.CallExpr{Pos: p(), Callee: &ast.Variable{Pos: p(), Name: "c"}}},
	}
	got := run(t, stmts)
	if got.Kind != value.KindInt32 || got.AsInt32() != 3 {
		t.Fatalf("expected counter to reach 3, got %v", got)
	}
	value.Release(got)
}

// TestScenarioS4RangeIterationSum mirrors `for (i in 1..10) total = total
// + i`, which should land on 55.
func TestScenarioS4RangeIterationSum(t *testing.T) {
	stmts := []ast.Stmt{
		&ast.LetStmt{Pos: p(), Name: "total", Expr: lit(int32(0))},
		&ast.ForInStmt{
			Pos:      p(),
			Variable: "i",
			Collection: &ast.RangeExpr{
				Pos: p(), Start: lit(int32(1)), End: lit(int32(10)), Exclusive: false,
			},
			Body: []ast.Stmt{
				&ast.AssignmentStmt{Pos: p(), Name: "total", Value: &ast.Binary{
					Pos: p(), Left: &ast.Variable{Pos: p(), Name: "total"}, Operator: "+",
					Right: &ast.Variable{Pos: p(), Name: "i"},
				}},
			},
		},
		&ast.ExpressionStmt{Pos: p(), Expr: &ast.Variable{Pos: p(), Name: "total"}},
	}
	got := run(t, stmts)
	if got.Kind != value.KindInt32 || got.AsInt32() != 55 {
		t.Fatalf("expected sum 55, got %v", got)
	}
	value.Release(got)
}

// TestScenarioS5PrototypeLookupViaObjectCreate mirrors Object.create(proto)
// followed by a method call resolved through the prototype chain.
func TestScenarioS5PrototypeLookupViaObjectCreate(t *testing.T) {
	greet := &ast.LambdaExpr{
		Pos:    p(),
		Params: []string{"name"},
		Body: &ast.Binary{
			Pos: p(), Left: lit("hi "), Operator: "+", Right: &ast.Variable{Pos: p(), Name: "name"},
		},
	}
	stmts := []ast.Stmt{
		&ast.LetStmt{Pos: p(), Name: "proto", Expr: &ast.MapExpr{
			Pos: p(), Keys: []ast.Expr{lit("greet")}, Values: []ast.Expr{greet},
		}},
		&ast.LetStmt{Pos: p(), Name: "o", Expr: &ast.MethodCallExpr{
			Pos:      p(),
			Receiver: &ast.Variable{Pos: p(), Name: "Object"},
			Name:     "create",
			Args:     []ast.Expr{&ast.Variable{Pos: p(), Name: "proto"}},
		}},
		&ast.ExpressionStmt{Pos: p(), Expr: &ast.MethodCallExpr{
			Pos:      p(),
			Receiver: &ast.Variable{Pos: p(), Name: "o"},
			Name:     "greet",
			Args:     []ast.Expr{lit("slate")},
		}},
	}
	got := run(t, stmts)
	if got.Kind != value.KindString {
		t.Fatalf("expected a string result, got kind %v", got.Kind)
	}
	if got.AsString().Value() != "hi slate" {
		t.Fatalf("expected %q, got %q", "hi slate", got.AsString().Value())
	}
	value.Release(got)
}

// TestScenarioS6DivisionByZeroRaisesArithmeticError mirrors `1 / 0`.
func TestScenarioS6DivisionByZeroRaisesArithmeticError(t *testing.T) {
	stmts := []ast.Stmt{
		&ast.LetStmt{Pos: p(), Name: "x", Expr: &ast.Binary{
			Pos: p(), Left: lit(int32(1)), Operator: "/", Right: lit(int32(0)),
		}},
	}
	err := runErr(t, stmts)
	se, ok := err.(*errors.SlateError)
	if !ok || se.Kind != errors.ArithmeticError {
		t.Fatalf("expected ArithmeticError, got %v", err)
	}
	if se.Location.Line != 1 {
		t.Fatalf("expected error location line 1, got %d", se.Location.Line)
	}
}

// TestTestableProperty2StackAndFramesEmptyAfterCompletion checks that a
// completed top-level program leaves both stacks at depth 0, regardless
// of how many expressions it evaluated along the way.
func TestTestableProperty2StackAndFramesEmptyAfterCompletion(t *testing.T) {
	stmts := []ast.Stmt{
		&ast.ExpressionStmt{Pos: p(), Expr: &ast.Binary{Pos: p(), Left: lit(int32(1)), Operator: "+", Right: lit(int32(2))}},
		&ast.ExpressionStmt{Pos: p(), Expr: &ast.Binary{Pos: p(), Left: lit(int32(3)), Operator: "*", Right: lit(int32(4))}},
	}
	fn, err := compiler.Compile("test.sl", stmts)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	m := New()
	got, err := m.Interpret("test.sl", fn)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if m.stackTop != 0 {
		t.Fatalf("expected value stack depth 0 after completion, got %d", m.stackTop)
	}
	if m.frameCount != 0 {
		t.Fatalf("expected frame stack depth 0 after completion, got %d", m.frameCount)
	}
	value.Release(got)
}

// TestTestableProperty3RepeatedInterpretIsDeterministic checks that
// compiling once and interpreting the same function twice, on two fresh
// VMs, produces identical results.
func TestTestableProperty3RepeatedInterpretIsDeterministic(t *testing.T) {
	stmts := []ast.Stmt{
		&ast.ExpressionStmt{Pos: p(), Expr: &ast.Binary{
			Pos: p(), Left: lit(int32(17)), Operator: "*", Right: lit(int32(3)),
		}},
	}
	fn, err := compiler.Compile("test.sl", stmts)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	a, err := New().Interpret("test.sl", fn)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	b, err := New().Interpret("test.sl", fn)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if !value.Equals(a, b) {
		t.Fatalf("expected deterministic results, got %v and %v", a, b)
	}
	value.Release(a)
	value.Release(b)
}

// TestUndefinedGlobalRaisesNameError covers the NameError member of the
// error taxonomy.
func TestUndefinedGlobalRaisesNameError(t *testing.T) {
	stmts := []ast.Stmt{
		&ast.ExpressionStmt{Pos: p(), Expr: &ast.Variable{Pos: p(), Name: "doesNotExist"}},
	}
	err := runErr(t, stmts)
	se, ok := err.(*errors.SlateError)
	if !ok || se.Kind != errors.NameError {
		t.Fatalf("expected NameError, got %v", err)
	}
}

// TestCallingArityMismatchRaisesArityError covers the ArityError member of
// the error taxonomy by calling a zero-parameter function with one
// argument.
func TestCallingArityMismatchRaisesArityError(t *testing.T) {
	noop := &ast.FunctionStmt{
		Pos:  p(),
		Name: "noop",
		Body: []ast.Stmt{&ast.ReturnStmt{Pos: p(), Value: lit(int32(0))}},
	}
	stmts := []ast.Stmt{
		noop,
		&ast.ExpressionStmt{Pos: p(), Expr: &ast.CallExpr{
			Pos: p(), Callee: &ast.Variable{Pos: p(), Name: "noop"}, Args: []ast.Expr{lit(int32(1))},
		}},
	}
	err := runErr(t, stmts)
	se, ok := err.(*errors.SlateError)
	if !ok || se.Kind != errors.ArityError {
		t.Fatalf("expected ArityError, got %v", err)
	}
}

// TestIndexOutOfBoundsRaisesRangeError covers the RangeError member of the
// error taxonomy via an out-of-bounds array index.
func TestIndexOutOfBoundsRaisesRangeError(t *testing.T) {
	stmts := []ast.Stmt{
		&ast.LetStmt{Pos: p(), Name: "arr", Expr: &ast.ArrayExpr{Pos: p(), Elements: []ast.Expr{lit(int32(1))}}},
		&ast.ExpressionStmt{Pos: p(), Expr: &ast.IndexExpr{
			Pos: p(), Object: &ast.Variable{Pos: p(), Name: "arr"}, Index: lit(int32(5)),
		}},
	}
	err := runErr(t, stmts)
	se, ok := err.(*errors.SlateError)
	if !ok || se.Kind != errors.RangeError {
		t.Fatalf("expected RangeError, got %v", err)
	}
}

// TestDeepRecursionRaisesStackOverflowError covers the StackOverflowError
// member of the error taxonomy: a function that unconditionally calls
// itself must eventually exhaust the frame stack rather than loop
// forever.
func TestDeepRecursionRaisesStackOverflowError(t *testing.T) {
	recurse := &ast.FunctionStmt{
		Pos:  p(),
		Name: "recurse",
		Body: []ast.Stmt{
			&ast.ReturnStmt{Pos: p(), Value: &ast.CallExpr{
				Pos: p(), Callee: &ast.Variable{Pos: p(), Name: "recurse"},
			}},
		},
	}
	stmts := []ast.Stmt{
		recurse,
		&ast.ExpressionStmt{Pos: p(), Expr: &ast.CallExpr{
			Pos: p(), Callee: &ast.Variable{Pos: p(), Name: "recurse"},
		}},
	}
	err := runErr(t, stmts)
	se, ok := err.(*errors.SlateError)
	if !ok || se.Kind != errors.StackOverflowError {
		t.Fatalf("expected StackOverflowError, got %v", err)
	}
}

// TestWithMaxFramesOptionLowersTheRecursionCeiling checks the frame-depth
// tunable actually bounds execution: a shallow recursion that fits the
// default 256 frames must overflow a VM built with a ceiling of 4.
func TestWithMaxFramesOptionLowersTheRecursionCeiling(t *testing.T) {
	recurse := &ast.FunctionStmt{
		Pos:  p(),
		Name: "recurse",
		Body: []ast.Stmt{
			&ast.ReturnStmt{Pos: p(), Value: &ast.CallExpr{
				Pos: p(), Callee: &ast.Variable{Pos: p(), Name: "recurse"},
			}},
		},
	}
	stmts := []ast.Stmt{
		recurse,
		&ast.ExpressionStmt{Pos: p(), Expr: &ast.CallExpr{
			Pos: p(), Callee: &ast.Variable{Pos: p(), Name: "recurse"},
		}},
	}
	fn, err := compiler.Compile("test.sl", stmts)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	_, err = New(WithMaxFrames(4)).Interpret("test.sl", fn)
	se, ok := err.(*errors.SlateError)
	if !ok || se.Kind != errors.StackOverflowError {
		t.Fatalf("expected StackOverflowError with 4-frame ceiling, got %v", err)
	}
}

// TestCloseAfterInterpretReleasesHeldState is a smoke test that teardown
// after a completed run does not disturb a result the host still holds.
func TestCloseAfterInterpretReleasesHeldState(t *testing.T) {
	stmts := []ast.Stmt{
		&ast.ExpressionStmt{Pos: p(), Expr: lit("still mine")},
	}
	fn, err := compiler.Compile("test.sl", stmts)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	m := New()
	got, err := m.Interpret("test.sl", fn)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	m.Close()
	if got.Kind != value.KindString || got.AsString().Value() != "still mine" {
		t.Fatalf("expected result to survive Close, got %v", got)
	}
	value.Release(got)
}
