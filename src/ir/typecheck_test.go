package ir_test

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"aslc/src/frontend"
	"aslc/src/ir"
)

// check parses and runs the two analysis passes, returning the program root.
func check(t *testing.T, src string) *ir.Node {
	t.Helper()
	root, n, err := frontend.Parse(src)
	be.Err(t, err, nil)
	ir.CollectSymbols(root, n)
	ir.TypeCheck(root)
	return root
}

// TestCheckCleanProgram verifies that a well typed program produces no
// diagnostics and that every expression carries a type and an l-value flag.
func TestCheckCleanProgram(t *testing.T) {
	root := check(t, `
func inc(x:float) : float
  return x + 1;
endfunc
func main()
  var f : float
  var i : int
  var a : array [4] of int
  i = 3;
  f = inc(i);
  a[i-1] = i % 2;
  if f < 4 and true then
    write "ok\n";
  else
    write f;
  endif
  while i > 0 do
    i = i - 1;
  endwhile
  read a[0];
endfunc
`)
	be.Equal(t, 0, ir.Errs.Count())

	// Every expression node is decorated.
	var walk func(n *ir.Node, inExpr bool)
	walk = func(n *ir.Node, inExpr bool) {
		if n == nil {
			return
		}
		switch n.Typ {
		case ir.BINARY_EXPR, ir.UNARY_EXPR, ir.PAREN_EXPR, ir.CALL_EXPR,
			ir.ARRAY_INDEX, ir.INTEGER_DATA, ir.FLOAT_DATA, ir.CHAR_DATA,
			ir.BOOL_DATA:
			be.True(t, ir.Decor.HasType(n))
			be.True(t, ir.Decor.HasIsLValue(n))
		}
		for _, e1 := range n.Children {
			walk(e1, inExpr)
		}
	}
	walk(root, false)
}

// TestCheckIdempotent verifies that re-running the checker on the same
// decorated tree changes neither decorations nor diagnostics.
func TestCheckIdempotent(t *testing.T) {
	root := check(t, `
func main()
  var x : int
  x = true;
endfunc
`)
	first := ir.Errs.String()
	ir.TypeCheck(root)
	be.Equal(t, first, ir.Errs.String())
}

// TestCheckIncompatibleAssignment verifies scenario: one diagnostic at the
// position of the '=' token, and nothing else.
func TestCheckIncompatibleAssignment(t *testing.T) {
	check(t, `func main()
  var a : int
  a = true;
endfunc
`)
	be.Equal(t, 1, ir.Errs.Count())
	e := ir.Errs.List()[0]
	be.Equal(t, 3, e.Line)
	be.Equal(t, 5, e.Pos)
	be.True(t, strings.Contains(e.Msg, "assignment"))
}

// TestCheckUndeclaredAbsorbs verifies that an undeclared identifier reports
// once and absorbs follow-up diagnostics.
func TestCheckUndeclaredAbsorbs(t *testing.T) {
	check(t, `
func main()
  var x : int
  x = y + 1;
  x = y + 2;
endfunc
`)
	// One diagnostic per use of y; no cascaded operator or assignment errors.
	be.Equal(t, 2, ir.Errs.Count())
	for _, e1 := range ir.Errs.List() {
		be.True(t, strings.Contains(e1.Msg, "undeclared"))
	}
}

// TestCheckArrayAccess verifies index and base diagnostics.
func TestCheckArrayAccess(t *testing.T) {
	check(t, `
func main()
  var a : array [3] of int
  var x : int
  x = a[true];
  x = x[0];
endfunc
`)
	msgs := ir.Errs.String()
	be.True(t, strings.Contains(msgs, "array index must be of type int"))
	be.True(t, strings.Contains(msgs, "indexed value is not an array"))
	be.Equal(t, 2, ir.Errs.Count())
}

// TestCheckCalls verifies arity, argument and void-in-expression
// diagnostics, and that integer arguments feed float parameters silently.
func TestCheckCalls(t *testing.T) {
	check(t, `
func f(x:float) : float
  return x;
endfunc
func p()
endfunc
func main()
  var x : float
  x = f(1);
  x = f(1, 2);
  x = f(true);
  x = p();
  x = x(1);
endfunc
`)
	msgs := ir.Errs.String()
	be.True(t, strings.Contains(msgs, "wrong number of arguments"))
	be.True(t, strings.Contains(msgs, "argument 1 has an incompatible type"))
	be.True(t, strings.Contains(msgs, "void function used in an expression"))
	be.True(t, strings.Contains(msgs, "called identifier is not a function"))
	be.Equal(t, 4, ir.Errs.Count())
}

// TestCheckConditionsAndReturn verifies boolean conditions and return
// compatibility, with integer to float widening on return.
func TestCheckConditionsAndReturn(t *testing.T) {
	check(t, `
func g() : float
  return 1;
endfunc
func h() : int
  return 1.5;
endfunc
func v()
  return 1;
endfunc
func main()
  if 1 then
    write 1;
  endif
  while 2.5 do
    write 2;
  endwhile
endfunc
`)
	msgs := ir.Errs.String()
	be.True(t, strings.Contains(msgs, "condition must be of type bool"))
	be.True(t, strings.Contains(msgs, "incompatible return value"))
	// g returns int from a float function: allowed. h and v are errors,
	// plus the two conditions.
	be.Equal(t, 4, ir.Errs.Count())
}

// TestCheckReadWrite verifies the referenceability and basic type rules.
func TestCheckReadWrite(t *testing.T) {
	check(t, `
func main()
  var a : array [3] of int
  read a;
  write a;
  read main;
endfunc
`)
	msgs := ir.Errs.String()
	be.True(t, strings.Contains(msgs, "read and write require a value of basic type"))
	be.True(t, strings.Contains(msgs, "expression is not referenceable"))
}

// TestCheckDeclaredIdent verifies redeclaration diagnostics for variables,
// parameters and functions.
func TestCheckDeclaredIdent(t *testing.T) {
	check(t, `
func f(x:int, x:int)
endfunc
func f()
endfunc
func main()
  var y, y : int
endfunc
`)
	cnt := 0
	for _, e1 := range ir.Errs.List() {
		if strings.Contains(e1.Msg, "already declared") {
			cnt++
		}
	}
	be.Equal(t, 3, cnt)
}

// TestCheckNoMain verifies the main presence check.
func TestCheckNoMain(t *testing.T) {
	check(t, `
func notmain()
endfunc
`)
	be.True(t, strings.Contains(ir.Errs.String(), "main"))

	check(t, `
func main(x:int)
endfunc
`)
	be.True(t, strings.Contains(ir.Errs.String(), "main"))

	check(t, `
func main() : int
  return 0;
endfunc
`)
	be.True(t, strings.Contains(ir.Errs.String(), "main"))

	check(t, `
func main()
endfunc
`)
	be.Equal(t, 0, ir.Errs.Count())
}

// TestCheckArrayAssignment verifies that only same shape arrays copy.
func TestCheckArrayAssignment(t *testing.T) {
	check(t, `
func main()
  var a, b : array [3] of int
  var c : array [4] of int
  a = b;
  a = c;
endfunc
`)
	be.Equal(t, 1, ir.Errs.Count())
	be.True(t, strings.Contains(ir.Errs.String(), "assignment"))
}
