package tac

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"aslc/src/frontend"
	"aslc/src/ir"
)

// compile runs the frontend and both analysis passes, then generates t-code.
// The source must be free of semantic diagnostics.
func compile(t *testing.T, src string) Code {
	t.Helper()
	root, n, err := frontend.Parse(src)
	be.Err(t, err, nil)
	ir.CollectSymbols(root, n)
	ir.TypeCheck(root)
	if ir.Errs.Count() > 0 {
		t.Fatalf("unexpected diagnostics:\n%s", ir.Errs.String())
	}
	return Generate(root)
}

// instrs returns the dumped instruction lines of the named subroutine.
func instrs(t *testing.T, c Code, name string) []string {
	t.Helper()
	for _, e1 := range c.Subrs {
		if e1.Name != name {
			continue
		}
		out := make([]string, len(e1.Instrs))
		for i1, e2 := range e1.Instrs {
			out[i1] = e2.Dump()
		}
		return out
	}
	t.Fatalf("no subroutine %q", name)
	return nil
}

// TestGenArithmetic pins the exact instruction stream of a constant addition.
func TestGenArithmetic(t *testing.T) {
	c := compile(t, `
func main()
  var x : int
  x = 2+3;
  write x;
endfunc
`)
	be.Equal(t, []string{
		"ILOAD %1 2",
		"ILOAD %2 3",
		"ADD %3 %1 %2",
		"LOAD x %3",
		"WRITEI x",
		"RETURN",
	}, instrs(t, c, "main"))

	// Declaration lines.
	be.Equal(t, 1, len(c.Subrs[0].Vars))
	be.Equal(t, Var{Name: "x", Type: "int", Size: 1}, c.Subrs[0].Vars[0])
}

// TestGenBooleans verifies the lowering of literals, relationals and logic.
func TestGenBooleans(t *testing.T) {
	c := compile(t, `
func main()
  var b : bool
  b = 1<2 and not false;
  write b;
endfunc
`)
	be.Equal(t, []string{
		"ILOAD %1 1",
		"ILOAD %2 2",
		"LT %3 %1 %2",
		"ILOAD %5 0",
		"NOT %6 %5",
		"AND %7 %3 %6",
		"LOAD b %7",
		"WRITEI b",
		"RETURN",
	}, instrs(t, c, "main"))
}

// TestGenNegatedRelations verifies that !=, > and >= lower as negations.
func TestGenNegatedRelations(t *testing.T) {
	c := compile(t, `
func main()
  var b : bool
  var x : int
  b = x > 1;
  b = x != 2;
  b = x >= 3;
endfunc
`)
	got := strings.Join(instrs(t, c, "main"), "\n")
	be.True(t, strings.Contains(got, "ILOAD %1 1\nLE %3 x %1\nNOT %2 %3\nLOAD b %2"))
	be.True(t, strings.Contains(got, "ILOAD %4 2\nEQ %6 x %4\nNOT %5 %6\nLOAD b %5"))
	be.True(t, strings.Contains(got, "ILOAD %7 3\nLT %9 x %7\nNOT %8 %9\nLOAD b %8"))
}

// TestGenModulo verifies the divide-multiply-subtract lowering over fresh
// temporaries.
func TestGenModulo(t *testing.T) {
	c := compile(t, `
func main()
  var x : int
  x = x % 4;
endfunc
`)
	be.Equal(t, []string{
		"ILOAD %1 4",
		"DIV %2 x %1",
		"MUL %3 %2 %1",
		"SUB %4 x %3",
		"LOAD x %4",
		"RETURN",
	}, instrs(t, c, "main"))
}

// TestGenWidening verifies implicit integer to float conversion in mixed
// arithmetic and argument passing.
func TestGenWidening(t *testing.T) {
	c := compile(t, `
func g(x:float) : float
  return x+1;
endfunc
func main()
  write g(2);
endfunc
`)
	be.Equal(t, []string{
		"ILOAD %1 1",
		"FLOAT %2 %1",
		"FADD %3 x %2",
		"LOAD _result %3",
		"RETURN",
	}, instrs(t, c, "g"))
	be.Equal(t, []string{
		"PUSH",
		"ILOAD %2 2",
		"FLOAT %3 %2",
		"PUSH %3",
		"CALL g",
		"POP",
		"POP %1",
		"WRITEF %1",
		"RETURN",
	}, instrs(t, c, "main"))

	// The return slot is the synthetic first parameter of g.
	be.Equal(t, Param{Name: "_result", Type: "float", ByRef: false}, c.Subrs[0].Params[0])
	be.Equal(t, Param{Name: "x", Type: "float", ByRef: false}, c.Subrs[0].Params[1])
}

// TestGenByRefParameter verifies that the address load happens at the call
// site and never inside the callee.
func TestGenByRefParameter(t *testing.T) {
	c := compile(t, `
func f(v:array [3] of int)
  v[0] = 7;
endfunc
func main()
  var a : array [3] of int
  f(a);
  write a[0];
endfunc
`)
	f := strings.Join(instrs(t, c, "f"), "\n")
	be.True(t, !strings.Contains(f, "ALOAD"))
	be.Equal(t, []string{
		"ILOAD %1 0",
		"LOAD %2 v",
		"ILOAD %3 7",
		"XLOAD %2 %1 %3",
		"RETURN",
	}, instrs(t, c, "f"))

	be.Equal(t, []string{
		"ALOAD %1 a",
		"PUSH %1",
		"CALL f",
		"POP",
		"ILOAD %2 0",
		"LOADX %3 a %2",
		"WRITEI %3",
		"RETURN",
	}, instrs(t, c, "main"))

	// The array parameter declares by reference with its element type.
	be.Equal(t, Param{Name: "v", Type: "int", ByRef: true}, c.Subrs[0].Params[0])
}

// TestGenByRefForwarding verifies that an array already held by reference is
// pushed as-is, without a second address load.
func TestGenByRefForwarding(t *testing.T) {
	c := compile(t, `
func f(v:array [3] of int)
  v[0] = 7;
endfunc
func g(w:array [3] of int)
  f(w);
endfunc
func main()
  var a : array [3] of int
  g(a);
endfunc
`)
	be.Equal(t, []string{
		"PUSH w",
		"CALL f",
		"POP",
		"RETURN",
	}, instrs(t, c, "g"))
}

// TestGenIfElse verifies the two jump shapes of conditionals.
func TestGenIfElse(t *testing.T) {
	c := compile(t, `
func main()
  var x : int
  if x == 0 then
    x = 1;
  endif
  if x == 1 then
    x = 2;
  else
    x = 3;
  endif
endfunc
`)
	got := strings.Join(instrs(t, c, "main"), "\n")
	be.True(t, strings.Contains(got, "FJUMP %2 Endif1"))
	be.True(t, strings.Contains(got, "LABEL Endif1"))
	be.True(t, strings.Contains(got, "FJUMP %6 If2"))
	be.True(t, strings.Contains(got, "UJUMP Else2"))
	be.True(t, strings.Contains(got, "LABEL If2"))
	be.True(t, strings.Contains(got, "LABEL Else2"))
}

// TestGenWhile verifies the loop shape and the inside-out label numbering of
// nested loops.
func TestGenWhile(t *testing.T) {
	c := compile(t, `
func main()
  var i, j : int
  while i < 3 do
    while j < 3 do
      j = j + 1;
    endwhile
    i = i + 1;
  endwhile
endfunc
`)
	got := strings.Join(instrs(t, c, "main"), "\n")
	// The inner loop draws its label first.
	be.True(t, strings.Contains(got, "LABEL While1"))
	be.True(t, strings.Contains(got, "FJUMP %5 EndWhile1"))
	be.True(t, strings.Contains(got, "UJUMP While2"))
	be.True(t, strings.Contains(got, "LABEL EndWhile2"))
	be.True(t, strings.HasPrefix(got, "LABEL While2"))
}

// TestGenArrayCopy verifies the back to front copy loop of array assignment.
func TestGenArrayCopy(t *testing.T) {
	c := compile(t, `
func main()
  var a, b : array [3] of int
  b = a;
endfunc
`)
	be.Equal(t, []string{
		"LOAD %3 2",
		"ILOAD %2 0",
		"ILOAD %1 1",
		"LABEL ArrayCpy1",
		"LE %4 %2 %3",
		"FJUMP %4 EndArrayCpy1",
		"LOADX %5 a %3",
		"XLOAD b %3 %5",
		"SUB %3 %3 %1",
		"UJUMP ArrayCpy1",
		"LABEL EndArrayCpy1",
		"RETURN",
	}, instrs(t, c, "main"))
}

// TestGenArrayCopyByRef verifies the pointer loads when either side of an
// array assignment is a by-reference parameter.
func TestGenArrayCopyByRef(t *testing.T) {
	c := compile(t, `
func f(v:array [2] of int)
  var l : array [2] of int
  l = v;
  v = l;
endfunc
func main()
  var a : array [2] of int
  f(a);
endfunc
`)
	got := strings.Join(instrs(t, c, "f"), "\n")
	// l = v loads the source pointer; v = l loads the destination pointer.
	be.True(t, strings.Contains(got, "LOAD %1 v"))
	be.True(t, strings.Contains(got, "LOADX %6 %1 %4"))
	be.True(t, strings.Contains(got, "LOAD %7 v"))
	be.True(t, strings.Contains(got, "XLOAD %7 %10 %12"))
}

// TestGenReadWrite verifies the read and write lowering, including the
// indexed read through a temporary.
func TestGenReadWrite(t *testing.T) {
	c := compile(t, `
func main()
  var a : array [3] of float
  var ch : char
  read ch;
  read a[0];
  write ch;
  write a[1];
  write "done\n";
endfunc
`)
	got := strings.Join(instrs(t, c, "main"), "\n")
	be.True(t, strings.Contains(got, "READC ch"))
	be.True(t, strings.Contains(got, "ILOAD %1 0\nREADF %2\nXLOAD a %1 %2"))
	be.True(t, strings.Contains(got, "WRITEC ch"))
	be.True(t, strings.Contains(got, "WRITEF %4"))
	be.True(t, strings.Contains(got, `WRITES "done\n"`))
}

// TestGenProcCallVoid verifies the call protocol without the return slot.
func TestGenProcCallVoid(t *testing.T) {
	c := compile(t, `
func p(x:int, y:int)
  write x;
  write y;
endfunc
func main()
  p(1, 2);
endfunc
`)
	be.Equal(t, []string{
		"ILOAD %1 1",
		"PUSH %1",
		"ILOAD %2 2",
		"PUSH %2",
		"CALL p",
		"POP",
		"POP",
		"RETURN",
	}, instrs(t, c, "main"))
}

// TestGenTrailingReturn verifies that the synthetic RETURN appears only when
// the user omitted one.
func TestGenTrailingReturn(t *testing.T) {
	c := compile(t, `
func e()
endfunc
func r()
  return;
endfunc
func main()
endfunc
`)
	be.Equal(t, []string{"RETURN"}, instrs(t, c, "e"))
	be.Equal(t, []string{"RETURN"}, instrs(t, c, "r"))
}

// TestGenCharLiterals verifies that character literals drop their quotes in
// the instruction stream.
func TestGenCharLiterals(t *testing.T) {
	c := compile(t, `
func main()
  var ch : char
  ch = 'a';
  ch = '\n';
endfunc
`)
	got := strings.Join(instrs(t, c, "main"), "\n")
	be.True(t, strings.Contains(got, "CHLOAD %1 a"))
	be.True(t, strings.Contains(got, `CHLOAD %2 \n`))
}

// TestGenDump verifies the line oriented dump format.
func TestGenDump(t *testing.T) {
	c := compile(t, `
func f(x:int) : int
  return x;
endfunc
func main()
  var a : array [2] of char
  write f(1);
endfunc
`)
	dump := c.Dump()
	be.True(t, strings.Contains(dump, "FUNCTION f\n  PARAM _result int\n  PARAM x int\n"))
	be.True(t, strings.Contains(dump, "FUNCTION main\n  LOCAL a char 2\n"))
	// Blank separator between subroutines.
	be.True(t, strings.Contains(dump, "\n\nFUNCTION main"))
}
