package ir_test

import (
	"testing"

	"github.com/nalgeon/be"

	"aslc/src/frontend"
	"aslc/src/ir"
)

// TestCollectSymbols verifies scope construction and type binding for every
// named entity of a small program.
func TestCollectSymbols(t *testing.T) {
	src := `
func f(x:float, v:array [3] of int) : float
  var y : float
  return y;
endfunc
func main()
  var a : array [3] of int
endfunc
`
	root, n, err := frontend.Parse(src)
	be.Err(t, err, nil)
	ir.CollectSymbols(root, n)
	be.Equal(t, 0, ir.Errs.Count())

	// The program node carries the global scope; functions are bound there.
	ft := ir.Symbols.GetGlobalFunctionType("f")
	be.True(t, ir.Types.IsFunctionTy(ft))
	be.Equal(t, 2, ir.Types.GetNumOfParameters(ft))
	be.True(t, ir.Types.IsFloatTy(ir.Types.GetFuncReturnType(ft)))
	be.True(t, ir.Types.IsArrayTy(ir.Types.GetParameterType(ft, 1)))

	mt := ir.Symbols.GetGlobalFunctionType("main")
	be.True(t, ir.Types.IsVoidFunction(mt))
	be.True(t, !ir.Symbols.NoMainProperlyDeclared())

	// Parameters and locals live in the function body scope.
	be.True(t, ir.Types.IsFloatTy(ir.Symbols.GetLocalSymbolType("f", "x")))
	be.True(t, ir.Types.IsArrayTy(ir.Symbols.GetLocalSymbolType("f", "v")))
	be.True(t, ir.Types.IsFloatTy(ir.Symbols.GetLocalSymbolType("f", "y")))
	be.True(t, ir.Types.IsArrayTy(ir.Symbols.GetLocalSymbolType("main", "a")))

	// Unknown names resolve to the error type.
	be.True(t, ir.Types.IsErrorTy(ir.Symbols.GetLocalSymbolType("f", "zz")))
	be.True(t, ir.Types.IsErrorTy(ir.Symbols.GetGlobalFunctionType("zz")))

	// Declaration nodes are decorated with their resolved types.
	fn := root.Children[0]
	be.True(t, ir.Decor.HasType(fn))
	be.True(t, ir.Types.IsFloatTy(ir.Decor.GetType(fn))) // Return type decoration.
	arrSpec := fn.Children[0].Children[1].Children[0]
	be.True(t, ir.Types.IsArrayTy(ir.Decor.GetType(arrSpec)))
	be.Equal(t, 3, ir.Types.GetArraySize(ir.Decor.GetType(arrSpec)))
}

// TestScopeStackLookup verifies deepest-first lookup and symbol classes.
func TestScopeStackLookup(t *testing.T) {
	src := `
func f(x:int)
  var y : int
endfunc
func main()
endfunc
`
	root, n, err := frontend.Parse(src)
	be.Err(t, err, nil)
	ir.CollectSymbols(root, n)

	// Re-enter the scopes the way the later passes do.
	ir.Symbols.PushScope(ir.Decor.GetScope(root))
	ir.Symbols.PushScope(ir.Decor.GetScope(root.Children[0]))

	be.True(t, ir.Symbols.IsParameterClass("x"))
	be.True(t, ir.Symbols.IsLocalVarClass("y"))
	be.True(t, ir.Symbols.IsFunctionClass("f")) // Found in the enclosing scope.
	be.True(t, !ir.Symbols.IsParameterClass("zz"))

	s, ok := ir.Symbols.FindInStack("x")
	be.True(t, ok)
	be.Equal(t, "x", s.Name)

	ir.Symbols.PopScope()
	// Outside the function body, x is no longer visible.
	_, ok = ir.Symbols.FindInStack("x")
	be.True(t, !ok)
	ir.Symbols.PopScope()
}
