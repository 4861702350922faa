package ir

import (
	"testing"

	"github.com/nalgeon/be"
)

// TestTypesInterning verifies that structural types share handles.
func TestTypesInterning(t *testing.T) {
	tm := TypesMgr{}
	tm.Reset()

	a1 := tm.CreateArrayTy(3, tm.CreateIntegerTy())
	a2 := tm.CreateArrayTy(3, tm.CreateIntegerTy())
	a3 := tm.CreateArrayTy(4, tm.CreateIntegerTy())
	be.Equal(t, a1, a2)
	be.True(t, a1 != a3)

	f1 := tm.CreateFunctionTy([]TypeId{tm.CreateIntegerTy(), a1}, tm.CreateFloatTy())
	f2 := tm.CreateFunctionTy([]TypeId{tm.CreateIntegerTy(), a2}, tm.CreateFloatTy())
	be.Equal(t, f1, f2)

	be.True(t, tm.IsArrayTy(a1))
	be.Equal(t, 3, tm.GetArraySize(a1))
	be.Equal(t, tm.CreateIntegerTy(), tm.GetArrayElemType(a1))
	be.True(t, tm.IsFunctionTy(f1))
	be.Equal(t, 2, tm.GetNumOfParameters(f1))
	be.Equal(t, tm.CreateFloatTy(), tm.GetFuncReturnType(f1))
}

// TestTypesPredicates verifies the classification predicates.
func TestTypesPredicates(t *testing.T) {
	tm := TypesMgr{}
	tm.Reset()

	be.True(t, tm.IsNumericTy(tm.CreateIntegerTy()))
	be.True(t, tm.IsNumericTy(tm.CreateFloatTy()))
	be.True(t, !tm.IsNumericTy(tm.CreateBooleanTy()))
	be.True(t, tm.IsPrimitiveTy(tm.CreateCharacterTy()))
	be.True(t, !tm.IsPrimitiveTy(tm.CreateVoidTy()))
	be.True(t, tm.IsErrorTy(tm.CreateErrorTy()))

	vf := tm.CreateFunctionTy(nil, tm.CreateVoidTy())
	be.True(t, tm.IsVoidFunction(vf))
	nf := tm.CreateFunctionTy(nil, tm.CreateIntegerTy())
	be.True(t, !tm.IsVoidFunction(nf))
}

// TestTypesCopyable verifies assignment compatibility with integer widening.
func TestTypesCopyable(t *testing.T) {
	tm := TypesMgr{}
	tm.Reset()

	be.True(t, tm.CopyableTypes(tm.CreateIntegerTy(), tm.CreateIntegerTy()))
	be.True(t, tm.CopyableTypes(tm.CreateFloatTy(), tm.CreateIntegerTy()))
	be.True(t, !tm.CopyableTypes(tm.CreateIntegerTy(), tm.CreateFloatTy()))
	be.True(t, !tm.CopyableTypes(tm.CreateIntegerTy(), tm.CreateBooleanTy()))

	a1 := tm.CreateArrayTy(3, tm.CreateIntegerTy())
	a2 := tm.CreateArrayTy(3, tm.CreateIntegerTy())
	a3 := tm.CreateArrayTy(3, tm.CreateFloatTy())
	be.True(t, tm.CopyableTypes(a1, a2))
	be.True(t, !tm.CopyableTypes(a1, a3))
}

// TestTypesComparable verifies the relational compatibility rules.
func TestTypesComparable(t *testing.T) {
	tm := TypesMgr{}
	tm.Reset()

	ti := tm.CreateIntegerTy()
	tf := tm.CreateFloatTy()
	tb := tm.CreateBooleanTy()
	tc := tm.CreateCharacterTy()

	// Numerics are cross comparable under every operator.
	for _, op := range []string{"==", "!=", "<", "<=", ">", ">="} {
		be.True(t, tm.ComparableTypes(ti, tf, op))
	}
	// Booleans only compare for equality.
	be.True(t, tm.ComparableTypes(tb, tb, "=="))
	be.True(t, tm.ComparableTypes(tb, tb, "!="))
	be.True(t, !tm.ComparableTypes(tb, tb, "<"))
	// Characters compare against characters.
	be.True(t, tm.ComparableTypes(tc, tc, "<"))
	be.True(t, !tm.ComparableTypes(tc, ti, "=="))
}

// TestTypesToString verifies the printable spellings.
func TestTypesToString(t *testing.T) {
	tm := TypesMgr{}
	tm.Reset()

	be.Equal(t, "int", tm.ToString(tm.CreateIntegerTy()))
	be.Equal(t, "float", tm.ToString(tm.CreateFloatTy()))
	be.Equal(t, "bool", tm.ToString(tm.CreateBooleanTy()))
	be.Equal(t, "char", tm.ToString(tm.CreateCharacterTy()))
	a := tm.CreateArrayTy(5, tm.CreateCharacterTy())
	be.Equal(t, "array[5] of char", tm.ToString(a))
}
