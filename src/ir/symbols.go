// symbols.go implements the symbol collection pass: one top-down traversal
// that creates scopes, binds every declared identifier and decorates
// declaration nodes with their resolved types.

package ir

import "strconv"

// ----------------------
// ----- Functions ------
// ----------------------

// CollectSymbols builds the symbol table for the program rooted at root.
// nodeCount is the parser's node counter, used to size the decoration store.
// The pass resets the types registry, the symbol table, the decoration store
// and the diagnostic sink of the compilation unit.
func CollectSymbols(root *Node, nodeCount int) {
	Types.Reset()
	Symbols.Reset()
	Decor.Reset(nodeCount)
	Errs.Reset()

	sc := Symbols.PushNewScope(GlobalScopeName)
	Decor.PutScope(root, sc)
	for _, e1 := range root.Children {
		e1.collectFunction()
	}
	Symbols.PopScope()
}

// collectFunction opens the function's scope, binds its parameters and local
// variables, then registers the function itself in the enclosing scope.
func (n *Node) collectFunction() {
	name := n.Data.(string)
	sc := Symbols.PushNewScope(name)
	Decor.PutScope(n, sc)

	// Parameters.
	lParams := make([]TypeId, 0, len(n.Children[0].Children))
	for _, e1 := range n.Children[0].Children {
		t := e1.Children[0].collectTypeSpec()
		pname := e1.Data.(string)
		if Symbols.FindInCurrentScope(pname) {
			Errs.DeclaredIdent(e1)
		} else {
			Symbols.AddParameter(pname, t)
			lParams = append(lParams, t)
		}
	}

	// Return type. The function node is decorated with its return type; the
	// full function type lives in the symbol table entry.
	tRet := Types.CreateVoidTy()
	if n.Children[1] != nil {
		tRet = n.Children[1].collectBasicType()
	}
	Decor.PutType(n, tRet)

	// Local variables.
	for _, e1 := range n.Children[2].Children {
		t := e1.Children[0].collectTypeSpec()
		for _, e2 := range e1.Children[1:] {
			vname := e2.Data.(string)
			if Symbols.FindInCurrentScope(vname) {
				Errs.DeclaredIdent(e2)
			} else {
				Symbols.AddLocalVar(vname, t)
			}
		}
	}

	Symbols.PopScope()

	if Symbols.FindInCurrentScope(name) {
		Errs.DeclaredIdent(n)
	} else {
		Symbols.AddFunction(name, Types.CreateFunctionTy(lParams, tRet))
	}
}

// collectTypeSpec resolves a TYPE_SPEC node to a type id and decorates the node.
func (n *Node) collectTypeSpec() TypeId {
	telem := n.Children[0].collectBasicType()
	t := telem
	if n.Data != nil {
		// Array type: the node data holds the size literal.
		size, err := strconv.Atoi(n.Data.(string))
		if err != nil || size < 0 {
			size = 0
		}
		t = Types.CreateArrayTy(size, telem)
	}
	Decor.PutType(n, t)
	return t
}

// collectBasicType resolves a BASIC_TYPE node to a scalar type id and
// decorates the node.
func (n *Node) collectBasicType() TypeId {
	var t TypeId
	switch n.Data.(string) {
	case "int":
		t = Types.CreateIntegerTy()
	case "float":
		t = Types.CreateFloatTy()
	case "bool":
		t = Types.CreateBooleanTy()
	case "char":
		t = Types.CreateCharacterTy()
	default:
		t = Types.CreateErrorTy()
	}
	Decor.PutType(n, t)
	return t
}
