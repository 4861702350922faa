// typecheck.go implements the type checking pass: the second traversal, which
// decorates every expression with a type and an l-value flag and records
// semantic diagnostics. The error type is absorbing: a subtree that already
// failed never triggers new diagnostics in its ancestors.

package ir

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// checker holds the traversal state of the type checking pass.
type checker struct {
	curFn TypeId // Function type of the enclosing function; only the return type matters here.
}

// ----------------------
// ----- Functions ------
// ----------------------

// TypeCheck runs the type checking pass over the program rooted at root.
// Symbol collection must have run first. Diagnostics accumulate in Errs.
func TypeCheck(root *Node) {
	c := checker{}
	Symbols.PushScope(Decor.GetScope(root))
	for _, e1 := range root.Children {
		c.checkFunction(e1)
	}
	if Symbols.NoMainProperlyDeclared() {
		Errs.NoMainProperlyDeclared(root)
	}
	Symbols.PopScope()
}

// checkFunction re-opens the function's scope and checks its body.
func (c *checker) checkFunction(n *Node) {
	Symbols.PushScope(Decor.GetScope(n))
	c.curFn = Types.CreateFunctionTy(nil, Decor.GetType(n))
	c.checkStatements(n.Children[3])
	Symbols.PopScope()
}

// checkStatements checks every statement of a STATEMENT_LIST.
func (c *checker) checkStatements(n *Node) {
	for _, e1 := range n.Children {
		c.checkStatement(e1)
	}
}

// checkStatement dispatches over the statement node types.
func (c *checker) checkStatement(n *Node) {
	switch n.Typ {
	case ASSIGN_STATEMENT:
		c.checkAssign(n)
	case IF_STATEMENT:
		c.checkExpr(n.Children[0])
		t1 := Decor.GetType(n.Children[0])
		if !Types.IsErrorTy(t1) && !Types.IsBooleanTy(t1) {
			Errs.BooleanRequired(n)
		}
		for _, e1 := range n.Children[1:] {
			c.checkStatements(e1)
		}
	case WHILE_STATEMENT:
		c.checkExpr(n.Children[0])
		t1 := Decor.GetType(n.Children[0])
		if !Types.IsErrorTy(t1) && !Types.IsBooleanTy(t1) {
			Errs.BooleanRequired(n)
		}
		c.checkStatements(n.Children[1])
	case RETURN_STATEMENT:
		c.checkReturn(n)
	case READ_STATEMENT:
		c.checkLeftExpr(n.Children[0])
		t1 := Decor.GetType(n.Children[0])
		if !Types.IsErrorTy(t1) && !Types.IsPrimitiveTy(t1) && !Types.IsFunctionTy(t1) {
			Errs.ReadWriteRequireBasic(n)
		}
		if !Types.IsErrorTy(t1) && !Decor.GetIsLValue(n.Children[0]) {
			Errs.NonReferenceableExpression(n)
		}
	case WRITE_STATEMENT:
		c.checkExpr(n.Children[0])
		t1 := Decor.GetType(n.Children[0])
		if !Types.IsErrorTy(t1) && !Types.IsPrimitiveTy(t1) {
			Errs.ReadWriteRequireBasic(n)
		}
	case WRITE_STRING:
		// Strings appear only here and carry no decoration.
	case PROC_CALL:
		c.checkCall(n, false)
	}
}

// checkAssign checks an assignment statement. The node position is the
// position of the '=' token.
func (c *checker) checkAssign(n *Node) {
	lhs := n.Children[0]
	rhs := n.Children[1]
	c.checkLeftExpr(lhs)
	c.checkExpr(rhs)
	t1 := Decor.GetType(lhs)
	t2 := Decor.GetType(rhs)

	if !Types.IsErrorTy(t1) && !Types.IsErrorTy(t2) && !Types.IsVoidTy(t2) &&
		!Types.CopyableTypes(t1, t2) {
		Errs.IncompatibleAssignment(n)
	}
	if !Types.IsErrorTy(t1) && !Decor.GetIsLValue(lhs) {
		Errs.NonReferenceableLeftExpr(lhs)
	}
}

// checkReturn checks a return statement against the enclosing function type.
// Integer values may be returned from float functions by implicit widening.
func (c *checker) checkReturn(n *Node) {
	if len(n.Children) > 0 {
		c.checkExpr(n.Children[0])
		tExpr := Decor.GetType(n.Children[0])
		tRet := Types.GetFuncReturnType(c.curFn)

		if !Types.IsErrorTy(tExpr) && Types.IsVoidFunction(c.curFn) {
			Errs.IncompatibleReturn(n)
		} else if !Types.IsErrorTy(tExpr) && !Types.EqualTypes(tRet, tExpr) {
			if !(Types.IsFloatTy(tRet) && Types.IsIntegerTy(tExpr)) {
				Errs.IncompatibleReturn(n)
			}
		}
	} else if !Types.IsVoidFunction(c.curFn) {
		Errs.IncompatibleReturn(n)
	}
}

// checkLeftExpr checks an expression in left hand side position: a plain
// identifier or an indexed identifier.
func (c *checker) checkLeftExpr(n *Node) {
	switch n.Typ {
	case IDENTIFIER_DATA:
		c.checkIdent(n)
	case ARRAY_INDEX:
		c.checkArrayIndex(n, true)
	}
}

// checkExpr checks an expression node and decorates it with a type and an
// l-value flag.
func (c *checker) checkExpr(n *Node) {
	switch n.Typ {
	case IDENTIFIER_DATA:
		c.checkIdent(n)
	case ARRAY_INDEX:
		c.checkArrayIndex(n, false)
	case CALL_EXPR:
		c.checkCall(n, true)
	case UNARY_EXPR:
		c.checkUnary(n)
	case BINARY_EXPR:
		c.checkBinary(n)
	case PAREN_EXPR:
		c.checkExpr(n.Children[0])
		Decor.PutType(n, Decor.GetType(n.Children[0]))
		Decor.PutIsLValue(n, false)
	case INTEGER_DATA:
		Decor.PutType(n, Types.CreateIntegerTy())
		Decor.PutIsLValue(n, false)
	case FLOAT_DATA:
		Decor.PutType(n, Types.CreateFloatTy())
		Decor.PutIsLValue(n, false)
	case CHAR_DATA:
		Decor.PutType(n, Types.CreateCharacterTy())
		Decor.PutIsLValue(n, false)
	case BOOL_DATA:
		Decor.PutType(n, Types.CreateBooleanTy())
		Decor.PutIsLValue(n, false)
	}
}

// checkIdent resolves an identifier use. Undeclared identifiers decorate as
// the error type but keep the l-value flag set, avoiding a cascade of
// referenceability diagnostics.
func (c *checker) checkIdent(n *Node) {
	name := n.Data.(string)
	if _, ok := Symbols.FindInStack(name); !ok {
		Errs.UndeclaredIdent(n)
		Decor.PutType(n, Types.CreateErrorTy())
		Decor.PutIsLValue(n, true)
		return
	}
	Decor.PutType(n, Symbols.GetType(name))
	Decor.PutIsLValue(n, !Symbols.IsFunctionClass(name))
}

// checkArrayIndex checks an indexed access, both in expression and left hand
// side position. The index must be an integer and the base an array; the
// result is the element type with the base's l-value flag.
func (c *checker) checkArrayIndex(n *Node, left bool) {
	ident := n.Children[0]
	idx := n.Children[1]
	c.checkIdent(ident)
	c.checkExpr(idx)

	tExp := Decor.GetType(idx)
	t := Decor.GetType(ident)
	isLval := Decor.GetIsLValue(ident)
	decoration := t

	if !Types.IsErrorTy(t) && !Types.IsArrayTy(t) {
		decoration = Types.CreateErrorTy()
		if left {
			isLval = false
		}
		Errs.NonArrayInArrayAccess(n)
	}
	if !Types.IsErrorTy(tExp) && !Types.IsIntegerTy(tExp) {
		Errs.NonIntegerIndexInArrayAccess(idx)
	}
	if Types.IsArrayTy(t) {
		decoration = Types.GetArrayElemType(t)
	}

	Decor.PutType(n, decoration)
	Decor.PutIsLValue(n, isLval)
}

// checkCall checks a function call, in expression position when expr is true
// and in statement position otherwise. Arity and per argument compatibility
// are verified; integer arguments may feed float parameters by implicit
// widening. A void function in expression position is a diagnostic.
func (c *checker) checkCall(n *Node, expr bool) {
	ident := n.Children[0]
	c.checkIdent(ident)
	t := Decor.GetType(ident)

	args := n.Children[1:]
	argTypes := make([]TypeId, len(args))
	for i1, e1 := range args {
		c.checkExpr(e1)
		argTypes[i1] = Decor.GetType(e1)
	}

	if Types.IsErrorTy(t) {
		Decor.PutType(n, Types.CreateErrorTy())
	} else if !Types.IsFunctionTy(t) {
		Errs.IsNotCallable(n)
		Decor.PutType(n, Types.CreateErrorTy())
	} else {
		Decor.PutType(n, Types.GetFuncReturnType(t))

		if len(args) != Types.GetNumOfParameters(t) {
			Errs.NumberOfParameters(ident)
			Decor.PutIsLValue(n, false)
			return
		}
		params := Types.GetFuncParamsTypes(t)
		for i1 := range args {
			if !Types.EqualTypes(argTypes[i1], params[i1]) {
				if !Types.IsErrorTy(argTypes[i1]) &&
					!(Types.IsIntegerTy(argTypes[i1]) && Types.IsFloatTy(params[i1])) {
					Errs.IncompatibleParameter(args[i1], i1+1)
				}
			}
		}
		if expr && Types.IsVoidFunction(t) {
			Errs.IsNotFunction(n)
		}
	}

	Decor.PutIsLValue(n, false)
}

// checkUnary checks a unary expression. Plus and minus require a numeric
// operand; not requires a boolean operand.
func (c *checker) checkUnary(n *Node) {
	op := n.Data.(string)
	c.checkExpr(n.Children[0])
	t := Decor.GetType(n.Children[0])

	if !Types.IsErrorTy(t) {
		if (op == "+" || op == "-") && !Types.IsNumericTy(t) {
			Errs.IncompatibleOperator(n, op)
		} else if op == "not" && !Types.IsBooleanTy(t) {
			Errs.IncompatibleOperator(n, op)
		}
	}

	if op == "not" {
		Decor.PutType(n, Types.CreateBooleanTy())
	} else if Types.IsFloatTy(t) {
		Decor.PutType(n, Types.CreateFloatTy())
	} else {
		Decor.PutType(n, Types.CreateIntegerTy())
	}
	Decor.PutIsLValue(n, false)
}

// checkBinary dispatches a binary expression to the arithmetic, relational or
// logical rules based on its operator.
func (c *checker) checkBinary(n *Node) {
	op := n.Data.(string)
	c.checkExpr(n.Children[0])
	t1 := Decor.GetType(n.Children[0])
	c.checkExpr(n.Children[1])
	t2 := Decor.GetType(n.Children[1])

	switch op {
	case "+", "-", "*", "/", "%":
		var ret TypeId
		if op == "%" {
			// Modulo accepts integers only. The behaviour for negative
			// operands matches the dividend's sign.
			if (!Types.IsErrorTy(t1) && !Types.IsIntegerTy(t1)) ||
				(!Types.IsErrorTy(t2) && !Types.IsIntegerTy(t2)) {
				Errs.IncompatibleOperator(n, op)
			}
			ret = Types.CreateIntegerTy()
		} else {
			if (!Types.IsErrorTy(t1) && !Types.IsNumericTy(t1)) ||
				(!Types.IsErrorTy(t2) && !Types.IsNumericTy(t2)) {
				Errs.IncompatibleOperator(n, op)
			}
			if Types.IsFloatTy(t1) || Types.IsFloatTy(t2) {
				ret = Types.CreateFloatTy()
			} else {
				ret = Types.CreateIntegerTy()
			}
		}
		Decor.PutType(n, ret)
	case "==", "!=", "<", "<=", ">", ">=":
		if !Types.IsErrorTy(t1) && !Types.IsErrorTy(t2) &&
			!Types.ComparableTypes(t1, t2, op) {
			Errs.IncompatibleOperator(n, op)
		}
		Decor.PutType(n, Types.CreateBooleanTy())
	case "and", "or":
		if (!Types.IsErrorTy(t1) && !Types.IsBooleanTy(t1)) ||
			(!Types.IsErrorTy(t2) && !Types.IsBooleanTy(t2)) {
			Errs.IncompatibleOperator(n, op)
		}
		Decor.PutType(n, Types.CreateBooleanTy())
	}
	Decor.PutIsLValue(n, false)
}
