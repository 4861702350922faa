// gen.go implements the three-address code generator: the third traversal,
// which lowers the decorated tree to per function instruction lists over
// typed temporaries and local names. Every expression visitor returns an
// attribute triple (addr, offs, code): the token naming its value, the index
// temporary for indexed left expressions, and the instructions that must run
// before addr is usable.

package tac

import (
	"strconv"

	"aslc/src/ir"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// CodeAttribs is the attribute triple returned by the expression visitors.
type CodeAttribs struct {
	Addr string        // T-code token naming the value: a variable, a temporary or a literal.
	Offs string        // Index temporary, set only for indexed left expressions.
	Code []Instruction // Instructions that must run before Addr is usable.
}

// generator holds the traversal state of the code generation pass.
type generator struct {
	c counters
}

// ----------------------
// ----- Functions ------
// ----------------------

// Generate lowers the decorated program rooted at root to three-address code.
// Symbol collection and type checking must have run; in the presence of
// semantic diagnostics the generated code carries no correctness obligation.
func Generate(root *ir.Node) Code {
	g := generator{}
	code := Code{}
	ir.Symbols.PushScope(ir.Decor.GetScope(root))
	for _, e1 := range root.Children {
		code.AddSubroutine(g.genFunction(e1))
	}
	ir.Symbols.PopScope()
	return code
}

// cat concatenates instruction lists into a fresh slice.
func cat(lists ...[]Instruction) []Instruction {
	n := 0
	for _, e1 := range lists {
		n += len(e1)
	}
	out := make([]Instruction, 0, n)
	for _, e1 := range lists {
		out = append(out, e1...)
	}
	return out
}

// genFunction lowers one function to a subroutine. Temporary and label
// numbering restarts per function.
func (g *generator) genFunction(n *ir.Node) Subroutine {
	ir.Symbols.PushScope(ir.Decor.GetScope(n))
	subr := NewSubroutine(n.Data.(string))
	g.c.reset()

	// Local variables. Arrays declare their element type and count.
	for _, e1 := range n.Children[2].Children {
		t1 := ir.Decor.GetType(e1.Children[0])
		size := ir.Types.GetSizeOfType(t1)
		for _, e2 := range e1.Children[1:] {
			if ir.Types.IsArrayTy(t1) {
				subr.AddVar(e2.Data.(string), ir.Types.ToString(ir.Types.GetArrayElemType(t1)), size)
			} else {
				subr.AddVar(e2.Data.(string), ir.Types.ToString(t1), size)
			}
		}
	}

	// The return slot of non void functions is the synthetic first parameter.
	if n.Children[1] != nil {
		t := ir.Decor.GetType(n.Children[1])
		subr.AddParam("_result", ir.Types.ToString(t), false)
	}

	// Formal parameters. Arrays are passed by reference; the passing
	// semantics lives in the flag, not the type.
	for _, e1 := range n.Children[0].Children {
		t := ir.Decor.GetType(e1.Children[0])
		if ir.Types.IsArrayTy(t) {
			subr.AddParam(e1.Data.(string), ir.Types.ToString(ir.Types.GetArrayElemType(t)), true)
		} else {
			subr.AddParam(e1.Data.(string), ir.Types.ToString(t), false)
		}
	}

	code := g.genStatements(n.Children[3])
	if len(code) == 0 || code[len(code)-1].Oper != RETURN {
		code = append(code, Ins(RETURN))
	}
	subr.SetInstructions(code)
	ir.Symbols.PopScope()
	return subr
}

// genStatements lowers a STATEMENT_LIST.
func (g *generator) genStatements(n *ir.Node) []Instruction {
	var code []Instruction
	for _, e1 := range n.Children {
		code = cat(code, g.genStatement(e1))
	}
	return code
}

// genStatement dispatches over the statement node types.
func (g *generator) genStatement(n *ir.Node) []Instruction {
	switch n.Typ {
	case ir.ASSIGN_STATEMENT:
		return g.genAssign(n)
	case ir.IF_STATEMENT:
		return g.genIf(n)
	case ir.WHILE_STATEMENT:
		return g.genWhile(n)
	case ir.RETURN_STATEMENT:
		return g.genReturn(n)
	case ir.READ_STATEMENT:
		return g.genRead(n)
	case ir.WRITE_STATEMENT:
		return g.genWrite(n)
	case ir.WRITE_STRING:
		return []Instruction{Ins(WRITES, n.Data.(string))}
	case ir.PROC_CALL:
		return g.genProcCall(n)
	}
	return nil
}

// genAssign lowers an assignment. Array to array assignment becomes a back to
// front element copy loop; scalar assignment is a LOAD, or an XLOAD when the
// left side is indexed. The right side widens into float where required.
func (g *generator) genAssign(n *ir.Node) []Instruction {
	codAts1 := g.genLeftExpr(n.Children[0])
	addr1, offs1 := codAts1.Addr, codAts1.Offs
	tid1 := ir.Decor.GetType(n.Children[0])

	codAts2 := g.genExpr(n.Children[1])
	addr2 := codAts2.Addr
	tid2 := ir.Decor.GetType(n.Children[1])

	code := cat(codAts1.Code, codAts2.Code)

	if ir.Types.IsArrayTy(tid1) && ir.Types.IsArrayTy(tid2) {
		labelStart := "ArrayCpy" + g.c.newLabelWhile()
		labelEnd := "End" + labelStart

		// A side that is not a local variable is a by-reference parameter
		// holding a pointer; load the address first.
		if !ir.Symbols.IsLocalVarClass(addr1) {
			r7 := g.c.newTemp()
			code = append(code, Ins(LOAD, r7, addr1))
			addr1 = r7
		}
		if !ir.Symbols.IsLocalVarClass(addr2) {
			r6 := g.c.newTemp()
			code = append(code, Ins(LOAD, r6, addr2))
			addr2 = r6
		}

		// Sizes match by precondition: the type checker rejects mismatches.
		numElements := strconv.Itoa(ir.Types.GetArraySize(tid1) - 1)

		constantOne := g.c.newTemp()
		constantZero := g.c.newTemp()
		iTemp := g.c.newTemp()
		condTemp := g.c.newTemp()
		elemTemp := g.c.newTemp()

		code = append(code,
			Ins(LOAD, iTemp, numElements),
			Ins(ILOAD, constantZero, "0"),
			Ins(ILOAD, constantOne, "1"),
			Ins(LABEL, labelStart),
			Ins(LE, condTemp, constantZero, iTemp),
			Ins(FJUMP, condTemp, labelEnd),
			Ins(LOADX, elemTemp, addr2, iTemp),
			Ins(XLOAD, addr1, iTemp, elemTemp),
			Ins(SUB, iTemp, iTemp, constantOne),
			Ins(UJUMP, labelStart),
			Ins(LABEL, labelEnd),
		)
		return code
	}

	if ir.Types.IsFloatTy(tid1) && ir.Types.IsIntegerTy(tid2) {
		tempF := g.c.newTemp()
		code = append(code, Ins(FLOAT, tempF, addr2))
		addr2 = tempF
	}
	if offs1 != "" {
		code = append(code, Ins(XLOAD, addr1, offs1, addr2))
	} else {
		code = append(code, Ins(LOAD, addr1, addr2))
	}
	return code
}

// genIf lowers an if statement, with or without an else branch. The bodies
// are lowered before the label suffix is drawn.
func (g *generator) genIf(n *ir.Node) []Instruction {
	codAtsE := g.genExpr(n.Children[0])

	if len(n.Children) == 2 {
		code2 := g.genStatements(n.Children[1])
		label := g.c.newLabelIf()
		labelEndIf := "Endif" + label
		return cat(codAtsE.Code,
			[]Instruction{Ins(FJUMP, codAtsE.Addr, labelEndIf)},
			code2,
			[]Instruction{Ins(LABEL, labelEndIf)})
	}

	code2 := g.genStatements(n.Children[1])
	code3 := g.genStatements(n.Children[2])
	label := g.c.newLabelIf()
	lab1 := "If" + label
	lab2 := "Else" + label
	return cat(codAtsE.Code,
		[]Instruction{Ins(FJUMP, codAtsE.Addr, lab1)},
		code2,
		[]Instruction{Ins(UJUMP, lab2), Ins(LABEL, lab1)},
		code3,
		[]Instruction{Ins(LABEL, lab2)})
}

// genWhile lowers a while statement. The body is lowered before the label
// suffix is drawn, so nested loops number inside out.
func (g *generator) genWhile(n *ir.Node) []Instruction {
	codAtsE := g.genExpr(n.Children[0])
	code2 := g.genStatements(n.Children[1])

	label := g.c.newLabelWhile()
	lab1 := "While" + label
	lab2 := "EndWhile" + label

	return cat([]Instruction{Ins(LABEL, lab1)},
		codAtsE.Code,
		[]Instruction{Ins(FJUMP, codAtsE.Addr, lab2)},
		code2,
		[]Instruction{Ins(UJUMP, lab1), Ins(LABEL, lab2)})
}

// genReturn lowers a return statement. A returned value moves through the
// synthetic _result slot.
func (g *generator) genReturn(n *ir.Node) []Instruction {
	if len(n.Children) == 0 {
		return []Instruction{Ins(RETURN)}
	}
	codAtsE := g.genExpr(n.Children[0])
	return cat(codAtsE.Code, []Instruction{
		Ins(LOAD, "_result", codAtsE.Addr),
		Ins(RETURN),
	})
}

// genRead lowers a read statement. Indexed targets read into a fresh
// temporary followed by an XLOAD.
func (g *generator) genRead(n *ir.Node) []Instruction {
	codAtsE := g.genLeftExpr(n.Children[0])
	addr1, offs1 := codAtsE.Addr, codAtsE.Offs
	code := codAtsE.Code
	tid1 := ir.Decor.GetType(n.Children[0])

	readOp := READC
	if ir.Types.IsIntegerTy(tid1) || ir.Types.IsBooleanTy(tid1) {
		readOp = READI
	} else if ir.Types.IsFloatTy(tid1) {
		readOp = READF
	}

	if offs1 != "" {
		temp := g.c.newTemp()
		code = append(code, Ins(readOp, temp), Ins(XLOAD, addr1, offs1, temp))
	} else {
		code = append(code, Ins(readOp, addr1))
	}
	return code
}

// genWrite lowers a write statement. Booleans write as integers.
func (g *generator) genWrite(n *ir.Node) []Instruction {
	codAts := g.genExpr(n.Children[0])
	tid1 := ir.Decor.GetType(n.Children[0])

	writeOp := WRITEC
	if ir.Types.IsIntegerTy(tid1) || ir.Types.IsBooleanTy(tid1) {
		writeOp = WRITEI
	} else if ir.Types.IsFloatTy(tid1) {
		writeOp = WRITEF
	}
	return cat(codAts.Code, []Instruction{Ins(writeOp, codAts.Addr)})
}

// genProcCall lowers a call in statement position. The leading return slot
// PUSH and the trailing receiving POP are suppressed for void callees.
func (g *generator) genProcCall(n *ir.Node) []Instruction {
	ftype := ir.Decor.GetType(n.Children[0])
	isVoid := ir.Types.IsFunctionTy(ftype) && ir.Types.IsVoidFunction(ftype)

	var code []Instruction
	if !isVoid {
		code = append(code, Ins(PUSH))
	}
	code = g.genCallArgs(n, code, ftype)
	code = append(code, Ins(CALL, n.Children[0].Data.(string)))
	for range n.Children[1:] {
		code = append(code, Ins(POP))
	}
	if !isVoid {
		code = append(code, Ins(POP))
	}
	return code
}

// genCall lowers a call in expression position: push the return slot, push
// the arguments, call, drop the argument slots, receive the return value.
func (g *generator) genCall(n *ir.Node) CodeAttribs {
	temp := g.c.newTemp()
	ftype := ir.Decor.GetType(n.Children[0])

	code := []Instruction{Ins(PUSH)}
	code = g.genCallArgs(n, code, ftype)
	code = append(code, Ins(CALL, n.Children[0].Data.(string)))
	for range n.Children[1:] {
		code = append(code, Ins(POP))
	}
	code = append(code, Ins(POP, temp))
	return CodeAttribs{Addr: temp, Code: code}
}

// genCallArgs evaluates and pushes the call arguments. Integer arguments
// widen into float parameters, and array arguments not already held in a
// by-reference parameter are pushed by address.
func (g *generator) genCallArgs(n *ir.Node, code []Instruction, ftype ir.TypeId) []Instruction {
	var params []ir.TypeId
	if ir.Types.IsFunctionTy(ftype) {
		params = ir.Types.GetFuncParamsTypes(ftype)
	}
	for i1, e1 := range n.Children[1:] {
		codAts := g.genExpr(e1)
		addr := codAts.Addr
		code1 := codAts.Code
		tparam := ir.Decor.GetType(e1)

		if i1 < len(params) && ir.Types.IsFloatTy(params[i1]) && ir.Types.IsIntegerTy(tparam) {
			tempAddr := g.c.newTemp()
			code1 = append(code1, Ins(FLOAT, tempAddr, addr))
			addr = tempAddr
		} else if ir.Types.IsArrayTy(tparam) && !ir.Symbols.IsParameterClass(addr) {
			tempAddr := g.c.newTemp()
			code1 = append(code1, Ins(ALOAD, tempAddr, addr))
			addr = tempAddr
		}

		code = cat(code, code1, []Instruction{Ins(PUSH, addr)})
	}
	return code
}

// genLeftExpr lowers a left expression to its attribute triple. For an
// indexed by-reference parameter the held pointer loads into a temporary
// first.
func (g *generator) genLeftExpr(n *ir.Node) CodeAttribs {
	switch n.Typ {
	case ir.IDENTIFIER_DATA:
		return CodeAttribs{Addr: n.Data.(string)}
	case ir.ARRAY_INDEX:
		addrID := n.Children[0].Data.(string)
		codAtIdx := g.genExpr(n.Children[1])
		code := codAtIdx.Code
		if ir.Symbols.IsParameterClass(addrID) {
			temp := g.c.newTemp()
			code = append(code, Ins(LOAD, temp, addrID))
			addrID = temp
		}
		return CodeAttribs{Addr: addrID, Offs: codAtIdx.Addr, Code: code}
	}
	return CodeAttribs{}
}

// genExpr lowers an expression to its attribute triple.
func (g *generator) genExpr(n *ir.Node) CodeAttribs {
	switch n.Typ {
	case ir.INTEGER_DATA:
		temp := g.c.newTemp()
		return CodeAttribs{Addr: temp, Code: []Instruction{Ins(ILOAD, temp, n.Data.(string))}}
	case ir.FLOAT_DATA:
		temp := g.c.newTemp()
		return CodeAttribs{Addr: temp, Code: []Instruction{Ins(FLOAD, temp, n.Data.(string))}}
	case ir.CHAR_DATA:
		// The literal text carries its quotes; the instruction carries the
		// bare content.
		temp := g.c.newTemp()
		raw := n.Data.(string)
		return CodeAttribs{Addr: temp, Code: []Instruction{Ins(CHLOAD, temp, raw[1 : len(raw)-1])}}
	case ir.BOOL_DATA:
		temp := g.c.newTemp()
		v := "0"
		if n.Data.(string) == "true" {
			v = "1"
		}
		return CodeAttribs{Addr: temp, Code: []Instruction{Ins(ILOAD, temp, v)}}
	case ir.IDENTIFIER_DATA:
		return CodeAttribs{Addr: n.Data.(string)}
	case ir.PAREN_EXPR:
		return g.genExpr(n.Children[0])
	case ir.ARRAY_INDEX:
		return g.genArrayExpr(n)
	case ir.CALL_EXPR:
		return g.genCall(n)
	case ir.UNARY_EXPR:
		return g.genUnary(n)
	case ir.BINARY_EXPR:
		switch n.Data.(string) {
		case "+", "-", "*", "/", "%":
			return g.genArithmetic(n)
		case "==", "!=", "<", "<=", ">", ">=":
			return g.genRelational(n)
		case "and", "or":
			return g.genLogic(n)
		}
	}
	return CodeAttribs{}
}

// genArrayExpr lowers an indexed access in expression position. A
// by-reference parameter holds a pointer, which loads into a temporary before
// the element load.
func (g *generator) genArrayExpr(n *ir.Node) CodeAttribs {
	addrID := n.Children[0].Data.(string)
	codAtIdx := g.genExpr(n.Children[1])
	code := codAtIdx.Code

	value := g.c.newTemp()
	if ir.Symbols.IsParameterClass(addrID) {
		temp := g.c.newTemp()
		code = append(code, Ins(LOAD, temp, addrID), Ins(LOADX, value, temp, codAtIdx.Addr))
	} else {
		code = append(code, Ins(LOADX, value, addrID, codAtIdx.Addr))
	}
	return CodeAttribs{Addr: value, Code: code}
}

// genUnary lowers a unary expression. Unary plus passes through.
func (g *generator) genUnary(n *ir.Node) CodeAttribs {
	codAt := g.genExpr(n.Children[0])
	op := n.Data.(string)
	if op == "+" {
		return codAt
	}

	code := codAt.Code
	temp := g.c.newTemp()
	t1 := ir.Decor.GetType(n.Children[0])

	switch {
	case op == "not":
		code = append(code, Ins(NOT, temp, codAt.Addr))
	case ir.Types.IsIntegerTy(t1):
		code = append(code, Ins(NEG, temp, codAt.Addr))
	default:
		code = append(code, Ins(FNEG, temp, codAt.Addr))
	}
	return CodeAttribs{Addr: temp, Code: code}
}

// genArithmetic lowers a binary arithmetic expression. Integer operands widen
// when the result is float; modulo lowers to divide, multiply and subtract
// over fresh temporaries.
func (g *generator) genArithmetic(n *ir.Node) CodeAttribs {
	codAt1 := g.genExpr(n.Children[0])
	addr1 := codAt1.Addr
	codAt2 := g.genExpr(n.Children[1])
	addr2 := codAt2.Addr
	code := cat(codAt1.Code, codAt2.Code)

	t1 := ir.Decor.GetType(n.Children[0])
	t2 := ir.Decor.GetType(n.Children[1])
	t := ir.Decor.GetType(n)
	isFloat := ir.Types.IsFloatTy(t)

	if isFloat {
		if !ir.Types.IsFloatTy(t1) {
			tempA := g.c.newTemp()
			code = append(code, Ins(FLOAT, tempA, addr1))
			addr1 = tempA
		}
		if !ir.Types.IsFloatTy(t2) {
			tempB := g.c.newTemp()
			code = append(code, Ins(FLOAT, tempB, addr2))
			addr2 = tempB
		}
	}

	if n.Data.(string) == "%" {
		// d = a/b; m = d*b; r = a-m. Fresh temporaries keep the stream
		// single-assignment.
		tempD := g.c.newTemp()
		tempM := g.c.newTemp()
		tempR := g.c.newTemp()
		code = append(code,
			Ins(DIV, tempD, addr1, addr2),
			Ins(MUL, tempM, tempD, addr2),
			Ins(SUB, tempR, addr1, tempM))
		return CodeAttribs{Addr: tempR, Code: code}
	}

	temp := g.c.newTemp()
	var op Operation
	switch n.Data.(string) {
	case "+":
		op = ADD
		if isFloat {
			op = FADD
		}
	case "-":
		op = SUB
		if isFloat {
			op = FSUB
		}
	case "*":
		op = MUL
		if isFloat {
			op = FMUL
		}
	case "/":
		op = DIV
		if isFloat {
			op = FDIV
		}
	}
	code = append(code, Ins(op, temp, addr1, addr2))
	return CodeAttribs{Addr: temp, Code: code}
}

// genRelational lowers a relational expression. Mixed operands compare as
// floats after widening; !=, > and >= lower as the negation of ==, <= and <.
func (g *generator) genRelational(n *ir.Node) CodeAttribs {
	codAt1 := g.genExpr(n.Children[0])
	addr1 := codAt1.Addr
	codAt2 := g.genExpr(n.Children[1])
	addr2 := codAt2.Addr
	code := cat(codAt1.Code, codAt2.Code)

	t1 := ir.Decor.GetType(n.Children[0])
	t2 := ir.Decor.GetType(n.Children[1])

	temp1 := g.c.newTemp()
	temp2 := g.c.newTemp()

	if !ir.Types.IsFloatTy(t1) && !ir.Types.IsFloatTy(t2) {
		switch n.Data.(string) {
		case "==":
			code = append(code, Ins(EQ, temp1, addr1, addr2))
		case "!=":
			code = append(code, Ins(EQ, temp2, addr1, addr2), Ins(NOT, temp1, temp2))
		case ">=":
			code = append(code, Ins(LT, temp2, addr1, addr2), Ins(NOT, temp1, temp2))
		case ">":
			code = append(code, Ins(LE, temp2, addr1, addr2), Ins(NOT, temp1, temp2))
		case "<=":
			code = append(code, Ins(LE, temp1, addr1, addr2))
		case "<":
			code = append(code, Ins(LT, temp1, addr1, addr2))
		}
		return CodeAttribs{Addr: temp1, Code: code}
	}

	addrF1 := addr1
	addrF2 := addr2
	if !ir.Types.IsFloatTy(t1) {
		addrF1 = g.c.newTemp()
		code = append(code, Ins(FLOAT, addrF1, addr1))
	}
	if !ir.Types.IsFloatTy(t2) {
		addrF2 = g.c.newTemp()
		code = append(code, Ins(FLOAT, addrF2, addr2))
	}
	switch n.Data.(string) {
	case "==":
		code = append(code, Ins(FEQ, temp1, addrF1, addrF2))
	case "!=":
		code = append(code, Ins(FEQ, temp2, addrF1, addrF2), Ins(NOT, temp1, temp2))
	case ">=":
		code = append(code, Ins(FLT, temp2, addrF1, addrF2), Ins(NOT, temp1, temp2))
	case ">":
		code = append(code, Ins(FLE, temp2, addrF1, addrF2), Ins(NOT, temp1, temp2))
	case "<=":
		code = append(code, Ins(FLE, temp1, addrF1, addrF2))
	case "<":
		code = append(code, Ins(FLT, temp1, addrF1, addrF2))
	}
	return CodeAttribs{Addr: temp1, Code: code}
}

// genLogic lowers a logical and/or expression.
func (g *generator) genLogic(n *ir.Node) CodeAttribs {
	codAt1 := g.genExpr(n.Children[0])
	codAt2 := g.genExpr(n.Children[1])
	code := cat(codAt1.Code, codAt2.Code)

	temp := g.c.newTemp()
	if n.Data.(string) == "and" {
		code = append(code, Ins(AND, temp, codAt1.Addr, codAt2.Addr))
	} else {
		code = append(code, Ins(OR, temp, codAt1.Addr, codAt2.Addr))
	}
	return CodeAttribs{Addr: temp, Code: code}
}
