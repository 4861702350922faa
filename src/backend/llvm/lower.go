// Package llvm lowers three-address code to textual LLVM IR for an
// unoptimized typed SSA target. The lowering runs two sub-passes per
// function: pass A reconstructs the LLVM type of every symbolic value by
// data-flow over the instruction stream, pass B emits the IR instruction by
// instruction with explicit allocas, loads, stores, GEPs and conversions.
package llvm

import (
	"fmt"
	"strings"

	"aslc/src/ir"
	"aslc/src/ir/tac"
	"aslc/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// CodeGen lowers one t-code program to LLVM IR. The zero value is not usable;
// use NewCodeGen.
type CodeGen struct {
	tCode *tac.Code

	// Runtime scaffolding flags, set by scanning the whole program.
	writeI, writeF, writeC, writeS, writeLN bool
	readI, readF, readC                     bool
	haltAndExit                             bool
	globalI, globalF, globalC               bool
	writeSStrVec                            []string
	writeSSizeVec                           []int

	// Per function lowering state.
	curFuncName      string
	isMain           bool
	prevIsTerminator bool
	localValueVec    []string
	localValueType   map[string]string
	localValueCount  map[string]int
	globalValueType  map[string]string

	// Pending call state shared by PUSH/POP/CALL lowering.
	paramCallStack util.Stack
	pendingRetType string
	pendingFunc    string
	pendingArgs    []string
}

// ---------------------
// ----- Constants -----
// ---------------------

const commentsEnabled = false

const (
	indentInstr = "    "
	indentLabel = "  "

	llvmInt    = "i32"
	llvmFloat  = "float"
	llvmChar   = "i8"
	llvmBool   = "i1"
	llvmVoid   = "void"
	llvmLab    = "label"
	llvmTyErr  = "tErr"
	llvmTyMiss = "tMiss"
	// Literals 0 and 1 are ambiguous between int and bool until a downstream
	// use refines them.
	llvmIntBool = "tIntBool"

	llvmIntPtr   = "i32*"
	llvmFloatPtr = "float*"
	llvmCharPtr  = "i8*"

	llvmInt1   = "i1"
	llvmInt8   = "i8"
	llvmInt32  = "i32"
	llvmInt64  = "i64"
	llvmDouble = "double"

	llvmGlobalIntAddr   = "@.global.i.addr"
	llvmGlobalFloatAddr = "@.global.f.addr"
	llvmGlobalCharAddr  = "@.global.c.addr"

	llvmZeroInt = "0"
	llvmOneInt  = "1"

	llvmEntry = ".entry"

	llvmZext    = "zext"
	llvmFpext   = "fpext"
	llvmTrunc   = "trunc"
	llvmFptrunc = "fptrunc"
	llvmSext    = "sext"
)

// tcode2llvm maps t-code operations to their LLVM instruction spelling.
var tcode2llvm = map[tac.Operation]string{
	tac.ADD:  "add",
	tac.SUB:  "sub",
	tac.MUL:  "mul",
	tac.DIV:  "sdiv",
	tac.FADD: "fadd",
	tac.FSUB: "fsub",
	tac.FMUL: "fmul",
	tac.FDIV: "fdiv",
	tac.EQ:   "icmp eq",
	tac.LT:   "icmp slt",
	tac.LE:   "icmp sle",
	tac.FEQ:  "fcmp oeq",
	tac.FLT:  "fcmp olt",
	tac.FLE:  "fcmp ole",
	tac.AND:  "and",
	tac.OR:   "or",
}

// ---------------------
// ----- functions -----
// ---------------------

// NewCodeGen returns a lowerer for the given t-code program.
func NewCodeGen(c *tac.Code) *CodeGen {
	return &CodeGen{
		tCode:           c,
		globalValueType: make(map[string]string, 4),
	}
}

// Dump lowers the whole program and returns the LLVM IR text. An error means
// the t-code stream violates the lowerer's requirements: a temporary assigned
// more than once in a function, or a value whose type cannot be
// reconstructed. Those are compiler bugs or deliberately malformed t-code,
// never user errors.
func (g *CodeGen) Dump() (string, error) {
	if failFunc, failTempVar := g.checkSSA(); failFunc != "" {
		sb := strings.Builder{}
		sb.WriteString("\n")
		sb.WriteString(";;; *****************************************************************************\n")
		sb.WriteString(";;; WARNING: in order to generate LLVM code, this emitter imposes the following\n")
		sb.WriteString(";;;          restriction: the temporal variables in the t-code cannot be multiply\n")
		sb.WriteString(";;;          defined inside a function.\n")
		fmt.Fprintf(&sb, ";;;          For example, this happens in function '%s' with temporal '%s'\n",
			failFunc, failTempVar)
		sb.WriteString(";;; *****************************************************************************\n")
		return "", fmt.Errorf("%s", sb.String())
	}

	begin, end := g.scaffolding()
	g.bindGlobalValues()

	sb := strings.Builder{}
	for i1 := range g.tCode.Subrs {
		subr := &g.tCode.Subrs[i1]
		if err := g.bindLocalSymbols(subr); err != nil {
			return "", err
		}
		g.startNewFunction(subr)
		sb.WriteString(g.dumpSubroutine(subr))
	}
	return begin + sb.String() + end, nil
}

// checkSSA verifies that no temporary is assigned more than once within one
// function. The lowerer requires pseudo-SSA input.
func (g *CodeGen) checkSSA() (failFunc, failTempVar string) {
	for i1 := range g.tCode.Subrs {
		subr := &g.tCode.Subrs[i1]
		modTempCounts := make(map[string]int, 16)
		for _, in := range subr.Instrs {
			switch in.Oper {
			case tac.LABEL, tac.UJUMP, tac.FJUMP, tac.HALT, tac.PUSH, tac.RETURN,
				tac.XLOAD, tac.CLOAD, tac.WRITEI, tac.WRITEF, tac.WRITEC,
				tac.WRITES, tac.WRITELN, tac.NOOP:
				// These never write a temporary through their first argument.
			default:
				// Except in POP, where arg1 is optional, the first argument
				// always exists.
				if isTCodeTemporal(in.Arg1) {
					modTempCounts[in.Arg1]++
				}
			}
		}
		for temp, count := range modTempCounts {
			if count > 1 {
				if failTempVar == "" || temp < failTempVar {
					failFunc = subr.Name
					failTempVar = temp
				}
			}
		}
		if failFunc != "" {
			return failFunc, failTempVar
		}
	}
	return "", ""
}

// isTCodeTemporal reports whether the argument is an emitter temporary: '%'
// followed by a digit.
func isTCodeTemporal(arg string) bool {
	if len(arg) < 2 {
		return false
	}
	if arg[0] != '%' {
		return false
	}
	return arg[1] >= '0' && arg[1] <= '9'
}

// isTCodeIdentifier reports whether the argument is a source level
// identifier. The argument must not be the literal of a CHLOAD instruction.
func isTCodeIdentifier(arg string) bool {
	if len(arg) < 1 {
		return false
	}
	if arg[0] == '%' {
		return false
	}
	return !(arg[0] >= '0' && arg[0] <= '9')
}

// isTCodeLiteral reports whether the argument is a numeric literal.
func isTCodeLiteral(arg string) bool {
	return len(arg) > 0 && arg[0] >= '0' && arg[0] <= '9'
}

// computeReadWriteHaltInfo scans the whole program for the runtime
// scaffolding the IR needs: format strings, scan globals and declares.
func (g *CodeGen) computeReadWriteHaltInfo() {
	for i1 := range g.tCode.Subrs {
		funcName := g.tCode.Subrs[i1].Name
		for _, in := range g.tCode.Subrs[i1].Instrs {
			switch in.Oper {
			case tac.WRITEI:
				g.writeI = true
			case tac.WRITEF:
				g.writeF = true
			case tac.WRITEC:
				g.writeC = true
			case tac.WRITES:
				found := false
				for _, e1 := range g.writeSStrVec {
					if e1 == in.Arg1 {
						found = true
						break
					}
				}
				if !found {
					g.writeSStrVec = append(g.writeSStrVec, in.Arg1)
				}
				g.writeS = true
			case tac.WRITELN:
				g.writeLN = true
			case tac.READI:
				g.readI = true
				if isTCodeTemporal(in.Arg1) {
					g.globalI = true
				} else if isTCodeIdentifier(in.Arg1) &&
					ir.Types.IsBooleanTy(ir.Symbols.GetLocalSymbolType(funcName, in.Arg1)) {
					// Booleans scan through the i32 global even when the
					// destination is a named slot.
					g.globalI = true
				}
			case tac.READF:
				g.readF = true
				if isTCodeTemporal(in.Arg1) {
					g.globalF = true
				}
			case tac.READC:
				g.readC = true
				if isTCodeTemporal(in.Arg1) {
					g.globalC = true
				}
			case tac.HALT:
				g.haltAndExit = true
			}
		}
	}
}

// scaffolding builds the prologue written before all functions and the
// declare list written after them. Booleans read through the i32 scan global
// and compare against zero; each piece is declared only when used.
func (g *CodeGen) scaffolding() (string, string) {
	begin := strings.Builder{}
	end := strings.Builder{}
	g.computeReadWriteHaltInfo()

	anyIO := g.writeI || g.writeF || g.writeC || g.writeS || g.writeLN || g.readI || g.readF || g.readC
	if anyIO {
		begin.WriteString("\n")
	}
	if g.writeI || g.readI {
		begin.WriteString("@.str.i = constant [3 x i8] c\"%d\\00\"\n")
	}
	if g.writeF || g.readF {
		begin.WriteString("@.str.f = constant [3 x i8] c\"%g\\00\"\n")
	}
	if g.writeC || g.readC {
		begin.WriteString("@.str.c = constant [3 x i8] c\"%c\\00\"\n")
	}
	g.writeSSizeVec = make([]int, len(g.writeSStrVec))
	for i1, e1 := range g.writeSStrVec {
		llvmStr, llvmStrSize := llvmStringFromAslString(e1)
		fmt.Fprintf(&begin, "@.str.s.%d = constant [%d x i8] c\"%s\\00\"\n", i1+1, llvmStrSize+1, llvmStr)
		g.writeSSizeVec[i1] = llvmStrSize + 1
	}
	anyFmt := g.writeI || g.readI || g.writeF || g.readF || g.writeC || g.readC
	if anyFmt {
		begin.WriteString("\n\n")
	}
	if g.globalI {
		begin.WriteString("@.global.i.addr = common dso_local global i32 0\n")
	}
	if g.globalF {
		begin.WriteString("@.global.f.addr = common dso_local global float 0.000000e+00\n")
	}
	if g.globalC {
		begin.WriteString("@.global.c.addr = common dso_local global i8 0\n")
	}
	if anyFmt {
		begin.WriteString("\n\n")
	}

	if g.writeI || g.writeF || g.writeC || g.writeLN || g.readI || g.readF || g.readC || g.haltAndExit {
		end.WriteString("\n")
	}
	if g.writeI || g.writeF || g.writeC || g.writeS || g.writeLN {
		if g.writeI || g.writeF || g.writeS {
			end.WriteString("declare dso_local i32 @printf(i8*, ...)\n")
		}
		if g.writeC || g.writeLN {
			end.WriteString("declare dso_local i32 @putchar(i32)\n")
		}
	}
	if g.readI || g.readF || g.readC {
		end.WriteString("declare dso_local i32 @__isoc99_scanf(i8*, ...)\n")
	}
	if g.haltAndExit {
		end.WriteString("declare dso_local void @exit(i32) noreturn nounwind\n")
	}
	if g.writeI || g.writeF || g.writeC || g.writeS || g.writeLN || g.readI || g.readF || g.readC || g.haltAndExit {
		end.WriteString("\n")
	}
	return begin.String(), end.String()
}

// llvmStringFromAslString converts a quoted ASL string literal to its LLVM
// spelling and byte size, rewriting the escape sequences \n, \t and \\.
func llvmStringFromAslString(aslString string) (string, int) {
	llvmString := aslString[1 : len(aslString)-1]
	size := len(llvmString)
	type fromTo struct{ from, to string }
	for _, e1 := range []fromTo{{`\\`, `\\`}, {`\n`, `\0A`}, {`\t`, `\09`}} {
		pos := 0
		for {
			i := strings.Index(llvmString[pos:], e1.from)
			if i < 0 {
				break
			}
			pos += i
			llvmString = llvmString[:pos] + e1.to + llvmString[pos+len(e1.from):]
			size = size - len(e1.from) + 1
			pos += len(e1.to)
		}
	}
	return llvmString, size
}

// startNewFunction resets the per function emission state.
func (g *CodeGen) startNewFunction(subr *tac.Subroutine) {
	g.curFuncName = subr.Name
	g.isMain = subr.Name == "main"
	g.prevIsTerminator = false
}

// getFuncReturnLLVMType returns the LLVM return type of the globally
// declared function.
func (g *CodeGen) getFuncReturnLLVMType(name string) string {
	tid := ir.Symbols.GetGlobalFunctionType(name)
	return g.typeIdToLLVMType(ir.Types.GetFuncReturnType(tid), false)
}

// getFuncNumberOfParams returns the parameter count of the globally declared
// function.
func (g *CodeGen) getFuncNumberOfParams(name string) int {
	return ir.Types.GetNumOfParameters(ir.Symbols.GetGlobalFunctionType(name))
}

// getFuncParamsLLVMTypes returns the LLVM parameter types of the globally
// declared function. Array parameters appear as pointers to element type.
func (g *CodeGen) getFuncParamsLLVMTypes(name string) []string {
	tid := ir.Symbols.GetGlobalFunctionType(name)
	n := ir.Types.GetNumOfParameters(tid)
	out := make([]string, n)
	for i1 := 0; i1 < n; i1++ {
		out[i1] = g.typeIdToLLVMType(ir.Types.GetParameterType(tid, i1), true)
	}
	return out
}

// getLocalSymbolLLVMType returns the LLVM type of a parameter or local
// variable of the named function.
func (g *CodeGen) getLocalSymbolLLVMType(funcName, symName string, isParameter bool) string {
	tid := ir.Symbols.GetLocalSymbolType(funcName, symName)
	return g.typeIdToLLVMType(tid, isParameter)
}

// typeIdToLLVMType maps a source type to its LLVM spelling. Arrays map to
// [N x T] for locals and to T* for parameters.
func (g *CodeGen) typeIdToLLVMType(tid ir.TypeId, isParameter bool) string {
	switch {
	case ir.Types.IsIntegerTy(tid):
		return llvmInt
	case ir.Types.IsFloatTy(tid):
		return llvmFloat
	case ir.Types.IsBooleanTy(tid):
		return llvmBool
	case ir.Types.IsCharacterTy(tid):
		return llvmChar
	case ir.Types.IsVoidTy(tid):
		return llvmVoid
	case ir.Types.IsArrayTy(tid):
		te := g.typeIdToLLVMType(ir.Types.GetArrayElemType(tid), false)
		if !isParameter {
			return fmt.Sprintf("[%d x %s]", ir.Types.GetArraySize(tid), te)
		}
		return pointerTo(te)
	}
	return llvmTyErr
}

// ----------------------------------
// ----- Pass A: value typing   -----
// ----------------------------------

// bindLocalSymbols assigns an LLVM type to every symbolic value of the
// subroutine: parameters and locals seed from the symbol table, each
// instruction contributes constraints. Remaining unresolved or conflicting
// bindings abort the lowering.
func (g *CodeGen) bindLocalSymbols(subr *tac.Subroutine) error {
	g.localValueVec = g.localValueVec[:0]
	g.localValueType = make(map[string]string, 32)
	g.localValueCount = make(map[string]int, 32)
	funcName := subr.Name

	for _, p := range subr.Params {
		var llvmType string
		if p.Name == "_result" {
			llvmType = g.getFuncReturnLLVMType(funcName)
		} else {
			llvmType = g.getLocalSymbolLLVMType(funcName, p.Name, true)
		}
		g.bindLocalValue(p.Name, llvmType)
	}
	for _, v := range subr.Vars {
		g.bindLocalValue(v.Name, g.getLocalSymbolLLVMType(funcName, v.Name, false))
	}

	for _, in := range subr.Instrs {
		arg1, arg2, arg3 := in.Arg1, in.Arg2, in.Arg3
		switch in.Oper {
		case tac.LABEL, tac.UJUMP:
			g.bindLocalValue(arg1, llvmLab)
		case tac.FJUMP:
			g.bindLocalValue(arg1, llvmBool)
			g.bindLocalValue(arg2, llvmLab)
		case tac.HALT:
		case tac.LOAD:
			if isTCodeIdentifier(arg1) && isTCodeTemporal(arg2) { // a = %4
				g.bindLocalValue(arg2, g.typeOfValue(g.getLLVMValue(arg1)))
			} else if isTCodeTemporal(arg1) && isTCodeIdentifier(arg2) { // %4 = a
				g.bindLocalValue(arg1, g.typeOfValue(g.getLLVMValue(arg2)))
			} else if isTCodeTemporal(arg1) && isTCodeTemporal(arg2) { // %4 = %6
				g.bindLocalValue(arg1, g.typeOfValue(g.getLLVMValue(arg2)))
			} else if isTCodeTemporal(arg1) && isTCodeLiteral(arg2) { // %4 = 15
				if strings.Contains(arg2, ".") {
					g.bindLocalValue(arg1, llvmFloat)
				} else {
					g.bindLocalValue(arg1, llvmInt)
				}
			}
		case tac.ILOAD:
			if arg2 != "0" && arg2 != "1" {
				g.bindLocalValue(arg1, llvmInt)
			} else {
				g.bindLocalValue(arg1, llvmIntBool)
			}
		case tac.FLOAD:
			g.bindLocalValue(arg1, llvmFloat)
		case tac.CHLOAD:
			g.bindLocalValue(arg1, llvmChar)
		case tac.PUSH:
			if arg1 != "" {
				g.bindLocalValue(arg1, llvmTyMiss)
				g.paramCallStack.Push(arg1)
			}
		case tac.POP:
			if arg1 != "" {
				g.bindLocalValue(arg1, g.pendingRetType)
			}
		case tac.CALL:
			llvmParamTypes := g.getFuncParamsLLVMTypes(arg1)
			for i1 := g.getFuncNumberOfParams(arg1) - 1; i1 >= 0; i1-- {
				tcodeParam, _ := g.paramCallStack.Pop().(string)
				g.bindLocalValue(tcodeParam, llvmParamTypes[i1])
			}
			if retType := g.getFuncReturnLLVMType(arg1); retType != llvmVoid {
				g.pendingRetType = retType
			}
		case tac.RETURN:
		case tac.ALOAD:
			llvmType2 := g.typeOfValue(g.getLLVMValue(arg2))
			var llvmType2Ptr string
			if isArrayType(llvmType2) {
				llvmType2Ptr = arrayTypeAsPointerType(llvmType2)
			} else {
				llvmType2Ptr = llvmType2
			}
			g.bindLocalValue(arg1, llvmType2Ptr)
		case tac.XLOAD:
			llvmType1 := g.typeOfValue(g.getLLVMValue(arg1))
			llvmElemType := llvmTyErr
			if isArrayType(llvmType1) {
				llvmElemType = elemOfArrayType(llvmType1)
			} else if isPointerType(llvmType1) {
				llvmElemType = pointedType(llvmType1)
			}
			g.bindLocalValue(arg2, llvmInt)
			g.bindLocalValue(arg3, llvmElemType)
		case tac.LOADX:
			llvmType2 := g.typeOfValue(g.getLLVMValue(arg2))
			llvmElemType := llvmTyErr
			if isArrayType(llvmType2) {
				llvmElemType = elemOfArrayType(llvmType2)
			} else if isPointerType(llvmType2) {
				llvmElemType = pointedType(llvmType2)
			}
			g.bindLocalValue(arg1, llvmElemType)
			g.bindLocalValue(arg3, llvmInt)
		case tac.LOADC:
			// Reserved: address = *temp.
			llvmType1 := g.typeOfValue(g.getLLVMValue(arg1))
			g.bindLocalValue(arg2, pointerTo(llvmType1))
		case tac.CLOAD:
			// Reserved: *temp = address.
			llvmType2 := g.typeOfValue(g.getLLVMValue(arg2))
			g.bindLocalValue(arg1, pointerTo(llvmType2))
		case tac.WRITEI:
			g.bindLocalValue(arg1, llvmIntBool)
		case tac.WRITEF:
			g.bindLocalValue(arg1, llvmFloat)
		case tac.WRITEC:
			g.bindLocalValue(arg1, llvmChar)
		case tac.WRITES, tac.WRITELN:
		case tac.READI:
			g.bindLocalValue(arg1, llvmIntBool)
		case tac.READF:
			g.bindLocalValue(arg1, llvmFloat)
		case tac.READC:
			g.bindLocalValue(arg1, llvmChar)
		case tac.ADD, tac.SUB, tac.MUL, tac.DIV:
			g.bindLocalValue(arg1, llvmInt)
			g.bindLocalValue(arg2, llvmInt)
			g.bindLocalValue(arg3, llvmInt)
		case tac.EQ, tac.LT, tac.LE:
			g.bindLocalValue(arg1, llvmBool)
			if isTCodeIdentifier(arg2) && isTCodeTemporal(arg3) {
				g.bindLocalValue(arg3, g.typeOfValue(g.getLLVMValue(arg2)))
			} else if isTCodeTemporal(arg2) && isTCodeIdentifier(arg3) {
				g.bindLocalValue(arg2, g.typeOfValue(g.getLLVMValue(arg3)))
			} else if isTCodeTemporal(arg2) && isTCodeTemporal(arg3) {
				g.bindPairOfLocalValues(arg2, arg3)
			}
		case tac.FEQ, tac.FLT, tac.FLE:
			g.bindLocalValue(arg1, llvmBool)
			g.bindLocalValue(arg2, llvmFloat)
			g.bindLocalValue(arg3, llvmFloat)
		case tac.NEG:
			g.bindLocalValue(arg1, llvmInt)
			g.bindLocalValue(arg2, llvmInt)
		case tac.FADD, tac.FSUB, tac.FMUL, tac.FDIV:
			g.bindLocalValue(arg1, llvmFloat)
			g.bindLocalValue(arg2, llvmFloat)
			g.bindLocalValue(arg3, llvmFloat)
		case tac.FNEG:
			g.bindLocalValue(arg1, llvmFloat)
			g.bindLocalValue(arg2, llvmFloat)
		case tac.FLOAT:
			g.bindLocalValue(arg1, llvmFloat)
			g.bindLocalValue(arg2, llvmInt)
		case tac.AND, tac.OR:
			g.bindLocalValue(arg1, llvmBool)
			g.bindLocalValue(arg2, llvmBool)
			g.bindLocalValue(arg3, llvmBool)
		case tac.NOT:
			g.bindLocalValue(arg1, llvmBool)
			g.bindLocalValue(arg2, llvmBool)
		case tac.NOOP:
		}
	}

	for _, llvmValue := range g.localValueVec {
		llvmType := g.localValueType[llvmValue]
		if llvmType == llvmTyErr || llvmType == llvmTyMiss {
			sb := strings.Builder{}
			sb.WriteString("some local values of this function can not be bound to a valid type:\n")
			fmt.Fprintf(&sb, "++++++++++++++++++++++++++++++++ function: %s\n", funcName)
			for _, e1 := range g.localValueVec {
				fmt.Fprintf(&sb, "%s: \t%s\n", e1, g.localValueType[e1])
			}
			sb.WriteString("--------------------------------")
			return fmt.Errorf("%s", sb.String())
		}
	}
	// Values still ambiguous between int and bool resolve to int.
	for _, llvmValue := range g.localValueVec {
		if g.localValueType[llvmValue] == llvmIntBool {
			g.localValueType[llvmValue] = llvmInt
		}
	}
	return nil
}

// bindGlobalValues types the scan globals that are in use.
func (g *CodeGen) bindGlobalValues() {
	if g.globalI {
		g.globalValueType[llvmGlobalIntAddr] = llvmIntPtr
	}
	if g.globalF {
		g.globalValueType[llvmGlobalFloatAddr] = llvmFloatPtr
	}
	if g.globalC {
		g.globalValueType[llvmGlobalCharAddr] = llvmCharPtr
	}
}

// bindLocalValue merges a type constraint into the binding of the t-code
// argument. tIntBool refines against int and bool; disagreeing constraints
// poison the binding with tErr.
func (g *CodeGen) bindLocalValue(tcodeArg, llvmType string) {
	if !isTCodeIdentifier(tcodeArg) && !isTCodeTemporal(tcodeArg) {
		return
	}
	llvmValue := g.getLLVMValue(tcodeArg)
	current, ok := g.localValueType[llvmValue]
	if !ok {
		g.localValueVec = append(g.localValueVec, llvmValue)
		g.localValueType[llvmValue] = llvmType
		g.localValueCount[llvmValue] = 0
		return
	}
	if current == llvmTyErr || llvmType == llvmTyMiss {
		return
	}
	if current == llvmIntBool {
		if llvmType == llvmInt || llvmType == llvmBool || llvmType == llvmIntBool {
			g.localValueType[llvmValue] = llvmType
		} else {
			g.localValueType[llvmValue] = llvmTyErr
		}
		return
	}
	if llvmType == llvmIntBool {
		if current == llvmTyMiss {
			g.localValueType[llvmValue] = llvmType
		} else if current != llvmInt && current != llvmBool {
			g.localValueType[llvmValue] = llvmTyErr
		}
		return
	}
	if current != llvmTyMiss && current != llvmType {
		g.localValueType[llvmValue] = llvmTyErr
	} else if current == llvmTyMiss {
		g.localValueType[llvmValue] = llvmType
	}
}

// bindPairOfLocalValues unifies the bindings of two temporaries appearing as
// operands of one comparison.
func (g *CodeGen) bindPairOfLocalValues(tcodeArg1, tcodeArg2 string) {
	llvmValue1 := g.getLLVMValue(tcodeArg1)
	llvmValue2 := g.getLLVMValue(tcodeArg2)
	llvmType1, ok1 := g.localValueType[llvmValue1]
	llvmType2, ok2 := g.localValueType[llvmValue2]
	switch {
	case !ok1 && !ok2:
		g.bindLocalValue(tcodeArg1, llvmTyMiss)
		g.bindLocalValue(tcodeArg2, llvmTyMiss)
	case !ok2:
		if llvmType1 == llvmTyErr {
			g.bindLocalValue(tcodeArg2, llvmTyMiss)
		} else {
			g.bindLocalValue(tcodeArg2, llvmType1)
		}
	case !ok1:
		if llvmType2 == llvmTyErr {
			g.bindLocalValue(tcodeArg1, llvmTyMiss)
		} else {
			g.bindLocalValue(tcodeArg1, llvmType2)
		}
	case llvmType1 == llvmTyErr || llvmType2 == llvmTyErr:
	case llvmType1 != llvmTyMiss && llvmType2 == llvmTyMiss:
		g.localValueType[llvmValue2] = llvmType1
	case llvmType1 == llvmTyMiss && llvmType2 != llvmTyMiss:
		g.localValueType[llvmValue1] = llvmType2
	case (llvmType1 == llvmInt || llvmType1 == llvmBool) && llvmType2 == llvmIntBool:
		g.localValueType[llvmValue2] = llvmType1
	case llvmType1 == llvmIntBool && (llvmType2 == llvmInt || llvmType2 == llvmBool):
		g.localValueType[llvmValue1] = llvmType2
	case llvmType1 != llvmTyMiss && llvmType2 != llvmTyMiss && llvmType1 != llvmType2:
		g.localValueType[llvmValue1] = llvmTyErr
		g.localValueType[llvmValue2] = llvmTyErr
	}
}

// bindLLVMLocalValue records a fresh LLVM level value with its type.
func (g *CodeGen) bindLLVMLocalValue(llvmValue, llvmType string) {
	g.localValueVec = append(g.localValueVec, llvmValue)
	g.localValueType[llvmValue] = llvmType
	g.localValueCount[llvmValue] = 0
}

// typeOfValue returns the recorded type of an LLVM value, local or global.
func (g *CodeGen) typeOfValue(llvmValue string) string {
	if len(llvmValue) > 0 && llvmValue[0] == '@' {
		return g.globalValueType[llvmValue]
	}
	return g.localValueType[llvmValue]
}

// newPrefixedValue mints a fresh LLVM value from the prefix and binds it to
// the type. Each prefix carries its own counter.
func (g *CodeGen) newPrefixedValue(prefix, llvmType string) string {
	g.localValueCount[prefix]++
	v := fmt.Sprintf("%s.%d", prefix, g.localValueCount[prefix])
	g.bindLLVMLocalValue(v, llvmType)
	return v
}

// getLLVMValue maps a t-code token to its LLVM value spelling: temporaries
// become %.temp.N, identifiers get a '%' prefix, literals pass through.
func (g *CodeGen) getLLVMValue(tcodeIdent string) string {
	if len(tcodeIdent) == 0 {
		return ""
	}
	if tcodeIdent[0] == '%' {
		return "%.temp." + tcodeIdent[1:]
	}
	if tcodeIdent[0] >= '0' && tcodeIdent[0] <= '9' {
		return tcodeIdent
	}
	return "%" + tcodeIdent
}

// getLLVMValueAddr returns the alloca slot of the LLVM value.
func getLLVMValueAddr(llvmValue string) string {
	return llvmValue + ".addr"
}
