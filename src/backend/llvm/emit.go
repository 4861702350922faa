// emit.go implements pass B of the lowering: instruction by instruction
// emission of the typed IR. Source identifiers live in alloca'd slots;
// reading one materializes a fresh SSA value by a load, writing one stores
// the just-computed value back. Temporaries and literals are used directly.

package llvm

import (
	"fmt"
	"strconv"
	"strings"

	"aslc/src/ir/tac"
)

// dumpSubroutine emits one function: header, entry label, allocas for
// parameters and locals, stores of incoming parameters, then the instruction
// list.
func (g *CodeGen) dumpSubroutine(subr *tac.Subroutine) string {
	sb := strings.Builder{}
	sb.WriteString(g.dumpHeader(subr))
	sb.WriteString("{\n")
	g.bindLLVMLocalValue(llvmEntry, llvmLab)
	sb.WriteString(createLABEL(llvmEntry))
	sb.WriteString(g.dumpAllocaParams(subr))
	sb.WriteString(g.dumpAllocaLocalVars(subr))
	sb.WriteString(g.dumpStoreParams(subr))
	sb.WriteString(g.dumpInstructionList(subr))
	sb.WriteString("}\n\n")
	return sb.String()
}

// dumpHeader emits the function signature. main always has the C signature
// i32 @main(); the synthetic _result slot never appears as a parameter.
func (g *CodeGen) dumpHeader(subr *tac.Subroutine) string {
	sb := strings.Builder{}
	sb.WriteString("define dso_local ")
	funcName := subr.Name
	if funcName == "main" {
		sb.WriteString(llvmInt + " @main() ")
		return sb.String()
	}
	sb.WriteString(g.getFuncReturnLLVMType(funcName) + " @" + funcName + "(")
	firstParam := true
	for _, p := range subr.Params {
		if p.Name == "_result" {
			continue
		}
		llvmValue := g.getLLVMValue(p.Name)
		llvmType := g.getLocalSymbolLLVMType(funcName, p.Name, true)
		if !firstParam {
			sb.WriteString(", ")
		}
		firstParam = false
		sb.WriteString(llvmType + " " + llvmValue)
	}
	sb.WriteString(") ")
	return sb.String()
}

// dumpAllocaParams emits one alloca per parameter, _result included.
func (g *CodeGen) dumpAllocaParams(subr *tac.Subroutine) string {
	sb := strings.Builder{}
	for _, p := range subr.Params {
		llvmValue := g.getLLVMValue(p.Name)
		var llvmType string
		if p.Name == "_result" {
			llvmType = g.getFuncReturnLLVMType(subr.Name)
		} else {
			llvmType = g.getLocalSymbolLLVMType(subr.Name, p.Name, true)
		}
		llvmValueAddr := getLLVMValueAddr(llvmValue)
		g.bindLLVMLocalValue(llvmValueAddr, pointerTo(llvmType))
		sb.WriteString(createALLOCA(llvmValueAddr, llvmType))
	}
	return sb.String()
}

// dumpAllocaLocalVars emits one alloca per local variable.
func (g *CodeGen) dumpAllocaLocalVars(subr *tac.Subroutine) string {
	sb := strings.Builder{}
	for _, v := range subr.Vars {
		llvmValue := g.getLLVMValue(v.Name)
		llvmType := g.getLocalSymbolLLVMType(subr.Name, v.Name, false)
		llvmValueAddr := getLLVMValueAddr(llvmValue)
		g.bindLLVMLocalValue(llvmValueAddr, pointerTo(llvmType))
		sb.WriteString(createALLOCA(llvmValueAddr, llvmType))
	}
	return sb.String()
}

// dumpStoreParams stores the incoming parameter values into their slots.
func (g *CodeGen) dumpStoreParams(subr *tac.Subroutine) string {
	sb := strings.Builder{}
	for _, p := range subr.Params {
		if p.Name == "_result" {
			continue
		}
		llvmValue := g.getLLVMValue(p.Name)
		sb.WriteString(g.createSTORE(llvmValue, getLLVMValueAddr(llvmValue)))
	}
	return sb.String()
}

// dumpInstructionList emits the instructions in order. Every instruction
// sees its successor, which drives the synthesis of continuation labels.
func (g *CodeGen) dumpInstructionList(subr *tac.Subroutine) string {
	sb := strings.Builder{}
	n := len(subr.Instrs)
	for i1 := 0; i1 < n-1; i1++ {
		sb.WriteString(g.dumpInstruction(subr.Instrs[i1], subr.Instrs[i1+1]))
	}
	if n > 0 {
		sb.WriteString(g.dumpInstruction(subr.Instrs[n-1], tac.Ins(tac.NOOP)))
	}
	return sb.String()
}

// dumpInstruction lowers one t-code instruction to IR text.
func (g *CodeGen) dumpInstruction(in, next tac.Instruction) string {
	sb := strings.Builder{}

	arg1, arg2, arg3 := in.Arg1, in.Arg2, in.Arg3

	switch in.Oper {
	case tac.LABEL:
		llvmLabel := g.getLLVMValue(arg1)
		if !g.prevIsTerminator {
			sb.WriteString(createBR(llvmLabel))
		}
		sb.WriteString(createLABEL(arg1))
	case tac.UJUMP:
		sb.WriteString(createBR(g.getLLVMValue(arg1)))
		if next.Oper != tac.LABEL && next.Oper != tac.NOOP {
			labelDead := g.newPrefixedValue("%.dead.cont", llvmLab)
			sb.WriteString(createLABEL(labelDead[1:]))
		}
	case tac.FJUMP:
		llvmValue1, memCode1 := g.accessValueOfArgument(arg1)
		sb.WriteString(memCode1)
		labelJump := g.getLLVMValue(arg2)
		if next.Oper != tac.LABEL && next.Oper != tac.NOOP {
			labelCont := g.newPrefixedValue("%.br.cont", llvmLab)
			sb.WriteString(createCondBR(llvmValue1, labelCont, labelJump))
			sb.WriteString(createLABEL(labelCont[1:]))
		} else {
			sb.WriteString(createCondBR(llvmValue1, g.getLLVMValue(next.Arg1), labelJump))
		}
	case tac.HALT:
		sb.WriteString(indentInstr + "call void @exit(i32 1)\n")
	case tac.LOAD:
		llvmValue1 := g.getLLVMValue(arg1)
		llvmValue2 := g.getLLVMValue(arg2)
		if isTCodeIdentifier(arg1) { // a = %4  or  a = b
			llvmValue2, memCode2 := g.accessValueOfArgument(arg2)
			sb.WriteString(memCode2)
			sb.WriteString(g.createSTORE(llvmValue2, getLLVMValueAddr(llvmValue1)))
		} else if isTCodeIdentifier(arg2) { // %4 = a
			sb.WriteString(g.createLOAD(llvmValue1, getLLVMValueAddr(llvmValue2)))
		} else if isTCodeLiteral(arg2) { // %4 = 15
			if g.typeOfValue(llvmValue1) == llvmFloat {
				sb.WriteString(g.createCONVERSION(llvmFptrunc, llvmValue1, llvmValue2, llvmDouble))
			} else {
				sb.WriteString(g.createCONVERSION(llvmTrunc, llvmValue1, llvmValue2, llvmInt64))
			}
		} else { // %4 = %6
			llvmType := g.typeOfValue(llvmValue2)
			if isAnyIntegerType(llvmType) {
				llvmTypeOneIntUp := typeOneIntUp(llvmType)
				prefix := "%.temp." + arg1[1:] + "." + llvmTypeOneIntUp
				llvmValue2Extended := g.newPrefixedValue(prefix, llvmTypeOneIntUp)
				sb.WriteString(g.createCONVERSION(llvmZext, llvmValue2Extended, llvmValue2, llvmTypeOneIntUp))
				sb.WriteString(g.createCONVERSION(llvmTrunc, llvmValue1, llvmValue2Extended, llvmType))
			} else {
				prefix := "%.temp." + arg1[1:] + ".double"
				llvmValue2FPDouble := g.newPrefixedValue(prefix, llvmDouble)
				sb.WriteString(g.createCONVERSION(llvmFpext, llvmValue2FPDouble, llvmValue2, llvmDouble))
				sb.WriteString(g.createCONVERSION(llvmFptrunc, llvmValue1, llvmValue2FPDouble, llvmType))
			}
		}
	case tac.ILOAD:
		llvmValue1 := g.getLLVMValue(arg1)
		llvmValue2 := g.getLLVMValue(arg2)
		if isTCodeTemporal(arg1) {
			sb.WriteString(g.createCONVERSION(llvmTrunc, llvmValue1, llvmValue2, llvmInt64))
		} else {
			sb.WriteString(g.createSTORE(llvmValue2, getLLVMValueAddr(llvmValue1)))
		}
	case tac.FLOAD:
		llvmValue1 := g.getLLVMValue(arg1)
		llvmValue2 := g.getLLVMValue(arg2)
		if isTCodeTemporal(arg1) {
			sb.WriteString(g.createCONVERSION(llvmFptrunc, llvmValue1, llvmValue2, llvmDouble))
		} else {
			sb.WriteString(g.createSTORE(llvmValue2, getLLVMValueAddr(llvmValue1)))
		}
	case tac.CHLOAD:
		llvmValue1 := g.getLLVMValue(arg1)
		llvmValue2 := strconv.Itoa(asciiCode(arg2))
		if isTCodeTemporal(arg1) {
			sb.WriteString(g.createCONVERSION(llvmTrunc, llvmValue1, llvmValue2, llvmInt32))
		} else {
			sb.WriteString(g.createSTORE(llvmValue2, getLLVMValueAddr(llvmValue1)))
		}
	case tac.PUSH:
		if arg1 != "" {
			llvmValue1, memCode1 := g.accessValueOfArgument(arg1)
			sb.WriteString(memCode1)
			g.paramCallStack.Push(llvmValue1)
		} else {
			g.paramCallStack.Push("")
		}
	case tac.POP:
		param, _ := g.paramCallStack.Pop().(string)
		if param != "" {
			g.pendingArgs = append(g.pendingArgs, param)
		}
		if arg1 != "" {
			llvmValue1, memCode1 := g.modifyValueOfArgument(arg1)
			sb.WriteString(g.createCALLAssign(g.pendingFunc, llvmValue1, g.pendingArgs))
			sb.WriteString(memCode1)
		} else if g.paramCallStack.Size() == 0 {
			sb.WriteString(g.createCALL(g.pendingFunc, g.pendingArgs))
		}
	case tac.CALL:
		g.pendingFunc = arg1
		g.pendingArgs = nil
		if g.paramCallStack.Size() == 0 {
			sb.WriteString(g.createCALL(g.pendingFunc, g.pendingArgs))
		}
	case tac.RETURN:
		retType := g.getFuncReturnLLVMType(g.curFuncName)
		if retType == llvmVoid {
			if g.isMain {
				sb.WriteString(createRETTyped(llvmZeroInt, llvmInt))
			} else {
				sb.WriteString(indentInstr + "ret void\n")
			}
		} else {
			llvmValue1, memCode1 := g.accessValueOfArgument("_result")
			sb.WriteString(memCode1)
			sb.WriteString(createRETTyped(llvmValue1, g.typeOfValue(llvmValue1)))
		}
		if next.Oper != tac.LABEL && next.Oper != tac.NOOP {
			labelDead := g.newPrefixedValue("%.dead.code", llvmLab)
			sb.WriteString(createLABEL(labelDead[1:]))
		}
	case tac.XLOAD:
		llvmValue1 := g.getLLVMValue(arg1)
		llvmValue2, memCode2 := g.accessValueOfArgument(arg2)
		llvmValue3, memCode3 := g.accessValueOfArgument(arg3)
		llvmType := g.typeOfValue(llvmValue1) // Array of, or pointer to.
		var llvmElemType string
		if isArrayType(llvmType) {
			llvmElemType = elemOfArrayType(llvmType)
		} else if isPointerType(llvmType) {
			llvmElemType = pointedType(llvmType)
		}
		arrayIndex64 := g.newPrefixedValue("%.idx64", llvmInt64)
		arrayPointer := g.newPrefixedValue("%.arrPtr", pointerTo(llvmElemType))
		var llvmValue1Addr string
		if isTCodeIdentifier(arg1) {
			llvmValue1Addr = getLLVMValueAddr(llvmValue1)
		} else {
			llvmValue1Addr = llvmValue1
		}
		sb.WriteString(memCode2)
		sb.WriteString(memCode3)
		sb.WriteString(g.createCONVERSION(llvmSext, arrayIndex64, llvmValue2, llvmInt))
		sb.WriteString(g.createGETELEMENTPTR(arrayPointer, llvmValue1Addr, arrayIndex64))
		sb.WriteString(g.createSTORE(llvmValue3, arrayPointer))
	case tac.LOADX:
		llvmValue1, memCode1 := g.modifyValueOfArgument(arg1)
		llvmValue2 := g.getLLVMValue(arg2)
		llvmValue3, memCode3 := g.accessValueOfArgument(arg3)
		llvmType := g.typeOfValue(llvmValue2) // Array of, or pointer to.
		var llvmElemType string
		if isArrayType(llvmType) {
			llvmElemType = elemOfArrayType(llvmType)
		} else if isPointerType(llvmType) {
			llvmElemType = pointedType(llvmType)
		}
		arrayIndex64 := g.newPrefixedValue("%.idx64", llvmInt64)
		arrayPointer := g.newPrefixedValue("%.arrPtr", pointerTo(llvmElemType))
		var llvmValue2Addr string
		if isTCodeIdentifier(arg2) {
			llvmValue2Addr = getLLVMValueAddr(llvmValue2)
		} else {
			llvmValue2Addr = llvmValue2
		}
		sb.WriteString(memCode3)
		sb.WriteString(g.createCONVERSION(llvmSext, arrayIndex64, llvmValue3, llvmInt))
		sb.WriteString(g.createGETELEMENTPTR(arrayPointer, llvmValue2Addr, arrayIndex64))
		sb.WriteString(g.createLOAD(llvmValue1, arrayPointer))
		sb.WriteString(memCode1)
	case tac.ALOAD:
		llvmValue1 := g.getLLVMValue(arg1)
		llvmValue2 := g.getLLVMValue(arg2)
		llvmType2 := g.typeOfValue(llvmValue2)
		llvmValue2Addr := getLLVMValueAddr(llvmValue2)
		if isArrayType(llvmType2) {
			sb.WriteString(g.createGETELEMENTPTR(llvmValue1, llvmValue2Addr, llvmZeroInt))
		} else if isPointerType(llvmType2) {
			sb.WriteString(g.createLOAD(llvmValue1, llvmValue2Addr))
		}
	case tac.WRITEI:
		llvmValue1, memCode1 := g.accessValueOfArgument(arg1)
		llvmType1 := g.typeOfValue(llvmValue1)
		sb.WriteString(memCode1)
		printIntValue := llvmValue1
		if llvmType1 == llvmInt1 {
			printIntValue = g.newPrefixedValue("%.wrti.i32", llvmInt32)
			sb.WriteString(g.createCONVERSION(llvmZext, printIntValue, llvmValue1, llvmInt1))
		}
		sb.WriteString(createPRINTF(printIntValue, llvmInt))
	case tac.WRITEF:
		llvmValue1, memCode1 := g.accessValueOfArgument(arg1)
		sb.WriteString(memCode1)
		fpextValue := g.newPrefixedValue("%.wrtf.double", llvmDouble)
		sb.WriteString(g.createCONVERSION(llvmFpext, fpextValue, llvmValue1, llvmFloat))
		sb.WriteString(createPRINTF(fpextValue, llvmDouble))
	case tac.WRITEC:
		llvmValue1, memCode1 := g.accessValueOfArgument(arg1)
		sb.WriteString(memCode1)
		zextValue := g.newPrefixedValue("%.wrtc.i32", llvmInt32)
		sb.WriteString(g.createCONVERSION(llvmZext, zextValue, llvmValue1, llvmInt8))
		sb.WriteString(createPUTCHAR(zextValue))
	case tac.WRITES:
		idx := 0
		for i1, e1 := range g.writeSStrVec {
			if e1 == arg1 {
				idx = i1
				break
			}
		}
		strFormat := fmt.Sprintf("@.str.s.%d", idx+1)
		sb.WriteString(createPRINTS(strFormat, g.writeSSizeVec[idx]))
	case tac.WRITELN:
		sb.WriteString(createPUTCHAR("10"))
	case tac.READI:
		llvmValue1 := g.getLLVMValue(arg1)
		llvmType1 := g.typeOfValue(llvmValue1)
		if !isTCodeTemporal(arg1) {
			llvmValue1Addr := getLLVMValueAddr(llvmValue1)
			if llvmType1 == llvmInt1 {
				// Booleans scan as i32 and fold to i1 by comparing against zero.
				globalInt := g.newPrefixedValue("%.readi.global.i", llvmInt32)
				compare0 := g.newPrefixedValue("%.readi.i1.cmp1", llvmInt1)
				notCompare0 := g.newPrefixedValue("%.readi.i1.not", llvmInt1)
				sb.WriteString(g.createSCANF(llvmGlobalIntAddr))
				sb.WriteString(g.createLOAD(globalInt, llvmGlobalIntAddr))
				sb.WriteString(g.createCOMPARISON(tac.EQ, compare0, globalInt, llvmZeroInt, llvmInt))
				sb.WriteString(createNOT(notCompare0, compare0))
				sb.WriteString(g.createSTORE(notCompare0, llvmValue1Addr))
			} else {
				sb.WriteString(g.createSCANF(llvmValue1Addr))
			}
		} else {
			if llvmType1 == llvmInt1 {
				globalInt := g.newPrefixedValue("%.readi.global.i", llvmInt32)
				compare0 := g.newPrefixedValue("%.readi.i1.cmp1", llvmInt1)
				sb.WriteString(g.createSCANF(llvmGlobalIntAddr))
				sb.WriteString(g.createLOAD(globalInt, llvmGlobalIntAddr))
				sb.WriteString(g.createCOMPARISON(tac.EQ, compare0, globalInt, llvmZeroInt, llvmInt))
				sb.WriteString(createNOT(llvmValue1, compare0))
			} else {
				sb.WriteString(g.createSCANF(llvmGlobalIntAddr))
				sb.WriteString(g.createLOAD(llvmValue1, llvmGlobalIntAddr))
			}
		}
	case tac.READF:
		llvmValue1 := g.getLLVMValue(arg1)
		if !isTCodeTemporal(arg1) {
			sb.WriteString(g.createSCANF(getLLVMValueAddr(llvmValue1)))
		} else {
			sb.WriteString(g.createSCANF(llvmGlobalFloatAddr))
			sb.WriteString(g.createLOAD(llvmValue1, llvmGlobalFloatAddr))
		}
	case tac.READC:
		llvmValue1 := g.getLLVMValue(arg1)
		if !isTCodeTemporal(arg1) {
			sb.WriteString(g.createSCANF(getLLVMValueAddr(llvmValue1)))
		} else {
			sb.WriteString(g.createSCANF(llvmGlobalCharAddr))
			sb.WriteString(g.createLOAD(llvmValue1, llvmGlobalCharAddr))
		}
	case tac.ADD, tac.SUB, tac.MUL, tac.DIV:
		llvmValue1, memCode1 := g.modifyValueOfArgument(arg1)
		llvmValue2, memCode2 := g.accessValueOfArgument(arg2)
		llvmValue3, memCode3 := g.accessValueOfArgument(arg3)
		sb.WriteString(memCode2)
		sb.WriteString(memCode3)
		sb.WriteString(g.createARITHMETIC(in.Oper, llvmValue1, llvmValue2, llvmValue3, llvmInt))
		sb.WriteString(memCode1)
	case tac.EQ, tac.LT, tac.LE:
		llvmValue1, memCode1 := g.modifyValueOfArgument(arg1)
		llvmValue2, memCode2 := g.accessValueOfArgument(arg2)
		llvmValue3, memCode3 := g.accessValueOfArgument(arg3)
		llvmType23 := llvmInt
		if isTCodeIdentifier(arg2) || isTCodeTemporal(arg2) {
			llvmType23 = g.typeOfValue(g.getLLVMValue(arg2))
		} else if isTCodeIdentifier(arg3) || isTCodeTemporal(arg3) {
			llvmType23 = g.typeOfValue(g.getLLVMValue(arg3))
		}
		sb.WriteString(memCode2)
		sb.WriteString(memCode3)
		sb.WriteString(g.createCOMPARISON(in.Oper, llvmValue1, llvmValue2, llvmValue3, llvmType23))
		sb.WriteString(memCode1)
	case tac.FEQ, tac.FLT, tac.FLE:
		llvmValue1, memCode1 := g.modifyValueOfArgument(arg1)
		llvmValue2, memCode2 := g.accessValueOfArgument(arg2)
		llvmValue3, memCode3 := g.accessValueOfArgument(arg3)
		sb.WriteString(memCode2)
		sb.WriteString(memCode3)
		sb.WriteString(g.createCOMPARISON(in.Oper, llvmValue1, llvmValue2, llvmValue3, llvmFloat))
		sb.WriteString(memCode1)
	case tac.NEG:
		llvmValue1, memCode1 := g.modifyValueOfArgument(arg1)
		llvmValue2, memCode2 := g.accessValueOfArgument(arg2)
		sb.WriteString(memCode2)
		sb.WriteString(g.createARITHMETIC(tac.SUB, llvmValue1, llvmZeroInt, llvmValue2, llvmInt))
		sb.WriteString(memCode1)
	case tac.FADD, tac.FSUB, tac.FMUL, tac.FDIV:
		llvmValue1, memCode1 := g.modifyValueOfArgument(arg1)
		llvmValue2, memCode2 := g.accessValueOfArgument(arg2)
		llvmValue3, memCode3 := g.accessValueOfArgument(arg3)
		sb.WriteString(memCode2)
		sb.WriteString(memCode3)
		sb.WriteString(g.createARITHMETIC(in.Oper, llvmValue1, llvmValue2, llvmValue3, llvmFloat))
		sb.WriteString(memCode1)
	case tac.FNEG:
		llvmValue1, memCode1 := g.modifyValueOfArgument(arg1)
		llvmValue2, memCode2 := g.accessValueOfArgument(arg2)
		sb.WriteString(memCode2)
		sb.WriteString(indentInstr + llvmValue1 + " = fneg " + llvmFloat + " " + llvmValue2 + "\n")
		sb.WriteString(memCode1)
	case tac.FLOAT:
		llvmValue1, memCode1 := g.modifyValueOfArgument(arg1)
		llvmValue2, memCode2 := g.accessValueOfArgument(arg2)
		sb.WriteString(memCode2)
		sb.WriteString(g.createSITOFP(llvmValue1, llvmValue2, llvmInt))
		sb.WriteString(memCode1)
	case tac.AND, tac.OR:
		llvmValue1, memCode1 := g.modifyValueOfArgument(arg1)
		llvmValue2, memCode2 := g.accessValueOfArgument(arg2)
		llvmValue3, memCode3 := g.accessValueOfArgument(arg3)
		sb.WriteString(memCode2)
		sb.WriteString(memCode3)
		sb.WriteString(indentInstr + llvmValue1 + " = " + tcode2llvm[in.Oper] + " " + llvmBool + " " + llvmValue2 + ", " + llvmValue3 + "\n")
		sb.WriteString(memCode1)
	case tac.NOT:
		llvmValue1, memCode1 := g.modifyValueOfArgument(arg1)
		llvmValue2, memCode2 := g.accessValueOfArgument(arg2)
		sb.WriteString(memCode2)
		sb.WriteString(createNOT(llvmValue1, llvmValue2))
		sb.WriteString(memCode1)
	case tac.NOOP:
		sb.WriteString(";   noop\n")
	default:
		// LOADC and CLOAD are reserved for a future pointer dereference
		// lowering and never reach here from the primary path.
		sb.WriteString(";   UNKNOWN\n")
	}

	g.prevIsTerminator = in.Oper == tac.UJUMP || in.Oper == tac.FJUMP || in.Oper == tac.RETURN

	return sb.String()
}

// accessValueOfArgument materializes the current value of a t-code argument.
// A source identifier loads from its alloca slot into a fresh SSA value;
// temporaries and literals are used directly and need no instruction.
func (g *CodeGen) accessValueOfArgument(tcodeArg string) (string, string) {
	if isTCodeIdentifier(tcodeArg) {
		llvmValueIn := g.getLLVMValue(tcodeArg)
		llvmType := g.typeOfValue(llvmValueIn)
		llvmValueOut := g.newPrefixedValue(llvmValueIn, llvmType)
		return llvmValueOut, g.createLOAD(llvmValueOut, getLLVMValueAddr(llvmValueIn))
	}
	return g.getLLVMValue(tcodeArg), ""
}

// modifyValueOfArgument prepares the destination of a t-code argument. A
// source identifier receives a fresh SSA value and a store back into its
// alloca slot; the store text is emitted after the producing instruction.
func (g *CodeGen) modifyValueOfArgument(tcodeArg string) (string, string) {
	if isTCodeIdentifier(tcodeArg) {
		llvmValueIn := g.getLLVMValue(tcodeArg)
		llvmType := g.typeOfValue(llvmValueIn)
		llvmValueOut := g.newPrefixedValue(llvmValueIn, llvmType)
		return llvmValueOut, g.createSTORE(llvmValueOut, getLLVMValueAddr(llvmValueIn))
	}
	return g.getLLVMValue(tcodeArg), ""
}

// ------------------------------------------
// ----- Single instruction constructors -----
// ------------------------------------------

func createALLOCA(llvmValueAddr, llvmType string) string {
	return indentInstr + llvmValueAddr + " = alloca " + llvmType + "\n"
}

func (g *CodeGen) createSTORE(llvmValue1, llvmValue2Addr string) string {
	llvmType2Ptr := g.typeOfValue(llvmValue2Addr)
	llvmType2 := pointedType(llvmType2Ptr)
	return indentInstr + "store " + llvmType2 + " " + llvmValue1 + ", " + llvmType2Ptr + " " + llvmValue2Addr + "\n"
}

func createLABEL(label string) string {
	return indentLabel + label + ":\n"
}

func (g *CodeGen) createCONVERSION(llvmInstr, llvmValue1, llvmValue2, llvmType2 string) string {
	llvmType1 := g.typeOfValue(llvmValue1)
	return indentInstr + llvmValue1 + " = " + llvmInstr + " " + llvmType2 + " " + llvmValue2 + " to " + llvmType1 + "\n"
}

func (g *CodeGen) createLOAD(llvmValue1, llvmValue2Addr string) string {
	llvmTypePtr := g.typeOfValue(llvmValue2Addr)
	llvmType := pointedType(llvmTypePtr)
	return indentInstr + llvmValue1 + " = load " + llvmType + ", " + llvmTypePtr + " " + llvmValue2Addr + "\n"
}

func (g *CodeGen) createARITHMETIC(oper tac.Operation, llvmValue1, llvmValue2, llvmValue3, llvmType23 string) string {
	return indentInstr + llvmValue1 + " = " + tcode2llvm[oper] + " " + llvmType23 + " " + llvmValue2 + ", " + llvmValue3 + "\n"
}

func (g *CodeGen) createCOMPARISON(oper tac.Operation, llvmValue1, llvmValue2, llvmValue3, llvmType23 string) string {
	return indentInstr + llvmValue1 + " = " + tcode2llvm[oper] + " " + llvmType23 + " " + llvmValue2 + ", " + llvmValue3 + "\n"
}

func createNOT(llvmValue1, llvmValue2 string) string {
	return indentInstr + llvmValue1 + " = xor " + llvmBool + " " + llvmValue2 + ", " + llvmOneInt + "\n"
}

func (g *CodeGen) createSITOFP(llvmValue1, llvmValue2, llvmType2 string) string {
	llvmType1 := g.typeOfValue(llvmValue1)
	return indentInstr + llvmValue1 + " = sitofp " + llvmType2 + " " + llvmValue2 + " to " + llvmType1 + "\n"
}

func createPRINTF(llvmValue, llvmType string) string {
	format := "@.str.i"
	if llvmType == llvmDouble {
		format = "@.str.f"
	}
	return indentInstr + "call i32 (i8*, ...) @printf(i8* getelementptr inbounds ([3 x i8], [3 x i8]* " + format + ", i64 0, i64 0), " + llvmType + " " + llvmValue + ")\n"
}

func createPRINTS(strFormat string, strSize int) string {
	n := strconv.Itoa(strSize)
	return indentInstr + "call i32 (i8*, ...) @printf(i8* getelementptr inbounds ([" + n + " x i8], [" + n + " x i8]* " + strFormat + ", i64 0, i64 0))\n"
}

func createPUTCHAR(llvmValue string) string {
	return indentInstr + "call i32 @putchar(i32 " + llvmValue + ")\n"
}

func (g *CodeGen) createSCANF(llvmValueAddr string) string {
	llvmTypePtr := g.typeOfValue(llvmValueAddr)
	llvmType := pointedType(llvmTypePtr)
	format := "@.str.c"
	if llvmType == llvmInt {
		format = "@.str.i"
	} else if llvmType == llvmFloat {
		format = "@.str.f"
	}
	return indentInstr + "call i32 (i8*, ...) @__isoc99_scanf(i8* getelementptr inbounds ([3 x i8], [3 x i8]* " + format + ", i64 0, i64 0), " + llvmTypePtr + " " + llvmValueAddr + ")\n"
}

func createBR(llvmValue string) string {
	return indentInstr + "br label " + llvmValue + "\n"
}

func createCondBR(llvmValue, labelCont, labelJump string) string {
	return indentInstr + "br i1 " + llvmValue + ", label " + labelCont + ", label " + labelJump + "\n"
}

func createRETTyped(llvmValue, llvmType string) string {
	return indentInstr + "ret " + llvmType + " " + llvmValue + "\n"
}

// createCALLAssign emits a call whose result assigns to llvmValue1. The
// argument buffer holds the values in pop order; emission restores the
// source order.
func (g *CodeGen) createCALLAssign(tcodeFunc, llvmValue1 string, llvmArgs []string) string {
	return indentInstr + llvmValue1 + " = call " + g.getFuncReturnLLVMType(tcodeFunc) + " @" + tcodeFunc + "(" + g.callArgList(llvmArgs) + ")\n"
}

// createCALL emits a call whose result is discarded.
func (g *CodeGen) createCALL(tcodeFunc string, llvmArgs []string) string {
	return indentInstr + "call " + g.getFuncReturnLLVMType(tcodeFunc) + " @" + tcodeFunc + "(" + g.callArgList(llvmArgs) + ")\n"
}

// callArgList renders the typed argument list from the pop ordered buffer.
func (g *CodeGen) callArgList(llvmArgs []string) string {
	sb := strings.Builder{}
	for i1 := len(llvmArgs) - 1; i1 >= 0; i1-- {
		param := llvmArgs[i1]
		if i1 != len(llvmArgs)-1 {
			sb.WriteString(", ")
		}
		sb.WriteString(g.typeOfValue(param) + " " + param)
	}
	return sb.String()
}

// createGETELEMENTPTR emits the address computation of one array element.
// When the base points at an array literal type the GEP carries the leading
// zero index; a pointer-to-element base, i.e. a parameter, omits it.
func (g *CodeGen) createGETELEMENTPTR(llvmArrayPointerValue, llvmArrayBaseValue, llvmArrayIndexValue string) string {
	llvmArrayPtrType := g.typeOfValue(llvmArrayBaseValue)
	llvmPointedType := pointedType(llvmArrayPtrType)
	if isArrayType(llvmPointedType) {
		return indentInstr + llvmArrayPointerValue + " = getelementptr inbounds " + llvmPointedType + ", " + llvmArrayPtrType + " " + llvmArrayBaseValue + ", i64 0, i64 " + llvmArrayIndexValue + "\n"
	}
	return indentInstr + llvmArrayPointerValue + " = getelementptr inbounds " + llvmPointedType + ", " + llvmArrayPtrType + " " + llvmArrayBaseValue + ", i64 " + llvmArrayIndexValue + "\n"
}

// ----------------------------
// ----- Type string utils -----
// ----------------------------

func isAnyIntegerType(llvmType string) bool {
	return llvmType == llvmInt || llvmType == llvmInt8 || llvmType == llvmInt1
}

func typeOneIntUp(llvmIntType string) string {
	switch llvmIntType {
	case llvmInt:
		return llvmInt64
	case llvmInt8:
		return llvmInt32
	case llvmInt1:
		return llvmInt8
	}
	return llvmTyErr
}

func isArrayType(llvmType string) bool {
	return strings.Contains(llvmType, " x ")
}

func elemOfArrayType(llvmArrayType string) string {
	xpos := strings.Index(llvmArrayType, " x ")
	return llvmArrayType[xpos+3 : len(llvmArrayType)-1]
}

func arrayTypeAsPointerType(llvmArrayType string) string {
	return pointerTo(elemOfArrayType(llvmArrayType))
}

func isPointerType(llvmType string) bool {
	return len(llvmType) > 0 && llvmType[len(llvmType)-1] == '*'
}

func pointerTo(llvmType string) string {
	return llvmType + "*"
}

func pointedType(llvmTypePtr string) string {
	if len(llvmTypePtr) == 0 {
		return llvmTypePtr
	}
	return llvmTypePtr[:len(llvmTypePtr)-1]
}

// asciiCode returns the ASCII code of a character literal's content,
// resolving escape sequences.
func asciiCode(s string) int {
	if len(s) == 1 {
		return int(s[0])
	}
	switch s {
	case `\n`:
		return '\n'
	case `\t`:
		return '\t'
	case `\\`:
		return '\\'
	case `\"`:
		return '"'
	case `\'`:
		return '\''
	}
	return int(s[1])
}
