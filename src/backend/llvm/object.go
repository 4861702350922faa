// object.go assembles the emitted LLVM IR into a relocatable object file
// through the system installed LLVM runtime: parse the IR text into a module,
// verify it, configure a target machine from the compiler options and emit
// object code.

package llvm

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tinygo.org/x/go-llvm"

	"aslc/src/util"
)

// EmitObject compiles the LLVM IR text into an object file. The destination
// is opt.Out, or the source file name with an .o extension.
func EmitObject(opt util.Options, irText string) error {
	ctx := llvm.NewContext()
	defer ctx.Dispose()

	// The IR reader consumes a memory buffer backed by a file.
	tmp, err := os.CreateTemp("", "aslc-*.ll")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()
	if _, err = tmp.WriteString(irText); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}

	buf, err := llvm.NewMemoryBufferFromFile(tmp.Name())
	if err != nil {
		return err
	}
	m, err := llvm.ParseIR(ctx, buf)
	if err != nil {
		return fmt.Errorf("could not parse emitted IR: %s", err)
	}
	defer m.Dispose()

	if err = llvm.VerifyModule(m, llvm.ReturnStatusAction); err != nil {
		return fmt.Errorf("emitted IR failed verification: %s", err)
	}

	// Initialise LLVM code generation.
	llvm.InitializeAllTargetInfos()
	llvm.InitializeAllTargetMCs()
	llvm.InitializeAllAsmParsers()
	llvm.InitializeAllAsmPrinters()

	t, triple, err := genTargetTriple(&opt)
	if err != nil {
		return err
	}

	tm := t.CreateTargetMachine(triple, "generic", "",
		llvm.CodeGenLevelNone,
		llvm.RelocDefault,
		llvm.CodeModelDefault)
	defer tm.Dispose()

	td := tm.CreateTargetData()
	defer td.Dispose()

	m.SetDataLayout(td.String())
	m.SetTarget(tm.Triple())

	obj, err := tm.EmitToMemoryBuffer(m, llvm.ObjectFile)
	if err != nil {
		return err
	}
	if obj.IsNil() {
		return errors.New("could not emit compiled code to memory")
	}

	var out string
	if len(opt.Out) > 0 {
		out = opt.Out
	} else {
		out = fmt.Sprintf("./%s.o", strings.TrimSuffix(filepath.Base(opt.Src), filepath.Ext(opt.Src)))
	}

	fd, err := os.OpenFile(out, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0755)
	if err != nil {
		return err
	}
	defer func() {
		if err := fd.Close(); err != nil {
			fmt.Println(err)
		}
	}()
	if _, err = fd.Write(obj.Bytes()); err != nil {
		return err
	}
	return nil
}

// genTargetTriple generates an LLVM target triple given the compiler options.
func genTargetTriple(opt *util.Options) (llvm.Target, string, error) {
	sb := strings.Builder{}
	var triple string

	// Target architecture. Revert to host system default if unknown.
	if opt.TargetArch == util.UnknownArch {
		triple = llvm.DefaultTargetTriple()
	} else {
		sb.Grow(20)

		switch opt.TargetArch {
		case util.Aarch64:
			sb.WriteString("aarch64")
		case util.Riscv64:
			sb.WriteString("riscv64")
		case util.Riscv32:
			sb.WriteString("riscv32")
		case util.X86_64:
			sb.WriteString("x86_64")
		case util.X86_32:
			sb.WriteString("x86")
		default:
			return llvm.Target{}, "", fmt.Errorf("unsupported target architecture identifier %d",
				opt.TargetArch)
		}
		sb.WriteRune('-')

		// Target vendor. Defaults to PC.
		switch opt.TargetVendor {
		case util.PC, util.UnknownVendor:
			sb.WriteString("pc")
		case util.Apple:
			sb.WriteString("apple")
		case util.IBM:
			sb.WriteString("ibm")
		default:
			return llvm.Target{}, "", fmt.Errorf("unsupported target vendor identifier %d",
				opt.TargetVendor)
		}
		sb.WriteRune('-')

		// Target operating system.
		if opt.TargetOS > 0 {
			switch opt.TargetOS {
			case util.Linux:
				sb.WriteString("linux")
			case util.Windows:
				sb.WriteString("win32")
			case util.MAC:
				sb.WriteString("darwin")
			default:
				return llvm.Target{}, "", fmt.Errorf("unsupported target operating system identifier %d",
					opt.TargetOS)
			}
		} else {
			sb.WriteString("none")
		}

		// Target abi/environment.
		sb.WriteRune('-')
		sb.WriteString("gnu")

		triple = sb.String()
	}

	llvm.InitializeAllTargets()
	tt, err := llvm.GetTargetFromTriple(triple)
	if err != nil {
		return llvm.Target{}, "", err
	}
	return tt, triple, nil
}
