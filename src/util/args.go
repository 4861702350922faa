package util

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

type Options struct {
	Src          string // Path to source file.
	Out          string // Path to output file.
	Verbose      bool   // Set true if compiler should log the syntax tree and pass banners to stdout.
	TokenStream  bool   // Set true if compiler should output token stream and exit.
	TCode        bool   // Set true if compiler should dump three-address code.
	LLVM         bool   // Set true if compiler should dump LLVM IR.
	Object       bool   // Set true if compiler should assemble the LLVM IR into an object file.
	TargetArch   int    // Object emission target architecture.
	TargetVendor int    // Object emission target vendor type. 0 = unknown.
	TargetOS     int    // Object emission target operating system type.
}

// ---------------------
// ----- Constants -----
// ---------------------

const appVersion = "asl compiler 1.0"

// Target machine architectures for object emission.
const (
	UnknownArch = iota
	X86_64
	X86_32
	Aarch64
	Riscv64
	Riscv32
)

// Target operating system.
const (
	UnknownOS = iota
	Linux
	Windows
	MAC
)

// Target vendor.
const (
	UnknownVendor = iota
	Apple
	PC
	IBM
)

// ---------------------
// ----- functions -----
// ---------------------

// ParseArgs parses command line arguments.
func ParseArgs() (Options, error) {
	opt := Options{}
	if len(os.Args) < 2 {
		return opt, nil
	}
	args := os.Args[1:]
	for i1 := 0; i1 < len(args)-1; i1++ {
		switch args[i1] {
		case "-h", "--h", "-help", "--help":
			// Help and usage.
			printHelp()
			os.Exit(0)
		case "-tc":
			// Dump three-address code.
			opt.TCode = true
		case "-ll":
			// Dump LLVM IR.
			opt.LLVM = true
		case "-c":
			// Assemble LLVM IR into an object file using the LLVM runtime.
			opt.LLVM = true
			opt.Object = true
		case "-o":
			if i1+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i1])
			}
			if strings.HasPrefix(args[i1+1], "-") {
				return opt, fmt.Errorf("expected path to output file, got new flag %s", args[i1+1])
			}
			opt.Out = args[i1+1]
			i1++
		case "-arch":
			// Object emission architecture.
			if i1+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i1])
			}
			if strings.HasPrefix(args[i1+1], "-") {
				return opt, fmt.Errorf("expected architecture identifier, got new flag %s", args[i1+1])
			}
			switch args[i1+1] {
			case "aarch64":
				opt.TargetArch = Aarch64
			case "riscv64":
				opt.TargetArch = Riscv64
			case "riscv32":
				opt.TargetArch = Riscv32
			case "x86_64":
				opt.TargetArch = X86_64
			case "x86_32":
				opt.TargetArch = X86_32
			default:
				return opt, fmt.Errorf("unexpected architecture identifier: %s", args[i1+1])
			}
			i1++
		case "-os":
			// Object emission operating system type.
			if i1+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i1])
			}
			if strings.HasPrefix(args[i1+1], "-") {
				return opt, fmt.Errorf("expected operating system identifier, got new flag %s", args[i1+1])
			}
			switch args[i1+1] {
			case "linux":
				opt.TargetOS = Linux
			case "windows":
				opt.TargetOS = Windows
			case "mac":
				opt.TargetOS = MAC
			default:
				return opt, fmt.Errorf("unexpected operating system identifier: %s", args[i1+1])
			}
			i1++
		case "-vendor":
			// Object emission vendor type.
			if i1+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i1])
			}
			if strings.HasPrefix(args[i1+1], "-") {
				return opt, fmt.Errorf("expected vendor identifier, got new flag %s", args[i1+1])
			}
			switch args[i1+1] {
			case "pc":
				opt.TargetVendor = PC
			case "apple":
				opt.TargetVendor = Apple
			case "ibm":
				opt.TargetVendor = IBM
			default:
				return opt, fmt.Errorf("unexpected vendor identifier: %s", args[i1+1])
			}
			i1++
		case "-ts":
			// Output token stream.
			opt.TokenStream = true
		case "-v", "--v", "-version", "--version":
			// Application version.
			fmt.Println(appVersion)
			os.Exit(0)
		case "-vb":
			// Verbose mode.
			opt.Verbose = true
		default:
			return opt, fmt.Errorf("unexpected flag: %s", args[i1])
		}
	}
	if len(args) > 0 {
		opt.Src = args[len(args)-1]
	}
	return opt, nil
}

// printHelp prints a helpful usage message to stdout.
func printHelp() {
	w := tabwriter.NewWriter(os.Stdout, 6, 1, 1, 0, 0)
	_, _ = fmt.Fprintln(w, "-h, -help\tPrints this help message and exits the application.")
	_, _ = fmt.Fprintln(w, "--h, --help")
	_, _ = fmt.Fprintln(w, "-tc\tDump the three-address code of the program.")
	_, _ = fmt.Fprintln(w, "-ll\tDump the LLVM IR of the program.")
	_, _ = fmt.Fprintln(w, "-c\tAssemble the LLVM IR into an object file using the LLVM runtime.")
	_, _ = fmt.Fprintln(w, "-o\tPath and name of the output file.")
	_, _ = fmt.Fprintln(w, "-arch\tObject target architecture. Can be 'aarch64', 'riscv32', 'riscv64', 'x86_32' or 'x86_64'.")
	_, _ = fmt.Fprintln(w, "-os\tObject target operating system. Can be 'linux', 'windows' or 'mac'.")
	_, _ = fmt.Fprintln(w, "-vendor\tObject target vendor. Can be 'pc', 'apple' or 'ibm'.")
	_, _ = fmt.Fprintln(w, "-ts\tOutput the tokens of the source code and exit.")
	_, _ = fmt.Fprintln(w, "-v, -version\tPrints application version and exits the application.")
	_, _ = fmt.Fprintln(w, "--v, --version")
	_ = w.Flush()
}
