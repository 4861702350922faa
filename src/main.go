package main

import (
	"fmt"
	"os"

	"aslc/src/backend/llvm"
	"aslc/src/frontend"
	"aslc/src/ir"
	"aslc/src/ir/tac"
	"aslc/src/util"
)

func main() {
	// Parse command line arguments.
	opt, err := util.ParseArgs()
	if err != nil {
		fmt.Printf("Command line argument error: %s\n", err)
		os.Exit(1)
	}

	// Read source code.
	src, err := util.ReadSource(opt)
	if err != nil {
		fmt.Printf("Could not read source code: %s\n", err)
		os.Exit(1)
	}

	// Initiate output writer.
	if len(opt.Out) > 0 && !opt.Object {
		// Attempt to open output file. Create new file if necessary.
		f, err := os.OpenFile(opt.Out, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		defer func(f *os.File) {
			if err := f.Close(); err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
		}(f)
		util.ListenWrite(f)
	} else {
		// Write results to stdout.
		util.ListenWrite(nil)
	}
	defer util.Close()

	// If -ts flag was passed: output token stream and exit.
	if opt.TokenStream {
		if err := frontend.TokenStream(src); err != nil {
			fmt.Printf("Syntax error: %s\n", err)
			os.Exit(1)
		}
		return
	}

	// Generate syntax tree by lexing and parsing source code.
	root, nodeCount, err := frontend.Parse(src)
	if err != nil {
		fmt.Printf("Parse error: %s\n", err)
		os.Exit(1)
	}

	if opt.Verbose {
		fmt.Println("Syntax tree:")
		root.Print(0, false)
	}

	// Bind declarations and build the symbol table.
	ir.CollectSymbols(root, nodeCount)

	// Type check the tree.
	ir.TypeCheck(root)
	if ir.Errs.Count() > 0 {
		ir.Errs.Print(os.Stderr)
		os.Exit(1)
	}

	if opt.Verbose {
		fmt.Println("Symbol table:")
		fmt.Println(ir.Symbols.String())
	}

	// Generate three-address code.
	code := tac.Generate(root)

	wr := util.NewWriter()
	defer wr.Close()

	if opt.TCode || !opt.LLVM {
		// Dump t-code by default when no backend flag was passed.
		wr.WriteString(code.Dump())
	}

	if opt.LLVM {
		g := llvm.NewCodeGen(&code)
		irText, err := g.Dump()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if !opt.Object {
			wr.WriteString(irText)
		} else if err := llvm.EmitObject(opt, irText); err != nil {
			fmt.Fprintf(os.Stderr, "Object emission error: %s\n", err)
			os.Exit(1)
		}
	}
}
