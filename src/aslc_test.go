// End to end compiler tests driven by the markdown corpus under testdata/.
// Each test case compiles one ASL program and checks the dumped t-code, the
// LLVM IR and the semantic diagnostics against the corpus assertions.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"aslc/src/backend/llvm"
	"aslc/src/frontend"
	"aslc/src/ir"
	"aslc/src/ir/tac"
	"aslc/src/mdtest"
)

// compileResult holds every artifact of one compilation.
type compileResult struct {
	tcode  string
	llvm   string
	errors string
}

// compileASL runs the whole pipeline over one source string.
func compileASL(t *testing.T, src string) compileResult {
	t.Helper()
	root, n, err := frontend.Parse(src)
	be.Err(t, err, nil)

	ir.CollectSymbols(root, n)
	ir.TypeCheck(root)
	if ir.Errs.Count() > 0 {
		return compileResult{errors: ir.Errs.String()}
	}

	code := tac.Generate(root)
	res := compileResult{tcode: code.Dump()}
	if out, err := llvm.NewCodeGen(&code).Dump(); err == nil {
		res.llvm = out
	}
	return res
}

// TestMarkdownCorpus runs every test case of every markdown corpus file.
func TestMarkdownCorpus(t *testing.T) {
	files, err := filepath.Glob("testdata/*_test.md")
	be.Err(t, err, nil)
	be.True(t, len(files) > 0)

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".md")
		t.Run(name, func(t *testing.T) {
			content, err := os.ReadFile(file)
			be.Err(t, err, nil)

			cases, err := mdtest.ExtractTestCases(string(content))
			be.Err(t, err, nil)

			for _, tc := range cases {
				t.Run(tc.Name, func(t *testing.T) {
					res := compileASL(t, tc.Input)
					for _, a := range tc.Assertions {
						switch a.Type {
						case mdtest.AssertionTCode:
							be.Equal(t, a.Content, strings.TrimRight(res.tcode, "\n"))
						case mdtest.AssertionTCodeContains:
							if ok, miss := mdtest.ContainsInOrder(res.tcode, a.Content); !ok {
								t.Fatalf("t-code is missing line %q:\n%s", miss, res.tcode)
							}
						case mdtest.AssertionLLVMContains:
							if ok, miss := mdtest.ContainsInOrder(res.llvm, a.Content); !ok {
								t.Fatalf("LLVM IR is missing line %q:\n%s", miss, res.llvm)
							}
						case mdtest.AssertionErrors:
							be.Equal(t, a.Content, strings.TrimRight(res.errors, "\n"))
						}
					}
				})
			}
		})
	}
}

// TestDiagnosticsRefuseEmission verifies that a program with diagnostics
// produces no code artifacts.
func TestDiagnosticsRefuseEmission(t *testing.T) {
	res := compileASL(t, `
func main()
  var a : int
  a = true;
endfunc
`)
	be.Equal(t, "", res.tcode)
	be.Equal(t, "", res.llvm)
	be.True(t, res.errors != "")
}
