// Package mdtest extracts compiler test cases from Markdown documents. A test
// case is a heading of the form "Test: <name>" followed by an `asl` fenced
// code block holding the source program and one or more assertion fences:
//
//	tcode          exact three-address code dump of the program
//	tcode-contains every non blank line must appear in the dump, in order
//	llvm-contains  every non blank line must appear in the LLVM IR dump, in order
//	errors         exact semantic diagnostics, sorted by position
package mdtest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// AssertionType is the fence language of an assertion block.
type AssertionType string

const (
	AssertionTCode         AssertionType = "tcode"
	AssertionTCodeContains AssertionType = "tcode-contains"
	AssertionLLVMContains  AssertionType = "llvm-contains"
	AssertionErrors        AssertionType = "errors"
)

// inputFence is the fence language of the source program block.
const inputFence = "asl"

// Assertion is a single assertion of a test case.
type Assertion struct {
	Type    AssertionType
	Content string
}

// TestCase is one complete test case extracted from Markdown.
type TestCase struct {
	Name       string
	Input      string
	Assertions []Assertion
}

// ----------------------
// ----- Functions ------
// ----------------------

// ExtractTestCases parses a Markdown document and extracts all test cases.
func ExtractTestCases(markdownContent string) ([]TestCase, error) {
	md := goldmark.New()
	source := []byte(markdownContent)

	doc := md.Parser().Parse(text.NewReader(source))

	var testCases []TestCase
	var current *TestCase

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			headingText := extractTextFromNode(n, source)
			if strings.HasPrefix(headingText, "Test: ") {
				if current != nil {
					if err := validateTestCase(current); err != nil {
						return ast.WalkStop, err
					}
					testCases = append(testCases, *current)
				}
				current = &TestCase{
					Name:       strings.TrimPrefix(headingText, "Test: "),
					Assertions: []Assertion{},
				}
			}

		case *ast.FencedCodeBlock:
			language := string(n.Language(source))
			content := extractCodeBlockContent(n, source)

			if current == nil {
				if language == "" {
					return ast.WalkContinue, nil
				}
				return ast.WalkStop, fmt.Errorf("fence language %q found outside of a test case", language)
			}

			switch {
			case language == inputFence:
				if current.Input != "" {
					return ast.WalkStop, fmt.Errorf("multiple input fences found in test %q", current.Name)
				}
				current.Input = strings.TrimRight(content, "\n")
			case isAssertionFence(language):
				current.Assertions = append(current.Assertions, Assertion{
					Type:    AssertionType(language),
					Content: strings.TrimRight(content, "\n"),
				})
			default:
				return ast.WalkStop, fmt.Errorf("unknown fence language %q in test %q", language, current.Name)
			}
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking markdown AST: %w", err)
	}

	if current != nil {
		if err := validateTestCase(current); err != nil {
			return nil, err
		}
		testCases = append(testCases, *current)
	}

	return testCases, nil
}

// ContainsInOrder reports whether every non blank line of want appears in the
// text, in order. The first missing line is returned for diagnostics.
func ContainsInOrder(textContent, want string) (bool, string) {
	pos := 0
	for _, line := range strings.Split(want, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		i := indexOfLine(textContent[pos:], line)
		if i < 0 {
			return false, line
		}
		pos += i + len(line)
	}
	return true, ""
}

// indexOfLine finds a line whose trimmed content equals want.
func indexOfLine(textContent, want string) int {
	off := 0
	for _, line := range strings.Split(textContent, "\n") {
		if strings.TrimSpace(line) == want {
			return off + strings.Index(line, want)
		}
		off += len(line) + 1
	}
	return -1
}

// extractTextFromNode extracts plain text content from a markdown node.
func extractTextFromNode(node ast.Node, source []byte) string {
	var buf bytes.Buffer

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})

	return buf.String()
}

// extractCodeBlockContent extracts the content from a fenced code block.
func extractCodeBlockContent(codeBlock *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer

	for i := 0; i < codeBlock.Lines().Len(); i++ {
		line := codeBlock.Lines().At(i)
		buf.Write(line.Value(source))
	}

	return buf.String()
}

// isAssertionFence checks if the language indicates an assertion fence.
func isAssertionFence(language string) bool {
	switch AssertionType(language) {
	case AssertionTCode, AssertionTCodeContains, AssertionLLVMContains, AssertionErrors:
		return true
	}
	return false
}

// validateTestCase ensures a test case has both input and at least one assertion.
func validateTestCase(tc *TestCase) error {
	if tc.Input == "" {
		return fmt.Errorf("test %q has no input fence", tc.Name)
	}
	if len(tc.Assertions) == 0 {
		return fmt.Errorf("test %q has no assertion fences", tc.Name)
	}
	return nil
}
