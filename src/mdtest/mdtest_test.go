package mdtest

import (
	"testing"

	"github.com/nalgeon/be"
)

const sample = "# Corpus\n\n" +
	"## Test: first\n\n" +
	"```asl\nfunc main()\nendfunc\n```\n\n" +
	"```tcode\nFUNCTION main\n    RETURN\n```\n\n" +
	"## Test: second\n\n" +
	"```asl\nfunc main()\n  write 1;\nendfunc\n```\n\n" +
	"```tcode-contains\nWRITEI %1\n```\n\n" +
	"```llvm-contains\nret i32 0\n```\n"

// TestExtractTestCases verifies heading and fence extraction.
func TestExtractTestCases(t *testing.T) {
	cases, err := ExtractTestCases(sample)
	be.Err(t, err, nil)
	be.Equal(t, 2, len(cases))

	be.Equal(t, "first", cases[0].Name)
	be.Equal(t, "func main()\nendfunc", cases[0].Input)
	be.Equal(t, 1, len(cases[0].Assertions))
	be.Equal(t, AssertionTCode, cases[0].Assertions[0].Type)
	be.Equal(t, "FUNCTION main\n    RETURN", cases[0].Assertions[0].Content)

	be.Equal(t, "second", cases[1].Name)
	be.Equal(t, 2, len(cases[1].Assertions))
	be.Equal(t, AssertionLLVMContains, cases[1].Assertions[1].Type)
}

// TestExtractRejectsMalformed verifies validation of incomplete test cases.
func TestExtractRejectsMalformed(t *testing.T) {
	_, err := ExtractTestCases("## Test: empty\n\n```asl\nfunc main() endfunc\n```\n")
	be.True(t, err != nil) // No assertions.

	_, err = ExtractTestCases("## Test: noinput\n\n```tcode\nRETURN\n```\n")
	be.True(t, err != nil) // No input fence.

	_, err = ExtractTestCases("## Test: bad\n\n```asl\nx\n```\n\n```mystery\ny\n```\n")
	be.True(t, err != nil) // Unknown fence language.
}

// TestContainsInOrder verifies the ordered line matcher.
func TestContainsInOrder(t *testing.T) {
	text := "a\nb\nc\nd\n"
	ok, _ := ContainsInOrder(text, "a\nc")
	be.True(t, ok)
	ok, miss := ContainsInOrder(text, "c\na")
	be.True(t, !ok)
	be.Equal(t, "a", miss)
	ok, _ = ContainsInOrder(text, "\n\nb\n\nd\n")
	be.True(t, ok)
}
