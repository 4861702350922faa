// This lexer is based on, and copied from, Rob Pike's excellent talk on Go scanners.
// Link to the talk on YouTube: https://www.youtube.com/watch?v=HxaD_trXwRE
// Link to presentation slides: https://talks.golang.org/2011/lex.slide#1
//
// The lexer uses state functions stateFunc to define the lexer state. States allow the lexer to treat same runes
// differently. State transitions happen in the current states on the appearance of key runes. The lexer uses the Go
// 'character' type 'rune' which enables native UTF-8 support for the source being scanned.

package frontend

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"aslc/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// stateFunc defines the state of the lexer.
type stateFunc func(*lexer) stateFunc

// itemType is used to differentiate different tokens scanned by the lexer.
type itemType int

// item contains a lexeme scanned by the lexer and its position in the source stream.
type item struct {
	typ  itemType // Token type to emit.
	val  string   // Value of token.
	line int      // Line of token in source stream.
	pos  int      // Start position on current line of token in source stream.
}

// lexer is a lexical type that traverses a source stream character by character and emits lexemes.
type lexer struct {
	input       string    // The source stream of characters to scan for lexemes.
	start       int       // The starting position of the current token.
	pos         int       // The current position of the scanner in the source stream.
	width       int       // The width of the currently scanned rune/character in bytes.
	line        int       // The current line in the source stream. Not zero-indexed.
	startOnLine int       // The start position of the current token on the current line. Not zero-indexed.
	state       stateFunc // The start state of the lexer.
	items       chan item // A channel for emitting item tokens.
}

// ---------------------
// ----- Constants -----
// ---------------------

const eof = 0 // Same as '\0' for null-terminated C strings.

const (
	itemEOF itemType = iota
	itemError
)

// Named tokens start above the single rune range; single character operators
// and delimiters pass through as itemType(r).
const (
	IDENTIFIER itemType = iota + 256
	INTVAL
	FLOATVAL
	CHARVAL
	STRINGVAL
	VAR
	INT
	BOOL
	FLOAT
	CHAR
	ARRAY
	OF
	IF
	THEN
	ELSE
	ENDIF
	WHILE
	DO
	ENDWHILE
	FUNC
	ENDFUNC
	READ
	WRITE
	RETURN
	AND
	OR
	NOT
	TRUE
	FALSE
	EQUAL
	NEQ
	LE
	GE
)

// namedTokens provides print friendly names for the named tokens.
var namedTokens = map[itemType]string{
	itemEOF:    "EOF",
	itemError:  "ERROR",
	IDENTIFIER: "IDENTIFIER",
	INTVAL:     "INTVAL",
	FLOATVAL:   "FLOATVAL",
	CHARVAL:    "CHARVAL",
	STRINGVAL:  "STRINGVAL",
	VAR:        "VAR",
	INT:        "INT",
	BOOL:       "BOOL",
	FLOAT:      "FLOAT",
	CHAR:       "CHAR",
	ARRAY:      "ARRAY",
	OF:         "OF",
	IF:         "IF",
	THEN:       "THEN",
	ELSE:       "ELSE",
	ENDIF:      "ENDIF",
	WHILE:      "WHILE",
	DO:         "DO",
	ENDWHILE:   "ENDWHILE",
	FUNC:       "FUNC",
	ENDFUNC:    "ENDFUNC",
	READ:       "READ",
	WRITE:      "WRITE",
	RETURN:     "RETURN",
	AND:        "AND",
	OR:         "OR",
	NOT:        "NOT",
	TRUE:       "TRUE",
	FALSE:      "FALSE",
	EQUAL:      "EQUAL",
	NEQ:        "NEQ",
	LE:         "LE",
	GE:         "GE",
}

// --------------------------
// ----- Item functions -----
// --------------------------

// String returns a print friendly string representation of the item.
func (i item) String() string {
	switch i.typ {
	case itemEOF:
		return "EOF"
	case itemError:
		return fmt.Sprintf("%s [ERROR]", i.val)
	}
	if len(i.val) > 10 {
		return fmt.Sprintf("%.10q... (line %d:%d)", i.val, i.line, i.pos)
	}
	return fmt.Sprintf("%q (line %d:%d)", i.val, i.line, i.pos)
}

// tokenName returns a print friendly name for the token type.
func tokenName(t itemType) string {
	if s, ok := namedTokens[t]; ok {
		return s
	}
	return fmt.Sprintf("%q", rune(t))
}

// ---------------------------
// ----- Lexer functions -----
// ---------------------------

// newLexer creates and returns a pointer to a new lexer.
func newLexer(src string, start stateFunc) *lexer {
	return &lexer{
		input:       src,
		start:       0,
		pos:         0,
		width:       0,
		line:        1,
		startOnLine: 1,
		state:       start,
		items:       make(chan item, 2),
	}
}

// run initiates the traversal of the input stream of the lexer, resulting in tokens being emitted
// on the lexer's items channel.
func (l *lexer) run() {
	defer close(l.items)
	for state := l.state; state != nil; {
		state = state(l)
	}
}

// emit sends an item of type typ back to the caller.
func (l *lexer) emit(typ itemType) {
	defer func() {
		if r := recover(); r != nil {
			// Send on closed channel.
			l.state = nil // Stop the lexer.
		}
	}()

	l.items <- item{
		typ:  typ,
		val:  l.input[l.start:l.pos],
		line: l.line,
		pos:  l.startOnLine,
	}
	l.startOnLine += len(l.input[l.start:l.pos])
	l.start = l.pos
}

// next returns the next rune in the input. The use of runes makes the lexer UTF-8 compatible.
func (l *lexer) next() (r rune) {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, l.width = utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += l.width
	return r
}

// ignore skips over the pending input before this point.
func (l *lexer) ignore() {
	l.startOnLine += len(l.input[l.start:l.pos])
	l.start = l.pos
}

// backup steps back one rune. Should only be called once per call of next.
func (l *lexer) backup() {
	if l.pos > l.start {
		l.pos -= l.width
	}
}

// peek returns, but does not consume, the next rune in the input.
func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// nextItem returns the next item from the input.
func (l *lexer) nextItem() item {
	return <-l.items
}

// errorf returns an error token and terminates the scan by passing back a nil pointer
// that will be the next state, terminating l.run.
func (l *lexer) errorf(format string, args ...interface{}) stateFunc {
	l.items <- item{
		typ:  itemError,
		val:  fmt.Sprintf(format, args...),
		line: l.line,
		pos:  l.startOnLine,
	}
	return nil
}

// TokenStream outputs the token stream from the given source string.
func TokenStream(src string) error {
	l := newLexer(src, lexGlobal)
	go l.run()

	wr := util.NewWriter()
	defer wr.Close()
	sb := strings.Builder{}
	tw := tabwriter.NewWriter(&sb, 10, 20, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Value\tType\tPosition\n")
	for {
		t := l.nextItem()
		switch t.typ {
		case itemEOF:
			var err error
			if err2 := tw.Flush(); err2 != nil {
				err = err2
			}
			wr.WriteString(sb.String())
			return err
		case itemError:
			wr.WriteString(sb.String())
			return fmt.Errorf("line %d:%d: %s", t.line, t.pos, t.val)
		default:
			if len(t.val) > 20 {
				_, _ = fmt.Fprintf(tw, "%.17q...\t%s\tline: %d:%d\n", t.val, tokenName(t.typ), t.line, t.pos)
			} else {
				_, _ = fmt.Fprintf(tw, "%q\t%s\tline: %d:%d\n", t.val, tokenName(t.typ), t.line, t.pos)
			}
		}
	}
}
