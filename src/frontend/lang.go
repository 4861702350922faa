package frontend

type reservedItem struct {
	val string
	typ itemType
}

// rw contains the set of all reserved ASL keywords.
// The first dimension is indexed by the length of the word minus one.
// The second dimension is the slice of all words of that length.
// Indexing by length and searching should be faster than using a hash table.
var rw = [...][]reservedItem{
	// One-grams
	{},
	// Two-grams
	{
		{val: "of", typ: OF},
		{val: "if", typ: IF},
		{val: "do", typ: DO},
		{val: "or", typ: OR},
	},
	// Three-grams
	{
		{val: "var", typ: VAR},
		{val: "int", typ: INT},
		{val: "and", typ: AND},
		{val: "not", typ: NOT},
	},
	// Four-grams
	{
		{val: "bool", typ: BOOL},
		{val: "char", typ: CHAR},
		{val: "else", typ: ELSE},
		{val: "func", typ: FUNC},
		{val: "read", typ: READ},
		{val: "true", typ: TRUE},
		{val: "then", typ: THEN},
	},
	// Five-grams
	{
		{val: "array", typ: ARRAY},
		{val: "float", typ: FLOAT},
		{val: "while", typ: WHILE},
		{val: "endif", typ: ENDIF},
		{val: "write", typ: WRITE},
		{val: "false", typ: FALSE},
	},
	// Six-grams
	{
		{val: "return", typ: RETURN},
	},
	// Seven-grams
	{
		{val: "endfunc", typ: ENDFUNC},
	},
	// Eight-grams
	{
		{val: "endwhile", typ: ENDWHILE},
	},
}

// isKeyword returns true if the string s is a reserved ASL keyword.
// On the return of true the itemType of the keyword is returned.
// On the return of false the itemType is either IDENTIFIER or itemError.
func isKeyword(s string) (bool, itemType) {
	if len(s) == 0 {
		return false, itemError
	}
	if len(s) > len(rw) {
		return false, IDENTIFIER
	}

	// Check if string s is a reserved word by iterating over all words in rw of length len(s).
	for _, e1 := range rw[len(s)-1] {
		if e1.val == s {
			return true, e1.typ
		}
	}
	return false, IDENTIFIER
}
