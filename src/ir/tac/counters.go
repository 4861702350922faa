// counters.go issues fresh temporary names and label suffixes. One counters
// value lives per generated function; temporary and label numbering restarts
// at 1 in every subroutine, which keeps the generated names deterministic for
// a depth-first left-to-right walk of the tree.

package tac

import "strconv"

// counters holds the per function numbering state of the code generator.
type counters struct {
	temp     int // Temporaries %1, %2, ...
	labelIf  int // Suffixes of If/Else/Endif labels.
	labelWhl int // Suffixes of While/EndWhile and ArrayCpy labels.
}

// reset restarts every counter. Called on function entry.
func (c *counters) reset() {
	c.temp = 0
	c.labelIf = 0
	c.labelWhl = 0
}

// newTemp returns a fresh temporary name.
func (c *counters) newTemp() string {
	c.temp++
	return "%" + strconv.Itoa(c.temp)
}

// newLabelIf returns a fresh numeric suffix for the if label family.
func (c *counters) newLabelIf() string {
	c.labelIf++
	return strconv.Itoa(c.labelIf)
}

// newLabelWhile returns a fresh numeric suffix for the while label family.
// Array copy loops draw from the same counter.
func (c *counters) newLabelWhile() string {
	c.labelWhl++
	return strconv.Itoa(c.labelWhl)
}
