package util

import (
	"testing"

	"github.com/nalgeon/be"
)

// TestStack verifies push, pop, peek and indexed get behaviour.
func TestStack(t *testing.T) {
	s := Stack{}
	be.Equal(t, 0, s.Size())
	be.True(t, s.Pop() == nil)
	be.True(t, s.Peek() == nil)

	s.Push("a")
	s.Push("b")
	s.Push("c")
	be.Equal(t, 3, s.Size())
	be.Equal(t, "c", s.Peek().(string))

	// Get is top down and not zero indexed.
	be.Equal(t, "c", s.Get(1).(string))
	be.Equal(t, "b", s.Get(2).(string))
	be.Equal(t, "a", s.Get(3).(string))
	be.True(t, s.Get(0) == nil)
	be.True(t, s.Get(4) == nil)

	be.Equal(t, "c", s.Pop().(string))
	be.Equal(t, "b", s.Pop().(string))
	be.Equal(t, 1, s.Size())
	be.Equal(t, "a", s.Pop().(string))
	be.Equal(t, 0, s.Size())
}

// TestStackIgnoresNil verifies that <nil> values are not stored.
func TestStackIgnoresNil(t *testing.T) {
	s := Stack{}
	s.Push(nil)
	be.Equal(t, 0, s.Size())
}
