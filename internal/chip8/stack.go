package chip8

import "fmt"

// DefaultStackLimit matches the 16 levels of common CHIP-8 interpreters.
const DefaultStackLimit = 16

// Stack is the subroutine return address stack.
type Stack struct {
	entries []uint16
	limit   int // 0 means unbounded
}

func newStack(limit int) Stack {
	return Stack{limit: limit}
}

// Push stores a return address.
func (s *Stack) Push(address uint16) error {
	if s.limit > 0 && len(s.entries) >= s.limit {
		return fmt.Errorf("%w: depth %d", ErrStackOverflow, s.limit)
	}
	s.entries = append(s.entries, address)
	return nil
}

// Pop removes and returns the most recently pushed return address.
func (s *Stack) Pop() (uint16, error) {
	if len(s.entries) == 0 {
		return 0, ErrStackUnderflow
	}
	last := len(s.entries) - 1
	address := s.entries[last]
	s.entries = s.entries[:last]
	return address, nil
}

// Depth returns the number of entries on the stack.
func (s *Stack) Depth() int {
	return len(s.entries)
}
