package chip8

import "errors"

var (
	// ErrStackOverflow is returned when a CALL exceeds the stack limit.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned when a RET executes with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrROMTooLarge is returned when a ROM does not fit into program memory.
	ErrROMTooLarge = errors.New("rom too large")
	// ErrEmptyROM is returned when loading a ROM without any data.
	ErrEmptyROM = errors.New("rom is empty")
	// ErrInvalidState is returned when restoring a malformed state snapshot.
	ErrInvalidState = errors.New("invalid state snapshot")
)
