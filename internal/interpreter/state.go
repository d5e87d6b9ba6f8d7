// Package interpreter executes Yul programs directly against an abstract
// machine state, without generating code. It reproduces the IR's scoping
// rules (block-local declarations, forward-visible function definitions, no
// shadowing), the break/continue/leave propagation protocol, the
// rightmost-first argument evaluation order, and two runaway-execution
// guards: a statement step budget and an expression nesting budget.
//
// The interpreter assumes its input has been checked by the analyzer.
// Conditions that a valid, analyzed program cannot produce are reported as
// *InvariantError: they mark a defect in the input or in an earlier stage,
// not a user-facing failure.
package interpreter

import (
	"fmt"
	"io"
	"sort"

	"github.com/holiman/uint256"
)

// ControlFlowState is the in-band signal used to propagate break, continue
// and leave requests up through nested block execution.
type ControlFlowState int

const (
	ControlFlowDefault ControlFlowState = iota
	ControlFlowBreak
	ControlFlowContinue
	ControlFlowLeave
)

// State is the mutable machine state of one top-level run. It is created by
// the driver, shared by reference with every nested interpreter frame, and
// mutated strictly synchronously; nothing in here is safe for concurrent use.
type State struct {
	Trace   []string
	Memory  map[uint64]byte
	Storage map[[32]byte][32]byte

	NumSteps uint64
	// MaxSteps caps the statement count; 0 means unlimited.
	MaxSteps uint64
	// MaxExprNesting caps the expression evaluation depth; 0 means unlimited.
	MaxExprNesting uint64

	ControlFlow ControlFlowState

	// msize is the highest 32-byte-rounded memory boundary touched so far.
	msize uint64
}

func NewState(maxSteps, maxExprNesting uint64) *State {
	return &State{
		Memory:         make(map[uint64]byte),
		Storage:        make(map[[32]byte][32]byte),
		MaxSteps:       maxSteps,
		MaxExprNesting: maxExprNesting,
	}
}

// Log appends a line to the trace.
func (s *State) Log(format string, args ...interface{}) {
	s.Trace = append(s.Trace, fmt.Sprintf(format, args...))
}

// ReadMemoryByte returns the byte at offset, zero if never written.
func (s *State) ReadMemoryByte(offset uint64) byte {
	s.touchMemory(offset, 1)
	return s.Memory[offset]
}

// WriteMemoryByte stores a single byte.
func (s *State) WriteMemoryByte(offset uint64, value byte) {
	s.touchMemory(offset, 1)
	s.Memory[offset] = value
}

// ReadMemoryWord reads a 32-byte big-endian word starting at offset.
func (s *State) ReadMemoryWord(offset uint64) uint256.Int {
	s.touchMemory(offset, 32)
	var buf [32]byte
	for i := uint64(0); i < 32; i++ {
		buf[i] = s.Memory[offset+i]
	}
	var w uint256.Int
	w.SetBytes(buf[:])
	return w
}

// WriteMemoryWord stores a 32-byte big-endian word starting at offset.
func (s *State) WriteMemoryWord(offset uint64, value uint256.Int) {
	s.touchMemory(offset, 32)
	buf := value.Bytes32()
	for i := uint64(0); i < 32; i++ {
		s.Memory[offset+i] = buf[i]
	}
}

// ReadMemory copies size bytes starting at offset.
func (s *State) ReadMemory(offset, size uint64) []byte {
	if size == 0 {
		return nil
	}
	s.touchMemory(offset, size)
	out := make([]byte, size)
	for i := uint64(0); i < size; i++ {
		out[i] = s.Memory[offset+i]
	}
	return out
}

// WriteMemory stores data starting at offset.
func (s *State) WriteMemory(offset uint64, data []byte) {
	if len(data) == 0 {
		return
	}
	s.touchMemory(offset, uint64(len(data)))
	for i, b := range data {
		s.Memory[offset+uint64(i)] = b
	}
}

// MemorySize returns the highest 32-byte-rounded boundary touched so far.
func (s *State) MemorySize() uint64 {
	return s.msize
}

func (s *State) touchMemory(offset, size uint64) {
	end := offset + size
	rounded := (end + 31) / 32 * 32
	if rounded > s.msize {
		s.msize = rounded
	}
}

// DumpTraceAndState renders the trace, a coalesced view of memory (32-byte
// words, zero words suppressed, ascending offsets) and the non-zero storage
// slots. Diagnostic output only; nothing parses it.
func (s *State) DumpTraceAndState(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Trace:"); err != nil {
		return err
	}
	for _, line := range s.Trace {
		if _, err := fmt.Fprintf(w, "  %s\n", line); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, "Memory dump:"); err != nil {
		return err
	}
	words := make(map[uint64]uint256.Int)
	for offset, value := range s.Memory {
		base := offset / 32 * 32
		word := words[base]
		var contribution uint256.Int
		contribution.SetUint64(uint64(value))
		contribution.Lsh(&contribution, uint(256-8-8*(offset%32)))
		word.Or(&word, &contribution)
		words[base] = word
	}
	offsets := make([]uint64, 0, len(words))
	for offset := range words {
		offsets = append(offsets, offset)
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
	for _, offset := range offsets {
		word := words[offset]
		if word.IsZero() {
			continue
		}
		buf := word.Bytes32()
		if _, err := fmt.Fprintf(w, "  %4X: %x\n", offset, buf); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, "Storage dump:"); err != nil {
		return err
	}
	keys := make([][32]byte, 0, len(s.Storage))
	for key := range s.Storage {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return string(keys[i][:]) < string(keys[j][:]) })
	for _, key := range keys {
		value := s.Storage[key]
		if value == ([32]byte{}) {
			continue
		}
		if _, err := fmt.Fprintf(w, "  %x: %x\n", key, value); err != nil {
			return err
		}
	}
	return nil
}
