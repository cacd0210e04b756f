package interp

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zenzo-ecosystem/zvm/vm"
)

// Stack is double ended. Binary opcodes consume from the front (the oldest
// entries) and push to the back; DUP, CONTINUETRUE and GETITEMEPOCH work on
// the back (the newest entry).
type Stack struct {
	entries []vm.Value
}

func (s *Stack) Len() int {
	return len(s.entries)
}

// At returns the i-th oldest entry, or nil when out of range.
func (s *Stack) At(i int) vm.Value {
	if i < 0 || i >= len(s.entries) {
		return nil
	}
	return s.entries[i]
}

// Back returns the newest entry, or nil when empty.
func (s *Stack) Back() vm.Value {
	return s.At(len(s.entries) - 1)
}

func (s *Stack) Push(v vm.Value) {
	s.entries = append(s.entries, v)
}

func (s *Stack) PopBack() vm.Value {
	if len(s.entries) == 0 {
		panic("Stack underrun")
	}
	v := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return v
}

// DropFront removes the n oldest entries.
func (s *Stack) DropFront(n int) {
	if n > len(s.entries) {
		panic("Stack underrun")
	}
	clear(s.entries[:n])
	s.entries = s.entries[n:]
}

// SetBack replaces the newest entry.
func (s *Stack) SetBack(v vm.Value) {
	s.entries[len(s.entries)-1] = v
}

func (s *Stack) Clear() {
	s.entries = nil
}

// Values returns the entries oldest first. The slice is a copy; the values
// are not.
func (s *Stack) Values() []vm.Value {
	out := make([]vm.Value, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Stack) Clone() *Stack {
	out := &Stack{}
	for _, v := range s.entries {
		out.Push(v.Clone())
	}
	return out
}

// Strings renders each entry, oldest first, for logging.
func (s *Stack) Strings() []string {
	out := make([]string, len(s.entries))
	for i, v := range s.entries {
		out[i] = FormatValue(v)
	}
	return out
}

func (s *Stack) String() string {
	return "[" + strings.Join(s.Strings(), " ") + "]"
}

// FormatValue formats a vm.Value for display
func FormatValue(v vm.Value) string {
	if v == nil {
		return "<nil>"
	}
	return v.String()
}

// ExecutionContext owns everything one Execute call mutates. A fresh context
// is created per call, so concurrent executions never share a stack.
type ExecutionContext struct {
	ID    uuid.UUID
	Stack Stack
	Data  *ContextualData
	Now   func() time.Time

	discontinued bool
	steps        int
}

func NewExecutionContext(data *ContextualData, opts Options) *ExecutionContext {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &ExecutionContext{
		ID:   uuid.New(),
		Data: data,
		Now:  now,
	}
}

// Discontinued reports whether CONTINUETRUE stopped the script early.
func (ec *ExecutionContext) Discontinued() bool {
	return ec.discontinued
}

func (ec *ExecutionContext) epoch() int64 {
	return ec.Now().Unix()
}
