package vm

// Stack is the operand stack shared between the interpreter and primitive
// operation handlers. Operands are popped from the tail and results pushed
// back onto it; arity bookkeeping is the interpreter's responsibility.
type Stack struct {
	vals []Value
}

func NewStack() *Stack {
	return &Stack{}
}

func (s *Stack) Push(v Value) {
	s.vals = append(s.vals, v)
}

// Pop removes and returns the tail value. Panics on an empty stack; the
// dispatcher validates arity before invoking handlers that require it.
func (s *Stack) Pop() Value {
	v := s.vals[len(s.vals)-1]
	s.vals = s.vals[:len(s.vals)-1]
	return v
}

func (s *Stack) TryPop() (Value, bool) {
	if len(s.vals) == 0 {
		return nil, false
	}
	return s.Pop(), true
}

func (s *Stack) Peek() Value {
	return s.vals[len(s.vals)-1]
}

func (s *Stack) Len() int {
	return len(s.vals)
}

// Values returns the stack contents, bottom first. The slice aliases the
// stack's storage and is only valid until the next mutation.
func (s *Stack) Values() []Value {
	return s.vals
}
