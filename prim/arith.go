package prim

import (
	"fmt"

	"github.com/pocketvm-dev/pocketvm/ops"
	"github.com/pocketvm-dev/pocketvm/vm"
)

func init() {
	ops.Register("aten::add", binaryNumeric("aten::add",
		func(a, b int64) int64 { return a + b },
		func(a, b float64) float64 { return a + b }))
	ops.Register("aten::sub", binaryNumeric("aten::sub",
		func(a, b int64) int64 { return a - b },
		func(a, b float64) float64 { return a - b }))
	ops.Register("aten::mul", binaryNumeric("aten::mul",
		func(a, b int64) int64 { return a * b },
		func(a, b float64) float64 { return a * b }))
	ops.Register("aten::div", opDiv)
	ops.Register("aten::remainder", opRemainder)
	ops.Register("aten::neg", opNeg)
}

// binaryNumeric builds a handler that pops two numbers and pushes one
// result. Two ints stay an int; any float operand promotes both sides.
func binaryNumeric(name string, intFn func(a, b int64) int64, floatFn func(a, b float64) float64) ops.Handler {
	return func(s *vm.Stack) error {
		if err := need(s, name, 2); err != nil {
			return err
		}
		b := s.Pop()
		a := s.Pop()
		if ai, bi, ok := bothInts(a, b); ok {
			s.Push(vm.IntValue(intFn(ai, bi)))
			return nil
		}
		af, aok := asFloat(a)
		bf, bok := asFloat(b)
		if !aok || !bok {
			return fmt.Errorf("%s expects numeric operands, got %T and %T", name, a, b)
		}
		s.Push(vm.FloatValue(floatFn(af, bf)))
		return nil
	}
}

// opDiv always produces a float, even for two int operands.
func opDiv(s *vm.Stack) error {
	if err := need(s, "aten::div", 2); err != nil {
		return err
	}
	b := s.Pop()
	a := s.Pop()
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if !aok || !bok {
		return fmt.Errorf("aten::div expects numeric operands, got %T and %T", a, b)
	}
	if bf == 0 {
		return fmt.Errorf("aten::div division by zero")
	}
	s.Push(vm.FloatValue(af / bf))
	return nil
}

func opRemainder(s *vm.Stack) error {
	if err := need(s, "aten::remainder", 2); err != nil {
		return err
	}
	b := s.Pop()
	a := s.Pop()
	ai, bi, ok := bothInts(a, b)
	if !ok {
		return fmt.Errorf("aten::remainder expects integer operands, got %T and %T", a, b)
	}
	if bi == 0 {
		return fmt.Errorf("aten::remainder division by zero")
	}
	s.Push(vm.IntValue(ai % bi))
	return nil
}

func opNeg(s *vm.Stack) error {
	if err := need(s, "aten::neg", 1); err != nil {
		return err
	}
	switch n := s.Pop().(type) {
	case vm.IntValue:
		s.Push(-n)
	case vm.FloatValue:
		s.Push(-n)
	default:
		return fmt.Errorf("aten::neg expects a numeric operand, got %T", n)
	}
	return nil
}
