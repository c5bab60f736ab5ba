package prim

import (
	"fmt"

	"github.com/pocketvm-dev/pocketvm/ops"
	"github.com/pocketvm-dev/pocketvm/vm"
)

func init() {
	ops.Register("aten::eq", opEq)
	ops.Register("aten::lt", comparison("aten::lt",
		func(a, b float64) bool { return a < b },
		func(a, b string) bool { return a < b }))
	ops.Register("aten::le", comparison("aten::le",
		func(a, b float64) bool { return a <= b },
		func(a, b string) bool { return a <= b }))
	ops.Register("aten::gt", comparison("aten::gt",
		func(a, b float64) bool { return a > b },
		func(a, b string) bool { return a > b }))
	ops.Register("aten::ge", comparison("aten::ge",
		func(a, b float64) bool { return a >= b },
		func(a, b string) bool { return a >= b }))
	ops.Register("aten::__not__", opNot)
}

func opEq(s *vm.Stack) error {
	if err := need(s, "aten::eq", 2); err != nil {
		return err
	}
	b := s.Pop()
	a := s.Pop()
	// Mixed int/float compares by promotion, everything else structurally.
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			s.Push(vm.BoolValue(af == bf))
			return nil
		}
	}
	s.Push(vm.BoolValue(vm.Equal(a, b)))
	return nil
}

func comparison(name string, numFn func(a, b float64) bool, strFn func(a, b string) bool) ops.Handler {
	return func(s *vm.Stack) error {
		if err := need(s, name, 2); err != nil {
			return err
		}
		b := s.Pop()
		a := s.Pop()
		if af, aok := asFloat(a); aok {
			if bf, bok := asFloat(b); bok {
				s.Push(vm.BoolValue(numFn(af, bf)))
				return nil
			}
		}
		if as, aok := a.(vm.StrValue); aok {
			if bs, bok := b.(vm.StrValue); bok {
				s.Push(vm.BoolValue(strFn(string(as), string(bs))))
				return nil
			}
		}
		return fmt.Errorf("%s expects two numbers or two strings, got %T and %T", name, a, b)
	}
}

func opNot(s *vm.Stack) error {
	if err := need(s, "aten::__not__", 1); err != nil {
		return err
	}
	s.Push(vm.BoolValue(!s.Pop().Truth()))
	return nil
}
