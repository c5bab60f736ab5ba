package prim

import (
	"fmt"

	"github.com/pocketvm-dev/pocketvm/ops"
	"github.com/pocketvm-dev/pocketvm/vm"
)

func init() {
	ops.Register("aten::len", opLen)
	ops.Register("aten::append", opAppend)
	ops.Register("aten::__getitem__", opGetItem)
	ops.Register("prim::ListConstruct", opListConstruct)
	ops.Register("prim::ListUnpack", opListUnpack)
}

func opLen(s *vm.Stack) error {
	if err := need(s, "aten::len", 1); err != nil {
		return err
	}
	switch v := s.Pop().(type) {
	case vm.ArrayValue:
		s.Push(vm.IntValue(len(v)))
	case vm.StrValue:
		s.Push(vm.IntValue(len(v)))
	default:
		return fmt.Errorf("aten::len expects an array or string, got %T", v)
	}
	return nil
}

func opAppend(s *vm.Stack) error {
	if err := need(s, "aten::append", 2); err != nil {
		return err
	}
	elem := s.Pop()
	arr, ok := s.Pop().(vm.ArrayValue)
	if !ok {
		return fmt.Errorf("aten::append expects an array below the element")
	}
	s.Push(append(arr, elem))
	return nil
}

func opGetItem(s *vm.Stack) error {
	if err := need(s, "aten::__getitem__", 2); err != nil {
		return err
	}
	idxVal, ok := s.Pop().(vm.IntValue)
	if !ok {
		return fmt.Errorf("aten::__getitem__ expects an integer index")
	}
	idx := int(idxVal)
	switch v := s.Pop().(type) {
	case vm.ArrayValue:
		if idx < 0 || idx >= len(v) {
			return fmt.Errorf("aten::__getitem__ index %d out of range for length %d", idx, len(v))
		}
		s.Push(v[idx])
	case vm.StrValue:
		if idx < 0 || idx >= len(v) {
			return fmt.Errorf("aten::__getitem__ index %d out of range for length %d", idx, len(v))
		}
		s.Push(vm.StrValue(v[idx : idx+1]))
	default:
		return fmt.Errorf("aten::__getitem__ expects an array or string, got %T", v)
	}
	return nil
}

// opListConstruct pops a count then that many elements, pushing them back
// as a single array in the order they were originally pushed.
func opListConstruct(s *vm.Stack) error {
	if err := need(s, "prim::ListConstruct", 1); err != nil {
		return err
	}
	countVal, ok := s.Pop().(vm.IntValue)
	if !ok {
		return fmt.Errorf("prim::ListConstruct expects an integer count on top")
	}
	count := int(countVal)
	if count < 0 {
		return fmt.Errorf("prim::ListConstruct count must be non-negative, got %d", count)
	}
	if err := need(s, "prim::ListConstruct", count); err != nil {
		return err
	}
	arr := make(vm.ArrayValue, count)
	for i := count - 1; i >= 0; i-- {
		arr[i] = s.Pop()
	}
	s.Push(arr)
	return nil
}

func opListUnpack(s *vm.Stack) error {
	if err := need(s, "prim::ListUnpack", 1); err != nil {
		return err
	}
	arr, ok := s.Pop().(vm.ArrayValue)
	if !ok {
		return fmt.Errorf("prim::ListUnpack expects an array")
	}
	for _, v := range arr {
		s.Push(v)
	}
	return nil
}
