package prim

import (
	"fmt"
	"io"
	"os"

	"github.com/pocketvm-dev/pocketvm/ops"
	"github.com/pocketvm-dev/pocketvm/vm"
)

// Output receives prim::Print output. Tests swap it for a buffer.
var Output io.Writer = os.Stdout

func init() {
	ops.Register("aten::str", opStr)
	ops.Register("prim::Print", opPrint)
}

func opStr(s *vm.Stack) error {
	if err := need(s, "aten::str", 1); err != nil {
		return err
	}
	s.Push(vm.StrValue(s.Pop().String()))
	return nil
}

// opPrint pops one value and writes it followed by a newline. It pushes
// nothing back.
func opPrint(s *vm.Stack) error {
	if err := need(s, "prim::Print", 1); err != nil {
		return err
	}
	_, err := fmt.Fprintln(Output, s.Pop().String())
	return err
}
