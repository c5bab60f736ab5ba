package vm

import (
	"errors"
	"fmt"
	"sort"
)

// Program is a loaded bytecode module. Main is the entry function; Code
// holds every other function, indexed by Definitions for CALLFN lookup.
type Program struct {
	Name        string
	Definitions map[string]int
	Code        []*Function
	Main        *Function
}

type Function struct {
	Name     string
	Bytecode []Op
}

var ErrEndOfCode = errors.New("end of code block")

func (p *Program) GetInstruction(ptr ExecPtr) (Op, error) {
	f := p.GetFunction(ptr)
	if f == nil {
		return Op{}, fmt.Errorf("no function at code id %d", ptr.CodeID())
	}
	if len(f.Bytecode) <= ptr.Offset() {
		return Op{}, ErrEndOfCode
	}
	return f.Bytecode[ptr.Offset()], nil
}

func (p *Program) GetFunction(ptr ExecPtr) *Function {
	if ptr.CodeID() == 0 {
		return p.Main
	}
	id := ptr.CodeID() - 1
	if id >= len(p.Code) {
		return nil
	}
	return p.Code[id]
}

// Resolve returns an ExecPtr at the start of the named function.
func (p *Program) Resolve(name string) (ExecPtr, bool) {
	if v, ok := p.Definitions[name]; ok {
		return NewExecPtr(v), true
	}
	return 0, false
}

// OpNames returns the sorted set of primitive operation names the program
// dispatches through CALLOP. Loaders use it to check every referenced op
// against the registry before execution starts.
func (p *Program) OpNames() []string {
	seen := map[string]bool{}
	collect := func(f *Function) {
		for _, op := range f.Bytecode {
			if op.Code != CALLOP {
				continue
			}
			if name, ok := op.Arg.(StrValue); ok {
				seen[string(name)] = true
			}
		}
	}
	collect(p.Main)
	for _, f := range p.Code {
		collect(f)
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (p *Program) DebugPrint() {
	fmt.Printf("*** %s\n", p.Main.Name)
	p.Main.DebugPrint()
	for _, f := range p.Code {
		fmt.Printf("*** %s\n", f.Name)
		f.DebugPrint()
	}
}

func (f *Function) DebugPrint() {
	for i, b := range f.Bytecode {
		fmt.Printf("  %03d: %s\n", i, b)
	}
}

// ExecPtr packs a code block id (high 32 bits) and an instruction offset
// (low 32 bits) into a single program counter.
type ExecPtr uint64

func (ptr ExecPtr) Offset() int {
	return int(0xFFFFFFFF & ptr)
}

func (ptr ExecPtr) CodeID() int {
	return int(ptr >> 32)
}

func (ptr ExecPtr) Inc() ExecPtr {
	return ptr + 1
}

func (ptr ExecPtr) SetOffset(off int) ExecPtr {
	return ExecPtr(uint64(ptr.CodeID())<<32 | uint64(0xFFFFFFFF&off))
}

func (ptr ExecPtr) String() string {
	return fmt.Sprintf("%d:%d", ptr.CodeID(), ptr.Offset())
}

func NewExecPtr(block int) ExecPtr {
	return ExecPtr(uint64(block) << 32)
}
