// Package module loads bytecode modules: TOML manifests for authoring,
// a checksummed msgpack binary format for shipping, and load-time
// verification of every primitive operation a module references.
package module

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/pocketvm-dev/pocketvm/vm"
)

type Manifest struct {
	Module    ModuleDetails  `toml:"module"`
	Functions []FunctionSpec `toml:"function"`
}

type ModuleDetails struct {
	Name  string `toml:",omitempty"`
	Entry string `toml:",omitempty"`
}

type FunctionSpec struct {
	Name string            `toml:""`
	Code []InstructionSpec `toml:"code"`
}

// InstructionSpec is one [[function.code]] row. At most one of the
// argument fields may be set.
type InstructionSpec struct {
	Op    string   `toml:""`
	Int   *int64   `toml:",omitempty"`
	Float *float64 `toml:",omitempty"`
	Str   *string  `toml:",omitempty"`
	Bool  *bool    `toml:",omitempty"`
}

func ParseManifest(f io.Reader) (*Manifest, error) {
	var out Manifest
	_, err := toml.NewDecoder(f).Decode(&out)
	return &out, err
}

func LoadManifestFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseManifest(f)
}

// Assemble turns a manifest into an executable program. The entry
// function (module.entry, default "main") becomes Main; every other
// function keeps its manifest order for CALLFN resolution.
func (m *Manifest) Assemble() (*vm.Program, error) {
	entry := m.Module.Entry
	if entry == "" {
		entry = "main"
	}

	prog := &vm.Program{
		Name:        m.Module.Name,
		Definitions: map[string]int{},
	}
	for _, fn := range m.Functions {
		if fn.Name == "" {
			return nil, fmt.Errorf("manifest has a function with no name")
		}
		if _, dup := prog.Definitions[fn.Name]; dup {
			return nil, fmt.Errorf("duplicate function %q in manifest", fn.Name)
		}
		compiled, err := assembleFunction(fn)
		if err != nil {
			return nil, err
		}
		if fn.Name == entry {
			prog.Main = compiled
			prog.Definitions[fn.Name] = 0
		} else {
			prog.Code = append(prog.Code, compiled)
			prog.Definitions[fn.Name] = len(prog.Code)
		}
	}
	if prog.Main == nil {
		return nil, fmt.Errorf("manifest has no entry function %q", entry)
	}
	return prog, nil
}

func assembleFunction(fn FunctionSpec) (*vm.Function, error) {
	out := &vm.Function{Name: fn.Name}
	for i, inst := range fn.Code {
		code, ok := vm.ParseOpcode(inst.Op)
		if !ok {
			return nil, fmt.Errorf("%s[%d]: unknown opcode %q", fn.Name, i, inst.Op)
		}
		arg, err := instructionArg(inst)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", fn.Name, i, err)
		}
		if err := checkArg(code, arg); err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", fn.Name, i, err)
		}
		out.Bytecode = append(out.Bytecode, vm.Op{Code: code, Arg: arg})
	}
	return out, nil
}

func instructionArg(inst InstructionSpec) (vm.Value, error) {
	var arg vm.Value
	set := 0
	if inst.Int != nil {
		arg = vm.IntValue(*inst.Int)
		set++
	}
	if inst.Float != nil {
		arg = vm.FloatValue(*inst.Float)
		set++
	}
	if inst.Str != nil {
		arg = vm.StrValue(*inst.Str)
		set++
	}
	if inst.Bool != nil {
		arg = vm.BoolValue(*inst.Bool)
		set++
	}
	if set > 1 {
		return nil, fmt.Errorf("%s has %d argument fields, want at most one", inst.Op, set)
	}
	return arg, nil
}

func checkArg(code vm.Opcode, arg vm.Value) error {
	switch code {
	case vm.PUSH:
		if arg == nil {
			return fmt.Errorf("PUSH needs an argument")
		}
	case vm.CALLOP, vm.CALLFN, vm.STOREV, vm.LOADV:
		if _, ok := arg.(vm.StrValue); !ok {
			return fmt.Errorf("%s needs a str argument", code)
		}
	case vm.JMP, vm.JFALSE:
		if _, ok := arg.(vm.IntValue); !ok {
			return fmt.Errorf("%s needs an int argument", code)
		}
	default:
		if arg != nil {
			return fmt.Errorf("%s takes no argument", code)
		}
	}
	return nil
}
