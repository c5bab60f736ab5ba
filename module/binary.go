package module

import (
	"errors"
	"fmt"
	"io"

	"github.com/dgryski/go-farm"
	"github.com/shamaton/msgpack/v2"

	"github.com/pocketvm-dev/pocketvm/vm"
)

// Binary module layout: a msgpack envelope carrying a farmhash checksum
// and a msgpack-encoded wire form of the program. The checksum is over
// the payload bytes, so a corrupted module is rejected before decoding.
const (
	binaryMagic   = "PVMC"
	binaryVersion = 1
)

var (
	ErrBadMagic = errors.New("not a pocketvm module")
	ErrVersion  = errors.New("unsupported module version")
	ErrChecksum = errors.New("module checksum mismatch")
)

type envelope struct {
	Magic    string
	Version  uint32
	Checksum uint64
	Payload  []byte
}

type wireProgram struct {
	Name        string
	Definitions map[string]int
	Main        wireFunction
	Code        []wireFunction
}

type wireFunction struct {
	Name string
	Ops  []wireOp
}

const (
	argNone = iota
	argInt
	argFloat
	argStr
	argBool
)

type wireOp struct {
	Code  uint32
	Kind  uint8
	Int   int64
	Float float64
	Str   string
	Bool  bool
}

// EncodeProgram serializes p into the binary module format.
func EncodeProgram(p *vm.Program) ([]byte, error) {
	main, err := encodeFunction(p.Main)
	if err != nil {
		return nil, err
	}
	wire := wireProgram{
		Name:        p.Name,
		Definitions: p.Definitions,
		Main:        main,
	}
	for _, f := range p.Code {
		wf, err := encodeFunction(f)
		if err != nil {
			return nil, err
		}
		wire.Code = append(wire.Code, wf)
	}
	payload, err := msgpack.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("encoding program: %w", err)
	}
	return msgpack.Marshal(envelope{
		Magic:    binaryMagic,
		Version:  binaryVersion,
		Checksum: farm.Fingerprint64(payload),
		Payload:  payload,
	})
}

// DecodeProgram parses binary module bytes and returns the program along
// with its payload checksum, which doubles as the module's cache key.
func DecodeProgram(data []byte) (*vm.Program, uint64, error) {
	var env envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrBadMagic, err)
	}
	if env.Magic != binaryMagic {
		return nil, 0, ErrBadMagic
	}
	if env.Version != binaryVersion {
		return nil, 0, fmt.Errorf("%w: %d", ErrVersion, env.Version)
	}
	if farm.Fingerprint64(env.Payload) != env.Checksum {
		return nil, 0, ErrChecksum
	}
	var wire wireProgram
	if err := msgpack.Unmarshal(env.Payload, &wire); err != nil {
		return nil, 0, fmt.Errorf("decoding program: %w", err)
	}
	prog := &vm.Program{
		Name:        wire.Name,
		Definitions: wire.Definitions,
	}
	main, err := decodeFunction(wire.Main)
	if err != nil {
		return nil, 0, err
	}
	prog.Main = main
	for _, f := range wire.Code {
		fn, err := decodeFunction(f)
		if err != nil {
			return nil, 0, err
		}
		prog.Code = append(prog.Code, fn)
	}
	if prog.Definitions == nil {
		prog.Definitions = map[string]int{}
	}
	return prog, env.Checksum, nil
}

func WriteProgram(w io.Writer, p *vm.Program) error {
	data, err := EncodeProgram(p)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func ReadProgram(r io.Reader) (*vm.Program, uint64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, err
	}
	return DecodeProgram(data)
}

func encodeFunction(f *vm.Function) (wireFunction, error) {
	out := wireFunction{Name: f.Name}
	for i, op := range f.Bytecode {
		w := wireOp{Code: uint32(op.Code)}
		switch a := op.Arg.(type) {
		case nil:
			w.Kind = argNone
		case vm.IntValue:
			w.Kind, w.Int = argInt, int64(a)
		case vm.FloatValue:
			w.Kind, w.Float = argFloat, float64(a)
		case vm.StrValue:
			w.Kind, w.Str = argStr, string(a)
		case vm.BoolValue:
			w.Kind, w.Bool = argBool, bool(a)
		default:
			return out, fmt.Errorf("%s[%d]: argument %T is not serializable", f.Name, i, a)
		}
		out.Ops = append(out.Ops, w)
	}
	return out, nil
}

func decodeFunction(f wireFunction) (*vm.Function, error) {
	out := &vm.Function{Name: f.Name}
	for i, w := range f.Ops {
		op := vm.Op{Code: vm.Opcode(w.Code)}
		if op.Code >= vm.OpcodeMax {
			return nil, fmt.Errorf("%s[%d]: unknown opcode %d", f.Name, i, w.Code)
		}
		switch w.Kind {
		case argNone:
		case argInt:
			op.Arg = vm.IntValue(w.Int)
		case argFloat:
			op.Arg = vm.FloatValue(w.Float)
		case argStr:
			op.Arg = vm.StrValue(w.Str)
		case argBool:
			op.Arg = vm.BoolValue(w.Bool)
		default:
			return nil, fmt.Errorf("%s[%d]: unknown argument kind %d", f.Name, i, w.Kind)
		}
		out.Bytecode = append(out.Bytecode, op)
	}
	return out, nil
}
