// Package interp executes loaded programs, dispatching primitive
// operations through an operator registry.
package interp

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pocketvm-dev/pocketvm/ops"
	"github.com/pocketvm-dev/pocketvm/vm"
)

// frame is one function activation. The operand stack is shared across
// frames; a frame only tracks its program counter and local variables.
type frame struct {
	pc   vm.ExecPtr
	vars map[string]vm.Value
}

// Interp runs one program to completion. It owns the operand stack and
// resolves primitive operations through the registry it was handed,
// caching each handler after the first lookup since stored handlers are
// stable for the life of the process.
type Interp struct {
	prog     *vm.Program
	reg      *ops.Registry
	stack    *vm.Stack
	handlers map[string]ops.Handler
	runID    uuid.UUID
}

func New(prog *vm.Program, reg *ops.Registry) *Interp {
	return &Interp{
		prog:     prog,
		reg:      reg,
		stack:    vm.NewStack(),
		handlers: make(map[string]ops.Handler),
		runID:    uuid.New(),
	}
}

// Stack exposes the operand stack, mainly for tests and embedding hosts.
func (ip *Interp) Stack() *vm.Stack {
	return ip.stack
}

func (ip *Interp) resolveOp(name string) (ops.Handler, error) {
	if h, ok := ip.handlers[name]; ok {
		return h, nil
	}
	h, err := ip.reg.Lookup(name)
	if err != nil {
		return nil, err
	}
	ip.handlers[name] = h
	return h, nil
}

// Run executes the program's entry function and returns the value its
// top-level RETURN produced, or vm.None if execution fell off the end.
func (ip *Interp) Run() (vm.Value, error) {
	log.Debug().Str("run_id", ip.runID.String()).Str("program", ip.prog.Name).Msg("starting run")
	frames := []*frame{{vars: map[string]vm.Value{}}}

	for {
		f := frames[len(frames)-1]
		inst, err := ip.prog.GetInstruction(f.pc)
		if err != nil {
			if errors.Is(err, vm.ErrEndOfCode) {
				// Fell off a function body without RETURN.
				if len(frames) == 1 {
					return vm.None, nil
				}
				frames = frames[:len(frames)-1]
				ip.stack.Push(vm.None)
				continue
			}
			return nil, err
		}

		log.Trace().
			Str("run_id", ip.runID.String()).
			Str("pc", f.pc.String()).
			Str("opcode", inst.Code.String()).
			Int("stack_depth", ip.stack.Len()).
			Msg("executing instruction")

		switch inst.Code {
		case vm.NOP:
			f.pc = f.pc.Inc()
		case vm.POP:
			if _, ok := ip.stack.TryPop(); !ok {
				return nil, ip.fault(f.pc, inst, errors.New("operand stack is empty"))
			}
			f.pc = f.pc.Inc()
		case vm.PUSH:
			ip.stack.Push(inst.Arg.Clone())
			f.pc = f.pc.Inc()
		case vm.DUP:
			if ip.stack.Len() == 0 {
				return nil, ip.fault(f.pc, inst, errors.New("operand stack is empty"))
			}
			ip.stack.Push(ip.stack.Peek().Clone())
			f.pc = f.pc.Inc()
		case vm.SWAP:
			if ip.stack.Len() < 2 {
				return nil, ip.fault(f.pc, inst, errors.New("needs two operands"))
			}
			a := ip.stack.Pop()
			b := ip.stack.Pop()
			ip.stack.Push(a)
			ip.stack.Push(b)
			f.pc = f.pc.Inc()
		case vm.STOREV:
			name, err := argString(inst)
			if err != nil {
				return nil, ip.fault(f.pc, inst, err)
			}
			v, ok := ip.stack.TryPop()
			if !ok {
				return nil, ip.fault(f.pc, inst, errors.New("operand stack is empty"))
			}
			f.vars[name] = v
			f.pc = f.pc.Inc()
		case vm.LOADV:
			name, err := argString(inst)
			if err != nil {
				return nil, ip.fault(f.pc, inst, err)
			}
			v, ok := f.vars[name]
			if !ok {
				return nil, ip.fault(f.pc, inst, fmt.Errorf("undefined variable %q", name))
			}
			ip.stack.Push(v)
			f.pc = f.pc.Inc()
		case vm.JMP:
			off, err := argInt(inst)
			if err != nil {
				return nil, ip.fault(f.pc, inst, err)
			}
			f.pc = f.pc.SetOffset(off)
		case vm.JFALSE:
			v, ok := ip.stack.TryPop()
			if !ok {
				return nil, ip.fault(f.pc, inst, errors.New("operand stack is empty"))
			}
			if v.Truth() {
				f.pc = f.pc.Inc()
			} else {
				off, err := argInt(inst)
				if err != nil {
					return nil, ip.fault(f.pc, inst, err)
				}
				f.pc = f.pc.SetOffset(off)
			}
		case vm.CALLOP:
			name, err := argString(inst)
			if err != nil {
				return nil, ip.fault(f.pc, inst, err)
			}
			h, err := ip.resolveOp(name)
			if err != nil {
				return nil, ip.fault(f.pc, inst, err)
			}
			if err := h(ip.stack); err != nil {
				return nil, ip.fault(f.pc, inst, err)
			}
			f.pc = f.pc.Inc()
		case vm.CALLFN:
			name, err := argString(inst)
			if err != nil {
				return nil, ip.fault(f.pc, inst, err)
			}
			ptr, ok := ip.prog.Resolve(name)
			if !ok {
				return nil, ip.fault(f.pc, inst, fmt.Errorf("undefined function %q", name))
			}
			f.pc = f.pc.Inc()
			frames = append(frames, &frame{pc: ptr, vars: map[string]vm.Value{}})
			log.Trace().Str("run_id", ip.runID.String()).Str("function", name).Int("frame_depth", len(frames)).Msg("pushed call frame")
		case vm.RETURN:
			if len(frames) == 1 {
				if v, ok := ip.stack.TryPop(); ok {
					return v, nil
				}
				return vm.None, nil
			}
			// Result stays on the shared operand stack for the caller.
			frames = frames[:len(frames)-1]
		default:
			return nil, ip.fault(f.pc, inst, errors.New("unknown opcode"))
		}
	}
}

func (ip *Interp) fault(pc vm.ExecPtr, inst vm.Op, err error) error {
	return fmt.Errorf("%s at %s: %w", inst, pc, err)
}

func argString(inst vm.Op) (string, error) {
	s, ok := inst.Arg.(vm.StrValue)
	if !ok {
		return "", fmt.Errorf("argument must be a name, got %T", inst.Arg)
	}
	return string(s), nil
}

func argInt(inst vm.Op) (int, error) {
	i, ok := inst.Arg.(vm.IntValue)
	if !ok {
		return 0, fmt.Errorf("argument must be an offset, got %T", inst.Arg)
	}
	return int(i), nil
}
