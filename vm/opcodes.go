package vm

import "fmt"

type Opcode uint32

const (
	NOP Opcode = iota
	// PRE-STACK ... TOS+1 TOS | OP | POST-STACK |
	POP    // A | | NIL
	PUSH   // NIL | x | A
	DUP    // A | | A A
	SWAP   // A B | | B A
	STOREV // A | name = A | NIL
	LOADV  // NIL | retrieve name | A

	JMP    // | Jumps unconditionally to Arg |
	JFALSE // A | Jumps to Arg if A is false |

	CALLOP // ...operands | dispatches the named primitive op | ...results
	CALLFN // ...args | calls the named function in a new frame | result
	RETURN // A | Returns A up a frame |

	OpcodeMax
)

func (o Opcode) String() string {
	switch o {
	case NOP:
		return "NOP"
	case POP:
		return "POP"
	case PUSH:
		return "PUSH"
	case DUP:
		return "DUP"
	case SWAP:
		return "SWAP"
	case STOREV:
		return "STOREV"
	case LOADV:
		return "LOADV"
	case JMP:
		return "JMP"
	case JFALSE:
		return "JFALSE"
	case CALLOP:
		return "CALLOP"
	case CALLFN:
		return "CALLFN"
	case RETURN:
		return "RETURN"
	default:
		return fmt.Sprintf("Opcode(%d)", uint32(o))
	}
}

// ParseOpcode maps a mnemonic back to its Opcode, for manifest assembly.
func ParseOpcode(name string) (Opcode, bool) {
	for o := NOP; o < OpcodeMax; o++ {
		if o.String() == name {
			return o, true
		}
	}
	return 0, false
}

type Op struct {
	Code Opcode
	Arg  Value
}

func (o Op) String() string {
	if o.Arg == nil {
		return o.Code.String()
	}
	return fmt.Sprintf("%s %s", o.Code, o.Arg)
}
