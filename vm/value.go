package vm

import (
	"fmt"
	"strings"
)

// Value is a tagged dynamic value on the operand stack.
type Value interface {
	isValue()
	Truth() bool
	Clone() Value
	String() string
}

type NoneValue struct{}

func (NoneValue) isValue()       {}
func (NoneValue) Truth() bool    { return false }
func (n NoneValue) Clone() Value { return n }
func (NoneValue) String() string { return "None" }

var None = NoneValue{}

type BoolValue bool

func (BoolValue) isValue() {}

var (
	BoolTrue  = BoolValue(true)
	BoolFalse = BoolValue(false)
)

func (b BoolValue) Truth() bool  { return bool(b) }
func (b BoolValue) Clone() Value { return b }
func (b BoolValue) String() string {
	if b {
		return "True"
	}
	return "False"
}

type IntValue int64

func (IntValue) isValue()         {}
func (i IntValue) Truth() bool    { return i != 0 }
func (i IntValue) Clone() Value   { return i }
func (i IntValue) String() string { return fmt.Sprintf("%d", int64(i)) }

type FloatValue float64

func (FloatValue) isValue()         {}
func (f FloatValue) Truth() bool    { return f != 0 }
func (f FloatValue) Clone() Value   { return f }
func (f FloatValue) String() string { return fmt.Sprintf("%g", float64(f)) }

type StrValue string

func (StrValue) isValue()         {}
func (s StrValue) Truth() bool    { return s != "" }
func (s StrValue) Clone() Value   { return s }
func (s StrValue) String() string { return string(s) }

type ArrayValue []Value

func (ArrayValue) isValue()      {}
func (a ArrayValue) Truth() bool { return len(a) != 0 }

func (a ArrayValue) Clone() Value {
	out := make(ArrayValue, len(a))
	for i, v := range a {
		out[i] = v.Clone()
	}
	return out
}

func (a ArrayValue) String() string {
	parts := make([]string, len(a))
	for i, v := range a {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Equal compares two values structurally. Ints and floats only compare
// equal within their own kind; numeric promotion is the operator set's job.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case NoneValue:
		_, ok := b.(NoneValue)
		return ok
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av == bv
	case IntValue:
		bv, ok := b.(IntValue)
		return ok && av == bv
	case FloatValue:
		bv, ok := b.(FloatValue)
		return ok && av == bv
	case StrValue:
		bv, ok := b.(StrValue)
		return ok && av == bv
	case ArrayValue:
		bv, ok := b.(ArrayValue)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	}
	return false
}
