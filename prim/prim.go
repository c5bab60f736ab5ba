// Package prim provides the bundled primitive operations. Each file
// registers its handlers into ops.Default at init time; the interpreter
// only ever sees them through the registry.
package prim

import (
	"fmt"

	"github.com/pocketvm-dev/pocketvm/vm"
)

// need returns an error when the stack holds fewer than n operands.
// Handlers check before popping so a malformed program surfaces as an
// error instead of a panic.
func need(s *vm.Stack, name string, n int) error {
	if s.Len() < n {
		return fmt.Errorf("%s expects %d operands, stack has %d", name, n, s.Len())
	}
	return nil
}

func asFloat(v vm.Value) (float64, bool) {
	switch n := v.(type) {
	case vm.IntValue:
		return float64(n), true
	case vm.FloatValue:
		return float64(n), true
	}
	return 0, false
}

func bothInts(a, b vm.Value) (int64, int64, bool) {
	ai, ok := a.(vm.IntValue)
	if !ok {
		return 0, 0, false
	}
	bi, ok := b.(vm.IntValue)
	if !ok {
		return 0, 0, false
	}
	return int64(ai), int64(bi), true
}
