package module

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketvm-dev/pocketvm/vm"
)

func sampleProgram() *vm.Program {
	return &vm.Program{
		Name:        "sample",
		Definitions: map[string]int{"main": 0, "sum2": 1},
		Main: &vm.Function{Name: "main", Bytecode: []vm.Op{
			{Code: vm.PUSH, Arg: vm.IntValue(3)},
			{Code: vm.PUSH, Arg: vm.FloatValue(1.5)},
			{Code: vm.PUSH, Arg: vm.BoolValue(true)},
			{Code: vm.POP},
			{Code: vm.CALLFN, Arg: vm.StrValue("sum2")},
			{Code: vm.RETURN},
		}},
		Code: []*vm.Function{
			{Name: "sum2", Bytecode: []vm.Op{
				{Code: vm.CALLOP, Arg: vm.StrValue("aten::add")},
				{Code: vm.RETURN},
			}},
		},
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	orig := sampleProgram()

	var buf bytes.Buffer
	require.NoError(t, WriteProgram(&buf, orig))

	got, checksum, err := ReadProgram(&buf)
	require.NoError(t, err)
	require.NotZero(t, checksum)
	assert.Equal(t, orig, got)
}

func TestBinaryChecksumStable(t *testing.T) {
	a, err := EncodeProgram(sampleProgram())
	require.NoError(t, err)
	b, err := EncodeProgram(sampleProgram())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBinaryCorruptionDetected(t *testing.T) {
	data, err := EncodeProgram(sampleProgram())
	require.NoError(t, err)

	// Flip a byte near the end, inside the payload.
	corrupted := append([]byte(nil), data...)
	corrupted[len(corrupted)-3] ^= 0xFF
	_, _, err = DecodeProgram(corrupted)
	require.Error(t, err)
}

func TestBinaryBadMagic(t *testing.T) {
	_, _, err := DecodeProgram([]byte("not a module at all"))
	require.ErrorIs(t, err, ErrBadMagic)
}

func TestBinaryUnserializableArg(t *testing.T) {
	prog := &vm.Program{
		Name:        "bad",
		Definitions: map[string]int{"main": 0},
		Main: &vm.Function{Name: "main", Bytecode: []vm.Op{
			{Code: vm.PUSH, Arg: vm.ArrayValue{vm.IntValue(1)}},
		}},
	}
	_, err := EncodeProgram(prog)
	require.ErrorContains(t, err, "not serializable")
}
