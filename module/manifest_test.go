package module

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketvm-dev/pocketvm/vm"
)

const addManifest = `
[module]
name = "adder"

[[function]]
name = "main"

[[function.code]]
op = "PUSH"
int = 3

[[function.code]]
op = "PUSH"
int = 4

[[function.code]]
op = "CALLOP"
str = "aten::add"

[[function.code]]
op = "RETURN"
`

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest(strings.NewReader(addManifest))
	require.NoError(t, err)
	assert.Equal(t, "adder", m.Module.Name)
	require.Len(t, m.Functions, 1)
	require.Len(t, m.Functions[0].Code, 4)
	assert.Equal(t, "CALLOP", m.Functions[0].Code[2].Op)
	require.NotNil(t, m.Functions[0].Code[2].Str)
	assert.Equal(t, "aten::add", *m.Functions[0].Code[2].Str)
}

func TestAssemble(t *testing.T) {
	m, err := ParseManifest(strings.NewReader(addManifest))
	require.NoError(t, err)
	prog, err := m.Assemble()
	require.NoError(t, err)

	assert.Equal(t, "adder", prog.Name)
	require.NotNil(t, prog.Main)
	require.Len(t, prog.Main.Bytecode, 4)
	assert.Equal(t, vm.Op{Code: vm.PUSH, Arg: vm.IntValue(3)}, prog.Main.Bytecode[0])
	assert.Equal(t, vm.Op{Code: vm.CALLOP, Arg: vm.StrValue("aten::add")}, prog.Main.Bytecode[2])
	assert.Equal(t, []string{"aten::add"}, prog.OpNames())
}

func TestAssembleMultipleFunctions(t *testing.T) {
	src := `
[module]
name = "multi"
entry = "start"

[[function]]
name = "helper"

[[function.code]]
op = "RETURN"

[[function]]
name = "start"

[[function.code]]
op = "CALLFN"
str = "helper"
`
	m, err := ParseManifest(strings.NewReader(src))
	require.NoError(t, err)
	prog, err := m.Assemble()
	require.NoError(t, err)

	assert.Equal(t, "start", prog.Main.Name)
	require.Len(t, prog.Code, 1)
	ptr, ok := prog.Resolve("helper")
	require.True(t, ok)
	assert.Equal(t, 1, ptr.CodeID())
}

func TestAssembleErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"no entry", `
[[function]]
name = "helper"
`, `no entry function "main"`},
		{"unknown opcode", `
[[function]]
name = "main"
[[function.code]]
op = "EXPLODE"
`, `unknown opcode "EXPLODE"`},
		{"push without arg", `
[[function]]
name = "main"
[[function.code]]
op = "PUSH"
`, "PUSH needs an argument"},
		{"jmp with str", `
[[function]]
name = "main"
[[function.code]]
op = "JMP"
str = "nope"
`, "JMP needs an int argument"},
		{"callop without name", `
[[function]]
name = "main"
[[function.code]]
op = "CALLOP"
int = 7
`, "CALLOP needs a str argument"},
		{"two args", `
[[function]]
name = "main"
[[function.code]]
op = "PUSH"
int = 1
str = "x"
`, "at most one"},
		{"arg on bare op", `
[[function]]
name = "main"
[[function.code]]
op = "DUP"
int = 1
`, "DUP takes no argument"},
		{"duplicate function", `
[[function]]
name = "main"
[[function]]
name = "main"
`, `duplicate function "main"`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m, err := ParseManifest(strings.NewReader(c.src))
			require.NoError(t, err)
			_, err = m.Assemble()
			require.ErrorContains(t, err, c.want)
		})
	}
}
