package module

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketvm-dev/pocketvm/vm"
)

func progNamed(name string) *vm.Program {
	return &vm.Program{
		Name:        name,
		Definitions: map[string]int{"main": 0},
		Main:        &vm.Function{Name: "main"},
	}
}

func TestCacheGetAdd(t *testing.T) {
	c := NewCache(4)

	_, ok := c.Get(1)
	require.False(t, ok)

	c.Add(1, progNamed("one"))
	got, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "one", got.Name)

	stats := c.Stats()
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, 4, stats.MaxSize)
}

func TestCacheEviction(t *testing.T) {
	c := NewCache(2)
	c.Add(1, progNamed("one"))
	c.Add(2, progNamed("two"))

	// Touch 1 so 2 becomes the eviction candidate.
	_, ok := c.Get(1)
	require.True(t, ok)

	c.Add(3, progNamed("three"))
	assert.Equal(t, 2, c.Stats().Size)

	_, ok = c.Get(2)
	assert.False(t, ok)
	_, ok = c.Get(1)
	assert.True(t, ok)
	_, ok = c.Get(3)
	assert.True(t, ok)
}

func TestCacheReplace(t *testing.T) {
	c := NewCache(2)
	c.Add(1, progNamed("one"))
	c.Add(1, progNamed("one again"))

	assert.Equal(t, 1, c.Stats().Size)
	got, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "one again", got.Name)
}

func TestCacheDefaultSize(t *testing.T) {
	c := NewCache(0)
	assert.Equal(t, 16, c.Stats().MaxSize)
}
