package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackPushPop(t *testing.T) {
	s := NewStack()
	require.Equal(t, 0, s.Len())

	s.Push(IntValue(1))
	s.Push(StrValue("two"))
	require.Equal(t, 2, s.Len())

	assert.Equal(t, StrValue("two"), s.Peek())
	assert.Equal(t, StrValue("two"), s.Pop())
	assert.Equal(t, IntValue(1), s.Pop())
	assert.Equal(t, 0, s.Len())
}

func TestStackTryPop(t *testing.T) {
	s := NewStack()
	_, ok := s.TryPop()
	require.False(t, ok)

	s.Push(BoolTrue)
	v, ok := s.TryPop()
	require.True(t, ok)
	assert.Equal(t, BoolTrue, v)
}

func TestStackPopEmptyPanics(t *testing.T) {
	s := NewStack()
	assert.Panics(t, func() { s.Pop() })
}

func TestStackValuesOrder(t *testing.T) {
	s := NewStack()
	s.Push(IntValue(1))
	s.Push(IntValue(2))
	s.Push(IntValue(3))
	assert.Equal(t, []Value{IntValue(1), IntValue(2), IntValue(3)}, s.Values())
}
