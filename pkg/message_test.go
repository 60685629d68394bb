package simnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDelivery(t *testing.T) {
	t.Run("ZeroValueIsDefault", func(t *testing.T) {
		var d Delivery
		assert.Equal(t, Default(), d)
		assert.Equal(t, ClassDefault, d.Class())

		_, ok := d.Stream()
		assert.False(t, ok)
	})

	t.Run("StreamIsOptional", func(t *testing.T) {
		_, ok := ReliableOrdered().Stream()
		assert.False(t, ok)

		s, ok := ReliableOrdered(2).Stream()
		assert.True(t, ok)
		assert.Equal(t, StreamID(2), s)
	})

	t.Run("Classes", func(t *testing.T) {
		assert.Equal(t, ClassUnreliable, Unreliable().Class())
		assert.Equal(t, ClassUnreliableSequenced, UnreliableSequenced(1).Class())
		assert.Equal(t, ClassReliable, Reliable().Class())
		assert.Equal(t, ClassReliableSequenced, ReliableSequenced().Class())
		assert.Equal(t, ClassReliableOrdered, ReliableOrdered().Class())
	})

	t.Run("Comparable", func(t *testing.T) {
		assert.Equal(t, ReliableOrdered(2), ReliableOrdered(2))
		assert.NotEqual(t, ReliableOrdered(), ReliableOrdered(0))
	})

	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "Default", Default().String())
		assert.Equal(t, "ReliableOrdered(2)", ReliableOrdered(2).String())
		assert.Equal(t, "UnreliableSequenced", UnreliableSequenced().String())
	})
}
