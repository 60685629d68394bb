package simnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSink(t *testing.T) {
	t.Run("DrainPreservesOrder", func(t *testing.T) {
		var s Sink
		s.Push(Connected{Addr: testAddr})
		s.Push(Received{From: testAddr, Payload: []byte("ping")})
		s.Push(Disconnected{Addr: testAddr})

		assert.Equal(t, 3, s.Len())

		es := s.Drain()
		assert.IsType(t, Connected{}, es[0])
		assert.IsType(t, Received{}, es[1])
		assert.IsType(t, Disconnected{}, es[2])
	})

	t.Run("DrainedEventsAreNotReplayed", func(t *testing.T) {
		var s Sink
		s.Push(Connected{Addr: testAddr})

		assert.Len(t, s.Drain(), 1)
		assert.Zero(t, s.Len())
		assert.Empty(t, s.Drain())
	})
}
