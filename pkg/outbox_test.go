package simnet

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testAddr = netip.MustParseAddrPort("10.0.0.1:9000")

func TestOutbox(t *testing.T) {
	t.Run("SendUsesDefaultDelivery", func(t *testing.T) {
		var o Outbox
		o.Send(testAddr, []byte("ping"))

		assert.Equal(t, 1, o.Len())
		assert.Equal(t, Default(), o.Pending()[0].Delivery)
	})

	t.Run("SendWith", func(t *testing.T) {
		var o Outbox
		o.SendWith(testAddr, []byte("ping"), Unreliable())

		assert.Equal(t, Unreliable(), o.Pending()[0].Delivery)
	})

	t.Run("ClosedGatePreservesQueue", func(t *testing.T) {
		var o Outbox
		o.Send(testAddr, []byte("a"))
		o.Send(testAddr, []byte("b"))
		o.Send(testAddr, []byte("c"))

		closed := Gate(func() bool { return false })
		for i := 0; i < 5; i++ {
			assert.Empty(t, o.Drain(closed))
		}

		assert.Equal(t, 3, o.Len())
		for i, want := range []string{"a", "b", "c"} {
			assert.Equal(t, want, string(o.Pending()[i].Payload))
		}
	})

	t.Run("OpenGateDrainsEverythingOnce", func(t *testing.T) {
		var o Outbox
		for _, p := range []string{"a", "b", "c"} {
			o.Send(testAddr, []byte(p))
		}

		ms := o.Drain(func() bool { return true })
		assert.Len(t, ms, 3)
		for i, want := range []string{"a", "b", "c"} {
			assert.Equal(t, want, string(ms[i].Payload))
		}

		assert.Zero(t, o.Len())
		assert.Empty(t, o.Drain(func() bool { return true }))
	})

	t.Run("NilGateIsOpen", func(t *testing.T) {
		var o Outbox
		o.Send(testAddr, []byte("ping"))

		assert.Len(t, o.Drain(nil), 1)
	})
}
