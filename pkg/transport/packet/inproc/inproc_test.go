package inproc

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	simnet "github.com/lthibault/simnet/pkg"
	"github.com/lthibault/simnet/pkg/transport/packet"
)

var (
	addrA = netip.MustParseAddrPort("127.0.0.1:1111")
	addrB = netip.MustParseAddrPort("127.0.0.1:2222")
)

type host struct {
	backend *packet.Backend
	outbox  simnet.Outbox
	sink    simnet.Sink
}

func newHost(t *testing.T, x *Exchange, addr netip.AddrPort) *host {
	sock, err := x.Bind(addr)
	require.NoError(t, err)
	return &host{backend: packet.New(packet.OptSocket(sock))}
}

func (h *host) tick() {
	simnet.Tick(h.backend, &h.outbox, nil, &h.sink, time.Now())
}

func TestBind(t *testing.T) {
	x := NewExchange()

	s, err := x.Bind(addrA)
	require.NoError(t, err)
	assert.Equal(t, addrA, s.Addr())

	_, err = x.Bind(addrA)
	assert.Error(t, err, "double bind should fail")
}

func TestRoundTrip(t *testing.T) {
	x := NewExchange()
	a := newHost(t, x, addrA)
	b := newHost(t, x, addrB)

	for _, p := range []string{"one", "two", "three"} {
		a.outbox.SendWith(addrB, []byte(p), simnet.ReliableOrdered(1))
	}

	a.tick()
	b.tick()

	es := b.sink.Drain()
	require.Len(t, es, 4)
	assert.Equal(t, simnet.Connected{Addr: addrA}, es[0])
	for i, want := range []string{"one", "two", "three"} {
		recv, ok := es[i+1].(simnet.Received)
		require.True(t, ok)
		assert.Equal(t, want, string(recv.Payload))
		assert.Equal(t, addrA, recv.From)
	}

	// the sender observed first contact too
	es = a.sink.Drain()
	require.Len(t, es, 1)
	assert.Equal(t, simnet.Connected{Addr: addrB}, es[0])
}

func TestSendToUnboundAddress(t *testing.T) {
	x := NewExchange()
	a := newHost(t, x, addrA)

	a.outbox.Send(addrB, []byte("ping"))
	a.tick()

	es := a.sink.Drain()
	require.Len(t, es, 1)

	se, ok := es[0].(simnet.SendError)
	require.True(t, ok)
	assert.Equal(t, addrB, se.Message.To)
	assert.Error(t, se.Err)
}

func TestPeerCloseSurfacesDisconnect(t *testing.T) {
	x := NewExchange()
	a := newHost(t, x, addrA)
	b := newHost(t, x, addrB)

	a.outbox.Send(addrB, []byte("ping"))
	a.tick()
	b.tick()
	a.sink.Drain()
	b.sink.Drain()

	sock, ok := b.backend.Socket()
	require.True(t, ok)
	require.NoError(t, sock.(*Socket).Close())

	a.tick()

	es := a.sink.Drain()
	require.Len(t, es, 1)
	assert.Equal(t, simnet.Disconnected{Addr: addrB}, es[0])

	// exactly once
	a.tick()
	assert.Zero(t, a.sink.Len())
}

func TestClosedSocketRefusesSend(t *testing.T) {
	x := NewExchange()

	sock, err := x.Bind(addrA)
	require.NoError(t, err)
	require.NoError(t, sock.Close())

	assert.Error(t, sock.Send(packet.Packet{To: addrB}))
	assert.Error(t, sock.Close())
}

func TestRebindAfterClose(t *testing.T) {
	x := NewExchange()

	sock, err := x.Bind(addrA)
	require.NoError(t, err)
	require.NoError(t, sock.Close())

	_, err = x.Bind(addrA)
	assert.NoError(t, err, "closing should release the address")
}
