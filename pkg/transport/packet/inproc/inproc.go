// Package inproc provides a process-local packet socket, useful for tests
// and single-process simulations.  Delivery is immediate and lossless, so
// every delivery class is honored trivially.
package inproc

import (
	"net"
	"net/netip"
	"sync"
	"time"

	radix "github.com/armon/go-radix"
	"github.com/pkg/errors"

	"github.com/lthibault/simnet/pkg/transport/packet"
)

// Exchange is a process-local namespace of packet sockets keyed by address.
// Sockets bound to the same Exchange can reach each other.  An Exchange is
// safe for concurrent use, so independent hosts may tick in parallel.
type Exchange struct {
	mu sync.Mutex
	ns *radix.Tree
}

// NewExchange ...
func NewExchange() *Exchange { return &Exchange{ns: radix.New()} }

// Bind attaches a new socket to addr.  It fails if addr is taken.
func (x *Exchange) Bind(addr netip.AddrPort) (*Socket, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if _, ok := x.ns.Get(addr.String()); ok {
		return nil, errors.Errorf("inproc: address %s in use", addr)
	}

	s := &Socket{x: x, addr: addr, peers: make(map[netip.AddrPort]struct{})}
	x.ns.Insert(addr.String(), s)
	return s, nil
}

// lookup requires x.mu.
func (x *Exchange) lookup(addr netip.AddrPort) (*Socket, bool) {
	v, ok := x.ns.Get(addr.String())
	if !ok {
		return nil, false
	}
	return v.(*Socket), true
}

// Socket is an in-process packet.Socket.
type Socket struct {
	x    *Exchange
	addr netip.AddrPort

	// guarded by x.mu
	events []packet.SocketEvent
	peers  map[netip.AddrPort]struct{}
	closed bool
}

var _ packet.Socket = (*Socket)(nil)

// Addr returns the bound address.
func (s *Socket) Addr() netip.AddrPort { return s.addr }

// Send delivers p into the destination socket's inbox.  First contact
// introduces the peers to each other on both ends.
func (s *Socket) Send(p packet.Packet) error {
	s.x.mu.Lock()
	defer s.x.mu.Unlock()

	if s.closed {
		return errors.Wrap(net.ErrClosed, "inproc")
	}

	dst, ok := s.x.lookup(p.To)
	if !ok || dst.closed {
		return &net.OpError{Op: "write", Net: "inproc", Err: errPeerUnreachable}
	}

	s.introduce(dst)
	dst.introduce(s)

	data := make([]byte, len(p.Payload))
	copy(data, p.Payload)
	dst.events = append(dst.events, packet.Datagram{From: s.addr, Data: data})
	return nil
}

// introduce requires x.mu.
func (s *Socket) introduce(peer *Socket) {
	if _, known := s.peers[peer.addr]; !known {
		s.peers[peer.addr] = struct{}{}
		s.events = append(s.events, packet.Connected{Addr: peer.addr})
	}
}

// Poll surfaces a Timeout for every known peer that has gone away.  There
// is no retransmission bookkeeping; in-process delivery cannot lose data.
func (s *Socket) Poll(time.Time) {
	s.x.mu.Lock()
	defer s.x.mu.Unlock()

	for addr := range s.peers {
		if dst, ok := s.x.lookup(addr); !ok || dst.closed {
			delete(s.peers, addr)
			s.events = append(s.events, packet.Timeout{Addr: addr})
		}
	}
}

// Recv pops the next pending event, if any.
func (s *Socket) Recv() (packet.SocketEvent, bool) {
	s.x.mu.Lock()
	defer s.x.mu.Unlock()

	if len(s.events) == 0 {
		return nil, false
	}

	ev := s.events[0]
	s.events = s.events[1:]
	return ev, true
}

// Close unbinds the socket.  Peers observe a Timeout on their next Poll.
func (s *Socket) Close() error {
	s.x.mu.Lock()
	defer s.x.mu.Unlock()

	if s.closed {
		return errors.Wrap(net.ErrClosed, "inproc")
	}

	s.closed = true
	s.x.ns.Delete(s.addr.String())
	return nil
}

var errPeerUnreachable = errors.New("peer unreachable")
