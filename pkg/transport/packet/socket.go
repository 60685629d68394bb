package packet

import (
	"net/netip"
	"time"

	simnet "github.com/lthibault/simnet/pkg"
)

// Packet is one datagram handed to the wrapped protocol socket.  Delivery
// is normalized before the socket sees it: never the Default class.
type Packet struct {
	To       netip.AddrPort
	Payload  []byte
	Delivery simnet.Delivery
}

// SocketEvent is produced by the wrapped socket's receive side.
type SocketEvent interface{ socketEvent() }

// Datagram carries inbound payload bytes.
type Datagram struct {
	From netip.AddrPort
	Data []byte
}

// Connected reports first contact with a peer.
type Connected struct{ Addr netip.AddrPort }

// Timeout reports a peer the protocol considers gone.
type Timeout struct{ Addr netip.AddrPort }

func (Datagram) socketEvent()  {}
func (Connected) socketEvent() {}
func (Timeout) socketEvent()   {}

// Socket is the packet protocol implementation the backend drives.  It
// provides the delivery guarantees of Packet.Delivery and tracks peer
// liveness internally; this layer treats both as a black box.
type Socket interface {
	// Send transmits p under its delivery requirement.
	Send(p Packet) error

	// Poll advances the protocol's internal clock.  Retransmission, ack and
	// timeout bookkeeping happen here.  Poll must not block.
	Poll(now time.Time)

	// Recv returns the next pending event, if any.  Recv must not block.
	Recv() (SocketEvent, bool)

	Close() error
}
