package simnet

import (
	"fmt"
	"net/netip"
)

// StreamID groups sequenced or ordered messages onto one logical channel.
// Messages sharing a stream id are sequenced/ordered relative to each other
// only.
type StreamID uint8

// Class enumerates the delivery variants a Message can request.
type Class uint8

const (
	// ClassDefault requests the strongest guarantee the backend offers:
	// reliable, ordered, no explicit stream grouping.  It is the zero value,
	// so a zero Message asks for it implicitly.
	ClassDefault Class = iota
	// ClassUnreliable requests fire-and-forget delivery.
	ClassUnreliable
	// ClassUnreliableSequenced drops both lost and stale datagrams.
	ClassUnreliableSequenced
	// ClassReliable guarantees arrival, in any order.
	ClassReliable
	// ClassReliableSequenced guarantees arrival of the newest datagram.
	ClassReliableSequenced
	// ClassReliableOrdered guarantees arrival in send order.
	ClassReliableOrdered
)

func (c Class) String() string {
	switch c {
	case ClassDefault:
		return "Default"
	case ClassUnreliable:
		return "Unreliable"
	case ClassUnreliableSequenced:
		return "UnreliableSequenced"
	case ClassReliable:
		return "Reliable"
	case ClassReliableSequenced:
		return "ReliableSequenced"
	case ClassReliableOrdered:
		return "ReliableOrdered"
	}
	return fmt.Sprintf("Class(%d)", uint8(c))
}

// Delivery is a caller-declared guarantee for one outbound message.  The
// zero value is Default.  Deliveries are comparable.
type Delivery struct {
	class     Class
	stream    StreamID
	hasStream bool
}

// Default delivery: reliable, ordered, no explicit stream.
func Default() Delivery { return Delivery{} }

// Unreliable delivery.
func Unreliable() Delivery { return Delivery{class: ClassUnreliable} }

// UnreliableSequenced delivery, optionally grouped onto a stream.
func UnreliableSequenced(stream ...StreamID) Delivery {
	return mkDelivery(ClassUnreliableSequenced, stream)
}

// Reliable delivery, unordered.
func Reliable() Delivery { return Delivery{class: ClassReliable} }

// ReliableSequenced delivery, optionally grouped onto a stream.
func ReliableSequenced(stream ...StreamID) Delivery {
	return mkDelivery(ClassReliableSequenced, stream)
}

// ReliableOrdered delivery, optionally grouped onto a stream.
func ReliableOrdered(stream ...StreamID) Delivery {
	return mkDelivery(ClassReliableOrdered, stream)
}

func mkDelivery(c Class, stream []StreamID) (d Delivery) {
	d.class = c
	if len(stream) > 0 {
		d.stream = stream[0]
		d.hasStream = true
	}
	return
}

// Class returns the delivery variant.
func (d Delivery) Class() Class { return d.class }

// Stream returns the stream id, if one was set.
func (d Delivery) Stream() (StreamID, bool) { return d.stream, d.hasStream }

func (d Delivery) String() string {
	if d.hasStream {
		return fmt.Sprintf("%v(%d)", d.class, d.stream)
	}
	return d.class.String()
}

// Message is one outbound payload bound for a remote peer.  It is consumed
// exactly once by a backend's send stage and never mutated.
type Message struct {
	To       netip.AddrPort
	Payload  []byte
	Delivery Delivery
}
