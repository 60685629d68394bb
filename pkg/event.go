package simnet

import "net/netip"

// Event is one network occurrence surfaced to the host simulation.
type Event interface{ event() }

// Received carries one inbound payload.
type Received struct {
	From    netip.AddrPort
	Payload []byte
}

// Connected reports first contact with a peer, inbound or outbound.
type Connected struct{ Addr netip.AddrPort }

// Disconnected reports a peer teardown.  It is emitted exactly once per
// peer, on the maintenance pass after the failure was detected.  Absence of
// a Disconnected means the peer is still considered connected.
type Disconnected struct{ Addr netip.AddrPort }

// ConnError reports a connect, accept or listener-level failure.  Addr is
// the zero AddrPort when the remote address is unknown.
type ConnError struct {
	Err  error
	Addr netip.AddrPort
}

// SendError reports a failed write.  The message is attached for
// caller-level retry or logging; this layer has already dropped it.
type SendError struct {
	Err     error
	Message Message
}

// RecvError reports a read failure other than would-block or a clean
// close/reset.
type RecvError struct{ Err error }

func (Received) event()     {}
func (Connected) event()    {}
func (Disconnected) event() {}
func (ConnError) event()    {}
func (SendError) event()    {}
func (RecvError) event()    {}

// Sink collects the events produced during one tick.  The host drains it
// once per tick; drained events are never replayed.
type Sink struct{ es []Event }

// Push appends e.
func (s *Sink) Push(e Event) { s.es = append(s.es, e) }

// Len returns the number of collected events.
func (s *Sink) Len() int { return len(s.es) }

// Drain removes and returns all collected events in production order.
func (s *Sink) Drain() []Event {
	es := s.es
	s.es = nil
	return es
}
