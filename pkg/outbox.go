package simnet

import "net/netip"

// Gate reports whether the current tick may flush outbound messages.  A nil
// Gate is open.
type Gate func() bool

func (g Gate) open() bool { return g == nil || g() }

// Outbox buffers outbound messages until a backend's send stage drains
// them.  It applies no size limit; bounding is a caller policy layered on
// top of Enqueue.
type Outbox struct{ ms []Message }

// Send enqueues payload for to with Default delivery.
func (o *Outbox) Send(to netip.AddrPort, payload []byte) {
	o.SendWith(to, payload, Default())
}

// SendWith enqueues payload for to with an explicit delivery requirement.
func (o *Outbox) SendWith(to netip.AddrPort, payload []byte, d Delivery) {
	o.Enqueue(Message{To: to, Payload: payload, Delivery: d})
}

// Enqueue appends m without validation.
func (o *Outbox) Enqueue(m Message) { o.ms = append(o.ms, m) }

// Pending returns the queued messages without removing them.  The returned
// slice is valid until the next Outbox call and must not be mutated.
func (o *Outbox) Pending() []Message { return o.ms }

// Len returns the number of queued messages.
func (o *Outbox) Len() int { return len(o.ms) }

// Drain removes and returns every queued message, preserving enqueue order.
// If the gate is closed it returns nil and the queue is left untouched for
// a later tick.  Draining is all-or-nothing; a drained message is never
// requeued by this layer.
func (o *Outbox) Drain(gate Gate) []Message {
	if !gate.open() {
		return nil
	}

	ms := o.ms
	o.ms = nil
	return ms
}
