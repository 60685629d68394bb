// Package simnet decouples real-time simulation code from its network
// backend.  Applications enqueue messages tagged with a delivery
// requirement and consume a sequence of inbound events; backends translate
// between the two and the wire once per simulation tick.
package simnet

import "time"

// Backend is one transport variant, driven by the host once per tick.
//
// Stages run synchronously, run-to-completion, in the order Maintain, Send,
// Poll, Receive.  A single logical thread of control must drive all stages
// of a given backend instance; the Outbox, Sink and backend state are owned
// by whichever stage is currently running.  No stage blocks the tick.
type Backend interface {
	// Maintain performs connection-table upkeep: reap peers marked dead on
	// an earlier tick, accept inbound connections, open outbound ones for
	// pending messages.  Backends without their own peer table no-op.
	Maintain(*Outbox, *Sink)

	// Send drains the outbox through the gate and writes each message.
	Send(*Outbox, Gate, *Sink)

	// Poll pumps the wrapped protocol's internal event loop, where
	// retransmission and ack bookkeeping happen.
	Poll(now time.Time)

	// Receive pulls all available inbound data into events.
	Receive(*Sink)
}

// Tick drives every stage of b once, in the fixed order backends assume.
// Hosts with their own scheduling may call the stages directly instead, in
// the same order.
func Tick(b Backend, o *Outbox, gate Gate, sink *Sink, now time.Time) {
	b.Maintain(o, sink)
	b.Send(o, gate, sink)
	b.Poll(now)
	b.Receive(sink)
}
