// Package packet implements the transport backend for packet-oriented
// protocol sockets with native graded reliability.  The protocol itself is
// wrapped behind the Socket interface; this package only translates between
// the simulation's vocabulary and the socket's.
package packet

import (
	"io"
	"net"
	"os"
	"time"

	log "github.com/lthibault/log/pkg"
	"github.com/pkg/errors"

	simnet "github.com/lthibault/simnet/pkg"
)

// Backend adapts a packet protocol socket to the per-tick stage contract.
// An unset socket leaves the backend inert: every stage is a no-op, not an
// error.
type Backend struct {
	sock Socket
	log  log.Logger
}

var _ simnet.Backend = (*Backend)(nil)

// New packet Backend.
func New(opt ...Option) *Backend {
	b := &Backend{log: log.New(log.OptLevel(log.NullLevel))}

	for _, fn := range opt {
		fn(b)
	}

	return b
}

// Socket returns the wrapped socket, if one is configured.
func (b *Backend) Socket() (Socket, bool) { return b.sock, b.sock != nil }

// SetSocket replaces the wrapped socket.
func (b *Backend) SetSocket(s Socket) { b.sock = s }

// DropSocket removes the wrapped socket, leaving the backend inert.
func (b *Backend) DropSocket() { b.sock = nil }

// Close closes and drops the wrapped socket, if any.
func (b *Backend) Close() error {
	if b.sock == nil {
		return nil
	}

	defer b.DropSocket()
	return b.sock.Close()
}

// Maintain is a no-op; the wrapped protocol tracks peer state itself.
func (b *Backend) Maintain(*simnet.Outbox, *simnet.Sink) {}

// Send drains the outbox through the gate, translating each message's
// delivery requirement into a protocol packet.  An I/O failure surfaces as
// a SendError carrying the message; any other socket error is logged and
// the message dropped, since protocol-internal failures are not actionable
// by the host.
func (b *Backend) Send(o *simnet.Outbox, gate simnet.Gate, sink *simnet.Sink) {
	if b.sock == nil {
		return
	}

	for _, m := range o.Drain(gate) {
		p := Packet{To: m.To, Payload: m.Payload, Delivery: normalize(m.Delivery)}

		switch err := b.sock.Send(p); {
		case err == nil:
		case isIOErr(err):
			sink.Push(simnet.SendError{Err: err, Message: m})
		default:
			b.log.WithError(err).
				WithField("addr", m.To).
				Error("error sending message")
		}
	}
}

// Poll pumps the socket's internal event loop once.
func (b *Backend) Poll(now time.Time) {
	if b.sock != nil {
		b.sock.Poll(now)
	}
}

// Receive maps every pending socket event onto the sink, in arrival order.
func (b *Backend) Receive(sink *simnet.Sink) {
	if b.sock == nil {
		return
	}

	for {
		ev, ok := b.sock.Recv()
		if !ok {
			return
		}

		switch ev := ev.(type) {
		case Datagram:
			sink.Push(simnet.Received{From: ev.From, Payload: ev.Data})
		case Connected:
			sink.Push(simnet.Connected{Addr: ev.Addr})
		case Timeout:
			sink.Push(simnet.Disconnected{Addr: ev.Addr})
		}
	}
}

// normalize rewrites Default to its defined meaning, so the socket never
// sees it: reliable, ordered, no explicit stream.
func normalize(d simnet.Delivery) simnet.Delivery {
	if d.Class() == simnet.ClassDefault {
		return simnet.ReliableOrdered()
	}
	return d
}

func isIOErr(err error) bool {
	var (
		ne net.Error
		se *os.SyscallError
	)

	return errors.As(err, &ne) || errors.As(err, &se) ||
		errors.Is(err, io.ErrClosedPipe) || errors.Is(err, io.EOF)
}
