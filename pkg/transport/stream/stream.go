// Package stream implements the byte-stream transport backend over TCP.
// One connection is kept per peer, the only supported delivery class is
// reliable-ordered, and payloads travel as raw bytes: no framing is added,
// so message boundaries are an application-level agreement.
package stream

import (
	"fmt"
	"net"
	"net/netip"
	"time"

	log "github.com/lthibault/log/pkg"

	simnet "github.com/lthibault/simnet/pkg"
	"golang.org/x/sync/errgroup"
)

const (
	defaultBufSize     = 4096
	defaultDialTimeout = 250 * time.Millisecond
)

// Backend drives per-peer TCP connections under the per-tick stage
// contract.  A nil listener disables inbound acceptance (outbound-only
// mode).
type Backend struct {
	ln    *net.TCPListener
	peers table
	buf   []byte
	dial  net.Dialer
	log   log.Logger
}

var _ simnet.Backend = (*Backend)(nil)

// New stream Backend.
func New(opt ...Option) *Backend {
	b := &Backend{
		peers: make(table),
		buf:   make([]byte, defaultBufSize),
		dial:  net.Dialer{Timeout: defaultDialTimeout},
		log:   log.New(log.OptLevel(log.NullLevel)),
	}

	for _, fn := range opt {
		fn(b)
	}

	return b
}

// Listener returns the bound listener, if one is configured.
func (b *Backend) Listener() (*net.TCPListener, bool) { return b.ln, b.ln != nil }

// SetListener replaces the bound listener.
func (b *Backend) SetListener(ln *net.TCPListener) { b.ln = ln }

// DropListener removes the bound listener, disabling inbound acceptance.
func (b *Backend) DropListener() { b.ln = nil }

// Close tears down the listener and every tracked connection.
func (b *Backend) Close() error {
	var g errgroup.Group

	if b.ln != nil {
		g.Go(b.ln.Close)
		b.ln = nil
	}

	for _, p := range b.peers {
		g.Go(p.conn.Close)
	}
	b.peers = make(table)

	return g.Wait()
}

// Maintain accepts pending inbound connections, opens outbound ones for
// queued messages, and reaps peers marked dead on an earlier tick.  Reaping
// runs last, immediately before the send stage.
func (b *Backend) Maintain(o *simnet.Outbox, sink *simnet.Sink) {
	b.acceptPending(sink)
	b.ensureOutbound(o, sink)
	b.peers.reap(sink)
}

func (b *Backend) acceptPending(sink *simnet.Sink) {
	if b.ln == nil {
		return
	}

	for {
		conn, err := acceptTCP(b.ln)
		if err == errWouldBlock {
			return
		}
		if err != nil {
			// Abandon accepting for this tick; retried on the next one.
			sink.Push(simnet.ConnError{Err: err})
			return
		}

		addr, ok := remoteAddrPort(conn)
		if !ok {
			conn.Close()
			continue
		}

		conn.SetNoDelay(true)
		b.peers.insert(addr, conn)
		sink.Push(simnet.Connected{Addr: addr})
	}
}

// ensureOutbound opens a connection for every pending destination without a
// live entry.  A failed connect reports a ConnError per affected message
// and inserts nothing; the send stage then skips those messages silently.
func (b *Backend) ensureOutbound(o *simnet.Outbox, sink *simnet.Sink) {
	for _, m := range o.Pending() {
		if _, ok := b.peers[m.To]; ok {
			continue
		}

		conn, err := b.connect(m.To)
		if err != nil {
			sink.Push(simnet.ConnError{Err: err, Addr: m.To})
			continue
		}

		b.peers.insert(m.To, conn)
	}
}

func (b *Backend) connect(to netip.AddrPort) (*net.TCPConn, error) {
	// Bounded by the dial timeout; the platform offers no synchronous
	// result for a truly asynchronous connect.
	c, err := b.dial.Dial("tcp", to.String())
	if err != nil {
		return nil, err
	}

	conn := c.(*net.TCPConn)
	conn.SetNoDelay(true)
	return conn, nil
}

// Send drains the outbox through the gate and writes each payload raw.
// TCP provides reliable-ordered delivery only: a stream id attached to
// ReliableOrdered is ignored with a warning, and any other class is a
// configuration bug, not a runtime condition.
func (b *Backend) Send(o *simnet.Outbox, gate simnet.Gate, sink *simnet.Sink) {
	for _, m := range o.Drain(gate) {
		switch m.Delivery.Class() {
		case simnet.ClassReliableOrdered:
			if _, ok := m.Delivery.Stream(); ok {
				b.log.WithField("addr", m.To).
					Warn("streams are not supported over tcp; stream id ignored")
			}
		case simnet.ClassDefault:
		default:
			panic(fmt.Sprintf(
				"stream: %s delivery is unsupported; tcp provides reliable-ordered only",
				m.Delivery))
		}

		b.write(m, sink)
	}
}

func (b *Backend) write(m simnet.Message, sink *simnet.Sink) {
	p, ok := b.peers[m.To]
	if !ok {
		// The connect failed this tick and was already reported.
		return
	}

	if err := rawWrite(p.conn, m.Payload); err != nil {
		sink.Push(simnet.SendError{Err: err, Message: m})
	}
}

// Receive reads every live connection dry.  Streams carry no framing, so
// each non-blocking read surfaces as one Received event.
func (b *Backend) Receive(sink *simnet.Sink) {
	for addr, p := range b.peers {
		if !p.live {
			continue
		}

		raddr, ok := remoteAddrPort(p.conn)
		if !ok {
			b.log.WithField("addr", addr).
				Warn("cannot resolve peer address; dropping connection")
			p.live = false
			continue
		}

	read:
		for {
			n, err := rawRead(p.conn, b.buf)
			switch {
			case err == nil && n > 0:
				payload := make([]byte, n)
				copy(payload, b.buf[:n])
				sink.Push(simnet.Received{From: raddr, Payload: payload})
			case err == nil: // clean close
				p.live = false
				break read
			case err == errWouldBlock:
				break read
			case isConnReset(err):
				p.live = false
				break read
			default:
				sink.Push(simnet.RecvError{Err: err})
				break read
			}
		}
	}
}

// Poll is a no-op; TCP needs no protocol pump.
func (b *Backend) Poll(time.Time) {}
