package stream

import (
	"net"
	"net/netip"

	simnet "github.com/lthibault/simnet/pkg"
)

// peer is one connection entry.  live flips to false the instant a read or
// address lookup fails; removal and the Disconnected event happen on the
// next maintenance pass, never inline, so a disconnect is observable
// exactly once.
type peer struct {
	conn *net.TCPConn
	live bool
}

// table maps each remote address to its single connection entry.  Entries
// are owned exclusively by the table; nothing else holds the conn.
type table map[netip.AddrPort]*peer

// insert registers conn as the live entry for addr.
func (t table) insert(addr netip.AddrPort, conn *net.TCPConn) {
	t[addr] = &peer{conn: conn, live: true}
}

// reap removes every entry marked dead, reporting each exactly once.
func (t table) reap(sink *simnet.Sink) {
	for addr, p := range t {
		if !p.live {
			p.conn.Close()
			delete(t, addr)
			sink.Push(simnet.Disconnected{Addr: addr})
		}
	}
}

// remoteAddrPort resolves conn's peer address.  A nil or foreign address
// means the connection is in a bad state.
func remoteAddrPort(conn *net.TCPConn) (netip.AddrPort, bool) {
	tcp, ok := conn.RemoteAddr().(*net.TCPAddr)
	if !ok || tcp == nil {
		return netip.AddrPort{}, false
	}

	ap := tcp.AddrPort()
	return netip.AddrPortFrom(ap.Addr().Unmap(), ap.Port()), true
}
