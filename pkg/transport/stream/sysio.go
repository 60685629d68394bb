//go:build unix

package stream

import (
	"io"
	"net"
	"os"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// errWouldBlock reports that a non-blocking operation found nothing to do.
var errWouldBlock = errors.New("would block")

// The tick must never stall on a socket, and Go's deadline-based emulation
// either blocks until the deadline or fails reads with data still pending.
// I/O therefore goes through the raw fd, which the runtime already keeps in
// non-blocking mode.

// rawRead performs one non-blocking read into buf.  n == 0 with a nil
// error means the peer closed the stream.
func rawRead(conn syscall.Conn, buf []byte) (n int, err error) {
	rc, err := conn.SyscallConn()
	if err != nil {
		return 0, err
	}

	var rerr error
	if err = rc.Read(func(fd uintptr) bool {
		n, rerr = unix.Read(int(fd), buf)
		return true // never wait for readability
	}); err != nil {
		return 0, err
	}

	if rerr != nil {
		if rerr == unix.EAGAIN || rerr == unix.EWOULDBLOCK {
			return 0, errWouldBlock
		}
		return 0, rerr
	}

	if n < 0 {
		n = 0
	}

	return n, nil
}

// isConnReset reports a hard peer reset.
func isConnReset(err error) bool {
	return errors.Is(err, unix.ECONNRESET)
}

// rawWrite performs one non-blocking write of buf.  A would-block condition
// or a short write is a failure; the caller reports it and drops the
// message.
func rawWrite(conn syscall.Conn, buf []byte) error {
	rc, err := conn.SyscallConn()
	if err != nil {
		return err
	}

	var n int
	var werr error
	if err = rc.Write(func(fd uintptr) bool {
		n, werr = unix.Write(int(fd), buf)
		return true
	}); err != nil {
		return err
	}

	if werr != nil {
		return werr
	}

	if n < len(buf) {
		return errors.Wrap(io.ErrShortWrite, "write")
	}

	return nil
}

// acceptTCP performs one non-blocking accept on ln.
func acceptTCP(ln *net.TCPListener) (*net.TCPConn, error) {
	rc, err := ln.SyscallConn()
	if err != nil {
		return nil, err
	}

	var nfd int
	var aerr error
	// A listener's RawConn supports Control only; Read always fails with
	// EINVAL.  The accept itself is non-blocking either way.
	if err = rc.Control(func(fd uintptr) {
		nfd, _, aerr = unix.Accept(int(fd))
	}); err != nil {
		return nil, err
	}

	if aerr != nil {
		if aerr == unix.EAGAIN || aerr == unix.EWOULDBLOCK {
			return nil, errWouldBlock
		}
		return nil, errors.Wrap(aerr, "accept")
	}

	unix.CloseOnExec(nfd)

	// FileConn dups the fd and registers it with the runtime poller.
	f := os.NewFile(uintptr(nfd), "tcp")
	defer f.Close()

	c, err := net.FileConn(f)
	if err != nil {
		return nil, errors.Wrap(err, "accept")
	}

	conn, ok := c.(*net.TCPConn)
	if !ok {
		c.Close()
		return nil, errors.New("accept: not a tcp connection")
	}

	return conn, nil
}
