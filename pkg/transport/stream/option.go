package stream

import (
	"net"
	"time"

	log "github.com/lthibault/log/pkg"
)

// Option for the stream backend
type Option func(*Backend) (prev Option)

// OptListener sets the bound listener
func OptListener(ln *net.TCPListener) Option {
	return func(b *Backend) (prev Option) {
		prev = OptListener(b.ln)
		b.ln = ln
		return
	}
}

// OptBufSize sets the receive buffer size in bytes
func OptBufSize(n int) Option {
	return func(b *Backend) (prev Option) {
		prev = OptBufSize(len(b.buf))
		b.buf = make([]byte, n)
		return
	}
}

// OptDialTimeout bounds outbound connect attempts
func OptDialTimeout(d time.Duration) Option {
	return func(b *Backend) (prev Option) {
		prev = OptDialTimeout(b.dial.Timeout)
		b.dial.Timeout = d
		return
	}
}

// OptLogger sets the logger
func OptLogger(l log.Logger) Option {
	return func(b *Backend) (prev Option) {
		prev = OptLogger(b.log)
		b.log = l
		return
	}
}
