package packet

import log "github.com/lthibault/log/pkg"

// Option for the packet backend
type Option func(*Backend) (prev Option)

// OptSocket sets the wrapped protocol socket
func OptSocket(s Socket) Option {
	return func(b *Backend) (prev Option) {
		prev = OptSocket(b.sock)
		b.sock = s
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
