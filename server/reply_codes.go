package server

import (
	"errors"
	"net"
	"syscall"

	"github.com/anmolbhatia05/socksx/socks6protocol"
)

// connectErrorReplyCode maps an outbound connect failure to the wire
// reply code. SOCKS5 and SOCKS6 use the same code values.
func connectErrorReplyCode(err error) byte {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNREFUSED:
			return socks6protocol.ConnectionRefused
		case syscall.ENETUNREACH:
			return socks6protocol.NetworkUnreachable
		case syscall.EHOSTUNREACH:
			return socks6protocol.HostUnreachable
		}
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return socks6protocol.TTLExpired
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return socks6protocol.HostUnreachable
	}

	return socks6protocol.ServerFailure
}
