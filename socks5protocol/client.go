package socks5protocol

import (
	"context"
	"net"

	"github.com/anmolbhatia05/socksx/addresses"
	"github.com/anmolbhatia05/socksx/corestructs"
	"github.com/pkg/errors"
)

// Socks5Client connects to destinations through a single SOCKS5 proxy.
type Socks5Client struct {
	ProxyAddr string
	Dialer    *net.Dialer
	Timeouts  *corestructs.Timeouts
}

func NewSocks5Client(proxyAddr string) *Socks5Client {
	timeouts := corestructs.DefaultTimeouts()
	return &Socks5Client{
		ProxyAddr: proxyAddr,
		Dialer:    &net.Dialer{Timeout: timeouts.Connect},
		Timeouts:  timeouts,
	}
}

// Connect dials the proxy and tunnels a connection to the destination.
// On success the returned stream is ready for relaying and the second
// value is the proxy's bound address.
func (c *Socks5Client) Connect(ctx context.Context, dest *addresses.Address) (net.Conn, *addresses.Address, error) {
	conn, err := c.Dialer.DialContext(ctx, "tcp", c.ProxyAddr)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "dialing proxy %s", c.ProxyAddr)
	}

	binding, err := c.Handshake(conn, dest)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}

	return conn, binding, nil
}

// Handshake negotiates on an already open stream to the proxy and
// returns the proxy's bound address.
func (c *Socks5Client) Handshake(conn net.Conn, dest *addresses.Address) (*addresses.Address, error) {
	rw := &readWriter{conn: conn, timeout: c.Timeouts.Handshake}

	if _, err := rw.Write([]byte{socks5Version, 1, noAuthID}); err != nil {
		return nil, errors.Wrap(err, "writing greeting")
	}

	selection := []byte{0, 0}
	if _, err := rw.Read(selection); err != nil {
		return nil, errors.Wrap(err, "reading method selection")
	}
	if selection[0] != socks5Version {
		return nil, ErrVersionMismatch
	}
	if selection[1] != noAuthID {
		return nil, ErrNoAcceptableAuthMethod
	}

	request := append([]byte{socks5Version, ConnectCommand, 0}, dest.AsSocksBytes()...)
	if _, err := rw.Write(request); err != nil {
		return nil, errors.Wrap(err, "writing request")
	}

	header := []byte{0, 0, 0}
	if _, err := rw.Read(header); err != nil {
		return nil, errors.Wrap(err, "reading reply")
	}
	if header[0] != socks5Version {
		return nil, ErrVersionMismatch
	}

	binding, err := addresses.ReadAddress(rw, 0)
	if err != nil {
		return nil, errors.Wrap(err, "reading bound address")
	}

	if header[1] != SuccessReply {
		return nil, &ErrProtocolReply{Code: header[1]}
	}

	return binding, nil
}
