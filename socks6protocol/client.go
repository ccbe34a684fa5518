package socks6protocol

import (
	"context"
	"net"

	"github.com/anmolbhatia05/socksx/addresses"
	"github.com/anmolbhatia05/socksx/corestructs"
	"github.com/anmolbhatia05/socksx/socks6options"
	"github.com/pkg/errors"
)

// Socks6Client connects to destinations through a SOCKS6 proxy. It is
// also the building block of proxy chains: Handshake runs on any open
// stream, including one already tunnelled through previous hops.
type Socks6Client struct {
	ProxyAddr string
	Dialer    *net.Dialer
	Timeouts  *corestructs.Timeouts
}

func NewSocks6Client(proxyAddr string) *Socks6Client {
	timeouts := corestructs.DefaultTimeouts()
	return &Socks6Client{
		ProxyAddr: proxyAddr,
		Dialer:    &net.Dialer{Timeout: timeouts.Connect},
		Timeouts:  timeouts,
	}
}

// Connect dials the proxy and tunnels a connection to the destination.
func (c *Socks6Client) Connect(ctx context.Context, dest *addresses.Address, initialData []byte, opts []socks6options.Option) (net.Conn, *addresses.Address, error) {
	conn, err := c.Dialer.DialContext(ctx, "tcp", c.ProxyAddr)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "dialing proxy %s", c.ProxyAddr)
	}

	binding, _, err := c.Handshake(conn, dest, initialData, opts)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}

	return conn, binding, nil
}

// Handshake negotiates on an already open stream to the proxy. The
// advertisement offers no-auth only; initial data, when given, is
// pipelined right after the request frame. On success it returns the
// proxy's bound address and the options of the operation reply.
func (c *Socks6Client) Handshake(conn net.Conn, dest *addresses.Address, initialData []byte, opts []socks6options.Option) (*addresses.Address, []socks6options.Option, error) {
	if len(initialData) > MaxInitialDataLength {
		return nil, nil, ErrInitialDataTooLong
	}

	rw := &readWriter{conn: conn, timeout: c.Timeouts.Handshake}

	requestOpts := make([]socks6options.Option, 0, len(opts)+1)
	requestOpts = append(requestOpts, opts...)
	requestOpts = append(requestOpts,
		socks6options.AdvertiseMethods(uint16(len(initialData)), []byte{socks6options.NoAuthMethod})...)

	optsBytes, err := socks6options.EncodeAll(requestOpts)
	if err != nil {
		return nil, nil, err
	}

	frame := make([]byte, 0, 8+len(dest.Value)+len(optsBytes)+len(initialData))
	frame = append(frame,
		socks6Version,
		ConnectCommand,
		byte(len(optsBytes)>>8),
		byte(len(optsBytes)&0xFF),
		byte(dest.Port>>8),
		byte(dest.Port&0xFF),
		0,
	)
	frame = dest.AppendHostBytes(frame)
	frame = append(frame, optsBytes...)
	frame = append(frame, initialData...)

	if _, err = rw.Write(frame); err != nil {
		return nil, nil, errors.Wrap(err, "writing request")
	}

	authType, _, err := readAuthReply(rw)
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading authentication reply")
	}
	if authType != AuthSuccess {
		return nil, nil, ErrAuthenticationRequired
	}

	code, binding, replyOpts, err := readOperationReply(rw)
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading operation reply")
	}
	if code != SuccessReply {
		return nil, nil, &ErrProtocolReply{Code: code}
	}

	return binding, replyOpts, nil
}
