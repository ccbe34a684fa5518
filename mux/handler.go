package mux

import (
	"context"
	"net"

	"github.com/anmolbhatia05/socksx/corestructs"
	"github.com/anmolbhatia05/socksx/socks5protocol"
	"github.com/anmolbhatia05/socksx/socks6protocol"
	"github.com/duratarskeyk/go-common-utils/idlenet"
)

// Handler reads the version byte of an accepted stream and dispatches
// to the matching protocol handler. A nil handler slot, or a first
// byte that is neither 5 nor 6, closes the stream without sending
// anything in reply.
type Handler struct {
	SOCKS5Handler func(ctx context.Context, req *socks5protocol.Socks5Request)
	SOCKS6Handler func(ctx context.Context, req *socks6protocol.Socks6Request)
	ExitHandler   func(conn net.Conn)

	Timeouts *corestructs.Timeouts
}

func (h Handler) Handle(
	ctx context.Context,
	conn net.Conn,
	dialerTCP *net.Dialer,
	proxyIP, userIP string,
) {
	f := []byte{0}
	_, err := idlenet.ReadWithTimeout(conn, h.Timeouts.Handshake, f)
	if err != nil {
		h.ExitHandler(conn)
		return
	}

	firstByte := f[0]
	if firstByte == 5 && h.SOCKS5Handler != nil {
		req := socks5protocol.GetSocks5Request()
		fields := req.Fields
		fields.Conn = conn
		fields.DialerTCP = dialerTCP
		fields.Timeouts = h.Timeouts
		fields.UserIP = userIP
		fields.ProxyIP = proxyIP

		h.SOCKS5Handler(ctx, req)
		socks5protocol.PutSocks5Request(req)
	} else if firstByte == 6 && h.SOCKS6Handler != nil {
		req := socks6protocol.GetSocks6Request()
		fields := req.Fields
		fields.Conn = conn
		fields.DialerTCP = dialerTCP
		fields.Timeouts = h.Timeouts
		fields.UserIP = userIP
		fields.ProxyIP = proxyIP

		h.SOCKS6Handler(ctx, req)
		socks6protocol.PutSocks6Request(req)
	}
	h.ExitHandler(conn)
}
