package server

import (
	"context"
	"errors"
	"net"

	"github.com/anmolbhatia05/socksx/addresses"
	"github.com/anmolbhatia05/socksx/relay"
	"github.com/anmolbhatia05/socksx/socks5protocol"
	"go.uber.org/zap"
)

func (s *Server) handleSOCKS5(ctx context.Context, req *socks5protocol.Socks5Request) {
	fields := req.Fields

	if err := req.Read(); err != nil {
		var cmdErr *socks5protocol.ErrCommandReadFailure
		if errors.As(err, &cmdErr) {
			code := socks5protocol.ServerFailure
			switch {
			case errors.Is(err, socks5protocol.ErrUnknownCommand):
				code = socks5protocol.CommandNotSupported
			case errors.Is(err, socks5protocol.ErrUnknownAddressType):
				code = socks5protocol.AddrTypeNotSupported
			}
			socks5protocol.SendFailReply(req, code)
		}
		s.log.Debug("socks5 handshake failed", append(fields.LogFields, zap.Error(err))...)
		return
	}

	if req.Command != socks5protocol.ConnectCommand {
		socks5protocol.SendFailReply(req, socks5protocol.CommandNotSupported)
		s.log.Debug("socks5 command not supported", append(fields.LogFields, zap.Uint8("command", req.Command))...)
		return
	}

	target, err := fields.DialerTCP.DialContext(ctx, "tcp", net.JoinHostPort(fields.Host, fields.Port))
	if err != nil {
		socks5protocol.SendFailReply(req, connectErrorReplyCode(err))
		s.log.Info("socks5 connect failed", append(fields.LogFields, zap.Error(err))...)
		return
	}

	bound, err := addresses.FromNetAddr(target.LocalAddr())
	if err != nil {
		target.Close()
		socks5protocol.SendFailReply(req, socks5protocol.ServerFailure)
		return
	}
	if err = socks5protocol.SendSuccessReply(req, bound); err != nil {
		target.Close()
		s.log.Debug("socks5 reply write failed", append(fields.LogFields, zap.Error(err))...)
		return
	}

	res, err := relay.Splice(fields.Conn, target)
	s.log.Info("connection closed", append(fields.LogFields,
		zap.Int64("upload", fields.Upload+res.Upload),
		zap.Int64("download", fields.Download+res.Download),
		zap.Error(err),
	)...)
}
