package server

import (
	"context"
	"errors"
	"net"

	"github.com/anmolbhatia05/socksx/addresses"
	"github.com/anmolbhatia05/socksx/chain"
	"github.com/anmolbhatia05/socksx/relay"
	"github.com/anmolbhatia05/socksx/socks6options"
	"github.com/anmolbhatia05/socksx/socks6protocol"
	"github.com/duratarskeyk/go-common-utils/idlenet"
	"go.uber.org/zap"
)

func (s *Server) handleSOCKS6(ctx context.Context, req *socks6protocol.Socks6Request) {
	fields := req.Fields

	if err := req.Read(); err != nil {
		switch {
		case errors.Is(err, socks6protocol.ErrUnknownCommand):
			socks6protocol.SendFailReply(req, socks6protocol.CommandNotSupported)
		case errors.Is(err, socks6protocol.ErrUnknownAddressType):
			socks6protocol.SendFailReply(req, socks6protocol.AddrTypeNotSupported)
		case errors.Is(err, socks6options.ErrMalformedOption), errors.Is(err, socks6options.ErrTrailingOptionBytes):
			socks6protocol.SendFailReply(req, socks6protocol.ServerFailure)
		}
		s.log.Debug("socks6 handshake failed", append(fields.LogFields, zap.Error(err))...)
		return
	}

	if req.Command != socks6protocol.ConnectCommand {
		socks6protocol.SendFailReply(req, socks6protocol.CommandNotSupported)
		s.log.Debug("socks6 command not supported", append(fields.LogFields, zap.Uint8("command", req.Command))...)
		return
	}

	if !req.NoAuthAccepted() {
		socks6protocol.SendAuthReply(req, socks6protocol.AuthFurtherNeeded, nil)
		s.log.Debug("socks6 authentication refused", fields.LogFields...)
		return
	}
	if err := socks6protocol.SendAuthReply(req, socks6protocol.AuthSuccess, nil); err != nil {
		s.log.Debug("socks6 auth reply write failed", append(fields.LogFields, zap.Error(err))...)
		return
	}

	target, bound, replyOpts, err := s.connectSOCKS6(ctx, req)
	if err != nil {
		socks6protocol.SendFailReply(req, socks6ErrorReplyCode(err))
		s.log.Info("socks6 connect failed", append(fields.LogFields, zap.Error(err))...)
		return
	}

	// forward pipelined initial data before confirming the operation
	if req.InitialDataLength > 0 {
		initialData := make([]byte, req.InitialDataLength)
		if _, err = idlenet.ReadWithTimeout(fields.Conn, fields.Timeouts.Handshake, initialData); err != nil {
			target.Close()
			s.log.Debug("socks6 initial data read failed", append(fields.LogFields, zap.Error(err))...)
			return
		}
		if _, err = idlenet.WriteWithTimeout(target, fields.Timeouts.Write, initialData); err != nil {
			target.Close()
			s.log.Debug("socks6 initial data write failed", append(fields.LogFields, zap.Error(err))...)
			return
		}
	}

	if err = socks6protocol.SendSuccessReply(req, bound, replyOpts); err != nil {
		target.Close()
		s.log.Debug("socks6 reply write failed", append(fields.LogFields, zap.Error(err))...)
		return
	}

	res, err := relay.Splice(fields.Conn, target)
	s.log.Info("connection closed", append(fields.LogFields,
		zap.Int64("upload", fields.Upload+res.Upload),
		zap.Int64("download", fields.Download+res.Download),
		zap.Error(err),
	)...)
}

// connectSOCKS6 opens the upstream leg: through the configured chain
// when one is present, directly to the destination otherwise.
func (s *Server) connectSOCKS6(ctx context.Context, req *socks6protocol.Socks6Request) (net.Conn, *addresses.Address, []socks6options.Option, error) {
	if len(s.config.Chain) > 0 {
		w := &chain.Walker{
			Links:    s.config.Chain,
			Timeouts: req.Fields.Timeouts,
			Log:      s.log,
		}
		return w.Walk(ctx, req.DestAddr, req.Options)
	}

	target, err := req.Fields.DialerTCP.DialContext(ctx, "tcp", req.DestAddr.StrAddrWithPort)
	if err != nil {
		return nil, nil, nil, err
	}
	bound, err := addresses.FromNetAddr(target.LocalAddr())
	if err != nil {
		target.Close()
		return nil, nil, nil, err
	}
	return target, bound, nil, nil
}

// socks6ErrorReplyCode picks the reply code for a failed connect. A
// chain hop's reply code is forwarded unchanged; a chain failure
// before any hop reply is a general failure; direct connect errors are
// mapped by connectErrorReplyCode.
func socks6ErrorReplyCode(err error) byte {
	var replyErr *socks6protocol.ErrProtocolReply
	if errors.As(err, &replyErr) {
		return replyErr.Code
	}
	var chainErr *chain.ErrChainFailure
	if errors.As(err, &chainErr) {
		// local I/O failure before any hop reply
		return socks6protocol.ServerFailure
	}
	return connectErrorReplyCode(err)
}
