package socks5protocol

import (
	"github.com/anmolbhatia05/socksx/addresses"
	"github.com/anmolbhatia05/socksx/corestructs"
	"go.uber.org/zap"
)

type Socks5Request struct {
	Fields *corestructs.Fields

	handshakeConn readWriter

	Command  byte
	DestAddr *addresses.Address
}

// Read runs the server side of the handshake up to and including the
// command packet. The version byte was consumed by the mux.
func (req *Socks5Request) Read() error {
	fields := req.Fields
	req.handshakeConn.conn = fields.Conn
	req.handshakeConn.timeout = fields.Timeouts.Handshake
	req.handshakeConn.download = 0
	req.handshakeConn.upload = 0
	fields.LogFields = append(fields.LogFields,
		zap.String("user_ip", fields.UserIP),
		zap.String("proxy_ip", fields.ProxyIP),
		zap.String("type", "SOCKS5"),
	)

	err := selectMethod(req)
	if err != nil {
		return &ErrAuthFailure{err: err}
	}

	err = readCommand(req)
	if err != nil {
		return &ErrCommandReadFailure{err: err}
	}

	fields.FillLogFields()

	fields.Download = req.handshakeConn.download
	fields.Upload = req.handshakeConn.upload + 1 // first byte 5

	return nil
}
