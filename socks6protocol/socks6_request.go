package socks6protocol

import (
	"errors"
	"strconv"

	"github.com/anmolbhatia05/socksx/addresses"
	"github.com/anmolbhatia05/socksx/corestructs"
	"github.com/anmolbhatia05/socksx/socks6options"
	"go.uber.org/zap"
)

type Socks6Request struct {
	Fields *corestructs.Fields

	handshakeConn readWriter

	Command  byte
	DestAddr *addresses.Address
	Options  []socks6options.Option

	InitialDataLength uint16

	advertisement *socks6options.AuthMethodAdvertisementOption
	advertised    bool
}

// Read parses the request frame. The version byte was consumed by the
// mux; the read starts at the command octet. The frame is
// cmd, options length, destination port, padding, address type,
// address, options.
func (req *Socks6Request) Read() error {
	fields := req.Fields
	req.handshakeConn.conn = fields.Conn
	req.handshakeConn.timeout = fields.Timeouts.Handshake
	req.handshakeConn.download = 0
	req.handshakeConn.upload = 0
	fields.LogFields = append(fields.LogFields,
		zap.String("user_ip", fields.UserIP),
		zap.String("proxy_ip", fields.ProxyIP),
		zap.String("type", "SOCKS6"),
	)

	if err := req.readRequest(); err != nil {
		return &ErrCommandReadFailure{err: err}
	}

	fields.FillLogFields()

	fields.Download = req.handshakeConn.download
	fields.Upload = req.handshakeConn.upload + 1 // first byte 6

	return nil
}

func (req *Socks6Request) readRequest() error {
	header := make([]byte, 7)
	var err error
	if _, err = req.handshakeConn.Read(header); err != nil {
		return err
	}

	req.Command = header[0]
	optionsLength := (uint16(header[1]) << 8) | uint16(header[2])
	port := (uint16(header[3]) << 8) | uint16(header[4])

	if req.Command < ConnectCommand || req.Command > AssociateCommand {
		return ErrUnknownCommand
	}

	addr, err := addresses.ReadAddressBody(&req.handshakeConn, header[6], port)
	if err != nil {
		if errors.Is(err, addresses.ErrUnknownAddressType) {
			return ErrUnknownAddressType
		}
		return err
	}
	req.DestAddr = addr

	fields := req.Fields
	fields.PortNum = addr.Port
	fields.Port = strconv.Itoa(int(addr.Port))
	fields.Host = addr.StrAddr
	switch addr.Type {
	case addresses.IPv4Address:
		fields.HostType = corestructs.HostTypeIPv4
		fields.HostIP = addr.Value
	case addresses.IPv6Address:
		fields.HostType = corestructs.HostTypeIPv6
		fields.HostIP = addr.Value
	case addresses.HostnameAddress:
		fields.HostType = corestructs.HostTypeHostname
		fields.HostIP = nil
	}

	if optionsLength > 0 {
		optionsBuf := make([]byte, optionsLength)
		if _, err = req.handshakeConn.Read(optionsBuf); err != nil {
			return err
		}
		if req.Options, err = socks6options.DecodeAll(optionsBuf); err != nil {
			return err
		}
	}

	req.advertisement, req.advertised = socks6options.MergedAdvertisement(req.Options)
	if req.advertised {
		req.InitialDataLength = req.advertisement.InitialDataLength
	}

	return nil
}

// NoAuthAccepted reports whether the request can proceed without
// authentication: the advertisement offers no-auth or is absent.
func (req *Socks6Request) NoAuthAccepted() bool {
	if !req.advertised {
		return true
	}
	return req.advertisement.Offers(socks6options.NoAuthMethod)
}
