package socks5protocol

import (
	"errors"
	"strconv"

	"github.com/anmolbhatia05/socksx/addresses"
	"github.com/anmolbhatia05/socksx/corestructs"
)

func readAddress(req *Socks5Request, addrType byte) error {
	addr, err := addresses.ReadAddress(&req.handshakeConn, addrType)
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

	return nil
}
