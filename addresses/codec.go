package addresses

import "io"

// AsSocksBytes encodes the address block: type tag, raw or
// length-prefixed body, 2-octet big-endian port.
func (addr *Address) AsSocksBytes() []byte {
	return addr.AppendSocksBytes(nil)
}

func (addr *Address) AppendSocksBytes(dst []byte) []byte {
	dst = append(dst, addr.Type)
	if addr.Type == HostnameAddress {
		dst = append(dst, byte(len(addr.Value)))
	}
	dst = append(dst, addr.Value...)
	return append(dst, byte(addr.Port>>8), byte(addr.Port&0xFF))
}

// AppendHostBytes encodes the type tag and body only, for frames that
// carry the port in a separate field.
func (addr *Address) AppendHostBytes(dst []byte) []byte {
	dst = append(dst, addr.Type)
	if addr.Type == HostnameAddress {
		dst = append(dst, byte(len(addr.Value)))
	}
	return append(dst, addr.Value...)
}

// ReadAddress decodes an address block from a stream, starting at the
// type tag. Pass a non-zero addrType when the tag was already consumed
// by the caller's header read.
func ReadAddress(r io.Reader, addrType byte) (*Address, error) {
	var err error
	if addrType == 0 {
		typeBuf := []byte{0}
		if _, err = r.Read(typeBuf); err != nil {
			return nil, err
		}
		addrType = typeBuf[0]
	}

	var addrBuf []byte
	var addrLength int
	switch addrType {
	case IPv4Address:
		addrLength = 6
		addrBuf = make([]byte, addrLength)
	case HostnameAddress:
		hostnameLength := []byte{0}
		if _, err = r.Read(hostnameLength); err != nil {
			return nil, err
		}
		if hostnameLength[0] == 0 {
			return nil, ErrEmptyHostname
		}
		addrLength = int(hostnameLength[0]) + 2
		addrBuf = make([]byte, addrLength)
	case IPv6Address:
		addrLength = 18
		addrBuf = make([]byte, addrLength)
	default:
		return nil, ErrUnknownAddressType
	}
	if _, err = r.Read(addrBuf); err != nil {
		return nil, err
	}

	res := &Address{
		Type:  addrType,
		Value: addrBuf[:addrLength-2],
		Port:  (uint16(addrBuf[addrLength-2]) << 8) | uint16(addrBuf[addrLength-1]),
	}
	res.fillValues()

	return res, nil
}

// ReadAddressBody decodes a type-tagged address whose port was carried
// in a separate field, as in SOCKS6 frames.
func ReadAddressBody(r io.Reader, addrType byte, port uint16) (*Address, error) {
	var err error
	var body []byte
	switch addrType {
	case IPv4Address:
		body = make([]byte, 4)
	case HostnameAddress:
		hostnameLength := []byte{0}
		if _, err = r.Read(hostnameLength); err != nil {
			return nil, err
		}
		if hostnameLength[0] == 0 {
			return nil, ErrEmptyHostname
		}
		body = make([]byte, hostnameLength[0])
	case IPv6Address:
		body = make([]byte, 16)
	default:
		return nil, ErrUnknownAddressType
	}
	if _, err = r.Read(body); err != nil {
		return nil, err
	}

	res := &Address{
		Type:  addrType,
		Value: body,
		Port:  port,
	}
	res.fillValues()

	return res, nil
}
