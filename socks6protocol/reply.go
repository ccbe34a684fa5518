package socks6protocol

import (
	"github.com/anmolbhatia05/socksx/addresses"
	"github.com/anmolbhatia05/socksx/socks6options"
	"github.com/duratarskeyk/go-common-utils/idlenet"
)

// SendAuthReply writes an authentication reply frame: version, type,
// options length, options.
func SendAuthReply(req *Socks6Request, replyType byte, opts []socks6options.Option) error {
	optsBytes, err := socks6options.EncodeAll(opts)
	if err != nil {
		return err
	}
	frame := make([]byte, 0, 4+len(optsBytes))
	frame = append(frame, socks6Version, replyType, byte(len(optsBytes)>>8), byte(len(optsBytes)&0xFF))
	frame = append(frame, optsBytes...)

	_, err = idlenet.WriteWithTimeout(req.Fields.Conn, req.Fields.Timeouts.Write, frame)
	return err
}

// SendSuccessReply writes an operation reply with code Success, the
// bound address of the upstream socket and any server-side options.
func SendSuccessReply(req *Socks6Request, addr *addresses.Address, opts []socks6options.Option) error {
	optsBytes, err := socks6options.EncodeAll(opts)
	if err != nil {
		return err
	}
	_, err = idlenet.WriteWithTimeout(req.Fields.Conn, req.Fields.Timeouts.Write,
		appendOperationReply(nil, SuccessReply, addr, optsBytes))
	return err
}

// SendFailReply writes an operation reply with the given code and a
// null bound address.
func SendFailReply(req *Socks6Request, replyCode byte) error {
	_, err := idlenet.WriteWithTimeout(req.Fields.Conn, req.Fields.Timeouts.Write,
		appendOperationReply(nil, replyCode, addresses.NullAddress(), nil))
	return err
}

// appendOperationReply frames version, code, options length, bind
// port, padding, address type, bind address, options.
func appendOperationReply(dst []byte, code byte, addr *addresses.Address, optsBytes []byte) []byte {
	dst = append(dst,
		socks6Version,
		code,
		byte(len(optsBytes)>>8),
		byte(len(optsBytes)&0xFF),
		byte(addr.Port>>8),
		byte(addr.Port&0xFF),
		0,
	)
	dst = addr.AppendHostBytes(dst)
	return append(dst, optsBytes...)
}

// readAuthReply parses an authentication reply from the proxy.
func readAuthReply(rw *readWriter) (byte, []socks6options.Option, error) {
	header := []byte{0, 0, 0, 0}
	if _, err := rw.Read(header); err != nil {
		return 0, nil, err
	}
	if header[0] != socks6Version {
		return 0, nil, ErrVersionMismatch
	}

	opts, err := readOptionsBlock(rw, (uint16(header[2])<<8)|uint16(header[3]))
	if err != nil {
		return 0, nil, err
	}
	return header[1], opts, nil
}

// readOperationReply parses an operation reply from the proxy.
func readOperationReply(rw *readWriter) (byte, *addresses.Address, []socks6options.Option, error) {
	header := make([]byte, 8)
	if _, err := rw.Read(header); err != nil {
		return 0, nil, nil, err
	}
	if header[0] != socks6Version {
		return 0, nil, nil, ErrVersionMismatch
	}
	code := header[1]
	optionsLength := (uint16(header[2]) << 8) | uint16(header[3])
	port := (uint16(header[4]) << 8) | uint16(header[5])

	binding, err := addresses.ReadAddressBody(rw, header[7], port)
	if err != nil {
		return 0, nil, nil, err
	}

	opts, err := readOptionsBlock(rw, optionsLength)
	if err != nil {
		return 0, nil, nil, err
	}
	return code, binding, opts, nil
}

func readOptionsBlock(rw *readWriter, length uint16) ([]socks6options.Option, error) {
	if length == 0 {
		return nil, nil
	}
	buf := make([]byte, length)
	if _, err := rw.Read(buf); err != nil {
		return nil, err
	}
	return socks6options.DecodeAll(buf)
}
