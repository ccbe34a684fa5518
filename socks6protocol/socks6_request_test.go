package socks6protocol

import (
	"errors"
	"net"
	"testing"

	"github.com/anmolbhatia05/socksx/corestructs"
	"github.com/anmolbhatia05/socksx/socks6options"
)

func newTestRequest(conn net.Conn) *Socks6Request {
	req := GetSocks6Request()
	fields := req.Fields
	fields.Conn = conn
	fields.Timeouts = corestructs.DefaultTimeouts()
	fields.UserIP = "pipe"
	fields.ProxyIP = "pipe"
	return req
}

// buildRequest frames a request body the way a client does, minus the
// version byte the mux consumes.
func buildRequest(t *testing.T, cmd byte, port uint16, hostBytes []byte, opts []socks6options.Option) []byte {
	t.Helper()
	optsBytes, err := socks6options.EncodeAll(opts)
	if err != nil {
		t.Fatalf("encoding options: %s", err)
	}
	frame := []byte{
		cmd,
		byte(len(optsBytes) >> 8), byte(len(optsBytes) & 0xFF),
		byte(port >> 8), byte(port & 0xFF),
		0,
	}
	frame = append(frame, hostBytes...)
	return append(frame, optsBytes...)
}

func TestRequestRead(t *testing.T) {
	opts := []socks6options.Option{
		&socks6options.StackOption{Leg: socks6options.StackLegProxyRemote, Level: 4, Code: 1, Value: []byte{1, 1}},
	}
	opts = append(opts, socks6options.AdvertiseMethods(5, []byte{socks6options.NoAuthMethod})...)

	host := append([]byte{3, 11}, []byte("example.com")...)
	frame := buildRequest(t, ConnectCommand, 443, host, opts)
	c1, c2 := net.Pipe()
	go func() {
		c2.Write(frame)
	}()

	req := newTestRequest(c1)
	err := req.Read()
	if err != nil {
		t.Fatalf("Expected err to be nil, got %s", err)
	}
	if req.Command != ConnectCommand {
		t.Errorf("Expected Connect, got %d", req.Command)
	}
	if req.DestAddr.StrAddrWithPort != "example.com:443" {
		t.Errorf("Expected destination example.com:443, got %s", req.DestAddr.StrAddrWithPort)
	}
	if len(req.Options) != 2 {
		t.Fatalf("Expected 2 options, got %d", len(req.Options))
	}
	if req.InitialDataLength != 5 {
		t.Errorf("Expected initial data length 5, got %d", req.InitialDataLength)
	}
	if !req.NoAuthAccepted() {
		t.Errorf("Expected no-auth to be accepted")
	}
	PutSocks6Request(req)
	c1.Close()
	c2.Close()
}

func TestRequestReadNoOptions(t *testing.T) {
	frame := buildRequest(t, ConnectCommand, 8080, []byte{1, 127, 0, 0, 1}, nil)
	c1, c2 := net.Pipe()
	go func() {
		c2.Write(frame)
	}()

	req := newTestRequest(c1)
	err := req.Read()
	if err != nil {
		t.Fatalf("Expected err to be nil, got %s", err)
	}
	if req.DestAddr.StrAddrWithPort != "127.0.0.1:8080" {
		t.Errorf("Expected destination 127.0.0.1:8080, got %s", req.DestAddr.StrAddrWithPort)
	}
	// no advertisement at all still reaches the connect phase
	if !req.NoAuthAccepted() {
		t.Errorf("Expected no-auth to be accepted")
	}
	PutSocks6Request(req)
	c1.Close()
	c2.Close()
}

func TestRequestReadAuthRequired(t *testing.T) {
	opts := socks6options.AdvertiseMethods(0, []byte{socks6options.UserPassAuthMethod})

	frame := buildRequest(t, ConnectCommand, 22, []byte{1, 10, 0, 0, 9}, opts)
	c1, c2 := net.Pipe()
	go func() {
		c2.Write(frame)
	}()

	req := newTestRequest(c1)
	err := req.Read()
	if err != nil {
		t.Fatalf("Expected err to be nil, got %s", err)
	}
	if req.NoAuthAccepted() {
		t.Errorf("Expected no-auth to be rejected")
	}
	PutSocks6Request(req)
	c1.Close()
	c2.Close()
}

func TestRequestReadErrors(t *testing.T) {
	tests := []struct {
		frame []byte
		err   error
	}{
		{buildRequestRaw(9, 0, 80, []byte{1, 1, 2, 3, 4}, nil), ErrUnknownCommand},
		{buildRequestRaw(ConnectCommand, 0, 80, []byte{7, 1, 2, 3, 4}, nil), ErrUnknownAddressType},
		// declared option length of 6 is not a multiple of 4
		{buildRequestRaw(ConnectCommand, 8, 80, []byte{1, 1, 2, 3, 4}, []byte{0, 5, 0, 6, 0, 0, 0, 0}), socks6options.ErrMalformedOption},
		// residue after the last whole option
		{buildRequestRaw(ConnectCommand, 10, 80, []byte{1, 1, 2, 3, 4}, []byte{0, 5, 0, 8, 1, 2, 3, 4, 0, 0}), socks6options.ErrTrailingOptionBytes},
	}
	for nr, test := range tests {
		c1, c2 := net.Pipe()
		go func(frame []byte) {
			c2.Write(frame)
			c2.Close()
		}(test.frame)

		req := newTestRequest(c1)
		err := req.Read()
		c1.Close()
		if !errors.Is(err, test.err) {
			t.Errorf("Test %d: Expected %s, got %v", nr+1, test.err, err)
		}
		var wrapped *ErrCommandReadFailure
		if !errors.As(err, &wrapped) {
			t.Errorf("Test %d: Expected an ErrCommandReadFailure wrapper, got %T", nr+1, err)
		}
		PutSocks6Request(req)
	}
}

func buildRequestRaw(cmd byte, optionsLength uint16, port uint16, hostBytes, optsBytes []byte) []byte {
	frame := []byte{
		cmd,
		byte(optionsLength >> 8), byte(optionsLength & 0xFF),
		byte(port >> 8), byte(port & 0xFF),
		0,
	}
	frame = append(frame, hostBytes...)
	return append(frame, optsBytes...)
}
