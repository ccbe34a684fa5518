package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"testing"

	"github.com/anmolbhatia05/socksx/addresses"
	"github.com/anmolbhatia05/socksx/corestructs"
	"github.com/anmolbhatia05/socksx/socks6options"
	"github.com/anmolbhatia05/socksx/socks6protocol"
	"go.uber.org/zap"
)

// startServer serves the given protocol on an ephemeral port and
// returns its address.
func startServer(t *testing.T, protocol string, chainURIs []string) string {
	t.Helper()

	cfg, err := corestructs.NewConfig("127.0.0.1", 1080, protocol, chainURIs)
	if err != nil {
		t.Fatalf("building config: %s", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listening: %s", err)
	}
	t.Cleanup(func() { ln.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv := New(cfg, zap.NewNop())
	go srv.Serve(ctx, ln)

	return ln.Addr().String()
}

// startEcho runs a TCP echo target.
func startEcho(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listening: %s", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				io.Copy(c, c)
				c.Close()
			}(conn)
		}
	}()

	return ln.Addr().String()
}

// closedPort reserves a port and closes it again, so nothing listens
// there.
func closedPort(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listening: %s", err)
	}
	addr := ln.Addr().String()
	ln.Close()
	return addr
}

func socks5Request(t *testing.T, target string) []byte {
	t.Helper()
	dest, err := addresses.FromString(target)
	if err != nil {
		t.Fatalf("building destination: %s", err)
	}
	return append([]byte{5, 1, 0}, dest.AsSocksBytes()...)
}

func TestSOCKS5Direct(t *testing.T) {
	echoAddr := startEcho(t)
	proxyAddr := startServer(t, corestructs.ProtocolSOCKS5, nil)

	conn, err := net.Dial("tcp", proxyAddr)
	if err != nil {
		t.Fatalf("dialing proxy: %s", err)
	}
	defer conn.Close()

	conn.Write([]byte{5, 1, 0})
	selection := make([]byte, 2)
	if _, err = io.ReadFull(conn, selection); err != nil {
		t.Fatalf("reading method selection: %s", err)
	}
	if !bytes.Equal(selection, []byte{5, 0}) {
		t.Fatalf("Expected 05 00, got %v", selection)
	}

	conn.Write(socks5Request(t, echoAddr))
	reply := make([]byte, 10)
	if _, err = io.ReadFull(conn, reply); err != nil {
		t.Fatalf("reading reply: %s", err)
	}
	if reply[0] != 5 || reply[1] != 0 || reply[3] != 1 {
		t.Fatalf("Expected a success reply with an IPv4 binding, got %v", reply)
	}

	payload := []byte("hello through socks5")
	conn.Write(payload)
	echoed := make([]byte, len(payload))
	if _, err = io.ReadFull(conn, echoed); err != nil {
		t.Fatalf("reading echo: %s", err)
	}
	if !bytes.Equal(echoed, payload) {
		t.Errorf("Expected %q, got %q", payload, echoed)
	}
}

func TestSOCKS5Refused(t *testing.T) {
	proxyAddr := startServer(t, corestructs.ProtocolSOCKS5, nil)

	conn, err := net.Dial("tcp", proxyAddr)
	if err != nil {
		t.Fatalf("dialing proxy: %s", err)
	}
	defer conn.Close()

	conn.Write([]byte{5, 1, 0})
	selection := make([]byte, 2)
	io.ReadFull(conn, selection)

	conn.Write(socks5Request(t, closedPort(t)))
	reply := make([]byte, 10)
	if _, err = io.ReadFull(conn, reply); err != nil {
		t.Fatalf("reading reply: %s", err)
	}
	expected := []byte{5, 5, 0, 1, 0, 0, 0, 0, 0, 0}
	if !bytes.Equal(reply, expected) {
		t.Errorf("Expected %v, got %v", expected, reply)
	}
}

func TestSOCKS6Direct(t *testing.T) {
	echoAddr := startEcho(t)
	proxyAddr := startServer(t, corestructs.ProtocolSOCKS6, nil)

	conn, err := net.Dial("tcp", proxyAddr)
	if err != nil {
		t.Fatalf("dialing proxy: %s", err)
	}
	defer conn.Close()

	client := socks6protocol.NewSocks6Client(proxyAddr)
	dest, _ := addresses.FromString(echoAddr)
	binding, _, err := client.Handshake(conn, dest, nil, nil)
	if err != nil {
		t.Fatalf("Expected err to be nil, got %s", err)
	}
	if binding.Type != addresses.IPv4Address {
		t.Errorf("Expected an IPv4 binding, got type %d", binding.Type)
	}

	payload := []byte("hello through socks6")
	conn.Write(payload)
	echoed := make([]byte, len(payload))
	if _, err = io.ReadFull(conn, echoed); err != nil {
		t.Fatalf("reading echo: %s", err)
	}
	if !bytes.Equal(echoed, payload) {
		t.Errorf("Expected %q, got %q", payload, echoed)
	}
}

func TestSOCKS6InitialData(t *testing.T) {
	echoAddr := startEcho(t)
	proxyAddr := startServer(t, corestructs.ProtocolSOCKS6, nil)

	conn, err := net.Dial("tcp", proxyAddr)
	if err != nil {
		t.Fatalf("dialing proxy: %s", err)
	}
	defer conn.Close()

	client := socks6protocol.NewSocks6Client(proxyAddr)
	dest, _ := addresses.FromString(echoAddr)
	initialData := []byte("zero rtt")
	if _, _, err = client.Handshake(conn, dest, initialData, nil); err != nil {
		t.Fatalf("Expected err to be nil, got %s", err)
	}

	echoed := make([]byte, len(initialData))
	if _, err = io.ReadFull(conn, echoed); err != nil {
		t.Fatalf("reading echo: %s", err)
	}
	if !bytes.Equal(echoed, initialData) {
		t.Errorf("Expected %q, got %q", initialData, echoed)
	}
}

func TestSOCKS6UnsupportedCommand(t *testing.T) {
	proxyAddr := startServer(t, corestructs.ProtocolSOCKS6, nil)

	conn, err := net.Dial("tcp", proxyAddr)
	if err != nil {
		t.Fatalf("dialing proxy: %s", err)
	}
	defer conn.Close()

	// BIND request for 127.0.0.1:80, no options
	conn.Write([]byte{6, 2, 0, 0, 0, 80, 0, 1, 127, 0, 0, 1})
	reply := make([]byte, 12)
	if _, err = io.ReadFull(conn, reply); err != nil {
		t.Fatalf("reading reply: %s", err)
	}
	if reply[0] != 6 || reply[1] != socks6protocol.CommandNotSupported {
		t.Fatalf("Expected a CommandNotSupported operation reply, got %v", reply)
	}
	if n, err := conn.Read(make([]byte, 1)); n != 0 || err == nil {
		t.Errorf("Expected the server to close, got %d bytes, err %v", n, err)
	}
}

func TestSOCKS6AuthRefused(t *testing.T) {
	proxyAddr := startServer(t, corestructs.ProtocolSOCKS6, nil)

	conn, err := net.Dial("tcp", proxyAddr)
	if err != nil {
		t.Fatalf("dialing proxy: %s", err)
	}
	defer conn.Close()

	// CONNECT with an advertisement offering user/pass only
	opts, err := socks6options.EncodeAll(
		socks6options.AdvertiseMethods(0, []byte{socks6options.UserPassAuthMethod}))
	if err != nil {
		t.Fatalf("encoding options: %s", err)
	}
	frame := []byte{6, 1, byte(len(opts) >> 8), byte(len(opts)), 0, 80, 0, 1, 127, 0, 0, 1}
	conn.Write(append(frame, opts...))

	reply := make([]byte, 4)
	if _, err = io.ReadFull(conn, reply); err != nil {
		t.Fatalf("reading auth reply: %s", err)
	}
	expected := []byte{6, socks6protocol.AuthFurtherNeeded, 0, 0}
	if !bytes.Equal(reply, expected) {
		t.Fatalf("Expected %v, got %v", expected, reply)
	}
	if n, err := conn.Read(make([]byte, 1)); n != 0 || err == nil {
		t.Errorf("Expected the server to close, got %d bytes, err %v", n, err)
	}
}

func TestUnknownVersionByte(t *testing.T) {
	proxyAddr := startServer(t, corestructs.ProtocolSOCKS6, nil)

	conn, err := net.Dial("tcp", proxyAddr)
	if err != nil {
		t.Fatalf("dialing proxy: %s", err)
	}
	defer conn.Close()

	conn.Write([]byte{7})
	// the server closes without sending anything in reply
	if n, err := conn.Read(make([]byte, 1)); n != 0 || err == nil {
		t.Errorf("Expected a silent close, got %d bytes, err %v", n, err)
	}
}

func TestProtocolGating(t *testing.T) {
	// a socks5-only server treats a SOCKS6 version byte like garbage
	proxyAddr := startServer(t, corestructs.ProtocolSOCKS5, nil)

	conn, err := net.Dial("tcp", proxyAddr)
	if err != nil {
		t.Fatalf("dialing proxy: %s", err)
	}
	defer conn.Close()

	conn.Write([]byte{6})
	if n, err := conn.Read(make([]byte, 1)); n != 0 || err == nil {
		t.Errorf("Expected a silent close, got %d bytes, err %v", n, err)
	}
}

func TestSOCKS6SingleHopChain(t *testing.T) {
	echoAddr := startEcho(t)
	upstreamAddr := startServer(t, corestructs.ProtocolSOCKS6, nil)
	proxyAddr := startServer(t, corestructs.ProtocolSOCKS6, []string{"socks6://" + upstreamAddr})

	conn, err := net.Dial("tcp", proxyAddr)
	if err != nil {
		t.Fatalf("dialing proxy: %s", err)
	}
	defer conn.Close()

	client := socks6protocol.NewSocks6Client(proxyAddr)
	dest, _ := addresses.FromString(echoAddr)
	if _, _, err = client.Handshake(conn, dest, nil, nil); err != nil {
		t.Fatalf("Expected err to be nil, got %s", err)
	}

	payload := []byte("hello through the chain")
	conn.Write(payload)
	echoed := make([]byte, len(payload))
	if _, err = io.ReadFull(conn, echoed); err != nil {
		t.Fatalf("reading echo: %s", err)
	}
	if !bytes.Equal(echoed, payload) {
		t.Errorf("Expected %q, got %q", payload, echoed)
	}
}

func TestSOCKS6TwoHopChainUpstreamFailure(t *testing.T) {
	upstreamAddr := startServer(t, corestructs.ProtocolSOCKS6, nil)
	deadHop := closedPort(t)
	proxyAddr := startServer(t, corestructs.ProtocolSOCKS6,
		[]string{"socks6://" + upstreamAddr, "socks6://" + deadHop})

	conn, err := net.Dial("tcp", proxyAddr)
	if err != nil {
		t.Fatalf("dialing proxy: %s", err)
	}
	defer conn.Close()

	client := socks6protocol.NewSocks6Client(proxyAddr)
	dest, _ := addresses.FromHostPort("10.0.0.9", 22)
	_, _, err = client.Handshake(conn, dest, nil, nil)

	var replyErr *socks6protocol.ErrProtocolReply
	if !errors.As(err, &replyErr) {
		t.Fatalf("Expected ErrProtocolReply, got %v", err)
	}
	if replyErr.Code != socks6protocol.ConnectionRefused {
		t.Errorf("Expected the upstream's ConnectionRefused verbatim, got %d", replyErr.Code)
	}
}
