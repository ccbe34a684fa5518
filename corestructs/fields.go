package corestructs

import (
	"net"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	HostTypeIPv4 = iota
	HostTypeIPv6
	HostTypeHostname
)

// Fields is the per-connection record filled in during the handshake
// and logged at connection end.
type Fields struct {
	Conn     net.Conn
	Timeouts *Timeouts

	DialerTCP *net.Dialer

	UserIP  string
	ProxyIP string

	HostType int
	Host     string
	HostIP   net.IP
	Port     string
	PortNum  uint16

	Download int64
	Upload   int64

	LogFields []zapcore.Field
}

func (f *Fields) Clean() {
	f.Conn = nil
	f.DialerTCP = nil
	f.Timeouts = nil
	f.HostIP = nil
	f.LogFields = f.LogFields[:0]
}

func (f *Fields) FillLogFields() {
	f.LogFields = append(f.LogFields,
		zap.String("host", f.Host),
		zap.Uint16("port", f.PortNum),
	)
}
