package corestructs

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/anmolbhatia05/socksx/addresses"
)

const (
	ProtocolSOCKS5 = "socks5"
	ProtocolSOCKS6 = "socks6"
)

var ErrBadProtocol = errors.New("protocol must be socks5 or socks6")
var ErrBadPort = errors.New("port must be between 1 and 65535")
var ErrChainNotSupported = errors.New("proxy chaining is only supported for socks6")

// Config describes one server instance. Immutable after startup.
type Config struct {
	Host     string
	Port     uint16
	Protocol string
	Chain    addresses.Chain

	Timeouts *Timeouts
}

func NewConfig(host string, port int, protocol string, chainURIs []string) (*Config, error) {
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("%w: %d", ErrBadPort, port)
	}
	if protocol != ProtocolSOCKS5 && protocol != ProtocolSOCKS6 {
		return nil, fmt.Errorf("%w: %q", ErrBadProtocol, protocol)
	}
	if len(chainURIs) > 0 && protocol != ProtocolSOCKS6 {
		return nil, ErrChainNotSupported
	}

	chain, err := addresses.ParseChain(chainURIs)
	if err != nil {
		return nil, err
	}

	return &Config{
		Host:     host,
		Port:     uint16(port),
		Protocol: protocol,
		Chain:    chain,
		Timeouts: DefaultTimeouts(),
	}, nil
}

// BindAddr is the listen address in host:port form.
func (c *Config) BindAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(int(c.Port)))
}
