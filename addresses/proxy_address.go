package addresses

import (
	"net"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

const socks6Scheme = "socks6"

const DefaultProxyPort = uint16(1080)

// ProxyAddress is one upstream proxy parsed from a socks6://host:port
// URI. The scheme is recorded as parsed; only socks6 is accepted.
type ProxyAddress struct {
	Scheme string
	Host   string
	Port   uint16
}

// Chain is an ordered list of upstream proxies, nearest first.
type Chain []*ProxyAddress

func ParseProxyAddress(raw string) (*ProxyAddress, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrapf(ErrBadProxyAddress, "%q: %s", raw, err)
	}
	if u.Scheme != socks6Scheme {
		return nil, errors.Wrapf(ErrUnsupportedScheme, "%q", u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return nil, errors.Wrapf(ErrBadProxyAddress, "%q: no host", raw)
	}

	port := DefaultProxyPort
	if portStr := u.Port(); portStr != "" {
		p, err := strconv.ParseUint(portStr, 10, 16)
		if err != nil || p == 0 {
			return nil, errors.Wrapf(ErrBadProxyAddress, "%q: bad port", raw)
		}
		port = uint16(p)
	}

	return &ProxyAddress{Scheme: u.Scheme, Host: host, Port: port}, nil
}

func ParseChain(raws []string) (Chain, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	chain := make(Chain, 0, len(raws))
	for _, raw := range raws {
		link, err := ParseProxyAddress(raw)
		if err != nil {
			return nil, err
		}
		chain = append(chain, link)
	}
	return chain, nil
}

// Addr returns the dialable host:port of the proxy.
func (p *ProxyAddress) Addr() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(int(p.Port)))
}

// Address returns the proxy endpoint in wire form, as the destination
// field of the request sent to the previous hop.
func (p *ProxyAddress) Address() (*Address, error) {
	return FromHostPort(p.Host, p.Port)
}
