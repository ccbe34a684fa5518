package chain

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/anmolbhatia05/socksx/addresses"
	"github.com/anmolbhatia05/socksx/corestructs"
	"github.com/anmolbhatia05/socksx/socks6options"
	"github.com/anmolbhatia05/socksx/socks6protocol"
	"go.uber.org/zap"
)

var ErrEmptyChain = errors.New("chain has no links")

// ErrChainFailure reports which hop broke the chain.
type ErrChainFailure struct {
	Hop int
	err error
}

func (e *ErrChainFailure) Error() string {
	return fmt.Sprintf("chain hop %d failed: %s", e.Hop, e.err)
}

func (e *ErrChainFailure) Unwrap() error {
	return e.err
}

// Walker tunnels connections through an ordered list of upstream
// SOCKS6 proxies. Hops are walked iteratively on a single stream: the
// request to each hop names the next hop as its destination, the last
// one names the final target.
type Walker struct {
	Links    addresses.Chain
	Timeouts *corestructs.Timeouts
	Log      *zap.Logger

	// DialContext dials the first link. Defaults to a net.Dialer
	// bound by the connect timeout.
	DialContext func(ctx context.Context, network, addr string) (net.Conn, error)
}

// Walk opens the tunnel to dest. The given options are forwarded
// verbatim to every hop, minus authentication options: each hop
// negotiates no-auth on its own. On success the returned stream is
// tunnelled end to end; the address is the last hop's binding and the
// options are its reply options. On failure the stream is torn down
// before the error, which carries the failing hop's reply code when
// one was received.
func (w *Walker) Walk(ctx context.Context, dest *addresses.Address, opts []socks6options.Option) (net.Conn, *addresses.Address, []socks6options.Option, error) {
	if len(w.Links) == 0 {
		return nil, nil, nil, ErrEmptyChain
	}

	forward := socks6options.Forwardable(opts)

	dial := w.DialContext
	if dial == nil {
		dial = (&net.Dialer{Timeout: w.Timeouts.Connect}).DialContext
	}

	conn, err := dial(ctx, "tcp", w.Links[0].Addr())
	if err != nil {
		return nil, nil, nil, &ErrChainFailure{Hop: 0, err: err}
	}

	var binding *addresses.Address
	var replyOpts []socks6options.Option
	for i, link := range w.Links {
		next := dest
		if i < len(w.Links)-1 {
			if next, err = w.Links[i+1].Address(); err != nil {
				conn.Close()
				return nil, nil, nil, &ErrChainFailure{Hop: i, err: err}
			}
		}

		client := &socks6protocol.Socks6Client{
			ProxyAddr: link.Addr(),
			Timeouts:  w.Timeouts,
		}
		if binding, replyOpts, err = client.Handshake(conn, next, nil, forward); err != nil {
			conn.Close()
			return nil, nil, nil, &ErrChainFailure{Hop: i, err: err}
		}

		if w.Log != nil {
			w.Log.Debug("chain hop established",
				zap.Int("hop", i),
				zap.String("proxy", link.Addr()),
				zap.String("destination", next.StrAddrWithPort),
			)
		}
	}

	return conn, binding, replyOpts, nil
}
