package server

import (
	"context"
	"fmt"
	"net"

	"github.com/anmolbhatia05/socksx/corestructs"
	"github.com/anmolbhatia05/socksx/mux"
	"go.uber.org/zap"
)

// ErrBindFailure wraps a failure to bind the listen address.
type ErrBindFailure struct {
	err error
}

func (e *ErrBindFailure) Error() string {
	return fmt.Sprintf("bind failed: %s", e.err)
}

func (e *ErrBindFailure) Unwrap() error {
	return e.err
}

// Server accepts TCP connections and serves the configured SOCKS
// protocol on them. Configuration is immutable after New.
type Server struct {
	config  *corestructs.Config
	log     *zap.Logger
	dialer  *net.Dialer
	handler mux.Handler
}

func New(config *corestructs.Config, log *zap.Logger) *Server {
	s := &Server{
		config: config,
		log:    log,
		dialer: &net.Dialer{Timeout: config.Timeouts.Connect},
	}
	s.handler = mux.Handler{
		ExitHandler: s.exit,
		Timeouts:    config.Timeouts,
	}
	switch config.Protocol {
	case corestructs.ProtocolSOCKS5:
		s.handler.SOCKS5Handler = s.handleSOCKS5
	case corestructs.ProtocolSOCKS6:
		s.handler.SOCKS6Handler = s.handleSOCKS6
	}
	return s
}

// ListenAndServe binds the configured address and serves until the
// context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.BindAddr())
	if err != nil {
		return &ErrBindFailure{err: err}
	}

	s.log.Info("listening",
		zap.String("addr", s.config.BindAddr()),
		zap.String("protocol", s.config.Protocol),
		zap.Int("chain_length", len(s.config.Chain)),
	)

	return s.Serve(ctx, ln)
}

// Serve runs the accept loop on an already bound listener. Each
// accepted connection is handled in its own goroutine; cancelling the
// context closes the listener and stops the loop.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			return err
		}

		userIP := hostOnly(conn.RemoteAddr())
		proxyIP := hostOnly(conn.LocalAddr())
		go s.handler.Handle(ctx, conn, s.dialer, proxyIP, userIP)
	}
}

func (s *Server) exit(conn net.Conn) {
	conn.Close()
}

func hostOnly(addr net.Addr) string {
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
