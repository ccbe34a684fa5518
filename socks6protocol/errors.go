package socks6protocol

import (
	"errors"
	"fmt"
)

var ErrVersionMismatch = errors.New("wrong socks version")
var ErrUnknownCommand = errors.New("unknown command code received")
var ErrUnknownAddressType = errors.New("unknown address type")
var ErrAuthenticationFailed = errors.New("offered auth methods do not include no-auth")
var ErrAuthenticationRequired = errors.New("proxy demands further authentication")
var ErrInitialDataTooLong = errors.New("initial data is longer than 16384 bytes")

type ErrCommandReadFailure struct {
	err error
}

func (e *ErrCommandReadFailure) Error() string {
	return fmt.Sprintf("SOCKS6 request read error: %s", e.err)
}

func (e *ErrCommandReadFailure) Unwrap() error {
	return e.err
}

// ErrProtocolReply is returned by the client side when the proxy
// answers with a non-success operation reply code.
type ErrProtocolReply struct {
	Code byte
}

func (e *ErrProtocolReply) Error() string {
	return fmt.Sprintf("SOCKS6 proxy replied with code %d", e.Code)
}
