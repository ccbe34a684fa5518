package socks5protocol

import (
	"errors"
	"fmt"
)

var ErrVersionMismatch = errors.New("wrong socks version")
var ErrUnknownAddressType = errors.New("unknown address type")
var ErrUnknownCommand = errors.New("unknown command code received")
var ErrBadReservedByte = errors.New("reserved byte is not zero")
var ErrNoAuthMethodsOffered = errors.New("no auth methods offered")
var ErrNoAcceptableAuthMethod = errors.New("no acceptable auth method")

type ErrAuthFailure struct {
	err error
}

func (e *ErrAuthFailure) Error() string {
	return fmt.Sprintf("SOCKS5 authorization error: %s", e.err)
}

func (e *ErrAuthFailure) Unwrap() error {
	return e.err
}

type ErrCommandReadFailure struct {
	err error
}

func (e *ErrCommandReadFailure) Error() string {
	return fmt.Sprintf("SOCKS5 command packet read error: %s", e.err)
}

func (e *ErrCommandReadFailure) Unwrap() error {
	return e.err
}

// ErrProtocolReply is returned by the client side when the proxy
// answers with a non-success reply code.
type ErrProtocolReply struct {
	Code byte
}

func (e *ErrProtocolReply) Error() string {
	return fmt.Sprintf("SOCKS5 proxy replied with code %d", e.Code)
}
