package addresses

import "errors"

var ErrUnknownAddressType = errors.New("unknown address type")
var ErrSliceTooShort = errors.New("slice is too short")
var ErrEmptyHostname = errors.New("hostname is empty")
var ErrHostnameTooLong = errors.New("hostname is longer than 255 bytes")
var ErrUnsupportedScheme = errors.New("unsupported proxy scheme")
var ErrBadProxyAddress = errors.New("bad proxy address")
