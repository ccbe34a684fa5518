package socks6options

import "errors"

var ErrMalformedOption = errors.New("malformed option: bad length or alignment")
var ErrTrailingOptionBytes = errors.New("trailing bytes after declared options")
var ErrOptionTooLong = errors.New("option does not fit the length field")
var ErrOptionsTooLong = errors.New("options block exceeds 65535 bytes")
