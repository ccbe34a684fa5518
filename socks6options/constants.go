package socks6options

// Kind is the 2-octet option kind from draft-olteanu-intarea-socks-6-11.
type Kind uint16

const (
	KindStack Kind = iota + 1
	KindAuthMethodAdvertisement
	KindAuthMethodSelection
	KindAuthData
	KindSessionRequest
	KindSessionID
	KindSessionOK
	KindSessionInvalid
	KindSessionTeardown
	KindIdempotenceRequest
	KindIdempotenceSpend
	KindIdempotenceAccepted
	KindIdempotenceRejected
)

// Authentication methods
const (
	NoAuthMethod       = byte(0)
	UserPassAuthMethod = byte(2)
)

const headerLength = 4

// MaxOptionLength is the largest value of the option length field.
const MaxOptionLength = 65535

// MaxOptionsLength bounds the total options block of a single request.
const MaxOptionsLength = 65535
