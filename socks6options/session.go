package socks6options

// SessionOption is any of the session-management options (kinds 5-9).
// Payloads are preserved opaquely and forwarded along chains.
type SessionOption struct {
	SessionKind Kind
	Data        []byte
}

func (o *SessionOption) OptionKind() Kind {
	return o.SessionKind
}

func (o *SessionOption) Payload() []byte {
	return o.Data
}

// IdempotenceOption is any of the idempotence token options
// (kinds 10-13), preserved opaquely.
type IdempotenceOption struct {
	TokenKind Kind
	Data      []byte
}

func (o *IdempotenceOption) OptionKind() Kind {
	return o.TokenKind
}

func (o *IdempotenceOption) Payload() []byte {
	return o.Data
}
