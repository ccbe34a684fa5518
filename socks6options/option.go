package socks6options

import "encoding/binary"

// Option is one typed option frame. Payload returns the option body
// without the 4-octet header; the codec adds zero padding up to a
// multiple of 4 on encode. Opaque options decoded from the wire keep
// any padding octets in their data, since padding cannot be told apart
// from payload; only the advertisement decoder strips trailing zeros.
type Option interface {
	OptionKind() Kind
	Payload() []byte
}

// Append encodes a single option frame onto dst.
func Append(dst []byte, opt Option) ([]byte, error) {
	payload := opt.Payload()
	length := headerLength + len(payload)
	padded := (length + 3) &^ 3
	if padded > MaxOptionLength {
		return nil, ErrOptionTooLong
	}

	kind := uint16(opt.OptionKind())
	dst = append(dst, byte(kind>>8), byte(kind), byte(padded>>8), byte(padded))
	dst = append(dst, payload...)
	for i := length; i < padded; i++ {
		dst = append(dst, 0)
	}
	return dst, nil
}

// EncodeAll encodes the options in input order.
func EncodeAll(opts []Option) ([]byte, error) {
	var res []byte
	var err error
	for _, opt := range opts {
		if res, err = Append(res, opt); err != nil {
			return nil, err
		}
	}
	if len(res) > MaxOptionsLength {
		return nil, ErrOptionsTooLong
	}
	return res, nil
}

// DecodeAll decodes an options block of exactly the declared length.
// Residual bytes too short to form an option header are reported as
// trailing garbage; a declared option length pointing past the block
// is malformed.
func DecodeAll(buf []byte) ([]Option, error) {
	var opts []Option
	for len(buf) > 0 {
		if len(buf) < headerLength {
			return nil, ErrTrailingOptionBytes
		}
		kind := Kind(binary.BigEndian.Uint16(buf))
		length := int(binary.BigEndian.Uint16(buf[2:]))
		if length < headerLength || length%4 != 0 {
			return nil, ErrMalformedOption
		}
		if length > len(buf) {
			return nil, ErrMalformedOption
		}
		opt, err := decodeOption(kind, buf[headerLength:length])
		if err != nil {
			return nil, err
		}
		opts = append(opts, opt)
		buf = buf[length:]
	}
	return opts, nil
}

func decodeOption(kind Kind, payload []byte) (Option, error) {
	switch kind {
	case KindStack:
		return decodeStackOption(payload)
	case KindAuthMethodAdvertisement:
		return decodeAuthMethodAdvertisement(payload)
	case KindAuthMethodSelection:
		return decodeAuthMethodSelection(payload)
	case KindAuthData:
		return &AuthDataOption{Data: dup(payload)}, nil
	case KindSessionRequest, KindSessionID, KindSessionOK, KindSessionInvalid, KindSessionTeardown:
		return &SessionOption{SessionKind: kind, Data: dup(payload)}, nil
	case KindIdempotenceRequest, KindIdempotenceSpend, KindIdempotenceAccepted, KindIdempotenceRejected:
		return &IdempotenceOption{TokenKind: kind, Data: dup(payload)}, nil
	}
	return &UnknownOption{Kind: kind, Data: dup(payload)}, nil
}

// Find returns the first option of the given kind.
func Find(opts []Option, kind Kind) Option {
	for _, opt := range opts {
		if opt.OptionKind() == kind {
			return opt
		}
	}
	return nil
}

// Forwardable filters the options a chain hop may propagate upstream:
// authentication options are renegotiated per hop, everything else is
// passed through verbatim.
func Forwardable(opts []Option) []Option {
	var res []Option
	for _, opt := range opts {
		switch opt.OptionKind() {
		case KindAuthMethodAdvertisement, KindAuthMethodSelection, KindAuthData:
		default:
			res = append(res, opt)
		}
	}
	return res
}

func dup(b []byte) []byte {
	res := make([]byte, len(b))
	copy(res, b)
	return res
}
