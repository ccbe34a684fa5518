package socks6options

import (
	"encoding/binary"
	"sort"
)

// maxMethodsPerOption keeps a single advertisement option within the
// 16-bit length field, already aligned (4 header + 2 initial data
// length + 65526 methods = 65532).
const maxMethodsPerOption = 65526

// AuthMethodAdvertisementOption is one physical advertisement option.
// Methods are encoded in ascending order, so an explicit no-auth
// (0x00) method leads the list and a trailing zero octet is always
// alignment padding; decoders strip trailing zeros. An empty method
// list offers no-auth only. The logical method set of a request is
// the union over all advertisement options in it.
type AuthMethodAdvertisementOption struct {
	InitialDataLength uint16
	Methods           []byte
}

func (o *AuthMethodAdvertisementOption) OptionKind() Kind {
	return KindAuthMethodAdvertisement
}

func (o *AuthMethodAdvertisementOption) Payload() []byte {
	res := make([]byte, 2, 2+len(o.Methods))
	binary.BigEndian.PutUint16(res, o.InitialDataLength)
	return append(res, sortedMethods(o.Methods)...)
}

// Offers reports whether the advertised set includes the method. An
// empty set stands for "no authentication required" alone.
func (o *AuthMethodAdvertisementOption) Offers(method byte) bool {
	if method == NoAuthMethod && len(o.Methods) == 0 {
		return true
	}
	for _, m := range o.Methods {
		if m == method {
			return true
		}
	}
	return false
}

func decodeAuthMethodAdvertisement(payload []byte) (Option, error) {
	if len(payload) < 2 {
		return nil, ErrMalformedOption
	}
	methods := payload[2:]
	for len(methods) > 0 && methods[len(methods)-1] == 0 {
		methods = methods[:len(methods)-1]
	}
	return &AuthMethodAdvertisementOption{
		InitialDataLength: binary.BigEndian.Uint16(payload),
		Methods:           dup(methods),
	}, nil
}

// AdvertiseMethods builds the advertisement options for a method list,
// chunking across several options when the list does not fit one
// 65535-byte frame. The initial data length rides on the first chunk
// only.
func AdvertiseMethods(initialDataLength uint16, methods []byte) []Option {
	methods = sortedMethods(methods)

	var res []Option
	for first := true; first || len(methods) > 0; first = false {
		chunk := methods
		if len(chunk) > maxMethodsPerOption {
			chunk = chunk[:maxMethodsPerOption]
		}
		methods = methods[len(chunk):]

		opt := &AuthMethodAdvertisementOption{Methods: chunk}
		if first {
			opt.InitialDataLength = initialDataLength
		}
		res = append(res, opt)
	}
	return res
}

// MergedAdvertisement unions every advertisement option in opts into
// one logical value: a sorted, deduplicated method set. The second
// return is false when no advertisement is present, which a server
// treats the same as offering no-auth only.
func MergedAdvertisement(opts []Option) (*AuthMethodAdvertisementOption, bool) {
	var res *AuthMethodAdvertisementOption
	for _, opt := range opts {
		adv, ok := opt.(*AuthMethodAdvertisementOption)
		if !ok {
			continue
		}
		if res == nil {
			res = &AuthMethodAdvertisementOption{
				InitialDataLength: adv.InitialDataLength,
				Methods:           adv.Methods,
			}
			continue
		}
		if res.InitialDataLength == 0 {
			res.InitialDataLength = adv.InitialDataLength
		}
		res.Methods = append(res.Methods, adv.Methods...)
	}
	if res == nil {
		return nil, false
	}
	res.Methods = dedupMethods(sortedMethods(res.Methods))
	return res, true
}

// sortedMethods returns an ascending copy, duplicates kept.
func sortedMethods(methods []byte) []byte {
	res := dup(methods)
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

func dedupMethods(sorted []byte) []byte {
	res := sorted[:0]
	var last byte
	for i, m := range sorted {
		if i == 0 || m != last {
			res = append(res, m)
		}
		last = m
	}
	return res
}

// AuthMethodSelectionOption names the method the server picked.
type AuthMethodSelectionOption struct {
	Method byte
}

func (o *AuthMethodSelectionOption) OptionKind() Kind {
	return KindAuthMethodSelection
}

func (o *AuthMethodSelectionOption) Payload() []byte {
	return []byte{o.Method}
}

func decodeAuthMethodSelection(payload []byte) (Option, error) {
	if len(payload) < 1 {
		return nil, ErrMalformedOption
	}
	return &AuthMethodSelectionOption{Method: payload[0]}, nil
}

// AuthDataOption carries method-specific bytes, preserved opaquely.
type AuthDataOption struct {
	Data []byte
}

func (o *AuthDataOption) OptionKind() Kind {
	return KindAuthData
}

func (o *AuthDataOption) Payload() []byte {
	return o.Data
}
