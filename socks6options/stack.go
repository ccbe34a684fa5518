package socks6options

// Stack option legs
const (
	StackLegClientProxy = byte(1)
	StackLegProxyRemote = byte(2)
	StackLegBoth        = byte(3)
)

// StackOption carries a TCP stack hint: a leg/level octet, an option
// code and a code-specific value, preserved opaquely.
type StackOption struct {
	Leg   byte // top two bits of the first payload octet
	Level byte // bottom six bits
	Code  byte
	Value []byte
}

func (o *StackOption) OptionKind() Kind {
	return KindStack
}

func (o *StackOption) Payload() []byte {
	res := make([]byte, 0, 2+len(o.Value))
	res = append(res, o.Leg<<6|o.Level&0x3F, o.Code)
	return append(res, o.Value...)
}

func decodeStackOption(payload []byte) (Option, error) {
	if len(payload) < 2 {
		return nil, ErrMalformedOption
	}
	return &StackOption{
		Leg:   payload[0] >> 6,
		Level: payload[0] & 0x3F,
		Code:  payload[1],
		Value: dup(payload[2:]),
	}, nil
}
