package socks5protocol

const socks5Version = byte(5)

// Auth constants
const (
	noAuthID = byte(0)

	noAcceptableID = byte(255)
)

// Command types
const (
	ConnectCommand   = uint8(1)
	BindCommand      = uint8(2)
	AssociateCommand = uint8(3)
)

// Auth responses
var (
	noAuth       = []byte{socks5Version, noAuthID}
	noAcceptable = []byte{socks5Version, noAcceptableID}
)

// Reply codes
const (
	SuccessReply byte = iota
	ServerFailure
	RuleFailure
	NetworkUnreachable
	HostUnreachable
	ConnectionRefused
	TTLExpired
	CommandNotSupported
	AddrTypeNotSupported
)
