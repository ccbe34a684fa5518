package socks6protocol

import (
	"sync"

	"github.com/anmolbhatia05/socksx/corestructs"
	"go.uber.org/zap/zapcore"
)

var socks6RequestPool = sync.Pool{}

func GetSocks6Request() *Socks6Request {
	req := socks6RequestPool.Get()
	if req != nil {
		return req.(*Socks6Request)
	}

	return &Socks6Request{
		Fields: &corestructs.Fields{
			LogFields: make([]zapcore.Field, 0, 9),
		},
	}
}

func PutSocks6Request(req *Socks6Request) {
	req.Fields.Clean()
	req.handshakeConn.conn = nil
	req.DestAddr = nil
	req.Options = nil
	req.InitialDataLength = 0
	req.advertisement = nil
	req.advertised = false

	socks6RequestPool.Put(req)
}
