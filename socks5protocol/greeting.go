package socks5protocol

// selectMethod runs the greeting exchange. The version byte was
// consumed by the mux; the read starts at nmethods. Only "no
// authentication" is acceptable on the data path.
func selectMethod(req *Socks5Request) error {
	var err error

	nmethods := []byte{0}
	if _, err = req.handshakeConn.Read(nmethods); err != nil {
		return err
	}

	if nmethods[0] == 0 {
		return ErrNoAuthMethodsOffered
	}

	methods := make([]byte, nmethods[0])
	if _, err = req.handshakeConn.Read(methods); err != nil {
		return err
	}

	for _, method := range methods {
		if method == noAuthID {
			_, err = req.handshakeConn.Write(noAuth)
			return err
		}
	}

	if _, err = req.handshakeConn.Write(noAcceptable); err != nil {
		return err
	}

	return ErrNoAcceptableAuthMethod
}
