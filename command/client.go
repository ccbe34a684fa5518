package command

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"

	"github.com/anmolbhatia05/socksx/addresses"
	"github.com/anmolbhatia05/socksx/corestructs"
	"github.com/anmolbhatia05/socksx/socks5protocol"
	"github.com/anmolbhatia05/socksx/socks6protocol"
	"github.com/go-zoox/cli"
	"go.uber.org/zap"
)

func RegisterClient(app *cli.MultipleProgram) {
	app.Register("client", &cli.Command{
		Name:  "client",
		Usage: "open a tunnel through a SOCKS proxy and splice it to stdin/stdout",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "host",
				Usage:    "proxy host",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "proxy port",
				Value: 1080,
			},
			&cli.StringFlag{
				Name:  "protocol",
				Usage: "socks5 or socks6",
				Value: corestructs.ProtocolSOCKS6,
			},
			&cli.StringFlag{
				Name:     "dest-host",
				Usage:    "destination host",
				Required: true,
			},
			&cli.IntFlag{
				Name:     "dest-port",
				Usage:    "destination port",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "src-port",
				Usage: "local source port for the proxy connection",
			},
		},
		Action: func(ctx *cli.Context) error {
			destPort := ctx.Int("dest-port")
			if destPort < 1 || destPort > 65535 {
				fmt.Fprintln(os.Stderr, corestructs.ErrBadPort)
				os.Exit(1)
			}
			dest, err := addresses.FromHostPort(ctx.String("dest-host"), uint16(destPort))
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}

			proxyAddr := net.JoinHostPort(ctx.String("host"), strconv.Itoa(ctx.Int("port")))
			timeouts := corestructs.DefaultTimeouts()
			dialer := &net.Dialer{Timeout: timeouts.Connect}
			if srcPort := ctx.Int("src-port"); srcPort > 0 {
				dialer.LocalAddr = &net.TCPAddr{Port: srcPort}
			}

			logger := newLogger()
			defer logger.Sync()

			var conn net.Conn
			var binding *addresses.Address
			switch ctx.String("protocol") {
			case corestructs.ProtocolSOCKS5:
				client := socks5protocol.NewSocks5Client(proxyAddr)
				client.Dialer = dialer
				conn, binding, err = client.Connect(context.Background(), dest)
			case corestructs.ProtocolSOCKS6:
				client := socks6protocol.NewSocks6Client(proxyAddr)
				client.Dialer = dialer
				conn, binding, err = client.Connect(context.Background(), dest, nil, nil)
			default:
				fmt.Fprintln(os.Stderr, corestructs.ErrBadProtocol)
				os.Exit(1)
			}
			if err != nil {
				return err
			}
			defer conn.Close()

			logger.Info("tunnel established",
				zap.String("proxy", proxyAddr),
				zap.String("destination", dest.StrAddrWithPort),
				zap.String("binding", binding.StrAddrWithPort),
			)

			go func() {
				io.Copy(conn, os.Stdin)
				if cw, ok := conn.(interface{ CloseWrite() error }); ok {
					cw.CloseWrite()
				}
			}()
			_, err = io.Copy(os.Stdout, conn)
			return err
		},
	})
}
