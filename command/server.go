package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anmolbhatia05/socksx/corestructs"
	"github.com/anmolbhatia05/socksx/server"
	"github.com/go-zoox/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func RegisterServer(app *cli.MultipleProgram) {
	app.Register("server", &cli.Command{
		Name:  "server",
		Usage: "run a SOCKS proxy server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "bind address",
				Value: "0.0.0.0",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "bind port",
				Value: 1080,
			},
			&cli.StringFlag{
				Name:  "protocol",
				Usage: "protocol handled on ingress: socks5 or socks6",
				Value: corestructs.ProtocolSOCKS6,
			},
			&cli.StringSliceFlag{
				Name:  "chain",
				Usage: "upstream socks6://host[:port] proxy, nearest first (repeatable, socks6 only)",
			},
			&cli.IntFlag{
				Name:  "timeout",
				Usage: "handshake timeout in seconds",
				Value: 30,
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := corestructs.NewConfig(
				ctx.String("host"),
				ctx.Int("port"),
				ctx.String("protocol"),
				ctx.StringSlice("chain"),
			)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			if secs := ctx.Int("timeout"); secs > 0 {
				cfg.Timeouts.Handshake = time.Duration(secs) * time.Second
			}

			logger := newLogger()
			defer logger.Sync()

			runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(cfg, logger)
			if err := srv.ListenAndServe(runCtx); err != nil {
				var bindErr *server.ErrBindFailure
				if errors.As(err, &bindErr) {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(2)
				}
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
			return nil
		},
	})
}

// newLogger builds the process logger; LOG_LEVEL overrides the level.
func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		if parsed, err := zapcore.ParseLevel(lvl); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(parsed)
		}
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
