package main

import (
	"github.com/anmolbhatia05/socksx/command"
	"github.com/go-zoox/cli"
)

func main() {
	app := cli.NewMultipleProgram(&cli.MultipleProgramConfig{
		Name:    "socksx",
		Usage:   "SOCKS5/SOCKS6 proxy toolkit",
		Version: Version,
	})

	command.RegisterServer(app)
	command.RegisterClient(app)

	app.Run()
}
