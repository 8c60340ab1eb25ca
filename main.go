/*
Prisma viewer entry point: loads the configuration, plugs the demo
content into the engine and runs it until the window closes or the
process is signalled.
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/prisma/engine"
	"github.com/spaghettifunk/prisma/engine/config"
	"github.com/spaghettifunk/prisma/testbed"
)

func main() {
	configPath := flag.String("config", "prisma.toml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	app, err := engine.New(cfg, testbed.NewDemoGame(cfg.AssetsDir))
	if err != nil {
		panic(err)
	}

	if err := app.Initialize(); err != nil {
		panic(err)
	}
	defer app.Shutdown()

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	go func() {
		<-sigCh
		_ = app.Shutdown()
	}()

	if err := app.Run(); err != nil {
		panic(err)
	}
}
