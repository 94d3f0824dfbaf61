package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/you-humble/scribe/internal/app"
)

func main() {
	cfgPath := flag.String("config", defaultConfigPath(), "path to the yaml config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	a := app.New(*cfgPath)
	if err := a.Run(ctx); err != nil {
		panic(err)
	}
}

func defaultConfigPath() string {
	if p := os.Getenv("SCRIBE_CONFIG"); p != "" {
		return p
	}
	return "./configs/local.yaml"
}
