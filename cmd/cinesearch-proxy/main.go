package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/cinesearch/internal/logging"
	"github.com/five82/cinesearch/internal/proxy"
)

func main() {
	os.Exit(run())
}

func run() int {
	envFile := flag.String("env", ".env", "dotenv file to load before reading the environment (optional)")
	addr := flag.String("addr", "", "listen address, overrides PROXY_ADDR")
	flag.Parse()

	cfg, err := proxy.LoadConfig(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cinesearch-proxy: %v\n", err)
		return 1
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	logger, closeLog, err := logging.Init(logging.Options{Env: cfg.Env, Debug: cfg.Debug})
	if err != nil {
		fmt.Fprintf(os.Stderr, "cinesearch-proxy: %v\n", err)
		return 1
	}
	defer func() { _ = closeLog() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := proxy.Run(ctx, cfg, logger); err != nil {
		logger.Error("proxy stopped", "error", err)
		return 1
	}
	return 0
}
