// Package main is the entry point for the klaboard CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/idilsaglam/klaboard/internal/cli"
)

func main() {
	// Cancel in-flight requests on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}
