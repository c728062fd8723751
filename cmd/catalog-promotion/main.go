package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(os.Stdout).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
