package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dom/riot-collector/cmd/collector/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := commands.ExecuteContext(ctx)
	stop()
	os.Exit(code)
}
