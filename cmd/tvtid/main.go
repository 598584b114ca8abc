package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kirkegaard/tvtid-go/internal/adapters/primary/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCLI()
	root.Version = fmt.Sprintf("%s (%s %s)", version, commit, date)

	cobra.CheckErr(root.ExecuteContext(ctx))
}
