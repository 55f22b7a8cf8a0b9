package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/arthur-debert/cfgtool/cmd/cfgtool"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := cfgtool.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cfgtool.ReportError(rootCmd, err)
		stop()
		os.Exit(1)
	}
}
