package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/example/plant-shop/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, cli.ErrorText(err))
		stop()
		os.Exit(cli.ExitCode(err))
	}
}
