// Command estate browses a property catalog from the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/roach88/estate/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "estate:", err)
		stop()
		os.Exit(cli.GetExitCode(err))
	}
}
