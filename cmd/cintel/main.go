// Command cintel runs the reactive penguins and tips dashboards in the terminal.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rshade/cintel/internal/cli"
	"github.com/rshade/cintel/pkg/version"
)

func main() {
	os.Exit(run())
}

// run executes the root command and maps any error to exit status 1.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd(version.String()).ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
