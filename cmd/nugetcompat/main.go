package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/cli"
	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/commands"
)

func main() {
	cli.SetupVersion()

	cli.AddCommand(commands.NewVersionCommand(cli.Console, cli.Config))
	cli.AddCommand(commands.NewParseCommand(cli.Console, cli.Config))
	cli.AddCommand(commands.NewShortCommand(cli.Console, cli.Config))
	cli.AddCommand(commands.NewCheckCommand(cli.Console, cli.Config))
	cli.AddCommand(commands.NewRangeCommand(cli.Console, cli.Config))
	cli.AddCommand(commands.NewFolderCommand(cli.Console, cli.Config))
	cli.AddCommand(commands.NewScanCommand(cli.Console, cli.Config))
	cli.AddCommand(commands.NewProfilesCommand(cli.Console, cli.Config))
	cli.AddCommand(commands.NewServeCommand(cli.Console, cli.Config))

	// serve shuts down gracefully on the first signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.ExecuteContext(ctx); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			os.Exit(130) // 128 + SIGINT
		}
		// SilenceErrors is set on the root command
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
