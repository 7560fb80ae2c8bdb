// ABOUTME: Entry point for cassini-mcp, the Cassini observation MCP server
// ABOUTME: Cobra root command wiring serve, health, stats, load, tools and call

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
                        _       _
  ___ __ _ ___ ___(_)_ __ (_)      _ __ ___   ___ _ __
 / __/ _' / __/ __| | '_ \| |_____| '_ ' _ \ / __| '_ \
| (_| (_| \__ \__ \ | | | | |_____| | | | | | (__| |_) |
 \___\__,_|___/___/_|_| |_|_|     |_| |_| |_|\___| .__/
                                                  |_|
`

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	command := &cobra.Command{
		Use:           "cassini-mcp",
		Short:         "MCP server for querying Cassini mission observation plans",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	command.PersistentFlags().String("config", "", "path to config file (default $CASSINI_CONFIG or ~/.config/cassini/config.yaml)")

	command.AddCommand(
		serveCmd(),
		healthCmd(),
		statsCmd(),
		loadCmd(),
		toolsCmd(),
		callCmd(),
	)

	return command
}
