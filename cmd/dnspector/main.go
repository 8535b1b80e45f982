package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bryanCE/dnspector/internal/cli"

	"github.com/spf13/cobra"
)

var version = "dev" // Will be set by ldflags during build

func main() {
	rootCmd := &cobra.Command{
		Use:   "dnspector",
		Short: "DNSpector - Multi-resolver DNS inspection and monitoring tool",
		Long: `Resolve domains through raw UDP queries, the host stub resolver and
DNS-over-HTTPS providers, compare the answers, and monitor domains over time
for address changes.`,
		Version: version,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.NewQueryCommand())
	rootCmd.AddCommand(cli.NewCompareCommand())
	rootCmd.AddCommand(cli.NewMonitorCommand())
	rootCmd.AddCommand(cli.NewHistoryCommand())
	rootCmd.AddCommand(cli.NewAlertsCommand())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
