// =============================================================================
// internal/cli/commands.go - CLI command definitions
// =============================================================================
package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bryanCE/dnspector/internal/config"
	"github.com/bryanCE/dnspector/internal/dns"
	"github.com/bryanCE/dnspector/internal/monitor"
	"github.com/bryanCE/dnspector/internal/output"
	"github.com/bryanCE/dnspector/internal/store"
)

// commonFlags are shared by every subcommand.
type commonFlags struct {
	configFile string
	dbPath     string
	format     string
	verbose    bool
}

func (cf *commonFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&cf.configFile, "config", "c", "", "Config file (TOML)")
	cmd.Flags().StringVar(&cf.dbPath, "db", "", "Path to the SQLite database (overrides config)")
	cmd.Flags().StringVarP(&cf.format, "format", "f", "table", "Output format (table, json, csv)")
	cmd.Flags().BoolVar(&cf.verbose, "verbose", false, "Enable debug logging")
}

// load resolves flags into a config, applying overrides.
func (cf *commonFlags) load() (config.Config, error) {
	cfg := config.Default()
	if cf.configFile != "" {
		loaded, err := config.Load(cf.configFile)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if cf.dbPath != "" {
		cfg.DBPath = cf.dbPath
	}
	if cf.verbose {
		dns.Log.SetLevel(logrus.DebugLevel)
	}
	return cfg, nil
}

func (cf *commonFlags) formatter() *output.Formatter {
	switch strings.ToLower(cf.format) {
	case "json":
		return output.NewFormatter(output.FormatJSON)
	case "csv":
		return output.NewFormatter(output.FormatCSV)
	default:
		return output.NewFormatter(output.FormatTable)
	}
}

func newOrchestrator(cfg config.Config) (*dns.Orchestrator, error) {
	registry, err := dns.NewRegistry(cfg.Targets())
	if err != nil {
		return nil, err
	}
	return dns.NewOrchestrator(registry, cfg.Timeout.Duration), nil
}

// NewQueryCommand creates the query subcommand
func NewQueryCommand() *cobra.Command {
	var (
		flags     commonFlags
		resolvers string
		record    bool
	)

	cmd := &cobra.Command{
		Use:   "query [domain]",
		Short: "Resolve a domain across the resolver registry",
		Long: `Resolve a domain once through every configured UDP resolver and the
host stub resolver, or through a named subset, and report the address, TTL,
status and latency per resolver.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			domain := args[0]
			if err := dns.ValidateDomain(domain); err != nil {
				return fmt.Errorf("invalid domain %q: %w", domain, err)
			}

			cfg, err := flags.load()
			if err != nil {
				return err
			}
			orch, err := newOrchestrator(cfg)
			if err != nil {
				return err
			}

			var names []string
			if resolvers != "" {
				for _, name := range strings.Split(resolvers, ",") {
					names = append(names, strings.TrimSpace(name))
				}
			}

			results := orch.ResolveAll(cmd.Context(), domain, names...)

			if record {
				st, err := store.Open(cfg.DBPath)
				if err != nil {
					return err
				}
				defer st.Close()
				tracker := monitor.NewTracker(st)
				for _, result := range results {
					if _, err := tracker.Observe(cmd.Context(), result); err != nil {
						fmt.Fprintf(os.Stderr, "Warning: failed to record result: %v\n", err)
					}
				}
			}

			return flags.formatter().FormatResults(domain, results, os.Stdout)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&resolvers, "resolvers", "r", "", "Comma-separated resolver names to query (default: all UDP + system)")
	cmd.Flags().BoolVar(&record, "record", false, "Record results and raise change alerts")

	return cmd
}

// NewCompareCommand creates the compare subcommand
func NewCompareCommand() *cobra.Command {
	var flags commonFlags

	cmd := &cobra.Command{
		Use:   "compare [domain]",
		Short: "Benchmark raw UDP resolvers against DoH providers",
		Long: `Resolve a domain through every UDP resolver and every DoH provider in
the registry at the same time and compare the answers and latencies.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			domain := args[0]
			if err := dns.ValidateDomain(domain); err != nil {
				return fmt.Errorf("invalid domain %q: %w", domain, err)
			}

			cfg, err := flags.load()
			if err != nil {
				return err
			}
			orch, err := newOrchestrator(cfg)
			if err != nil {
				return err
			}

			results := orch.CompareTransports(cmd.Context(), domain)
			return flags.formatter().FormatResults(domain, results, os.Stdout)
		},
	}

	flags.register(cmd)
	return cmd
}

// NewMonitorCommand creates the monitor subcommand
func NewMonitorCommand() *cobra.Command {
	var (
		flags       commonFlags
		domainsFile string
		interval    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "monitor [domain]...",
		Short: "Monitor domains for address changes",
		Long: `Repeatedly resolve a set of domains on a fixed interval, record every
result, and raise an alert whenever a resolver starts returning a different
address for a domain. Runs until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}

			domains := append([]string(nil), cfg.Domains...)
			domains = append(domains, args...)
			if domainsFile != "" {
				fromFile, err := monitor.ReadDomainsFromFile(domainsFile)
				if err != nil {
					return err
				}
				domains = append(domains, fromFile...)
			}
			if len(domains) == 0 {
				return fmt.Errorf("no domains to monitor; pass domains, --file or configure them")
			}
			for _, domain := range domains {
				if err := dns.ValidateDomain(domain); err != nil {
					return fmt.Errorf("invalid domain %q: %w", domain, err)
				}
			}

			if interval > 0 {
				cfg.Interval.Duration = interval
			}

			orch, err := newOrchestrator(cfg)
			if err != nil {
				return err
			}
			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			fmt.Printf("📡 Monitoring %d domain(s) every %s (Ctrl-C to stop)\n",
				len(domains), cfg.Interval.Duration)

			monitor.New(orch, st).Run(cmd.Context(), domains, cfg.Interval.Duration)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&domainsFile, "file", "", "File with domains to monitor (one per line)")
	cmd.Flags().DurationVarP(&interval, "interval", "i", 0, "Sweep interval (overrides config)")

	return cmd
}

// NewHistoryCommand creates the history subcommand
func NewHistoryCommand() *cobra.Command {
	var (
		flags    commonFlags
		resolver string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "history [domain]",
		Short: "Show recorded resolutions for a domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			results, err := st.History(cmd.Context(), args[0], resolver, limit)
			if err != nil {
				return err
			}
			return flags.formatter().FormatHistory(results, os.Stdout)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&resolver, "resolver", "r", "", "Limit to a single resolver")
	cmd.Flags().IntVarP(&limit, "limit", "n", 100, "Maximum number of rows")

	return cmd
}

// NewAlertsCommand creates the alerts subcommand
func NewAlertsCommand() *cobra.Command {
	var (
		flags commonFlags
		limit int
	)

	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Show recent address-change alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			events, err := st.RecentAlerts(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return flags.formatter().FormatAlerts(events, os.Stdout)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum number of alerts")

	return cmd
}
