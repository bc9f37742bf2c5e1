// Package main provides the CLI entrypoint for nbpstat.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/azielinski/nbpstat/internal/analyze"
	"github.com/azielinski/nbpstat/internal/command"
	"github.com/azielinski/nbpstat/internal/config"
	"github.com/azielinski/nbpstat/internal/distribution"
	"github.com/azielinski/nbpstat/internal/model"
	"github.com/azielinski/nbpstat/internal/nbp"
	"github.com/azielinski/nbpstat/internal/period"
	"github.com/azielinski/nbpstat/internal/store"
	"github.com/azielinski/nbpstat/internal/tui"
)

const (
	defaultBaseURL      = "https://api.nbp.pl/api"
	defaultTable        = "A"
	defaultTimeoutSecs  = 10
	defaultMaxSpanDays  = 93
	defaultMinDate      = "2002-01-02"
	defaultHomeCurrency = "PLN"
)

var (
	flagBaseURL      string
	flagTable        string
	flagTimeoutSecs  int
	flagMaxSpanDays  int
	flagMinDate      string
	flagHomeCurrency string
	flagDBPath       string
	flagNoHistory    bool

	queryPeriod string
	queryStart  string
	historyLast int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "nbpstat",
		Short:         "Exchange rate statistics over the NBP archive",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runReplCmd,
	}

	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", defaultBaseURL, "archive API base URL")
	rootCmd.PersistentFlags().StringVar(&flagTable, "table", defaultTable, "exchange rate table")
	rootCmd.PersistentFlags().IntVar(&flagTimeoutSecs, "timeout-seconds", defaultTimeoutSecs, "HTTP timeout in seconds")
	rootCmd.PersistentFlags().IntVar(&flagMaxSpanDays, "max-span-days", defaultMaxSpanDays, "maximum days per archive request")
	rootCmd.PersistentFlags().StringVar(&flagMinDate, "min-date", defaultMinDate, "earliest supported archive date")
	rootCmd.PersistentFlags().StringVar(&flagHomeCurrency, "home-currency", defaultHomeCurrency, "home currency code")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db-path", "", "request history database path")
	rootCmd.PersistentFlags().BoolVar(&flagNoHistory, "no-history", false, "disable request history")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newDistributionCmd())
	rootCmd.AddCommand(newRateCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runReplCmd(cmd *cobra.Command, _ []string) error {
	executor, cleanup, err := buildExecutor(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	program := tea.NewProgram(tui.NewModel(executor), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <currency>",
		Short: "Statistics for one currency",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyzeCmd,
	}
	addQueryFlags(cmd)
	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	executor, cleanup, err := buildExecutor(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	out, err := executor.Analyze(context.Background(), args[0], queryPeriod, queryStart)
	if err != nil {
		return err
	}
	return printOut(cmd, out)
}

func newDistributionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "distribution <currency> <currency>",
		Short: "Change distribution for a currency pair",
		Args:  cobra.ExactArgs(2),
		RunE:  runDistributionCmd,
	}
	addQueryFlags(cmd)
	return cmd
}

func runDistributionCmd(cmd *cobra.Command, args []string) error {
	executor, cleanup, err := buildExecutor(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	out, err := executor.Distribute(context.Background(), args[0], args[1], queryPeriod, queryStart)
	if err != nil {
		return err
	}
	return printOut(cmd, out)
}

func newRateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rate <currency>",
		Short: "Latest published rate",
		Args:  cobra.ExactArgs(1),
		RunE:  runRateCmd,
	}
}

func runRateCmd(cmd *cobra.Command, args []string) error {
	executor, cleanup, err := buildExecutor(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	out, err := executor.Rate(context.Background(), args[0])
	if err != nil {
		return err
	}
	return printOut(cmd, out)
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent requests",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N requests")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	executor, cleanup, err := buildExecutor(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	out, err := executor.RecentHistory(context.Background(), historyLast)
	if err != nil {
		return err
	}
	return printOut(cmd, out)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&queryPeriod, "period", "", "analysis period ("+strings.Join(period.Tokens(), ", ")+")")
	cmd.Flags().StringVar(&queryStart, "start", "", "period end date (YYYY-MM-DD, default today)")
	if err := cmd.MarkFlagRequired("period"); err != nil {
		panic(err)
	}
}

func buildExecutor(cmd *cobra.Command) (*command.Executor, func(), error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "base-url", &flagBaseURL, fileCfg.NBP.BaseURL)
	applyStringConfig(cmd, "table", &flagTable, fileCfg.NBP.Table)
	applyIntConfig(cmd, "timeout-seconds", &flagTimeoutSecs, fileCfg.NBP.TimeoutSeconds)
	applyIntConfig(cmd, "max-span-days", &flagMaxSpanDays, fileCfg.NBP.MaxSpanDays)
	applyStringConfig(cmd, "min-date", &flagMinDate, fileCfg.NBP.MinDate)
	applyStringConfig(cmd, "home-currency", &flagHomeCurrency, fileCfg.NBP.HomeCurrency)
	applyStringConfig(cmd, "db-path", &flagDBPath, fileCfg.History.DBPath)
	applyBoolConfig(cmd, "no-history", &flagNoHistory, fileCfg.History.Disabled)

	settings, err := buildSettings()
	if err != nil {
		return nil, nil, err
	}

	executor := &command.Executor{
		Settings: settings,
		Now:      time.Now,
	}
	source := nbp.NewClient(settings)
	executor.Source = source
	executor.Analysis = analyze.NewService(source, settings)
	executor.Distribution = distribution.NewService(source, settings)

	cleanup := func() {}
	if !flagNoHistory {
		dbPath := flagDBPath
		if dbPath == "" {
			dbPath = config.DefaultDBPath()
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open history db: %w", err)
		}
		executor.History = st
		cleanup = func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close history db: %v\n", cerr)
			}
		}
	}
	return executor, cleanup, nil
}

func buildSettings() (model.Settings, error) {
	minDate, err := time.ParseInLocation("2006-01-02", flagMinDate, time.UTC)
	if err != nil {
		return model.Settings{}, fmt.Errorf("invalid --min-date value: %w", err)
	}
	if flagTimeoutSecs <= 0 {
		return model.Settings{}, fmt.Errorf("--timeout-seconds must be > 0")
	}
	if flagMaxSpanDays <= 0 {
		return model.Settings{}, fmt.Errorf("--max-span-days must be > 0")
	}
	if strings.TrimSpace(flagHomeCurrency) == "" {
		return model.Settings{}, fmt.Errorf("--home-currency must not be empty")
	}
	return model.Settings{
		BaseURL:        strings.TrimRight(flagBaseURL, "/"),
		Table:          flagTable,
		TimeoutSeconds: flagTimeoutSecs,
		MaxSpanDays:    flagMaxSpanDays,
		MinDate:        minDate,
		HomeCurrency:   strings.ToUpper(flagHomeCurrency),
	}, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# nbpstat configuration
# Uncomment a value to enable it. CLI flags override config values.

[nbp]
# base-url = %q
# table = %q               # Exchange rate table
# timeout-seconds = %d     # HTTP timeout
# max-span-days = %d       # Maximum days per archive request
# min-date = %q            # Earliest supported archive date
# home-currency = %q       # Currency rates are quoted against

[history]
# db-path = ""             # Request history database path
# disabled = false         # Disable request history
`,
		defaultBaseURL,
		defaultTable,
		defaultTimeoutSecs,
		defaultMaxSpanDays,
		defaultMinDate,
		defaultHomeCurrency,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func printOut(cmd *cobra.Command, out string) error {
	if _, err := fmt.Fprint(cmd.OutOrStdout(), out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
