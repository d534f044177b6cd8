package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matheuskafuri/ticker/internal/apperr"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig   string
	flagStaleOK  bool
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "ticker",
	Short: "Print data source lines for a scrolling LED sign",
	Long: `ticker fetches one data source per invocation (a feed, a forecast, stock quotes,
a web page, a quotes file) and prints a single line annotated with sign markup.

Fetched data is cached per source; stdout carries only the sign line.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "path to config file")
	pf.BoolVar(&flagStaleOK, "stale-ok", false, "print an expired cache entry when a refresh fails")
	pf.StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error, off")

	rootCmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &apperr.ArgumentError{Msg: err.Error()}
	})

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(rssCmd)
	rootCmd.AddCommand(weatherCmd)
	rootCmd.AddCommand(stockCmd)
	rootCmd.AddCommand(datebookCmd)
	rootCmd.AddCommand(countdownCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(fortuneCmd)
	rootCmd.AddCommand(repeatCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(previewCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ticker %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

// Execute runs the command line and exits with the status matching the
// error, if any.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	c, err := rootCmd.ExecuteContextC(ctx)
	stop()
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "ticker: %v\n", err)
	if apperr.IsArgument(err) {
		fmt.Fprint(os.Stderr, c.UsageString())
	}
	os.Exit(apperr.ExitCode(err))
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

// exactArgs is cobra.ExactArgs reporting an ArgumentError.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return apperr.Argumentf("accepts %d arg(s), received %d", n, len(args))
		}
		return nil
	}
}

// rangeArgs accepts lo to hi args; a negative hi means no upper bound.
func rangeArgs(lo, hi int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		switch {
		case len(args) < lo && hi < 0:
			return apperr.Argumentf("requires at least %d arg(s), received %d", lo, len(args))
		case len(args) < lo || (hi >= 0 && len(args) > hi):
			return apperr.Argumentf("accepts between %d and %d arg(s), received %d", lo, hi, len(args))
		}
		return nil
	}
}
