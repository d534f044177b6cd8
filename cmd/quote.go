package cmd

import (
	"github.com/matheuskafuri/ticker/internal/quote"
	"github.com/spf13/cobra"
)

var quoteCmd = &cobra.Command{
	Use:   "quote [file]",
	Short: "Print a random line of a quotes file",
	Long: `Print a random non-blank line of a quotes file behind the configured prefix.

The file defaults to quote.file, or quotes.txt in the ticker config directory.`,
	Args: rangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd, false)
		if err != nil {
			return err
		}

		path := e.cfg.QuotePath()
		if len(args) == 1 {
			path = args[0]
		}
		lines, err := quote.Load(path)
		if err != nil {
			return err
		}
		e.println(quote.Format(e.cfg.Quote.Prefix, quote.Pick(lines, e.rng), e.cfg.Palette.Pick(e.rng)))
		return nil
	},
}

var fortuneCmd = &cobra.Command{
	Use:   "fortune",
	Short: "Print a fortune on one line",
	Long:  `Run the fortune program restricted to fortune.sets and print its output on one line.`,
	Args:  exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd, false)
		if err != nil {
			return err
		}

		text, err := quote.Fortune(cmd.Context(), quote.ExecOutput, e.cfg.Fortune.Command, e.cfg.Fortune.Sets)
		if err != nil {
			return err
		}
		e.println(quote.FormatFortune(text, e.cfg.Palette.PickBody(e.rng)))
		return nil
	},
}
