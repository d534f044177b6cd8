package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/matheuskafuri/ticker/internal/preview"
	"github.com/spf13/cobra"
)

var flagPlain bool

var previewCmd = &cobra.Command{
	Use:   "preview [line...]",
	Short: "Render sign markup in the terminal",
	Long: `Render a sign line with terminal colors, approximating what the sign shows.

Without arguments every line of standard input is rendered, e.g.

  ticker stock index | ticker preview`,
	RunE: func(cmd *cobra.Command, args []string) error {
		render := preview.Render
		if flagPlain {
			render = preview.Plain
		}
		out := cmd.OutOrStdout()

		if len(args) > 0 {
			fmt.Fprintln(out, render(strings.Join(args, " ")))
			return nil
		}

		sc := bufio.NewScanner(cmd.InOrStdin())
		sc.Buffer(make([]byte, 64*1024), 1<<20)
		for sc.Scan() {
			fmt.Fprintln(out, render(sc.Text()))
		}
		if err := sc.Err(); err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		return nil
	},
}

func init() {
	previewCmd.Flags().BoolVar(&flagPlain, "plain", false, "strip markup instead of rendering it")
}
