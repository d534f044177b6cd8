package cmd

import (
	"strconv"

	"github.com/matheuskafuri/ticker/internal/apperr"
	"github.com/matheuskafuri/ticker/internal/repeat"
	"github.com/spf13/cobra"
)

var flagSchedule string

var repeatCmd = &cobra.Command{
	Use:   "repeat <minutes> <command> [args...]",
	Short: "Run a command every few minutes",
	Long: `Run a command, wait, and run it again until it fails or ticker is interrupted.
Useful for updating a sign periodically without a cron job.

With --schedule the command runs at the times of a standard cron spec
(e.g. "*/15 * * * *" or "@hourly") instead of every <minutes>.`,
	Args: rangeArgs(2, -1),
	RunE: func(cmd *cobra.Command, args []string) error {
		delay, err := strconv.Atoi(args[0])
		if err != nil {
			return apperr.Argumentf("delay must be a whole number of minutes, got %q", args[0])
		}

		_, log, err := loadConfig()
		if err != nil {
			return err
		}

		r := repeat.New(cmd.OutOrStdout(), log)
		if flagSchedule != "" {
			if err := r.WithSchedule(flagSchedule); err != nil {
				return err
			}
		}
		return r.Run(cmd.Context(), delay, args[1:])
	},
}

func init() {
	repeatCmd.Flags().StringVar(&flagSchedule, "schedule", "", "cron spec to run on instead of a fixed delay")
	// Everything after <minutes> belongs to the command.
	repeatCmd.Flags().SetInterspersed(false)
}
