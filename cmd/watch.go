package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Convert a directory and keep the HTML files up to date",
	Long: `Convert a directory and keep the HTML files up to date

Internally, watcher polls the filesystem, so don't use the program in folders with a large number of files.`,
	Run: func(cmd *cobra.Command, args []string) {
		c, closeLog := newConverter(cmd)
		defer closeLog()

		stats, err := c.ProcessFiles()
		if err != nil {
			exit(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), stats)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		interval, _ := cmd.Flags().GetDuration("interval")
		if err := c.Watch(ctx, interval); err != nil {
			exit(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addConvertFlags(watchCmd)

	watchCmd.Flags().DurationP("interval", "i", 500*time.Millisecond, "poll interval duration (e.g. 1s, 500ms...)")
}
