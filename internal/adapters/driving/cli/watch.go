package cli

import (
	"github.com/spf13/cobra"

	"github.com/meridian-labs/grounded/internal/adapters/driving/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and ingest dropped documents",
	Long: `Watches the directory and ingests every new document with a
recognised extension. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}
	return watch.NewWatcher(ingestService, args[0]).Run(cmd.Context())
}
