package cli

import (
	"github.com/spf13/cobra"

	"github.com/meridian-labs/grounded/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Opens a terminal chat over the indexed documents. The session keeps
conversation history until reset; parameter changes also clear it.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}
	return tui.Run(cmd.Context(), chatService)
}
