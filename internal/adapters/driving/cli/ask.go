package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	askNoRAG bool
	askTopK  int
	askJSON  bool
)

var askCmd = &cobra.Command{
	Use:   "ask [query]",
	Short: "Ask a single question",
	Long: `Answers one question grounded on the most similar indexed pages.
Use --no-rag to query the model directly without touching the index.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askNoRAG, "no-rag", false, "skip retrieval and query the model directly")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of passages to retrieve (default from config)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}

	params := chatService.Params()
	if askNoRAG {
		params.RAGEnabled = false
	}
	if askTopK > 0 {
		params.TopK = askTopK
	}
	if err := chatService.UpdateParams(params); err != nil {
		return err
	}

	msg, err := chatService.SubmitQuery(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(map[string]any{
			"query":       args[0],
			"answer":      msg.Content,
			"rag_enabled": params.RAGEnabled,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(msg.Content)
	return nil
}
