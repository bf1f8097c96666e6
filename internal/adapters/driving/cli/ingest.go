package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meridian-labs/grounded/internal/core/domain"
)

var ingestJSON bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Ingest documents into the index",
	Long: `Extracts each document page by page, embeds the pages and writes them
to the vector index. Pages that fail are reported and skipped; the rest
of the document still goes in.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output reports as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}

	var reports []*domain.IngestReport
	for _, path := range args {
		report, err := ingestService.IngestFile(cmd.Context(), path)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", path, err)
		}
		reports = append(reports, report)
	}

	if ingestJSON {
		return outputIngestJSON(cmd, reports)
	}
	return outputIngestSummary(cmd, reports)
}

func outputIngestJSON(cmd *cobra.Command, reports []*domain.IngestReport) error {
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal reports: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputIngestSummary(cmd *cobra.Command, reports []*domain.IngestReport) error {
	for _, report := range reports {
		cmd.Printf("%s -> %s: %d page(s) indexed, %d failed\n",
			report.Name, report.DocumentID, report.PagesIndexed(), report.PagesFailed())
		for _, page := range report.Pages {
			if page.Status == domain.PageFailed {
				cmd.Printf("  page %d: %s\n", page.Number, page.Error)
			}
		}
	}
	return nil
}
