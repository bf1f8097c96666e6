package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	ledgersqlite "github.com/meridian-labs/grounded/internal/adapters/driven/ledger/sqlite"
	"github.com/meridian-labs/grounded/internal/core/domain"
)

var (
	runsLimit int
	runsJSON  bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent ingestion runs",
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

var runsShowCmd = &cobra.Command{
	Use:   "show [document-id]",
	Short: "Show one ingestion run in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "maximum runs to list")
	runsCmd.Flags().BoolVar(&runsJSON, "json", false, "output as JSON")
	runsShowCmd.Flags().BoolVar(&runsJSON, "json", false, "output as JSON")
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

func openLedger() (*ledgersqlite.Ledger, error) {
	ledger, err := ledgersqlite.NewLedger(dataDir)
	if err != nil {
		return nil, fmt.Errorf("opening ingest ledger: %w", err)
	}
	return ledger, nil
}

func runRuns(cmd *cobra.Command, _ []string) error {
	ledger, err := openLedger()
	if err != nil {
		return err
	}
	defer ledger.Close()

	reports, err := ledger.ListRuns(cmd.Context(), runsLimit)
	if err != nil {
		return err
	}

	if runsJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(reports)
	}

	if len(reports) == 0 {
		cmd.Println("No ingestion runs recorded.")
		return nil
	}
	for _, r := range reports {
		cmd.Printf("%s  %s  %s\n", r.StartedAt.Format("2006-01-02 15:04:05"), r.DocumentID, r.Name)
	}
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	ledger, err := openLedger()
	if err != nil {
		return err
	}
	defer ledger.Close()

	report, err := ledger.GetRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if runsJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(report)
	}

	cmd.Printf("Document:  %s\n", report.DocumentID)
	cmd.Printf("Name:      %s\n", report.Name)
	cmd.Printf("Started:   %s\n", report.StartedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("Finished:  %s\n", report.FinishedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("Pages:     %d indexed, %d failed\n", report.PagesIndexed(), report.PagesFailed())
	for _, p := range report.Pages {
		if p.Status == domain.PageIndexed {
			cmd.Printf("  page %d: indexed as %s\n", p.Number, p.RecordKey)
		} else {
			cmd.Printf("  page %d: failed: %s\n", p.Number, p.Error)
		}
	}
	return nil
}
