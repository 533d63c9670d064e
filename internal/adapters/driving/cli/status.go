package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var statusStatePath string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show vector store and ingestion progress",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusStatePath, "state", "", "ingestion state file (default ~/.ragcli/ingest-state.json)")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if vectorStore == nil {
		return errors.New("vector store not configured")
	}

	ctx := context.Background()

	chunks, err := vectorStore.Count(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("Stored chunks:     %d\n", chunks)

	statePath, err := resolveStatePath(statusStatePath)
	if err != nil {
		return err
	}
	processed, err := loadIngestState(statePath)
	if err != nil {
		cmd.PrintErrf("Warning: could not read state file: %v\n", err)
	} else {
		cmd.Printf("Processed reports: %d\n", len(processed))
	}

	if reportCatalog != nil {
		total, err := reportCatalog.Count(ctx)
		if err != nil {
			cmd.PrintErrf("Warning: catalogue unavailable: %v\n", err)
		} else {
			cmd.Printf("Catalogue reports: %d\n", total)
			if remaining := total - len(processed); remaining > 0 {
				cmd.Printf("Remaining:         %d\n", remaining)
			}
		}
	}

	return nil
}
