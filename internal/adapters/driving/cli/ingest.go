package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/lydlabs/ragcli/internal/core/ports/driving"
)

var (
	ingestBatchSize  int
	ingestMaxBatches int
	ingestDelay      time.Duration
	ingestTimeout    time.Duration
	ingestStatePath  string
	ingestFresh      bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest catalogue reports into the vector store",
	Long: `Walks the report catalogue in batches, downloading each PDF,
extracting and chunking its text, embedding the chunks and storing
them in the local vector store.

Progress is checkpointed to a state file so an interrupted run can be
resumed without reprocessing completed reports.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().IntVar(&ingestBatchSize, "batch-size", 20, "reports per catalogue page")
	ingestCmd.Flags().IntVar(&ingestMaxBatches, "max-batches", 0, "stop after this many batches (0 = no limit)")
	ingestCmd.Flags().DurationVar(&ingestDelay, "delay", 5*time.Second, "pause between batches")
	ingestCmd.Flags().DurationVar(&ingestTimeout, "item-timeout", 2*time.Minute, "per-report processing timeout")
	ingestCmd.Flags().StringVar(&ingestStatePath, "state", "", "ingestion state file (default ~/.ragcli/ingest-state.json)")
	ingestCmd.Flags().BoolVar(&ingestFresh, "fresh", false, "ignore the state file and reprocess everything")
	rootCmd.AddCommand(ingestCmd)
}

// ingestState is the JSON shape of the checkpoint file.
type ingestState struct {
	ProcessedIDs []string  `json:"processed_ids"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if ingestOrchestrator == nil {
		return errors.New("ingest service not configured")
	}

	statePath, err := resolveStatePath(ingestStatePath)
	if err != nil {
		return err
	}

	var processed map[string]struct{}
	if !ingestFresh {
		processed, err = loadIngestState(statePath)
		if err != nil {
			return fmt.Errorf("load state file: %w", err)
		}
		if len(processed) > 0 {
			cmd.Printf("Resuming: %d reports already processed\n", len(processed))
		}
	}

	summary, err := ingestOrchestrator.Run(context.Background(), driving.IngestOptions{
		BatchSize:    ingestBatchSize,
		MaxBatches:   ingestMaxBatches,
		Delay:        ingestDelay,
		ItemTimeout:  ingestTimeout,
		ProcessedIDs: processed,
	})

	// Checkpoint whatever was attempted, even on failure.
	if summary != nil {
		if saveErr := saveIngestState(statePath, summary.ProcessedIDs); saveErr != nil {
			cmd.PrintErrf("Warning: could not save state file: %v\n", saveErr)
		}
	}
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	cmd.Println("Ingestion complete:")
	cmd.Printf("  Processed: %d\n", summary.Processed)
	cmd.Printf("  Failed:    %d\n", summary.Failed)
	cmd.Printf("  Skipped:   %d\n", summary.Skipped)
	cmd.Printf("  Chunks:    %d\n", summary.Chunks)
	cmd.Printf("  Batches:   %d\n", summary.Batches)
	cmd.Printf("  Elapsed:   %s\n", summary.Elapsed.Round(time.Second))

	return nil
}

// resolveStatePath expands the default state file location.
func resolveStatePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".ragcli", "ingest-state.json"), nil
}

// loadIngestState reads the checkpoint file. A missing file means a
// fresh start.
func loadIngestState(path string) (map[string]struct{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var state ingestState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}

	processed := make(map[string]struct{}, len(state.ProcessedIDs))
	for _, id := range state.ProcessedIDs {
		processed[id] = struct{}{}
	}
	return processed, nil
}

// saveIngestState writes the checkpoint file.
func saveIngestState(path string, processed map[string]struct{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	ids := make([]string, 0, len(processed))
	for id := range processed {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	data, err := json.MarshalIndent(ingestState{
		ProcessedIDs: ids,
		UpdatedAt:    time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
