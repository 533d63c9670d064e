package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lydlabs/ragcli/internal/core/ports/driving"
)

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest", ingestCmd.Use)
}

func TestIngestCmd_DefaultFlags(t *testing.T) {
	assert.Equal(t, "20", ingestCmd.Flags().Lookup("batch-size").DefValue)
	assert.Equal(t, "0", ingestCmd.Flags().Lookup("max-batches").DefValue)
	assert.Equal(t, "5s", ingestCmd.Flags().Lookup("delay").DefValue)
}

func TestIngestCmd_RunsAndPrintsSummary(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	orchestrator := &mockIngestOrchestrator{}
	ingestOrchestrator = orchestrator

	statePath := filepath.Join(t.TempDir(), "state.json")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", "--state", statePath, "--batch-size", "10"})
	defer func() {
		rootCmd.SetArgs(nil)
		ingestStatePath = ""
		ingestBatchSize = 20
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, 10, orchestrator.gotOpts.BatchSize)
	assert.Contains(t, buf.String(), "Ingestion complete")
	assert.Contains(t, buf.String(), "Processed: 3")
	assert.Contains(t, buf.String(), "Chunks:    12")

	// State file was written with the attempted IDs
	data, err := os.ReadFile(statePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "r1")
	assert.Contains(t, string(data), "r3")
}

func TestIngestCmd_ResumesFromStateFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	orchestrator := &mockIngestOrchestrator{}
	ingestOrchestrator = orchestrator

	statePath := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, saveIngestState(statePath, map[string]struct{}{
		"r1": {}, "r2": {},
	}))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", "--state", statePath})
	defer func() {
		rootCmd.SetArgs(nil)
		ingestStatePath = ""
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Len(t, orchestrator.gotOpts.ProcessedIDs, 2)
	assert.Contains(t, buf.String(), "Resuming: 2 reports")
}

func TestIngestCmd_FreshIgnoresStateFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	orchestrator := &mockIngestOrchestrator{}
	ingestOrchestrator = orchestrator

	statePath := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, saveIngestState(statePath, map[string]struct{}{"r1": {}}))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", "--state", statePath, "--fresh"})
	defer func() {
		rootCmd.SetArgs(nil)
		ingestStatePath = ""
		ingestFresh = false
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Empty(t, orchestrator.gotOpts.ProcessedIDs)
}

func TestIngestCmd_ServiceNotConfigured(t *testing.T) {
	oldService := ingestOrchestrator
	ingestOrchestrator = nil
	defer func() {
		ingestOrchestrator = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ingest service not configured")
}

func TestIngestStateRoundTrip(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "nested", "state.json")

	want := map[string]struct{}{"a": {}, "b": {}, "c": {}}
	require.NoError(t, saveIngestState(statePath, want))

	got, err := loadIngestState(statePath)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadIngestStateMissingFile(t *testing.T) {
	got, err := loadIngestState(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIngestCmd_PassesTimingOptions(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	orchestrator := &mockIngestOrchestrator{summary: &driving.IngestSummary{}}
	ingestOrchestrator = orchestrator

	statePath := filepath.Join(t.TempDir(), "state.json")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", "--state", statePath, "--delay", "1s", "--max-batches", "3"})
	defer func() {
		rootCmd.SetArgs(nil)
		ingestStatePath = ""
		ingestDelay = 5 * time.Second
		ingestMaxBatches = 0
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, time.Second, orchestrator.gotOpts.Delay)
	assert.Equal(t, 3, orchestrator.gotOpts.MaxBatches)
}
