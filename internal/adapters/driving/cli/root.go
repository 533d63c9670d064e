// Package cli implements the command-line interface. Commands are
// thin: they parse flags, call a driving port and print the result.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/lydlabs/ragcli/internal/core/ports/driven"
	"github.com/lydlabs/ragcli/internal/core/ports/driving"
	"github.com/lydlabs/ragcli/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// Services injected by main before Execute runs.
var (
	askService         driving.AskService
	ingestOrchestrator driving.IngestOrchestrator
	vectorStore        driven.VectorStore
	reportCatalog      driven.ReportCatalog
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "ragcli",
	Short: "Ingest and query policy research documents",
	Long: `ragcli ingests policy research PDFs into a local vector store
and answers questions grounded in their content.

Run "ragcli ingest" to build the store, then "ragcli ask" to query it.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Services bundles everything the commands need.
type Services struct {
	Ask     driving.AskService
	Ingest  driving.IngestOrchestrator
	Store   driven.VectorStore
	Catalog driven.ReportCatalog
}

// SetServices injects the service dependencies. Must be called before
// Execute.
func SetServices(s Services) {
	askService = s.Ask
	ingestOrchestrator = s.Ingest
	vectorStore = s.Store
	reportCatalog = s.Catalog
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
