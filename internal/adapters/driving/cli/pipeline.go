package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lydlabs/ragcli/internal/core/domain"
)

var pipelineJSON bool

var pipelineCmd = &cobra.Command{
	Use:   "pipeline [query]",
	Short: "Run retrieval and reranking without answer generation",
	Long: `Runs the retrieval half of the pipeline and prints the
reranked chunks with their relevance scores. Useful for inspecting
what the ask command would ground its answer on.`,
	Args: cobra.ExactArgs(1),
	RunE: runPipeline,
}

func init() {
	pipelineCmd.Flags().BoolVar(&pipelineJSON, "json", false, "output chunks as JSON")
	rootCmd.AddCommand(pipelineCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	query := args[0]

	if askService == nil {
		return errors.New("ask service not configured")
	}

	reranked, err := askService.Pipeline(context.Background(), query)
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}

	if pipelineJSON {
		data, err := json.MarshalIndent(reranked, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal chunks: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	return outputPipelineTable(cmd, reranked)
}

func outputPipelineTable(cmd *cobra.Command, reranked []domain.RerankResult) error {
	if len(reranked) == 0 {
		cmd.Println("No relevant chunks found.")
		return nil
	}

	cmd.Printf("Top %d chunks:\n\n", len(reranked))
	for i, result := range reranked {
		title := result.Metadata.Title
		if title == "" {
			title = result.Metadata.ReportID
		}

		snippet := result.Content
		if len(snippet) > 200 {
			snippet = snippet[:200] + "..."
		}

		cmd.Printf("  [%d] %s (%.3f)\n", i+1, title, result.RelevanceScore)
		if url := result.Metadata.SourceURL(); url != "" {
			cmd.Printf("      %s\n", url)
		}
		cmd.Printf("      %s\n\n", snippet)
	}

	return nil
}
