package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognee/cognee-cli/internal/outfmt"
	"github.com/cognee/cognee-cli/internal/validation"
	"github.com/cognee/cognee-cli/pkg/cognee"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the knowledge graph",
	}
	cmd.AddCommand(newSearchQueryCmd())
	cmd.AddCommand(newSearchHistoryCmd())
	return cmd
}

func newSearchQueryCmd() *cobra.Command {
	var searchType string
	var datasets, datasetRefs []string
	var topK int

	cmd := &cobra.Command{
		Use:     "query <text>",
		Aliases: []string{"q"},
		Short:   "Run a search",
		Example: strings.TrimSpace(`
  cognee search query "what is a knowledge graph"
  cognee search query "graph databases" --type hybrid --dataset papers --top-k 5
  cognee search query "graphs" -o json --jq '.results[].text'
`),
		Args: cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if err := validation.ValidateQuery(query); err != nil {
				return fmt.Errorf("invalid argument: %w", err)
			}
			st, err := cognee.ParseSearchType(searchType)
			if err != nil {
				return fmt.Errorf("invalid argument --type: %w", err)
			}
			if topK < 0 {
				return fmt.Errorf("invalid argument --top-k: must be positive")
			}

			client, err := getClient()
			if err != nil {
				return err
			}
			req := cognee.SearchRequest{
				Query:      query,
				SearchType: st,
				Datasets:   datasets,
				TopK:       topK,
			}
			for _, ref := range datasetRefs {
				id, err := datasetID(cmd, client, ref)
				if err != nil {
					return err
				}
				req.DatasetIDs = append(req.DatasetIDs, id)
			}

			resp, err := client.Search().Query(cmdContext(cmd), req)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			if isStructured(cmd) {
				return printJSON(cmd, resp)
			}

			f := outfmt.NewFormatter(cmd.Context(), stdout(cmd), errWriter(cmd))
			if len(resp.Results) == 0 {
				f.Empty("No results")
				return nil
			}
			f.StartTable("SCORE", "TEXT", "DATASET")
			for _, r := range resp.Results {
				f.Row(strconv.FormatFloat(r.Score, 'f', 3, 64), truncate(singleLine(r.Text), 80), orDash(r.DatasetID))
			}
			if err := f.EndTable(); err != nil {
				return err
			}
			if resp.Total > len(resp.Results) {
				_, _ = fmt.Fprintf(errWriter(cmd), "Showing %d of %d results\n", len(resp.Results), resp.Total)
			}
			return nil
		}),
	}

	cmd.Flags().StringVarP(&searchType, "type", "t", string(cognee.SearchTypeSemantic), "Search type: semantic|keyword|hybrid")
	cmd.Flags().StringArrayVar(&datasets, "dataset-name", nil, "Restrict to a dataset by exact name (repeatable)")
	cmd.Flags().StringArrayVar(&datasetRefs, "dataset", nil, "Restrict to a dataset by id or fuzzy name (repeatable)")
	cmd.Flags().IntVarP(&topK, "top-k", "k", cognee.DefaultTopK, "Maximum number of results")
	flagAlias(cmd.Flags(), "top-k", "limit")
	return cmd
}

func newSearchHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show the current user's search history",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			history, err := client.Search().History(cmdContext(cmd))
			if err != nil {
				return fmt.Errorf("failed to get search history: %w", err)
			}
			if isStructured(cmd) || !history.IsArray() {
				return printJSON(cmd, history)
			}

			f := outfmt.NewFormatter(cmd.Context(), stdout(cmd), errWriter(cmd))
			items, _ := history.AsArray()
			if len(items) == 0 {
				f.Empty("No searches yet")
				return nil
			}
			f.StartTable("WHEN", "TYPE", "QUERY")
			for _, item := range items {
				f.Row(
					orDash(fieldText(item, "created_at", "createdAt", "timestamp")),
					orDash(fieldText(item, "search_type", "query_type")),
					truncate(singleLine(fieldText(item, "query", "text")), 80),
				)
			}
			return f.EndTable()
		}),
	}
}

// fieldText returns the first present key of an object value as text.
func fieldText(v cognee.Value, keys ...string) string {
	field, ok := v.Lookup(keys...)
	if !ok || field.IsNull() {
		return ""
	}
	return scalarText(field)
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
