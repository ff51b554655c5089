package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognee/cognee-cli/internal/dryrun"
	"github.com/cognee/cognee-cli/internal/iocontext"
	"github.com/cognee/cognee-cli/internal/outfmt"
	"github.com/cognee/cognee-cli/internal/resolve"
	"github.com/cognee/cognee-cli/internal/validation"
	"github.com/cognee/cognee-cli/pkg/cognee"
)

func newDatasetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "datasets",
		Aliases: []string{"dataset", "ds"},
		Short:   "Manage datasets",
		Long:    "List, create and delete datasets, add data to them and build their knowledge graphs",
	}

	cmd.AddCommand(newDatasetsListCmd())
	cmd.AddCommand(newDatasetsGetCmd())
	cmd.AddCommand(newDatasetsCreateCmd())
	cmd.AddCommand(newDatasetsDeleteCmd())
	cmd.AddCommand(newDatasetsBulkDeleteCmd())
	cmd.AddCommand(newDatasetsGraphCmd())
	cmd.AddCommand(newDatasetsDataCmd())
	cmd.AddCommand(newDatasetsStatusCmd())
	cmd.AddCommand(newDatasetsAddCmd())
	cmd.AddCommand(newDatasetsCognifyCmd())

	return cmd
}

// datasetID resolves a user-supplied dataset reference (id or name).
func datasetID(cmd *cobra.Command, client *cognee.Client, ref string) (string, error) {
	return resolve.DatasetID(cmdContext(cmd), client.Datasets(), ref)
}

func newDatasetsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List datasets",
		Example: strings.TrimSpace(`
  cognee datasets list
  cognee datasets list -o json --jq '.[].name'
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			datasets, err := client.Datasets().List(cmdContext(cmd))
			if err != nil {
				return fmt.Errorf("failed to list datasets: %w", err)
			}

			if isStructured(cmd) {
				return printJSON(cmd, datasets)
			}

			f := outfmt.NewFormatter(cmd.Context(), stdout(cmd), errWriter(cmd))
			if len(datasets) == 0 {
				f.Empty("No datasets found")
				return nil
			}
			f.StartTable("ID", "NAME", "CREATED", "OWNER")
			for _, ds := range datasets {
				f.Row(ds.ID, ds.Name, orDash(ds.CreatedAt), orDash(ds.OwnerID))
			}
			return f.EndTable()
		}),
	}
}

func newDatasetsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id|name>",
		Aliases: []string{"show"},
		Short:   "Show a dataset",
		Long:    "Show a dataset. Names are matched against the dataset list; ambiguous names are rejected.",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			id, err := datasetID(cmd, client, args[0])
			if err != nil {
				return err
			}

			ds, err := client.Datasets().Get(cmdContext(cmd), id)
			if err != nil {
				return fmt.Errorf("failed to get dataset %s: %w", id, err)
			}

			if isStructured(cmd) {
				return printJSON(cmd, ds)
			}

			out := stdout(cmd)
			_, _ = fmt.Fprintf(out, "Dataset %s\n", ds.ID)
			_, _ = fmt.Fprintf(out, "  Name:    %s\n", ds.Name)
			_, _ = fmt.Fprintf(out, "  Owner:   %s\n", orDash(ds.OwnerID))
			_, _ = fmt.Fprintf(out, "  Created: %s\n", orDash(ds.CreatedAt))
			_, _ = fmt.Fprintf(out, "  Updated: %s\n", orDash(ds.UpdatedAt))
			if len(ds.Metadata) > 0 {
				_, _ = fmt.Fprintln(out, "  Metadata:")
				for _, k := range sortedKeys(ds.Metadata) {
					_, _ = fmt.Fprintf(out, "    %s: %v\n", k, ds.Metadata[k])
				}
			}
			return nil
		}),
	}
}

func newDatasetsCreateCmd() *cobra.Command {
	var metadata []string
	var metadataJSON string

	cmd := &cobra.Command{
		Use:     "create <name>",
		Aliases: []string{"mk"},
		Short:   "Create a dataset",
		Example: strings.TrimSpace(`
  cognee datasets create papers
  cognee datasets create papers --meta team=ml --meta year=2024
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := validation.ValidateName(name); err != nil {
				return fmt.Errorf("invalid argument: %w", err)
			}
			var meta map[string]any
			if len(metadata) > 0 || metadataJSON != "" {
				parsed, err := parseFields(metadata, metadataJSON)
				if err != nil {
					return err
				}
				meta = parsed
			}

			body := map[string]any{"name": name}
			if meta != nil {
				body["metadata"] = meta
			}
			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "create",
				Resource:  "dataset",
				Method:    "POST",
				Path:      "api/v1/datasets",
				Body:      body,
			}); ok {
				return err
			}

			client, err := getClient()
			if err != nil {
				return err
			}
			ds, err := client.Datasets().Create(cmdContext(cmd), name, meta)
			if err != nil {
				return fmt.Errorf("failed to create dataset: %w", err)
			}

			if isStructured(cmd) {
				return printJSON(cmd, ds)
			}
			printAction(cmd, "Created", "dataset", ds.ID, ds.Name)
			return nil
		}),
	}

	cmd.Flags().StringArrayVar(&metadata, "meta", nil, "Metadata entry key=value (repeatable)")
	cmd.Flags().StringVar(&metadataJSON, "metadata-json", "", "Metadata as a JSON object")
	flagAlias(cmd.Flags(), "meta", "metadata")
	return cmd
}

func newDatasetsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id|name>",
		Aliases: []string{"rm"},
		Short:   "Delete a dataset",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			id, err := datasetID(cmd, client, args[0])
			if err != nil {
				return err
			}

			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "delete",
				Resource:  "dataset " + id,
				Method:    "DELETE",
				Path:      "api/v1/datasets/" + id,
				Warnings:  []string{"all data and graph content in the dataset is removed"},
			}); ok {
				return err
			}

			if _, err := client.Datasets().Delete(cmdContext(cmd), id); err != nil {
				return fmt.Errorf("failed to delete dataset %s: %w", id, err)
			}

			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"id": id, "deleted": true})
			}
			printAction(cmd, "Deleted", "dataset", id, "")
			return nil
		}),
	}
}

func newDatasetsBulkDeleteCmd() *cobra.Command {
	var concurrency int64
	var ratePerSecond float64
	var noProgress bool

	cmd := &cobra.Command{
		Use:   "bulk-delete <id|name>...",
		Short: "Delete several datasets concurrently",
		Example: strings.TrimSpace(`
  cognee datasets bulk-delete scratch-1 scratch-2 scratch-3 --concurrency 2 --rate 5
`),
		Args: cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			ids := make([]string, 0, len(args))
			for _, ref := range args {
				id, err := datasetID(cmd, client, ref)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation:   "delete",
				Resource:    fmt.Sprintf("%d datasets", len(ids)),
				Method:      "DELETE",
				Path:        "api/v1/datasets/{id}",
				Description: strings.Join(ids, ", "),
			}); ok {
				return err
			}

			ioStreams := iocontext.GetIO(cmd.Context())
			results := runBulkOperation(cmdContext(cmd), ids, bulkOptions{
				concurrency:   concurrency,
				ratePerSecond: ratePerSecond,
				progress:      !noProgress && !isStructured(cmd) && !flags.Quiet,
				errOut:        ioStreams.ErrOut,
			}, func(ctx context.Context, id string) (bool, error) {
				return client.Datasets().Delete(ctx, id)
			})

			success, failure := countResults(results)
			if isStructured(cmd) {
				if err := printJSON(cmd, map[string]any{
					"results":   results,
					"succeeded": success,
					"failed":    failure,
				}); err != nil {
					return err
				}
			} else {
				f := outfmt.NewFormatter(cmd.Context(), stdout(cmd), errWriter(cmd))
				f.StartTable("ID", "RESULT")
				for _, r := range results {
					if r.Success {
						f.Row(r.ID, "deleted")
					} else {
						f.Row(r.ID, "failed: "+r.Error)
					}
				}
				if err := f.EndTable(); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(stdout(cmd), "Deleted %d of %d datasets\n", success, len(ids))
			}

			if failure > 0 {
				return fmt.Errorf("%d of %d deletions failed: %w", failure, len(ids), firstFailure(results))
			}
			return nil
		}),
	}

	cmd.Flags().Int64Var(&concurrency, "concurrency", DefaultConcurrency, "Maximum concurrent requests")
	cmd.Flags().Float64Var(&ratePerSecond, "rate", 0, "Maximum deletions started per second (0 = unlimited)")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress counter")
	return cmd
}

func newDatasetsValueCmd(use, short string, fetch func(cognee.DatasetsService, *cobra.Command, string) (cognee.Value, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id|name>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			id, err := datasetID(cmd, client, args[0])
			if err != nil {
				return err
			}
			v, err := fetch(client.Datasets(), cmd, id)
			if err != nil {
				return fmt.Errorf("failed to get %s of dataset %s: %w", use, id, err)
			}
			return printJSON(cmd, v)
		}),
	}
}

func newDatasetsGraphCmd() *cobra.Command {
	return newDatasetsValueCmd("graph", "Show a dataset's knowledge graph",
		func(s cognee.DatasetsService, cmd *cobra.Command, id string) (cognee.Value, error) {
			return s.Graph(cmdContext(cmd), id)
		})
}

func newDatasetsDataCmd() *cobra.Command {
	return newDatasetsValueCmd("data", "List the data items in a dataset",
		func(s cognee.DatasetsService, cmd *cobra.Command, id string) (cognee.Value, error) {
			return s.Data(cmdContext(cmd), id)
		})
}

func newDatasetsStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <id|name>",
		Short: "Show a dataset's processing status",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			id, err := datasetID(cmd, client, args[0])
			if err != nil {
				return err
			}
			v, err := client.Datasets().Status(cmdContext(cmd), id)
			if err != nil {
				return fmt.Errorf("failed to get status of dataset %s: %w", id, err)
			}
			return printKeyValues(cmd, v)
		}),
	}
	return cmd
}

func newDatasetsAddCmd() *cobra.Command {
	var datasetName, datasetRef, file string

	cmd := &cobra.Command{
		Use:   "add [text...]",
		Short: "Add data to a dataset",
		Long:  "Add text to a dataset. Each argument is one item; --file reads one item from a file ('-' for stdin).",
		Example: strings.TrimSpace(`
  cognee datasets add "Cognee turns documents into graphs" --dataset-name papers
  cat notes.md | cognee datasets add --file - --dataset papers
`),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			items := append([]string(nil), args...)
			if file != "" {
				content, err := readInput(cmd, file)
				if err != nil {
					return err
				}
				items = append(items, content)
			}
			if len(items) == 0 {
				return fmt.Errorf("data is required: pass text arguments or --file")
			}
			for _, item := range items {
				if err := validation.ValidateDataItem(item); err != nil {
					return fmt.Errorf("invalid argument: %w", err)
				}
			}
			if datasetName != "" && datasetRef != "" {
				return fmt.Errorf("invalid argument: use --dataset-name or --dataset, not both")
			}

			req := cognee.AddDataRequest{DatasetName: datasetName}
			if len(items) == 1 {
				req.Data = items[0]
			} else {
				req.Data = items
			}

			preview := &dryrun.Preview{
				Operation: "add",
				Resource:  fmt.Sprintf("%d item(s)", len(items)),
				Method:    "POST",
				Path:      "api/v1/add",
				Body:      map[string]any{"datasetName": datasetName, "datasetId": datasetRef},
			}
			if ok, err := maybeDryRun(cmd, preview); ok {
				return err
			}

			client, err := getClient()
			if err != nil {
				return err
			}
			if datasetRef != "" {
				if req.DatasetID, err = datasetID(cmd, client, datasetRef); err != nil {
					return err
				}
			}

			resp, err := client.Datasets().Add(cmdContext(cmd), req)
			if err != nil {
				return fmt.Errorf("failed to add data: %w", err)
			}
			if isStructured(cmd) {
				return printJSON(cmd, resp)
			}
			printAction(cmd, "Added", fmt.Sprintf("%d item(s)", len(items)), "", resp.Message)
			return nil
		}),
	}

	cmd.Flags().StringVar(&datasetName, "dataset-name", "", "Dataset name (created by the server if missing)")
	cmd.Flags().StringVar(&datasetRef, "dataset", "", "Existing dataset id or name")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read data from a file ('-' for stdin)")
	return cmd
}

func newDatasetsCognifyCmd() *cobra.Command {
	var datasetRefs []string
	var background bool

	cmd := &cobra.Command{
		Use:   "cognify [dataset-name...]",
		Short: "Build the knowledge graph for datasets",
		Example: strings.TrimSpace(`
  cognee datasets cognify papers
  cognee datasets cognify --dataset 3f2b8c9e-4d1a-4c6e-9b7a-2e5f1d0c8a41 --background
`),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			req := cognee.CognifyRequest{Datasets: args, RunInBackground: background}

			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "cognify",
				Resource:  "datasets",
				Method:    "POST",
				Path:      "api/v1/cognify",
				Body: map[string]any{
					"datasets":          args,
					"dataset_ids":       datasetRefs,
					"run_in_background": background,
				},
			}); ok {
				return err
			}

			client, err := getClient()
			if err != nil {
				return err
			}
			for _, ref := range datasetRefs {
				id, err := datasetID(cmd, client, ref)
				if err != nil {
					return err
				}
				req.DatasetIDs = append(req.DatasetIDs, id)
			}

			resp, err := client.Datasets().Cognify(cmdContext(cmd), req)
			if err != nil {
				return fmt.Errorf("failed to cognify: %w", err)
			}
			if isStructured(cmd) {
				return printJSON(cmd, resp)
			}
			if resp.PipelineRunID != "" {
				printAction(cmd, "Started", "pipeline run", resp.PipelineRunID, resp.Message)
			} else {
				printAction(cmd, "Cognified", "datasets", "", resp.Message)
			}
			return nil
		}),
	}

	cmd.Flags().StringArrayVar(&datasetRefs, "dataset", nil, "Dataset id or name (repeatable)")
	cmd.Flags().BoolVar(&background, "background", false, "Return immediately and run the pipeline in the background")
	return cmd
}
