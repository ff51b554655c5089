package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognee/cognee-cli/internal/dryrun"
	"github.com/cognee/cognee-cli/internal/iocontext"
	"github.com/cognee/cognee-cli/internal/outfmt"
	"github.com/cognee/cognee-cli/pkg/cognee"
)

// errAlreadyHandled marks errors that RunE already printed, so Execute does
// not print them a second time.
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string {
	return e.err.Error()
}

func (e *handledError) Unwrap() []error {
	return []error{errAlreadyHandled, e.err}
}

func (e *handledError) ExitCode() int {
	return e.exitCode
}

// RunE wraps a command function with enhanced error handling
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err == nil {
			return nil
		}
		// Errors go to the root stream so --quiet never hides them.
		errOut := cmd.Root().ErrOrStderr()
		if isStructured(cmd) {
			_ = outfmt.WriteJSON(errOut, map[string]any{"error": structuredErrorFromError(err)})
		} else {
			_, _ = fmt.Fprint(errOut, HandleError(err))
		}
		return &handledError{err: err, exitCode: ExitCode(err)}
	}
}

func cmdContext(cmd *cobra.Command) context.Context {
	return cmd.Context()
}

func isStructured(cmd *cobra.Command) bool {
	return outfmt.IsStructured(cmd.Context())
}

func stdout(cmd *cobra.Command) io.Writer {
	return iocontext.GetIO(cmd.Context()).Out
}

// printJSON writes v in the selected structured format. In text mode it
// falls back to indented JSON, which is how raw API payloads are shown.
func printJSON(cmd *cobra.Command, v any) error {
	return outfmt.Write(cmd.Context(), stdout(cmd), v)
}

// printAction prints a one-line confirmation in text mode.
func printAction(cmd *cobra.Command, action, resource, id, name string) {
	if flags.Quiet || isStructured(cmd) {
		return
	}
	message := fmt.Sprintf("%s %s", action, resource)
	if id != "" {
		message += " " + id
	}
	if name != "" {
		message += ": " + name
	}
	_, _ = fmt.Fprintln(stdout(cmd), message)
}

// maybeDryRun prints preview and reports true when --dry-run is set.
func maybeDryRun(cmd *cobra.Command, preview *dryrun.Preview) (bool, error) {
	if !dryrun.IsEnabled(cmd.Context()) {
		return false, nil
	}
	if isStructured(cmd) {
		return true, printJSON(cmd, map[string]any{"dry_run": true, "preview": preview})
	}
	preview.Write(stdout(cmd))
	return true, nil
}

// parseFields turns repeated key=value flags into a request body. Values
// that parse as JSON keep their type (quote a value to force a string);
// anything else is sent as a string. rawJSON, when set, is the starting
// object and fields are merged over it.
func parseFields(fields []string, rawJSON string) (map[string]any, error) {
	body := map[string]any{}
	if strings.TrimSpace(rawJSON) != "" {
		if err := json.Unmarshal([]byte(rawJSON), &body); err != nil {
			return nil, fmt.Errorf("invalid argument --json: %w", err)
		}
		if body == nil {
			body = map[string]any{}
		}
	}
	for _, f := range fields {
		key, value, ok := strings.Cut(f, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid argument %q: expected key=value", f)
		}
		var parsed any
		if err := json.Unmarshal([]byte(value), &parsed); err == nil {
			body[key] = parsed
		} else {
			body[key] = value
		}
	}
	return body, nil
}

// readInput returns the contents of path, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(iocontext.GetIO(cmd.Context()).In)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// printKeyValues prints an object value as aligned "key: value" lines and
// anything else as JSON.
func printKeyValues(cmd *cobra.Command, v cognee.Value) error {
	if !v.IsObject() || isStructured(cmd) {
		return printJSON(cmd, v)
	}
	f := outfmt.NewFormatter(cmd.Context(), stdout(cmd), errWriter(cmd))
	for _, key := range v.Keys() {
		field, _ := v.Get(key)
		f.Row(key+":", scalarText(field))
	}
	return f.EndTable()
}

func scalarText(v cognee.Value) string {
	if s, ok := v.AsString(); ok {
		return s
	}
	if v.IsNull() {
		return "-"
	}
	return v.String()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
