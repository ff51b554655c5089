// Package dryrun lets mutating commands describe the request they would send
// instead of sending it.
package dryrun

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
)

type contextKey string

const dryRunKey contextKey = "cognee_dry_run"

// WithDryRun returns a context with dry-run mode enabled/disabled.
func WithDryRun(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, dryRunKey, enabled)
}

// IsEnabled returns true if dry-run mode is enabled.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(dryRunKey).(bool); ok {
		return v
	}
	return false
}

// Preview describes one API call that dry-run mode skipped.
type Preview struct {
	Operation   string         `json:"operation"`
	Resource    string         `json:"resource"`
	Method      string         `json:"method"`
	Path        string         `json:"path"`
	Description string         `json:"description,omitempty"`
	Body        map[string]any `json:"body,omitempty"`
	Warnings    []string       `json:"warnings,omitempty"`
}

const rule = "---------------------------------------"

// Write renders the preview for humans. Body keys are printed sorted.
func (p *Preview) Write(w io.Writer) {
	_, _ = fmt.Fprintf(w, "\n[DRY-RUN] Would %s %s\n", p.Operation, p.Resource)
	_, _ = fmt.Fprintln(w, rule)
	_, _ = fmt.Fprintf(w, "  %s %s\n\n", strings.ToUpper(p.Method), p.Path)

	if p.Description != "" {
		_, _ = fmt.Fprintf(w, "%s\n\n", p.Description)
	}

	if len(p.Body) > 0 {
		keys := make([]string, 0, len(p.Body))
		for k := range p.Body {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_, _ = fmt.Fprintf(w, "  %s: %v\n", k, p.Body[k])
		}
		_, _ = fmt.Fprintln(w)
	}

	if len(p.Warnings) > 0 {
		_, _ = fmt.Fprintln(w, "Warnings:")
		for _, warning := range p.Warnings {
			_, _ = fmt.Fprintf(w, "  ! %s\n", warning)
		}
		_, _ = fmt.Fprintln(w)
	}

	_, _ = fmt.Fprintln(w, rule)
	_, _ = fmt.Fprintln(w, "No changes made (dry-run mode)")
}
