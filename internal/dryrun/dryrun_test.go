package dryrun

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestWithDryRun(t *testing.T) {
	if !IsEnabled(WithDryRun(context.Background(), true)) {
		t.Error("IsEnabled should return true when dry-run is enabled")
	}
	if IsEnabled(WithDryRun(context.Background(), false)) {
		t.Error("IsEnabled should return false when dry-run is explicitly disabled")
	}
	if IsEnabled(context.Background()) {
		t.Error("IsEnabled should return false by default")
	}
}

func TestPreviewWrite(t *testing.T) {
	p := &Preview{
		Operation: "create",
		Resource:  "dataset",
		Method:    "post",
		Path:      "api/v1/datasets",
		Body:      map[string]any{"name": "papers", "metadata": map[string]any{"team": "ml"}},
		Warnings:  []string{"dataset names are not unique"},
	}

	var buf bytes.Buffer
	p.Write(&buf)
	out := buf.String()

	for _, want := range []string{
		"[DRY-RUN] Would create dataset",
		"POST api/v1/datasets",
		"  name: papers",
		"! dataset names are not unique",
		"No changes made (dry-run mode)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "metadata:") > strings.Index(out, "name:") {
		t.Error("body keys should be printed in sorted order")
	}
}

func TestPreviewWriteMinimal(t *testing.T) {
	var buf bytes.Buffer
	(&Preview{Operation: "delete", Resource: "dataset ds-1", Method: "DELETE", Path: "api/v1/datasets/ds-1"}).Write(&buf)
	if strings.Contains(buf.String(), "Warnings:") {
		t.Error("empty warnings should not print a header")
	}
}
