package outfmt

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestFormatterTable(t *testing.T) {
	var out, errOut bytes.Buffer
	f := NewFormatter(context.Background(), &out, &errOut)

	if !f.StartTable("ID", "NAME") {
		t.Fatal("StartTable should return true in text mode")
	}
	f.Row("ds-1", "papers")
	if err := f.EndTable(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "ID") || !strings.Contains(lines[1], "papers") {
		t.Errorf("unexpected table:\n%s", out.String())
	}
	if err := f.Output(map[string]string{"id": "ds-1"}); err != nil || strings.Contains(out.String(), "{") {
		t.Error("Output should be a no-op in text mode")
	}
}

func TestFormatterStructured(t *testing.T) {
	var out bytes.Buffer
	f := NewFormatter(WithMode(context.Background(), JSON), &out, &out)

	if f.StartTable("ID") {
		t.Error("StartTable should return false in JSON mode")
	}
	if err := f.Output(map[string]string{"id": "ds-1"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `"id": "ds-1"`) {
		t.Errorf("output = %q", out.String())
	}
}

func TestFormatterEmpty(t *testing.T) {
	var out, errOut bytes.Buffer
	f := NewFormatter(context.Background(), &out, &errOut)
	f.Empty("No datasets found")
	if out.Len() != 0 || !strings.Contains(errOut.String(), "No datasets found") {
		t.Errorf("Empty should write to stderr only, got out=%q err=%q", out.String(), errOut.String())
	}
}
