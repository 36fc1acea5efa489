package mermaid

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func stubMmdc(t *testing.T, fail bool) {
	t.Helper()
	orig := runMmdc
	t.Cleanup(func() { runMmdc = orig })
	runMmdc = func(_ context.Context, mmdFile, pngFile string) error {
		if fail {
			return errors.New("mmdc not installed")
		}
		return os.WriteFile(pngFile, []byte("png"), 0o644)
	}
}

func TestHasBlocks(t *testing.T) {
	if !HasBlocks("# Doc\n\n```mermaid\ngraph TD\nA-->B\n```\n") {
		t.Error("expected a mermaid block to be detected")
	}
	if HasBlocks("# Doc\n\n```go\nfmt.Println()\n```\n") {
		t.Error("a plain code block is not a mermaid block")
	}
}

func TestConvert(t *testing.T) {
	stubMmdc(t, false)
	dir := t.TempDir()
	content := "# Doc\n\n```mermaid\ngraph TD\nA-->B\n```\n\ntext\n\n```mermaid\nsequenceDiagram\n```\n"

	out, converted, err := Convert(context.Background(), content, dir, "ad")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if converted != 2 {
		t.Errorf("converted = %v, want 2", converted)
	}
	if strings.Contains(out, "```mermaid") {
		t.Errorf("mermaid blocks left in output:\n%v", out)
	}
	for _, want := range []string{"![Diagram 1](", "![Diagram 2]("} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output:\n%v", want, out)
		}
	}
	// The .mmd carries the diagram source
	b, err := os.ReadFile(filepath.Join(dir, "ad_diagram_1.mmd"))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "graph TD\nA-->B" {
		t.Errorf("unexpected diagram source: %q", b)
	}
}

func TestConvert_failureKeepsBlock(t *testing.T) {
	stubMmdc(t, true)
	dir := t.TempDir()
	content := "```mermaid\ngraph TD\n```\n"

	out, converted, err := Convert(context.Background(), content, dir, "x")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if converted != 0 {
		t.Errorf("converted = %v, want 0", converted)
	}
	if out != content {
		t.Errorf("failed conversion should keep the original block:\n%v", out)
	}
}

func TestConvert_noBlocks(t *testing.T) {
	stubMmdc(t, false)
	content := "# Plain doc\n\nno diagrams here\n"
	out, converted, err := Convert(context.Background(), content, t.TempDir(), "x")
	if err != nil {
		t.Fatal(err)
	}
	if converted != 0 || out != content {
		t.Errorf("content without blocks should pass through, got %v conversions", converted)
	}
}

func TestConvertFile(t *testing.T) {
	stubMmdc(t, false)
	dir := t.TempDir()
	in := filepath.Join(dir, "in.md")
	outPath := filepath.Join(dir, "out.md")
	if err := os.WriteFile(in, []byte("```mermaid\ngraph TD\n```\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	converted, err := ConvertFile(context.Background(), in, outPath, filepath.Join(dir, "diagrams"), "pdf")
	if err != nil {
		t.Fatalf("ConvertFile: %v", err)
	}
	if converted != 1 {
		t.Errorf("converted = %v, want 1", converted)
	}
	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), fmt.Sprintf("![Diagram 1](%v", filepath.Join(dir, "diagrams"))) {
		t.Errorf("unexpected output: %v", string(b))
	}
}
