// Package mermaid extracts ```mermaid blocks and shells out to
// mermaid-cli (mmdc) to turn them into png images, for PDF rendering
// where fenced diagrams don't survive pandoc.
package mermaid

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
)

var blockPattern = regexp.MustCompile("(?s)```mermaid\n(.*?)\n```")

// mmdcArgs beyond input/output, matching the width and background the
// rendered documents expect
var mmdcArgs = []string{"-b", "transparent", "-w", "1200"}

// HasBlocks reports whether content contains any mermaid code block.
func HasBlocks(content string) bool {
	return blockPattern.MatchString(content)
}

// Convert replaces every mermaid block in content with an image
// reference, writing <prefix>_diagram_N.mmd/.png pairs into outputDir.
// A block whose conversion fails is kept as-is with a warning, so a
// missing mmdc degrades the PDF rather than failing the build.
func Convert(ctx context.Context, content, outputDir, prefix string) (string, int, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("failed to create diagram dir: %w", err)
	}
	count := 0
	converted := 0
	out := blockPattern.ReplaceAllStringFunc(content, func(match string) string {
		count++
		diagram := blockPattern.FindStringSubmatch(match)[1]
		mmdFile := filepath.Join(outputDir, fmt.Sprintf("%v_diagram_%v.mmd", prefix, count))
		pngFile := filepath.Join(outputDir, fmt.Sprintf("%v_diagram_%v.png", prefix, count))
		if err := os.WriteFile(mmdFile, []byte(diagram), 0o644); err != nil {
			ancli.PrintWarn(fmt.Sprintf("failed to write diagram %v: %v\n", count, err))
			return match
		}
		if err := runMmdc(ctx, mmdFile, pngFile); err != nil {
			ancli.PrintWarn(fmt.Sprintf("failed to convert diagram %v: %v\n", count, err))
			return match
		}
		converted++
		return fmt.Sprintf("![Diagram %v](%v)", count, pngFile)
	})
	return out, converted, nil
}

// ConvertFile runs Convert on inputPath and writes the result to
// outputPath.
func ConvertFile(ctx context.Context, inputPath, outputPath, outputDir, prefix string) (int, error) {
	content, err := os.ReadFile(inputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to read input: %w", err)
	}
	out, converted, err := Convert(ctx, string(content), outputDir, prefix)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(outputPath, []byte(out), 0o644); err != nil {
		return 0, fmt.Errorf("failed to write output: %w", err)
	}
	return converted, nil
}

// runMmdc is swapped out in tests.
var runMmdc = func(ctx context.Context, mmdFile, pngFile string) error {
	args := append([]string{"-i", mmdFile, "-o", pngFile}, mmdcArgs...)
	cmd := exec.CommandContext(ctx, "mmdc", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("mmdc failed: %w, output: %v", err, strings.TrimSpace(string(output)))
	}
	return nil
}
