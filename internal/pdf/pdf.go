// Package pdf renders a named profile of the corpus to PDF via pandoc,
// converting mermaid diagrams to images first.
package pdf

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/mdforge/mdforge/internal/deps"
	"github.com/mdforge/mdforge/internal/mermaid"
	"github.com/mdforge/mdforge/internal/project"
	"github.com/mdforge/mdforge/internal/stitch"
)

// Render builds the combined document, converts its mermaid blocks and
// invokes pandoc per the named profile.
func Render(ctx context.Context, conf project.Config, profileName string) error {
	profile, ok := conf.PDF[profileName]
	if !ok {
		names := conf.ProfileNames()
		if len(names) == 0 {
			return fmt.Errorf("no pdf profiles configured in %v", project.ConfigFileName)
		}
		return fmt.Errorf("unknown pdf profile '%v', configured profiles: %v", profileName, strings.Join(names, ", "))
	}
	if err := requireDeps("pandoc"); err != nil {
		return err
	}

	buildConf := conf
	if len(profile.Sections) > 0 {
		buildConf.Sections = profile.Sections
	}
	if err := stitch.Build(buildConf); err != nil {
		return fmt.Errorf("failed to build combined document: %w", err)
	}

	combined, err := os.ReadFile(buildConf.OutputPath())
	if err != nil {
		return fmt.Errorf("failed to read combined document: %w", err)
	}
	if mermaid.HasBlocks(string(combined)) {
		if err := requireDeps("mmdc"); err != nil {
			return err
		}
	}

	diagramDir := filepath.Join(conf.Root, profile.DiagramDir)
	pdfInput := filepath.Join(diagramDir, profileName+"-input.md")
	converted, err := mermaid.ConvertFile(ctx, buildConf.OutputPath(), pdfInput, diagramDir, profile.DiagramPrefix)
	if err != nil {
		return fmt.Errorf("failed to convert diagrams: %w", err)
	}
	if converted > 0 {
		ancli.Okf("converted %v mermaid diagram(s)\n", converted)
	}

	output := filepath.Join(conf.Root, profile.Output)
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("failed to create pdf output dir: %w", err)
	}
	if err := runPandoc(ctx, pdfInput, output, profile); err != nil {
		return err
	}
	ancli.Okf("rendered: '%v'\n", output)
	return nil
}

// requireDeps and runPandoc are swapped out in tests.
var requireDeps = deps.Require

var runPandoc = func(ctx context.Context, input, output string, profile project.PDFProfile) error {
	args := []string{input, "-o", output, "--from", "gfm"}
	if profile.Title != "" {
		args = append(args, "--metadata", "title="+profile.Title)
	}
	args = append(args, profile.PandocArgs...)
	cmd := exec.CommandContext(ctx, "pandoc", args...)
	cmd.Dir = filepath.Dir(input)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("pandoc failed: %w, output: %v", err, strings.TrimSpace(string(out)))
	}
	return nil
}
