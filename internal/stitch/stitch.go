// Package stitch concatenates the configured sections into the combined
// document, rewriting cross-file links into in-document anchors on the way.
package stitch

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/mdforge/mdforge/internal/markdown"
	"github.com/mdforge/mdforge/internal/project"
	"github.com/mdforge/mdforge/internal/toc"
	"github.com/mdforge/mdforge/internal/utils"
)

var linkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

// Build runs the full pipeline: verify every section exists, regenerate
// the TOC, then stitch all sections in order into conf.Output. The output
// is written atomically so a failing build never clobbers the previous
// combined document.
func Build(conf project.Config) error {
	if err := VerifySections(conf); err != nil {
		return err
	}
	if err := toc.Write(conf); err != nil {
		return fmt.Errorf("failed to generate toc: %w", err)
	}

	var b strings.Builder
	for i, section := range conf.Sections {
		path := filepath.Join(conf.Root, section)
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read section '%v': %w", section, err)
		}
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(RewriteLinks(string(content), path))
		if !strings.HasSuffix(string(content), "\n") {
			b.WriteString("\n")
		}
	}

	if err := utils.AtomicWrite(conf.OutputPath(), []byte(b.String())); err != nil {
		return fmt.Errorf("failed to write combined document: %w", err)
	}
	return nil
}

// VerifySections checks that every configured section file exists, and
// reports all missing ones at once rather than failing on the first.
// The TOC file is exempt, the build generates it.
func VerifySections(conf project.Config) error {
	var missing []string
	for _, section := range conf.Sections {
		if section == conf.TOC.File {
			continue
		}
		if _, err := os.Stat(filepath.Join(conf.Root, section)); err != nil {
			missing = append(missing, section)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing section files: %v", strings.Join(missing, ", "))
	}
	return nil
}

// RewriteLinks converts relative .md links in content into anchors that
// resolve inside the combined document. The anchor is derived from the
// target file's first H1 when it can be read. When the target has no H1,
// the basename minus any 'NN-' ordering prefix is used as a best guess.
// External links, bare anchors, mailto and non-markdown targets pass
// through untouched.
func RewriteLinks(content, sectionPath string) string {
	return linkPattern.ReplaceAllStringFunc(content, func(match string) string {
		m := linkPattern.FindStringSubmatch(match)
		text, dest := m[1], m[2]
		if markdown.IsExternal(dest) || strings.HasPrefix(dest, "#") {
			return match
		}
		destPath, fragment := markdown.SplitFragment(dest)
		if !strings.HasSuffix(destPath, ".md") {
			return match
		}
		// A fragment already names an anchor within the combined doc
		if fragment != "" {
			return fmt.Sprintf("[%v](#%v)", text, fragment)
		}
		target := filepath.Join(filepath.Dir(sectionPath), destPath)
		if title, ok, err := markdown.FirstH1(target); err == nil && ok {
			return fmt.Sprintf("[%v](#%v)", text, markdown.Slugify(title))
		} else if err != nil {
			ancli.PrintWarn(fmt.Sprintf("failed to read link target '%v': %v\n", target, err))
		}
		base := strings.TrimSuffix(filepath.Base(destPath), ".md")
		return fmt.Sprintf("[%v](#%v)", text, markdown.StripOrdinal(base))
	})
}
