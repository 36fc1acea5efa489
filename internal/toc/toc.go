// Package toc generates the table-of-contents section from the headings
// of every other section in the corpus.
package toc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mdforge/mdforge/internal/markdown"
	"github.com/mdforge/mdforge/internal/project"
	"github.com/mdforge/mdforge/internal/utils"
)

// Generate renders the TOC markdown for conf's sections. The TOC file
// itself is excluded from the scan so regeneration stays stable. Anchors
// are deduplicated across the whole corpus the same way pandoc does when
// it renders the combined document.
func Generate(conf project.Config) (string, error) {
	var b strings.Builder
	b.WriteString("# Table of Contents\n\n")

	seen := make(map[string]int)
	for _, section := range conf.Sections {
		if section == conf.TOC.File {
			continue
		}
		path := filepath.Join(conf.Root, section)
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read section '%v': %w", section, err)
		}
		for _, h := range markdown.ScanHeadings(string(content)) {
			if h.Level > conf.TOC.MaxDepth {
				continue
			}
			anchor := markdown.Slugify(h.Title)
			if n, ok := seen[anchor]; ok {
				seen[anchor] = n + 1
				anchor = fmt.Sprintf("%v-%v", anchor, n)
			} else {
				seen[anchor] = 1
			}
			indent := strings.Repeat("  ", h.Level-1)
			fmt.Fprintf(&b, "%v- [%v](#%v)\n", indent, h.Title, anchor)
		}
	}

	b.WriteString("\n" + conf.TOC.PageBreak + "\n")
	return b.String(), nil
}

// Write generates the TOC and writes it to conf's TOC file.
func Write(conf project.Config) error {
	content, err := Generate(conf)
	if err != nil {
		return err
	}
	if err := utils.AtomicWrite(conf.TOCPath(), []byte(content)); err != nil {
		return fmt.Errorf("failed to write toc: %w", err)
	}
	return nil
}
