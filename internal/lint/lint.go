// Package lint applies a small set of mechanical style rules to the
// corpus markdown. Rules with an unambiguous rewrite are fixable, the
// structural ones (heading jumps, duplicate headings) are report-only.
package lint

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mdforge/mdforge/internal/markdown"
	"github.com/mdforge/mdforge/internal/project"
)

const (
	RuleTrailingWhitespace = "trailing-whitespace"
	RuleNoFinalNewline     = "no-final-newline"
	RuleHardTab            = "hard-tab"
	RuleHeadingJump        = "heading-jump"
	RuleDuplicateHeading   = "duplicate-heading"
)

// Finding is one rule violation at a location.
type Finding struct {
	// File is project-relative
	File    string
	Line    int
	Rule    string
	Fixable bool
}

func (f Finding) String() string {
	return fmt.Sprintf("%v:%v %v", f.File, f.Line, f.Rule)
}

// Run lints every configured section. With fix set, the mechanical rules
// are rewritten in place first and only what remains is reported.
func Run(conf project.Config, fix bool) ([]Finding, error) {
	var findings []Finding
	for _, section := range conf.Sections {
		if section == conf.TOC.File {
			continue
		}
		path := filepath.Join(conf.Root, section)
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read section '%v': %w", section, err)
		}
		if fix {
			fixed := Fix(string(content))
			if fixed != string(content) {
				if err := os.WriteFile(path, []byte(fixed), 0o644); err != nil {
					return nil, fmt.Errorf("failed to write fixed section '%v': %w", section, err)
				}
				content = []byte(fixed)
			}
		}
		findings = append(findings, File(section, string(content))...)
	}
	return findings, nil
}

// File lints a single file's content. name is used in findings as-is.
func File(name, content string) []Finding {
	var findings []Finding
	lines := strings.Split(content, "\n")
	inFence := false
	for i, line := range lines {
		lineNo := i + 1
		if markdown.IsFence(line) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if line != strings.TrimRight(line, " \t") {
			findings = append(findings, Finding{File: name, Line: lineNo, Rule: RuleTrailingWhitespace, Fixable: true})
		}
		if strings.Contains(line, "\t") {
			findings = append(findings, Finding{File: name, Line: lineNo, Rule: RuleHardTab, Fixable: true})
		}
	}
	if content != "" && !strings.HasSuffix(content, "\n") {
		findings = append(findings, Finding{File: name, Line: len(lines), Rule: RuleNoFinalNewline, Fixable: true})
	}

	headings := markdown.ScanHeadings(content)
	prevLevel := 0
	for _, h := range headings {
		if prevLevel > 0 && h.Level > prevLevel+1 {
			findings = append(findings, Finding{File: name, Line: h.Line, Rule: RuleHeadingJump})
		}
		prevLevel = h.Level
	}
	seen := make(map[string]bool, len(headings))
	for _, h := range headings {
		anchor := markdown.Slugify(h.Title)
		if seen[anchor] {
			findings = append(findings, Finding{File: name, Line: h.Line, Rule: RuleDuplicateHeading})
		}
		seen[anchor] = true
	}
	return findings
}

// Fix applies the mechanical rewrites: strip trailing whitespace, expand
// hard tabs to four spaces, ensure a final newline. Fenced code blocks
// are left untouched.
func Fix(content string) string {
	lines := strings.Split(content, "\n")
	inFence := false
	for i, line := range lines {
		if markdown.IsFence(line) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		line = strings.TrimRight(line, " \t")
		line = strings.ReplaceAll(line, "\t", "    ")
		lines[i] = line
	}
	fixed := strings.Join(lines, "\n")
	if fixed != "" && !strings.HasSuffix(fixed, "\n") {
		fixed += "\n"
	}
	return fixed
}
