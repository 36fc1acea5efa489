// Package links walks the corpus and verifies that every markdown link
// resolves: relative links to existing files, fragments to existing
// heading anchors and, optionally, external urls to reachable pages.
package links

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/gobwas/glob"
	"github.com/mdforge/mdforge/internal/markdown"
	"github.com/mdforge/mdforge/internal/project"
)

// Broken is one unresolvable link.
type Broken struct {
	// File is project-relative
	File   string
	Line   int
	Dest   string
	Reason string
}

func (b Broken) String() string {
	return fmt.Sprintf("%v:%v -> %v (%v)", b.File, b.Line, b.Dest, b.Reason)
}

// Checker verifies links across one project.
type Checker struct {
	conf project.Config
	// External enables http(s) verification
	External    bool
	ignoreFiles []glob.Glob
	// anchor sets per absolute file path, lazily built
	anchors map[string]map[string]struct{}
	// external verification results per url
	externalSeen map[string]string
}

// New compiles the config's ignore globs into a ready Checker.
func New(conf project.Config, external bool) (*Checker, error) {
	globs := make([]glob.Glob, 0, len(conf.Ignore.Files))
	for _, pattern := range conf.Ignore.Files {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad ignore pattern '%v': %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return &Checker{
		conf:         conf,
		External:     external,
		ignoreFiles:  globs,
		anchors:      make(map[string]map[string]struct{}),
		externalSeen: make(map[string]string),
	}, nil
}

// Check walks every markdown file under the project root and returns all
// broken links, sorted by file then line for stable output.
func (c *Checker) Check(ctx context.Context) ([]Broken, error) {
	files, err := c.corpusFiles()
	if err != nil {
		return nil, err
	}
	var broken []Broken
	for _, file := range files {
		found, err := c.checkFile(ctx, file)
		if err != nil {
			return nil, err
		}
		broken = append(broken, found...)
	}
	sort.Slice(broken, func(i, j int) bool {
		if broken[i].File != broken[j].File {
			return broken[i].File < broken[j].File
		}
		return broken[i].Line < broken[j].Line
	})
	return broken, nil
}

func (c *Checker) corpusFiles() ([]string, error) {
	skipDirs := make(map[string]struct{}, len(c.conf.Ignore.Dirs))
	for _, d := range c.conf.Ignore.Dirs {
		skipDirs[d] = struct{}{}
	}
	var files []string
	err := filepath.WalkDir(c.conf.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if _, skip := skipDirs[d.Name()]; skip && path != c.conf.Root {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		rel, err := filepath.Rel(c.conf.Root, path)
		if err != nil {
			return err
		}
		if c.ignored(rel) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk corpus: %w", err)
	}
	return files, nil
}

func (c *Checker) ignored(rel string) bool {
	// Globs match against slash-separated project-relative paths and
	// against the bare filename, so 'CHANGELOG.md' ignores it anywhere.
	slashed := filepath.ToSlash(rel)
	base := filepath.Base(rel)
	for _, g := range c.ignoreFiles {
		if g.Match(slashed) || g.Match(base) {
			return true
		}
	}
	// The generated combined doc is always skipped
	return slashed == filepath.ToSlash(c.conf.Output) || slashed == filepath.ToSlash(c.conf.TOC.File)
}

func (c *Checker) checkFile(ctx context.Context, path string) ([]Broken, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read '%v': %w", path, err)
	}
	rel, err := filepath.Rel(c.conf.Root, path)
	if err != nil {
		return nil, err
	}
	if misc.Truthy(os.Getenv("DEBUG")) {
		ancli.Okf("checking links in: '%v'\n", rel)
	}

	var broken []Broken
	for _, link := range markdown.ScanLinks(string(content)) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		reason := c.checkLink(ctx, path, link)
		if reason != "" {
			broken = append(broken, Broken{File: rel, Line: link.Line, Dest: link.Dest, Reason: reason})
		}
	}
	return broken, nil
}

// checkLink returns an empty string when the link resolves, else the
// reason it is considered broken.
func (c *Checker) checkLink(ctx context.Context, sourcePath string, link markdown.Link) string {
	dest := link.Dest
	if markdown.IsExternal(dest) {
		if !c.External || strings.HasPrefix(dest, "mailto:") {
			return ""
		}
		return c.checkExternal(ctx, dest)
	}
	// Anchor-only links are written against the stitched document, where
	// they may resolve to a heading from any section. They are skipped
	// here; the source corpus alone cannot judge them.
	if strings.HasPrefix(dest, "#") {
		return ""
	}

	destPath, fragment := markdown.SplitFragment(dest)
	if destPath == "" {
		return ""
	}
	var target string
	if strings.HasPrefix(destPath, "/") {
		// Absolute means project-root relative
		target = filepath.Join(c.conf.Root, strings.TrimPrefix(destPath, "/"))
	} else {
		target = filepath.Join(filepath.Dir(sourcePath), destPath)
	}
	target = filepath.Clean(target)
	if _, err := os.Stat(target); err != nil {
		return "target does not exist"
	}
	if fragment != "" && strings.HasSuffix(target, ".md") {
		return c.checkAnchor(target, fragment)
	}
	return ""
}

func (c *Checker) checkAnchor(target, fragment string) string {
	anchors, err := c.anchorsFor(target)
	if err != nil {
		return fmt.Sprintf("failed to read anchor target: %v", err)
	}
	if _, ok := anchors[fragment]; !ok {
		return fmt.Sprintf("no heading produces anchor '#%v'", fragment)
	}
	return ""
}

func (c *Checker) anchorsFor(path string) (map[string]struct{}, error) {
	if anchors, ok := c.anchors[path]; ok {
		return anchors, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	anchors := markdown.Anchors(markdown.ScanHeadings(string(content)))
	c.anchors[path] = anchors
	return anchors, nil
}
