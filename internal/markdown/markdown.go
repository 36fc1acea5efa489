// Package markdown holds the line-level scanning primitives shared by the
// toc, stitch, links and lint packages. It is deliberately not a full
// markdown parser: headings and links are the only constructs mdforge
// cares about, and both are line-oriented.
package markdown

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Heading is a single ATX heading found in a markdown file.
type Heading struct {
	// Level is the amount of leading '#', 1 through 6
	Level int
	Title string
	// Line is 1-indexed
	Line int
}

// Link is an inline markdown link, [Text](Dest).
type Link struct {
	Text string
	Dest string
	Line int
}

var (
	headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*$`)
	linkPattern    = regexp.MustCompile(`\[([^\]]*)\]\(([^)]+)\)`)
	fencePattern   = regexp.MustCompile("^(```|~~~)")
	ordinalPrefix  = regexp.MustCompile(`^\d+[-_]`)
	slugStrip      = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugCollapse   = regexp.MustCompile(`[\s-]+`)
)

// Slugify converts a heading title to its anchor, approximating pandoc's
// identifier generation: lowercase, strip anything that isn't alphanumeric,
// space or hyphen, then collapse runs of spaces/hyphens to a single hyphen.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugCollapse.ReplaceAllString(s, "-")
	return s
}

// IsFence reports whether a line opens or closes a fenced code block,
// either backtick or tilde style.
func IsFence(line string) bool {
	return fencePattern.MatchString(line)
}

// StripOrdinal removes a leading 'NN-' or 'NN_' section ordering prefix,
// so that '02-security-architecture' becomes 'security-architecture'.
func StripOrdinal(base string) string {
	return ordinalPrefix.ReplaceAllString(base, "")
}

// ScanHeadings returns all ATX headings in content. Lines inside fenced
// code blocks are skipped, since a '# comment' in a shell snippet is not
// a heading.
func ScanHeadings(content string) []Heading {
	var headings []Heading
	inFence := false
	for i, line := range splitLines(content) {
		if fencePattern.MatchString(line) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		m := headingPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		headings = append(headings, Heading{
			Level: len(m[1]),
			Title: strings.TrimSpace(m[2]),
			Line:  i + 1,
		})
	}
	return headings
}

// ScanLinks returns all inline links in content, skipping fenced code.
func ScanLinks(content string) []Link {
	var links []Link
	inFence := false
	for i, line := range splitLines(content) {
		if fencePattern.MatchString(line) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		for _, m := range linkPattern.FindAllStringSubmatch(line, -1) {
			links = append(links, Link{Text: m[1], Dest: m[2], Line: i + 1})
		}
	}
	return links
}

// Anchors returns the set of anchors the given headings produce, with
// pandoc-style '-1', '-2' suffixes for duplicates.
func Anchors(headings []Heading) map[string]struct{} {
	anchors := make(map[string]struct{}, len(headings))
	seen := make(map[string]int, len(headings))
	for _, h := range headings {
		anchor := Slugify(h.Title)
		if n, ok := seen[anchor]; ok {
			seen[anchor] = n + 1
			anchor = fmt.Sprintf("%v-%v", anchor, n)
		} else {
			seen[anchor] = 1
		}
		anchors[anchor] = struct{}{}
	}
	return anchors
}

// IsExternal reports whether a link destination leaves the corpus.
func IsExternal(dest string) bool {
	return strings.HasPrefix(dest, "http://") ||
		strings.HasPrefix(dest, "https://") ||
		strings.HasPrefix(dest, "mailto:")
}

// FirstH1 scans the file at path for its first level-1 heading and returns
// the title. ok is false when the file has no H1.
func FirstH1(path string) (title string, ok bool, err error) {
	file, err := os.Open(path)
	if err != nil {
		return "", false, fmt.Errorf("failed to open markdown file: %w", err)
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	inFence := false
	for scanner.Scan() {
		line := scanner.Text()
		if fencePattern.MatchString(line) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:]), true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", false, fmt.Errorf("failed to scan markdown file: %w", err)
	}
	return "", false, nil
}

// SplitFragment splits a link destination into its path and fragment
// parts. '02-security.md#threats' yields ('02-security.md', 'threats').
func SplitFragment(dest string) (path, fragment string) {
	if i := strings.IndexByte(dest, '#'); i >= 0 {
		return dest[:i], dest[i+1:]
	}
	return dest, ""
}

func splitLines(content string) []string {
	return strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
}
