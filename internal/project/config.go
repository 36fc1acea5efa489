// Package project owns mdforge.json: the ordered section list, output
// locations and per-command settings for one documentation corpus.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/joeshaw/envdecode"
	"github.com/mdforge/mdforge/internal/utils"
	"golang.org/x/exp/maps"
)

const ConfigFileName = "mdforge.json"

// TOC configures table-of-contents generation.
type TOC struct {
	// File receives the generated TOC. When it also appears in Sections,
	// the stitched document includes it at that position.
	File string `json:"file"`
	// MaxDepth is the deepest heading level included, default 3
	MaxDepth  int    `json:"max-depth"`
	PageBreak string `json:"page-break"`
}

// Ignore holds the link checker's skip lists. Dirs are matched by name,
// Files are glob patterns matched against project-relative paths.
type Ignore struct {
	Dirs  []string `json:"dirs"`
	Files []string `json:"files"`
}

// PDFProfile describes one named `mdforge pdf <profile>` output.
type PDFProfile struct {
	Title string `json:"title"`
	// Sections overrides the project section list, empty means all
	Sections      []string `json:"sections,omitempty"`
	Output        string   `json:"output"`
	DiagramDir    string   `json:"diagram-dir"`
	DiagramPrefix string   `json:"diagram-prefix"`
	PandocArgs    []string `json:"pandoc-args,omitempty"`
}

// Watch configures the rebuild-on-change loop.
type Watch struct {
	DebounceMS int `json:"debounce-ms"`
}

type Config struct {
	// Sections is the ordered list of markdown files that make up the
	// combined document, relative to the project root.
	Sections []string              `json:"sections"`
	Output   string                `json:"output"`
	TOC      TOC                   `json:"toc"`
	Ignore   Ignore                `json:"ignore"`
	PDF      map[string]PDFProfile `json:"pdf,omitempty"`
	Watch    Watch                 `json:"watch"`

	// Root is the absolute directory holding mdforge.json
	Root string `json:"-"`
}

// envOverrides are applied after the config file is read. Handy in CI,
// where rewriting mdforge.json per pipeline is annoying.
type envOverrides struct {
	Output   string `env:"MDFORGE_OUTPUT"`
	TOCFile  string `env:"MDFORGE_TOC_FILE"`
	MaxDepth int    `env:"MDFORGE_TOC_DEPTH"`
}

var Default = Config{
	Sections: []string{},
	Output:   filepath.Join("build", "combined.md"),
	TOC: TOC{
		File:      filepath.Join("docs", "00-table-of-contents.md"),
		MaxDepth:  3,
		PageBreak: `<div class="page-break"></div>`,
	},
	Ignore: Ignore{
		Dirs:  []string{".git", ".github", "node_modules", "scripts", "build", "dist"},
		Files: []string{"CHANGELOG.md", "build/*"},
	},
	Watch: Watch{DebounceMS: 400},
}

// Load reads mdforge.json from root, backfills defaults for fields the
// file omits and applies MDFORGE_* environment overrides.
func Load(root string) (Config, error) {
	configPath := filepath.Join(root, ConfigFileName)
	if misc.Truthy(os.Getenv("DEBUG")) {
		ancli.Okf("attempting to load config: '%v'\n", configPath)
	}
	var conf Config
	if err := utils.ReadJSON(configPath, &conf); err != nil {
		return Config{}, fmt.Errorf("failed to load project config: %w", err)
	}
	conf.Root = root
	backfillDefaults(&conf)

	var env envOverrides
	// All override fields are optional, a decode miss is fine
	_ = envdecode.Decode(&env)
	if env.Output != "" {
		conf.Output = env.Output
	}
	if env.TOCFile != "" {
		conf.TOC.File = env.TOCFile
	}
	if env.MaxDepth != 0 {
		conf.TOC.MaxDepth = env.MaxDepth
	}

	if err := conf.validate(); err != nil {
		return Config{}, err
	}
	return conf, nil
}

// FindRoot walks upwards from start until it finds a directory holding
// mdforge.json, mirroring how git locates its repository root.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve start dir: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", utils.ErrNoProject
		}
		dir = parent
	}
}

// Init writes a starter mdforge.json into dir. The section list is seeded
// with every markdown file found outside the default ignore dirs, sorted,
// which for numbered corpora ('01-intro.md', '02-design.md', ...) is
// already the intended build order.
func Init(dir string) (Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); err == nil {
		return Config{}, fmt.Errorf("'%v' already exists, refusing to overwrite", configPath)
	}
	conf := Default
	sections, err := findMarkdownFiles(dir, conf.Ignore.Dirs)
	if err != nil {
		return Config{}, fmt.Errorf("failed to scan for markdown files: %w", err)
	}
	conf.Sections = sections
	if err := utils.CreateJSON(configPath, &conf); err != nil {
		return Config{}, fmt.Errorf("failed to write config: %w", err)
	}
	conf.Root = dir
	return conf, nil
}

// ProfileNames returns the configured pdf profile names, sorted.
func (c Config) ProfileNames() []string {
	names := maps.Keys(c.PDF)
	sort.Strings(names)
	return names
}

// SectionPaths returns the section list resolved against the project root.
func (c Config) SectionPaths() []string {
	paths := make([]string, 0, len(c.Sections))
	for _, s := range c.Sections {
		paths = append(paths, filepath.Join(c.Root, s))
	}
	return paths
}

// OutputPath returns the combined document path resolved against the root.
func (c Config) OutputPath() string {
	return filepath.Join(c.Root, c.Output)
}

// TOCPath returns the TOC file path resolved against the root.
func (c Config) TOCPath() string {
	return filepath.Join(c.Root, c.TOC.File)
}

func (c Config) validate() error {
	if len(c.Sections) == 0 {
		return fmt.Errorf("config '%v' has no sections, nothing to build", filepath.Join(c.Root, ConfigFileName))
	}
	for _, s := range c.Sections {
		if filepath.IsAbs(s) {
			return fmt.Errorf("section '%v' must be relative to the project root", s)
		}
	}
	for name, prof := range c.PDF {
		if prof.Output == "" {
			return fmt.Errorf("pdf profile '%v' has no output path", name)
		}
	}
	return nil
}

func backfillDefaults(conf *Config) {
	if conf.Output == "" {
		conf.Output = Default.Output
	}
	if conf.TOC.File == "" {
		conf.TOC.File = Default.TOC.File
	}
	if conf.TOC.MaxDepth == 0 {
		conf.TOC.MaxDepth = Default.TOC.MaxDepth
	}
	if conf.TOC.PageBreak == "" {
		conf.TOC.PageBreak = Default.TOC.PageBreak
	}
	if conf.Ignore.Dirs == nil {
		conf.Ignore.Dirs = Default.Ignore.Dirs
	}
	if conf.Ignore.Files == nil {
		conf.Ignore.Files = Default.Ignore.Files
	}
	if conf.Watch.DebounceMS == 0 {
		conf.Watch.DebounceMS = Default.Watch.DebounceMS
	}
	for name, prof := range conf.PDF {
		if prof.DiagramDir == "" {
			prof.DiagramDir = filepath.Join("build", "diagrams")
		}
		if prof.DiagramPrefix == "" {
			prof.DiagramPrefix = name
		}
		conf.PDF[name] = prof
	}
}

func findMarkdownFiles(root string, ignoreDirs []string) ([]string, error) {
	skip := make(map[string]struct{}, len(ignoreDirs))
	for _, d := range ignoreDirs {
		skip[d] = struct{}{}
	}
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if _, ignored := skip[d.Name()]; ignored && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
