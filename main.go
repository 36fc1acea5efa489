package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/baalimago/go_away_boilerplate/pkg/shutdown"
	"github.com/mdforge/mdforge/internal"
	"github.com/mdforge/mdforge/internal/utils"
)

const usage = `mdforge - (m)ark(d)own corpus (forge)

Builds a documentation corpus: stitches ordered markdown sections into one
combined document, generates its table of contents, rewrites cross-file links
into anchors, checks links, lints, and renders PDFs via pandoc.

Configuration lives in mdforge.json at the project root. 'mdforge init'
creates one seeded with the markdown files it finds.

Usage: mdforge [flags] <command>

Flags:
  -C, -chdir string       Run as if started in this directory. (default '.')
  -o, -output string      Override the combined document output path.
  -d, -depth int          Override the deepest heading level included in the toc.
  -external bool          Also verify external http(s) links when checking. (default false)

Commands:
  h|help                  Display this help message
  i|init                  Create mdforge.json, seeded with the markdown files found
  b|build                 Generate the toc and stitch all sections into the combined document
  t|toc                   Generate only the table of contents file
  c|check                 Verify that every markdown link resolves, exit 1 on broken links
  l|lint [fix]            Lint the sections. 'fix' rewrites the mechanical findings in place
  pdf [profile]           Render a configured pdf profile (converts mermaid diagrams first)
  w|watch                 Rebuild the combined document whenever a section changes
  clean                   Remove generated files (combined doc, toc, pdfs, diagrams)
  deps                    Report whether pandoc and mmdc are installed
  v|version               Print version information

Examples:
  - mdforge init
  - mdforge build
  - mdforge -o build/review.md build
  - mdforge -external check
  - mdforge lint fix
  - mdforge pdf ad
  - mdforge -C docs/architecture watch

Environment:
  - MDFORGE_OUTPUT, MDFORGE_TOC_FILE, MDFORGE_TOC_DEPTH override mdforge.json
  - Set NO_COLOR to disable ansi color output
  - Set DEBUG to print verbose progress
`

func run(args []string) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { shutdown.Monitor(cancel) }()

	command, err := internal.Setup(usage, args)
	if err != nil {
		if errors.Is(err, utils.ErrNoProject) {
			ancli.PrintErr(fmt.Sprintf("%v\n", err))
			return 1
		}
		ancli.PrintErr(fmt.Sprintf("failed to setup: %v\n", err))
		return 1
	}
	if err := command.Run(ctx); err != nil {
		ancli.PrintErr(fmt.Sprintf("failed to run: %v\n", err))
		return 1
	}
	if misc.Truthy(os.Getenv("DEBUG")) {
		ancli.PrintOK("things seems to have worked out. Bye bye! 🚀\n")
	}
	return 0
}

func main() {
	ancli.SetupSlog()
	if misc.Truthy(os.Getenv("DEBUG_CPU")) {
		f, err := os.Create("cpu_profile.prof")
		if err != nil {
			ancli.PrintErr(fmt.Sprintf("failed to create profiler file: %v", err))
		} else {
			defer f.Close()
			if err := pprof.StartCPUProfile(f); err != nil {
				ancli.PrintErr(fmt.Sprintf("failed to start profiler: %v", err))
			}
			defer pprof.StopCPUProfile()
		}
	}

	exitCode := run(os.Args[1:])
	if exitCode != 0 {
		pprof.StopCPUProfile()
		os.Exit(exitCode)
	}
}
