package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/mdforge/mdforge/internal/deps"
	"github.com/mdforge/mdforge/internal/links"
	"github.com/mdforge/mdforge/internal/lint"
	"github.com/mdforge/mdforge/internal/pdf"
	"github.com/mdforge/mdforge/internal/project"
	"github.com/mdforge/mdforge/internal/stitch"
	"github.com/mdforge/mdforge/internal/toc"
	"github.com/mdforge/mdforge/internal/utils"
	"github.com/mdforge/mdforge/internal/watch"
)

type helpCommand struct {
	usage string
}

func (h helpCommand) Run(context.Context) error {
	fmt.Print(h.usage)
	return nil
}

type initCommand struct {
	dir string
}

func (i initCommand) Run(context.Context) error {
	conf, err := project.Init(i.dir)
	if err != nil {
		return err
	}
	ancli.Okf("created '%v' with %v section(s)\n", filepath.Join(i.dir, project.ConfigFileName), len(conf.Sections))
	return nil
}

type buildCommand struct {
	conf project.Config
}

func (b buildCommand) Run(context.Context) error {
	if err := stitch.Build(b.conf); err != nil {
		return err
	}
	ancli.Okf("built: '%v'\n", b.conf.OutputPath())
	return nil
}

type tocCommand struct {
	conf project.Config
}

func (t tocCommand) Run(context.Context) error {
	if err := toc.Write(t.conf); err != nil {
		return err
	}
	ancli.Okf("generated: '%v'\n", t.conf.TOCPath())
	return nil
}

type checkCommand struct {
	conf     project.Config
	external bool
}

func (c checkCommand) Run(ctx context.Context) error {
	checker, err := links.New(c.conf, c.external)
	if err != nil {
		return err
	}
	broken, err := checker.Check(ctx)
	if err != nil {
		return err
	}
	if len(broken) > 0 {
		for _, b := range broken {
			ancli.PrintErr(fmt.Sprintf("%v\n", b))
		}
		return fmt.Errorf("found %v broken link(s)", len(broken))
	}
	ancli.Okf("no broken links found\n")
	return nil
}

type lintCommand struct {
	conf project.Config
	fix  bool
}

func (l lintCommand) Run(context.Context) error {
	findings, err := lint.Run(l.conf, l.fix)
	if err != nil {
		return err
	}
	if len(findings) > 0 {
		for _, f := range findings {
			ancli.PrintWarn(fmt.Sprintf("%v\n", f))
		}
		return fmt.Errorf("found %v lint finding(s)", len(findings))
	}
	ancli.Okf("lint clean\n")
	return nil
}

type pdfCommand struct {
	conf    project.Config
	profile string
}

func (p pdfCommand) Run(ctx context.Context) error {
	if p.profile == "" {
		return fmt.Errorf("no pdf profile given, configured profiles: %v", p.conf.ProfileNames())
	}
	return pdf.Render(ctx, p.conf, p.profile)
}

type watchCommand struct {
	conf project.Config
}

func (w watchCommand) Run(ctx context.Context) error {
	// Initial build so the watcher starts from a consistent output
	if err := stitch.Build(w.conf); err != nil {
		ancli.PrintWarn(fmt.Sprintf("initial build failed: %v\n", err))
	}
	return watch.Run(ctx, w.conf, func() error {
		return stitch.Build(w.conf)
	})
}

type cleanCommand struct {
	conf project.Config
}

func (c cleanCommand) Run(context.Context) error {
	targets := []string{c.conf.OutputPath(), c.conf.TOCPath()}
	for _, profile := range c.conf.PDF {
		targets = append(targets, filepath.Join(c.conf.Root, profile.Output))
	}
	for _, target := range targets {
		if err := utils.RemoveIfExists(target); err != nil {
			return err
		}
	}
	for _, profile := range c.conf.PDF {
		diagramDir := filepath.Join(c.conf.Root, profile.DiagramDir)
		if err := os.RemoveAll(diagramDir); err != nil {
			return fmt.Errorf("failed to remove diagram dir: %w", err)
		}
	}
	ancli.Okf("cleaned generated files\n")
	return nil
}

type depsCommand struct{}

func (depsCommand) Run(context.Context) error {
	if !deps.Report() {
		return fmt.Errorf("missing dependencies")
	}
	return nil
}
