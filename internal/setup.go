package internal

import (
	"fmt"

	"github.com/mdforge/mdforge/internal/models"
	"github.com/mdforge/mdforge/internal/project"
)

type Mode int

const (
	HELP Mode = iota
	INIT
	BUILD
	TOC
	CHECK
	LINT
	PDF
	WATCH
	CLEAN
	DEPS
	VERSION
)

func getModeFromArgs(cmd string) (Mode, error) {
	switch cmd {
	case "build", "b":
		return BUILD, nil
	case "toc", "t":
		return TOC, nil
	case "check", "c":
		return CHECK, nil
	case "lint", "l":
		return LINT, nil
	case "pdf":
		return PDF, nil
	case "watch", "w":
		return WATCH, nil
	case "clean":
		return CLEAN, nil
	case "deps":
		return DEPS, nil
	case "init", "i":
		return INIT, nil
	case "help", "h":
		return HELP, nil
	case "version", "v":
		return VERSION, nil
	default:
		return HELP, fmt.Errorf("unknown command: '%s'", cmd)
	}
}

// Setup parses args and constructs the Command to run. usage is printed
// by the help command.
func Setup(usage string, args []string) (models.Command, error) {
	flagSet, args, err := parseFlags(defaultFlags, args)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return helpCommand{usage: usage}, nil
	}
	mode, err := getModeFromArgs(args[0])
	if err != nil {
		return nil, err
	}

	switch mode {
	case HELP:
		return helpCommand{usage: usage}, nil
	case VERSION:
		return versionCommand{}, nil
	case DEPS:
		return depsCommand{}, nil
	case INIT:
		return initCommand{dir: flagSet.Chdir}, nil
	}

	// Everything below operates on a project
	root, err := project.FindRoot(flagSet.Chdir)
	if err != nil {
		return nil, err
	}
	conf, err := project.Load(root)
	if err != nil {
		return nil, err
	}
	applyFlagOverrides(&conf, flagSet, defaultFlags)

	switch mode {
	case BUILD:
		return buildCommand{conf: conf}, nil
	case TOC:
		return tocCommand{conf: conf}, nil
	case CHECK:
		return checkCommand{conf: conf, external: flagSet.External}, nil
	case LINT:
		fix := len(args) > 1 && args[1] == "fix"
		return lintCommand{conf: conf, fix: fix}, nil
	case PDF:
		profile := ""
		if len(args) > 1 {
			profile = args[1]
		} else if names := conf.ProfileNames(); len(names) == 1 {
			profile = names[0]
		}
		return pdfCommand{conf: conf, profile: profile}, nil
	case WATCH:
		return watchCommand{conf: conf}, nil
	case CLEAN:
		return cleanCommand{conf: conf}, nil
	default:
		return nil, fmt.Errorf("unknown mode: %v", mode)
	}
}

// applyFlagOverrides sets conf fields from flags, only when the flag
// differs from its default. Without the default check, an unset flag
// would clobber the file's value.
func applyFlagOverrides(conf *project.Config, flagSet, defaults Configurations) {
	if flagSet.Output != defaults.Output {
		conf.Output = flagSet.Output
	}
	if flagSet.TOCDepth != defaults.TOCDepth {
		conf.TOC.MaxDepth = flagSet.TOCDepth
	}
}
