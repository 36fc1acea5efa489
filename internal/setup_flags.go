package internal

import (
	"flag"
	"fmt"
	"os"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/mdforge/mdforge/internal/utils"
)

// Configurations holds the parsed CLI flags, applied on top of
// mdforge.json. Convention: flags > env > file > default.
type Configurations struct {
	// Chdir is where project discovery starts
	Chdir    string
	Output   string
	TOCDepth int
	External bool
}

var defaultFlags = Configurations{
	Chdir: ".",
}

// parseFlags parses CLI flags into an internal Configurations, returning
// the remaining positional args.
func parseFlags(defaults Configurations, args []string) (Configurations, []string, error) {
	fs := flag.NewFlagSet("mdforge", flag.ContinueOnError)
	fs.String("A-helpful-nonexisting-flag", "there is no default", "This isn't a flag. It's only here to tell you that 'mdforge help' gives a better overview of usage than 'mdforge -h'.")

	cShort := fs.String("C", defaults.Chdir, "Run as if started in this directory. Mutually exclusive with chdir flag.")
	cLong := fs.String("chdir", defaults.Chdir, "Run as if started in this directory. Mutually exclusive with C flag.")

	oShort := fs.String("o", defaults.Output, "Override the combined document output path. Mutually exclusive with output flag.")
	oLong := fs.String("output", defaults.Output, "Override the combined document output path. Mutually exclusive with o flag.")

	dShort := fs.Int("d", defaults.TOCDepth, "Override the deepest heading level included in the toc. Mutually exclusive with depth flag.")
	dLong := fs.Int("depth", defaults.TOCDepth, "Override the deepest heading level included in the toc. Mutually exclusive with d flag.")

	external := fs.Bool("external", defaults.External, "Also verify external http(s) links when checking. Requires network access.")

	err := fs.Parse(args)
	if err != nil {
		return Configurations{}, []string{}, fmt.Errorf("failed to parse args: %w", err)
	}

	postParseArgs := fs.Args()

	chdir, err := utils.ReturnNonDefault(*cShort, *cLong, defaults.Chdir)
	exitWithFlagError(err, "C", "chdir")
	output, err := utils.ReturnNonDefault(*oShort, *oLong, defaults.Output)
	exitWithFlagError(err, "o", "output")
	tocDepth, err := utils.ReturnNonDefault(*dShort, *dLong, defaults.TOCDepth)
	exitWithFlagError(err, "d", "depth")

	newConf := Configurations{
		Chdir:    chdir,
		Output:   output,
		TOCDepth: tocDepth,
		External: *external,
	}
	return newConf, postParseArgs, nil
}

func exitWithFlagError(err error, shortFlag, longFlag string) {
	if err != nil {
		ancli.PrintErr(fmt.Sprintf("%s and %s flags are mutually exclusive\n", shortFlag, longFlag))
		os.Exit(1)
	}
}
