// Package deps knows which external binaries mdforge shells out to and
// how to tell the user to install the missing ones.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
)

// Dependency is one external binary some command needs.
type Dependency struct {
	Name        string
	Purpose     string
	InstallHint string
}

// Status is a Dependency plus whether it was found on PATH.
type Status struct {
	Dependency
	Found bool
	Path  string
}

// All the binaries the pdf pipeline uses. Core commands (build, check,
// lint, watch) need nothing external.
var All = []Dependency{
	{
		Name:        "pandoc",
		Purpose:     "pdf rendering",
		InstallHint: "https://pandoc.org/installing.html",
	},
	{
		Name:        "mmdc",
		Purpose:     "mermaid diagram conversion",
		InstallHint: "npm install -g @mermaid-js/mermaid-cli",
	},
}

// lookPath is swapped out in tests.
var lookPath = exec.LookPath

// Check resolves every dependency on PATH.
func Check() []Status {
	statuses := make([]Status, 0, len(All))
	for _, dep := range All {
		path, err := lookPath(dep.Name)
		statuses = append(statuses, Status{Dependency: dep, Found: err == nil, Path: path})
	}
	return statuses
}

// Require returns an error when any of the named binaries is missing,
// with its install hint.
func Require(names ...string) error {
	byName := make(map[string]Status)
	for _, s := range Check() {
		byName[s.Name] = s
	}
	var missing []string
	for _, name := range names {
		s, ok := byName[name]
		if !ok {
			missing = append(missing, fmt.Sprintf("unknown dependency '%v'", name))
			continue
		}
		if !s.Found {
			missing = append(missing, fmt.Sprintf("'%v' (%v)", name, s.InstallHint))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required binaries: %v", strings.Join(missing, ", "))
	}
	return nil
}

// Report prints the status of every dependency and returns false when
// any is missing.
func Report() bool {
	allFound := true
	for _, s := range Check() {
		if s.Found {
			ancli.Okf("%v (%v): %v\n", s.Name, s.Purpose, s.Path)
		} else {
			allFound = false
			ancli.Warnf("%v (%v): not found, install via: %v\n", s.Name, s.Purpose, s.InstallHint)
		}
	}
	return allFound
}
