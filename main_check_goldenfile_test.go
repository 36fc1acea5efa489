package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
)

func Test_goldenFile_CHECK_clean_corpus(t *testing.T) {
	dir := setupTestProject(t)

	var gotStatusCode int
	gotStdout := testboil.CaptureStdout(t, func(t *testing.T) {
		gotStatusCode = run([]string{"-C", dir, "check"})
	})

	testboil.FailTestIfDiff(t, gotStatusCode, 0)
	testboil.AssertStringContains(t, gotStdout, "no broken links")
}

func Test_goldenFile_CHECK_broken_link_fails(t *testing.T) {
	dir := setupTestProject(t)
	broken := "# Extra\n\nsee [gone](99-nope.md)\n"
	if err := os.WriteFile(filepath.Join(dir, "docs", "03-extra.md"), []byte(broken), 0o644); err != nil {
		t.Fatal(err)
	}

	var gotStatusCode int
	testboil.CaptureStdout(t, func(t *testing.T) {
		gotStatusCode = run([]string{"-C", dir, "check"})
	})
	testboil.FailTestIfDiff(t, gotStatusCode, 1)
}

func Test_goldenFile_LINT_and_fix(t *testing.T) {
	dir := setupTestProject(t)
	messy := filepath.Join(dir, "docs", "02-design.md")
	if err := os.WriteFile(messy, []byte("# Design  \n\n## Components\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var gotStatusCode int
	testboil.CaptureStdout(t, func(t *testing.T) {
		gotStatusCode = run([]string{"-C", dir, "lint"})
	})
	testboil.FailTestIfDiff(t, gotStatusCode, 1)

	testboil.CaptureStdout(t, func(t *testing.T) {
		gotStatusCode = run([]string{"-C", dir, "lint", "fix"})
	})
	testboil.FailTestIfDiff(t, gotStatusCode, 0)

	b, err := os.ReadFile(messy)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "# Design\n\n## Components\n" {
		t.Errorf("fix did not rewrite the file, got: %q", string(b))
	}
}
