package internal

import (
	"os"
	"path/filepath"
	"testing"
)

func testProjectDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mdforge.json"), []byte(`{"sections": ["a.md"]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.md"), []byte("# A\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestGetModeFromArgs(t *testing.T) {
	tests := []struct {
		arg     string
		want    Mode
		wantErr bool
	}{
		{"build", BUILD, false},
		{"b", BUILD, false},
		{"toc", TOC, false},
		{"check", CHECK, false},
		{"lint", LINT, false},
		{"pdf", PDF, false},
		{"watch", WATCH, false},
		{"clean", CLEAN, false},
		{"deps", DEPS, false},
		{"init", INIT, false},
		{"help", HELP, false},
		{"version", VERSION, false},
		{"nonsense", HELP, true},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := getModeFromArgs(tt.arg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("mode = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetup_buildUsesProjectConfig(t *testing.T) {
	dir := testProjectDir(t)
	cmd, err := Setup("usage", []string{"-C", dir, "build"})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	build, ok := cmd.(buildCommand)
	if !ok {
		t.Fatalf("expected buildCommand, got %T", cmd)
	}
	if build.conf.Root != dir {
		t.Errorf("Root = %q, want %q", build.conf.Root, dir)
	}
}

func TestSetup_flagOverrides(t *testing.T) {
	dir := testProjectDir(t)
	cmd, err := Setup("usage", []string{"-C", dir, "-o", "out/x.md", "-depth", "2", "build"})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	build := cmd.(buildCommand)
	if build.conf.Output != "out/x.md" {
		t.Errorf("Output = %q", build.conf.Output)
	}
	if build.conf.TOC.MaxDepth != 2 {
		t.Errorf("MaxDepth = %v", build.conf.TOC.MaxDepth)
	}
}

func TestSetup_lintFixSubarg(t *testing.T) {
	dir := testProjectDir(t)
	cmd, err := Setup("usage", []string{"-C", dir, "lint", "fix"})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	lintCmd := cmd.(lintCommand)
	if !lintCmd.fix {
		t.Error("expected fix to be set")
	}
}

func TestSetup_pdfDefaultsToOnlyProfile(t *testing.T) {
	dir := t.TempDir()
	conf := `{"sections": ["a.md"], "pdf": {"ad": {"output": "build/ad.pdf"}}}`
	if err := os.WriteFile(filepath.Join(dir, "mdforge.json"), []byte(conf), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.md"), []byte("# A\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cmd, err := Setup("usage", []string{"-C", dir, "pdf"})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	pdfCmd := cmd.(pdfCommand)
	if pdfCmd.profile != "ad" {
		t.Errorf("profile = %q, want 'ad'", pdfCmd.profile)
	}
}

func TestSetup_checkExternalFlag(t *testing.T) {
	dir := testProjectDir(t)
	cmd, err := Setup("usage", []string{"-C", dir, "-external", "check"})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	checkCmd := cmd.(checkCommand)
	if !checkCmd.external {
		t.Error("expected external to be set")
	}
}

func TestSetup_noProject(t *testing.T) {
	if _, err := Setup("usage", []string{"-C", t.TempDir(), "build"}); err == nil {
		t.Fatal("expected error outside a project")
	}
}
