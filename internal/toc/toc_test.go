package toc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mdforge/mdforge/internal/project"
)

func testProject(t *testing.T, sections map[string]string) project.Config {
	t.Helper()
	root := t.TempDir()
	conf := project.Default
	conf.Root = root
	for name, content := range sections {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		conf.Sections = append(conf.Sections, name)
	}
	return conf
}

func TestGenerate(t *testing.T) {
	conf := testProject(t, map[string]string{
		"01-intro.md": "# Introduction\n\n## Purpose\n\n#### Too Deep\n",
	})
	conf.Sections = []string{"01-intro.md"}

	got, err := Generate(conf)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, want := range []string{
		"# Table of Contents",
		"- [Introduction](#introduction)",
		"  - [Purpose](#purpose)",
		conf.TOC.PageBreak,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%v", want, got)
		}
	}
	if strings.Contains(got, "Too Deep") {
		t.Errorf("heading beyond max depth leaked into toc:\n%v", got)
	}
}

func TestGenerate_duplicateAnchorsAcrossSections(t *testing.T) {
	conf := testProject(t, map[string]string{})
	conf.Sections = []string{"a.md", "b.md"}
	for _, name := range conf.Sections {
		if err := os.WriteFile(filepath.Join(conf.Root, name), []byte("# Doc\n## Overview\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := Generate(conf)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(got, "(#overview)") || !strings.Contains(got, "(#overview-1)") {
		t.Errorf("expected deduplicated anchors, got:\n%v", got)
	}
}

func TestGenerate_missingSection(t *testing.T) {
	conf := testProject(t, map[string]string{})
	conf.Sections = []string{"missing.md"}
	if _, err := Generate(conf); err == nil {
		t.Fatal("expected error for missing section file")
	}
}

func TestGenerate_excludesTOCFile(t *testing.T) {
	conf := testProject(t, map[string]string{})
	tocRel := conf.TOC.File
	path := filepath.Join(conf.Root, tocRel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("# Table of Contents\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(conf.Root, "01-a.md"), []byte("# Alpha\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	conf.Sections = []string{tocRel, "01-a.md"}

	got, err := Generate(conf)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if strings.Count(got, "Table of Contents") != 1 {
		t.Errorf("toc file should not index itself:\n%v", got)
	}
}

func TestWrite(t *testing.T) {
	conf := testProject(t, map[string]string{
		"01-a.md": "# Alpha\n",
	})
	conf.Sections = []string{"01-a.md"}
	if err := Write(conf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	b, err := os.ReadFile(conf.TOCPath())
	if err != nil {
		t.Fatalf("toc file not written: %v", err)
	}
	if !strings.Contains(string(b), "- [Alpha](#alpha)") {
		t.Errorf("unexpected toc content:\n%v", string(b))
	}
}
