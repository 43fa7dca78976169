package installer

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func testBundle(name string, files map[string]string) *Bundle {
	b := &Bundle{Name: name, Files: make(map[string][]byte, len(files))}
	for rel, content := range files {
		b.Files[rel] = []byte(content)
	}
	return b
}

func TestInstallSkill(t *testing.T) {
	target := filepath.Join(t.TempDir(), "code-review")
	b := testBundle("code-review", map[string]string{
		"SKILL.md":         "# Code Review\n",
		"scripts/check.sh": "#!/bin/sh\n",
	})

	manifest, err := InstallSkill(b, target, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"SKILL.md", "scripts/check.sh"}
	if !reflect.DeepEqual(manifest, want) {
		t.Errorf("manifest = %v, want %v", manifest, want)
	}
	for _, rel := range want {
		if _, err := os.Stat(filepath.Join(target, filepath.FromSlash(rel))); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}
}

func TestInstallSkillRefusesUnrelatedFiles(t *testing.T) {
	target := filepath.Join(t.TempDir(), "code-review")
	writeFile(t, filepath.Join(target, "SKILL.md"), "someone else's skill\n")

	b := testBundle("code-review", map[string]string{"SKILL.md": "ours\n"})
	if _, err := InstallSkill(b, target, nil); err == nil {
		t.Fatal("expected an error overwriting an unmanaged file")
	} else if !strings.Contains(err.Error(), "SKILL.md") {
		t.Errorf("error does not name the file: %v", err)
	}

	if got := readFile(t, filepath.Join(target, "SKILL.md")); got != "someone else's skill\n" {
		t.Error("unmanaged file was overwritten")
	}
}

func TestInstallSkillOverwritesOwnFiles(t *testing.T) {
	target := filepath.Join(t.TempDir(), "code-review")
	b := testBundle("code-review", map[string]string{"SKILL.md": "v1\n"})

	manifest, err := InstallSkill(b, target, nil)
	if err != nil {
		t.Fatal(err)
	}

	b.Files["SKILL.md"] = []byte("v2\n")
	if _, err := InstallSkill(b, target, manifest); err != nil {
		t.Fatalf("reinstall over own files: %v", err)
	}
	if got := readFile(t, filepath.Join(target, "SKILL.md")); got != "v2\n" {
		t.Errorf("SKILL.md = %q", got)
	}
}

func TestInstallSkillDropsStaleFiles(t *testing.T) {
	target := filepath.Join(t.TempDir(), "code-review")
	v1 := testBundle("code-review", map[string]string{
		"SKILL.md":      "v1\n",
		"extra/old.txt": "old\n",
	})
	manifest, err := InstallSkill(v1, target, nil)
	if err != nil {
		t.Fatal(err)
	}

	v2 := testBundle("code-review", map[string]string{"SKILL.md": "v2\n"})
	manifest, err = InstallSkill(v2, target, manifest)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(manifest, []string{"SKILL.md"}) {
		t.Errorf("manifest = %v", manifest)
	}
	if _, err := os.Stat(filepath.Join(target, "extra", "old.txt")); !os.IsNotExist(err) {
		t.Error("stale file survived upgrade")
	}
	if _, err := os.Stat(filepath.Join(target, "extra")); !os.IsNotExist(err) {
		t.Error("emptied subdirectory survived upgrade")
	}
}

func TestRemoveSkillPrecision(t *testing.T) {
	skillsRoot := t.TempDir()

	review := testBundle("code-review", map[string]string{
		"SKILL.md":         "# Code Review\n",
		"scripts/check.sh": "#!/bin/sh\n",
	})
	reviewDir := filepath.Join(skillsRoot, "code-review")
	reviewManifest, err := InstallSkill(review, reviewDir, nil)
	if err != nil {
		t.Fatal(err)
	}

	docs := testBundle("docs", map[string]string{"SKILL.md": "# Docs\n"})
	docsDir := filepath.Join(skillsRoot, "docs")
	if _, err := InstallSkill(docs, docsDir, nil); err != nil {
		t.Fatal(err)
	}

	if err := RemoveSkill(reviewDir, reviewManifest); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(reviewDir); !os.IsNotExist(err) {
		t.Error("removed skill directory still exists")
	}
	if got := readFile(t, filepath.Join(docsDir, "SKILL.md")); got != "# Docs\n" {
		t.Error("co-located skill was damaged")
	}
}

func TestRemoveSkillKeepsUnmanagedFiles(t *testing.T) {
	target := filepath.Join(t.TempDir(), "code-review")
	b := testBundle("code-review", map[string]string{"SKILL.md": "ours\n"})
	manifest, err := InstallSkill(b, target, nil)
	if err != nil {
		t.Fatal(err)
	}

	// A file someone dropped into the skill directory after install.
	writeFile(t, filepath.Join(target, "notes.txt"), "keep\n")

	if err := RemoveSkill(target, manifest); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, filepath.Join(target, "notes.txt")); got != "keep\n" {
		t.Error("unmanaged file was deleted")
	}
	if _, err := os.Stat(target); err != nil {
		t.Error("non-empty skill directory was deleted")
	}
}

func TestBundleFromDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "code-review")
	writeFile(t, filepath.Join(dir, "SKILL.md"), "# Code Review\n")
	writeFile(t, filepath.Join(dir, "scripts", "check.sh"), "#!/bin/sh\n")

	b, err := BundleFromDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if b.Name != "code-review" {
		t.Errorf("name = %q", b.Name)
	}
	if len(b.Files) != 2 {
		t.Errorf("files = %v", b.Files)
	}
	if string(b.Files["scripts/check.sh"]) != "#!/bin/sh\n" {
		t.Errorf("scripts/check.sh = %q", b.Files["scripts/check.sh"])
	}

	if _, err := BundleFromDir(filepath.Join(t.TempDir(), "empty")); err == nil {
		t.Error("expected an error for a missing bundle directory")
	}
}
