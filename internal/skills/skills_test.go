package skills

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/agentshare/agentshare/internal/core"
)

func writeSkill(t *testing.T, dir, name, category string) string {
	t.Helper()
	skillDir := filepath.Join(dir, name)
	content := "---\nname: " + name + "\ndescription: a test skill\n"
	if category != "" {
		content += "category: " + category + "\n"
	}
	content += "---\n\n# " + name + "\n\nDo the thing.\n"
	if err := core.WriteFileAtomic(filepath.Join(skillDir, "SKILL.md"), []byte(content)); err != nil {
		t.Fatal(err)
	}
	return skillDir
}

func TestParse(t *testing.T) {
	dir := writeSkill(t, t.TempDir(), "code-review", "quality")

	skill, err := Parse(dir)
	if err != nil {
		t.Fatal(err)
	}
	if skill.Name != "code-review" {
		t.Errorf("name = %q", skill.Name)
	}
	if skill.Description != "a test skill" {
		t.Errorf("description = %q", skill.Description)
	}
	if skill.Category != "quality" {
		t.Errorf("category = %q", skill.Category)
	}
	if skill.Content == "" || skill.Content == skill.Raw {
		t.Errorf("content = %q", skill.Content)
	}
	if got := skill.DisplayName(); got != "Code Review" {
		t.Errorf("display name = %q", got)
	}
}

func TestParseNoFrontmatter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "bare")
	if err := core.WriteFileAtomic(filepath.Join(dir, "SKILL.md"), []byte("# Bare\n")); err != nil {
		t.Fatal(err)
	}

	skill, err := Parse(dir)
	if err != nil {
		t.Fatal(err)
	}
	if skill.Name != "bare" {
		t.Errorf("name = %q, want directory name fallback", skill.Name)
	}
	if skill.Category != "uncategorized" {
		t.Errorf("category = %q", skill.Category)
	}
}

func TestParseMissing(t *testing.T) {
	if _, err := Parse(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected an error for a missing SKILL.md")
	}
}

func TestRegistryRoundTrip(t *testing.T) {
	t.Setenv("AGENTSHARE_HOME", t.TempDir())
	source := writeSkill(t, t.TempDir(), "code-review", "quality")

	added, err := Add(source)
	if err != nil {
		t.Fatal(err)
	}
	if added.Category != "quality" {
		t.Errorf("category = %q", added.Category)
	}

	all, err := List()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].Name != "code-review" {
		t.Fatalf("list = %+v", all)
	}

	got, err := Get("code-review")
	if err != nil {
		t.Fatal(err)
	}
	if got.Category != "quality" {
		t.Errorf("category = %q", got.Category)
	}

	removed, err := Remove("code-review")
	if err != nil {
		t.Fatal(err)
	}
	if !removed {
		t.Error("removed = false")
	}
	if removed, _ := Remove("code-review"); removed {
		t.Error("second remove reported true")
	}
}

func TestCreate(t *testing.T) {
	t.Setenv("AGENTSHARE_HOME", t.TempDir())

	skill, err := Create("my-skill", "does things", "tools")
	if err != nil {
		t.Fatal(err)
	}
	if skill.Name != "my-skill" || skill.Category != "tools" {
		t.Errorf("skill = %+v", skill)
	}

	byCategory, err := ListByCategory()
	if err != nil {
		t.Fatal(err)
	}
	if len(byCategory["tools"]) != 1 {
		t.Errorf("byCategory = %v", byCategory)
	}
	if got := Categories(byCategory); len(got) != 1 || got[0] != "tools" {
		t.Errorf("categories = %v", got)
	}
}

func TestScaffold(t *testing.T) {
	t.Setenv("AGENTSHARE_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	if _, err := Create("code-review", "review code", "quality"); err != nil {
		t.Fatal(err)
	}

	project := t.TempDir()
	results, err := Scaffold(project, ScaffoldOptions{Platforms: []string{"claude", "cursor"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(results["claude"]) != 1 || len(results["cursor"]) != 1 {
		t.Fatalf("results = %v", results)
	}

	for _, rel := range []string{".claude/skills", ".cursor/skills"} {
		path := filepath.Join(project, rel, "code-review", "SKILL.md")
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing %s", path)
		}
	}
}

func TestScaffoldByName(t *testing.T) {
	t.Setenv("AGENTSHARE_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	if _, err := Create("wanted", "", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := Create("other", "", ""); err != nil {
		t.Fatal(err)
	}

	project := t.TempDir()
	results, err := Scaffold(project, ScaffoldOptions{
		Platforms: []string{"claude"},
		Names:     []string{"wanted"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results["claude"]) != 1 || results["claude"][0] != "wanted" {
		t.Fatalf("results = %v", results)
	}
	if _, err := os.Stat(filepath.Join(project, ".claude/skills/other")); !os.IsNotExist(err) {
		t.Error("unselected skill was scaffolded")
	}
}
