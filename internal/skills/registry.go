package skills

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/agentshare/agentshare/internal/core"
)

// ErrSkillNotFound is returned when no registry skill has the given name.
var ErrSkillNotFound = errors.New("skill not found")

const skillTemplate = `---
name: %s
description: %s
category: %s
---

# %s

[Add your skill instructions here]
`

// List returns every skill in the registry, sorted by directory walk order.
// The registry holds either skill directories directly or category
// directories containing skill directories.
func List() ([]*Skill, error) {
	root, err := core.SkillsDir()
	if err != nil {
		return nil, err
	}
	if err := core.EnsureDirs(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading skill registry: %w", err)
	}

	var result []*Skill
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		if skill, err := Parse(dir); err == nil {
			result = append(result, skill)
			continue
		}

		// Category directory: skills one level down.
		subEntries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, sub := range subEntries {
			if !sub.IsDir() {
				continue
			}
			skill, err := Parse(filepath.Join(dir, sub.Name()))
			if err != nil {
				continue
			}
			skill.Category = entry.Name()
			result = append(result, skill)
		}
	}
	return result, nil
}

// ListByCategory groups registry skills by category.
func ListByCategory() (map[string][]*Skill, error) {
	all, err := List()
	if err != nil {
		return nil, err
	}
	byCategory := make(map[string][]*Skill)
	for _, skill := range all {
		byCategory[skill.Category] = append(byCategory[skill.Category], skill)
	}
	return byCategory, nil
}

// Categories returns the sorted category names present in the registry.
func Categories(byCategory map[string][]*Skill) []string {
	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the registry skill with the given name.
func Get(name string) (*Skill, error) {
	all, err := List()
	if err != nil {
		return nil, err
	}
	for _, skill := range all {
		if skill.Name == name {
			return skill, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSkillNotFound, name)
}

// Add imports a skill directory into the registry under its category,
// replacing any previous copy.
func Add(source string) (*Skill, error) {
	skill, err := Parse(source)
	if err != nil {
		return nil, err
	}
	root, err := core.SkillsDir()
	if err != nil {
		return nil, err
	}

	dest := filepath.Join(root, skill.Category, skill.Name)
	if err := os.RemoveAll(dest); err != nil {
		return nil, fmt.Errorf("replacing skill %s: %w", skill.Name, err)
	}
	if err := copyDir(source, dest); err != nil {
		return nil, fmt.Errorf("importing skill %s: %w", skill.Name, err)
	}

	imported, err := Parse(dest)
	if err != nil {
		return nil, err
	}
	imported.Category = skill.Category
	return imported, nil
}

// Create scaffolds a new empty skill in the registry.
func Create(name, description, category string) (*Skill, error) {
	if category == "" {
		category = "uncategorized"
	}
	root, err := core.SkillsDir()
	if err != nil {
		return nil, err
	}

	dest := filepath.Join(root, category, name)
	content := fmt.Sprintf(skillTemplate, name, description, category, (&Skill{Name: name}).DisplayName())
	if err := core.WriteFileAtomic(filepath.Join(dest, "SKILL.md"), []byte(content)); err != nil {
		return nil, fmt.Errorf("creating skill %s: %w", name, err)
	}
	return Parse(dest)
}

// Remove deletes a registry skill by name. Returns false when no skill
// matches.
func Remove(name string) (bool, error) {
	skill, err := Get(name)
	if errors.Is(err, ErrSkillNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := os.RemoveAll(skill.Path); err != nil {
		return false, fmt.Errorf("removing skill %s: %w", name, err)
	}
	core.CleanupEmptyDir(filepath.Dir(skill.Path))
	return true, nil
}

func copyDir(src, dst string) error {
	return core.WalkFiles(src, func(rel string) error {
		target := filepath.Join(dst, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		return core.CopyFile(filepath.Join(src, filepath.FromSlash(rel)), target)
	})
}
