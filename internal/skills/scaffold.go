package skills

import (
	"path/filepath"

	"github.com/agentshare/agentshare/internal/core/platform"
)

// ScaffoldOptions narrows which skills and platforms Scaffold targets. Zero
// value means every registry skill into every detected platform.
type ScaffoldOptions struct {
	Platforms []string
	Category  string
	Names     []string
}

// Scaffold copies registry skills into the project-level skill directories
// of the targeted platforms. Returns platform name to scaffolded skill
// names.
func Scaffold(projectDir string, opts ScaffoldOptions) (map[string][]string, error) {
	targets := scaffoldTargets(opts.Platforms)

	selected, err := selectSkills(opts)
	if err != nil {
		return nil, err
	}

	results := make(map[string][]string, len(targets))
	for _, p := range targets {
		results[p.Name] = []string{}
		for _, skill := range selected {
			dest := filepath.Join(projectDir, p.ProjectSkillsDir, skill.Name)
			if err := copyDir(skill.Path, dest); err != nil {
				return nil, err
			}
			results[p.Name] = append(results[p.Name], skill.Name)
		}
	}
	return results, nil
}

// scaffoldTargets resolves the platform list: explicit names, else detected
// platforms, else every platform with a project skill directory.
func scaffoldTargets(names []string) []*platform.Platform {
	if len(names) > 0 {
		var targets []*platform.Platform
		for _, name := range names {
			if p, ok := platform.ByName(name); ok && p.ProjectSkillsDir != "" {
				targets = append(targets, p)
			}
		}
		return targets
	}

	var detected []*platform.Platform
	for _, p := range platform.Detect() {
		if p.ProjectSkillsDir != "" {
			detected = append(detected, p)
		}
	}
	if len(detected) > 0 {
		return detected
	}

	var all []*platform.Platform
	for _, p := range platform.All() {
		if p.ProjectSkillsDir != "" {
			all = append(all, p)
		}
	}
	return all
}

func selectSkills(opts ScaffoldOptions) ([]*Skill, error) {
	if len(opts.Names) > 0 {
		all, err := List()
		if err != nil {
			return nil, err
		}
		wanted := make(map[string]bool, len(opts.Names))
		for _, name := range opts.Names {
			wanted[name] = true
		}
		var selected []*Skill
		for _, skill := range all {
			if wanted[skill.Name] {
				selected = append(selected, skill)
			}
		}
		return selected, nil
	}
	if opts.Category != "" {
		byCategory, err := ListByCategory()
		if err != nil {
			return nil, err
		}
		return byCategory[opts.Category], nil
	}
	return List()
}
