// Package skills manages the local skill registry at ~/.agentshare/skills
// and scaffolds skills into project platform directories.
package skills

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Skill is a parsed SKILL.md plus the directory it lives in.
type Skill struct {
	Name        string
	Description string
	Category    string
	Path        string
	Content     string
	Raw         string
}

// DisplayName turns "code-review" into "Code Review".
func (s *Skill) DisplayName() string {
	words := strings.Split(s.Name, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

type frontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
}

// Parse reads dir/SKILL.md into a Skill. The directory name is the fallback
// skill name; a missing or empty category defaults to "uncategorized".
func Parse(dir string) (*Skill, error) {
	raw, err := os.ReadFile(filepath.Join(dir, "SKILL.md"))
	if err != nil {
		return nil, fmt.Errorf("reading skill %s: %w", dir, err)
	}

	s := &Skill{
		Name:     filepath.Base(dir),
		Category: "uncategorized",
		Path:     dir,
		Content:  strings.TrimSpace(string(raw)),
		Raw:      string(raw),
	}

	text := string(raw)
	if strings.HasPrefix(text, "---") {
		if end := strings.Index(text[3:], "\n---"); end >= 0 {
			fmText := text[3 : 3+end]
			rest := text[3+end+4:]

			var fm frontmatter
			if err := yaml.Unmarshal([]byte(fmText), &fm); err != nil {
				return nil, fmt.Errorf("parsing skill frontmatter in %s: %w", dir, err)
			}
			if fm.Name != "" {
				s.Name = fm.Name
			}
			s.Description = fm.Description
			if fm.Category != "" {
				s.Category = fm.Category
			}
			s.Content = strings.TrimSpace(rest)
		}
	}

	return s, nil
}
