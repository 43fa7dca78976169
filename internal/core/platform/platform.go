// Package platform defines the catalog of AI coding platforms agentshare
// integrates with. Each platform is a plain data record describing where it
// keeps its MCP config, rules file, and skill directory, plus the filesystem
// signals that indicate it is installed. New platforms are added by adding a
// record, not a new type.
package platform

import (
	"os"

	"github.com/agentshare/agentshare/internal/core"
)

// ConfigFormat tags how a platform's MCP config file is edited.
type ConfigFormat string

const (
	// FormatJSON is a strict JSON document edited under a scoped key.
	FormatJSON ConfigFormat = "json"
	// FormatJSONC is JSON-with-comments; comments and formatting are preserved.
	FormatJSONC ConfigFormat = "jsonc"
	// FormatMarkers is a plain-text config (Codex TOML) edited as a
	// marker-delimited block rather than a parsed document.
	FormatMarkers ConfigFormat = "markers"
)

// RuleStyle tags how a platform consumes agent rules.
type RuleStyle string

const (
	// RuleMarkerBlock injects a marker-delimited block into a shared file.
	RuleMarkerBlock RuleStyle = "marker-block"
	// RuleStandalone writes a file agentshare owns outright (Cursor .mdc).
	RuleStandalone RuleStyle = "standalone"
)

// Platform describes one AI coding tool. Paths may contain ~ and $VAR and
// are expanded at use. Empty paths mean the platform lacks that surface.
type Platform struct {
	Name        string
	DisplayName string

	// DetectPaths are files or directories whose presence means the
	// platform is installed on this machine.
	DetectPaths []string

	// MCP registration.
	MCPConfigPath string       // global MCP config file
	MCPConfigKey  string       // scoped top-level key ("mcpServers", "mcp")
	MCPFormat     ConfigFormat // how the file is edited
	ProjectOnly   bool         // config is project-scoped; global install skips it

	// Agent rules.
	RulesPath  string
	RulesStyle RuleStyle

	// Skill directories.
	SkillsDir        string // global skill directory
	ProjectSkillsDir string // project-relative skill directory ("" = none)
}

// Detected reports whether any detection path exists. Stat errors (permission
// denied, dangling symlinks) count as not detected; detection never fails.
func (p *Platform) Detected() bool {
	for _, dp := range p.DetectPaths {
		if _, err := os.Stat(core.ExpandPath(dp)); err == nil {
			return true
		}
	}
	return false
}

// --- Registry ---

var platforms []*Platform

// Register adds a platform to the catalog. Called from init in the
// per-platform files; the catalog is fixed for the process lifetime.
func Register(p *Platform) { platforms = append(platforms, p) }

// All returns every cataloged platform in registration order.
func All() []*Platform { return platforms }

// ByName returns the platform with the given name, if cataloged.
func ByName(name string) (*Platform, bool) {
	for _, p := range platforms {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Detect returns all platforms present on this machine. Same filesystem
// state always yields the same result set.
func Detect() []*Platform {
	var detected []*Platform
	for _, p := range platforms {
		if p.Detected() {
			detected = append(detected, p)
		}
	}
	return detected
}

// Names returns the names of the given platforms.
func Names(ps []*Platform) []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	return names
}
