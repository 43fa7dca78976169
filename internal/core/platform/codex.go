package platform

// Codex uses a TOML config, so its MCP entry is managed as a marker-delimited
// block rather than a parsed document. It has no documented global rules
// mechanism and reads skills from the shared ~/.agents/skills directory.
func init() {
	Register(&Platform{
		Name:          "codex",
		DisplayName:   "Codex",
		DetectPaths:   []string{"~/.codex"},
		MCPConfigPath: "~/.codex/config.toml",
		MCPFormat:     FormatMarkers,
		SkillsDir:     "~/.agents/skills",
	})
}
