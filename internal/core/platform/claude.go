package platform

// Claude Code keeps its MCP registrations in ~/.claude.json and reads global
// rules from ~/.claude/CLAUDE.md.
func init() {
	Register(&Platform{
		Name:             "claude",
		DisplayName:      "Claude Code",
		DetectPaths:      []string{"~/.claude.json", "~/.claude"},
		MCPConfigPath:    "~/.claude.json",
		MCPConfigKey:     "mcpServers",
		MCPFormat:        FormatJSON,
		RulesPath:        "~/.claude/CLAUDE.md",
		RulesStyle:       RuleMarkerBlock,
		SkillsDir:        "~/.claude/skills",
		ProjectSkillsDir: ".claude/skills",
	})
}
