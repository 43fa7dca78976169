package platform

// Cursor has no shared global rules file; agentshare ships its rules as a
// standalone .mdc file under ~/.cursor/rules/ instead of a managed block.
func init() {
	Register(&Platform{
		Name:             "cursor",
		DisplayName:      "Cursor",
		DetectPaths:      []string{"~/.cursor"},
		MCPConfigPath:    "~/.cursor/mcp.json",
		MCPConfigKey:     "mcpServers",
		MCPFormat:        FormatJSONC,
		RulesPath:        "~/.cursor/rules/agentshare.mdc",
		RulesStyle:       RuleStandalone,
		SkillsDir:        "~/.cursor/skills",
		ProjectSkillsDir: ".cursor/skills",
	})
}
