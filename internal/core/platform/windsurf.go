package platform

func init() {
	Register(&Platform{
		Name:             "windsurf",
		DisplayName:      "Windsurf",
		DetectPaths:      []string{"~/.codeium/windsurf"},
		MCPConfigPath:    "~/.codeium/windsurf/mcp_config.json",
		MCPConfigKey:     "mcpServers",
		MCPFormat:        FormatJSON,
		RulesPath:        "~/.codeium/windsurf/memories/global_rules.md",
		RulesStyle:       RuleMarkerBlock,
		SkillsDir:        "~/.codeium/windsurf/skills",
		ProjectSkillsDir: ".windsurf/skills",
	})
}
