package platform

// OpenCode only reads MCP config from the project-level opencode.jsonc; a
// global install skips its MCP surface and reports it as such.
func init() {
	Register(&Platform{
		Name:        "opencode",
		DisplayName: "OpenCode",
		DetectPaths: []string{"~/.local/share/opencode"},
		ProjectOnly: true,
		SkillsDir:   "~/.config/opencode/skills",
	})
}
