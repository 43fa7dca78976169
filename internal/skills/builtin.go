package skills

// CLISkillName is the built-in skill that teaches agents how to drive the
// agentshare CLI. The installer ships it into every platform skill
// directory.
const CLISkillName = "agentshare-cli"

const CLISkillContent = `---
name: agentshare-cli
description: Install and use the AgentShare CLI to configure MCP and skills across AI coding agents.
---

# AgentShare CLI

Read this skill before starting work. Use it when you need the ` + "`agentshare`" + ` CLI or when
MCP/skills setup is failing.

## Behavior

1) Ask the user: "Do you want me to fetch prior context for this project?"
2) If yes, call ` + "`list_sessions`" + ` (preferably filtered by ` + "`project_path`" + `) and then
` + "`get_session`" + ` for relevant entries. If no relevant sessions are found, optionally
use ` + "`query_context`" + `.
3) Only read project files if MCP context is insufficient to proceed.

## Install

Prefer these options in order, picking what the environment supports:

1) ` + "`go install github.com/agentshare/agentshare/cmd/agentshare@latest`" + `
2) Download a release binary and place it on PATH

Verify with: ` + "`agentshare version`" + `. If the command is not found, ensure your user bin
directory (for example ` + "`~/go/bin`" + ` or ` + "`~/.local/bin`" + `) is on PATH.

## Common commands

- ` + "`agentshare mcp init --global`" + ` — install MCP server config + agent rules + this skill
- ` + "`agentshare mcp init --path <project>`" + ` — project MCP config
- ` + "`agentshare mcp serve`" + ` — start MCP server (stdio)
- ` + "`agentshare mcp remove`" + ` — remove MCP config + rules + this skill
- ` + "`agentshare skills list|create|add|remove`" + ` — manage skills registry
- ` + "`agentshare init skills`" + ` — scaffold skills into a project
`
