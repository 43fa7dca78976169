package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentshare/agentshare/internal/context"
	"github.com/agentshare/agentshare/internal/core"
	"github.com/agentshare/agentshare/internal/core/installer"
	"github.com/agentshare/agentshare/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Manage the agentshare MCP server",
	Long:  `Serve the agentshare MCP server and install or remove its registration in AI agent configs.`,
}

// ---------------------------------------------------------------------------
// mcp serve
// ---------------------------------------------------------------------------

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	Long:  `Start the agentshare MCP server, speaking MCP over stdin/stdout. Agents launch this themselves; you rarely run it by hand.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := core.DBPath()
		if err != nil {
			return err
		}
		store, err := context.Open(cmd.Context(), dbPath)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		return mcpserver.New(store, Version).ServeStdio()
	},
}

// ---------------------------------------------------------------------------
// mcp init
// ---------------------------------------------------------------------------

var mcpInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Register agentshare with AI agents",
	Long: `Register the agentshare MCP server, agent rules, and CLI skill.

With --global (the default), every detected platform's global config is
updated. With --path, a project-level MCP config is written instead
(.mcp.json and opencode.jsonc), bypassing detection.

Examples:
  agentshare mcp init
  agentshare mcp init --path .`,
	RunE: func(cmd *cobra.Command, args []string) error {
		projectPath, _ := cmd.Flags().GetString("path")

		orch := newOrchestrator()
		if projectPath != "" {
			report, err := orch.InstallProject(cmd.Context(), projectPath)
			if err != nil {
				return err
			}
			printReport(report, "install")
			exitCode = report.ExitCode()
			return nil
		}

		report, err := orch.Install(cmd.Context())
		if err != nil {
			return err
		}
		if report.NothingToDo() {
			fmt.Fprintln(os.Stdout, "No supported AI agents detected. Nothing to do.")
			return nil
		}
		printReport(report, "install")
		exitCode = report.ExitCode()
		return nil
	},
}

// ---------------------------------------------------------------------------
// mcp remove
// ---------------------------------------------------------------------------

var mcpRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Unregister agentshare from AI agents",
	Long: `Remove the agentshare MCP registration, agent rules, and CLI skill.

Only entries, blocks, and files agentshare wrote are removed; everything
else in the platform configs is left byte-for-byte intact. With --path,
the project-level config written by 'mcp init --path' is removed instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		projectPath, _ := cmd.Flags().GetString("path")

		orch := newOrchestrator()
		if projectPath != "" {
			report, err := orch.RemoveProject(cmd.Context(), projectPath)
			if err != nil {
				return err
			}
			printReport(report, "remove")
			exitCode = report.ExitCode()
			return nil
		}

		report, err := orch.Remove(cmd.Context())
		if err != nil {
			return err
		}
		if report.NothingToDo() {
			fmt.Fprintln(os.Stdout, "No supported AI agents detected. Nothing to do.")
			return nil
		}
		printReport(report, "remove")
		exitCode = report.ExitCode()
		return nil
	},
}

func newOrchestrator() *installer.Orchestrator {
	return &installer.Orchestrator{Skill: cliSkillBundle()}
}

func init() {
	mcpInitCmd.Flags().Bool("global", true, "update global configs of all detected platforms")
	mcpInitCmd.Flags().String("path", "", "write a project-level MCP config into this directory instead")
	mcpRemoveCmd.Flags().String("path", "", "remove the project-level MCP config from this directory instead")

	mcpCmd.AddCommand(mcpServeCmd)
	mcpCmd.AddCommand(mcpInitCmd)
	mcpCmd.AddCommand(mcpRemoveCmd)
	rootCmd.AddCommand(mcpCmd)
}
