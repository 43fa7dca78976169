package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentshare/agentshare/internal/logger"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// exitCode is set by commands whose outcome is partial (some platforms
// succeeded, some failed) so main can exit non-zero without an error.
var exitCode int

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "agentshare",
	Short: "Share context, rules, and skills across AI coding agents",
	Long: `AgentShare wires one MCP server, one set of agent rules, and one skill
registry into every AI coding agent on your machine (Claude Code, Cursor,
Windsurf, Codex, OpenCode), so sessions started in one agent are visible
to the others.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.SetLevel(logLevel)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("agentshare %s (commit: %s, built: %s)\n", Version, Commit, Date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command and returns the process exit code.
func Execute() (int, error) {
	if err := rootCmd.Execute(); err != nil {
		return 1, err
	}
	return exitCode, nil
}
