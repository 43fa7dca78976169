package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentshare/agentshare/internal/skills"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold agentshare assets into a project",
}

var initSkillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Copy registry skills into platform skill directories",
	Long: `Copy skills from the registry into the project-level skill directories
of detected platforms (.claude/skills, .cursor/skills, .windsurf/skills).

Examples:
  agentshare init skills
  agentshare init skills --platforms claude,cursor
  agentshare init skills --category quality
  agentshare init skills --skills code-review,docs`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}
			dir = cwd
		}

		opts := skills.ScaffoldOptions{}
		if flag, _ := cmd.Flags().GetString("platforms"); flag != "" {
			opts.Platforms = splitAndTrim(flag)
		}
		opts.Category, _ = cmd.Flags().GetString("category")
		if flag, _ := cmd.Flags().GetString("skills"); flag != "" {
			opts.Names = splitAndTrim(flag)
		}

		results, err := skills.Scaffold(dir, opts)
		if err != nil {
			return err
		}

		platforms := make([]string, 0, len(results))
		for name := range results {
			platforms = append(platforms, name)
		}
		sort.Strings(platforms)
		for _, name := range platforms {
			fmt.Fprintf(os.Stdout, "%s %s: %d skill(s)\n", okGlyph, name, len(results[name]))
		}
		return nil
	},
}

func splitAndTrim(flag string) []string {
	parts := strings.Split(flag, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func init() {
	initSkillsCmd.Flags().String("dir", "", "project directory (default: current directory)")
	initSkillsCmd.Flags().String("platforms", "", "comma-separated platform names (default: detected)")
	initSkillsCmd.Flags().String("category", "", "only scaffold skills in this category")
	initSkillsCmd.Flags().String("skills", "", "comma-separated skill names")

	initCmd.AddCommand(initSkillsCmd)
	rootCmd.AddCommand(initCmd)
}
