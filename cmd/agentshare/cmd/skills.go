package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/agentshare/agentshare/internal/skills"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Manage the skill registry",
	Long:  `List, create, import, and remove skills in the local registry (~/.agentshare/skills).`,
}

// ---------------------------------------------------------------------------
// skills list
// ---------------------------------------------------------------------------

var skillsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List skills in the registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		byCategory, err := skills.ListByCategory()
		if err != nil {
			return err
		}
		if len(byCategory) == 0 {
			fmt.Fprintln(os.Stdout, "No skills in the registry. Create one with: agentshare skills create <name>")
			return nil
		}

		headerStyle := lipgloss.NewStyle().Bold(true)
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return lipgloss.NewStyle().Padding(0, 1)
			}).
			Headers("NAME", "CATEGORY", "DESCRIPTION")
		for _, category := range skills.Categories(byCategory) {
			for _, skill := range byCategory[category] {
				t.Row(skill.Name, skill.Category, skill.Description)
			}
		}
		fmt.Fprintln(os.Stdout, t.Render())
		return nil
	},
}

// ---------------------------------------------------------------------------
// skills create
// ---------------------------------------------------------------------------

var skillsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new empty skill in the registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")
		category, _ := cmd.Flags().GetString("category")

		skill, err := skills.Create(args[0], description, category)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Created %s at %s\n", skill.Name, skill.Path)
		return nil
	},
}

// ---------------------------------------------------------------------------
// skills add
// ---------------------------------------------------------------------------

var skillsAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Import a skill directory into the registry",
	Long:  `Import a directory containing a SKILL.md into the registry, replacing any previous copy of the same skill.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}
		skill, err := skills.Add(source)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Imported %s (%s) into the registry\n", skill.Name, skill.Category)
		return nil
	},
}

// ---------------------------------------------------------------------------
// skills remove
// ---------------------------------------------------------------------------

var skillsRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a skill from the registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, err := skills.Remove(args[0])
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("no skill named %q in the registry", args[0])
		}
		fmt.Fprintf(os.Stdout, "Removed %s\n", args[0])
		return nil
	},
}

func init() {
	skillsCreateCmd.Flags().String("description", "", "skill description")
	skillsCreateCmd.Flags().String("category", "uncategorized", "skill category")

	skillsCmd.AddCommand(skillsListCmd)
	skillsCmd.AddCommand(skillsCreateCmd)
	skillsCmd.AddCommand(skillsAddCmd)
	skillsCmd.AddCommand(skillsRemoveCmd)
	rootCmd.AddCommand(skillsCmd)
}
