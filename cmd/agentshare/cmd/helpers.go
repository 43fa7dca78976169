package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/agentshare/agentshare/internal/core/installer"
	"github.com/agentshare/agentshare/internal/skills"
)

var (
	okGlyph   = color.New(color.FgGreen).Sprint("✓")
	failGlyph = color.New(color.FgRed).Sprint("✗")
	skipGlyph = color.New(color.FgYellow).Sprint("-")
)

// cliSkillBundle wraps the built-in CLI skill for the installer.
func cliSkillBundle() *installer.Bundle {
	return &installer.Bundle{
		Name:  skills.CLISkillName,
		Files: map[string][]byte{"SKILL.md": []byte(skills.CLISkillContent)},
	}
}

// printReport renders one line per platform action. Failures carry the
// target path so the user can resolve malformed files by hand.
func printReport(report *installer.Report, verb string) {
	for _, pr := range report.Platforms {
		fmt.Fprintf(os.Stdout, "%s:\n", pr.DisplayName)
		for _, action := range pr.Actions {
			switch action.Op {
			case installer.OutcomeFailed:
				fmt.Fprintf(os.Stdout, "  %s %s: %v\n", failGlyph, action.Target, action.Err)
			case installer.OutcomeSkipped:
				fmt.Fprintf(os.Stdout, "  %s %s (skipped)\n", skipGlyph, action.Target)
			default:
				fmt.Fprintf(os.Stdout, "  %s %s (%s)\n", okGlyph, action.Target, action.Op)
			}
		}
	}

	if failures := report.Failures(); failures > 0 {
		fmt.Fprintf(os.Stdout, "\n%d of %d steps failed during %s. The files above were left untouched; fix them and re-run.\n",
			failures, failures+report.Successes(), verb)
		return
	}
	fmt.Fprintf(os.Stdout, "\nAll %d steps completed during %s.\n", report.Successes(), verb)
}
