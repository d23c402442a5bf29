package main

import (
	"github.com/spf13/cobra"

	"github.com/p-n-ai/inkwell/internal/session"
)

func (c *cli) practiceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "practice",
		Short: "Generate practice sheets for a theme and skill level",
		Long: `Practice asks the text model for drawable subjects on a theme, illustrates
each one at the chosen skill level and writes a title page plus one sheet per
subject as a PDF. Run "inkwell catalog" for suggested themes and the levels.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			theme, _ := cmd.Flags().GetString("theme")
			level, _ := cmd.Flags().GetString("level")
			return c.runSheets(cmd, session.Request{Mode: session.ModePractice, Theme: theme, Level: level})
		},
	}
	cmd.Flags().String("theme", "", "what to draw, e.g. cats or street trees")
	cmd.Flags().String("level", "Beginner", "skill level")
	_ = cmd.MarkFlagRequired("theme")
	addSheetFlags(cmd)
	return cmd
}
