package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/inkwell/internal/session"
)

func (c *cli) courseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "course",
		Short: "Browse the drawing course and print lesson exercise sheets",
		Long: `Course lists the modules and lessons of the drawing course, prints a lesson's
text and generates exercise sheets for a lesson. Modules and lessons are
addressed by their zero-based indices as shown by "course list".`,
	}
	cmd.AddCommand(c.courseListCmd(), c.courseShowCmd(), c.courseSheetsCmd())
	return cmd
}

func (c *cli) courseListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List modules and lessons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := c.loadCurriculum()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, m := range content.Modules() {
				fmt.Fprintf(out, "%d  %s\n", i, m.Title)
				for j, l := range m.Lessons {
					fmt.Fprintf(out, "   %d %d  %s\n", i, j, l.Title)
				}
			}
			return nil
		},
	}
}

func (c *cli) courseShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show MODULE LESSON",
		Short: "Print a lesson's text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mi, li, err := lessonArgs(args)
			if err != nil {
				return err
			}
			content, err := c.loadCurriculum()
			if err != nil {
				return err
			}
			module, lesson, err := content.Lesson(mi, li)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n%s\n\n", lesson.Title, module.Title)
			for _, p := range lesson.Content {
				fmt.Fprintf(out, "%s\n\n", p)
			}
			return nil
		},
	}
}

func (c *cli) courseSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets MODULE LESSON",
		Short: "Generate exercise sheets for a lesson",
		Long: `Sheets asks the text model for drawing exercises that practice the lesson,
illustrates each exercise and writes the lesson text plus one sheet per
exercise as a PDF.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mi, li, err := lessonArgs(args)
			if err != nil {
				return err
			}
			return c.runSheets(cmd, session.Request{Mode: session.ModeCourse, Module: mi, Lesson: li})
		},
	}
	addSheetFlags(cmd)
	return cmd
}

func lessonArgs(args []string) (int, int, error) {
	mi, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("module must be an integer: %q", args[0])
	}
	li, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("lesson must be an integer: %q", args[1])
	}
	return mi, li, nil
}
