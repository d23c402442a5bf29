package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *cli) catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the suggested practice themes and skill levels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := c.loadCurriculum()
			if err != nil {
				return err
			}
			catalog := content.Catalog()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Themes: %s\n", strings.Join(catalog.Themes, ", "))
			fmt.Fprintf(out, "Levels: %s\n", strings.Join(catalog.Levels, ", "))
			return nil
		},
	}
}
