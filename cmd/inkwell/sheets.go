package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/inkwell/internal/export"
	"github.com/p-n-ai/inkwell/internal/session"
)

func addSheetFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "PDF path (default: Inkwell-Apprentice-<selection>.pdf)")
	cmd.Flags().String("xlsx", "", "also write an exercise index workbook to this path")
}

// runSheets generates one session for req and writes its exports. Files are
// only written once their content is complete.
func (c *cli) runSheets(cmd *cobra.Command, req session.Request) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	content, gen, err := c.newGenerator(ctx, cfg)
	if err != nil {
		return err
	}

	manager := session.NewManager(session.ManagerConfig{
		Generator:       gen,
		Content:         content,
		Pacer:           session.FixedDelay(cfg.Generation.ImageDelay),
		Observer:        newProgressPrinter(cmd.ErrOrStderr()),
		LessonCount:     cfg.Generation.LessonCount,
		CourseExercises: cfg.Generation.CourseExercises,
	})
	s, err := manager.Create(req)
	if err != nil {
		return err
	}
	if err := s.Generate(ctx); err != nil {
		return err
	}

	doc, err := export.FromSession(s)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = doc.FileName("pdf")
	}
	var pdf bytes.Buffer
	if err := export.WritePDF(ctx, &pdf, doc, export.NewRenderer(cfg.Export.Scale)); err != nil {
		slog.Error("pdf export failed", "error", err)
		return fmt.Errorf("could not generate the PDF: %w", err)
	}
	if err := os.WriteFile(output, pdf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d pages)\n", output, len(doc.Pages()))

	xlsx, _ := cmd.Flags().GetString("xlsx")
	if xlsx == "" {
		return nil
	}
	var book bytes.Buffer
	if err := export.WriteWorkbook(&book, doc); err != nil {
		return fmt.Errorf("could not generate the workbook: %w", err)
	}
	if err := os.WriteFile(xlsx, book.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", xlsx, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", xlsx)
	return nil
}
