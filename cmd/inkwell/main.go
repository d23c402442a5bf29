// Package main is the entry point for the inkwell CLI: browse the course and
// print practice sheets without running the server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/p-n-ai/inkwell/internal/app"
	"github.com/p-n-ai/inkwell/internal/curriculum"
	"github.com/p-n-ai/inkwell/internal/platform/config"
	"github.com/p-n-ai/inkwell/internal/platform/logger"
	"github.com/p-n-ai/inkwell/internal/session"
)

// version is set at build time via ldflags.
var version = "dev"

// generatorFunc builds the curriculum and AI generator for sheet commands.
type generatorFunc func(ctx context.Context, cfg *config.Config) (*curriculum.Loader, session.Generator, error)

type cli struct {
	v            *viper.Viper
	newGenerator generatorFunc
}

func newCLI() *cli {
	return &cli{
		v: viper.New(),
		newGenerator: func(ctx context.Context, cfg *config.Config) (*curriculum.Loader, session.Generator, error) {
			g, err := app.NewGenerator(ctx, cfg)
			if err != nil {
				return nil, nil, err
			}
			return g.Content, g.Client, nil
		},
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "inkwell",
		Short: "Drawing lessons and AI practice sheets",
		Long: `inkwell browses the Inkwell Apprentice drawing course and prints practice
sheets. Sheet commands plan drawing subjects with a text model, illustrate each
one with an image model and write the result as an A4 PDF.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initConfig(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default: ./inkwell.yaml or ~/.config/inkwell/config.yaml)")
	flags.String("log-level", "warn", "log level: debug, info, warn, error")
	flags.String("curriculum", "", "curriculum directory (default: embedded course)")
	_ = c.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = c.v.BindPFlag("curriculum_path", flags.Lookup("curriculum"))

	root.AddCommand(
		c.courseCmd(),
		c.practiceCmd(),
		c.catalogCmd(),
		c.versionCmd(),
	)
	return root
}

func (c *cli) initConfig(cmd *cobra.Command) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		c.v.SetConfigFile(cfgFile)
	} else {
		c.v.SetConfigName("inkwell")
		c.v.SetConfigType("yaml")
		c.v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			c.v.AddConfigPath(filepath.Join(home, ".config", "inkwell"))
		}
	}

	c.v.SetEnvPrefix("INKWELL")
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	c.v.AutomaticEnv()

	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	log, err := logger.New(cmd.ErrOrStderr(), c.v.GetString("log.level"), "text")
	if err != nil {
		return err
	}
	slog.SetDefault(log)
	if used := c.v.ConfigFileUsed(); used != "" {
		slog.Info("using config file", "path", used)
	}
	return nil
}

// loadConfig starts from the environment defaults and overlays whatever the
// config file or flags set.
func (c *cli) loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	strs := map[string]*string{
		"ai.google.api_key":  &cfg.AI.Google.APIKey,
		"ai.vertex.project":  &cfg.AI.Vertex.Project,
		"ai.vertex.location": &cfg.AI.Vertex.Location,
		"ai.text_model":      &cfg.AI.TextModel,
		"ai.image_model":     &cfg.AI.ImageModel,
		"curriculum_path":    &cfg.CurriculumPath,
		"log.level":          &cfg.Log.Level,
	}
	for key, dst := range strs {
		if c.v.IsSet(key) {
			*dst = c.v.GetString(key)
		}
	}
	if c.v.IsSet("ai.vertex.enabled") {
		cfg.AI.Vertex.Enabled = c.v.GetBool("ai.vertex.enabled")
	}
	if c.v.IsSet("generation.lesson_count") {
		cfg.Generation.LessonCount = c.v.GetInt("generation.lesson_count")
	}
	if c.v.IsSet("generation.course_exercises") {
		cfg.Generation.CourseExercises = c.v.GetInt("generation.course_exercises")
	}
	if c.v.IsSet("generation.image_delay") {
		cfg.Generation.ImageDelay = c.v.GetDuration("generation.image_delay")
	}
	if c.v.IsSet("export.scale") {
		cfg.Export.Scale = c.v.GetFloat64("export.scale")
	}
	return cfg, nil
}

// loadCurriculum reads only the course content; browsing needs no AI key.
func (c *cli) loadCurriculum() (*curriculum.Loader, error) {
	return curriculum.NewLoader(c.v.GetString("curriculum_path"))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := newCLI().rootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
