package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/myrjola/avalanchemystery/internal/casegen"
	"github.com/myrjola/avalanchemystery/internal/cluegen"
	"github.com/myrjola/avalanchemystery/internal/envstruct"
	"github.com/myrjola/avalanchemystery/internal/errors"
	"github.com/myrjola/avalanchemystery/internal/glossary"
	"github.com/myrjola/avalanchemystery/internal/logging"
	"github.com/myrjola/avalanchemystery/internal/models"
	"github.com/myrjola/avalanchemystery/internal/mystery"
	"github.com/myrjola/avalanchemystery/internal/textgen"
	"github.com/spf13/cobra"
)

const timeout = 2 * time.Minute

var Group = &cobra.Group{
	ID:    "generate",
	Title: "Content generation",
}

func init() {
	Case.Flags().String("theme", "", "theme name, random when empty")
	Case.Flags().String("difficulty", string(models.DifficultyBeginner), "beginner, intermediate or advanced")
	Case.Flags().String("out", "", "write the case JSON to this file instead of stdout")
	Case.Flags().Bool("raw", false, "also print the prompt and raw model answer to stderr")
	Case.Flags().Bool("summary", false, "print the educational summary to stderr")

	Clues.Flags().Int("count", cluegen.PackageSize, "number of clues")
	Clues.Flags().String("out", "", "write the clues JSON to this file instead of stdout")

	Sequence.Flags().String("out", "", "write the clues JSON to this file instead of stdout")
}

func newLogger() *slog.Logger {
	return slog.New(logging.NewContextHandler(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelInfo,
		ReplaceAttr: nil,
	})))
}

func newTextClient(logger *slog.Logger) (*textgen.Client, error) {
	var cfg textgen.Config
	if err := envstruct.Populate(&cfg, os.LookupEnv); err != nil {
		return nil, errors.Wrap(err, "populate text generation config")
	}
	return textgen.New(logger, cfg), nil
}

// writeJSON writes v indented to the file named by the out flag, or to stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return errors.Wrap(err, "invalid out flag")
	}
	var w io.Writer = cmd.OutOrStdout()
	if outPath != "" {
		var file *os.File
		if file, err = os.Create(outPath); err != nil {
			return errors.Wrap(err, "create output file", slog.String("path", outPath))
		}
		defer func() {
			_ = file.Close()
		}()
		w = file
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err = enc.Encode(v); err != nil {
		return errors.Wrap(err, "encode JSON")
	}
	if outPath != "" {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", outPath)
	}
	return nil
}

var Case = &cobra.Command{
	Use:     "case",
	GroupID: "generate",
	Short:   "Generate a mystery case",
	Long:    `Generates a validated mystery case with the configured text generation backend and prints it as JSON`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		logger := newLogger()
		text, err := newTextClient(logger)
		if err != nil {
			return err
		}
		defer func() {
			_ = text.Close()
		}()

		theme, _ := cmd.Flags().GetString("theme")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		showRaw, _ := cmd.Flags().GetBool("raw")
		showSummary, _ := cmd.Flags().GetBool("summary")

		synth := casegen.New(logger, text, glossary.Default())
		if theme == "" {
			var c models.MysteryCase
			if c, err = synth.SynthesizeRandom(ctx, models.Difficulty(difficulty)); err != nil {
				return err
			}
			return finishCase(cmd, c, showSummary)
		}
		res, err := synth.SynthesizeWithRaw(ctx, theme, models.Difficulty(difficulty))
		if err != nil {
			return err
		}
		if showRaw {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "--- prompt ---\n%s\n--- answer ---\n%s\n", res.Prompt, res.Raw)
		}
		return finishCase(cmd, res.Case, showSummary)
	},
}

func finishCase(cmd *cobra.Command, c models.MysteryCase, showSummary bool) error {
	if showSummary {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), mystery.EducationalSummary(c))
	}
	return writeJSON(cmd, c)
}

var Clues = &cobra.Command{
	Use:     "clues [mystery-id]",
	GroupID: "generate",
	Short:   "Generate a clue package",
	Long:    `Generates marketplace clues with rarities and market values for the given mystery`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		logger := newLogger()
		text, err := newTextClient(logger)
		if err != nil {
			return err
		}
		defer func() {
			_ = text.Close()
		}()

		count, err := cmd.Flags().GetInt("count")
		if err != nil {
			return errors.Wrap(err, "invalid count flag")
		}
		clues, err := cluegen.New(logger, text, glossary.Default()).GeneratePackage(ctx, args[0], count)
		if err != nil {
			return err
		}
		return writeJSON(cmd, clues)
	},
}

var Sequence = &cobra.Command{
	Use:     "sequence [mystery-id] [concept...]",
	GroupID: "generate",
	Short:   "Generate an educational clue sequence",
	Long:    `Generates one clue per concept with rarity rising along the sequence`,
	Args:    cobra.MinimumNArgs(2), //nolint:mnd // mystery id and at least one concept
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		logger := newLogger()
		text, err := newTextClient(logger)
		if err != nil {
			return err
		}
		defer func() {
			_ = text.Close()
		}()

		clues, err := cluegen.New(logger, text, glossary.Default()).GenerateEducationalSequence(ctx, args[0], args[1:])
		if err != nil {
			return err
		}
		return writeJSON(cmd, clues)
	},
}
