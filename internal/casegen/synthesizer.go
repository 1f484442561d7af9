// Package casegen writes mystery cases with a language model and refuses to hand out anything incoherent.
package casegen

import (
	"context"
	"log/slog"
	"time"

	"github.com/myrjola/avalanchemystery/internal/errors"
	"github.com/myrjola/avalanchemystery/internal/glossary"
	"github.com/myrjola/avalanchemystery/internal/logging"
	"github.com/myrjola/avalanchemystery/internal/models"
	"github.com/myrjola/avalanchemystery/internal/random"
)

// Generator completes a prompt. *textgen.Client implements it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Attempt is one prompt and answer exchanged while synthesizing a case.
type Attempt struct {
	Theme      string
	Difficulty models.Difficulty
	// Number is 1 for the initial prompt and 2 for the repair prompt.
	Number   int
	Prompt   string
	Raw      string
	Accepted bool
	Reason   string
	CaseID   string
	At       time.Time
}

// Recorder keeps attempts for auditing. Recording failures are logged and otherwise ignored.
type Recorder interface {
	RecordAttempt(ctx context.Context, a Attempt) error
}

// Result is a synthesized case with the exchange that produced it.
type Result struct {
	Case   models.MysteryCase
	Prompt string
	Raw    string
}

type Synthesizer struct {
	logger   *slog.Logger
	gen      Generator
	glossary *glossary.Glossary
	src      random.Source
	now      func() time.Time
	recorder Recorder
}

type Option func(*Synthesizer)

// WithRecorder keeps every attempt in r.
func WithRecorder(r Recorder) Option {
	return func(s *Synthesizer) { s.recorder = r }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Synthesizer) { s.now = now }
}

// WithSource replaces the random source used to pick themes.
func WithSource(src random.Source) Option {
	return func(s *Synthesizer) { s.src = src }
}

func New(logger *slog.Logger, gen Generator, g *glossary.Glossary, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		logger:   logger,
		gen:      gen,
		glossary: g,
		src:      random.NewSource(),
		now:      time.Now,
		recorder: nil,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize writes a case for the named theme.
func (s *Synthesizer) Synthesize(ctx context.Context, theme string, difficulty models.Difficulty) (models.MysteryCase, error) {
	res, err := s.SynthesizeWithRaw(ctx, theme, difficulty)
	if err != nil {
		return models.MysteryCase{}, err
	}
	return res.Case, nil
}

// SynthesizeRandom writes a case for a uniformly chosen theme.
func (s *Synthesizer) SynthesizeRandom(ctx context.Context, difficulty models.Difficulty) (models.MysteryCase, error) {
	theme, _ := random.Pick(s.src, themes)
	return s.Synthesize(ctx, theme.Name, difficulty)
}

// SynthesizeWithRaw writes a case and also returns the prompt and raw answer it was built from. A rejected answer
// gets exactly one repair prompt before the attempt fails with ErrIncoherent.
func (s *Synthesizer) SynthesizeWithRaw(ctx context.Context, themeName string, difficulty models.Difficulty) (Result, error) {
	theme, ok := ThemeByName(themeName)
	if !ok {
		return Result{}, errors.Wrap(ErrUnknownTheme, "synthesize case", slog.String("theme", themeName))
	}
	if difficulty == "" {
		difficulty = models.DifficultyBeginner
	}
	if !difficulty.Valid() {
		return Result{}, errors.Wrap(ErrInvalidDifficulty, "synthesize case", slog.String("difficulty", string(difficulty)))
	}
	ctx = logging.WithAttrs(ctx, slog.String("theme", theme.Name), slog.String("difficulty", string(difficulty)))

	var (
		prompt  = casePrompt(theme, difficulty)
		attempt = 1
		raw     string
		draft   *Draft
		err     error
	)
	if raw, err = s.gen.Generate(ctx, prompt); err != nil {
		return Result{}, errors.Wrap(err, "generate case")
	}

	if draft, err = candidate(raw, false); err != nil {
		s.record(ctx, theme, difficulty, attempt, prompt, raw, "", err)
		s.logger.LogAttrs(ctx, slog.LevelWarn, "generated case rejected, requesting repair", errors.SlogError(err))

		attempt++
		prompt = repairPrompt(theme, difficulty)
		if raw, err = s.gen.Generate(ctx, prompt); err != nil {
			return Result{}, errors.Wrap(err, "generate repaired case")
		}
		if draft, err = candidate(raw, true); err != nil {
			s.record(ctx, theme, difficulty, attempt, prompt, raw, "", err)
			return Result{}, errors.Wrap(err, "repair case")
		}
	}

	c := Normalize(draft, theme, difficulty, s.now())
	s.glossary.AnnotateCase(&c)
	s.record(ctx, theme, difficulty, attempt, prompt, raw, c.ID, nil)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "case synthesized",
		slog.String("case_id", c.ID),
		slog.String("title", c.Title),
		slog.Int("attempts", attempt),
	)

	return Result{Case: c, Prompt: prompt, Raw: raw}, nil
}

// candidate extracts, parses and validates a draft. On the repair attempt an answer without a recognisable JSON
// block is parsed as a whole.
func candidate(raw string, repair bool) (*Draft, error) {
	doc, ok := ExtractJSON(raw)
	if !ok {
		if !repair {
			return nil, incoherent("no json object in answer", nil)
		}
		doc = raw
	}
	d, err := ParseDraft(doc)
	if err != nil {
		return nil, err
	}
	if err = Validate(d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Synthesizer) record(
	ctx context.Context,
	theme Theme,
	difficulty models.Difficulty,
	number int,
	prompt string,
	raw string,
	caseID string,
	rejection error,
) {
	if s.recorder == nil {
		return
	}
	a := Attempt{
		Theme:      theme.Name,
		Difficulty: difficulty,
		Number:     number,
		Prompt:     prompt,
		Raw:        raw,
		Accepted:   rejection == nil,
		Reason:     "",
		CaseID:     caseID,
		At:         s.now(),
	}
	if rejection != nil {
		a.Reason = rejection.Error()
	}
	if err := s.recorder.RecordAttempt(ctx, a); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to record generation attempt", errors.SlogError(err))
	}
}
