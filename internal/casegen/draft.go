package casegen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/myrjola/avalanchemystery/internal/errors"
	"github.com/myrjola/avalanchemystery/internal/models"
)

const (
	SuspectCount = 6
	MinClues     = 10
)

var (
	// ErrIncoherent means the generated text could not be turned into a valid case.
	ErrIncoherent = errors.NewSentinel("generated case is incoherent")
	// ErrUnknownTheme is returned for theme names missing from the theme table.
	ErrUnknownTheme = errors.NewSentinel("unknown theme")
	// ErrInvalidDifficulty is returned for difficulty levels other than beginner, intermediate and advanced.
	ErrInvalidDifficulty = errors.NewSentinel("invalid difficulty")
)

func incoherent(reason string, cause error, attrs ...slog.Attr) error {
	attrs = append(attrs, slog.String("reason", reason))
	if cause != nil {
		return errors.Wrap(fmt.Errorf("%w: %w", ErrIncoherent, cause), reason, attrs...)
	}
	return errors.Wrap(ErrIncoherent, reason, attrs...)
}

type jsonKind int

const (
	kindUnset jsonKind = iota
	kindString
	kindNumber
	kindBool
	kindOther
)

// looseString accepts any JSON value and keeps its textual form. The model sometimes answers with numbers where
// strings belong.
type looseString struct {
	value string
	kind  jsonKind
}

func str(s string) looseString {
	return looseString{value: s, kind: kindString}
}

func (l *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*l = looseString{value: "", kind: kindUnset}
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return errors.Wrap(err, "unmarshal string")
		}
		*l = looseString{value: s, kind: kindString}
	case bytes.Equal(b, []byte("true")), bytes.Equal(b, []byte("false")):
		*l = looseString{value: string(b), kind: kindBool}
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		*l = looseString{value: string(b), kind: kindNumber}
	default:
		var compact bytes.Buffer
		if err := json.Compact(&compact, b); err != nil {
			return errors.Wrap(err, "compact json value")
		}
		*l = looseString{value: compact.String(), kind: kindOther}
	}
	return nil
}

func (l looseString) MarshalJSON() ([]byte, error) {
	if l.kind == kindUnset {
		return []byte("null"), nil
	}
	b, err := json.Marshal(l.value)
	if err != nil {
		return nil, errors.Wrap(err, "marshal loose string")
	}
	return b, nil
}

// set reports whether the field was present and not null.
func (l looseString) set() bool {
	return l.kind != kindUnset
}

// truthy reports whether the value counts as provided: present, non-empty, not false and not zero.
func (l looseString) truthy() bool {
	switch l.kind {
	case kindUnset:
		return false
	case kindString:
		return l.value != ""
	case kindBool:
		return l.value == "true"
	case kindNumber:
		f, err := strconv.ParseFloat(l.value, 64)
		return err == nil && f != 0
	case kindOther:
		return true
	}
	return false
}

func (l looseString) or(fallback string) string {
	if l.set() {
		return l.value
	}
	return fallback
}

// looseInt only accepts finite JSON numbers. Anything else counts as missing.
type looseInt struct {
	value int
	ok    bool
}

func num(i int) looseInt {
	return looseInt{value: i, ok: true}
}

func (l *looseInt) UnmarshalJSON(b []byte) error {
	*l = looseInt{value: 0, ok: false}
	f, err := strconv.ParseFloat(string(bytes.TrimSpace(b)), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil //nolint:nilerr // non-numbers fall back to defaults
	}
	*l = looseInt{value: int(f), ok: true}
	return nil
}

func (l looseInt) MarshalJSON() ([]byte, error) {
	if !l.ok {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(l.value)), nil
}

func (l looseInt) or(fallback int) int {
	if l.ok {
		return l.value
	}
	return fallback
}

// Draft is a case as the model produced it. Nothing about it can be trusted until Validate accepts it.
type Draft struct {
	ID               looseString    `json:"id"`
	Title            looseString    `json:"title"`
	ShortDescription looseString    `json:"shortDescription"`
	Victim           *DraftVictim   `json:"victim"`
	Suspects         []DraftSuspect `json:"suspects"`
	Clues            []DraftClue    `json:"clues"`
	Solution         *DraftSolution `json:"solution"`
	EducationalGoals []looseString  `json:"educationalGoals"`
	DifficultyLevel  looseString    `json:"difficultyLevel"`
}

type DraftVictim struct {
	Name       looseString `json:"name"`
	Age        looseInt    `json:"age"`
	Background looseString `json:"background"`
	AvaxRole   looseString `json:"avaxRole"`
}

// UnmarshalJSON keeps a victim that is not an object as present but empty.
func (v *DraftVictim) UnmarshalJSON(b []byte) error {
	type plain DraftVictim
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		*v = DraftVictim{} //nolint:exhaustruct // empty on purpose
		return nil         //nolint:nilerr // a scalar victim is still a victim
	}
	*v = DraftVictim(p)
	return nil
}

type DraftSuspect struct {
	ID             looseInt    `json:"id"`
	Name           looseString `json:"name"`
	Age            looseInt    `json:"age"`
	Background     looseString `json:"background"`
	PossibleMotive looseString `json:"possibleMotive"`
	AvaxConnection looseString `json:"avaxConnection"`
}

func (s *DraftSuspect) UnmarshalJSON(b []byte) error {
	type plain DraftSuspect
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		*s = DraftSuspect{} //nolint:exhaustruct // empty on purpose
		return nil          //nolint:nilerr // keeps the slot so the suspect count stays honest
	}
	*s = DraftSuspect(p)
	return nil
}

type DraftClue struct {
	ID          looseInt    `json:"id"`
	Description looseString `json:"description"`
	AvaxConcept looseString `json:"avaxConcept"`
	Concept     looseString `json:"concept"`
	Difficulty  looseString `json:"difficulty"`
}

func (c *DraftClue) UnmarshalJSON(b []byte) error {
	type plain DraftClue
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		*c = DraftClue{} //nolint:exhaustruct // empty on purpose
		return nil       //nolint:nilerr // keeps the slot so the clue count stays honest
	}
	*c = DraftClue(p)
	return nil
}

type DraftSolution struct {
	Culprit     looseString `json:"culprit"`
	Motive      looseString `json:"motive"`
	Explanation looseString `json:"explanation"`
}

func (s *DraftSolution) UnmarshalJSON(b []byte) error {
	type plain DraftSolution
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		*s = DraftSolution{} //nolint:exhaustruct // empty on purpose
		return nil           //nolint:nilerr // validation reports the missing culprit
	}
	*s = DraftSolution(p)
	return nil
}

var fencedBlock = regexp.MustCompile("(?i)```(?:json)?\\s*([\\s\\S]*?)```")

// ExtractJSON finds the JSON document in a model answer. A fenced code block wins. Otherwise the text between the
// first '{' and the last '}' is used, but only if it mentions both "title" and "suspects".
func ExtractJSON(text string) (string, bool) {
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first == -1 || last <= first {
		return "", false
	}
	candidate := strings.TrimSpace(text[first : last+1])
	if strings.Contains(candidate, "title") && strings.Contains(candidate, "suspects") {
		return candidate, true
	}
	return "", false
}

// ParseDraft decodes a JSON document into a Draft.
func ParseDraft(doc string) (*Draft, error) {
	var d *Draft
	if err := json.Unmarshal([]byte(doc), &d); err != nil {
		return nil, incoherent("parse case json", err)
	}
	if d == nil {
		return nil, incoherent("case json is null", nil)
	}
	return d, nil
}

// Validate accepts a draft as a candidate case or explains why it is not one.
func Validate(d *Draft) error {
	if d == nil {
		return incoherent("missing case", nil)
	}
	if !d.Title.truthy() {
		return incoherent("missing title", nil)
	}
	if !d.ShortDescription.truthy() {
		return incoherent("missing short description", nil)
	}
	if d.Victim == nil {
		return incoherent("missing victim", nil)
	}
	if len(d.Suspects) != SuspectCount {
		return incoherent("wrong number of suspects", nil, slog.Int("suspects", len(d.Suspects)))
	}
	if len(d.Clues) < MinClues {
		return incoherent("too few clues", nil, slog.Int("clues", len(d.Clues)))
	}
	if d.Solution == nil || !d.Solution.Culprit.truthy() {
		return incoherent("missing culprit", nil)
	}

	culprit := d.Solution.Culprit.value
	var matches int
	for _, s := range d.Suspects {
		if models.SameName(s.Name.value, culprit) {
			matches++
		}
		for _, banned := range bannedNames {
			if models.SameName(s.Name.value, banned) {
				return incoherent("suspect uses a banned name", nil, slog.String("name", s.Name.value))
			}
		}
	}
	switch {
	case matches == 0:
		return incoherent("culprit is not a suspect", nil, slog.String("culprit", culprit))
	case matches > 1:
		return incoherent("culprit matches several suspects", nil,
			slog.String("culprit", culprit), slog.Int("matches", matches))
	}
	return nil
}
