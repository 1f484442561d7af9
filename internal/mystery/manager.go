// Package mystery runs active mysteries: it takes submissions during a time window, settles the prize pool and
// issues collectibles to the fastest solvers.
package mystery

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/myrjola/avalanchemystery/internal/cluegen"
	"github.com/myrjola/avalanchemystery/internal/errors"
	"github.com/myrjola/avalanchemystery/internal/logging"
	"github.com/myrjola/avalanchemystery/internal/models"
	"github.com/myrjola/avalanchemystery/internal/random"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNotFound     = errors.NewSentinel("mystery not found")
	ErrInvalidState = errors.NewSentinel("mystery is not in a valid state for this operation")
	ErrExpired      = errors.NewSentinel("mystery submission period has ended")
	ErrInvalidInput = errors.NewSentinel("invalid mystery parameters")
	ErrNoClues      = errors.NewSentinel("mystery has no clues")
)

const (
	// DefaultInventorySize is how many clues are stocked for a new mystery.
	DefaultInventorySize = 15
	// PlaceholderImage is used when collectible artwork cannot be produced.
	PlaceholderImage = "/placeholder-nft.png"

	stockConcurrency = 4
)

// CaseSource writes the case an active mystery is built from. *casegen.Synthesizer implements it.
type CaseSource interface {
	SynthesizeRandom(ctx context.Context, difficulty models.Difficulty) (models.MysteryCase, error)
}

// ClueSource stocks the clue inventory. *cluegen.Synthesizer implements it.
type ClueSource interface {
	SynthesizeClue(ctx context.Context, mysteryID string, totalClues int, clueNumber int) (models.MarketplaceClue, error)
}

// Illustrator produces artwork for a collectible and returns its URL.
type Illustrator interface {
	Illustrate(ctx context.Context, c models.Collectible) (string, error)
}

type session struct {
	mu          sync.Mutex
	mystery     models.ActiveMystery
	submissions []models.PlayerSubmission
	clues       []models.MarketplaceClue
	earnings    []models.ClueEarning
	settlement  *models.Settlement
}

// Manager owns every active mystery of the process. Operations on different mysteries run concurrently while
// operations on one mystery are serialised.
type Manager struct {
	logger        *slog.Logger
	cases         CaseSource
	clues         ClueSource
	illustrator   Illustrator
	src           random.Source
	now           func() time.Time
	inventorySize int

	mu       sync.RWMutex
	sessions map[string]*session
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithSource(src random.Source) Option {
	return func(m *Manager) { m.src = src }
}

// WithIllustrator enables collectible artwork. Without it every collectible uses PlaceholderImage.
func WithIllustrator(i Illustrator) Option {
	return func(m *Manager) { m.illustrator = i }
}

// WithInventorySize sets how many clues a new mystery is stocked with. Negative sizes mean an empty inventory.
func WithInventorySize(n int) Option {
	return func(m *Manager) { m.inventorySize = max(0, n) }
}

func NewManager(logger *slog.Logger, cases CaseSource, clues ClueSource, opts ...Option) *Manager {
	m := &Manager{
		logger:        logger,
		cases:         cases,
		clues:         clues,
		illustrator:   nil,
		src:           random.NewSource(),
		now:           time.Now,
		inventorySize: DefaultInventorySize,
		mu:            sync.RWMutex{},
		sessions:      make(map[string]*session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create synthesizes a case, stocks its clue inventory and opens it for submissions. Nothing is registered when
// any step fails.
func (m *Manager) Create(
	ctx context.Context,
	difficulty models.Difficulty,
	duration time.Duration,
	prizePool decimal.Decimal,
) (models.ActiveMystery, error) {
	if duration <= 0 {
		return models.ActiveMystery{}, errors.Wrap(ErrInvalidInput, "duration must be positive",
			slog.Duration("duration", duration))
	}
	if prizePool.IsNegative() {
		return models.ActiveMystery{}, errors.Wrap(ErrInvalidInput, "prize pool must not be negative",
			slog.String("prize_pool", prizePool.String()))
	}

	c, err := m.cases.SynthesizeRandom(ctx, difficulty)
	if err != nil {
		return models.ActiveMystery{}, errors.Wrap(err, "synthesize case")
	}
	ctx = logging.WithAttrs(ctx, slog.String("mystery_id", c.ID))

	clues, err := m.stock(ctx, c.ID)
	if err != nil {
		return models.ActiveMystery{}, err
	}

	start := m.now()
	active := models.ActiveMystery{
		MysteryCase:       c,
		StartTime:         start,
		EndTime:           start.Add(duration),
		TotalPrizePool:    prizePool,
		ParticipantCount:  0,
		Status:            models.StatusActive,
		CorrectAnswerHash: AnswerHash(c.Solution.Culprit),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[c.ID]; exists {
		return models.ActiveMystery{}, errors.Wrap(ErrInvalidState, "mystery already exists",
			slog.String("mystery_id", c.ID))
	}
	m.sessions[c.ID] = &session{
		mu:          sync.Mutex{},
		mystery:     active,
		submissions: nil,
		clues:       clues,
		earnings:    nil,
		settlement:  nil,
	}
	m.logger.LogAttrs(ctx, slog.LevelInfo, "mystery opened",
		slog.Time("end_time", active.EndTime),
		slog.String("prize_pool", prizePool.String()),
		slog.Int("clues", len(clues)),
	)
	return active, nil
}

func (m *Manager) stock(ctx context.Context, mysteryID string) ([]models.MarketplaceClue, error) {
	clues := make([]models.MarketplaceClue, m.inventorySize)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(stockConcurrency)
	for i := range clues {
		g.Go(func() error {
			clue, err := m.clues.SynthesizeClue(gctx, mysteryID, len(clues), i+1)
			if err != nil {
				return err //nolint:wrapcheck // wrapped below
			}
			clues[i] = clue
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "stock clue inventory")
	}
	return clues, nil
}

func (m *Manager) session(id string) (*session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, errors.Wrap(ErrNotFound, "lookup mystery", slog.String("mystery_id", id))
	}
	return s, nil
}

// Submit records an accusation. The earlier it arrives the higher its time coefficient.
func (m *Manager) Submit(
	ctx context.Context,
	mysteryID string,
	player string,
	suspectChoice string,
	explanation string,
	cluesUsed []string,
) (models.PlayerSubmission, error) {
	s, err := m.session(mysteryID)
	if err != nil {
		return models.PlayerSubmission{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mystery.Status != models.StatusActive {
		return models.PlayerSubmission{}, errors.Wrap(ErrInvalidState, "mystery is no longer accepting submissions",
			slog.String("mystery_id", mysteryID), slog.String("status", string(s.mystery.Status)))
	}
	now := m.now()
	if now.After(s.mystery.EndTime) {
		return models.PlayerSubmission{}, errors.Wrap(ErrExpired, "submit",
			slog.String("mystery_id", mysteryID), slog.Time("end_time", s.mystery.EndTime))
	}

	if cluesUsed == nil {
		cluesUsed = []string{}
	}
	sub := models.PlayerSubmission{
		ID:              "sub_" + uuid.NewString(),
		MysteryID:       mysteryID,
		PlayerAddress:   player,
		SuspectChoice:   suspectChoice,
		Explanation:     explanation,
		SubmissionTime:  now,
		CluesUsed:       slices.Clone(cluesUsed),
		TimeCoefficient: TimeCoefficient(s.mystery.StartTime, s.mystery.EndTime, now),
		IsCorrect:       nil,
		RewardAmount:    nil,
	}
	s.submissions = append(s.submissions, sub)
	s.mystery.ParticipantCount = uniquePlayers(s.submissions)

	m.logger.LogAttrs(ctx, slog.LevelDebug, "submission accepted",
		slog.String("mystery_id", mysteryID),
		slog.String("submission_id", sub.ID),
		slog.Float64("time_coefficient", sub.TimeCoefficient),
	)
	return sub, nil
}

func uniquePlayers(submissions []models.PlayerSubmission) int {
	seen := make(map[string]struct{}, len(submissions))
	for _, s := range submissions {
		seen[s.PlayerAddress] = struct{}{}
	}
	return len(seen)
}

// Settle closes a mystery, scores every submission, pays out the prize pool and issues collectibles to correct
// solvers. A mystery is settled at most once.
func (m *Manager) Settle(ctx context.Context, mysteryID string) (models.Settlement, error) {
	s, err := m.session(mysteryID)
	if err != nil {
		return models.Settlement{}, err
	}
	ctx = logging.WithAttrs(ctx, slog.String("mystery_id", mysteryID))

	s.mu.Lock()
	if s.mystery.Status != models.StatusActive {
		status := s.mystery.Status
		s.mu.Unlock()
		return models.Settlement{}, errors.Wrap(ErrInvalidState, "mystery already settled",
			slog.String("mystery_id", mysteryID), slog.String("status", string(status)))
	}
	s.mystery.Status = models.StatusEnded

	for i := range s.submissions {
		correct := models.SameName(s.submissions[i].SuspectChoice, s.mystery.Solution.Culprit)
		s.submissions[i].IsCorrect = &correct
	}
	rewards, unallocated := Distribute(mysteryID, s.mystery.TotalPrizePool, s.submissions)
	bySubmission := make(map[string]int, len(rewards))
	for i, r := range rewards {
		bySubmission[r.SubmissionID] = i
	}
	for i := range s.submissions {
		if j, ok := bySubmission[s.submissions[i].ID]; ok {
			amount := rewards[j].RewardAmount
			s.submissions[i].RewardAmount = &amount
		}
	}
	mystery := s.mystery
	solvers := rankSolvers(s.submissions)
	s.mu.Unlock()

	// Artwork is slow, so collectibles are issued without holding the lock. The ended status keeps submissions out.
	collectibles := m.issueCollectibles(ctx, mystery, solvers)
	byCollectible := make(map[string]string, len(collectibles))
	for i, c := range collectibles {
		byCollectible[solvers[i].ID] = c.TokenID
	}
	for i := range rewards {
		rewards[i].CollectibleID = byCollectible[rewards[i].SubmissionID]
	}

	settlement := models.Settlement{
		MysteryID:    mysteryID,
		Rewards:      rewards,
		Collectibles: collectibles,
		Unallocated:  unallocated,
		SettledAt:    m.now(),
	}

	s.mu.Lock()
	s.mystery.Status = models.StatusRewardsDistributed
	s.settlement = &settlement
	s.mu.Unlock()

	m.logger.LogAttrs(ctx, slog.LevelInfo, "mystery settled",
		slog.Int("rewards", len(rewards)),
		slog.Int("collectibles", len(collectibles)),
		slog.String("unallocated", unallocated.String()),
	)
	return settlement, nil
}

func (m *Manager) issueCollectibles(
	ctx context.Context,
	mystery models.ActiveMystery,
	solvers []models.PlayerSubmission,
) []models.Collectible {
	collectibles := make([]models.Collectible, 0, len(solvers))
	for i, sub := range solvers {
		rank := i + 1
		tier := TierForRank(rank)
		c := models.Collectible{
			TokenID:       fmt.Sprintf("mystery_%s_rank_%d_%d", mystery.ID, rank, m.now().UnixMilli()),
			MysteryID:     mystery.ID,
			PlayerAddress: sub.PlayerAddress,
			Tier:          tier,
			ImageURL:      PlaceholderImage,
			Metadata: models.CollectibleMetadata{
				MysteryTitle:      mystery.Title,
				SolveTime:         sub.SubmissionTime.Sub(mystery.StartTime),
				Rank:              rank,
				TotalParticipants: mystery.ParticipantCount,
				CluesUsed:         len(sub.CluesUsed),
				RarityScore:       RarityScore(tier, rank, mystery.ParticipantCount, sub.TimeCoefficient),
			},
		}
		if m.illustrator != nil {
			url, err := m.illustrator.Illustrate(ctx, c)
			if err != nil {
				m.logger.LogAttrs(ctx, slog.LevelWarn, "collectible artwork failed, using placeholder",
					slog.String("token_id", c.TokenID), errors.SlogError(err))
			} else {
				c.ImageURL = url
			}
		}
		collectibles = append(collectibles, c)
	}
	return collectibles
}

// SettleExpired settles every active mystery whose window has closed. Mysteries settled concurrently by someone
// else are skipped.
func (m *Manager) SettleExpired(ctx context.Context) ([]models.Settlement, error) {
	now := m.now()
	var expired []string
	for _, a := range m.ActiveMysteries() {
		if now.After(a.EndTime) {
			expired = append(expired, a.ID)
		}
	}

	var (
		settled []models.Settlement
		errs    []error
	)
	for _, id := range expired {
		st, err := m.Settle(ctx, id)
		switch {
		case errors.Is(err, ErrInvalidState):
			continue
		case err != nil:
			errs = append(errs, err)
		default:
			settled = append(settled, st)
		}
	}
	return settled, errors.Join(errs...)
}

// DrawClue hands a player a clue, favouring common ones. The boolean is false when the inventory is empty.
func (m *Manager) DrawClue(mysteryID string) (models.MarketplaceClue, bool, error) {
	s, err := m.session(mysteryID)
	if err != nil {
		return models.MarketplaceClue{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	clue, ok := m.draw(s.clues)
	return clue, ok, nil
}

func (m *Manager) draw(inventory []models.MarketplaceClue) (models.MarketplaceClue, bool) {
	if len(inventory) == 0 {
		return models.MarketplaceClue{}, false
	}
	rarity, err := random.Choice(m.src, cluegen.DrawWeights())
	if err == nil {
		var eligible []models.MarketplaceClue
		for _, c := range inventory {
			if c.Rarity == rarity {
				eligible = append(eligible, c)
			}
		}
		if clue, ok := random.Pick(m.src, eligible); ok {
			return clue, true
		}
	}
	return random.Pick(m.src, inventory)
}

// EarnClue draws a clue for a player who completed mini games and records the earning.
func (m *Manager) EarnClue(
	ctx context.Context,
	mysteryID string,
	player string,
	miniGamesCompleted int,
) (models.MarketplaceClue, models.ClueEarning, error) {
	s, err := m.session(mysteryID)
	if err != nil {
		return models.MarketplaceClue{}, models.ClueEarning{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mystery.Status != models.StatusActive {
		return models.MarketplaceClue{}, models.ClueEarning{}, errors.Wrap(ErrInvalidState, "earn clue",
			slog.String("mystery_id", mysteryID))
	}
	clue, ok := m.draw(s.clues)
	if !ok {
		return models.MarketplaceClue{}, models.ClueEarning{}, errors.Wrap(ErrNoClues, "earn clue",
			slog.String("mystery_id", mysteryID))
	}
	earning := models.ClueEarning{
		ClueID:             clue.ID,
		PlayerAddress:      player,
		EarnedAt:           m.now(),
		MiniGamesCompleted: miniGamesCompleted,
	}
	s.earnings = append(s.earnings, earning)
	m.logger.LogAttrs(ctx, slog.LevelDebug, "clue earned",
		slog.String("mystery_id", mysteryID), slog.String("clue_id", clue.ID), slog.String("rarity", string(clue.Rarity)))
	return clue, earning, nil
}

// RevealClue marks an inventory clue as revealed. Revealing twice keeps the first timestamp.
func (m *Manager) RevealClue(mysteryID, clueID string) (models.MarketplaceClue, error) {
	s, err := m.session(mysteryID)
	if err != nil {
		return models.MarketplaceClue{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.clues {
		if s.clues[i].ID != clueID {
			continue
		}
		if !s.clues[i].IsRevealed {
			at := m.now()
			s.clues[i].IsRevealed = true
			s.clues[i].RevealTimestamp = &at
		}
		return s.clues[i], nil
	}
	return models.MarketplaceClue{}, errors.Wrap(ErrNotFound, "reveal clue",
		slog.String("mystery_id", mysteryID), slog.String("clue_id", clueID))
}

// ActiveMysteries lists mysteries still accepting submissions, oldest first.
func (m *Manager) ActiveMysteries() []models.ActiveMystery {
	m.mu.RLock()
	sessions := make([]*session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	active := make([]models.ActiveMystery, 0, len(sessions))
	for _, s := range sessions {
		s.mu.Lock()
		if s.mystery.Status == models.StatusActive {
			active = append(active, s.mystery)
		}
		s.mu.Unlock()
	}
	sort.Slice(active, func(i, j int) bool {
		if active[i].StartTime.Equal(active[j].StartTime) {
			return active[i].ID < active[j].ID
		}
		return active[i].StartTime.Before(active[j].StartTime)
	})
	return active
}

// Get returns a snapshot of a mystery in any state.
func (m *Manager) Get(mysteryID string) (models.ActiveMystery, error) {
	s, err := m.session(mysteryID)
	if err != nil {
		return models.ActiveMystery{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mystery, nil
}

// Submissions lists a mystery's submissions in arrival order, optionally only those of player.
func (m *Manager) Submissions(mysteryID, player string) ([]models.PlayerSubmission, error) {
	s, err := m.session(mysteryID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.PlayerSubmission, 0, len(s.submissions))
	for _, sub := range s.submissions {
		if player == "" || sub.PlayerAddress == player {
			out = append(out, sub)
		}
	}
	return out, nil
}

// ClueMarketplace returns the clue inventory of a mystery.
func (m *Manager) ClueMarketplace(mysteryID string) ([]models.MarketplaceClue, error) {
	s, err := m.session(mysteryID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.clues), nil
}

// Earnings lists the clues players earned for a mystery.
func (m *Manager) Earnings(mysteryID string) ([]models.ClueEarning, error) {
	s, err := m.session(mysteryID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.earnings), nil
}

// Settlement returns the outcome of a settled mystery.
func (m *Manager) Settlement(mysteryID string) (models.Settlement, error) {
	s, err := m.session(mysteryID)
	if err != nil {
		return models.Settlement{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settlement == nil {
		return models.Settlement{}, errors.Wrap(ErrInvalidState, "mystery not settled",
			slog.String("mystery_id", mysteryID), slog.String("status", string(s.mystery.Status)))
	}
	return *s.settlement, nil
}
