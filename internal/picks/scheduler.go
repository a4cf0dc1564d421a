package picks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"dailymatch-engine/internal/config"
	"dailymatch-engine/internal/matching"
	"dailymatch-engine/internal/storage"
	"dailymatch-engine/internal/streak"
	"dailymatch-engine/pkg/models"
	"dailymatch-engine/pkg/utils"
)

// Scheduler serves and regenerates per-candidate daily pick sets. Ranking is
// computed at most once per logical day; lock and applied flags are
// recomputed on every request so application state stays live while the
// ranking stays stable.
type Scheduler struct {
	profiles storage.ProfileReader
	corpus   storage.CorpusStore
	picks    storage.PickSetStore
	streaks  storage.StreakStore
	tracker  *streak.Tracker
	config   *config.Config
	logger   *zap.Logger
	now      storage.Clock
}

// NewScheduler wires a Scheduler from its injected repositories. now may be
// nil, in which case wall-clock time is used.
func NewScheduler(
	profiles storage.ProfileReader,
	corpus storage.CorpusStore,
	picks storage.PickSetStore,
	streaks storage.StreakStore,
	tracker *streak.Tracker,
	cfg *config.Config,
	logger *zap.Logger,
	now storage.Clock,
) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		profiles: profiles,
		corpus:   corpus,
		picks:    picks,
		streaks:  streaks,
		tracker:  tracker,
		config:   cfg,
		logger:   logger,
		now:      now,
	}
}

// GetDailyPicks returns the candidate's decorated pick list for the current
// logical day, regenerating it first if the stored set is stale or absent.
func (s *Scheduler) GetDailyPicks(ctx context.Context, candidateID string) (*models.DailyPicksResponse, error) {
	profile, err := s.profiles.GetProfile(ctx, candidateID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, utils.NewNotFoundError(fmt.Sprintf("candidate %s not found", candidateID))
	}
	if err != nil {
		return nil, utils.NewDependencyUnavailableError(fmt.Sprintf("profile read failed: %v", err))
	}

	now := s.now().UTC()
	logicalDay := LogicalDay(now, s.config.Picks.OffsetHours, s.config.Picks.BoundaryHour)

	set, err := s.picks.Get(ctx, candidateID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, utils.NewDependencyUnavailableError(fmt.Sprintf("pick set read failed: %v", err))
	}

	if set == nil || !set.RefreshDate.Equal(logicalDay) {
		set, err = s.regenerate(ctx, profile, logicalDay)
		if err != nil {
			return nil, err
		}
	}

	decorated, err := s.decorate(ctx, set, profile, now)
	if err != nil {
		return nil, err
	}

	info, err := s.streakInfo(ctx, candidateID, now)
	if err != nil {
		return nil, err
	}

	return &models.DailyPicksResponse{
		Picks:  decorated,
		Streak: info,
	}, nil
}

// RecordActivity applies one qualifying activity event (e.g. an application
// submitted) to the candidate's streak and returns the updated projection.
func (s *Scheduler) RecordActivity(ctx context.Context, candidateID string) (*models.StreakInfo, error) {
	now := s.now().UTC()
	rec, err := s.streaks.Apply(ctx, candidateID, func(rec models.StreakRecord) models.StreakRecord {
		return s.tracker.Advance(rec, now)
	})
	if err != nil {
		return nil, utils.NewDependencyUnavailableError(fmt.Sprintf("streak update failed: %v", err))
	}
	info := s.tracker.Project(*rec, now)
	return &info, nil
}

// regenerate runs the once-per-logical-day selection: score every active
// listing, reserve at most one early-access slot, fill the regular slots by
// score, and commit the whole set with a set-if-still-stale write. When a
// concurrent request wins the race, its committed set is adopted instead.
func (s *Scheduler) regenerate(ctx context.Context, profile *models.CandidateProfile, logicalDay time.Time) (*models.DailyPickSet, error) {
	active, err := s.corpus.ActiveOpportunities(ctx)
	if err != nil {
		return nil, utils.NewDependencyUnavailableError(fmt.Sprintf("corpus read failed: %v", err))
	}

	scored := s.scoreAll(profile, active)

	now := s.now().UTC()
	entries := make([]models.PickEntry, 0, s.config.Picks.RegularSlots+1)
	usedIdx := -1

	// Early-access slot: highest score among listings still inside their
	// window, ties broken by most recent publication.
	earlyIdx := -1
	for i := range scored {
		if !scored[i].opp.InEarlyAccess(now) {
			continue
		}
		if earlyIdx == -1 || betterEarly(&scored[i], &scored[earlyIdx]) {
			earlyIdx = i
		}
	}
	if earlyIdx >= 0 {
		entries = append(entries, pickEntry(&scored[earlyIdx], true))
		usedIdx = earlyIdx
	}

	// Regular slots from the remaining pool, score descending.
	order := make([]int, 0, len(scored))
	for i := range scored {
		if i != usedIdx {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := &scored[order[a]], &scored[order[b]]
		if sa.match.Score != sb.match.Score {
			return sa.match.Score > sb.match.Score
		}
		if !sa.opp.PublishedAt.Equal(sb.opp.PublishedAt) {
			return sa.opp.PublishedAt.After(sb.opp.PublishedAt)
		}
		return sa.opp.ID < sb.opp.ID
	})
	target := s.config.Picks.RegularSlots
	if earlyIdx >= 0 {
		target++
	}
	for _, i := range order {
		if len(entries) >= target {
			break
		}
		entries = append(entries, pickEntry(&scored[i], false))
	}

	set := &models.DailyPickSet{
		CandidateID: profile.ID,
		RefreshDate: logicalDay,
		Picks:       entries,
	}

	err = s.picks.PutIfStale(ctx, set)
	if errors.Is(err, storage.ErrStale) {
		// Another request regenerated for the same logical day first; the
		// stored set is authoritative so both callers see identical picks.
		stored, getErr := s.picks.Get(ctx, profile.ID)
		if getErr != nil {
			return nil, utils.NewDependencyUnavailableError(fmt.Sprintf("pick set re-read failed: %v", getErr))
		}
		return stored, nil
	}
	if err != nil {
		return nil, utils.NewDependencyUnavailableError(fmt.Sprintf("pick set write failed: %v", err))
	}

	s.logger.Info("daily picks regenerated",
		zap.String("candidate_id", profile.ID),
		zap.Time("refresh_date", logicalDay),
		zap.Int("picks", len(entries)),
		zap.Bool("early_access", earlyIdx >= 0))

	return set, nil
}

type scoredOpportunity struct {
	opp   models.Opportunity
	match models.MatchResult
}

// scoreAll fans scoring out over a bounded worker group. The scorer is pure
// and safe to invoke concurrently; results land in a fixed slice so ordering
// stays deterministic.
func (s *Scheduler) scoreAll(profile *models.CandidateProfile, active []models.Opportunity) []scoredOpportunity {
	normalized := matching.Normalize(profile)
	scored := make([]scoredOpportunity, len(active))

	concurrency := s.config.Picks.ScoreConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i := range active {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			scored[i] = scoredOpportunity{
				opp:   active[i],
				match: matching.Score(normalized, &active[i]),
			}
		}(i)
	}
	wg.Wait()

	return scored
}

// decorate recomputes the live per-request flags over a frozen set. The
// early-access window is re-read from the corpus on every request: an expired
// window unlocks the pick for everyone even mid-day. A failed corpus read
// surfaces as a dependency error rather than serving a locked pick unlocked.
func (s *Scheduler) decorate(ctx context.Context, set *models.DailyPickSet, profile *models.CandidateProfile, now time.Time) ([]models.DecoratedPick, error) {
	windowOpen := make(map[string]bool)
	var earlyIDs []string
	for _, entry := range set.Picks {
		if entry.IsEarlyAccess {
			earlyIDs = append(earlyIDs, entry.OpportunityID)
		}
	}
	if len(earlyIDs) > 0 {
		opps, err := s.corpus.ByIDs(ctx, earlyIDs)
		if err != nil {
			return nil, utils.NewDependencyUnavailableError(fmt.Sprintf("corpus read failed: %v", err))
		}
		for i := range opps {
			windowOpen[opps[i].ID] = opps[i].InEarlyAccess(now)
		}
	}

	out := make([]models.DecoratedPick, 0, len(set.Picks))
	for _, entry := range set.Picks {
		locked := entry.IsEarlyAccess &&
			windowOpen[entry.OpportunityID] &&
			!profile.HasUnlocked(entry.OpportunityID)

		out = append(out, models.DecoratedPick{
			ID:            entry.OpportunityID,
			Score:         entry.Score,
			Reasons:       entry.Reasons,
			Warnings:      entry.Warnings,
			IsEarlyAccess: entry.IsEarlyAccess,
			IsLocked:      locked,
			HasApplied:    profile.HasApplied(entry.OpportunityID),
		})
	}
	return out, nil
}

func (s *Scheduler) streakInfo(ctx context.Context, candidateID string, now time.Time) (models.StreakInfo, error) {
	rec, err := s.streaks.Get(ctx, candidateID)
	if errors.Is(err, storage.ErrNotFound) {
		rec = &models.StreakRecord{CandidateID: candidateID}
	} else if err != nil {
		return models.StreakInfo{}, utils.NewDependencyUnavailableError(fmt.Sprintf("streak read failed: %v", err))
	}
	return s.tracker.Project(*rec, now), nil
}

func pickEntry(so *scoredOpportunity, earlyAccess bool) models.PickEntry {
	return models.PickEntry{
		OpportunityID: so.opp.ID,
		Score:         so.match.Score,
		Reasons:       so.match.Reasons,
		Warnings:      so.match.Warnings,
		IsEarlyAccess: earlyAccess,
	}
}

// betterEarly ranks early-access candidates: score first, then recency.
func betterEarly(a, b *scoredOpportunity) bool {
	if a.match.Score != b.match.Score {
		return a.match.Score > b.match.Score
	}
	return a.opp.PublishedAt.After(b.opp.PublishedAt)
}
