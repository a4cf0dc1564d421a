package ingest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"dailymatch-engine/internal/config"
	"dailymatch-engine/internal/storage"
	"dailymatch-engine/pkg/models"
	"dailymatch-engine/pkg/utils"
)

// Categorizer enriches a new listing with AI-derived tags. It is best-effort
// and never fails; the manager in internal/categorize satisfies this.
type Categorizer interface {
	Categorize(ctx context.Context, title, employer, description, location string) *models.OpportunityTags
}

// Deduplicator ingests raw listing rows against the active corpus. A batch is
// processed strictly sequentially because each row's outcome depends on index
// updates from earlier rows, and concurrent batches are serialized with a
// mutex so two batches cannot independently admit near-duplicates.
type Deduplicator struct {
	corpus      storage.CorpusStore
	categorizer Categorizer
	config      *config.Config
	logger      *zap.Logger
	now         storage.Clock

	mu sync.Mutex
}

// NewDeduplicator constructs a Deduplicator. categorizer may be nil, in which
// case created listings carry the empty-tags fallback.
func NewDeduplicator(corpus storage.CorpusStore, categorizer Categorizer, cfg *config.Config, logger *zap.Logger, now storage.Clock) *Deduplicator {
	if now == nil {
		now = time.Now
	}
	return &Deduplicator{
		corpus:      corpus,
		categorizer: categorizer,
		config:      cfg,
		logger:      logger,
		now:         now,
	}
}

// IngestBatch processes one batch of raw rows and returns per-row outcomes.
// The corpus index is rebuilt from the persisted active corpus at the start
// of every run; created rows update it immediately so later rows in the same
// batch deduplicate against them too.
func (d *Deduplicator) IngestBatch(ctx context.Context, rows []models.RawRow) (*models.IngestResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	active, err := d.corpus.ActiveOpportunities(ctx)
	if err != nil {
		return nil, utils.NewDependencyUnavailableError(fmt.Sprintf("corpus read failed: %v", err))
	}
	index := BuildIndex(active)

	result := &models.IngestResult{
		CreatedIDs:     []string{},
		SkippedDetails: []models.RowOutcome{},
		FailureReasons: []models.RowOutcome{},
	}

	for i, row := range rows {
		d.processRow(ctx, i, row, index, result)
	}

	d.logger.Info("ingestion batch complete",
		zap.Int("rows", len(rows)),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))

	return result, nil
}

func (d *Deduplicator) processRow(ctx context.Context, rowNum int, row models.RawRow, index *CorpusIndex, result *models.IngestResult) {
	title := rowField(row, titleColumns)
	employer := rowField(row, employerColumns)
	applyURL := rowField(row, urlColumns)

	// Required-field validation happens before dedup matching; a failing row
	// never reaches the matcher.
	if reason := validateRow(title, employer, applyURL); reason != "" {
		result.Failed++
		result.FailureReasons = append(result.FailureReasons, models.RowOutcome{
			Row:    rowNum,
			Title:  title,
			Reason: reason,
		})
		return
	}

	normTitle := NormalizeTitle(title)
	normEmployer := NormalizeEmployer(employer)
	normURL := NormalizeURL(applyURL)

	// Matching priority: URL, exact title+employer, fuzzy title for the same
	// employer. First match wins and the row is skipped.
	if skipReason := d.matchExisting(index, normTitle, normEmployer, normURL); skipReason != "" {
		result.Skipped++
		result.SkippedDetails = append(result.SkippedDetails, models.RowOutcome{
			Row:    rowNum,
			Title:  title,
			Reason: skipReason,
		})
		return
	}

	now := d.now().UTC()
	earlyAccessUntil := now.Add(d.config.Picks.EarlyAccessWindow)
	opp := &models.Opportunity{
		ID:               utils.GenerateOpportunityID(),
		Title:            title,
		Employer:         employer,
		Location:         rowField(row, locationColumns),
		Description:      rowField(row, descriptionColumns),
		ApplyURL:         applyURL,
		IsNewOpportunity: true,
		PublishedAt:      now,
		EarlyAccessUntil: &earlyAccessUntil,
		Deadline:         parseDeadline(rowField(row, deadlineColumns)),
		IsActive:         true,
	}

	if d.categorizer != nil {
		opp.Tags = d.categorizer.Categorize(ctx, opp.Title, opp.Employer, opp.Description, opp.Location)
	} else {
		opp.Tags = models.EmptyTags()
	}

	if err := d.corpus.Create(ctx, opp); err != nil {
		d.logger.Error("failed to create opportunity",
			zap.String("title", title),
			zap.Error(err))
		result.Failed++
		result.FailureReasons = append(result.FailureReasons, models.RowOutcome{
			Row:    rowNum,
			Title:  title,
			Reason: fmt.Sprintf("create failed: %v", err),
		})
		return
	}

	// Update both indices immediately so later rows in this batch are
	// deduplicated against this one.
	index.Add(normURL, normTitle, normEmployer)

	result.Created++
	result.CreatedIDs = append(result.CreatedIDs, opp.ID)
}

func validateRow(title, employer, applyURL string) string {
	var missing []string
	if title == "" {
		missing = append(missing, "title")
	}
	if employer == "" {
		missing = append(missing, "employer")
	}
	if applyURL == "" {
		missing = append(missing, "url")
	}
	if len(missing) == 0 {
		return ""
	}
	return fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", "))
}

// matchExisting returns a human-readable skip reason, or "" when the row is new.
func (d *Deduplicator) matchExisting(index *CorpusIndex, normTitle, normEmployer, normURL string) string {
	if index.HasURL(normURL) {
		return "URL already exists"
	}
	if index.HasTitleEmployer(normTitle, normEmployer) {
		return "title already exists for this employer"
	}
	for _, existing := range index.TitlesForEmployer(normEmployer) {
		if d.fuzzyTitleMatch(normTitle, existing) {
			return fmt.Sprintf("similar title already exists for this employer: %q", existing)
		}
	}
	return ""
}

// fuzzyTitleMatch implements the two fuzzy criteria: containment with a
// length difference under the configured fraction of the longer string, or
// character-level similarity above the configured threshold.
func (d *Deduplicator) fuzzyTitleMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}

	longer, shorter := a, b
	if len(b) > len(a) {
		longer, shorter = b, a
	}
	if strings.Contains(longer, shorter) {
		delta := float64(len(longer)-len(shorter)) / float64(len(longer))
		if delta < d.config.Ingest.FuzzyMaxLengthDelta {
			return true
		}
	}

	return Similarity(a, b) > d.config.Ingest.FuzzySimilarityThreshold
}
