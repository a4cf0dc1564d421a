package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"dailymatch-engine/pkg/models"
)

// CorpusStore is the opportunity repository backed by the opportunities table.
type CorpusStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewCorpusStore constructs a CorpusStore.
func NewCorpusStore(pool *pgxpool.Pool, logger *zap.Logger) *CorpusStore {
	return &CorpusStore{pool: pool, logger: logger}
}

const opportunityColumns = `id, title, employer, location, description, apply_url,
	skills, experience_level, tags, is_new_opportunity, published_at,
	early_access_until, deadline, is_active`

// Create inserts a new listing. Tags are serialized to JSONB; a nil tag set
// stays NULL so the scorer can tell untagged listings apart.
func (s *CorpusStore) Create(ctx context.Context, opp *models.Opportunity) error {
	var tagsJSON []byte
	if opp.Tags != nil {
		b, err := json.Marshal(opp.Tags)
		if err != nil {
			return fmt.Errorf("marshal tags: %w", err)
		}
		tagsJSON = b
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO opportunities (id, title, employer, location, description, apply_url,
			skills, experience_level, tags, is_new_opportunity, published_at,
			early_access_until, deadline, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		opp.ID, opp.Title, opp.Employer, opp.Location, opp.Description, opp.ApplyURL,
		opp.Skills, opp.ExperienceLevel, tagsJSON, opp.IsNewOpportunity, opp.PublishedAt,
		opp.EarlyAccessUntil, opp.Deadline, opp.IsActive,
	)
	if err != nil {
		return fmt.Errorf("insert opportunity: %w", err)
	}

	s.logger.Debug("opportunity created",
		zap.String("id", opp.ID),
		zap.String("title", opp.Title),
		zap.String("employer", opp.Employer))
	return nil
}

// ActiveOpportunities bulk-reads all active listings.
func (s *CorpusStore) ActiveOpportunities(ctx context.Context) ([]models.Opportunity, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+opportunityColumns+` FROM opportunities WHERE is_active = true`)
	if err != nil {
		return nil, fmt.Errorf("query active opportunities: %w", err)
	}
	defer rows.Close()

	return scanOpportunities(rows)
}

// ByIDs reads listings for an identifier set, preserving no particular order.
func (s *CorpusStore) ByIDs(ctx context.Context, ids []string) ([]models.Opportunity, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+opportunityColumns+` FROM opportunities WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("query opportunities by ids: %w", err)
	}
	defer rows.Close()

	return scanOpportunities(rows)
}

func scanOpportunities(rows pgx.Rows) ([]models.Opportunity, error) {
	var out []models.Opportunity
	for rows.Next() {
		var (
			opp      models.Opportunity
			tagsJSON []byte
		)
		if err := rows.Scan(
			&opp.ID, &opp.Title, &opp.Employer, &opp.Location, &opp.Description,
			&opp.ApplyURL, &opp.Skills, &opp.ExperienceLevel, &tagsJSON,
			&opp.IsNewOpportunity, &opp.PublishedAt, &opp.EarlyAccessUntil,
			&opp.Deadline, &opp.IsActive,
		); err != nil {
			return nil, fmt.Errorf("scan opportunity: %w", err)
		}
		if len(tagsJSON) > 0 {
			var tags models.OpportunityTags
			if err := json.Unmarshal(tagsJSON, &tags); err != nil {
				return nil, fmt.Errorf("unmarshal tags: %w", err)
			}
			opp.Tags = &tags
		}
		out = append(out, opp)
	}
	return out, rows.Err()
}
