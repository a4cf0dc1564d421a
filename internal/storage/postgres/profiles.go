package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"dailymatch-engine/internal/storage"
	"dailymatch-engine/pkg/models"
)

// ProfileReader loads candidate snapshots from the candidates table plus the
// candidate's applied and unlocked identifier sets.
type ProfileReader struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewProfileReader constructs a ProfileReader.
func NewProfileReader(pool *pgxpool.Pool, logger *zap.Logger) *ProfileReader {
	return &ProfileReader{pool: pool, logger: logger}
}

// GetProfile builds a fresh CandidateProfile snapshot. CV-derived entries are
// stored as JSONB columns written by the CV parsing pipeline.
func (r *ProfileReader) GetProfile(ctx context.Context, candidateID string) (*models.CandidateProfile, error) {
	var (
		profile        models.CandidateProfile
		educationJSON  []byte
		experienceJSON []byte
	)

	err := r.pool.QueryRow(ctx,
		`SELECT id, major, education_level, location, skills, interests,
		        cv_skills, cv_education, cv_experience
		 FROM candidates WHERE id = $1`, candidateID,
	).Scan(
		&profile.ID, &profile.Major, &profile.EducationLevel, &profile.Location,
		&profile.Skills, &profile.Interests, &profile.CVSkills,
		&educationJSON, &experienceJSON,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query candidate: %w", err)
	}

	if len(educationJSON) > 0 {
		if err := json.Unmarshal(educationJSON, &profile.CVEducation); err != nil {
			return nil, fmt.Errorf("unmarshal cv education: %w", err)
		}
	}
	if len(experienceJSON) > 0 {
		if err := json.Unmarshal(experienceJSON, &profile.CVExperience); err != nil {
			return nil, fmt.Errorf("unmarshal cv experience: %w", err)
		}
	}

	if profile.AppliedIDs, err = r.collectIDs(ctx,
		`SELECT opportunity_id FROM applications WHERE candidate_id = $1`, candidateID); err != nil {
		return nil, err
	}
	if profile.UnlockedIDs, err = r.collectIDs(ctx,
		`SELECT opportunity_id FROM unlocks WHERE candidate_id = $1`, candidateID); err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *ProfileReader) collectIDs(ctx context.Context, query, candidateID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, candidateID)
	if err != nil {
		return nil, fmt.Errorf("query candidate ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
