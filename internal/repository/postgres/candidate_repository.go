package postgres

import (
	"context"
	"errors"

	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type candidateRepository struct {
	db *pgxpool.Pool
}

func NewCandidateRepository(db *pgxpool.Pool) domain.CandidateRepository {
	return &candidateRepository{db: db}
}

const profileColumns = `
	id, user_id, first_name, last_name, headline, bio, hourly_rate::float8,
	portfolio_url, availability, profile_completion, is_profile_ready, last_validated_at,
	status, revision_notes, rejection_reason, submitted_at, reviewed_at, reviewed_by,
	created_at, updated_at`

func scanProfile(row pgx.Row) (*domain.CandidateProfile, error) {
	var p domain.CandidateProfile
	err := row.Scan(
		&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Headline, &p.Bio, &p.HourlyRate,
		&p.PortfolioURL, &p.Availability, &p.ProfileCompletion, &p.IsProfileReady, &p.LastValidatedAt,
		&p.Status, &p.RevisionNotes, &p.RejectionReason, &p.SubmittedAt, &p.ReviewedAt, &p.ReviewedBy,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	p.Skills = []domain.Skill{}
	return &p, nil
}

func (r *candidateRepository) GetByUserID(ctx context.Context, userID string) (*domain.CandidateProfile, error) {
	p, err := getProfile(ctx, r.db, `SELECT `+profileColumns+` FROM candidate_profiles WHERE user_id = $1`, userID)
	if err != nil {
		return nil, apperror.PersistenceFailure("candidate.get_by_user", err)
	}
	return p, nil
}

func (r *candidateRepository) GetByID(ctx context.Context, id int64) (*domain.CandidateProfile, error) {
	p, err := getProfile(ctx, r.db, `SELECT `+profileColumns+` FROM candidate_profiles WHERE id = $1`, id)
	if err != nil {
		return nil, apperror.PersistenceFailure("candidate.get_by_id", err)
	}
	return p, nil
}

// getProfile loads one profile and its skills through q (pool or tx).
func getProfile(ctx context.Context, q querier, query string, arg interface{}) (*domain.CandidateProfile, error) {
	p, err := scanProfile(q.QueryRow(ctx, query, arg))
	if err != nil || p == nil {
		return nil, err
	}
	skills, err := loadSkills(ctx, q, p.ID)
	if err != nil {
		return nil, err
	}
	p.Skills = skills
	return p, nil
}

func loadSkills(ctx context.Context, q querier, profileID int64) ([]domain.Skill, error) {
	rows, err := q.Query(ctx, `
		SELECT s.id, s.name, s.category
		FROM candidate_skills cs
		JOIN skills s ON s.id = cs.skill_id
		WHERE cs.profile_id = $1
		ORDER BY s.name`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	skills := []domain.Skill{}
	for rows.Next() {
		var s domain.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Category); err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

// UpsertWithReadiness writes the editable fields, replaces the skill links
// and persists the readiness triple in one transaction. Status is never
// written here.
func (r *candidateRepository) UpsertWithReadiness(ctx context.Context, userID string, req *domain.UpdateProfileRequest, score domain.ReadinessFunc) (*domain.CandidateProfile, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, apperror.PersistenceFailure("candidate.upsert", err)
	}
	defer tx.Rollback(ctx)

	var profileID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO candidate_profiles
			(user_id, first_name, last_name, headline, bio, hourly_rate, portfolio_url, availability)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			headline = EXCLUDED.headline,
			bio = EXCLUDED.bio,
			hourly_rate = EXCLUDED.hourly_rate,
			portfolio_url = EXCLUDED.portfolio_url,
			availability = EXCLUDED.availability,
			updated_at = NOW()
		RETURNING id`,
		userID, req.FirstName, req.LastName, req.Headline, req.Bio, req.HourlyRate, req.PortfolioURL, req.Availability,
	).Scan(&profileID)
	if err != nil {
		return nil, apperror.PersistenceFailure("candidate.upsert", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM candidate_skills WHERE profile_id = $1`, profileID); err != nil {
		return nil, apperror.PersistenceFailure("candidate.upsert", err)
	}
	if len(req.SkillIDs) > 0 {
		ids := make([]int64, len(req.SkillIDs))
		for i, id := range req.SkillIDs {
			ids[i] = int64(id)
		}
		tag, err := tx.Exec(ctx, `
			INSERT INTO candidate_skills (profile_id, skill_id)
			SELECT $1, s.id FROM skills s WHERE s.id = ANY($2::bigint[])`,
			profileID, pq.Array(ids))
		if err != nil {
			return nil, apperror.PersistenceFailure("candidate.upsert", err)
		}
		if int(tag.RowsAffected()) != len(ids) {
			return nil, apperror.BadRequest("One or more skills do not exist").WithDetail("skill_ids", req.SkillIDs)
		}
	}

	p, err := getProfile(ctx, tx, `SELECT `+profileColumns+` FROM candidate_profiles WHERE id = $1`, profileID)
	if err != nil {
		return nil, apperror.PersistenceFailure("candidate.upsert", err)
	}

	if err := persistReadiness(ctx, tx, p, score); err != nil {
		return nil, apperror.PersistenceFailure("candidate.upsert", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.PersistenceFailure("candidate.upsert", err)
	}
	return p, nil
}

// RecomputeReadiness locks the row so a concurrent edit cannot interleave
// between the read and the readiness write.
func (r *candidateRepository) RecomputeReadiness(ctx context.Context, userID string, score domain.ReadinessFunc) (*domain.CandidateProfile, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, apperror.PersistenceFailure("candidate.recompute", err)
	}
	defer tx.Rollback(ctx)

	p, err := getProfile(ctx, tx, `SELECT `+profileColumns+` FROM candidate_profiles WHERE user_id = $1 FOR UPDATE`, userID)
	if err != nil {
		return nil, apperror.PersistenceFailure("candidate.recompute", err)
	}
	if p == nil {
		return nil, nil
	}

	if err := persistReadiness(ctx, tx, p, score); err != nil {
		return nil, apperror.PersistenceFailure("candidate.recompute", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.PersistenceFailure("candidate.recompute", err)
	}
	return p, nil
}

// persistReadiness writes completion, readiness and last_validated_at in a
// single statement and mirrors them onto p.
func persistReadiness(ctx context.Context, tx pgx.Tx, p *domain.CandidateProfile, score domain.ReadinessFunc) error {
	res := score(p)
	err := tx.QueryRow(ctx, `
		UPDATE candidate_profiles
		SET profile_completion = $2, is_profile_ready = $3, last_validated_at = NOW()
		WHERE id = $1
		RETURNING last_validated_at, updated_at`,
		p.ID, res.Completion, res.IsReady,
	).Scan(&p.LastValidatedAt, &p.UpdatedAt)
	if err != nil {
		return err
	}
	p.ProfileCompletion = res.Completion
	p.IsProfileReady = res.IsReady
	return nil
}

// CompareAndSetStatus applies change only while the stored status still
// equals change.From.
func (r *candidateRepository) CompareAndSetStatus(ctx context.Context, change domain.StatusChange) (*domain.CandidateProfile, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, apperror.PersistenceFailure("candidate.transition", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		UPDATE candidate_profiles SET
			status = $3::text,
			revision_notes = $4::text,
			rejection_reason = COALESCE($5::text, rejection_reason),
			submitted_at = CASE WHEN $6::boolean THEN NOW() ELSE submitted_at END,
			reviewed_by = COALESCE($7::text, reviewed_by),
			reviewed_at = CASE WHEN $7::text IS NULL THEN reviewed_at ELSE NOW() END,
			updated_at = NOW()
		WHERE id = $1 AND status = $2::text
		RETURNING id`,
		change.ProfileID, string(change.From), string(change.To),
		change.RevisionNotes, change.RejectionReason, change.MarkSubmitted, change.ReviewedBy,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.PersistenceFailure("candidate.transition", err)
	}

	p, err := getProfile(ctx, tx, `SELECT `+profileColumns+` FROM candidate_profiles WHERE id = $1`, id)
	if err != nil {
		return nil, apperror.PersistenceFailure("candidate.transition", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.PersistenceFailure("candidate.transition", err)
	}
	return p, nil
}

func (r *candidateRepository) ListByStatus(ctx context.Context, status domain.ProfileStatus, limit, offset int) ([]domain.CandidateProfile, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM candidate_profiles WHERE status = $1`, string(status)).Scan(&total); err != nil {
		return nil, 0, apperror.PersistenceFailure("candidate.list", err)
	}

	rows, err := r.db.Query(ctx, `SELECT `+profileColumns+`
		FROM candidate_profiles
		WHERE status = $1
		ORDER BY submitted_at ASC NULLS LAST, id ASC
		LIMIT $2 OFFSET $3`, string(status), limit, offset)
	if err != nil {
		return nil, 0, apperror.PersistenceFailure("candidate.list", err)
	}
	defer rows.Close()

	profiles := []domain.CandidateProfile{}
	index := map[int64]int{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, 0, apperror.PersistenceFailure("candidate.list", err)
		}
		index[p.ID] = len(profiles)
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.PersistenceFailure("candidate.list", err)
	}
	rows.Close()

	if len(profiles) == 0 {
		return profiles, total, nil
	}

	ids := make([]int64, 0, len(profiles))
	for id := range index {
		ids = append(ids, id)
	}
	skillRows, err := r.db.Query(ctx, `
		SELECT cs.profile_id, s.id, s.name, s.category
		FROM candidate_skills cs
		JOIN skills s ON s.id = cs.skill_id
		WHERE cs.profile_id = ANY($1::bigint[])
		ORDER BY s.name`, pq.Array(ids))
	if err != nil {
		return nil, 0, apperror.PersistenceFailure("candidate.list", err)
	}
	defer skillRows.Close()

	for skillRows.Next() {
		var profileID int64
		var s domain.Skill
		if err := skillRows.Scan(&profileID, &s.ID, &s.Name, &s.Category); err != nil {
			return nil, 0, apperror.PersistenceFailure("candidate.list", err)
		}
		i := index[profileID]
		profiles[i].Skills = append(profiles[i].Skills, s)
	}
	if err := skillRows.Err(); err != nil {
		return nil, 0, apperror.PersistenceFailure("candidate.list", err)
	}
	return profiles, total, nil
}

func (r *candidateRepository) ListSkills(ctx context.Context) ([]domain.Skill, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, category FROM skills ORDER BY category NULLS LAST, name`)
	if err != nil {
		return nil, apperror.PersistenceFailure("skills.list", err)
	}
	defer rows.Close()

	skills := []domain.Skill{}
	for rows.Next() {
		var s domain.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Category); err != nil {
			return nil, apperror.PersistenceFailure("skills.list", err)
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.PersistenceFailure("skills.list", err)
	}
	return skills, nil
}
