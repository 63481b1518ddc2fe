package postgres

import (
	"context"

	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/apperror"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.PersistenceFailure("job.create", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO jobs (employer_id, title, description, hourly_rate_min, hourly_rate_max, location, status, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err = tx.QueryRow(ctx, query,
		job.EmployerID, job.Title, job.Description, job.HourlyRateMin, job.HourlyRateMax, job.Location, job.Status,
		job.CreatedAt, job.UpdatedAt,
	).Scan(&job.ID)
	if err != nil {
		return apperror.PersistenceFailure("job.create", err)
	}

	if len(job.SkillIDs) > 0 {
		ids := make([]int64, len(job.SkillIDs))
		for i, id := range job.SkillIDs {
			ids[i] = int64(id)
		}
		tag, err := tx.Exec(ctx, `
			INSERT INTO job_skills (job_id, skill_id)
			SELECT $1, s.id FROM skills s WHERE s.id = ANY($2::bigint[])`,
			job.ID, pq.Array(ids))
		if err != nil {
			return apperror.PersistenceFailure("job.create", err)
		}
		if int(tag.RowsAffected()) != len(ids) {
			return apperror.BadRequest("One or more skills do not exist").WithDetail("skill_ids", job.SkillIDs)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.PersistenceFailure("job.create", err)
	}
	return nil
}

func (r *jobRepo) FetchActive(ctx context.Context, limit, offset int) ([]domain.Job, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs WHERE status = $1`, domain.JobStatusActive).Scan(&total); err != nil {
		return nil, 0, apperror.PersistenceFailure("job.list", err)
	}

	query := `
		SELECT
			j.id, j.employer_id, j.title, j.description,
			j.hourly_rate_min::float8, j.hourly_rate_max::float8, j.location, j.status,
			j.created_at, j.updated_at,
			COALESCE(array_agg(s.id ORDER BY s.name) FILTER (WHERE s.id IS NOT NULL), '{}') AS skill_ids,
			COALESCE(array_agg(s.name ORDER BY s.name) FILTER (WHERE s.id IS NOT NULL), '{}') AS skill_names
		FROM jobs j
		LEFT JOIN job_skills js ON js.job_id = j.id
		LEFT JOIN skills s ON s.id = js.skill_id
		WHERE j.status = $1
		GROUP BY j.id
		ORDER BY j.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, domain.JobStatusActive, limit, offset)
	if err != nil {
		return nil, 0, apperror.PersistenceFailure("job.list", err)
	}
	defer rows.Close()

	jobs := []domain.Job{}
	for rows.Next() {
		var j domain.Job
		var skillIDs []int64
		var skillNames []string
		if err := rows.Scan(
			&j.ID, &j.EmployerID, &j.Title, &j.Description,
			&j.HourlyRateMin, &j.HourlyRateMax, &j.Location, &j.Status,
			&j.CreatedAt, &j.UpdatedAt,
			pq.Array(&skillIDs), pq.Array(&skillNames),
		); err != nil {
			return nil, 0, apperror.PersistenceFailure("job.list", err)
		}
		j.Skills = make([]domain.Skill, 0, len(skillIDs))
		for i := range skillIDs {
			if i < len(skillNames) {
				j.Skills = append(j.Skills, domain.Skill{ID: int(skillIDs[i]), Name: skillNames[i]})
			}
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.PersistenceFailure("job.list", err)
	}
	return jobs, total, nil
}

// FindBestMatches ranks active jobs by the share of their required skills
// the candidate has. Jobs with no overlap are left out.
func (r *jobRepo) FindBestMatches(ctx context.Context, skillIDs []int, limit int) ([]domain.JobMatch, error) {
	if len(skillIDs) == 0 {
		return []domain.JobMatch{}, nil
	}
	ids := make([]int64, len(skillIDs))
	for i, id := range skillIDs {
		ids[i] = int64(id)
	}

	query := `
		SELECT
			j.id, j.employer_id, j.title, j.description,
			j.hourly_rate_min::float8, j.hourly_rate_max::float8, j.location, j.status,
			j.created_at, j.updated_at,
			COUNT(js.skill_id) FILTER (WHERE js.skill_id = ANY($1::bigint[])) AS matched,
			COUNT(js.skill_id) AS required
		FROM jobs j
		JOIN job_skills js ON js.job_id = j.id
		WHERE j.status = $2
		GROUP BY j.id
		HAVING COUNT(js.skill_id) FILTER (WHERE js.skill_id = ANY($1::bigint[])) > 0
		ORDER BY
			COUNT(js.skill_id) FILTER (WHERE js.skill_id = ANY($1::bigint[]))::float8 / COUNT(js.skill_id) DESC,
			matched DESC,
			j.created_at DESC
		LIMIT $3`

	rows, err := r.db.Query(ctx, query, pq.Array(ids), domain.JobStatusActive, limit)
	if err != nil {
		return nil, apperror.PersistenceFailure("job.best_match", err)
	}
	defer rows.Close()

	matches := []domain.JobMatch{}
	for rows.Next() {
		var m domain.JobMatch
		if err := rows.Scan(
			&m.ID, &m.EmployerID, &m.Title, &m.Description,
			&m.HourlyRateMin, &m.HourlyRateMax, &m.Location, &m.Status,
			&m.CreatedAt, &m.UpdatedAt,
			&m.MatchedSkills, &m.RequiredSkills,
		); err != nil {
			return nil, apperror.PersistenceFailure("job.best_match", err)
		}
		m.Skills = []domain.Skill{}
		if m.RequiredSkills > 0 {
			m.MatchScore = float64(m.MatchedSkills) / float64(m.RequiredSkills)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.PersistenceFailure("job.best_match", err)
	}
	return matches, nil
}
