package resume

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/2beens/portfolio/internal/telemetry/tracing"
	"github.com/2beens/portfolio/pkg"
)

// profileRowID is the id of the single profile row.
const profileRowID = 1

var _ resumeRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Profile returns the stored profile, or an empty one if it was never saved.
func (r *Repo) Profile(ctx context.Context) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "resumeRepo.Profile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	p := &Profile{}
	var socialLinks []byte
	err = r.db.QueryRow(
		ctx,
		`SELECT id, name, headline, avatar_url, location, bio, social_links FROM profile ORDER BY id LIMIT 1`,
	).Scan(&p.ID, &p.Name, &p.Headline, &p.AvatarURL, &p.Location, &p.Bio, &socialLinks)
	if err != nil {
		if pkg.IsNoRowsError(err) {
			p.Normalize()
			return p, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(socialLinks, &p.SocialLinks); err != nil {
		return nil, fmt.Errorf("unmarshal social links: %w", err)
	}
	p.Normalize()
	return p, nil
}

func (r *Repo) SaveProfile(ctx context.Context, p *Profile) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "resumeRepo.SaveProfile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	p.Normalize()
	socialLinks, err := json.Marshal(p.SocialLinks)
	if err != nil {
		return fmt.Errorf("marshal social links: %w", err)
	}

	p.ID = profileRowID
	if _, err := r.db.Exec(
		ctx,
		`INSERT INTO profile (id, name, headline, avatar_url, location, bio, social_links)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			headline = EXCLUDED.headline,
			avatar_url = EXCLUDED.avatar_url,
			location = EXCLUDED.location,
			bio = EXCLUDED.bio,
			social_links = EXCLUDED.social_links`,
		p.ID, p.Name, p.Headline, p.AvatarURL, p.Location, p.Bio, socialLinks,
	); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (r *Repo) Experiences(ctx context.Context) ([]*Experience, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "resumeRepo.Experiences")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, role, company, start_date, end_date, COALESCE(description, '')
		FROM experience ORDER BY start_date DESC, id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	experiences := []*Experience{}
	for rows.Next() {
		e := &Experience{}
		var start time.Time
		var end *time.Time
		if err := rows.Scan(&e.ID, &e.Role, &e.Company, &start, &end, &e.Description); err != nil {
			return nil, err
		}
		e.StartDate = pkg.Date{Time: start}
		e.EndDate = pkg.DateFromPtr(end)
		experiences = append(experiences, e)
	}
	return experiences, rows.Err()
}

func (r *Repo) AddExperience(ctx context.Context, e *Experience) error {
	return r.db.QueryRow(
		ctx,
		`INSERT INTO experience (role, company, start_date, end_date, description)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')) RETURNING id`,
		e.Role, e.Company, e.StartDate.Time, pkg.DatePtrTime(e.EndDate), e.Description,
	).Scan(&e.ID)
}

func (r *Repo) UpdateExperience(ctx context.Context, e *Experience) error {
	return r.execAffectingOne(
		ctx,
		`UPDATE experience SET role = $1, company = $2, start_date = $3, end_date = $4, description = NULLIF($5, '')
		WHERE id = $6`,
		e.Role, e.Company, e.StartDate.Time, pkg.DatePtrTime(e.EndDate), e.Description, e.ID,
	)
}

func (r *Repo) DeleteExperience(ctx context.Context, id int) error {
	return r.execAffectingOne(ctx, `DELETE FROM experience WHERE id = $1`, id)
}

func (r *Repo) Educations(ctx context.Context) ([]*Education, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "resumeRepo.Educations")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, school, degree, start_date, end_date, COALESCE(details, '')
		FROM education ORDER BY start_date DESC, id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	educations := []*Education{}
	for rows.Next() {
		e := &Education{}
		var start time.Time
		var end *time.Time
		if err := rows.Scan(&e.ID, &e.School, &e.Degree, &start, &end, &e.Details); err != nil {
			return nil, err
		}
		e.StartDate = pkg.Date{Time: start}
		e.EndDate = pkg.DateFromPtr(end)
		educations = append(educations, e)
	}
	return educations, rows.Err()
}

func (r *Repo) AddEducation(ctx context.Context, e *Education) error {
	return r.db.QueryRow(
		ctx,
		`INSERT INTO education (school, degree, start_date, end_date, details)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')) RETURNING id`,
		e.School, e.Degree, e.StartDate.Time, pkg.DatePtrTime(e.EndDate), e.Details,
	).Scan(&e.ID)
}

func (r *Repo) UpdateEducation(ctx context.Context, e *Education) error {
	return r.execAffectingOne(
		ctx,
		`UPDATE education SET school = $1, degree = $2, start_date = $3, end_date = $4, details = NULLIF($5, '')
		WHERE id = $6`,
		e.School, e.Degree, e.StartDate.Time, pkg.DatePtrTime(e.EndDate), e.Details, e.ID,
	)
}

func (r *Repo) DeleteEducation(ctx context.Context, id int) error {
	return r.execAffectingOne(ctx, `DELETE FROM education WHERE id = $1`, id)
}

func (r *Repo) Skills(ctx context.Context) ([]*Skill, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM skills ORDER BY name`)
	if err != nil {
		return nil, err
	}

	skills, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Skill, error) {
		s := &Skill{}
		err := row.Scan(&s.ID, &s.Name)
		return s, err
	})
	if err != nil {
		return nil, err
	}
	if skills == nil {
		skills = []*Skill{}
	}
	return skills, nil
}

func (r *Repo) AddSkill(ctx context.Context, s *Skill) error {
	err := r.db.QueryRow(ctx, `INSERT INTO skills (name) VALUES ($1) RETURNING id`, s.Name).Scan(&s.ID)
	if pkg.IsUniqueViolationError(err) {
		return ErrSkillExists
	}
	return err
}

func (r *Repo) UpdateSkill(ctx context.Context, s *Skill) error {
	err := r.execAffectingOne(ctx, `UPDATE skills SET name = $1 WHERE id = $2`, s.Name, s.ID)
	if pkg.IsUniqueViolationError(err) {
		return ErrSkillExists
	}
	return err
}

func (r *Repo) DeleteSkill(ctx context.Context, id int) error {
	return r.execAffectingOne(ctx, `DELETE FROM skills WHERE id = $1`, id)
}

func (r *Repo) execAffectingOne(ctx context.Context, sql string, args ...any) error {
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
