package projects

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/portfolio/internal/telemetry/tracing"
	"github.com/2beens/portfolio/pkg"
)

const projectColumns = `id, title, slug, description, tech_stack, url, repo_url, image_url, created_at`

var _ projectsRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, p *Project) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "projectsRepo.Add")
	defer span.End()

	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	err := r.db.QueryRow(
		ctx,
		`INSERT INTO projects (title, slug, description, tech_stack, url, repo_url, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id;`,
		p.Title, p.Slug, p.Description, p.TechStack, p.URL, p.RepoURL, p.ImageURL, p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, p *Project) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "projectsRepo.Update")
	span.SetAttributes(attribute.Int("id", p.ID))
	defer span.End()

	tag, err := r.db.Exec(
		ctx,
		`UPDATE projects
		SET title = $1, slug = $2, description = $3, tech_stack = $4, url = $5, repo_url = $6, image_url = $7
		WHERE id = $8`,
		p.Title, p.Slug, p.Description, p.TechStack, p.URL, p.RepoURL, p.ImageURL, p.ID,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrSlugTaken
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *Repo) All(ctx context.Context) ([]*Project, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "projectsRepo.All")
	defer span.End()

	rows, err := r.db.Query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []*Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *Repo) BySlug(ctx context.Context, slug string) (*Project, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "projectsRepo.BySlug")
	span.SetAttributes(attribute.String("slug", slug))
	defer span.End()

	p, err := scanProject(r.db.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE slug = $1;`, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return p, nil
}

func scanProject(row pgx.Row) (*Project, error) {
	p := &Project{}
	if err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Description, &p.TechStack, &p.URL, &p.RepoURL, &p.ImageURL, &p.CreatedAt); err != nil {
		return nil, err
	}
	if p.TechStack == nil {
		p.TechStack = []string{}
	}
	return p, nil
}
