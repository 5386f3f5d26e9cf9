package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/2beens/portfolio/internal/telemetry/tracing"
)

var _ servicesRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, s *Service) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "servicesRepo.Add")
	defer span.End()

	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}

	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO services (name, description, image_url, created_at) VALUES ($1, $2, $3, $4) RETURNING id;`,
		s.Name, s.Description, s.ImageURL, s.CreatedAt,
	).Scan(&s.ID); err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, s *Service) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE services SET name = $1, description = $2, image_url = $3 WHERE id = $4`,
		s.Name, s.Description, s.ImageURL, s.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrServiceNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrServiceNotFound
	}
	return nil
}

func (r *Repo) All(ctx context.Context) ([]*Service, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "servicesRepo.All")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, description, image_url, created_at FROM services ORDER BY created_at DESC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	services := []*Service{}
	for rows.Next() {
		s := &Service{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.ImageURL, &s.CreatedAt); err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}
