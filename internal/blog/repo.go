package blog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/portfolio/internal/telemetry/tracing"
	"github.com/2beens/portfolio/pkg"
)

// manual caching of blog posts not needed (at least for this use case):
// https://github.com/jackc/pgx/wiki/Automatic-Prepared-Statement-Caching

const postColumns = `id, title, slug, content, published, image_url, created_at`

var _ blogRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) AddPost(ctx context.Context, post *Post) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.AddPost")
	defer span.End()

	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}

	err := r.db.QueryRow(
		ctx,
		`INSERT INTO posts (title, slug, content, published, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id;`,
		post.Title, post.Slug, post.Content, post.Published, post.ImageURL, post.CreatedAt,
	).Scan(&post.ID)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("insert post: %w", err)
	}

	return nil
}

// UpdatePost updates everything except the creation time.
func (r *Repo) UpdatePost(ctx context.Context, post *Post) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.UpdatePost")
	span.SetAttributes(attribute.Int("id", post.ID))
	defer span.End()

	tag, err := r.db.Exec(
		ctx,
		`UPDATE posts SET title = $1, slug = $2, content = $3, published = $4, image_url = $5 WHERE id = $6`,
		post.Title, post.Slug, post.Content, post.Published, post.ImageURL, post.ID,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrSlugTaken
		}
		return err
	}

	if tag.RowsAffected() == 0 {
		log.Tracef("post %d not updated", post.ID)
		return ErrPostNotFound
	}

	return nil
}

func (r *Repo) DeletePost(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

// All returns published and draft posts, newest first.
func (r *Repo) All(ctx context.Context) ([]*Post, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.All")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT `+postColumns+` FROM posts ORDER BY created_at DESC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.rows2posts(rows)
}

func (r *Repo) Published(ctx context.Context) ([]*Post, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.Published")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT `+postColumns+` FROM posts WHERE published ORDER BY created_at DESC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.rows2posts(rows)
}

func (r *Repo) PublishedCount(ctx context.Context) (int, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.PublishedCount")
	defer span.End()

	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts WHERE published`).Scan(&count); err != nil {
		return -1, err
	}
	return count, nil
}

func (r *Repo) PublishedPage(ctx context.Context, page, size int) ([]*Post, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.PublishedPage")
	span.SetAttributes(attribute.Int("page", page))
	span.SetAttributes(attribute.Int("size", size))
	defer span.End()

	offset := (page - 1) * size
	log.Tracef("getting posts page, limit %d, offset %d", size, offset)

	rows, err := r.db.Query(
		ctx,
		`
			SELECT `+postColumns+` FROM posts
			WHERE published
			ORDER BY created_at DESC
			LIMIT $1
			OFFSET $2;
		`,
		size,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.rows2posts(rows)
}

func (r *Repo) PublishedBySlug(ctx context.Context, slug string) (*Post, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.PublishedBySlug")
	span.SetAttributes(attribute.String("slug", slug))
	defer span.End()

	post := &Post{}
	err := r.db.QueryRow(
		ctx,
		`SELECT `+postColumns+` FROM posts WHERE slug = $1 AND published;`,
		slug,
	).Scan(&post.ID, &post.Title, &post.Slug, &post.Content, &post.Published, &post.ImageURL, &post.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	return post, nil
}

func (r *Repo) rows2posts(rows pgx.Rows) ([]*Post, error) {
	posts := []*Post{}
	for rows.Next() {
		post := &Post{}
		if err := rows.Scan(&post.ID, &post.Title, &post.Slug, &post.Content, &post.Published, &post.ImageURL, &post.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}
