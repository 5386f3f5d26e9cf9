package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/portfolio/internal/telemetry/tracing"
	"github.com/2beens/portfolio/pkg"
)

var ErrAdminNotFound = errors.New("admin not found")

// Admin is seeded out of band (see cmd/hashpass) and never written by the service.
type Admin struct {
	ID           int
	Username     string
	PasswordHash string
}

var _ adminStore = (*AdminRepo)(nil)

type AdminRepo struct {
	db *pgxpool.Pool
}

func NewAdminRepo(db *pgxpool.Pool) *AdminRepo {
	return &AdminRepo{
		db: db,
	}
}

// AdminByUsername does an exact, case-sensitive match on the username.
func (r *AdminRepo) AdminByUsername(ctx context.Context, username string) (_ *Admin, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "adminRepo.AdminByUsername")
	span.SetAttributes(attribute.String("username", username))
	defer func() {
		if errors.Is(err, ErrAdminNotFound) {
			tracing.EndSpanWithErrCheck(span, nil)
			return
		}
		tracing.EndSpanWithErrCheck(span, err)
	}()

	admin := &Admin{}
	err = r.db.QueryRow(
		ctx,
		`SELECT id, username, password_hash FROM users WHERE username = $1;`,
		username,
	).Scan(&admin.ID, &admin.Username, &admin.PasswordHash)
	if err != nil {
		if pkg.IsNoRowsError(err) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("query admin: %w", err)
	}

	return admin, nil
}
