package contacts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/portfolio/internal/telemetry/tracing"
	"github.com/2beens/portfolio/pkg"
)

const (
	contactColumns = `id, name, email, phone_number, telegram_id, message, service, due, price, status, is_reached, created_at`

	// filterAll is what the dashboard sends when a facet is not narrowed down
	filterAll = "all"
)

var _ contactsRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, c *Contact) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "contactsRepo.Add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err := r.db.Exec(
		ctx,
		`INSERT INTO contacts (`+contactColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.ID, c.Name, c.Email, c.PhoneNumber, c.TelegramID, c.Message, c.Service,
		pkg.DatePtrTime(c.Due), c.Price, c.Status, c.IsReached, c.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// List returns the contacts matching the filter, newest first unless asked otherwise.
func (r *Repo) List(ctx context.Context, filter Filter) (_ []*Contact, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "contactsRepo.List")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	query, args := listQuery(filter)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []*Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *Repo) ByID(ctx context.Context, id uuid.UUID) (*Contact, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "contactsRepo.ByID")
	span.SetAttributes(attribute.String("id", id.String()))
	defer span.End()

	c, err := scanContact(r.db.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id))
	if err != nil {
		if pkg.IsNoRowsError(err) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *Repo) Update(ctx context.Context, id uuid.UUID, u ContactUpdate) (*Contact, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "contactsRepo.Update")
	span.SetAttributes(attribute.String("id", id.String()))
	defer span.End()

	c, err := scanContact(r.db.QueryRow(
		ctx,
		`UPDATE contacts SET price = $1, status = $2, due = $3, is_reached = $4
		WHERE id = $5 RETURNING `+contactColumns,
		u.Price, u.Status, pkg.DatePtrTime(u.Due), u.IsReached, id,
	))
	if err != nil {
		if pkg.IsNoRowsError(err) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrContactNotFound
	}
	return nil
}

// Facets returns the distinct services and statuses present in the inbox.
func (r *Repo) Facets(ctx context.Context) ([]string, []string, error) {
	services, err := r.distinct(ctx, `SELECT DISTINCT service FROM contacts ORDER BY service`)
	if err != nil {
		return nil, nil, fmt.Errorf("distinct services: %w", err)
	}
	statuses, err := r.distinct(ctx, `SELECT DISTINCT status FROM contacts ORDER BY status`)
	if err != nil {
		return nil, nil, fmt.Errorf("distinct statuses: %w", err)
	}
	return services, statuses, nil
}

func (r *Repo) distinct(ctx context.Context, query string) ([]string, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

func listQuery(filter Filter) (string, []any) {
	var conditions []string
	var args []any

	if filter.Service != "" && filter.Service != filterAll {
		args = append(args, filter.Service)
		conditions = append(conditions, fmt.Sprintf("service = $%d", len(args)))
	}
	if filter.Status != "" && filter.Status != filterAll {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR message ILIKE $%d)", len(args), len(args)))
	}

	query := `SELECT ` + contactColumns + ` FROM contacts`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	if filter.Oldest() {
		query += ` ORDER BY created_at ASC`
	} else {
		query += ` ORDER BY created_at DESC`
	}
	return query, args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanContact(row pgx.Row) (*Contact, error) {
	c := &Contact{}
	var due *time.Time
	if err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.PhoneNumber, &c.TelegramID, &c.Message, &c.Service,
		&due, &c.Price, &c.Status, &c.IsReached, &c.CreatedAt,
	); err != nil {
		return nil, err
	}
	c.Due = pkg.DateFromPtr(due)
	return c, nil
}
