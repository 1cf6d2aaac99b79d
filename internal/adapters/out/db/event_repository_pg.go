package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	common "devevent/internal/domain/common"
	evdom "devevent/internal/domain/event"
)

// ========================================
// Repository Implementation (PostgreSQL)
// ========================================
type EventRepositoryPG struct {
	DB *sql.DB
}

func NewEventRepositoryPG(db *sql.DB) *EventRepositoryPG {
	return &EventRepositoryPG{DB: db}
}

// Ensure interface implementation
var _ evdom.Repository = (*EventRepositoryPG)(nil)

const eventColumns = `
    id, title, slug, description, overview, image, image_object_path, venue, location,
    date, time, mode, audience, agenda, organizer, tags, created_at, updated_at`

// ========================================
// Create
// ========================================
func (r *EventRepositoryPG) Create(ctx context.Context, e evdom.Event) (evdom.Event, error) {
	const q = `
INSERT INTO events (` + eventColumns + `
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9,
    $10, $11, $12, $13, $14, $15, $16, $17, $18
)
RETURNING` + eventColumns

	if strings.TrimSpace(e.ID) == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = e.CreatedAt
	}

	row := r.DB.QueryRowContext(ctx, q,
		e.ID, e.Title, e.Slug, e.Description, e.Overview, e.Image, e.ImageObjectPath, e.Venue, e.Location,
		e.Date, e.Time, string(e.Mode), e.Audience, pq.Array(nonNilStrings(e.Agenda)), e.Organizer, pq.Array(nonNilStrings(e.Tags)),
		e.CreatedAt.UTC(), e.UpdatedAt.UTC(),
	)

	out, err := scanEvent(row)
	if err != nil {
		if isUniqueViolation(err) {
			return evdom.Event{}, evdom.ErrConflict
		}
		return evdom.Event{}, err
	}
	return out, nil
}

// ========================================
// GetByID / GetBySlug / ExistsSlug
// ========================================
func (r *EventRepositoryPG) GetByID(ctx context.Context, id string) (evdom.Event, error) {
	return r.getOne(ctx, "id", id)
}

func (r *EventRepositoryPG) GetBySlug(ctx context.Context, slug string) (evdom.Event, error) {
	return r.getOne(ctx, "slug", slug)
}

func (r *EventRepositoryPG) getOne(ctx context.Context, column, value string) (evdom.Event, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return evdom.Event{}, evdom.ErrNotFound
	}
	q := fmt.Sprintf(`SELECT %s FROM events WHERE %s = $1`, eventColumns, column)

	out, err := scanEvent(r.DB.QueryRowContext(ctx, q, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return evdom.Event{}, evdom.ErrNotFound
		}
		return evdom.Event{}, err
	}
	return out, nil
}

func (r *EventRepositoryPG) ExistsSlug(ctx context.Context, slug string) (bool, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return false, nil
	}
	var exists bool
	if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM events WHERE slug = $1)`, slug).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ========================================
// List / ListSimilar
// ========================================
func (r *EventRepositoryPG) List(ctx context.Context, filter evdom.Filter, sort evdom.Sort, page evdom.Page) (evdom.PageResult[evdom.Event], error) {
	whereSQL, args := buildEventWhereClause(filter)
	orderSQL := buildEventOrderClause(sort)
	pageNum, limit, offset := common.NormalizePage(page)

	var count int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events `+whereSQL, args...).Scan(&count); err != nil {
		return evdom.PageResult[evdom.Event]{}, err
	}

	query := fmt.Sprintf(`
SELECT %s
FROM events
%s
%s
LIMIT %d OFFSET %d
`, eventColumns, whereSQL, orderSQL, limit, offset)

	items, err := r.query(ctx, query, args...)
	if err != nil {
		return evdom.PageResult[evdom.Event]{}, err
	}

	return evdom.PageResult[evdom.Event]{
		Items:      items,
		TotalCount: count,
		TotalPages: common.ComputeTotalPages(count, limit),
		Page:       pageNum,
		PerPage:    limit,
	}, nil
}

func (r *EventRepositoryPG) ListSimilar(ctx context.Context, ev evdom.Event, limit int) ([]evdom.Event, error) {
	if limit <= 0 {
		limit = evdom.DefaultSimilarLimit
	}
	if len(ev.Tags) == 0 {
		return []evdom.Event{}, nil
	}
	q := fmt.Sprintf(`
SELECT %s
FROM events
WHERE tags && $1 AND id <> $2
ORDER BY created_at DESC, id ASC
LIMIT $3
`, eventColumns)
	return r.query(ctx, q, pq.Array(ev.Tags), ev.ID, limit)
}

func (r *EventRepositoryPG) query(ctx context.Context, q string, args ...any) ([]evdom.Event, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
			return nil, err
		}
	}
	defer rows.Close()

	items := []evdom.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ========================================
// Delete
// ========================================
func (r *EventRepositoryPG) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return evdom.ErrNotFound
	}
	return nil
}

// ========================================
// Helper Functions
// ========================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(s rowScanner) (evdom.Event, error) {
	var (
		e            evdom.Event
		mode         string
		agenda, tags []string
	)
	if err := s.Scan(
		&e.ID, &e.Title, &e.Slug, &e.Description, &e.Overview, &e.Image, &e.ImageObjectPath, &e.Venue, &e.Location,
		&e.Date, &e.Time, &mode, &e.Audience, pq.Array(&agenda), &e.Organizer, pq.Array(&tags),
		&e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return evdom.Event{}, err
	}
	e.Mode = evdom.Mode(mode)
	e.Agenda = nonNilStrings(agenda)
	e.Tags = nonNilStrings(tags)
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	return e, nil
}

func buildEventWhereClause(f evdom.Filter) (string, []any) {
	clauses := []string{}
	args := []any{}
	i := 1

	if s := strings.TrimSpace(f.SearchQuery); s != "" {
		clauses = append(clauses, fmt.Sprintf("title ILIKE $%d", i))
		args = append(args, "%"+escapeLike(s)+"%")
		i++
	}
	if t := strings.TrimSpace(f.Tag); t != "" {
		clauses = append(clauses, fmt.Sprintf("$%d = ANY(tags)", i))
		args = append(args, t)
		i++
	}
	if f.Mode != nil {
		clauses = append(clauses, fmt.Sprintf("mode = $%d", i))
		args = append(args, string(*f.Mode))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func buildEventOrderClause(s evdom.Sort) string {
	dir := "ASC"
	if s.Order == evdom.SortDesc {
		dir = "DESC"
	}
	switch s.Column {
	case evdom.SortByDate:
		return fmt.Sprintf("ORDER BY date %s, time %s, id ASC", dir, dir)
	case evdom.SortByTitle:
		return fmt.Sprintf("ORDER BY lower(title) %s, id ASC", dir)
	case evdom.SortByCreatedAt:
		return fmt.Sprintf("ORDER BY created_at %s, id ASC", dir)
	default:
		return "ORDER BY created_at DESC, id ASC"
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// isUniqueViolation reports a PostgreSQL unique_violation (23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
