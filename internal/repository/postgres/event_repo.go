package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventfinder/internal/domain"
)

const eventColumns = `
	e.id, e.title, e.date, e.location, e.category, e.description, e.latitude, e.longitude,
	e.user_id, e.created_at, e.updated_at,
	u.id, u.email, u.role, u.created_at, u.updated_at`

// sortColumns whitelists the columns a caller may order by.
var sortColumns = map[domain.SortField]string{
	domain.SortByDate:  "e.date",
	domain.SortByTitle: "e.title",
}

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) FindByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := `SELECT` + eventColumns + `
		FROM events e
		JOIN users u ON u.id = e.user_id
		WHERE e.id = $1
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// FindMany returns the events matching filter and the total number of matches.
// A nil page returns every match.
func (r *eventRepository) FindMany(ctx context.Context, filter domain.EventFilter, sort *domain.EventSort, page *domain.PaginationParams) ([]*domain.Event, int, error) {
	where, args := buildWhere(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM events e` + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	query := `SELECT` + eventColumns + `
		FROM events e
		JOIN users u ON u.id = e.user_id` + where + orderBy(sort)
	if page != nil {
		args = append(args, page.PageSize, page.Offset())
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var list []*domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Save inserts the event when it has no ID yet and updates it otherwise.
func (r *eventRepository) Save(ctx context.Context, e *domain.Event) error {
	if e.ID == 0 {
		query := `
			INSERT INTO events (title, date, location, category, description, latitude, longitude, user_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, created_at, updated_at
		`
		return r.DB.QueryRowContext(ctx, query,
			e.Title, e.Date.UTC(), e.Location, e.Category, e.Description, e.Latitude, e.Longitude, e.UserID,
		).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	}

	query := `
		UPDATE events
		SET title = $1, date = $2, location = $3, category = $4, description = $5,
			latitude = $6, longitude = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at
	`
	err := r.DB.QueryRowContext(ctx, query,
		e.Title, e.Date.UTC(), e.Location, e.Category, e.Description, e.Latitude, e.Longitude, e.ID,
	).Scan(&e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func buildWhere(f domain.EventFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Day != nil {
		add("e.date::date = $%d::date", f.Day.UTC().Format("2006-01-02"))
	}
	if f.DateEquals != nil {
		add("e.date = $%d", f.DateEquals.UTC())
	}
	if f.Category != "" {
		add("e.category = $%d", string(f.Category))
	}
	if f.TitleSearch != "" {
		add(`e.title ILIKE $%d ESCAPE '\'`, "%"+escapeLike(f.TitleSearch)+"%")
	}
	if f.OwnerID != 0 {
		add("e.user_id = $%d", f.OwnerID)
	}
	if f.ExcludeID != 0 {
		add("e.id <> $%d", f.ExcludeID)
	}
	if f.HasCoordinates {
		conds = append(conds, "e.latitude IS NOT NULL AND e.longitude IS NOT NULL")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func orderBy(sort *domain.EventSort) string {
	if sort == nil {
		return " ORDER BY e.id ASC"
	}
	col, ok := sortColumns[sort.Field]
	if !ok {
		col = sortColumns[domain.SortByDate]
	}
	dir := "ASC"
	if sort.Order == domain.OrderDesc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, e.id ASC", col, dir)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{User: &domain.User{}}
	var lat, lng sql.NullFloat64
	var category string
	err := row.Scan(
		&e.ID, &e.Title, &e.Date, &e.Location, &category, &e.Description, &lat, &lng,
		&e.UserID, &e.CreatedAt, &e.UpdatedAt,
		&e.User.ID, &e.User.Email, &e.User.Role, &e.User.CreatedAt, &e.User.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Category = domain.Category(category)
	e.Date = e.Date.UTC()
	if lat.Valid && lng.Valid {
		e.Latitude = &lat.Float64
		e.Longitude = &lng.Float64
	}
	return e, nil
}
