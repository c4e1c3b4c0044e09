package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/bookclub-cafe/internal/model"
)

const eventCols = "e.id, e.book_title, e.author, e.description, e.category, e.starts_at, e.time_label, e.capacity, e.image_url, e.club_id, e.cafe_id, e.created_at"

func scanEvent(r rowScanner) (*model.Event, error) {
	var e model.Event
	if err := r.Scan(&e.ID, &e.BookTitle, &e.Author, &e.Description, &e.Category, &e.Date, &e.Time, &e.Capacity, &e.ImageURL, &e.ClubID, &e.CafeID, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *SQLStore) queryEvents(ctx context.Context, q string, args ...any) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	out := []model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (s *SQLStore) ListEvents(ctx context.Context) ([]model.Event, error) {
	return s.queryEvents(ctx, "SELECT "+eventCols+" FROM events e ORDER BY e.starts_at, e.id")
}

func (s *SQLStore) ListUpcomingEvents(ctx context.Context, now time.Time) ([]model.Event, error) {
	return s.queryEvents(ctx, "SELECT "+eventCols+" FROM events e WHERE e.starts_at > ? ORDER BY e.starts_at, e.id", now.UTC())
}

func (s *SQLStore) ListClubEvents(ctx context.Context, clubID string) ([]model.Event, error) {
	ok, err := s.exists(ctx, s.db, "clubs", clubID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrClubNotFound
	}
	return s.queryEvents(ctx, "SELECT "+eventCols+" FROM events e WHERE e.club_id = ? ORDER BY e.starts_at, e.id", clubID)
}

// likeEscaper makes %, _ and the escape character itself match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

func (s *SQLStore) SearchEvents(ctx context.Context, f EventFilter) ([]model.Event, error) {
	where := []string{}
	args := []any{}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		like := "%" + escapeLike(q) + "%"
		where = append(where, `(LOWER(e.book_title) LIKE ? ESCAPE '\\' OR LOWER(e.author) LIKE ? ESCAPE '\\' OR LOWER(e.description) LIKE ? ESCAPE '\\')`)
		args = append(args, like, like, like)
	}
	if f.Category != "" {
		where = append(where, "e.category = ?")
		args = append(args, f.Category)
	}
	if f.District != 0 {
		where = append(where, "c.district = ?")
		args = append(args, f.District)
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	return s.queryEvents(ctx,
		"SELECT "+eventCols+" FROM events e JOIN cafes c ON c.id = e.cafe_id WHERE "+cond+" ORDER BY e.starts_at, e.id",
		args...)
}

func (s *SQLStore) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	e, err := scanEvent(s.db.QueryRowContext(ctx, "SELECT "+eventCols+" FROM events e WHERE e.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("select event: %w", err)
	}
	return e, nil
}

func (s *SQLStore) CreateEvent(ctx context.Context, e *model.Event) error {
	s.stamp(&e.ID, &e.CreatedAt)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (id, book_title, author, description, category, starts_at, time_label, capacity, image_url, club_id, cafe_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.BookTitle, e.Author, e.Description, e.Category, e.Date.UTC(), e.Time, e.Capacity, e.ImageURL, e.ClubID, e.CafeID, e.CreatedAt)
	if err != nil {
		if mysqlErrNumber(err) == errNoRefRow {
			return ErrInvalidReference
		}
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}
