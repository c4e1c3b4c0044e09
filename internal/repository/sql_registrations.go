package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/bookclub-cafe/internal/model"
)

const regCols = "id, event_id, user_id, full_name, email, phone, notes, created_at"

func scanRegistration(r rowScanner) (*model.Registration, error) {
	var reg model.Registration
	if err := r.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.FullName, &reg.Email, &reg.Phone, &reg.Notes, &reg.CreatedAt); err != nil {
		return nil, err
	}
	return &reg, nil
}

type sqlExecer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLStore) insertRegistration(ctx context.Context, ex sqlExecer, r *model.Registration) error {
	r.Email = normalizeEmail(r.Email)
	s.stamp(&r.ID, &r.CreatedAt)
	_, err := ex.ExecContext(ctx,
		"INSERT INTO registrations ("+regCols+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		r.ID, r.EventID, r.UserID, r.FullName, r.Email, r.Phone, r.Notes, r.CreatedAt)
	if err != nil {
		switch mysqlErrNumber(err) {
		case errDupEntry:
			return ErrAlreadyRegistered
		case errNoRefRow:
			if strings.Contains(err.Error(), "fk_registrations_event") {
				return ErrEventNotFound
			}
			return ErrInvalidReference
		}
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

// CreateRegistration inserts without a capacity check; the unique key still
// rejects a second (event, email) pair.
func (s *SQLStore) CreateRegistration(ctx context.Context, r *model.Registration) error {
	return s.insertRegistration(ctx, s.db, r)
}

// RegisterForEvent locks the event row, checks for a duplicate and then for
// capacity, and inserts inside one transaction.  Concurrent attempts on the
// same event queue on the row lock.
func (s *SQLStore) RegisterForEvent(ctx context.Context, r *model.Registration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var capacity int
	if err := tx.QueryRowContext(ctx, "SELECT capacity FROM events WHERE id = ? FOR UPDATE", r.EventID).Scan(&capacity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrEventNotFound
		}
		return fmt.Errorf("lock event: %w", err)
	}

	var dup int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM registrations WHERE event_id = ? AND email = ?",
		r.EventID, normalizeEmail(r.Email)).Scan(&dup); err != nil {
		return fmt.Errorf("check duplicate: %w", err)
	}
	if dup > 0 {
		return ErrAlreadyRegistered
	}

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM registrations WHERE event_id = ?", r.EventID).Scan(&count); err != nil {
		return fmt.Errorf("count registrations: %w", err)
	}
	if count >= capacity {
		return ErrEventFull
	}

	if err := s.insertRegistration(ctx, tx, r); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

func (s *SQLStore) RegistrationCount(ctx context.Context, eventID string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM registrations WHERE event_id = ?", eventID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	return n, nil
}

func (s *SQLStore) RegistrationCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT event_id, COUNT(*) FROM registrations GROUP BY event_id")
	if err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		out[id] = n
	}
	return out, rows.Err()
}

func (s *SQLStore) IsUserRegistered(ctx context.Context, eventID, email string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM registrations WHERE event_id = ? AND email = ?",
		eventID, normalizeEmail(email)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check registration: %w", err)
	}
	return n > 0, nil
}

func (s *SQLStore) queryRegistrations(ctx context.Context, q string, args ...any) ([]model.Registration, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()
	out := []model.Registration{}
	for rows.Next() {
		r, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (s *SQLStore) ListEventRegistrations(ctx context.Context, eventID string) ([]model.Registration, error) {
	return s.queryRegistrations(ctx, "SELECT "+regCols+" FROM registrations WHERE event_id = ? ORDER BY created_at, id", eventID)
}

func (s *SQLStore) ListUserRegistrations(ctx context.Context, userID string) ([]model.Registration, error) {
	return s.queryRegistrations(ctx, "SELECT "+regCols+" FROM registrations WHERE user_id = ? ORDER BY created_at, id", userID)
}

func (s *SQLStore) CancelRegistration(ctx context.Context, id, userID string) error {
	var owner sql.NullString
	err := s.db.QueryRowContext(ctx, "SELECT user_id FROM registrations WHERE id = ?", id).Scan(&owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("select registration: %w", err)
	}
	if !owner.Valid || owner.String != userID {
		return ErrForbidden
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM registrations WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	return nil
}

// ---- club membership ----

func (s *SQLStore) JoinClub(ctx context.Context, clubID, userID string) (*model.ClubMember, error) {
	if ok, err := s.exists(ctx, s.db, "clubs", clubID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrClubNotFound
	}
	if ok, err := s.exists(ctx, s.db, "users", userID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrUserNotFound
	}
	m := &model.ClubMember{ClubID: clubID, UserID: userID}
	s.stamp(&m.ID, &m.JoinedAt)
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO club_members (id, club_id, user_id, joined_at) VALUES (?, ?, ?, ?)",
		m.ID, m.ClubID, m.UserID, m.JoinedAt)
	if err != nil {
		if mysqlErrNumber(err) == errDupEntry {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("insert member: %w", err)
	}
	return m, nil
}

func (s *SQLStore) LeaveClub(ctx context.Context, clubID, userID string) error {
	if ok, err := s.exists(ctx, s.db, "clubs", clubID); err != nil {
		return err
	} else if !ok {
		return ErrClubNotFound
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM club_members WHERE club_id = ? AND user_id = ?", clubID, userID)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotMember
	}
	return nil
}

func (s *SQLStore) ListClubMembers(ctx context.Context, clubID string) ([]model.ClubMember, error) {
	if ok, err := s.exists(ctx, s.db, "clubs", clubID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrClubNotFound
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, club_id, user_id, joined_at FROM club_members WHERE club_id = ? ORDER BY joined_at, id", clubID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()
	out := []model.ClubMember{}
	for rows.Next() {
		var m model.ClubMember
		if err := rows.Scan(&m.ID, &m.ClubID, &m.UserID, &m.JoinedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLStore) ListMemberClubs(ctx context.Context, userID string) ([]model.Club, error) {
	return s.queryClubs(ctx,
		`SELECT c.id, c.name, c.description, c.cafe_id, c.owner_id, c.image_url, c.is_active, c.created_at
		 FROM clubs c JOIN club_members m ON m.club_id = c.id
		 WHERE m.user_id = ? ORDER BY m.joined_at, c.id`, userID)
}
