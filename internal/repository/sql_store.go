package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/bookclub-cafe/internal/model"
)

// SQLStore implements Store on top of MySQL.  Uniqueness of emails,
// usernames, (event, email) registrations and (club, user) memberships is
// enforced by unique keys created in database.Migrate; references by
// foreign keys.
type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore constructs a SQLStore with the provided DB handle.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// DB exposes the underlying sql.DB.
func (s *SQLStore) DB() *sql.DB { return s.db }

// MySQL server error numbers the store translates.
const (
	errDupEntry = 1062
	errNoRefRow = 1452
)

func mysqlErrNumber(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *SQLStore) stamp(id *string, at *time.Time) {
	if *id == "" {
		*id = newID()
	}
	if at.IsZero() {
		*at = s.now()
	}
}

// ---- users ----

const userCols = "id, username, email, password_hash, full_name, phone, avatar, role, created_at"

func scanUser(r rowScanner) (*model.User, error) {
	var u model.User
	if err := r.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone, &u.Avatar, &u.Role, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *SQLStore) CreateUser(ctx context.Context, u *model.User) error {
	u.Email = normalizeEmail(u.Email)
	u.Username = strings.TrimSpace(u.Username)
	if u.Role == "" {
		u.Role = model.RoleUser
	}
	s.stamp(&u.ID, &u.CreatedAt)
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users ("+userCols+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		u.ID, u.Username, u.Email, u.PasswordHash, u.FullName, u.Phone, u.Avatar, u.Role, u.CreatedAt)
	if err != nil {
		if mysqlErrNumber(err) == errDupEntry {
			if strings.Contains(err.Error(), "uq_users_username") {
				return ErrUsernameExists
			}
			return ErrEmailExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *SQLStore) getUserWhere(ctx context.Context, where string, arg any) (*model.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, "SELECT "+userCols+" FROM users WHERE "+where+" LIMIT 1", arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

func (s *SQLStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.getUserWhere(ctx, "id = ?", id)
}

func (s *SQLStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.getUserWhere(ctx, "email = ?", normalizeEmail(email))
}

func (s *SQLStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.getUserWhere(ctx, "username = ?", strings.TrimSpace(username))
}

// ---- cafes ----

const cafeCols = "id, name, district, address, phone, description, image_url, owner_id, created_at"

func scanCafe(r rowScanner) (*model.Cafe, error) {
	var c model.Cafe
	if err := r.Scan(&c.ID, &c.Name, &c.District, &c.Address, &c.Phone, &c.Description, &c.ImageURL, &c.OwnerID, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *SQLStore) ListCafes(ctx context.Context, district int) ([]model.Cafe, error) {
	q := "SELECT " + cafeCols + " FROM cafes"
	var args []any
	if district != 0 {
		q += " WHERE district = ?"
		args = append(args, district)
	}
	q += " ORDER BY created_at, id"
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list cafes: %w", err)
	}
	defer rows.Close()
	out := []model.Cafe{}
	for rows.Next() {
		c, err := scanCafe(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetCafe(ctx context.Context, id string) (*model.Cafe, error) {
	c, err := scanCafe(s.db.QueryRowContext(ctx, "SELECT "+cafeCols+" FROM cafes WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCafeNotFound
		}
		return nil, fmt.Errorf("select cafe: %w", err)
	}
	return c, nil
}

func (s *SQLStore) CreateCafe(ctx context.Context, c *model.Cafe) error {
	s.stamp(&c.ID, &c.CreatedAt)
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO cafes ("+cafeCols+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		c.ID, c.Name, c.District, c.Address, c.Phone, c.Description, c.ImageURL, c.OwnerID, c.CreatedAt)
	if err != nil {
		if mysqlErrNumber(err) == errNoRefRow {
			return ErrInvalidReference
		}
		return fmt.Errorf("insert cafe: %w", err)
	}
	return nil
}

// ---- clubs ----

const clubCols = "id, name, description, cafe_id, owner_id, image_url, is_active, created_at"

func scanClub(r rowScanner) (*model.Club, error) {
	var c model.Club
	if err := r.Scan(&c.ID, &c.Name, &c.Description, &c.CafeID, &c.OwnerID, &c.ImageURL, &c.IsActive, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *SQLStore) queryClubs(ctx context.Context, q string, args ...any) ([]model.Club, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	defer rows.Close()
	out := []model.Club{}
	for rows.Next() {
		c, err := scanClub(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (s *SQLStore) ListClubs(ctx context.Context, f ClubFilter) ([]model.Club, error) {
	where := []string{}
	args := []any{}
	if f.CafeID != "" {
		where = append(where, "cafe_id = ?")
		args = append(args, f.CafeID)
	}
	if f.OwnerID != "" {
		where = append(where, "owner_id = ?")
		args = append(args, f.OwnerID)
	}
	if f.ActiveOnly {
		where = append(where, "is_active = 1")
	}
	q := "SELECT " + clubCols + " FROM clubs"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at, id"
	return s.queryClubs(ctx, q, args...)
}

func (s *SQLStore) GetClub(ctx context.Context, id string) (*model.Club, error) {
	c, err := scanClub(s.db.QueryRowContext(ctx, "SELECT "+clubCols+" FROM clubs WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("select club: %w", err)
	}
	return c, nil
}

func (s *SQLStore) CreateClub(ctx context.Context, c *model.Club) error {
	s.stamp(&c.ID, &c.CreatedAt)
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO clubs ("+clubCols+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		c.ID, c.Name, c.Description, c.CafeID, c.OwnerID, c.ImageURL, c.IsActive, c.CreatedAt)
	if err != nil {
		if mysqlErrNumber(err) == errNoRefRow {
			return ErrInvalidReference
		}
		return fmt.Errorf("insert club: %w", err)
	}
	return nil
}

// exists reports whether a row with the given id is present in table.
func (s *SQLStore) exists(ctx context.Context, q sqlQueryer, table, id string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup %s: %w", table, err)
	}
	return true, nil
}

// sqlQueryer is satisfied by both *sql.DB and *sql.Tx.
type sqlQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
