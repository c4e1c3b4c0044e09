package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema lists the statements Migrate applies in order.  Every statement is
// idempotent so Migrate can run on each start.  Registration uniqueness on
// (event_id, email) and membership uniqueness on (club_id, user_id) live in
// the schema; the store maps the resulting duplicate-key errors.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            VARCHAR(64)  NOT NULL PRIMARY KEY,
		username      VARCHAR(64)  NOT NULL,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		full_name     VARCHAR(255) NOT NULL,
		phone         VARCHAR(32)  NULL,
		avatar        VARCHAR(512) NULL,
		role          VARCHAR(16)  NOT NULL DEFAULT 'user',
		created_at    DATETIME     NOT NULL,
		UNIQUE KEY uq_users_email (email),
		UNIQUE KEY uq_users_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS cafes (
		id          VARCHAR(64)  NOT NULL PRIMARY KEY,
		name        VARCHAR(255) NOT NULL,
		district    TINYINT UNSIGNED NOT NULL,
		address     VARCHAR(512) NOT NULL,
		phone       VARCHAR(32)  NULL,
		description TEXT         NULL,
		image_url   VARCHAR(512) NULL,
		owner_id    VARCHAR(64)  NULL,
		created_at  DATETIME     NOT NULL,
		KEY idx_cafes_district (district),
		CONSTRAINT fk_cafes_owner FOREIGN KEY (owner_id) REFERENCES users (id),
		CONSTRAINT chk_cafes_district CHECK (district BETWEEN 1 AND 22)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS clubs (
		id          VARCHAR(64)  NOT NULL PRIMARY KEY,
		name        VARCHAR(255) NOT NULL,
		description TEXT         NOT NULL,
		cafe_id     VARCHAR(64)  NOT NULL,
		owner_id    VARCHAR(64)  NOT NULL,
		image_url   VARCHAR(512) NULL,
		is_active   TINYINT(1)   NOT NULL DEFAULT 1,
		created_at  DATETIME     NOT NULL,
		CONSTRAINT fk_clubs_cafe FOREIGN KEY (cafe_id) REFERENCES cafes (id),
		CONSTRAINT fk_clubs_owner FOREIGN KEY (owner_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS events (
		id          VARCHAR(64)  NOT NULL PRIMARY KEY,
		book_title  VARCHAR(255) NOT NULL,
		author      VARCHAR(255) NOT NULL,
		description TEXT         NOT NULL,
		category    VARCHAR(64)  NOT NULL,
		starts_at   DATETIME     NOT NULL,
		time_label  VARCHAR(64)  NOT NULL,
		capacity    INT UNSIGNED NOT NULL,
		image_url   VARCHAR(512) NULL,
		club_id     VARCHAR(64)  NOT NULL,
		cafe_id     VARCHAR(64)  NOT NULL,
		created_at  DATETIME     NOT NULL,
		KEY idx_events_starts_at (starts_at),
		CONSTRAINT fk_events_club FOREIGN KEY (club_id) REFERENCES clubs (id),
		CONSTRAINT fk_events_cafe FOREIGN KEY (cafe_id) REFERENCES cafes (id),
		CONSTRAINT chk_events_capacity CHECK (capacity >= 1)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS registrations (
		id         VARCHAR(64)  NOT NULL PRIMARY KEY,
		event_id   VARCHAR(64)  NOT NULL,
		user_id    VARCHAR(64)  NULL,
		full_name  VARCHAR(255) NOT NULL,
		email      VARCHAR(255) NOT NULL,
		phone      VARCHAR(32)  NOT NULL,
		notes      TEXT         NULL,
		created_at DATETIME     NOT NULL,
		UNIQUE KEY uq_registrations_event_email (event_id, email),
		KEY idx_registrations_user (user_id),
		CONSTRAINT fk_registrations_event FOREIGN KEY (event_id) REFERENCES events (id) ON DELETE CASCADE,
		CONSTRAINT fk_registrations_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS club_members (
		id        VARCHAR(64) NOT NULL PRIMARY KEY,
		club_id   VARCHAR(64) NOT NULL,
		user_id   VARCHAR(64) NOT NULL,
		joined_at DATETIME    NOT NULL,
		UNIQUE KEY uq_club_members (club_id, user_id),
		KEY idx_club_members_user (user_id),
		CONSTRAINT fk_club_members_club FOREIGN KEY (club_id) REFERENCES clubs (id) ON DELETE CASCADE,
		CONSTRAINT fk_club_members_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates any missing tables.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
