package database

import (
	"net/url"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"github.com/pkg/errors"

	"github.com/kazlaw/shule/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            UUID PRIMARY KEY,
    name          TEXT NOT NULL,
    username      TEXT NOT NULL,
    email         TEXT NOT NULL,
    mobile        TEXT NOT NULL DEFAULT '',
    role          TEXT NOT NULL CHECK (role IN ('student', 'teacher', 'admin', 'superadmin')),
    password_hash BYTEA NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL,
    updated_at    TIMESTAMPTZ NOT NULL,
    last_login    TIMESTAMPTZ NOT NULL DEFAULT 'epoch',
    UNIQUE (username, role)
);

CREATE TABLE IF NOT EXISTS system_config (
    id                       SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
    allow_login              BOOLEAN NOT NULL DEFAULT TRUE,
    allow_admin_registration BOOLEAN NOT NULL DEFAULT TRUE
);

INSERT INTO system_config (id) VALUES (1) ON CONFLICT (id) DO NOTHING;
`

// Open opens a Postgres connection pool from the app config.
func Open(conf *core.Config) (*sqlx.DB, error) {
	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}

	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(conf.Database.User, conf.Database.Password),
		Host:     conf.Database.Host + ":" + conf.Database.Port,
		Path:     conf.Database.Name,
		RawQuery: q.Encode(),
	}

	db, err := sqlx.Open("postgres", u.String())
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	return db, nil
}

// Migrate brings the schema up to date. It is idempotent and also seeds the
// system_config singleton row on first run.
func Migrate(db *sqlx.DB) error {
	_, err := db.Exec(schema)
	return errors.Wrap(err, "migrating database")
}
