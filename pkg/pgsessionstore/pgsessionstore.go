package pgsessionstore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/weberc2/passwordreset/pkg/types"
)

type PGSessionStore sql.DB

func OpenEnv() (*PGSessionStore, error) {
	db, err := sql.Open(
		"postgres",
		fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			getEnv("PG_HOST", "localhost"),
			getEnv("PG_PORT", "5432"),
			getEnv("PG_USER", "postgres"),
			getEnv("PG_PASS", ""),
			getEnv("PG_DB_NAME", "postgres"),
			getEnv("PG_SSL_MODE", "disable"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("opening postgres database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging postgres database: %w", err)
	}

	return (*PGSessionStore)(db), nil
}

func getEnv(env, def string) string {
	x := os.Getenv(env)
	if x == "" {
		return def
	}
	return x
}

func (pgss *PGSessionStore) EnsureTable() error {
	if _, err := (*sql.DB)(pgss).Exec(
		"CREATE TABLE IF NOT EXISTS resetsessions (" +
			"id VARCHAR(255) NOT NULL PRIMARY KEY, " +
			"\"resetEmail\" VARCHAR(320) NOT NULL DEFAULT '', " +
			"\"verifiedOTP\" VARCHAR(255) NOT NULL DEFAULT '')",
	); err != nil {
		return fmt.Errorf("creating `resetsessions` postgres table: %w", err)
	}
	return nil
}

func (pgss *PGSessionStore) DropTable() error {
	if _, err := (*sql.DB)(pgss).Exec(
		"DROP TABLE IF EXISTS resetsessions",
	); err != nil {
		return fmt.Errorf("dropping table `resetsessions`: %w", err)
	}
	return nil
}

func (pgss *PGSessionStore) ClearTable() error {
	if _, err := (*sql.DB)(pgss).Exec(
		"DELETE FROM resetsessions",
	); err != nil {
		return fmt.Errorf("clearing `resetsessions` postgres table: %w", err)
	}
	return nil
}

func (pgss *PGSessionStore) ResetTable() error {
	if err := pgss.DropTable(); err != nil {
		return err
	}
	return pgss.EnsureTable()
}

func (pgss *PGSessionStore) Load(id types.SessionID) (*types.Session, error) {
	var session types.Session
	if err := (*sql.DB)(pgss).QueryRow(
		"SELECT \"resetEmail\", \"verifiedOTP\" FROM resetsessions "+
			"WHERE id = $1",
		id,
	).Scan(&session.Email, &session.OTP); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &session, nil
		}
		return nil, fmt.Errorf("loading session from postgres: %w", err)
	}
	return &session, nil
}

func (pgss *PGSessionStore) Save(id types.SessionID, s *types.Session) error {
	if _, err := (*sql.DB)(pgss).Exec(
		"INSERT INTO resetsessions (id, \"resetEmail\", \"verifiedOTP\") "+
			"VALUES($1, $2, $3) ON CONFLICT (id) DO UPDATE SET "+
			"\"resetEmail\" = EXCLUDED.\"resetEmail\", "+
			"\"verifiedOTP\" = EXCLUDED.\"verifiedOTP\"",
		id,
		s.Email,
		s.OTP,
	); err != nil {
		return fmt.Errorf("saving session to postgres: %w", err)
	}
	return nil
}

func (pgss *PGSessionStore) Clear(id types.SessionID) error {
	if _, err := (*sql.DB)(pgss).Exec(
		"DELETE FROM resetsessions WHERE id = $1",
		id,
	); err != nil {
		return fmt.Errorf("clearing session from postgres: %w", err)
	}
	return nil
}

func (pgss *PGSessionStore) Close() error { return (*sql.DB)(pgss).Close() }

var _ types.SessionStore = &PGSessionStore{}
