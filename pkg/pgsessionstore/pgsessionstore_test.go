package pgsessionstore

import (
	"database/sql"
	"log"
	"os"
	"testing"

	"github.com/weberc2/passwordreset/pkg/types"
)

var store *PGSessionStore

func TestMain(m *testing.M) {
	// these tests need a live database; point PG_HOST at one to run them
	if os.Getenv("PG_HOST") == "" {
		log.Println("PG_HOST unset; skipping postgres session store tests")
		os.Exit(0)
	}

	var err error
	if store, err = OpenEnv(); err != nil {
		log.Fatalf("opening postgres session store: %v", err)
	}
	if err := store.ResetTable(); err != nil {
		log.Fatalf("resetting postgres session store table: %v", err)
	}
	code := m.Run()
	store.Close()
	os.Exit(code)
}

func prepare(t *testing.T, state map[types.SessionID]types.Session) {
	t.Helper()
	if err := store.ClearTable(); err != nil {
		t.Fatalf("clearing table: %v", err)
	}
	for id, session := range state {
		if _, err := (*sql.DB)(store).Exec(
			"INSERT INTO resetsessions (id, \"resetEmail\", \"verifiedOTP\") "+
				"VALUES($1, $2, $3)",
			id,
			session.Email,
			session.OTP,
		); err != nil {
			t.Fatalf("preparing session `%s`: %v", id, err)
		}
	}
}

func TestLoad(t *testing.T) {
	for _, testCase := range []struct {
		name   string
		state  map[types.SessionID]types.Session
		id     types.SessionID
		wanted types.Session
	}{{
		name:   "missing",
		id:     "session",
		wanted: types.Session{},
	}, {
		name: "found",
		state: map[types.SessionID]types.Session{
			"session": {Email: "user@example.com", OTP: "123456"},
			"other":   {Email: "other@example.com"},
		},
		id:     "session",
		wanted: types.Session{Email: "user@example.com", OTP: "123456"},
	}} {
		t.Run(testCase.name, func(t *testing.T) {
			prepare(t, testCase.state)
			found, err := store.Load(testCase.id)
			if err != nil {
				t.Fatalf("Load(): unexpected error: %v", err)
			}
			if err := testCase.wanted.Compare(found); err != nil {
				t.Fatalf("Load(): %v", err)
			}
		})
	}
}

func TestSave(t *testing.T) {
	prepare(t, map[types.SessionID]types.Session{
		"session": {Email: "stale@example.com", OTP: "000000"},
	})

	wanted := types.Session{Email: "user@example.com"}
	if err := store.Save("session", &wanted); err != nil {
		t.Fatalf("Save(): unexpected error: %v", err)
	}
	found, err := store.Load("session")
	if err != nil {
		t.Fatalf("Load(): unexpected error: %v", err)
	}
	if err := wanted.Compare(found); err != nil {
		t.Fatalf("Load(): %v", err)
	}
}

func TestClear(t *testing.T) {
	prepare(t, map[types.SessionID]types.Session{
		"session": {Email: "user@example.com", OTP: "123456"},
	})

	for i := 0; i < 2; i++ {
		if err := store.Clear("session"); err != nil {
			t.Fatalf("Clear() #%d: unexpected error: %v", i, err)
		}
	}
	found, err := store.Load("session")
	if err != nil {
		t.Fatalf("Load(): unexpected error: %v", err)
	}
	if err := (&types.Session{}).Compare(found); err != nil {
		t.Fatalf("Load(): %v", err)
	}
}
