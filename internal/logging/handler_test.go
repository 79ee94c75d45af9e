package logging

import (
	"database/sql"
	"io"
	"log/slog"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/Ash-crypto/cms-go/internal/store"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level TEXT NOT NULL DEFAULT 'info',
			category TEXT NOT NULL DEFAULT 'system',
			message TEXT NOT NULL,
			user_id INTEGER,
			metadata TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func newTestLogger(t *testing.T, db *sql.DB) *slog.Logger {
	t.Helper()
	inner := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(NewEventLogHandler(inner, db))
}

func eventCount(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		t.Fatalf("counting events: %v", err)
	}
	return n
}

func TestHandlerWritesWarnAndAbove(t *testing.T) {
	db := testDB(t)
	logger := newTestLogger(t, db)

	logger.Debug("debug message")
	logger.Info("info message")
	if got := eventCount(t, db); got != 0 {
		t.Fatalf("event count after info logs = %d, want 0", got)
	}

	logger.Warn("something looks off")
	logger.Error("something broke")
	if got := eventCount(t, db); got != 2 {
		t.Fatalf("event count after warn+error = %d, want 2", got)
	}

	var level string
	err := db.QueryRow(`SELECT level FROM events WHERE message = 'something broke'`).Scan(&level)
	if err != nil {
		t.Fatalf("looking up event: %v", err)
	}
	if level != store.EventLevelError {
		t.Errorf("level = %q, want %q", level, store.EventLevelError)
	}
}

func TestHandlerCategoryExtraction(t *testing.T) {
	db := testDB(t)
	logger := newTestLogger(t, db)

	tests := []struct {
		message string
		args    []any
		want    string
	}{
		{"explicit category", []any{"category", "customer"}, "customer"},
		{"login failed", nil, store.EventCategoryAuth},
		{"customer record rejected", nil, store.EventCategoryCustomer},
		{"account locked", nil, store.EventCategoryUser},
		{"disk almost full", nil, store.EventCategorySystem},
	}

	for _, tt := range tests {
		logger.Warn(tt.message, tt.args...)

		var category string
		err := db.QueryRow(`SELECT category FROM events WHERE message = ?`, tt.message).Scan(&category)
		if err != nil {
			t.Fatalf("looking up event %q: %v", tt.message, err)
		}
		if category != tt.want {
			t.Errorf("category for %q = %q, want %q", tt.message, category, tt.want)
		}
	}
}

func TestHandlerMetadata(t *testing.T) {
	db := testDB(t)
	logger := newTestLogger(t, db)

	logger.Warn("metadata test", "key", "value", "category", "system")

	var metadata string
	err := db.QueryRow(`SELECT metadata FROM events WHERE message = 'metadata test'`).Scan(&metadata)
	if err != nil {
		t.Fatalf("looking up event: %v", err)
	}
	if metadata != `{"key":"value"}` {
		t.Errorf("metadata = %s, want {\"key\":\"value\"}", metadata)
	}
}

func TestEscapeJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{`say "hi"`, `say \"hi\"`},
		{"line\nbreak", `line\nbreak`},
		{`back\slash`, `back\\slash`},
	}

	for _, tt := range tests {
		if got := escapeJSON(tt.in); got != tt.want {
			t.Errorf("escapeJSON(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
