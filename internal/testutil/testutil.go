package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// NewTestDB creates a SQLite database file with the monitored schema
// and returns its path. The file lives in a per-test temp directory.
func NewTestDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "nexus.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	defer db.Close()

	schema := `
	CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username VARCHAR(255) NOT NULL UNIQUE,
		email VARCHAR(255),
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE accounts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		name VARCHAR(255) NOT NULL,
		balance DECIMAL(10, 2) DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id)
	);

	CREATE TABLE transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		account_id INTEGER,
		amount DECIMAL(10, 2) NOT NULL,
		kind VARCHAR(50),
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE files (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		name VARCHAR(255) NOT NULL,
		size INTEGER DEFAULT 0
	);

	CREATE TABLE notifications (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		message TEXT,
		read BOOLEAN DEFAULT FALSE
	);

	CREATE TABLE audit_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action VARCHAR(255) NOT NULL,
		actor VARCHAR(255),
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE security_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type VARCHAR(100) NOT NULL,
		details TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX idx_accounts_user ON accounts(user_id);
	CREATE INDEX idx_transactions_account ON transactions(account_id);
	`

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	return path
}

// SeedRows inserts baseline rows: two users, two accounts and two
// consistent transactions
func SeedRows(t *testing.T, path string) {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	defer db.Close()

	seed := `
	INSERT INTO users (username, email) VALUES ('alice', 'alice@example.com'), ('bob', 'bob@example.com');
	INSERT INTO accounts (user_id, name, balance) VALUES (1, 'checking', 100.0), (2, 'savings', 250.0);
	INSERT INTO transactions (account_id, amount, kind) VALUES (1, 25.0, 'debit'), (2, 50.0, 'credit');
	`
	if _, err := db.Exec(seed); err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}
}

// InsertOrphanedTransaction adds a transaction pointing at a missing
// account, used to exercise the consistency check
func InsertOrphanedTransaction(t *testing.T, path string) {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`INSERT INTO transactions (account_id, amount, kind) VALUES (9999, 10.0, 'debit')`); err != nil {
		t.Fatalf("Failed to insert orphaned transaction: %v", err)
	}
}
