// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/govledger/internal/models"
	"github.com/mmynk/govledger/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

const proposalCounter = "proposal_id"

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Pragmas go in the DSN so every pooled connection gets them.
	dsn := "file:" + dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetProposal retrieves a proposal by ID. Returns nil, nil if absent.
func (s *SQLiteStore) GetProposal(ctx context.Context, id uint64) (*models.Proposal, error) {
	var record []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT record FROM proposals WHERE id = ?",
		int64(id),
	).Scan(&record)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}

	p, err := storage.UnmarshalProposal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to decode proposal %d: %w", id, err)
	}
	return p, nil
}

// PutProposal replaces the record stored under id and returns the previous one.
func (s *SQLiteStore) PutProposal(ctx context.Context, id uint64, p *models.Proposal) (*models.Proposal, error) {
	// Encode before touching the database so an oversized record never
	// starts a write.
	record, err := storage.MarshalProposal(p)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var prev *models.Proposal
	var prevRecord []byte
	err = tx.QueryRowContext(ctx, "SELECT record FROM proposals WHERE id = ?", int64(id)).Scan(&prevRecord)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return nil, fmt.Errorf("failed to read previous proposal: %w", err)
	default:
		prev, err = storage.UnmarshalProposal(prevRecord)
		if err != nil {
			return nil, fmt.Errorf("failed to decode previous proposal %d: %w", id, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO proposals (id, record) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET record = excluded.record`,
		int64(id), record,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to write proposal: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return prev, nil
}

// ProposalCount returns the number of stored proposals.
func (s *SQLiteStore) ProposalCount(ctx context.Context) (uint64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM proposals").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count proposals: %w", err)
	}
	return uint64(n), nil
}

// NextProposalID increments the persisted proposal counter.
func (s *SQLiteStore) NextProposalID(ctx context.Context) (uint64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO counters (name, value) VALUES (?, 1)
		 ON CONFLICT(name) DO UPDATE SET value = value + 1`,
		proposalCounter,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter: %w", err)
	}

	var next int64
	if err := tx.QueryRowContext(ctx, "SELECT value FROM counters WHERE name = ?", proposalCounter).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to read counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return uint64(next), nil
}
