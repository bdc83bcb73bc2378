// Package bolt provides a bbolt-backed implementation of the storage.Store
// interface. Proposals live in a single bucket keyed by big-endian ids so
// cursor order matches id order.
package bolt

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/mmynk/govledger/internal/models"
	"github.com/mmynk/govledger/internal/storage"
)

var _ storage.Store = (*BoltStore)(nil)

var (
	proposalsBucket      = []byte("proposals")
	counterBucket        = []byte("counters")
	accountsBucket       = []byte("accounts")
	accountsByEmailIndex = []byte("accounts_by_email")

	proposalCounterKey = []byte("proposal_id")
)

// ErrBucketNotFound means the database was not initialized by New.
var ErrBucketNotFound = errors.New("bucket not found")

// BoltStore implements storage.Store on top of a single bbolt file.
type BoltStore struct {
	db *bolt.DB
}

// New opens (or creates) the bbolt database at dbPath and ensures all
// buckets exist.
func New(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := initDB(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func initDB(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{proposalsBucket, counterBucket, accountsBucket, accountsByEmailIndex} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close closes the database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func proposalKey(id uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, id)
	return k
}

func bucket(tx *bolt.Tx, name []byte) (*bolt.Bucket, error) {
	b := tx.Bucket(name)
	if b == nil {
		return nil, fmt.Errorf("%w: %s", ErrBucketNotFound, name)
	}
	return b, nil
}

// GetProposal returns the proposal stored under id, or nil if absent.
func (s *BoltStore) GetProposal(_ context.Context, id uint64) (p *models.Proposal, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		b, err := bucket(tx, proposalsBucket)
		if err != nil {
			return err
		}
		v := b.Get(proposalKey(id))
		if v == nil {
			return nil
		}
		// v is only valid inside the transaction; decoding copies it.
		p, err = storage.UnmarshalProposal(v)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get proposal %d: %w", id, err)
	}
	return p, nil
}

// PutProposal replaces the record stored under id and returns the previous one.
func (s *BoltStore) PutProposal(_ context.Context, id uint64, p *models.Proposal) (prev *models.Proposal, err error) {
	record, err := storage.MarshalProposal(p)
	if err != nil {
		return nil, err
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := bucket(tx, proposalsBucket)
		if err != nil {
			return err
		}
		key := proposalKey(id)
		if v := b.Get(key); v != nil {
			if prev, err = storage.UnmarshalProposal(v); err != nil {
				return err
			}
		}
		return b.Put(key, record)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to put proposal %d: %w", id, err)
	}
	return prev, nil
}

// ProposalCount returns the number of keys in the proposals bucket.
func (s *BoltStore) ProposalCount(_ context.Context) (n uint64, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		b, err := bucket(tx, proposalsBucket)
		if err != nil {
			return err
		}
		n = uint64(b.Stats().KeyN)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count proposals: %w", err)
	}
	return n, nil
}

// NextProposalID increments the persisted counter. bbolt's bucket sequence
// is not used because it is shared by every key in the bucket.
func (s *BoltStore) NextProposalID(_ context.Context) (next uint64, err error) {
	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := bucket(tx, counterBucket)
		if err != nil {
			return err
		}
		if v := b.Get(proposalCounterKey); v != nil {
			next = binary.BigEndian.Uint64(v)
		}
		next++
		return b.Put(proposalCounterKey, proposalKey(next))
	})
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter: %w", err)
	}
	return next, nil
}
