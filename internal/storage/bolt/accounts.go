package bolt

import (
	"context"
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/mmynk/govledger/internal/models"
	"github.com/mmynk/govledger/internal/storage"
)

// CreateAccount stores the account and indexes it by email.
func (s *BoltStore) CreateAccount(_ context.Context, account *models.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to encode account: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		accounts, err := bucket(tx, accountsBucket)
		if err != nil {
			return err
		}
		byEmail, err := bucket(tx, accountsByEmailIndex)
		if err != nil {
			return err
		}
		if byEmail.Get([]byte(account.Email)) != nil {
			return storage.ErrAccountExists
		}
		if err := accounts.Put([]byte(account.ID), data); err != nil {
			return err
		}
		return byEmail.Put([]byte(account.Email), []byte(account.ID))
	})
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetAccountByEmail resolves the email index, then loads the account.
func (s *BoltStore) GetAccountByEmail(_ context.Context, email string) (account *models.Account, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		byEmail, err := bucket(tx, accountsByEmailIndex)
		if err != nil {
			return err
		}
		id := byEmail.Get([]byte(email))
		if id == nil {
			return nil
		}
		account, err = loadAccount(tx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}
	return account, nil
}

// GetAccountByID loads the account stored under id.
func (s *BoltStore) GetAccountByID(_ context.Context, id string) (account *models.Account, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		account, err = loadAccount(tx, []byte(id))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get account by id: %w", err)
	}
	return account, nil
}

func loadAccount(tx *bolt.Tx, id []byte) (*models.Account, error) {
	accounts, err := bucket(tx, accountsBucket)
	if err != nil {
		return nil, err
	}
	v := accounts.Get(id)
	if v == nil {
		return nil, nil
	}
	account := &models.Account{}
	if err := json.Unmarshal(v, account); err != nil {
		return nil, err
	}
	return account, nil
}
