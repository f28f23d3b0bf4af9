// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package snapshotstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/storefront-catalog/internal/models"
)

// BadgerStore keeps the snapshot in an embedded BadgerDB directory.
type BadgerStore struct {
	db  *badger.DB
	key []byte
}

// OpenBadger opens (or creates) the database at path.
func OpenBadger(path string) (*BadgerStore, error) {
	if path == "" {
		return nil, errors.New("badger persistence requires persist.badger_path")
	}
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for snapshots: %w", err)
	}
	return NewBadgerStore(db), nil
}

// NewBadgerStore wraps an already opened database.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db, key: []byte(DefaultKey)}
}

// Save replaces the stored snapshot.
func (s *BadgerStore) Save(ctx context.Context, snap *models.Snapshot) error {
	data, err := encode(snap)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(s.key, data); err != nil {
			return fmt.Errorf("set snapshot: %w", err)
		}
		return nil
	})
}

// Load returns (nil, nil) when no snapshot has been saved.
func (s *BadgerStore) Load(ctx context.Context) (*models.Snapshot, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return decode(data)
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
