package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/gaqzi/review-service/internal/reviewing"
)

var reviewKeyPrefix = []byte("review:")

// BadgerStore keeps each review as a JSON document under the key "review:{id}".
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens (or creates) the database at path, an empty path keeps everything in memory.
func OpenBadger(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %q: %w", path, err)
	}

	return NewBadgerStore(db), nil
}

func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func reviewKey(id string) []byte {
	return append(append([]byte{}, reviewKeyPrefix...), id...)
}

func (s *BadgerStore) FindByID(ctx context.Context, id string) (reviewing.Review, bool, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(reviewKey(id))
		if err != nil {
			return err
		}

		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return reviewing.Review{}, false, nil
		}
		return reviewing.Review{}, false, fmt.Errorf("failed to find review %q: %w", id, err)
	}

	r, err := unmarshalReview(ctx, value)
	if err != nil {
		return reviewing.Review{}, false, err
	}

	return r, true, nil
}

func (s *BadgerStore) FindAll(ctx context.Context) ([]reviewing.Review, error) {
	var values [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = reviewKeyPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			value, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			values = append(values, value)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find all reviews: %w", err)
	}

	ret := make([]reviewing.Review, 0, len(values))
	for _, v := range values {
		r, err := unmarshalReview(ctx, v)
		if err != nil {
			return nil, err
		}
		ret = append(ret, r)
	}

	return ret, nil
}

func (s *BadgerStore) Save(_ context.Context, review reviewing.Review) (reviewing.Review, error) {
	if err := checkID(review.ID()); err != nil {
		return reviewing.Review{}, err
	}

	value, err := marshalReview(review)
	if err != nil {
		return reviewing.Review{}, err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(reviewKey(review.ID()), value)
	})
	if err != nil {
		return reviewing.Review{}, fmt.Errorf("failed to save review %q: %w", review.ID(), err)
	}

	return review, nil
}

func (s *BadgerStore) Delete(_ context.Context, id string) (bool, error) {
	var deleted bool
	err := s.db.Update(func(txn *badger.Txn) error {
		key := reviewKey(id)
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}

		deleted = true
		return txn.Delete(key)
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete review %q: %w", id, err)
	}

	return deleted, nil
}

func (s *BadgerStore) Exists(_ context.Context, id string) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(reviewKey(id))
		return err
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("failed to check if review %q exists: %w", id, err)
	}
}
