package repository

import (
	"context"
	"encoding/json"
	"slices"
	"time"

	bolt "github.com/boltdb/bolt"

	"sparkletidy/internal/models"
	"sparkletidy/internal/pagination"
)

const transactionsBucket = "transactions"

// BoltTransactionRepository stores transactions as JSON documents in a single
// BoltDB file. Queries scan the bucket, which suits a single-office ledger.
type BoltTransactionRepository struct {
	db *bolt.DB
}

// NewBoltTransactionRepository opens (or creates) the BoltDB file at path and
// ensures the transactions bucket exists.
func NewBoltTransactionRepository(path string) (*BoltTransactionRepository, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(transactionsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltTransactionRepository{db: db}, nil
}

// Close releases the database file lock.
func (r *BoltTransactionRepository) Close() error {
	return r.db.Close()
}

func (r *BoltTransactionRepository) Create(ctx context.Context, t *models.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(btx *bolt.Tx) error {
		b := btx.Bucket([]byte(transactionsBucket))
		return putNew(b, t, time.Now().UTC())
	})
}

func (r *BoltTransactionRepository) CreateBatch(ctx context.Context, txs []models.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now().UTC()
	// A returned error rolls back the whole bolt transaction.
	return r.db.Update(func(btx *bolt.Tx) error {
		b := btx.Bucket([]byte(transactionsBucket))
		for i := range txs {
			if err := putNew(b, &txs[i], now); err != nil {
				return err
			}
		}
		return nil
	})
}

func putNew(b *bolt.Bucket, t *models.Transaction, now time.Time) error {
	key := []byte(t.TransactionID)
	if b.Get(key) != nil {
		return ErrDuplicateID
	}
	if t.Version == 0 {
		t.Version = 1
	}
	t.CreatedAt = now
	t.UpdatedAt = now

	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return b.Put(key, data)
}

func (r *BoltTransactionRepository) Get(ctx context.Context, id string) (*models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var t models.Transaction
	err := r.db.View(func(btx *bolt.Tx) error {
		v := btx.Bucket([]byte(transactionsBucket)).Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &t)
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *BoltTransactionRepository) Update(ctx context.Context, t *models.Transaction, expectedVersion int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var result models.Transaction
	err := r.db.Update(func(btx *bolt.Tx) error {
		b := btx.Bucket([]byte(transactionsBucket))
		key := []byte(t.TransactionID)

		v := b.Get(key)
		if v == nil {
			return ErrNotFound
		}
		var stored models.Transaction
		if err := json.Unmarshal(v, &stored); err != nil {
			return err
		}
		if stored.Version != expectedVersion {
			return ErrVersionConflict
		}

		result = *t
		result.CreatedAt = stored.CreatedAt
		result.UpdatedAt = time.Now().UTC()
		result.Version = expectedVersion + 1

		data, err := json.Marshal(&result)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	})
	if err != nil {
		return err
	}
	*t = result
	return nil
}

func (r *BoltTransactionRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(btx *bolt.Tx) error {
		b := btx.Bucket([]byte(transactionsBucket))
		if b.Get([]byte(id)) == nil {
			return ErrNotFound
		}
		return b.Delete([]byte(id))
	})
}

func (r *BoltTransactionRepository) List(ctx context.Context, filter TransactionFilter, page pagination.PageRequest) ([]models.Transaction, int64, error) {
	all, err := r.ListAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	page.Defaults()
	start, end := page.Window(len(all))
	return all[start:end], int64(len(all)), nil
}

func (r *BoltTransactionRepository) ListAll(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items := []models.Transaction{}
	err := r.db.View(func(btx *bolt.Tx) error {
		return btx.Bucket([]byte(transactionsBucket)).ForEach(func(_, v []byte) error {
			var t models.Transaction
			if err := json.Unmarshal(v, &t); err != nil {
				return err
			}
			if filter.Matches(&t) {
				items = append(items, t)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(items, models.NewestFirst)
	return items, nil
}

func (r *BoltTransactionRepository) DistinctContractorIDs(ctx context.Context) ([]string, error) {
	all, err := r.ListAll(ctx, TransactionFilter{})
	if err != nil {
		return nil, err
	}
	ids := []string{}
	for i := range all {
		if id := all[i].ContractorID; id != nil && *id != "" {
			ids = append(ids, *id)
		}
	}
	slices.Sort(ids)
	return slices.Compact(ids), nil
}

func (r *BoltTransactionRepository) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.View(func(btx *bolt.Tx) error {
		if btx.Bucket([]byte(transactionsBucket)) == nil {
			return ErrNotFound
		}
		return nil
	})
}
