package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"sparkletidy/internal/models"
	"sparkletidy/internal/pagination"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// batchSize bounds the rows per INSERT statement in CreateBatch.
const batchSize = 100

type gormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository returns a repository over a postgres or sqlite
// connection. The connection should be opened with TranslateError enabled.
func NewGormTransactionRepository(db *gorm.DB) TransactionRepository {
	return &gormTransactionRepository{db: db}
}

func (r *gormTransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		var count int64
		if err := db.Model(&models.Transaction{}).Where("transaction_id = ?", tx.TransactionID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateID
		}
		return translateError(db.Create(tx).Error)
	})
}

func (r *gormTransactionRepository) CreateBatch(ctx context.Context, txs []models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return translateError(db.CreateInBatches(&txs, batchSize).Error)
	})
}

func (r *gormTransactionRepository) Get(ctx context.Context, id string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.WithContext(ctx).Where("transaction_id = ?", id).First(&tx).Error; err != nil {
		return nil, translateError(err)
	}
	return &tx, nil
}

func (r *gormTransactionRepository) Update(ctx context.Context, tx *models.Transaction, expectedVersion int) error {
	next := *tx
	next.Version = expectedVersion + 1
	next.UpdatedAt = time.Now().UTC()

	res := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("transaction_id = ? AND version = ?", tx.TransactionID, expectedVersion).
		Select("*").
		Omit("transaction_id", "created_at").
		Updates(&next)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := r.Get(ctx, tx.TransactionID); err != nil {
			return err
		}
		return ErrVersionConflict
	}

	*tx = next
	return nil
}

func (r *gormTransactionRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("transaction_id = ?", id).Delete(&models.Transaction{})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormTransactionRepository) List(ctx context.Context, filter TransactionFilter, page pagination.PageRequest) ([]models.Transaction, int64, error) {
	page.Defaults()

	base := applyFilter(r.db.WithContext(ctx).Model(&models.Transaction{}), filter)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txs []models.Transaction
	err := base.
		Order("date DESC").
		Order("transaction_id DESC").
		Scopes(pagination.Paginate(page)).
		Find(&txs).Error
	if err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

func (r *gormTransactionRepository) ListAll(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := applyFilter(r.db.WithContext(ctx).Model(&models.Transaction{}), filter).
		Order("date DESC").
		Order("transaction_id DESC").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	return txs, nil
}

func (r *gormTransactionRepository) DistinctContractorIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("contractor_id IS NOT NULL AND contractor_id <> ''").
		Distinct("contractor_id").
		Order("contractor_id").
		Pluck("contractor_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *gormTransactionRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// applyFilter adds WHERE clauses for each set criterion.
func applyFilter(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.From != nil {
		q = q.Where("date >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("date <= ?", f.To.UTC())
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.ServiceType != nil {
		q = q.Where("service_type = ?", *f.ServiceType)
	}
	if f.PaymentMethod != nil {
		q = q.Where("payment_method = ?", *f.PaymentMethod)
	}
	if f.ContractorID != "" {
		q = q.Where("contractor_id = ?", f.ContractorID)
	}
	if f.ClientEmail != "" {
		q = q.Where("client_email = ?", strings.ToLower(f.ClientEmail))
	}
	return q
}

// translateError maps driver errors onto the package sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateID
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicateID
	}
	return err
}
