package repository

import (
	"context"
	"errors"

	"github.com/Senshu-NEst/NEst-backend/internal/domain/entity"
	"github.com/Senshu-NEst/NEst-backend/internal/domain/enum"
	domainRepo "github.com/Senshu-NEst/NEst-backend/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) domainRepo.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *transactionRepository) GetByID(ctx context.Context, id int64) (*entity.Transaction, error) {
	var transaction entity.Transaction
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("line_no") }).
		Preload("Payments").
		First(&transaction, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &transaction, err
}

func (r *transactionRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Transaction, error) {
	var transaction entity.Transaction
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&transaction, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// Associations load after the lock; the row lock guards the header.
	err = r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("line_no") }).
		Preload("Payments").
		First(&transaction, "id = ?", id).Error
	return &transaction, err
}

func (r *transactionRepository) UpdateStatus(ctx context.Context, id int64, status enum.TransactionStatus, correctionLinkID *int64) error {
	updates := map[string]interface{}{"status": status}
	if correctionLinkID != nil {
		updates["correction_link_id"] = *correctionLinkID
	}
	return r.db.WithContext(ctx).
		Model(&entity.Transaction{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *transactionRepository) List(ctx context.Context, params *domainRepo.TransactionFilterParams) ([]entity.Transaction, int64, error) {
	var transactions []entity.Transaction
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Transaction{})
	if params.StoreCode != "" {
		query = query.Where("store_code = ?", params.StoreCode)
	}
	if params.StaffCode != "" {
		query = query.Where("staff_code = ?", params.StaffCode)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.DateFrom != nil {
		query = query.Where("date >= ?", *params.DateFrom)
	}
	if params.DateTo != nil {
		query = query.Where("date <= ?", *params.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("line_no") }).
		Preload("Payments").
		Order("id DESC").
		Offset(params.Pagination.Offset()).
		Limit(params.Pagination.PerPage).
		Find(&transactions).Error
	return transactions, total, err
}

type returnRepository struct {
	db *gorm.DB
}

// NewReturnRepository creates a new return transaction repository
func NewReturnRepository(db *gorm.DB) domainRepo.ReturnRepository {
	return &returnRepository{db: db}
}

func (r *returnRepository) Create(ctx context.Context, ret *entity.ReturnTransaction) error {
	return r.db.WithContext(ctx).Create(ret).Error
}

func (r *returnRepository) GetByID(ctx context.Context, id int64) (*entity.ReturnTransaction, error) {
	var ret entity.ReturnTransaction
	err := r.db.WithContext(ctx).
		Preload("Details").Preload("Refunds").
		First(&ret, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ret, err
}

func (r *returnRepository) ListByOrigin(ctx context.Context, originTransactionID int64) ([]entity.ReturnTransaction, error) {
	var rets []entity.ReturnTransaction
	err := r.db.WithContext(ctx).
		Preload("Details").Preload("Refunds").
		Where("origin_transaction_id = ?", originTransactionID).
		Order("id").
		Find(&rets).Error
	return rets, err
}

func (r *returnRepository) List(ctx context.Context, params *domainRepo.ReturnFilterParams) ([]entity.ReturnTransaction, int64, error) {
	var rets []entity.ReturnTransaction
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ReturnTransaction{})
	if params.StoreCode != "" {
		query = query.Where("store_code = ?", params.StoreCode)
	}
	if params.DateFrom != nil {
		query = query.Where("date >= ?", *params.DateFrom)
	}
	if params.DateTo != nil {
		query = query.Where("date <= ?", *params.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.
		Preload("Details").Preload("Refunds").
		Order("id DESC").
		Offset(params.Pagination.Offset()).
		Limit(params.Pagination.PerPage).
		Find(&rets).Error
	return rets, total, err
}
