package repository

import (
	"context"
	"errors"

	"github.com/Senshu-NEst/NEst-backend/internal/domain/entity"
	domainRepo "github.com/Senshu-NEst/NEst-backend/internal/domain/repository"
	"github.com/Senshu-NEst/NEst-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type prepaidCardRepository struct {
	db *gorm.DB
}

// NewPrepaidCardRepository creates a new prepaid card repository
func NewPrepaidCardRepository(db *gorm.DB) domainRepo.PrepaidCardRepository {
	return &prepaidCardRepository{db: db}
}

func (r *prepaidCardRepository) Create(ctx context.Context, card *entity.PrepaidCard) error {
	return r.db.WithContext(ctx).Create(card).Error
}

func (r *prepaidCardRepository) GetByCode(ctx context.Context, cardCode string) (*entity.PrepaidCard, error) {
	var card entity.PrepaidCard
	err := r.db.WithContext(ctx).First(&card, "card_code = ?", cardCode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &card, err
}

func (r *prepaidCardRepository) GetByCodeForUpdate(ctx context.Context, cardCode string) (*entity.PrepaidCard, error) {
	var card entity.PrepaidCard
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&card, "card_code = ?", cardCode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &card, err
}

func (r *prepaidCardRepository) Update(ctx context.Context, card *entity.PrepaidCard) error {
	return r.db.WithContext(ctx).Save(card).Error
}

func (r *prepaidCardRepository) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.PrepaidCard, int64, error) {
	var cards []entity.PrepaidCard
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.PrepaidCard{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("card_code").
		Offset(params.Offset()).
		Limit(params.PerPage).
		Find(&cards).Error
	return cards, total, err
}

type discountedTagRepository struct {
	db *gorm.DB
}

// NewDiscountedTagRepository creates a new discounted tag repository
func NewDiscountedTagRepository(db *gorm.DB) domainRepo.DiscountedTagRepository {
	return &discountedTagRepository{db: db}
}

func (r *discountedTagRepository) Create(ctx context.Context, tag *entity.DiscountedTag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

func (r *discountedTagRepository) GetByCode(ctx context.Context, tagCode string) (*entity.DiscountedTag, error) {
	var tag entity.DiscountedTag
	err := r.db.WithContext(ctx).First(&tag, "tag_code = ?", tagCode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &tag, err
}

func (r *discountedTagRepository) GetByCodeForUpdate(ctx context.Context, tagCode string) (*entity.DiscountedTag, error) {
	var tag entity.DiscountedTag
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&tag, "tag_code = ?", tagCode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &tag, err
}

func (r *discountedTagRepository) Update(ctx context.Context, tag *entity.DiscountedTag) error {
	return r.db.WithContext(ctx).Save(tag).Error
}

type walletRepository struct {
	db *gorm.DB
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *gorm.DB) domainRepo.WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) Create(ctx context.Context, wallet *entity.Wallet) error {
	return r.db.WithContext(ctx).Create(wallet).Error
}

func (r *walletRepository) GetByCustomerID(ctx context.Context, customerID uuid.UUID) (*entity.Wallet, error) {
	var wallet entity.Wallet
	err := r.db.WithContext(ctx).First(&wallet, "customer_id = ?", customerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &wallet, err
}

func (r *walletRepository) GetByCustomerIDForUpdate(ctx context.Context, customerID uuid.UUID) (*entity.Wallet, error) {
	var wallet entity.Wallet
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&wallet, "customer_id = ?", customerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &wallet, err
}

func (r *walletRepository) Update(ctx context.Context, wallet *entity.Wallet) error {
	return r.db.WithContext(ctx).Save(wallet).Error
}

func (r *walletRepository) CreateEntry(ctx context.Context, entry *entity.WalletEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *walletRepository) ListEntries(ctx context.Context, walletID uuid.UUID, params *pagination.PaginationParams) ([]entity.WalletEntry, int64, error) {
	var entries []entity.WalletEntry
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.WalletEntry{}).Where("wallet_id = ?", walletID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.PerPage).
		Find(&entries).Error
	return entries, total, err
}

type approvalRepository struct {
	db *gorm.DB
}

// NewApprovalRepository creates a new approval repository
func NewApprovalRepository(db *gorm.DB) domainRepo.ApprovalRepository {
	return &approvalRepository{db: db}
}

func (r *approvalRepository) Create(ctx context.Context, approval *entity.Approval) error {
	return r.db.WithContext(ctx).Create(approval).Error
}

func (r *approvalRepository) GetByNumber(ctx context.Context, number string) (*entity.Approval, error) {
	var approval entity.Approval
	err := r.db.WithContext(ctx).First(&approval, "approval_number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &approval, err
}

func (r *approvalRepository) GetByNumberForUpdate(ctx context.Context, number string) (*entity.Approval, error) {
	var approval entity.Approval
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&approval, "approval_number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &approval, err
}

func (r *approvalRepository) Update(ctx context.Context, approval *entity.Approval) error {
	return r.db.WithContext(ctx).Save(approval).Error
}
