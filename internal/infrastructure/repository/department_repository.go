package repository

import (
	"context"
	"errors"

	"github.com/Senshu-NEst/NEst-backend/internal/domain/entity"
	"github.com/Senshu-NEst/NEst-backend/internal/domain/enum"
	domainRepo "github.com/Senshu-NEst/NEst-backend/internal/domain/repository"
	"gorm.io/gorm"
)

type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *gorm.DB) domainRepo.DepartmentRepository {
	return &departmentRepository{db: db}
}

// GetWithAncestors loads a node and its parent chain; the tree is three
// levels deep at most so two preload hops cover it.
func (r *departmentRepository) GetWithAncestors(ctx context.Context, level enum.DepartmentLevel, code string) (*entity.Department, error) {
	var dept entity.Department
	err := r.db.WithContext(ctx).
		Preload("Parent").Preload("Parent.Parent").
		First(&dept, "level = ? AND code = ?", level, code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &dept, err
}

// GetSmallByPath resolves the leaf of a big/middle/small code triple and
// verifies each hop of the chain.
func (r *departmentRepository) GetSmallByPath(ctx context.Context, bigCode, middleCode, smallCode string) (*entity.Department, error) {
	var candidates []entity.Department
	err := r.db.WithContext(ctx).
		Preload("Parent").Preload("Parent.Parent").
		Where("level = ? AND code = ?", enum.DepartmentLevelSmall, smallCode).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		dept := &candidates[i]
		middle := dept.Parent
		if middle == nil || middle.Code != middleCode {
			continue
		}
		big := middle.Parent
		if big == nil || big.Code != bigCode {
			continue
		}
		return dept, nil
	}
	return nil, nil
}

func (r *departmentRepository) Create(ctx context.Context, department *entity.Department) error {
	return r.db.WithContext(ctx).Create(department).Error
}

func (r *departmentRepository) ListChildren(ctx context.Context, level enum.DepartmentLevel, parentCode string) ([]entity.Department, error) {
	var parent entity.Department
	err := r.db.WithContext(ctx).First(&parent, "level = ? AND code = ?", level, parentCode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []entity.Department{}, nil
	}
	if err != nil {
		return nil, err
	}

	var children []entity.Department
	err = r.db.WithContext(ctx).
		Where("parent_id = ?", parent.ID).
		Order("code").
		Find(&children).Error
	return children, err
}
