package repository

import (
	"context"

	"github.com/Senshu-NEst/NEst-backend/internal/domain/entity"
	"github.com/Senshu-NEst/NEst-backend/internal/domain/enum"
)

// DepartmentRepository defines the interface for department tree lookups
type DepartmentRepository interface {
	// GetWithAncestors resolves a node and preloads its parent chain up to
	// the big department so inherited settings can be resolved in memory
	GetWithAncestors(ctx context.Context, level enum.DepartmentLevel, code string) (*entity.Department, error)
	// GetSmallByPath resolves a small department by its big/middle/small
	// code triple
	GetSmallByPath(ctx context.Context, bigCode, middleCode, smallCode string) (*entity.Department, error)
	Create(ctx context.Context, department *entity.Department) error
	ListChildren(ctx context.Context, level enum.DepartmentLevel, parentCode string) ([]entity.Department, error)
}
