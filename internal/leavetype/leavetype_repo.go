package leavetype

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leavetype_repo.go -destination=mock/leavetype_repo_mock.go -package=mock
type Repository interface {
	FindByType(ctx context.Context, companyID string, t Type) (*TypeConfig, error)
	FindAllByCompany(ctx context.Context, companyID string) ([]TypeConfig, error)
	Save(ctx context.Context, cfg *TypeConfig) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByType(ctx context.Context, companyID string, t Type) (*TypeConfig, error) {
	var cfg TypeConfig
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("leave_type = ?", t).
		First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]TypeConfig, error) {
	var configs []TypeConfig
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("leave_type ASC").
		Find(&configs).Error
	return configs, err
}

func (r *repository) Save(ctx context.Context, cfg *TypeConfig) error {
	return r.db.WithContext(ctx).Save(cfg).Error
}
