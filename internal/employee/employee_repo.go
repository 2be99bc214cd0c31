package employee

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Employee) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Employee, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Employee, error)
	// ManagerOf resolves the direct manager of an employee; nil when the
	// employee has no assigned manager.
	ManagerOf(ctx context.Context, companyID, employeeID string) (*Employee, error)
	// ListHRRecipients is the HR distribution roster for stage-two
	// notifications.
	ListHRRecipients(ctx context.Context, companyID string) ([]Employee, error)
	ListDeviceTokens(ctx context.Context, employeeID string) ([]DeviceToken, error)
	RegisterDeviceToken(ctx context.Context, t *DeviceToken) error
	Delete(ctx context.Context, companyID, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Employee, error) {
	var employees []Employee
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("full_name ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) ManagerOf(ctx context.Context, companyID, employeeID string) (*Employee, error) {
	e, err := r.FindByIDAndCompany(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	if e.ManagerID == nil {
		return nil, nil
	}
	return r.FindByIDAndCompany(ctx, companyID, e.ManagerID.String())
}

func (r *repository) ListHRRecipients(ctx context.Context, companyID string) ([]Employee, error) {
	var employees []Employee
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("role = ?", RoleHRAdmin).
		Find(&employees).Error
	return employees, err
}

func (r *repository) ListDeviceTokens(ctx context.Context, employeeID string) ([]DeviceToken, error) {
	var tokens []DeviceToken
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Find(&tokens).Error
	return tokens, err
}

func (r *repository) RegisterDeviceToken(ctx context.Context, t *DeviceToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&Employee{}, "id = ?", id).Error
}
