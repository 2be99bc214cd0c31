package leavebalance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-leavedesk/internal/leavetype"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository mixes gorm for plain reads with raw SQL routed through the
// bound transaction for the mutations that must stay atomic with the leave
// status transition.
//
//go:generate mockgen -source=leavebalance_repo.go -destination=mock/leavebalance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// FindForUpdate loads and row-locks the balance inside the bound
	// transaction. Returns gorm.ErrRecordNotFound when absent.
	FindForUpdate(ctx context.Context, companyID, employeeID string, year int, t leavetype.Type) (*Balance, error)
	Insert(ctx context.Context, b *Balance) error
	UpdateUsed(ctx context.Context, id string, usedDays int) error
	FindAllByEmployeeYear(ctx context.Context, companyID, employeeID string, year int) ([]Balance, error)
}

type repository struct {
	db    *gorm.DB
	sqlDB *sql.DB
	tx    *sql.Tx
}

func NewRepository(db *gorm.DB, sqlDB *sql.DB) Repository {
	return &repository{db: db, sqlDB: sqlDB}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, sqlDB: r.sqlDB, tx: tx}
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *repository) conn() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}

func (r *repository) FindForUpdate(ctx context.Context, companyID, employeeID string, year int, t leavetype.Type) (*Balance, error) {
	query := `
SELECT id::text, company_id::text, employee_id::text, year, leave_type, total_days, used_days, created_at, updated_at
FROM leave_balances
WHERE company_id = $1 AND employee_id = $2 AND year = $3 AND leave_type = $4
FOR UPDATE
`
	row := r.conn().QueryRowContext(ctx, query, companyID, employeeID, year, string(t))

	var (
		b                         Balance
		id, company, employee, lt string
		createdAt, updatedAt      time.Time
	)
	err := row.Scan(&id, &company, &employee, &b.Year, &lt, &b.TotalDays, &b.UsedDays, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}

	b.ID = uuid.MustParse(id)
	b.CompanyID = uuid.MustParse(company)
	b.EmployeeID = uuid.MustParse(employee)
	b.LeaveType = leavetype.Type(lt)
	b.CreatedAt = createdAt
	b.UpdatedAt = updatedAt
	return &b, nil
}

func (r *repository) Insert(ctx context.Context, b *Balance) error {
	query := `
INSERT INTO leave_balances (id, company_id, employee_id, year, leave_type, total_days, used_days, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
`
	_, err := r.conn().ExecContext(
		ctx, query,
		b.ID, b.CompanyID, b.EmployeeID, b.Year, string(b.LeaveType), b.TotalDays, b.UsedDays,
	)
	return err
}

func (r *repository) UpdateUsed(ctx context.Context, id string, usedDays int) error {
	query := `
UPDATE leave_balances
SET used_days = $2, updated_at = NOW()
WHERE id = $1
`
	_, err := r.conn().ExecContext(ctx, query, id, usedDays)
	return err
}

func (r *repository) FindAllByEmployeeYear(ctx context.Context, companyID, employeeID string, year int) ([]Balance, error) {
	var balances []Balance
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("year = ?", year).
		Order("leave_type ASC").
		Find(&balances).Error
	return balances, err
}
