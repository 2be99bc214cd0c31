package leave

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *Request) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Request, error)
	FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]Request, error)
	FindAllForManager(ctx context.Context, companyID, managerID string, status Status) ([]Request, error)
	FindAllByStatus(ctx context.Context, companyID string, status Status) ([]Request, error)
	// HasOverlappingActive reports whether the employee already has a request
	// in PENDING_MANAGER, PENDING_HR or APPROVED whose inclusive date range
	// intersects [start, end]. The excludeID lets re-checks skip the request
	// being processed.
	HasOverlappingActive(ctx context.Context, companyID, employeeID string, start, end time.Time, excludeID string) (bool, error)
	// UpdateStatusGuarded performs the compare-and-set transition: the row is
	// updated only if it is still in the expected status. A false return means
	// a concurrent actor won the race and the caller must not proceed.
	UpdateStatusGuarded(ctx context.Context, companyID, id string, from, to Status) (bool, error)
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

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *repository) conn() execer {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}

func (r *repository) Create(ctx context.Context, req *Request) error {
	query := `
INSERT INTO leave_requests (
	id, company_id, employee_id, manager_id,
	leave_type, start_date, end_date, total_days,
	note, attachment_url, status, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
`
	_, err := r.conn().ExecContext(
		ctx, query,
		req.ID, req.CompanyID, req.EmployeeID, req.ManagerID,
		string(req.LeaveType), req.StartDate, req.EndDate, req.TotalDays,
		req.Note, req.AttachmentURL, string(req.Status),
	)
	return err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Request, error) {
	var req Request
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]Request, error) {
	var requests []Request
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindAllForManager(ctx context.Context, companyID, managerID string, status Status) ([]Request, error) {
	q := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("manager_id = ?", managerID)
	if status != "" {
		q = q.Where("status = ?", string(status))
	}

	var requests []Request
	err := q.Order("created_at DESC").Find(&requests).Error
	return requests, err
}

func (r *repository) FindAllByStatus(ctx context.Context, companyID string, status Status) ([]Request, error) {
	var requests []Request
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("status = ?", string(status)).
		Order("created_at ASC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) HasOverlappingActive(ctx context.Context, companyID, employeeID string, start, end time.Time, excludeID string) (bool, error) {
	active := []string{
		string(StatusPendingManager),
		string(StatusPendingHR),
		string(StatusApproved),
	}

	q := r.db.WithContext(ctx).
		Model(&Request{}).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", active).
		// Two inclusive ranges intersect unless one ends before the other
		// starts.
		Where("NOT (end_date < ? OR start_date > ?)", start, end)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) UpdateStatusGuarded(ctx context.Context, companyID, id string, from, to Status) (bool, error) {
	query := `
UPDATE leave_requests
SET status = $4, updated_at = NOW()
WHERE id = $1
	AND company_id = $2
	AND status = $3
	AND deleted_at IS NULL
`
	res, err := r.conn().ExecContext(ctx, query, id, companyID, string(from), string(to))
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
