package audit

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Recorder appends inside the state machine's transaction so an audit line
// exists exactly when its transition committed. Reads go through gorm.
//
//go:generate mockgen -source=audit_repo.go -destination=mock/audit_repo_mock.go -package=mock
type Recorder interface {
	WithTx(tx *sql.Tx) Recorder
	Append(ctx context.Context, e *Entry) error
	ListByRequest(ctx context.Context, companyID, requestID string) ([]Entry, error)
}

type recorder struct {
	db    *gorm.DB
	sqlDB *sql.DB
	tx    *sql.Tx
}

func NewRecorder(db *gorm.DB, sqlDB *sql.DB) Recorder {
	return &recorder{db: db, sqlDB: sqlDB}
}

func (r *recorder) WithTx(tx *sql.Tx) Recorder {
	return &recorder{db: r.db, sqlDB: r.sqlDB, tx: tx}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *recorder) conn() execer {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}

func (r *recorder) Append(ctx context.Context, e *Entry) error {
	query := `
INSERT INTO leave_audit_logs (id, company_id, request_id, actor_id, action, resulting_status, comment, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
`
	_, err := r.conn().ExecContext(
		ctx, query,
		e.ID, e.CompanyID, e.RequestID, e.ActorID, string(e.Action), e.ResultingStatus, e.Comment,
	)
	return err
}

func (r *recorder) ListByRequest(ctx context.Context, companyID, requestID string) ([]Entry, error) {
	var entries []Entry
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
