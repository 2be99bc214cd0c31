package leavebalance

import (
	"context"
	"database/sql"
	"errors"

	leavebalanceerrors "go-leavedesk/internal/leavebalance/errors"
	"go-leavedesk/internal/leavetype"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Ledger is the only writer of balance rows. Deduct and Restore run inside
// the transaction passed by the approval state machine so a status change and
// its debit commit or roll back together.
//
//go:generate mockgen -source=leavebalance_service.go -destination=mock/leavebalance_service_mock.go -package=mock
type Ledger interface {
	Deduct(ctx context.Context, tx *sql.Tx, companyID, employeeID string, year int, t leavetype.Type, days int) error
	Restore(ctx context.Context, tx *sql.Tx, companyID, employeeID string, year int, t leavetype.Type, days int) error
	Summary(ctx context.Context, companyID, employeeID string, year int) ([]BalanceResponse, error)
}

type ledger struct {
	repo     Repository
	registry leavetype.Registry
	logger   *zap.Logger
}

func NewLedger(repo Repository, registry leavetype.Registry, logger ...*zap.Logger) Ledger {
	l := zap.L().Named("leavebalance.ledger")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.ledger")
	}
	return &ledger{repo: repo, registry: registry, logger: l}
}

// getOrInit loads the row under lock, lazily creating it with the type's
// default allotment. The default is read from the policy registry at access
// time, never cached.
func (l *ledger) getOrInit(ctx context.Context, repo Repository, companyID, employeeID string, year int, t leavetype.Type) (*Balance, error) {
	b, err := repo.FindForUpdate(ctx, companyID, employeeID, year, t)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cfg, err := l.registry.Get(ctx, companyID, t)
	if err != nil {
		return nil, err
	}

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, leavebalanceerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, leavebalanceerrors.ErrInvalidEmployeeID
	}

	b = &Balance{
		ID:         uuid.New(),
		CompanyID:  companyUUID,
		EmployeeID: employeeUUID,
		Year:       year,
		LeaveType:  t,
		TotalDays:  cfg.DefaultAllotmentDays,
		UsedDays:   0,
	}
	if err := repo.Insert(ctx, b); err != nil {
		return nil, err
	}

	l.logger.Info("balance row initialized",
		zap.String("employee_id", employeeID),
		zap.Int("year", year),
		zap.String("leave_type", t.String()),
		zap.Int("total_days", cfg.DefaultAllotmentDays),
	)
	return b, nil
}

func (l *ledger) Deduct(ctx context.Context, tx *sql.Tx, companyID, employeeID string, year int, t leavetype.Type, days int) error {
	if days <= 0 {
		return leavebalanceerrors.ErrInvalidDays
	}

	cfg, err := l.registry.Get(ctx, companyID, t)
	if err != nil {
		return err
	}
	// Ledger-exempt types (unpaid) have no balance impact at all.
	if cfg.LedgerExempt {
		return nil
	}

	repo := l.repo.WithTx(tx)
	b, err := l.getOrInit(ctx, repo, companyID, employeeID, year, t)
	if err != nil {
		return err
	}

	if b.UsedDays+days > b.TotalDays {
		l.logger.Warn("balance deduction refused",
			zap.String("employee_id", employeeID),
			zap.String("leave_type", t.String()),
			zap.Int("year", year),
			zap.Int("used_days", b.UsedDays),
			zap.Int("total_days", b.TotalDays),
			zap.Int("requested_days", days),
		)
		return leavebalanceerrors.ErrInsufficientBalance
	}

	if err := repo.UpdateUsed(ctx, b.ID.String(), b.UsedDays+days); err != nil {
		return err
	}

	l.logger.Info("balance deducted",
		zap.String("employee_id", employeeID),
		zap.String("leave_type", t.String()),
		zap.Int("year", year),
		zap.Int("days", days),
	)
	return nil
}

func (l *ledger) Restore(ctx context.Context, tx *sql.Tx, companyID, employeeID string, year int, t leavetype.Type, days int) error {
	if days <= 0 {
		return leavebalanceerrors.ErrInvalidDays
	}

	cfg, err := l.registry.Get(ctx, companyID, t)
	if err != nil {
		return err
	}
	if cfg.LedgerExempt {
		return nil
	}

	repo := l.repo.WithTx(tx)
	b, err := l.getOrInit(ctx, repo, companyID, employeeID, year, t)
	if err != nil {
		return err
	}

	// Used days are floored at zero so a restore can never overshoot.
	used := b.UsedDays - days
	if used < 0 {
		used = 0
	}

	if err := repo.UpdateUsed(ctx, b.ID.String(), used); err != nil {
		return err
	}

	l.logger.Info("balance restored",
		zap.String("employee_id", employeeID),
		zap.String("leave_type", t.String()),
		zap.Int("year", year),
		zap.Int("days", days),
	)
	return nil
}

func (l *ledger) Summary(ctx context.Context, companyID, employeeID string, year int) ([]BalanceResponse, error) {
	balances, err := l.repo.FindAllByEmployeeYear(ctx, companyID, employeeID, year)
	if err != nil {
		return nil, err
	}

	byType := make(map[leavetype.Type]Balance, len(balances))
	for _, b := range balances {
		byType[b.LeaveType] = b
	}

	// Types without a stored row report the registry default untouched.
	out := make([]BalanceResponse, 0, len(leavetype.AllTypes()))
	for _, t := range leavetype.AllTypes() {
		if b, ok := byType[t]; ok {
			out = append(out, BalanceResponse{
				LeaveType:     t.String(),
				Year:          year,
				TotalDays:     b.TotalDays,
				UsedDays:      b.UsedDays,
				RemainingDays: b.Remaining(),
			})
			continue
		}

		cfg, err := l.registry.Get(ctx, companyID, t)
		if err != nil {
			return nil, err
		}
		if cfg.LedgerExempt {
			continue
		}
		out = append(out, BalanceResponse{
			LeaveType:     t.String(),
			Year:          year,
			TotalDays:     cfg.DefaultAllotmentDays,
			UsedDays:      0,
			RemainingDays: cfg.DefaultAllotmentDays,
		})
	}
	return out, nil
}
