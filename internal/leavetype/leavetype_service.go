package leavetype

import (
	"context"
	"errors"

	leavetypeerrors "go-leavedesk/internal/leavetype/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Registry resolves the effective policy for a leave type: a stored company
// override when one exists, the built-in default otherwise.
//
//go:generate mockgen -source=leavetype_service.go -destination=mock/leavetype_service_mock.go -package=mock
type Registry interface {
	Get(ctx context.Context, companyID string, t Type) (TypeConfig, error)
	List(ctx context.Context, companyID string) ([]TypeConfigResponse, error)
	Update(ctx context.Context, companyID string, t Type, req UpdateTypeConfigRequest) (TypeConfigResponse, error)
}

type registry struct {
	repo   Repository
	logger *zap.Logger
}

func NewRegistry(repo Repository, logger ...*zap.Logger) Registry {
	l := zap.L().Named("leavetype.registry")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavetype.registry")
	}
	return &registry{repo: repo, logger: l}
}

func (r *registry) Get(ctx context.Context, companyID string, t Type) (TypeConfig, error) {
	if !t.Valid() {
		return TypeConfig{}, leavetypeerrors.ErrUnknownLeaveType
	}

	cfg, err := r.repo.FindByType(ctx, companyID, t)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			def := DefaultConfigs()[t]
			return def, nil
		}
		return TypeConfig{}, err
	}
	return *cfg, nil
}

func (r *registry) List(ctx context.Context, companyID string) ([]TypeConfigResponse, error) {
	stored, err := r.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	byType := make(map[Type]TypeConfig, len(stored))
	for _, cfg := range stored {
		byType[cfg.LeaveType] = cfg
	}

	out := make([]TypeConfigResponse, 0, len(AllTypes()))
	for _, t := range AllTypes() {
		cfg, ok := byType[t]
		if !ok {
			cfg = DefaultConfigs()[t]
		}
		out = append(out, mapToResponse(cfg))
	}
	return out, nil
}

func (r *registry) Update(ctx context.Context, companyID string, t Type, req UpdateTypeConfigRequest) (TypeConfigResponse, error) {
	if !t.Valid() {
		return TypeConfigResponse{}, leavetypeerrors.ErrUnknownLeaveType
	}
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return TypeConfigResponse{}, leavetypeerrors.ErrInvalidCompanyID
	}
	if req.DefaultAllotmentDays < 0 {
		return TypeConfigResponse{}, leavetypeerrors.ErrInvalidAllotment
	}
	if req.AutoApproveMaxDays < 0 {
		return TypeConfigResponse{}, leavetypeerrors.ErrInvalidThreshold
	}

	cfg, err := r.repo.FindByType(ctx, companyID, t)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return TypeConfigResponse{}, err
		}
		def := DefaultConfigs()[t]
		cfg = &def
		cfg.ID = uuid.New()
		cfg.CompanyID = companyUUID
	}

	cfg.DisplayName = req.DisplayName
	cfg.DefaultAllotmentDays = req.DefaultAllotmentDays
	cfg.AutoApproveEnabled = req.AutoApproveEnabled
	cfg.AutoApproveMaxDays = req.AutoApproveMaxDays
	cfg.SkipConflictCheck = req.SkipConflictCheck

	if err := r.repo.Save(ctx, cfg); err != nil {
		r.logger.Error("save leave type config failed",
			zap.String("company_id", companyID),
			zap.String("leave_type", t.String()),
			zap.Error(err),
		)
		return TypeConfigResponse{}, err
	}

	r.logger.Info("leave type config updated",
		zap.String("company_id", companyID),
		zap.String("leave_type", t.String()),
	)

	return mapToResponse(*cfg), nil
}

func mapToResponse(cfg TypeConfig) TypeConfigResponse {
	return TypeConfigResponse{
		LeaveType:            cfg.LeaveType.String(),
		DisplayName:          cfg.DisplayName,
		DefaultAllotmentDays: cfg.DefaultAllotmentDays,
		AutoApproveEnabled:   cfg.AutoApproveEnabled,
		AutoApproveMaxDays:   cfg.AutoApproveMaxDays,
		SkipConflictCheck:    cfg.SkipConflictCheck,
		LedgerExempt:         cfg.LedgerExempt,
	}
}
