package leavetype

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	leavetypeerrors "go-leavedesk/internal/leavetype/errors"
)

type fakeRepo struct {
	stored map[Type]*TypeConfig
	saved  []TypeConfig
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{stored: map[Type]*TypeConfig{}}
}

func (f *fakeRepo) FindByType(ctx context.Context, companyID string, t Type) (*TypeConfig, error) {
	cfg, ok := f.stored[t]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *cfg
	return &copied, nil
}

func (f *fakeRepo) FindAllByCompany(ctx context.Context, companyID string) ([]TypeConfig, error) {
	out := make([]TypeConfig, 0, len(f.stored))
	for _, cfg := range f.stored {
		out = append(out, *cfg)
	}
	return out, nil
}

func (f *fakeRepo) Save(ctx context.Context, cfg *TypeConfig) error {
	f.saved = append(f.saved, *cfg)
	stored := *cfg
	f.stored[cfg.LeaveType] = &stored
	return nil
}

func TestRegistry_GetFallsBackToDefaults(t *testing.T) {
	registry := NewRegistry(newFakeRepo())

	cfg, err := registry.Get(context.Background(), uuid.New().String(), TypeAnnual)
	assert.NoError(t, err)
	assert.Equal(t, 20, cfg.DefaultAllotmentDays)
	assert.False(t, cfg.AutoApproveEnabled)

	cfg, err = registry.Get(context.Background(), uuid.New().String(), TypeSick)
	assert.NoError(t, err)
	assert.True(t, cfg.AutoApproveEnabled)
	assert.Equal(t, 3, cfg.AutoApproveMaxDays)
}

func TestRegistry_GetPrefersStoredOverride(t *testing.T) {
	repo := newFakeRepo()
	repo.stored[TypeAnnual] = &TypeConfig{
		LeaveType:            TypeAnnual,
		DisplayName:          "Annual Leave",
		DefaultAllotmentDays: 25,
	}
	registry := NewRegistry(repo)

	cfg, err := registry.Get(context.Background(), uuid.New().String(), TypeAnnual)
	assert.NoError(t, err)
	assert.Equal(t, 25, cfg.DefaultAllotmentDays)
}

func TestRegistry_GetUnknownType(t *testing.T) {
	registry := NewRegistry(newFakeRepo())

	_, err := registry.Get(context.Background(), uuid.New().String(), Type("SABBATICAL"))
	assert.ErrorIs(t, err, leavetypeerrors.ErrUnknownLeaveType)
}

func TestRegistry_ListCoversAllTypes(t *testing.T) {
	repo := newFakeRepo()
	repo.stored[TypeSick] = &TypeConfig{
		LeaveType:            TypeSick,
		DisplayName:          "Sick Leave",
		DefaultAllotmentDays: 15,
		AutoApproveEnabled:   true,
		AutoApproveMaxDays:   5,
	}
	registry := NewRegistry(repo)

	out, err := registry.List(context.Background(), uuid.New().String())
	assert.NoError(t, err)
	assert.Len(t, out, len(AllTypes()))

	byType := map[string]TypeConfigResponse{}
	for _, cfg := range out {
		byType[cfg.LeaveType] = cfg
	}
	assert.Equal(t, 15, byType["SICK"].DefaultAllotmentDays)
	assert.Equal(t, 20, byType["ANNUAL"].DefaultAllotmentDays)
	assert.True(t, byType["UNPAID"].LedgerExempt)
	assert.True(t, byType["EMERGENCY"].SkipConflictCheck)
}

func TestRegistry_UpdateCreatesOverride(t *testing.T) {
	repo := newFakeRepo()
	registry := NewRegistry(repo)
	companyID := uuid.New().String()

	resp, err := registry.Update(context.Background(), companyID, TypeAnnual, UpdateTypeConfigRequest{
		DisplayName:          "Annual Leave",
		DefaultAllotmentDays: 30,
		AutoApproveEnabled:   true,
		AutoApproveMaxDays:   1,
	})
	assert.NoError(t, err)
	assert.Equal(t, 30, resp.DefaultAllotmentDays)
	assert.Len(t, repo.saved, 1)
	assert.Equal(t, companyID, repo.saved[0].CompanyID.String())

	// Subsequent reads see the override.
	cfg, err := registry.Get(context.Background(), companyID, TypeAnnual)
	assert.NoError(t, err)
	assert.Equal(t, 30, cfg.DefaultAllotmentDays)
	assert.True(t, cfg.AutoApproveEnabled)
}

func TestRegistry_UpdateValidation(t *testing.T) {
	registry := NewRegistry(newFakeRepo())
	companyID := uuid.New().String()

	_, err := registry.Update(context.Background(), companyID, Type("NOPE"), UpdateTypeConfigRequest{})
	assert.ErrorIs(t, err, leavetypeerrors.ErrUnknownLeaveType)

	_, err = registry.Update(context.Background(), companyID, TypeAnnual, UpdateTypeConfigRequest{DefaultAllotmentDays: -1})
	assert.ErrorIs(t, err, leavetypeerrors.ErrInvalidAllotment)

	_, err = registry.Update(context.Background(), "not-a-uuid", TypeAnnual, UpdateTypeConfigRequest{})
	assert.ErrorIs(t, err, leavetypeerrors.ErrInvalidCompanyID)
}
