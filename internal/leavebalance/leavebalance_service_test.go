package leavebalance

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	leavebalanceerrors "go-leavedesk/internal/leavebalance/errors"
	"go-leavedesk/internal/leavetype"
)

type fakeRepo struct {
	balances map[string]*Balance // keyed by balance id
	byKey    map[string]string   // employee|year|type -> balance id
	inserted int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		balances: map[string]*Balance{},
		byKey:    map[string]string{},
	}
}

func key(employeeID string, year int, t leavetype.Type) string {
	return fmt.Sprintf("%s|%d|%s", employeeID, year, t)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeRepo) FindForUpdate(ctx context.Context, companyID, employeeID string, year int, t leavetype.Type) (*Balance, error) {
	id, ok := f.byKey[key(employeeID, year, t)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	b := *f.balances[id]
	return &b, nil
}

func (f *fakeRepo) Insert(ctx context.Context, b *Balance) error {
	f.inserted++
	stored := *b
	f.balances[b.ID.String()] = &stored
	f.byKey[key(b.EmployeeID.String(), b.Year, b.LeaveType)] = b.ID.String()
	return nil
}

func (f *fakeRepo) UpdateUsed(ctx context.Context, id string, usedDays int) error {
	f.balances[id].UsedDays = usedDays
	return nil
}

func (f *fakeRepo) FindAllByEmployeeYear(ctx context.Context, companyID, employeeID string, year int) ([]Balance, error) {
	var out []Balance
	for _, b := range f.balances {
		if b.EmployeeID.String() == employeeID && b.Year == year {
			out = append(out, *b)
		}
	}
	return out, nil
}

type fakeRegistry struct{}

func (fakeRegistry) Get(ctx context.Context, companyID string, t leavetype.Type) (leavetype.TypeConfig, error) {
	return leavetype.DefaultConfigs()[t], nil
}
func (fakeRegistry) List(ctx context.Context, companyID string) ([]leavetype.TypeConfigResponse, error) {
	return nil, nil
}
func (fakeRegistry) Update(ctx context.Context, companyID string, t leavetype.Type, req leavetype.UpdateTypeConfigRequest) (leavetype.TypeConfigResponse, error) {
	return leavetype.TypeConfigResponse{}, nil
}

func TestLedger_DeductInitializesFromDefaults(t *testing.T) {
	repo := newFakeRepo()
	ledger := NewLedger(repo, fakeRegistry{})

	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	ctx := context.Background()

	err := ledger.Deduct(ctx, nil, companyID, employeeID, 2025, leavetype.TypeAnnual, 5)
	assert.NoError(t, err)

	// First touch lazily created the row with the 20-day ANNUAL default.
	assert.Equal(t, 1, repo.inserted)
	b, err := repo.FindForUpdate(ctx, companyID, employeeID, 2025, leavetype.TypeAnnual)
	assert.NoError(t, err)
	assert.Equal(t, 20, b.TotalDays)
	assert.Equal(t, 5, b.UsedDays)
	assert.Equal(t, 15, b.Remaining())
}

func TestLedger_DeductRefusesOverdraft(t *testing.T) {
	repo := newFakeRepo()
	ledger := NewLedger(repo, fakeRegistry{})

	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	ctx := context.Background()

	assert.NoError(t, ledger.Deduct(ctx, nil, companyID, employeeID, 2025, leavetype.TypeAnnual, 18))

	err := ledger.Deduct(ctx, nil, companyID, employeeID, 2025, leavetype.TypeAnnual, 3)
	assert.ErrorIs(t, err, leavebalanceerrors.ErrInsufficientBalance)

	// The refused deduction left the row untouched.
	b, _ := repo.FindForUpdate(ctx, companyID, employeeID, 2025, leavetype.TypeAnnual)
	assert.Equal(t, 18, b.UsedDays)
}

func TestLedger_DeductRejectsNonPositiveDays(t *testing.T) {
	ledger := NewLedger(newFakeRepo(), fakeRegistry{})

	err := ledger.Deduct(context.Background(), nil, uuid.New().String(), uuid.New().String(), 2025, leavetype.TypeAnnual, 0)
	assert.ErrorIs(t, err, leavebalanceerrors.ErrInvalidDays)
}

func TestLedger_UnpaidIsLedgerExempt(t *testing.T) {
	repo := newFakeRepo()
	ledger := NewLedger(repo, fakeRegistry{})

	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	assert.NoError(t, ledger.Deduct(ctx, nil, companyID, employeeID, 2025, leavetype.TypeUnpaid, 30))
	assert.NoError(t, ledger.Restore(ctx, nil, companyID, employeeID, 2025, leavetype.TypeUnpaid, 30))

	// UNPAID never creates or mutates balance rows.
	assert.Equal(t, 0, repo.inserted)
}

func TestLedger_RestoreFloorsAtZero(t *testing.T) {
	repo := newFakeRepo()
	ledger := NewLedger(repo, fakeRegistry{})

	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	assert.NoError(t, ledger.Deduct(ctx, nil, companyID, employeeID, 2025, leavetype.TypeAnnual, 3))
	assert.NoError(t, ledger.Restore(ctx, nil, companyID, employeeID, 2025, leavetype.TypeAnnual, 10))

	b, _ := repo.FindForUpdate(ctx, companyID, employeeID, 2025, leavetype.TypeAnnual)
	assert.Equal(t, 0, b.UsedDays)
	assert.Equal(t, 20, b.Remaining())
}

func TestLedger_SummaryFillsDefaults(t *testing.T) {
	repo := newFakeRepo()
	ledger := NewLedger(repo, fakeRegistry{})

	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	assert.NoError(t, ledger.Deduct(ctx, nil, companyID, employeeID, 2025, leavetype.TypeSick, 2))

	summary, err := ledger.Summary(ctx, companyID, employeeID, 2025)
	assert.NoError(t, err)

	byType := map[string]BalanceResponse{}
	for _, row := range summary {
		byType[row.LeaveType] = row
	}

	// The touched type reflects the stored row.
	assert.Equal(t, 2, byType["SICK"].UsedDays)
	assert.Equal(t, 10, byType["SICK"].RemainingDays)

	// Untouched types report their registry default.
	assert.Equal(t, 20, byType["ANNUAL"].TotalDays)
	assert.Equal(t, 0, byType["ANNUAL"].UsedDays)

	// Ledger-exempt UNPAID has no summary row at all.
	_, ok := byType["UNPAID"]
	assert.False(t, ok)
}
