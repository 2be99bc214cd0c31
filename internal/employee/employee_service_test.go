package employee_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"go-leavedesk/internal/employee"
	employeeerrors "go-leavedesk/internal/employee/errors"
)

type fakeRepo struct {
	byID       map[string]*employee.Employee
	created    []*employee.Employee
	tokens     []*employee.DeviceToken
	companyAll []employee.Employee
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]*employee.Employee{}}
}

func (f *fakeRepo) WithTx(tx *sql.Tx) employee.Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, e *employee.Employee) error {
	f.created = append(f.created, e)
	f.byID[e.ID.String()] = e
	return nil
}

func (f *fakeRepo) FindAllByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	return f.companyAll, nil
}

func (f *fakeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*employee.Employee, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (f *fakeRepo) ManagerOf(ctx context.Context, companyID, employeeID string) (*employee.Employee, error) {
	e, ok := f.byID[employeeID]
	if !ok || e.ManagerID == nil {
		return nil, nil
	}
	return f.byID[e.ManagerID.String()], nil
}

func (f *fakeRepo) ListHRRecipients(ctx context.Context, companyID string) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeRepo) ListDeviceTokens(ctx context.Context, employeeID string) ([]employee.DeviceToken, error) {
	var out []employee.DeviceToken
	for _, t := range f.tokens {
		if t.EmployeeID.String() == employeeID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeRepo) RegisterDeviceToken(ctx context.Context, t *employee.DeviceToken) error {
	f.tokens = append(f.tokens, t)
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, companyID, id string) error {
	delete(f.byID, id)
	return nil
}

func TestEmployeeService_Create(t *testing.T) {
	db, dbMock, _ := sqlmock.New()
	defer db.Close()
	rdb, redisMock := redismock.NewClientMock()

	companyID := uuid.New().String()
	repo := newFakeRepo()
	svc := employee.NewService(db, repo, rdb)

	t.Run("without manager", func(t *testing.T) {
		dbMock.ExpectBegin()
		dbMock.ExpectCommit()
		redisMock.ExpectDel("employees:options:" + companyID).SetVal(1)

		resp, err := svc.Create(context.Background(), companyID, employee.CreateEmployeeRequest{
			FullName: "Dina Putri",
			Email:    "dina@example.com",
			Role:     employee.RoleEmployee,
		})
		assert.NoError(t, err)
		assert.NotEmpty(t, resp.ID)
		assert.Nil(t, resp.ManagerID)
		assert.Len(t, repo.created, 1)
	})

	t.Run("with unknown manager", func(t *testing.T) {
		dbMock.ExpectBegin()
		dbMock.ExpectRollback()

		missing := uuid.New().String()
		_, err := svc.Create(context.Background(), companyID, employee.CreateEmployeeRequest{
			FullName:  "Eko Santoso",
			Email:     "eko@example.com",
			Role:      employee.RoleEmployee,
			ManagerID: &missing,
		})
		assert.ErrorIs(t, err, employeeerrors.ErrManagerNotFound)
	})

	assert.NoError(t, dbMock.ExpectationsWereMet())
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestEmployeeService_GetOptions_CacheFlow(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()
	rdb, redisMock := redismock.NewClientMock()

	companyID := uuid.New().String()
	key := "employees:options:" + companyID

	repo := newFakeRepo()
	repo.companyAll = []employee.Employee{
		{ID: uuid.New(), FullName: "Dina Putri"},
		{ID: uuid.New(), FullName: "Eko Santoso"},
	}
	svc := employee.NewService(db, repo, rdb)

	// Miss: read-through to the repository, then populate the cache.
	redisMock.ExpectGet(key).RedisNil()
	redisMock.Regexp().ExpectSet(key, `.*`, 10*time.Minute).SetVal("OK")

	options, err := svc.GetOptions(context.Background(), companyID)
	assert.NoError(t, err)
	assert.Len(t, options, 2)

	// Hit: served from redis without touching the repository.
	payload, _ := json.Marshal(options)
	redisMock.ExpectGet(key).SetVal(string(payload))
	repo.companyAll = nil

	cached, err := svc.GetOptions(context.Background(), companyID)
	assert.NoError(t, err)
	assert.Len(t, cached, 2)
	assert.Equal(t, "Dina Putri", cached[0].FullName)

	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestEmployeeService_RegisterDeviceToken(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()
	repo := newFakeRepo()
	emp := &employee.Employee{ID: uuid.New(), FullName: "Dina Putri"}
	repo.byID[emp.ID.String()] = emp

	svc := employee.NewService(db, repo, nil)

	err := svc.RegisterDeviceToken(context.Background(), companyID, emp.ID.String(), employee.RegisterDeviceTokenRequest{
		Token:    "device-token-1",
		Platform: "android",
	})
	assert.NoError(t, err)
	assert.Len(t, repo.tokens, 1)
	assert.Equal(t, emp.ID, repo.tokens[0].EmployeeID)

	err = svc.RegisterDeviceToken(context.Background(), companyID, uuid.New().String(), employee.RegisterDeviceTokenRequest{
		Token: "device-token-2",
	})
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
}
