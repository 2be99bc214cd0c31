package leave_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"go-leavedesk/internal/leave"
	leaveerrors "go-leavedesk/internal/leave/errors"
)

type fakeService struct {
	submitFn        func(ctx context.Context, companyID, actorID string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error)
	managerDecideFn func(ctx context.Context, companyID, actorID, requestID string, req leave.DecisionRequest) (leave.LeaveResponse, error)
	hrDecideFn      func(ctx context.Context, companyID, actorID, requestID string, req leave.DecisionRequest) (leave.LeaveResponse, error)
	cancelFn        func(ctx context.Context, companyID, actorID, requestID string) (leave.LeaveResponse, error)
	getByIDFn       func(ctx context.Context, companyID, requestID string) (leave.LeaveResponse, error)
	listAuditFn     func(ctx context.Context, companyID, requestID string) ([]leave.AuditEntryResponse, error)
}

func (f *fakeService) Submit(ctx context.Context, companyID, actorID string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
	return f.submitFn(ctx, companyID, actorID, req)
}
func (f *fakeService) ManagerDecide(ctx context.Context, companyID, actorID, requestID string, req leave.DecisionRequest) (leave.LeaveResponse, error) {
	return f.managerDecideFn(ctx, companyID, actorID, requestID, req)
}
func (f *fakeService) HRDecide(ctx context.Context, companyID, actorID, requestID string, req leave.DecisionRequest) (leave.LeaveResponse, error) {
	return f.hrDecideFn(ctx, companyID, actorID, requestID, req)
}
func (f *fakeService) Cancel(ctx context.Context, companyID, actorID, requestID string) (leave.LeaveResponse, error) {
	return f.cancelFn(ctx, companyID, actorID, requestID)
}
func (f *fakeService) GetByID(ctx context.Context, companyID, requestID string) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, companyID, requestID)
}
func (f *fakeService) ListByEmployee(ctx context.Context, companyID, employeeID string) ([]leave.LeaveResponse, error) {
	return nil, nil
}
func (f *fakeService) ListForManager(ctx context.Context, companyID, managerID, status string) ([]leave.LeaveResponse, error) {
	return nil, nil
}
func (f *fakeService) ListPendingHR(ctx context.Context, companyID string) ([]leave.LeaveResponse, error) {
	return nil, nil
}
func (f *fakeService) ListAudit(ctx context.Context, companyID, requestID string) ([]leave.AuditEntryResponse, error) {
	return f.listAuditFn(ctx, companyID, requestID)
}

func TestHandler_Submit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	svc := &fakeService{
		submitFn: func(ctx context.Context, cid, aid string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
			assert.Equal(t, companyID, cid)
			assert.Equal(t, employeeID, aid)
			assert.Equal(t, "ANNUAL", req.LeaveType)
			return leave.LeaveResponse{ID: uuid.New().String(), Status: "PENDING_MANAGER"}, nil
		},
	}
	h := leave.NewHandler(svc, nil)

	body := `{"leave_type":"ANNUAL","start_date":"2025-03-10","end_date":"2025-03-14"}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("company_id", companyID)
	c.Set("employee_id", employeeID)
	c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Submit(c)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "PENDING_MANAGER")
}

func TestHandler_Submit_InvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := leave.NewHandler(&fakeService{}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("company_id", uuid.New().String())
	c.Set("employee_id", uuid.New().String())
	c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(`{"leave_type":"ANNUAL"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Submit(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestHandler_ManagerDecide_Forbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		managerDecideFn: func(ctx context.Context, cid, aid, rid string, req leave.DecisionRequest) (leave.LeaveResponse, error) {
			return leave.LeaveResponse{}, leaveerrors.ErrNotAssignedManager
		},
	}
	h := leave.NewHandler(svc, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("company_id", uuid.New().String())
	c.Set("employee_id", uuid.New().String())
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
	c.Request = httptest.NewRequest(http.MethodPost, "/leaves/x/manager-decision", strings.NewReader(`{"approve":true}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.ManagerDecide(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}

func TestHandler_Cancel_Conflict(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		cancelFn: func(ctx context.Context, cid, aid, rid string) (leave.LeaveResponse, error) {
			return leave.LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
		},
	}
	h := leave.NewHandler(svc, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("company_id", uuid.New().String())
	c.Set("employee_id", uuid.New().String())
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
	c.Request = httptest.NewRequest(http.MethodPost, "/leaves/x/cancel", nil)

	h.Cancel(c)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_STATE")
}

func TestHandler_ListAudit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		listAuditFn: func(ctx context.Context, cid, rid string) ([]leave.AuditEntryResponse, error) {
			return []leave.AuditEntryResponse{
				{Action: "SUBMITTED", ResultingStatus: "PENDING_MANAGER"},
				{Action: "MANAGER_APPROVED", ResultingStatus: "PENDING_HR"},
			}, nil
		},
	}
	h := leave.NewHandler(svc, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("company_id", uuid.New().String())
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
	c.Request = httptest.NewRequest(http.MethodGet, "/leaves/x/audit", nil)

	h.ListAudit(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "MANAGER_APPROVED")
}
