package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-leavedesk/internal/audit"
	"go-leavedesk/internal/employee"
	"go-leavedesk/internal/events"
	leaveerrors "go-leavedesk/internal/leave/errors"
	"go-leavedesk/internal/leavebalance"
	leavebalanceerrors "go-leavedesk/internal/leavebalance/errors"
	"go-leavedesk/internal/leavetype"
	"go-leavedesk/internal/messaging/kafka"
	"go-leavedesk/internal/notification"
	"go-leavedesk/internal/rbac"
	"go-leavedesk/internal/shared/apperror"
	"go-leavedesk/internal/shared/contextutil"
)

const autoApprovalComment = "auto-approved by leave type policy"

// PermissionChecker is the slice of the RBAC service the state machine needs:
// a yes/no answer for the cancel-override escape hatch.
type PermissionChecker interface {
	HasPermission(companyID, employeeID, resource, action string) (bool, error)
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, companyID, actorID string, req SubmitLeaveRequest) (LeaveResponse, error)
	ManagerDecide(ctx context.Context, companyID, actorID, requestID string, req DecisionRequest) (LeaveResponse, error)
	HRDecide(ctx context.Context, companyID, actorID, requestID string, req DecisionRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, companyID, actorID, requestID string) (LeaveResponse, error)
	GetByID(ctx context.Context, companyID, requestID string) (LeaveResponse, error)
	ListByEmployee(ctx context.Context, companyID, employeeID string) ([]LeaveResponse, error)
	ListForManager(ctx context.Context, companyID, managerID, status string) ([]LeaveResponse, error)
	ListPendingHR(ctx context.Context, companyID string) ([]LeaveResponse, error)
	ListAudit(ctx context.Context, companyID, requestID string) ([]AuditEntryResponse, error)
}

// service owns the lifecycle transactions: every status change commits
// together with its audit line, its outbox event and, where the transition
// demands it, the balance mutation. Notifications are enqueued strictly after
// commit so a rollback can never have told anyone anything.
type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	registry  leavetype.Registry
	ledger    leavebalance.Ledger
	auditor   audit.Recorder
	outbox    kafka.OutboxRepository
	notifier  notification.Enqueuer
	permits   PermissionChecker
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	registry leavetype.Registry,
	ledger leavebalance.Ledger,
	auditor audit.Recorder,
	outbox kafka.OutboxRepository,
	notifier notification.Enqueuer,
	permits PermissionChecker,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		registry:  registry,
		ledger:    ledger,
		auditor:   auditor,
		outbox:    outbox,
		notifier:  notifier,
		permits:   permits,
		logger:    l,
	}
}

func (s *service) Submit(ctx context.Context, companyID, actorID string, in SubmitLeaveRequest) (LeaveResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	t := leavetype.Type(strings.ToUpper(in.LeaveType))
	if !t.Valid() {
		return LeaveResponse{}, apperror.InvalidField("leave_type")
	}

	start, err := time.Parse(dateLayout, in.StartDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	end, err := time.Parse(dateLayout, in.EndDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	if end.Before(start) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}
	if len(in.Note) > MaxNoteLength {
		return LeaveResponse{}, leaveerrors.ErrNoteTooLong
	}
	if len(in.AttachmentURL) > MaxAttachmentURLLength {
		return LeaveResponse{}, leaveerrors.ErrAttachmentURLTooLong
	}

	emp, err := s.employees.FindByIDAndCompany(ctx, companyID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, apperror.ErrNotFound
		}
		return LeaveResponse{}, err
	}

	// The approval route is frozen here: whoever manages the employee right
	// now owns the first stage, regardless of later org-chart changes.
	manager, err := s.employees.ManagerOf(ctx, companyID, actorID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return LeaveResponse{}, err
	}
	if manager == nil {
		return LeaveResponse{}, leaveerrors.ErrNoManagerAssigned
	}

	cfg, err := s.registry.Get(ctx, companyID, t)
	if err != nil {
		return LeaveResponse{}, err
	}

	if !cfg.SkipConflictCheck {
		overlap, err := s.repo.HasOverlappingActive(ctx, companyID, actorID, start, end, "")
		if err != nil {
			return LeaveResponse{}, err
		}
		if overlap {
			return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
		}
	}

	totalDays := TotalDaysBetween(start, end)

	req := &Request{
		ID:            uuid.New(),
		CompanyID:     companyUUID,
		EmployeeID:    actorUUID,
		ManagerID:     manager.ID,
		LeaveType:     t,
		StartDate:     start,
		EndDate:       end,
		TotalDays:     totalDays,
		Note:          in.Note,
		AttachmentURL: in.AttachmentURL,
		Status:        StatusPendingManager,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, req); err != nil {
		return LeaveResponse{}, err
	}
	if err := s.appendAudit(ctx, tx, req, actorUUID, audit.ActionSubmitted, StatusPendingManager, ""); err != nil {
		return LeaveResponse{}, err
	}

	autoApproved := false
	if cfg.AutoApproveEnabled && totalDays <= cfg.AutoApproveMaxDays {
		autoApproved, err = s.tryAutoApprove(ctx, tx, qtx, req, actorUUID)
		if err != nil {
			return LeaveResponse{}, err
		}
	}

	// Staged after the auto-approval attempt so the event carries the status
	// the request actually left the transaction with.
	if err := s.stageEvent(ctx, tx, events.LeaveSubmitted, req, actorID); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	if autoApproved {
		subject, body := notification.StatusUpdateMessage(t.String(), in.StartDate, in.EndDate, true, autoApprovalComment)
		s.enqueue(emp, subject, body)
	} else {
		subject, body := notification.NewRequestMessage(emp.FullName, t.String(), in.StartDate, in.EndDate, totalDays)
		s.enqueue(manager, subject, body)
	}

	s.logger.Info("leave request submitted",
		zap.String("request_id", req.ID.String()),
		zap.String("employee_id", actorID),
		zap.String("leave_type", t.String()),
		zap.Int("total_days", totalDays),
		zap.Bool("auto_approved", autoApproved),
	)

	return mapToResponse(req), nil
}

// tryAutoApprove runs the policy short-circuit inside the submission
// transaction. An insufficient balance does not fail the submission: the
// request simply stays in the human queue. Both approval stages are recorded
// in the audit trail even though no human acted.
func (s *service) tryAutoApprove(ctx context.Context, tx *sql.Tx, qtx Repository, req *Request, actorUUID uuid.UUID) (bool, error) {
	err := s.ledger.Deduct(ctx, tx, req.CompanyID.String(), req.EmployeeID.String(), req.StartDate.Year(), req.LeaveType, req.TotalDays)
	if err != nil {
		if errors.Is(err, leavebalanceerrors.ErrInsufficientBalance) {
			s.logger.Info("auto-approval skipped, insufficient balance",
				zap.String("request_id", req.ID.String()),
				zap.String("leave_type", req.LeaveType.String()),
			)
			return false, nil
		}
		return false, err
	}

	ok, err := qtx.UpdateStatusGuarded(ctx, req.CompanyID.String(), req.ID.String(), StatusPendingManager, StatusApproved)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, leaveerrors.ErrInvalidStatusTransition
	}

	if err := s.appendAudit(ctx, tx, req, actorUUID, audit.ActionManagerApproved, StatusPendingHR, autoApprovalComment); err != nil {
		return false, err
	}
	if err := s.appendAudit(ctx, tx, req, actorUUID, audit.ActionHRApproved, StatusApproved, autoApprovalComment); err != nil {
		return false, err
	}

	req.Status = StatusApproved
	if err := s.stageEvent(ctx, tx, events.LeaveHRDecided, req, req.EmployeeID.String()); err != nil {
		return false, err
	}
	return true, nil
}

func (s *service) ManagerDecide(ctx context.Context, companyID, actorID, requestID string, in DecisionRequest) (LeaveResponse, error) {
	req, err := s.loadRequest(ctx, companyID, requestID)
	if err != nil {
		return LeaveResponse{}, err
	}

	if req.ManagerID.String() != actorID {
		return LeaveResponse{}, leaveerrors.ErrNotAssignedManager
	}
	if req.Status != StatusPendingManager {
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	next := StatusRejected
	action := audit.ActionManagerRejected
	if in.Approve {
		next = StatusPendingHR
		action = audit.ActionManagerApproved
	}

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	ok, err := s.repo.WithTx(tx).UpdateStatusGuarded(ctx, companyID, requestID, StatusPendingManager, next)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !ok {
		// Lost the race against a concurrent decision or cancellation.
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	if err := s.appendAudit(ctx, tx, req, actorUUID, action, next, in.Comment); err != nil {
		return LeaveResponse{}, err
	}
	req.Status = next
	if err := s.stageEvent(ctx, tx, events.LeaveManagerDecided, req, actorID); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	s.notifyManagerDecision(ctx, req, in)

	s.logger.Info("manager decision recorded",
		zap.String("request_id", requestID),
		zap.String("manager_id", actorID),
		zap.Bool("approved", in.Approve),
	)

	return mapToResponse(req), nil
}

func (s *service) notifyManagerDecision(ctx context.Context, req *Request, in DecisionRequest) {
	startDate := req.StartDate.Format(dateLayout)
	endDate := req.EndDate.Format(dateLayout)

	if !in.Approve {
		emp, err := s.employees.FindByIDAndCompany(ctx, req.CompanyID.String(), req.EmployeeID.String())
		if err != nil {
			s.logger.Warn("notification recipient lookup failed", zap.Error(err))
			return
		}
		subject, body := notification.StatusUpdateMessage(req.LeaveType.String(), startDate, endDate, false, in.Comment)
		s.enqueue(emp, subject, body)
		return
	}

	emp, err := s.employees.FindByIDAndCompany(ctx, req.CompanyID.String(), req.EmployeeID.String())
	if err != nil {
		s.logger.Warn("notification recipient lookup failed", zap.Error(err))
		return
	}
	roster, err := s.employees.ListHRRecipients(ctx, req.CompanyID.String())
	if err != nil {
		s.logger.Warn("hr roster lookup failed", zap.Error(err))
		return
	}
	subject, body := notification.ManagerActionToHRMessage(emp.FullName, req.LeaveType.String(), startDate, endDate, req.TotalDays)
	for i := range roster {
		s.enqueue(&roster[i], subject, body)
	}
}

func (s *service) HRDecide(ctx context.Context, companyID, actorID, requestID string, in DecisionRequest) (LeaveResponse, error) {
	req, err := s.loadRequest(ctx, companyID, requestID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if req.Status != StatusPendingHR {
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	next := StatusRejected
	action := audit.ActionHRRejected
	if in.Approve {
		next = StatusApproved
		action = audit.ActionHRApproved
	}

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	ok, err := s.repo.WithTx(tx).UpdateStatusGuarded(ctx, companyID, requestID, StatusPendingHR, next)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !ok {
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	if in.Approve {
		// The debit rides the same transaction: an insufficient balance rolls
		// the status flip back and the request stays pending.
		err := s.ledger.Deduct(ctx, tx, companyID, req.EmployeeID.String(), req.StartDate.Year(), req.LeaveType, req.TotalDays)
		if err != nil {
			return LeaveResponse{}, err
		}
	}

	if err := s.appendAudit(ctx, tx, req, actorUUID, action, next, in.Comment); err != nil {
		return LeaveResponse{}, err
	}
	req.Status = next
	if err := s.stageEvent(ctx, tx, events.LeaveHRDecided, req, actorID); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	if emp, err := s.employees.FindByIDAndCompany(ctx, companyID, req.EmployeeID.String()); err == nil {
		subject, body := notification.StatusUpdateMessage(
			req.LeaveType.String(),
			req.StartDate.Format(dateLayout),
			req.EndDate.Format(dateLayout),
			in.Approve,
			in.Comment,
		)
		s.enqueue(emp, subject, body)
	}

	s.logger.Info("hr decision recorded",
		zap.String("request_id", requestID),
		zap.String("actor_id", actorID),
		zap.Bool("approved", in.Approve),
	)

	return mapToResponse(req), nil
}

func (s *service) Cancel(ctx context.Context, companyID, actorID, requestID string) (LeaveResponse, error) {
	req, err := s.loadRequest(ctx, companyID, requestID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !req.Status.CanTransitionTo(StatusCancelled) {
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	if req.EmployeeID.String() != actorID {
		allowed, err := s.permits.HasPermission(companyID, actorID, rbac.ResourceLeave, rbac.ActionCancelOverride)
		if err != nil {
			return LeaveResponse{}, err
		}
		if !allowed {
			return LeaveResponse{}, leaveerrors.ErrCancelNotAllowed
		}
	}

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	prior := req.Status

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	ok, err := s.repo.WithTx(tx).UpdateStatusGuarded(ctx, companyID, requestID, prior, StatusCancelled)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !ok {
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	// Cancelling an already-approved request gives the debited days back.
	// Pending requests never touched the ledger, so there is nothing to undo.
	if prior == StatusApproved {
		err := s.ledger.Restore(ctx, tx, companyID, req.EmployeeID.String(), req.StartDate.Year(), req.LeaveType, req.TotalDays)
		if err != nil {
			return LeaveResponse{}, err
		}
	}

	if err := s.appendAudit(ctx, tx, req, actorUUID, audit.ActionCancelled, StatusCancelled, ""); err != nil {
		return LeaveResponse{}, err
	}
	req.Status = StatusCancelled
	if err := s.stageEvent(ctx, tx, events.LeaveCancelled, req, actorID); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	if emp, err := s.employees.FindByIDAndCompany(ctx, companyID, req.EmployeeID.String()); err == nil {
		subject, body := notification.CancelledMessage(
			req.LeaveType.String(),
			req.StartDate.Format(dateLayout),
			req.EndDate.Format(dateLayout),
		)
		s.enqueue(emp, subject, body)
	}

	s.logger.Info("leave request cancelled",
		zap.String("request_id", requestID),
		zap.String("actor_id", actorID),
		zap.String("prior_status", prior.String()),
	)

	return mapToResponse(req), nil
}

func (s *service) GetByID(ctx context.Context, companyID, requestID string) (LeaveResponse, error) {
	req, err := s.loadRequest(ctx, companyID, requestID)
	if err != nil {
		return LeaveResponse{}, err
	}
	return mapToResponse(req), nil
}

func (s *service) ListByEmployee(ctx context.Context, companyID, employeeID string) ([]LeaveResponse, error) {
	requests, err := s.repo.FindAllByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	return mapAllToResponse(requests), nil
}

func (s *service) ListForManager(ctx context.Context, companyID, managerID, status string) ([]LeaveResponse, error) {
	var filter Status
	if status != "" {
		filter = Status(strings.ToUpper(status))
		if !filter.Valid() {
			return nil, apperror.InvalidField("status")
		}
	}

	requests, err := s.repo.FindAllForManager(ctx, companyID, managerID, filter)
	if err != nil {
		return nil, err
	}
	return mapAllToResponse(requests), nil
}

func (s *service) ListPendingHR(ctx context.Context, companyID string) ([]LeaveResponse, error) {
	requests, err := s.repo.FindAllByStatus(ctx, companyID, StatusPendingHR)
	if err != nil {
		return nil, err
	}
	return mapAllToResponse(requests), nil
}

func (s *service) ListAudit(ctx context.Context, companyID, requestID string) ([]AuditEntryResponse, error) {
	if _, err := s.loadRequest(ctx, companyID, requestID); err != nil {
		return nil, err
	}

	entries, err := s.auditor.ListByRequest(ctx, companyID, requestID)
	if err != nil {
		return nil, err
	}

	out := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp := AuditEntryResponse{
			ID:              e.ID.String(),
			ActorID:         e.ActorID.String(),
			Action:          string(e.Action),
			ResultingStatus: e.ResultingStatus,
			CreatedAt:       e.CreatedAt.Format(time.RFC3339),
		}
		if e.Comment != nil {
			resp.Comment = *e.Comment
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *service) loadRequest(ctx context.Context, companyID, requestID string) (*Request, error) {
	if _, err := uuid.Parse(requestID); err != nil {
		return nil, leaveerrors.ErrInvalidRequestID
	}

	req, err := s.repo.FindByIDAndCompany(ctx, companyID, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		return nil, err
	}
	return req, nil
}

func (s *service) appendAudit(ctx context.Context, tx *sql.Tx, req *Request, actorID uuid.UUID, action audit.Action, resulting Status, comment string) error {
	entry := &audit.Entry{
		ID:              uuid.New(),
		CompanyID:       req.CompanyID,
		RequestID:       req.ID,
		ActorID:         actorID,
		Action:          action,
		ResultingStatus: resulting.String(),
	}
	if comment != "" {
		entry.Comment = &comment
	}
	return s.auditor.WithTx(tx).Append(ctx, entry)
}

func (s *service) stageEvent(ctx context.Context, tx *sql.Tx, eventType string, req *Request, actorID string) error {
	payload, err := json.Marshal(events.LeaveLifecycleEvent{
		EventType:  eventType,
		RequestID:  req.ID.String(),
		CompanyID:  req.CompanyID.String(),
		EmployeeID: req.EmployeeID.String(),
		ManagerID:  req.ManagerID.String(),
		ActorID:    actorID,
		LeaveType:  req.LeaveType.String(),
		Status:     req.Status.String(),
		StartDate:  req.StartDate.Format(dateLayout),
		EndDate:    req.EndDate.Format(dateLayout),
		TotalDays:  req.TotalDays,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   req.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) enqueue(e *employee.Employee, subject, body string) {
	if s.notifier == nil || e == nil {
		return
	}
	s.notifier.TryEnqueue(notification.WorkItem{
		RecipientID:    e.ID.String(),
		RecipientEmail: e.Email,
		RecipientName:  e.FullName,
		Subject:        subject,
		Body:           body,
	})
}

func mapAllToResponse(requests []Request) []LeaveResponse {
	out := make([]LeaveResponse, 0, len(requests))
	for i := range requests {
		out = append(out, mapToResponse(&requests[i]))
	}
	return out
}
