package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-leavedesk/internal/leavetype"
)

// Status is the request lifecycle state. Transitions are only ever performed
// through Repository.UpdateStatusGuarded, which enforces the allowed edges
// with a compare-and-set at the database level.
type Status string

const (
	StatusPendingManager Status = "PENDING_MANAGER"
	StatusPendingHR      Status = "PENDING_HR"
	StatusApproved       Status = "APPROVED"
	StatusRejected       Status = "REJECTED"
	StatusCancelled      Status = "CANCELLED"
)

func (s Status) String() string { return string(s) }

func (s Status) Valid() bool {
	switch s {
	case StatusPendingManager, StatusPendingHR, StatusApproved, StatusRejected, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is possible. Terminal
// requests never re-enter the workflow; a new request must be submitted.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusRejected, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo encodes the full edge set of the lifecycle. APPROVED is not
// terminal: it still allows cancellation (with balance restoration).
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPendingManager:
		return next == StatusPendingHR || next == StatusApproved ||
			next == StatusRejected || next == StatusCancelled
	case StatusPendingHR:
		return next == StatusApproved || next == StatusRejected || next == StatusCancelled
	case StatusApproved:
		return next == StatusCancelled
	default:
		return false
	}
}

const (
	MaxNoteLength          = 1000
	MaxAttachmentURLLength = 500
)

// Request is one leave request moving through the two-stage approval flow.
// ManagerID is resolved from the org chart once at submission and frozen, so
// a later reporting-line change does not reroute an in-flight request.
type Request struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_company"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee"`
	ManagerID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_manager"`

	LeaveType leavetype.Type `gorm:"type:varchar(30);not null"`
	StartDate time.Time      `gorm:"type:date;not null"`
	EndDate   time.Time      `gorm:"type:date;not null"`
	// TotalDays is the inclusive calendar span, computed once at submission.
	TotalDays int `gorm:"type:int;not null"`

	Note          string `gorm:"type:varchar(1000)"`
	AttachmentURL string `gorm:"type:varchar(500)"`

	Status Status `gorm:"type:varchar(30);not null;index:idx_leave_requests_status"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Request) TableName() string { return "leave_requests" }

// TotalDaysBetween counts calendar days inclusively: a request from Monday to
// Monday is one day, Monday to Friday is five. Dates are compared at UTC
// midnight, no working-day calendar is applied.
func TotalDaysBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours()/24) + 1
}
