package audit

import (
	"time"

	"github.com/google/uuid"
)

// Action is the closed set of recorded transitions.
type Action string

const (
	ActionSubmitted       Action = "SUBMITTED"
	ActionManagerApproved Action = "MANAGER_APPROVED"
	ActionManagerRejected Action = "MANAGER_REJECTED"
	ActionHRApproved      Action = "HR_APPROVED"
	ActionHRRejected      Action = "HR_REJECTED"
	ActionCancelled       Action = "CANCELLED"
)

// Entry is one immutable line of the leave audit trail. Entries are only
// ever appended, exactly one per status transition; there is no update or
// delete path.
type Entry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null"`
	RequestID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_audit_request"`
	ActorID   uuid.UUID `gorm:"type:uuid;not null"`

	Action          Action  `gorm:"type:varchar(30);not null"`
	ResultingStatus string  `gorm:"type:varchar(30);not null"`
	Comment         *string `gorm:"type:text"`

	CreatedAt time.Time
}

func (Entry) TableName() string { return "leave_audit_logs" }
