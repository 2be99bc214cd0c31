package events

import "time"

const LeaveLifecycleTopic = "leave.lifecycle.v1"

const (
	LeaveSubmitted      = "leave.submitted"
	LeaveManagerDecided = "leave.manager_decided"
	LeaveHRDecided      = "leave.hr_decided"
	LeaveCancelled      = "leave.cancelled"
)

// LeaveLifecycleEvent is published through the transactional outbox on every
// status transition. Downstream consumers (the notifier, reporting) key on
// EventType and Status.
type LeaveLifecycleEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id"`
	CompanyID  string    `json:"company_id"`
	EmployeeID string    `json:"employee_id"`
	ManagerID  string    `json:"manager_id,omitempty"`
	ActorID    string    `json:"actor_id"`
	LeaveType  string    `json:"leave_type"`
	Status     string    `json:"status"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	TotalDays  int       `json:"total_days"`
	OccurredAt time.Time `json:"occurred_at"`
}
