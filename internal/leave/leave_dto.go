package leave

import "time"

const dateLayout = "2006-01-02"

type SubmitLeaveRequest struct {
	LeaveType     string `json:"leave_type" binding:"required"`
	StartDate     string `json:"start_date" binding:"required"`
	EndDate       string `json:"end_date" binding:"required"`
	Note          string `json:"note" binding:"omitempty,max=1000"`
	AttachmentURL string `json:"attachment_url" binding:"omitempty,max=500,url"`
}

// DecisionRequest carries a manager or HR verdict. The comment is optional
// for approvals and conventionally expected for rejections, but not enforced.
type DecisionRequest struct {
	Approve bool   `json:"approve"`
	Comment string `json:"comment" binding:"omitempty,max=1000"`
}

type LeaveResponse struct {
	ID            string `json:"id"`
	EmployeeID    string `json:"employee_id"`
	ManagerID     string `json:"manager_id"`
	LeaveType     string `json:"leave_type"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	TotalDays     int    `json:"total_days"`
	Note          string `json:"note,omitempty"`
	AttachmentURL string `json:"attachment_url,omitempty"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type AuditEntryResponse struct {
	ID              string `json:"id"`
	ActorID         string `json:"actor_id"`
	Action          string `json:"action"`
	ResultingStatus string `json:"resulting_status"`
	Comment         string `json:"comment,omitempty"`
	CreatedAt       string `json:"created_at"`
}

func mapToResponse(r *Request) LeaveResponse {
	return LeaveResponse{
		ID:            r.ID.String(),
		EmployeeID:    r.EmployeeID.String(),
		ManagerID:     r.ManagerID.String(),
		LeaveType:     r.LeaveType.String(),
		StartDate:     r.StartDate.Format(dateLayout),
		EndDate:       r.EndDate.Format(dateLayout),
		TotalDays:     r.TotalDays,
		Note:          r.Note,
		AttachmentURL: r.AttachmentURL,
		Status:        r.Status.String(),
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     r.UpdatedAt.Format(time.RFC3339),
	}
}
