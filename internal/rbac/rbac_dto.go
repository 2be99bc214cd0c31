package rbac

type EnforceRequest struct {
	EmployeeID string `json:"employee_id"`
	CompanyID  string `json:"company_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}

// Resource/action vocabulary enforced on the leave routes. The
// leave:cancel_override permission is the configurable escape hatch that lets
// a non-owner (typically HR) cancel someone else's request.
const (
	ResourceLeave     = "leave"
	ResourceLeaveType = "leave_type"
	ResourceEmployee  = "employee"

	ActionCreate         = "create"
	ActionRead           = "read"
	ActionApprove        = "approve"
	ActionHRApprove      = "hr_approve"
	ActionCancelOverride = "cancel_override"
	ActionManage         = "manage"
)
