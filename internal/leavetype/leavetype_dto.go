package leavetype

type UpdateTypeConfigRequest struct {
	DisplayName          string `json:"display_name" binding:"required,max=100"`
	DefaultAllotmentDays int    `json:"default_allotment_days"`
	AutoApproveEnabled   bool   `json:"auto_approve_enabled"`
	AutoApproveMaxDays   int    `json:"auto_approve_max_days"`
	SkipConflictCheck    bool   `json:"skip_conflict_check"`
}

type TypeConfigResponse struct {
	LeaveType            string `json:"leave_type"`
	DisplayName          string `json:"display_name"`
	DefaultAllotmentDays int    `json:"default_allotment_days"`
	AutoApproveEnabled   bool   `json:"auto_approve_enabled"`
	AutoApproveMaxDays   int    `json:"auto_approve_max_days"`
	SkipConflictCheck    bool   `json:"skip_conflict_check"`
	LedgerExempt         bool   `json:"ledger_exempt"`
}
