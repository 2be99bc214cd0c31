package employee

type CreateEmployeeRequest struct {
	FullName  string  `json:"full_name" binding:"required,max=150"`
	Email     string  `json:"email" binding:"required,email"`
	Role      string  `json:"role" binding:"required,oneof=EMPLOYEE MANAGER HR_ADMIN"`
	ManagerID *string `json:"manager_id"`
}

type RegisterDeviceTokenRequest struct {
	Token    string `json:"token" binding:"required,max=255"`
	Platform string `json:"platform" binding:"required,oneof=android ios web"`
}

type EmployeeResponse struct {
	ID        string  `json:"id"`
	CompanyID string  `json:"company_id"`
	FullName  string  `json:"full_name"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	ManagerID *string `json:"manager_id,omitempty"`
}

// EmployeeOption is the minimal shape used by dropdowns; cached in redis.
type EmployeeOption struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}
