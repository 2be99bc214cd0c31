package leavebalance

import (
	"time"

	"go-leavedesk/internal/leavetype"

	"github.com/google/uuid"
)

// Balance tracks allotment and consumption for one (employee, year, type).
// Remaining days are always derived as TotalDays-UsedDays and never stored.
type Balance struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID      `gorm:"type:uuid;not null"`
	EmployeeID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uq_balance_employee_year_type"`
	Year       int            `gorm:"type:int;not null;uniqueIndex:uq_balance_employee_year_type"`
	LeaveType  leavetype.Type `gorm:"type:varchar(30);not null;uniqueIndex:uq_balance_employee_year_type"`

	TotalDays int `gorm:"type:int;not null;default:0"`
	UsedDays  int `gorm:"type:int;not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Balance) TableName() string { return "leave_balances" }

func (b Balance) Remaining() int {
	return b.TotalDays - b.UsedDays
}
