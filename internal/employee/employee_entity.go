package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleEmployee = "EMPLOYEE"
	RoleManager  = "MANAGER"
	RoleHRAdmin  = "HR_ADMIN"
)

type Employee struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`

	FullName string `gorm:"type:varchar(150);not null"`
	Email    string `gorm:"type:varchar(150);not null;uniqueIndex:uq_employees_email"`
	Role     string `gorm:"type:varchar(30);not null;default:'EMPLOYEE'"`

	// ManagerID is the direct manager used to route approvals. Nullable for
	// employees at the top of the chain.
	ManagerID *uuid.UUID `gorm:"type:uuid;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	DeviceTokens []DeviceToken `gorm:"foreignKey:EmployeeID"`
}

func (Employee) TableName() string { return "employees" }

// DeviceToken is a registered push target. An employee with zero tokens is
// simply skipped by the push channel.
type DeviceToken struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`
	Token      string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_device_tokens_token"`
	Platform   string    `gorm:"type:varchar(20);not null;default:'android'"`
	CreatedAt  time.Time
}

func (DeviceToken) TableName() string { return "device_tokens" }
