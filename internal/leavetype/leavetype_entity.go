package leavetype

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Type is the closed set of leave categories. Keeping it typed means the
// transition and policy code can switch over it exhaustively.
type Type string

const (
	TypeAnnual    Type = "ANNUAL"
	TypeSick      Type = "SICK"
	TypeEmergency Type = "EMERGENCY"
	TypeUnpaid    Type = "UNPAID"
	TypeMaternity Type = "MATERNITY"
	TypePaternity Type = "PATERNITY"
)

func AllTypes() []Type {
	return []Type{
		TypeAnnual,
		TypeSick,
		TypeEmergency,
		TypeUnpaid,
		TypeMaternity,
		TypePaternity,
	}
}

func (t Type) Valid() bool {
	switch t {
	case TypeAnnual, TypeSick, TypeEmergency, TypeUnpaid, TypeMaternity, TypePaternity:
		return true
	default:
		return false
	}
}

func (t Type) String() string { return string(t) }

// TypeConfig is the per-type policy row: default allotment, auto-approval
// rule and conflict-check bypass. Auto-approval fires only when the flag is
// set and the request's day count does not exceed AutoApproveMaxDays.
type TypeConfig struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_type_company"`
	LeaveType Type      `gorm:"type:varchar(30);not null;uniqueIndex:uq_leave_type_company"`

	DisplayName          string `gorm:"type:varchar(100);not null"`
	DefaultAllotmentDays int    `gorm:"type:int;not null;default:0"`
	AutoApproveEnabled   bool   `gorm:"not null;default:false"`
	AutoApproveMaxDays   int    `gorm:"type:int;not null;default:0"`
	SkipConflictCheck    bool   `gorm:"not null;default:false"`
	// LedgerExempt types never touch the balance ledger (UNPAID).
	LedgerExempt bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (TypeConfig) TableName() string { return "leave_type_configs" }

// DefaultConfigs returns the built-in policy set used when a company has no
// stored override for a type. The registry consults this at access time so
// default allotments are never baked into balance rows.
func DefaultConfigs() map[Type]TypeConfig {
	return map[Type]TypeConfig{
		TypeAnnual: {
			LeaveType:            TypeAnnual,
			DisplayName:          "Annual Leave",
			DefaultAllotmentDays: 20,
		},
		TypeSick: {
			LeaveType:            TypeSick,
			DisplayName:          "Sick Leave",
			DefaultAllotmentDays: 12,
			AutoApproveEnabled:   true,
			AutoApproveMaxDays:   3,
		},
		TypeEmergency: {
			LeaveType:            TypeEmergency,
			DisplayName:          "Emergency Leave",
			DefaultAllotmentDays: 5,
			AutoApproveEnabled:   true,
			AutoApproveMaxDays:   2,
			SkipConflictCheck:    true,
		},
		TypeUnpaid: {
			LeaveType:    TypeUnpaid,
			DisplayName:  "Unpaid Leave",
			LedgerExempt: true,
		},
		TypeMaternity: {
			LeaveType:            TypeMaternity,
			DisplayName:          "Maternity Leave",
			DefaultAllotmentDays: 90,
		},
		TypePaternity: {
			LeaveType:            TypePaternity,
			DisplayName:          "Paternity Leave",
			DefaultAllotmentDays: 14,
		},
	}
}
