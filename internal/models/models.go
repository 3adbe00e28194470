package models

import "time"

// RoleName enumerates the access roles.
type RoleName string

const (
	RoleAdmin      RoleName = "admin"
	RoleProgrammer RoleName = "programmer"
	RoleViewer     RoleName = "viewer"
)

// User represents an authenticated account.
type User struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	Email     string `gorm:"uniqueIndex"`
	Password  string
	Role      RoleName `gorm:"type:varchar(16)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Inspector is a planning inspector who receives case assignments.
type Inspector struct {
	ID              string `gorm:"type:uuid;primaryKey"`
	FirstName       string
	LastName        string
	Email           string `gorm:"uniqueIndex"`
	Grade           string `gorm:"type:varchar(8)"`
	Postcode        string `gorm:"type:varchar(10)"`
	ChartingOfficer string
	Specialisms     []InspectorSpecialism `gorm:"foreignKey:InspectorID"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// InspectorSpecialism records one area of expertise for an inspector.
type InspectorSpecialism struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	InspectorID string `gorm:"type:uuid;index"`
	Name        string
	Proficiency string `gorm:"type:varchar(32)"`
	ValidFrom   time.Time
}

// Case is one planning appeal awaiting or holding an inspector assignment.
type Case struct {
	ID              string `gorm:"type:uuid;primaryKey"`
	Reference       string `gorm:"uniqueIndex"`
	ProcedureType   string `gorm:"type:varchar(32);index"`
	AllocationLevel string `gorm:"type:varchar(8)"`
	CaseType        string `gorm:"type:varchar(8)"`
	Authority       string `gorm:"index"`
	SiteAddress     string `gorm:"type:text"`
	SitePostcode    string `gorm:"type:varchar(10)"`
	Status          string `gorm:"type:varchar(32);index"`
	InspectorID     string `gorm:"type:uuid;index"`
	ReceivedAt      time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TimingRule maps a case's procedure, allocation level and type to the
// configured stage hours used by the allocation engine.
type TimingRule struct {
	ID              string `gorm:"type:uuid;primaryKey"`
	ProcedureType   string `gorm:"type:varchar(32);uniqueIndex:idx_timing_rule_triple"`
	AllocationLevel string `gorm:"type:varchar(8);uniqueIndex:idx_timing_rule_triple"`
	CaseType        string `gorm:"type:varchar(8);uniqueIndex:idx_timing_rule_triple"`
	PrepHours       int
	SiteVisitHours  int
	ReportHours     int
	CostsHours      int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AllocationRun records one invocation of the allocation engine for audit.
type AllocationRun struct {
	ID             string `gorm:"type:uuid;primaryKey"`
	InspectorID    string `gorm:"type:uuid;index"`
	AssignmentDate string `gorm:"type:varchar(10)"`
	CaseIDs        string `gorm:"type:text"`
	EventCount     int
	Submitted      bool
	Error          string `gorm:"type:text"`
	CreatedAt      time.Time
}
