package models

import (
	"time"

	"github.com/google/uuid"
)

type Workspace struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time `gorm:"index;not null" json:"created_at"`
}

type Employee struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;index" json:"workspace_id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Email       string    `gorm:"type:varchar(255)" json:"email"`
	Role        string    `gorm:"type:varchar(50);not null;default:employee" json:"role"`
}

type Customer struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	WorkspaceID uuid.UUID  `gorm:"type:uuid;not null;index:idx_customer_workspace_created,priority:1" json:"workspace_id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Email       string     `gorm:"type:varchar(255)" json:"email,omitempty"`
	Phone       string     `gorm:"type:varchar(20);not null" json:"phone"`
	Status      string     `gorm:"type:varchar(20);not null;default:active;index" json:"status"`
	Quality     string     `gorm:"type:varchar(20)" json:"quality,omitempty"`
	CallStatus  string     `gorm:"type:varchar(20);not null;default:pending" json:"call_status"`
	Duration    float64    `gorm:"not null;default:0" json:"duration"`
	IsDeleted   bool       `gorm:"not null;default:false;index" json:"-"`
	DeletedAt   *time.Time `json:"-"`
	EmployeeID  *uuid.UUID `gorm:"type:uuid;index" json:"employee_id,omitempty"`
	Employee    *Employee  `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	CreatedAt   time.Time  `gorm:"index:idx_customer_workspace_created,priority:2,sort:desc;not null" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Call struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;index" json:"workspace_id"`
	CustomerID  uuid.UUID `gorm:"type:uuid;not null;index:idx_call_customer_created,priority:1" json:"customer_id"`
	Direction   string    `gorm:"type:varchar(10);not null" json:"direction"`
	Status      string    `gorm:"type:varchar(20);not null" json:"status"`
	Duration    float64   `gorm:"not null;default:0" json:"duration"`
	IsDeleted   bool      `gorm:"not null;default:false;index" json:"-"`
	CreatedAt   time.Time `gorm:"index:idx_call_customer_created,priority:2,sort:desc;not null" json:"created_at"`
}

type AccessLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Timestamp time.Time `gorm:"index;not null"`
	Method    string    `gorm:"type:varchar(10);not null"`
	Path      string    `gorm:"type:text;not null;index:,length:256"`
	Status    int       `gorm:"not null;index"`
	Duration  time.Duration
	ClientIP  string `gorm:"type:varchar(45);not null"`
	UserAgent string `gorm:"type:text"`
	BytesSent int    `gorm:"not null;default:0"`
}

// ProfileRecord is the persisted form of one diagnostic profile. Payload is
// the JSON-encoded report; rows expire via ExpiresAt and are swept by the
// diagstore purger.
type ProfileRecord struct {
	Key       string    `gorm:"primaryKey;type:varchar(128);not null"`
	Payload   []byte    `gorm:"type:bytea;not null"`
	StoredAt  time.Time `gorm:"index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
}

func (Workspace) TableName() string {
	return "workspace"
}

func (Employee) TableName() string {
	return "employee"
}

func (Customer) TableName() string {
	return "customer"
}

func (Call) TableName() string {
	return "call"
}

func (AccessLog) TableName() string {
	return "access_logs"
}

func (ProfileRecord) TableName() string {
	return "profile_records"
}
