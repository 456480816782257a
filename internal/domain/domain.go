package domain

import (
	"time"
)

type Role string

const (
	RolePatient  Role = "patient"
	RoleDoctor   Role = "doctor"
	RoleGuardian Role = "guardian"
)

func (r Role) IsValid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleGuardian:
		return true
	}
	return false
}

// KeyPrefix returns the identifier prefix minted for users of this role.
func (r Role) KeyPrefix() string {
	switch r {
	case RolePatient:
		return "PAT"
	case RoleDoctor:
		return "DOC"
	case RoleGuardian:
		return "GUA"
	}
	return ""
}

type AuditAction string

const (
	ActionCreate AuditAction = "create"
	ActionRead   AuditAction = "read"
	ActionUpdate AuditAction = "update"
	ActionDelete AuditAction = "delete"
	ActionLogin  AuditAction = "login"
)

type AuditLog struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	OccurredAt time.Time `gorm:"autoCreateTime;index"`

	// Who
	UserKey  string `gorm:"column:user_key;type:varchar(16);not null;index"`
	UserRole Role   `gorm:"column:user_role;type:varchar(20);not null"`

	// What
	Action       AuditAction `gorm:"column:action;type:varchar(20);not null;index"`
	ResourceType string      `gorm:"column:resource_type;type:varchar(50);not null;index"`
	ResourceKey  string      `gorm:"column:resource_key;type:varchar(16);index"`

	RequestID string `gorm:"column:request_id;type:varchar(50);index"`
	Changes   string `gorm:"column:changes;type:jsonb"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"` // Always "Bearer"
}

type Claims struct {
	UserKey   string `json:"sub"`
	LoginName string `json:"login_name"`
	Role      Role   `json:"role"`
}
