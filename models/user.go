package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the read model backing the user-existence and recipient-snapshot
// ports. Identity issuance and role evaluation live outside this service;
// the engine only ever reads these rows.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID  uint      `gorm:"not null;index:idx_users_tenant_id" json:"tenant_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;not null;index:idx_users_email" json:"email"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
}

// TableName returns the table name for the model
func (User) TableName() string {
	return "users"
}

// UserFilter represents filter criteria for users
type UserFilter struct {
	ID       *uuid.UUID `json:"id,omitempty"`
	TenantID *uint      `json:"tenant_id,omitempty"`
	Email    *string    `json:"email,omitempty"`
	IsActive *bool      `json:"is_active,omitempty"`
}
