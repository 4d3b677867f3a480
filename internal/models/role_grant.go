package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoleGrant is one (role, address) membership row. Uniqueness across the pair
// makes grants idempotent at the storage layer.
type RoleGrant struct {
	GrantID   uuid.UUID `gorm:"column:grant_id;type:uuid;primaryKey" json:"grant_id"`
	Role      string    `gorm:"column:role;not null;uniqueIndex:idx_role_address" json:"role"`
	Address   string    `gorm:"column:address;not null;uniqueIndex:idx_role_address" json:"address"`
	GrantedBy string    `gorm:"column:granted_by;not null" json:"granted_by"`
	CreatedAt time.Time `json:"createdAt"`
}

func (RoleGrant) TableName() string {
	return "RoleGrants"
}

func (r *RoleGrant) BeforeCreate(tx *gorm.DB) error {
	if r.GrantID == uuid.Nil {
		r.GrantID = uuid.New()
	}
	return nil
}
