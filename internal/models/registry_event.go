package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Event types recorded in RegistryEvents.
const (
	EventIssued      = "ISSUED"
	EventRevoked     = "REVOKED"
	EventRoleGranted = "ROLE_GRANTED"
	EventRoleRevoked = "ROLE_REVOKED"
)

// RegistryEvent is an append-only event row for off-chain style indexing
// (issuance, revocation, role changes).
type RegistryEvent struct {
	EventID       uuid.UUID      `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	EventType     string         `gorm:"column:event_type;not null;index" json:"event_type"`
	CertificateID *string        `gorm:"column:certificate_id;index" json:"certificate_id"`
	TokenID       *uint64        `gorm:"column:token_id" json:"token_id"`
	Actor         string         `gorm:"column:actor;not null" json:"actor"`
	EventData     datatypes.JSON `gorm:"column:event_data" json:"event_data"`
	CreatedAt     time.Time      `json:"createdAt"`
}

func (RegistryEvent) TableName() string {
	return "RegistryEvents"
}

func (e *RegistryEvent) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}
