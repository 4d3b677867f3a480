package models

import (
	"time"
)

// Token is one row of the soulbound ledger. Ids are sequential starting at 1;
// OwnerAddress is written once at mint and never updated.
type Token struct {
	TokenID      uint64    `gorm:"column:token_id;primaryKey;autoIncrement:false" json:"token_id"`
	OwnerAddress string    `gorm:"column:owner_address;not null;index" json:"owner_address"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (Token) TableName() string {
	return "Tokens"
}
