package models

import (
	"time"
)

// Certificate is the registry record keyed by the issuer-chosen certificate id,
// not the token id. Records are never deleted; revocation only clears IsValid.
type Certificate struct {
	CertificateID string    `gorm:"column:certificate_id;primaryKey" json:"certificate_id"`
	TokenID       uint64    `gorm:"column:token_id;uniqueIndex;not null" json:"token_id"`
	StudentName   string    `gorm:"column:student_name;not null" json:"student_name"`
	Course        string    `gorm:"column:course;not null" json:"course"`
	IssueDate     string    `gorm:"column:issue_date;not null" json:"issue_date"`
	IssuerName    string    `gorm:"column:issuer_name;not null" json:"issuer_name"`
	MetadataURI   string    `gorm:"column:metadata_uri;type:text;not null" json:"metadata_uri"`
	IsValid       bool      `gorm:"column:is_valid;not null;default:true" json:"is_valid"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (Certificate) TableName() string {
	return "Certificates"
}
