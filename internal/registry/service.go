package registry

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"certledger-backend/internal/models"
	"certledger-backend/internal/pkg/constants"
	"certledger-backend/internal/pkg/metrics"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service is the certificate registry: role store, token ledger and
// certificate records behind one write lock. On-chain the execution
// environment serializes transactions; here the mutex plus a DB transaction
// make every check-then-insert atomic.
type Service struct {
	DB *gorm.DB

	mu sync.Mutex
}

// IssueInput carries one certificate issuance.
type IssueInput struct {
	Recipient     string
	CertificateID string
	StudentName   string
	Course        string
	IssueDate     string
	IssuerName    string
	MetadataURI   string
}

// CertificateView is the public read shape. OwnerAddress is joined from the
// ledger, never stored on the record.
type CertificateView struct {
	CertificateID string `json:"certificate_id"`
	TokenID       uint64 `json:"token_id"`
	StudentName   string `json:"student_name"`
	Course        string `json:"course"`
	IssueDate     string `json:"issue_date"`
	IssuerName    string `json:"issuer_name"`
	MetadataURI   string `json:"metadata_uri"`
	IsValid       bool   `json:"is_valid"`
	OwnerAddress  string `json:"owner_address"`
}

// IssueCertificate mints a token to the recipient and creates the record in
// one transaction. Caller must hold the issuer role; the certificate id must
// be fresh.
func (s *Service) IssueCertificate(ctx context.Context, caller string, in IssueInput) (*CertificateView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok, err := s.hasRole(ctx, s.DB, constants.RoleIssuer, caller)
	if err != nil {
		return nil, err
	}
	if !ok {
		metrics.IssueFailures.WithLabelValues("authorization").Inc()
		return nil, ErrAuthorization
	}

	var view *CertificateView
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cert, token, err := s.issueLocked(tx, caller, in)
		if err != nil {
			return err
		}
		view = viewOf(cert, token.OwnerAddress)
		return nil
	})
	if err != nil {
		metrics.IssueFailures.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}

	metrics.CertificatesIssued.Inc()
	log.Info().Str("certificate_id", view.CertificateID).
		Uint64("token_id", view.TokenID).
		Str("recipient", view.OwnerAddress).
		Msg("certificate issued")
	return view, nil
}

// GetCertificate is a public read. Unknown ids fail with ErrNotFound; revoked
// records still return, with IsValid=false.
func (s *Service) GetCertificate(ctx context.Context, certificateID string) (*CertificateView, error) {
	var cert models.Certificate
	if err := s.DB.WithContext(ctx).Where("certificate_id = ?", certificateID).First(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var token models.Token
	if err := s.DB.WithContext(ctx).Where("token_id = ?", cert.TokenID).First(&token).Error; err != nil {
		return nil, err
	}
	return viewOf(&cert, token.OwnerAddress), nil
}

// RevokeCertificate sets IsValid=false. Caller must hold issuer or admin.
// Revoking an already-revoked certificate succeeds silently and records no
// second event. The token is not burned and the record is never deleted.
func (s *Service) RevokeCertificate(ctx context.Context, caller, certificateID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok, err := s.hasAnyRole(ctx, s.DB, caller, constants.RoleIssuer, constants.RoleAdmin)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAuthorization
	}

	revoked := false
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cert models.Certificate
		if err := tx.Where("certificate_id = ?", certificateID).First(&cert).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !cert.IsValid {
			return nil
		}
		if err := tx.Model(&cert).Update("is_valid", false).Error; err != nil {
			return err
		}
		revoked = true
		return recordEvent(tx, models.EventRevoked, normalizeAddress(caller), &cert.CertificateID, &cert.TokenID, map[string]interface{}{
			"certificate_id": cert.CertificateID,
		})
	})
	if err != nil {
		return err
	}
	if revoked {
		metrics.CertificatesRevoked.Inc()
		log.Info().Str("certificate_id", certificateID).Str("caller", normalizeAddress(caller)).Msg("certificate revoked")
	}
	return nil
}

// issueLocked performs one issuance inside tx. Callers hold s.mu and have
// already checked the issuer role.
func (s *Service) issueLocked(tx *gorm.DB, caller string, in IssueInput) (*models.Certificate, *models.Token, error) {
	var existing models.Certificate
	err := tx.Where("certificate_id = ?", in.CertificateID).First(&existing).Error
	if err == nil {
		return nil, nil, ErrDuplicateID
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	token, err := mintLocked(tx, in.Recipient)
	if err != nil {
		return nil, nil, err
	}

	cert := &models.Certificate{
		CertificateID: in.CertificateID,
		TokenID:       token.TokenID,
		StudentName:   in.StudentName,
		Course:        in.Course,
		IssueDate:     in.IssueDate,
		IssuerName:    in.IssuerName,
		MetadataURI:   in.MetadataURI,
		IsValid:       true,
	}
	if err := tx.Create(cert).Error; err != nil {
		return nil, nil, err
	}

	if err := recordEvent(tx, models.EventIssued, normalizeAddress(caller), &cert.CertificateID, &cert.TokenID, map[string]interface{}{
		"certificate_id": cert.CertificateID,
		"token_id":       cert.TokenID,
		"recipient":      token.OwnerAddress,
	}); err != nil {
		return nil, nil, err
	}
	return cert, token, nil
}

func viewOf(cert *models.Certificate, owner string) *CertificateView {
	return &CertificateView{
		CertificateID: cert.CertificateID,
		TokenID:       cert.TokenID,
		StudentName:   cert.StudentName,
		Course:        cert.Course,
		IssueDate:     cert.IssueDate,
		IssuerName:    cert.IssuerName,
		MetadataURI:   cert.MetadataURI,
		IsValid:       cert.IsValid,
		OwnerAddress:  owner,
	}
}

// normalizeAddress lowercases hex addresses so role and owner lookups are
// case-insensitive, matching address semantics.
func normalizeAddress(address string) string {
	return strings.ToLower(address)
}

func recordEvent(tx *gorm.DB, eventType, actor string, certificateID *string, tokenID *uint64, payload map[string]interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return tx.Create(&models.RegistryEvent{
		EventType:     eventType,
		CertificateID: certificateID,
		TokenID:       tokenID,
		Actor:         actor,
		EventData:     datatypes.JSON(b),
	}).Error
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateID):
		return "duplicate_id"
	case errors.Is(err, ErrInvalidRecipient):
		return "invalid_recipient"
	case errors.Is(err, ErrLengthMismatch):
		return "length_mismatch"
	case errors.Is(err, ErrAuthorization):
		return "authorization"
	default:
		return "internal"
	}
}
