package registry

import (
	"context"
	"testing"

	"certledger-backend/internal/models"
	"certledger-backend/internal/pkg/constants"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	ownerAddr   = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	issuerAddr  = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	studentAddr = "0xcccccccccccccccccccccccccccccccccccccccc"
	otherAddr   = "0xdddddddddddddddddddddddddddddddddddddddd"
)

func setupRegistryTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Token{}, &models.Certificate{}, &models.RoleGrant{}, &models.RegistryEvent{}))

	// owner holds both roles, a second address holds only issuer
	for _, g := range []models.RoleGrant{
		{Role: constants.RoleAdmin, Address: ownerAddr, GrantedBy: ownerAddr},
		{Role: constants.RoleIssuer, Address: ownerAddr, GrantedBy: ownerAddr},
		{Role: constants.RoleIssuer, Address: issuerAddr, GrantedBy: ownerAddr},
	} {
		grant := g
		require.NoError(t, db.Create(&grant).Error)
	}
	return &Service{DB: db}, db
}

func issueInput(certID string) IssueInput {
	return IssueInput{
		Recipient:     studentAddr,
		CertificateID: certID,
		StudentName:   "Ada Lovelace",
		Course:        "Distributed Systems",
		IssueDate:     "2026-06-01",
		IssuerName:    "Example University",
		MetadataURI:   "https://example.com/meta/" + certID,
	}
}

func TestIssueCertificate_Roundtrip(t *testing.T) {
	svc, _ := setupRegistryTest(t)
	ctx := context.Background()

	view, err := svc.IssueCertificate(ctx, issuerAddr, issueInput("CERT-001"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), view.TokenID)
	assert.True(t, view.IsValid)
	assert.Equal(t, studentAddr, view.OwnerAddress)

	got, err := svc.GetCertificate(ctx, "CERT-001")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.StudentName)
	assert.Equal(t, "Distributed Systems", got.Course)
	assert.Equal(t, "2026-06-01", got.IssueDate)
	assert.Equal(t, "Example University", got.IssuerName)
	assert.Equal(t, uint64(1), got.TokenID)
	assert.Equal(t, studentAddr, got.OwnerAddress)
	assert.True(t, got.IsValid)
}

func TestIssueCertificate_NonIssuerRejected(t *testing.T) {
	svc, db := setupRegistryTest(t)
	ctx := context.Background()

	_, err := svc.IssueCertificate(ctx, otherAddr, issueInput("CERT-001"))
	assert.ErrorIs(t, err, ErrAuthorization)

	var tokens int64
	require.NoError(t, db.Model(&models.Token{}).Count(&tokens).Error)
	assert.Equal(t, int64(0), tokens)
}

func TestIssueCertificate_DuplicateIDKeepsFirstRecord(t *testing.T) {
	svc, db := setupRegistryTest(t)
	ctx := context.Background()

	first, err := svc.IssueCertificate(ctx, issuerAddr, issueInput("CERT-001"))
	require.NoError(t, err)

	in := issueInput("CERT-001")
	in.StudentName = "Impostor"
	_, err = svc.IssueCertificate(ctx, issuerAddr, in)
	assert.ErrorIs(t, err, ErrDuplicateID)

	got, err := svc.GetCertificate(ctx, "CERT-001")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.StudentName)
	assert.Equal(t, first.TokenID, got.TokenID)

	// the failed attempt must not have minted a token
	var tokens int64
	require.NoError(t, db.Model(&models.Token{}).Count(&tokens).Error)
	assert.Equal(t, int64(1), tokens)
}

func TestIssueCertificate_InvalidRecipient(t *testing.T) {
	svc, _ := setupRegistryTest(t)
	ctx := context.Background()

	for _, recipient := range []string{"", "0x0000000000000000000000000000000000000000", "not-an-address", "0x1234"} {
		in := issueInput("CERT-001")
		in.Recipient = recipient
		_, err := svc.IssueCertificate(ctx, issuerAddr, in)
		assert.ErrorIs(t, err, ErrInvalidRecipient, "recipient %q", recipient)
	}
}

func TestGetCertificate_UnknownID(t *testing.T) {
	svc, _ := setupRegistryTest(t)

	_, err := svc.GetCertificate(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRevokeCertificate_FlipsValidityOnly(t *testing.T) {
	svc, _ := setupRegistryTest(t)
	ctx := context.Background()

	issued, err := svc.IssueCertificate(ctx, issuerAddr, issueInput("CERT-001"))
	require.NoError(t, err)

	require.NoError(t, svc.RevokeCertificate(ctx, issuerAddr, "CERT-001"))

	got, err := svc.GetCertificate(ctx, "CERT-001")
	require.NoError(t, err)
	assert.False(t, got.IsValid)
	assert.Equal(t, issued.StudentName, got.StudentName)
	assert.Equal(t, issued.TokenID, got.TokenID)

	// the token is not burned
	owner, err := svc.OwnerOf(ctx, issued.TokenID)
	require.NoError(t, err)
	assert.Equal(t, studentAddr, owner)
}

func TestRevokeCertificate_Idempotent(t *testing.T) {
	svc, db := setupRegistryTest(t)
	ctx := context.Background()

	_, err := svc.IssueCertificate(ctx, issuerAddr, issueInput("CERT-001"))
	require.NoError(t, err)

	require.NoError(t, svc.RevokeCertificate(ctx, issuerAddr, "CERT-001"))
	require.NoError(t, svc.RevokeCertificate(ctx, issuerAddr, "CERT-001"))

	var events int64
	require.NoError(t, db.Model(&models.RegistryEvent{}).Where("event_type = ?", models.EventRevoked).Count(&events).Error)
	assert.Equal(t, int64(1), events)
}

func TestRevokeCertificate_AdminWithoutIssuerAllowed(t *testing.T) {
	svc, db := setupRegistryTest(t)
	ctx := context.Background()

	// a pure admin: granted admin only
	admin := "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"
	require.NoError(t, db.Create(&models.RoleGrant{Role: constants.RoleAdmin, Address: admin, GrantedBy: ownerAddr}).Error)

	_, err := svc.IssueCertificate(ctx, issuerAddr, issueInput("CERT-001"))
	require.NoError(t, err)

	require.NoError(t, svc.RevokeCertificate(ctx, admin, "CERT-001"))
}

func TestRevokeCertificate_Unauthorized(t *testing.T) {
	svc, _ := setupRegistryTest(t)
	ctx := context.Background()

	_, err := svc.IssueCertificate(ctx, issuerAddr, issueInput("CERT-001"))
	require.NoError(t, err)

	err = svc.RevokeCertificate(ctx, otherAddr, "CERT-001")
	assert.ErrorIs(t, err, ErrAuthorization)

	got, err := svc.GetCertificate(ctx, "CERT-001")
	require.NoError(t, err)
	assert.True(t, got.IsValid)
}

func TestRevokeCertificate_UnknownID(t *testing.T) {
	svc, _ := setupRegistryTest(t)

	err := svc.RevokeCertificate(context.Background(), issuerAddr, "NOPE")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIssueCertificate_CallerAddressCaseInsensitive(t *testing.T) {
	svc, _ := setupRegistryTest(t)
	ctx := context.Background()

	upper := "0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB"
	view, err := svc.IssueCertificate(ctx, upper, issueInput("CERT-001"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), view.TokenID)
}

func TestIssueCertificate_RecordsEvent(t *testing.T) {
	svc, db := setupRegistryTest(t)
	ctx := context.Background()

	_, err := svc.IssueCertificate(ctx, issuerAddr, issueInput("CERT-001"))
	require.NoError(t, err)

	var event models.RegistryEvent
	require.NoError(t, db.Where("event_type = ?", models.EventIssued).First(&event).Error)
	assert.Equal(t, issuerAddr, event.Actor)
	require.NotNil(t, event.CertificateID)
	assert.Equal(t, "CERT-001", *event.CertificateID)
}
