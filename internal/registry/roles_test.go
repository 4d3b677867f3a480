package registry

import (
	"context"
	"testing"

	"certledger-backend/internal/models"
	"certledger-backend/internal/pkg/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrantRole(t *testing.T) {
	svc, _ := setupRegistryTest(t)
	ctx := context.Background()

	require.NoError(t, svc.GrantRole(ctx, ownerAddr, constants.RoleIssuer, otherAddr))

	has, err := svc.HasRole(ctx, constants.RoleIssuer, otherAddr)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestGrantRole_NonAdminRejected(t *testing.T) {
	svc, _ := setupRegistryTest(t)
	ctx := context.Background()

	// issuerAddr holds issuer but not admin
	err := svc.GrantRole(ctx, issuerAddr, constants.RoleIssuer, otherAddr)
	assert.ErrorIs(t, err, ErrAuthorization)

	has, err := svc.HasRole(ctx, constants.RoleIssuer, otherAddr)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestGrantRole_IdempotentNoSecondEvent(t *testing.T) {
	svc, db := setupRegistryTest(t)
	ctx := context.Background()

	require.NoError(t, svc.GrantRole(ctx, ownerAddr, constants.RoleIssuer, otherAddr))
	require.NoError(t, svc.GrantRole(ctx, ownerAddr, constants.RoleIssuer, otherAddr))

	var grants int64
	require.NoError(t, db.Model(&models.RoleGrant{}).Where("role = ? AND address = ?", constants.RoleIssuer, otherAddr).Count(&grants).Error)
	assert.Equal(t, int64(1), grants)

	var events int64
	require.NoError(t, db.Model(&models.RegistryEvent{}).Where("event_type = ?", models.EventRoleGranted).Count(&events).Error)
	assert.Equal(t, int64(1), events)
}

func TestGrantRole_UnknownRole(t *testing.T) {
	svc, _ := setupRegistryTest(t)

	err := svc.GrantRole(context.Background(), ownerAddr, "superuser", otherAddr)
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestRevokeRole(t *testing.T) {
	svc, _ := setupRegistryTest(t)
	ctx := context.Background()

	require.NoError(t, svc.RevokeRole(ctx, ownerAddr, constants.RoleIssuer, issuerAddr))

	has, err := svc.HasRole(ctx, constants.RoleIssuer, issuerAddr)
	require.NoError(t, err)
	assert.False(t, has)

	// the revoked issuer can no longer issue
	_, err = svc.IssueCertificate(ctx, issuerAddr, issueInput("CERT-001"))
	assert.ErrorIs(t, err, ErrAuthorization)
}

func TestRevokeRole_MissingGrantIsNoOp(t *testing.T) {
	svc, db := setupRegistryTest(t)
	ctx := context.Background()

	require.NoError(t, svc.RevokeRole(ctx, ownerAddr, constants.RoleIssuer, otherAddr))

	var events int64
	require.NoError(t, db.Model(&models.RegistryEvent{}).Where("event_type = ?", models.EventRoleRevoked).Count(&events).Error)
	assert.Equal(t, int64(0), events)
}

func TestHasRole_CaseInsensitive(t *testing.T) {
	svc, _ := setupRegistryTest(t)
	ctx := context.Background()

	require.NoError(t, svc.GrantRole(ctx, ownerAddr, constants.RoleIssuer, "0xDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDD"))

	has, err := svc.HasRole(ctx, constants.RoleIssuer, otherAddr)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = svc.HasRole(ctx, constants.RoleIssuer, "0xDdDdDDddddDDddDDDddDddDDddddddDdDDdddDdD")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestHasRole_UnknownAddressFalse(t *testing.T) {
	svc, _ := setupRegistryTest(t)

	has, err := svc.HasRole(context.Background(), constants.RoleAdmin, otherAddr)
	require.NoError(t, err)
	assert.False(t, has)
}
