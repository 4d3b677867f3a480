package registry

import (
	"context"

	"certledger-backend/internal/models"
	"certledger-backend/internal/pkg/constants"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// GrantRole adds address to the role's membership set. Admin only. Granting
// an already-held role succeeds without a second event.
func (s *Service) GrantRole(ctx context.Context, caller, role, address string) error {
	if !constants.IsValidRole(role) {
		return ErrUnknownRole
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ok, err := s.hasRole(ctx, s.DB, constants.RoleAdmin, caller)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAuthorization
	}

	addr := normalizeAddress(address)
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.RoleGrant{}).Where("role = ? AND address = ?", role, addr).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		grant := models.RoleGrant{Role: role, Address: addr, GrantedBy: normalizeAddress(caller)}
		if err := tx.Create(&grant).Error; err != nil {
			return err
		}
		log.Info().Str("role", role).Str("address", addr).Msg("role granted")
		return recordEvent(tx, models.EventRoleGranted, normalizeAddress(caller), nil, nil, map[string]interface{}{
			"role":    role,
			"address": addr,
		})
	})
}

// RevokeRole removes address from the role's membership set. Admin only.
// Revoking a role the address does not hold is a no-op.
func (s *Service) RevokeRole(ctx context.Context, caller, role, address string) error {
	if !constants.IsValidRole(role) {
		return ErrUnknownRole
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ok, err := s.hasRole(ctx, s.DB, constants.RoleAdmin, caller)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAuthorization
	}

	addr := normalizeAddress(address)
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("role = ? AND address = ?", role, addr).Delete(&models.RoleGrant{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		log.Info().Str("role", role).Str("address", addr).Msg("role revoked")
		return recordEvent(tx, models.EventRoleRevoked, normalizeAddress(caller), nil, nil, map[string]interface{}{
			"role":    role,
			"address": addr,
		})
	})
}

// HasRole is a pure read: true when address holds role. Unknown roles and
// addresses simply return false.
func (s *Service) HasRole(ctx context.Context, role, address string) (bool, error) {
	return s.hasRole(ctx, s.DB, role, address)
}

func (s *Service) hasRole(ctx context.Context, db *gorm.DB, role, address string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&models.RoleGrant{}).
		Where("role = ? AND address = ?", role, normalizeAddress(address)).
		Count(&n).Error
	return n > 0, err
}

func (s *Service) hasAnyRole(ctx context.Context, db *gorm.DB, address string, roles ...string) (bool, error) {
	for _, role := range roles {
		ok, err := s.hasRole(ctx, db, role, address)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
