package registry

import (
	"context"
	"database/sql"
	"errors"

	"certledger-backend/internal/models"
	"certledger-backend/internal/pkg/metrics"
	"certledger-backend/internal/pkg/validation"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// mintLocked allocates the next sequential token id (starting at 1) and
// records ownership. Callers hold s.mu, so MAX+1 cannot race.
func mintLocked(tx *gorm.DB, to string) (*models.Token, error) {
	if !validation.IsValidRecipient(to) {
		return nil, ErrInvalidRecipient
	}

	var maxID sql.NullInt64
	if err := tx.Model(&models.Token{}).Select("MAX(token_id)").Scan(&maxID).Error; err != nil {
		return nil, err
	}
	token := &models.Token{
		TokenID:      uint64(maxID.Int64) + 1,
		OwnerAddress: normalizeAddress(to),
	}
	if err := tx.Create(token).Error; err != nil {
		return nil, err
	}
	return token, nil
}

// OwnerOf returns the owner of a minted token. Unknown ids fail with ErrNotFound.
func (s *Service) OwnerOf(ctx context.Context, tokenID uint64) (string, error) {
	var token models.Token
	if err := s.DB.WithContext(ctx).Where("token_id = ?", tokenID).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return token.OwnerAddress, nil
}

// Transfer is the owner-initiated transfer path. It exists for surface
// compatibility and always fails: tokens are soulbound.
func (s *Service) Transfer(ctx context.Context, caller, to string, tokenID uint64) error {
	return s.blockTransfer(caller, tokenID)
}

// TransferFrom is the operator/approval transfer path. Always fails.
func (s *Service) TransferFrom(ctx context.Context, operator, from, to string, tokenID uint64) error {
	return s.blockTransfer(operator, tokenID)
}

// BatchTransfer is the batch transfer path. Always fails before touching any token.
func (s *Service) BatchTransfer(ctx context.Context, operator string, tos []string, tokenIDs []uint64) error {
	var first uint64
	if len(tokenIDs) > 0 {
		first = tokenIDs[0]
	}
	return s.blockTransfer(operator, first)
}

// blockTransfer is the single rejection gate every transfer path routes
// through, before any state is read or written.
func (s *Service) blockTransfer(caller string, tokenID uint64) error {
	metrics.TransfersRejected.Inc()
	log.Warn().Str("caller", normalizeAddress(caller)).Uint64("token_id", tokenID).Msg("transfer rejected: token is soulbound")
	return ErrSoulbound
}
