package registry

import (
	"context"

	"certledger-backend/internal/pkg/constants"
	"certledger-backend/internal/pkg/metrics"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// BatchInput carries parallel arrays for batch issuance; all slices must have
// the same length.
type BatchInput struct {
	Recipients     []string
	CertificateIDs []string
	StudentNames   []string
	Courses        []string
	IssueDates     []string
	IssuerNames    []string
	MetadataURIs   []string
}

// BatchIssueCertificate applies issuance per index, in order, inside one
// transaction. All-or-nothing: any failure (duplicate id, bad recipient)
// rolls back every mint in the batch.
func (s *Service) BatchIssueCertificate(ctx context.Context, caller string, in BatchInput) ([]CertificateView, error) {
	n := len(in.Recipients)
	if len(in.CertificateIDs) != n || len(in.StudentNames) != n || len(in.Courses) != n ||
		len(in.IssueDates) != n || len(in.IssuerNames) != n || len(in.MetadataURIs) != n {
		metrics.IssueFailures.WithLabelValues("length_mismatch").Inc()
		return nil, ErrLengthMismatch
	}

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

	views := make([]CertificateView, 0, n)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := 0; i < n; i++ {
			cert, token, err := s.issueLocked(tx, caller, IssueInput{
				Recipient:     in.Recipients[i],
				CertificateID: in.CertificateIDs[i],
				StudentName:   in.StudentNames[i],
				Course:        in.Courses[i],
				IssueDate:     in.IssueDates[i],
				IssuerName:    in.IssuerNames[i],
				MetadataURI:   in.MetadataURIs[i],
			})
			if err != nil {
				return err
			}
			views = append(views, *viewOf(cert, token.OwnerAddress))
		}
		return nil
	})
	if err != nil {
		metrics.IssueFailures.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}

	metrics.CertificatesIssued.Add(float64(n))
	log.Info().Int("count", n).Str("caller", normalizeAddress(caller)).Msg("batch issued")
	return views, nil
}
