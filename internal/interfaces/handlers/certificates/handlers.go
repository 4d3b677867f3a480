package certificates

import (
	"errors"

	"certledger-backend/internal/application/tokenuri"
	"certledger-backend/internal/middleware"
	"certledger-backend/internal/pkg/response"
	"certledger-backend/internal/pkg/validation"
	"certledger-backend/internal/registry"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// Handlers holds dependencies for certificate endpoints.
type Handlers struct {
	Service *registry.Service
}

// IssueRequest body for POST /issue.
type IssueRequest struct {
	Recipient     string `json:"recipient" validate:"required"`
	CertificateID string `json:"certificate_id" validate:"required,max=128"`
	StudentName   string `json:"student_name" validate:"required"`
	Course        string `json:"course" validate:"required"`
	IssueDate     string `json:"issue_date" validate:"required"`
	IssuerName    string `json:"issuer_name" validate:"required"`
	MetadataURI   string `json:"metadata_uri"`
}

// BatchIssueRequest body for POST /batch-issue: parallel arrays, one entry
// per certificate. metadata_uris may be omitted to generate inline metadata.
type BatchIssueRequest struct {
	Recipients     []string `json:"recipients" validate:"required,min=1"`
	CertificateIDs []string `json:"certificate_ids" validate:"required,min=1"`
	StudentNames   []string `json:"student_names" validate:"required"`
	Courses        []string `json:"courses" validate:"required"`
	IssueDates     []string `json:"issue_dates" validate:"required"`
	IssuerNames    []string `json:"issuer_names" validate:"required"`
	MetadataURIs   []string `json:"metadata_uris"`
}

// RevokeRequest body for PATCH /revoke.
type RevokeRequest struct {
	CertificateID string `json:"certificate_id" validate:"required"`
}

// Issue POST /api/v1/certificates/issue — mint a soulbound token and store
// the record. When metadata_uri is empty, an inline data-URI document is
// generated from the submitted fields.
func (h *Handlers) Issue(c *fiber.Ctx) error {
	var req IssueRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	if err := validate.Struct(req); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	if !validation.IsValidCertificateID(req.CertificateID) {
		return response.Error(c, "Invalid certificate_id format", fiber.StatusBadRequest, nil)
	}
	if !validation.IsValidRecipient(req.Recipient) {
		return response.Error(c, "Invalid recipient address", fiber.StatusBadRequest, nil)
	}

	caller := middleware.CallerAddress(c)
	if caller == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	metadataURI := req.MetadataURI
	if metadataURI == "" {
		var err error
		metadataURI, err = tokenuri.TokenURI(tokenuri.CertificateData{
			Name:   req.StudentName,
			Course: req.Course,
			Date:   req.IssueDate,
			Issuer: req.IssuerName,
			ID:     req.CertificateID,
		})
		if err != nil {
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	view, err := h.Service.IssueCertificate(c.Context(), caller, registry.IssueInput{
		Recipient:     req.Recipient,
		CertificateID: req.CertificateID,
		StudentName:   req.StudentName,
		Course:        req.Course,
		IssueDate:     req.IssueDate,
		IssuerName:    req.IssuerName,
		MetadataURI:   metadataURI,
	})
	if err != nil {
		return registryError(c, err)
	}
	return response.SuccessCreated(c, "Certificate issued", fiber.Map{"certificate": view}, nil)
}

// BatchIssue POST /api/v1/certificates/batch-issue — all-or-nothing batch.
func (h *Handlers) BatchIssue(c *fiber.Ctx) error {
	var req BatchIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	if err := validate.Struct(req); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}

	caller := middleware.CallerAddress(c)
	if caller == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	n := len(req.Recipients)
	sameLength := len(req.CertificateIDs) == n && len(req.StudentNames) == n &&
		len(req.Courses) == n && len(req.IssueDates) == n && len(req.IssuerNames) == n
	if len(req.MetadataURIs) == 0 && sameLength {
		uris := make([]string, n)
		for i := 0; i < n; i++ {
			uri, err := tokenuri.TokenURI(tokenuri.CertificateData{
				Name:   req.StudentNames[i],
				Course: req.Courses[i],
				Date:   req.IssueDates[i],
				Issuer: req.IssuerNames[i],
				ID:     req.CertificateIDs[i],
			})
			if err != nil {
				return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
			}
			uris[i] = uri
		}
		req.MetadataURIs = uris
	}

	views, err := h.Service.BatchIssueCertificate(c.Context(), caller, registry.BatchInput{
		Recipients:     req.Recipients,
		CertificateIDs: req.CertificateIDs,
		StudentNames:   req.StudentNames,
		Courses:        req.Courses,
		IssueDates:     req.IssueDates,
		IssuerNames:    req.IssuerNames,
		MetadataURIs:   req.MetadataURIs,
	})
	if err != nil {
		return registryError(c, err)
	}
	return response.SuccessCreated(c, "Batch issued", fiber.Map{
		"certificates": views,
		"count":        len(views),
	}, nil)
}

// Verify GET /api/v1/certificates/verify/:certificate_id — public read.
// Revoked certificates return 200 with is_valid=false; only never-issued ids 404.
func (h *Handlers) Verify(c *fiber.Ctx) error {
	certificateID := c.Params("certificate_id")
	if certificateID == "" {
		return response.Error(c, "certificate_id is required", fiber.StatusBadRequest, nil)
	}

	view, err := h.Service.GetCertificate(c.Context(), certificateID)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return response.NotFound(c, "Certificate not found")
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Certificate found", fiber.Map{"certificate": view}, nil)
}

// Revoke PATCH /api/v1/certificates/revoke — flips is_valid to false; the
// token survives. Re-revoking succeeds silently.
func (h *Handlers) Revoke(c *fiber.Ctx) error {
	var req RevokeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "certificate_id is required", fiber.StatusBadRequest, nil)
	}
	if err := validate.Struct(req); err != nil {
		return response.Error(c, "certificate_id is required", fiber.StatusBadRequest, nil)
	}

	caller := middleware.CallerAddress(c)
	if caller == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.Service.RevokeCertificate(c.Context(), caller, req.CertificateID); err != nil {
		return registryError(c, err)
	}
	return response.Success(c, "Certificate revoked", fiber.Map{"certificate_id": req.CertificateID}, nil)
}

func registryError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, registry.ErrAuthorization):
		return response.Forbidden(c, err.Error())
	case errors.Is(err, registry.ErrDuplicateID):
		return response.Error(c, err.Error(), fiber.StatusConflict, nil)
	case errors.Is(err, registry.ErrNotFound):
		return response.NotFound(c, "Certificate not found")
	case errors.Is(err, registry.ErrInvalidRecipient), errors.Is(err, registry.ErrLengthMismatch):
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	default:
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
}
