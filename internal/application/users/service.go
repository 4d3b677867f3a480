package users

import (
	"context"
	"errors"
	"strings"

	"certledger-backend/internal/models"
	"certledger-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidEmail    = errors.New("Invalid email format")
	ErrWeakPassword    = errors.New("Password does not meet requirements")
	ErrInvalidFullname = errors.New("Invalid fullname")
	ErrInvalidAddress  = errors.New("Invalid wallet address")
	ErrEmailExists     = errors.New("Email already in use")
	ErrAddressExists   = errors.New("Address already in use")
	ErrUserNotFound    = errors.New("User not found")
)

// Service manages operator accounts for the issuance console.
type Service struct {
	DB *gorm.DB
}

// CreateInput for operator onboarding.
type CreateInput struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Address  string `json:"address"`
}

// Create validates input, hashes the password and stores the account. The
// address is stored lowercased; registry roles are granted separately.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.User, error) {
	if !validation.IsValidFullname(in.Fullname) {
		return nil, ErrInvalidFullname
	}
	if !validation.IsValidEmail(in.Email) {
		return nil, ErrInvalidEmail
	}
	if !validation.IsValidPassword(in.Password) {
		return nil, ErrWeakPassword
	}
	if !validation.IsValidAddress(in.Address) {
		return nil, ErrInvalidAddress
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Fullname:     in.Fullname,
		Email:        in.Email,
		PasswordHash: string(hash),
		Address:      strings.ToLower(in.Address),
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Where("email = ?", in.Email).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrEmailExists
		}
		if err := tx.Model(&models.User{}).Where("address = ?", user.Address).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrAddressExists
		}
		return tx.Create(user).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// View returns one account by id.
func (s *Service) View(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
