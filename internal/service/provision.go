package service

import (
	"crypto/rand"
	"math/big"

	"github.com/zopumarket/zopumarket/internal/constants"
	"github.com/zopumarket/zopumarket/internal/models"

	"golang.org/x/crypto/bcrypt"
)

const provisionPasswordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generatePassword draws a random temporary password.
func generatePassword(length int) (string, error) {
	if length <= 0 {
		length = 14
	}
	out := make([]byte, length)
	max := big.NewInt(int64(len(provisionPasswordAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = provisionPasswordAlphabet[n.Int64()]
	}
	return string(out), nil
}

// ProvisionPartnerOperator creates the operator account for an approved
// partner using its contact email. Returns the plain temporary password for
// one-time delivery; only the hash is stored. Idempotent: an existing
// operator short-circuits with an empty password.
func (s *UserAuthService) ProvisionPartnerOperator(partner *models.Partner) (*models.User, string, error) {
	if partner == nil || partner.ContactEmail == "" {
		return nil, "", ErrValidation
	}
	email, err := normalizeEmail(partner.ContactEmail)
	if err != nil {
		return nil, "", err
	}

	existing, err := s.userRepo.GetByPartnerID(partner.ID)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return existing, "", nil
	}
	byEmail, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, "", err
	}
	if byEmail != nil {
		return nil, "", ErrEmailTaken
	}

	password, err := generatePassword(14)
	if err != nil {
		return nil, "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	partnerID := partner.ID
	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  partner.ContactName,
		Company:      partner.CompanyName,
		Role:         constants.UserRolePartner,
		PartnerID:    &partnerID,
		Status:       constants.UserStatusActive,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", err
	}
	return user, password, nil
}
