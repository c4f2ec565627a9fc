// Package adapters implements adapter interfaces from the application layer.
package adapters

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/backoffice/statement/internal/application/adapter"
)

// bcryptCost is the cost factor for bcrypt hashing.
const bcryptCost = 12

// credentialService implements the adapter.CredentialService interface.
type credentialService struct{}

// NewCredentialService creates a new credential service instance.
func NewCredentialService() adapter.CredentialService {
	return &credentialService{}
}

// HashCredential hashes a plain text credential using bcrypt with cost 12.
func (s *credentialService) HashCredential(credential string) (string, error) {
	if credential == "" {
		return "", errors.New("credential must not be empty")
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(credential), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// VerifyCredential compares a plain text credential with a hashed one.
func (s *credentialService) VerifyCredential(hashedCredential, credential string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedCredential), []byte(credential))
}

// ResolveCredentialHash returns the gate hash from configuration: a bcrypt
// hash is used as is, a plain secret is hashed once at start-up.
func ResolveCredentialHash(credentials adapter.CredentialService, hash, secret string) (string, error) {
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return "", errors.New("gate credential hash is not a bcrypt hash")
		}
		return hash, nil
	}
	if strings.TrimSpace(secret) == "" {
		return "", nil
	}
	return credentials.HashCredential(secret)
}
