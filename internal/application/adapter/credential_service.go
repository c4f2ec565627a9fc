// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

// CredentialService defines the interface for hashing and verifying the edit gate credential.
type CredentialService interface {
	// HashCredential hashes a plain text credential using bcrypt.
	HashCredential(credential string) (string, error)

	// VerifyCredential compares a plain text credential with a hashed one.
	VerifyCredential(hashedCredential, credential string) error
}
