package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// EncryptionService handles encryption/decryption of user data. Journal
// entries flagged is_encrypted store their content through this service.
type EncryptionService struct {
	masterKey []byte
}

// NewEncryptionService creates a new encryption service with the given master key.
// masterKey should be a 32-byte hex-encoded string (64 characters).
func NewEncryptionService(masterKeyHex string) (*EncryptionService, error) {
	if masterKeyHex == "" {
		return nil, errors.New("encryption master key is required")
	}

	masterKey, err := hex.DecodeString(masterKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid master key format (must be hex): %w", err)
	}

	if len(masterKey) != 32 {
		return nil, fmt.Errorf("master key must be 32 bytes (64 hex characters), got %d bytes", len(masterKey))
	}

	return &EncryptionService{masterKey: masterKey}, nil
}

// DeriveUserKey derives a unique encryption key for a specific user using HKDF.
func (e *EncryptionService) DeriveUserKey(userID string) ([]byte, error) {
	if userID == "" {
		return nil, errors.New("user ID is required for key derivation")
	}

	hkdfReader := hkdf.New(sha256.New, e.masterKey, []byte(userID), []byte("purpleos-user-encryption"))

	userKey := make([]byte, 32) // AES-256 requires 32-byte key
	if _, err := io.ReadFull(hkdfReader, userKey); err != nil {
		return nil, fmt.Errorf("failed to derive user key: %w", err)
	}

	return userKey, nil
}

// Encrypt encrypts plaintext using AES-256-GCM with a user-specific key.
// Returns base64-encoded ciphertext (nonce prepended).
func (e *EncryptionService) Encrypt(userID string, plaintext []byte) (string, error) {
	if len(plaintext) == 0 {
		return "", nil
	}

	userKey, err := e.DeriveUserKey(userID)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(userKey)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt decrypts base64-encoded ciphertext using AES-256-GCM.
func (e *EncryptionService) Decrypt(userID string, ciphertextB64 string) ([]byte, error) {
	if ciphertextB64 == "" {
		return nil, nil
	}

	ciphertext, err := base64.StdEncoding.DecodeString(ciphertextB64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	userKey, err := e.DeriveUserKey(userID)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(userKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}

	return plaintext, nil
}

// EncryptString is a convenience method for encrypting strings
func (e *EncryptionService) EncryptString(userID string, plaintext string) (string, error) {
	return e.Encrypt(userID, []byte(plaintext))
}

// DecryptString is a convenience method for decrypting to strings
func (e *EncryptionService) DecryptString(userID string, ciphertext string) (string, error) {
	plaintext, err := e.Decrypt(userID, ciphertext)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// GenerateMasterKey generates a new random 32-byte master key (for setup)
func GenerateMasterKey() (string, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return hex.EncodeToString(key), nil
}
