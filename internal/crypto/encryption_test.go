package crypto

import (
	"strings"
	"testing"
)

const testKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func newTestService(t *testing.T) *EncryptionService {
	t.Helper()
	svc, err := NewEncryptionService(testKey)
	if err != nil {
		t.Fatalf("NewEncryptionService: %v", err)
	}
	return svc
}

func TestNewEncryptionServiceValidation(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"empty key", ""},
		{"not hex", strings.Repeat("z", 64)},
		{"too short", "abcd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewEncryptionService(tt.key); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	svc := newTestService(t)

	plaintext := "late night thought: ship the thing tomorrow"
	ciphertext, err := svc.EncryptString("user-1", plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if ciphertext == plaintext {
		t.Fatal("ciphertext equals plaintext")
	}

	decrypted, err := svc.DecryptString("user-1", ciphertext)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if decrypted != plaintext {
		t.Errorf("round trip lost data: %q", decrypted)
	}
}

func TestDecryptWithWrongUserFails(t *testing.T) {
	svc := newTestService(t)

	ciphertext, err := svc.EncryptString("user-1", "private entry")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	if _, err := svc.DecryptString("user-2", ciphertext); err == nil {
		t.Error("another user's derived key should not decrypt")
	}
}

func TestEncryptEmptyIsEmpty(t *testing.T) {
	svc := newTestService(t)
	out, err := svc.EncryptString("user-1", "")
	if err != nil || out != "" {
		t.Errorf("empty plaintext: (%q, %v)", out, err)
	}
}

func TestGenerateMasterKey(t *testing.T) {
	key, err := GenerateMasterKey()
	if err != nil {
		t.Fatalf("GenerateMasterKey: %v", err)
	}
	if len(key) != 64 {
		t.Errorf("key length = %d, want 64 hex chars", len(key))
	}
	if _, err := NewEncryptionService(key); err != nil {
		t.Errorf("generated key rejected: %v", err)
	}
}
