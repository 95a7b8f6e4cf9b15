package crypto

import (
	"encoding/base64"
	"errors"
	"regexp"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Tests run at bcrypt.MinCost; the work factor does not change behavior,
// only latency.
func newTestService() *service {
	return &service{
		bcryptCost: bcrypt.MinCost,
		now:        time.Now,
	}
}

func TestHashPassword_VerifyRoundTrip(t *testing.T) {
	s := newTestService()

	hash, err := s.HashPassword("Str0ng@Pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "Str0ng@Pass" {
		t.Fatal("hash must not equal plaintext")
	}

	if !s.VerifyPassword("Str0ng@Pass", hash) {
		t.Error("expected correct password to verify")
	}
	if s.VerifyPassword("Wr0ng@Pass", hash) {
		t.Error("expected wrong password to fail verification")
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	s := newTestService()

	first, err := s.HashPassword("Str0ng@Pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.HashPassword("Str0ng@Pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password must differ (embedded salt)")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	s := newTestService()

	if s.VerifyPassword("anything", "not-a-bcrypt-hash") {
		t.Error("malformed hash must verify as false")
	}
	if s.VerifyPassword("anything", "") {
		t.Error("empty hash must verify as false")
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	s := newTestService()

	key, err := s.GenerateKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(key) != 32 {
		t.Fatalf("expected 32-byte key, got %d", len(key))
	}

	for _, plaintext := range []string{"0.00", "123456.78", "", "note with spaces"} {
		blob, err := s.Encrypt(plaintext, key)
		if err != nil {
			t.Fatalf("encrypt %q: unexpected error: %v", plaintext, err)
		}
		if blob == plaintext && plaintext != "" {
			t.Errorf("encrypt %q: blob equals plaintext", plaintext)
		}

		got, err := s.Decrypt(blob, key)
		if err != nil {
			t.Fatalf("decrypt %q: unexpected error: %v", plaintext, err)
		}
		if got != plaintext {
			t.Errorf("round trip mismatch: want %q, got %q", plaintext, got)
		}
	}
}

func TestEncrypt_UniqueNonces(t *testing.T) {
	s := newTestService()

	key, _ := s.GenerateKey()
	first, err := s.Encrypt("100.00", key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.Encrypt("100.00", key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == second {
		t.Error("two encryptions of the same plaintext must differ (random nonce)")
	}
}

func TestEncrypt_InvalidKeySize(t *testing.T) {
	s := newTestService()

	_, err := s.Encrypt("100.00", []byte("short"))
	if !errors.Is(err, ErrEncryptionFailed) {
		t.Fatalf("expected ErrEncryptionFailed, got %v", err)
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	s := newTestService()

	key, _ := s.GenerateKey()
	otherKey, _ := s.GenerateKey()

	blob, err := s.Encrypt("100.00", key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = s.Decrypt(blob, otherKey)
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestDecrypt_TamperedCiphertext(t *testing.T) {
	s := newTestService()

	key, _ := s.GenerateKey()
	blob, err := s.Encrypt("100.00", key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, _ := base64.StdEncoding.DecodeString(blob)
	raw[len(raw)-1] ^= 0xFF
	tampered := base64.StdEncoding.EncodeToString(raw)

	_, err = s.Decrypt(tampered, key)
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestDecrypt_MalformedInput(t *testing.T) {
	s := newTestService()
	key, _ := s.GenerateKey()

	if _, err := s.Decrypt("not base64 !!!", key); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed for invalid base64, got %v", err)
	}
	// valid base64, shorter than one GCM nonce
	if _, err := s.Decrypt(base64.StdEncoding.EncodeToString([]byte("tiny")), key); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed for short blob, got %v", err)
	}
}

func TestGenerateTransactionID_Format(t *testing.T) {
	fixed := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	s := &service{now: func() time.Time { return fixed }}

	id := s.GenerateTransactionID()

	pattern := regexp.MustCompile(`^TXN20260314092653[0-9A-F]{16}$`)
	if !pattern.MatchString(id) {
		t.Fatalf("unexpected transaction ID format: %q", id)
	}
}

func TestGenerateTransactionID_Unique(t *testing.T) {
	s := newTestService()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := s.GenerateTransactionID()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate transaction ID: %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestGenerateSessionToken(t *testing.T) {
	s := newTestService()

	first, err := s.GenerateSessionToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.GenerateSessionToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == second {
		t.Error("two session tokens must differ")
	}

	raw, err := base64.RawURLEncoding.DecodeString(first)
	if err != nil {
		t.Fatalf("token is not raw URL base64: %v", err)
	}
	if len(raw) != 32 {
		t.Errorf("expected 32 bytes of entropy, got %d", len(raw))
	}
}

func TestHashFileContent(t *testing.T) {
	s := newTestService()

	// sha256("hello")
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got := s.HashFileContent([]byte("hello")); got != want {
		t.Errorf("want %s, got %s", want, got)
	}

	if s.HashFileContent([]byte("hello")) == s.HashFileContent([]byte("hello!")) {
		t.Error("different content must hash differently")
	}
}
