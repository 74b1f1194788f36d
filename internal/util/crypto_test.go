package util

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// ============ password hashing ============

func TestHashPassword(t *testing.T) {
	password := "MyPassword123"

	hashed, err := HashPassword(password, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword error = %v", err)
	}
	if !strings.HasPrefix(hashed, "$2") {
		t.Errorf("hash %q is not a bcrypt digest", hashed)
	}

	if _, err := HashPassword("", bcrypt.MinCost); err == nil {
		t.Error("empty password should fail")
	}

	hashed2, _ := HashPassword(password, bcrypt.MinCost)
	if hashed == hashed2 {
		t.Error("same password should produce different hashes")
	}
}

func TestCheckPassword(t *testing.T) {
	password := "TestPass456"
	hashed, _ := HashPassword(password, bcrypt.MinCost)

	if !CheckPassword(password, hashed) {
		t.Error("correct password rejected")
	}
	if CheckPassword("WrongPass", hashed) {
		t.Error("wrong password accepted")
	}
	if CheckPassword("", hashed) {
		t.Error("empty password accepted")
	}
	if CheckPassword(password, "") {
		t.Error("empty hash accepted")
	}
	if CheckPassword(password, "not-a-bcrypt-hash") {
		t.Error("malformed hash accepted")
	}
}

// ============ AES ============

func TestEncryptDecryptAES(t *testing.T) {
	key := "backup-secret"
	plaintext := []byte(`{"customers":[{"name":"PT Maju"}]}`)

	enc, err := EncryptAES(key, plaintext)
	if err != nil {
		t.Fatalf("EncryptAES error = %v", err)
	}
	if bytes.Contains(enc, plaintext) {
		t.Error("ciphertext contains plaintext")
	}

	dec, err := DecryptAES(key, enc)
	if err != nil {
		t.Fatalf("DecryptAES error = %v", err)
	}
	if !bytes.Equal(dec, plaintext) {
		t.Errorf("DecryptAES = %q, want %q", dec, plaintext)
	}
}

func TestEncryptAES_FreshSalt(t *testing.T) {
	a, _ := EncryptAES("k", []byte("same"))
	b, _ := EncryptAES("k", []byte("same"))
	if bytes.Equal(a[:saltSize], b[:saltSize]) {
		t.Error("two encryptions share a salt")
	}
	if bytes.Equal(a, b) {
		t.Error("two encryptions produced identical output")
	}
}

func TestDecryptAES_WrongKey(t *testing.T) {
	enc, _ := EncryptAES("right", []byte("secret data"))
	if _, err := DecryptAES("wrong", enc); err == nil {
		t.Error("decrypt with wrong key should fail")
	}
}

func TestDecryptAES_Tampered(t *testing.T) {
	enc, _ := EncryptAES("k", []byte("secret data"))
	enc[len(enc)-1] ^= 0xff
	if _, err := DecryptAES("k", enc); err == nil {
		t.Error("decrypt of tampered data should fail")
	}
}

func TestDecryptAES_TooShort(t *testing.T) {
	if _, err := DecryptAES("k", []byte("short")); !errors.Is(err, ErrCipherTooShort) {
		t.Errorf("DecryptAES(short) error = %v, want ErrCipherTooShort", err)
	}
	if _, err := DecryptAES("k", make([]byte, saltSize+3)); !errors.Is(err, ErrCipherTooShort) {
		t.Errorf("DecryptAES(salt only) error = %v, want ErrCipherTooShort", err)
	}
}
