package crypto

import (
	"errors"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	secret := "venturedesk-test-secret"
	keys := []string{
		"sk-proj-abcdef123456",
		"sk-ant-api03-xyz",
		"AIzaSyD-short",
		"x",
		"a key with spaces and unicode ☃",
	}

	for _, key := range keys {
		ciphertext, err := EncryptString(secret, key)
		if err != nil {
			t.Fatalf("encrypt %q: %v", key, err)
		}
		if ciphertext == key {
			t.Fatalf("ciphertext equals plaintext for %q", key)
		}
		plaintext, err := DecryptString(secret, ciphertext)
		if err != nil {
			t.Fatalf("decrypt %q: %v", key, err)
		}
		if plaintext != key {
			t.Fatalf("round trip mismatch: got %q, want %q", plaintext, key)
		}
	}
}

func TestEncryptProducesUniqueCiphertexts(t *testing.T) {
	secret := "venturedesk-test-secret"
	first, err := EncryptString(secret, "sk-same-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := EncryptString(secret, "sk-same-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == second {
		t.Fatal("expected random nonce to produce distinct ciphertexts")
	}
}

func TestDecryptWrongSecret(t *testing.T) {
	ciphertext, err := EncryptString("secret-one", "sk-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := DecryptString("secret-two", ciphertext); !errors.Is(err, ErrDecryptFailed) {
		t.Fatalf("expected ErrDecryptFailed, got %v", err)
	}
}

func TestDecryptGarbage(t *testing.T) {
	cases := []string{"not-base64!!!", "YWJj", ""}
	for _, input := range cases {
		if _, err := DecryptString("secret", input); !errors.Is(err, ErrDecryptFailed) {
			t.Fatalf("input %q: expected ErrDecryptFailed, got %v", input, err)
		}
	}
}

func TestEmptySecretRejected(t *testing.T) {
	if _, err := EncryptString("", "key"); err == nil {
		t.Fatal("expected error for empty secret on encrypt")
	}
	if _, err := DecryptString("", "abc"); err == nil {
		t.Fatal("expected error for empty secret on decrypt")
	}
}
