package storage

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestEncryption(t *testing.T) {
	// Generate a 32-byte key (AES-256)
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}

	enc, err := NewEncryption(key)
	if err != nil {
		t.Fatalf("Failed to create encryption: %v", err)
	}

	// Test string encryption/decryption
	plaintext := []byte("my-secret-api-key-12345")
	ciphertext, err := enc.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Failed to encrypt: %v", err)
	}

	decrypted, err := enc.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("Failed to decrypt: %v", err)
	}

	if string(decrypted) != string(plaintext) {
		t.Errorf("Decrypted text doesn't match original. Got %s, want %s", decrypted, plaintext)
	}
}

func TestEncryptionFromHex(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"valid", strings.Repeat("ab", 32), false},
		{"too short", strings.Repeat("ab", 16), true},
		{"not hex", strings.Repeat("zz", 32), true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEncryptionFromHex(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewEncryptionFromHex() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEncryptString(t *testing.T) {
	key := make([]byte, 32)
	enc, _ := NewEncryption(key)

	ciphertext, err := enc.EncryptString("sk-ant-1234567890")
	if err != nil {
		t.Fatalf("Failed to encrypt API key: %v", err)
	}
	if ciphertext == "sk-ant-1234567890" {
		t.Fatal("Ciphertext must differ from plaintext")
	}

	decrypted, err := enc.DecryptString(ciphertext)
	if err != nil {
		t.Fatalf("Failed to decrypt API key: %v", err)
	}
	if decrypted != "sk-ant-1234567890" {
		t.Errorf("Decrypted API key doesn't match original, got %s", decrypted)
	}
}

func TestGenerateKey(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}

	if len(key) != 64 {
		t.Errorf("Generated key has wrong length. Got %d, want 64", len(key))
	}

	// Test that we can use the generated key
	enc, err := NewEncryptionFromHex(key)
	if err != nil {
		t.Fatalf("Failed to create encryption with generated key: %v", err)
	}

	ciphertext, _ := enc.EncryptString("sk-test")
	decrypted, _ := enc.DecryptString(ciphertext)
	if decrypted != "sk-test" {
		t.Errorf("Encryption with generated key failed")
	}

	other, _ := GenerateKey()
	if other == key {
		t.Error("GenerateKey() returned the same key twice")
	}
}

func TestInvalidKeySize(t *testing.T) {
	// Test invalid key size
	_, err := NewEncryption([]byte("too-short"))
	if err == nil {
		t.Error("Expected error for invalid key size")
	}
}

func TestDecryptTampered(t *testing.T) {
	key := make([]byte, 32)
	enc, _ := NewEncryption(key)

	if _, err := enc.DecryptString("not-base64!"); err == nil {
		t.Error("Expected error for invalid base64")
	}

	if _, err := enc.DecryptString(base64.StdEncoding.EncodeToString([]byte("short"))); err == nil {
		t.Error("Expected error for short ciphertext")
	}

	other, _ := NewEncryption(append(make([]byte, 31), 1))
	ciphertext, _ := other.EncryptString("secret")
	if _, err := enc.DecryptString(ciphertext); err == nil {
		t.Error("Expected error when decrypting with the wrong key")
	}
}
