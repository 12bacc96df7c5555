package signer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/spf13/afero"
)

func writeTestKey(t *testing.T, fs afero.Fs, path, passphrase string) {
	t.Helper()

	entity, err := openpgp.NewEntity("Release Bot", "test", "bot@example.com", nil)
	if err != nil {
		t.Fatalf("Failed to create entity: %v", err)
	}

	if passphrase != "" {
		if err := entity.EncryptPrivateKeys([]byte(passphrase), nil); err != nil {
			t.Fatalf("Failed to encrypt key: %v", err)
		}
	}

	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PrivateKeyType, nil)
	if err != nil {
		t.Fatalf("Failed to create armor writer: %v", err)
	}
	if err := entity.SerializePrivateWithoutSigning(w, nil); err != nil {
		t.Fatalf("Failed to serialize key: %v", err)
	}
	w.Close()

	if err := afero.WriteFile(fs, path, buf.Bytes(), 0600); err != nil {
		t.Fatalf("Failed to write key: %v", err)
	}
}

func TestSignDetachedVerifies(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTestKey(t, fs, "/keys/release.asc", "")

	s, err := NewGPGSigner(fs, "/keys/release.asc", "")
	if err != nil {
		t.Fatalf("NewGPGSigner failed: %v", err)
	}

	record := []byte(`{"filename": "PixelExperience_raphael-12.1-20230615-1230-OFFICIAL.zip"}`)
	sig, err := s.SignDetached(record)
	if err != nil {
		t.Fatalf("SignDetached failed: %v", err)
	}

	if !bytes.Contains(sig, []byte("BEGIN PGP SIGNATURE")) {
		t.Errorf("Signature is not armored:\n%s", sig)
	}

	pub, err := s.GetPublicKey()
	if err != nil {
		t.Fatalf("GetPublicKey failed: %v", err)
	}

	keyring, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(pub))
	if err != nil {
		t.Fatalf("Failed to read public key: %v", err)
	}

	if _, err := openpgp.CheckArmoredDetachedSignature(keyring, bytes.NewReader(record), bytes.NewReader(sig), nil); err != nil {
		t.Errorf("Signature does not verify: %v", err)
	}

	tampered := append([]byte(nil), record...)
	tampered[2] = 'F'
	if _, err := openpgp.CheckArmoredDetachedSignature(keyring, bytes.NewReader(tampered), bytes.NewReader(sig), nil); err == nil {
		t.Errorf("Signature verified against tampered content")
	}
}

func TestEncryptedKey(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTestKey(t, fs, "/keys/locked.asc", "s3cret")

	if _, err := NewGPGSigner(fs, "/keys/locked.asc", ""); err == nil || !strings.Contains(err.Error(), "no passphrase") {
		t.Errorf("Expected missing passphrase error, got %v", err)
	}

	if _, err := NewGPGSigner(fs, "/keys/locked.asc", "wrong"); err == nil {
		t.Errorf("Expected wrong passphrase to fail")
	}

	s, err := NewGPGSigner(fs, "/keys/locked.asc", "s3cret")
	if err != nil {
		t.Fatalf("NewGPGSigner with passphrase failed: %v", err)
	}
	if _, err := s.SignDetached([]byte("data")); err != nil {
		t.Errorf("SignDetached failed: %v", err)
	}
}

func TestNewGPGSignerErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/keys/garbage", []byte("not a key"), 0600)

	if _, err := NewGPGSigner(fs, "", ""); err == nil {
		t.Errorf("Expected error for empty path")
	}
	if _, err := NewGPGSigner(fs, "/keys/missing.asc", ""); err == nil {
		t.Errorf("Expected error for missing file")
	}
	if _, err := NewGPGSigner(fs, "/keys/garbage", ""); err == nil {
		t.Errorf("Expected error for invalid key")
	}
}
