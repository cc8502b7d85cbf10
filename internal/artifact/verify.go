package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
)

// Verifier checks downloaded archives against published digests and,
// when a keyring is available, detached GPG signatures.
type Verifier struct {
	keyringPath string
}

// NewVerifier creates a verifier. keyringPath may be empty, in which case
// GPG verification is unavailable and only SHA-256 checks can run.
func NewVerifier(keyringPath string) *Verifier {
	return &Verifier{keyringPath: keyringPath}
}

// VerifySHA256 computes the SHA-256 digest of the file at path and
// compares it byte-for-byte (case-insensitive hex) against expected.
// A mismatch returns ErrChecksumMismatch; the caller must not extract.
func (v *Verifier) VerifySHA256(path, expected string) error {
	actual, err := ComputeSHA256(path)
	if err != nil {
		return fmt.Errorf("calculate checksum: %w", err)
	}

	if !strings.EqualFold(actual, expected) {
		return fmt.Errorf("%w:\nactual:   %s\nexpected: %s", ErrChecksumMismatch, actual, expected)
	}

	return nil
}

// CanVerifyGPG reports whether a usable keyring is configured.
func (v *Verifier) CanVerifyGPG() bool {
	if v.keyringPath == "" {
		return false
	}
	info, err := os.Stat(v.keyringPath)
	return err == nil && !info.IsDir() && info.Size() > 0
}

// VerifyGPG checks the detached signature at sigPath over the file at
// path against the configured keyring. Armored signatures are tried
// first, then binary.
func (v *Verifier) VerifyGPG(path, sigPath string) error {
	keyring, err := v.loadKeyring()
	if err != nil {
		return fmt.Errorf("load keyring: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open artifact: %w", err)
	}
	defer file.Close()

	sigFile, err := os.Open(sigPath)
	if err != nil {
		return fmt.Errorf("open signature: %w", err)
	}
	defer sigFile.Close()

	_, err = openpgp.CheckArmoredDetachedSignature(keyring, file, sigFile, nil)
	if err != nil {
		file.Seek(0, io.SeekStart)
		sigFile.Seek(0, io.SeekStart)
		_, err = openpgp.CheckDetachedSignature(keyring, file, sigFile, nil)
	}
	if err != nil {
		return fmt.Errorf("verify signature: %w", err)
	}

	return nil
}

// loadKeyring reads the configured keyring, accepting armored or binary
// form.
func (v *Verifier) loadKeyring() (openpgp.EntityList, error) {
	keyringFile, err := os.Open(v.keyringPath)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	defer keyringFile.Close()

	keyring, err := openpgp.ReadArmoredKeyRing(keyringFile)
	if err != nil {
		keyringFile.Seek(0, io.SeekStart)
		keyring, err = openpgp.ReadKeyRing(keyringFile)
		if err != nil {
			return nil, fmt.Errorf("read keyring: %w", err)
		}
	}

	if len(keyring) == 0 {
		return nil, fmt.Errorf("keyring is empty")
	}

	return keyring, nil
}

// ComputeSHA256 calculates the SHA-256 digest of a file as lowercase hex.
func ComputeSHA256(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
