package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// Parameters of the legacy "salt:key" records. The salt is stored as hex and
// the hex text itself (not the decoded bytes) is fed to scrypt.
const (
	scryptN         = 16384
	scryptR         = 8
	scryptP         = 1
	scryptKeyLength = 64
	scryptSaltBytes = 16
)

// HashLegacy produces a legacy scrypt record. New passwords should use
// Hasher.Hash; this exists so imported accounts and fixtures can be created
// in the same shape the previous system stored.
func HashLegacy(password string) (string, error) {
	raw := make([]byte, scryptSaltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("cryptox: failed to read salt: %w", err)
	}
	salt := hex.EncodeToString(raw)

	key, err := scrypt.Key([]byte(password), []byte(salt), scryptN, scryptR, scryptP, scryptKeyLength)
	if err != nil {
		return "", err
	}
	return salt + ":" + hex.EncodeToString(key), nil
}

func verifyScrypt(password, record string) (bool, error) {
	salt, encoded, found := strings.Cut(record, ":")
	if !found || salt == "" || strings.Contains(encoded, ":") {
		return false, errMalformedHash
	}
	if _, err := hex.DecodeString(salt); err != nil {
		return false, errMalformedHash
	}

	expected, err := hex.DecodeString(encoded)
	if err != nil || len(expected) != scryptKeyLength {
		return false, errMalformedHash
	}

	computed, err := scrypt.Key([]byte(password), []byte(salt), scryptN, scryptR, scryptP, scryptKeyLength)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}
