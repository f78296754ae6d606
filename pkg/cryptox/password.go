package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Configuration for Argon2id hashing.
const (
	memory      = 19 * 1024 // Memory usage in KiB (19 MiB)
	iterations  = 2         // Iteration count
	parallelism = 1         // Number of threads
	keyLength   = 32        // Length of the generated hash
	saltLength  = 16        // Length of the salt
)

// Bounds on parameters read back from a stored record. Anything outside them
// is treated as malformed so a corrupt record cannot demand unbounded work.
const (
	maxMemory      = 256 * 1024 // KiB
	maxIterations  = 10
	maxParallelism = 16
	minKeyLength   = 16
	maxKeyLength   = 64
	maxSaltLength  = 64
)

var errMalformedHash = errors.New("cryptox: malformed password hash")

// Hasher derives and checks password records. The zero value is usable and
// hashes without a pepper.
type Hasher struct {
	// Pepper is appended to every password before derivation. Changing it
	// invalidates all existing argon2id records.
	Pepper string
}

// Hash generates a PHC-format Argon2id record including salt and parameters.
func (h Hasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("cryptox: failed to read salt: %w", err)
	}
	key := argon2.IDKey([]byte(password+h.Pepper), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches the stored record. Both argon2id
// PHC records and legacy scrypt "salt:key" records are accepted. Any
// malformed record yields false rather than an error.
func (h Hasher) Verify(password, record string) bool {
	var ok bool
	var err error
	if strings.HasPrefix(record, "$argon2id$") {
		ok, err = h.verifyArgon2(password, record)
	} else {
		ok, err = verifyScrypt(password, record)
	}
	return err == nil && ok
}

// NeedsRehash reports whether record was produced by something other than
// the current argon2id parameters.
func (h Hasher) NeedsRehash(record string) bool {
	want := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$", argon2.Version, memory, iterations, parallelism)
	return !strings.HasPrefix(record, want)
}

func (h Hasher) verifyArgon2(password, record string) (bool, error) {
	// ["", "argon2id", "v=19", "m=X,t=Y,p=Z", "salt", "hash"]
	parts := strings.Split(record, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, errMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, errMalformedHash
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return false, errMalformedHash
	}
	if mem == 0 || iters == 0 || par == 0 ||
		mem > maxMemory || iters > maxIterations || par > maxParallelism {
		return false, errMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 || len(salt) > maxSaltLength {
		return false, errMalformedHash
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(expected) < minKeyLength || len(expected) > maxKeyLength {
		return false, errMalformedHash
	}

	computed := argon2.IDKey(
		[]byte(password+h.Pepper),
		salt,
		iters,
		mem,
		par,
		uint32(len(expected)), // #nosec G115 - decoded from a stored record
	)
	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}
