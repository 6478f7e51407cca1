// Package fingerprint derives stable content-addressed identifiers for
// uploaded documents. The fingerprint doubles as the vector index partition
// name, so two uploads of the same bytes land in the same partition.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Prefix distinguishes document partitions from anything else sharing the
// index.
const Prefix = "doc_"

// Fingerprint returns the partition identifier for the given document bytes:
// the prefix followed by the hex-encoded SHA-256 digest. It is a pure
// function of its input and is defined for any byte sequence, including an
// empty one.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return Prefix + hex.EncodeToString(sum[:])
}

// IsFingerprint reports whether s has the shape produced by Fingerprint.
func IsFingerprint(s string) bool {
	if !strings.HasPrefix(s, Prefix) {
		return false
	}

	digest := s[len(Prefix):]
	if len(digest) != sha256.Size*2 {
		return false
	}

	_, err := hex.DecodeString(digest)
	return err == nil
}
