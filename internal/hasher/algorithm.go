// Package hasher defines the closed set of supported checksum algorithms and
// computes file digests with them, sequentially or through a worker pool.
package hasher

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"hash/crc32"
	"hash/crc64"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"
)

// Algorithm identifies one of the supported checksum algorithms.
//
// Unsupported names are rejected once by ParseAlgorithm, so downstream code
// can switch over Algorithm values exhaustively without a fallback case.
type Algorithm int

const (
	SHA1 Algorithm = iota
	SHA2256
	SHA2512
	SHA3256
	SHA3512
	BLAKE2B
	BLAKE2S
	MD5
	CRC64
	CRC32
	CRC16
	CRC8
)

// algorithmNames maps each Algorithm to its canonical display name.
var algorithmNames = map[Algorithm]string{
	SHA1:    "SHA1",
	SHA2256: "SHA2-256",
	SHA2512: "SHA2-512",
	SHA3256: "SHA3-256",
	SHA3512: "SHA3-512",
	BLAKE2B: "BLAKE2B",
	BLAKE2S: "BLAKE2S",
	MD5:     "MD5",
	CRC64:   "CRC64",
	CRC32:   "CRC32",
	CRC16:   "CRC16",
	CRC8:    "CRC8",
}

// aliases maps additional accepted spellings (normalized) to algorithms.
var aliases = map[string]Algorithm{
	"sha256": SHA2256,
	"sha512": SHA2512,
	"sha2":   SHA2512,
	"sha3":   SHA3512,
	"blake2": BLAKE2B,
}

// SupportedAlgorithms returns the canonical names of all supported
// algorithms, for help text and error messages.
func SupportedAlgorithms() []string {
	names := make([]string, 0, len(algorithmNames))
	for a := SHA1; a <= CRC8; a++ {
		names = append(names, algorithmNames[a])
	}
	return names
}

// ParseAlgorithm looks up an algorithm by name. Matching is
// case-insensitive and ignores dashes and underscores, so "sha-256",
// "SHA256" and "sha2_256" all resolve to SHA2-256.
func ParseAlgorithm(name string) (Algorithm, error) {
	normalized := normalizeName(name)
	for a, canonical := range algorithmNames {
		if normalized == normalizeName(canonical) {
			return a, nil
		}
	}
	if a, ok := aliases[normalized]; ok {
		return a, nil
	}
	return 0, fmt.Errorf("unknown algorithm %q, supported: %s",
		name, strings.Join(SupportedAlgorithms(), ", "))
}

func normalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "-", "")
	return strings.ReplaceAll(name, "_", "")
}

// String returns the canonical algorithm name.
func (a Algorithm) String() string {
	if name, ok := algorithmNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// Size returns the digest size in bytes.
func (a Algorithm) Size() int {
	return a.New().Size()
}

// New returns a fresh hash state for the algorithm.
func (a Algorithm) New() hash.Hash {
	switch a {
	case SHA1:
		return sha1.New()
	case SHA2256:
		return sha256.New()
	case SHA2512:
		return sha512.New()
	case SHA3256:
		return sha3.New256()
	case SHA3512:
		return sha3.New512()
	case BLAKE2B:
		h, err := blake2b.New512(nil)
		if err != nil {
			// New512 only fails for over-long keys; we pass none.
			panic(err)
		}
		return h
	case BLAKE2S:
		h, err := blake2s.New256(nil)
		if err != nil {
			panic(err)
		}
		return h
	case MD5:
		return md5.New()
	case CRC64:
		return crc64.New(crc64.MakeTable(crc64.ECMA))
	case CRC32:
		return crc32.NewIEEE()
	case CRC16:
		return newCRC16()
	case CRC8:
		return newCRC8()
	}
	panic(fmt.Sprintf("no constructor for %v", a))
}
