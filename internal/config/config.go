// Package config resolves the tool's run-time configuration from raw
// argument values into a validated, immutable Config.
//
// Resolution is atomic: every field is validated and either a complete
// Config is returned or the first field error is, never a partial value.
// The resulting Config is never mutated and is safe to share across any
// number of hashing workers.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/lukasm/checksums/internal/depth"
	"github.com/lukasm/checksums/internal/hasher"
)

// Field-specific resolution failures. Callers match them with errors.Is;
// the wrapped message carries the offending value.
var (
	// ErrInvalidDirectory marks a directory argument that does not exist,
	// cannot be canonicalized or is not a directory.
	ErrInvalidDirectory = errors.New("invalid directory")
	// ErrUnsupportedAlgorithm marks an algorithm name outside the
	// supported set.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
	// ErrMalformedDepth marks a depth value that is not a base-10 signed
	// integer.
	ErrMalformedDepth = errors.New("malformed depth")
)

// Mode selects between creating checksums and verifying existing ones.
// Resolving the create/verify flag pair into a single enum here means no
// inconsistent "both" or "neither" state can reach downstream code.
type Mode int

const (
	ModeVerify Mode = iota
	ModeCreate
)

func (m Mode) String() string {
	if m == ModeCreate {
		return "create"
	}
	return "verify"
}

// RawOptions carries the argument values as the CLI layer gathered them,
// before any validation.
type RawOptions struct {
	// Dir is the directory argument; empty means ".".
	Dir string
	// Algorithm is the algorithm name; empty means "SHA1".
	Algorithm string
	// Depth is the unparsed depth value; empty means "0".
	Depth string
	// CreatePos and VerifyPos are the positions of the last --create and
	// --verify flags on the command line, -1 when absent. The later flag
	// wins; with neither present the mode is verify.
	CreatePos int
	VerifyPos int
	// Jobs is the hashing worker count; values below 1 mean NumCPU.
	Jobs int
	// FollowSymlinks resolves symlinks during the walk.
	FollowSymlinks bool
	// ChecksumFile overrides the checksum file location; empty means
	// <dir>/<basename of dir>.hash.
	ChecksumFile string
	// NoCache disables the digest cache.
	NoCache bool
}

// Config is the resolved, immutable run configuration.
type Config struct {
	// Dir is the canonical absolute path of the directory to hash or
	// verify. It existed and was a directory at resolution time.
	Dir string
	// Algorithm is the validated checksum algorithm.
	Algorithm hasher.Algorithm
	// Mode is the resolved create/verify choice.
	Mode Mode
	// Depth bounds the directory recursion.
	Depth depth.Depth
	// Jobs is the hashing worker count, always >= 1.
	Jobs int
	// FollowSymlinks resolves symlinks during the walk.
	FollowSymlinks bool
	// ChecksumFile is the absolute path of the checksum file.
	ChecksumFile string
	// NoCache disables the digest cache.
	NoCache bool
}

// Resolve validates every raw field and constructs the Config. The first
// invalid field aborts resolution; errors wrap the matching sentinel.
// Directory canonicalization is the only validation that touches the
// filesystem.
func Resolve(raw RawOptions) (*Config, error) {
	dir, err := canonicalDir(raw.Dir)
	if err != nil {
		return nil, err
	}

	algorithmName := raw.Algorithm
	if algorithmName == "" {
		algorithmName = "SHA1"
	}
	algorithm, err := hasher.ParseAlgorithm(algorithmName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedAlgorithm, err)
	}

	depthValue := raw.Depth
	if depthValue == "" {
		depthValue = "0"
	}
	d, err := depth.Parse(depthValue)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDepth, err)
	}

	mode := ModeVerify
	if raw.CreatePos >= 0 && raw.CreatePos > raw.VerifyPos {
		mode = ModeCreate
	}

	jobs := raw.Jobs
	if jobs < 1 {
		jobs = runtime.NumCPU()
	}

	checksumFile := raw.ChecksumFile
	if checksumFile == "" {
		checksumFile = filepath.Join(dir, filepath.Base(dir)+".hash")
	} else if !filepath.IsAbs(checksumFile) {
		checksumFile, err = filepath.Abs(checksumFile)
		if err != nil {
			return nil, fmt.Errorf("resolve checksum file path: %w", err)
		}
	}

	return &Config{
		Dir:            dir,
		Algorithm:      algorithm,
		Mode:           mode,
		Depth:          d,
		Jobs:           jobs,
		FollowSymlinks: raw.FollowSymlinks,
		ChecksumFile:   checksumFile,
		NoCache:        raw.NoCache,
	}, nil
}

// canonicalDir resolves the directory argument to its absolute, symlink-free
// form and checks that it is an existing directory.
func canonicalDir(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidDirectory, dir, err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidDirectory, dir, err)
	}
	info, err := os.Stat(canonical)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidDirectory, dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrInvalidDirectory, dir)
	}
	return canonical, nil
}
