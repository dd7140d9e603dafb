package hasher

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// hashBufferSize is the copy buffer used when streaming file contents
// through a hash state.
const hashBufferSize = 1 << 20

// HashFile streams the file at path through a fresh hash state for the
// algorithm and returns the lowercase hex digest.
func HashFile(path string, algorithm Algorithm) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := algorithm.New()
	buf := make([]byte, hashBufferSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
