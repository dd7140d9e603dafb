// Package checksum models the on-disk checksum file: one digest per line,
// writing, parsing and comparison against a freshly hashed tree.
package checksum

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Sums maps a slash-form path, relative to the hashed directory, to the
// lowercase hex digest of the file at that path.
type Sums map[string]string

// Format renders sums in the checksum file format: "<digest>  <path>" lines
// sorted by path, LF-terminated.
func Format(sums Sums) []byte {
	paths := make([]string, 0, len(sums))
	for p := range sums {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var buf bytes.Buffer
	for _, p := range paths {
		fmt.Fprintf(&buf, "%s  %s\n", sums[p], p)
	}
	return buf.Bytes()
}

// Read parses a checksum file. Blank lines are tolerated; any other line
// that does not follow the "<digest>  <path>" form is an error.
func Read(path string) (Sums, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open checksum file: %w", err)
	}
	defer f.Close()

	sums := Sums{}
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		digest, rel, ok := strings.Cut(line, "  ")
		if !ok || digest == "" || rel == "" || !isHex(digest) {
			return nil, fmt.Errorf("%s:%d: malformed checksum line %q", path, lineNo, line)
		}
		sums[rel] = strings.ToLower(digest)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read checksum file: %w", err)
	}
	return sums, nil
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// Mismatch is a file whose current digest differs from the recorded one.
type Mismatch struct {
	Path     string
	Expected string
	Actual   string
}

// VerifyResult classifies every path seen in the checksum file or on disk.
type VerifyResult struct {
	// Matched files have the recorded digest.
	Matched []string
	// Mismatched files exist but hash to something else.
	Mismatched []Mismatch
	// Missing paths are recorded in the file but absent on disk.
	Missing []string
	// Extra paths exist on disk but are not recorded.
	Extra []string
}

// Ok reports whether verification passed: every recorded file is present
// with its recorded digest and nothing unrecorded was found.
func (r VerifyResult) Ok() bool {
	return len(r.Mismatched) == 0 && len(r.Missing) == 0 && len(r.Extra) == 0
}

// Compare checks the digests recorded in a checksum file against the
// digests of the tree as it is now. All result slices are sorted by path.
func Compare(recorded, current Sums) VerifyResult {
	var r VerifyResult
	for path, want := range recorded {
		got, present := current[path]
		switch {
		case !present:
			r.Missing = append(r.Missing, path)
		case got == want:
			r.Matched = append(r.Matched, path)
		default:
			r.Mismatched = append(r.Mismatched, Mismatch{Path: path, Expected: want, Actual: got})
		}
	}
	for path := range current {
		if _, present := recorded[path]; !present {
			r.Extra = append(r.Extra, path)
		}
	}

	sort.Strings(r.Matched)
	sort.Strings(r.Missing)
	sort.Strings(r.Extra)
	sort.Slice(r.Mismatched, func(i, j int) bool { return r.Mismatched[i].Path < r.Mismatched[j].Path })
	return r
}
