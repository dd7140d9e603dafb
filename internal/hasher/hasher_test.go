package hasher

import (
	"context"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAlgorithm(t *testing.T) {
	t.Run("canonical names", func(t *testing.T) {
		for _, name := range SupportedAlgorithms() {
			a, err := ParseAlgorithm(name)
			require.NoError(t, err, "ParseAlgorithm(%q)", name)
			assert.Equal(t, name, a.String())
		}
	})

	t.Run("case and separators are ignored", func(t *testing.T) {
		cases := map[string]Algorithm{
			"sha1":     SHA1,
			"Sha-1":    SHA1,
			"sha-256":  SHA2256,
			"SHA2_256": SHA2256,
			"sha256":   SHA2256,
			"sha512":   SHA2512,
			"sha3":     SHA3512,
			"blake2":   BLAKE2B,
			"blake-2s": BLAKE2S,
			"crc-32":   CRC32,
			"md5":      MD5,
		}
		for name, want := range cases {
			got, err := ParseAlgorithm(name)
			require.NoError(t, err, "ParseAlgorithm(%q)", name)
			assert.Equal(t, want, got, "ParseAlgorithm(%q)", name)
		}
	})

	t.Run("unknown names are rejected", func(t *testing.T) {
		for _, name := range []string{"", "sha4", "xxhash", "crc128"} {
			_, err := ParseAlgorithm(name)
			assert.Error(t, err, "ParseAlgorithm(%q)", name)
		}
	})
}

func TestDigests(t *testing.T) {
	// Standard test vectors: empty input for the cryptographic algorithms,
	// "123456789" for the CRC check values.
	empty := []byte{}
	check := []byte("123456789")

	cases := []struct {
		algorithm Algorithm
		input     []byte
		want      string
	}{
		{SHA1, empty, "da39a3ee5e6b4b0d3255bfef95601890afd80709"},
		{SHA1, []byte("abc"), "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{SHA2256, empty, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{SHA2512, empty, "cf83e1357eefb8bdf1542850d66d8007d620e4050b5715dc83f4a921d36ce9ce47d0d13c5d85f2b0ff8318d2877eec2f63b931bd47417a81a538327af927da3e"},
		{SHA3256, empty, "a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a"},
		{SHA3512, empty, "a69f73cca23a9ac5c8b567dc185a756e97c982164fe25859e0d1dcc1475c80a615b2123af1f5f94c11e3e9402c3ac558f500199d95b6d3e301758586281dcd26"},
		{BLAKE2B, empty, "786a02f742015903c6c6fd852552d272912f4740e15847618a86e217f71f5419d25e1031afee585313896444934eb04b903a685b1448b755d56f701afe9be2ce"},
		{BLAKE2S, empty, "69217a3079908094e11121d042354a7c1f55b6482ca1a51e1b250dfd1ed0eef9"},
		{MD5, empty, "d41d8cd98f00b204e9800998ecf8427e"},
		{CRC32, check, "cbf43926"},
		{CRC16, check, "bb3d"},
		{CRC8, check, "f4"},
	}

	for _, tc := range cases {
		t.Run(tc.algorithm.String(), func(t *testing.T) {
			h := tc.algorithm.New()
			_, err := h.Write(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, hex.EncodeToString(h.Sum(nil)))
		})
	}
}

func TestDigestSizes(t *testing.T) {
	for _, a := range []Algorithm{SHA1, SHA2256, SHA2512, SHA3256, SHA3512, BLAKE2B, BLAKE2S, MD5, CRC64, CRC32, CRC16, CRC8} {
		h := a.New()
		_, err := h.Write([]byte("some input"))
		require.NoError(t, err)
		assert.Len(t, h.Sum(nil), a.Size(), "%v digest size", a)
	}
}

func TestCRCReset(t *testing.T) {
	for _, a := range []Algorithm{CRC16, CRC8} {
		h := a.New()
		_, err := h.Write([]byte("123456789"))
		require.NoError(t, err)
		first := h.Sum(nil)

		h.Reset()
		_, err = h.Write([]byte("123456789"))
		require.NoError(t, err)
		assert.Equal(t, first, h.Sum(nil), "%v digest changed after Reset", a)
	}
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0644))

	digest, err := HashFile(path, SHA1)
	require.NoError(t, err)
	assert.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89d", digest)

	_, err = HashFile(filepath.Join(dir, "missing"), SHA1)
	assert.Error(t, err)
}

// recordingSource is an in-memory DigestSource for pool tests.
type recordingSource struct {
	mu      sync.Mutex
	entries map[string]string
	hits    int
	puts    int
}

func (s *recordingSource) Get(path string, size int64, modTime time.Time) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	digest, ok := s.entries[path]
	if ok {
		s.hits++
	}
	return digest, ok
}

func (s *recordingSource) Put(path string, size int64, modTime time.Time, digest string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		s.entries = map[string]string{}
	}
	s.entries[path] = digest
	s.puts++
}

func TestPoolRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("abc"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("abc"), 0644))

	pool := NewPool(dir, SHA1, 2)

	paths := make(chan string, 3)
	paths <- "a.txt"
	paths <- "b.txt"
	paths <- "missing.txt"
	close(paths)

	results := map[string]Result{}
	for r := range pool.Run(context.Background(), paths) {
		results[r.Path] = r
	}

	require.Len(t, results, 3)
	assert.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89d", results["a.txt"].Digest)
	assert.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89d", results["b.txt"].Digest)
	assert.Error(t, results["missing.txt"].Err)
}

func TestPoolUsesDigestSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("abc"), 0644))

	source := &recordingSource{}
	pool := NewPool(dir, SHA1, 1)
	pool.Source = source

	run := func() Result {
		paths := make(chan string, 1)
		paths <- "a.txt"
		close(paths)
		var last Result
		for r := range pool.Run(context.Background(), paths) {
			last = r
		}
		return last
	}

	// First run hashes and stores the digest.
	first := run()
	require.NoError(t, first.Err)
	assert.Equal(t, 1, source.puts)
	assert.Equal(t, 0, source.hits)

	// Second run is served from the source.
	second := run()
	require.NoError(t, second.Err)
	assert.Equal(t, first.Digest, second.Digest)
	assert.Equal(t, 1, source.hits)
	assert.Equal(t, 1, source.puts)
}
