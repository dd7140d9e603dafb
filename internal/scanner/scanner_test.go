package scanner

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukasm/checksums/internal/depth"
)

// buildTree creates:
//
//	root/top.txt
//	root/sub/mid.txt
//	root/sub/deep/bottom.txt
func buildTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub", "deep"), 0755))
	for _, f := range []string{
		"top.txt",
		filepath.Join("sub", "mid.txt"),
		filepath.Join("sub", "deep", "bottom.txt"),
	} {
		require.NoError(t, os.WriteFile(filepath.Join(root, f), []byte(f), 0644))
	}
	return root
}

func collect(t *testing.T, root string, d depth.Depth, opts Options) []string {
	t.Helper()
	files, errs := New(root, opts).Walk(context.Background(), d)

	var paths []string
	for f := range files {
		paths = append(paths, f)
	}
	for err := range errs {
		t.Errorf("unexpected walk error: %v", err)
	}
	sort.Strings(paths)
	return paths
}

func TestWalkDepths(t *testing.T) {
	root := buildTree(t)

	t.Run("last level lists only the root's files", func(t *testing.T) {
		paths := collect(t, root, depth.LastLevel, Options{})
		assert.Equal(t, []string{"top.txt"}, paths)
	})

	t.Run("one level descends once", func(t *testing.T) {
		paths := collect(t, root, depth.FromInt(1), Options{})
		assert.Equal(t, []string{"sub/mid.txt", "top.txt"}, paths)
	})

	t.Run("two levels reach the bottom", func(t *testing.T) {
		paths := collect(t, root, depth.FromInt(2), Options{})
		assert.Equal(t, []string{"sub/deep/bottom.txt", "sub/mid.txt", "top.txt"}, paths)
	})

	t.Run("infinite reaches the bottom", func(t *testing.T) {
		paths := collect(t, root, depth.Infinite, Options{})
		assert.Equal(t, []string{"sub/deep/bottom.txt", "sub/mid.txt", "top.txt"}, paths)
	})
}

func TestWalkExcludes(t *testing.T) {
	root := buildTree(t)
	excluded := filepath.Join(root, "top.txt")

	paths := collect(t, root, depth.Infinite, Options{
		Exclude: map[string]struct{}{excluded: {}},
	})
	assert.Equal(t, []string{"sub/deep/bottom.txt", "sub/mid.txt"}, paths)
}

func TestWalkSymlinks(t *testing.T) {
	root := buildTree(t)
	link := filepath.Join(root, "link.txt")
	if err := os.Symlink(filepath.Join(root, "top.txt"), link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	t.Run("skipped by default", func(t *testing.T) {
		paths := collect(t, root, depth.LastLevel, Options{})
		assert.Equal(t, []string{"top.txt"}, paths)
	})

	t.Run("followed when enabled", func(t *testing.T) {
		paths := collect(t, root, depth.LastLevel, Options{FollowSymlinks: true})
		assert.Equal(t, []string{"link.txt", "top.txt"}, paths)
	})
}

func TestWalkMissingRoot(t *testing.T) {
	files, errs := New(filepath.Join(t.TempDir(), "gone"), Options{}).Walk(context.Background(), depth.Infinite)

	var paths []string
	for f := range files {
		paths = append(paths, f)
	}
	var walkErrs []error
	for err := range errs {
		walkErrs = append(walkErrs, err)
	}

	assert.Empty(t, paths)
	assert.NotEmpty(t, walkErrs)
}

func TestWalkCancellation(t *testing.T) {
	root := buildTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files, errs := New(root, Options{}).Walk(ctx, depth.Infinite)
	var paths []string
	for f := range files {
		paths = append(paths, f)
	}
	for range errs {
	}

	// A cancelled context stops the walk before it emits the whole tree.
	assert.Less(t, len(paths), 3)
}
