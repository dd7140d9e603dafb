// Package scanner walks a directory tree under a bounded recursion policy
// and emits the files to be hashed.
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/lukasm/checksums/internal/depth"
)

// Options controls walk behavior beyond the recursion policy.
type Options struct {
	// FollowSymlinks resolves symbolic links instead of skipping them.
	FollowSymlinks bool
	// Exclude holds absolute paths that must not be emitted, such as the
	// checksum file itself and its lock file.
	Exclude map[string]struct{}
}

// Walker walks a single root directory.
type Walker struct {
	root string
	opts Options
}

// New creates a Walker for the given root directory. The root is expected
// to be an absolute, canonical path (the configuration resolver guarantees
// this for the tool's entry points).
func New(root string, opts Options) *Walker {
	return &Walker{root: root, opts: opts}
}

// Walk traverses the tree and returns a channel of file paths relative to
// the root, in slash form, plus a channel of per-path errors. The policy d
// bounds the descent: files directly under the root are always emitted,
// and a subdirectory is entered only while d.CanRecurse() holds, each level
// derived with d.NextLevel(). Both channels are closed when the walk ends.
func (w *Walker) Walk(ctx context.Context, d depth.Depth) (<-chan string, <-chan error) {
	files := make(chan string, 256)
	errs := make(chan error, 16)

	go func() {
		defer close(files)
		defer close(errs)
		w.walkDir(ctx, "", d, files, errs)
	}()

	return files, errs
}

func (w *Walker) walkDir(ctx context.Context, rel string, d depth.Depth, files chan<- string, errs chan<- error) {
	dir := filepath.Join(w.root, filepath.FromSlash(rel))

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.report(errs, fmt.Errorf("read directory %s: %w", dir, err))
		return
	}

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return
		default:
		}

		name := entry.Name()
		full := filepath.Join(dir, name)
		childRel := name
		if rel != "" {
			childRel = rel + "/" + name
		}

		if _, excluded := w.opts.Exclude[full]; excluded {
			continue
		}

		isDir := entry.IsDir()
		if entry.Type()&os.ModeSymlink != 0 {
			if !w.opts.FollowSymlinks {
				continue
			}
			info, err := os.Stat(full)
			if err != nil {
				w.report(errs, fmt.Errorf("resolve symlink %s: %w", full, err))
				continue
			}
			isDir = info.IsDir()
		}

		if isDir {
			if !d.CanRecurse() {
				continue
			}
			next, ok := d.NextLevel()
			if !ok {
				continue
			}
			w.walkDir(ctx, childRel, next, files, errs)
			continue
		}

		if !entry.Type().IsRegular() && entry.Type()&os.ModeSymlink == 0 {
			// Sockets, pipes and devices have no meaningful checksum.
			continue
		}

		select {
		case files <- childRel:
		case <-ctx.Done():
			return
		}
	}
}

func (w *Walker) report(errs chan<- error, err error) {
	select {
	case errs <- err:
	default:
		log.Warn().Err(err).Msg("walk error dropped, channel full")
	}
}
