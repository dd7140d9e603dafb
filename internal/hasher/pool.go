package hasher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Result is the outcome of hashing one file. Path is relative to the pool's
// root directory.
type Result struct {
	Path   string
	Digest string
	Err    error
}

// DigestSource resolves digests without hashing, typically from a cache of
// previous runs. Implementations must be safe for concurrent use.
type DigestSource interface {
	// Get returns a previously computed digest for the file, if the stored
	// entry still matches the file's size and modification time.
	Get(path string, size int64, modTime time.Time) (digest string, ok bool)
	// Put records a freshly computed digest for the file.
	Put(path string, size int64, modTime time.Time, digest string)
}

// Pool hashes files concurrently. Paths received on the input channel are
// relative to Root; results carry the same relative paths.
type Pool struct {
	Root      string
	Algorithm Algorithm
	Workers   int
	// Source, when non-nil, is consulted before hashing and updated after.
	Source DigestSource

	wg sync.WaitGroup
}

// NewPool creates a hashing pool over the given root directory.
func NewPool(root string, algorithm Algorithm, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		Root:      root,
		Algorithm: algorithm,
		Workers:   workers,
	}
}

// Run starts the worker goroutines and returns the result channel. The
// channel is closed once the input channel is drained and all workers have
// finished. Cancelling the context stops the workers early.
func (p *Pool) Run(ctx context.Context, paths <-chan string) <-chan Result {
	results := make(chan Result, p.Workers*2)

	p.wg.Add(p.Workers)
	for i := 0; i < p.Workers; i++ {
		go func() {
			defer p.wg.Done()
			p.worker(ctx, paths, results)
		}()
	}

	go func() {
		p.wg.Wait()
		close(results)
	}()

	return results
}

func (p *Pool) worker(ctx context.Context, paths <-chan string, results chan<- Result) {
	for rel := range paths {
		select {
		case <-ctx.Done():
			return
		default:
		}
		results <- p.hashOne(rel)
	}
}

func (p *Pool) hashOne(rel string) Result {
	full := filepath.Join(p.Root, rel)

	info, err := os.Stat(full)
	if err != nil {
		return Result{Path: rel, Err: err}
	}

	if p.Source != nil {
		if digest, ok := p.Source.Get(full, info.Size(), info.ModTime()); ok {
			log.Debug().Str("file", rel).Msg("digest served from cache")
			return Result{Path: rel, Digest: digest}
		}
	}

	digest, err := HashFile(full, p.Algorithm)
	if err != nil {
		return Result{Path: rel, Err: err}
	}
	if p.Source != nil {
		p.Source.Put(full, info.Size(), info.ModTime(), digest)
	}
	return Result{Path: rel, Digest: digest}
}
