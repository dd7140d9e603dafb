package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/lukasm/checksums/internal/cache"
	"github.com/lukasm/checksums/internal/checksum"
	"github.com/lukasm/checksums/internal/config"
	"github.com/lukasm/checksums/internal/hasher"
	"github.com/lukasm/checksums/internal/scanner"
)

// runCreate hashes the tree and writes the checksum file.
func runCreate(cmd *cobra.Command, cfg *config.Config) error {
	sums, hashErrs := hashTree(cmd, cfg)

	if err := checksum.Write(cfg.ChecksumFile, sums); err != nil {
		return fmt.Errorf("write checksum file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d %s checksum(s) to %s\n",
		len(sums), cfg.Algorithm, cfg.ChecksumFile)

	if hashErrs > 0 {
		return fmt.Errorf("%d file(s) could not be hashed", hashErrs)
	}
	return nil
}

// runVerify hashes the tree and compares it against the checksum file.
// A failed verification is reported per file and returned as an error so
// the process exits non-zero.
func runVerify(cmd *cobra.Command, cfg *config.Config) error {
	recorded, err := checksum.Read(cfg.ChecksumFile)
	if err != nil {
		return err
	}

	current, hashErrs := hashTree(cmd, cfg)

	result := checksum.Compare(recorded, current)
	renderVerify(cmd.OutOrStdout(), result)

	if hashErrs > 0 {
		return fmt.Errorf("%d file(s) could not be hashed", hashErrs)
	}
	if !result.Ok() {
		return fmt.Errorf("verification failed: %d mismatched, %d missing, %d extra",
			len(result.Mismatched), len(result.Missing), len(result.Extra))
	}
	return nil
}

// hashTree walks the configured directory under its depth policy and hashes
// every emitted file. Per-file failures are logged and counted rather than
// aborting the run.
func hashTree(cmd *cobra.Command, cfg *config.Config) (checksum.Sums, int) {
	ctx := cmd.Context()

	walker := scanner.New(cfg.Dir, scanner.Options{
		FollowSymlinks: cfg.FollowSymlinks,
		Exclude: map[string]struct{}{
			cfg.ChecksumFile:                     {},
			checksum.LockPath(cfg.ChecksumFile): {},
		},
	})
	files, walkErrs := walker.Walk(ctx, cfg.Depth)

	pool := hasher.NewPool(cfg.Dir, cfg.Algorithm, cfg.Jobs)

	if !cfg.NoCache {
		if source := openCache(cfg); source != nil {
			pool.Source = source
			defer source.Close()
		}
	}

	walkErrCount := make(chan int, 1)
	go func() {
		n := 0
		for err := range walkErrs {
			log.Warn().Err(err).Msg("walk error")
			n++
		}
		walkErrCount <- n
	}()

	sums := checksum.Sums{}
	hashErrs := 0
	for r := range pool.Run(ctx, files) {
		if r.Err != nil {
			log.Error().Err(r.Err).Str("file", r.Path).Msg("hashing failed")
			hashErrs++
			continue
		}
		sums[r.Path] = r.Digest
	}

	return sums, hashErrs + <-walkErrCount
}

// openCache opens the digest cache for the run. Cache trouble is never
// fatal; the run falls back to hashing everything.
func openCache(cfg *config.Config) *cache.Cache {
	path, err := cache.DefaultPath(cfg.Dir)
	if err != nil {
		log.Warn().Err(err).Msg("digest cache unavailable")
		return nil
	}
	c, err := cache.Open(path, cfg.Algorithm.String())
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("digest cache unavailable")
		return nil
	}
	return c
}
