// Package cmd wires the command-line interface: flag parsing, configuration
// resolution and the create/verify entry points.
package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/lukasm/checksums/internal/config"
	"github.com/lukasm/checksums/internal/hasher"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

// NewRootCommand creates the root command. The tool is single-command: the
// root itself runs the create or verify pass.
func NewRootCommand() *cobra.Command {
	return newRootCommand(os.Args[1:])
}

// newRootCommand takes the raw argument vector separately so tests can
// control flag ordering. Cobra only records flag presence, but create and
// verify are mutually overriding with the later flag winning, so the
// positions are recovered from the vector itself.
func newRootCommand(argv []string) *cobra.Command {
	var (
		algorithmFlag      string
		createFlag         bool
		verifyFlag         bool
		depthFlag          string
		jobsFlag           int
		fileFlag           string
		followSymlinksFlag bool
		noCacheFlag        bool
		verboseFlag        bool
	)

	cmd := &cobra.Command{
		Use:   "checksums [DIRECTORY]",
		Short: "Make or verify checksums of directory trees",
		Long: `Checksums hashes every file in a directory tree and either records the
digests in a checksum file or verifies the tree against one.

Supported algorithms: ` + strings.Join(hasher.SupportedAlgorithms(), ", ") + `.

A .checksums.yaml file in the target directory may provide per-directory
defaults for algorithm, depth, jobs, follow_symlinks and no_cache;
explicitly given flags override it.`,
		Version:      Version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verboseFlag {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				log.Debug().Msg("verbose log output enabled")
			}

			dirArg := "."
			if len(args) == 1 {
				dirArg = args[0]
			}

			defaults, err := config.LoadDefaults(dirArg)
			if err != nil {
				return err
			}

			raw := config.RawOptions{
				Dir:          dirArg,
				ChecksumFile: fileFlag,
			}
			raw.CreatePos, raw.VerifyPos = modeFlagPositions(argv)

			raw.Algorithm = defaults.Algorithm
			if cmd.Flags().Changed("algorithm") {
				raw.Algorithm = algorithmFlag
			}
			raw.Depth = defaults.Depth
			if cmd.Flags().Changed("depth") {
				raw.Depth = depthFlag
			}
			raw.Jobs = defaults.Jobs
			if cmd.Flags().Changed("jobs") {
				raw.Jobs = jobsFlag
			}
			if defaults.FollowSymlinks != nil {
				raw.FollowSymlinks = *defaults.FollowSymlinks
			}
			if cmd.Flags().Changed("follow-symlinks") {
				raw.FollowSymlinks = followSymlinksFlag
			}
			if defaults.NoCache != nil {
				raw.NoCache = *defaults.NoCache
			}
			if cmd.Flags().Changed("no-cache") {
				raw.NoCache = noCacheFlag
			}

			cfg, err := config.Resolve(raw)
			if err != nil {
				return err
			}

			log.Debug().
				Str("dir", cfg.Dir).
				Stringer("algorithm", cfg.Algorithm).
				Stringer("mode", cfg.Mode).
				Stringer("depth", cfg.Depth).
				Int("jobs", cfg.Jobs).
				Msg("configuration resolved")

			if cfg.Mode == config.ModeCreate {
				return runCreate(cmd, cfg)
			}
			return runVerify(cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&algorithmFlag, "algorithm", "a", "SHA1", "hashing algorithm to use")
	cmd.Flags().BoolVarP(&createFlag, "create", "c", false, "make checksums")
	cmd.Flags().BoolVarP(&verifyFlag, "verify", "v", false, "verify checksums (default)")
	cmd.Flags().StringVarP(&depthFlag, "depth", "d", "0", "max recursion depth, -1 for infinite")
	cmd.Flags().IntVarP(&jobsFlag, "jobs", "j", 0, "parallel hashing jobs (0 = all CPUs)")
	cmd.Flags().StringVarP(&fileFlag, "file", "f", "", "checksum file path (default DIRECTORY/<name>.hash)")
	cmd.Flags().BoolVar(&followSymlinksFlag, "follow-symlinks", false, "follow symbolic links")
	cmd.Flags().BoolVar(&noCacheFlag, "no-cache", false, "do not use the digest cache")
	cmd.Flags().BoolVar(&verboseFlag, "verbose", false, "verbose logging")

	return cmd
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// valueShorthands are the single-letter flags that consume a value; inside
// a shorthand cluster everything after one of these is its value.
const valueShorthands = "adjf"

// modeFlagPositions scans the argument vector for --create and --verify
// occurrences, including shorthand clusters like -cv, and returns the
// ordinal of the last one of each. Ordinals are -1 when the flag is absent;
// the higher ordinal is the flag given later.
func modeFlagPositions(argv []string) (createPos, verifyPos int) {
	createPos, verifyPos = -1, -1
	seq := 0
	for _, arg := range argv {
		switch {
		case arg == "--":
			return createPos, verifyPos
		case arg == "--create":
			seq++
			createPos = seq
		case arg == "--verify":
			seq++
			verifyPos = seq
		case len(arg) > 1 && arg[0] == '-' && arg[1] != '-':
			for _, r := range arg[1:] {
				if strings.ContainsRune(valueShorthands, r) {
					break
				}
				switch r {
				case 'c':
					seq++
					createPos = seq
				case 'v':
					seq++
					verifyPos = seq
				}
			}
		}
	}
	return createPos, verifyPos
}
