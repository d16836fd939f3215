package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"genomicseq/internal/config"
	"genomicseq/internal/extract"
	"genomicseq/internal/logging"
	"genomicseq/internal/ncbi"
	"genomicseq/internal/seqstore"
)

// version is the program version. It can be overridden at build time with -ldflags "-X main.version=..."
var version = "0.1.0"

// newRootCmd builds the genomicseq command. Diagnostics go to stderr.
func newRootCmd(stderr *os.File) *cobra.Command {
	v := config.NewViper()
	var configPath string

	cmd := &cobra.Command{
		Use:   "genomicseq -i GENOME_SEQ -l LOC_LIST -o OUT_FILE",
		Short: "Retrieve genomic locations from a reference genome",
		Long: `Retrieve genomic locations from a reference genome.

Each line of the location list has the form chromosome:begin-end for the plus
strand or chromosome:end-begin for the minus strand, which is written as the
reverse complement. Coordinates are 1-based and inclusive. The chromosome must
equal a FASTA header of the reference genome exactly.

The reference genome may be a FASTA file (optionally gzip-compressed), "-" for
standard input, or ncbi:ACCESSION[,ACCESSION...] to fetch it from NCBI.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(v, configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("%w; please type \"%s -h\" to view the help information", err, cmd.Root().Name())
			}

			logger, closeLog, err := logging.New(logging.Options{
				Stderr:  stderr,
				LogFile: cfg.LogFile,
				Level:   cfg.LogLevel,
				Verbose: cfg.Verbose,
			})
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer func() { _ = closeLog() }()

			logger.Debug("loaded config", "genome", cfg.Genome, "locations", cfg.Locations, "output", cfg.Output,
				"log_file", cfg.LogFile, "log_level", cfg.LogLevel, "bounds", cfg.Bounds)
			return run(cmd.Context(), cfg, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringP("genome", "i", "", "the reference genome sequence in FASTA format (mandatory)")
	flags.StringP("locations", "l", "", "the file containing the requested genomic locations, one per line (mandatory)")
	flags.StringP("output", "o", "", "the file to write the output to (mandatory)")
	flags.StringVar(&configPath, "config", "", "path to a JSON config file (default ./"+config.DefaultConfigFile+" if present)")
	flags.String("log-level", "", "debug, info, warn or error")
	flags.String("log-file", "", "also append diagnostics to this file")
	flags.BoolP("verbose", "v", false, "enable verbose (debug) logging")
	flags.String("bounds", "", "what to do with locations past the sequence ends: strict or clamp")
	flags.String("ncbi-cache", "", "path of the NCBI response cache")

	bindFlags(v, cmd, map[string]string{
		"genome":          "genome",
		"locations":       "locations",
		"output":          "output",
		"log_level":       "log-level",
		"log_file":        "log-file",
		"verbose":         "verbose",
		"bounds":          "bounds",
		"ncbi_cache_path": "ncbi-cache",
	})
	return cmd
}

func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// configureNCBI applies the ncbi_* settings.
func configureNCBI(cfg *config.Config, logger *log.Logger) {
	if cfg.NcbiCachePath != "" {
		p := cfg.NcbiCachePath
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		ncbi.SetCacheFilePath(p)
		logger.Debug("ncbi cache path set from config", "path", p)
	}
	if cfg.NcbiApiKey != "" {
		ncbi.SetAPIKey(cfg.NcbiApiKey)
		logger.Debug("ncbi api key provided in config (not logged)")
	}
	// always set: the key has a default, and zero turns expiry off
	ncbi.SetCacheTTLSeconds(cfg.NcbiCacheTTLSecs)
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	bounds, err := extract.ParseBounds(cfg.Bounds)
	if err != nil {
		return err
	}
	if cfg.Genome == "-" && cfg.Locations == "-" {
		return errors.New("the reference genome and the location list cannot both be read from standard input")
	}

	start := time.Now()
	if strings.HasPrefix(cfg.Genome, seqstore.NCBIPrefix) {
		configureNCBI(cfg, logger)
		defer func() {
			if err := ncbi.FlushCache(); err != nil {
				logger.Warn("failed to write ncbi cache", "err", err)
			}
		}()
	}
	store, err := seqstore.Load(ctx, cfg.Genome)
	if err != nil {
		return fmt.Errorf("load reference genome: %w", err)
	}
	logger.Info("loaded reference genome", "path", cfg.Genome, "records", store.Len(), "duration_ms", time.Since(start).Milliseconds())

	in, err := openInput(cfg.Locations)
	if err != nil {
		return fmt.Errorf("open location list: %w", err)
	}
	defer in.Close()

	out, err := createOutput(cfg.Output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	ex := extract.New(store, extract.WithBounds(bounds), extract.WithLogger(logger))
	sum, runErr := ex.Run(ctx, in, out)
	if err := out.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("close output: %w", err)
	}
	logger.Info("finished", "lines", sum.Lines, "records", sum.Records, "malformed", sum.Malformed,
		"not_found", sum.NotFound, "out_of_range", sum.OutOfRange, "duration_ms", time.Since(start).Milliseconds())
	return runErr
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func createOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stderr).ExecuteContext(ctx); err != nil {
		logger := log.New(os.Stderr)
		if errors.Is(err, config.ErrMissingMandatoryArgument) {
			logger.Error(err.Error())
			logger.Error("Abort.")
		} else {
			logger.Error("genomicseq failed", "err", err)
		}
		stop()
		os.Exit(1)
	}
}
