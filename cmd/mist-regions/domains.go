package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/mist-regions/internal/domains"
	"github.com/inodb/mist-regions/internal/output"
	"github.com/inodb/mist-regions/internal/pipeline"
	"github.com/inodb/mist-regions/internal/tsv"
)

func newDomainsCmd() *cobra.Command {
	var (
		format     string
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "domains [flags] <domain-file>",
		Short: "Resolve overlapping domain predictions per protein",
		Long: `Reduce the domain predictions of each protein to a non-overlapping set.

Overlaps whose e-values differ by more than the threshold are removed first,
keeping the domain with the better e-value. Remaining overlaps larger than the
tolerance are resolved in favour of the higher score.

Input is a domain TSV (protein_id, name, start, stop, score, evalue) or HMMER3
--domtblout output. Use '-' to read from stdin.`,
		Example: `  mist-regions domains hits.tsv
  mist-regions domains --format domtblout -o resolved.tsv pfam.domtblout.gz
  mist-regions domains --store results.duckdb hits.tsv`,
		Args: exactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, map[string]string{
				"domains.tolerance":          "tolerance",
				"domains.threshold":          "threshold",
				"domains.skip_insignificant": "skip-insignificant",
				"workers":                    "workers",
				"store.path":                 "store",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDomains(cmd.Context(), cmd.OutOrStdout(), args[0], format, outputFile)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&format, "format", "auto", "Input format: tsv, domtblout (auto-detected if not specified)")
	flags.StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	flags.Int("tolerance", domains.DefaultTolerance, "Overlap length ignored between domains")
	flags.Float64("threshold", domains.DefaultThreshold, "E-value difference above which an overlap is insignificant")
	flags.Bool("skip-insignificant", false, "Skip the e-value based overlap removal")
	flags.Int("workers", 0, "Number of parallel workers (0 = all CPUs)")
	flags.String("store", "", "DuckDB file to record results in")

	return cmd
}

func runDomains(ctx context.Context, stdout io.Writer, inputPath, format, outputFile string) error {
	if format == "" || format == "auto" {
		format = detectDomainFormat(inputPath)
	}
	df, err := tsv.ParseDomainFormat(format)
	if err != nil {
		return &usageError{err}
	}

	tolerance := viper.GetInt("domains.tolerance")
	if tolerance < 0 {
		return &usageError{fmt.Errorf("tolerance must be >= 0, got %d", tolerance)}
	}

	parser, err := tsv.NewDomainParser(inputPath, df)
	if err != nil {
		return err
	}
	defer parser.Close()

	proteins, err := tsv.ReadProteins(parser)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}
	logger.Info("loaded domain predictions",
		zap.String("path", inputPath),
		zap.String("format", string(df)),
		zap.Int("proteins", len(proteins)))

	resolver := domains.NewResolver()
	resolver.Tolerance = tolerance
	resolver.Threshold = viper.GetFloat64("domains.threshold")
	resolver.SkipInsignificant = viper.GetBool("domains.skip_insignificant")
	resolver.SetLogger(logger)

	out, closeOut, err := openOutput(stdout, outputFile)
	if err != nil {
		return err
	}
	defer closeOut()

	writer := output.NewDomainWriter(out)
	if err := writer.WriteHeader(); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	keys := make([]string, len(proteins))
	for i, p := range proteins {
		keys[i] = p.ID
	}

	var (
		resolved []*domains.Domain
		failed   int
	)
	results := pipeline.Run(ctx, pipeline.Feed(ctx, keys, proteins), viper.GetInt("workers"),
		func(p *tsv.Protein) ([]*domains.Domain, error) {
			return resolver.Resolve(p.Domains)
		})
	err = pipeline.OrderedCollect(results, func(r pipeline.Result[[]*domains.Domain]) error {
		if r.Err != nil {
			if ctx.Err() != nil {
				return r.Err
			}
			failed++
			logger.Warn("failed to resolve protein", zap.String("protein", r.Key), zap.Error(r.Err))
			return nil
		}
		resolved = append(resolved, r.Out...)
		return writer.Write(r.Key, r.Out)
	})
	if err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}

	if storePath := viper.GetString("store.path"); storePath != "" {
		if err := storeDomains(storePath, inputPath, resolved); err != nil {
			return err
		}
	}

	logger.Info("resolved domains",
		zap.Int("proteins", len(proteins)),
		zap.Int("domains", len(resolved)),
		zap.Int("failed", failed))
	if failed > 0 {
		return fmt.Errorf("%d of %d proteins failed", failed, len(proteins))
	}
	return nil
}

func storeDomains(storePath, inputPath string, ds []*domains.Domain) error {
	store, runID, err := startStoreRun(storePath, "domains", inputPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.WriteDomains(runID, ds); err != nil {
		return fmt.Errorf("storing domains: %w", err)
	}
	return nil
}

// detectDomainFormat detects the domain file format based on extension or content.
func detectDomainFormat(path string) string {
	lowerPath := strings.TrimSuffix(strings.ToLower(path), ".gz")
	if strings.HasSuffix(lowerPath, ".domtblout") || strings.HasSuffix(lowerPath, ".domtbl") {
		return string(tsv.FormatDomtblout)
	}
	if strings.HasSuffix(lowerPath, ".tsv") || path == "-" {
		return string(tsv.FormatTSV)
	}

	p, err := tsv.NewDomainParser(path, tsv.FormatDomtblout)
	if err != nil {
		return string(tsv.FormatTSV)
	}
	defer p.Close()
	if d, err := p.Next(); err == nil && d != nil {
		return string(tsv.FormatDomtblout)
	}
	return string(tsv.FormatTSV)
}

// openOutput returns the named file, or stdout when name is empty.
func openOutput(stdout io.Writer, name string) (io.Writer, func(), error) {
	if name == "" {
		return stdout, func() {}, nil
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}
