package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/mist-regions/internal/cluster"
	"github.com/inodb/mist-regions/internal/duckdb"
	"github.com/inodb/mist-regions/internal/output"
	"github.com/inodb/mist-regions/internal/pipeline"
	"github.com/inodb/mist-regions/internal/tsv"
)

func newClustersCmd() *cobra.Command {
	var (
		repliconFile string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "clusters [flags] <gene-file>",
		Short: "Group adjacent same-strand genes into clusters",
		Long: `Find runs of at least two adjacent genes on the same strand whose
intergenic gaps are within the distance cutoff.

The gene file has columns replicon_id, gene_id, start, stop, strand. Circular
replicons need their length, given in a replicon table (replicon_id, length,
topology) via --replicons. Use '-' to read genes from stdin.`,
		Example: `  mist-regions clusters genes.tsv
  mist-regions clusters --replicons replicons.tsv --cutoff 150 genes.tsv.gz
  mist-regions clusters --store results.duckdb --replicons replicons.tsv genes.tsv`,
		Args: exactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, map[string]string{
				"clusters.cutoff":   "cutoff",
				"clusters.circular": "circular",
				"workers":           "workers",
				"store.path":        "store",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClusters(cmd.Context(), cmd.OutOrStdout(), args[0], repliconFile, outputFile)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&repliconFile, "replicons", "", "Replicon table with lengths and topology")
	flags.StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	flags.Int64("cutoff", cluster.DefaultDistanceCutoff, "Maximum intergenic distance in bp")
	flags.Bool("circular", false, "Treat replicons missing from the replicon table as circular")
	flags.Int("workers", 0, "Number of parallel workers (0 = all CPUs)")
	flags.String("store", "", "DuckDB file to record results in")

	return cmd
}

func runClusters(ctx context.Context, stdout io.Writer, inputPath, repliconFile, outputFile string) error {
	cutoff := viper.GetInt64("clusters.cutoff")
	if cutoff < 0 {
		return &usageError{fmt.Errorf("cutoff must be >= 0, got %d", cutoff)}
	}

	var info map[string]tsv.RepliconInfo
	if repliconFile != "" {
		var err error
		info, err = tsv.ReadRepliconTable(repliconFile)
		if err != nil {
			return fmt.Errorf("reading %s: %w", repliconFile, err)
		}
	}

	parser, err := tsv.NewGeneParser(inputPath)
	if err != nil {
		return err
	}
	defer parser.Close()

	replicons, err := tsv.ReadReplicons(parser, info, viper.GetBool("clusters.circular"))
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}
	logger.Info("loaded genes",
		zap.String("path", inputPath),
		zap.Int("replicons", len(replicons)),
		zap.Int64("cutoff", cutoff))

	var store *duckdb.Store
	var runID string
	if storePath := viper.GetString("store.path"); storePath != "" {
		store, runID, err = startStoreRun(storePath, "clusters", inputPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	out, closeOut, err := openOutput(stdout, outputFile)
	if err != nil {
		return err
	}
	defer closeOut()

	writer := output.NewClusterWriter(out)
	if err := writer.WriteHeader(); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	keys := make([]string, len(replicons))
	for i, r := range replicons {
		keys[i] = r.ID
	}

	finder := cluster.NewFinder(cutoff)
	var total, failed int
	results := pipeline.Run(ctx, pipeline.Feed(ctx, keys, replicons), viper.GetInt("workers"),
		finder.FindRepliconClusters)
	err = pipeline.OrderedCollect(results, func(r pipeline.Result[[]*cluster.Cluster]) error {
		if r.Err != nil {
			if ctx.Err() != nil {
				return r.Err
			}
			failed++
			logger.Warn("failed to cluster replicon", zap.String("replicon", r.Key), zap.Error(r.Err))
			return nil
		}
		total += len(r.Out)
		logger.Debug("clustered replicon", zap.String("replicon", r.Key), zap.Int("clusters", len(r.Out)))
		if err := writer.Write(r.Key, r.Out); err != nil {
			return err
		}
		if store != nil {
			if err := store.WriteClusters(runID, r.Key, r.Out); err != nil {
				return fmt.Errorf("storing clusters for %s: %w", r.Key, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}

	logger.Info("found gene clusters",
		zap.Int("replicons", len(replicons)),
		zap.Int("clusters", total),
		zap.Int("failed", failed))
	if failed > 0 {
		return fmt.Errorf("%d of %d replicons failed", failed, len(replicons))
	}
	return nil
}

// startStoreRun opens the store and records a run for inputPath.
func startStoreRun(storePath, command, inputPath string) (*duckdb.Store, string, error) {
	store, err := duckdb.Open(storePath)
	if err != nil {
		return nil, "", err
	}
	fp, err := duckdb.StatFile(inputPath)
	if err != nil {
		store.Close()
		return nil, "", err
	}
	runID, err := store.StartRun(command, fp)
	if err != nil {
		store.Close()
		return nil, "", err
	}
	logger.Info("recording run", zap.String("store", storePath), zap.String("run_id", runID))
	return store, runID, nil
}
