// Package cmd provides the command-line interface for csim.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/csim/cache"
	"github.com/sarchlab/csim/datarecording"
	"github.com/sarchlab/csim/replay"
	"github.com/sarchlab/csim/trace"
)

var (
	setIndexBits    int
	blockOffsetBits int
	linesPerSet     int
	traceFileName   string
	verbose         bool
	recordDBName    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "csim -s <s> -E <E> -b <b> -t <trace>",
	Short: "csim replays a memory trace against a set-associative cache model.",
	Long: `csim replays a memory trace against a model of a set-associative, ` +
		`write-back cache and reports hit, miss, eviction, and dirty-byte ` +
		`statistics for the configured geometry.`,
	RunE: runSimulation,
}

func init() {
	rootCmd.Flags().IntVarP(&setIndexBits, "set-index-bits", "s", 0,
		"number of set index bits (there are 2^s sets)")
	rootCmd.Flags().IntVarP(&blockOffsetBits, "block-offset-bits", "b", 0,
		"number of block offset bits (blocks are 2^b bytes)")
	rootCmd.Flags().IntVarP(&linesPerSet, "lines-per-set", "E", 1,
		"number of lines per set (associativity)")
	rootCmd.Flags().StringVarP(&traceFileName, "trace", "t", "",
		"file name of the memory trace to process")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"report the effect of each memory operation")
	rootCmd.Flags().StringVar(&recordDBName, "record", "",
		"record every access into a SQLite database with the given name")

	must(rootCmd.MarkFlagRequired("set-index-bits"))
	must(rootCmd.MarkFlagRequired("block-offset-bits"))
	must(rootCmd.MarkFlagRequired("lines-per-set"))
	must(rootCmd.MarkFlagRequired("trace"))
}

func runSimulation(cmd *cobra.Command, _ []string) error {
	model, err := cache.MakeBuilder().
		WithSetIndexBits(setIndexBits).
		WithBlockOffsetBits(blockOffsetBits).
		WithWayAssociativity(linesPerSet).
		Build()
	if err != nil {
		return err
	}

	traceFile, err := os.Open(traceFileName)
	if err != nil {
		return fmt.Errorf("cannot open trace file: %w", err)
	}
	defer traceFile.Close()

	// Configuration and trace source are validated; later failures are
	// not usage errors.
	cmd.SilenceUsage = true

	builder := replay.MakeBuilder().WithModel(model)
	if verbose {
		builder = builder.WithVerboseOutput(cmd.OutOrStdout())
	}

	if cmd.Flags().Changed("record") {
		builder = builder.WithRecorder(
			datarecording.NewSQLiteRecorder(recordDBName))
	}

	stats, err := builder.Build().Run(trace.NewScanner(traceFile))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(),
		"hits:%d misses:%d evictions:%d "+
			"dirty_bytes_in_cache:%d dirty_bytes_evicted:%d\n",
		stats.Hits,
		stats.Misses,
		stats.Evictions,
		stats.DirtyBytesResident,
		stats.DirtyBytesEvicted,
	)

	return nil
}

// Execute runs the root command and sets the exit status appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
