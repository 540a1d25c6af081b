// Package replay feeds a trace to a cache model, one access at a time,
// in program order.
package replay

import (
	"fmt"
	"io"

	"github.com/sarchlab/csim/cache"
	"github.com/sarchlab/csim/trace"
)

// A Recorder receives every replayed access and the final statistics.
type Recorder interface {
	RecordAccess(seq uint64, record trace.Record, result cache.AccessResult)
	RecordStats(stats cache.Stats)
}

// A Driver replays a full trace against one cache model. The replay is
// strictly sequential: the statistics observed after access i are the
// cumulative effect of accesses 1..i in trace order.
type Driver struct {
	model         *cache.Model
	recorder      Recorder
	verboseOutput io.Writer

	seq uint64
}

// Builder can build drivers.
type Builder struct {
	model         *cache.Model
	recorder      Recorder
	verboseOutput io.Writer
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{}
}

// WithModel sets the cache model to replay against.
func (b Builder) WithModel(model *cache.Model) Builder {
	b.model = model
	return b
}

// WithRecorder sets an optional recorder that observes every access.
func (b Builder) WithRecorder(recorder Recorder) Builder {
	b.recorder = recorder
	return b
}

// WithVerboseOutput enables per-access reporting to w.
func (b Builder) WithVerboseOutput(w io.Writer) Builder {
	b.verboseOutput = w
	return b
}

// Build builds a driver.
func (b Builder) Build() *Driver {
	if b.model == nil {
		panic("replay driver requires a cache model")
	}

	return &Driver{
		model:         b.model,
		recorder:      b.recorder,
		verboseOutput: b.verboseOutput,
	}
}

// Run replays every record the scanner yields and returns the final
// statistics. It aborts on the first malformed record; the partial
// statistics are withheld in that case, as the input stream is known to
// be inconsistent. Verbose lines already emitted still stand.
func (d *Driver) Run(scanner *trace.Scanner) (cache.Stats, error) {
	d.seq = 0

	for scanner.Scan() {
		record := scanner.Record()
		result := d.model.Access(record.Op, record.Address)
		d.seq++

		if d.verboseOutput != nil {
			fmt.Fprintf(d.verboseOutput, "%s %x,%d %s\n",
				record.Op, record.Address, record.Size, result)
		}

		if d.recorder != nil {
			d.recorder.RecordAccess(d.seq, record, result)
		}
	}

	if err := scanner.Err(); err != nil {
		return cache.Stats{}, fmt.Errorf("replay aborted: %w", err)
	}

	stats := d.model.Stats()

	if d.recorder != nil {
		d.recorder.RecordStats(stats)
	}

	return stats, nil
}
