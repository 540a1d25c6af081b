// Package datarecording stores replayed accesses and final statistics
// in a SQLite database for later inspection.
package datarecording

import (
	"database/sql"
	"fmt"
	"os"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/csim/cache"
	"github.com/sarchlab/csim/trace"
)

// An accessEntry is one row of the trace_accesses table.
type accessEntry struct {
	Seq     uint64
	Op      string
	Address uint64
	Size    uint64
	SetID   int
	Tag     uint64
	Outcome string
}

// SQLiteRecorder writes replayed accesses into a SQLite database. It
// implements replay.Recorder.
type SQLiteRecorder struct {
	*sql.DB
	statement *sql.Stmt

	dbName    string
	buffered  []accessEntry
	batchSize int
}

// NewSQLiteRecorder creates a recorder backed by the database file
// path.sqlite3. An empty path picks a unique name.
func NewSQLiteRecorder(path string) *SQLiteRecorder {
	r := &SQLiteRecorder{
		dbName:    path,
		batchSize: 100000,
	}

	r.init()

	atexit.Register(func() { r.Flush() })

	return r
}

// init establishes a connection to the database and creates the tables.
func (r *SQLiteRecorder) init() {
	if r.dbName == "" {
		r.dbName = "csim_" + xid.New().String()
	}

	filename := r.dbName + ".sqlite3"

	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	fmt.Fprintf(os.Stderr, "Database created for recording: %s\n", filename)

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	r.DB = db

	r.mustExecute(`CREATE TABLE trace_accesses (
		seq INTEGER,
		op TEXT,
		address INTEGER,
		size INTEGER,
		set_id INTEGER,
		tag INTEGER,
		outcome TEXT
	)`)
	r.mustExecute(`CREATE TABLE final_stats (
		hits INTEGER,
		misses INTEGER,
		evictions INTEGER,
		dirty_bytes_resident INTEGER,
		dirty_bytes_evicted INTEGER
	)`)

	r.statement, err = r.Prepare(
		"INSERT INTO trace_accesses VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		panic(err)
	}
}

// RecordAccess buffers one replayed access for insertion.
func (r *SQLiteRecorder) RecordAccess(
	seq uint64,
	record trace.Record,
	result cache.AccessResult,
) {
	r.buffered = append(r.buffered, accessEntry{
		Seq:     seq,
		Op:      record.Op.String(),
		Address: record.Address,
		Size:    record.Size,
		SetID:   result.SetID,
		Tag:     result.Tag,
		Outcome: result.String(),
	})

	if len(r.buffered) >= r.batchSize {
		r.Flush()
	}
}

// RecordStats writes the final statistics of the replay.
func (r *SQLiteRecorder) RecordStats(stats cache.Stats) {
	r.Flush()

	_, err := r.Exec(
		"INSERT INTO final_stats VALUES (?, ?, ?, ?, ?)",
		stats.Hits,
		stats.Misses,
		stats.Evictions,
		stats.DirtyBytesResident,
		stats.DirtyBytesEvicted,
	)
	if err != nil {
		panic(err)
	}
}

// Flush writes all the buffered accesses to the database.
func (r *SQLiteRecorder) Flush() {
	if len(r.buffered) == 0 {
		return
	}

	r.mustExecute("BEGIN TRANSACTION")
	defer r.mustExecute("COMMIT TRANSACTION")

	for _, entry := range r.buffered {
		_, err := r.statement.Exec(
			entry.Seq,
			entry.Op,
			entry.Address,
			entry.Size,
			entry.SetID,
			entry.Tag,
			entry.Outcome,
		)
		if err != nil {
			panic(err)
		}
	}

	r.buffered = nil
}

func (r *SQLiteRecorder) mustExecute(query string) {
	_, err := r.Exec(query)
	if err != nil {
		panic(err)
	}
}
