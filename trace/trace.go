// Package trace reads memory-access traces in the valgrind-style
// format `<op> <hexaddress>,<size>`, one record per line.
package trace

import (
	"fmt"

	"github.com/sarchlab/csim/cache"
)

// A Record is one parsed data access from the trace.
type Record struct {
	Op      cache.Op
	Address uint64
	Size    uint64
}

// A MalformedRecordError reports a trace line that claims to be a data
// access but does not parse. The replay aborts on the first one.
type MalformedRecordError struct {
	LineNum int
	Line    string
	Reason  string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed trace record at line %d (%q): %s",
		e.LineNum, e.Line, e.Reason)
}
