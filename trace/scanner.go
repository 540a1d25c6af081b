package trace

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/sarchlab/csim/cache"
)

// A Scanner yields the data-access records of a trace, in order.
// Instruction records (`I`) and blank lines are skipped; data records
// carry leading whitespace before the address.
type Scanner struct {
	s       *bufio.Scanner
	lineNum int
	record  Record
	err     error
}

// NewScanner creates a Scanner that reads trace lines from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{s: bufio.NewScanner(r)}
}

// Scan advances to the next data-access record. It returns false at the
// end of the trace or on the first malformed record, which Err then
// reports.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}

	for s.s.Scan() {
		s.lineNum++
		line := s.s.Text()

		record, skip, err := s.parseLine(line)
		if err != nil {
			s.err = err
			return false
		}

		if skip {
			continue
		}

		s.record = record
		return true
	}

	s.err = s.s.Err()

	return false
}

// Record returns the record read by the last successful Scan.
func (s *Scanner) Record() Record {
	return s.record
}

// Err returns the error that stopped the Scanner, if any.
func (s *Scanner) Err() error {
	return s.err
}

func (s *Scanner) parseLine(line string) (record Record, skip bool, err error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Record{}, true, nil
	}

	// Instruction fetches appear in valgrind traces but are not data
	// accesses.
	if trimmed[0] == 'I' {
		return Record{}, true, nil
	}

	var op cache.Op
	switch trimmed[0] {
	case 'L':
		op = cache.Load
	case 'S':
		op = cache.Store
	default:
		return Record{}, false, s.malformed(line, "unknown operation")
	}

	fields := strings.TrimSpace(trimmed[1:])

	comma := strings.IndexByte(fields, ',')
	if comma < 0 {
		return Record{}, false, s.malformed(line, "missing comma separator")
	}

	// An optional 0x prefix is accepted; the address stays hexadecimal
	// either way.
	hexAddr := strings.TrimPrefix(strings.TrimPrefix(fields[:comma], "0x"), "0X")

	addr, err := strconv.ParseUint(hexAddr, 16, 64)
	if err != nil {
		return Record{}, false, s.malformed(line, "unparsable address")
	}

	size, err := strconv.ParseUint(strings.TrimSpace(fields[comma+1:]), 10, 64)
	if err != nil {
		return Record{}, false, s.malformed(line, "unparsable size")
	}

	return Record{Op: op, Address: addr, Size: size}, false, nil
}

func (s *Scanner) malformed(line, reason string) error {
	return &MalformedRecordError{
		LineNum: s.lineNum,
		Line:    line,
		Reason:  reason,
	}
}
