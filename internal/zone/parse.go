package zone

import (
	"fmt"
	"strconv"
	"strings"
)

// fieldCount is the number of whitespace-separated columns in one
// zonememstat line: zonename, alias, rss, cap, nover, pout, swap.
const fieldCount = 7

// ParseError describes why a line could not be parsed into a MemStat.
type ParseError struct {
	Line  string // the offending input line
	Field string // column name, or "fields" for a count mismatch
	Token string // the token that failed to parse, if any
	Err   error  // underlying strconv error, if any
}

func (e *ParseError) Error() string {
	if e.Field == "fields" {
		return fmt.Sprintf("parsing zonememstat line: expected %d fields, got %s", fieldCount, e.Token)
	}
	return fmt.Sprintf("parsing zonememstat field %s: %q: %v", e.Field, e.Token, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseLine converts one line of `zonememstat -H -a` output into a MemStat.
//
// The line is split on runs of whitespace and must yield exactly seven
// fields. An alias of `-` means the zone has no alias. A swap value that
// does not parse as a float means swap is not accounted for that zone
// (the global zone prints a placeholder there); that is never an error.
// All other fields must parse as their required types.
func ParseLine(line string) (MemStat, error) {
	fields := strings.Fields(line)
	if len(fields) != fieldCount {
		return MemStat{}, &ParseError{
			Line:  line,
			Field: "fields",
			Token: strconv.Itoa(len(fields)),
		}
	}

	var m MemStat
	m.Zonename = fields[0]

	if fields[1] != "-" {
		m.Alias = SomeAlias(fields[1])
	}

	var err error
	if m.RSS, err = strconv.ParseUint(fields[2], 10, 64); err != nil {
		return MemStat{}, &ParseError{Line: line, Field: "rss", Token: fields[2], Err: err}
	}
	// Cap 0 means unlimited; it is a valid value, not a parse failure.
	if m.Cap, err = strconv.ParseUint(fields[3], 10, 64); err != nil {
		return MemStat{}, &ParseError{Line: line, Field: "cap", Token: fields[3], Err: err}
	}
	nover, err := strconv.ParseUint(fields[4], 10, 32)
	if err != nil {
		return MemStat{}, &ParseError{Line: line, Field: "nover", Token: fields[4], Err: err}
	}
	m.NOver = uint32(nover)
	if m.POut, err = strconv.ParseUint(fields[5], 10, 64); err != nil {
		return MemStat{}, &ParseError{Line: line, Field: "pout", Token: fields[5], Err: err}
	}

	// Swap degrades to absent on any parse failure: the global zone
	// legitimately has no swap percentage.
	if pct, err := strconv.ParseFloat(fields[6], 64); err == nil {
		m.Swap = SomeSwap(pct)
	}

	return m, nil
}
